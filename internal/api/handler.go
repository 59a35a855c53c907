// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github-portfolio/internal/metrics"
	"github-portfolio/internal/model"
	"github-portfolio/internal/portfolio"
	"github-portfolio/internal/syncer"
)

// Service is the application layer behind the routes.
type Service interface {
	CreateAccount(ctx context.Context, username, accessToken string) (model.Account, error)
	Sync(ctx context.Context, accountID int64) (syncer.Result, error)
	Dashboard(ctx context.Context, accountID int64) (portfolio.Dashboard, error)
	Snapshots(ctx context.Context, accountID int64, limit int) ([]model.ProfileSnapshot, error)
	GetProfile(ctx context.Context, accountID int64) (model.Profile, error)
	UpdateProfile(ctx context.Context, accountID int64, in portfolio.ProfileInput) (model.Profile, error)
	GetPreferences(ctx context.Context, accountID int64) (model.Preferences, error)
	UpdatePreferences(ctx context.Context, accountID int64, in portfolio.PreferencesInput) (model.Preferences, error)
	ListHighlights(ctx context.Context, accountID int64) ([]model.Highlight, error)
	CreateHighlight(ctx context.Context, accountID int64, in portfolio.HighlightInput) (model.Highlight, error)
	DeleteHighlight(ctx context.Context, accountID, highlightID int64) error
	ReorderHighlights(ctx context.Context, accountID int64, order []int64) ([]model.Highlight, error)
	PublicView(ctx context.Context, username string) (portfolio.PublicView, error)
	Compare(ctx context.Context, usernames []string) ([]portfolio.Comparison, error)
	PublicPortfolio(ctx context.Context, username string) (portfolio.Portfolio, error)
}

// Handler is the container for API dependencies.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(svc Service, logger *slog.Logger) http.Handler {
	h := &Handler{
		svc:    svc,
		logger: logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.healthCheck)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/accounts", h.createAccount)
		r.Route("/accounts/{accountID}", func(r chi.Router) {
			r.Post("/sync", h.syncAccount)
			r.Get("/dashboard", h.getDashboard)
			r.Get("/snapshots", h.getSnapshots)
			r.Get("/profile", h.getProfile)
			r.Put("/profile", h.updateProfile)
			r.Get("/preferences", h.getPreferences)
			r.Put("/preferences", h.updatePreferences)
			r.Get("/highlights", h.listHighlights)
			r.Post("/highlights", h.createHighlight)
			r.Put("/highlights/order", h.reorderHighlights)
			r.Delete("/highlights/{highlightID}", h.deleteHighlight)
		})
		r.Get("/users/{username}", h.getPublicView)
		r.Get("/compare", h.compareUsers)
		r.Get("/portfolio/{username}", h.getPortfolio)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createAccountRequest struct {
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
}

// createAccount stands in for the OAuth callback: it receives an already
// exchanged access token.
// POST /v1/accounts
func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	acct, err := h.svc.CreateAccount(r.Context(), strings.TrimSpace(req.Username), strings.TrimSpace(req.AccessToken))
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, acct)
}

// POST /v1/accounts/{accountID}/sync
func (h *Handler) syncAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountID")
	if !ok {
		return
	}
	res, err := h.svc.Sync(r.Context(), accountID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// GET /v1/accounts/{accountID}/dashboard
func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountID")
	if !ok {
		return
	}
	d, err := h.svc.Dashboard(r.Context(), accountID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, d)
}

// GET /v1/accounts/{accountID}/snapshots?limit=N
func (h *Handler) getSnapshots(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountID")
	if !ok {
		return
	}
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 || n > 100 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter. Must be an integer between 1 and 100.")
			return
		}
		limit = n
	}
	snaps, err := h.svc.Snapshots(r.Context(), accountID, limit)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, snaps)
}

// GET /v1/accounts/{accountID}/profile
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountID")
	if !ok {
		return
	}
	p, err := h.svc.GetProfile(r.Context(), accountID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

// PUT /v1/accounts/{accountID}/profile
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountID")
	if !ok {
		return
	}
	var in portfolio.ProfileInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.svc.UpdateProfile(r.Context(), accountID, in)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

// GET /v1/accounts/{accountID}/preferences
func (h *Handler) getPreferences(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountID")
	if !ok {
		return
	}
	p, err := h.svc.GetPreferences(r.Context(), accountID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

// PUT /v1/accounts/{accountID}/preferences
func (h *Handler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountID")
	if !ok {
		return
	}
	var in portfolio.PreferencesInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.svc.UpdatePreferences(r.Context(), accountID, in)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

// GET /v1/accounts/{accountID}/highlights
func (h *Handler) listHighlights(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountID")
	if !ok {
		return
	}
	hs, err := h.svc.ListHighlights(r.Context(), accountID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, hs)
}

// POST /v1/accounts/{accountID}/highlights
func (h *Handler) createHighlight(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountID")
	if !ok {
		return
	}
	var in portfolio.HighlightInput
	if !decodeJSON(w, r, &in) {
		return
	}
	hl, err := h.svc.CreateHighlight(r.Context(), accountID, in)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, hl)
}

// DELETE /v1/accounts/{accountID}/highlights/{highlightID}
func (h *Handler) deleteHighlight(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountID")
	if !ok {
		return
	}
	highlightID, ok := pathID(w, r, "highlightID")
	if !ok {
		return
	}
	if err := h.svc.DeleteHighlight(r.Context(), accountID, highlightID); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	Order []int64 `json:"order"`
}

// PUT /v1/accounts/{accountID}/highlights/order
func (h *Handler) reorderHighlights(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(w, r, "accountID")
	if !ok {
		return
	}
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	hs, err := h.svc.ReorderHighlights(r.Context(), accountID, req.Order)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, hs)
}

// getPublicView renders any GitHub user's public data.
// GET /v1/users/{username}
func (h *Handler) getPublicView(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	v, err := h.svc.PublicView(r.Context(), username)
	if err != nil {
		h.respondWithProviderError(w, r, username, err)
		return
	}
	respondWithJSON(w, http.StatusOK, v)
}

// compareUsers accepts repeated or comma-separated users parameters.
// GET /v1/compare?users=a&users=b
func (h *Handler) compareUsers(w http.ResponseWriter, r *http.Request) {
	var names []string
	for _, v := range r.URL.Query()["users"] {
		names = append(names, strings.Split(v, ",")...)
	}
	out, err := h.svc.Compare(r.Context(), names)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// GET /v1/portfolio/{username}
func (h *Handler) getPortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.PublicPortfolio(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid '"+param+"' path parameter.")
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
