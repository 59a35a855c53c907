// internal/api/response.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	custom_errors "github-portfolio/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

// respondWithServiceError maps the error taxonomy onto HTTP statuses.
func (h *Handler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *custom_errors.ValidationError
		rateLimitErr  *custom_errors.RateLimitExceededError
	)
	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, custom_errors.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, custom_errors.ErrSyncInProgress):
		respondWithError(w, http.StatusConflict, "A sync is already running for this account")
	case errors.As(err, &rateLimitErr):
		w.Header().Set("Retry-After", strconv.Itoa(rateLimitErr.ResetSeconds))
		respondWithError(w, http.StatusTooManyRequests,
			fmt.Sprintf("GitHub API rate limit exceeded. Try again in %d seconds.", rateLimitErr.ResetSeconds))
	default:
		h.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// respondWithProviderError maps GitHub failures on the public pages.
func (h *Handler) respondWithProviderError(w http.ResponseWriter, r *http.Request, username string, err error) {
	var (
		validationErr *custom_errors.ValidationError
		rateLimitErr  *custom_errors.RateLimitExceededError
	)
	switch {
	case errors.As(err, &validationErr):
		respondWithError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &rateLimitErr):
		w.Header().Set("Retry-After", strconv.Itoa(rateLimitErr.ResetSeconds))
		respondWithError(w, http.StatusTooManyRequests,
			fmt.Sprintf("GitHub API rate limit exceeded for %s. Try again in %d seconds.", username, rateLimitErr.ResetSeconds))
	case custom_errors.IsNotFound(err):
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("GitHub user %s not found", username))
	default:
		h.logger.Warn("GitHub request failed", "path", r.URL.Path, "user", username, "error", err)
		respondWithError(w, http.StatusBadGateway, "Could not load GitHub data right now, please try again.")
	}
}
