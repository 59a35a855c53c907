// internal/portfolio/service.go

// Package portfolio assembles the JSON render contexts served by the API and
// owns the user-editable state: highlights, profile details and preferences.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github-portfolio/internal/database"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
	"github-portfolio/internal/stats"
	"github-portfolio/internal/syncer"
)

const (
	dashboardTopRepos    = 12
	defaultSnapshotLimit = 20
	maxSnapshotLimit     = 100
)

// AccountSyncer runs the ingest pipeline for one account.
type AccountSyncer interface {
	SyncAccount(ctx context.Context, accountID int64) (syncer.Result, error)
}

// PublicProvider is the anonymous GitHub client used for public pages.
type PublicProvider interface {
	GetUser(ctx context.Context, name string) (model.GitHubUser, error)
	ListRepositories(ctx context.Context, name string) ([]model.Repository, error)
	ListPublicEvents(ctx context.Context, name string) ([]model.Event, error)
}

type Service struct {
	store  database.Store
	syncer AccountSyncer
	public PublicProvider
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store database.Store, syncer AccountSyncer, public PublicProvider, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		syncer: syncer,
		public: public,
		logger: logger,
		now:    time.Now,
	}
}

// Dashboard is the owner's view of their synced data.
type Dashboard struct {
	Account         model.Account             `json:"account"`
	Sync            *syncer.Result            `json:"sync,omitempty"`
	SyncError       string                    `json:"sync_error,omitempty"`
	Profile         model.Profile             `json:"profile"`
	Preferences     model.Preferences         `json:"preferences"`
	TopRepositories []model.Repository        `json:"top_repositories"`
	Highlights      []model.Highlight         `json:"highlights"`
	Languages       Chart                     `json:"languages"`
	WeeklyCommits   []model.WeeklyCommitTotal `json:"weekly_commits"`
	Summary         stats.Summary             `json:"summary"`
}

// CreateAccount registers a local account and, when a token is given, links
// it as the account's GitHub identity.
func (s *Service) CreateAccount(ctx context.Context, username, accessToken string) (model.Account, error) {
	if err := validateUsername("username", username); err != nil {
		return model.Account{}, err
	}
	if _, err := s.store.GetAccountByUsername(ctx, username); err == nil {
		return model.Account{}, &custom_errors.ValidationError{Field: "username", Reason: "already taken"}
	} else if !errors.Is(err, custom_errors.ErrNotFound) {
		return model.Account{}, err
	}

	var acct model.Account
	err := s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		acct, err = q.CreateAccount(ctx, username)
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		if accessToken == "" {
			return nil
		}
		return q.UpsertOAuthIdentity(ctx, database.UpsertOAuthIdentityParams{
			AccountID:   acct.ID,
			Provider:    syncer.ProviderGitHub,
			AccessToken: accessToken,
		})
	})
	if errors.Is(err, custom_errors.ErrAlreadyExists) {
		// Lost a race with a concurrent request for the same name.
		return model.Account{}, &custom_errors.ValidationError{Field: "username", Reason: "already taken"}
	}
	return acct, err
}

// Sync runs the ingest pipeline for an existing account.
func (s *Service) Sync(ctx context.Context, accountID int64) (syncer.Result, error) {
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return syncer.Result{}, err
	}
	return s.syncer.SyncAccount(ctx, accountID)
}

// Dashboard refreshes the account from GitHub and returns its dashboard.
// A failed refresh is reported in SyncError and the stored data is served.
func (s *Service) Dashboard(ctx context.Context, accountID int64) (Dashboard, error) {
	acct, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return Dashboard{}, err
	}
	d := Dashboard{Account: acct}
	logger := s.logger.With("account_id", accountID)

	res, err := s.syncer.SyncAccount(ctx, accountID)
	switch {
	case err == nil:
		d.Sync = &res
	case errors.Is(err, custom_errors.ErrSyncInProgress):
		logger.Info("Sync already running, serving stored data")
		d.SyncError = err.Error()
	default:
		logger.Warn("Dashboard sync failed, serving stored data", "error", err)
		d.SyncError = err.Error()
	}

	if d.Profile, err = s.store.GetOrCreateProfile(ctx, accountID); err != nil {
		return Dashboard{}, err
	}
	if d.Preferences, err = s.store.GetOrCreatePreferences(ctx, accountID); err != nil {
		return Dashboard{}, err
	}
	repos, err := s.store.ListRepositoriesByAccount(ctx, accountID)
	if err != nil {
		return Dashboard{}, err
	}
	if d.Highlights, err = s.store.ListHighlightsByAccount(ctx, accountID); err != nil {
		return Dashboard{}, err
	}
	if d.WeeklyCommits, err = s.store.ListWeeklyCommitTotals(ctx, accountID); err != nil {
		return Dashboard{}, err
	}

	d.TopRepositories = topByStars(repos, dashboardTopRepos)
	d.Languages = languageBytes(repos)
	d.Summary = stats.Summarize(repos, d.Profile.GithubCreatedAt, s.now())
	if d.Highlights == nil {
		d.Highlights = []model.Highlight{}
	}
	if d.WeeklyCommits == nil {
		d.WeeklyCommits = []model.WeeklyCommitTotal{}
	}
	return d, nil
}
