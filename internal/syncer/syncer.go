// internal/syncer/syncer.go
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github-portfolio/internal/database"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/lock"
	"github-portfolio/internal/metrics"
	"github-portfolio/internal/model"
)

const (
	// ProviderGitHub is the oauth_identities.provider value for GitHub tokens.
	ProviderGitHub = "github"

	defaultConcurrency = 5
	defaultLockTTL     = 5 * time.Minute
)

// Provider is the part of the GitHub client the pipeline uses.
type Provider interface {
	GetAuthenticatedUser(ctx context.Context) (model.GitHubUser, json.RawMessage, error)
	ListPinnedRepositories(ctx context.Context, name string) ([]model.Repository, error)
	ListRepositories(ctx context.Context, name string) ([]model.Repository, error)
	GetRepositoryLanguages(ctx context.Context, owner, repo string) (map[string]int, error)
	GetCommitActivity(ctx context.Context, owner, repo string) ([]model.WeeklyCommits, error)
}

// ProviderFactory builds a Provider authenticated with an account's token.
type ProviderFactory func(token string) (Provider, error)

// Config tunes the periodic refresh loop and the per-account lock.
type Config struct {
	Interval    time.Duration
	Concurrency int
	LockTTL     time.Duration
}

// Result summarizes one SyncAccount run.
type Result struct {
	AccountID          int64  `json:"account_id"`
	Skipped            bool   `json:"skipped"`
	GithubUsername     string `json:"github_username,omitempty"`
	Repositories       int    `json:"repositories"`
	Pinned             int    `json:"pinned"`
	InvalidRepos       int    `json:"invalid_repositories"`
	LanguageFailures   int    `json:"language_failures"`
	ActivityFailures   int    `json:"activity_failures"`
	CommitWeeksWritten int    `json:"commit_weeks_written"`
}

// Syncer runs the ingest pipeline for linked accounts.
type Syncer struct {
	store       database.Store
	newProvider ProviderFactory
	locker      lock.Locker
	logger      *slog.Logger
	interval    time.Duration
	concurrency int
	lockTTL     time.Duration
}

// NewSyncer creates a new Syncer instance.
func NewSyncer(store database.Store, newProvider ProviderFactory, locker lock.Locker, logger *slog.Logger, cfg Config) *Syncer {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultLockTTL
	}
	return &Syncer{
		store:       store,
		newProvider: newProvider,
		locker:      locker,
		logger:      logger,
		interval:    cfg.Interval,
		concurrency: cfg.Concurrency,
		lockTTL:     cfg.LockTTL,
	}
}

// Start refreshes every linked account each interval until ctx is done.
func (s *Syncer) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Periodic sync disabled")
		return
	}
	s.logger.Info("Starting syncer", "interval", s.interval.String(), "concurrency", s.concurrency)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runSyncCycle(ctx) // Initial sync

	for {
		select {
		case <-ticker.C:
			s.runSyncCycle(ctx)
		case <-ctx.Done():
			s.logger.Info("Syncer shutting down", "reason", ctx.Err())
			return
		}
	}
}

// runSyncCycle syncs all linked accounts concurrently. Accounts are independent:
// one failing does not cancel the others.
func (s *Syncer) runSyncCycle(ctx context.Context) {
	accountIDs, err := s.store.ListLinkedAccountIDs(ctx, ProviderGitHub)
	if err != nil {
		s.logger.Error("Failed to list linked accounts", "error", err)
		return
	}
	s.logger.Info("Starting new sync cycle", "accounts", len(accountIDs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, id := range accountIDs {
		id := id
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			_, err := s.SyncAccount(ctx, id)
			switch {
			case err == nil, errors.Is(err, context.Canceled):
			case errors.Is(err, custom_errors.ErrSyncInProgress):
				s.logger.Info("Sync already running, skipping account", "account_id", id)
			default:
				s.logger.Error("Failed to sync account", "account_id", id, "error", err)
			}
			return nil
		})
	}

	_ = g.Wait()
	s.logger.Info("Sync cycle finished")
}

// SyncAccount pulls the account's profile and repositories from GitHub and
// upserts them. Only one run per account may be active at a time.
func (s *Syncer) SyncAccount(ctx context.Context, accountID int64) (res Result, err error) {
	start := time.Now()
	res.AccountID = accountID
	logger := s.logger.With("account_id", accountID)

	lease, err := s.locker.Acquire(ctx, lockKey(accountID), s.lockTTL)
	if errors.Is(err, lock.ErrNotAcquired) {
		metrics.ObserveSync("in_progress", start)
		return res, custom_errors.ErrSyncInProgress
	}
	if err != nil {
		return res, err
	}
	defer func() {
		if relErr := lease.Release(context.WithoutCancel(ctx)); relErr != nil {
			logger.Warn("Failed to release sync lock", "error", relErr)
		}
		metrics.ObserveSync(syncOutcome(res, err), start)
	}()

	token, err := s.store.GetAccessToken(ctx, database.GetAccessTokenParams{AccountID: accountID, Provider: ProviderGitHub})
	if errors.Is(err, custom_errors.ErrNotFound) || (err == nil && token == "") {
		logger.Info("No linked GitHub identity, nothing to sync")
		res.Skipped = true
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("resolve access token: %w", err)
	}

	provider, err := s.newProvider(token)
	if err != nil {
		return res, fmt.Errorf("build provider client: %w", err)
	}

	user, err := s.syncProfile(ctx, provider, accountID)
	if err != nil {
		return res, err
	}
	res.GithubUsername = user.Login
	logger = logger.With("github_user", user.Login)

	pinned, err := provider.ListPinnedRepositories(ctx, user.Login)
	if err != nil {
		return res, fmt.Errorf("fetch pinned repositories: %w", err)
	}
	all, err := provider.ListRepositories(ctx, user.Login)
	if err != nil {
		return res, fmt.Errorf("fetch repositories: %w", err)
	}

	pinnedIDs := make(map[int64]struct{}, len(pinned))
	for _, r := range pinned {
		pinnedIDs[r.GithubRepoID] = struct{}{}
	}
	var remainder []model.Repository
	for _, r := range all {
		if _, ok := pinnedIDs[r.GithubRepoID]; !ok {
			remainder = append(remainder, r)
		}
	}

	for _, batch := range []struct {
		repos    []model.Repository
		isPinned bool
	}{{pinned, true}, {remainder, false}} {
		for _, repo := range batch.repos {
			if err := s.extendLease(ctx, logger, lease); err != nil {
				return res, err
			}
			if err := s.syncRepo(ctx, logger, provider, accountID, repo, batch.isPinned, &res); err != nil {
				return res, err
			}
		}
	}

	logger.Info("Account sync finished",
		"repositories", res.Repositories,
		"pinned", res.Pinned,
		"language_failures", res.LanguageFailures,
		"activity_failures", res.ActivityFailures,
	)
	return res, nil
}

// extendLease renews the per-account lock before each repository so a long run
// keeps it. A lost lease stops the run; other renewal errors are only logged.
func (s *Syncer) extendLease(ctx context.Context, logger *slog.Logger, lease lock.Lease) error {
	err := lease.Extend(ctx, s.lockTTL)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, lock.ErrLeaseLost):
		return fmt.Errorf("sync lock expired mid-run: %w", err)
	default:
		logger.Warn("Failed to extend sync lock", "error", err)
		return nil
	}
}

// syncProfile upserts the profile wholesale and appends a raw snapshot.
func (s *Syncer) syncProfile(ctx context.Context, provider Provider, accountID int64) (model.GitHubUser, error) {
	user, raw, err := provider.GetAuthenticatedUser(ctx)
	if err != nil {
		return model.GitHubUser{}, fmt.Errorf("fetch profile: %w", err)
	}

	_, err = s.store.UpsertProfile(ctx, database.UpsertProfileParams{
		AccountID:       accountID,
		GithubUsername:  user.Login,
		AvatarURL:       user.AvatarURL,
		Bio:             user.Bio,
		Company:         user.Company,
		Location:        user.Location,
		Blog:            user.Blog,
		HTMLURL:         user.HTMLURL,
		Followers:       user.Followers,
		Following:       user.Following,
		PublicRepos:     user.PublicRepos,
		GithubCreatedAt: user.CreatedAt,
	})
	if err != nil {
		return model.GitHubUser{}, fmt.Errorf("upsert profile: %w", err)
	}

	if _, err := s.store.CreateProfileSnapshot(ctx, database.CreateProfileSnapshotParams{
		AccountID:  accountID,
		RawProfile: raw,
	}); err != nil {
		return model.GitHubUser{}, fmt.Errorf("create profile snapshot: %w", err)
	}
	return user, nil
}

// syncRepo upserts one repository with its best-effort language mapping, then
// writes its commit weeks. Week failures are logged and never undo the repository.
func (s *Syncer) syncRepo(ctx context.Context, logger *slog.Logger, provider Provider, accountID int64, repo model.Repository, isPinned bool, res *Result) error {
	owner, name, err := splitFullName(repo.FullName)
	if err != nil {
		logger.Warn("Skipping repository with invalid full name", "error", err)
		res.InvalidRepos++
		return nil
	}
	logger = logger.With("repo", repo.FullName)

	languages, err := provider.GetRepositoryLanguages(ctx, owner, name)
	if err != nil {
		logger.Warn("Failed to fetch languages, storing empty mapping", "error", err)
		res.LanguageFailures++
		languages = map[string]int{}
	}

	stored, err := s.store.UpsertRepository(ctx, database.UpsertRepositoryParams{
		GithubRepoID:  repo.GithubRepoID,
		AccountID:     accountID,
		Owner:         owner,
		Name:          name,
		FullName:      repo.FullName,
		Description:   repo.Description,
		URL:           repo.URL,
		StarsCount:    repo.StarsCount,
		ForksCount:    repo.ForksCount,
		Size:          repo.Size,
		Language:      repo.Language,
		Languages:     languages,
		Topics:        repo.Topics,
		PushedAt:      repo.PushedAt,
		RepoUpdatedAt: repo.RepoUpdatedAt,
		IsPinned:      isPinned,
	})
	if err != nil {
		return fmt.Errorf("upsert repository %d: %w", repo.GithubRepoID, err)
	}
	res.Repositories++
	if isPinned {
		res.Pinned++
	}
	metrics.SyncedRepositoriesTotal.Inc()

	written := s.syncCommitActivity(ctx, logger, provider, owner, name, stored.ID, res)
	logger.Debug("Repository synced", "pinned", isPinned, "weeks", written)
	return nil
}

// syncCommitActivity upserts the weekly commit buckets of one stored repository
// and returns how many were written.
func (s *Syncer) syncCommitActivity(ctx context.Context, logger *slog.Logger, provider Provider, owner, name string, repositoryID int64, res *Result) int {
	weeks, err := provider.GetCommitActivity(ctx, owner, name)
	if err != nil {
		logger.Warn("Failed to fetch commit activity", "error", err)
		res.ActivityFailures++
		return 0
	}

	written, failed := 0, 0
	for _, w := range weeks {
		week := weekDate(w.WeekStart)
		if err := s.store.UpsertCommitActivity(ctx, database.UpsertCommitActivityParams{
			RepositoryID: repositoryID,
			Week:         week,
			Commits:      w.Count(),
		}); err != nil {
			logger.Warn("Failed to store commit activity week", "week", week.Format(time.DateOnly), "error", err)
			failed++
			continue
		}
		written++
	}
	if failed > 0 {
		res.ActivityFailures++
	}
	res.CommitWeeksWritten += written
	return written
}

func lockKey(accountID int64) string {
	return fmt.Sprintf("sync:account:%d", accountID)
}

func syncOutcome(res Result, err error) string {
	switch {
	case err != nil:
		return "error"
	case res.Skipped:
		return "skipped"
	default:
		return "ok"
	}
}

// weekDate truncates a week-start instant to its UTC calendar date.
func weekDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func splitFullName(fullName string) (string, string, error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &custom_errors.ErrInvalidRepoFormat{Repo: fullName}
	}
	return parts[0], parts[1], nil
}
