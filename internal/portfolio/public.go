// internal/portfolio/public.go
package portfolio

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github-portfolio/internal/calendar"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
	"github-portfolio/internal/stats"
)

const (
	publicTopRepos    = 8
	publicTopLangs    = 10
	minCompareUsers   = 2
	maxCompareUsers   = 4
	compareFanOutSize = 4
)

// PublicView is the anonymous viewer page for any GitHub user.
type PublicView struct {
	User            model.GitHubUser   `json:"user"`
	Repositories    []model.Repository `json:"repositories"`
	TopRepositories []model.Repository `json:"top_repositories"`
	Languages       Chart              `json:"languages"`
	Stars           Chart              `json:"stars"`
	Forks           Chart              `json:"forks"`
	Summary         stats.Summary      `json:"summary"`
	Calendar        calendar.Calendar  `json:"contribution_calendar"`
}

// Comparison is one column of the compare page.
type Comparison struct {
	User    model.GitHubUser `json:"user"`
	Summary stats.Summary    `json:"summary"`
}

// Portfolio is the public page of a local account.
type Portfolio struct {
	Username    string            `json:"username"`
	Profile     model.Profile     `json:"profile"`
	Preferences model.Preferences `json:"preferences"`
	Highlights  []model.Highlight `json:"highlights"`
}

// PublicView fetches a GitHub user's public data without touching the store.
// Profile and repository failures are returned as is; a failed event fetch
// only empties the calendar.
func (s *Service) PublicView(ctx context.Context, username string) (PublicView, error) {
	if err := validateUsername("username", username); err != nil {
		return PublicView{}, err
	}
	user, err := s.public.GetUser(ctx, username)
	if err != nil {
		return PublicView{}, err
	}
	repos, err := s.public.ListRepositories(ctx, username)
	if err != nil {
		return PublicView{}, err
	}
	if repos == nil {
		repos = []model.Repository{}
	}

	now := s.now()
	var times []time.Time
	events, err := s.public.ListPublicEvents(ctx, username)
	if err != nil {
		s.logger.Warn("Failed to fetch public events, calendar left empty", "user", username, "error", err)
	}
	for _, e := range events {
		times = append(times, e.CreatedAt)
	}

	summary := stats.Summarize(repos, user.CreatedAt, now)
	top := topByStars(repos, publicTopRepos)
	return PublicView{
		User:            user,
		Repositories:    repos,
		TopRepositories: top,
		Languages:       chartFrom(summary.LanguageCounts, publicTopLangs),
		Stars:           repoSeries(top, func(r model.Repository) int { return r.StarsCount }),
		Forks:           repoSeries(top, func(r model.Repository) int { return r.ForksCount }),
		Summary:         summary,
		Calendar:        calendar.Build(times, now),
	}, nil
}

// Compare fetches 2 to 4 users concurrently. Extra names are dropped, users
// that fail to load are skipped and the input order is kept.
func (s *Service) Compare(ctx context.Context, usernames []string) ([]Comparison, error) {
	var names []string
	seen := map[string]struct{}{}
	for _, n := range usernames {
		n = normalize(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		if err := validateUsername("users", n); err != nil {
			return nil, err
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	if len(names) < minCompareUsers {
		return nil, &custom_errors.ValidationError{Field: "users", Reason: "at least two usernames are required"}
	}
	if len(names) > maxCompareUsers {
		names = names[:maxCompareUsers]
	}

	now := s.now()
	results := make([]*Comparison, len(names))
	var g errgroup.Group
	g.SetLimit(compareFanOutSize)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			user, err := s.public.GetUser(ctx, name)
			if err != nil {
				s.logger.Warn("Skipping user in comparison", "user", name, "error", err)
				return nil
			}
			repos, err := s.public.ListRepositories(ctx, name)
			if err != nil {
				s.logger.Warn("Skipping user in comparison", "user", name, "error", err)
				return nil
			}
			results[i] = &Comparison{User: user, Summary: stats.Summarize(repos, user.CreatedAt, now)}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Comparison, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// PublicPortfolio returns the curated page of a local account.
func (s *Service) PublicPortfolio(ctx context.Context, username string) (Portfolio, error) {
	acct, err := s.store.GetAccountByUsername(ctx, username)
	if err != nil {
		return Portfolio{}, err
	}
	p := Portfolio{Username: acct.Username}
	if p.Profile, err = s.store.GetOrCreateProfile(ctx, acct.ID); err != nil {
		return Portfolio{}, err
	}
	if p.Preferences, err = s.store.GetOrCreatePreferences(ctx, acct.ID); err != nil {
		return Portfolio{}, err
	}
	if p.Highlights, err = s.store.ListHighlightsByUsername(ctx, acct.Username); err != nil {
		return Portfolio{}, err
	}
	if p.Highlights == nil {
		p.Highlights = []model.Highlight{}
	}
	return p, nil
}
