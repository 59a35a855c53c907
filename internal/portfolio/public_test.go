// internal/portfolio/public_test.go
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github-portfolio/internal/calendar"
	"github-portfolio/internal/database"
	"github-portfolio/internal/database/databasetest"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

func publicRepos() []model.Repository {
	var repos []model.Repository
	langs := []string{"Go", "Go", "Go", "Python", "Python", "Rust", "C", "Java", "Ruby", "Zig", "Elm", "Nim", "Lua"}
	for i, lang := range langs {
		repos = append(repos, model.Repository{
			GithubRepoID: int64(i + 1),
			Name:         fmt.Sprintf("r%d", i+1),
			FullName:     fmt.Sprintf("octo/r%d", i+1),
			StarsCount:   i % 5,
			ForksCount:   i,
			Language:     lang,
		})
	}
	return repos
}

func TestPublicView(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	user := model.GitHubUser{Login: "octo", CreatedAt: &created}

	t.Run("builds charts and calendar", func(t *testing.T) {
		p := new(MockPublicProvider)
		p.On("GetUser", mock.Anything, "octo").Return(user, nil)
		p.On("ListRepositories", mock.Anything, "octo").Return(publicRepos(), nil)
		p.On("ListPublicEvents", mock.Anything, "octo").Return([]model.Event{
			{Type: "PushEvent", CreatedAt: time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)},
			{Type: "PushEvent", CreatedAt: time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)},
		}, nil)
		s := newTestService(databasetest.New(), new(MockSyncer), p)

		v, err := s.PublicView(ctx, "octo")
		require.NoError(t, err)

		assert.Len(t, v.Repositories, 13)
		require.Len(t, v.TopRepositories, 8)
		// stars = i%5, forks = i: the 4-star repos are r10 (forks 9) and r5 (forks 4).
		assert.Equal(t, "r10", v.TopRepositories[0].Name)
		assert.Equal(t, "r5", v.TopRepositories[1].Name)
		assert.Equal(t, "r9", v.TopRepositories[2].Name)
		assert.Equal(t, []string{"r10", "r5", "r9", "r4", "r13", "r8", "r3", "r12"}, v.Stars.Labels)
		assert.Equal(t, []int{4, 4, 3, 3, 2, 2, 2, 1}, v.Stars.Values)
		assert.Equal(t, []int{9, 4, 8, 3, 12, 7, 2, 11}, v.Forks.Values)

		require.Len(t, v.Languages.Labels, 10)
		assert.Equal(t, []string{"Go", "Python"}, v.Languages.Labels[:2])
		assert.Equal(t, []int{3, 2, 1, 1, 1, 1, 1, 1, 1, 1}, v.Languages.Values)

		assert.Equal(t, 6, v.Summary.YearsExperience)
		assert.Len(t, v.Calendar.Weeks, calendar.Weeks)
		assert.Equal(t, 2, v.Calendar.Total)
		assert.Equal(t, 1, v.Calendar.CurrentStreak)
	})

	t.Run("event failure leaves the calendar empty", func(t *testing.T) {
		p := new(MockPublicProvider)
		p.On("GetUser", mock.Anything, "octo").Return(user, nil)
		p.On("ListRepositories", mock.Anything, "octo").Return([]model.Repository(nil), nil)
		p.On("ListPublicEvents", mock.Anything, "octo").Return([]model.Event(nil), errors.New("timeout"))
		s := newTestService(databasetest.New(), new(MockSyncer), p)

		v, err := s.PublicView(ctx, "octo")
		require.NoError(t, err)

		assert.NotNil(t, v.Repositories)
		assert.Len(t, v.Calendar.Weeks, calendar.Weeks)
		assert.Equal(t, 0, v.Calendar.Total)
	})

	t.Run("profile errors pass through", func(t *testing.T) {
		rl := &custom_errors.RateLimitExceededError{ResetSeconds: 30}
		p := new(MockPublicProvider)
		p.On("GetUser", mock.Anything, "octo").Return(model.GitHubUser{}, rl)
		s := newTestService(databasetest.New(), new(MockSyncer), p)

		_, err := s.PublicView(ctx, "octo")

		assert.ErrorIs(t, err, rl)
		p.AssertNotCalled(t, "ListRepositories", mock.Anything, mock.Anything)
	})

	t.Run("invalid username", func(t *testing.T) {
		p := new(MockPublicProvider)
		s := newTestService(databasetest.New(), new(MockSyncer), p)

		_, err := s.PublicView(ctx, "../etc")

		var vErr *custom_errors.ValidationError
		assert.ErrorAs(t, err, &vErr)
		p.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})
}

func TestCompare(t *testing.T) {
	ctx := context.Background()

	t.Run("needs at least two users", func(t *testing.T) {
		s := newTestService(databasetest.New(), new(MockSyncer), new(MockPublicProvider))
		for _, in := range [][]string{nil, {"octo"}, {"octo", " octo ", ""}} {
			_, err := s.Compare(ctx, in)
			var vErr *custom_errors.ValidationError
			assert.ErrorAs(t, err, &vErr)
		}
	})

	t.Run("skips failures, truncates and keeps order", func(t *testing.T) {
		p := new(MockPublicProvider)
		for _, name := range []string{"a", "c", "d"} {
			p.On("GetUser", mock.Anything, name).Return(model.GitHubUser{Login: name}, nil)
			p.On("ListRepositories", mock.Anything, name).Return([]model.Repository{{StarsCount: len(name)}}, nil)
		}
		p.On("GetUser", mock.Anything, "b").Return(model.GitHubUser{}, &custom_errors.ProviderHTTPError{StatusCode: 404})
		s := newTestService(databasetest.New(), new(MockSyncer), p)

		out, err := s.Compare(ctx, []string{"a", "b", "c", "d", "e"})
		require.NoError(t, err)

		require.Len(t, out, 3)
		assert.Equal(t, "a", out[0].User.Login)
		assert.Equal(t, "c", out[1].User.Login)
		assert.Equal(t, "d", out[2].User.Login)
		assert.Equal(t, 1, out[0].Summary.TotalStars)
		p.AssertNotCalled(t, "GetUser", mock.Anything, "e")
	})
}

func TestPublicPortfolio(t *testing.T) {
	ctx := context.Background()
	store := databasetest.New()
	acct, err := store.CreateAccount(ctx, "octo")
	require.NoError(t, err)
	repo := seedRepo(t, store, acct.ID, 7, 1, 0, nil)
	_, err = store.CreateHighlight(ctx, database.CreateHighlightParams{AccountID: acct.ID, RepositoryID: repo.ID, Title: "Seven"})
	require.NoError(t, err)
	s := newTestService(store, new(MockSyncer), new(MockPublicProvider))

	p, err := s.PublicPortfolio(ctx, "octo")
	require.NoError(t, err)
	assert.Equal(t, "octo", p.Username)
	require.Len(t, p.Highlights, 1)
	assert.Equal(t, "Seven", p.Highlights[0].Title)
	assert.Equal(t, "octo/repo-7", p.Highlights[0].RepoFullName)
	assert.Equal(t, model.DefaultPrimaryColor, p.Preferences.PrimaryColor)

	_, err = s.PublicPortfolio(ctx, "nobody")
	assert.ErrorIs(t, err, custom_errors.ErrNotFound)
}
