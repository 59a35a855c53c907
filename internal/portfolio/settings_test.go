// internal/portfolio/settings_test.go
package portfolio

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-portfolio/internal/database"
	"github-portfolio/internal/database/databasetest"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := databasetest.New()
	acct, err := store.CreateAccount(ctx, "octo")
	require.NoError(t, err)
	s := newTestService(store, new(MockSyncer), new(MockPublicProvider))

	p, err := s.UpdateProfile(ctx, acct.ID, ProfileInput{
		GithubUsername: "octocat",
		Bio:            " Building things ",
		Blog:           "https://octo.dev",
	})
	require.NoError(t, err)
	assert.Equal(t, "octocat", p.GithubUsername)
	assert.Equal(t, "Building things", p.Bio)
	assert.Equal(t, "https://octo.dev", p.Blog)

	got, err := s.GetProfile(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	testCases := []struct {
		name  string
		in    ProfileInput
		field string
	}{
		{"relative blog", ProfileInput{Blog: "octo.dev"}, "blog"},
		{"non-http blog", ProfileInput{Blog: "ftp://octo.dev"}, "blog"},
		{"bad username", ProfileInput{GithubUsername: "not valid"}, "github_username"},
		{"long bio", ProfileInput{Bio: strings.Repeat("x", maxTextLength+1)}, "bio"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.UpdateProfile(ctx, acct.ID, tc.in)
			var vErr *custom_errors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}

	_, err = s.UpdateProfile(ctx, 999, ProfileInput{})
	assert.ErrorIs(t, err, custom_errors.ErrNotFound)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	store := databasetest.New()
	acct, err := store.CreateAccount(ctx, "octo")
	require.NoError(t, err)
	s := newTestService(store, new(MockSyncer), new(MockPublicProvider))

	defaults, err := s.GetPreferences(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Preferences{
		AccountID:    acct.ID,
		Theme:        model.ThemeLight,
		PrimaryColor: model.DefaultPrimaryColor,
		AccentColor:  model.DefaultAccentColor,
	}, defaults)

	updated, err := s.UpdatePreferences(ctx, acct.ID, PreferencesInput{
		Theme:        "dark",
		PrimaryColor: "#ABCDEF",
		AccentColor:  "#000000",
		BioIntro:     "Hi",
	})
	require.NoError(t, err)
	assert.Equal(t, "#abcdef", updated.PrimaryColor)
	assert.Equal(t, model.ThemeDark, updated.Theme)

	for _, in := range []PreferencesInput{
		{Theme: "blue", PrimaryColor: "#000000", AccentColor: "#000000"},
		{Theme: "light", PrimaryColor: "red", AccentColor: "#000000"},
		{Theme: "light", PrimaryColor: "#000000", AccentColor: "#0000"},
	} {
		_, err := s.UpdatePreferences(ctx, acct.ID, in)
		var vErr *custom_errors.ValidationError
		assert.ErrorAs(t, err, &vErr)
	}

	current, err := s.GetPreferences(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, current, "rejected updates are not stored")
}

func TestSnapshots(t *testing.T) {
	ctx := context.Background()
	store := databasetest.New()
	acct, err := store.CreateAccount(ctx, "octo")
	require.NoError(t, err)
	for i := 0; i < 25; i++ {
		_, err := store.CreateProfileSnapshot(ctx, database.CreateProfileSnapshotParams{AccountID: acct.ID, RawProfile: []byte(`{"n":1}`)})
		require.NoError(t, err)
	}
	s := newTestService(store, new(MockSyncer), new(MockPublicProvider))

	snaps, err := s.Snapshots(ctx, acct.ID, 0)
	require.NoError(t, err)
	assert.Len(t, snaps, defaultSnapshotLimit)
	assert.Greater(t, snaps[0].ID, snaps[1].ID, "newest first")

	snaps, err = s.Snapshots(ctx, acct.ID, 1000)
	require.NoError(t, err)
	assert.Len(t, snaps, 25)

	other, err := store.CreateAccount(ctx, "other")
	require.NoError(t, err)
	snaps, err = s.Snapshots(ctx, other.ID, 5)
	require.NoError(t, err)
	assert.NotNil(t, snaps)
	assert.Empty(t, snaps)
}
