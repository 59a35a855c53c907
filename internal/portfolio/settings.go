// internal/portfolio/settings.go
package portfolio

import (
	"context"
	"strings"

	"github-portfolio/internal/database"
	"github-portfolio/internal/model"
)

// ProfileInput holds the user-editable profile fields.
type ProfileInput struct {
	GithubUsername string `json:"github_username"`
	Bio            string `json:"bio"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	Blog           string `json:"blog"`
}

// PreferencesInput holds the portfolio theme settings.
type PreferencesInput struct {
	Theme        string `json:"theme"`
	PrimaryColor string `json:"primary_color"`
	AccentColor  string `json:"accent_color"`
	BioIntro     string `json:"bio_intro"`
}

func (s *Service) GetProfile(ctx context.Context, accountID int64) (model.Profile, error) {
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return model.Profile{}, err
	}
	return s.store.GetOrCreateProfile(ctx, accountID)
}

// UpdateProfile edits the profile. The next sync overwrites these fields with
// GitHub's values.
func (s *Service) UpdateProfile(ctx context.Context, accountID int64, in ProfileInput) (model.Profile, error) {
	in = ProfileInput{
		GithubUsername: normalize(in.GithubUsername),
		Bio:            normalize(in.Bio),
		Company:        normalize(in.Company),
		Location:       normalize(in.Location),
		Blog:           normalize(in.Blog),
	}
	if in.GithubUsername != "" {
		if err := validateUsername("github_username", in.GithubUsername); err != nil {
			return model.Profile{}, err
		}
	}
	if err := validateBlog(in.Blog); err != nil {
		return model.Profile{}, err
	}
	for field, v := range map[string]string{"bio": in.Bio, "company": in.Company, "location": in.Location} {
		if err := validateLength(field, v, maxTextLength); err != nil {
			return model.Profile{}, err
		}
	}

	if _, err := s.GetProfile(ctx, accountID); err != nil {
		return model.Profile{}, err
	}
	return s.store.UpdateProfileDetails(ctx, database.UpdateProfileDetailsParams{
		AccountID:      accountID,
		GithubUsername: in.GithubUsername,
		Bio:            in.Bio,
		Company:        in.Company,
		Location:       in.Location,
		Blog:           in.Blog,
	})
}

func (s *Service) GetPreferences(ctx context.Context, accountID int64) (model.Preferences, error) {
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return model.Preferences{}, err
	}
	return s.store.GetOrCreatePreferences(ctx, accountID)
}

// UpdatePreferences replaces the preferences. Colors are stored lower-case.
func (s *Service) UpdatePreferences(ctx context.Context, accountID int64, in PreferencesInput) (model.Preferences, error) {
	p := model.Preferences{
		AccountID:    accountID,
		Theme:        normalize(in.Theme),
		PrimaryColor: strings.ToLower(normalize(in.PrimaryColor)),
		AccentColor:  strings.ToLower(normalize(in.AccentColor)),
		BioIntro:     normalize(in.BioIntro),
	}
	if err := validateTheme(p.Theme); err != nil {
		return model.Preferences{}, err
	}
	if err := validateColor("primary_color", p.PrimaryColor); err != nil {
		return model.Preferences{}, err
	}
	if err := validateColor("accent_color", p.AccentColor); err != nil {
		return model.Preferences{}, err
	}
	if err := validateLength("bio_intro", p.BioIntro, maxTextLength); err != nil {
		return model.Preferences{}, err
	}

	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return model.Preferences{}, err
	}
	return s.store.UpdatePreferences(ctx, p)
}

// Snapshots returns the newest profile snapshots. limit <= 0 selects the default.
func (s *Service) Snapshots(ctx context.Context, accountID int64, limit int) ([]model.ProfileSnapshot, error) {
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSnapshotLimit
	}
	if limit > maxSnapshotLimit {
		limit = maxSnapshotLimit
	}
	snaps, err := s.store.ListProfileSnapshots(ctx, database.ListProfileSnapshotsParams{AccountID: accountID, Limit: int32(limit)})
	if snaps == nil && err == nil {
		snaps = []model.ProfileSnapshot{}
	}
	return snaps, err
}
