// internal/database/querier.go
package database

import (
	"context"
	"time"

	"github-portfolio/internal/model"
)

type Querier interface {
	CreateAccount(ctx context.Context, username string) (model.Account, error)
	GetAccount(ctx context.Context, id int64) (model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (model.Account, error)
	UpsertOAuthIdentity(ctx context.Context, arg UpsertOAuthIdentityParams) error
	GetAccessToken(ctx context.Context, arg GetAccessTokenParams) (string, error)
	ListLinkedAccountIDs(ctx context.Context, provider string) ([]int64, error)

	GetOrCreateProfile(ctx context.Context, accountID int64) (model.Profile, error)
	UpsertProfile(ctx context.Context, arg UpsertProfileParams) (model.Profile, error)
	UpdateProfileDetails(ctx context.Context, arg UpdateProfileDetailsParams) (model.Profile, error)
	CreateProfileSnapshot(ctx context.Context, arg CreateProfileSnapshotParams) (model.ProfileSnapshot, error)
	ListProfileSnapshots(ctx context.Context, arg ListProfileSnapshotsParams) ([]model.ProfileSnapshot, error)

	UpsertRepository(ctx context.Context, arg UpsertRepositoryParams) (model.Repository, error)
	ListRepositoriesByAccount(ctx context.Context, accountID int64) ([]model.Repository, error)
	GetRepositoryForAccount(ctx context.Context, arg GetRepositoryForAccountParams) (model.Repository, error)
	UpsertCommitActivity(ctx context.Context, arg UpsertCommitActivityParams) error
	ListWeeklyCommitTotals(ctx context.Context, accountID int64) ([]model.WeeklyCommitTotal, error)

	CreateHighlight(ctx context.Context, arg CreateHighlightParams) (model.Highlight, error)
	ListHighlightsByAccount(ctx context.Context, accountID int64) ([]model.Highlight, error)
	ListHighlightsByUsername(ctx context.Context, username string) ([]model.Highlight, error)
	DeleteHighlight(ctx context.Context, arg DeleteHighlightParams) error
	SetHighlightPosition(ctx context.Context, arg SetHighlightPositionParams) error

	GetOrCreatePreferences(ctx context.Context, accountID int64) (model.Preferences, error)
	UpdatePreferences(ctx context.Context, arg model.Preferences) (model.Preferences, error)
}

var _ Querier = (*Queries)(nil)

type UpsertOAuthIdentityParams struct {
	AccountID   int64
	Provider    string
	AccessToken string
}

type GetAccessTokenParams struct {
	AccountID int64
	Provider  string
}

type UpsertProfileParams struct {
	AccountID       int64
	GithubUsername  string
	AvatarURL       string
	Bio             string
	Company         string
	Location        string
	Blog            string
	HTMLURL         string
	Followers       int
	Following       int
	PublicRepos     int
	GithubCreatedAt *time.Time
}

type UpdateProfileDetailsParams struct {
	AccountID      int64
	GithubUsername string
	Bio            string
	Company        string
	Location       string
	Blog           string
}

type CreateProfileSnapshotParams struct {
	AccountID  int64
	RawProfile []byte
}

type ListProfileSnapshotsParams struct {
	AccountID int64
	Limit     int32
}

type UpsertRepositoryParams struct {
	GithubRepoID  int64
	AccountID     int64
	Owner         string
	Name          string
	FullName      string
	Description   string
	URL           string
	StarsCount    int
	ForksCount    int
	Size          int
	Language      string
	Languages     map[string]int
	Topics        []string
	PushedAt      *time.Time
	RepoUpdatedAt *time.Time
	IsPinned      bool
}

type GetRepositoryForAccountParams struct {
	ID        int64
	AccountID int64
}

type UpsertCommitActivityParams struct {
	RepositoryID int64
	Week         time.Time
	Commits      int
}

type CreateHighlightParams struct {
	AccountID    int64
	RepositoryID int64
	Title        string
	Blurb        string
}

type DeleteHighlightParams struct {
	ID        int64
	AccountID int64
}

type SetHighlightPositionParams struct {
	ID        int64
	AccountID int64
	Position  int
}
