// internal/model/models.go
package model

import (
	"encoding/json"
	"time"

	"github-portfolio/internal/safe"
)

// Account is a local user of the service.
type Account struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile mirrors the GitHub profile of an account. It is replaced wholesale on every sync.
type Profile struct {
	AccountID       int64      `json:"account_id"`
	GithubUsername  string     `json:"github_username"`
	AvatarURL       string     `json:"avatar_url"`
	Bio             string     `json:"bio"`
	Company         string     `json:"company"`
	Location        string     `json:"location"`
	Blog            string     `json:"blog"`
	HTMLURL         string     `json:"html_url"`
	Followers       int        `json:"followers"`
	Following       int        `json:"following"`
	PublicRepos     int        `json:"public_repos"`
	GithubCreatedAt *time.Time `json:"github_created_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ProfileSnapshot is an immutable capture of a raw /user payload.
type ProfileSnapshot struct {
	ID         int64           `json:"id"`
	AccountID  int64           `json:"account_id"`
	RawProfile json.RawMessage `json:"raw_profile"`
	FetchedAt  time.Time       `json:"fetched_at"`
}

// Repository represents the metadata of a GitHub repository.
// GithubRepoID is GitHub's immutable id and the upsert key.
type Repository struct {
	ID            int64          `json:"id"`
	GithubRepoID  int64          `json:"github_repo_id"`
	AccountID     int64          `json:"account_id"`
	Owner         string         `json:"owner"`
	Name          string         `json:"name"`
	FullName      string         `json:"full_name"`
	Description   string         `json:"description"`
	URL           string         `json:"html_url"`
	StarsCount    int            `json:"stargazers_count"`
	ForksCount    int            `json:"forks_count"`
	Size          int            `json:"size"`
	Language      string         `json:"language"`
	Languages     map[string]int `json:"languages"`
	Topics        []string       `json:"topics"`
	PushedAt      *time.Time     `json:"pushed_at,omitempty"`
	RepoUpdatedAt *time.Time     `json:"updated_at,omitempty"`
	IsPinned      bool           `json:"is_pinned"`
}

// CommitActivityWeek is the commit count of one repository for one week.
type CommitActivityWeek struct {
	RepositoryID int64     `json:"repository_id"`
	Week         time.Time `json:"week"`
	Commits      int       `json:"commits"`
}

// WeeklyCommitTotal is the commit count of one week summed over an account's repositories.
type WeeklyCommitTotal struct {
	Week    time.Time `json:"week"`
	Commits int       `json:"commits"`
}

// Highlight is a user-curated repository shown on the public portfolio.
type Highlight struct {
	ID           int64  `json:"id"`
	AccountID    int64  `json:"account_id"`
	RepositoryID int64  `json:"repository_id"`
	Title        string `json:"title"`
	Blurb        string `json:"blurb"`
	Position     int    `json:"position"`

	RepoFullName string `json:"repo_full_name,omitempty"`
	RepoURL      string `json:"repo_url,omitempty"`
}

// Preferences holds an account's portfolio theme settings.
type Preferences struct {
	AccountID    int64  `json:"account_id"`
	Theme        string `json:"theme"`
	PrimaryColor string `json:"primary_color"`
	AccentColor  string `json:"accent_color"`
	BioIntro     string `json:"bio_intro"`
}

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultPrimaryColor = "#4f46e5"
	DefaultAccentColor  = "#22c55e"
)

// GitHubUser is the subset of a GitHub user payload the service uses.
type GitHubUser struct {
	Login       string     `json:"login"`
	Name        string     `json:"name"`
	AvatarURL   string     `json:"avatar_url"`
	Bio         string     `json:"bio"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	Blog        string     `json:"blog"`
	HTMLURL     string     `json:"html_url"`
	Followers   int        `json:"followers"`
	Following   int        `json:"following"`
	PublicRepos int        `json:"public_repos"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// WeeklyCommits is one bucket of /stats/commit_activity.
type WeeklyCommits struct {
	WeekStart time.Time
	Days      []int
	Total     int
}

// Count is the sum of the per-day counts when present, the total otherwise.
func (w WeeklyCommits) Count() int {
	if len(w.Days) > 0 {
		return safe.Sum(w.Days)
	}
	return safe.NonNegative(w.Total)
}

// Event is a public GitHub event.
type Event struct {
	Type      string    `json:"type"`
	Repo      string    `json:"repo"`
	CreatedAt time.Time `json:"created_at"`
}
