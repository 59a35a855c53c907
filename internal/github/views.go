// internal/github/views.go
package github

import (
	"encoding/json"
	"strings"
	"time"

	"github-portfolio/internal/model"
	"github-portfolio/internal/safe"
)

// Payloads are decoded through these views instead of go-github's types so
// that one unparsable timestamp or count degrades to a default rather than
// failing the whole response.

// looseInt accepts a JSON number, a numeric string or null. Anything else is 0.
type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	*n = looseInt(safe.Int(strings.Trim(string(b), `"`)))
	return nil
}

// looseTime accepts any JSON value. Only RFC 3339 strings produce a time.
type looseTime struct {
	t *time.Time
}

func (lt *looseTime) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		lt.t = nil
		return nil
	}
	lt.t = safe.OptionalTime(raw)
	return nil
}

type userView struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	AvatarURL   string    `json:"avatar_url"`
	Bio         string    `json:"bio"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Blog        string    `json:"blog"`
	HTMLURL     string    `json:"html_url"`
	Followers   looseInt  `json:"followers"`
	Following   looseInt  `json:"following"`
	PublicRepos looseInt  `json:"public_repos"`
	CreatedAt   looseTime `json:"created_at"`
}

func (u userView) toModel() model.GitHubUser {
	return model.GitHubUser{
		Login:       u.Login,
		Name:        u.Name,
		AvatarURL:   u.AvatarURL,
		Bio:         u.Bio,
		Company:     u.Company,
		Location:    u.Location,
		Blog:        u.Blog,
		HTMLURL:     u.HTMLURL,
		Followers:   safe.NonNegative(int(u.Followers)),
		Following:   safe.NonNegative(int(u.Following)),
		PublicRepos: safe.NonNegative(int(u.PublicRepos)),
		CreatedAt:   u.CreatedAt.t,
	}
}

type repositoryView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Owner    struct {
		Login string `json:"login"`
	} `json:"owner"`
	Description     string    `json:"description"`
	HTMLURL         string    `json:"html_url"`
	StargazersCount looseInt  `json:"stargazers_count"`
	ForksCount      looseInt  `json:"forks_count"`
	Size            looseInt  `json:"size"`
	Language        string    `json:"language"`
	Topics          []string  `json:"topics"`
	PushedAt        looseTime `json:"pushed_at"`
	UpdatedAt       looseTime `json:"updated_at"`
}

func (r repositoryView) toModel() model.Repository {
	return model.Repository{
		GithubRepoID:  r.ID,
		Owner:         r.Owner.Login,
		Name:          r.Name,
		FullName:      r.FullName,
		Description:   r.Description,
		URL:           r.HTMLURL,
		StarsCount:    safe.NonNegative(int(r.StargazersCount)),
		ForksCount:    safe.NonNegative(int(r.ForksCount)),
		Size:          safe.NonNegative(int(r.Size)),
		Language:      r.Language,
		Topics:        r.Topics,
		PushedAt:      r.PushedAt.t,
		RepoUpdatedAt: r.UpdatedAt.t,
	}
}

type eventView struct {
	Type string `json:"type"`
	Repo struct {
		Name string `json:"name"`
	} `json:"repo"`
	CreatedAt looseTime `json:"created_at"`
}

// decodeEach decodes every element of items into T, dropping nulls and
// elements that cannot be decoded at all. It returns the number dropped.
func decodeEach[T any](items []json.RawMessage) ([]T, int) {
	out := make([]T, 0, len(items))
	dropped := 0
	for _, item := range items {
		if string(item) == "null" {
			dropped++
			continue
		}
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			dropped++
			continue
		}
		out = append(out, v)
	}
	return out, dropped
}
