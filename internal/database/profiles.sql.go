// internal/database/profiles.sql.go
package database

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github-portfolio/internal/model"
)

const profileColumns = `account_id, github_username, avatar_url, bio, company, location, blog,
    html_url, followers, following, public_repos, github_created_at, updated_at`

func scanProfile(row pgx.Row) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.AccountID,
		&p.GithubUsername,
		&p.AvatarURL,
		&p.Bio,
		&p.Company,
		&p.Location,
		&p.Blog,
		&p.HTMLURL,
		&p.Followers,
		&p.Following,
		&p.PublicRepos,
		&p.GithubCreatedAt,
		&p.UpdatedAt,
	)
	return p, notFound(err)
}

const ensureProfile = `-- name: EnsureProfile :exec
INSERT INTO profiles (account_id) VALUES ($1)
ON CONFLICT (account_id) DO NOTHING
`

const getProfile = `-- name: GetProfile :one
SELECT ` + profileColumns + ` FROM profiles WHERE account_id = $1
`

// GetOrCreateProfile returns the account's profile, creating an empty one on first access.
func (q *Queries) GetOrCreateProfile(ctx context.Context, accountID int64) (model.Profile, error) {
	if _, err := q.db.Exec(ctx, ensureProfile, accountID); err != nil {
		return model.Profile{}, err
	}
	return scanProfile(q.db.QueryRow(ctx, getProfile, accountID))
}

const upsertProfile = `-- name: UpsertProfile :one
INSERT INTO profiles (
    account_id, github_username, avatar_url, bio, company, location, blog,
    html_url, followers, following, public_repos, github_created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
ON CONFLICT (account_id) DO UPDATE
SET github_username   = EXCLUDED.github_username,
    avatar_url        = EXCLUDED.avatar_url,
    bio               = EXCLUDED.bio,
    company           = EXCLUDED.company,
    location          = EXCLUDED.location,
    blog              = EXCLUDED.blog,
    html_url          = EXCLUDED.html_url,
    followers         = EXCLUDED.followers,
    following         = EXCLUDED.following,
    public_repos      = EXCLUDED.public_repos,
    github_created_at = EXCLUDED.github_created_at,
    updated_at        = now()
RETURNING ` + profileColumns + `
`

// UpsertProfile replaces every provider-sourced field of the profile.
func (q *Queries) UpsertProfile(ctx context.Context, arg UpsertProfileParams) (model.Profile, error) {
	row := q.db.QueryRow(ctx, upsertProfile,
		arg.AccountID,
		arg.GithubUsername,
		arg.AvatarURL,
		arg.Bio,
		arg.Company,
		arg.Location,
		arg.Blog,
		arg.HTMLURL,
		arg.Followers,
		arg.Following,
		arg.PublicRepos,
		arg.GithubCreatedAt,
	)
	return scanProfile(row)
}

const updateProfileDetails = `-- name: UpdateProfileDetails :one
UPDATE profiles
SET github_username = $2,
    bio             = $3,
    company         = $4,
    location        = $5,
    blog            = $6,
    updated_at      = now()
WHERE account_id = $1
RETURNING ` + profileColumns + `
`

func (q *Queries) UpdateProfileDetails(ctx context.Context, arg UpdateProfileDetailsParams) (model.Profile, error) {
	row := q.db.QueryRow(ctx, updateProfileDetails,
		arg.AccountID,
		arg.GithubUsername,
		arg.Bio,
		arg.Company,
		arg.Location,
		arg.Blog,
	)
	return scanProfile(row)
}

const createProfileSnapshot = `-- name: CreateProfileSnapshot :one
INSERT INTO profile_snapshots (account_id, raw_profile)
VALUES ($1, $2)
RETURNING id, account_id, raw_profile, fetched_at
`

func (q *Queries) CreateProfileSnapshot(ctx context.Context, arg CreateProfileSnapshotParams) (model.ProfileSnapshot, error) {
	raw := arg.RawProfile
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	row := q.db.QueryRow(ctx, createProfileSnapshot, arg.AccountID, raw)
	var s model.ProfileSnapshot
	err := row.Scan(&s.ID, &s.AccountID, &s.RawProfile, &s.FetchedAt)
	return s, err
}

const listProfileSnapshots = `-- name: ListProfileSnapshots :many
SELECT id, account_id, raw_profile, fetched_at
FROM profile_snapshots
WHERE account_id = $1
ORDER BY fetched_at DESC, id DESC
LIMIT $2
`

func (q *Queries) ListProfileSnapshots(ctx context.Context, arg ListProfileSnapshotsParams) ([]model.ProfileSnapshot, error) {
	rows, err := q.db.Query(ctx, listProfileSnapshots, arg.AccountID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.ProfileSnapshot
	for rows.Next() {
		var s model.ProfileSnapshot
		if err := rows.Scan(&s.ID, &s.AccountID, &s.RawProfile, &s.FetchedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
