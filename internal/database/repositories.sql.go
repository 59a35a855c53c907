// internal/database/repositories.sql.go
package database

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github-portfolio/internal/model"
)

const repositoryColumns = `id, github_repo_id, account_id, owner, name, full_name, description, html_url,
    stargazers_count, forks_count, size_kb, language_primary, languages, topics,
    pushed_at, repo_updated_at, is_pinned`

func scanRepository(row pgx.Row) (model.Repository, error) {
	var r model.Repository
	err := row.Scan(
		&r.ID,
		&r.GithubRepoID,
		&r.AccountID,
		&r.Owner,
		&r.Name,
		&r.FullName,
		&r.Description,
		&r.URL,
		&r.StarsCount,
		&r.ForksCount,
		&r.Size,
		&r.Language,
		&r.Languages,
		&r.Topics,
		&r.PushedAt,
		&r.RepoUpdatedAt,
		&r.IsPinned,
	)
	return r, err
}

const upsertRepository = `-- name: UpsertRepository :one
INSERT INTO repositories (
    github_repo_id, account_id, owner, name, full_name, description, html_url,
    stargazers_count, forks_count, size_kb, language_primary, languages, topics,
    pushed_at, repo_updated_at, is_pinned
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (github_repo_id) DO UPDATE
SET account_id       = EXCLUDED.account_id,
    owner            = EXCLUDED.owner,
    name             = EXCLUDED.name,
    full_name        = EXCLUDED.full_name,
    description      = EXCLUDED.description,
    html_url         = EXCLUDED.html_url,
    stargazers_count = EXCLUDED.stargazers_count,
    forks_count      = EXCLUDED.forks_count,
    size_kb          = EXCLUDED.size_kb,
    language_primary = EXCLUDED.language_primary,
    languages        = EXCLUDED.languages,
    topics           = EXCLUDED.topics,
    pushed_at        = EXCLUDED.pushed_at,
    repo_updated_at  = EXCLUDED.repo_updated_at,
    is_pinned        = EXCLUDED.is_pinned
RETURNING ` + repositoryColumns + `
`

// UpsertRepository inserts or fully overwrites the row keyed by GithubRepoID.
func (q *Queries) UpsertRepository(ctx context.Context, arg UpsertRepositoryParams) (model.Repository, error) {
	languages := arg.Languages
	if languages == nil {
		languages = map[string]int{}
	}
	topics := arg.Topics
	if topics == nil {
		topics = []string{}
	}
	row := q.db.QueryRow(ctx, upsertRepository,
		arg.GithubRepoID,
		arg.AccountID,
		arg.Owner,
		arg.Name,
		arg.FullName,
		arg.Description,
		arg.URL,
		arg.StarsCount,
		arg.ForksCount,
		arg.Size,
		arg.Language,
		languages,
		topics,
		arg.PushedAt,
		arg.RepoUpdatedAt,
		arg.IsPinned,
	)
	return scanRepository(row)
}

const listRepositoriesByAccount = `-- name: ListRepositoriesByAccount :many
SELECT ` + repositoryColumns + `
FROM repositories
WHERE account_id = $1
ORDER BY stargazers_count DESC, forks_count DESC, id
`

// ListRepositoriesByAccount returns the account's repositories, most starred first.
func (q *Queries) ListRepositoriesByAccount(ctx context.Context, accountID int64) ([]model.Repository, error) {
	rows, err := q.db.Query(ctx, listRepositoriesByAccount, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Repository
	for rows.Next() {
		r, err := scanRepository(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const getRepositoryForAccount = `-- name: GetRepositoryForAccount :one
SELECT ` + repositoryColumns + `
FROM repositories
WHERE id = $1 AND account_id = $2
`

func (q *Queries) GetRepositoryForAccount(ctx context.Context, arg GetRepositoryForAccountParams) (model.Repository, error) {
	r, err := scanRepository(q.db.QueryRow(ctx, getRepositoryForAccount, arg.ID, arg.AccountID))
	return r, notFound(err)
}

const upsertCommitActivity = `-- name: UpsertCommitActivity :exec
INSERT INTO commit_activity (repository_id, week, commits)
VALUES ($1, $2, $3)
ON CONFLICT (repository_id, week) DO UPDATE
SET commits = EXCLUDED.commits
`

func (q *Queries) UpsertCommitActivity(ctx context.Context, arg UpsertCommitActivityParams) error {
	_, err := q.db.Exec(ctx, upsertCommitActivity, arg.RepositoryID, arg.Week, arg.Commits)
	return err
}

const listWeeklyCommitTotals = `-- name: ListWeeklyCommitTotals :many
SELECT ca.week, SUM(ca.commits)::int AS commits
FROM commit_activity ca
JOIN repositories r ON r.id = ca.repository_id
WHERE r.account_id = $1
GROUP BY ca.week
ORDER BY ca.week
`

// ListWeeklyCommitTotals sums commit activity across the account's repositories, oldest week first.
func (q *Queries) ListWeeklyCommitTotals(ctx context.Context, accountID int64) ([]model.WeeklyCommitTotal, error) {
	rows, err := q.db.Query(ctx, listWeeklyCommitTotals, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.WeeklyCommitTotal
	for rows.Next() {
		var w model.WeeklyCommitTotal
		if err := rows.Scan(&w.Week, &w.Commits); err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}
