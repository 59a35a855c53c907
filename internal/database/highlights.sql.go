// internal/database/highlights.sql.go
package database

import (
	"context"

	"github.com/jackc/pgx/v5"

	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

const createHighlight = `-- name: CreateHighlight :one
WITH inserted AS (
    INSERT INTO highlights (account_id, repository_id, title, blurb, position)
    SELECT $1, $2, $3, $4, COALESCE(MAX(position) + 1, 0)
    FROM highlights
    WHERE account_id = $1
    RETURNING id, account_id, repository_id, title, blurb, position
)
SELECT i.id, i.account_id, i.repository_id, i.title, i.blurb, i.position, r.full_name, r.html_url
FROM inserted i
JOIN repositories r ON r.id = i.repository_id
`

// CreateHighlight appends a highlight after the account's last position.
func (q *Queries) CreateHighlight(ctx context.Context, arg CreateHighlightParams) (model.Highlight, error) {
	row := q.db.QueryRow(ctx, createHighlight, arg.AccountID, arg.RepositoryID, arg.Title, arg.Blurb)
	return scanHighlight(row)
}

const listHighlightsByAccount = `-- name: ListHighlightsByAccount :many
SELECT h.id, h.account_id, h.repository_id, h.title, h.blurb, h.position, r.full_name, r.html_url
FROM highlights h
JOIN repositories r ON r.id = h.repository_id
WHERE h.account_id = $1
ORDER BY h.position, h.id
`

func (q *Queries) ListHighlightsByAccount(ctx context.Context, accountID int64) ([]model.Highlight, error) {
	rows, err := q.db.Query(ctx, listHighlightsByAccount, accountID)
	if err != nil {
		return nil, err
	}
	return collectHighlights(rows)
}

const listHighlightsByUsername = `-- name: ListHighlightsByUsername :many
SELECT h.id, h.account_id, h.repository_id, h.title, h.blurb, h.position, r.full_name, r.html_url
FROM highlights h
JOIN accounts a ON a.id = h.account_id
JOIN repositories r ON r.id = h.repository_id
WHERE a.username = $1
ORDER BY h.position, h.id
`

func (q *Queries) ListHighlightsByUsername(ctx context.Context, username string) ([]model.Highlight, error) {
	rows, err := q.db.Query(ctx, listHighlightsByUsername, username)
	if err != nil {
		return nil, err
	}
	return collectHighlights(rows)
}

const deleteHighlight = `-- name: DeleteHighlight :exec
DELETE FROM highlights WHERE id = $1 AND account_id = $2
`

func (q *Queries) DeleteHighlight(ctx context.Context, arg DeleteHighlightParams) error {
	tag, err := q.db.Exec(ctx, deleteHighlight, arg.ID, arg.AccountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return custom_errors.ErrNotFound
	}
	return nil
}

const setHighlightPosition = `-- name: SetHighlightPosition :exec
UPDATE highlights SET position = $3 WHERE id = $1 AND account_id = $2
`

func (q *Queries) SetHighlightPosition(ctx context.Context, arg SetHighlightPositionParams) error {
	_, err := q.db.Exec(ctx, setHighlightPosition, arg.ID, arg.AccountID, arg.Position)
	return err
}

func scanHighlight(row pgx.Row) (model.Highlight, error) {
	var h model.Highlight
	err := row.Scan(&h.ID, &h.AccountID, &h.RepositoryID, &h.Title, &h.Blurb, &h.Position, &h.RepoFullName, &h.RepoURL)
	return h, notFound(err)
}

func collectHighlights(rows pgx.Rows) ([]model.Highlight, error) {
	defer rows.Close()
	var items []model.Highlight
	for rows.Next() {
		h, err := scanHighlight(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}
