// internal/database/accounts.sql.go
package database

import (
	"context"

	"github-portfolio/internal/model"
)

const createAccount = `-- name: CreateAccount :one
INSERT INTO accounts (username) VALUES ($1)
RETURNING id, username, created_at
`

func (q *Queries) CreateAccount(ctx context.Context, username string) (model.Account, error) {
	row := q.db.QueryRow(ctx, createAccount, username)
	var a model.Account
	err := row.Scan(&a.ID, &a.Username, &a.CreatedAt)
	return a, alreadyExists(err)
}

const getAccount = `-- name: GetAccount :one
SELECT id, username, created_at FROM accounts WHERE id = $1
`

func (q *Queries) GetAccount(ctx context.Context, id int64) (model.Account, error) {
	row := q.db.QueryRow(ctx, getAccount, id)
	var a model.Account
	err := row.Scan(&a.ID, &a.Username, &a.CreatedAt)
	return a, notFound(err)
}

const getAccountByUsername = `-- name: GetAccountByUsername :one
SELECT id, username, created_at FROM accounts WHERE username = $1
`

func (q *Queries) GetAccountByUsername(ctx context.Context, username string) (model.Account, error) {
	row := q.db.QueryRow(ctx, getAccountByUsername, username)
	var a model.Account
	err := row.Scan(&a.ID, &a.Username, &a.CreatedAt)
	return a, notFound(err)
}

const upsertOAuthIdentity = `-- name: UpsertOAuthIdentity :exec
INSERT INTO oauth_identities (account_id, provider, access_token)
VALUES ($1, $2, $3)
ON CONFLICT (account_id, provider) DO UPDATE
SET access_token = EXCLUDED.access_token,
    updated_at = now()
`

func (q *Queries) UpsertOAuthIdentity(ctx context.Context, arg UpsertOAuthIdentityParams) error {
	_, err := q.db.Exec(ctx, upsertOAuthIdentity, arg.AccountID, arg.Provider, arg.AccessToken)
	return err
}

const getAccessToken = `-- name: GetAccessToken :one
SELECT access_token FROM oauth_identities
WHERE account_id = $1 AND provider = $2
`

func (q *Queries) GetAccessToken(ctx context.Context, arg GetAccessTokenParams) (string, error) {
	row := q.db.QueryRow(ctx, getAccessToken, arg.AccountID, arg.Provider)
	var token string
	err := row.Scan(&token)
	return token, notFound(err)
}

const listLinkedAccountIDs = `-- name: ListLinkedAccountIDs :many
SELECT account_id FROM oauth_identities
WHERE provider = $1 AND access_token <> ''
ORDER BY account_id
`

func (q *Queries) ListLinkedAccountIDs(ctx context.Context, provider string) ([]int64, error) {
	rows, err := q.db.Query(ctx, listLinkedAccountIDs, provider)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	return items, rows.Err()
}
