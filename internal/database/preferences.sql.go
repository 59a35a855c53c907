// internal/database/preferences.sql.go
package database

import (
	"context"

	"github-portfolio/internal/model"
)

const ensurePreferences = `-- name: EnsurePreferences :exec
INSERT INTO preferences (account_id) VALUES ($1)
ON CONFLICT (account_id) DO NOTHING
`

const getPreferences = `-- name: GetPreferences :one
SELECT account_id, theme, primary_color, accent_color, bio_intro
FROM preferences WHERE account_id = $1
`

// GetOrCreatePreferences returns the account's preferences, creating the defaults on first access.
func (q *Queries) GetOrCreatePreferences(ctx context.Context, accountID int64) (model.Preferences, error) {
	if _, err := q.db.Exec(ctx, ensurePreferences, accountID); err != nil {
		return model.Preferences{}, err
	}
	row := q.db.QueryRow(ctx, getPreferences, accountID)
	var p model.Preferences
	err := row.Scan(&p.AccountID, &p.Theme, &p.PrimaryColor, &p.AccentColor, &p.BioIntro)
	return p, notFound(err)
}

const updatePreferences = `-- name: UpdatePreferences :one
INSERT INTO preferences (account_id, theme, primary_color, accent_color, bio_intro)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (account_id) DO UPDATE
SET theme         = EXCLUDED.theme,
    primary_color = EXCLUDED.primary_color,
    accent_color  = EXCLUDED.accent_color,
    bio_intro     = EXCLUDED.bio_intro
RETURNING account_id, theme, primary_color, accent_color, bio_intro
`

func (q *Queries) UpdatePreferences(ctx context.Context, arg model.Preferences) (model.Preferences, error) {
	row := q.db.QueryRow(ctx, updatePreferences, arg.AccountID, arg.Theme, arg.PrimaryColor, arg.AccentColor, arg.BioIntro)
	var p model.Preferences
	err := row.Scan(&p.AccountID, &p.Theme, &p.PrimaryColor, &p.AccentColor, &p.BioIntro)
	return p, err
}
