// internal/portfolio/highlights.go
package portfolio

import (
	"context"
	"errors"

	"github-portfolio/internal/database"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

// HighlightInput is the editable part of a highlight.
type HighlightInput struct {
	RepositoryID int64  `json:"repository_id"`
	Title        string `json:"title"`
	Blurb        string `json:"blurb"`
}

func (s *Service) ListHighlights(ctx context.Context, accountID int64) ([]model.Highlight, error) {
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	hs, err := s.store.ListHighlightsByAccount(ctx, accountID)
	if hs == nil && err == nil {
		hs = []model.Highlight{}
	}
	return hs, err
}

// CreateHighlight appends a highlight for one of the account's repositories.
// An empty title defaults to the repository name.
func (s *Service) CreateHighlight(ctx context.Context, accountID int64, in HighlightInput) (model.Highlight, error) {
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return model.Highlight{}, err
	}
	in.Title = normalize(in.Title)
	in.Blurb = normalize(in.Blurb)
	if err := validateLength("title", in.Title, maxTitleLength); err != nil {
		return model.Highlight{}, err
	}
	if err := validateLength("blurb", in.Blurb, maxTextLength); err != nil {
		return model.Highlight{}, err
	}

	repo, err := s.store.GetRepositoryForAccount(ctx, database.GetRepositoryForAccountParams{ID: in.RepositoryID, AccountID: accountID})
	if errors.Is(err, custom_errors.ErrNotFound) {
		return model.Highlight{}, &custom_errors.ValidationError{Field: "repository_id", Reason: "is not a repository of this account"}
	}
	if err != nil {
		return model.Highlight{}, err
	}
	if in.Title == "" {
		in.Title = repo.Name
	}

	var h model.Highlight
	err = s.store.ExecTx(ctx, func(q database.Querier) error {
		var err error
		h, err = q.CreateHighlight(ctx, database.CreateHighlightParams{
			AccountID:    accountID,
			RepositoryID: repo.ID,
			Title:        in.Title,
			Blurb:        in.Blurb,
		})
		return err
	})
	return h, err
}

// DeleteHighlight removes a highlight and closes the gap in positions.
func (s *Service) DeleteHighlight(ctx context.Context, accountID, highlightID int64) error {
	return s.store.ExecTx(ctx, func(q database.Querier) error {
		if err := q.DeleteHighlight(ctx, database.DeleteHighlightParams{ID: highlightID, AccountID: accountID}); err != nil {
			return err
		}
		remaining, err := q.ListHighlightsByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		_, err = renumber(ctx, q, accountID, remaining)
		return err
	})
}

// ReorderHighlights moves the listed highlights to the front in the given
// order. Ids that are unknown or belong to another account are ignored and
// unlisted highlights keep their relative order after the listed ones.
func (s *Service) ReorderHighlights(ctx context.Context, accountID int64, order []int64) ([]model.Highlight, error) {
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	var result []model.Highlight
	err := s.store.ExecTx(ctx, func(q database.Querier) error {
		current, err := q.ListHighlightsByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		owned := make(map[int64]model.Highlight, len(current))
		for _, h := range current {
			owned[h.ID] = h
		}

		placed := make(map[int64]bool, len(order))
		next := make([]model.Highlight, 0, len(current))
		for _, id := range order {
			if h, ok := owned[id]; ok && !placed[id] {
				next = append(next, h)
				placed[id] = true
			}
		}
		for _, h := range current {
			if !placed[h.ID] {
				next = append(next, h)
			}
		}

		result, err = renumber(ctx, q, accountID, next)
		return err
	})
	return result, err
}

// renumber stores positions 0..n-1 in slice order, writing only changed rows.
func renumber(ctx context.Context, q database.Querier, accountID int64, hs []model.Highlight) ([]model.Highlight, error) {
	for i := range hs {
		if hs[i].Position == i {
			continue
		}
		if err := q.SetHighlightPosition(ctx, database.SetHighlightPositionParams{
			ID:        hs[i].ID,
			AccountID: accountID,
			Position:  i,
		}); err != nil {
			return nil, err
		}
		hs[i].Position = i
	}
	return hs, nil
}
