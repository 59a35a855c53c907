// internal/database/databasetest/memstore.go

// Package databasetest provides an in-memory database.Store for tests.
package databasetest

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github-portfolio/internal/database"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

type tokenKey struct {
	accountID int64
	provider  string
}

type activityKey struct {
	repositoryID int64
	week         string
}

// MemStore mirrors the natural-key semantics of the SQL store. ExecTx does
// not roll back.
type MemStore struct {
	mu     sync.Mutex
	nextID int64
	fail   map[string]error

	accounts    map[int64]model.Account
	tokens      map[tokenKey]string
	profiles    map[int64]model.Profile
	snapshots   []model.ProfileSnapshot
	repos       map[int64]model.Repository
	repoByGHID  map[int64]int64
	activity    map[activityKey]model.CommitActivityWeek
	highlights  map[int64]model.Highlight
	preferences map[int64]model.Preferences

	Now func() time.Time
}

var _ database.Store = (*MemStore)(nil)

func New() *MemStore {
	return &MemStore{
		fail:        map[string]error{},
		accounts:    map[int64]model.Account{},
		tokens:      map[tokenKey]string{},
		profiles:    map[int64]model.Profile{},
		repos:       map[int64]model.Repository{},
		repoByGHID:  map[int64]int64{},
		activity:    map[activityKey]model.CommitActivityWeek{},
		highlights:  map[int64]model.Highlight{},
		preferences: map[int64]model.Preferences{},
		Now:         time.Now,
	}
}

// Fail makes every later call of method return err. A nil err clears it.
func (s *MemStore) Fail(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, method)
		return
	}
	s.fail[method] = err
}

func (s *MemStore) id() int64 {
	s.nextID++
	return s.nextID
}

// Repositories returns every stored repository ordered by GitHub id.
func (s *MemStore) Repositories() []model.Repository {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Repository, 0, len(s.repos))
	for _, r := range s.repos {
		out = append(out, cloneRepo(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GithubRepoID < out[j].GithubRepoID })
	return out
}

// CommitActivity returns every stored week ordered by repository and week.
func (s *MemStore) CommitActivity() []model.CommitActivityWeek {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CommitActivityWeek, 0, len(s.activity))
	for _, w := range s.activity {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RepositoryID != out[j].RepositoryID {
			return out[i].RepositoryID < out[j].RepositoryID
		}
		return out[i].Week.Before(out[j].Week)
	})
	return out
}

func (s *MemStore) ExecTx(ctx context.Context, fn func(database.Querier) error) error {
	if err := s.failure("ExecTx"); err != nil {
		return err
	}
	return fn(s)
}

func (s *MemStore) failure(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail[method]
}

func (s *MemStore) CreateAccount(_ context.Context, username string) (model.Account, error) {
	if err := s.failure("CreateAccount"); err != nil {
		return model.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Username == username {
			return model.Account{}, fmt.Errorf("duplicate username %q: %w", username, custom_errors.ErrAlreadyExists)
		}
	}
	a := model.Account{ID: s.id(), Username: username, CreatedAt: s.Now()}
	s.accounts[a.ID] = a
	return a, nil
}

func (s *MemStore) GetAccount(_ context.Context, id int64) (model.Account, error) {
	if err := s.failure("GetAccount"); err != nil {
		return model.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return model.Account{}, custom_errors.ErrNotFound
	}
	return a, nil
}

func (s *MemStore) GetAccountByUsername(_ context.Context, username string) (model.Account, error) {
	if err := s.failure("GetAccountByUsername"); err != nil {
		return model.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return model.Account{}, custom_errors.ErrNotFound
}

func (s *MemStore) UpsertOAuthIdentity(_ context.Context, arg database.UpsertOAuthIdentityParams) error {
	if err := s.failure("UpsertOAuthIdentity"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey{arg.AccountID, arg.Provider}] = arg.AccessToken
	return nil
}

func (s *MemStore) GetAccessToken(_ context.Context, arg database.GetAccessTokenParams) (string, error) {
	if err := s.failure("GetAccessToken"); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[tokenKey{arg.AccountID, arg.Provider}]
	if !ok {
		return "", custom_errors.ErrNotFound
	}
	return token, nil
}

func (s *MemStore) ListLinkedAccountIDs(_ context.Context, provider string) ([]int64, error) {
	if err := s.failure("ListLinkedAccountIDs"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for k, token := range s.tokens {
		if k.provider == provider && token != "" {
			ids = append(ids, k.accountID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *MemStore) GetOrCreateProfile(_ context.Context, accountID int64) (model.Profile, error) {
	if err := s.failure("GetOrCreateProfile"); err != nil {
		return model.Profile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[accountID]
	if !ok {
		p = model.Profile{AccountID: accountID, UpdatedAt: s.Now()}
		s.profiles[accountID] = p
	}
	return p, nil
}

func (s *MemStore) UpsertProfile(_ context.Context, arg database.UpsertProfileParams) (model.Profile, error) {
	if err := s.failure("UpsertProfile"); err != nil {
		return model.Profile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Profile{
		AccountID:       arg.AccountID,
		GithubUsername:  arg.GithubUsername,
		AvatarURL:       arg.AvatarURL,
		Bio:             arg.Bio,
		Company:         arg.Company,
		Location:        arg.Location,
		Blog:            arg.Blog,
		HTMLURL:         arg.HTMLURL,
		Followers:       arg.Followers,
		Following:       arg.Following,
		PublicRepos:     arg.PublicRepos,
		GithubCreatedAt: arg.GithubCreatedAt,
		UpdatedAt:       s.Now(),
	}
	s.profiles[arg.AccountID] = p
	return p, nil
}

func (s *MemStore) UpdateProfileDetails(_ context.Context, arg database.UpdateProfileDetailsParams) (model.Profile, error) {
	if err := s.failure("UpdateProfileDetails"); err != nil {
		return model.Profile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[arg.AccountID]
	if !ok {
		return model.Profile{}, custom_errors.ErrNotFound
	}
	p.GithubUsername = arg.GithubUsername
	p.Bio = arg.Bio
	p.Company = arg.Company
	p.Location = arg.Location
	p.Blog = arg.Blog
	p.UpdatedAt = s.Now()
	s.profiles[arg.AccountID] = p
	return p, nil
}

func (s *MemStore) CreateProfileSnapshot(_ context.Context, arg database.CreateProfileSnapshotParams) (model.ProfileSnapshot, error) {
	if err := s.failure("CreateProfileSnapshot"); err != nil {
		return model.ProfileSnapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	raw := slices.Clone(arg.RawProfile)
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	snap := model.ProfileSnapshot{ID: s.id(), AccountID: arg.AccountID, RawProfile: raw, FetchedAt: s.Now()}
	s.snapshots = append(s.snapshots, snap)
	return snap, nil
}

func (s *MemStore) ListProfileSnapshots(_ context.Context, arg database.ListProfileSnapshotsParams) ([]model.ProfileSnapshot, error) {
	if err := s.failure("ListProfileSnapshots"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ProfileSnapshot
	for i := len(s.snapshots) - 1; i >= 0 && len(out) < int(arg.Limit); i-- {
		if s.snapshots[i].AccountID == arg.AccountID {
			out = append(out, s.snapshots[i])
		}
	}
	return out, nil
}

func (s *MemStore) UpsertRepository(_ context.Context, arg database.UpsertRepositoryParams) (model.Repository, error) {
	if err := s.failure("UpsertRepository"); err != nil {
		return model.Repository{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.repoByGHID[arg.GithubRepoID]
	if !ok {
		id = s.id()
		s.repoByGHID[arg.GithubRepoID] = id
	}
	languages := maps.Clone(arg.Languages)
	if languages == nil {
		languages = map[string]int{}
	}
	topics := slices.Clone(arg.Topics)
	if topics == nil {
		topics = []string{}
	}
	r := model.Repository{
		ID:            id,
		GithubRepoID:  arg.GithubRepoID,
		AccountID:     arg.AccountID,
		Owner:         arg.Owner,
		Name:          arg.Name,
		FullName:      arg.FullName,
		Description:   arg.Description,
		URL:           arg.URL,
		StarsCount:    arg.StarsCount,
		ForksCount:    arg.ForksCount,
		Size:          arg.Size,
		Language:      arg.Language,
		Languages:     languages,
		Topics:        topics,
		PushedAt:      arg.PushedAt,
		RepoUpdatedAt: arg.RepoUpdatedAt,
		IsPinned:      arg.IsPinned,
	}
	s.repos[id] = r
	return cloneRepo(r), nil
}

func (s *MemStore) ListRepositoriesByAccount(_ context.Context, accountID int64) ([]model.Repository, error) {
	if err := s.failure("ListRepositoriesByAccount"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Repository
	for _, r := range s.repos {
		if r.AccountID == accountID {
			out = append(out, cloneRepo(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StarsCount != out[j].StarsCount {
			return out[i].StarsCount > out[j].StarsCount
		}
		if out[i].ForksCount != out[j].ForksCount {
			return out[i].ForksCount > out[j].ForksCount
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStore) GetRepositoryForAccount(_ context.Context, arg database.GetRepositoryForAccountParams) (model.Repository, error) {
	if err := s.failure("GetRepositoryForAccount"); err != nil {
		return model.Repository{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.repos[arg.ID]
	if !ok || r.AccountID != arg.AccountID {
		return model.Repository{}, custom_errors.ErrNotFound
	}
	return cloneRepo(r), nil
}

func (s *MemStore) UpsertCommitActivity(_ context.Context, arg database.UpsertCommitActivityParams) error {
	if err := s.failure("UpsertCommitActivity"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.repos[arg.RepositoryID]; !ok {
		return fmt.Errorf("repository %d does not exist", arg.RepositoryID)
	}
	key := activityKey{arg.RepositoryID, arg.Week.Format("2006-01-02")}
	s.activity[key] = model.CommitActivityWeek{RepositoryID: arg.RepositoryID, Week: arg.Week, Commits: arg.Commits}
	return nil
}

func (s *MemStore) ListWeeklyCommitTotals(_ context.Context, accountID int64) ([]model.WeeklyCommitTotal, error) {
	if err := s.failure("ListWeeklyCommitTotals"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	totals := map[string]*model.WeeklyCommitTotal{}
	for key, w := range s.activity {
		if s.repos[w.RepositoryID].AccountID != accountID {
			continue
		}
		t, ok := totals[key.week]
		if !ok {
			t = &model.WeeklyCommitTotal{Week: w.Week}
			totals[key.week] = t
		}
		t.Commits += w.Commits
	}
	out := make([]model.WeeklyCommitTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week.Before(out[j].Week) })
	return out, nil
}

func (s *MemStore) CreateHighlight(_ context.Context, arg database.CreateHighlightParams) (model.Highlight, error) {
	if err := s.failure("CreateHighlight"); err != nil {
		return model.Highlight{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	repo, ok := s.repos[arg.RepositoryID]
	if !ok {
		return model.Highlight{}, fmt.Errorf("repository %d does not exist", arg.RepositoryID)
	}
	position := 0
	for _, h := range s.highlights {
		if h.AccountID == arg.AccountID && h.Position >= position {
			position = h.Position + 1
		}
	}
	h := model.Highlight{
		ID:           s.id(),
		AccountID:    arg.AccountID,
		RepositoryID: arg.RepositoryID,
		Title:        arg.Title,
		Blurb:        arg.Blurb,
		Position:     position,
		RepoFullName: repo.FullName,
		RepoURL:      repo.URL,
	}
	s.highlights[h.ID] = h
	return h, nil
}

func (s *MemStore) ListHighlightsByAccount(_ context.Context, accountID int64) ([]model.Highlight, error) {
	if err := s.failure("ListHighlightsByAccount"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlightsOf(accountID), nil
}

func (s *MemStore) ListHighlightsByUsername(_ context.Context, username string) ([]model.Highlight, error) {
	if err := s.failure("ListHighlightsByUsername"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Username == username {
			return s.highlightsOf(a.ID), nil
		}
	}
	return nil, nil
}

func (s *MemStore) highlightsOf(accountID int64) []model.Highlight {
	var out []model.Highlight
	for _, h := range s.highlights {
		if h.AccountID == accountID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemStore) DeleteHighlight(_ context.Context, arg database.DeleteHighlightParams) error {
	if err := s.failure("DeleteHighlight"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.highlights[arg.ID]
	if !ok || h.AccountID != arg.AccountID {
		return custom_errors.ErrNotFound
	}
	delete(s.highlights, arg.ID)
	return nil
}

func (s *MemStore) SetHighlightPosition(_ context.Context, arg database.SetHighlightPositionParams) error {
	if err := s.failure("SetHighlightPosition"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.highlights[arg.ID]
	if ok && h.AccountID == arg.AccountID {
		h.Position = arg.Position
		s.highlights[arg.ID] = h
	}
	return nil
}

func (s *MemStore) GetOrCreatePreferences(_ context.Context, accountID int64) (model.Preferences, error) {
	if err := s.failure("GetOrCreatePreferences"); err != nil {
		return model.Preferences{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.preferences[accountID]
	if !ok {
		p = model.Preferences{
			AccountID:    accountID,
			Theme:        model.ThemeLight,
			PrimaryColor: model.DefaultPrimaryColor,
			AccentColor:  model.DefaultAccentColor,
		}
		s.preferences[accountID] = p
	}
	return p, nil
}

func (s *MemStore) UpdatePreferences(_ context.Context, arg model.Preferences) (model.Preferences, error) {
	if err := s.failure("UpdatePreferences"); err != nil {
		return model.Preferences{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[arg.AccountID] = arg
	return arg, nil
}

func cloneRepo(r model.Repository) model.Repository {
	r.Languages = maps.Clone(r.Languages)
	r.Topics = slices.Clone(r.Topics)
	return r
}
