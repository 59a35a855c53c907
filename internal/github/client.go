// internal/github/client.go
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/metrics"
	"github-portfolio/internal/model"
)

const (
	DefaultBaseURL = "https://api.github.com/"
	DefaultTimeout = 20 * time.Second

	perPage     = 100
	pinnedLimit = 6
)

// Config is everything the client needs; there is no process-wide token.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client is a wrapper around the go-github client. Every call is a single
// round trip: no retries, no backoff, no caching.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	lastRate RateLimit
}

// NewClient creates and configures a new Client instance.
// When a token is set it is sent as a bearer token on every request.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var httpClient *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = timeout

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse GitHub base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("GitHub base URL must be absolute: %q", cfg.BaseURL)
	}

	gh := github.NewClient(httpClient)
	gh.BaseURL = parsed

	return &Client{
		gh:     gh,
		logger: logger,
		now:    time.Now,
	}, nil
}

// LastRateLimit returns the budget reported by the most recent response.
func (c *Client) LastRateLimit() RateLimit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRate
}

// GetAuthenticatedUser fetches GET /user and also returns the raw payload.
func (c *Client) GetAuthenticatedUser(ctx context.Context) (model.GitHubUser, json.RawMessage, error) {
	raw, err := c.getUser(ctx, "user", "user")
	if err != nil {
		return model.GitHubUser{}, nil, err
	}
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}

	var u userView
	if err := json.Unmarshal(raw, &u); err != nil {
		return model.GitHubUser{}, nil, &custom_errors.TransportError{Endpoint: "user", Err: fmt.Errorf("decode user: %w", err)}
	}
	return u.toModel(), raw, nil
}

// GetUser fetches the public profile of name.
func (c *Client) GetUser(ctx context.Context, name string) (model.GitHubUser, error) {
	raw, err := c.getUser(ctx, "users", "users/"+url.PathEscape(name))
	if err != nil {
		return model.GitHubUser{}, err
	}

	var u userView
	if err := json.Unmarshal(raw, &u); err != nil {
		return model.GitHubUser{}, &custom_errors.TransportError{Endpoint: "users", Err: fmt.Errorf("decode user: %w", err)}
	}
	return u.toModel(), nil
}

func (c *Client) getUser(ctx context.Context, endpoint, path string) (json.RawMessage, error) {
	req, err := c.gh.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}

	var raw json.RawMessage
	err = c.call(ctx, endpoint, func(ctx context.Context) (*github.Response, error) {
		return c.gh.Do(ctx, req, &raw)
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// ListRepositories lists up to 100 public repositories of name, most recently updated first.
func (c *Client) ListRepositories(ctx context.Context, name string) ([]model.Repository, error) {
	return c.listRepositories(ctx, name, url.Values{
		"sort":     {"updated"},
		"per_page": {strconv.Itoa(perPage)},
	})
}

// ListPinnedRepositories approximates pinned repositories, which the REST API does
// not expose: the 100 most recently pushed repositories ranked by (stars, forks).
func (c *Client) ListPinnedRepositories(ctx context.Context, name string) ([]model.Repository, error) {
	repos, err := c.listRepositories(ctx, name, url.Values{
		"sort":      {"pushed"},
		"direction": {"desc"},
		"per_page":  {strconv.Itoa(perPage)},
	})
	if err != nil {
		return nil, err
	}
	return SelectPinned(repos, pinnedLimit), nil
}

func (c *Client) listRepositories(ctx context.Context, name string, query url.Values) ([]model.Repository, error) {
	c.logger.Debug("Fetching repositories", "user", name, "sort", query.Get("sort"))

	req, err := c.gh.NewRequest(http.MethodGet, fmt.Sprintf("users/%s/repos?%s", url.PathEscape(name), query.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("build repos request: %w", err)
	}

	var items []json.RawMessage
	err = c.call(ctx, "repos", func(ctx context.Context) (*github.Response, error) {
		return c.gh.Do(ctx, req, &items)
	})
	if err != nil {
		return nil, err
	}

	views, dropped := decodeEach[repositoryView](items)
	if dropped > 0 {
		c.logger.Warn("Dropped undecodable repositories", "user", name, "count", dropped)
	}
	result := make([]model.Repository, 0, len(views))
	for _, v := range views {
		result = append(result, v.toModel())
	}
	return result, nil
}

// SelectPinned orders repos by stars then forks, both descending, and keeps the first n.
func SelectPinned(repos []model.Repository, n int) []model.Repository {
	ranked := make([]model.Repository, len(repos))
	copy(ranked, repos)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].StarsCount != ranked[j].StarsCount {
			return ranked[i].StarsCount > ranked[j].StarsCount
		}
		return ranked[i].ForksCount > ranked[j].ForksCount
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// GetRepositoryLanguages returns bytes of code per language.
func (c *Client) GetRepositoryLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	var langs map[string]int
	err := c.call(ctx, "languages", func(ctx context.Context) (resp *github.Response, err error) {
		langs, resp, err = c.gh.Repositories.ListLanguages(ctx, owner, repo)
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	if langs == nil {
		langs = map[string]int{}
	}
	return langs, nil
}

// GetCommitActivity returns the last year of weekly commit buckets. While GitHub is
// still computing the statistics (202 Accepted) the result is empty.
func (c *Client) GetCommitActivity(ctx context.Context, owner, repo string) ([]model.WeeklyCommits, error) {
	var weeks []*github.WeeklyCommitActivity
	err := c.call(ctx, "commit_activity", func(ctx context.Context) (resp *github.Response, err error) {
		weeks, resp, err = c.gh.Repositories.ListCommitActivity(ctx, owner, repo)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	result := make([]model.WeeklyCommits, 0, len(weeks))
	for _, w := range weeks {
		if w == nil {
			continue
		}
		result = append(result, model.WeeklyCommits{
			WeekStart: w.GetWeek().Time.UTC(),
			Days:      w.Days,
			Total:     w.GetTotal(),
		})
	}
	return result, nil
}

// ListPublicEvents returns the most recent (up to 100) public events of name.
func (c *Client) ListPublicEvents(ctx context.Context, name string) ([]model.Event, error) {
	req, err := c.gh.NewRequest(http.MethodGet, fmt.Sprintf("users/%s/events/public?per_page=%d", url.PathEscape(name), perPage), nil)
	if err != nil {
		return nil, fmt.Errorf("build events request: %w", err)
	}

	var items []json.RawMessage
	err = c.call(ctx, "events", func(ctx context.Context) (*github.Response, error) {
		return c.gh.Do(ctx, req, &items)
	})
	if err != nil {
		return nil, err
	}

	views, _ := decodeEach[eventView](items)
	result := make([]model.Event, 0, len(views))
	for _, e := range views {
		if e.CreatedAt.t == nil {
			continue
		}
		result = append(result, model.Event{
			Type:      e.Type,
			Repo:      e.Repo.Name,
			CreatedAt: *e.CreatedAt.t,
		})
	}
	return result, nil
}

// call runs one request and maps the outcome onto the error taxonomy.
func (c *Client) call(ctx context.Context, endpoint string, fn func(context.Context) (*github.Response, error)) error {
	start := time.Now()
	resp, err := fn(ctx)

	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	metrics.ObserveProviderCall(endpoint, status, start)

	return c.checkResponse(endpoint, resp, err)
}

func (c *Client) checkResponse(endpoint string, resp *github.Response, err error) error {
	// go-github also returns a *RateLimitError without a round trip while its
	// stored budget is exhausted; that response has no headers.
	var rlErr *github.RateLimitError
	if errors.As(err, &rlErr) {
		rate := fromGitHubRate(rlErr.Rate)
		c.recordRateLimit(rate)
		return c.rateLimitExceeded(endpoint, rate)
	}

	if resp != nil && resp.Response != nil {
		rate := ParseRateLimit(resp.Header)
		c.recordRateLimit(rate)

		switch {
		case resp.StatusCode == http.StatusForbidden && rate.IsExceeded():
			return c.rateLimitExceeded(endpoint, rate)
		case resp.StatusCode >= http.StatusBadRequest:
			return &custom_errors.ProviderHTTPError{StatusCode: resp.StatusCode, Endpoint: endpoint}
		}
	}

	if err == nil {
		return nil
	}
	var accepted *github.AcceptedError
	if errors.As(err, &accepted) {
		return nil
	}
	return &custom_errors.TransportError{Endpoint: endpoint, Err: err}
}

func (c *Client) rateLimitExceeded(endpoint string, rate RateLimit) error {
	reset := rate.SecondsUntilReset(c.now())
	c.logger.Warn("GitHub rate limit exceeded", "endpoint", endpoint, "reset_seconds", reset, "used", rate.Used, "limit", rate.Limit)
	return &custom_errors.RateLimitExceededError{ResetSeconds: reset, Used: rate.Used, Limit: rate.Limit}
}

func (c *Client) recordRateLimit(rate RateLimit) {
	c.mu.Lock()
	c.lastRate = rate
	c.mu.Unlock()
	metrics.RateLimitRemaining.Set(float64(rate.Remaining))
}
