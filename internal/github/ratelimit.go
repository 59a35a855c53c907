// internal/github/ratelimit.go
package github

import (
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"

	"github-portfolio/internal/safe"
)

// RateLimit is the rate-limit budget reported by one GitHub response.
type RateLimit struct {
	Remaining int
	Limit     int
	Used      int
	ResetTime time.Time
}

// ParseRateLimit reads the X-RateLimit-* headers. Missing or garbled values are 0.
func ParseRateLimit(header http.Header) RateLimit {
	return RateLimit{
		Remaining: safe.Int(header.Get("X-RateLimit-Remaining")),
		Limit:     safe.Int(header.Get("X-RateLimit-Limit")),
		Used:      safe.Int(header.Get("X-RateLimit-Used")),
		ResetTime: time.Unix(safe.Int64(header.Get("X-RateLimit-Reset")), 0),
	}
}

// fromGitHubRate converts the budget go-github attaches to a *github.RateLimitError.
func fromGitHubRate(r github.Rate) RateLimit {
	reset := time.Unix(0, 0)
	if !r.Reset.Time.IsZero() {
		reset = r.Reset.Time
	}
	return RateLimit{
		Remaining: r.Remaining,
		Limit:     r.Limit,
		Used:      r.Used,
		ResetTime: reset,
	}
}

// IsExceeded reports whether the budget is used up.
func (r RateLimit) IsExceeded() bool {
	return r.Remaining <= 0
}

// SecondsUntilReset is the whole number of seconds until the budget resets, never negative.
func (r RateLimit) SecondsUntilReset(now time.Time) int {
	wait := r.ResetTime.Sub(now)
	if wait <= 0 {
		return 0
	}
	return int(wait / time.Second)
}
