// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by store lookups that match no row.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned by store writes that hit a unique constraint.
	ErrAlreadyExists = errors.New("already exists")

	// ErrSyncInProgress is returned when another sync already holds the account's lock.
	ErrSyncInProgress = errors.New("sync already in progress for account")
)

// ErrInvalidRepoFormat is returned when a repository full name is not in 'owner/name' format.
type ErrInvalidRepoFormat struct {
	Repo string
}

func (e *ErrInvalidRepoFormat) Error() string {
	return fmt.Sprintf("invalid repository format: %q, expected 'owner/name'", e.Repo)
}

// RateLimitExceededError is returned when GitHub answers 403 and the rate-limit budget is exhausted.
type RateLimitExceededError struct {
	ResetSeconds int
	Used         int
	Limit        int
}

func (e *RateLimitExceededError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded (%d/%d used), resets in %ds", e.Used, e.Limit, e.ResetSeconds)
}

// ProviderHTTPError is returned for any other 4xx/5xx answer from GitHub.
type ProviderHTTPError struct {
	StatusCode int
	Endpoint   string
}

func (e *ProviderHTTPError) Error() string {
	return fmt.Sprintf("GitHub API %s returned status %d", e.Endpoint, e.StatusCode)
}

// IsNotFound reports whether err is a provider 404.
func IsNotFound(err error) bool {
	var httpErr *ProviderHTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == 404
}

// TransportError wraps network failures, timeouts and unreadable response bodies.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("GitHub API %s: transport failure: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedDataError describes a field that could not be coerced. It is always
// recovered by the caller with a default value.
type MalformedDataError struct {
	Field string
	Value string
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed value %q for field %s", e.Value, e.Field)
}

// ValidationError is returned for rejected user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
