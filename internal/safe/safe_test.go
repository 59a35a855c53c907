// internal/safe/safe_test.go
package safe

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "github-portfolio/internal/errors"
)

func TestInt(t *testing.T) {
	assert.Equal(t, 4999, Int("4999"))
	assert.Equal(t, 12, Int(" 12 "))
	assert.Equal(t, 0, Int(""))
	assert.Equal(t, 0, Int("abc"))
	assert.Equal(t, int64(1739837000), Int64("1739837000"))
	assert.Equal(t, int64(0), Int64("1.5"))
}

func TestParseInt_ReturnsMalformedDataError(t *testing.T) {
	_, err := ParseInt("X-RateLimit-Used", "nan")
	require.Error(t, err)

	var malformed *custom_errors.MalformedDataError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "X-RateLimit-Used", malformed.Field)
	assert.Equal(t, "nan", malformed.Value)
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("created_at", "2020-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), got)

	_, err = ParseTime("created_at", "yesterday")
	var malformed *custom_errors.MalformedDataError
	assert.ErrorAs(t, err, &malformed)
}

func TestOptionalTime(t *testing.T) {
	got := OptionalTime("2020-01-02T05:04:05+02:00")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), *got)
	assert.Equal(t, time.UTC, got.Location())

	assert.Nil(t, OptionalTime(""))
	assert.Nil(t, OptionalTime("not-a-date"))
}

func TestBounds(t *testing.T) {
	assert.Equal(t, 0, NonNegative(-3))
	assert.Equal(t, 100.0, Clamp(140, 0, 100))
	assert.Equal(t, 0.0, Clamp(-1, 0, 100))
	assert.Equal(t, 6, Sum([]int{1, 2, -4, 3}))
}
