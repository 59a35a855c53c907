// internal/portfolio/validate.go
package portfolio

import (
	"net/url"
	"regexp"
	"strings"

	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

var (
	// GitHub login rules: alphanumerics and single inner hyphens.
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9]){0,38}$`)
	colorPattern    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

const (
	maxTitleLength = 200
	maxTextLength  = 2000
)

func validateUsername(field, v string) error {
	if len(v) > 39 || !usernamePattern.MatchString(v) {
		return &custom_errors.ValidationError{Field: field, Reason: "must be a valid GitHub username"}
	}
	return nil
}

func validateBlog(v string) error {
	if v == "" {
		return nil
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &custom_errors.ValidationError{Field: "blog", Reason: "must be an absolute http(s) URL"}
	}
	return nil
}

func validateTheme(v string) error {
	if v != model.ThemeLight && v != model.ThemeDark {
		return &custom_errors.ValidationError{Field: "theme", Reason: "must be light or dark"}
	}
	return nil
}

func validateColor(field, v string) error {
	if !colorPattern.MatchString(v) {
		return &custom_errors.ValidationError{Field: field, Reason: "must be a #rrggbb color"}
	}
	return nil
}

func validateLength(field, v string, max int) error {
	if len([]rune(v)) > max {
		return &custom_errors.ValidationError{Field: field, Reason: "is too long"}
	}
	return nil
}

func normalize(v string) string {
	return strings.TrimSpace(v)
}
