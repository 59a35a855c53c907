// internal/stats/stats_test.go
package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-portfolio/internal/model"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := now.AddDate(0, 0, -n)
	return &t
}

func TestSummarize_Example(t *testing.T) {
	repos := []model.Repository{
		{Name: "popular", StarsCount: 100, ForksCount: 10, RepoUpdatedAt: daysAgo(10)},
		{Name: "stale", StarsCount: 0, ForksCount: 0, RepoUpdatedAt: daysAgo(200)},
	}

	s := Summarize(repos, nil, now)

	assert.Equal(t, 100, s.TotalStars)
	assert.Equal(t, 10, s.TotalForks)
	assert.Equal(t, 1, s.RecentActivity)
	assert.Equal(t, 10.0, s.ConsistencyScore)
	assert.Equal(t, 50.0, s.CollaborationScore)
	assert.Equal(t, 51.0, s.InnovationScore)
	assert.Equal(t, 50.0, s.AverageStarsPerRepo)
	assert.Equal(t, 1, s.YearsExperience)
	assert.Equal(t, "Mid-level", s.SkillLevel)
	assert.Equal(t, "Low", s.ActivityLevel)
}

func TestSummarize_NoRepositories(t *testing.T) {
	s := Summarize(nil, nil, now)

	assert.Equal(t, 0, s.TotalStars)
	assert.Equal(t, 0.0, s.CollaborationScore)
	assert.Equal(t, 0.0, s.InnovationScore)
	assert.Equal(t, 0.0, s.ConsistencyScore)
	assert.Equal(t, 0.0, s.AverageStarsPerRepo)
	assert.Equal(t, "", s.MostUsedLanguage)
	assert.Empty(t, s.ProjectTypes)
	assert.Empty(t, s.TopLanguages)
	assert.Equal(t, 1, s.YearsExperience)
	assert.Equal(t, "Junior", s.SkillLevel)
}

func TestSummarize_ScoresAreBounded(t *testing.T) {
	var repos []model.Repository
	for i := 0; i < 40; i++ {
		repos = append(repos, model.Repository{
			Name:          "web-api-data-ml-mobile",
			Language:      []string{"Go", "Rust", "TypeScript", "Python"}[i%4],
			StarsCount:    1000,
			ForksCount:    500,
			RepoUpdatedAt: daysAgo(i),
		})
	}

	s := Summarize(repos, nil, now)

	for name, score := range map[string]float64{
		"collaboration": s.CollaborationScore,
		"innovation":    s.InnovationScore,
		"consistency":   s.ConsistencyScore,
	} {
		assert.GreaterOrEqual(t, score, 0.0, name)
		assert.LessOrEqual(t, score, 100.0, name)
	}
	assert.Equal(t, 100.0, s.CollaborationScore)
	assert.Equal(t, "Senior", s.SkillLevel)
	assert.Equal(t, "High", s.ActivityLevel)
}

func TestSummarize_MissingFieldsCountAsZero(t *testing.T) {
	repos := []model.Repository{
		{},
		{Name: "negative", StarsCount: -5, ForksCount: -1, Size: -100},
	}

	require.NotPanics(t, func() {
		s := Summarize(repos, nil, now)
		assert.Equal(t, 0, s.TotalStars)
		assert.Equal(t, 0, s.TotalForks)
		assert.Equal(t, 0, s.RecentActivity)
		assert.Equal(t, 0.0, s.CollaborationScore)
	})
}

func TestSummarize_Languages(t *testing.T) {
	repos := []model.Repository{
		{Language: "Go", StarsCount: 10, ForksCount: 1, Size: 5000},
		{Language: "Go", StarsCount: 0, ForksCount: 0, Size: 1000},
		{Language: "Python", StarsCount: 3},
		{Language: "Rust", Size: 2000},
		{Language: "C"},
		{Language: "Shell", ForksCount: 1},
		{Language: "Zig", StarsCount: 1},
		{Language: ""},
	}

	s := Summarize(repos, nil, now)

	assert.Equal(t, map[string]int{"Go": 2, "Python": 1, "Rust": 1, "C": 1, "Shell": 1, "Zig": 1}, s.LanguageCounts)
	assert.Equal(t, 6, s.LanguagesCount)
	assert.Equal(t, "Go", s.MostUsedLanguage)
	require.Len(t, s.TopLanguages, 5)
	assert.Equal(t, LanguageWeight{Language: "Go", Weight: 27}, s.TopLanguages[0])
	assert.Equal(t, LanguageWeight{Language: "Python", Weight: 6}, s.TopLanguages[1])
	assert.Equal(t, LanguageWeight{Language: "Rust", Weight: 2}, s.TopLanguages[2])
	assert.Equal(t, LanguageWeight{Language: "Zig", Weight: 2}, s.TopLanguages[3])
	assert.Equal(t, LanguageWeight{Language: "Shell", Weight: 1}, s.TopLanguages[4])
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name        string
		repoName    string
		description string
		want        []string
	}{
		{"name match", "my-React-app", "", []string{"Frontend"}},
		{"description match", "tool", "A Flask backend", []string{"Backend"}},
		{"multiple tags", "mobile-dashboard", "", []string{"Mobile", "Data"}},
		{"substring match", "email-sender", "", []string{"AI/ML"}},
		{"no match", "dotfiles", "my config", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.repoName, tc.description))
		})
	}
}

func TestSummarize_ProjectTypesAreSortedAndDeduplicated(t *testing.T) {
	repos := []model.Repository{
		{Name: "web-ui"},
		{Name: "frontend-kit"},
		{Name: "ios-client"},
		{Name: "analytics", Description: "REST api"},
	}

	s := Summarize(repos, nil, now)

	assert.Equal(t, []string{"Backend", "Data", "Frontend", "Mobile"}, s.ProjectTypes)
}

func TestYearsExperience(t *testing.T) {
	assert.Equal(t, 1, YearsExperience(nil, now))
	assert.Equal(t, 1, YearsExperience(&time.Time{}, now))
	assert.Equal(t, 1, YearsExperience(daysAgo(100), now))
	assert.Equal(t, 1, YearsExperience(daysAgo(-30), now), "future creation date")
	assert.Equal(t, 3, YearsExperience(daysAgo(365*3+200), now))
}

func TestScoreFormulas(t *testing.T) {
	assert.Equal(t, 14.0, CollaborationScore(1, 1))
	assert.Equal(t, 100.0, CollaborationScore(10, 0))
	assert.Equal(t, 13.5, InnovationScore(5, 1, 2, 1))
	assert.Equal(t, 100.0, InnovationScore(500, 0, 0, 0))
	assert.Equal(t, 30.0, ConsistencyScore(3))
	assert.Equal(t, 100.0, ConsistencyScore(11))
}
