// internal/stats/stats.go

// Package stats derives recruiter-facing metrics from a repository list.
// Everything here is a pure function of its inputs: missing or malformed
// fields count as zero and no function returns an error.
package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github-portfolio/internal/model"
	"github-portfolio/internal/safe"
)

const (
	recentWindow      = 90 * 24 * time.Hour
	topLanguagesLimit = 5
	maxScore          = 100.0
)

// projectTypeKeywords classifies a repository by substring match on its name and description.
var projectTypeKeywords = []struct {
	Tag      string
	Keywords []string
}{
	{"Frontend", []string{"web", "frontend", "react", "vue", "angular"}},
	{"Backend", []string{"api", "backend", "server", "django", "flask"}},
	{"Mobile", []string{"mobile", "ios", "android", "flutter", "react-native"}},
	{"AI/ML", []string{"ml", "ai", "tensorflow", "pytorch", "machine-learning"}},
	{"Data", []string{"data", "analytics", "visualization", "dashboard"}},
}

// LanguageWeight is one entry of the top-languages ranking.
type LanguageWeight struct {
	Language string  `json:"language"`
	Weight   float64 `json:"weight"`
}

// Summary is the aggregate view of an account's repositories.
type Summary struct {
	TotalStars          int              `json:"total_stars_received"`
	TotalForks          int              `json:"total_forks_received"`
	RepositoryCount     int              `json:"repository_count"`
	AverageStarsPerRepo float64          `json:"average_stars_per_repo"`
	MostUsedLanguage    string           `json:"most_used_language"`
	LanguageCounts      map[string]int   `json:"language_counts"`
	LanguagesCount      int              `json:"languages_count"`
	RecentActivity      int              `json:"recent_activity"`
	ProjectTypes        []string         `json:"project_diversity"`
	TopLanguages        []LanguageWeight `json:"top_languages"`
	CollaborationScore  float64          `json:"collaboration_score"`
	InnovationScore     float64          `json:"innovation_score"`
	ConsistencyScore    float64          `json:"consistency_score"`
	YearsExperience     int              `json:"years_experience"`
	SkillLevel          string           `json:"skill_level"`
	ActivityLevel       string           `json:"activity_level"`
}

// Summarize computes the Summary of repos as of now. accountCreated may be nil.
func Summarize(repos []model.Repository, accountCreated *time.Time, now time.Time) Summary {
	s := Summary{
		RepositoryCount: len(repos),
		LanguageCounts:  map[string]int{},
		ProjectTypes:    []string{},
	}

	weights := map[string]float64{}
	tags := map[string]struct{}{}
	forkedRepos, starredRepos := 0, 0

	for _, r := range repos {
		stars := safe.NonNegative(r.StarsCount)
		forks := safe.NonNegative(r.ForksCount)

		s.TotalStars += stars
		s.TotalForks += forks
		if stars > 0 {
			starredRepos++
		}
		if forks > 0 {
			forkedRepos++
		}

		if lang := strings.TrimSpace(r.Language); lang != "" {
			s.LanguageCounts[lang]++
			weights[lang] += complexity(stars, forks, r.Size)
		}

		if isRecent(r.RepoUpdatedAt, now) {
			s.RecentActivity++
		}

		for _, tag := range Classify(r.Name, r.Description) {
			tags[tag] = struct{}{}
		}
	}

	for tag := range tags {
		s.ProjectTypes = append(s.ProjectTypes, tag)
	}
	sort.Strings(s.ProjectTypes)

	s.LanguagesCount = len(s.LanguageCounts)
	s.MostUsedLanguage = mostUsed(s.LanguageCounts)
	s.TopLanguages = topLanguages(weights, topLanguagesLimit)
	if len(repos) > 0 {
		s.AverageStarsPerRepo = math.Round(float64(s.TotalStars)/float64(len(repos))*10) / 10
	}

	s.CollaborationScore = CollaborationScore(forkedRepos, s.TotalForks)
	s.InnovationScore = InnovationScore(s.TotalStars, starredRepos, s.LanguagesCount, len(s.ProjectTypes))
	s.ConsistencyScore = ConsistencyScore(s.RecentActivity)
	s.YearsExperience = YearsExperience(accountCreated, now)
	s.SkillLevel = SkillLevel(s.TotalStars, len(repos))
	s.ActivityLevel = ActivityLevel(s.RecentActivity)

	return s
}

// Classify returns the project-type tags whose keywords occur in name or description.
func Classify(name, description string) []string {
	haystack := strings.ToLower(name + " " + description)
	var matched []string
	for _, pt := range projectTypeKeywords {
		for _, kw := range pt.Keywords {
			if strings.Contains(haystack, kw) {
				matched = append(matched, pt.Tag)
				break
			}
		}
	}
	return matched
}

// CollaborationScore = min(100, (forkedRepos*5 + totalForks*2) * 2).
func CollaborationScore(forkedRepos, totalForks int) float64 {
	raw := float64(safe.NonNegative(forkedRepos)*5+safe.NonNegative(totalForks)*2) * 2
	return safe.Clamp(raw, 0, maxScore)
}

// InnovationScore = min(100, (totalStars + starredRepos*2 + languages*5 + projectTypes*10) * 0.5).
func InnovationScore(totalStars, starredRepos, languages, projectTypes int) float64 {
	raw := float64(safe.NonNegative(totalStars)+
		safe.NonNegative(starredRepos)*2+
		safe.NonNegative(languages)*5+
		safe.NonNegative(projectTypes)*10) * 0.5
	return safe.Clamp(raw, 0, maxScore)
}

// ConsistencyScore = min(100, recentRepos * 10).
func ConsistencyScore(recentRepos int) float64 {
	return safe.Clamp(float64(safe.NonNegative(recentRepos)*10), 0, maxScore)
}

// YearsExperience is whole years since the account was created, at least 1.
func YearsExperience(created *time.Time, now time.Time) int {
	if created == nil || created.IsZero() {
		return 1
	}
	days := int(now.Sub(*created).Hours() / 24)
	years := days / 365
	if years < 1 {
		return 1
	}
	return years
}

// SkillLevel is a coarse seniority label.
func SkillLevel(totalStars, repoCount int) string {
	switch {
	case totalStars > 100 || repoCount > 20:
		return "Senior"
	case totalStars > 20 || repoCount > 10:
		return "Mid-level"
	default:
		return "Junior"
	}
}

// ActivityLevel labels the number of recently updated repositories.
func ActivityLevel(recentRepos int) string {
	switch {
	case recentRepos > 5:
		return "High"
	case recentRepos > 2:
		return "Medium"
	default:
		return "Low"
	}
}

// complexity uses repository size (KB) as a proxy for code volume.
func complexity(stars, forks, sizeKB int) float64 {
	return float64(stars*2+forks) + float64(safe.NonNegative(sizeKB))/1000
}

func isRecent(updated *time.Time, now time.Time) bool {
	if updated == nil || updated.IsZero() {
		return false
	}
	return now.Sub(*updated) < recentWindow
}

func mostUsed(counts map[string]int) string {
	best, bestCount := "", 0
	for lang, n := range counts {
		if n > bestCount || (n == bestCount && lang < best) {
			best, bestCount = lang, n
		}
	}
	return best
}

func topLanguages(weights map[string]float64, limit int) []LanguageWeight {
	ranked := make([]LanguageWeight, 0, len(weights))
	for lang, w := range weights {
		ranked = append(ranked, LanguageWeight{Language: lang, Weight: w})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return ranked[i].Language < ranked[j].Language
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
