// internal/portfolio/charts.go
package portfolio

import (
	"sort"

	"github-portfolio/internal/model"
)

// Chart is a pair of parallel label/value series.
type Chart struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type labelValue struct {
	label string
	value int
}

// chartFrom orders entries by value descending, then label, keeping at most limit (0 for all).
func chartFrom(values map[string]int, limit int) Chart {
	entries := make([]labelValue, 0, len(values))
	for k, v := range values {
		entries = append(entries, labelValue{k, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return entries[i].value > entries[j].value
		}
		return entries[i].label < entries[j].label
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	c := Chart{Labels: make([]string, 0, len(entries)), Values: make([]int, 0, len(entries))}
	for _, e := range entries {
		c.Labels = append(c.Labels, e.label)
		c.Values = append(c.Values, e.value)
	}
	return c
}

// languageBytes sums every repository's language byte counts.
func languageBytes(repos []model.Repository) Chart {
	totals := map[string]int{}
	for _, r := range repos {
		for lang, n := range r.Languages {
			if n > 0 {
				totals[lang] += n
			}
		}
	}
	return chartFrom(totals, 0)
}

// topByStars returns the first n repositories by (stars, forks) descending; ties keep input order.
func topByStars(repos []model.Repository, n int) []model.Repository {
	sorted := make([]model.Repository, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StarsCount != sorted[j].StarsCount {
			return sorted[i].StarsCount > sorted[j].StarsCount
		}
		return sorted[i].ForksCount > sorted[j].ForksCount
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// repoSeries charts one field of the given repositories in order.
func repoSeries(repos []model.Repository, value func(model.Repository) int) Chart {
	c := Chart{Labels: make([]string, 0, len(repos)), Values: make([]int, 0, len(repos))}
	for _, r := range repos {
		c.Labels = append(c.Labels, r.Name)
		c.Values = append(c.Values, value(r))
	}
	return c
}
