package stats

import (
	"sort"

	"github.com/saasradar/saasradar/internal/scoring"
)

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type Summary struct {
	Total          int             `json:"total"`
	Favorites      int             `json:"favorites"`
	AverageScore   float64         `json:"average_score"`
	AverageRevenue float64         `json:"average_revenue"`
	ByGrade        map[string]int  `json:"by_grade"`
	TopCategories  []CategoryCount `json:"top_categories"`
}

// Summarize aggregates a set of ideas into dashboard numbers.
func Summarize(ideas []*scoring.Idea) Summary {
	summary := Summary{
		ByGrade: make(map[string]int),
	}

	categories := make(map[string]int)
	var scoreSum, revenueSum float64

	for _, idea := range ideas {
		summary.Total++
		if idea.Favorite {
			summary.Favorites++
		}
		scoreSum += float64(idea.TotalScore())
		revenueSum += idea.MonthlyRevenue

		if idea.Score != nil {
			summary.ByGrade[idea.Score.Grade()]++
		}
		if idea.Category != "" {
			categories[idea.Category]++
		}
	}

	if summary.Total > 0 {
		summary.AverageScore = scoreSum / float64(summary.Total)
		summary.AverageRevenue = revenueSum / float64(summary.Total)
	}

	for category, count := range categories {
		summary.TopCategories = append(summary.TopCategories, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(summary.TopCategories, func(i, j int) bool {
		if summary.TopCategories[i].Count != summary.TopCategories[j].Count {
			return summary.TopCategories[i].Count > summary.TopCategories[j].Count
		}
		return summary.TopCategories[i].Category < summary.TopCategories[j].Category
	})
	if len(summary.TopCategories) > 5 {
		summary.TopCategories = summary.TopCategories[:5]
	}

	return summary
}
