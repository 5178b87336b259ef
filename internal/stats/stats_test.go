package stats

import (
	"testing"

	"github.com/saasradar/saasradar/internal/scoring"
)

func TestSummarize(t *testing.T) {
	ideas := []*scoring.Idea{
		{MonthlyRevenue: 10000, Favorite: true, Category: "AI/ML Tool", Score: &scoring.Result{Total: 85}},
		{MonthlyRevenue: 2000, Category: "AI/ML Tool", Score: &scoring.Result{Total: 55}},
		{MonthlyRevenue: 6000, Category: "Video Tool", Score: &scoring.Result{Total: 70}},
	}

	s := Summarize(ideas)

	if s.Total != 3 {
		t.Errorf("total = %d, want 3", s.Total)
	}
	if s.Favorites != 1 {
		t.Errorf("favorites = %d, want 1", s.Favorites)
	}
	if s.AverageScore != 70 {
		t.Errorf("average score = %.1f, want 70", s.AverageScore)
	}
	if s.AverageRevenue != 6000 {
		t.Errorf("average revenue = %.0f, want 6000", s.AverageRevenue)
	}
	if s.ByGrade["A"] != 1 || s.ByGrade["D"] != 1 || s.ByGrade["B"] != 1 {
		t.Errorf("grades = %v", s.ByGrade)
	}
	if len(s.TopCategories) != 2 || s.TopCategories[0].Category != "AI/ML Tool" {
		t.Errorf("categories = %v", s.TopCategories)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.AverageScore != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}
