package scoring

import (
	"testing"

	"github.com/saasradar/saasradar/internal/fetcher"
)

func TestScoreBoundsAndDeterminism(t *testing.T) {
	s := NewScorer(DefaultThresholds())

	idea := &Idea{
		MonthlyRevenue:         12000,
		RevenueConfidence:      0.95,
		HasDashboardScreenshot: true,
		AuthorFollowers:        8000,
		Likes:                  500,
		Reshares:               120,
		Replies:                80,
		Impressions:            9000,
		Traffic: TrafficData{
			OrganicShare: 0.5,
			PaidShare:    0.3,
		},
		Complexity: ComplexitySingleFeature,
	}

	first := s.Score(idea)
	second := s.Score(idea)

	if first.Total != second.Total {
		t.Errorf("score not deterministic: %d vs %d", first.Total, second.Total)
	}
	if first.Total < 0 || first.Total > 100 {
		t.Errorf("total out of bounds: %d", first.Total)
	}
	if first.Traction > 30 || first.Growth > 25 || first.Traffic > 25 || first.Simplicity > 20 {
		t.Errorf("component out of bounds: %+v", first)
	}
	if first.Total != first.Traction+first.Growth+first.Traffic+first.Simplicity {
		t.Errorf("total %d does not sum components", first.Total)
	}
}

func TestScoreTraction(t *testing.T) {
	s := NewScorer(DefaultThresholds())

	tests := []struct {
		name       string
		revenue    float64
		confidence float64
		want       int
	}{
		{"high revenue", 15000, 0.5, 30},
		{"high revenue capped with bonus", 15000, 0.95, 30},
		{"medium revenue", 6000, 0.5, 20},
		{"medium revenue with bonus", 6000, 0.95, 22},
		{"low revenue", 1500, 0.5, 10},
		{"no revenue", 200, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idea := &Idea{MonthlyRevenue: tt.revenue, RevenueConfidence: tt.confidence}
			got := s.Score(idea)
			if got.Traction != tt.want {
				t.Errorf("traction = %d, want %d", got.Traction, tt.want)
			}
		})
	}
}

func TestScoreNeutralDefaults(t *testing.T) {
	s := NewScorer(DefaultThresholds())

	// A bare idea with no data still gets the neutral traffic and
	// complexity points.
	got := s.Score(&Idea{})
	if got.Traffic != 10 {
		t.Errorf("traffic without data = %d, want 10", got.Traffic)
	}
	if got.Simplicity != 10 {
		t.Errorf("simplicity for unknown = %d, want 10", got.Simplicity)
	}
	if got.Traction != 0 || got.Growth != 0 {
		t.Errorf("unexpected points for empty idea: %+v", got)
	}
}

func TestScoreGrowthScreenshotsDoNotStack(t *testing.T) {
	s := NewScorer(DefaultThresholds())

	idea := &Idea{HasScreenshot: true, HasDashboardScreenshot: true}
	got := s.Score(idea)
	if got.Growth != 12 {
		t.Errorf("growth = %d, want 12 (dashboard wins, no stacking)", got.Growth)
	}

	idea = &Idea{HasScreenshot: true}
	got = s.Score(idea)
	if got.Growth != 10 {
		t.Errorf("growth = %d, want 10", got.Growth)
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{95, "A+"}, {90, "A+"}, {89, "A"}, {80, "A"},
		{79, "B"}, {70, "B"}, {65, "C"}, {55, "D"}, {49, "F"}, {0, "F"},
	}

	for _, tt := range tests {
		r := Result{Total: tt.total}
		if got := r.Grade(); got != tt.want {
			t.Errorf("Grade(%d) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestReplicabilityOrder(t *testing.T) {
	s := NewScorer(DefaultThresholds())

	tests := []struct {
		name string
		idea Idea
		want Replicability
	}{
		{
			"paid heavy wins first",
			Idea{Traffic: TrafficData{PaidShare: 0.6, OrganicShare: 0.7}, Complexity: ComplexitySingleFeature},
			ReplicabilityHigh,
		},
		{
			"mixed traffic",
			Idea{Traffic: TrafficData{PaidShare: 0.3, OrganicShare: 0.3}},
			ReplicabilityMedium,
		},
		{
			"organic moat",
			Idea{Traffic: TrafficData{OrganicShare: 0.7}},
			ReplicabilityLow,
		},
		{
			"single feature without traffic",
			Idea{Complexity: ComplexitySingleFeature},
			ReplicabilityHigh,
		},
		{
			"early stage revenue",
			Idea{MonthlyRevenue: 2000, Complexity: ComplexitySimple},
			ReplicabilityMedium,
		},
		{
			"no data",
			Idea{},
			ReplicabilityUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, note := s.Replicability(&tt.idea)
			if got != tt.want {
				t.Errorf("replicability = %s, want %s", got, tt.want)
			}
			if note == "" {
				t.Error("empty replicability note")
			}
		})
	}
}

func TestEstimateComplexity(t *testing.T) {
	tests := []struct {
		text string
		want Complexity
	}{
		{"Built a tiny chrome extension", ComplexitySingleFeature},
		{"Our marketplace for creators", ComplexityPlatform},
		{"Deep workflow support for teams", ComplexityComplex},
		{"A tool that sends reminders", ComplexitySimple},
	}

	for _, tt := range tests {
		if got := EstimateComplexity(tt.text); got != tt.want {
			t.Errorf("EstimateComplexity(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestGuessCategory(t *testing.T) {
	if got := GuessCategory("An AI chatbot for support teams"); got != "AI/ML Tool" {
		t.Errorf("category = %q, want AI/ML Tool", got)
	}
	if got := GuessCategory("A video editor for shorts"); got != "Video Tool" {
		t.Errorf("category = %q, want Video Tool", got)
	}
	if got := GuessCategory("completely unrelated text"); got != "" {
		t.Errorf("category = %q, want empty", got)
	}
}

func TestProcessPost(t *testing.T) {
	s := NewScorer(DefaultThresholds())

	post := &fetcher.Post{
		ID:   "123",
		Text: "We just reached $10,000 MRR with https://getwidget.io/pricing",
		Author: fetcher.Author{
			Username:  "builder",
			Followers: 6000,
		},
		Metrics: fetcher.Metrics{
			Likes:       300,
			Reshares:    50,
			Replies:     40,
			Impressions: 5000,
		},
		Links: []string{"https://getwidget.io/pricing"},
	}

	idea := s.ProcessPost(post)
	if idea == nil {
		t.Fatal("ProcessPost = nil for a revenue post")
	}
	if idea.MonthlyRevenue != 10000 {
		t.Errorf("monthly revenue = %.0f, want 10000", idea.MonthlyRevenue)
	}
	if idea.ProductDomain != "getwidget.io" {
		t.Errorf("product domain = %q, want getwidget.io", idea.ProductDomain)
	}
	if idea.Score == nil || idea.Score.Total <= 0 {
		t.Error("idea not scored")
	}
	if idea.Replicability == "" {
		t.Error("replicability not set")
	}

	if got := s.ProcessPost(&fetcher.Post{ID: "456", Text: "good morning"}); got != nil {
		t.Errorf("ProcessPost for non-revenue post = %+v, want nil", got)
	}
}
