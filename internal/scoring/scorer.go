// Package scoring grades extracted ideas with a four-filter score:
// traction (0-30), growth signal (0-25), traffic diversity (0-25) and
// simplicity (0-20). Scoring is pure and never fails; every unknown
// input dimension resolves to a defined neutral value.
package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saasradar/saasradar/internal/extract"
	"github.com/saasradar/saasradar/internal/fetcher"
)

// Thresholds are the tunable cutoffs of the scorer.
type Thresholds struct {
	RevenueHigh   float64 // monthly revenue for the full traction score
	RevenueMedium float64
	RevenueLow    float64

	EngagementRate float64 // fraction of impressions
	Followers      int
	OrganicTraffic float64 // fraction of traffic
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		RevenueHigh:    10000,
		RevenueMedium:  5000,
		RevenueLow:     1000,
		EngagementRate: 0.05,
		Followers:      5000,
		OrganicTraffic: 0.30,
	}
}

type Scorer struct {
	thresholds Thresholds
	revenue    *extract.RevenueExtractor
	products   *extract.ProductExtractor
}

func NewScorer(t Thresholds) *Scorer {
	return &Scorer{
		thresholds: t,
		revenue:    extract.NewRevenueExtractor(),
		products:   extract.NewProductExtractor(),
	}
}

// Score computes the four-filter score for an idea. Deterministic over
// its inputs: no I/O, no clock, no randomness.
func (s *Scorer) Score(idea *Idea) Result {
	breakdown := make(map[string]string)

	traction, detail := s.scoreTraction(idea)
	breakdown["traction"] = detail

	growth, detail := s.scoreGrowth(idea)
	breakdown["growth"] = detail

	traffic, detail := s.scoreTraffic(idea)
	breakdown["traffic"] = detail

	simplicity, detail := s.scoreSimplicity(idea)
	breakdown["simplicity"] = detail

	return Result{
		Total:      traction + growth + traffic + simplicity,
		Traction:   traction,
		Growth:     growth,
		Traffic:    traffic,
		Simplicity: simplicity,
		Breakdown:  breakdown,
	}
}

func (s *Scorer) scoreTraction(idea *Idea) (int, string) {
	score := 0
	var details []string

	mrr := idea.MonthlyRevenue
	switch {
	case mrr >= s.thresholds.RevenueHigh:
		score = 30
		details = append(details, fmt.Sprintf("High MRR ($%.0f): +30", mrr))
	case mrr >= s.thresholds.RevenueMedium:
		score = 20
		details = append(details, fmt.Sprintf("Medium MRR ($%.0f): +20", mrr))
	case mrr >= s.thresholds.RevenueLow:
		score = 10
		details = append(details, fmt.Sprintf("Low MRR ($%.0f): +10", mrr))
	default:
		details = append(details, fmt.Sprintf("No significant MRR ($%.0f): +0", mrr))
	}

	if idea.RevenueConfidence >= 0.9 {
		score = min(score+2, 30)
		details = append(details, "High confidence revenue data: +2")
	}

	return score, strings.Join(details, " | ")
}

func (s *Scorer) scoreGrowth(idea *Idea) (int, string) {
	score := 0
	var details []string

	// Payment-dashboard screenshots beat generic ones; the two never
	// stack.
	if idea.HasDashboardScreenshot {
		score += 12
		details = append(details, "Payment dashboard screenshot: +12")
	} else if idea.HasScreenshot {
		score += 10
		details = append(details, "Has screenshot: +10")
	}

	rate := idea.EngagementRate()
	if rate > s.thresholds.EngagementRate {
		score += 10
		details = append(details, fmt.Sprintf("High engagement (%.1f%%): +10", rate*100))
	} else if rate > s.thresholds.EngagementRate/2 {
		score += 5
		details = append(details, fmt.Sprintf("Medium engagement (%.1f%%): +5", rate*100))
	}

	if idea.AuthorFollowers >= s.thresholds.Followers {
		score += 5
		details = append(details, fmt.Sprintf("Influential author (%d followers): +5", idea.AuthorFollowers))
	} else if idea.AuthorFollowers >= s.thresholds.Followers/2 {
		score += 3
		details = append(details, fmt.Sprintf("Growing author (%d followers): +3", idea.AuthorFollowers))
	}

	score = min(score, 25)
	if len(details) == 0 {
		details = append(details, "No strong growth signals: +0")
	}
	return score, strings.Join(details, " | ")
}

func (s *Scorer) scoreTraffic(idea *Idea) (int, string) {
	if !idea.Traffic.HasData() {
		return 10, "No traffic data available: +10 (neutral)"
	}

	score := 0
	var details []string
	traffic := idea.Traffic

	if traffic.OrganicShare >= s.thresholds.OrganicTraffic {
		score += 15
		details = append(details, fmt.Sprintf("Strong organic (%.0f%%): +15", traffic.OrganicShare*100))
	} else if traffic.OrganicShare >= s.thresholds.OrganicTraffic/2 {
		score += 8
		details = append(details, fmt.Sprintf("Some organic (%.0f%%): +8", traffic.OrganicShare*100))
	}

	if traffic.PaidShare > 0.05 && traffic.OrganicShare > 0.05 {
		score += 10
		details = append(details, "Diverse traffic sources: +10")
	}

	score = min(score, 25)
	if len(details) == 0 {
		details = append(details, "Limited traffic diversity: +0")
	}
	return score, strings.Join(details, " | ")
}

func (s *Scorer) scoreSimplicity(idea *Idea) (int, string) {
	switch idea.Complexity {
	case ComplexitySingleFeature:
		return 20, "Single feature tool: +20"
	case ComplexitySimple:
		return 10, "Simple SaaS: +10"
	case ComplexityComplex:
		return 5, "Complex SaaS: +5"
	case ComplexityPlatform:
		return 0, "Platform (complex): +0"
	default:
		return 10, "Complexity unknown: +10 (neutral)"
	}
}

// Replicability walks a fixed decision tree over traffic mix,
// complexity and revenue; the first matching rule wins.
func (s *Scorer) Replicability(idea *Idea) (Replicability, string) {
	traffic := idea.Traffic

	if traffic.PaidShare > 0.5 {
		return ReplicabilityHigh,
			fmt.Sprintf("Mostly paid traffic (%.0f%%), can launch ads quickly", traffic.PaidShare*100)
	}
	if traffic.PaidShare > 0.2 && traffic.OrganicShare > 0.2 {
		return ReplicabilityMedium, "Mixed traffic sources, requires both SEO and ads strategy"
	}
	if traffic.OrganicShare > 0.6 {
		return ReplicabilityLow,
			fmt.Sprintf("Mostly organic (%.0f%%), SEO advantage hard to replicate", traffic.OrganicShare*100)
	}
	if idea.Complexity == ComplexitySingleFeature {
		return ReplicabilityHigh, "Simple single-feature tool, can build MVP quickly"
	}
	if idea.MonthlyRevenue > 0 && idea.MonthlyRevenue < 5000 {
		return ReplicabilityMedium, "Early stage, market validation still needed"
	}
	return ReplicabilityUnknown, "Insufficient data for analysis"
}

// ProcessPost turns a post into a scored idea, or nil when the post
// carries no revenue claim.
func (s *Scorer) ProcessPost(post *fetcher.Post) *Idea {
	revenue := s.revenue.Extract(post.Text)
	if revenue == nil {
		return nil
	}

	product := s.products.Best(post.Text, post.ExternalLinks())

	idea := &Idea{
		ID:            uuid.New(),
		PostID:        post.ID,
		PostURL:       post.URL(),
		PostText:      post.Text,
		PostCreatedAt: post.CreatedAt,
		Backend:       post.Backend,

		AuthorUsername:  post.Author.Username,
		AuthorFollowers: post.Author.Followers,
		AuthorVerified:  post.Author.Verified,

		Likes:       post.Metrics.Likes,
		Reshares:    post.Metrics.Reshares,
		Replies:     post.Metrics.Replies,
		Impressions: post.Metrics.Impressions,

		MonthlyRevenue:    revenue.MonthlyEquivalent(),
		RevenueKind:       revenue.Kind,
		RevenueConfidence: revenue.Confidence,
		RevenueRaw:        revenue.RawMatch,

		HasScreenshot:          post.HasImage(),
		HasDashboardScreenshot: isDashboardScreenshot(post),

		Complexity: EstimateComplexity(post.Text),
		Category:   GuessCategory(post.Text),

		FoundAt: time.Now().UTC(),
	}

	if product != nil {
		idea.ProductName = product.Name
		idea.ProductURL = product.URL
		idea.ProductDomain = product.Domain
	}

	result := s.Score(idea)
	idea.Score = &result
	idea.Replicability, idea.ReplicabilityNote = s.Replicability(idea)

	return idea
}

var dashboardIndicators = []string{
	"stripe", "dashboard", "mrr chart", "revenue chart",
	"stripe dashboard", "payment", "subscription",
}

func isDashboardScreenshot(post *fetcher.Post) bool {
	if !post.HasImage() {
		return false
	}
	lower := strings.ToLower(post.Text)
	for _, ind := range dashboardIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

var singleFeatureWords = []string{
	"simple tool", "one feature", "single feature",
	"chrome extension", "browser extension", "bookmarklet",
	"widget", "plugin", "addon", "shortcut",
}

var platformWords = []string{
	"platform", "marketplace", "ecosystem", "suite",
	"enterprise", "b2b platform", "api platform",
}

var complexWords = []string{
	"integrations", "team features", "collaboration",
	"workflow", "automation platform", "enterprise",
}

// EstimateComplexity classifies the product from keyword hints in the
// post text. Defaults to simple SaaS, the common case for this feed.
func EstimateComplexity(text string) Complexity {
	lower := strings.ToLower(text)

	for _, w := range singleFeatureWords {
		if strings.Contains(lower, w) {
			return ComplexitySingleFeature
		}
	}
	for _, w := range platformWords {
		if strings.Contains(lower, w) {
			return ComplexityPlatform
		}
	}
	for _, w := range complexWords {
		if strings.Contains(lower, w) {
			return ComplexityComplex
		}
	}
	return ComplexitySimple
}

type categoryEntry struct {
	name     string
	keywords []string
}

// Category table is ordered: the first entry with a keyword hit wins.
var categoryTable = []categoryEntry{
	{"AI/ML Tool", []string{"ai", "gpt", "llm", "machine learning", "chatbot", "ai-powered"}},
	{"Video Tool", []string{"video", "youtube", "tiktok", "reels", "shorts", "video editor"}},
	{"Writing Tool", []string{"writing", "copywriting", "content", "blog", "seo content"}},
	{"Design Tool", []string{"design", "figma", "ui/ux", "graphics", "logo"}},
	{"Developer Tool", []string{"developer", "api", "devtool", "github", "coding", "code"}},
	{"Marketing Tool", []string{"marketing", "email", "newsletter", "social media", "ads"}},
	{"Productivity Tool", []string{"productivity", "notion", "task", "todo", "calendar"}},
	{"Analytics Tool", []string{"analytics", "dashboard", "metrics", "tracking"}},
	{"E-commerce Tool", []string{"ecommerce", "shopify", "store", "dropshipping"}},
	{"Finance Tool", []string{"finance", "invoice", "accounting", "expense", "budget"}},
	{"HR Tool", []string{"hr", "hiring", "recruitment", "employee", "payroll"}},
	{"Education Tool", []string{"education", "course", "learning", "tutorial", "teaching"}},
}

// GuessCategory returns the first matching category, or "" for none.
func GuessCategory(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range categoryTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.name
			}
		}
	}
	return ""
}
