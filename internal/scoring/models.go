package scoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/saasradar/saasradar/internal/extract"
)

type Replicability string

const (
	ReplicabilityHigh    Replicability = "HIGH"
	ReplicabilityMedium  Replicability = "MEDIUM"
	ReplicabilityLow     Replicability = "LOW"
	ReplicabilityUnknown Replicability = "UNKNOWN"
)

type Complexity string

const (
	ComplexitySingleFeature Complexity = "single_feature"
	ComplexitySimple        Complexity = "simple_saas"
	ComplexityComplex       Complexity = "complex_saas"
	ComplexityPlatform      Complexity = "platform"
	ComplexityUnknown       Complexity = "unknown"
)

// TrafficData is the traffic mix of a product's domain, when a traffic
// provider supplied one. Shares are fractions in [0,1].
type TrafficData struct {
	OrganicShare  float64
	PaidShare     float64
	SocialShare   float64
	ReferralShare float64
	DirectShare   float64
	MonthlyVisits int
}

func (t TrafficData) HasData() bool {
	return t.OrganicShare > 0 || t.PaidShare > 0 || t.SocialShare > 0 || t.MonthlyVisits > 0
}

// Result is one scoring pass over an idea. Immutable once computed;
// rescoring produces a new Result and the store decides whether to
// keep it.
type Result struct {
	Total      int
	Traction   int // 0-30
	Growth     int // 0-25
	Traffic    int // 0-25
	Simplicity int // 0-20
	Breakdown  map[string]string
}

func (r Result) Grade() string {
	switch {
	case r.Total >= 90:
		return "A+"
	case r.Total >= 80:
		return "A"
	case r.Total >= 70:
		return "B"
	case r.Total >= 60:
		return "C"
	case r.Total >= 50:
		return "D"
	default:
		return "F"
	}
}

// Idea is the durable unit of value: a post that carried a revenue
// claim, everything extracted from it, and its score.
type Idea struct {
	ID uuid.UUID

	// Source post
	PostID        string
	PostURL       string
	PostText      string
	PostCreatedAt time.Time
	Backend       string

	// Author
	AuthorUsername  string
	AuthorFollowers int
	AuthorVerified  bool

	// Engagement
	Likes       int
	Reshares    int
	Replies     int
	Impressions int

	// Extracted revenue, normalized monthly
	MonthlyRevenue    float64
	RevenueKind       extract.RevenueKind
	RevenueConfidence float64
	RevenueRaw        string

	// Extracted product
	ProductName   string
	ProductURL    string
	ProductDomain string

	HasScreenshot          bool
	HasDashboardScreenshot bool

	Traffic TrafficData

	Score             *Result
	Complexity        Complexity
	Category          string
	Replicability     Replicability
	ReplicabilityNote string

	// User annotations, owned by the persistence layer.
	Favorite bool
	Note     string

	FoundAt time.Time
}

func (i *Idea) EngagementRate() float64 {
	if i.Impressions == 0 {
		return 0
	}
	return float64(i.Likes+i.Reshares+i.Replies) / float64(i.Impressions)
}

func (i *Idea) TotalScore() int {
	if i.Score == nil {
		return 0
	}
	return i.Score.Total
}
