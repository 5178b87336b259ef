package api

import (
	"time"

	"github.com/saasradar/saasradar/internal/scoring"
)

type ideaResponse struct {
	ID            string    `json:"id"`
	PostID        string    `json:"post_id"`
	PostURL       string    `json:"post_url"`
	PostText      string    `json:"post_text"`
	PostCreatedAt time.Time `json:"post_created_at,omitempty"`
	Backend       string    `json:"backend"`

	AuthorUsername  string `json:"author_username"`
	AuthorFollowers int    `json:"author_followers"`
	AuthorVerified  bool   `json:"author_verified"`

	Likes       int `json:"likes"`
	Reshares    int `json:"reshares"`
	Replies     int `json:"replies"`
	Impressions int `json:"impressions"`

	MonthlyRevenue    float64 `json:"monthly_revenue"`
	RevenueKind       string  `json:"revenue_kind"`
	RevenueConfidence float64 `json:"revenue_confidence"`
	RevenueRaw        string  `json:"revenue_raw"`

	ProductName   string `json:"product_name,omitempty"`
	ProductURL    string `json:"product_url,omitempty"`
	ProductDomain string `json:"product_domain,omitempty"`

	Score      int            `json:"score"`
	Grade      string         `json:"grade"`
	Scores     map[string]int `json:"scores"`
	Complexity string         `json:"complexity"`
	Category   string         `json:"category,omitempty"`

	Replicability     string `json:"replicability"`
	ReplicabilityNote string `json:"replicability_note,omitempty"`

	Favorite bool      `json:"favorite"`
	Note     string    `json:"note,omitempty"`
	FoundAt  time.Time `json:"found_at"`
}

func toIdeaResponse(idea *scoring.Idea) ideaResponse {
	resp := ideaResponse{
		ID:            idea.ID.String(),
		PostID:        idea.PostID,
		PostURL:       idea.PostURL,
		PostText:      idea.PostText,
		PostCreatedAt: idea.PostCreatedAt,
		Backend:       idea.Backend,

		AuthorUsername:  idea.AuthorUsername,
		AuthorFollowers: idea.AuthorFollowers,
		AuthorVerified:  idea.AuthorVerified,

		Likes:       idea.Likes,
		Reshares:    idea.Reshares,
		Replies:     idea.Replies,
		Impressions: idea.Impressions,

		MonthlyRevenue:    idea.MonthlyRevenue,
		RevenueKind:       string(idea.RevenueKind),
		RevenueConfidence: idea.RevenueConfidence,
		RevenueRaw:        idea.RevenueRaw,

		ProductName:   idea.ProductName,
		ProductURL:    idea.ProductURL,
		ProductDomain: idea.ProductDomain,

		Complexity: string(idea.Complexity),
		Category:   idea.Category,

		Replicability:     string(idea.Replicability),
		ReplicabilityNote: idea.ReplicabilityNote,

		Favorite: idea.Favorite,
		Note:     idea.Note,
		FoundAt:  idea.FoundAt,
	}

	if idea.Score != nil {
		resp.Score = idea.Score.Total
		resp.Grade = idea.Score.Grade()
		resp.Scores = map[string]int{
			"traction":   idea.Score.Traction,
			"growth":     idea.Score.Growth,
			"traffic":    idea.Score.Traffic,
			"simplicity": idea.Score.Simplicity,
		}
	}

	return resp
}
