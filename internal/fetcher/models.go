package fetcher

import (
	"fmt"
	"strings"
	"time"
)

// Author is the profile that published a post.
type Author struct {
	ID        string
	Username  string
	Name      string
	Followers int
	Following int
	Verified  bool
}

// Metrics holds the engagement counters of a post. Counters are
// non-negative; unknown counters stay zero.
type Metrics struct {
	Likes       int
	Reshares    int
	Replies     int
	Quotes      int
	Impressions int
}

func (m Metrics) TotalEngagement() int {
	return m.Likes + m.Reshares + m.Replies + m.Quotes
}

// EngagementRate is total interactions over impressions, 0 when
// impressions are unknown.
func (m Metrics) EngagementRate() float64 {
	if m.Impressions == 0 {
		return 0
	}
	return float64(m.TotalEngagement()) / float64(m.Impressions)
}

type Media struct {
	Type string // "photo", "video", "animated_gif"
	URL  string
}

// Post is the canonical feed post every backend normalizes into.
// Backends hand posts over by value; nothing downstream mutates them.
type Post struct {
	ID        string
	Text      string
	CreatedAt time.Time
	Author    Author
	Metrics   Metrics
	Media     []Media
	Links     []string
	Hashtags  []string
	Language  string
	Backend   string // which backend produced this post
	FetchedAt time.Time
}

func (p *Post) URL() string {
	if p.Author.Username != "" {
		return fmt.Sprintf("https://twitter.com/%s/status/%s", p.Author.Username, p.ID)
	}
	return "https://twitter.com/i/status/" + p.ID
}

func (p *Post) HasImage() bool {
	for _, m := range p.Media {
		if m.Type == "photo" {
			return true
		}
	}
	return false
}

func (p *Post) HasVideo() bool {
	for _, m := range p.Media {
		if m.Type == "video" || m.Type == "animated_gif" {
			return true
		}
	}
	return false
}

// ExternalLinks returns attached links that do not point back at the
// feed platform itself.
func (p *Post) ExternalLinks() []string {
	platformDomains := []string{"twitter.com", "x.com", "t.co", "pic.twitter.com"}

	var out []string
	for _, link := range p.Links {
		lower := strings.ToLower(link)
		platform := false
		for _, d := range platformDomains {
			if strings.Contains(lower, d) {
				platform = true
				break
			}
		}
		if !platform {
			out = append(out, link)
		}
	}
	return out
}
