package fetcher

import "testing"

func TestPostURL(t *testing.T) {
	p := &Post{ID: "123", Author: Author{Username: "builder"}}
	if got := p.URL(); got != "https://twitter.com/builder/status/123" {
		t.Errorf("URL = %q", got)
	}

	anon := &Post{ID: "456"}
	if got := anon.URL(); got != "https://twitter.com/i/status/456" {
		t.Errorf("URL without author = %q", got)
	}
}

func TestMetricsEngagementRate(t *testing.T) {
	m := Metrics{Likes: 30, Reshares: 10, Replies: 5, Quotes: 5, Impressions: 1000}
	if got := m.EngagementRate(); got != 0.05 {
		t.Errorf("rate = %f, want 0.05", got)
	}

	if got := (Metrics{Likes: 10}).EngagementRate(); got != 0 {
		t.Errorf("rate without impressions = %f, want 0", got)
	}
}

func TestExternalLinks(t *testing.T) {
	p := &Post{Links: []string{
		"https://getwidget.io",
		"https://t.co/abc",
		"https://twitter.com/someone",
		"https://example.com/page",
	}}

	out := p.ExternalLinks()
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(out), out)
	}
	if out[0] != "https://getwidget.io" || out[1] != "https://example.com/page" {
		t.Errorf("links = %v", out)
	}
}

func TestHasImage(t *testing.T) {
	p := &Post{Media: []Media{{Type: "video"}}}
	if p.HasImage() {
		t.Error("video-only post reported an image")
	}
	if !p.HasVideo() {
		t.Error("video not detected")
	}

	p.Media = append(p.Media, Media{Type: "photo"})
	if !p.HasImage() {
		t.Error("photo not detected")
	}
}
