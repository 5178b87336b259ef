package extract

import "testing"

func TestExtractProduct(t *testing.T) {
	e := NewProductExtractor()

	t.Run("product link accepted", func(t *testing.T) {
		products := e.Extract("Check out https://getwidget.io/pricing", nil)
		if len(products) != 1 {
			t.Fatalf("len = %d, want 1", len(products))
		}
		p := products[0]
		if p.Domain != "getwidget.io" {
			t.Errorf("domain = %q, want getwidget.io", p.Domain)
		}
		if p.Name != "Widget" {
			t.Errorf("name = %q, want Widget", p.Name)
		}
		if p.Score < productScoreThreshold {
			t.Errorf("score = %d, want >= %d", p.Score, productScoreThreshold)
		}
	})

	t.Run("social link rejected", func(t *testing.T) {
		products := e.Extract("see https://twitter.com/someone/status/123", nil)
		if len(products) != 0 {
			t.Fatalf("len = %d, want 0", len(products))
		}

		all := e.ExtractAll("see https://twitter.com/someone/status/123", nil)
		if len(all) != 1 {
			t.Fatalf("ExtractAll len = %d, want 1", len(all))
		}
		if all[0].Valid {
			t.Error("excluded domain marked valid")
		}
	})

	t.Run("trailing punctuation stripped", func(t *testing.T) {
		products := e.Extract("Try it: https://getwidget.io.", nil)
		if len(products) != 1 {
			t.Fatalf("len = %d, want 1", len(products))
		}
		if products[0].URL != "https://getwidget.io" {
			t.Errorf("url = %q, want https://getwidget.io", products[0].URL)
		}
	})

	t.Run("www prefix stripped from domain", func(t *testing.T) {
		products := e.Extract("https://www.acme.com", nil)
		if len(products) != 1 {
			t.Fatalf("len = %d, want 1", len(products))
		}
		if products[0].Domain != "acme.com" {
			t.Errorf("domain = %q, want acme.com", products[0].Domain)
		}
		if products[0].Name != "Acme" {
			t.Errorf("name = %q, want Acme", products[0].Name)
		}
	})

	t.Run("attached and text links merged without duplicates", func(t *testing.T) {
		all := e.ExtractAll("https://getwidget.io", []string{"https://getwidget.io"})
		if len(all) != 1 {
			t.Errorf("len = %d, want 1", len(all))
		}
	})
}

func TestBestProduct(t *testing.T) {
	e := NewProductExtractor()

	best := e.Best("Landing page at https://getwidget.io/pricing", []string{"https://mytool.app"})
	if best == nil {
		t.Fatal("Best = nil")
	}
	if best.Domain != "getwidget.io" {
		t.Errorf("best domain = %q, want getwidget.io", best.Domain)
	}

	if best := e.Best("no links here", nil); best != nil {
		t.Errorf("Best with no links = %+v, want nil", best)
	}
}

func TestNameFromDomain(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"getwidget.io", "Widget"},
		{"trycalendly.com", "Calendly"},
		{"useplunk.dev", "Plunk"},
		{"acme.com", "Acme"},
		{"my.app", "My"},
	}

	for _, tt := range tests {
		if got := nameFromDomain(tt.domain); got != tt.want {
			t.Errorf("nameFromDomain(%q) = %q, want %q", tt.domain, got, tt.want)
		}
	}
}
