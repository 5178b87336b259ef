package extract

import "testing"

func TestExtractRevenue(t *testing.T) {
	e := NewRevenueExtractor()

	tests := []struct {
		name       string
		text       string
		amount     int64
		kind       RevenueKind
		minConf    float64
		screenshot bool
	}{
		{
			name:    "dollar MRR with comma",
			text:    "We just reached $10,000 MRR",
			amount:  10000,
			kind:    KindMRR,
			minConf: 0.9,
		},
		{
			name:    "k suffix ARR",
			text:    "Crossed $120K ARR this year",
			amount:  120000,
			kind:    KindARR,
			minConf: 0.9,
		},
		{
			name:    "k suffix per month",
			text:    "making $5k per month from one tiny product",
			amount:  5000,
			kind:    KindMonthly,
			minConf: 0.85,
		},
		{
			name:    "figure idiom reclassified from context",
			text:    "finally at 5 figure MRR",
			amount:  50000,
			kind:    KindMRR,
			minConf: 0.75,
		},
		{
			name:       "screenshot keywords boost confidence",
			text:       "Reached $10,000 MRR, proof below",
			amount:     10000,
			kind:       KindMRR,
			minConf:    1.0,
			screenshot: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.Extract(tt.text)
			if r == nil {
				t.Fatalf("Extract(%q) = nil", tt.text)
			}
			if r.Amount != tt.amount {
				t.Errorf("amount = %d, want %d", r.Amount, tt.amount)
			}
			if r.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", r.Kind, tt.kind)
			}
			if r.Confidence < tt.minConf {
				t.Errorf("confidence = %.2f, want >= %.2f", r.Confidence, tt.minConf)
			}
			if r.HasScreenshot != tt.screenshot {
				t.Errorf("hasScreenshot = %t, want %t", r.HasScreenshot, tt.screenshot)
			}
		})
	}
}

func TestExtractRevenueRejects(t *testing.T) {
	e := NewRevenueExtractor()

	tests := []struct {
		name string
		text string
	}{
		{"no revenue talk", "Loving the weather today"},
		{"below floor", "hit $50 today"},
		{"above ceiling", "hit $200,000,000 somehow"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r := e.Extract(tt.text); r != nil {
				t.Errorf("Extract(%q) = %+v, want nil", tt.text, r)
			}
		})
	}
}

func TestExtractAllDedupAndOrder(t *testing.T) {
	e := NewRevenueExtractor()

	// The $10K amount matches two patterns; only the first should
	// survive, and results come back highest confidence first.
	all := e.ExtractAll("Hit $10K MRR, up from $2,000/month last year")
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].Amount != 10000 || all[0].Kind != KindMRR {
		t.Errorf("first = %d %s, want 10000 MRR", all[0].Amount, all[0].Kind)
	}
	if all[1].Amount != 2000 || all[1].Kind != KindMonthly {
		t.Errorf("second = %d %s, want 2000 monthly", all[1].Amount, all[1].Kind)
	}
	if all[0].Confidence < all[1].Confidence {
		t.Errorf("results not sorted by confidence: %.2f < %.2f", all[0].Confidence, all[1].Confidence)
	}
}

func TestMonthlyEquivalent(t *testing.T) {
	arr := Revenue{Amount: 120000, Kind: KindARR}
	if got := arr.MonthlyEquivalent(); got != 10000 {
		t.Errorf("ARR monthly equivalent = %.0f, want 10000", got)
	}

	mrr := Revenue{Amount: 7500, Kind: KindMRR}
	if got := mrr.MonthlyEquivalent(); got != 7500 {
		t.Errorf("MRR monthly equivalent = %.0f, want 7500", got)
	}
}

func TestIsRevenuePost(t *testing.T) {
	e := NewRevenueExtractor()

	if !e.IsRevenuePost("We just reached $10,000 MRR", 0.9) {
		t.Error("high confidence claim not detected")
	}
	if e.IsRevenuePost("hit $500 recently", 0.9) {
		t.Error("low confidence claim passed a 0.9 floor")
	}
	if !e.IsRevenuePost("hit $500 recently", 0.7) {
		t.Error("low confidence claim rejected at a 0.7 floor")
	}
	if e.IsRevenuePost("nothing to see here", 0.1) {
		t.Error("non-revenue text detected as a claim")
	}
}
