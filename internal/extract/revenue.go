// Package extract pulls structured revenue and product signals out of
// free-form post text. Extraction is heuristic and silent on failure:
// text with no recognizable signal yields no result, never an error.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type RevenueKind string

const (
	KindMRR     RevenueKind = "MRR"
	KindARR     RevenueKind = "ARR"
	KindMonthly RevenueKind = "monthly"
	KindUnknown RevenueKind = "unknown"
)

// Revenue is one monetary claim found in post text. Amount is in whole
// currency units.
type Revenue struct {
	RawMatch      string
	Amount        int64
	Kind          RevenueKind
	Confidence    float64
	HasScreenshot bool
}

// MonthlyEquivalent normalizes annualized figures to a monthly value.
func (r Revenue) MonthlyEquivalent() float64 {
	if r.Kind == KindARR {
		return float64(r.Amount) / 12
	}
	return float64(r.Amount)
}

const (
	minAmount = 100
	maxAmount = 100_000_000
)

type revenuePattern struct {
	re         *regexp.Regexp
	kind       RevenueKind
	confidence float64
	figure     bool // "N figure" idiom, amount comes from the estimate table
}

// Pattern order matters: extract-all keeps the first match of a given
// amount, so the higher-signal formats sit at the top.
var revenuePatterns = []revenuePattern{
	// $10,000 MRR / $10K mrr
	{regexp.MustCompile(`(?i)\$\s*([\d,]+\.?\d*)\s*([kK])?\s*MRR`), KindMRR, 0.95, false},
	// $120K ARR
	{regexp.MustCompile(`(?i)\$\s*([\d,]+\.?\d*)\s*([kK])?\s*ARR`), KindARR, 0.95, false},
	// $10,000/month, $10K per month, $10k monthly, $10K/mo
	{regexp.MustCompile(`(?i)\$\s*([\d,]+\.?\d*)\s*([kK])?\s*(?:/month|per\s*month|monthly|/mo\b)`), KindMonthly, 0.90, false},
	// making $5,000 / hit $10K / crossed $50,000 / reached $20k
	{regexp.MustCompile(`(?i)(?:making|hit|crossed|reached|at)\s*\$\s*([\d,]+\.?\d*)\s*([kK])?`), KindUnknown, 0.75, false},
	// 10K MRR, 50k in revenue (no dollar sign)
	{regexp.MustCompile(`(?i)([\d,]+\.?\d*)\s*([kK])\s*(?:MRR|in\s*revenue|revenue)`), KindMRR, 0.80, false},
	// $5,000 in monthly revenue
	{regexp.MustCompile(`(?i)\$\s*([\d,]+\.?\d*)\s*([kK])?\s*(?:in\s*)?(?:monthly\s*)?revenue`), KindMonthly, 0.85, false},
	// 5 figure MRR, 6 figure ARR
	{regexp.MustCompile(`(?i)([4-7])\s*figure\s*(?:MRR|ARR|revenue)`), KindUnknown, 0.70, true},
	// just passed $X, now at $X
	{regexp.MustCompile(`(?i)(?:just\s*passed|now\s*at|currently\s*at)\s*\$\s*([\d,]+\.?\d*)\s*([kK])?`), KindUnknown, 0.70, false},
	// growing to $X MRR, scaled to $X
	{regexp.MustCompile(`(?i)(?:growing\s*to|scaled\s*to|grew\s*to)\s*\$\s*([\d,]+\.?\d*)\s*([kK])?\s*(?:MRR)?`), KindMRR, 0.75, false},
	// $X/mo shorthand
	{regexp.MustCompile(`(?i)\$\s*([\d,]+\.?\d*)\s*([kK])?\s*/mo\b`), KindMonthly, 0.85, false},
	// Revenue: $X, MRR: $X
	{regexp.MustCompile(`(?i)(?:revenue|mrr|arr)\s*:\s*\$\s*([\d,]+\.?\d*)\s*([kK])?`), KindMRR, 0.90, false},
	// from $0 to $X
	{regexp.MustCompile(`(?i)from\s*\$0\s*to\s*\$\s*([\d,]+\.?\d*)\s*([kK])?`), KindUnknown, 0.70, false},
}

// Midpoint dollar estimates for the "N figure" idiom.
var figureEstimates = map[string]int64{
	"4": 5_000,
	"5": 50_000,
	"6": 500_000,
	"7": 5_000_000,
}

// Screenshot / proof indicators. Presence anywhere in the text boosts
// every candidate's confidence.
var screenshotKeywords = []string{
	"screenshot", "proof", "stripe", "dashboard",
	"pic", "image", "attached", "below", "stats",
	"\U0001F447", "\U0001F4CA", "\U0001F4C8", "\U0001F4B0", "\U0001F680", "\U0001F4B5",
}

const screenshotBoost = 0.1

// RevenueExtractor scans post text for self-reported revenue figures.
// It is stateless and safe for concurrent use.
type RevenueExtractor struct{}

func NewRevenueExtractor() *RevenueExtractor {
	return &RevenueExtractor{}
}

// Extract returns the single highest-confidence revenue claim found in
// text, or nil when nothing matches.
func (e *RevenueExtractor) Extract(text string) *Revenue {
	all := e.ExtractAll(text)
	if len(all) == 0 {
		return nil
	}
	best := all[0]
	return &best
}

// ExtractAll returns every distinct-amount candidate, sorted by
// descending confidence. When two patterns produce the same amount the
// earlier pattern wins.
func (e *RevenueExtractor) ExtractAll(text string) []Revenue {
	if text == "" {
		return nil
	}

	hasScreenshot := hasScreenshotIndicator(text)

	var results []Revenue
	seen := make(map[int64]bool)

	for _, p := range revenuePatterns {
		for _, match := range p.re.FindAllStringSubmatch(text, -1) {
			amount, ok := parseMatch(p, match)
			if !ok {
				continue
			}
			if seen[amount] {
				continue
			}
			seen[amount] = true

			kind, confidence := classify(p.kind, p.confidence, text)
			if hasScreenshot {
				confidence += screenshotBoost
			}
			if confidence > 1.0 {
				confidence = 1.0
			}

			results = append(results, Revenue{
				RawMatch:      match[0],
				Amount:        amount,
				Kind:          kind,
				Confidence:    confidence,
				HasScreenshot: hasScreenshot,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results
}

// IsRevenuePost reports whether text carries a revenue claim at or
// above minConfidence.
func (e *RevenueExtractor) IsRevenuePost(text string, minConfidence float64) bool {
	r := e.Extract(text)
	return r != nil && r.Confidence >= minConfidence
}

func parseMatch(p revenuePattern, match []string) (int64, bool) {
	if p.figure {
		amount, ok := figureEstimates[match[1]]
		return amount, ok
	}

	numStr := strings.ReplaceAll(match[1], ",", "")
	value, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, false
	}

	if len(match) > 2 && strings.EqualFold(match[2], "k") {
		value *= 1000
	}

	amount := int64(value)
	if amount < minAmount || amount > maxAmount {
		return 0, false
	}
	return amount, true
}

// classify upgrades an unknown-kind match when the surrounding text
// names the metric, with a small confidence bonus.
func classify(kind RevenueKind, confidence float64, text string) (RevenueKind, float64) {
	if kind != KindUnknown {
		return kind, confidence
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "mrr"):
		return KindMRR, confidence + 0.1
	case strings.Contains(lower, "arr"):
		return KindARR, confidence + 0.1
	case strings.Contains(lower, "month") || strings.Contains(lower, "/mo"):
		return KindMonthly, confidence + 0.05
	}
	return kind, confidence
}

func hasScreenshotIndicator(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range screenshotKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
