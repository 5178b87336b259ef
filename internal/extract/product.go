package extract

import (
	"net/url"
	"regexp"
	"strings"
)

// Product is a candidate product link found in a post. Excluded domains
// are still returned by ExtractAll with Valid=false so callers can see
// what was rejected.
type Product struct {
	URL    string
	Name   string
	Domain string
	Score  int
	Valid  bool
}

// Domains that never point at the author's own product.
var excludedDomains = []string{
	// social platforms
	"twitter.com", "x.com", "t.co", "pic.twitter.com",
	"facebook.com", "fb.com", "instagram.com", "linkedin.com",
	"tiktok.com", "youtube.com", "youtu.be", "reddit.com",
	"discord.com", "discord.gg", "threads.net",
	// common services
	"google.com", "goo.gl", "bit.ly", "bitly.com",
	"medium.com", "substack.com", "notion.so", "notion.site",
	"github.com", "gitlab.com", "stackoverflow.com",
	// email / productivity
	"gmail.com", "outlook.com", "slack.com", "zoom.us",
	// link shorteners
	"ow.ly", "tinyurl.com", "rebrand.ly", "short.io",
	"is.gd", "v.gd", "cutt.ly", "shorturl.at",
	// other
	"wikipedia.org", "amazon.com", "ebay.com",
}

var productTLDs = []string{".com", ".io", ".co", ".app", ".dev", ".ai", ".so", ".me"}

var productKeywords = []string{
	"app", "dashboard", "pricing", "demo", "beta",
	"saas", "tool", "software", "platform", "service",
}

var productPaths = []string{"/pricing", "/demo", "/features", "/about", "/blog"}

// Conventional naming prefixes stripped before deriving a product name
// ("getwidget.io" -> "Widget").
var namePrefixes = []string{"get", "try", "use", "my", "the"}

var urlPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

const productScoreThreshold = 2

// ProductExtractor finds plausible product URLs in post text and
// attached link lists. Stateless, safe for concurrent use.
type ProductExtractor struct{}

func NewProductExtractor() *ProductExtractor {
	return &ProductExtractor{}
}

// Extract returns the accepted product candidates from text plus any
// attached links.
func (e *ProductExtractor) Extract(text string, attached []string) []Product {
	var products []Product
	for _, p := range e.ExtractAll(text, attached) {
		if p.Valid {
			products = append(products, p)
		}
	}
	return products
}

// ExtractAll returns every candidate, including rejected domains.
func (e *ProductExtractor) ExtractAll(text string, attached []string) []Product {
	seen := make(map[string]bool)
	var candidates []string

	for _, u := range attached {
		if u != "" && !seen[u] {
			seen[u] = true
			candidates = append(candidates, u)
		}
	}
	for _, u := range urlsFromText(text) {
		if !seen[u] {
			seen[u] = true
			candidates = append(candidates, u)
		}
	}

	var products []Product
	for _, u := range candidates {
		if p, ok := analyzeURL(u); ok {
			products = append(products, p)
		}
	}
	return products
}

// Best returns the highest-scoring accepted candidate, or nil.
func (e *ProductExtractor) Best(text string, attached []string) *Product {
	var best *Product
	for _, p := range e.Extract(text, attached) {
		if best == nil || p.Score > best.Score {
			p := p
			best = &p
		}
	}
	return best
}

func urlsFromText(text string) []string {
	var cleaned []string
	for _, u := range urlPattern.FindAllString(text, -1) {
		u = strings.TrimRight(u, `.,;:!?)'"`)
		if u != "" {
			cleaned = append(cleaned, u)
		}
	}
	return cleaned
}

func analyzeURL(raw string) (Product, bool) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return Product{}, false
	}

	domain := strings.ToLower(parsed.Host)
	domain = strings.TrimPrefix(domain, "www.")

	for _, excluded := range excludedDomains {
		if strings.Contains(domain, excluded) {
			return Product{URL: raw, Domain: domain, Valid: false}, true
		}
	}

	score := productScore(raw, domain, parsed.Path)

	return Product{
		URL:    raw,
		Name:   nameFromDomain(domain),
		Domain: domain,
		Score:  score,
		Valid:  score >= productScoreThreshold,
	}, true
}

func productScore(raw, domain, path string) int {
	lower := strings.ToLower(raw)
	score := 0

	for _, tld := range productTLDs {
		if strings.HasSuffix(domain, tld) {
			score += 2
			break
		}
	}
	for _, kw := range productKeywords {
		if strings.Contains(lower, kw) {
			score += 2
			break
		}
	}
	if base, _, _ := strings.Cut(domain, "."); len(base) <= 15 {
		score++
	}
	lowerPath := strings.ToLower(path)
	for _, p := range productPaths {
		if strings.Contains(lowerPath, p) {
			score++
			break
		}
	}
	// Extra boost for the TLDs indie products cluster on.
	if strings.HasSuffix(domain, ".ai") || strings.HasSuffix(domain, ".io") {
		score++
	}
	return score
}

func nameFromDomain(domain string) string {
	name, _, _ := strings.Cut(domain, ".")

	for _, prefix := range namePrefixes {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			name = name[len(prefix):]
			break
		}
	}

	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
