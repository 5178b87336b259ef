package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// BrowserClient is the last-resort backend: headless Chrome driven by
// chromedp against the feed's web search page. Slow but keeps working
// when the JSON endpoints are locked down. Each scrape occupies one
// slot of a bounded worker pool so concurrent callers cannot spawn an
// unbounded number of browsers.
type BrowserClient struct {
	log     *zap.Logger
	cookies []BrowserCookie
	workers chan struct{}
	timeout time.Duration
}

// BrowserCookie is injected into the browser context before
// navigation, for feeds that hide search behind a login.
type BrowserCookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
}

type BrowserConfig struct {
	Cookies     []BrowserCookie
	Workers     int
	PageTimeout time.Duration
}

func NewBrowserClient(log *zap.Logger, cfg BrowserConfig) *BrowserClient {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = 90 * time.Second
	}
	return &BrowserClient{
		log:     log,
		cookies: cfg.Cookies,
		workers: make(chan struct{}, cfg.Workers),
		timeout: cfg.PageTimeout,
	}
}

func (c *BrowserClient) Name() string { return "browser" }

// Initialize checks that a Chrome binary is present at all.
func (c *BrowserClient) Initialize(ctx context.Context) error {
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return nil
		}
	}
	return errors.New("browser: no chrome binary found in PATH")
}

func (c *BrowserClient) Search(ctx context.Context, query string, opts SearchOptions) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		limit := opts.Limit
		if limit <= 0 {
			limit = 50
		}

		fullQuery := query
		if !opts.Since.IsZero() {
			fullQuery += " since:" + opts.Since.Format("2006-01-02")
		}
		if !opts.Until.IsZero() {
			fullQuery += " until:" + opts.Until.Format("2006-01-02")
		}

		target := "https://x.com/search?q=" + url.QueryEscape(fullQuery) + "&f=live"
		c.run(ctx, out, target, limit)
	}()

	return out
}

func (c *BrowserClient) UserPosts(ctx context.Context, username string, limit int) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		if limit <= 0 {
			limit = 50
		}
		c.run(ctx, out, "https://x.com/"+url.PathEscape(username), limit)
	}()

	return out
}

// run executes one blocking scrape on a pool slot and relays the
// results in page order.
func (c *BrowserClient) run(ctx context.Context, out chan<- Result, target string, limit int) {
	select {
	case c.workers <- struct{}{}:
		defer func() { <-c.workers }()
	case <-ctx.Done():
		return
	}

	posts, err := c.scrapePage(ctx, target, limit)
	if err != nil {
		fail(ctx, out, err)
		return
	}

	for _, post := range posts {
		if !emit(ctx, out, Result{Post: post}) {
			return
		}
	}
}

// scrapePage drives a headless browser: set cookies, navigate, scroll
// until enough posts rendered, then parse the DOM.
func (c *BrowserClient) scrapePage(ctx context.Context, target string, limit int) ([]*Post, error) {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(runCtx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if len(c.cookies) > 0 {
		err := chromedp.Run(browserCtx,
			chromedp.ActionFunc(func(ctx context.Context) error {
				for _, cookie := range c.cookies {
					err := network.SetCookie(cookie.Name, cookie.Value).
						WithDomain(cookie.Domain).
						WithPath(cookie.Path).
						WithSecure(true).
						Do(ctx)
					if err != nil {
						return err
					}
				}
				return nil
			}),
		)
		if err != nil {
			return nil, fmt.Errorf("browser: failed to set cookies: %w", err)
		}
	}

	var pageHTML string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		chromedp.WaitVisible(`article`, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Scroll until enough posts are rendered or the page stops
			// growing.
			prev := -1
			for i := 0; i < 20; i++ {
				var count int
				if err := chromedp.Evaluate(`document.querySelectorAll("article").length`, &count).Do(ctx); err != nil {
					return err
				}
				if count >= limit || count == prev {
					return nil
				}
				prev = count
				if err := chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil).Do(ctx); err != nil {
					return err
				}
				select {
				case <-time.After(1500 * time.Millisecond):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		}),
		chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("browser: scrape failed: %w", err)
	}

	posts, err := c.parsePosts(pageHTML, limit)
	if err != nil {
		return nil, err
	}

	c.log.Debug("browser scrape done",
		zap.String("target", target),
		zap.Int("posts", len(posts)))
	return posts, nil
}

var statusLinkRe = regexp.MustCompile(`^/([A-Za-z0-9_]+)/status/(\d+)`)

// parsePosts walks the rendered article nodes.
func (c *BrowserClient) parsePosts(pageHTML string, limit int) ([]*Post, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("browser: parse page: %w", err)
	}

	var posts []*Post
	doc.Find("article").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		post := c.parseArticle(sel)
		if post != nil {
			posts = append(posts, post)
		}
		return len(posts) < limit
	})
	return posts, nil
}

func (c *BrowserClient) parseArticle(sel *goquery.Selection) *Post {
	var id, username string
	sel.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		if m := statusLinkRe.FindStringSubmatch(href); m != nil {
			username = m[1]
			id = m[2]
			return false
		}
		return true
	})
	if id == "" {
		return nil
	}

	textHTML, err := sel.Find(`div[data-testid="tweetText"]`).Html()
	if err != nil || textHTML == "" {
		return nil
	}
	text := StripHTMLToText(textHTML)
	if text == "" {
		return nil
	}

	post := &Post{
		ID:   id,
		Text: text,
		Author: Author{
			Username: username,
		},
		Metrics: Metrics{
			Replies:  approxCount(sel.Find(`[data-testid="reply"]`).First().Text()),
			Reshares: approxCount(sel.Find(`[data-testid="retweet"]`).First().Text()),
			Likes:    approxCount(sel.Find(`[data-testid="like"]`).First().Text()),
		},
		Backend:   c.Name(),
		FetchedAt: time.Now().UTC(),
	}

	if ts, ok := sel.Find("time").First().Attr("datetime"); ok {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			post.CreatedAt = t
		}
	}

	sel.Find(`a[href^="http"]`).Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			post.Links = append(post.Links, href)
		}
	})

	if sel.Find(`img[src*="media"]`).Length() > 0 {
		post.Media = append(post.Media, Media{Type: "photo"})
	}

	return post
}

// approxCount parses rendered counters like "1,234", "5.2K" or "1M".
func approxCount(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "K") || strings.HasSuffix(s, "k"):
		mult = 1_000
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "M") || strings.HasSuffix(s, "m"):
		mult = 1_000_000
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(v * mult)
}

// HealthCheck only re-verifies the binary is still reachable; spinning
// up a whole browser for a status page is not worth it.
func (c *BrowserClient) HealthCheck(ctx context.Context) bool {
	return c.Initialize(ctx) == nil
}

func (c *BrowserClient) Close() error {
	return nil
}
