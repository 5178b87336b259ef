package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultGatewayBaseURL = "https://gateway.x-feed.net/api/v1"

// GatewayClient is the primary backend: the feed's unofficial JSON
// search API, driven by a pool of session accounts and throttled with
// a token bucket so the provider's rate limits hold.
type GatewayClient struct {
	log          *zap.Logger
	baseURL      string
	accountsFile string
	client       *http.Client
	limiter      *rate.Limiter
	accounts     []Account
	next         atomic.Uint64 // round-robin account cursor
}

type GatewayConfig struct {
	BaseURL        string
	AccountsFile   string
	RateLimitDelay time.Duration
	HTTPTimeout    time.Duration
}

func NewGatewayClient(log *zap.Logger, cfg GatewayConfig) *GatewayClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGatewayBaseURL
	}
	if cfg.RateLimitDelay <= 0 {
		cfg.RateLimitDelay = 2 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}

	return &GatewayClient{
		log:          log,
		baseURL:      cfg.BaseURL,
		accountsFile: cfg.AccountsFile,
		client:       &http.Client{Timeout: cfg.HTTPTimeout},
		limiter:      rate.NewLimiter(rate.Every(cfg.RateLimitDelay), 1),
	}
}

func (c *GatewayClient) Name() string { return "gateway" }

// Initialize loads the account pool. Accounts without a stored session
// cannot authenticate and are dropped.
func (c *GatewayClient) Initialize(ctx context.Context) error {
	accounts, err := LoadAccounts(c.accountsFile)
	if err != nil && len(accounts) == 0 {
		return err
	}
	if err != nil {
		c.log.Warn("accounts file partially loaded", zap.Error(err))
	}

	var usable []Account
	for _, acc := range accounts {
		if acc.HasSession() {
			usable = append(usable, acc)
		} else {
			c.log.Warn("account has no session cookies, skipping",
				zap.String("username", acc.Username))
		}
	}
	if len(usable) == 0 {
		return errors.New("gateway: no account with an active session")
	}

	c.accounts = usable
	c.log.Info("gateway initialized", zap.Int("accounts", len(usable)))
	return nil
}

func (c *GatewayClient) account() Account {
	n := c.next.Add(1)
	return c.accounts[int(n-1)%len(c.accounts)]
}

// gatewayPost mirrors the provider's post shape.
type gatewayPost struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Lang      string    `json:"lang"`
	User      struct {
		ID        string `json:"id"`
		Username  string `json:"screen_name"`
		Name      string `json:"name"`
		Followers int    `json:"followers_count"`
		Following int    `json:"friends_count"`
		Verified  bool   `json:"verified"`
	} `json:"user"`
	Likes       int `json:"favorite_count"`
	Reposts     int `json:"retweet_count"`
	Replies     int `json:"reply_count"`
	Quotes      int `json:"quote_count"`
	Impressions int `json:"view_count"`
	Media       []struct {
		Type string `json:"type"`
		URL  string `json:"media_url"`
	} `json:"media"`
	URLs     []string `json:"urls"`
	Hashtags []string `json:"hashtags"`
}

type gatewaySearchPage struct {
	Posts      []gatewayPost `json:"posts"`
	NextCursor string        `json:"next_cursor"`
}

// Search pages through the search endpoint until limit posts were
// yielded or the cursor runs out.
func (c *GatewayClient) Search(ctx context.Context, query string, opts SearchOptions) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		if len(c.accounts) == 0 {
			fail(ctx, out, errors.New("gateway: not initialized"))
			return
		}

		limit := opts.Limit
		if limit <= 0 {
			limit = 100
		}

		fullQuery := query
		if !opts.Since.IsZero() {
			fullQuery += " since:" + opts.Since.Format("2006-01-02")
		}
		if !opts.Until.IsZero() {
			fullQuery += " until:" + opts.Until.Format("2006-01-02")
		}

		cursor := ""
		count := 0
		for count < limit {
			page, err := c.searchPage(ctx, fullQuery, cursor)
			if err != nil {
				fail(ctx, out, err)
				return
			}

			for i := range page.Posts {
				if count >= limit {
					return
				}
				post := c.normalize(&page.Posts[i])
				if !emit(ctx, out, Result{Post: post}) {
					return
				}
				count++
			}

			if page.NextCursor == "" || len(page.Posts) == 0 {
				return
			}
			cursor = page.NextCursor
		}
	}()

	return out
}

func (c *GatewayClient) searchPage(ctx context.Context, query, cursor string) (*gatewaySearchPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&count=20", c.baseURL, url.QueryEscape(query))
	if cursor != "" {
		endpoint += "&cursor=" + url.QueryEscape(cursor)
	}

	var page gatewaySearchPage
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, fmt.Errorf("gateway search: %w", err)
	}
	return &page, nil
}

func (c *GatewayClient) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}

	acc := c.account()
	req.Header.Set("Cookie", acc.Cookies)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("rate limited: %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %v: %v", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// UserPosts pages through an account's timeline.
func (c *GatewayClient) UserPosts(ctx context.Context, username string, limit int) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		if len(c.accounts) == 0 {
			fail(ctx, out, errors.New("gateway: not initialized"))
			return
		}
		if limit <= 0 {
			limit = 100
		}

		cursor := ""
		count := 0
		for count < limit {
			endpoint := fmt.Sprintf("%s/users/%s/posts?count=20", c.baseURL, url.PathEscape(username))
			if cursor != "" {
				endpoint += "&cursor=" + url.QueryEscape(cursor)
			}

			if err := c.limiter.Wait(ctx); err != nil {
				fail(ctx, out, err)
				return
			}

			var page gatewaySearchPage
			if err := c.getJSON(ctx, endpoint, &page); err != nil {
				fail(ctx, out, fmt.Errorf("gateway user posts: %w", err))
				return
			}

			for i := range page.Posts {
				if count >= limit {
					return
				}
				if !emit(ctx, out, Result{Post: c.normalize(&page.Posts[i])}) {
					return
				}
				count++
			}

			if page.NextCursor == "" || len(page.Posts) == 0 {
				return
			}
			cursor = page.NextCursor
		}
	}()

	return out
}

func (c *GatewayClient) normalize(gp *gatewayPost) *Post {
	post := &Post{
		ID:        gp.ID,
		Text:      gp.Text,
		CreatedAt: gp.CreatedAt,
		Author: Author{
			ID:        gp.User.ID,
			Username:  gp.User.Username,
			Name:      gp.User.Name,
			Followers: gp.User.Followers,
			Following: gp.User.Following,
			Verified:  gp.User.Verified,
		},
		Metrics: Metrics{
			Likes:       gp.Likes,
			Reshares:    gp.Reposts,
			Replies:     gp.Replies,
			Quotes:      gp.Quotes,
			Impressions: gp.Impressions,
		},
		Links:     gp.URLs,
		Hashtags:  gp.Hashtags,
		Language:  gp.Lang,
		Backend:   c.Name(),
		FetchedAt: time.Now().UTC(),
	}
	for _, m := range gp.Media {
		post.Media = append(post.Media, Media{Type: m.Type, URL: m.URL})
	}
	return post
}

// HealthCheck does a one-post search.
func (c *GatewayClient) HealthCheck(ctx context.Context) bool {
	if len(c.accounts) == 0 {
		return false
	}

	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	for r := range c.Search(checkCtx, "the", SearchOptions{Limit: 1}) {
		if r.Err != nil {
			return false
		}
		return true
	}
	return false
}

func (c *GatewayClient) Close() error {
	c.accounts = nil
	return nil
}
