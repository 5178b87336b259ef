package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const defaultHarvestBaseURL = "https://api.harvestfeed.dev"

// HarvestClient is the paid backup backend: a hosted scraping service
// where a search is submitted as a run, polled until it finishes, and
// its dataset paged down afterwards. Slower than the gateway but very
// reliable.
type HarvestClient struct {
	log     *zap.Logger
	baseURL string
	token   string
	client  *http.Client

	pollInterval time.Duration
}

type HarvestConfig struct {
	BaseURL     string
	APIToken    string
	HTTPTimeout time.Duration
}

func NewHarvestClient(log *zap.Logger, cfg HarvestConfig) *HarvestClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultHarvestBaseURL
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}
	return &HarvestClient{
		log:          log,
		baseURL:      cfg.BaseURL,
		token:        cfg.APIToken,
		client:       &http.Client{Timeout: cfg.HTTPTimeout},
		pollInterval: 3 * time.Second,
	}
}

func (c *HarvestClient) Name() string { return "harvest" }

func (c *HarvestClient) Initialize(ctx context.Context) error {
	if c.token == "" {
		return errors.New("harvest: API token not configured")
	}
	return nil
}

type harvestRun struct {
	ID        string `json:"id"`
	Status    string `json:"status"` // QUEUED, RUNNING, SUCCEEDED, FAILED
	DatasetID string `json:"dataset_id"`
	Error     string `json:"error"`
}

type harvestItem struct {
	ID        string    `json:"id"`
	FullText  string    `json:"full_text"`
	CreatedAt time.Time `json:"created_at"`
	Lang      string    `json:"lang"`
	Author    struct {
		ID        string `json:"id"`
		UserName  string `json:"user_name"`
		Name      string `json:"name"`
		Followers int    `json:"followers"`
		Following int    `json:"following"`
		Verified  bool   `json:"is_verified"`
	} `json:"author"`
	LikeCount    int `json:"like_count"`
	RepostCount  int `json:"repost_count"`
	ReplyCount   int `json:"reply_count"`
	QuoteCount   int `json:"quote_count"`
	ViewCount    int `json:"view_count"`
	MediaEntries []struct {
		Kind string `json:"kind"`
		URL  string `json:"url"`
	} `json:"media"`
	ExpandedURLs []string `json:"expanded_urls"`
	Hashtags     []string `json:"hashtags"`
}

// Search submits a run for the query and streams the resulting
// dataset.
func (c *HarvestClient) Search(ctx context.Context, query string, opts SearchOptions) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		limit := opts.Limit
		if limit <= 0 {
			limit = 100
		}

		payload := map[string]any{
			"search_terms": []string{query},
			"max_items":    limit,
			"sort":         "latest",
		}
		if !opts.Since.IsZero() {
			payload["start_date"] = opts.Since.Format("2006-01-02")
		}
		if !opts.Until.IsZero() {
			payload["end_date"] = opts.Until.Format("2006-01-02")
		}

		run, err := c.startRun(ctx, payload)
		if err != nil {
			fail(ctx, out, err)
			return
		}

		run, err = c.waitForRun(ctx, run.ID)
		if err != nil {
			fail(ctx, out, err)
			return
		}

		c.streamDataset(ctx, out, run.DatasetID, limit)
	}()

	return out
}

// UserPosts submits a timeline run for one account.
func (c *HarvestClient) UserPosts(ctx context.Context, username string, limit int) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		if limit <= 0 {
			limit = 100
		}

		run, err := c.startRun(ctx, map[string]any{
			"user_names": []string{username},
			"max_items":  limit,
		})
		if err != nil {
			fail(ctx, out, err)
			return
		}

		run, err = c.waitForRun(ctx, run.ID)
		if err != nil {
			fail(ctx, out, err)
			return
		}

		c.streamDataset(ctx, out, run.DatasetID, limit)
	}()

	return out
}

func (c *HarvestClient) startRun(ctx context.Context, payload map[string]any) (*harvestRun, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v2/runs", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	var run harvestRun
	if err := c.doJSON(req, &run); err != nil {
		return nil, fmt.Errorf("harvest start run: %w", err)
	}
	return &run, nil
}

// waitForRun polls until the run reaches a terminal state.
func (c *HarvestClient) waitForRun(ctx context.Context, runID string) (*harvestRun, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/v2/runs/"+url.PathEscape(runID), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		var run harvestRun
		if err := c.doJSON(req, &run); err != nil {
			return nil, fmt.Errorf("harvest poll run: %w", err)
		}

		switch run.Status {
		case "SUCCEEDED":
			return &run, nil
		case "FAILED":
			return nil, fmt.Errorf("harvest run failed: %s", run.Error)
		}
	}
}

func (c *HarvestClient) streamDataset(ctx context.Context, out chan<- Result, datasetID string, limit int) {
	const pageSize = 50

	count := 0
	for offset := 0; count < limit; offset += pageSize {
		endpoint := fmt.Sprintf("%s/v2/datasets/%s/items?offset=%d&limit=%d",
			c.baseURL, url.PathEscape(datasetID), offset, pageSize)

		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			fail(ctx, out, err)
			return
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		var items []harvestItem
		if err := c.doJSON(req, &items); err != nil {
			fail(ctx, out, fmt.Errorf("harvest dataset page: %w", err))
			return
		}
		if len(items) == 0 {
			return
		}

		for i := range items {
			if count >= limit {
				return
			}
			if !emit(ctx, out, Result{Post: c.normalize(&items[i])}) {
				return
			}
			count++
		}
	}
}

func (c *HarvestClient) doJSON(req *http.Request, v any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %v: %v", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (c *HarvestClient) normalize(item *harvestItem) *Post {
	post := &Post{
		ID:        item.ID,
		Text:      item.FullText,
		CreatedAt: item.CreatedAt,
		Author: Author{
			ID:        item.Author.ID,
			Username:  item.Author.UserName,
			Name:      item.Author.Name,
			Followers: item.Author.Followers,
			Following: item.Author.Following,
			Verified:  item.Author.Verified,
		},
		Metrics: Metrics{
			Likes:       item.LikeCount,
			Reshares:    item.RepostCount,
			Replies:     item.ReplyCount,
			Quotes:      item.QuoteCount,
			Impressions: item.ViewCount,
		},
		Links:     item.ExpandedURLs,
		Hashtags:  item.Hashtags,
		Language:  item.Lang,
		Backend:   c.Name(),
		FetchedAt: time.Now().UTC(),
	}
	for _, m := range item.MediaEntries {
		post.Media = append(post.Media, Media{Type: m.Kind, URL: m.URL})
	}
	return post
}

// HealthCheck verifies the token against the account endpoint.
func (c *HarvestClient) HealthCheck(ctx context.Context) bool {
	if c.token == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/v2/me", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *HarvestClient) Close() error {
	return nil
}
