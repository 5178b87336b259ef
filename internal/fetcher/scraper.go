// Package fetcher acquires posts from the feed through several
// interchangeable backends and normalizes everything into the
// canonical Post type at the backend boundary.
package fetcher

import (
	"context"
	"time"
)

// Result is one item on a post stream: a post or a terminal error.
// A backend that hits an error sends exactly one Result with Err set
// and then closes its channel.
type Result struct {
	Post *Post
	Err  error
}

// SearchOptions narrow a search call.
type SearchOptions struct {
	Limit int
	Since time.Time
	Until time.Time
}

// Scraper is one backend implementation of the acquisition capability
// set. Streams are lazy: a backend must stop fetching and close its
// channel promptly when ctx is cancelled.
type Scraper interface {
	Name() string

	// Initialize prepares the backend (login, token checks). A failed
	// backend is skipped by the manager, not fatal.
	Initialize(ctx context.Context) error

	// Search streams posts matching a query.
	Search(ctx context.Context, query string, opts SearchOptions) <-chan Result

	// UserPosts streams recent posts of one account.
	UserPosts(ctx context.Context, username string, limit int) <-chan Result

	HealthCheck(ctx context.Context) bool

	Close() error
}

// emit sends r on out unless ctx is done. Reports whether the send
// happened.
func emit(ctx context.Context, out chan<- Result, r Result) bool {
	select {
	case out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// fail closes out a stream with a single terminal error.
func fail(ctx context.Context, out chan<- Result, err error) {
	emit(ctx, out, Result{Err: err})
}
