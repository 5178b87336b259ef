package fetcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeScraper scripts one backend for manager tests. Posts are yielded
// in order; failAfter >= 0 injects an error after that many posts.
type fakeScraper struct {
	name      string
	initErr   error
	posts     []string
	failAfter int // -1 for a clean stream
	closed    bool
}

func newFakeScraper(name string, posts ...string) *fakeScraper {
	return &fakeScraper{name: name, posts: posts, failAfter: -1}
}

func (f *fakeScraper) Name() string { return f.name }

func (f *fakeScraper) Initialize(ctx context.Context) error { return f.initErr }

func (f *fakeScraper) Search(ctx context.Context, query string, opts SearchOptions) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)
		for i, id := range f.posts {
			if f.failAfter >= 0 && i == f.failAfter {
				fail(ctx, out, fmt.Errorf("%s: scripted failure", f.name))
				return
			}
			if !emit(ctx, out, Result{Post: &Post{ID: id, Backend: f.name}}) {
				return
			}
		}
		if f.failAfter >= 0 && f.failAfter >= len(f.posts) {
			fail(ctx, out, fmt.Errorf("%s: scripted failure", f.name))
		}
	}()
	return out
}

func (f *fakeScraper) UserPosts(ctx context.Context, username string, limit int) <-chan Result {
	return f.Search(ctx, username, SearchOptions{Limit: limit})
}

func (f *fakeScraper) HealthCheck(ctx context.Context) bool { return f.initErr == nil }

func (f *fakeScraper) Close() error {
	f.closed = true
	return nil
}

func collect(t *testing.T, ch <-chan Result) ([]string, error) {
	t.Helper()
	var ids []string
	for r := range ch {
		if r.Err != nil {
			return ids, r.Err
		}
		ids = append(ids, r.Post.ID)
	}
	return ids, nil
}

func newTestManager(t *testing.T, backends ...Scraper) *Manager {
	t.Helper()
	m := NewManager(zap.NewNop(), time.Minute, backends...)
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return m
}

func TestManagerInitializeSkipsFailures(t *testing.T) {
	broken := newFakeScraper("broken")
	broken.initErr = errors.New("login failed")
	healthy := newFakeScraper("healthy", "1")

	m := newTestManager(t, broken, healthy)

	status := m.Status(context.Background())
	if !status.Initialized {
		t.Error("manager not initialized")
	}
	if status.ActiveBackend != "healthy" {
		t.Errorf("active = %q, want healthy", status.ActiveBackend)
	}
	if len(status.Backends) != 1 {
		t.Errorf("backends = %d, want 1", len(status.Backends))
	}
}

func TestManagerInitializeAllFailed(t *testing.T) {
	broken := newFakeScraper("broken")
	broken.initErr = errors.New("login failed")

	m := NewManager(zap.NewNop(), time.Minute, broken)
	if err := m.Initialize(context.Background()); !errors.Is(err, ErrNoBackends) {
		t.Errorf("Initialize err = %v, want ErrNoBackends", err)
	}
}

func TestManagerSearchFallsBackBeforeFirstPost(t *testing.T) {
	failing := newFakeScraper("failing")
	failing.failAfter = 0 // errors before yielding anything
	backup := newFakeScraper("backup", "a", "b")

	m := newTestManager(t, failing, backup)

	ids, err := collect(t, m.Search(context.Background(), "q", SearchOptions{}))
	if err != nil {
		t.Fatalf("Search err = %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("ids = %v, want [a b]", ids)
	}

	// The backend that served the call becomes active.
	if status := m.Status(context.Background()); status.ActiveBackend != "backup" {
		t.Errorf("active = %q, want backup", status.ActiveBackend)
	}
}

func TestManagerSearchAbortsMidStream(t *testing.T) {
	flaky := newFakeScraper("flaky", "a", "b", "c")
	flaky.failAfter = 2 // two posts then an error
	backup := newFakeScraper("backup", "x")

	m := newTestManager(t, flaky, backup)

	ids, err := collect(t, m.Search(context.Background(), "q", SearchOptions{}))
	if err == nil {
		t.Fatal("expected a mid-stream error, got clean close")
	}
	if len(ids) != 2 {
		t.Errorf("ids = %v, want the two posts before the failure", ids)
	}
	for _, id := range ids {
		if id == "x" {
			t.Error("call resumed on the backup backend after committing")
		}
	}
}

func TestManagerSearchEmptyStreamIsSuccess(t *testing.T) {
	empty := newFakeScraper("empty") // closes cleanly with zero posts
	backup := newFakeScraper("backup", "x")

	m := newTestManager(t, empty, backup)

	ids, err := collect(t, m.Search(context.Background(), "q", SearchOptions{}))
	if err != nil {
		t.Fatalf("Search err = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want none (clean empty stream commits)", ids)
	}
}

func TestManagerSearchAllBackendsFail(t *testing.T) {
	first := newFakeScraper("first")
	first.failAfter = 0
	second := newFakeScraper("second")
	second.failAfter = 0

	m := newTestManager(t, first, second)

	_, err := collect(t, m.Search(context.Background(), "q", SearchOptions{}))
	if err == nil {
		t.Fatal("expected terminal error when every backend fails")
	}
}

func TestManagerSearchMultipleDedups(t *testing.T) {
	backend := newFakeScraper("only", "1", "2", "3")

	m := newTestManager(t, backend)

	// The same backend serves both queries, so every id repeats; the
	// stream must carry each id once.
	ids, err := collect(t, m.SearchMultiple(context.Background(), []string{"q1", "q2"}, 10))
	if err != nil {
		t.Fatalf("SearchMultiple err = %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("ids = %v, want 3 distinct", ids)
	}
}

func TestManagerSearchCancel(t *testing.T) {
	backend := newFakeScraper("only", "1", "2", "3", "4", "5")

	m := newTestManager(t, backend)

	ctx, cancel := context.WithCancel(context.Background())
	ch := m.Search(ctx, "q", SearchOptions{})

	<-ch
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream did not close after cancel")
		}
	}
}

func TestManagerClose(t *testing.T) {
	a := newFakeScraper("a", "1")
	b := newFakeScraper("b", "2")

	m := newTestManager(t, a, b)
	m.Close()

	if !a.closed || !b.closed {
		t.Error("Close did not reach every backend")
	}
}
