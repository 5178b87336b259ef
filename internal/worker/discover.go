package worker

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RunStats summarizes one discovery pass.
type RunStats struct {
	PostsSeen    int `json:"posts_seen"`
	IdeasFound   int `json:"ideas_found"`
	IdeasCreated int `json:"ideas_created"`
	Notified     int `json:"notified"`
}

func backoffWithJitter(attempt int) time.Duration {
	const (
		baseDelay = 10 * time.Second
		maxDelay  = 15 * time.Minute
	)

	delay := baseDelay * (1 << attempt)
	if delay > maxDelay {
		delay = maxDelay
	}

	var b [8]byte
	_, _ = rand.Read(b[:])
	jitter := time.Duration(binary.LittleEndian.Uint64(b[:]) % uint64(delay))

	return jitter
}

func (w *Worker) runWithRetries() (RunStats, error) {
	const maxRetries = 3

	var (
		stats   RunStats
		lastErr error
	)

	for attempt := 0; attempt <= maxRetries; attempt++ {
		isLastRetry := attempt == maxRetries

		err := func() (runErr error) {
			defer func() {
				if r := recover(); r != nil {
					w.Log.Error("panic in discovery run",
						zap.Int("attempt", attempt+1),
						zap.Any("panic", r))
				}
			}()

			stats, runErr = w.discover(context.Background())
			return runErr
		}()

		if err == nil {
			return stats, nil
		}
		lastErr = err

		if isLastRetry {
			w.Log.Error("discovery failed after retries",
				zap.Int("attempts", attempt+1),
				zap.Error(err))
			break
		}

		delay := backoffWithJitter(attempt)
		w.Log.Warn("discovery run error, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))
		time.Sleep(delay)
	}

	return stats, lastErr
}

// discover performs one full acquisition-to-storage pass over the
// configured queries.
func (w *Worker) discover(ctx context.Context) (RunStats, error) {
	w.Log.Info("starting discovery", zap.Int("queries", len(w.Config.Queries)))

	var stats RunStats

	for result := range w.Manager.SearchMultiple(ctx, w.Config.Queries, w.Config.MaxPostsPerQuery) {
		stats.PostsSeen++

		idea := w.Scorer.ProcessPost(result.Post)
		if idea == nil {
			continue
		}
		if idea.MonthlyRevenue < w.Config.MinMonthlyRevenue {
			continue
		}
		stats.IdeasFound++

		created, err := w.Store.UpsertIdea(ctx, idea)
		if err != nil {
			w.Log.Error("failed to save idea",
				zap.String("post_id", idea.PostID),
				zap.Error(err))
			continue
		}
		if !created {
			continue
		}
		stats.IdeasCreated++

		if err := w.Notifier.NotifyIdea(idea); err != nil {
			w.Log.Warn("notification failed",
				zap.String("post_id", idea.PostID),
				zap.Error(err))
		} else if w.Notifier != nil && idea.TotalScore() >= w.Config.NotifyMinScore {
			stats.Notified++
		}
	}

	if stats.PostsSeen == 0 {
		return stats, fmt.Errorf("no posts acquired for any query")
	}

	w.Log.Info("discovery complete",
		zap.Int("posts", stats.PostsSeen),
		zap.Int("ideas", stats.IdeasFound),
		zap.Int("new", stats.IdeasCreated))
	return stats, nil
}
