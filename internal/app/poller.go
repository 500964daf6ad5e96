package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/sqsnav/internal/sqs"
	"github.com/five82/sqsnav/internal/state"
	"github.com/five82/sqsnav/internal/store"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
	pollConcurrency     = 4
)

// QueueSource lists the queues the poller should read.
type QueueSource func() []store.QueueBookmark

// StartPoller launches a background goroutine that refreshes queue attributes
// at a fixed cadence, backing off while rounds fail. It returns immediately.
func StartPoller(ctx context.Context, stats *state.Store, gw sqs.Gateway, queues QueueSource, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			failures := 0
			if err := refresh(ctx, stats, gw, queues); err != nil {
				failures = stats.Snapshot().ConsecutiveFailures
			}
			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// calculateBackoff doubles the interval per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

func refresh(ctx context.Context, stats *state.Store, gw sqs.Gateway, queues QueueSource) error {
	bookmarks := queues()

	var (
		mu   sync.Mutex
		out  = make(map[state.QueueKey]state.QueueStats, len(bookmarks))
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pollConcurrency)
	for _, b := range bookmarks {
		g.Go(func() error {
			attrs, err := gw.Attributes(gctx, b.Region, b.QueueID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			out[state.QueueKey{Region: b.Region, QueueID: b.QueueID}] = state.QueueStats{
				Attributes: attrs,
				Messages:   sqs.MessageCount(attrs),
				UpdatedAt:  time.Now(),
			}
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs...)
	stats.Update(out, err)
	if err != nil {
		slog.Warn("attribute poll failed", "queues", len(bookmarks), "failed", len(errs), "error", err)
	}
	return err
}
