package core

// scheduler.go provides the optional periodic catalog reload.
//
// Each tick re-fetches the source and, on success, swaps in a new snapshot.
// A failed tick is logged and leaves the current snapshot in place; the
// scheduler keeps running until its context is cancelled.

import (
	"context"
	"log/slog"
	"time"
)

// StartReloadScheduler reloads the catalog every interval until ctx is
// cancelled. It does not load on start; the caller performs the initial load.
// A non-positive interval returns immediately.
func (c *Catalog) StartReloadScheduler(ctx context.Context, interval, timeout time.Duration) {
	if interval <= 0 {
		return
	}

	slog.Info("reload scheduler started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reload scheduler stopped")
			return
		case <-ticker.C:
			c.runReload(ctx, timeout)
		}
	}
}

// runReload performs one bounded reload.
func (c *Catalog) runReload(ctx context.Context, timeout time.Duration) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	snap, err := c.Reload(ctx)
	if err != nil {
		slog.Error("scheduled reload failed",
			"error", err,
			"games_kept", snap.Len(),
		)
		return
	}
	slog.Debug("scheduled reload completed",
		"games", snap.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
