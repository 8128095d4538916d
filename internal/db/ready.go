package db

import (
	"context"
	"fmt"
	"time"
)

// readyPollInterval is the delay between readiness pings.
const readyPollInterval = 100 * time.Millisecond

// WaitForReady pings p until it answers or timeout expires.
// The first ping runs immediately.
func WaitForReady(ctx context.Context, p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = p.Ping(ctx); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w (last ping: %v)", ctx.Err(), lastErr)
		case <-ticker.C:
		}
	}
}
