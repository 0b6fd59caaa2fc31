package events

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/ytget/yutto-gui/internal/model"
)

// DefaultPollInterval is how often the UI drains the queue
const DefaultPollInterval = 100 * time.Millisecond

// Pump drains q every interval and hands non-empty batches to render until
// ctx is done. A final drain runs on shutdown so nothing pushed before the
// cancel is lost.
func Pump(ctx context.Context, clk clock.Clock, interval time.Duration, q *Queue, render func([]model.Event)) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := clk.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if batch := q.Drain(); batch != nil {
				render(batch)
			}
			return
		case <-ticker.C:
			if batch := q.Drain(); batch != nil {
				render(batch)
			}
		}
	}
}
