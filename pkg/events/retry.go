package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/cch1/uuid-primary-key/pkg/logger"
)

// DefaultBackoff tries a handler three times, waiting 1s then 2s.
var DefaultBackoff = Backoff{Attempts: 3, BaseDelay: time.Second}

// Backoff is an exponential retry policy: the delay doubles after each
// failed attempt.
type Backoff struct {
	Attempts  int
	BaseDelay time.Duration
}

// run calls handler until it succeeds, the attempts run out or ctx ends.
func (p Backoff) run(ctx context.Context, msg *message.Message, handler Handler, log logger.Logger) error {
	delay := p.BaseDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt >= p.Attempts {
			return fmt.Errorf("events: handler failed after %d attempts: %w", attempt, err)
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"message_uuid", msg.UUID,
			"attempt", attempt,
			"next_delay", delay,
			"error", err,
		)
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
