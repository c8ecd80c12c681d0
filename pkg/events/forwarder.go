package events

import (
	"context"
	"errors"
	"fmt"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
)

var (
	// ErrForwarderDisabled is returned by StartForwarder on a bus built without Config.Forwarder.
	ErrForwarderDisabled = errors.New("events: forwarder mode is disabled")
	// ErrForwarderRunning is returned by a second StartForwarder call.
	ErrForwarderRunning = errors.New("events: forwarder already started")
)

// StartForwarder runs the daemon that drains the forwarder queue into the
// target topics. It returns once the daemon is running; the daemon stops
// when ctx is cancelled or the bus is closed.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if !b.cfg.Forwarder {
		return ErrForwarderDisabled
	}
	if b.fwd != nil {
		return ErrForwarderRunning
	}

	queue, err := b.sqlSubscriber(b.cfg.ConsumerGroup + "-forwarder")
	if err != nil {
		return err
	}
	target, err := watermillsql.NewPublisher(b.db, publisherConfig(true), b.wl)
	if err != nil {
		_ = queue.Close()
		return fmt.Errorf("events: new forwarder target publisher: %w", err)
	}
	fwd, err := forwarder.NewForwarder(queue, target, b.wl, forwarder.Config{ForwarderTopic: forwarderTopic})
	if err != nil {
		_ = target.Close()
		_ = queue.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.log.InfoContext(ctx, "events: forwarder started", "topic", forwarderTopic)
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
			return
		}
		b.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}
