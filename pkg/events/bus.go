// Package events carries domain events (record.created, ...) between the API
// and worker processes over Watermill's PostgreSQL transport.
//
// Events are written in the same transaction as the row they describe
// (NewTxPublisher), so a record and its creation event commit or roll back
// together. Subscribers in one ConsumerGroup share the stream; each message is
// handled by one instance. Handlers must be idempotent: a failing handler is
// retried per Config.Retry and then Nacked for redelivery.
//
// Trace context travels in message metadata so a worker's spans join the
// trace of the request that created the record.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/cch1/uuid-primary-key/pkg/logger"
)

const (
	drainTimeout   = 30 * time.Second
	errBufferSize  = 100
	forwarderTopic = "_forwarder_queue"
)

// ErrNoConsumerGroup is returned by New when Config.ConsumerGroup is empty.
var ErrNoConsumerGroup = errors.New("events: consumer group is required")

// Handler processes one message. A nil return acks it.
type Handler func(ctx context.Context, msg *message.Message) error

// Config selects the bus's delivery mode.
type Config struct {
	// ConsumerGroup names the group subscribers join, typically "<service>-consumer".
	ConsumerGroup string
	// Forwarder routes publishes through a durable queue drained by
	// StartForwarder instead of writing the target topic directly.
	Forwarder bool
	// Retry governs handler retries; the zero value uses DefaultBackoff.
	Retry Backoff
}

// TxPublisher is implemented by EventBus; repositories depend on it to
// publish inside their own transactions.
type TxPublisher interface {
	NewTxPublisher(tx *sql.Tx) (message.Publisher, error)
}

// EventBus is a PostgreSQL-backed pub/sub bus. The *sql.DB is shared with the
// rest of the process and is not closed by the bus.
type EventBus struct {
	db  *sql.DB
	cfg Config
	log logger.Logger
	wl  *watermillLogger

	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder

	wg sync.WaitGroup
}

// New builds the bus's publisher and subscriber on db. Schema tables are
// created on first use.
func New(db *sql.DB, cfg Config, log logger.Logger) (*EventBus, error) {
	if cfg.ConsumerGroup == "" {
		return nil, ErrNoConsumerGroup
	}
	if cfg.Retry.Attempts <= 0 {
		cfg.Retry = DefaultBackoff
	}
	b := &EventBus{db: db, cfg: cfg, log: log, wl: &watermillLogger{log: log}}

	pub, err := watermillsql.NewPublisher(db, publisherConfig(true), b.wl)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	sub, err := b.sqlSubscriber(cfg.ConsumerGroup)
	if err != nil {
		_ = pub.Close()
		return nil, err
	}
	b.publisher = b.route(pub)
	b.subscriber = sub
	return b, nil
}

func publisherConfig(initSchema bool) watermillsql.PublisherConfig {
	return watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: initSchema,
	}
}

func (b *EventBus) sqlSubscriber(group string) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(b.db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, b.wl)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber %s: %w", group, err)
	}
	return sub, nil
}

// route envelopes pub for the forwarder queue when forwarder mode is on.
func (b *EventBus) route(pub message.Publisher) message.Publisher {
	if !b.cfg.Forwarder {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

// NewTxPublisher returns a Publisher bound to tx: published messages commit
// or roll back with it. Tables already exist once the bus is constructed.
func (b *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := watermillsql.NewPublisher(tx, publisherConfig(false), b.wl)
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	return b.route(pub), nil
}

// Publish sends msgs to topic, stamping ctx's trace into any message that
// does not carry one yet.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		injectTrace(ctx, msg)
	}
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe consumes topic in the background. Each message is handled with the
// publisher's trace restored into ctx and acked on success; after the retry
// budget is spent it is nacked and the error sent on the returned channel.
//
// The channel is buffered and closed when the subscription ends. Errors that
// do not fit are logged and dropped, so callers should drain it:
//
//	errCh, err := bus.Subscribe(ctx, topic, handler)
//	go func() { for err := range errCh { log.ErrorContext(ctx, "subscriber error", "error", err) } }()
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errBufferSize)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)
		for msg := range ch {
			b.dispatch(ctx, topic, msg, handler, errCh)
		}
	}()
	return errCh, nil
}

func (b *EventBus) dispatch(ctx context.Context, topic string, msg *message.Message, handler Handler, errCh chan<- error) {
	msgCtx := extractTrace(ctx, msg)
	err := b.cfg.Retry.run(msgCtx, msg, handler, b.log)
	if err == nil {
		msg.Ack()
		return
	}
	msg.Nack()
	select {
	case errCh <- err:
	default:
		b.log.ErrorContext(msgCtx, "events: error channel full, dropping error", "error", err, "topic", topic)
	}
}

// Ping checks the bus's database connection.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber and forwarder, waits for in-flight handlers
// and closes the publisher. The shared *sql.DB stays open.
func (b *EventBus) Close() error {
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		b.log.Error("events: in-flight handlers still running at shutdown", "timeout", drainTimeout)
	}

	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return nil
}
