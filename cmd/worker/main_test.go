package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/cch1/uuid-primary-key/pkg/cache"
	"github.com/cch1/uuid-primary-key/pkg/events"
	"github.com/cch1/uuid-primary-key/pkg/logger"
	recordEvents "github.com/cch1/uuid-primary-key/services/record/domain/events"
)

type stubWarmer struct {
	got *cache.CachedRecord
	err error
}

func (s *stubWarmer) Set(_ context.Context, rec *cache.CachedRecord) error {
	s.got = rec
	return s.err
}

func TestHandleRecordCreated(t *testing.T) {
	evt := recordEvents.RecordCreatedEvent{
		EventID:    uuid.New(),
		Version:    recordEvents.RecordCreatedEventVersion,
		RecordID:   "1b2c3247-0000-4000-8000-cccccccccccc",
		Name:       "Hardware",
		ParentID:   "278ebc47-0000-4000-8000-cccccccccccc",
		OccurredAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	msg, err := events.NewMessage(context.Background(), evt.EventID.String(), evt.Version, evt)
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}

	t.Run("warms cache", func(t *testing.T) {
		w := &stubWarmer{}
		if err := handleRecordCreated(logger.Discard(), w)(context.Background(), msg); err != nil {
			t.Fatalf("handler: %v", err)
		}
		want := cache.CachedRecord{ID: evt.RecordID, Name: evt.Name, ParentID: evt.ParentID, CreatedAt: evt.OccurredAt}
		if w.got == nil {
			t.Fatal("cache not written")
		}
		if diff := cmp.Diff(want, *w.got); diff != "" {
			t.Fatalf("cached record mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("cache failure is not retried", func(t *testing.T) {
		w := &stubWarmer{err: errors.New("redis down")}
		if err := handleRecordCreated(logger.Discard(), w)(context.Background(), msg); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	})

	t.Run("undecodable payload", func(t *testing.T) {
		bad, _ := events.NewMessage(context.Background(), "x", 1, "not an object")
		if err := handleRecordCreated(logger.Discard(), &stubWarmer{})(context.Background(), bad); err == nil {
			t.Fatal("expected decode error")
		}
	})
}
