package app

import (
	"github.com/cch1/uuid-primary-key/pkg/cache"
	"github.com/cch1/uuid-primary-key/pkg/database"
	"github.com/cch1/uuid-primary-key/pkg/events"
	"github.com/cch1/uuid-primary-key/pkg/identity"
	"github.com/cch1/uuid-primary-key/pkg/logger"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service Routes calls during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "processing record", "record_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Db       *database.Database
	Logger   logger.Logger
	EventBus *events.EventBus   // nil when events are disabled
	Redis    *cache.RedisClient // nil disables the read-model cache
	// Identity assigns and guards primary keys for every aggregate.
	Identity identity.Manager
}
