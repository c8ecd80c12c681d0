package services

import (
	"github.com/cch1/uuid-primary-key/pkg/app"
	"github.com/cch1/uuid-primary-key/pkg/cache"
	"github.com/cch1/uuid-primary-key/pkg/events"
	"github.com/cch1/uuid-primary-key/pkg/identity"
	"github.com/cch1/uuid-primary-key/pkg/logger"
	"github.com/cch1/uuid-primary-key/services/record/domain/repositories"
	"github.com/cch1/uuid-primary-key/services/record/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Record *RecordService
}

// New wires all record application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	var bus events.TxPublisher
	if a.EventBus != nil {
		bus = a.EventBus
	}
	repo := postgres.NewRecordRepository(a.Db, bus)

	var recordCache RecordCache
	if a.Redis != nil {
		recordCache = cache.NewRecordCache(a.Redis)
	}
	return NewWith(repo, a.Identity, recordCache, a.Logger)
}

// NewWith wires the services around an explicit repository, identity manager
// and cache. cache may be nil.
func NewWith(repo repositories.RecordRepository, ids identity.Manager, rc RecordCache, log logger.Logger) *Services {
	return &Services{
		Record: NewRecordService(repo, ids, rc, log),
	}
}
