package app

import (
	"github.com/cch1/uuid-primary-key/pkg/config"
	"github.com/cch1/uuid-primary-key/pkg/identity"
	"github.com/cch1/uuid-primary-key/pkg/logger"
)

// NewIdentityManager builds the process-wide identity.Manager from the
// IDENTITY_* settings. A configured node ID is applied process-wide.
func NewIdentityManager(cfg *config.Config, log logger.Logger) (*identity.Assigner, error) {
	if cfg.IdentityNodeID != "" {
		if err := identity.SetNodeID(cfg.IdentityNodeID); err != nil {
			return nil, err
		}
	}

	gen, err := identity.TimeOrdered(identity.Version(cfg.IdentityVersion))
	if err != nil {
		return nil, err
	}

	mode := identity.ValidationMode(cfg.IdentityValidation)
	if mode == "" {
		mode = identity.Strict
	}
	field := cfg.IdentityField
	if field == "" {
		field = "id"
	}

	return identity.NewAssigner(
		identity.WithGenerator(gen),
		identity.WithValidationMode(mode),
		identity.WithField(field),
		identity.WithLogger(log.ToSlog()),
	), nil
}
