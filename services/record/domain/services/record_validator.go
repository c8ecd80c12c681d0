// Package services contains stateless domain services for the record bounded context.
// Domain services enforce business rules that operate purely on domain types.
package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cch1/uuid-primary-key/pkg/identity"
	"github.com/cch1/uuid-primary-key/services/record/domain"
	"github.com/cch1/uuid-primary-key/services/record/domain/models"
)

// ValidateName enforces business rules for RecordName beyond the structural
// constraints enforced by the RecordName constructor (length 1–255):
//   - No leading or trailing whitespace
//   - No control characters (Unicode category Cc)
//   - No consecutive spaces
func ValidateName(name models.RecordName) error {
	s := name.String()

	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("record name must not be only whitespace")
	}

	if s != strings.TrimSpace(s) {
		return fmt.Errorf("record name must not have leading or trailing whitespace")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("record name must not contain control characters")
		}
	}

	if strings.Contains(s, "  ") {
		return fmt.Errorf("record name must not contain consecutive spaces")
	}

	return nil
}

// ValidateRecordForCreation checks a Record right before it is first saved,
// after its identifier has been assigned. Errors wrap ErrInvalidRecordName
// or ErrInvalidParent.
func ValidateRecordForCreation(rec *models.Record) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}

	if rec.IsNull() {
		return fmt.Errorf("record identifier must be assigned before creation")
	}

	if err := ValidateName(rec.Name); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRecordName, err)
	}

	if rec.ParentID != nil {
		parent, err := identity.Canonical(*rec.ParentID)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidParent, err)
		}
		if self, err := identity.Canonical(rec.ID()); err == nil && self == parent {
			return fmt.Errorf("%w: record cannot be its own parent", domain.ErrInvalidParent)
		}
	}

	return nil
}
