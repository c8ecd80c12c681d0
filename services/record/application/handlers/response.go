package handlers

import (
	"time"

	"github.com/cch1/uuid-primary-key/services/record/domain/models"
)

// RecordResponse is the JSON representation of a Record.
type RecordResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ListRecordsResponse is returned by GET /records.
type ListRecordsResponse struct {
	Records []RecordResponse `json:"records"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toResponse(rec *models.Record) RecordResponse {
	return RecordResponse{
		ID:        rec.ID(),
		Name:      rec.Name.String(),
		ParentID:  rec.ParentID,
		CreatedAt: rec.CreatedAt,
	}
}
