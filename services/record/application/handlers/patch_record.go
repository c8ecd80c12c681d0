package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cch1/uuid-primary-key/pkg/errhttp"
	"github.com/cch1/uuid-primary-key/pkg/httpx"
	pkgvalidator "github.com/cch1/uuid-primary-key/pkg/validator"
	appsvcs "github.com/cch1/uuid-primary-key/services/record/application/services"
)

// PatchRecordRequest is the request body for PATCH /records/{id}.
// Supplying id is always rejected: identifiers are immutable.
type PatchRecordRequest struct {
	ID   *string `json:"id"`
	Name *string `json:"name" validate:"omitempty,max=255"`
}

// PatchRecordHandler handles PATCH /records/{id} requests.
type PatchRecordHandler struct {
	svc *appsvcs.Services
}

// NewPatchRecordHandler returns a PatchRecordHandler backed by the given services.
func NewPatchRecordHandler(svc *appsvcs.Services) *PatchRecordHandler {
	return &PatchRecordHandler{svc: svc}
}

// Execute applies a partial update. An id change responds 409.
func (h *PatchRecordHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[PatchRecordRequest](w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	switch {
	case req.ID != nil:
		errhttp.WriteError(w, r, h.svc.Record.ChangeID(r.Context(), id, *req.ID))
	case req.Name != nil:
		rec, err := h.svc.Record.Rename(r.Context(), id, *req.Name)
		if err != nil {
			errhttp.WriteError(w, r, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toResponse(rec))
	default:
		httpx.JSONError(w, http.StatusBadRequest, "no updatable fields supplied")
	}
}
