package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cch1/uuid-primary-key/pkg/errhttp"
	"github.com/cch1/uuid-primary-key/pkg/httpx"
	appsvcs "github.com/cch1/uuid-primary-key/services/record/application/services"
)

// GetRecordHandler handles GET /records/{id} requests.
type GetRecordHandler struct {
	svc *appsvcs.Services
}

// NewGetRecordHandler returns a GetRecordHandler backed by the given services.
func NewGetRecordHandler(svc *appsvcs.Services) *GetRecordHandler {
	return &GetRecordHandler{svc: svc}
}

// Execute returns a single record. Non-canonical identifiers are rejected with 422.
func (h *GetRecordHandler) Execute(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Record.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(rec))
}
