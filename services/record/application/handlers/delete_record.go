package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cch1/uuid-primary-key/pkg/errhttp"
	appsvcs "github.com/cch1/uuid-primary-key/services/record/application/services"
)

// DeleteRecordHandler handles DELETE /records/{id} requests.
type DeleteRecordHandler struct {
	svc *appsvcs.Services
}

// NewDeleteRecordHandler returns a DeleteRecordHandler backed by the given services.
func NewDeleteRecordHandler(svc *appsvcs.Services) *DeleteRecordHandler {
	return &DeleteRecordHandler{svc: svc}
}

// Execute deletes a record and responds 204. Records with children respond 409.
func (h *DeleteRecordHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Record.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
