package handlers

import (
	"net/http"

	"github.com/cch1/uuid-primary-key/pkg/errhttp"
	"github.com/cch1/uuid-primary-key/pkg/httpx"
	pkgvalidator "github.com/cch1/uuid-primary-key/pkg/validator"
	appsvcs "github.com/cch1/uuid-primary-key/services/record/application/services"
)

// CreateRecordRequest is the request body for POST /records.
// ID is optional; when absent a time-ordered identifier is generated. Its
// format is checked by the identity manager so errors are keyed to the
// configured identity field.
type CreateRecordRequest struct {
	ID       *string `json:"id"`
	Name     string  `json:"name" validate:"required,max=255"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid_canonical"`
}

// PostRecordHandler handles POST /records requests.
type PostRecordHandler struct {
	svc *appsvcs.Services
}

// NewPostRecordHandler returns a PostRecordHandler backed by the given services.
func NewPostRecordHandler(svc *appsvcs.Services) *PostRecordHandler {
	return &PostRecordHandler{svc: svc}
}

// Execute creates a new record and responds 201 with its assigned identifier.
func (h *PostRecordHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateRecordRequest](w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Record.Create(r.Context(), appsvcs.CreateParams{
		ID:       req.ID,
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	w.Header().Set("Location", r.URL.JoinPath(rec.ID()).Path)
	httpx.JSON(w, http.StatusCreated, toResponse(rec))
}
