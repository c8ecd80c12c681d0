package handlers

import (
	"net/http"

	"github.com/cch1/uuid-primary-key/pkg/errhttp"
	"github.com/cch1/uuid-primary-key/pkg/httpx"
	appsvcs "github.com/cch1/uuid-primary-key/services/record/application/services"
	"github.com/cch1/uuid-primary-key/services/record/domain/repositories"
)

// ListRecordsHandler handles GET /records requests.
type ListRecordsHandler struct {
	svc *appsvcs.Services
}

// NewListRecordsHandler returns a ListRecordsHandler backed by the given services.
func NewListRecordsHandler(svc *appsvcs.Services) *ListRecordsHandler {
	return &ListRecordsHandler{svc: svc}
}

// Execute returns a page of records in creation order. Query parameters:
// limit (default 50, max 500) and offset.
func (h *ListRecordsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	page, err := httpx.ParsePage(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	recs, total, err := h.svc.Record.List(r.Context(), repositories.QueryOpts{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	resp := ListRecordsResponse{
		Records: make([]RecordResponse, len(recs)),
		Total:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	}
	for i, rec := range recs {
		resp.Records[i] = toResponse(rec)
	}
	httpx.JSON(w, http.StatusOK, resp)
}
