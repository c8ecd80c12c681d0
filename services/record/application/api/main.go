package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/cch1/uuid-primary-key/pkg/app"
	"github.com/cch1/uuid-primary-key/pkg/logger"
	"github.com/cch1/uuid-primary-key/services/record/application/handlers"
	appsvcs "github.com/cch1/uuid-primary-key/services/record/application/services"
)

// RecordRoutes registers record endpoints on the provided chi router.
func RecordRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a))
}

// Mount registers record endpoints backed by svcs under /records.
func Mount(r chi.Router, svcs *appsvcs.Services) {
	r.Route("/records", func(r chi.Router) {
		r.Post("/", handlers.NewPostRecordHandler(svcs).Execute)
		r.Get("/", handlers.NewListRecordsHandler(svcs).Execute)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(logger.URLParam("id", "record_id"))
			r.Get("/", handlers.NewGetRecordHandler(svcs).Execute)
			r.Patch("/", handlers.NewPatchRecordHandler(svcs).Execute)
			r.Delete("/", handlers.NewDeleteRecordHandler(svcs).Execute)
		})
	})
}
