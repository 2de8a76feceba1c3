package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/suleigolden/sulber-core/internal/entity"
)

func Routes(h *Handler, logger *zap.Logger, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// catalog is public reference data
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", h.ListCatalog)
		r.Get("/{type}", h.GetCatalogEntry)
	})

	r.Route("/jobs", func(r chi.Router) {
		r.Use(Authenticator(jwtSecret))

		r.Post("/", requireRole(entity.RoleCustomer, h.CreateJob))
		r.Get("/", h.ListJobs)
		r.Get("/available", requireRole(entity.RoleProvider, h.AvailableJobs))
		r.Get("/{id}", h.GetJob)

		r.Post("/{id}/accept", requireRole(entity.RoleProvider, h.AcceptJob))
		r.Post("/{id}/start", requireRole(entity.RoleProvider, h.StartJob))
		r.Post("/{id}/complete", requireRole(entity.RoleProvider, h.CompleteJob))
		r.Post("/{id}/cancel", requireRole(entity.RoleCustomer, h.CancelJob))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
