package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veranemoloko/route-uploader/internal/repository"
	"github.com/veranemoloko/route-uploader/internal/service"
	"github.com/veranemoloko/route-uploader/internal/storage"
)

// NewRouter creates a new HTTP router with configured routes, middleware, and handlers.
// It sets up route, target and button routes, the state stream, health check, and
// Prometheus metrics endpoint.
func NewRouter(
	coordinator *service.UploadCoordinator,
	states *storage.StateStore,
	routes repository.RouteRepo,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	handler := NewUploadHandler(coordinator, routes, logger)

	r.Route("/routes", func(r chi.Router) {
		r.Get("/", handler.ListRoutes)
		r.Post("/", handler.SaveRoute)
		r.Get("/{name}", handler.GetRoute)
	})

	r.Route("/target", func(r chi.Router) {
		r.Get("/", handler.GetTarget)
		r.Put("/", handler.SelectTarget)
		r.Delete("/", handler.ClearTarget)
	})

	r.Route("/buttons", func(r chi.Router) {
		r.Get("/", handler.ListButtons)
		r.Post("/{category}/click", handler.ClickButton)
	})

	r.Handle("/states/ws", NewStateStream(states, logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
