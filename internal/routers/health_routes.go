package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/yinchen618/pu-in-practice/internal/handlers"
	"github.com/yinchen618/pu-in-practice/internal/metrics"
)

func HealthRoutes(router *chi.Mux, healthHandler *handlers.HealthHandler) {
	router.Get("/healthz", healthHandler.HealthzHandler)
	router.Get("/readyz", healthHandler.ReadyzHandler)
	router.Get("/api/v1/case-study/healthz", healthHandler.HealthzHandler)
	router.Handle("/metrics", metrics.Handler())
}
