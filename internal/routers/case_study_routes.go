package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/yinchen618/pu-in-practice/internal/handlers"
)

func CaseStudyRoutes(router *chi.Mux, modelHandler *handlers.ModelHandler, configHandler *handlers.ConfigHandler) {
	router.Route("/api/v1/case-study", func(r chi.Router) {
		r.Get("/models", modelHandler.ListModels)
		r.Get("/models/{model_id}", modelHandler.GetModel)
		r.Get("/runs/{run_id}/models", modelHandler.ListRunModels)
		r.Get("/runs/{run_id}/config", configHandler.ConfigFromRun)
		r.Get("/runs/{run_id}/config/resolved", configHandler.ResolvedConfig)
		r.Get("/config/default", configHandler.DefaultConfig)
	})
}
