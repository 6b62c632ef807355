package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskwatch/internal/api"
	apiMiddleware "github.com/phrazzld/taskwatch/internal/api/middleware"
)

// setupRouter creates the control API router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	taskHandler := api.NewTaskHandler(app.tracker, app.logger)
	viewHandler := api.NewViewHandler(app.board)

	r.Get("/health", api.HealthHandler(app.tracker))

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.CreateTask)
		r.Get("/", taskHandler.ListTasks)
		r.Post("/adopt", taskHandler.AdoptTasks)
		r.Get("/{id}", taskHandler.GetTask)
		r.Patch("/{id}/status", taskHandler.CancelTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
	})

	r.Route("/view", func(r chi.Router) {
		r.Get("/", viewHandler.GetView)
		r.Put("/filter", viewHandler.SetFilter)
	})

	return r
}
