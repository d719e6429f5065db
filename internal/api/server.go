package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog"
)

// NewRouter assembles the full HTTP surface: generation endpoints, task
// polling, solutions CRUD and static diagram serving.
func NewRouter(h *Handler, diagramsDir string) chi.Router {
	r := chi.NewRouter()

	requestLogger := httplog.NewLogger("arch-agent", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(requestLogger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/", h.Health)
	r.Post("/generate", h.Generate)
	r.Post("/generate/async", h.GenerateAsync)
	r.Get("/tasks/{taskID}", h.TaskStatus)

	r.Route("/solutions", func(r chi.Router) {
		r.Post("/", h.CreateSolution)
		r.Get("/", h.ListSolutions)
		r.Get("/{solutionID}", h.GetSolution)
		r.Delete("/{solutionID}", h.DeleteSolution)
	})

	r.Handle("/diagram/*", http.StripPrefix("/diagram/", http.FileServer(http.Dir(diagramsDir))))

	return r
}
