package api

import (
	"context"
	"net/http"
	"route-optimizer-service/internal/api/handlers"
	"route-optimizer-service/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Deps are the collaborators the HTTP layer needs. Handlers stay unaware
// of the concrete adapters behind them.
type Deps struct {
	Planner        handlers.Planner
	MaxDeliveries  int
	PDF            ports.ReportExporter
	Excel          ports.ReportExporter
	HealthCheck    func(ctx context.Context) error
	AllowedOrigins []string
	StaticDir      string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", requestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	health := &handlers.HealthHandler{Check: d.HealthCheck}
	optimize := &handlers.OptimizeHandler{Planner: d.Planner, MaxDeliveries: d.MaxDeliveries}

	r.Get("/health", health.Health)
	r.Post("/optimize", optimize.Optimize)

	if d.PDF != nil {
		r.Post("/download/pdf", (&handlers.ExportHandler{Exporter: d.PDF}).Export)
	}
	if d.Excel != nil {
		r.Post("/download/excel", (&handlers.ExportHandler{Exporter: d.Excel}).Export)
	}

	if d.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(d.StaticDir)))
	}

	return r
}
