// Package api is the frukit REST surface: codec endpoints that convert
// between binary FRU images and YAML, and CRUD for the image inventory.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the full route table for server. Split from
// StartServer so tests can drive it through httptest.
func NewRouter(server *Server) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", "X-Fru-Warnings"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	m := server.metrics
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		r.Post("/decode", m.InstrumentHandler("POST", "/api/v1/decode", server.handleDecode))
		r.Post("/encode", m.InstrumentHandler("POST", "/api/v1/encode", server.handleEncode))

		r.Post("/fru", m.InstrumentHandler("POST", "/api/v1/fru", server.handleCreateImage))
		r.Get("/fru", m.InstrumentHandler("GET", "/api/v1/fru", server.handleListImages))
		r.Put("/fru/{id}", m.InstrumentHandler("PUT", "/api/v1/fru/{id}", server.handlePutImage))
		r.Get("/fru/{id}", m.InstrumentHandler("GET", "/api/v1/fru/{id}", server.handleGetImage))
		r.Delete("/fru/{id}", m.InstrumentHandler("DELETE", "/api/v1/fru/{id}", server.handleDeleteImage))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured. It
// blocks until the listener fails.
func StartServer(inv Inventory, config ServerConfig) error {
	metrics := NewMetrics(prometheus.DefaultRegisterer)
	server := NewServer(inv, config, metrics)
	r := NewRouter(server)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting frukit REST API server on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	return http.ListenAndServe(addr, r)
}
