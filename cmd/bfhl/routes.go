package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/af-corp/bfhl-service/internal/config"
	"github.com/af-corp/bfhl-service/internal/gateway"
	"github.com/af-corp/bfhl-service/internal/httputil"
)

func newRouter(h *gateway.Handler, corsCfg config.CORSConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: corsCfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", httputil.HeaderRequestID},
		ExposedHeaders: []string{httputil.HeaderRequestID},
	}).Handler)

	r.Get("/health", h.Health)
	r.Post("/bfhl", h.BFHL)
	return r
}
