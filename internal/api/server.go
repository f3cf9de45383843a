// SPDX-License-Identifier: MIT

// Package api exposes the trainconf admin HTTP surface: the resolved
// configuration, reload and validation endpoints, health and metrics.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sidevit/trainconf/internal/api/middleware"
	"github.com/sidevit/trainconf/internal/config"
	"github.com/sidevit/trainconf/internal/log"
)

// Server serves the admin API.
type Server struct {
	holder  *config.ConfigHolder
	logger  zerolog.Logger
	version string
	started time.Time

	// rate limiter for mutation endpoints; overridable in tests
	mutationLimiter func(http.Handler) http.Handler
}

// NewServer creates an admin API server backed by the given config holder.
func NewServer(holder *config.ConfigHolder, version string) *Server {
	return &Server{
		holder:          holder,
		logger:          log.WithComponent("api"),
		version:         version,
		started:         time.Now(),
		mutationLimiter: middleware.ReloadRateLimit(),
	}
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.handleGetConfig)
		r.Get("/config/plan", s.handleGetPlan)
		r.With(s.mutationLimiter).Post("/config/reload", s.handleConfigReload)
		r.With(s.mutationLimiter).Post("/config/validate", s.handleValidateConfig)
	})

	return r
}
