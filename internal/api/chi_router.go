// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harborview/harborview/internal/middleware"
)

// Router builds the HTTP routing tree.
type Router struct {
	handler *Handler
}

// NewRouter creates a router around the given handler set.
func NewRouter(handler *Handler) *Router {
	return &Router{handler: handler}
}

// Setup configures all routes and middleware and returns the root handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()
	cfg := router.handler.cfg

	// Global middleware, applied to every route in order.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", router.handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(router.rateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/dashboard/overview", router.handler.DashboardOverview)
		r.Get("/users/stats", router.handler.UserStats)
		r.Get("/content/stats", router.handler.ContentStats)
		r.Get("/activities/timeline", router.handler.ActivityTimeline)
		r.Get("/sessions/active", router.handler.ActiveSessions)
		r.Post("/sync", router.handler.SyncNow)

		r.Get("/settings", router.handler.AllSettings)
		r.Post("/settings/validate", router.handler.ValidateSettings)
		r.Post("/settings/test-jellyfin", router.handler.TestJellyfin)
		r.Put("/settings/{key}", router.handler.UpdateSetting)
		r.Get("/settings/{category}", router.handler.SettingsByCategory)
	})

	// Static dashboard client, when a build exists.
	if dir := cfg.Server.StaticDir; dir != "" {
		if _, err := os.Stat(dir); err == nil {
			r.NotFound(spaHandler(dir))
		}
	}

	return r
}

// rateLimit returns the per-IP limiter for the API routes, or a no-op
// when disabled by configuration.
func (router *Router) rateLimit() func(http.Handler) http.Handler {
	sec := router.handler.cfg.Security
	if sec.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	window := sec.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return httprate.LimitByIP(sec.RateLimitRequests, window)
}

// spaHandler serves files from dir and falls back to index.html for
// client-side routes. Paths are cleaned and kept under dir.
func spaHandler(dir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Clean(strings.TrimPrefix(r.URL.Path, "/"))
		if path == "." || strings.HasPrefix(path, "..") {
			http.ServeFile(w, r, index)
			return
		}
		if _, err := os.Stat(filepath.Join(dir, path)); err != nil {
			http.ServeFile(w, r, index)
			return
		}
		fs.ServeHTTP(w, r)
	}
}
