package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/educhain/records/internal/metrics"
	"github.com/educhain/records/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// verification API. It applies request logging and per-client rate
// limiting, and mounts the verification, share and metrics endpoints.
//
// Routes:
//
//	GET  /api/verify/{identifier} → verifyHandler.Verify
//	POST /api/share               → shareHandler.Share
//	GET  /api/shared              → shareHandler.Shared
//	GET  /metrics                 → Prometheus scrape endpoint
func NewRouter(
	verifyHandler *VerifyHandler,
	shareHandler *ShareHandler,
	limiter *middleware.RateLimiter,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))
	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// The verification surface is public, so limit per client address
	r.Use(limiter.Middleware())

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/verify/{identifier}", verifyHandler.Verify)
		r.Post("/share", shareHandler.Share)
		r.Get("/shared", shareHandler.Shared)
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	return r
}
