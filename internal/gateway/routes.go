package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WebhookPath is where Telegram delivers updates.
const WebhookPath = "/telegram/webhook"

// Handler builds the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", handleRoot)
	r.Get("/healthz", s.handleHealth)

	if s.telegram != nil {
		r.With(rateLimitMiddleware(s.limiter, s.log)).Post(WebhookPath, s.handleTelegramWebhook)
		// A GET on the webhook answers like the root, for uptime probes.
		r.Get(WebhookPath, handleRoot)
	}

	if s.gatherer != nil {
		path := s.metricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.NotFound(handleNotFound)
	return r
}
