// Package gateway is the HTTP front door: the Telegram webhook, health
// checks and the Prometheus endpoint.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/soyeahso/adaudit/internal/channel"
	"github.com/soyeahso/adaudit/internal/config"
	"github.com/soyeahso/adaudit/internal/hooks"
	"github.com/soyeahso/adaudit/internal/logging"
	"golang.org/x/time/rate"
)

// maxUpdateBytes caps a webhook body. Text updates are a few KB at most.
const maxUpdateBytes = 1 << 20

// UpdateHandler processes one authenticated Telegram webhook body.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, secret string, body []byte) error
}

// Server is the adaudit gateway HTTP server.
type Server struct {
	cfg         config.GatewayConfig
	log         *logging.Logger
	channels    *channel.Registry
	hooks       *hooks.Manager
	telegram    UpdateHandler
	gatherer    prometheus.Gatherer
	metricsPath string
	limiter     *rate.Limiter

	mu         sync.Mutex
	startedAt  time.Time
	httpServer *http.Server
	addr       string
}

// ServerOption configures the gateway server.
type ServerOption func(*Server)

// WithChannels sets the channel registry reported by /healthz.
func WithChannels(ch *channel.Registry) ServerOption {
	return func(s *Server) { s.channels = ch }
}

// WithHooks sets the hook manager for lifecycle events.
func WithHooks(hm *hooks.Manager) ServerOption {
	return func(s *Server) { s.hooks = hm }
}

// WithTelegram mounts the Telegram webhook.
func WithTelegram(h UpdateHandler) ServerOption {
	return func(s *Server) { s.telegram = h }
}

// WithMetrics exposes g on path in the Prometheus text format.
func WithMetrics(g prometheus.Gatherer, path string) ServerOption {
	return func(s *Server) {
		s.gatherer = g
		s.metricsPath = path
	}
}

// New creates a gateway server.
func New(cfg config.GatewayConfig, log *logging.Logger, opts ...ServerOption) *Server {
	s := &Server{
		cfg: cfg,
		log: log.Sub("gateway"),
	}
	if cfg.RateLimit.PerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	addr := s.cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the server on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.httpServer = srv
	s.startedAt = time.Now()
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	s.log.Info().
		Str("addr", s.addr).
		Str("bind", s.cfg.Bind).
		Bool("telegram", s.telegram != nil).
		Bool("metrics", s.gatherer != nil).
		Msg("gateway server ready")
	s.hooks.Emit(ctx, hooks.Payload{Event: hooks.EventGatewayStart})

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down gateway server")
		s.hooks.Emit(context.Background(), hooks.Payload{Event: hooks.EventGatewayStop})
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn().Err(err).Msg("gateway shutdown")
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the bound address, or "" before Serve.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *Server) uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startedAt.IsZero() {
		return 0
	}
	return time.Since(s.startedAt)
}
