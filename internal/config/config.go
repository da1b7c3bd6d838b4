package config

import (
	"fmt"
	"time"
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// DefaultWebhookSecret is the webhook secret used when Telegram is enabled
// without one. Deployments should set WEBHOOK_SECRET.
const DefaultWebhookSecret = "dev-secret"

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Gateway: GatewayConfig{
			Port: 3000,
			Bind: "loopback",
			RateLimit: RateLimitConfig{
				PerSecond: 20,
				Burst:     40,
			},
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
		Session: SessionConfig{
			Store:        "memory",
			TTLHours:     6,
			MaxEntries:   10000,
			KeyPrefix:    "sessao:",
			SweepMinutes: 10,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// TTL returns the session lifetime.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

// SweepInterval returns how often expired sessions are purged.
func (s SessionConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepMinutes) * time.Minute
}

// Addr returns the listen address for the gateway.
func (g GatewayConfig) Addr() string {
	host := "127.0.0.1"
	switch g.Bind {
	case "lan":
		host = "0.0.0.0"
	case "custom":
		host = g.CustomBindHost
	}
	return fmt.Sprintf("%s:%d", host, g.Port)
}
