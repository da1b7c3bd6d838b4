package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue
	add := func(path, format string, args ...any) {
		issues = append(issues, ValidationIssue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	// Gateway
	if cfg.Gateway.Port < 0 || cfg.Gateway.Port > 65535 {
		add("gateway.port", "port must be 0-65535, got %d", cfg.Gateway.Port)
	}
	validBinds := []string{"loopback", "lan", "custom"}
	if cfg.Gateway.Bind != "" && !slices.Contains(validBinds, cfg.Gateway.Bind) {
		add("gateway.bind", "must be one of %v, got %q", validBinds, cfg.Gateway.Bind)
	}
	if cfg.Gateway.Bind == "custom" && cfg.Gateway.CustomBindHost == "" {
		add("gateway.customBindHost", "required when bind is custom")
	}
	if cfg.Gateway.RateLimit.PerSecond < 0 {
		add("gateway.rateLimit.perSecond", "must not be negative")
	}
	if cfg.Gateway.RateLimit.PerSecond > 0 && cfg.Gateway.RateLimit.Burst < 1 {
		add("gateway.rateLimit.burst", "must be at least 1 when a rate is set")
	}

	// Logging
	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		add("logging.level", "must be one of %v, got %q", validLogLevels, cfg.Logging.Level)
	}
	validConsoleStyles := []string{"pretty", "compact", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		add("logging.consoleStyle", "must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle)
	}

	// Session
	validStores := []string{"memory", "sqlite"}
	if !slices.Contains(validStores, cfg.Session.Store) {
		add("session.store", "must be one of %v, got %q", validStores, cfg.Session.Store)
	}
	if cfg.Session.TTLHours < 0 {
		add("session.ttlHours", "must not be negative")
	}
	if cfg.Session.MaxEntries < 0 {
		add("session.maxEntries", "must not be negative")
	}
	if cfg.Session.SweepMinutes < 0 {
		add("session.sweepMinutes", "must not be negative")
	}

	// Metrics
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		add("metrics.path", "must start with /, got %q", cfg.Metrics.Path)
	}

	// Telegram (only if configured)
	if tg := cfg.Channels.Telegram; tg != nil {
		if tg.Token == "" {
			add("channels.telegram.token", "bot token is required")
		}
		if tg.WebhookSecret == "" {
			add("channels.telegram.webhookSecret", "webhook secret is required")
		}
		if tg.APIBase != "" && !strings.HasPrefix(tg.APIBase, "http") {
			add("channels.telegram.apiBase", "must be an http(s) URL, got %q", tg.APIBase)
		}
	}

	// IRC (only if configured)
	if irc := cfg.Channels.IRC; irc != nil {
		if irc.Server == "" {
			add("channels.irc.server", "server is required")
		}
		if irc.Nick == "" {
			add("channels.irc.nick", "nick is required")
		}
		if irc.Port < 0 || irc.Port > 65535 {
			add("channels.irc.port", "port must be 0-65535, got %d", irc.Port)
		}
		if irc.SASL && irc.Password == "" {
			add("channels.irc.sasl", "SASL requires a password to be set")
		}
	}

	// Access
	for i, id := range cfg.Access.AllowedUserIDs {
		if strings.TrimSpace(id) == "" {
			add(fmt.Sprintf("access.allowedUserIds[%d]", i), "empty user id")
		}
	}

	return issues
}
