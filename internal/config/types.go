package config

// Config is the root adaudit configuration.
type Config struct {
	Gateway  GatewayConfig  `yaml:"gateway,omitempty"`
	Channels ChannelsConfig `yaml:"channels,omitempty"`
	Access   AccessConfig   `yaml:"access,omitempty"`
	Session  SessionConfig  `yaml:"session,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Metrics  MetricsConfig  `yaml:"metrics,omitempty"`
}

// GatewayConfig controls the HTTP server that receives webhooks.
type GatewayConfig struct {
	Port           int             `yaml:"port,omitempty"`
	Bind           string          `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string          `yaml:"customBindHost,omitempty"`
	RateLimit      RateLimitConfig `yaml:"rateLimit,omitempty"`
}

// RateLimitConfig throttles inbound webhook calls. A zero rate disables it.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"perSecond,omitempty"`
	Burst     int     `yaml:"burst,omitempty"`
}

// ChannelsConfig enables chat transports. A nil entry means disabled.
type ChannelsConfig struct {
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`
	IRC      *IRCConfig      `yaml:"irc,omitempty"`
}

// TelegramConfig holds the bot credentials and webhook secret.
type TelegramConfig struct {
	Token         string `yaml:"token"`
	WebhookSecret string `yaml:"webhookSecret,omitempty"`
	APIBase       string `yaml:"apiBase,omitempty"` // defaults to https://api.telegram.org
}

// IRCConfig defines IRC channel settings. Only private messages to the
// bot's nick are treated as interview turns. IRC senders are matched against
// access.allowedUserIds by services account, or by ident@host on networks
// without account-tag.
type IRCConfig struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port,omitempty"`
	Nick     string `yaml:"nick"`
	Password string `yaml:"password,omitempty"`
	UseTLS   bool   `yaml:"useTLS,omitempty"`
	SASL     bool   `yaml:"sasl,omitempty"`
}

// AccessConfig restricts who may run an interview. Empty means everyone.
type AccessConfig struct {
	AllowedUserIDs []string `yaml:"allowedUserIds,omitempty"`
}

// SessionConfig selects and tunes the session store.
type SessionConfig struct {
	Store        string `yaml:"store,omitempty"` // "memory" | "sqlite"
	Path         string `yaml:"path,omitempty"`  // sqlite file; defaults under the data dir
	TTLHours     int    `yaml:"ttlHours,omitempty"`
	MaxEntries   int    `yaml:"maxEntries,omitempty"`
	KeyPrefix    string `yaml:"keyPrefix,omitempty"`
	SweepMinutes int    `yaml:"sweepMinutes,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "compact" | "json"
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}
