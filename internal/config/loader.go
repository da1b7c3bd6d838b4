package config

import (
	"errors"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields lets tokens and passwords be written as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	if tg := cfg.Channels.Telegram; tg != nil {
		tg.Token = expandEnvVars(tg.Token)
		tg.WebhookSecret = expandEnvVars(tg.WebhookSecret)
	}
	if irc := cfg.Channels.IRC; irc != nil {
		irc.Password = expandEnvVars(irc.Password)
	}
}

// LoadDotEnv loads KEY=value files into the process environment. Variables
// that are already set win, and missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return &ConfigError{Message: "failed to load " + f + ": " + err.Error()}
		}
	}
	return nil
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
		}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	if tg := cfg.Channels.Telegram; tg != nil && tg.WebhookSecret == "" {
		tg.WebhookSecret = DefaultWebhookSecret
	}
	return cfg, nil
}

// LoadRaw reads the config file into a generic map for path-based access.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// SaveRaw writes a generic map back to a YAML config file.
func SaveRaw(path string, raw map[string]any) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// applyDefaults fills zero-value fields a partial file left empty.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = def.Gateway.Port
	}
	if cfg.Gateway.Bind == "" {
		cfg.Gateway.Bind = def.Gateway.Bind
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.ConsoleStyle == "" {
		cfg.Logging.ConsoleStyle = def.Logging.ConsoleStyle
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = def.Session.Store
	}
	if cfg.Session.TTLHours == 0 {
		cfg.Session.TTLHours = def.Session.TTLHours
	}
	if cfg.Session.MaxEntries == 0 {
		cfg.Session.MaxEntries = def.Session.MaxEntries
	}
	if cfg.Session.SweepMinutes == 0 {
		cfg.Session.SweepMinutes = def.Session.SweepMinutes
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = def.Metrics.Path
	}
}

// applyEnvOverrides reads ADAUDIT_* variables, plus the bot's historical
// TELEGRAM_BOT_TOKEN, WEBHOOK_SECRET and ALLOWED_USER_IDS.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ADAUDIT_GATEWAY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.Port = port
		}
	}
	if v := os.Getenv("ADAUDIT_GATEWAY_BIND"); v != "" {
		cfg.Gateway.Bind = v
	}
	if v := os.Getenv("ADAUDIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("ADAUDIT_SESSION_STORE"); v != "" {
		cfg.Session.Store = strings.ToLower(v)
	}

	token := firstEnv("ADAUDIT_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")
	secret := firstEnv("ADAUDIT_WEBHOOK_SECRET", "WEBHOOK_SECRET")
	if token != "" || secret != "" {
		if cfg.Channels.Telegram == nil {
			cfg.Channels.Telegram = &TelegramConfig{}
		}
		if token != "" {
			cfg.Channels.Telegram.Token = token
		}
		if secret != "" {
			cfg.Channels.Telegram.WebhookSecret = secret
		}
	}

	if v := firstEnv("ADAUDIT_ALLOWED_USER_IDS", "ALLOWED_USER_IDS"); v != "" {
		cfg.Access.AllowedUserIDs = SplitIDs(v)
	}
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// SplitIDs parses a comma separated ID list, dropping blanks.
func SplitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
