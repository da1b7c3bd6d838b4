package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/soyeahso/adaudit/internal/channel"
	"github.com/soyeahso/adaudit/internal/channel/irc"
	"github.com/soyeahso/adaudit/internal/channel/telegram"
	"github.com/soyeahso/adaudit/internal/config"
	"github.com/soyeahso/adaudit/internal/gateway"
	"github.com/soyeahso/adaudit/internal/hooks"
	"github.com/soyeahso/adaudit/internal/interview"
	"github.com/soyeahso/adaudit/internal/logging"
	"github.com/soyeahso/adaudit/internal/metrics"
	"github.com/soyeahso/adaudit/internal/routing"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook gateway and chat channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}

			if issues := config.Validate(&cfg); len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}
			if cfg.Channels.Telegram == nil && cfg.Channels.IRC == nil {
				return fmt.Errorf("no channels configured: set TELEGRAM_BOT_TOKEN or channels.irc")
			}

			// The config file may carry its own level; the flag still wins.
			serveLog := logging.NewStyled(levelOr(cfg.Logging.Level), cfg.Logging.ConsoleStyle)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, serveLog)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override gateway port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}

// serve wires every component and blocks until ctx is cancelled.
func serve(ctx context.Context, cfg config.Config, log *logging.Logger) error {
	sessions, err := openSessions(cfg, paths, log)
	if err != nil {
		return err
	}
	defer sessions.close()

	hookMgr := hooks.NewManager(log)

	var (
		m        *metrics.Metrics
		gwOpts   []gateway.ServerOption
		registry *prometheus.Registry
	)
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m, err = metrics.New(registry)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		m.Subscribe(hookMgr)
		gwOpts = append(gwOpts, gateway.WithMetrics(registry, cfg.Metrics.Path))
	}

	machine := interview.New(sessions.store, log,
		interview.WithAllowList(cfg.Access.AllowedUserIDs),
		interview.WithTTL(cfg.Session.TTL()),
		interview.WithHooks(hookMgr),
	)
	if len(cfg.Access.AllowedUserIDs) > 0 {
		log.Info().Int("users", len(cfg.Access.AllowedUserIDs)).Msg("access restricted to allow-list")
	}

	channels := channel.NewRegistry(log)
	if cfg.Channels.Telegram != nil {
		if cfg.Channels.Telegram.WebhookSecret == config.DefaultWebhookSecret {
			log.Warn().Msg("telegram webhook uses the default secret; set WEBHOOK_SECRET")
		}
		tg := telegram.New(*cfg.Channels.Telegram, log)
		if err := channels.Register(tg); err != nil {
			return err
		}
		gwOpts = append(gwOpts, gateway.WithTelegram(tg))
	}
	if cfg.Channels.IRC != nil {
		if err := channels.Register(irc.New(*cfg.Channels.IRC, log)); err != nil {
			return err
		}
	}

	router := routing.NewRouter(channels, machine, hookMgr, m, log)
	router.Wire()

	channels.StartAll(ctx)
	defer channels.StopAll(context.Background())

	go runSweeper(ctx, cfg.Session.SweepInterval(), sessions.sweep, log.Sub("sweeper"))

	log.Info().
		Strs("channels", channels.List()).
		Str("store", sessions.kind).
		Dur("ttl", cfg.Session.TTL()).
		Msg("interview routing active")

	gwOpts = append(gwOpts, gateway.WithChannels(channels), gateway.WithHooks(hookMgr))
	srv := gateway.New(cfg.Gateway, log, gwOpts...)
	return srv.Start(ctx)
}
