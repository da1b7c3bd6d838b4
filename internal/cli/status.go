package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/soyeahso/adaudit/internal/config"
	"github.com/soyeahso/adaudit/internal/logging"
	"github.com/soyeahso/adaudit/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show adaudit configuration and session summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "adaudit %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Fprintf(out, "Config:  %s\n", paths.Config)
			fmt.Fprintf(out, "Data:    %s\n", paths.Data)
			fmt.Fprintln(out)

			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Fprintf(out, "Config:  error loading: %v\n", err)
				return nil
			}
			if _, statErr := os.Stat(paths.Config); os.IsNotExist(statErr) {
				fmt.Fprintln(out, "Config:  not found (using defaults and environment)")
			}

			printStatus(cmd.Context(), out, cfg, logging.New(io.Discard, "silent"))
			return nil
		},
	}
}

func printStatus(ctx context.Context, out io.Writer, cfg config.Config, log *logging.Logger) {
	fmt.Fprintf(out, "Gateway: addr=%s bind=%s\n", cfg.Gateway.Addr(), cfg.Gateway.Bind)
	if cfg.Metrics.Enabled {
		fmt.Fprintf(out, "Metrics: %s\n", cfg.Metrics.Path)
	}

	if tg := cfg.Channels.Telegram; tg != nil {
		secret := "set"
		if tg.WebhookSecret == config.DefaultWebhookSecret {
			secret = "default"
		}
		fmt.Fprintf(out, "Telegram: token=%s secret=%s\n", maskToken(tg.Token), secret)
	} else {
		fmt.Fprintln(out, "Telegram: (not configured)")
	}
	if irc := cfg.Channels.IRC; irc != nil {
		fmt.Fprintf(out, "IRC:     server=%s nick=%s tls=%v\n", irc.Server, irc.Nick, irc.UseTLS)
	} else {
		fmt.Fprintln(out, "IRC:     (not configured)")
	}

	if ids := cfg.Access.AllowedUserIDs; len(ids) > 0 {
		fmt.Fprintf(out, "Access:  %s\n", strings.Join(ids, ", "))
	} else {
		fmt.Fprintln(out, "Access:  open")
	}

	fmt.Fprintf(out, "Session: store=%s ttl=%s\n", cfg.Session.Store, cfg.Session.TTL())
	if cfg.Session.Store == "sqlite" {
		printActive(ctx, out, cfg, log)
	}

	if issues := config.Validate(&cfg); len(issues) > 0 {
		fmt.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
		for _, issue := range issues {
			fmt.Fprintf(out, "  - %s: %s\n", issue.Path, issue.Message)
		}
	}
}

// printActive lists in-flight interviews by the step they are waiting on.
func printActive(ctx context.Context, out io.Writer, cfg config.Config, log *logging.Logger) {
	sessions, err := openSessions(cfg, paths, log)
	if err != nil {
		fmt.Fprintf(out, "Active:  unavailable (%v)\n", err)
		return
	}
	defer sessions.close()

	counts, err := sessions.sqlite.Active(ctx)
	if err != nil {
		fmt.Fprintf(out, "Active:  unavailable (%v)\n", err)
		return
	}
	if len(counts) == 0 {
		fmt.Fprintln(out, "Active:  none")
		return
	}
	for _, step := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(out, "Active:  %-12s %d\n", step, counts[step])
	}
}

// maskToken keeps only the bot ID part of a Telegram token.
func maskToken(token string) string {
	if id, _, ok := strings.Cut(token, ":"); ok {
		return id + ":***"
	}
	if token == "" {
		return "(empty)"
	}
	return "***"
}
