package cli

import (
	"fmt"
	"strings"

	"github.com/soyeahso/adaudit/internal/channel/telegram"
	"github.com/soyeahso/adaudit/internal/config"
	"github.com/soyeahso/adaudit/internal/gateway"
	"github.com/spf13/cobra"
)

func newWebhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram webhook registration",
	}
	cmd.AddCommand(newWebhookSetCmd())
	return cmd
}

func newWebhookSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <public-url>",
		Short: "Point the Telegram bot at this gateway",
		Long: "Registers <public-url> with Telegram. A bare base URL gets " +
			gateway.WebhookPath + " appended. The configured webhook secret is sent as " +
			"Telegram's secret token.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if cfg.Channels.Telegram == nil || cfg.Channels.Telegram.Token == "" {
				return fmt.Errorf("telegram is not configured: set TELEGRAM_BOT_TOKEN")
			}

			hookURL := webhookURL(args[0])
			tg := telegram.New(*cfg.Channels.Telegram, log)
			if err := tg.SetWebhook(cmd.Context(), hookURL); err != nil {
				return fmt.Errorf("setting webhook: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Webhook set to %s\n", hookURL)
			return nil
		},
	}
}

// webhookURL appends the webhook route to a base URL that lacks it.
func webhookURL(raw string) string {
	if strings.Contains(raw, gateway.WebhookPath) {
		return raw
	}
	return strings.TrimRight(raw, "/") + gateway.WebhookPath
}
