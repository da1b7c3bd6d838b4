// Package cli implements the adaudit command line.
package cli

import (
	"github.com/soyeahso/adaudit/internal/config"
	"github.com/soyeahso/adaudit/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths config.Paths
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adaudit",
		Short: "adaudit: conversational ad campaign auditor",
		Long: "adaudit interviews advertisers over chat about a campaign's numbers " +
			"and answers with a diagnosis and the next action to take.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			if err := config.LoadDotEnv(paths.EnvFile, ".env"); err != nil {
				return err
			}
			log = logging.New(nil, levelOr("info"))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.adaudit/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newInterviewCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newWebhookCmd())

	return cmd
}

// levelOr returns the --log-level flag, or fallback when it is unset.
func levelOr(fallback string) string {
	if logLevel != "" {
		return logLevel
	}
	return fallback
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
