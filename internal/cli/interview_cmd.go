package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/soyeahso/adaudit/internal/config"
	"github.com/soyeahso/adaudit/internal/interview"
	"github.com/soyeahso/adaudit/internal/logging"
	"github.com/soyeahso/adaudit/internal/session"
	"github.com/spf13/cobra"
)

// consoleChannel is the channel ID console sessions are keyed under.
const consoleChannel = "console"

func newInterviewCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Run an audit interview in the terminal",
		Long: "Runs the same interview the chat channels use, reading answers from " +
			"stdin. Sessions are kept in memory and the allow-list is not applied.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			// Keep the transcript readable unless asked otherwise.
			consoleLog := logging.New(cmd.ErrOrStderr(), levelOr("warn"))

			machine := interview.New(session.NewMemoryStore(cfg.Session.MaxEntries), consoleLog,
				interview.WithTTL(cfg.Session.TTL()),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runConsole(ctx, machine, cmd.InOrStdin(), cmd.OutOrStdout(), userID)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "local", "user ID to interview as")
	return cmd
}

// runConsole feeds lines from in to the machine and prints each reply. It
// opens with the welcome prompt, as if the user had typed /start.
func runConsole(ctx context.Context, m *interview.Machine, in io.Reader, out io.Writer, userID string) error {
	turn := func(text string) error {
		reply, err := m.Handle(ctx, interview.Turn{
			ChannelID: consoleChannel,
			ChatID:    userID,
			UserID:    userID,
			Text:      text,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n\n", reply.Text)
		return nil
	}

	if err := turn(interview.ResetTokens[0]); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(out, "> %s\n", scanner.Text())
		if err := turn(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}
