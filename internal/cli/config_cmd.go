package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/soyeahso/adaudit/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the adaudit config file",
	}

	cmd.AddCommand(
		newConfigGetCmd(),
		newConfigSetCmd(),
		newConfigUnsetCmd(),
		newConfigPathCmd(),
		newConfigValidateCmd(),
	)
	return cmd
}

// loadKey parses a dotted key and loads the raw config it addresses.
func loadKey(key string) ([]string, map[string]any, error) {
	path, err := config.ParseConfigPath(key)
	if err != nil {
		return nil, nil, err
	}
	raw, err := config.LoadRaw(paths.Config)
	if err != nil {
		return nil, nil, err
	}
	return path, raw, nil
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Print a value, e.g. session.ttlHours",
		Args:    cobra.ExactArgs(1),
		Example: "  adaudit config get channels.telegram",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, raw, err := loadKey(args[0])
			if err != nil {
				return err
			}
			val, ok := config.GetValueAtPath(raw, path)
			if !ok {
				return fmt.Errorf("key %q not found", args[0])
			}
			return printValue(cmd.OutOrStdout(), val)
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Set a value and save the file",
		Args:    cobra.ExactArgs(2),
		Example: "  adaudit config set session.store sqlite",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, raw, err := loadKey(args[0])
			if err != nil {
				return err
			}
			value := parseValue(args[1])
			config.SetValueAtPath(raw, path, value)
			if err := paths.EnsureDirs(); err != nil {
				return err
			}
			if err := config.SaveRaw(paths.Config, raw); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s = %v\n", args[0], value)
			warnIssues(out)
			return nil
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a value so its default applies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, raw, err := loadKey(args[0])
			if err != nil {
				return err
			}
			if !config.UnsetValueAtPath(raw, path) {
				return fmt.Errorf("key %q not found", args[0])
			}
			if err := config.SaveRaw(paths.Config, raw); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s removed\n", args[0])
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), paths.Config)
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config file and environment for problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			issues := config.Validate(&cfg)
			for _, issue := range issues {
				fmt.Fprintln(cmd.OutOrStdout(), issue)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d issue(s) found", len(issues))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config OK")
			return nil
		},
	}
}

// warnIssues reports validation problems after an edit without failing it,
// so a multi-step change can pass through an invalid state.
func warnIssues(out io.Writer) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		fmt.Fprintf(out, "warning: %v\n", err)
		return
	}
	for _, issue := range config.Validate(&cfg) {
		fmt.Fprintf(out, "warning: %s\n", issue)
	}
}

// printValue writes scalars bare and maps or lists as YAML.
func printValue(out io.Writer, v any) error {
	switch v.(type) {
	case map[string]any, []any:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(out, v)
		return err
	}
}

// parseValue types a command-line value as bool, int, float or string.
func parseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
