package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/padctl/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the settings sessions are opened with.

Keys:
  controller.kind                   pro, joycon_l or joycon_r
  controller.press_duration_ms      how long a pushed button stays pressed
  transport.output                  stdout, stderr, discard or a file path
  transport.max_reports_per_second  report rate limit, 0 for none
  shell.prompt                      text printed before each input line
  shell.color                       true or false
  shell.default_period_ms           repeat interval when none is given`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one configuration value",
	Long: `Change one configuration value and save the file.

The value is converted to the key's type and the resulting configuration
is validated before anything is written.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Restore the default of one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}

	cfg, err := store.Session()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cmd.Printf("Configuration (%s)\n", store.Path())
	values := cfg.Values()
	for _, key := range domain.ConfigKeys() {
		suffix := ""
		if _, ok := store.Get(key); !ok {
			suffix = "  (default)"
		}
		cmd.Printf("  %-34s %s%s\n", key, formatConfigValue(values[key]), suffix)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if err := checkConfigKey(key); err != nil {
		return err
	}

	store, err := openConfigStore()
	if err != nil {
		return err
	}

	if val, ok := store.Get(key); ok {
		cmd.Println(formatConfigValue(val))
		return nil
	}
	cmd.Printf("%s (default)\n", formatConfigValue(domain.DefaultSessionConfig().Values()[key]))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	store, err := openConfigStore()
	if err != nil {
		return err
	}
	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	val, _ := store.Get(key)
	cmd.Printf("%s set to %s\n", key, formatConfigValue(val))
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := args[0]

	store, err := openConfigStore()
	if err != nil {
		return err
	}
	if err := store.Unset(key); err != nil {
		return fmt.Errorf("failed to unset %s: %w", key, err)
	}

	cmd.Printf("%s restored to its default\n", key)
	return nil
}

func checkConfigKey(key string) error {
	if slices.Contains(domain.ConfigKeys(), key) {
		return nil
	}
	return fmt.Errorf("%w: unknown key %q, known keys: %s",
		domain.ErrInvalidInput, key, strings.Join(domain.ConfigKeys(), ", "))
}

// formatConfigValue quotes strings so prompts with trailing spaces stay visible.
func formatConfigValue(val any) string {
	if s, ok := val.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprint(val)
}
