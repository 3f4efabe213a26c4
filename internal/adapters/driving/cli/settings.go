package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/autoscore/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the rubric, locator and GitHub settings.

Settings are stored in config.toml inside the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Parses value for key, validates the resulting settings and saves it.

List settings such as grader.scripts take comma-separated values:

  autoscore settings set grader.scripts "RotateCamera.cs, PlayerController.cs"`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

//nolint:gosec // G101: config key name, not a credential.
const tokenKey = "github.token"

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireService("settings", settingsService != nil); err != nil {
		return err
	}

	values, err := settingsService.Values()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if token, _ := values[tokenKey].(string); token != "" {
		values[tokenKey] = maskAPIKey(token)
	}

	if wantJSON(cmd) {
		return writeJSON(cmd, values)
	}

	section := ""
	for _, key := range settingsService.Keys() {
		group, name, _ := strings.Cut(key, ".")
		if group != section {
			if section != "" {
				cmd.Println()
			}
			cmd.Println(titleStyle.Render("[" + group + "]"))
			section = group
		}
		cmd.Printf("  %s = %s\n", name, formatValue(values[key]))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := requireService("settings", settingsService != nil); err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrUnknownSetting) {
			return fmt.Errorf("%w\nknown keys: %s", err, strings.Join(settingsService.Keys(), ", "))
		}
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if strings.TrimSpace(key) == tokenKey {
		shown = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", strings.TrimSpace(key), shown)
	return nil
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return "(not set)"
		}
		return fmt.Sprintf("%q", t)
	case []string:
		return "[" + strings.Join(t, ", ") + "]"
	default:
		return fmt.Sprint(t)
	}
}

// maskAPIKey masks an API key for display.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
