package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// secretKeys are masked when listed.
var secretKeys = map[string]bool{
	"wiki.token": true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change curator settings stored in config.toml.

Keys:
  source.dir       extraction output directory (boxes/, page_images/)
  source.url       extraction backend URL, used when source.dir is empty
  source.annotated use annotated page images as the overlay backdrop
  overlay.dpi      DPI the page images were rendered at (default 150)
  export.dir       directory export files are written to
  export.title     document title used by exporters
  storage.backend  sqlite or memory
  storage.dir      directory holding the session database
  wiki.url         Wiki.js base URL
  wiki.token       Wiki.js API token
  wiki.path        Wiki.js page path
  wiki.locale      Wiki.js page locale
  wiki.rate        Wiki.js requests per second`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change one setting",
	Long: `Change one setting. When the value of a secret such as wiki.token is
omitted it is read from the terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		value, err := settingsService.GetValue(key)
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", key, err)
		}
		cmd.Printf("%-16s %s\n", key, displayValue(key, value))
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'curator config set source.dir <path>' to configure a page source.")
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	value, err := settingsService.GetValue(args[0])
	if err != nil {
		return err
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case secretKeys[key]:
		cmd.Printf("%s: ", key)
		value = readPassword()
		cmd.Println()
	default:
		return fmt.Errorf("missing value for %s", key)
	}

	if err := settingsService.SetValue(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s = %s\n", key, displayValue(key, value))
	return nil
}

func displayValue(key, value string) string {
	switch {
	case value == "":
		return "(not set)"
	case secretKeys[key]:
		return maskAPIKey(value)
	default:
		return value
	}
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
