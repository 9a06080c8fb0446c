package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
	"github.com/custodia-labs/bestiary-cli/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change settings stored in ~/.bestiary/config.toml.

Keys:
  api.endpoint       collection base URL
  api.timeout        per-request timeout, e.g. 10s
  api.token          bearer token sent with every request
  api.rate_limit     max requests per second, 0 for unlimited
  search.debounce    quiet period before a search is sent, e.g. 300ms
  search.min_length  shortest term that is searched`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting. Omit the value for api.token to type it without echo.

Example:
  bestiary config set api.endpoint http://10.0.2.2:8080/api/creatures
  bestiary config set api.token`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

// readSecret reads a value without echo when stdin is a terminal. Replaced in tests.
var readSecret = readPassword

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func settingsService() (driving.SettingsService, error) {
	svc, err := loadServices()
	if err != nil {
		return nil, err
	}
	if svc.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return svc.Settings, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settingsSvc, err := settingsService()
	if err != nil {
		return err
	}

	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	for _, key := range settingsSvc.Keys() {
		cmd.Printf("  %-18s %s\n", key, displayValue(key, settingValue(settings, key)))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	settingsSvc, err := settingsService()
	if err != nil {
		return err
	}

	key := args[0]
	if !isKnownKey(settingsSvc, key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Println(settingValue(settings, key))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	settingsSvc, err := settingsService()
	if err != nil {
		return err
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == services.KeyToken:
		cmd.Print("Token: ")
		value = readSecret(cmd)
		cmd.Println()
	default:
		return fmt.Errorf("missing value for %s", key)
	}

	if err := settingsSvc.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("%s updated\n", key)
	return nil
}

func isKnownKey(settingsSvc driving.SettingsService, key string) bool {
	for _, k := range settingsSvc.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// settingValue renders the effective value of key.
func settingValue(s *domain.AppSettings, key string) string {
	switch key {
	case services.KeyEndpoint:
		return s.API.Endpoint
	case services.KeyTimeout:
		return s.API.Timeout.String()
	case services.KeyToken:
		return s.API.Token
	case services.KeyRateLimit:
		return strconv.FormatFloat(s.API.RateLimit, 'g', -1, 64)
	case services.KeyDebounce:
		return s.Search.Debounce.String()
	case services.KeyMinTermLength:
		return strconv.Itoa(s.Search.MinTermLength)
	default:
		return ""
	}
}

func displayValue(key, value string) string {
	if key != services.KeyToken {
		return value
	}
	if value == "" {
		return "(not set)"
	}
	return maskToken(value)
}

func maskToken(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(cmd *cobra.Command) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	input, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(input)
}
