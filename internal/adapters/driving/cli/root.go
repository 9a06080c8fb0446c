// Package cli implements the bestiary command line.
package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
	"github.com/custodia-labs/bestiary-cli/internal/logger"
)

// version is set at build time via Execute.
var version = "dev"

// errServicesNotConfigured is returned when no service factory was installed.
var errServicesNotConfigured = errors.New("services not configured")

// Options carries root flag values into the service factory.
type Options struct {
	// ConfigDir overrides the config directory (default ~/.bestiary).
	ConfigDir string

	// Endpoint overrides api.endpoint for this invocation.
	Endpoint string

	// Version is the running binary's version.
	Version string
}

// Services bundles the ports commands depend on.
type Services struct {
	// Records talks to the remote collection.
	Records driving.RecordGateway

	// Settings reads and writes the config file.
	Settings driving.SettingsService

	// NewSearchStream opens an incremental search pipeline bound to ctx.
	NewSearchStream func(ctx context.Context) driving.SearchStream

	// AppSettings are the settings the services were built from.
	AppSettings domain.AppSettings
}

// ServiceFactory builds Services from root flag values.
type ServiceFactory func(opts Options) (*Services, error)

var (
	verbose          bool
	configDir        string
	endpointOverride string

	serviceFactory ServiceFactory
	servicesMu     sync.Mutex
	loaded         *Services
)

var rootCmd = &cobra.Command{
	Use:   "bestiary",
	Short: "Browse and edit a remote creature catalog",
	Long: `Bestiary is a terminal client for a creature catalog served over REST.

List, search, view, add, edit and delete creatures from the command line,
explore them in an interactive terminal UI, or expose them to AI assistants
over MCP. Run 'bestiary serve' for a local in-memory collection.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.bestiary)")
	rootCmd.PersistentFlags().StringVar(&endpointOverride, "endpoint", "", "collection endpoint, overrides api.endpoint")
}

// SetServiceFactory installs the function that wires adapters into Services.
func SetServiceFactory(f ServiceFactory) {
	servicesMu.Lock()
	defer servicesMu.Unlock()
	serviceFactory = f
	loaded = nil
}

// Execute runs the root command.
func Execute(ctx context.Context, v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.ExecuteContext(ctx)
}

// loadServices builds Services on first use.
func loadServices() (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	if loaded != nil {
		return loaded, nil
	}
	if serviceFactory == nil {
		return nil, errServicesNotConfigured
	}

	svc, err := serviceFactory(Options{
		ConfigDir: configDir,
		Endpoint:  endpointOverride,
		Version:   version,
	})
	if err != nil {
		return nil, err
	}
	loaded = svc
	return loaded, nil
}

// recordGateway returns the configured gateway.
func recordGateway() (driving.RecordGateway, error) {
	svc, err := loadServices()
	if err != nil {
		return nil, err
	}
	if svc.Records == nil {
		return nil, errors.New("record gateway not configured")
	}
	return svc.Records, nil
}

// commandContext returns the command's context, or a background one in tests.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
