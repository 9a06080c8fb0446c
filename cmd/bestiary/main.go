// Command bestiary is a terminal client for a remote creature catalog.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driven/rest"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
	"github.com/custodia-labs/bestiary-cli/internal/core/services"
	"github.com/custodia-labs/bestiary-cli/internal/logger"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetServiceFactory(newServices)
	if err := cli.Execute(ctx, version); err != nil {
		stop()
		os.Exit(1)
	}
}

// newServices wires the config file, REST transport and core services.
func newServices(opts cli.Options) (*cli.Services, error) {
	logger.Section("Services")

	var store driven.ConfigStore
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		logger.Warn("config unavailable, settings will not persist: %v", err)
		store = memory.NewConfigStore()
	}
	settingsSvc := services.NewSettingsService(store)

	settings, err := settingsSvc.Get()
	if err != nil {
		logger.Warn("invalid settings, using defaults: %v", err)
		defaults := domain.DefaultAppSettings()
		settings = &defaults
	}
	if opts.Endpoint != "" {
		settings.API.Endpoint = opts.Endpoint
	}

	cfg := rest.ConfigFromSettings(settings.API)
	cfg.UserAgent = "bestiary-cli/" + opts.Version
	client, err := rest.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	logger.Debug("collection endpoint: %s", client.BaseURL())

	gateway := services.NewRecordGateway(client)
	gateway.SetMinTermLength(settings.Search.MinTermLength)

	search := settings.Search
	return &cli.Services{
		Records:  gateway,
		Settings: settingsSvc,
		NewSearchStream: func(ctx context.Context) driving.SearchStream {
			return services.NewQueryStream(ctx, gateway, services.QueryStreamConfig{
				Debounce:      search.Debounce,
				MinTermLength: search.MinTermLength,
			})
		},
		AppSettings: *settings,
	}, nil
}
