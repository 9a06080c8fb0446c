package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driven/dataset"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/api"
	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/logger"
)

var (
	serveAddr  string
	serveData  string
	serveDB    string
	serveDelay time.Duration
	serveToken string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local creature collection",
	Long: `Starts an HTTP server exposing a creature collection at /api/creatures,
seeded with twelve creatures unless --data names a JSON or YAML file. The
dataset file is reloaded whenever it changes.

The collection lives in memory and edits are lost when the server stops.
With --db it is kept in a SQLite file instead: an empty database is seeded
on first start, and --data replaces its contents.

Use --delay to slow every response, which makes the search debounce and
stale result handling easy to observe from 'bestiary tui'.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "listen address")
	serveCmd.Flags().StringVar(&serveData, "data", "", "dataset file (.json, .yaml, .yml)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "persist the collection in this SQLite file")
	serveCmd.Flags().DurationVar(&serveDelay, "delay", 0, "artificial latency per request")
	serveCmd.Flags().StringVar(&serveToken, "token", "", "require this bearer token")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "reload --data when the file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	seed := memory.SeedRecords()
	if serveData != "" {
		loaded, err := dataset.Load(serveData)
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		seed = loaded
	}

	var (
		store  api.RecordStore
		reload dataset.ReloadFunc
	)
	if serveDB != "" {
		db, err := openSQLiteCollection(ctx, seed)
		if err != nil {
			return err
		}
		defer db.Close()
		store = db
		reload = func(records []domain.Record) {
			if err := db.Replace(ctx, records); err != nil {
				logger.Error("dataset reload failed: %v", err)
			}
		}
	} else {
		mem := memory.NewRecordStore(seed)
		store, reload = mem, mem.Replace
	}

	if serveData != "" && serveWatch {
		watcher := dataset.NewWatcher(serveData, reload)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("dataset watcher stopped: %v", err)
			}
		}()
	}

	records, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("read collection: %w", err)
	}

	handler := api.NewHandler(store, api.Options{
		Delay: serveDelay,
		Token: serveToken,
	})

	server := api.NewServer(serveAddr, handler)
	return server.Run(ctx, func(addr string) {
		cmd.Printf("Serving %d creatures at http://%s%s\n", len(records), addr, handler.Prefix())
		cmd.Println("Press Ctrl+C to stop.")
	})
}

// openSQLiteCollection opens --db, seeding it when empty or replacing it when --data is set.
func openSQLiteCollection(ctx context.Context, seed []domain.Record) (*sqlite.Store, error) {
	db, err := sqlite.NewStore(serveDB)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if serveData != "" {
		err = db.Replace(ctx, seed)
	} else {
		err = db.SeedIfEmpty(ctx, seed)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("seed database: %w", err)
	}
	logger.Debug("collection stored in %s", db.Path())
	return db, nil
}
