package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/logger"
)

var (
	searchJSON        bool
	searchInteractive bool
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search creatures by name",
	Long: `Searches the collection for creatures whose name contains the term.

Terms shorter than search.min_length return no results without contacting
the collection.

With --interactive, terms are read from stdin one per line and fed through
the incremental search pipeline: lines arriving faster than search.debounce
are coalesced, repeated terms are not re-queried, and only the newest
search's results are printed.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if searchInteractive {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "read terms from stdin")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchInteractive {
		return runInteractiveSearch(cmd)
	}

	gateway, err := recordGateway()
	if err != nil {
		return err
	}

	results := gateway.Search(commandContext(cmd), args[0])

	if searchJSON {
		return outputJSON(cmd, results)
	}
	return outputSearchResults(cmd, results)
}

func runInteractiveSearch(cmd *cobra.Command) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}
	if svc.NewSearchStream == nil {
		return fmt.Errorf("search stream not configured")
	}

	stream := svc.NewSearchStream(commandContext(cmd))

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for res := range stream.Results() {
			logger.Debug("results for %q", res.Term)
			if searchJSON {
				_ = outputJSON(cmd, res.Records)
				continue
			}
			_ = outputSearchResults(cmd, res.Records)
		}
	}()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		stream.Submit(strings.TrimSpace(scanner.Text()))
	}
	scanErr := scanner.Err()

	// Deliver the last held term before shutting down.
	stream.Flush()
	stream.Wait()
	stream.Close()
	<-printed

	if scanErr != nil {
		return fmt.Errorf("read terms: %w", scanErr)
	}
	return nil
}

func outputSearchResults(cmd *cobra.Command, results []domain.Record) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%d):\n", len(results))
	for _, rec := range results {
		cmd.Printf("  [%d] %s (%s)\n", rec.ID, rec.Name, strings.Join(rec.Categories, ", "))
	}
	return nil
}
