package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driving/tui"
)

// runTUIApp starts the program. Tests replace it to avoid taking the terminal.
var runTUIApp = func(app *tui.App) error {
	return app.Run()
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Bestiary.

Browse the collection, search as you type, and add, edit or delete
creatures with keyboard navigation.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Open / Select
  Esc      - Back / Cancel
  ctrl+s   - Save a form
  ctrl+c   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = errors.New("TUI crashed")
		}
	}()

	svc, err := loadServices()
	if err != nil {
		return err
	}

	ports := tui.NewPorts(svc.Records, svc.NewSearchStream)

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	if err := runTUIApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
