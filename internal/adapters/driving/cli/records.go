package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

var (
	listJSON bool
	getJSON  bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List every creature in the collection",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one creature",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output records as JSON")
	getCmd.Flags().BoolVar(&getJSON, "json", false, "output the record as JSON")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	gateway, err := recordGateway()
	if err != nil {
		return err
	}

	records := gateway.ListAll(commandContext(cmd))

	if listJSON {
		return outputJSON(cmd, records)
	}
	if len(records) == 0 {
		cmd.Println("No creatures found. Is the collection reachable? Run with --verbose for details.")
		return nil
	}
	outputRecordTable(cmd, records)
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	gateway, err := recordGateway()
	if err != nil {
		return err
	}

	rec := gateway.GetByID(commandContext(cmd), id)
	if rec.IsZero() {
		return fmt.Errorf("creature %d not found or unavailable", id)
	}

	if getJSON {
		return outputJSON(cmd, rec)
	}
	outputRecordCard(cmd, rec)
	return nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer, got %q", domain.ErrInvalidInput, arg)
	}
	return id, nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRecordTable(cmd *cobra.Command, records []domain.Record) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "HP", "CP", "TYPES")
	for _, rec := range records {
		t.Row(
			strconv.Itoa(rec.ID),
			rec.Name,
			strconv.Itoa(rec.HP),
			strconv.Itoa(rec.CP),
			strings.Join(rec.Categories, ", "),
		)
	}
	cmd.Println(t.String())
	cmd.Printf("%d creature(s)\n", len(records))
}

func outputRecordCard(cmd *cobra.Command, rec domain.Record) {
	cmd.Printf("#%d %s\n", rec.ID, rec.Name)
	cmd.Printf("  HP:      %d\n", rec.HP)
	cmd.Printf("  CP:      %d\n", rec.CP)
	cmd.Printf("  Types:   %s\n", strings.Join(rec.Categories, ", "))
	if rec.Picture != "" {
		cmd.Printf("  Picture: %s\n", rec.Picture)
	}
	if !rec.Created.IsZero() {
		cmd.Printf("  Created: %s\n", rec.Created.Format("2006-01-02"))
	}
}
