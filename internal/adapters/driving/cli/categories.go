package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories a creature can carry",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, c := range domain.Categories() {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(domain.CategoryColor(c))).Render("■")
			cmd.Printf("  %s %-9s %s\n", swatch, c, domain.CategoryColor(c))
		}
		cmd.Printf("\nA creature has %d to %d categories.\n", domain.MinCategories, domain.MaxCategories)
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
