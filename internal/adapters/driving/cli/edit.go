package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var editFlags recordFlags

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a creature",
	Long: `Fetches a creature, applies the given flags and stores it again.
Only flags that are set change the record; --type replaces all categories.

Example:
  bestiary edit 4 --cp 12 --type Bug --type Flying`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editFlags.register(editCmd)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if !editFlags.changed(cmd) {
		return errors.New("nothing to change: pass at least one of --name, --hp, --cp, --picture, --type")
	}

	gateway, err := recordGateway()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	rec := gateway.GetByID(ctx, id)
	if rec.IsZero() {
		return fmt.Errorf("creature %d not found or unavailable", id)
	}

	editFlags.apply(cmd, &rec)
	if err := rec.Validate(); err != nil {
		return err
	}

	if !gateway.Update(ctx, rec) {
		return fmt.Errorf("failed to update creature %d", id)
	}
	cmd.Printf("Updated %s (id %d)\n", rec.Name, rec.ID)
	return nil
}
