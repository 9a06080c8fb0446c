package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

// recordFlags holds the field flags shared by add and edit.
type recordFlags struct {
	name    string
	hp      int
	cp      int
	picture string
	types   []string
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "creature name")
	cmd.Flags().IntVar(&f.hp, "hp", 0, "hit points")
	cmd.Flags().IntVar(&f.cp, "cp", 0, "combat points")
	cmd.Flags().StringVar(&f.picture, "picture", "", "picture URL")
	cmd.Flags().StringSliceVarP(&f.types, "type", "t", nil, "category, repeat for a second one (see 'bestiary categories')")
}

// apply copies the flags the user set onto rec.
func (f *recordFlags) apply(cmd *cobra.Command, rec *domain.Record) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		rec.Name = f.name
	}
	if flags.Changed("hp") {
		rec.HP = f.hp
	}
	if flags.Changed("cp") {
		rec.CP = f.cp
	}
	if flags.Changed("picture") {
		rec.Picture = f.picture
	}
	if flags.Changed("type") {
		rec.Categories = append([]string(nil), f.types...)
	}
}

// changed reports whether any field flag was set.
func (f *recordFlags) changed(cmd *cobra.Command) bool {
	for _, name := range []string{"name", "hp", "cp", "picture", "type"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

var addFlags recordFlags

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a creature to the collection",
	Long: `Adds a creature. A creature needs a name and one or two categories.

Example:
  bestiary add --name Vulpix --hp 30 --cp 8 --type Fire`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addFlags.register(addCmd)
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	var rec domain.Record
	addFlags.apply(cmd, &rec)
	if err := rec.Validate(); err != nil {
		return err
	}

	gateway, err := recordGateway()
	if err != nil {
		return err
	}

	created := gateway.Add(commandContext(cmd), rec)
	if created == nil {
		return fmt.Errorf("failed to add %q: collection unavailable or rejected the record", rec.Name)
	}

	cmd.Printf("Added %s with id %d\n", created.Name, created.ID)
	return nil
}
