package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"rm"},
	Short:   "Delete a creature",
	Long: `Deletes a creature from the collection. On a terminal you are asked
to confirm unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

// isTerminal reports whether stdin is interactive. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	gateway, err := recordGateway()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	if !deleteYes && isTerminal() {
		name := fmt.Sprintf("creature %d", id)
		if rec := gateway.GetByID(ctx, id); !rec.IsZero() {
			name = fmt.Sprintf("%s (id %d)", rec.Name, id)
		}
		cmd.Printf("Delete %s? [y/N]: ", name)
		if !confirm(bufio.NewReader(cmd.InOrStdin())) {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if !gateway.DeleteByID(ctx, id) {
		return fmt.Errorf("failed to delete creature %d", id)
	}
	cmd.Printf("Deleted creature %d\n", id)
	return nil
}

func confirm(reader *bufio.Reader) bool {
	answer := strings.ToLower(readLine(reader))
	return answer == "y" || answer == "yes"
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
