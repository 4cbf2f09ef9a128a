package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var entityCmd = &cobra.Command{
	Use:   "entity [id]",
	Short: "Look up an object or person by identifier",
	Long: `Looks up an identifier in every metadata handler.
Objects take precedence: a person is only returned when no handler
knows an object with the identifier.`,
	Args: cobra.ExactArgs(1),
	RunE: runEntity,
}

func init() {
	rootCmd.AddCommand(entityCmd)
}

func runEntity(cmd *cobra.Command, args []string) error {
	m, err := service(cmd)
	if err != nil {
		return err
	}

	e, err := m.GetEntityByID(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("entity lookup failed: %w", err)
	}
	return outputEntity(cmd, args[0], e)
}
