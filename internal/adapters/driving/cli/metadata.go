package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage/internal/core/domain"
)

var (
	objectsAuthoredBy string
	objectsIDs        []string
)

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "List every person known to the metadata handlers",
	Args:  cobra.NoArgs,
	RunE:  runPeople,
}

var objectsCmd = &cobra.Command{
	Use:   "objects",
	Short: "List cultural heritage objects",
	Long: `Lists the cultural heritage objects known to the metadata handlers.
Rows that disagree across handlers are merged; objects missing a
mandatory field are dropped.`,
	Args: cobra.NoArgs,
	RunE: runObjects,
}

var authorsCmd = &cobra.Command{
	Use:   "authors [objectID]",
	Short: "List the authors of an object",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthors,
}

func init() {
	objectsCmd.Flags().StringVar(&objectsAuthoredBy, "authored-by", "", "only objects authored by this person identifier")
	objectsCmd.Flags().StringSliceVar(&objectsIDs, "id", nil, "only objects with these identifiers (repeatable)")
	rootCmd.AddCommand(peopleCmd, objectsCmd, authorsCmd)
}

func runPeople(cmd *cobra.Command, _ []string) error {
	m, err := service(cmd)
	if err != nil {
		return err
	}

	people, err := m.GetAllPeople(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing people failed: %w", err)
	}
	return outputPeople(cmd, "People", people)
}

func runObjects(cmd *cobra.Command, _ []string) error {
	if objectsAuthoredBy != "" && len(objectsIDs) > 0 {
		return errors.New("--authored-by and --id cannot be combined")
	}

	m, err := service(cmd)
	if err != nil {
		return err
	}

	var (
		objects []*domain.CulturalHeritageObject
		heading = "Cultural heritage objects"
	)
	switch {
	case objectsAuthoredBy != "":
		heading = "Objects authored by " + objectsAuthoredBy
		objects, err = m.GetCulturalHeritageObjectsAuthoredBy(cmd.Context(), objectsAuthoredBy)
	case len(objectsIDs) > 0:
		objects, err = m.GetCulturalHeritageObjectsByIDs(cmd.Context(), objectsIDs)
	default:
		objects, err = m.GetAllCulturalHeritageObjects(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("listing objects failed: %w", err)
	}
	return outputObjects(cmd, heading, objects)
}

func runAuthors(cmd *cobra.Command, args []string) error {
	m, err := service(cmd)
	if err != nil {
		return err
	}

	people, err := m.GetAuthorsOfCulturalHeritageObject(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("listing authors failed: %w", err)
	}
	return outputPeople(cmd, "Authors of "+args[0], people)
}
