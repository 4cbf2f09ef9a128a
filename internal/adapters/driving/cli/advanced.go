package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var advancedCmd = &cobra.Command{
	Use:   "advanced",
	Short: "Queries joining metadata and process records",
}

var activitiesByAuthorCmd = &cobra.Command{
	Use:   "activities-by-author [personID]",
	Short: "Activities on objects authored by a person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := service(cmd)
		if err != nil {
			return err
		}
		activities, err := m.GetActivitiesOnObjectsAuthoredBy(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		return outputActivities(cmd, "Activities on objects authored by "+args[0], activities)
	},
}

var objectsByPersonCmd = &cobra.Command{
	Use:   "objects-by-person [name]",
	Short: "Objects handled by a responsible person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := service(cmd)
		if err != nil {
			return err
		}
		objects, err := m.GetObjectsHandledByResponsiblePerson(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		return outputObjects(cmd, "Objects handled by "+args[0], objects)
	},
}

var objectsByInstitutionCmd = &cobra.Command{
	Use:   "objects-by-institution [name]",
	Short: "Objects handled by a responsible institution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := service(cmd)
		if err != nil {
			return err
		}
		objects, err := m.GetObjectsHandledByResponsibleInstitution(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		return outputObjects(cmd, "Objects handled by "+args[0], objects)
	},
}

var authorsAcquiredCmd = &cobra.Command{
	Use:   "authors-acquired [start] [end]",
	Short: "Authors of objects acquired within a time frame",
	Long: `Lists the authors of objects whose acquisition started on or after
start and ended on or before end. Dates are ISO dates (YYYY-MM-DD).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := service(cmd)
		if err != nil {
			return err
		}
		people, err := m.GetAuthorsOfObjectsAcquiredInTimeFrame(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		return outputPeople(cmd, fmt.Sprintf("Authors of objects acquired %s to %s", args[0], args[1]), people)
	},
}

func init() {
	advancedCmd.AddCommand(activitiesByAuthorCmd, objectsByPersonCmd, objectsByInstitutionCmd, authorsAcquiredCmd)
	rootCmd.AddCommand(advancedCmd)
}
