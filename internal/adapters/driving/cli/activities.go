package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage/internal/core/domain"
	"github.com/custodia-labs/heritage/internal/core/ports/driving"
)

var (
	activitiesInstitution  string
	activitiesPerson       string
	activitiesTool         string
	activitiesStartedAfter string
	activitiesEndedBefore  string
	activitiesTechnique    string
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List digitisation activities",
	Long: `Lists the acquisition, processing, modelling, optimising and exporting
activities recorded by the process handlers. Only activities on objects
known to the metadata handlers are shown.

Text filters are case-insensitive substring matches. Date filters are
inclusive and compare ISO dates (YYYY-MM-DD). At most one filter may be
given.`,
	Args: cobra.NoArgs,
	RunE: runActivities,
}

func init() {
	f := activitiesCmd.Flags()
	f.StringVar(&activitiesInstitution, "institution", "", "responsible institution contains this text")
	f.StringVar(&activitiesPerson, "person", "", "responsible person contains this text")
	f.StringVar(&activitiesTool, "tool", "", "a tool contains this text")
	f.StringVar(&activitiesStartedAfter, "started-after", "", "started on or after this date")
	f.StringVar(&activitiesEndedBefore, "ended-before", "", "ended on or before this date")
	f.StringVar(&activitiesTechnique, "technique", "", "acquisition technique contains this text")
	rootCmd.AddCommand(activitiesCmd)
}

// activityQuery is one selectable activities filter.
type activityQuery struct {
	flag  string
	value string
	run   func(m driving.Mashup, ctx context.Context, value string) ([]domain.Activity, error)
}

func activityQueries() []activityQuery {
	return []activityQuery{
		{"institution", activitiesInstitution, driving.Mashup.GetActivitiesByResponsibleInstitution},
		{"person", activitiesPerson, driving.Mashup.GetActivitiesByResponsiblePerson},
		{"tool", activitiesTool, driving.Mashup.GetActivitiesUsingTool},
		{"started-after", activitiesStartedAfter, driving.Mashup.GetActivitiesStartedAfter},
		{"ended-before", activitiesEndedBefore, driving.Mashup.GetActivitiesEndedBefore},
		{"technique", activitiesTechnique, driving.Mashup.GetAcquisitionsByTechnique},
	}
}

func runActivities(cmd *cobra.Command, _ []string) error {
	var selected []activityQuery
	for _, q := range activityQueries() {
		if q.value != "" {
			selected = append(selected, q)
		}
	}
	if len(selected) > 1 {
		flags := make([]string, 0, len(selected))
		for _, q := range selected {
			flags = append(flags, "--"+q.flag)
		}
		return errors.New("only one filter may be given, got " + strings.Join(flags, ", "))
	}

	m, err := service(cmd)
	if err != nil {
		return err
	}

	var (
		activities []domain.Activity
		heading    = "Activities"
	)
	if len(selected) == 0 {
		activities, err = m.GetAllActivities(cmd.Context())
	} else {
		q := selected[0]
		heading = fmt.Sprintf("Activities (%s %s)", q.flag, q.value)
		activities, err = q.run(m, cmd.Context(), q.value)
	}
	if err != nil {
		return fmt.Errorf("listing activities failed: %w", err)
	}
	return outputActivities(cmd, heading, activities)
}
