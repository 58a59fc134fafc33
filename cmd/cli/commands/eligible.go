package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coopsaude/escala/pkg/core/eligibility"
	"github.com/coopsaude/escala/pkg/core/services"
)

// EligibleCmd creates the eligible command
func EligibleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eligible <patient_id>",
		Short: "List the collaborators eligible for a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patientID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("patient_id must be a number: %w", err)
			}

			neighborhood, _ := cmd.Flags().GetBool("neighborhood")
			date, _ := cmd.Flags().GetString("date")

			result, err := services.ResolveEligible(app.Ctx, app.Database, app.User, app.Logger,
				patientID, eligibility.Options{
					ApplyNeighborhoodFilter: neighborhood,
					Date:                    date,
				})
			if err != nil {
				return err
			}

			if result.NeighborhoodFilterSkipped {
				fmt.Println("⚠️  Neighborhood lookup failed - showing city-level results only")
			}
			if result.NoSpecialtyMatch {
				fmt.Println("\nNo collaborator covers the specialties this patient requires.")
				return nil
			}
			if result.NoAvailabilityForDate {
				fmt.Printf("\nNo collaborator is marked available on %s.\n", date)
				return nil
			}

			fmt.Printf("\nFound %d eligible collaborators:\n\n", len(result.Collaborators))
			for _, c := range result.Collaborators {
				fmt.Printf("  %4d  %s (%s)\n", c.ID, c.Name, c.City)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("neighborhood", false, "Restrict to collaborators registered in the patient's neighborhood")
	cmd.Flags().String("date", "", "Restrict to collaborators available on this date (YYYY-MM-DD)")

	return cmd
}
