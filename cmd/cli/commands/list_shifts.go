package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coopsaude/escala/pkg/db"
)

// ListShiftsCmd creates the listShifts command
func ListShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listShifts",
		Short: "List shift records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := db.ShiftFilter{}

			if raw, _ := cmd.Flags().GetString("patient"); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return fmt.Errorf("--patient must be a number: %w", err)
				}
				filter.PatientID = &id
			}
			if raw, _ := cmd.Flags().GetString("collaborator"); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return fmt.Errorf("--collaborator must be a number: %w", err)
				}
				filter.CollaboratorID = &id
			}
			filter.From, _ = cmd.Flags().GetString("from")
			filter.To, _ = cmd.Flags().GetString("to")
			filter.Limit, _ = cmd.Flags().GetInt("limit")

			shifts, err := app.Database.GetShifts(app.Ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list shifts: %w", err)
			}

			fmt.Printf("\nFound %d shifts:\n\n", len(shifts))
			for _, s := range shifts {
				window := s.TimeWindow
				if window == "" {
					window = "-"
				}
				fmt.Printf("  %5d  %s  %-2s  patient %d  collaborator %d  %s  %.2f/%.2f %s\n",
					s.ID, s.ServiceDate, s.ServiceType, s.PatientID, s.CollaboratorID,
					window, s.AmountBilled, s.AmountPaid, s.PaymentMode)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("patient", "", "Filter by patient id")
	cmd.Flags().String("collaborator", "", "Filter by collaborator id")
	cmd.Flags().String("from", "", "Earliest service date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Latest service date (YYYY-MM-DD)")
	cmd.Flags().Int("limit", 100, "Maximum number of shifts to list")

	return cmd
}
