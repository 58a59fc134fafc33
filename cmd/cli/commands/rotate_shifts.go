package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/core/scheduling"
	"github.com/coopsaude/escala/pkg/core/services"
)

// RotateShiftsCmd creates the rotateShifts command
func RotateShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotateShifts <patient_id> <service_type> <start> <end>",
		Short: "Cycle collaborators across a date range for fairness",
		Long: `Generate rotated shifts across a contiguous date range. Service type P
assigns one collaborator per day in round-robin order; SD/SN creates a
day/night pair per day with alternating labels. With --stage the plan is
only staged in the session (re-running replaces overlapping dates);
without it the whole staged plan is persisted.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			patientID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("patient_id must be a number: %w", err)
			}
			serviceType, err := model.ParseServiceType(args[1])
			if err != nil {
				return err
			}

			collaboratorsFlag, _ := cmd.Flags().GetString("collaborators")
			if collaboratorsFlag == "" {
				return fmt.Errorf("--collaborators is required")
			}
			var collaborators []model.Collaborator
			for _, raw := range strings.Split(collaboratorsFlag, ",") {
				id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
				if err != nil {
					return fmt.Errorf("collaborator id %q must be a number: %w", raw, err)
				}
				collaborators = append(collaborators, model.Collaborator{ID: id})
			}

			stageOnly, _ := cmd.Flags().GetBool("stage")
			billed, _ := cmd.Flags().GetFloat64("billed")
			paid, _ := cmd.Flags().GetFloat64("paid")
			payment, _ := cmd.Flags().GetString("payment")

			input := scheduling.RotationInput{
				PatientID:     patientID,
				Collaborators: collaborators,
				ServiceType:   serviceType,
				Start:         args[2],
				End:           args[3],
				PaymentMode:   model.PaymentMode(payment),
				AmountBilled:  billed,
				AmountPaid:    paid,
			}

			result, err := services.RotateShifts(app.Ctx, app.Database, app.Session, app.User, app.Logger, input, stageOnly)
			if err != nil {
				return err
			}

			if result.StagedOnly {
				fmt.Printf("\n✓ Rotation staged (%d shifts) - run again without --stage to persist\n\n", len(result.Staged))
				for _, shift := range result.Staged {
					fmt.Printf("  %s  %s  collaborator %d\n", shift.ServiceDate, shift.ServiceType, shift.CollaboratorID)
				}
				fmt.Println()
				return nil
			}

			fmt.Printf("\n✓ Rotation committed: %d created, %d failed\n\n", len(result.Inserted), len(result.Failed))
			for _, failed := range result.Failed {
				fmt.Printf("  ✗ %s (%s): %s\n", failed.Shift.ServiceDate, failed.Shift.ServiceType, failed.Reason)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("collaborators", "", "Comma-separated collaborator ids in rotation order (required)")
	cmd.Flags().Bool("stage", false, "Stage the rotation in the session without persisting")
	cmd.Flags().Float64("billed", 0, "Amount billed per day (defaults to the patient's daily rate)")
	cmd.Flags().Float64("paid", 0, "Amount paid per day (defaults to the patient's professional rate)")
	cmd.Flags().String("payment", string(model.PaymentUpfront), "Payment timing mode: AV or AR")

	return cmd
}
