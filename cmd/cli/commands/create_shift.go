package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coopsaude/escala/pkg/core/model"
	"github.com/coopsaude/escala/pkg/core/scheduling"
	"github.com/coopsaude/escala/pkg/core/services"
)

// CreateShiftCmd creates the createShift command
func CreateShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createShift <patient_id> <collaborator_id> <date> <service_type>",
		Short: "Create a single shift",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := shiftInputFromArgs(cmd, args)
			if err != nil {
				return err
			}

			result, err := services.CreateShift(app.Ctx, app.Database, app.Session, app.User, app.Logger, *input)
			if err != nil {
				if errors.Is(err, scheduling.ErrDuplicateShift) {
					fmt.Printf("\n✗ Not created: %v\n", err)
					return nil
				}
				return err
			}

			shift := result.Shift
			fmt.Printf("\n✓ Shift created!\n\n")
			fmt.Printf("Shift ID:     %d\n", shift.ID)
			fmt.Printf("Date:         %s\n", shift.ServiceDate)
			fmt.Printf("Service type: %s\n", shift.ServiceType)
			if window, ok := model.ServiceType(shift.ServiceType).Window(); ok {
				next := ""
				if window.SpansNextDay {
					next = " (+1 day)"
				}
				fmt.Printf("Time window:  %s-%s%s\n", window.Start, window.End, next)
			} else if shift.TimeWindow != "" {
				fmt.Printf("Time window:  %s\n", shift.TimeWindow)
			}
			fmt.Printf("Billed:       %.2f\n", shift.AmountBilled)
			fmt.Printf("Paid:         %.2f (%s)\n\n", shift.AmountPaid, shift.PaymentMode)

			return nil
		},
	}

	addShiftFlags(cmd)

	return cmd
}

// addShiftFlags registers the flags shared by the shift creation commands
func addShiftFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("billed", 0, "Amount billed to the payer (defaults to the patient's daily rate)")
	cmd.Flags().Float64("paid", 0, "Amount paid to the collaborator (defaults to the patient's professional rate)")
	cmd.Flags().String("payment", string(model.PaymentUpfront), "Payment timing mode: AV (upfront) or AR (on receipt)")
	cmd.Flags().String("window", "", "Time window for management (GR) shifts, e.g. \"08:00-12:00\"")
}

// shiftInputFromArgs builds a ShiftInput from the positional args and shared flags
func shiftInputFromArgs(cmd *cobra.Command, args []string) (*scheduling.ShiftInput, error) {
	patientID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("patient_id must be a number: %w", err)
	}
	collaboratorID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("collaborator_id must be a number: %w", err)
	}

	serviceType, err := model.ParseServiceType(args[3])
	if err != nil {
		return nil, err
	}

	billed, _ := cmd.Flags().GetFloat64("billed")
	paid, _ := cmd.Flags().GetFloat64("paid")
	payment, _ := cmd.Flags().GetString("payment")
	window, _ := cmd.Flags().GetString("window")

	return &scheduling.ShiftInput{
		PatientID:      patientID,
		CollaboratorID: collaboratorID,
		Date:           args[2],
		ServiceType:    serviceType,
		PaymentMode:    model.PaymentMode(payment),
		AmountBilled:   billed,
		AmountPaid:     paid,
		TimeWindow:     window,
	}, nil
}
