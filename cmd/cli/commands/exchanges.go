package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coopsaude/escala/pkg/core/services"
	"github.com/coopsaude/escala/pkg/db"
)

// ListExchangesCmd creates the listExchanges command
func ListExchangesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listExchanges",
		Short: "List shift exchange requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pendingOnly, _ := cmd.Flags().GetBool("pending")

			result, err := services.ViewExchanges(app.Ctx, app.Database, app.User, app.Logger,
				db.ExchangeFilter{PendingOnly: pendingOnly})
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d exchanges:\n\n", len(result.Exchanges))
			for _, view := range result.Exchanges {
				exch := view.Exchange
				marker := " "
				if view.Actionable {
					marker = "*"
				}
				fmt.Printf("%s %4d  [%s]  %s (%s %s) ⇄ %s (%s %s)  patient: %s\n",
					marker, exch.ID, view.Display,
					exch.OriginCollaboratorName, exch.OriginType, exch.OriginDate,
					exch.DestinationCollaboratorName, exch.DestinationType, exch.DestinationDate,
					exch.PatientName)
			}
			fmt.Println("\n  * awaiting manager decision")
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("pending", false, "Only exchanges the manager can still act on")

	return cmd
}

// ApproveExchangeCmd creates the approveExchange command
func ApproveExchangeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approveExchange <exchange_id>",
		Short: "Approve a shift exchange and swap the two shifts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exchangeID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("exchange_id must be a number: %w", err)
			}

			result, err := services.ApproveExchange(app.Ctx, app.Database, app.User, app.Logger, exchangeID)
			if err != nil {
				var partial *services.PartialSwapError
				if errors.As(err, &partial) && result != nil {
					fmt.Printf("\n⚠️  Exchange %d approved, but the shift swap was only partially applied!\n", exchangeID)
					fmt.Printf("   Origin shift updated:      %v\n", result.OriginUpdated)
					fmt.Printf("   Destination shift updated: %v\n", result.DestinationUpdated)
					fmt.Println("   Check the data, then run the reconcile command to repair.")
					fmt.Println()
					return nil
				}
				return err
			}

			fmt.Printf("\n✓ Exchange %d approved - collaborators swapped on shifts %d and %d\n\n",
				exchangeID, result.Exchange.OriginShiftID, result.Exchange.DestinationShiftID)

			return nil
		},
	}
}

// RejectExchangeCmd creates the rejectExchange command
func RejectExchangeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rejectExchange <exchange_id>",
		Short: "Reject a shift exchange (no shift is changed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exchangeID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("exchange_id must be a number: %w", err)
			}

			result, err := services.RejectExchange(app.Ctx, app.Database, app.User, app.Logger, exchangeID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Exchange %d rejected\n\n", result.Exchange.ID)

			return nil
		},
	}
}

// ReconcileCmd creates the reconcile command
func ReconcileCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Repair partially applied exchange swaps from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.ReconcileExchanges(app.Ctx, app.Database, app.User, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Reconciliation finished\n\n")
			fmt.Printf("Journal entries scanned: %d\n", result.Scanned)
			fmt.Printf("Swaps repaired:          %d\n", result.Repaired)
			fmt.Printf("Skipped (not approved):  %d\n", result.Skipped)
			fmt.Printf("Still failing:           %d\n\n", result.Failed)

			return nil
		},
	}
}
