package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coopsaude/escala/pkg/core/services"
)

// CreateBatchCmd creates the createBatch command
func CreateBatchCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createBatch <patient_id> <collaborator_id> <service_type>",
		Short: "Create one shift per date, best-effort",
		Long: `Create one shift per date for the same patient, collaborator and service type.
Dates come either from --dates (comma-separated) or from a named schedule
rule in the config expanded with --rule and --count. Dates that fail
validation or the duplicate check are skipped and reported; the rest are
still created.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := shiftInputFromArgs(cmd, []string{args[0], args[1], "", args[2]})
			if err != nil {
				return err
			}

			datesFlag, _ := cmd.Flags().GetString("dates")
			ruleName, _ := cmd.Flags().GetString("rule")
			startDate, _ := cmd.Flags().GetString("start")
			count, _ := cmd.Flags().GetInt("count")

			var dates []string
			switch {
			case datesFlag != "":
				for _, d := range strings.Split(datesFlag, ",") {
					dates = append(dates, strings.TrimSpace(d))
				}
			case ruleName != "":
				rule, found := app.Cfg.FindScheduleRule(ruleName)
				if !found {
					return fmt.Errorf("schedule rule %q is not configured", ruleName)
				}
				dates, err = services.ExpandRecurrence(rule.RRule, startDate, count)
				if err != nil {
					return fmt.Errorf("failed to expand schedule rule %q: %w", ruleName, err)
				}
			default:
				return fmt.Errorf("either --dates or --rule must be given")
			}

			result, err := services.CreateShiftBatch(app.Ctx, app.Database, app.Session, app.User, app.Logger, *input, dates)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Batch finished: %d created, %d skipped\n\n", len(result.Created), len(result.Skipped))
			for _, shift := range result.Created {
				fmt.Printf("  ✓ %s (shift %d)\n", shift.ServiceDate, shift.ID)
			}
			for _, skipped := range result.Skipped {
				fmt.Printf("  ✗ %s: %s\n", skipped.Date, skipped.Reason)
			}
			fmt.Println()

			return nil
		},
	}

	addShiftFlags(cmd)
	cmd.Flags().String("dates", "", "Comma-separated service dates (YYYY-MM-DD)")
	cmd.Flags().String("rule", "", "Named schedule rule from the config to expand into dates")
	cmd.Flags().String("start", "", "Start date for --rule expansion (YYYY-MM-DD)")
	cmd.Flags().Int("count", 0, "Number of dates to expand with --rule")

	return cmd
}
