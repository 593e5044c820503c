package cli

import (
	"github.com/spf13/cobra"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/services"
)

var (
	complianceDays   int
	complianceHour   int
	complianceMinute int
)

var complianceCmd = &cobra.Command{
	Use:   "compliance [object-id]",
	Short: "Report daily backup compliance windows for an object",
	Long: `Computes one backup window per day for the object's snapshot list.

Windows end at a fixed clock time (default 20:00 local) rather than
midnight, so an early-morning backup is credited against the window it
actually belongs to.

Examples:
  rscreport compliance 01234567-89ab-cdef-0123-456789abcdef
  rscreport compliance 01234567-89ab-cdef-0123-456789abcdef --days 30 --hour 22`,
	Args: cobra.ExactArgs(1),
	RunE: runCompliance,
}

func init() {
	complianceCmd.Flags().IntVar(&complianceDays, "days", services.DefaultComplianceDays, "number of daily windows to report")
	complianceCmd.Flags().IntVar(&complianceHour, "hour", services.DefaultBackupWindowHour, "hour the backup window ends at")
	complianceCmd.Flags().IntVar(&complianceMinute, "minute", 0, "minute the backup window ends at")
	rootCmd.AddCommand(complianceCmd)
}

func runCompliance(cmd *cobra.Command, args []string) error {
	if err := connectSession(cmd); err != nil {
		return err
	}

	svc := services.NewComplianceService(activeClient)
	windows, err := svc.Windows(cmd.Context(), activeSession, services.ComplianceOptions{
		ObjectID:     args[0],
		Days:         complianceDays,
		AnchorHour:   complianceHour,
		AnchorMinute: complianceMinute,
	})
	if err != nil {
		return err
	}

	for _, w := range windows {
		status := "MISSING"
		if w.BackupFound {
			status = "OK"
		}
		cmd.Printf("Day %2d  %s - %s  %s\n",
			w.DayIndex,
			w.RangeEnd.Format("2006-01-02 15:04"),
			w.RangeStart.Format("2006-01-02 15:04"),
			status)
	}
	return nil
}
