package cli

import (
	"github.com/spf13/cobra"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/services"
)

var threatHuntDetail bool

var threatHuntCmd = &cobra.Command{
	Use:   "threathunt [hunt-id]",
	Short: "Summarize the results of a threat hunt",
	Long: `Fetches one threat hunt result and rolls it up into per-object and
per-snapshot summaries plus a single hunt total. With --detail every
individual indicator match is listed as well.

Examples:
  rscreport threathunt 01234567-89ab-cdef-0123-456789abcdef
  rscreport threathunt 01234567-89ab-cdef-0123-456789abcdef --detail`,
	Args: cobra.ExactArgs(1),
	RunE: runThreatHunt,
}

func init() {
	threatHuntCmd.Flags().BoolVar(&threatHuntDetail, "detail", false, "list every indicator match")
	rootCmd.AddCommand(threatHuntCmd)
}

func runThreatHunt(cmd *cobra.Command, args []string) error {
	if err := connectSession(cmd); err != nil {
		return err
	}

	svc := services.NewThreatHuntService(activeClient)
	result, err := svc.Fetch(cmd.Context(), activeSession, args[0])
	if err != nil {
		return err
	}

	rollup := services.RollUp(result)
	s := rollup.Summary
	cmd.Printf("Hunt %s (%s) status %s\n", s.HuntID, s.Name, s.Status)
	cmd.Printf("  Objects:   %d scanned, %d with matches\n", s.ObjectCount, s.ObjectsWithMatches)
	cmd.Printf("  Snapshots: %d scanned, %d with matches\n", s.SnapshotCount, s.SnapshotsWithMatches)
	cmd.Printf("  Matches:   %d across %d scanned files\n", s.MatchCount, s.ScannedFileCount)

	for _, obj := range rollup.Objects {
		cmd.Printf("  %s (%s): %d/%d snapshots with matches, %d matches\n",
			obj.ObjectName, obj.ObjectType, obj.SnapshotsWithMatches, obj.SnapshotsScanned, obj.MatchCount)
	}

	if threatHuntDetail {
		for _, m := range rollup.Matches {
			cmd.Printf("    match %s  %s  %s\n", m.RuleName, m.SnapshotFID, m.FilePath)
		}
	}
	return nil
}
