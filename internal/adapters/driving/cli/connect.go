package cli

import (
	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Verify connectivity to an RSC instance",
	Long: `Connects to the RSC instance and reports the session state.

Useful as a first run: it resolves and stores the instance URL and
credentials so later report commands run unattended.

Examples:
  # Interactive first connect
  rscreport connect

  # Non-interactive with a downloaded service account file
  rscreport connect --service-account ~/Downloads/service-account.json

  # Explicit URL (pasted endpoint URLs are cleaned up)
  rscreport connect --url https://acme.my.rubrik.com/api/graphql`,
	RunE: runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, _ []string) error {
	if err := connectSession(cmd); err != nil {
		return err
	}
	cmd.Printf("Session established at %s\n", activeSession.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
