package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/joshuastenhouse/rscreporting-go/internal/adapters/driven/config/file"
	credfile "github.com/joshuastenhouse/rscreporting-go/internal/adapters/driven/credstore/file"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/services"
)

var flagForget bool

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Clear the active session",
	Long: `Clears the session state. With --forget the stored credential and the
persisted instance URL are removed too, so the next connect prompts from
scratch.

Examples:
  # End the session only
  rscreport disconnect

  # Also forget the stored URL and credential
  rscreport disconnect --forget`,
	RunE: runDisconnect,
}

func init() {
	disconnectCmd.Flags().BoolVar(
		&flagForget, "forget", false, "also remove the stored credential and instance URL")
	rootCmd.AddCommand(disconnectCmd)
}

func runDisconnect(cmd *cobra.Command, _ []string) error {
	profiles, err := configfile.NewProfileStore(flagDir)
	if err != nil {
		return fmt.Errorf("opening profile store: %w", err)
	}
	creds, err := credfile.NewStore(flagDir, nil)
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}

	svc := services.NewSessionService(profiles, creds, nil, nil)
	activeSession = svc.Disconnect(cmd.Context(), activeSession, flagForget)
	activeClient = nil

	if flagForget {
		cmd.Println("Disconnected, stored credential and instance URL removed")
	} else {
		cmd.Println("Disconnected")
	}
	return nil
}
