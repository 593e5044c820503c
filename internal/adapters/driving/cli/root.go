// Package cli implements the rscreport command line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/joshuastenhouse/rscreporting-go/internal/adapters/driven/config/file"
	credfile "github.com/joshuastenhouse/rscreporting-go/internal/adapters/driven/credstore/file"
	"github.com/joshuastenhouse/rscreporting-go/internal/adapters/driven/prompt"
	"github.com/joshuastenhouse/rscreporting-go/internal/connectors/rsc"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/domain"
	"github.com/joshuastenhouse/rscreporting-go/internal/core/services"
	"github.com/joshuastenhouse/rscreporting-go/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	flagVerbose        bool
	flagDir            string
	flagURL            string
	flagServiceAccount string
	flagNonInteractive bool
)

// Session state shared by subcommands after connectSession.
var (
	activeSession *domain.SessionContext
	activeClient  *rsc.Client
)

var rootCmd = &cobra.Command{
	Use:   "rscreport",
	Short: "Report on a Rubrik Security Cloud instance",
	Long: `rscreport connects to a Rubrik Security Cloud (RSC) instance with a
service account, fetches inventory and protection data over the GraphQL
API and writes flat report records to the terminal, CSV files or a local
SQLite database.

Credentials are resolved from (in order): the --service-account file, the
encrypted credential store under the config directory, or an interactive
prompt. Prompted credentials are encrypted and stored for the next run.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(
		&flagDir, "dir", "", "config directory (default ~/.rscreport)")
	rootCmd.PersistentFlags().StringVar(
		&flagURL, "url", "", "RSC instance URL (default: persisted profile)")
	rootCmd.PersistentFlags().StringVar(
		&flagServiceAccount, "service-account", "", "path to a downloaded service account JSON file")
	rootCmd.PersistentFlags().BoolVar(
		&flagNonInteractive, "non-interactive", false, "never prompt; fail when input would be required")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// connectSession establishes the session used by the invoking subcommand.
// Authentication failures are reported, not fatal: an error is returned so
// the subcommand aborts, but nothing exits the process.
func connectSession(cmd *cobra.Command) error {
	profiles, err := configfile.NewProfileStore(flagDir)
	if err != nil {
		return fmt.Errorf("opening profile store: %w", err)
	}
	creds, err := credfile.NewStore(flagDir, nil)
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}

	var prompter *prompt.Terminal
	if !flagNonInteractive {
		prompter = prompt.NewTerminal()
	}

	svc := services.NewSessionService(profiles, creds, prompter,
		func(baseURL string) services.Authenticator {
			activeClient = rsc.NewClient(baseURL)
			return activeClient
		})

	session := svc.Connect(cmd.Context(), services.ConnectOptions{
		BaseURL:            flagURL,
		ServiceAccountPath: flagServiceAccount,
		NonInteractive:     flagNonInteractive,
	})
	if !session.IsConnected() {
		return errors.New(session.Message)
	}

	activeSession = session
	cmd.Printf("Connected to %s\n", session.Instance)
	return nil
}
