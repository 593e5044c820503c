package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuastenhouse/rscreporting-go/internal/core/services"
)

var (
	eventsName  string
	eventsHours int
)

var eventsCmd = &cobra.Command{
	Use:   "events [object-id]",
	Short: "List recent activity events for an object",
	Long: `Fetches activity events for an object and prints them.

The events API filters by object name, which is not unique; pass the name
with --name and the results are narrowed to the given object ID
client-side, with duplicate series collapsed.

Examples:
  rscreport events 01234567-89ab-cdef-0123-456789abcdef --name sql-prod-01
  rscreport events 01234567-89ab-cdef-0123-456789abcdef --name sql-prod-01 --hours 72`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&eventsName, "name", "", "object name the server-side filter matches on (required)")
	eventsCmd.Flags().IntVar(&eventsHours, "hours", 24, "lookback in hours")
	_ = eventsCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	if err := connectSession(cmd); err != nil {
		return err
	}

	svc := services.NewEventService(activeClient)
	since := time.Now().Add(-time.Duration(eventsHours) * time.Hour)
	events, err := svc.FetchForObject(cmd.Context(), activeSession, args[0], eventsName, since)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		cmd.Println("No events found.")
		return nil
	}
	for _, e := range events {
		cmd.Printf("%s  %-10s %-9s %s\n",
			formatEventTime(e.EndTime), e.EventType, e.Status, e.Message)
	}
	return nil
}

func formatEventTime(t *time.Time) string {
	if t == nil {
		return "                "
	}
	return t.UTC().Format("2006-01-02 15:04")
}
