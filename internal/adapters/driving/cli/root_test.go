package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Root Command Tests

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "rscreport", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "connect")
	assert.Contains(t, commandNames, "disconnect")
	assert.Contains(t, commandNames, "report")
	assert.Contains(t, commandNames, "compliance")
	assert.Contains(t, commandNames, "events")
	assert.Contains(t, commandNames, "threathunt")
	assert.Contains(t, commandNames, "version")
}

func TestRootCmd_HasPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	assert.NotNil(t, flags.Lookup("verbose"))
	assert.NotNil(t, flags.Lookup("dir"))
	assert.NotNil(t, flags.Lookup("url"))
	assert.NotNil(t, flags.Lookup("service-account"))
	assert.NotNil(t, flags.Lookup("non-interactive"))
}

// Version Command Tests

func TestVersionCmd_Output(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "rscreport version")
}

// Report Command Tests

func TestReportCmd_Use(t *testing.T) {
	assert.Equal(t, "report [type]", reportCmd.Use)
}

func TestDisconnectCmd_Use(t *testing.T) {
	assert.Equal(t, "disconnect", disconnectCmd.Use)
	assert.NotNil(t, disconnectCmd.Flags().Lookup("forget"))
}

func TestComplianceCmd_Use(t *testing.T) {
	assert.Equal(t, "compliance [object-id]", complianceCmd.Use)
}

func TestEventsCmd_Use(t *testing.T) {
	assert.Equal(t, "events [object-id]", eventsCmd.Use)
}

func TestThreatHuntCmd_Use(t *testing.T) {
	assert.Equal(t, "threathunt [hunt-id]", threatHuntCmd.Use)
}
