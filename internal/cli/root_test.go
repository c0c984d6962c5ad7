package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "caja", cmd.Use)
	assert.Contains(t, cmd.Long, "calendar day")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{
		"catalog", "add", "remove", "clear", "show", "change",
		"finalize", "send", "sales", "export", "reset-sales", "session",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestFinalizeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	finalizeCmd, _, err := cmd.Find([]string{"finalize"})
	require.NoError(t, err)

	paymentFlag := finalizeCmd.Flags().Lookup("payment")
	require.NotNil(t, paymentFlag)
	assert.Equal(t, "p", paymentFlag.Shorthand)

	for _, name := range []string{"client", "contact"} {
		require.NotNil(t, finalizeCmd.Flags().Lookup(name), name)
	}

	noTicket := finalizeCmd.Flags().Lookup("no-ticket")
	require.NotNil(t, noTicket)
	assert.Equal(t, "false", noTicket.DefValue)
}

func TestConfirmCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"clear", "reset-sales"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)

			yes := sub.Flags().Lookup("yes")
			require.NotNil(t, yes)
			assert.Equal(t, "y", yes.Shorthand)
			assert.Equal(t, "false", yes.DefValue)
		})
	}
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "show"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
