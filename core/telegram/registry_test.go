package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand(Command{Name: "/start", Handler: noop, Description: "start"}))
	require.NoError(t, reg.RegisterCommand(Command{Name: "/clear", Handler: noop, Description: "clear", Aliases: []string{"reset"}}))
	require.NoError(t, reg.RegisterCommand(Command{Name: "/stats", Handler: noop, Description: "stats", AdminOnly: true}))
	require.ErrorIs(t, reg.RegisterCommand(Command{Name: "nodash", Handler: noop, Description: "skipped"}), ErrInvalidCommand)
	require.ErrorIs(t, reg.RegisterCommand(Command{Name: "/empty", Handler: noop}), ErrInvalidCommand)
	require.ErrorIs(t, reg.RegisterCommand(Command{Name: "/reset", Handler: noop, Description: "clash"}), ErrDuplicate)
	require.ErrorIs(t, reg.RegisterCommand(Command{Name: "/wipe", Handler: noop, Description: "clash", Aliases: []string{"/start"}}), ErrDuplicate)

	require.Equal(t, []tele.Command{
		{Text: "clear", Description: "clear"},
		{Text: "start", Description: "start"},
	}, reg.ListCommands(true))
	require.Len(t, reg.ListCommands(false), 3)

	cmd, ok := reg.LookupCommand("reset")
	require.True(t, ok)
	require.Equal(t, "/clear", cmd.Name)

	cmd, ok = reg.LookupCommand("start")
	require.True(t, ok)
	require.Equal(t, "/start", cmd.Name)

	_, ok = reg.LookupCommand("/nodash")
	require.False(t, ok)
	_, ok = reg.LookupCommand("/wipe")
	require.False(t, ok)

	names := make([]string, 0, 3)
	for _, c := range reg.Commands() {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"/clear", "/start", "/stats"}, names)
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCallback("b", noop))
	require.NoError(t, reg.RegisterCallback("a", noop))
	require.ErrorIs(t, reg.RegisterCallback("a", noop), ErrDuplicate)
	require.Error(t, reg.RegisterCallback("", noop))
	require.Error(t, reg.RegisterCallback("c", nil))

	require.Equal(t, []string{"a", "b"}, reg.ListCallbacks())
	_, ok := reg.GetCallback("missing")
	require.False(t, ok)
	require.NotNil(t, reg.CallbackNotFound())

	reg.SetCallbackNotFound(nil)
	require.NotNil(t, reg.CallbackNotFound())
}
