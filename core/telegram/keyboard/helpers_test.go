package keyboard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInlineButtonsOnePerRow(t *testing.T) {
	markup := InlineButtons([]InlineBtn{
		{Text: "Show Wallet Profile", Unique: "profile"},
		{Text: "Exit", Unique: "exit"},
	})
	require.Len(t, markup.InlineKeyboard, 2)
	require.Equal(t, "Show Wallet Profile", markup.InlineKeyboard[0][0].Text)
	require.Equal(t, "profile", markup.InlineKeyboard[0][0].Unique)
	require.Equal(t, "exit", markup.InlineKeyboard[1][0].Unique)
}

func TestInlineButtonsRowsKeepsPayload(t *testing.T) {
	markup := InlineButtonsRows([]InlineBtn{
		{Text: "24h", Unique: "trend_24h"},
		{Text: "7d", Unique: "trend_7d", Data: "x"},
	})
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	require.Equal(t, "x", markup.InlineKeyboard[0][1].Data)
}
