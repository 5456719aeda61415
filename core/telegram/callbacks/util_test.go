package callbacks

import (
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name        string
		cb          *tele.Callback
		key, payload string
	}{
		{"nil", nil, "", ""},
		{"encoded", &tele.Callback{Data: "\ftrend_7d"}, "trend_7d", ""},
		{"encoded with payload", &tele.Callback{Data: "\fshow_score|0xabc"}, "show_score", "0xabc"},
		{"plain", &tele.Callback{Data: "exit"}, "exit", ""},
		{"routed", &tele.Callback{Unique: "profile", Data: "x"}, "profile", "x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := ParseCallbackData(tc.cb)
			require.Equal(t, tc.key, key)
			require.Equal(t, tc.payload, payload)
		})
	}
}
