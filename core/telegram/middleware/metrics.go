package middleware

import (
	tghelpers "github.com/m3rciful/nftbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// ReplyMetricsMiddleware gives every update a reply tally. The send helpers
// fill it in as replies are queued, so the handler summary can report what
// the user was shown even though delivery happens later.
func ReplyMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		tghelpers.TrackReplies(c)
		return next(c)
	}
}

// ReplyCounters is a snapshot of the tally for the handler summary line.
type ReplyCounters struct {
	Messages int
	Photos   int
	Menus    []string
}

// GetCounters reads the tally installed by ReplyMetricsMiddleware.
// Updates served without the middleware report zero counters.
func GetCounters(c tele.Context) ReplyCounters {
	r := tghelpers.RepliesFrom(c)
	return ReplyCounters{
		Messages: r.Messages(),
		Photos:   r.Photos(),
		Menus:    r.Menus(),
	}
}
