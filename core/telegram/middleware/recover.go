package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/m3rciful/nftbot/core/logger"
	tghelpers "github.com/m3rciful/nftbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RecoverMiddleware catches panics in handlers and prevents the bot from crashing.
// A recovered panic is reported as a nil error so the update is considered handled.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(tghelpers.BuildContext(c), "tg", "tg.panic",
					slog.String("status", "fail"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
				err = nil
			}
		}()
		return next(c)
	}
}
