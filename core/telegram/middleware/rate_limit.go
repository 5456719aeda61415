package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/nftbot/core/logger"
	"github.com/m3rciful/nftbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/nftbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval time.Duration
	// Exclude lists update kinds ("callback", "message") that bypass the limit.
	Exclude map[string]struct{}
	// ExemptCallbacks lists callback uniques that bypass the limit, such as
	// range picks answered right after the menu that offered them.
	ExemptCallbacks map[string]struct{}
	OnLimited       tele.HandlerFunc
}

// userWindow remembers the last accepted update per user.
// Entries older than the interval carry no information and are pruned.
type userWindow struct {
	mu       sync.Mutex
	interval time.Duration
	seen     map[int64]time.Time
	pruneAt  time.Time
}

// allow records now for userID unless the user's previous update is closer than interval.
func (w *userWindow) allow(userID int64, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if now.After(w.pruneAt) {
		for id, last := range w.seen {
			if now.Sub(last) >= w.interval {
				delete(w.seen, id)
			}
		}
		w.pruneAt = now.Add(w.interval)
	}
	if last, ok := w.seen[userID]; ok && now.Sub(last) < w.interval {
		return false
	}
	w.seen[userID] = now
	return true
}

func (w *userWindow) size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.seen)
}

func updateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	}
	return "other"
}

// RateLimitMiddleware returns a middleware that enforces a minimum interval
// between updates from the same user.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	return rateLimit(opts, &userWindow{interval: opts.Interval, seen: make(map[int64]time.Time)})
}

func rateLimit(opts RateLimitOptions, window *userWindow) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}

			upd := c.Update()
			kind := updateKind(upd)
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}
			var cbKey string
			if upd.Callback != nil {
				cbKey, _ = callbacks.ParseCallbackData(upd.Callback)
				if _, skip := opts.ExemptCallbacks[cbKey]; skip {
					return next(c)
				}
			}

			if window.allow(user.ID, time.Now()) {
				return next(c)
			}

			attrs := []slog.Attr{
				slog.String("status", "skip"),
				slog.String("cause", kind),
				slog.Bool("rate_limited", true),
			}
			if cbKey != "" {
				attrs = append(attrs, slog.String("cb_key", cbKey))
			}
			logger.Warn(tghelpers.BuildContext(c), "tg", "tg.rate_limit", attrs...)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}
