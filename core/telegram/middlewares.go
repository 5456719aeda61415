package telegram

import (
	"strings"
	"time"

	coreconfig "github.com/m3rciful/nftbot/core/config"
	"github.com/m3rciful/nftbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares builds the shared middleware chain for bots.
// Callbacks whose unique is listed in exemptCallbacks are never rate limited.
func DefaultMiddlewares(cfg *coreconfig.Config, onLimited func(tele.Context) error, exemptCallbacks ...string) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if cfg != nil {
		interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond
		if interval > 0 {
			ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
			for _, t := range cfg.RateLimit.ExcludeUpdates {
				ex[strings.ToLower(t)] = struct{}{}
			}
			exempt := make(map[string]struct{}, len(exemptCallbacks))
			for _, key := range exemptCallbacks {
				exempt[key] = struct{}{}
			}
			opts := middleware.RateLimitOptions{
				Interval:        interval,
				Exclude:         ex,
				ExemptCallbacks: exempt,
			}
			if onLimited != nil {
				opts.OnLimited = onLimited
			}
			mws = append(mws, Middleware{
				Name: "rate_limit",
				Use:  middleware.RateLimitMiddleware(opts),
			})
		}
	}

	mws = append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.ReplyMetricsMiddleware},
	)

	return mws
}
