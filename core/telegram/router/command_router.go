package router

import (
	"log/slog"
	"time"

	"github.com/m3rciful/nftbot/core/logger"
	tg "github.com/m3rciful/nftbot/core/telegram"
	"github.com/m3rciful/nftbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes prepares command handlers wrapped with shared middleware.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	adminOpts := middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	}

	cmds := reg.Commands()
	routes := make([]tg.Route, 0, len(cmds))
	for _, def := range cmds {
		name := "command." + normalizeHandlerName(def.Name)
		inner := def.Handler
		var h tele.HandlerFunc = func(c tele.Context) error {
			return handleWithSummary(c, name, time.Now(), "", "", func() error { return inner(c) })
		}
		h = middleware.RecoverMiddleware(h)
		h = middleware.LoggerMiddleware(h)
		if def.AdminOnly {
			h = middleware.AdminOnlyMiddleware(adminOpts)(h)
		}
		routes = append(routes, tg.Route{
			Endpoint: def.Name,
			Handler:  h,
		})
	}

	logger.Info(logger.Background(), "tg.wire", "routes.commands",
		slog.String("status", "ok"),
		slog.Int("commands", len(cmds)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return routes
}
