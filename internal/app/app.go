// Package app wires the NFT conversation controller into the Telegram runtime.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/nftbot/core/bootstrap"
	"github.com/m3rciful/nftbot/core/cmd"
	"github.com/m3rciful/nftbot/core/logger"
	coretelegram "github.com/m3rciful/nftbot/core/telegram"
	"github.com/m3rciful/nftbot/core/telegram/router"
	"github.com/m3rciful/nftbot/internal/anomaly"
	"github.com/m3rciful/nftbot/internal/charts"
	"github.com/m3rciful/nftbot/internal/conversation"
	"github.com/m3rciful/nftbot/internal/journal"
	"github.com/m3rciful/nftbot/internal/menu"
	"github.com/m3rciful/nftbot/internal/nftapi"
	"github.com/m3rciful/nftbot/internal/session"
)

// App holds the wired bot components.
type App struct {
	cfg   *Config
	store session.Store
	ctrl  *conversation.Controller
	db    *sqlx.DB
}

// Deps lets tests replace infrastructure; zero fields are built from config.
type Deps struct {
	Store     session.Store
	Fetcher   conversation.Fetcher
	Predictor conversation.Predictor
	Renderer  conversation.Renderer
	Journal   journal.Journal
	DB        *sqlx.DB
}

// New builds an App from configuration.
func New(cfg *Config, deps Deps) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	if deps.Store == nil {
		deps.Store = session.NewMemoryStore()
	}
	if deps.Fetcher == nil {
		client, err := nftapi.New(cfg.NFTAPI)
		if err != nil {
			return nil, fmt.Errorf("app: nftapi client: %w", err)
		}
		deps.Fetcher = client
	}
	if deps.Predictor == nil {
		client, err := anomaly.New(cfg.Anomaly, nil)
		if err != nil {
			return nil, fmt.Errorf("app: anomaly client: %w", err)
		}
		deps.Predictor = client
	}
	if deps.Renderer == nil {
		deps.Renderer = charts.New()
	}
	if deps.Journal == nil {
		if deps.DB != nil {
			deps.Journal = journal.NewPostgres(deps.DB)
		} else {
			deps.Journal = journal.Nop{}
		}
	}

	ctrl, err := conversation.New(conversation.Deps{
		Store:     deps.Store,
		Fetcher:   deps.Fetcher,
		Predictor: deps.Predictor,
		Renderer:  deps.Renderer,
		Journal:   deps.Journal,
	})
	if err != nil {
		return nil, err
	}
	return &App{cfg: cfg, store: deps.Store, ctrl: ctrl, db: deps.DB}, nil
}

// Bootstrap initializes logging and the optional journal database, then builds the App.
func Bootstrap(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Config,
		Database: cfg.DatabaseConfig(),
	})
	if err != nil {
		return nil, err
	}
	return New(cfg, Deps{DB: res.DB})
}

// Registry declares the commands and callbacks of the bot.
func (a *App) Registry() (*coretelegram.Registry, error) {
	reg := coretelegram.NewRegistry()

	cmds := []coretelegram.Command{
		{
			Name:        "/start",
			Handler:     a.command(conversation.CommandStart),
			Description: "Start and enter your wallet address",
		},
		{
			Name:        "/menu",
			Handler:     a.command(conversation.CommandMenu),
			Description: "Show the main menu",
		},
		{
			Name:        "/clear",
			Handler:     a.command(conversation.CommandClear),
			Description: "Forget the current collection",
			Aliases:     []string{"reset"},
		},
		{
			Name:        "/history",
			Handler:     a.command(conversation.CommandHistory),
			Description: "Show your recent lookups",
		},
		{
			Name:        "/sessions",
			Handler:     a.sessions,
			Description: "Count active conversations",
			AdminOnly:   true,
			Hidden:      true,
		},
	}
	for _, cmd := range cmds {
		if err := reg.RegisterCommand(cmd); err != nil {
			return nil, err
		}
	}

	for _, ev := range menu.Events() {
		if err := reg.RegisterCallback(ev, a.dispatch); err != nil {
			return nil, err
		}
	}
	reg.SetCallbackNotFound(a.callbackNotFound)
	reg.SetTextFallback(a.dispatch)
	return reg, nil
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg, err := a.Registry()
	if err != nil {
		return coretelegram.RunOptions{}, err
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       a.cfg.Telegram.AdminID,
		OnAdminReject: a.adminReject,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Config,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Config, a.rateLimited, rangeEvents()...),
		Routes:      routes,
		OnStop:      a.stop,
	}, nil
}

func (a *App) stop(ctx context.Context, _ coretelegram.Runtime) error {
	logger.Info(ctx, "app", "app.stop", slog.Int("conversations", a.store.Len()))
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("app: close database: %w", err)
	}
	return nil
}
