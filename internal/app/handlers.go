package app

import (
	"log/slog"
	"strings"

	"github.com/m3rciful/nftbot/core/logger"
	"github.com/m3rciful/nftbot/core/telegram/callbacks"
	"github.com/m3rciful/nftbot/core/telegram/helpers"
	"github.com/m3rciful/nftbot/internal/conversation"
	"github.com/m3rciful/nftbot/internal/formatter"
	"github.com/m3rciful/nftbot/internal/menu"

	tele "gopkg.in/telebot.v4"
)

const unknownButtonText = "This button is no longer available."

// chatID prefers the chat over the sender so group chats share one conversation.
func chatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

// toEvent normalizes a telebot update into a controller event.
// Unknown slash commands open the main menu instead of being taken as input.
func toEvent(c tele.Context) (conversation.Event, bool) {
	id := chatID(c)
	if cb := c.Callback(); cb != nil {
		key, _ := callbacks.ParseCallbackData(cb)
		return conversation.ButtonEvent(id, key)
	}
	text := strings.TrimSpace(c.Text())
	if strings.HasPrefix(text, "/") {
		name := strings.TrimPrefix(strings.Fields(text)[0], "/")
		if at := strings.IndexByte(name, '@'); at >= 0 {
			name = name[:at]
		}
		switch cmd := conversation.Command(strings.ToLower(name)); cmd {
		case conversation.CommandStart, conversation.CommandMenu, conversation.CommandClear, conversation.CommandHistory:
			return conversation.CommandEvent(id, cmd), true
		}
		return conversation.CommandEvent(id, conversation.CommandMenu), true
	}
	return conversation.TextEvent(id, c.Text()), true
}

// dispatch hands the update to the controller.
func (a *App) dispatch(c tele.Context) error {
	ev, ok := toEvent(c)
	ctx := helpers.BuildContext(c)
	if !ok {
		logger.Warn(ctx, "tg", "callback.unknown",
			slog.String("cb_key", callbacks.CallbackKey(c)),
		)
		return helpers.SendText(c, unknownButtonText)
	}
	return a.ctrl.Handle(ctx, ev, chatDestination{c: c})
}

func (a *App) command(cmd conversation.Command) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := helpers.BuildContext(c)
		return a.ctrl.Handle(ctx, conversation.CommandEvent(chatID(c), cmd), chatDestination{c: c})
	}
}

func (a *App) sessions(c tele.Context) error {
	return helpers.SendText(c, formatter.Sessions(a.store.Len()))
}

func (a *App) callbackNotFound(c tele.Context) error {
	return a.dispatch(c)
}

func (a *App) adminReject(c tele.Context) error {
	return helpers.SendText(c, "This command is available to the administrator only.")
}

func (a *App) rateLimited(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Too many requests, slow down."})
	}
	return helpers.SendText(c, "Too many requests, slow down.")
}

// rangeEvents are the range picks offered right after a chart menu. They
// bypass the rate limit so an immediate pick is not rejected.
func rangeEvents() []string {
	var out []string
	for _, name := range []menu.Name{menu.TrendRange, menu.AnalyticsRange} {
		for _, o := range menu.Render(name) {
			out = append(out, o.Event)
		}
	}
	return out
}
