package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/m3rciful/nftbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrInvalidCommand rejects a command without a /name, handler or description.
	ErrInvalidCommand = errors.New("telegram: invalid command")
	// ErrDuplicate rejects a second registration of a name, alias or callback key.
	ErrDuplicate = errors.New("telegram: already registered")
)

// Command is one slash command. Name carries the leading slash; aliases may omit it.
type Command struct {
	Name        string
	Handler     tele.HandlerFunc
	Description string
	// AdminOnly commands pass through the admin gate and are never listed.
	AdminOnly bool
	Hidden    bool
	Aliases   []string
}

// Registry holds bot commands and callbacks. Commands are declared before
// the bot starts; callbacks may be added concurrently.
type Registry struct {
	commands         map[string]Command
	aliases          map[string]string
	callbacks        map[string]tele.HandlerFunc
	callbacksMu      sync.RWMutex
	callbackNotFound tele.HandlerFunc
	textFallback     tele.HandlerFunc
}

// NewRegistry creates an empty Registry with default fallbacks.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]Command),
		aliases:   make(map[string]string),
		callbacks: make(map[string]tele.HandlerFunc),
		callbackNotFound: func(c tele.Context) error {
			_ = c.Respond(&tele.CallbackResponse{Text: "This button is no longer available."})
			return nil
		},
	}
}

func slashed(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + name
}

// RegisterCommand declares cmd under its name and aliases.
func (r *Registry) RegisterCommand(cmd Command) error {
	if cmd.Handler == nil || strings.TrimSpace(cmd.Description) == "" ||
		!strings.HasPrefix(cmd.Name, "/") || len(cmd.Name) < 2 {
		return fmt.Errorf("%w: %q", ErrInvalidCommand, cmd.Name)
	}
	keys := []string{cmd.Name}
	for _, alias := range cmd.Aliases {
		keys = append(keys, slashed(alias))
	}
	for _, key := range keys {
		if _, taken := r.commands[key]; taken {
			return fmt.Errorf("%w: command %s", ErrDuplicate, key)
		}
		if _, taken := r.aliases[key]; taken {
			return fmt.Errorf("%w: command %s", ErrDuplicate, key)
		}
	}
	r.commands[cmd.Name] = cmd
	for _, alias := range keys[1:] {
		r.aliases[alias] = cmd.Name
	}
	return nil
}

// ListCommands returns the menu entries for setMyCommands, sorted by name and
// without the leading slash. visibleOnly drops hidden and admin-only commands.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for _, cmd := range r.Commands() {
		if visibleOnly && (cmd.Hidden || cmd.AdminOnly) {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(cmd.Name, "/"), Description: cmd.Description})
	}
	return list
}

// LookupCommand resolves a name or alias, with or without the slash.
func (r *Registry) LookupCommand(name string) (Command, bool) {
	name = slashed(name)
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []Command {
	out := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RegisterCallback maps a callback unique to its handler.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	if key == "" || handler == nil {
		return fmt.Errorf("telegram: invalid callback %q", key)
	}
	r.callbacksMu.Lock()
	defer r.callbacksMu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		return fmt.Errorf("%w: callback %s", ErrDuplicate, key)
	}
	r.callbacks[key] = handler
	return nil
}

// GetCallback safely returns handler by key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns sorted keys (for diagnostics).
func (r *Registry) ListCallbacks() []string {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	names := make([]string, 0, len(r.callbacks))
	for k := range r.callbacks {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SetCallbackNotFound replaces the fallback handler for unknown callbacks.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h != nil {
		r.callbackNotFound = h
	}
}

// CallbackNotFound returns the current fallback callback handler.
func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	return r.callbackNotFound
}

// SetTextFallback sets the handler for text that is not a known command.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.textFallback = h
}

// TextFallback returns the current text fallback handler.
func (r *Registry) TextFallback() tele.HandlerFunc {
	return r.textFallback
}

// InitBotCommands publishes the visible commands to the Telegram command menu.
// A failure leaves the previous menu in place and is only logged.
func InitBotCommands(ctx context.Context, bot *tele.Bot, reg *Registry) {
	list := reg.ListCommands(true)
	if err := bot.SetCommands(list); err != nil {
		logger.Error(ctx, "tg.wire", "commands.publish",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return
	}
	logger.Debug(ctx, "tg.wire", "commands.publish",
		slog.String("status", "ok"),
		slog.Int("commands", len(list)),
	)
}
