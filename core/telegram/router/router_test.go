package router

import (
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/nftbot/core/telegram"
)

type fakeContext struct {
	tele.Context
	update tele.Update
	store  map[string]any
}

func newTextContext(text string) *fakeContext {
	return &fakeContext{
		update: tele.Update{ID: 3, Message: &tele.Message{Text: text}},
		store:  map[string]any{},
	}
}

func (f *fakeContext) Update() tele.Update { return f.update }
func (f *fakeContext) Sender() *tele.User { return &tele.User{ID: 5} }
func (f *fakeContext) Chat() *tele.Chat { return &tele.Chat{ID: 5, Type: tele.ChatPrivate} }
func (f *fakeContext) Text() string { return f.update.Message.Text }
func (f *fakeContext) Get(key string) any { return f.store[key] }
func (f *fakeContext) Set(key string, val any) { f.store[key] = val }

func textHandler(t *testing.T, reg *tg.Registry) tele.HandlerFunc {
	t.Helper()
	for _, r := range TextRoutes(reg, TextOptions{}) {
		if r.Endpoint == tele.OnText {
			return r.Handler
		}
	}
	t.Fatal("no text route")
	return nil
}

func TestTextRoutesResolveAliasesAndFallback(t *testing.T) {
	var got []string
	reg := tg.NewRegistry()
	require.NoError(t, reg.RegisterCommand(tg.Command{
		Name:        "/clear",
		Description: "clear",
		Aliases:     []string{"reset"},
		Handler:     func(tele.Context) error { got = append(got, "clear"); return nil },
	}))
	require.NoError(t, reg.RegisterCommand(tg.Command{
		Name:        "/sessions",
		Description: "sessions",
		AdminOnly:   true,
		Handler:     func(tele.Context) error { got = append(got, "sessions"); return nil },
	}))
	reg.SetTextFallback(func(tele.Context) error { got = append(got, "text"); return nil })

	h := textHandler(t, reg)
	for _, text := range []string{"/reset", "/reset@nft_bot now", "/sessions", "0xwallet"} {
		require.NoError(t, h(newTextContext(text)))
	}
	require.Equal(t, []string{"clear", "clear", "text", "text"}, got)
}

func TestCommandRoutesWrapEveryCommand(t *testing.T) {
	reg := tg.NewRegistry()
	for _, name := range []string{"/start", "/menu"} {
		require.NoError(t, reg.RegisterCommand(tg.Command{Name: name, Description: name, Handler: func(tele.Context) error { return nil }}))
	}
	routes := CommandRoutes(reg, CommandRouteOptions{})
	require.Len(t, routes, 2)
	require.Equal(t, "/menu", routes[0].Endpoint)
	require.Equal(t, "/start", routes[1].Endpoint)
}
