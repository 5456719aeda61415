package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/nftbot/core/telegram/helpers"
)

// fakeContext embeds tele.Context so only the methods the middleware touch need an implementation.
type fakeContext struct {
	tele.Context
	update tele.Update
	sender *tele.User
	store  map[string]any
	sent   []any
}

func newFakeContext(userID int64) *fakeContext {
	return &fakeContext{
		update: tele.Update{ID: 1, Message: &tele.Message{Text: "hi"}},
		sender: &tele.User{ID: userID},
		store:  map[string]any{},
	}
}

func (f *fakeContext) Update() tele.Update { return f.update }
func (f *fakeContext) Sender() *tele.User { return f.sender }
func (f *fakeContext) Chat() *tele.Chat { return &tele.Chat{ID: f.sender.ID, Type: tele.ChatPrivate} }
func (f *fakeContext) Text() string { return f.update.Message.Text }
func (f *fakeContext) Get(key string) any { return f.store[key] }
func (f *fakeContext) Set(key string, val any) { f.store[key] = val }
func (f *fakeContext) Send(what any, _ ...any) error {
	f.sent = append(f.sent, what)
	return nil
}

func TestRecoverMiddlewareSwallowsPanics(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	require.NoError(t, h(newFakeContext(1)))
}

func TestAdminOnlyMiddleware(t *testing.T) {
	rejected := 0
	mw := AdminOnlyMiddleware(AdminOptions{
		AdminID:  10,
		OnReject: func(tele.Context) error { rejected++; return nil },
	})
	called := 0
	h := mw(func(tele.Context) error { called++; return nil })

	require.NoError(t, h(newFakeContext(10)))
	require.NoError(t, h(newFakeContext(11)))
	require.Equal(t, 1, called)
	require.Equal(t, 1, rejected)

	closed := AdminOnlyMiddleware(AdminOptions{})(func(tele.Context) error { called++; return nil })
	require.NoError(t, closed(newFakeContext(10)))
	require.Equal(t, 1, called)
}

func TestRateLimitMiddleware(t *testing.T) {
	limited := 0
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval:  time.Hour,
		OnLimited: func(tele.Context) error { limited++; return nil },
	})
	passed := 0
	h := mw(func(tele.Context) error { passed++; return nil })

	require.NoError(t, h(newFakeContext(5)))
	require.NoError(t, h(newFakeContext(5)))
	require.NoError(t, h(newFakeContext(6)))
	require.Equal(t, 2, passed)
	require.Equal(t, 1, limited)
}

func TestRateLimitMiddlewareExclusions(t *testing.T) {
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval: time.Hour,
		Exclude:  map[string]struct{}{"message": {}},
	})
	passed := 0
	h := mw(func(tele.Context) error { passed++; return nil })
	for i := 0; i < 3; i++ {
		require.NoError(t, h(newFakeContext(5)))
	}
	require.Equal(t, 3, passed)
}

func TestReplyMetricsMiddlewareCountsQueuedReplies(t *testing.T) {
	fc := newFakeContext(1)
	h := ReplyMetricsMiddleware(func(c tele.Context) error {
		if err := tghelpers.SendText(c, "one"); err != nil {
			return err
		}
		if err := tghelpers.SendMenu(c, "main", "Choose an option:", &tele.ReplyMarkup{}); err != nil {
			return err
		}
		return tghelpers.SendPhoto(c, []byte{0x89, 'P', 'N', 'G'}, "chart")
	})
	require.NoError(t, h(fc))

	got := GetCounters(fc)
	require.Equal(t, 3, got.Messages)
	require.Equal(t, 1, got.Photos)
	require.Equal(t, []string{"main"}, got.Menus)
	require.Len(t, fc.sent, 3)
}

func TestGetCountersWithoutTally(t *testing.T) {
	require.Equal(t, ReplyCounters{}, GetCounters(newFakeContext(1)))
}

func newCallbackFakeContext(userID int64, unique string) *fakeContext {
	fc := newFakeContext(userID)
	fc.update = tele.Update{ID: 2, Callback: &tele.Callback{Data: "\f" + unique}}
	return fc
}

func TestRateLimitMiddlewareExemptCallbacks(t *testing.T) {
	limited := 0
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval:        time.Hour,
		ExemptCallbacks: map[string]struct{}{"trend_7d": {}},
		OnLimited:       func(tele.Context) error { limited++; return nil },
	})
	passed := 0
	h := mw(func(tele.Context) error { passed++; return nil })

	require.NoError(t, h(newCallbackFakeContext(5, "mpc")))
	require.NoError(t, h(newCallbackFakeContext(5, "trend_7d")))
	require.NoError(t, h(newCallbackFakeContext(5, "show_price")))
	require.Equal(t, 2, passed)
	require.Equal(t, 1, limited)
}

func TestUserWindowPrunesIdleUsers(t *testing.T) {
	w := &userWindow{interval: time.Second, seen: make(map[int64]time.Time)}
	now := time.Now()
	for id := int64(1); id <= 50; id++ {
		require.True(t, w.allow(id, now))
	}
	require.False(t, w.allow(1, now.Add(500*time.Millisecond)))
	require.Equal(t, 50, w.size())

	require.True(t, w.allow(99, now.Add(2*time.Second)))
	require.Equal(t, 1, w.size())
}

func TestLoggerMiddlewareStoresRID(t *testing.T) {
	fc := newFakeContext(3)
	h := LoggerMiddleware(func(tele.Context) error { return nil })
	require.NoError(t, h(fc))
	require.Equal(t, "1:3:3", fc.store["rid"])
}
