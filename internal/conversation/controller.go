// Package conversation drives the per-chat menu state machine of the bot.
//
// Each inbound Event is handled under the per-chat lock of the session
// store: the controller reads the Conversation, calls at most one data
// lookup, writes the state back and emits replies to a Destination.
// Lookup failures are always turned into a reply; the only errors Handle
// returns come from the Destination.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/nftbot/core/logger"
	"github.com/m3rciful/nftbot/internal/anomaly"
	"github.com/m3rciful/nftbot/internal/charts"
	"github.com/m3rciful/nftbot/internal/formatter"
	"github.com/m3rciful/nftbot/internal/journal"
	"github.com/m3rciful/nftbot/internal/menu"
	"github.com/m3rciful/nftbot/internal/nftapi"
	"github.com/m3rciful/nftbot/internal/session"
)

// Reasons a reply deviates from the happy path. They select messages and
// label logs; none of them aborts an event.
var (
	ErrMissingContractAddress = errors.New("conversation: missing contract address")
	ErrMissingWalletAddress   = errors.New("conversation: missing wallet address")
	ErrFetchFailed            = errors.New("conversation: fetch failed")
)

const component = "conversation"

// Fetcher is the NFT data source.
type Fetcher interface {
	WalletProfile(ctx context.Context, wallet string) (*nftapi.WalletProfile, error)
	CollectionMetadata(ctx context.Context, contract string) (*nftapi.CollectionMetadata, error)
	CollectionScore(ctx context.Context, contract string) (*nftapi.CollectionScore, error)
	PricePrediction(ctx context.Context, contract, tokenID string) (*nftapi.PricePrediction, error)
	HolderTrend(ctx context.Context, contract string) (*nftapi.Trend, error)
	Analytics(ctx context.Context, contract string, r nftapi.Range) (*nftapi.Trend, error)
	MarketPriceTrend(ctx context.Context, contract string, r nftapi.Range) (*nftapi.Trend, error)
}

// Predictor runs the anomaly model. It never fails; failures come back as text.
type Predictor interface {
	Predict(ctx context.Context, f anomaly.Features) anomaly.Prediction
}

// Renderer draws trend charts.
type Renderer interface {
	HolderTrend(ctx context.Context, t *nftapi.Trend) (*charts.Image, error)
	Analytics(ctx context.Context, t *nftapi.Trend) (*charts.Image, error)
	MarketTrend(ctx context.Context, t *nftapi.Trend) (*charts.Image, error)
}

// Destination receives the replies of one event, in order.
type Destination interface {
	SendText(ctx context.Context, text string) error
	SendMenu(ctx context.Context, m menu.Menu) error
	SendChart(ctx context.Context, img *charts.Image) error
}

// Deps are the collaborators of a Controller. Journal is optional.
type Deps struct {
	Store     session.Store
	Fetcher   Fetcher
	Predictor Predictor
	Renderer  Renderer
	Journal   journal.Journal
}

// Controller is safe for concurrent use across chats.
type Controller struct {
	store     session.Store
	fetcher   Fetcher
	predictor Predictor
	renderer  Renderer
	journal   journal.Journal
	now       func() time.Time
}

// New validates deps and builds a Controller.
func New(d Deps) (*Controller, error) {
	switch {
	case d.Store == nil:
		return nil, errors.New("conversation: nil session store")
	case d.Fetcher == nil:
		return nil, errors.New("conversation: nil fetcher")
	case d.Predictor == nil:
		return nil, errors.New("conversation: nil predictor")
	case d.Renderer == nil:
		return nil, errors.New("conversation: nil renderer")
	}
	j := d.Journal
	if j == nil {
		j = journal.Nop{}
	}
	return &Controller{
		store:     d.Store,
		fetcher:   d.Fetcher,
		predictor: d.Predictor,
		renderer:  d.Renderer,
		journal:   j,
		now:       time.Now,
	}, nil
}

// reply is one outbound item; exactly one field is set.
type reply struct {
	text  string
	chart *charts.Image
	menu  menu.Name
}

// turn accumulates the effects of one event.
type turn struct {
	ctx    context.Context
	chatID int64
	conv   session.Conversation
	upd    session.Update
	clear  bool
	out    []reply
	reason error
}

func (t *turn) say(text string) { t.out = append(t.out, reply{text: text}) }

func (t *turn) show(name menu.Name) { t.out = append(t.out, reply{menu: name}) }

func (t *turn) plot(img *charts.Image) { t.out = append(t.out, reply{chart: img}) }

func (t *turn) set(u session.Update) { t.upd = session.Merge(t.upd, u) }

func (t *turn) fail(reason error) { t.reason = reason }

func (t *turn) nextMenu() (menu.Name, bool) {
	for i := len(t.out) - 1; i >= 0; i-- {
		if t.out[i].menu != "" {
			return t.out[i].menu, true
		}
	}
	return "", false
}

// Handle processes one event for ev.ChatID.
func (c *Controller) Handle(ctx context.Context, ev Event, dst Destination) error {
	if dst == nil {
		return errors.New("conversation: nil destination")
	}
	unlock := c.store.Lock(ev.ChatID)
	defer unlock()

	t := &turn{ctx: ctx, chatID: ev.ChatID, conv: c.store.Get(ev.ChatID)}
	before := t.conv.Pending

	switch ev.Kind {
	case KindCommand:
		c.onCommand(t, ev.Command)
	case KindButton:
		c.onButton(t, ev.Button)
	case KindText:
		c.onText(t, ev.Text)
	default:
		return fmt.Errorf("conversation: unknown event kind %d", ev.Kind)
	}

	if t.clear {
		c.store.Clear(ev.ChatID)
	} else {
		c.store.Set(ev.ChatID, t.upd)
	}
	after := c.store.Get(ev.ChatID)

	attrs := []slog.Attr{
		slog.Int64("chat_id", ev.ChatID),
		slog.String("event", ev.Name()),
		slog.String("kind", ev.Kind.String()),
		slog.String("pending", before.String()+"->"+after.Pending.String()),
	}
	if name, ok := t.nextMenu(); ok {
		attrs = append(attrs, slog.String("menu", string(name)))
	}
	if t.reason != nil {
		attrs = append(attrs, slog.String("reason", t.reason.Error()))
	}
	logger.Debug(ctx, component, "conversation.transition", attrs...)

	return deliver(ctx, dst, t.out)
}

func deliver(ctx context.Context, dst Destination, out []reply) error {
	for _, r := range out {
		var err error
		switch {
		case r.chart != nil:
			err = dst.SendChart(ctx, r.chart)
		case r.menu != "":
			err = dst.SendMenu(ctx, menu.Get(r.menu))
		default:
			err = dst.SendText(ctx, r.text)
		}
		if err != nil {
			return fmt.Errorf("conversation: deliver reply: %w", err)
		}
	}
	return nil
}

func (c *Controller) onCommand(t *turn, cmd Command) {
	switch cmd {
	case CommandStart:
		t.say(formatter.Greeting)
	case CommandClear:
		t.set(session.Merge(session.Contract(""), session.Pending(session.PendingNone)))
		t.show(menu.Main)
	case CommandHistory:
		entries, err := c.journal.Recent(t.ctx, t.chatID, 10)
		if err != nil {
			logger.Warn(t.ctx, component, "conversation.history", slog.String("err", err.Error()))
			t.fail(ErrFetchFailed)
		}
		t.say(formatter.History(entries))
	default:
		t.show(menu.Main)
	}
}

func (c *Controller) onText(t *turn, raw string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		c.onBlankText(t)
		return
	}

	switch t.conv.Pending {
	case session.PendingContract:
		t.set(session.Merge(session.Contract(text), session.Pending(session.PendingNone)))
		t.show(menu.Details)
	case session.PendingTokenID:
		t.set(session.Pending(session.PendingNone))
		if !t.conv.HasContract() {
			t.fail(ErrMissingContractAddress)
			t.say(formatter.MissingContract)
			t.show(menu.Details)
			return
		}
		c.pricePrediction(t, text)
		t.show(menu.Details)
	default:
		if !t.conv.HasWallet() {
			t.set(session.Wallet(text))
		}
		t.show(menu.Main)
	}
}

// onBlankText repeats the pending prompt, or the main menu when nothing is awaited.
// State is left untouched.
func (c *Controller) onBlankText(t *turn) {
	switch t.conv.Pending {
	case session.PendingContract:
		t.say(formatter.ContractPrompt)
	case session.PendingTokenID:
		t.say(formatter.TokenPrompt)
	default:
		t.show(menu.Main)
	}
}

// needsContract lists the actions that must not reach a collaborator without a contract address.
var needsContract = map[Action]bool{
	ActionShowMetadata:     true,
	ActionShowScore:        true,
	ActionCheckAnomaly:     true,
	ActionCollectionHolder: true,
	ActionTrend:            true,
	ActionAnalytics:        true,
}

type transition func(c *Controller, t *turn, b Button)

var transitions = map[Action]transition{
	ActionExit: func(c *Controller, t *turn, _ Button) {
		t.clear = true
		t.say(formatter.Farewell)
	},
	ActionProfile: func(c *Controller, t *turn, _ Button) {
		c.walletProfile(t)
		t.show(menu.Main)
	},
	ActionAskForContract: func(c *Controller, t *turn, _ Button) {
		t.set(session.Pending(session.PendingContract))
		t.say(formatter.ContractPrompt)
	},
	ActionShowMetadata: func(c *Controller, t *turn, _ Button) {
		c.metadata(t)
		t.show(menu.Details)
	},
	ActionShowScore: func(c *Controller, t *turn, _ Button) {
		c.score(t)
		t.show(menu.Details)
	},
	ActionShowPrice: func(c *Controller, t *turn, _ Button) {
		t.set(session.Pending(session.PendingTokenID))
		t.say(formatter.TokenPrompt)
	},
	ActionCheckAnomaly: func(c *Controller, t *turn, _ Button) {
		c.checkAnomaly(t)
		t.show(menu.Details)
	},
	ActionShowAnalytics: func(c *Controller, t *turn, _ Button) {
		t.show(menu.AnalyticsRange)
	},
	ActionCollectionHolder: func(c *Controller, t *turn, _ Button) {
		c.holderTrend(t)
		t.show(menu.Details)
	},
	ActionMarketTrendMenu: func(c *Controller, t *turn, _ Button) {
		t.show(menu.TrendRange)
	},
	ActionGoBack: func(c *Controller, t *turn, _ Button) {
		t.show(menu.Main)
	},
	ActionTrend: func(c *Controller, t *turn, b Button) {
		c.marketTrend(t, b.Range)
		t.show(menu.Details)
	},
	ActionAnalytics: func(c *Controller, t *turn, b Button) {
		c.analytics(t, b.Range)
		t.show(menu.Details)
	},
}

func (c *Controller) onButton(t *turn, b Button) {
	if needsContract[b.Action] && !t.conv.HasContract() {
		t.fail(ErrMissingContractAddress)
		t.say(formatter.MissingContract)
		t.show(menu.Details)
		return
	}
	tr, ok := transitions[b.Action]
	if !ok {
		t.show(menu.Main)
		return
	}
	tr(c, t, b)
}
