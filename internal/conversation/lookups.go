package conversation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m3rciful/nftbot/core/logger"
	"github.com/m3rciful/nftbot/internal/anomaly"
	"github.com/m3rciful/nftbot/internal/charts"
	"github.com/m3rciful/nftbot/internal/formatter"
	"github.com/m3rciful/nftbot/internal/journal"
	"github.com/m3rciful/nftbot/internal/nftapi"
)

// lookup describes one collaborator call for logging and the journal.
type lookup struct {
	kind    string
	tokenID string
	rng     nftapi.Range
	start   time.Time
}

func (c *Controller) begin(kind string) lookup {
	return lookup{kind: kind, start: c.now()}
}

// finish logs a failed lookup, writes the journal entry and reports whether err was nil.
func (c *Controller) finish(t *turn, l lookup, err error) bool {
	took := c.now().Sub(l.start)
	outcome := journal.OutcomeOK
	if err != nil {
		outcome = journal.OutcomeFailed
		if errors.Is(err, nftapi.ErrNoData) || errors.Is(err, charts.ErrNotEnoughPoints) {
			outcome = journal.OutcomeNoData
		}
		t.fail(ErrFetchFailed)
		logger.Warn(t.ctx, component, "conversation.fetch",
			slog.String("status", "fail"),
			slog.String("kind", l.kind),
			slog.String("contract", t.conv.ContractAddress),
			slog.String("outcome", outcome),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.RoundMS(took)),
		)
	}

	entry := journal.Entry{
		ChatID:          t.chatID,
		Kind:            l.kind,
		ContractAddress: t.conv.ContractAddress,
		TokenID:         l.tokenID,
		TimeRange:       string(l.rng),
		Outcome:         outcome,
		DurationMS:      took.Milliseconds(),
	}
	if l.kind == journal.KindWalletProfile {
		entry.WalletAddress = t.conv.WalletAddress
		entry.ContractAddress = ""
	}
	if jerr := c.journal.Record(t.ctx, entry); jerr != nil {
		logger.Warn(t.ctx, component, "journal.record",
			slog.String("kind", l.kind),
			slog.String("err", jerr.Error()),
		)
	}
	return err == nil
}

func (c *Controller) walletProfile(t *turn) {
	if !t.conv.HasWallet() {
		t.fail(ErrMissingWalletAddress)
		t.say(formatter.MissingWallet)
		return
	}
	l := c.begin(journal.KindWalletProfile)
	p, err := c.fetcher.WalletProfile(t.ctx, t.conv.WalletAddress)
	if err == nil && p == nil {
		err = nftapi.ErrNoData
	}
	if !c.finish(t, l, err) {
		p = nil
	}
	t.say(formatter.WalletProfile(p))
}

func (c *Controller) metadata(t *turn) {
	l := c.begin(journal.KindMetadata)
	m, err := c.fetcher.CollectionMetadata(t.ctx, t.conv.ContractAddress)
	if err == nil && m == nil {
		err = nftapi.ErrNoData
	}
	if !c.finish(t, l, err) {
		m = nil
	}
	t.say(formatter.CollectionMetadata(m))
}

func (c *Controller) score(t *turn) {
	l := c.begin(journal.KindScore)
	s, err := c.fetcher.CollectionScore(t.ctx, t.conv.ContractAddress)
	if err == nil && s == nil {
		err = nftapi.ErrNoData
	}
	if !c.finish(t, l, err) {
		s = nil
	}
	t.say(formatter.CollectionScore(s))
}

// checkAnomaly feeds the collection score into the predictor. A failed prediction
// is still a reply: its text stands in for the model output.
func (c *Controller) checkAnomaly(t *turn) {
	l := c.begin(journal.KindAnomaly)
	s, err := c.fetcher.CollectionScore(t.ctx, t.conv.ContractAddress)
	if err == nil && s == nil {
		err = nftapi.ErrNoData
	}
	if err != nil {
		c.finish(t, l, err)
		t.say(formatter.FetchFailed(formatter.FailureAnomaly))
		return
	}
	p := c.predictor.Predict(t.ctx, anomaly.FeaturesFromScore(s))
	c.finish(t, l, p.Err)
	t.say(formatter.AnomalyPrediction(p.Text))
}

func (c *Controller) pricePrediction(t *turn, tokenID string) {
	l := c.begin(journal.KindPrice)
	l.tokenID = tokenID
	p, err := c.fetcher.PricePrediction(t.ctx, t.conv.ContractAddress, tokenID)
	if err == nil && p == nil {
		err = nftapi.ErrNoData
	}
	if !c.finish(t, l, err) {
		p = nil
	}
	t.say(formatter.PricePrediction(p))
}

func (c *Controller) holderTrend(t *turn) {
	l := c.begin(journal.KindHolderTrend)
	img, err := c.chart(t, func() (*nftapi.Trend, error) {
		return c.fetcher.HolderTrend(t.ctx, t.conv.ContractAddress)
	}, c.renderer.HolderTrend)
	if !c.finish(t, l, err) {
		t.say(formatter.FetchFailed(formatter.FailureHolders))
		return
	}
	t.plot(img)
}

func (c *Controller) analytics(t *turn, r nftapi.Range) {
	l := c.begin(journal.KindAnalytics)
	l.rng = r
	img, err := c.chart(t, func() (*nftapi.Trend, error) {
		return c.fetcher.Analytics(t.ctx, t.conv.ContractAddress, r)
	}, c.renderer.Analytics)
	if !c.finish(t, l, err) {
		t.say(formatter.FetchFailed(formatter.FailureAnalytics))
		return
	}
	t.plot(img)
}

func (c *Controller) marketTrend(t *turn, r nftapi.Range) {
	l := c.begin(journal.KindMarketTrend)
	l.rng = r
	img, err := c.chart(t, func() (*nftapi.Trend, error) {
		return c.fetcher.MarketPriceTrend(t.ctx, t.conv.ContractAddress, r)
	}, c.renderer.MarketTrend)
	if !c.finish(t, l, err) {
		t.say(formatter.FetchFailed(formatter.FailureTrend))
		return
	}
	t.plot(img)
	t.say(formatter.TrendsDisplayed)
}

type renderFunc func(ctx context.Context, tr *nftapi.Trend) (*charts.Image, error)

// chart fetches a trend and renders it; an empty trend counts as no data.
func (c *Controller) chart(t *turn, fetch func() (*nftapi.Trend, error), render renderFunc) (*charts.Image, error) {
	tr, err := fetch()
	if err != nil {
		return nil, err
	}
	if tr == nil || len(tr.Series) == 0 {
		return nil, nftapi.ErrNoData
	}
	img, err := render(t.ctx, tr)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, charts.ErrNotEnoughPoints
	}
	return img, nil
}
