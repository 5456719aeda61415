package conversation

import (
	"context"
	"fmt"
	"sync"

	"github.com/m3rciful/nftbot/internal/anomaly"
	"github.com/m3rciful/nftbot/internal/charts"
	"github.com/m3rciful/nftbot/internal/journal"
	"github.com/m3rciful/nftbot/internal/menu"
	"github.com/m3rciful/nftbot/internal/nftapi"
)

type call struct {
	method string
	args   []string
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls []call

	profile  *nftapi.WalletProfile
	metadata *nftapi.CollectionMetadata
	score    *nftapi.CollectionScore
	price    *nftapi.PricePrediction
	trend    *nftapi.Trend
	err      error
}

func (f *fakeFetcher) record(method string, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{method: method, args: args})
}

func (f *fakeFetcher) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeFetcher) WalletProfile(_ context.Context, wallet string) (*nftapi.WalletProfile, error) {
	f.record("WalletProfile", wallet)
	return f.profile, f.err
}

func (f *fakeFetcher) CollectionMetadata(_ context.Context, contract string) (*nftapi.CollectionMetadata, error) {
	f.record("CollectionMetadata", contract)
	return f.metadata, f.err
}

func (f *fakeFetcher) CollectionScore(_ context.Context, contract string) (*nftapi.CollectionScore, error) {
	f.record("CollectionScore", contract)
	return f.score, f.err
}

func (f *fakeFetcher) PricePrediction(_ context.Context, contract, tokenID string) (*nftapi.PricePrediction, error) {
	f.record("PricePrediction", contract, tokenID)
	return f.price, f.err
}

func (f *fakeFetcher) HolderTrend(_ context.Context, contract string) (*nftapi.Trend, error) {
	f.record("HolderTrend", contract)
	return f.trend, f.err
}

func (f *fakeFetcher) Analytics(_ context.Context, contract string, r nftapi.Range) (*nftapi.Trend, error) {
	f.record("Analytics", contract, string(r))
	return f.trend, f.err
}

func (f *fakeFetcher) MarketPriceTrend(_ context.Context, contract string, r nftapi.Range) (*nftapi.Trend, error) {
	f.record("MarketPriceTrend", contract, string(r))
	return f.trend, f.err
}

type fakePredictor struct {
	got  []anomaly.Features
	resp anomaly.Prediction
}

func (p *fakePredictor) Predict(_ context.Context, f anomaly.Features) anomaly.Prediction {
	p.got = append(p.got, f)
	return p.resp
}

type fakeRenderer struct {
	calls int
	err   error
}

func (r *fakeRenderer) image(name string) (*charts.Image, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &charts.Image{Name: name, Caption: name, PNG: []byte{0x89}}, nil
}

func (r *fakeRenderer) HolderTrend(context.Context, *nftapi.Trend) (*charts.Image, error) {
	return r.image("holder_trend.png")
}

func (r *fakeRenderer) Analytics(context.Context, *nftapi.Trend) (*charts.Image, error) {
	return r.image("analytics.png")
}

func (r *fakeRenderer) MarketTrend(context.Context, *nftapi.Trend) (*charts.Image, error) {
	return r.image("market_trend.png")
}

type fakeJournal struct {
	entries []journal.Entry
	err     error
}

func (j *fakeJournal) Record(_ context.Context, e journal.Entry) error {
	j.entries = append(j.entries, e)
	return j.err
}

func (j *fakeJournal) Recent(_ context.Context, chatID int64, limit int) ([]journal.Entry, error) {
	var out []journal.Entry
	for i := len(j.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if j.entries[i].ChatID == chatID {
			out = append(out, j.entries[i])
		}
	}
	return out, nil
}

// recorder is a Destination that keeps a flat transcript.
type recorder struct {
	items []string
	err   error
}

func (r *recorder) SendText(_ context.Context, text string) error {
	r.items = append(r.items, "text:"+text)
	return r.err
}

func (r *recorder) SendMenu(_ context.Context, m menu.Menu) error {
	r.items = append(r.items, fmt.Sprintf("menu:%s", m.Name))
	return r.err
}

func (r *recorder) SendChart(_ context.Context, img *charts.Image) error {
	r.items = append(r.items, "chart:"+img.Name)
	return r.err
}

func (r *recorder) reset() []string {
	out := r.items
	r.items = nil
	return out
}
