// Package charts renders NFT trends into PNG images.
package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/m3rciful/nftbot/core/logger"
	"github.com/m3rciful/nftbot/internal/nftapi"
)

// ErrNotEnoughPoints is returned when no series has at least two samples.
var ErrNotEnoughPoints = errors.New("charts: not enough points to plot")

const component = "charts"

// Image is a rendered chart ready to be sent as a photo.
type Image struct {
	Name    string
	Caption string
	PNG     []byte
}

// Renderer draws trend charts. The zero value uses default dimensions.
type Renderer struct {
	Width  int
	Height int
}

// New returns a Renderer with default dimensions.
func New() *Renderer {
	return &Renderer{Width: 1024, Height: 512}
}

// HolderTrend plots the holder count of a collection over time.
func (r *Renderer) HolderTrend(ctx context.Context, t *nftapi.Trend) (*Image, error) {
	return r.render(ctx, "holder_trend", "Holder Trend", t, false)
}

// Analytics plots the analytics series for the trend's range on one axis.
func (r *Renderer) Analytics(ctx context.Context, t *nftapi.Trend) (*Image, error) {
	return r.render(ctx, "analytics", "Analytics"+rangeSuffix(t), t, false)
}

// MarketTrend plots market cap and price ceiling; the second series uses the right axis.
func (r *Renderer) MarketTrend(ctx context.Context, t *nftapi.Trend) (*Image, error) {
	return r.render(ctx, "market_trend", "MarketCap & Price Ceiling"+rangeSuffix(t), t, true)
}

func (r *Renderer) render(ctx context.Context, name, title string, t *nftapi.Trend, dualAxis bool) (*Image, error) {
	start := time.Now()
	img, err := r.draw(name, title, t, dualAxis)
	attrs := []slog.Attr{
		slog.String("chart", name),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	}
	if err != nil {
		logger.Debug(ctx, component, "charts.render", append(attrs, slog.String("status", "fail"), slog.String("err", err.Error()))...)
		return nil, err
	}
	logger.Debug(ctx, component, "charts.render", append(attrs, slog.String("status", "ok"), slog.Int("bytes", len(img.PNG)))...)
	return img, nil
}

func (r *Renderer) draw(name, title string, t *nftapi.Trend, dualAxis bool) (*Image, error) {
	if t == nil {
		return nil, ErrNotEnoughPoints
	}

	series := make([]chart.Series, 0, len(t.Series))
	for _, s := range t.Series {
		if len(s.Points) < 2 {
			continue
		}
		ts := chart.TimeSeries{
			Name:    displayName(s.Name),
			XValues: make([]time.Time, len(s.Points)),
			YValues: make([]float64, len(s.Points)),
		}
		for j, p := range s.Points {
			ts.XValues[j] = p.Time
			ts.YValues[j] = p.Value
		}
		// Only the second plotted series goes on the secondary axis; the primary must never be empty.
		if dualAxis && len(series) == 1 {
			ts.YAxis = chart.YAxisSecondary
		}
		series = append(series, ts)
	}
	if len(series) == 0 {
		return nil, ErrNotEnoughPoints
	}

	width, height := r.Width, r.Height
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 512
	}

	graph := chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: dateFormatter(t.Range),
		},
		YAxis: chart.YAxis{
			Name: series[0].GetName(),
		},
		Series: series,
	}
	if dualAxis && len(series) > 1 {
		graph.YAxisSecondary = chart.YAxis{Name: series[1].GetName()}
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("charts: render %s: %w", name, err)
	}
	return &Image{
		Name:    name + ".png",
		Caption: title,
		PNG:     buf.Bytes(),
	}, nil
}

func rangeSuffix(t *nftapi.Trend) string {
	if t == nil || t.Range == "" {
		return ""
	}
	if t.Range == nftapi.RangeAll {
		return " (All)"
	}
	return " (" + string(t.Range) + ")"
}

// displayName turns "price_ceiling" into "Price Ceiling".
func displayName(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// dateFormatter shows hours for the 24h range and calendar dates otherwise.
func dateFormatter(r nftapi.Range) chart.ValueFormatter {
	layout := "2006-01-02"
	if r == nftapi.Range24h {
		layout = "15:04"
	}
	return func(v interface{}) string {
		switch tv := v.(type) {
		case time.Time:
			return tv.UTC().Format(layout)
		case float64:
			return time.Unix(0, int64(tv)).UTC().Format(layout)
		}
		return ""
	}
}
