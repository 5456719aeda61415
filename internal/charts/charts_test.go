package charts

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/nftbot/internal/nftapi"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func series(name string, values ...float64) nftapi.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := nftapi.Series{Name: name}
	for i, v := range values {
		s.Points = append(s.Points, nftapi.Point{Time: base.Add(time.Duration(i) * 24 * time.Hour), Value: v})
	}
	return s
}

func TestMarketTrendRendersPNG(t *testing.T) {
	tr := &nftapi.Trend{
		Kind:   "market",
		Range:  nftapi.Range7d,
		Series: []nftapi.Series{series("marketcap", 100, 120, 90), series("price_ceiling", 1, 3, 2)},
	}
	img, err := New().MarketTrend(context.Background(), tr)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(img.PNG, pngMagic))
	require.Equal(t, "market_trend.png", img.Name)
	require.Equal(t, "MarketCap & Price Ceiling (7d)", img.Caption)
}

func TestMarketTrendWithSparseFirstSeries(t *testing.T) {
	tr := &nftapi.Trend{
		Kind:   "market",
		Range:  nftapi.Range30d,
		Series: []nftapi.Series{series("marketcap", 5), series("price_ceiling", 1, 2, 3)},
	}
	img, err := New().MarketTrend(context.Background(), tr)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(img.PNG, pngMagic))
}

func TestHolderTrendRendersPNG(t *testing.T) {
	tr := &nftapi.Trend{Kind: "holders", Range: nftapi.RangeAll, Series: []nftapi.Series{series("holders", 10, 12, 15, 14)}}
	img, err := (&Renderer{}).HolderTrend(context.Background(), tr)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(img.PNG, pngMagic))
	require.Equal(t, "Holder Trend", img.Caption)
}

func TestAnalyticsCaptionIncludesRange(t *testing.T) {
	tr := &nftapi.Trend{Range: nftapi.RangeAll, Series: []nftapi.Series{series("volume", 1, 2), series("sales", 3, 5)}}
	img, err := New().Analytics(context.Background(), tr)
	require.NoError(t, err)
	require.Equal(t, "Analytics (All)", img.Caption)
}

func TestNotEnoughPoints(t *testing.T) {
	_, err := New().HolderTrend(context.Background(), &nftapi.Trend{Series: []nftapi.Series{series("holders", 1)}})
	require.ErrorIs(t, err, ErrNotEnoughPoints)

	_, err = New().HolderTrend(context.Background(), nil)
	require.ErrorIs(t, err, ErrNotEnoughPoints)
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Price Ceiling", displayName("price_ceiling"))
	require.Equal(t, "Holders", displayName("holders"))
}

func TestDateFormatter(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	require.Equal(t, "2024-03-05", dateFormatter(nftapi.Range7d)(ts))
	require.Equal(t, "14:30", dateFormatter(nftapi.Range24h)(float64(ts.UnixNano())))
}
