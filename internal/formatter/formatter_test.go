package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/nftbot/internal/journal"
	"github.com/m3rciful/nftbot/internal/nftapi"
)

func TestCollectionScore(t *testing.T) {
	got := CollectionScore(&nftapi.CollectionScore{
		CollectionScore:      nftapi.Number("42"),
		FearAndGreedIndex:    nftapi.Number("7"),
		MarketDominanceScore: nftapi.Number("3"),
	})
	require.Equal(t, "Collection Score: 42\nFear and Greed Index: 7\nMarket Dominance Score: 3", got)
	require.Equal(t, "Failed to retrieve collection score or no data available.", CollectionScore(nil))
}

func TestPricePrediction(t *testing.T) {
	got := PricePrediction(&nftapi.PricePrediction{
		PriceEstimate: nftapi.Number("1.2"),
		LowerBound:    nftapi.Number("1.0"),
		UpperBound:    nftapi.Number("1.5"),
	})
	require.Equal(t, "Price Estimate: 1.2\nLower Bound: 1.0\nUpper Bound: 1.5", got)
	require.Equal(t, "Token Id not found", PricePrediction(nil))
}

func TestWalletProfileDefaults(t *testing.T) {
	got := WalletProfile(&nftapi.WalletProfile{
		NFTCount:          nftapi.Number("5"),
		MarketplaceReward: nftapi.MarketplaceReward{Blur: nftapi.Number("0.5")},
	})
	require.Equal(t, "NFT Count: 5\nWashtrade NFT Count: N/A\nMarketplace Rewards:\n - Blur: 0.5\n - Looks: N/A\n - Rari: N/A", got)
}

func TestCollectionMetadataDefaults(t *testing.T) {
	got := CollectionMetadata(&nftapi.CollectionMetadata{
		Collection: nftapi.Text("Bored Apes"),
		TwitterURL: nftapi.Text("https://twitter.com/boredapes"),
	})
	lines := strings.Split(got, "\n")
	require.Equal(t, []string{
		"Collection Name: Bored Apes",
		"Description: No description available.",
		"Image URL: No image available.",
		"Links:",
		" - Website: No website URL available.",
		" - Marketplace: No marketplace URL available.",
		" - Instagram: No Instagram URL available.",
		" - Discord: No Discord URL available.",
		" - Twitter: https://twitter.com/boredapes",
		" - Medium: No Medium URL available.",
	}, lines)
}

func TestFetchFailed(t *testing.T) {
	require.Equal(t, "Failed to retrieve holder data or no data available.", FetchFailed(FailureHolders))
	require.Equal(t, "Failed to retrieve score data or no data available.", FetchFailed(FailureAnomaly))
}

func TestAnomalyPrediction(t *testing.T) {
	require.Equal(t, "Anomaly Prediction: Error with the prediction service", AnomalyPrediction("Error with the prediction service"))
}

func TestHistory(t *testing.T) {
	require.Equal(t, NoHistory, History(nil))
	got := History([]journal.Entry{{
		Kind:            journal.KindMarketTrend,
		ContractAddress: "0xC",
		TimeRange:       "7d",
		Outcome:         journal.OutcomeOK,
		CreatedAt:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}})
	require.Equal(t, "Recent lookups:\n - 2024-05-01 12:00:00 market_trend (7d) 0xC: ok", got)
}
