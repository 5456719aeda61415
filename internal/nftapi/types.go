package nftapi

import (
	"fmt"
	"strings"
	"time"
)

// Range selects the time window of trend endpoints.
type Range string

const (
	Range24h Range = "24h"
	Range7d  Range = "7d"
	Range30d Range = "30d"
	RangeAll Range = "all"
)

// ParseRange accepts 24h, 7d, 30d and all (case-insensitive).
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case Range24h, Range7d, Range30d, RangeAll:
		return r, nil
	}
	return "", fmt.Errorf("nftapi: unknown range %q", s)
}

// WalletProfile summarizes a wallet's NFT activity.
type WalletProfile struct {
	NFTCount          Value             `json:"nft_count"`
	WashtradeNFTCount Value             `json:"washtrade_nft_count"`
	MarketplaceReward MarketplaceReward `json:"nft_marketplace_reward"`
}

// MarketplaceReward lists reward balances per marketplace.
type MarketplaceReward struct {
	Blur  Value `json:"blur"`
	Looks Value `json:"looks"`
	Rari  Value `json:"rari"`
}

// CollectionMetadata describes an NFT collection.
type CollectionMetadata struct {
	Collection     Value `json:"collection"`
	Description    Value `json:"description"`
	ImageURL       Value `json:"image_url"`
	ExternalURL    Value `json:"external_url"`
	MarketplaceURL Value `json:"marketplace_url"`
	InstagramURL   Value `json:"instagram_url"`
	DiscordURL     Value `json:"discord_url"`
	TwitterURL     Value `json:"twitter_url"`
	MediumURL      Value `json:"medium_url"`
}

// CollectionScore holds the scoring metrics of a collection.
// The last three fields feed the anomaly predictor.
type CollectionScore struct {
	CollectionScore      Value `json:"collection_score"`
	FearAndGreedIndex    Value `json:"fear_and_greed_index"`
	MarketDominanceScore Value `json:"market_dominance_score"`
	WashtradeIndex       Value `json:"washtrade_index"`
	ZeroProfitTrades     Value `json:"zero_profit_trades"`
	LossMakingVolume     Value `json:"loss_making_volume"`
}

// PricePrediction is the estimated price of a single token.
type PricePrediction struct {
	PriceEstimate Value `json:"price_estimate"`
	LowerBound    Value `json:"price_estimate_lower_bound"`
	UpperBound    Value `json:"price_estimate_upper_bound"`
}

// Point is one sample of a time series.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is a named time series, e.g. "holders".
type Series struct {
	Name   string
	Points []Point
}

// Trend groups the series returned by one trend endpoint.
type Trend struct {
	Kind   string
	Range  Range
	Series []Series
}

// Find returns the series with the given name.
func (t *Trend) Find(name string) (Series, bool) {
	if t == nil {
		return Series{}, false
	}
	for _, s := range t.Series {
		if s.Name == name {
			return s, true
		}
	}
	return Series{}, false
}
