// Package formatter turns collaborator results into the texts the bot sends.
// Every function is pure.
package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/m3rciful/nftbot/internal/journal"
	"github.com/m3rciful/nftbot/internal/nftapi"
)

// Fixed prompts and replies.
const (
	Greeting       = "Send me your wallet address."
	Farewell       = "Thank you for using our service. Feel free to return anytime!"
	ContractPrompt = "Please send the contract address for the NFT collection."
	TokenPrompt    = "Please send the token ID for price prediction."

	MissingContract = "No contract address found. Please search for NFTs first."
	MissingWallet   = "Please send your wallet address first."

	TokenNotFound   = "Token Id not found"
	TrendsDisplayed = "The trends have been displayed above."
	NoHistory       = "No lookups yet."
)

const na = "N/A"

// Failure names what could not be retrieved.
type Failure string

const (
	FailureProfile   Failure = "wallet profile"
	FailureMetadata  Failure = "NFT data"
	FailureScore     Failure = "collection score"
	FailureAnomaly   Failure = "score data"
	FailureHolders   Failure = "holder data"
	FailureTrend     Failure = "trend data"
	FailureAnalytics Failure = "analytics data"
)

// FetchFailed renders the apology shown when a lookup returned nothing usable.
func FetchFailed(what Failure) string {
	return fmt.Sprintf("Failed to retrieve %s or no data available.", what)
}

// WalletProfile renders a wallet profile.
func WalletProfile(p *nftapi.WalletProfile) string {
	if p == nil {
		return FetchFailed(FailureProfile)
	}
	r := p.MarketplaceReward
	return fmt.Sprintf("NFT Count: %s\nWashtrade NFT Count: %s\nMarketplace Rewards:\n - Blur: %s\n - Looks: %s\n - Rari: %s",
		p.NFTCount.Or(na),
		p.WashtradeNFTCount.Or(na),
		r.Blur.Or(na),
		r.Looks.Or(na),
		r.Rari.Or(na),
	)
}

// CollectionMetadata renders collection details and links.
func CollectionMetadata(m *nftapi.CollectionMetadata) string {
	if m == nil {
		return FetchFailed(FailureMetadata)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Collection Name: %s\n", m.Collection.Or(na))
	fmt.Fprintf(&b, "Description: %s\n", m.Description.Or("No description available."))
	fmt.Fprintf(&b, "Image URL: %s\n", m.ImageURL.Or("No image available."))
	b.WriteString("Links:\n")
	fmt.Fprintf(&b, " - Website: %s\n", m.ExternalURL.Or("No website URL available."))
	fmt.Fprintf(&b, " - Marketplace: %s\n", m.MarketplaceURL.Or("No marketplace URL available."))
	fmt.Fprintf(&b, " - Instagram: %s\n", m.InstagramURL.Or("No Instagram URL available."))
	fmt.Fprintf(&b, " - Discord: %s\n", m.DiscordURL.Or("No Discord URL available."))
	fmt.Fprintf(&b, " - Twitter: %s\n", m.TwitterURL.Or("No Twitter URL available."))
	fmt.Fprintf(&b, " - Medium: %s", m.MediumURL.Or("No Medium URL available."))
	return b.String()
}

// CollectionScore renders the three headline scores.
func CollectionScore(s *nftapi.CollectionScore) string {
	if s == nil {
		return FetchFailed(FailureScore)
	}
	return fmt.Sprintf("Collection Score: %s\nFear and Greed Index: %s\nMarket Dominance Score: %s",
		s.CollectionScore.Or(na),
		s.FearAndGreedIndex.Or(na),
		s.MarketDominanceScore.Or(na),
	)
}

// PricePrediction renders the estimate with its bounds, or TokenNotFound for nil.
func PricePrediction(p *nftapi.PricePrediction) string {
	if p == nil {
		return TokenNotFound
	}
	return fmt.Sprintf("Price Estimate: %s\nLower Bound: %s\nUpper Bound: %s",
		p.PriceEstimate.Or(na),
		p.LowerBound.Or(na),
		p.UpperBound.Or(na),
	)
}

// AnomalyPrediction renders the model verdict (or the failure text standing in for it).
func AnomalyPrediction(prediction string) string {
	return "Anomaly Prediction: " + prediction
}

// Sessions renders the admin diagnostics line.
func Sessions(n int) string {
	return fmt.Sprintf("Active conversations: %d", n)
}

// History renders recent journal entries, newest first.
func History(entries []journal.Entry) string {
	if len(entries) == 0 {
		return NoHistory
	}
	var b strings.Builder
	b.WriteString("Recent lookups:")
	for _, e := range entries {
		b.WriteString("\n - ")
		b.WriteString(e.CreatedAt.UTC().Format(time.DateTime))
		b.WriteString(" ")
		b.WriteString(e.Kind)
		if e.TimeRange != "" {
			b.WriteString(" (" + e.TimeRange + ")")
		}
		if e.ContractAddress != "" {
			b.WriteString(" " + e.ContractAddress)
		}
		if e.TokenID != "" {
			b.WriteString(" #" + e.TokenID)
		}
		b.WriteString(": " + e.Outcome)
	}
	return b.String()
}
