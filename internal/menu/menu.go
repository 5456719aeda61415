// Package menu is the static catalog of inline menus shown by the bot.
package menu

import "fmt"

// Name identifies a menu.
type Name string

const (
	Main           Name = "main"
	Details        Name = "details"
	TrendRange     Name = "trend_range"
	AnalyticsRange Name = "analytics_range"
)

// Event labels carried by menu buttons.
const (
	EventProfile        = "profile"
	EventAskForContract = "ask_for_contract"
	EventExit           = "exit"

	EventShowMetadata     = "show_metadata"
	EventShowScore        = "show_score"
	EventShowPrice        = "show_price"
	EventCheckAnomaly     = "check_anomaly"
	EventShowAnalytics    = "show_analytics"
	EventCollectionHolder = "collection_holder"
	EventMarketTrend      = "mpc"
	EventGoBack           = "go_back"

	EventTrend24h = "trend_24h"
	EventTrend7d  = "trend_7d"
	EventTrend30d = "trend_30d"
	EventTrendAll = "trend_all"

	EventAnalytics24h = "analytics_24h"
	EventAnalytics7d  = "analytics_7d"
	EventAnalyticsAll = "analytics_all"
)

// Option is one button: what the user sees and the event it produces.
type Option struct {
	Label string
	Event string
}

// Menu is a titled, ordered list of options.
type Menu struct {
	Name    Name
	Title   string
	Options []Option
}

var catalog = map[Name]Menu{
	Main: {
		Name:  Main,
		Title: "Choose an option:",
		Options: []Option{
			{"Show Wallet Profile", EventProfile},
			{"Search for NFTs", EventAskForContract},
			{"Exit", EventExit},
		},
	},
	Details: {
		Name:  Details,
		Title: "What would you like to do next?",
		Options: []Option{
			{"Show Collection Metadata", EventShowMetadata},
			{"Show Collection Score", EventShowScore},
			{"Show Predicted Price", EventShowPrice},
			{"Check Anomaly", EventCheckAnomaly},
			{"Show Analytics", EventShowAnalytics},
			{"Show Holder Trend", EventCollectionHolder},
			{"MarketCap & Price Ceiling Trend", EventMarketTrend},
			{"Go Back", EventGoBack},
		},
	},
	TrendRange: {
		Name:  TrendRange,
		Title: "Select the time range for MarketCap & Price Ceiling Trends:",
		Options: []Option{
			{"24h", EventTrend24h},
			{"7d", EventTrend7d},
			{"30d", EventTrend30d},
			{"All", EventTrendAll},
		},
	},
	AnalyticsRange: {
		Name:  AnalyticsRange,
		Title: "Select the time range for analytics:",
		Options: []Option{
			{"24h", EventAnalytics24h},
			{"7d", EventAnalytics7d},
			{"All", EventAnalyticsAll},
		},
	},
}

// order fixes iteration order for Names and Events.
var order = []Name{Main, Details, TrendRange, AnalyticsRange}

// Get returns the menu by name. Unknown names are a programming error and panic.
func Get(name Name) Menu {
	m, ok := catalog[name]
	if !ok {
		panic(fmt.Sprintf("menu: unknown menu %q", name))
	}
	out := m
	out.Options = append([]Option(nil), m.Options...)
	return out
}

// Render returns the ordered options of a menu.
func Render(name Name) []Option {
	return Get(name).Options
}

// Names lists all menus in catalog order.
func Names() []Name {
	return append([]Name(nil), order...)
}

// Events lists every event label produced by any menu, in catalog order.
func Events() []string {
	var out []string
	for _, n := range order {
		for _, o := range catalog[n].Options {
			out = append(out, o.Event)
		}
	}
	return out
}
