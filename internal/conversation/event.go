package conversation

import (
	"fmt"
	"strings"

	"github.com/m3rciful/nftbot/internal/menu"
	"github.com/m3rciful/nftbot/internal/nftapi"
)

// Kind tags the variant held by an Event.
type Kind int

const (
	KindCommand Kind = iota + 1
	KindButton
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindButton:
		return "button"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Command is a slash command understood by the controller.
type Command string

const (
	CommandStart   Command = "start"
	CommandMenu    Command = "menu"
	CommandClear   Command = "clear"
	CommandHistory Command = "history"
)

// Action is what a menu button asks for.
type Action int

const (
	ActionProfile Action = iota + 1
	ActionAskForContract
	ActionExit
	ActionShowMetadata
	ActionShowScore
	ActionShowPrice
	ActionCheckAnomaly
	ActionShowAnalytics
	ActionCollectionHolder
	ActionMarketTrendMenu
	ActionGoBack
	ActionTrend
	ActionAnalytics
)

// Button is a decoded button press. Range is set for trend and analytics presses only.
type Button struct {
	Action Action
	Range  nftapi.Range
}

var buttons = map[string]Button{
	menu.EventProfile:          {Action: ActionProfile},
	menu.EventAskForContract:   {Action: ActionAskForContract},
	menu.EventExit:             {Action: ActionExit},
	menu.EventShowMetadata:     {Action: ActionShowMetadata},
	menu.EventShowScore:        {Action: ActionShowScore},
	menu.EventShowPrice:        {Action: ActionShowPrice},
	menu.EventCheckAnomaly:     {Action: ActionCheckAnomaly},
	menu.EventShowAnalytics:    {Action: ActionShowAnalytics},
	menu.EventCollectionHolder: {Action: ActionCollectionHolder},
	menu.EventMarketTrend:      {Action: ActionMarketTrendMenu},
	menu.EventGoBack:           {Action: ActionGoBack},
	menu.EventTrend24h:         {Action: ActionTrend, Range: nftapi.Range24h},
	menu.EventTrend7d:          {Action: ActionTrend, Range: nftapi.Range7d},
	menu.EventTrend30d:         {Action: ActionTrend, Range: nftapi.Range30d},
	menu.EventTrendAll:         {Action: ActionTrend, Range: nftapi.RangeAll},
	menu.EventAnalytics24h:     {Action: ActionAnalytics, Range: nftapi.Range24h},
	menu.EventAnalytics7d:      {Action: ActionAnalytics, Range: nftapi.Range7d},
	menu.EventAnalyticsAll:     {Action: ActionAnalytics, Range: nftapi.RangeAll},
}

var labels = func() map[Button]string {
	out := make(map[Button]string, len(buttons))
	for label, b := range buttons {
		out[b] = label
	}
	return out
}()

// ParseButton decodes an event label produced by the menu catalog.
func ParseButton(label string) (Button, bool) {
	b, ok := buttons[strings.TrimSpace(label)]
	return b, ok
}

// Label returns the event label of b, or "" for a button no menu produces.
func (b Button) Label() string { return labels[b] }

// Event is an inbound update normalized at the transport boundary.
type Event struct {
	Kind    Kind
	ChatID  int64
	Command Command
	Button  Button
	Text    string
}

// CommandEvent builds a command event.
func CommandEvent(chatID int64, cmd Command) Event {
	return Event{Kind: KindCommand, ChatID: chatID, Command: cmd}
}

// ButtonEvent builds a button event from its label; unknown labels report false.
func ButtonEvent(chatID int64, label string) (Event, bool) {
	b, ok := ParseButton(label)
	if !ok {
		return Event{}, false
	}
	return Event{Kind: KindButton, ChatID: chatID, Button: b}, true
}

// TextEvent builds a free-text event.
func TextEvent(chatID int64, text string) Event {
	return Event{Kind: KindText, ChatID: chatID, Text: text}
}

// Name is a short label for logs.
func (e Event) Name() string {
	switch e.Kind {
	case KindCommand:
		return "/" + string(e.Command)
	case KindButton:
		if l := e.Button.Label(); l != "" {
			return l
		}
		return fmt.Sprintf("action_%d", e.Button.Action)
	case KindText:
		return "text"
	}
	return "unknown"
}
