package app

import (
	"context"

	"github.com/m3rciful/nftbot/core/telegram/helpers"
	"github.com/m3rciful/nftbot/core/telegram/keyboard"
	"github.com/m3rciful/nftbot/internal/charts"
	"github.com/m3rciful/nftbot/internal/menu"

	tele "gopkg.in/telebot.v4"
)

// chatDestination sends controller replies back to the chat of a telebot context.
type chatDestination struct {
	c tele.Context
}

func (d chatDestination) SendText(_ context.Context, text string) error {
	return helpers.SendText(d.c, text)
}

func (d chatDestination) SendMenu(_ context.Context, m menu.Menu) error {
	return helpers.SendMenu(d.c, string(m.Name), m.Title, menuMarkup(m))
}

func (d chatDestination) SendChart(_ context.Context, img *charts.Image) error {
	return helpers.SendPhoto(d.c, img.PNG, img.Caption)
}

// menuMarkup renders one button per row; the event label is the callback unique.
func menuMarkup(m menu.Menu) *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(m.Options))
	for _, o := range m.Options {
		btns = append(btns, keyboard.InlineBtn{Text: o.Label, Unique: o.Event})
	}
	return keyboard.InlineButtons(btns)
}
