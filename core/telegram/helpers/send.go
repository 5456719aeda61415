package helpers

import (
	"bytes"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/m3rciful/nftbot/core/logger"
	"github.com/m3rciful/nftbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// enqueueWait bounds how long a handler waits for room on its chat's send shard.
const enqueueWait = 5 * time.Second

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

// sendAsync queues run on the chat's shard behind earlier replies. A shard
// that stays full past enqueueWait drops the reply with an error; running it
// inline would let it overtake the queued ones. After Close the queue is
// gone, so the reply runs inline.
func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	err := disp.EnqueueWait(ctx, action, endpoint, run, enqueueWait)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sender.ErrQueueClosed):
		logger.Warn(ctx, "tg.sender", "queue.closed.inline",
			slog.String("action", action),
			slog.String("endpoint", endpoint),
		)
		return run()
	default:
		logger.Error(ctx, "tg.sender", "queue.dropped",
			slog.String("action", action),
			slog.String("endpoint", endpoint),
			slog.String("err", err.Error()),
		)
		return err
	}
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	if err := sendText(c, text, firstOpts(opts)); err != nil {
		return err
	}
	RepliesFrom(c).addText("")
	return nil
}

// SendMenu sends a menu title with its inline keyboard and records the menu name.
func SendMenu(c tele.Context, name, text string, markup *tele.ReplyMarkup) error {
	if err := sendText(c, text, &tele.SendOptions{ReplyMarkup: markup}); err != nil {
		return err
	}
	RepliesFrom(c).addText(name)
	return nil
}

// SendPhoto uploads an in-memory image with an optional caption.
// The reader is rebuilt on every attempt so retries resend the full image.
func SendPhoto(c tele.Context, image []byte, caption string) error {
	if len(image) == 0 {
		return errors.New("helpers: empty photo")
	}
	err := sendAsync(c, "send.photo", "sendPhoto", func() error {
		photo := &tele.Photo{
			File:    tele.FromReader(bytes.NewReader(image)),
			Caption: caption,
		}
		return c.Send(photo)
	})
	if err != nil {
		return err
	}
	RepliesFrom(c).addPhoto()
	return nil
}

func sendText(c tele.Context, text string, opts *tele.SendOptions) error {
	return sendAsync(c, "send.text", "sendMessage", func() error {
		if opts != nil {
			return c.Send(text, opts)
		}
		return c.Send(text)
	})
}

func firstOpts(opts []*tele.SendOptions) *tele.SendOptions {
	if len(opts) > 0 {
		return opts[0]
	}
	return nil
}
