package helpers

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

const repliesKey = "replies"

// Replies tallies what handlers queued for the user while serving one update.
// Sends are asynchronous, so the tally counts accepted jobs, not delivered messages.
type Replies struct {
	mu     sync.Mutex
	texts  int
	photos int
	menus  []string
}

// TrackReplies installs a fresh tally on c and returns it.
func TrackReplies(c tele.Context) *Replies {
	r := &Replies{}
	c.Set(repliesKey, r)
	return r
}

// RepliesFrom returns the tally installed on c, or nil when none is tracked.
func RepliesFrom(c tele.Context) *Replies {
	if c == nil {
		return nil
	}
	r, _ := c.Get(repliesKey).(*Replies)
	return r
}

// Messages is the total of queued texts, menus and photos.
func (r *Replies) Messages() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.texts + r.photos
}

// Photos is the number of queued chart images.
func (r *Replies) Photos() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.photos
}

// Menus lists the names of the menus shown, in send order.
func (r *Replies) Menus() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.menus...)
}

func (r *Replies) addText(menu string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.texts++
	if menu != "" {
		r.menus = append(r.menus, menu)
	}
	r.mu.Unlock()
}

func (r *Replies) addPhoto() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.photos++
	r.mu.Unlock()
}
