package present

import (
	"sync"
	"time"
)

// DefaultNoticeTTL is how long a confirmation stays on screen.
const DefaultNoticeTTL = 5 * time.Second

// Notice is a flash message that clears itself after a delay.
type Notice struct {
	mu        sync.Mutex
	text      string
	ttl       time.Duration
	timer     *time.Timer
	gen       uint64
	onDismiss func()
}

// NewNotice returns an empty notice. onDismiss, if set, runs whenever a
// shown message goes away, on its own or through Dismiss.
func NewNotice(ttl time.Duration, onDismiss func()) *Notice {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Notice{ttl: ttl, onDismiss: onDismiss}
}

// Show displays text, replacing any current message and restarting the
// countdown.
func (n *Notice) Show(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.text = text
	n.gen++
	gen := n.gen
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(gen) })
}

// Text returns the message on screen, or "".
func (n *Notice) Text() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.text
}

// Dismiss clears the message now.
func (n *Notice) Dismiss() {
	n.mu.Lock()
	n.gen++
	had := n.clearLocked()
	hook := n.onDismiss
	n.mu.Unlock()

	if had && hook != nil {
		hook()
	}
}

// expire runs on the timer goroutine. A timer that fired while a newer
// message was being shown must not clear it.
func (n *Notice) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		return
	}
	had := n.clearLocked()
	hook := n.onDismiss
	n.mu.Unlock()

	if had && hook != nil {
		hook()
	}
}

func (n *Notice) clearLocked() bool {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	had := n.text != ""
	n.text = ""
	return had
}
