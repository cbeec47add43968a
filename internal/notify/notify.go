// Package notify holds the single transient error message shown to the user.
//
// The center never owns a timer. Notify hands back an Expiry that the caller
// schedules (a tea.Tick in the TUI) and later passes to Expire.
package notify

import "time"

// DefaultTimeout is how long a message stays visible.
const DefaultTimeout = 3000 * time.Millisecond

// Policy decides what a fired expiry clears.
type Policy int

const (
	// LatestWins re-arms the timer per message: only the expiry of the most
	// recent notification clears it.
	LatestWins Policy = iota
	// Legacy lets every expiry clear whatever is showing, so an older timer
	// can cut a newer message short.
	Legacy
)

// Expiry describes one scheduled clear.
type Expiry struct {
	Seq   uint64
	After time.Duration
}

type Center struct {
	message string
	seq     uint64
	timeout time.Duration
	policy  Policy
}

func New(timeout time.Duration, policy Policy) *Center {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Center{timeout: timeout, policy: policy}
}

// Notify replaces the visible message. It does not cancel earlier expiries.
func (c *Center) Notify(message string) Expiry {
	c.seq++
	c.message = message
	return Expiry{Seq: c.seq, After: c.timeout}
}

// Expire applies a fired timer and reports whether it cleared the message.
func (c *Center) Expire(x Expiry) bool {
	if c.message == "" {
		return false
	}
	if c.policy == LatestWins && x.Seq != c.seq {
		return false
	}
	c.message = ""
	return true
}

// Dismiss clears the message now; outstanding expiries become no-ops.
func (c *Center) Dismiss() {
	c.message = ""
}

func (c *Center) Message() string { return c.message }

func (c *Center) Visible() bool { return c.message != "" }
