// Package status implements the single-slot status banner shown after every board
// operation.
//
// A Banner holds at most one message. Showing a new message replaces the current one
// immediately and restarts the hide timer, so a message is always visible for the full
// delay measured from the most recent Show call.
//
// Example usage:
//
//	banner := status.NewBanner(5 * time.Second)
//	banner.Show("Signed up a@b.com for Chess Club", status.SeveritySuccess)
//	msg := banner.Current() // msg.Visible == true until 5s have passed
package status

import (
	"sync"
	"time"
)

// DefaultHideDelay is how long a message stays visible.
const DefaultHideDelay = 5 * time.Second

// Severity selects the visual treatment of a message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Message is the banner's current content.
type Message struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity,omitempty"`
	Visible  bool     `json:"visible"`
}

// Banner is a status message slot with an auto-hide timer.
// All methods are safe for concurrent use.
type Banner struct {
	mu         sync.Mutex
	clock      Clock
	delay      time.Duration
	msg        Message
	timer      Timer
	generation uint64
}

// Option configures a Banner.
type Option func(*Banner)

// WithClock replaces the clock used to schedule the hide timer.
func WithClock(clock Clock) Option {
	return func(b *Banner) {
		b.clock = clock
	}
}

// NewBanner creates an empty, hidden Banner. A non-positive delay selects
// DefaultHideDelay.
func NewBanner(delay time.Duration, opts ...Option) *Banner {
	if delay <= 0 {
		delay = DefaultHideDelay
	}
	b := &Banner{
		clock: RealClock(),
		delay: delay,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Show displays text with the given severity and (re)starts the hide timer.
// Any pending timer from an earlier message is cancelled first.
func (b *Banner) Show(text string, severity Severity) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	b.generation++
	gen := b.generation

	b.msg = Message{Text: text, Severity: severity, Visible: true}
	b.timer = b.clock.AfterFunc(b.delay, func() { b.expire(gen) })
}

// Current returns a copy of the banner's message.
func (b *Banner) Current() Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.msg
}

// Delay returns the configured hide delay.
func (b *Banner) Delay() time.Duration {
	return b.delay
}

// expire hides the message if no newer Show happened since the timer was armed.
// Stop can lose the race against a timer that is already running, hence the check.
func (b *Banner) expire(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.generation {
		return
	}
	b.msg.Visible = false
	b.timer = nil
}
