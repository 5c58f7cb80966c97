package relay

import (
	"sync"
	"time"
)

// AttemptTTL bounds how long an unclaimed login result is held. The
// opener treats expiry without a message as a failed attempt, which
// covers the popup being closed mid-flight.
const AttemptTTL = 2 * time.Minute

// Message is the narrow popup-to-opener channel type. Status is
// "success" or "error"; Message carries the user-displayable reason
// on error only.
type Message struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func Success() Message {
	return Message{Status: "success"}
}

func Error(message string) Message {
	return Message{Status: "error", Message: message}
}

type attempt struct {
	ch     chan Message
	timer  *time.Timer
	closed bool
}

// Relay pairs one login popup with its opener, keyed by the attempt's
// state token. Each attempt carries at most one message and expires
// after AttemptTTL.
type Relay struct {
	mu       sync.Mutex
	attempts map[string]*attempt
}

func New() *Relay {
	return &Relay{
		attempts: make(map[string]*attempt),
	}
}

// Subscribe opens the opener side of an attempt. The returned channel
// yields at most one message and is closed on expiry. cancel releases
// the attempt early (opener navigated away).
func (r *Relay) Subscribe(attemptID string) (<-chan Message, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.attempts[attemptID]; ok {
		return a.ch, func() { r.remove(attemptID) }
	}

	a := &attempt{
		ch: make(chan Message, 1),
	}
	a.timer = time.AfterFunc(AttemptTTL, func() {
		r.remove(attemptID)
	})
	r.attempts[attemptID] = a

	return a.ch, func() { r.remove(attemptID) }
}

// Publish delivers the popup's result to the opener. Reports false if
// no opener is waiting (attempt expired or never subscribed).
func (r *Relay) Publish(attemptID string, msg Message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.attempts[attemptID]
	if !ok || a.closed {
		return false
	}
	delete(r.attempts, attemptID)

	a.timer.Stop()
	a.ch <- msg // buffered: never blocks under the lock
	close(a.ch)
	a.closed = true
	return true
}

func (r *Relay) remove(attemptID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.attempts[attemptID]
	if !ok {
		return
	}
	delete(r.attempts, attemptID)

	if !a.closed {
		a.timer.Stop()
		close(a.ch)
		a.closed = true
	}
}

// Pending returns the number of attempts still awaiting a result.
func (r *Relay) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attempts)
}
