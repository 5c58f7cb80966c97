package relay

import (
	"testing"
)

func TestPublishReachesSubscriber(t *testing.T) {
	r := New()

	results, cancel := r.Subscribe("attempt-1")
	defer cancel()

	if !r.Publish("attempt-1", Success()) {
		t.Fatal("publish should find the waiting opener")
	}

	msg, ok := <-results
	if !ok {
		t.Fatal("channel closed before delivering the message")
	}
	if msg.Status != "success" || msg.Message != "" {
		t.Fatalf("msg = %+v, want bare success", msg)
	}

	if _, ok := <-results; ok {
		t.Fatal("channel should be closed after the single message")
	}
}

func TestErrorCarriesMessage(t *testing.T) {
	r := New()

	results, cancel := r.Subscribe("attempt-1")
	defer cancel()

	r.Publish("attempt-1", Error("Failed to get Naver token."))

	msg := <-results
	if msg.Status != "error" {
		t.Fatalf("status = %q, want error", msg.Status)
	}
	if msg.Message != "Failed to get Naver token." {
		t.Fatalf("message = %q", msg.Message)
	}
}

func TestPublishWithoutSubscriberIsDropped(t *testing.T) {
	r := New()

	if r.Publish("nobody", Success()) {
		t.Fatal("publish with no opener should report false")
	}
}

func TestPublishTwiceDeliversOnce(t *testing.T) {
	r := New()

	results, cancel := r.Subscribe("attempt-1")
	defer cancel()

	if !r.Publish("attempt-1", Success()) {
		t.Fatal("first publish should succeed")
	}
	if r.Publish("attempt-1", Error("late")) {
		t.Fatal("second publish should find the attempt gone")
	}

	msg := <-results
	if msg.Status != "success" {
		t.Fatalf("status = %q, want the first message", msg.Status)
	}
}

func TestCancelClosesChannel(t *testing.T) {
	r := New()

	results, cancel := r.Subscribe("attempt-1")
	cancel()

	if _, ok := <-results; ok {
		t.Fatal("cancel should close the channel without a message")
	}
	if r.Pending() != 0 {
		t.Fatalf("pending = %d after cancel, want 0", r.Pending())
	}
	if r.Publish("attempt-1", Success()) {
		t.Fatal("publish after cancel should report false")
	}
}

func TestAttemptsAreIndependent(t *testing.T) {
	r := New()

	one, cancelOne := r.Subscribe("attempt-1")
	two, cancelTwo := r.Subscribe("attempt-2")
	defer cancelOne()
	defer cancelTwo()

	if r.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", r.Pending())
	}

	r.Publish("attempt-2", Error("denied"))

	msg := <-two
	if msg.Status != "error" {
		t.Fatalf("attempt-2 status = %q, want error", msg.Status)
	}

	select {
	case msg, ok := <-one:
		t.Fatalf("attempt-1 received %+v (ok=%v), want nothing", msg, ok)
	default:
	}
}

func TestSubscribeTwiceSharesAttempt(t *testing.T) {
	r := New()

	first, cancel := r.Subscribe("attempt-1")
	defer cancel()
	second, _ := r.Subscribe("attempt-1")

	if first != second {
		t.Fatal("re-subscribing the same attempt should reuse its channel")
	}
	if r.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", r.Pending())
	}
}
