package sse

import (
	"strings"
	"testing"
	"time"
)

func recvMsg(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return ""
}

func TestSubscribeAndPublish(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	if got := b.ClientCount(); got != 1 {
		t.Fatalf("ClientCount = %d, want 1", got)
	}

	b.Publish(Event{Type: "ping", Data: map[string]string{"k": "v"}})
	msg := recvMsg(t, ch)
	if !strings.Contains(msg, "event: ping") || !strings.Contains(msg, `"k":"v"`) {
		t.Errorf("message = %q", msg)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	b.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Error("channel not closed")
	}
	if got := b.ClientCount(); got != 0 {
		t.Errorf("ClientCount = %d, want 0", got)
	}
}

func TestPublishChangeEmitsEntityEvent(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	b.PublishChange("note", "created", "n1")

	msg := recvMsg(t, ch)
	if !strings.Contains(msg, "event: note.created") || !strings.Contains(msg, `"id":"n1"`) {
		t.Errorf("message = %q", msg)
	}
}

func TestFeedUpdatedThrottled(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()

	// First change also produces feed.updated.
	b.PublishChange("note", "updated", "n1")
	first := recvMsg(t, ch)
	if !strings.Contains(first, "note.updated") {
		t.Fatalf("first message = %q", first)
	}
	feed := recvMsg(t, ch)
	if !strings.Contains(feed, "feed.updated") {
		t.Fatalf("expected feed.updated, got %q", feed)
	}

	// A second change inside the throttle window emits only the entity event.
	b.PublishChange("thread", "updated", "t1")
	second := recvMsg(t, ch)
	if !strings.Contains(second, "thread.updated") {
		t.Fatalf("second message = %q", second)
	}
	select {
	case msg := <-ch:
		t.Errorf("unexpected extra event %q", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPublishStoreChanged(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()

	ch := b.Subscribe()
	b.PublishStoreChanged("elysia:notes")

	msg := recvMsg(t, ch)
	if !strings.Contains(msg, "event: store.changed") || !strings.Contains(msg, `"key":"elysia:notes"`) {
		t.Errorf("message = %q", msg)
	}
}

func TestCloseIsSafe(t *testing.T) {
	b := NewBroker(time.Hour)
	ch := b.Subscribe()
	b.Close()
	b.Close() // second close is a no-op

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Error("channel not closed on broker close")
	}

	// Post-close calls must not panic or block.
	b.Publish(Event{Type: "ping"})
	b.PublishChange("note", "created", "x")
	if got := b.ClientCount(); got != 0 {
		t.Errorf("ClientCount after close = %d", got)
	}
	post := b.Subscribe()
	if _, ok := <-post; ok {
		t.Error("subscribe after close should return a closed channel")
	}
}
