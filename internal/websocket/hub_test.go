package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, familyID string) *Client {
	return &Client{
		hub:      hub,
		conn:     nil,
		familyID: familyID,
		send:     make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, "fam-1")
	c2 := mockClient(hub, "fam-1")

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.ClientCount("fam-1"); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)

	if got := hub.ClientCount("fam-1"); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.Unregister(c2)

	if got := hub.ClientCount("fam-1"); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub, "fam-1")
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.ClientCount("fam-1"); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcastStaysInFamily(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, "fam-1")
	c2 := mockClient(hub, "fam-1")
	other := mockClient(hub, "fam-2")
	hub.Register(c1)
	hub.Register(c2)
	hub.Register(other)

	msg := NewMessage("event", "created", "evt-42", "")
	hub.Broadcast("fam-1", msg)

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var got Message
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "event_created" {
				t.Errorf("expected type event_created, got %s", got.Type)
			}
			if got.ID != "evt-42" {
				t.Errorf("expected id evt-42, got %s", got.ID)
			}
			if got.FamilyID != "fam-1" {
				t.Errorf("expected family fam-1, got %s", got.FamilyID)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}

	select {
	case <-other.send:
		t.Fatal("client in another family received the broadcast")
	default:
	}

	hub.Unregister(c1)
	hub.Unregister(c2)
	hub.Unregister(other)
}

func TestBroadcastEmptyRoom(t *testing.T) {
	hub := NewHub(slog.Default())
	// Should not panic
	msg := NewMessage("event", "completed", "evt-1", "")
	hub.Broadcast("fam-none", msg)
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub, "fam-1")
	hub.Register(c)

	// Fill the send buffer
	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast("fam-1", NewMessage("event", "updated", "evt-fill", ""))
	}

	// This should drop the message, not panic or block
	hub.Broadcast("fam-1", NewMessage("event", "updated", "evt-dropped", ""))

	// Drain to verify buffer was full
	count := 0
	for {
		select {
		case <-c.send:
			count++
		default:
			goto done
		}
	}
done:
	if count != sendBufferSize {
		t.Errorf("expected %d messages, got %d", sendBufferSize, count)
	}

	hub.Unregister(c)
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("medication", "updated", "med-5", "fam-1")
	if msg.Type != "medication_updated" {
		t.Errorf("expected type medication_updated, got %s", msg.Type)
	}
	if msg.Entity != "medication" {
		t.Errorf("expected entity medication, got %s", msg.Entity)
	}
	if msg.Action != "updated" {
		t.Errorf("expected action updated, got %s", msg.Action)
	}
	if msg.ID != "med-5" {
		t.Errorf("expected id med-5, got %s", msg.ID)
	}
	if msg.FamilyID != "fam-1" {
		t.Errorf("expected family fam-1, got %s", msg.FamilyID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	// Spawn goroutines that register, broadcast, and unregister concurrently
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub, "fam-1")
			hub.Register(c)
			hub.Broadcast("fam-1", NewMessage("event", "updated", "evt-c", ""))
			// Drain any messages
			for {
				select {
				case <-c.send:
				default:
					hub.Unregister(c)
					return
				}
			}
		}()
	}

	wg.Wait()

	if got := hub.ClientCount("fam-1"); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}
