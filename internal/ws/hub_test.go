package ws

import (
	"encoding/json"
	"testing"
	"time"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		send: make(chan []byte, 256),
	}
}

func TestHubRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub)
	hub.register <- client

	// Give hub time to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if !hub.clients[client] {
		t.Fatal("client not registered")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.clients[client] {
		t.Fatal("client still registered after unregister")
	}

	// The send channel should be closed so the write loop exits.
	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected send channel to be closed")
		}
	default:
		t.Fatal("expected send channel to be closed")
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client1 := mockClient(hub)
	client2 := mockClient(hub)
	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	payload := json.RawMessage(`{"order_number":42}`)
	hub.Broadcast(Event{Type: EventOrderCreated, Payload: payload})

	for i, client := range []*Client{client1, client2} {
		select {
		case msg := <-client.send:
			var received Event
			if err := json.Unmarshal(msg, &received); err != nil {
				t.Fatalf("client %d: failed to unmarshal message: %v", i+1, err)
			}
			if received.Type != EventOrderCreated {
				t.Errorf("client %d: expected type %q, got %q", i+1, EventOrderCreated, received.Type)
			}
			if string(received.Payload) != string(payload) {
				t.Errorf("client %d: expected payload %s, got %s", i+1, payload, received.Payload)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client %d did not receive message", i+1)
		}
	}
}

func TestBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{hub: hub, send: make(chan []byte)} // unbuffered, never read
	healthy := mockClient(hub)
	hub.register <- slow
	hub.register <- healthy
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(NewEvent(EventPendingOrders, map[string]int64{"count": 3, "delta": 1}))
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.clients[slow] {
		t.Error("slow client should have been dropped")
	}
	if !hub.clients[healthy] {
		t.Error("healthy client should still be registered")
	}
}

func TestNewEventMarshalsPayload(t *testing.T) {
	event := NewEvent(EventStoreStatusChanged, map[string]string{"status": "abierto"})

	if event.Type != EventStoreStatusChanged {
		t.Errorf("type = %q, want %q", event.Type, EventStoreStatusChanged)
	}

	var payload map[string]string
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if payload["status"] != "abierto" {
		t.Errorf("payload status = %q, want %q", payload["status"], "abierto")
	}
}
