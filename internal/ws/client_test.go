package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mulleragustin/laqueva/internal/auth"
)

const testSecret = "test-secret"

func wsServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, testSecret, w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
}

func TestServeWSRejectsMissingToken(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	srv := wsServer(t, hub)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	if err == nil {
		t.Fatal("expected handshake to fail without a token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
}

func TestServeWSRejectsBadToken(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	srv := wsServer(t, hub)

	token, err := auth.GenerateToken("other-secret", "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "token="+token), nil)
	if err == nil {
		t.Fatal("expected handshake to fail with a foreign token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
}

func TestServeWSDeliversBroadcasts(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	srv := wsServer(t, hub)

	token, err := auth.GenerateToken(testSecret, "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "token="+token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Registration races the broadcast; wait until the hub sees us.
	deadline := time.Now().Add(time.Second)
	for {
		hub.mu.RLock()
		n := len(hub.clients)
		hub.mu.RUnlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the hub")
		}
		time.Sleep(time.Millisecond)
	}

	hub.Broadcast(NewEvent(EventOrderCreated, map[string]int64{"order_number": 7}))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var event Event
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.Type != EventOrderCreated {
		t.Errorf("event type = %q, want %q", event.Type, EventOrderCreated)
	}
	if !strings.Contains(string(event.Payload), `"order_number":7`) {
		t.Errorf("payload = %s", event.Payload)
	}
}
