package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mulleragustin/laqueva/internal/auth"
)

const (
	// writeTimeout bounds a single frame write to the peer.
	writeTimeout = 10 * time.Second

	// pongTimeout is how long a connection may go without answering a ping
	// before we consider it dead. Pings go out well inside that window.
	pongTimeout  = 60 * time.Second
	pingInterval = 50 * time.Second

	// Admin clients only ever send control frames; anything bigger
	// inbound is a misbehaving peer.
	inboundLimit = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is not checked here; the token query param is the gate.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one admin panel connection attached to the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readLoop drains inbound frames until the connection drops. The panel
// never sends application messages, so this exists to answer pings and to
// detect the disconnect that unregisters the client.
func (c *Client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(inboundLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ERROR: admin websocket read: %v", err)
			}
			return
		}
	}
}

// writeLoop sends hub events to the peer, one frame per event, and keeps
// the connection alive with pings. A closed send channel means the hub
// dropped us.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS upgrades GET /ws/orders?token=JWT and subscribes the connection
// to order and store events. The token is the same one the REST admin
// endpoints take in the Authorization header; browsers cannot set headers
// on a WebSocket handshake, hence the query param.
func ServeWS(hub *Hub, jwtSecret string, w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	if _, err := auth.ValidateToken(jwtSecret, token); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ERROR: websocket upgrade: %v", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	hub.register <- client

	go client.writeLoop()
	client.readLoop()
}
