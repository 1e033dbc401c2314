package server

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"

	"github.com/cardtable/bluff/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// NewID constructs a player ID.
func NewID() string {
	return uuid.NewV4().String()
}

// client is one websocket connection, identified by a player ID for its
// whole lifetime. Writes go through the send channel so the writePump is the
// only goroutine touching the connection's write side.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		id:   NewID(),
		conn: conn,
		send: make(chan []byte, 32),
	}
}

// enqueue drops the message if the client's buffer is full rather than
// blocking a room operation on a slow reader.
func (c *client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Printf("dropping message for slow client %s", c.id)
	}
}

func (c *client) enqueueJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("marshal for client %s: %v", c.id, err)
		return
	}
	c.enqueue(data)
}

// readPump decodes request frames and hands them to the server. Exiting the
// loop (error or close) tears the seat down via the disconnect handler.
func (c *client) readPump(s *GameServer) {
	defer func() {
		s.dropClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("client %s: %v", c.id, err)
			}
			return
		}

		var req protocol.Request
		if err := json.Unmarshal(data, &req); err != nil {
			c.enqueueJSON(protocol.Response{OK: false, Error: "bad_request"})
			continue
		}

		c.enqueueJSON(s.handleRequest(c, req))
	}
}

// writePump owns the write side of the connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
