package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cardtable/bluff/protocol"
)

const testTimeout = 2 * time.Second

// testConn is one websocket client against a test server. Pushes that arrive
// while waiting for a response are buffered so tests can assert on them.
type testConn struct {
	t      *testing.T
	conn   *websocket.Conn
	nextID int64
	pushes []protocol.Push
}

func mustDialWS(t *testing.T, serverURL string) *testConn {
	t.Helper()

	url := "ws" + strings.Trim(serverURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("could not open a ws connection on %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })

	return &testConn{t: t, conn: conn}
}

// do sends one command and reads frames until its response arrives.
func (c *testConn) do(cmd string, data interface{}) protocol.Response {
	c.t.Helper()

	c.nextID++
	req := protocol.Request{ID: c.nextID, Cmd: cmd}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			c.t.Fatalf("could not marshal request data: %v", err)
		}
		req.Data = raw
	}

	if err := c.conn.WriteJSON(req); err != nil {
		c.t.Fatalf("could not send %s: %v", cmd, err)
	}

	deadline := time.Now().Add(testTimeout)
	for time.Now().Before(deadline) {
		frame := c.readFrame()
		var resp protocol.Response
		if err := json.Unmarshal(frame, &resp); err == nil && resp.ID == req.ID {
			return resp
		}
		c.bufferPush(frame)
	}

	c.t.Fatalf("no response to %s before timeout", cmd)
	return protocol.Response{}
}

// waitForPush returns the next buffered or incoming push with the given
// event name.
func (c *testConn) waitForPush(event string) protocol.Push {
	c.t.Helper()

	for i, p := range c.pushes {
		if p.Event == event {
			c.pushes = append(c.pushes[:i], c.pushes[i+1:]...)
			return p
		}
	}

	deadline := time.Now().Add(testTimeout)
	for time.Now().Before(deadline) {
		frame := c.readFrame()
		var push protocol.Push
		if err := json.Unmarshal(frame, &push); err == nil && push.Event == event {
			return push
		}
		c.bufferPush(frame)
	}

	c.t.Fatalf("no %s push before timeout", event)
	return protocol.Push{}
}

func (c *testConn) readFrame() []byte {
	c.t.Helper()

	c.conn.SetReadDeadline(time.Now().Add(testTimeout))
	_, frame, err := c.conn.ReadMessage()
	if err != nil {
		c.t.Fatalf("could not read frame: %v", err)
	}
	return frame
}

func (c *testConn) bufferPush(frame []byte) {
	var push protocol.Push
	if err := json.Unmarshal(frame, &push); err == nil && push.Event != "" {
		c.pushes = append(c.pushes, push)
	}
}

// decodePushData unmarshals a push payload into out.
func decodePushData(t *testing.T, push protocol.Push, out interface{}) {
	t.Helper()

	raw, err := json.Marshal(push.Data)
	if err != nil {
		t.Fatalf("could not re-marshal push data: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("could not decode %s payload: %v", push.Event, err)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(NewServer(time.Hour, ""))
	t.Cleanup(ts.Close)
	return ts
}
