// Package protocol defines the wire contract between the game core and its
// clients: command names, push event names and the JSON payload shapes.
// The core produces these payloads; delivery belongs to the server package.
package protocol

import "encoding/json"

// Commands accepted over the websocket.
const (
	CmdCreateRoom = "create_room"
	CmdJoinRoom   = "join_room"
	CmdLeaveRoom  = "leave_room"
	CmdStartGame  = "start_game"
	CmdPlayCards  = "play_cards"
	CmdCallBluff  = "call_bluff"
	CmdNextRound  = "next_round"
)

// Events pushed to clients.
const (
	EventRoomUpdate  = "room_update"
	EventGameStarted = "game_started"
	EventYourHand    = "your_hand"
	EventTableUpdate = "table_update"
	EventBluffResult = "bluff_result"
	EventRoundEnd    = "round_end"
	EventRoomClosed  = "room_closed"
)

// Request is one client frame. ID is echoed back in the matching Response so
// the client can pair acks with requests on a single connection.
type Request struct {
	ID   int64           `json:"id"`
	Cmd  string          `json:"cmd"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Response acknowledges exactly one Request.
type Response struct {
	ID    int64  `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"` // room code, set on create_room
}

// Push is a fire-and-forget notification. It carries no ID.
type Push struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}
