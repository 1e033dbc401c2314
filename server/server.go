// Package server exposes the game over a single websocket endpoint. Each
// accepted command is answered synchronously on the same connection, while
// room snapshots fan out as fire-and-forget pushes to every member.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/cardtable/bluff"
	"github.com/cardtable/bluff/deck"
	"github.com/cardtable/bluff/protocol"
	"github.com/cardtable/bluff/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GameServer routes commands from websocket clients into the room registry
// and delivers the resulting payloads. It owns the connection-to-room
// membership the registry's snapshots fan out through.
type GameServer struct {
	registry *store.Registry
	router   chi.Router

	mu       sync.Mutex
	clients  map[string]*client            // player id -> connection
	members  map[string]map[string]*client // room code -> member connections
	memberOf map[string]string             // player id -> room code
}

// NewServer constructs a GameServer with its own registry. staticDir may be
// empty to disable static file serving (tests do this).
func NewServer(roomTTL time.Duration, staticDir string) *GameServer {
	s := &GameServer{
		clients:  map[string]*client{},
		members:  map[string]map[string]*client{},
		memberOf: map[string]string{},
	}
	s.registry = store.NewRegistry(roomTTL, s.roomExpired)

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", s.handleWS)
	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}
	s.router = r

	return s
}

// Registry exposes the underlying room registry.
func (s *GameServer) Registry() *store.Registry {
	return s.registry
}

// ServeHTTP serves http.
func (s *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *GameServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("could not upgrade to websocket: %v", err)
		return
	}

	c := newClient(conn)
	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()

	go c.writePump()
	go c.readPump(s)
}

// dropClient reacts to a closed connection: the seat is abandoned as an
// implicit leave. There is no reconnection path.
func (s *GameServer) dropClient(c *client) {
	s.leaveCurrentRoom(c)

	s.mu.Lock()
	delete(s.clients, c.id)
	s.mu.Unlock()
}

// leaveCurrentRoom detaches the client from its room, if any, and notifies
// the remaining members. Idempotent.
func (s *GameServer) leaveCurrentRoom(c *client) {
	s.mu.Lock()
	if code, ok := s.memberOf[c.id]; ok {
		delete(s.memberOf, c.id)
		if room := s.members[code]; room != nil {
			delete(room, c.id)
			if len(room) == 0 {
				delete(s.members, code)
			}
		}
	}
	s.mu.Unlock()

	code, msgs := s.registry.LeaveRoom(c.id)
	if code != "" {
		s.deliver(code, msgs)
	}
}

func (s *GameServer) addMember(code string, c *client) {
	s.mu.Lock()
	if s.members[code] == nil {
		s.members[code] = map[string]*client{}
	}
	s.members[code][c.id] = c
	s.memberOf[c.id] = code
	s.mu.Unlock()
}

// deliver fans room payloads out: targeted messages go to one connection,
// the rest to every member of the room.
func (s *GameServer) deliver(code string, msgs []bluff.OutboundMessage) {
	s.mu.Lock()
	members := make([]*client, 0, len(s.members[code]))
	for _, c := range s.members[code] {
		members = append(members, c)
	}
	byID := s.clients
	targets := map[string]*client{}
	for _, msg := range msgs {
		if msg.PlayerID != "" {
			if c, ok := byID[msg.PlayerID]; ok {
				targets[msg.PlayerID] = c
			}
		}
	}
	s.mu.Unlock()

	for _, msg := range msgs {
		push := protocol.Push{Event: msg.Event, Data: msg.Data}
		if msg.PlayerID != "" {
			if c, ok := targets[msg.PlayerID]; ok {
				c.enqueueJSON(push)
			}
			continue
		}
		for _, c := range members {
			c.enqueueJSON(push)
		}
	}
}

// roomExpired is called by the registry once a room's fixed lifetime runs
// out. The members are told and forgotten.
func (s *GameServer) roomExpired(code string, playerIDs []string) {
	push := protocol.Push{Event: protocol.EventRoomClosed}

	s.mu.Lock()
	room := s.members[code]
	delete(s.members, code)
	for _, id := range playerIDs {
		delete(s.memberOf, id)
	}
	s.mu.Unlock()

	for _, c := range room {
		c.enqueueJSON(push)
	}
	log.Printf("room %s expired", code)
}

func (s *GameServer) handleRequest(c *client, req protocol.Request) protocol.Response {
	resp := protocol.Response{ID: req.ID, OK: true}

	fail := func(err error) protocol.Response {
		return protocol.Response{ID: req.ID, OK: false, Error: bluff.Reason(err)}
	}

	switch req.Cmd {
	case protocol.CmdCreateRoom:
		var data protocol.CreateRoomReq
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return fail(bluff.ErrInvalidConfig)
		}
		if data.Name == "" {
			return fail(bluff.ErrInvalidConfig)
		}
		s.leaveCurrentRoom(c)
		code, msgs, err := s.registry.CreateRoom(c.id, playerName(data.PlayerName), data.Name, data.MaxPlayers)
		if err != nil {
			return fail(err)
		}
		s.addMember(code, c)
		s.deliver(code, msgs)
		resp.Code = code

	case protocol.CmdJoinRoom:
		var data protocol.JoinRoomReq
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return fail(bluff.ErrRoomNotFound)
		}
		s.leaveCurrentRoom(c)
		msgs, err := s.registry.JoinRoom(data.Code, c.id, playerName(data.PlayerName))
		if err != nil {
			return fail(err)
		}
		s.addMember(data.Code, c)
		s.deliver(data.Code, msgs)
		resp.Code = data.Code

	case protocol.CmdLeaveRoom:
		s.leaveCurrentRoom(c)

	case protocol.CmdStartGame:
		if err := s.dispatch(c, s.registry.StartGame); err != nil {
			return fail(err)
		}

	case protocol.CmdPlayCards:
		var data protocol.PlayCardsReq
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return fail(bluff.ErrNoCardsSelected)
		}
		cards, err := deck.ParseRanks(data.Cards)
		if err != nil {
			return fail(bluff.ErrCardsNotInHand)
		}
		// A missing or malformed declaration is only an error when the play
		// opens a trick; the core decides.
		declared, _ := deck.ParseRank(data.Declared)
		if err := s.dispatch(c, func(id string) ([]bluff.OutboundMessage, error) {
			return s.registry.PlayCards(id, cards, declared)
		}); err != nil {
			return fail(err)
		}

	case protocol.CmdCallBluff:
		if err := s.dispatch(c, s.registry.CallBluff); err != nil {
			return fail(err)
		}

	case protocol.CmdNextRound:
		if err := s.dispatch(c, s.registry.NextRound); err != nil {
			return fail(err)
		}

	default:
		return protocol.Response{ID: req.ID, OK: false, Error: "unknown_command"}
	}

	return resp
}

// dispatch runs a room operation for the client's current room and delivers
// whatever it produced.
func (s *GameServer) dispatch(c *client, op func(playerID string) ([]bluff.OutboundMessage, error)) error {
	room, err := s.registry.RoomFor(c.id)
	if err != nil {
		return err
	}
	msgs, err := op(c.id)
	if err != nil {
		return err
	}
	s.deliver(room.Code(), msgs)
	return nil
}

func playerName(name string) string {
	if name == "" {
		return "Anon"
	}
	return name
}
