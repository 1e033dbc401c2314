// Package store owns the process-wide registry of rooms: code allocation,
// admission, membership lookup and idle expiry. It holds no game rules.
package store

import (
	"math/rand"
	"sync"
	"time"

	"github.com/cardtable/bluff"
	"github.com/cardtable/bluff/deck"
)

const (
	codeLength  = 6
	codeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// DefaultRoomTTL matches the original one-hour room lifetime. The timer is
// fixed from creation and is not refreshed by activity.
const DefaultRoomTTL = time.Hour

// Registry maps room codes to rooms. The map itself is the only state shared
// across rooms and is guarded here; each room serialises its own mutations.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*bluff.Room
	byPlayer map[string]string // player id -> room code
	timers   map[string]*time.Timer

	ttl      time.Duration
	onExpire func(code string, playerIDs []string)
	rng      *rand.Rand
}

// NewRegistry constructs an empty registry. onExpire is invoked outside the
// registry lock after an idle room has been removed, so the transport can
// notify the listed players; it may be nil.
func NewRegistry(ttl time.Duration, onExpire func(code string, playerIDs []string)) *Registry {
	if ttl <= 0 {
		ttl = DefaultRoomTTL
	}
	return &Registry{
		rooms:    map[string]*bluff.Room{},
		byPlayer: map[string]string{},
		timers:   map[string]*time.Timer{},
		ttl:      ttl,
		onExpire: onExpire,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// newCode allocates a code not currently in use. Callers hold the lock.
func (reg *Registry) newCode() string {
	for {
		code := make([]byte, codeLength)
		for i := range code {
			code[i] = codeLetters[reg.rng.Intn(len(codeLetters))]
		}
		if _, taken := reg.rooms[string(code)]; !taken {
			return string(code)
		}
	}
}

// CreateRoom allocates a room with the creator seated at seat 0 as owner. A
// player already seated somewhere is first removed from that room, as if
// they had left it; callers that need the departed room's members notified
// call LeaveRoom themselves beforehand. The room's expiry timer starts now.
func (reg *Registry) CreateRoom(playerID, playerName, roomName string, maxPlayers int) (string, []bluff.OutboundMessage, error) {
	reg.LeaveRoom(playerID)

	reg.mu.Lock()
	code := reg.newCode()
	room := bluff.NewRoom(code, roomName, maxPlayers, nil)
	reg.rooms[code] = room
	reg.byPlayer[playerID] = code
	reg.timers[code] = time.AfterFunc(reg.ttl, func() { reg.expire(code, room) })
	reg.mu.Unlock()

	msgs, err := room.AddPlayer(playerID, playerName)
	if err != nil {
		// cannot happen for a fresh room; keep the registry consistent anyway
		reg.mu.Lock()
		delete(reg.byPlayer, playerID)
		reg.mu.Unlock()
		return "", nil, err
	}

	return code, msgs, nil
}

// JoinRoom seats a player in an existing lobby. A player already seated
// somewhere is first removed from that room.
func (reg *Registry) JoinRoom(code, playerID, playerName string) ([]bluff.OutboundMessage, error) {
	reg.mu.RLock()
	room, ok := reg.rooms[code]
	reg.mu.RUnlock()
	if !ok {
		return nil, bluff.ErrRoomNotFound
	}

	reg.LeaveRoom(playerID)

	msgs, err := room.AddPlayer(playerID, playerName)
	if err != nil {
		return nil, err
	}

	reg.mu.Lock()
	reg.byPlayer[playerID] = code
	reg.mu.Unlock()

	return msgs, nil
}

// LeaveRoom removes a player from whichever room holds them. It is
// idempotent; leaving while seated nowhere is a no-op. An emptied room is
// deleted and its expiry timer stopped. Returns the code of the room left.
func (reg *Registry) LeaveRoom(playerID string) (string, []bluff.OutboundMessage) {
	reg.mu.Lock()
	code, ok := reg.byPlayer[playerID]
	if !ok {
		reg.mu.Unlock()
		return "", nil
	}
	delete(reg.byPlayer, playerID)
	room := reg.rooms[code]
	reg.mu.Unlock()

	if room == nil {
		return code, nil
	}

	msgs, empty := room.RemovePlayer(playerID)
	if empty {
		reg.remove(code)
	}
	return code, msgs
}

// RoomFor resolves the room a player is seated in.
func (reg *Registry) RoomFor(playerID string) (*bluff.Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	code, ok := reg.byPlayer[playerID]
	if !ok {
		return nil, bluff.ErrNotInRoom
	}
	room, ok := reg.rooms[code]
	if !ok {
		return nil, bluff.ErrRoomNotFound
	}
	return room, nil
}

// FindRoom resolves a room by code.
func (reg *Registry) FindRoom(code string) (*bluff.Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[code]
	if !ok {
		return nil, bluff.ErrRoomNotFound
	}
	return room, nil
}

// StartGame deals a new game in the caller's room.
func (reg *Registry) StartGame(playerID string) ([]bluff.OutboundMessage, error) {
	room, err := reg.RoomFor(playerID)
	if err != nil {
		return nil, err
	}
	return room.Start(playerID)
}

// PlayCards submits a trick contribution in the caller's room.
func (reg *Registry) PlayCards(playerID string, cards []deck.Rank, declared deck.Rank) ([]bluff.OutboundMessage, error) {
	room, err := reg.RoomFor(playerID)
	if err != nil {
		return nil, err
	}
	return room.PlayCards(playerID, cards, declared)
}

// CallBluff challenges the last play in the caller's room.
func (reg *Registry) CallBluff(playerID string) ([]bluff.OutboundMessage, error) {
	room, err := reg.RoomFor(playerID)
	if err != nil {
		return nil, err
	}
	return room.CallBluff(playerID)
}

// NextRound re-deals in the caller's room.
func (reg *Registry) NextRound(playerID string) ([]bluff.OutboundMessage, error) {
	room, err := reg.RoomFor(playerID)
	if err != nil {
		return nil, err
	}
	return room.NextRound(playerID)
}

// remove deletes a room and stops its timer, so a later room reusing the
// code is not torn down by a stale expiry.
func (reg *Registry) remove(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if t, ok := reg.timers[code]; ok {
		t.Stop()
		delete(reg.timers, code)
	}
	delete(reg.rooms, code)
}

// expire fires once per room, a fixed TTL after creation. Any players still
// seated lose the room; the transport is told who to notify. The timer's
// room is compared by identity: a timer that fired while its room was being
// deleted must not take down a later room that reuses the code.
func (reg *Registry) expire(code string, room *bluff.Room) {
	reg.mu.Lock()
	if reg.rooms[code] != room {
		reg.mu.Unlock()
		return
	}
	delete(reg.rooms, code)
	delete(reg.timers, code)
	ids := room.PlayerIDs()
	for _, id := range ids {
		delete(reg.byPlayer, id)
	}
	reg.mu.Unlock()

	if reg.onExpire != nil {
		reg.onExpire(code, ids)
	}
}
