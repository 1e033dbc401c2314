// Package bluff implements the core of a multi-room bluffing card game: the
// per-room state machine, turn and trick control, bluff resolution and
// scoring. Transport and delivery live elsewhere; every operation here is an
// in-memory state transition that returns the payloads to push.
package bluff

import (
	"math/rand"
	"sync"
	"time"

	"github.com/cardtable/bluff/deck"
)

// State represents the lifecycle of a room.
type State int

const (
	Lobby State = iota
	Playing
	RoundResolved
)

var stateNames = []string{"lobby", "playing", "round_resolved"}

func (s State) String() string {
	return stateNames[s]
}

const (
	// MinPlayers and MaxPlayers bound a room's configured capacity.
	// Out-of-range values are clamped, not rejected.
	MinPlayers = 2
	MaxPlayers = 10

	// HandSize is the number of cards dealt to each player.
	HandSize = 10

	// WinBonus is awarded to a player who empties their hand.
	WinBonus = 10

	// LiarPenalty and CallerReward apply when a bluff call catches a lie;
	// CallerPenalty applies when the accused was truthful.
	LiarPenalty   = 5
	CallerReward  = 3
	CallerPenalty = 3
)

// Play is one trick contribution.
type Play struct {
	By       string
	Name     string
	Cards    []deck.Rank
	Declared deck.Rank // the trick's locked rank at play time, kept for audit
	At       time.Time
}

// Outcome is the result kind of a bluff resolution.
type Outcome string

const (
	Liar     Outcome = "liar"
	Truthful Outcome = "truthful"
)

// Resolution records the outcome of one bluff call.
type Resolution struct {
	Result  Outcome
	Accused string
	Caller  string
	Target  deck.Rank
	At      time.Time
}

// HistoryEvent is one entry of the room's append-only audit log. Exactly one
// of Play and Resolution is set.
type HistoryEvent struct {
	Play       *Play
	Resolution *Resolution
}

// OutboundMessage is a payload produced by a room operation, destined either
// for a single player or for every member of the room.
type OutboundMessage struct {
	Event    string
	PlayerID string // empty means broadcast to the whole room
	Data     interface{}
}

// Room is one game session. All exported methods serialise on the room's
// mutex; no two mutations of the same room ever interleave.
type Room struct {
	mu sync.Mutex

	code       string
	name       string
	maxPlayers int
	ownerID    string

	state        State
	players      []*Player // insertion order is seating order
	deck         deck.Deck
	table        []Play
	turnIndex    int
	declaredRank deck.Rank // zero means the next player to act must declare
	round        int
	history      []HistoryEvent

	rng *rand.Rand
}

// NewRoom creates a room in the Lobby state with no players. A maxPlayers
// outside [MinPlayers, MaxPlayers] is clamped to the nearest bound. Pass a
// seeded rng for deterministic dealing; nil uses a time-seeded source.
func NewRoom(code, name string, maxPlayers int, rng *rand.Rand) *Room {
	if maxPlayers < MinPlayers {
		maxPlayers = MinPlayers
	}
	if maxPlayers > MaxPlayers {
		maxPlayers = MaxPlayers
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Room{
		code:       code,
		name:       name,
		maxPlayers: maxPlayers,
		rng:        rng,
	}
}

// Code returns the room's immutable join code.
func (r *Room) Code() string {
	return r.code
}

// Name returns the room's display name.
func (r *Room) Name() string {
	return r.name
}

// OwnerID returns the current owner.
func (r *Room) OwnerID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ownerID
}

// PlayerCount returns the number of seated players.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// PlayerIDs returns the ids of all seated players in seating order.
func (r *Room) PlayerIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		ids = append(ids, p.ID)
	}
	return ids
}

// AddPlayer seats a new player at the lowest unused seat index. The first
// player to be seated becomes the owner.
func (r *Room) AddPlayer(id, name string) ([]OutboundMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Lobby {
		return nil, ErrAlreadyStarted
	}
	if len(r.players) >= r.maxPlayers {
		return nil, ErrRoomFull
	}

	p := &Player{ID: id, Name: name, Seat: r.lowestFreeSeat()}
	r.players = append(r.players, p)
	if len(r.players) == 1 {
		r.ownerID = id
	}

	return []OutboundMessage{r.roomUpdateMessage()}, nil
}

// RemovePlayer unseats a player. It is idempotent: removing an unknown id is
// a no-op. Remaining seats keep their indices; the turn pointer is clamped
// modulo the new player count and an in-flight declared rank is preserved.
// Ownership passes to the lowest-seated remaining player when the owner
// leaves. The second return reports whether the room is now empty.
func (r *Room) RemovePlayer(id string) ([]OutboundMessage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, len(r.players) == 0
	}

	r.players = append(r.players[:idx], r.players[idx+1:]...)
	if len(r.players) == 0 {
		r.turnIndex = 0
		return nil, true
	}

	if idx < r.turnIndex {
		r.turnIndex--
	}
	r.turnIndex %= len(r.players)

	if id == r.ownerID {
		lowest := r.players[0]
		for _, p := range r.players[1:] {
			if p.Seat < lowest.Seat {
				lowest = p
			}
		}
		r.ownerID = lowest.ID
	}

	return []OutboundMessage{r.roomUpdateMessage()}, false
}

// Start deals a new game. Only the owner may start, the room must not be
// mid-play, and at least two players must be seated. Scores are kept for the
// lifetime of the room and are not reset here.
func (r *Room) Start(callerID string) ([]OutboundMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Playing {
		return nil, ErrAlreadyStarted
	}
	if callerID != r.ownerID {
		return nil, ErrNotYourTurn
	}
	if len(r.players) < MinPlayers {
		return nil, ErrInvalidConfig
	}

	r.round = 1
	r.deal()

	msgs := []OutboundMessage{
		r.roomUpdateMessage(),
		{Event: eventGameStarted, Data: r.gameStartedPayload()},
	}
	return append(msgs, r.handMessages()...), nil
}

// NextRound re-deals and restarts the trick cycle without touching scores.
// Any member may trigger it, but only from the resolved substate: in the
// Lobby there is nothing to re-deal, and mid-play it must not wipe a live
// trick. Outside RoundResolved the call succeeds as a no-op.
func (r *Room) NextRound(callerID string) ([]OutboundMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RoundResolved {
		return nil, nil
	}

	r.round++
	r.deal()

	msgs := []OutboundMessage{
		r.roomUpdateMessage(),
		{Event: eventGameStarted, Data: r.gameStartedPayload()},
		r.tableUpdateMessage(nil),
	}
	return append(msgs, r.handMessages()...), nil
}

// deal builds a fresh shuffled deck sized to the player count and hands out
// HandSize cards each, round-robin. Callers hold the lock.
func (r *Room) deal() {
	r.deck = deck.New(len(r.players), r.rng)
	hands := r.deck.DealRoundRobin(len(r.players), HandSize)
	for i, p := range r.players {
		p.Hand = hands[i]
	}
	r.table = nil
	r.declaredRank = 0
	r.state = Playing
	if len(r.players) > 0 {
		r.turnIndex %= len(r.players)
	}
}

// lowestFreeSeat finds the smallest seat index not currently occupied.
// Callers hold the lock.
func (r *Room) lowestFreeSeat() int {
	taken := map[int]bool{}
	for _, p := range r.players {
		taken[p.Seat] = true
	}
	seat := 0
	for taken[seat] {
		seat++
	}
	return seat
}

// History returns a copy of the room's audit log of plays and resolutions.
// The log is diagnostic only; it is never used to reconstruct state.
func (r *Room) History() []HistoryEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]HistoryEvent(nil), r.history...)
}

// playerByID finds a seated player. Callers hold the lock.
func (r *Room) playerByID(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}
