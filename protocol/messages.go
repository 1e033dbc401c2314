package protocol

// CreateRoomReq is the payload of a create_room command.
type CreateRoomReq struct {
	Name       string `json:"name"`
	MaxPlayers int    `json:"maxPlayers"`
	PlayerName string `json:"playerName"`
}

// JoinRoomReq is the payload of a join_room command.
type JoinRoomReq struct {
	Code       string `json:"code"`
	PlayerName string `json:"playerName"`
}

// PlayCardsReq is the payload of a play_cards command. Declared is required
// on the first play of a trick and ignored on every later play.
type PlayCardsReq struct {
	Cards    []string `json:"cards"`
	Declared string   `json:"declared,omitempty"`
}

// PlayerInfo is the public view of a seated player. Hand contents are never
// included here; only the count is public.
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	Score     int    `json:"score"`
	HandCount int    `json:"handCount"`
}

// RoomUpdate is broadcast to all members after every mutation.
type RoomUpdate struct {
	Name       string       `json:"name"`
	Code       string       `json:"code"`
	MaxPlayers int          `json:"maxPlayers"`
	Players    []PlayerInfo `json:"players"`
	OwnerID    string       `json:"ownerId"`
	State      string       `json:"state"`
	Round      int          `json:"round"`
	TargetRank string       `json:"targetRank,omitempty"` // empty means no declaration yet
}

// GameStarted announces a deal. TargetRank is always empty at this point;
// clients use it to open the declaration selector.
type GameStarted struct {
	Round      int    `json:"round"`
	TargetRank string `json:"targetRank,omitempty"`
}

// HandUpdate is sent privately to one player.
type HandUpdate struct {
	Cards []string `json:"cards"`
}

// PlaySummary describes one play for the table view.
type PlaySummary struct {
	By       string   `json:"by"`
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Cards    []string `json:"cards"`
	Declared string   `json:"declared"`
}

// TableUpdate is broadcast after a trick contribution or a trick reset.
type TableUpdate struct {
	Table      []PlaySummary `json:"table"`
	LastPlay   *PlaySummary  `json:"lastPlay,omitempty"`
	TargetRank string        `json:"target,omitempty"`
}

// BluffResult announces the outcome of a bluff call.
type BluffResult struct {
	Result  string `json:"result"` // "liar" or "truthful"
	Accused string `json:"accused"`
	Caller  string `json:"caller"`
	Target  string `json:"target"`
}

// Winner is one entry of a round-end announcement.
type Winner struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RoundEnd is broadcast when a player empties their hand.
type RoundEnd struct {
	Winners []Winner `json:"winners"`
}
