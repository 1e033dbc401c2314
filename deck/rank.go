package deck

import (
	"errors"
	"strconv"
)

// Rank represents one of the ten card values in the game. There are no
// suits; every card is just a rank.
type Rank int

const (
	One Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
)

// NumRanks is the size of the rank alphabet.
const NumRanks = 10

// ErrInvalidRank is returned when external input does not name a rank.
var ErrInvalidRank = errors.New("not a valid rank")

// Ranks returns all ranks in ascending order.
func Ranks() []Rank {
	rs := make([]Rank, NumRanks)
	for i := range rs {
		rs[i] = Rank(i + 1)
	}
	return rs
}

// Valid reports whether r is one of the ten ranks.
func (r Rank) Valid() bool {
	return r >= One && r <= Ten
}

// String renders a rank the way clients display it: "1" through "10".
func (r Rank) String() string {
	if !r.Valid() {
		return "?"
	}
	return strconv.Itoa(int(r))
}

// ParseRank converts wire input to a Rank, rejecting anything outside the
// alphabet. This is the only construction path for untrusted input.
func ParseRank(s string) (Rank, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidRank
	}
	r := Rank(n)
	if !r.Valid() {
		return 0, ErrInvalidRank
	}
	return r, nil
}

// ParseRanks converts a slice of wire values, failing on the first bad one.
func ParseRanks(ss []string) ([]Rank, error) {
	ranks := make([]Rank, 0, len(ss))
	for _, s := range ss {
		r, err := ParseRank(s)
		if err != nil {
			return nil, err
		}
		ranks = append(ranks, r)
	}
	return ranks, nil
}

// Strings renders ranks for the wire.
func Strings(ranks []Rank) []string {
	ss := make([]string, 0, len(ranks))
	for _, r := range ranks {
		ss = append(ss, r.String())
	}
	return ss
}
