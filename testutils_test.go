package bluff

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/cardtable/bluff/deck"
)

// testRoomWithHands builds a mid-game room with one player per hand, seated
// in order as p0, p1..., with the turn on p0. Hands are set directly so
// scenarios can use small fixed mini-deals.
func testRoomWithHands(t *testing.T, hands ...[]deck.Rank) *Room {
	t.Helper()

	r := NewRoom("ABCDEF", "test room", MaxPlayers, rand.New(rand.NewSource(1)))
	for i := range hands {
		if _, err := r.AddPlayer(playerID(i), playerName(i)); err != nil {
			t.Fatalf("Unexpected error: %s", err.Error())
		}
	}

	r.state = Playing
	r.round = 1
	for i, h := range hands {
		r.players[i].Hand = append([]deck.Rank(nil), h...)
	}
	return r
}

func playerID(i int) string {
	return fmt.Sprintf("p%d", i)
}

func playerName(i int) string {
	return fmt.Sprintf("Player %d", i)
}

// totalCards counts every card in hands, on the table and in the deck.
func totalCards(r *Room) int {
	n := len(r.deck)
	for _, p := range r.players {
		n += len(p.Hand)
	}
	for _, play := range r.table {
		n += len(play.Cards)
	}
	return n
}
