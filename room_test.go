package bluff

import (
	"math/rand"
	"testing"

	"github.com/cardtable/bluff/deck"
	utils "github.com/cardtable/bluff/internal"
)

func TestNewRoom(t *testing.T) {
	t.Run("clamps maxPlayers into range", func(t *testing.T) {
		cases := []struct {
			given, want int
		}{
			{1, MinPlayers},
			{0, MinPlayers},
			{-3, MinPlayers},
			{2, 2},
			{10, 10},
			{99, MaxPlayers},
		}
		for _, c := range cases {
			r := NewRoom("CODE", "room", c.given, nil)
			utils.AssertEqual(t, r.maxPlayers, c.want)
		}
	})

	t.Run("starts in the lobby with no players", func(t *testing.T) {
		r := NewRoom("CODE", "room", 4, nil)
		utils.AssertEqual(t, r.state, Lobby)
		utils.AssertEqual(t, r.PlayerCount(), 0)
	})
}

func TestAddPlayer(t *testing.T) {
	t.Run("first player becomes owner at seat 0", func(t *testing.T) {
		r := NewRoom("CODE", "room", 4, nil)
		_, err := r.AddPlayer("p0", "Ada")
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, r.OwnerID(), "p0")
		utils.AssertEqual(t, r.players[0].Seat, 0)
	})

	t.Run("seats are assigned lowest-unused", func(t *testing.T) {
		r := NewRoom("CODE", "room", 4, nil)
		for i := 0; i < 3; i++ {
			_, err := r.AddPlayer(playerID(i), playerName(i))
			utils.AssertNoError(t, err)
		}

		// vacate seat 1; seats 0 and 2 keep their numbers
		r.RemovePlayer("p1")
		utils.AssertEqual(t, r.players[0].Seat, 0)
		utils.AssertEqual(t, r.players[1].Seat, 2)

		_, err := r.AddPlayer("p3", "late joiner")
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, r.players[2].Seat, 1)
	})

	t.Run("rejects joins beyond capacity", func(t *testing.T) {
		r := NewRoom("CODE", "room", 2, nil)
		r.AddPlayer("p0", "a")
		r.AddPlayer("p1", "b")
		_, err := r.AddPlayer("p2", "c")
		utils.AssertEqual(t, err, ErrRoomFull)
	})

	t.Run("rejects joins after the game has started", func(t *testing.T) {
		r := NewRoom("CODE", "room", 4, nil)
		r.AddPlayer("p0", "a")
		r.AddPlayer("p1", "b")
		_, err := r.Start("p0")
		utils.AssertNoError(t, err)

		_, err = r.AddPlayer("p2", "c")
		utils.AssertEqual(t, err, ErrAlreadyStarted)
	})
}

func TestRemovePlayer(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		r := NewRoom("CODE", "room", 4, nil)
		r.AddPlayer("p0", "a")
		r.RemovePlayer("ghost")
		utils.AssertEqual(t, r.PlayerCount(), 1)
	})

	t.Run("reports an emptied room", func(t *testing.T) {
		r := NewRoom("CODE", "room", 4, nil)
		r.AddPlayer("p0", "a")
		_, empty := r.RemovePlayer("p0")
		utils.AssertTrue(t, empty)
	})

	t.Run("ownership passes to the lowest remaining seat", func(t *testing.T) {
		r := NewRoom("CODE", "room", 4, nil)
		r.AddPlayer("p0", "a")
		r.AddPlayer("p1", "b")
		r.AddPlayer("p2", "c")

		r.RemovePlayer("p0")
		utils.AssertEqual(t, r.OwnerID(), "p1")
	})

	t.Run("clamps the turn pointer and keeps the declared rank", func(t *testing.T) {
		r := testRoomWithHands(t,
			[]deck.Rank{deck.One, deck.Two},
			[]deck.Rank{deck.One, deck.Two},
			[]deck.Rank{deck.One, deck.Two},
		)
		_, err := r.PlayCards("p0", []deck.Rank{deck.One}, deck.One)
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, r.turnIndex, 1)

		// the player to act leaves; the turn wraps onto p2 (now index 1)
		r.RemovePlayer("p1")
		utils.AssertEqual(t, r.turnIndex, 1)
		utils.AssertEqual(t, r.players[r.turnIndex].ID, "p2")
		utils.AssertEqual(t, r.declaredRank, deck.One)
	})
}

func TestStart(t *testing.T) {
	newLobby := func(n int) *Room {
		r := NewRoom("CODE", "room", MaxPlayers, rand.New(rand.NewSource(3)))
		for i := 0; i < n; i++ {
			r.AddPlayer(playerID(i), playerName(i))
		}
		return r
	}

	t.Run("only the owner may start", func(t *testing.T) {
		r := newLobby(2)
		_, err := r.Start("p1")
		utils.AssertEqual(t, err, ErrNotYourTurn)
	})

	t.Run("requires at least two players", func(t *testing.T) {
		r := newLobby(1)
		_, err := r.Start("p0")
		utils.AssertEqual(t, err, ErrInvalidConfig)
	})

	t.Run("cannot start a game already in play", func(t *testing.T) {
		r := newLobby(2)
		_, err := r.Start("p0")
		utils.AssertNoError(t, err)
		_, err = r.Start("p0")
		utils.AssertEqual(t, err, ErrAlreadyStarted)
	})

	t.Run("deals a full hand to every player", func(t *testing.T) {
		for _, n := range []int{2, 3, 5} {
			r := newLobby(n)
			_, err := r.Start("p0")
			utils.AssertNoError(t, err)

			utils.AssertEqual(t, r.state, Playing)
			utils.AssertEqual(t, r.round, 1)
			utils.AssertEqual(t, r.declaredRank, deck.Rank(0))
			for _, p := range r.players {
				utils.AssertEqual(t, len(p.Hand), HandSize)
			}
			// deal conservation
			utils.AssertEqual(t, totalCards(r), n*deck.NumRanks)
		}
	})

	t.Run("produces a room update, a start event and private hands", func(t *testing.T) {
		r := newLobby(2)
		msgs, err := r.Start("p0")
		utils.AssertNoError(t, err)

		utils.AssertEqual(t, len(msgs), 4)
		utils.AssertEqual(t, msgs[0].Event, eventRoomUpdate)
		utils.AssertEqual(t, msgs[0].PlayerID, "")
		utils.AssertEqual(t, msgs[1].Event, eventGameStarted)
		utils.AssertEqual(t, msgs[2].Event, eventYourHand)
		utils.AssertEqual(t, msgs[2].PlayerID, "p0")
		utils.AssertEqual(t, msgs[3].Event, eventYourHand)
		utils.AssertEqual(t, msgs[3].PlayerID, "p1")
	})
}

func TestNextRound(t *testing.T) {
	t.Run("re-deals without resetting scores", func(t *testing.T) {
		r := NewRoom("CODE", "room", 4, rand.New(rand.NewSource(5)))
		r.AddPlayer("p0", "a")
		r.AddPlayer("p1", "b")
		_, err := r.Start("p0")
		utils.AssertNoError(t, err)

		r.players[0].Score = 7
		r.players[1].Score = -2
		r.state = RoundResolved
		round := r.round

		_, err = r.NextRound("p1")
		utils.AssertNoError(t, err)

		utils.AssertEqual(t, r.state, Playing)
		utils.AssertEqual(t, r.round, round+1)
		utils.AssertEqual(t, r.players[0].Score, 7)
		utils.AssertEqual(t, r.players[1].Score, -2)
		utils.AssertEqual(t, len(r.table), 0)
		utils.AssertEqual(t, r.declaredRank, deck.Rank(0))
		for _, p := range r.players {
			utils.AssertEqual(t, len(p.Hand), HandSize)
		}
	})

	t.Run("is a no-op in the lobby", func(t *testing.T) {
		r := NewRoom("CODE", "room", 4, nil)
		r.AddPlayer("p0", "a")
		msgs, err := r.NextRound("p0")
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, len(msgs), 0)
		utils.AssertEqual(t, r.state, Lobby)
	})

	t.Run("cannot wipe a live trick", func(t *testing.T) {
		r := testRoomWithHands(t,
			[]deck.Rank{deck.One, deck.One, deck.Two},
			[]deck.Rank{deck.One, deck.Two, deck.Two},
		)
		_, err := r.PlayCards("p0", []deck.Rank{deck.One}, deck.One)
		utils.AssertNoError(t, err)
		round := r.round

		msgs, err := r.NextRound("p1")
		utils.AssertNoError(t, err)
		utils.AssertEqual(t, len(msgs), 0)

		utils.AssertEqual(t, r.state, Playing)
		utils.AssertEqual(t, len(r.table), 1)
		utils.AssertEqual(t, r.declaredRank, deck.One)
		utils.AssertEqual(t, r.round, round)
		utils.AssertEqual(t, len(r.players[0].Hand), 2)
	})
}

func TestRoomSnapshots(t *testing.T) {
	t.Run("room updates expose hand counts, never contents", func(t *testing.T) {
		r := testRoomWithHands(t,
			[]deck.Rank{deck.One, deck.One, deck.Two},
			[]deck.Rank{deck.One, deck.Two, deck.Two},
		)
		update := r.roomUpdatePayload()

		utils.AssertEqual(t, len(update.Players), 2)
		for _, p := range update.Players {
			utils.AssertEqual(t, p.HandCount, 3)
		}
		utils.AssertEqual(t, update.State, "playing")
		utils.AssertEqual(t, update.OwnerID, "p0")
	})

	t.Run("hand messages are targeted at their owners", func(t *testing.T) {
		r := testRoomWithHands(t,
			[]deck.Rank{deck.One},
			[]deck.Rank{deck.Two},
		)
		msgs := r.handMessages()
		utils.AssertEqual(t, len(msgs), 2)
		for i, msg := range msgs {
			utils.AssertEqual(t, msg.Event, eventYourHand)
			utils.AssertEqual(t, msg.PlayerID, playerID(i))
		}
	})
}
