package bluff

import (
	"time"

	"github.com/cardtable/bluff/deck"
)

// PlayCards submits a trick contribution for the player whose turn it is.
//
// The first play of a trick must carry a valid declared rank, which locks
// the trick's target. Every later play in the same trick inherits the locked
// rank; a declared argument on those plays is ignored. Cards are checked
// against the hand as a multiset, so duplicates must genuinely be held.
//
// A play that empties the acting player's hand ends the round immediately:
// the player receives WinBonus, the room leaves Playing and the turn pointer
// does not advance.
func (r *Room) PlayCards(playerID string, cards []deck.Rank, declared deck.Rank) ([]OutboundMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Playing {
		return nil, ErrNotYourTurn
	}
	current := r.players[r.turnIndex]
	if current.ID != playerID {
		return nil, ErrNotYourTurn
	}
	if len(cards) == 0 {
		return nil, ErrNoCardsSelected
	}

	target := r.declaredRank
	if len(r.table) == 0 {
		if !declared.Valid() {
			return nil, ErrDeclarationRequired
		}
		target = declared
	}

	if !current.holdsAll(cards) {
		return nil, ErrCardsNotInHand
	}

	// Validation is done; mutate.
	r.declaredRank = target
	current.removeCards(cards)

	play := Play{
		By:       current.ID,
		Name:     current.Name,
		Cards:    append([]deck.Rank(nil), cards...),
		Declared: target,
		At:       time.Now(),
	}
	r.table = append(r.table, play)
	r.history = append(r.history, HistoryEvent{Play: &r.table[len(r.table)-1]})

	if len(current.Hand) == 0 {
		current.Score += WinBonus
		r.state = RoundResolved

		// the final table view still shows the winning play
		tableMsg := r.tableUpdateMessage(&play)

		// the round is over: the trick is dead and cannot be challenged
		r.table = nil
		r.declaredRank = 0

		msgs := []OutboundMessage{
			tableMsg,
			{Event: eventYourHand, PlayerID: current.ID, Data: r.handPayload(current)},
			r.roundEndMessage(),
			r.roomUpdateMessage(),
		}
		return msgs, nil
	}

	r.turnIndex = (r.turnIndex + 1) % len(r.players)

	msgs := []OutboundMessage{
		r.tableUpdateMessage(&play),
		{Event: eventYourHand, PlayerID: current.ID, Data: r.handPayload(current)},
		r.roomUpdateMessage(),
	}
	return msgs, nil
}
