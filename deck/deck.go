package deck

import (
	"math/rand"
	"time"
)

// Deck represents the undealt cards of a room.
type Deck []Rank

// New creates a shuffled deck sized to the player count: playerCount copies
// of each of the ten ranks. Pass a seeded *rand.Rand for a deterministic
// order; nil falls back to a time-seeded source.
func New(playerCount int, rng *rand.Rand) Deck {
	cards := make(Deck, 0, playerCount*NumRanks)
	for _, r := range Ranks() {
		for i := 0; i < playerCount; i++ {
			cards = append(cards, r)
		}
	}
	cards.Shuffle(rng)
	return cards
}

// Shuffle permutes the deck with an unbiased Fisher-Yates pass.
func (d Deck) Shuffle(rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for i := len(d) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Deal removes up to n cards from the top of the deck.
func (d *Deck) Deal(n int) []Rank {
	cards := *d
	if n < 0 {
		return nil
	}
	if n > len(cards) {
		n = len(cards)
	}
	start := len(cards) - n
	dealt := cards[start:]
	*d = cards[:start]
	return dealt
}

// DealRoundRobin distributes handSize cards to each of numHands hands, one
// card per hand per pass, consuming from the top of the deck. If the deck
// runs out mid-deal the remaining hands come up short; this is accepted, not
// an error.
func (d *Deck) DealRoundRobin(numHands, handSize int) [][]Rank {
	hands := make([][]Rank, numHands)
	for pass := 0; pass < handSize; pass++ {
		for i := 0; i < numHands; i++ {
			card := d.Deal(1)
			if len(card) == 0 {
				return hands
			}
			hands[i] = append(hands[i], card[0])
		}
	}
	return hands
}
