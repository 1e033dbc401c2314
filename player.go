package bluff

import "github.com/cardtable/bluff/deck"

// Player is one seated participant. The hand is a multiset of ranks; order
// is irrelevant.
type Player struct {
	ID    string
	Name  string
	Seat  int
	Hand  []deck.Rank
	Score int
}

// holdsAll reports whether the hand contains every requested card, counting
// duplicates. [1,1] is only held if the hand has two copies of rank 1.
func (p *Player) holdsAll(cards []deck.Rank) bool {
	counts := map[deck.Rank]int{}
	for _, c := range p.Hand {
		counts[c]++
	}
	for _, c := range cards {
		counts[c]--
		if counts[c] < 0 {
			return false
		}
	}
	return true
}

// removeCards takes one copy of each requested card out of the hand. The
// caller must have checked holdsAll first.
func (p *Player) removeCards(cards []deck.Rank) {
	for _, c := range cards {
		for i, h := range p.Hand {
			if h == c {
				p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
				break
			}
		}
	}
}
