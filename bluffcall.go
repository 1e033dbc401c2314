package bluff

import "time"

// CallBluff challenges the most recent play against the trick's locked rank.
// Earlier plays in the trick are never re-examined.
//
// If any card of the last play differs from the locked rank the accused lied:
// accused -LiarPenalty, caller +CallerReward. Otherwise the caller pays
// CallerPenalty. Either way the trick resets: table cleared, declared rank
// unlocked, round counter incremented, and the caller leads the next trick.
func (r *Room) CallBluff(callerID string) ([]OutboundMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Playing || len(r.table) == 0 {
		return nil, ErrEmptyTable
	}

	last := r.table[len(r.table)-1]
	target := r.declaredRank

	lied := false
	for _, c := range last.Cards {
		if c != target {
			lied = true
			break
		}
	}

	res := Resolution{
		Accused: last.Name,
		Caller:  callerID,
		Target:  target,
		At:      time.Now(),
	}

	caller := r.playerByID(callerID)
	// The accused may have left mid-trick; their play is still judged but
	// there is no score to adjust.
	accused := r.playerByID(last.By)

	if lied {
		res.Result = Liar
		if accused != nil {
			accused.Score -= LiarPenalty
		}
		if caller != nil {
			caller.Score += CallerReward
		}
	} else {
		res.Result = Truthful
		if caller != nil {
			caller.Score -= CallerPenalty
		}
	}

	if caller != nil {
		res.Caller = caller.Name
		for i, p := range r.players {
			if p.ID == callerID {
				r.turnIndex = i
				break
			}
		}
	}

	r.table = nil
	r.declaredRank = 0
	r.round++
	r.history = append(r.history, HistoryEvent{Resolution: &res})

	msgs := []OutboundMessage{
		r.bluffResultMessage(res),
		r.tableUpdateMessage(nil),
		r.roomUpdateMessage(),
	}
	return msgs, nil
}
