package bluff

import (
	"github.com/cardtable/bluff/deck"
	"github.com/cardtable/bluff/protocol"
)

const (
	eventRoomUpdate  = protocol.EventRoomUpdate
	eventGameStarted = protocol.EventGameStarted
	eventYourHand    = protocol.EventYourHand
	eventTableUpdate = protocol.EventTableUpdate
	eventBluffResult = protocol.EventBluffResult
	eventRoundEnd    = protocol.EventRoundEnd
)

// Builders for the payloads handed to the broadcaster. All of them are
// called with the room lock held, so they see a consistent snapshot.

func (r *Room) roomUpdatePayload() protocol.RoomUpdate {
	players := make([]protocol.PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, protocol.PlayerInfo{
			ID:        p.ID,
			Name:      p.Name,
			Seat:      p.Seat,
			Score:     p.Score,
			HandCount: len(p.Hand),
		})
	}

	update := protocol.RoomUpdate{
		Name:       r.name,
		Code:       r.code,
		MaxPlayers: r.maxPlayers,
		Players:    players,
		OwnerID:    r.ownerID,
		State:      r.state.String(),
		Round:      r.round,
	}
	if r.declaredRank.Valid() {
		update.TargetRank = r.declaredRank.String()
	}
	return update
}

func (r *Room) roomUpdateMessage() OutboundMessage {
	return OutboundMessage{Event: eventRoomUpdate, Data: r.roomUpdatePayload()}
}

func (r *Room) gameStartedPayload() protocol.GameStarted {
	return protocol.GameStarted{Round: r.round}
}

func (r *Room) handPayload(p *Player) protocol.HandUpdate {
	return protocol.HandUpdate{Cards: deck.Strings(p.Hand)}
}

// handMessages builds one private your_hand push per seated player.
func (r *Room) handMessages() []OutboundMessage {
	msgs := make([]OutboundMessage, 0, len(r.players))
	for _, p := range r.players {
		msgs = append(msgs, OutboundMessage{
			Event:    eventYourHand,
			PlayerID: p.ID,
			Data:     r.handPayload(p),
		})
	}
	return msgs
}

func playSummary(p Play) protocol.PlaySummary {
	return protocol.PlaySummary{
		By:       p.By,
		Name:     p.Name,
		Count:    len(p.Cards),
		Cards:    deck.Strings(p.Cards),
		Declared: p.Declared.String(),
	}
}

func (r *Room) tableUpdateMessage(lastPlay *Play) OutboundMessage {
	table := make([]protocol.PlaySummary, 0, len(r.table))
	for _, p := range r.table {
		table = append(table, playSummary(p))
	}

	update := protocol.TableUpdate{Table: table}
	if lastPlay != nil {
		summary := playSummary(*lastPlay)
		update.LastPlay = &summary
	}
	if r.declaredRank.Valid() {
		update.TargetRank = r.declaredRank.String()
	}
	return OutboundMessage{Event: eventTableUpdate, Data: update}
}

func (r *Room) bluffResultMessage(res Resolution) OutboundMessage {
	return OutboundMessage{
		Event: eventBluffResult,
		Data: protocol.BluffResult{
			Result:  string(res.Result),
			Accused: res.Accused,
			Caller:  res.Caller,
			Target:  res.Target.String(),
		},
	}
}

// roundEndMessage announces the players on the highest score.
func (r *Room) roundEndMessage() OutboundMessage {
	winners := []protocol.Winner{}
	best := 0
	for i, p := range r.players {
		if i == 0 || p.Score > best {
			best = p.Score
		}
	}
	for _, p := range r.players {
		if p.Score == best {
			winners = append(winners, protocol.Winner{Name: p.Name, Score: p.Score})
		}
	}
	return OutboundMessage{Event: eventRoundEnd, Data: protocol.RoundEnd{Winners: winners}}
}
