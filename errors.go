package bluff

import "errors"

// Sentinel errors for every caller-facing failure. Validation always runs
// before mutation, so a returned error means the room was left untouched.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrAlreadyStarted      = errors.New("game has already started")
	ErrInvalidConfig       = errors.New("invalid room configuration")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrNoCardsSelected     = errors.New("no cards selected")
	ErrDeclarationRequired = errors.New("a declared rank is required to open a trick")
	ErrCardsNotInHand      = errors.New("cards not in hand")
	ErrEmptyTable          = errors.New("no cards on the table")
	ErrNotInRoom           = errors.New("player is not in a room")
)

// Reason maps an error to the string reason delivered in the response
// envelope. Anything unrecognised maps to "internal".
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	case errors.Is(err, ErrAlreadyStarted):
		return "already_started"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrNoCardsSelected):
		return "no_cards_selected"
	case errors.Is(err, ErrDeclarationRequired):
		return "declaration_required"
	case errors.Is(err, ErrCardsNotInHand):
		return "cards_not_in_hand"
	case errors.Is(err, ErrEmptyTable):
		return "empty_table"
	case errors.Is(err, ErrNotInRoom):
		return "not_in_room"
	}
	return "internal"
}
