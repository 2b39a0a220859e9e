package domain

import "fmt"

// MoveStateKind names a variant of MoveState on the wire.
type MoveStateKind string

const (
	KindNormal           MoveStateKind = "Normal"
	KindWaitingForSuit   MoveStateKind = "WaitingForSuit"
	KindJumpWasPlayed    MoveStateKind = "JumpWasPlayed"
	KindQuestionWasAsked MoveStateKind = "QuestionWasAsked"
	KindTwoWasPlayed     MoveStateKind = "TwoWasPlayed"
	KindThreeWasPlayed   MoveStateKind = "ThreeWasPlayed"
	KindGameWon          MoveStateKind = "GameWon"
)

// MoveState is the special-card sub-state layered on top of a started game.
// The set of variants is closed; only the pickup variants carry a counter.
type MoveState interface {
	Kind() MoveStateKind
	isMoveState()
}

// Normal means the next card must match the reference rank or suit.
type Normal struct{}

// WaitingForSuit follows an ace: the same player must name a suit.
type WaitingForSuit struct{}

// JumpWasPlayed means the player to move has been jumped and can only answer with a jack.
type JumpWasPlayed struct{}

// QuestionWasAsked follows a queen: the same player must answer with another card.
type QuestionWasAsked struct{}

// TwoWasPlayed is a pickup chain of twos.
type TwoWasPlayed struct{ Pickup int }

// ThreeWasPlayed is a pickup chain of threes.
type ThreeWasPlayed struct{ Pickup int }

// GameWon is terminal.
type GameWon struct{}

func (Normal) Kind() MoveStateKind           { return KindNormal }
func (WaitingForSuit) Kind() MoveStateKind   { return KindWaitingForSuit }
func (JumpWasPlayed) Kind() MoveStateKind    { return KindJumpWasPlayed }
func (QuestionWasAsked) Kind() MoveStateKind { return KindQuestionWasAsked }
func (TwoWasPlayed) Kind() MoveStateKind     { return KindTwoWasPlayed }
func (ThreeWasPlayed) Kind() MoveStateKind   { return KindThreeWasPlayed }
func (GameWon) Kind() MoveStateKind          { return KindGameWon }

func (Normal) isMoveState()           {}
func (WaitingForSuit) isMoveState()   {}
func (JumpWasPlayed) isMoveState()    {}
func (QuestionWasAsked) isMoveState() {}
func (TwoWasPlayed) isMoveState()     {}
func (ThreeWasPlayed) isMoveState()   {}
func (GameWon) isMoveState()          {}

// PendingPickup returns the number of cards still owed in a pickup chain, zero otherwise.
func PendingPickup(s MoveState) int {
	switch v := s.(type) {
	case TwoWasPlayed:
		return v.Pickup
	case ThreeWasPlayed:
		return v.Pickup
	}
	return 0
}

// moveStateRecord is the persisted form of a MoveState.
type moveStateRecord struct {
	Kind   MoveStateKind `json:"kind"`
	Pickup int           `json:"pickup,omitempty"`
}

func encodeMoveState(s MoveState) moveStateRecord {
	if s == nil {
		s = Normal{}
	}
	return moveStateRecord{Kind: s.Kind(), Pickup: PendingPickup(s)}
}

func decodeMoveState(r moveStateRecord) (MoveState, error) {
	switch r.Kind {
	case KindNormal, "":
		return Normal{}, nil
	case KindWaitingForSuit:
		return WaitingForSuit{}, nil
	case KindJumpWasPlayed:
		return JumpWasPlayed{}, nil
	case KindQuestionWasAsked:
		return QuestionWasAsked{}, nil
	case KindTwoWasPlayed:
		if r.Pickup <= 0 {
			return nil, fmt.Errorf("move state %s needs a positive pickup count, got %d", r.Kind, r.Pickup)
		}
		return TwoWasPlayed{Pickup: r.Pickup}, nil
	case KindThreeWasPlayed:
		if r.Pickup <= 0 {
			return nil, fmt.Errorf("move state %s needs a positive pickup count, got %d", r.Kind, r.Pickup)
		}
		return ThreeWasPlayed{Pickup: r.Pickup}, nil
	case KindGameWon:
		return GameWon{}, nil
	}
	return nil, fmt.Errorf("unknown move state %q", r.Kind)
}
