package app

import (
	"errors"

	"cardy/internal/domain"
)

// EventKind identifies emitted events for delivery.
type EventKind string

const (
	EventGameCreated  EventKind = "game_created"
	EventFullGame     EventKind = "full_game"
	EventPlayerJoined EventKind = "player_joined"
	EventError        EventKind = "error"
)

// Event is an app event addressed to specific connections.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // connection IDs
}

type GameCreatedPayload struct {
	GameID   string `json:"game_id"`
	GameCode string `json:"game_code"`
	GameName string `json:"game_name"`
}

type PlayerJoinedPayload struct {
	GameCode string       `json:"game_code"`
	Players  []PlayerInfo `json:"players"`
}

type ErrorPayload struct {
	Code    domain.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// ErrorEvent turns a failed action into a single notification for the acting connection.
// Rule violations are passed through verbatim; anything else is reported generically.
func ErrorEvent(connectionID string, err error) Event {
	payload := ErrorPayload{Code: "internal", Message: "Something went wrong. Please try again."}
	var derr *domain.Error
	if errors.As(err, &derr) {
		payload = ErrorPayload{Code: derr.Code, Message: derr.Error()}
	}
	return Event{Kind: EventError, Payload: payload, Recipients: []string{connectionID}}
}

// fullGameEvents builds one view per player in usernames that has a live connection.
func fullGameEvents(g *domain.Game, usernames []string) []Event {
	events := make([]Event, 0, len(usernames))
	for _, u := range usernames {
		p := g.Player(u)
		if p == nil || p.ConnectionID == "" {
			continue
		}
		events = append(events, Event{
			Kind:       EventFullGame,
			Payload:    BuildView(g, p.Username),
			Recipients: []string{p.ConnectionID},
		})
	}
	return events
}
