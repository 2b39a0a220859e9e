package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Lifecycle is the coarse state of a game.
type Lifecycle string

const (
	// LifecycleCreated accepts joins and seat changes.
	LifecycleCreated Lifecycle = "Created"
	// LifecycleStarted is the dealt, playing game.
	LifecycleStarted Lifecycle = "Started"
	// LifecycleCompleted is entered when a player wins.
	LifecycleCompleted Lifecycle = "Completed"
)

// Direction is the play direction around the player list.
type Direction string

const (
	// DirectionUp moves towards the start of the player list.
	DirectionUp Direction = "Up"
	// DirectionDown moves towards the end of the player list.
	DirectionDown Direction = "Down"
)

// ParseDirection accepts "up" or "down" in any case.
func ParseDirection(value string) (Direction, error) {
	switch {
	case strings.EqualFold(value, string(DirectionUp)):
		return DirectionUp, nil
	case strings.EqualFold(value, string(DirectionDown)):
		return DirectionDown, nil
	}
	return "", newError(CodeInvalidRequest, "Unknown play direction: %s", value)
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == DirectionUp {
		return DirectionDown
	}
	return DirectionUp
}

// Label is the lower-case form used in narration.
func (d Direction) Label() string { return strings.ToLower(string(d)) }

// MoveDirection records which way a card travelled.
type MoveDirection string

const (
	MoveHandToDeck MoveDirection = "HandToDeck"
	MoveDeckToHand MoveDirection = "DeckToHand"
)

// Player is a seat at the table. Players are never removed once added.
type Player struct {
	Username     string `json:"username"`
	Name         string `json:"name"`
	Admin        bool   `json:"admin"`
	ConnectionID string `json:"connection_id"`
	Cardy        bool   `json:"cardy"`
	Winner       bool   `json:"winner"`
}

// Move is one undoable card movement.
type Move struct {
	Username  string        `json:"username"`
	Card      Card          `json:"card"`
	DeckID    string        `json:"deck_id"`
	Direction MoveDirection `json:"direction"`
}

// Message is a line in the game feed, visible to the listed usernames.
type Message struct {
	From      string    `json:"from,omitempty"`
	To        []string  `json:"to"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Game is the aggregate root. It is loaded, mutated and saved as one unit.
type Game struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Lifecycle    Lifecycle `json:"lifecycle"`
	CardsPerHand int       `json:"cards_per_hand"`
	Players      []*Player `json:"players"`
	Decks        []*Deck   `json:"decks"`
	Hands        []*Hand   `json:"hands"`
	Moves        []Move    `json:"moves"`
	UndoneMoves  []Move    `json:"undone_moves"`
	Messages     []Message `json:"messages"`
	PlayerToMove string    `json:"player_to_move"`
	Direction    Direction `json:"direction"`
	// Reference is the rank and suit the next card must match. Zero means anything goes.
	Reference  Card      `json:"reference"`
	State      MoveState `json:"-"`
	WinnerName string    `json:"winner_name,omitempty"`
}

// MoveState returns the current sub-state, treating an unset state as Normal.
func (g *Game) MoveState() MoveState {
	if g.State == nil {
		return Normal{}
	}
	return g.State
}

type gameFields Game

type gameRecord struct {
	*gameFields
	MoveState moveStateRecord `json:"move_state"`
}

// MarshalJSON persists the sub-state as a {kind, pickup} record.
func (g Game) MarshalJSON() ([]byte, error) {
	fields := gameFields(g)
	return json.Marshal(gameRecord{gameFields: &fields, MoveState: encodeMoveState(g.State)})
}

// UnmarshalJSON restores the sub-state variant from its record.
func (g *Game) UnmarshalJSON(data []byte) error {
	rec := gameRecord{gameFields: (*gameFields)(g)}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	state, err := decodeMoveState(rec.MoveState)
	if err != nil {
		return fmt.Errorf("decode game %s: %w", g.ID, err)
	}
	g.State = state
	return nil
}
