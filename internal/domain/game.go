package domain

import (
	"math/rand"
	"strings"
)

// NewGameParams carries everything needed to open a table.
type NewGameParams struct {
	ID           string
	Name         string
	Code         string
	CardsPerHand int
	Decks        []DeckDefinition
	Creator      Player
}

// NewGame returns a game in the Created state with the creator seated as admin.
func NewGame(p NewGameParams) (*Game, error) {
	if p.CardsPerHand <= 0 {
		return nil, newError(CodeConfiguration, "The number of cards to deal must be at least one, got %d.", p.CardsPerHand)
	}
	if p.CardsPerHand > PackSize {
		return nil, newError(CodeConfiguration, "The number of cards to deal (%d) is more than the pack holds.", p.CardsPerHand)
	}
	decks, err := NewDecks(p.Decks)
	if err != nil {
		return nil, err
	}
	creator := p.Creator
	creator.Admin = true
	return &Game{
		ID:           p.ID,
		Name:         p.Name,
		Code:         strings.ToUpper(p.Code),
		Lifecycle:    LifecycleCreated,
		CardsPerHand: p.CardsPerHand,
		Players:      []*Player{&creator},
		Decks:        decks,
		Hands:        []*Hand{{Username: creator.Username}},
		Direction:    DirectionDown,
		State:        Normal{},
	}, nil
}

// Join seats a new player at a table that has not started yet.
func Join(g *Game, p Player) (*Player, error) {
	switch g.Lifecycle {
	case LifecycleStarted:
		return nil, newError(CodeWrongState,
			"The game you are trying to join has already started. Please click \"Rejoin Game\" if you're an existing player.")
	case LifecycleCompleted:
		return nil, newError(CodeWrongState, "The game you are trying to join has already finished.")
	}
	if g.Player(p.Username) != nil {
		return nil, newError(CodeDuplicatePlayer,
			"There is already a player with that user-name in the game. Please click \"Rejoin Game\" if you're an existing player.")
	}
	player := p
	player.Admin = false
	g.Players = append(g.Players, &player)
	g.Hands = append(g.Hands, &Hand{Username: player.Username})
	return &player, nil
}

// Rejoin returns the existing seat for username so its connection can be refreshed.
func Rejoin(g *Game, username string) (*Player, error) {
	if g.Lifecycle == LifecycleCompleted {
		return nil, newError(CodeWrongState, "The game you are trying to rejoin has already finished.")
	}
	p := g.Player(username)
	if p == nil {
		return nil, newError(CodeUnknownPlayer,
			"There is no player with that user-name in the game. Please click \"Join Game\" if you wish to join as a new player.")
	}
	return p, nil
}

// Start deals the cards and hands the first turn to the first seated player, playing down the list.
func Start(g *Game, username string, rng *rand.Rand) (*Player, error) {
	if g.Lifecycle != LifecycleCreated {
		return nil, newError(CodeWrongState, "The game you are trying to start is not in the correct state. State: %s.", g.Lifecycle)
	}
	if g.Player(username) == nil {
		return nil, newError(CodeUnknownPlayer,
			"The user %s was not found in the game. Please click \"Join Game\" if you wish to join as a new player.", username)
	}
	if err := Deal(g, rng); err != nil {
		return nil, err
	}
	first := g.Players[0]
	g.PlayerToMove = first.Username
	g.Direction = DirectionDown
	g.State = Normal{}
	g.Lifecycle = LifecycleStarted
	return first, nil
}
