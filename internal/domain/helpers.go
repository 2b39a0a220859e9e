package domain

import "strings"

// Player returns the player with the given username (case-insensitive) or nil.
func (g *Game) Player(username string) *Player {
	for _, p := range g.Players {
		if strings.EqualFold(p.Username, username) {
			return p
		}
	}
	return nil
}

// Hand returns the hand owned by username (case-insensitive) or nil.
func (g *Game) Hand(username string) *Hand {
	for _, h := range g.Hands {
		if strings.EqualFold(h.Username, username) {
			return h
		}
	}
	return nil
}

// Deck returns the deck with the given id or nil.
func (g *Game) Deck(id string) *Deck {
	for _, d := range g.Decks {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// OriginalPack returns the deck that receives the undealt remainder.
func (g *Game) OriginalPack() *Deck {
	for _, d := range g.Decks {
		if d.OriginalPack {
			return d
		}
	}
	return nil
}

// DiscardPile returns the first deck that is not the original pack.
func (g *Game) DiscardPile() *Deck {
	for _, d := range g.Decks {
		if !d.OriginalPack {
			return d
		}
	}
	return nil
}

// DropDeck returns the first deck that accepts cards from a hand.
func (g *Game) DropDeck() *Deck {
	for _, d := range g.Decks {
		if d.CanDropFromHand {
			return d
		}
	}
	return nil
}

// Usernames returns every player's username in seating order.
func (g *Game) Usernames() []string {
	names := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		names = append(names, p.Username)
	}
	return names
}

// CardCount returns the size of username's hand.
func (g *Game) CardCount(username string) int {
	if h := g.Hand(username); h != nil {
		return len(h.Cards)
	}
	return 0
}

// IsTurnOf reports whether username is the player to move.
func (g *Game) IsTurnOf(username string) bool {
	return g.PlayerToMove != "" && strings.EqualFold(g.PlayerToMove, username)
}

// PlayerToMoveName returns the display name of the player to move for error messages.
func (g *Game) PlayerToMoveName() string {
	if p := g.Player(g.PlayerToMove); p != nil {
		return p.Name
	}
	return "<unknown player " + g.PlayerToMove + ">"
}

func (g *Game) playerIndex(username string) int {
	for i, p := range g.Players {
		if strings.EqualFold(p.Username, username) {
			return i
		}
	}
	return -1
}

func (g *Game) requireLifecycle(want Lifecycle, action string) error {
	if g.Lifecycle != want {
		return newError(CodeWrongState, "The game in which you are trying to %s is not in the %s state. State: %s.",
			action, strings.ToLower(string(want)), g.Lifecycle)
	}
	return nil
}

func (g *Game) requirePlayer(username string) (*Player, error) {
	p := g.Player(username)
	if p == nil {
		return nil, newError(CodeUnknownPlayer, "The user %s was not found in the game.", username)
	}
	return p, nil
}

func (g *Game) requireHand(username string) (*Hand, error) {
	h := g.Hand(username)
	if h == nil {
		return nil, newError(CodeUnknownPlayer, "The user %s does not have a hand in the game.", username)
	}
	return h, nil
}

func (g *Game) requireNotWon() error {
	if _, won := g.MoveState().(GameWon); won {
		return newError(CodeWrongState, "%s has won the game. No further moves are accepted.", g.WinnerName)
	}
	return nil
}
