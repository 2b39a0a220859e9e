package domain

import "math/rand"

// ChooseSuit names the suit after an ace and ends the turn.
func ChooseSuit(g *Game, username string, suit Suit) (*Player, error) {
	if err := g.requireLifecycle(LifecycleStarted, "choose a suit"); err != nil {
		return nil, err
	}
	player, err := g.requirePlayer(username)
	if err != nil {
		return nil, err
	}
	if _, ok := g.MoveState().(WaitingForSuit); !ok {
		return nil, newError(CodeWrongState, "You may only choose a suit after playing an ace.")
	}
	if !g.IsTurnOf(username) {
		return nil, newError(CodeNotYourTurn, "You may not choose a suit, because it is not your turn. It is %s's turn.", g.PlayerToMoveName())
	}
	if !suit.Valid() {
		return nil, newError(CodeInvalidRequest, "Unknown suit: %d", int(suit))
	}
	g.Reference.Suit = suit
	g.State = Normal{}
	Advance(g, player, true)
	return player, nil
}

// RespondToJump resolves a jump for the player to move. A player that cannot block loses the turn
// without their cardy declaration lapsing; a blocking player keeps the turn.
// Either way the game returns to Normal. The returned player is the one now to move.
func RespondToJump(g *Game, username string, blocked bool) (*Player, error) {
	if err := g.requireLifecycle(LifecycleStarted, "respond to a jump"); err != nil {
		return nil, err
	}
	if !g.IsTurnOf(username) {
		return nil, newError(CodeNotYourTurn, "You cannot respond to a jump, because it is not your turn.")
	}
	player, err := g.requirePlayer(username)
	if err != nil {
		return nil, err
	}
	if _, ok := g.MoveState().(JumpWasPlayed); !ok {
		return nil, newError(CodeWrongState, "Attempting to block a jump when the game is not in jump mode.")
	}
	next := player
	if !blocked {
		next = Advance(g, player, false)
	}
	g.State = Normal{}
	return next, nil
}

// SetCardy records or withdraws a last-card declaration. Repeating the current value is rejected.
func SetCardy(g *Game, username string, cardy bool) (*Player, error) {
	if err := g.requireLifecycle(LifecycleStarted, "declare cardy"); err != nil {
		return nil, err
	}
	player, err := g.requirePlayer(username)
	if err != nil {
		return nil, err
	}
	if player.Cardy == cardy {
		return nil, newError(CodeCardyUnchanged,
			"You were already cardy and tried to set it as cardy again. Or you were not cardy, and tried to set it again as not cardy.")
	}
	player.Cardy = cardy
	return player, nil
}

// ShuffleTransfer keeps the top card of the from deck and moves the rest onto the to deck,
// which is then shuffled. It is how the discard pile is recycled into the pack.
func ShuffleTransfer(g *Game, rng *rand.Rand, username, fromID, toID string) (*Player, error) {
	if err := g.requireLifecycle(LifecycleStarted, "shuffle and move"); err != nil {
		return nil, err
	}
	player := g.Player(username)
	if player == nil {
		return nil, newError(CodeUnknownPlayer,
			"The user %s was not found in the game. Please click \"Join Game\" if you wish to join as a new player.", username)
	}
	from, to := g.Deck(fromID), g.Deck(toID)
	if from == nil || to == nil {
		return nil, newError(CodeDeckCapability, "Either the from deck (%s) or the to deck (%s) does not exist.", fromID, toID)
	}
	if from == to {
		return nil, newError(CodeInvalidRequest, "The from deck and the to deck must be different.")
	}
	switch len(from.Cards) {
	case 0:
		return nil, newError(CodeEmptyDeck, "The from deck has no cards.")
	case 1:
		return nil, newError(CodeEmptyDeck, "The from deck has only one card.")
	}
	merged := make([]Card, 0, len(to.Cards)+len(from.Cards)-1)
	merged = append(merged, to.Cards...)
	merged = append(merged, from.Cards[1:]...)
	ShuffleCards(rng, merged)
	from.Cards = from.Cards[:1:1]
	to.Cards = merged
	return player, nil
}
