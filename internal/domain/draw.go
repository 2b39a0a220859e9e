package domain

import "fmt"

// TakeCard moves the top card of deckID into username's hand.
// Inside a pickup chain the turn only passes once the owed cards have all been drawn;
// otherwise a single draw ends the turn. The returned narration describes what happens next.
func TakeCard(g *Game, username, deckID string) (string, error) {
	if err := g.requireLifecycle(LifecycleStarted, "take a card from the deck"); err != nil {
		return "", err
	}
	if !g.IsTurnOf(username) {
		return "", newError(CodeNotYourTurn,
			"You may not take a card from the deck, because it is not your turn. It is %s's turn.", g.PlayerToMoveName())
	}
	player, err := g.requirePlayer(username)
	if err != nil {
		return "", err
	}
	hand, err := g.requireHand(username)
	if err != nil {
		return "", err
	}
	deck := g.Deck(deckID)
	if deck == nil || !deck.CanDrawToHand {
		return "", newError(CodeDeckCapability, "There are no decks with ID %s which allow dragging cards to your hand.", deckID)
	}
	if len(deck.Cards) == 0 {
		return "", newError(CodeEmptyDeck, "The deck has no cards.")
	}
	switch g.MoveState().(type) {
	case JumpWasPlayed:
		return "", newError(CodeIllegalCard, "You may not take a card from the deck, as you have been jumped.")
	case WaitingForSuit:
		return "", newError(CodeIllegalCard, "You may not take a card from the deck, as you have played your turn already.")
	case GameWon:
		return "", g.requireNotWon()
	}

	card, _ := deck.PopTop()
	hand.Cards = append(hand.Cards, card)
	g.Moves = append(g.Moves, Move{
		Username:  player.Username,
		Card:      card,
		DeckID:    deck.ID,
		Direction: MoveDeckToHand,
	})

	var narration string
	switch s := g.MoveState().(type) {
	case TwoWasPlayed:
		narration = g.pickOne(player, s.Pickup-1, func(left int) MoveState { return TwoWasPlayed{Pickup: left} })
	case ThreeWasPlayed:
		narration = g.pickOne(player, s.Pickup-1, func(left int) MoveState { return ThreeWasPlayed{Pickup: left} })
	default:
		g.State = Normal{}
		Advance(g, player, true)
	}
	return narration, nil
}

func (g *Game) pickOne(player *Player, left int, chain func(int) MoveState) string {
	if left <= 0 {
		g.State = Normal{}
		next := Advance(g, player, true)
		return fmt.Sprintf("It is now %s's turn.", next.Name)
	}
	g.State = chain(left)
	if left == 1 {
		return "1 more card must be picked."
	}
	return fmt.Sprintf("%d more cards must be picked.", left)
}
