package domain

import "fmt"

// EvaluatePlay checks card against the current sub-state and applies its effect to the game:
// reference rank and suit, sub-state, pickup counter, play direction and player to move.
// The caller has already confirmed it is player's turn and that player holds card; moving the
// card itself is left to the caller. On rejection the game is not modified.
// The returned narration describes the effect and may be empty.
func EvaluatePlay(g *Game, card Card, player *Player) (string, error) {
	state := g.MoveState()

	switch state.(type) {
	case GameWon:
		return "", g.requireNotWon()
	case WaitingForSuit:
		return "", newError(CodeIllegalCard, "You may not play a card. You have played your turn already.")
	case JumpWasPlayed:
		if card.Rank != RankJack {
			return "", newError(CodeIllegalCard,
				"If you are being jumped, you may only play a jack to cancel the jump. The %s is not valid.", card.Description())
		}
		// The jump carries on to the next player.
		g.Reference = card
		Advance(g, player, true)
		return "The jump was blocked with a jack, and the next player is now jumped.", nil
	}

	if card.Rank == RankAce {
		switch state.(type) {
		case TwoWasPlayed, ThreeWasPlayed:
			blocked := RankTwo
			if _, ok := state.(ThreeWasPlayed); ok {
				blocked = RankThree
			}
			g.Reference = card
			g.State = Normal{}
			Advance(g, player, true)
			return fmt.Sprintf("The %s was blocked with an ace. The suit is now %s.", blocked.Name(), card.Suit.Name()), nil
		}
		// The suit is named separately, so only the rank changes here.
		g.Reference.Rank = RankAce
		g.State = WaitingForSuit{}
		return "They must now choose a suit.", nil
	}

	switch s := state.(type) {
	case TwoWasPlayed:
		if card.Rank != RankTwo {
			return "", newError(CodeIllegalCard,
				"A two was played before, so only another two or an ace may be played. The %s is not valid.", card.Description())
		}
		g.Reference = card
		g.State = TwoWasPlayed{Pickup: s.Pickup + 2}
		Advance(g, player, true)
		return fmt.Sprintf("The next player must pick %d cards!", s.Pickup+2), nil
	case ThreeWasPlayed:
		if card.Rank != RankThree {
			return "", newError(CodeIllegalCard,
				"A three was played before, so only another three or an ace may be played. The %s is not valid.", card.Description())
		}
		// The chain keeps the suit of the three that started it.
		g.State = ThreeWasPlayed{Pickup: s.Pickup + 3}
		Advance(g, player, true)
		return fmt.Sprintf("The next player must pick %d cards!", s.Pickup+3), nil
	}

	ref := g.Reference
	if !ref.IsZero() && card.Rank != ref.Rank && card.Suit != ref.Suit {
		return "", newError(CodeIllegalCard, "Either a %s or a %s must be played.", ref.Rank.Name(), ref.Suit.Name())
	}
	g.Reference = card

	switch card.Rank {
	case RankTwo:
		g.State = TwoWasPlayed{Pickup: 2}
		Advance(g, player, true)
		return "The next player must pick 2 cards!", nil
	case RankThree:
		g.State = ThreeWasPlayed{Pickup: 3}
		Advance(g, player, true)
		return "The next player must pick 3 cards!", nil
	case RankQueen:
		g.State = QuestionWasAsked{}
		return "The question requires an answer!", nil
	case RankKing:
		g.Direction = g.Direction.Reverse()
		g.State = Normal{}
		next := Advance(g, player, true)
		return fmt.Sprintf("Kick back! It is now %s's turn.", next.Name), nil
	case RankJack:
		g.State = JumpWasPlayed{}
		Advance(g, player, true)
		return "Jump!", nil
	}

	if player.Cardy && g.CardCount(player.Username) == 1 {
		player.Winner = true
		g.State = GameWon{}
		g.WinnerName = player.Name
		return fmt.Sprintf("%s is the winner!!!", player.Name), nil
	}

	g.State = Normal{}
	Advance(g, player, true)
	return "", nil
}

// PlayCard moves card from username's hand to the top of the first deck that accepts drops,
// after EvaluatePlay accepts it, and records the move for undo.
// A winning play completes the game.
func PlayCard(g *Game, username string, card Card) (string, error) {
	if err := g.requireLifecycle(LifecycleStarted, "play a card"); err != nil {
		return "", err
	}
	if !g.IsTurnOf(username) {
		return "", newError(CodeNotYourTurn,
			"You may not play a card to the deck, because it is not your turn. It is %s's turn.", g.PlayerToMoveName())
	}
	player, err := g.requirePlayer(username)
	if err != nil {
		return "", err
	}
	hand, err := g.requireHand(username)
	if err != nil {
		return "", err
	}
	idx := hand.IndexOf(card)
	if idx < 0 {
		return "", newError(CodeCardNotInHand, "The card %s was not in %s's hand.", card, username)
	}
	deck := g.DropDeck()
	if deck == nil {
		return "", newError(CodeDeckCapability, "There are no decks which accept cards from your hand.")
	}

	effect, err := EvaluatePlay(g, card, player)
	if err != nil {
		return "", err
	}

	hand.removeAt(idx)
	deck.PushTop(card)
	g.Moves = append(g.Moves, Move{
		Username:  player.Username,
		Card:      card,
		DeckID:    deck.ID,
		Direction: MoveHandToDeck,
	})
	if _, won := g.State.(GameWon); won {
		g.Lifecycle = LifecycleCompleted
	}
	return effect, nil
}
