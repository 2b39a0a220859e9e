package domain

import "fmt"

// UndoLastMove reverses the most recent card movement and files it in the undone log.
// Only the card is moved back; reference rank and suit, sub-state, pickup counter and the
// player to move keep their current values.
// The returned narration names the mover and what was restored.
func UndoLastMove(g *Game, username string) (string, error) {
	if err := g.requireLifecycle(LifecycleStarted, "undo a move"); err != nil {
		return "", err
	}
	undoer := g.Player(username)
	if undoer == nil {
		return "", newError(CodeUnknownPlayer, "The request user %s was not found in the game.", username)
	}
	if len(g.Moves) == 0 {
		return "", newError(CodeNothingToUndo, "No move was found to undo.")
	}
	move := g.Moves[len(g.Moves)-1]
	mover := g.Player(move.Username)
	if mover == nil {
		return "", newError(CodeUnknownPlayer, "The move user %s was not found in the game.", move.Username)
	}
	hand, err := g.requireHand(move.Username)
	if err != nil {
		return "", err
	}
	deck := g.Deck(move.DeckID)
	if deck == nil {
		return "", newError(CodeUndoMismatch, "The deck (%s) does not exist.", move.DeckID)
	}

	var detail string
	switch move.Direction {
	case MoveHandToDeck:
		top, ok := deck.Top()
		if !ok || top != move.Card {
			shown := "<no card>"
			if ok {
				shown = top.String()
			}
			return "", newError(CodeUndoMismatch, "The wrong card (%s instead of %s) was at the front of the deck.", shown, move.Card)
		}
		deck.PopTop()
		hand.Cards = append(hand.Cards, move.Card)
		detail = fmt.Sprintf("The card %s was moved back to the player's hand.", move.Card.Description())
	case MoveDeckToHand:
		idx := hand.IndexOf(move.Card)
		if idx < 0 {
			return "", newError(CodeUndoMismatch, "The card %s was not found in %s's hand.", move.Card, move.Username)
		}
		hand.removeAt(idx)
		deck.PushTop(move.Card)
		detail = "The taken card was put back on to the deck."
	default:
		return "", newError(CodeUndoMismatch, "Unknown move direction: %s", move.Direction)
	}

	g.Moves = g.Moves[:len(g.Moves)-1]
	g.UndoneMoves = append(g.UndoneMoves, move)
	return fmt.Sprintf("%s undid the last move by player %s. %s", undoer.Name, mover.Name, detail), nil
}
