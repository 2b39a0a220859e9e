package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"cardy/internal/domain"
)

// PlayCard plays a card from the caller's hand onto the discard pile.
func (s *Service) PlayCard(ctx context.Context, connID string, req PlayCardRequest) ([]Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	card, err := domain.ParseCard(req.Card)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, req.GameCode, func(g *domain.Game) ([]Event, error) {
		s.touch(g, req.Username, connID)
		effect, err := domain.PlayCard(g, req.Username, card)
		if err != nil {
			return nil, err
		}
		s.narrate(g, fmt.Sprintf("%s played the %s. %s", g.Player(req.Username).Name, card.Description(), effect))
		return fullGameEvents(g, g.Usernames()), nil
	})
}

// TakeCard draws the top card of a deck into the caller's hand.
func (s *Service) TakeCard(ctx context.Context, connID string, req TakeCardRequest) ([]Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, req.GameCode, func(g *domain.Game) ([]Event, error) {
		s.touch(g, req.Username, connID)
		effect, err := domain.TakeCard(g, req.Username, req.DeckID)
		if err != nil {
			return nil, err
		}
		s.narrate(g, fmt.Sprintf("%s took a card from the deck. %s", g.Player(req.Username).Name, effect))
		return fullGameEvents(g, g.Usernames()), nil
	})
}

// UndoLastMove moves the most recent card back to where it came from.
func (s *Service) UndoLastMove(ctx context.Context, connID string, req GameRequest) ([]Event, error) {
	if err := req.validate(RequestUndoLastMove); err != nil {
		return nil, err
	}
	return s.update(ctx, req.GameCode, func(g *domain.Game) ([]Event, error) {
		s.touch(g, req.Username, connID)
		narration, err := domain.UndoLastMove(g, req.Username)
		if err != nil {
			return nil, err
		}
		s.narrate(g, narration)
		return fullGameEvents(g, g.Usernames()), nil
	})
}

// ShuffleAndMove recycles all but the top card of one deck into another and shuffles it.
func (s *Service) ShuffleAndMove(ctx context.Context, connID string, req ShuffleAndMoveRequest) ([]Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, req.GameCode, func(g *domain.Game) ([]Event, error) {
		s.touch(g, req.Username, connID)
		var player *domain.Player
		err := s.withRNG(func(rng *rand.Rand) error {
			var err error
			player, err = domain.ShuffleTransfer(g, rng, req.Username, req.FromDeckID, req.ToDeckID)
			return err
		})
		if err != nil {
			return nil, err
		}
		s.narrate(g, fmt.Sprintf("%s shuffled the cards from the %s deck into the %s deck.", player.Name, req.FromDeckID, req.ToDeckID))
		return fullGameEvents(g, g.Usernames()), nil
	})
}

// SetCardy records or withdraws the caller's last-card declaration.
func (s *Service) SetCardy(ctx context.Context, connID string, req SetCardyRequest) ([]Event, error) {
	if err := req.validate(RequestSetCardy); err != nil {
		return nil, err
	}
	return s.update(ctx, req.GameCode, func(g *domain.Game) ([]Event, error) {
		s.touch(g, req.Username, connID)
		p, err := domain.SetCardy(g, req.Username, req.Cardy)
		if err != nil {
			return nil, err
		}
		if req.Cardy {
			s.narrate(g, fmt.Sprintf("%s is cardy!", p.Name))
		} else {
			s.narrate(g, fmt.Sprintf("%s is no longer cardy.", p.Name))
		}
		return fullGameEvents(g, g.Usernames()), nil
	})
}

// ChooseSuit names the suit after the caller played an ace.
func (s *Service) ChooseSuit(ctx context.Context, connID string, req ChooseSuitRequest) ([]Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	suit, err := domain.ParseSuit(req.Suit)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, req.GameCode, func(g *domain.Game) ([]Event, error) {
		s.touch(g, req.Username, connID)
		p, err := domain.ChooseSuit(g, req.Username, suit)
		if err != nil {
			return nil, err
		}
		s.narrate(g, fmt.Sprintf("%s set the suit to %s. It is now %s's turn.", p.Name, suit.Name(), g.PlayerToMoveName()))
		return fullGameEvents(g, g.Usernames()), nil
	})
}

// RespondToJump resolves a jump against the caller.
func (s *Service) RespondToJump(ctx context.Context, connID string, req RespondToJumpRequest) ([]Event, error) {
	if err := req.validate(RequestRespondToJump); err != nil {
		return nil, err
	}
	return s.update(ctx, req.GameCode, func(g *domain.Game) ([]Event, error) {
		s.touch(g, req.Username, connID)
		next, err := domain.RespondToJump(g, req.Username, req.Blocked)
		if err != nil {
			return nil, err
		}
		name := g.Player(req.Username).Name
		if req.Blocked {
			s.narrate(g, fmt.Sprintf("%s will block the jump.", name))
		} else {
			s.narrate(g, fmt.Sprintf("%s was jumped. It is now %s's turn.", name, next.Name))
		}
		return fullGameEvents(g, g.Usernames()), nil
	})
}

// SetPlayerTurn hands the turn to another player and fixes the play direction.
func (s *Service) SetPlayerTurn(ctx context.Context, connID string, req PlayerDirectionRequest) ([]Event, error) {
	if err := req.validate(RequestSetPlayerTurn); err != nil {
		return nil, err
	}
	dir, err := domain.ParseDirection(req.Direction)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, req.GameCode, func(g *domain.Game) ([]Event, error) {
		s.touch(g, req.Username, connID)
		target, err := domain.SetTurn(g, req.Username, req.PlayerUsername, dir)
		if err != nil {
			return nil, err
		}
		s.narrate(g, fmt.Sprintf("%s set the turn to %s, playing %s.", g.Player(req.Username).Name, target.Name, dir.Label()))
		return fullGameEvents(g, g.Usernames()), nil
	})
}

// ChangePlayerPosition moves a player one seat up or down before the game starts.
func (s *Service) ChangePlayerPosition(ctx context.Context, connID string, req PlayerDirectionRequest) ([]Event, error) {
	if err := req.validate(RequestChangePlayerPosition); err != nil {
		return nil, err
	}
	dir, err := domain.ParseDirection(req.Direction)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, req.GameCode, func(g *domain.Game) ([]Event, error) {
		s.touch(g, req.Username, connID)
		if err := domain.MovePlayer(g, req.Username, req.PlayerUsername, dir); err != nil {
			return nil, err
		}
		s.narrate(g, fmt.Sprintf("%s moved %s %s.", g.Player(req.Username).Name, g.Player(req.PlayerUsername).Name, dir.Label()))
		return fullGameEvents(g, g.Usernames()), nil
	})
}

// SendMessage posts a chat line to one player, or to everyone when no recipient is named.
// Only the recipients are notified.
func (s *Service) SendMessage(ctx context.Context, connID string, req SendMessageRequest) ([]Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, req.GameCode, func(g *domain.Game) ([]Event, error) {
		from := g.Player(req.Username)
		if from == nil {
			return nil, domain.NewError(domain.CodeUnknownPlayer, "The user %s was not found in the game.", req.Username)
		}
		recipients := g.Usernames()
		content := fmt.Sprintf("Message from %s: %s", from.Name, strings.TrimSpace(req.Message))
		if to := strings.TrimSpace(req.ToUsername); to != "" {
			target := g.Player(to)
			if target == nil {
				return nil, domain.NewError(domain.CodeUnknownPlayer, "The user %s was not found in the game.", to)
			}
			recipients = []string{from.Username}
			if target.Username != from.Username {
				recipients = append(recipients, target.Username)
			}
			content = fmt.Sprintf("Message from %s to %s: %s", from.Name, target.Name, strings.TrimSpace(req.Message))
		}
		s.touch(g, req.Username, connID)
		s.post(g, from.Username, recipients, content)
		return fullGameEvents(g, recipients), nil
	})
}
