package app

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cardy/internal/domain"
)

var tracer = otel.Tracer("cardy/internal/app")

// Envelope is a typed request as it arrives from a client.
type Envelope struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// Dispatch decodes env and runs the matching action for the caller's connection.
func (s *Service) Dispatch(ctx context.Context, connID string, env Envelope) ([]Event, error) {
	ctx, span := tracer.Start(ctx, "cardy."+env.Type, trace.WithAttributes(
		attribute.String("cardy.request_type", env.Type),
		attribute.String("cardy.connection_id", connID),
	))
	defer span.End()

	events, err := s.dispatch(ctx, connID, env)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("cardy.events", len(events)))
	return events, nil
}

func (s *Service) dispatch(ctx context.Context, connID string, env Envelope) ([]Event, error) {
	switch env.Type {
	case RequestCreateGame:
		return run(ctx, connID, env, s.CreateGame)
	case RequestJoinGame:
		return run(ctx, connID, env, s.JoinGame)
	case RequestRejoinGame:
		return run(ctx, connID, env, s.RejoinGame)
	case RequestStartGame:
		return run(ctx, connID, env, s.StartGame)
	case RequestPlayCardToDeck:
		return run(ctx, connID, env, s.PlayCard)
	case RequestTakeCardFromDeck:
		return run(ctx, connID, env, s.TakeCard)
	case RequestShuffleAndMoveCards:
		return run(ctx, connID, env, s.ShuffleAndMove)
	case RequestUndoLastMove:
		return run(ctx, connID, env, s.UndoLastMove)
	case RequestSetCardy:
		return run(ctx, connID, env, s.SetCardy)
	case RequestChooseSuit:
		return run(ctx, connID, env, s.ChooseSuit)
	case RequestRespondToJump:
		return run(ctx, connID, env, s.RespondToJump)
	case RequestSetPlayerTurn:
		return run(ctx, connID, env, s.SetPlayerTurn)
	case RequestChangePlayerPosition:
		return run(ctx, connID, env, s.ChangePlayerPosition)
	case RequestSendMessageToPlayer:
		return run(ctx, connID, env, s.SendMessage)
	}
	return nil, domain.NewError(domain.CodeInvalidRequest, "Unknown request type: %s", env.Type)
}

func run[R any](ctx context.Context, connID string, env Envelope, action func(context.Context, string, R) ([]Event, error)) ([]Event, error) {
	var req R
	if len(env.Content) > 0 {
		if err := json.Unmarshal(env.Content, &req); err != nil {
			return nil, domain.NewError(domain.CodeInvalidRequest, "The %s request could not be read.", env.Type)
		}
	}
	return action(ctx, connID, req)
}
