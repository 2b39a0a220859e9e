package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cardy/internal/domain"
	"cardy/internal/ports"
)

// Defaults are applied to CreateGame requests that leave the table layout out.
type Defaults struct {
	CardsPerHand int
	Decks        []domain.DeckDefinition
}

// Service contains the card table use-cases. Every action loads the game, runs the rules
// against it and saves it back; a concurrent save makes the action run again on a fresh copy.
type Service struct {
	store ports.GameStore

	rngMu sync.Mutex
	rng   *rand.Rand

	clock       func() time.Time
	codes       *CodeGenerator
	maxAttempts int
	defaults    Defaults
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source for message timestamps and game codes.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithMaxSaveAttempts bounds the retries after a version conflict. Values below one are ignored.
func WithMaxSaveAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithDefaults sets the table layout used when a CreateGame request omits it.
func WithDefaults(d Defaults) Option {
	return func(s *Service) {
		if d.CardsPerHand > 0 {
			s.defaults.CardsPerHand = d.CardsPerHand
		}
		if len(d.Decks) > 0 {
			s.defaults.Decks = d.Decks
		}
	}
}

// WithCodeGenerator replaces the join code source.
func WithCodeGenerator(c *CodeGenerator) Option {
	return func(s *Service) { s.codes = c }
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(store ports.GameStore, rng *rand.Rand, opts ...Option) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Service{
		store:       store,
		rng:         rng,
		clock:       time.Now,
		maxAttempts: DefaultMaxSaveAttempts,
		defaults: Defaults{
			CardsPerHand: DefaultCardsPerHand,
			Decks:        domain.StandardDecks(),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.codes == nil {
		s.codes = NewCodeGenerator(s.clock)
	}
	return s
}

// CreateGame opens a new table with the caller seated as admin.
func (s *Service) CreateGame(ctx context.Context, connID string, req CreateGameRequest) ([]Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	cards := req.CardsPerHand
	if cards == 0 {
		cards = s.defaults.CardsPerHand
	}
	decks := req.Decks
	if len(decks) == 0 {
		decks = s.defaults.Decks
	}
	id := strings.TrimSpace(req.GameID)
	if id == "" {
		id = uuid.NewString()
	}

	for attempt := 1; ; attempt++ {
		g, err := domain.NewGame(domain.NewGameParams{
			ID:           id,
			Name:         strings.TrimSpace(req.GameName),
			Code:         s.codes.Next(),
			CardsPerHand: cards,
			Decks:        decks,
			Creator: domain.Player{
				Username:     strings.TrimSpace(req.Username),
				Name:         strings.TrimSpace(req.PlayerName),
				ConnectionID: connID,
			},
		})
		if err != nil {
			return nil, err
		}
		s.narrate(g, fmt.Sprintf("%s created the game %s.", g.Players[0].Name, g.Name))

		// A conflict on insert means the code is taken; draw another one.
		if _, err := s.store.Save(ctx, ports.Snapshot{Game: g}); err != nil {
			if errors.Is(err, ports.ErrVersionConflict) && attempt < s.maxAttempts {
				continue
			}
			return nil, fmt.Errorf("failed to save new game: %w", err)
		}
		return []Event{{
			Kind:       EventGameCreated,
			Payload:    GameCreatedPayload{GameID: g.ID, GameCode: g.Code, GameName: g.Name},
			Recipients: []string{connID},
		}}, nil
	}
}

// JoinGame seats a new player. The joiner gets the full view, everyone else the new player list.
func (s *Service) JoinGame(ctx context.Context, connID string, req JoinGameRequest) ([]Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, req.GameCode, func(g *domain.Game) ([]Event, error) {
		p, err := domain.Join(g, domain.Player{
			Username:     strings.TrimSpace(req.Username),
			Name:         strings.TrimSpace(req.PlayerName),
			ConnectionID: connID,
		})
		if err != nil {
			return nil, err
		}
		s.narrate(g, fmt.Sprintf("%s joined the game.", p.Name))

		events := fullGameEvents(g, []string{p.Username})
		var others []string
		for _, other := range g.Players {
			if other.Username != p.Username && other.ConnectionID != "" {
				others = append(others, other.ConnectionID)
			}
		}
		if len(others) > 0 {
			events = append(events, Event{
				Kind:       EventPlayerJoined,
				Payload:    PlayerJoinedPayload{GameCode: g.Code, Players: playerInfos(g)},
				Recipients: others,
			})
		}
		return events, nil
	})
}

// RejoinGame reattaches an existing player to a new connection.
func (s *Service) RejoinGame(ctx context.Context, connID string, req GameRequest) ([]Event, error) {
	if err := req.validate(RequestRejoinGame); err != nil {
		return nil, err
	}
	return s.update(ctx, req.GameCode, func(g *domain.Game) ([]Event, error) {
		p, err := domain.Rejoin(g, req.Username)
		if err != nil {
			return nil, err
		}
		p.ConnectionID = connID
		s.narrate(g, fmt.Sprintf("%s rejoined the game.", p.Name))
		return fullGameEvents(g, []string{p.Username}), nil
	})
}

// StartGame deals and hands the first turn to the first seated player.
func (s *Service) StartGame(ctx context.Context, connID string, req GameRequest) ([]Event, error) {
	if err := req.validate(RequestStartGame); err != nil {
		return nil, err
	}
	return s.update(ctx, req.GameCode, func(g *domain.Game) ([]Event, error) {
		s.touch(g, req.Username, connID)
		var first *domain.Player
		err := s.withRNG(func(rng *rand.Rand) error {
			var err error
			first, err = domain.Start(g, req.Username, rng)
			return err
		})
		if err != nil {
			return nil, err
		}
		s.narrate(g, fmt.Sprintf("%s started the game. It is %s's turn.", g.Player(req.Username).Name, first.Name))
		return fullGameEvents(g, g.Usernames()), nil
	})
}

// update runs mutate against a freshly loaded game and saves the result, retrying on version conflicts.
// mutate must leave the game untouched when it returns an error.
func (s *Service) update(ctx context.Context, code string, mutate func(g *domain.Game) ([]Event, error)) ([]Event, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for attempt := 1; ; attempt++ {
		snap, err := s.load(ctx, code)
		if err != nil {
			return nil, err
		}
		events, err := mutate(snap.Game)
		if err != nil {
			return nil, err
		}
		if _, err := s.store.Save(ctx, snap); err != nil {
			if errors.Is(err, ports.ErrVersionConflict) && attempt < s.maxAttempts {
				continue
			}
			return nil, fmt.Errorf("failed to save game %s: %w", code, err)
		}
		return events, nil
	}
}

// Game returns a copy of the stored game without changing it.
func (s *Service) Game(ctx context.Context, code string) (*domain.Game, error) {
	snap, err := s.load(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	return snap.Game, nil
}

func (s *Service) load(ctx context.Context, code string) (ports.Snapshot, error) {
	snap, err := s.store.Load(ctx, code)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return ports.Snapshot{}, domain.NewError(domain.CodeNotFound, "Game with code %s was not found.", code)
	case errors.Is(err, ports.ErrAmbiguous):
		return ports.Snapshot{}, domain.NewError(domain.CodeAmbiguousCode, "More than one game with code %s was found.", code)
	case err != nil:
		return ports.Snapshot{}, fmt.Errorf("failed to load game %s: %w", code, err)
	}
	return snap, nil
}

func (s *Service) withRNG(fn func(rng *rand.Rand) error) error {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return fn(s.rng)
}

// touch records the connection an existing player is acting from.
func (s *Service) touch(g *domain.Game, username, connID string) {
	if p := g.Player(username); p != nil && connID != "" {
		p.ConnectionID = connID
	}
}

// narrate appends a feed line visible to every player.
func (s *Service) narrate(g *domain.Game, content string) {
	s.post(g, "", g.Usernames(), content)
}

func (s *Service) post(g *domain.Game, from string, to []string, content string) {
	g.Messages = append(g.Messages, domain.Message{
		From:      from,
		To:        to,
		Content:   strings.TrimSpace(content),
		Timestamp: s.clock().UTC(),
	})
}
