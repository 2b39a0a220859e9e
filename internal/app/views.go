package app

import (
	"strings"
	"time"

	"cardy/internal/domain"
)

// PlayerInfo is the public part of a player. Hands are never included.
type PlayerInfo struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Admin     bool   `json:"admin"`
	Cardy     bool   `json:"cardy"`
	Winner    bool   `json:"winner"`
	CardCount int    `json:"card_count"`
}

// DeckView shows a deck's capabilities and, for face-up decks, its top card.
type DeckView struct {
	ID              string       `json:"id"`
	HasCards        bool         `json:"has_cards"`
	CardCount       int          `json:"card_count"`
	TopCard         *domain.Card `json:"top_card,omitempty"`
	FaceUp          bool         `json:"face_up"`
	CanDrawToHand   bool         `json:"can_draw_to_hand"`
	CanDropFromHand bool         `json:"can_drop_from_hand"`
}

type MessageView struct {
	From      string    `json:"from,omitempty"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// GameView is everything one player is allowed to see.
type GameView struct {
	GameID           string               `json:"game_id"`
	GameName         string               `json:"game_name"`
	GameCode         string               `json:"game_code"`
	Lifecycle        domain.Lifecycle     `json:"lifecycle"`
	Player           PlayerInfo           `json:"player"`
	Hand             []domain.Card        `json:"hand"`
	Players          []PlayerInfo         `json:"players"`
	Decks            []DeckView           `json:"decks"`
	UndoAvailable    bool                 `json:"undo_available"`
	Messages         []MessageView        `json:"messages"`
	PlayerToMove     string               `json:"player_to_move,omitempty"`
	PlayerToMoveName string               `json:"player_to_move_name,omitempty"`
	Direction        domain.Direction     `json:"direction"`
	MoveState        domain.MoveStateKind `json:"move_state"`
	Pickup           int                  `json:"pickup,omitempty"`
	Reference        *domain.Card         `json:"reference,omitempty"`
	WinnerName       string               `json:"winner_name,omitempty"`
}

// BuildView projects g for username.
func BuildView(g *domain.Game, username string) GameView {
	view := GameView{
		GameID:        g.ID,
		GameName:      g.Name,
		GameCode:      g.Code,
		Lifecycle:     g.Lifecycle,
		Hand:          []domain.Card{},
		Players:       playerInfos(g),
		Decks:         make([]DeckView, 0, len(g.Decks)),
		UndoAvailable: g.Lifecycle == domain.LifecycleStarted && len(g.Moves) > 0,
		Messages:      []MessageView{},
		Direction:     g.Direction,
		MoveState:     g.MoveState().Kind(),
		Pickup:        domain.PendingPickup(g.MoveState()),
		WinnerName:    g.WinnerName,
	}
	if p := g.Player(username); p != nil {
		view.Player = playerInfo(g, p)
	}
	if h := g.Hand(username); h != nil {
		view.Hand = append(view.Hand, h.Cards...)
	}
	for _, d := range g.Decks {
		dv := DeckView{
			ID:              d.ID,
			HasCards:        len(d.Cards) > 0,
			CardCount:       len(d.Cards),
			FaceUp:          d.FaceUp,
			CanDrawToHand:   d.CanDrawToHand,
			CanDropFromHand: d.CanDropFromHand,
		}
		if top, ok := d.Top(); ok && d.FaceUp {
			dv.TopCard = &top
		}
		view.Decks = append(view.Decks, dv)
	}
	for _, m := range g.Messages {
		if addressedTo(m, username) {
			view.Messages = append(view.Messages, MessageView{From: m.From, Content: m.Content, Timestamp: m.Timestamp})
		}
	}
	if g.Lifecycle != domain.LifecycleCreated && g.PlayerToMove != "" {
		view.PlayerToMove = g.PlayerToMove
		view.PlayerToMoveName = g.PlayerToMoveName()
	}
	if !g.Reference.IsZero() {
		ref := g.Reference
		view.Reference = &ref
	}
	return view
}

func playerInfos(g *domain.Game) []PlayerInfo {
	out := make([]PlayerInfo, 0, len(g.Players))
	for _, p := range g.Players {
		out = append(out, playerInfo(g, p))
	}
	return out
}

func playerInfo(g *domain.Game, p *domain.Player) PlayerInfo {
	return PlayerInfo{
		Username:  p.Username,
		Name:      p.Name,
		Admin:     p.Admin,
		Cardy:     p.Cardy,
		Winner:    p.Winner,
		CardCount: g.CardCount(p.Username),
	}
}

func addressedTo(m domain.Message, username string) bool {
	for _, to := range m.To {
		if strings.EqualFold(to, username) {
			return true
		}
	}
	return false
}
