package domain

import (
	"math/rand"
	"strings"
)

// PackSize is the number of cards in a standard pack without jokers.
const PackSize = 52

// BuildPack returns the 52-card pack ordered by suit (clubs, diamonds, hearts, spades) then rank (2..A).
func BuildPack() []Card {
	pack := make([]Card, 0, PackSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			pack = append(pack, Card{Rank: r, Suit: s})
		}
	}
	return pack
}

// ShuffleCards permutes cards in place.
func ShuffleCards(rng *rand.Rand, cards []Card) {
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

// DeckDefinition describes a deck a game is created with.
type DeckDefinition struct {
	ID              string `json:"id"`
	FaceUp          bool   `json:"face_up"`
	OriginalPack    bool   `json:"original_pack"`
	CanDrawToHand   bool   `json:"can_draw_to_hand"`
	CanDropFromHand bool   `json:"can_drop_from_hand"`
}

// StandardDecks is the usual table: a face-down pack to draw from and a face-up discard pile to play onto.
func StandardDecks() []DeckDefinition {
	return []DeckDefinition{
		{ID: "pack", OriginalPack: true, CanDrawToHand: true},
		{ID: "discard", FaceUp: true, CanDropFromHand: true},
	}
}

// Deck is an ordered pile of cards. Index 0 is the top.
type Deck struct {
	ID              string `json:"id"`
	Cards           []Card `json:"cards"`
	FaceUp          bool   `json:"face_up"`
	OriginalPack    bool   `json:"original_pack"`
	CanDrawToHand   bool   `json:"can_draw_to_hand"`
	CanDropFromHand bool   `json:"can_drop_from_hand"`
}

// NewDecks validates the definitions and returns empty decks.
// Exactly one deck must be the original pack, and another deck must accept cards from hands.
func NewDecks(defs []DeckDefinition) ([]*Deck, error) {
	var packs, drops int
	seen := make(map[string]bool, len(defs))
	decks := make([]*Deck, 0, len(defs))
	for _, def := range defs {
		id := strings.TrimSpace(def.ID)
		if id == "" {
			return nil, newError(CodeConfiguration, "Every deck must have an ID.")
		}
		if seen[id] {
			return nil, newError(CodeConfiguration, "The deck ID %s is used more than once.", id)
		}
		seen[id] = true
		if def.OriginalPack {
			packs++
		} else if def.CanDropFromHand {
			drops++
		}
		decks = append(decks, &Deck{
			ID:              id,
			FaceUp:          def.FaceUp,
			OriginalPack:    def.OriginalPack,
			CanDrawToHand:   def.CanDrawToHand,
			CanDropFromHand: def.CanDropFromHand,
		})
	}
	if packs != 1 {
		return nil, newError(CodeConfiguration, "Exactly one deck must be marked as the original pack.")
	}
	if drops == 0 {
		return nil, newError(CodeConfiguration, "At least one deck other than the original pack must accept cards from a hand.")
	}
	return decks, nil
}

// Top returns the top card without removing it.
func (d *Deck) Top() (Card, bool) {
	if len(d.Cards) == 0 {
		return Card{}, false
	}
	return d.Cards[0], true
}

// PushTop places c on top of the deck.
func (d *Deck) PushTop(c Card) {
	d.Cards = append([]Card{c}, d.Cards...)
}

// PopTop removes and returns the top card.
func (d *Deck) PopTop() (Card, bool) {
	if len(d.Cards) == 0 {
		return Card{}, false
	}
	c := d.Cards[0]
	d.Cards = append([]Card(nil), d.Cards[1:]...)
	return c, true
}

// Hand holds the cards of one player. Order is kept for display only.
type Hand struct {
	Username string `json:"username"`
	Cards    []Card `json:"cards"`
}

// IndexOf returns the position of c in the hand or -1.
func (h *Hand) IndexOf(c Card) int {
	for i, held := range h.Cards {
		if held == c {
			return i
		}
	}
	return -1
}

func (h *Hand) removeAt(i int) {
	h.Cards = append(h.Cards[:i:i], h.Cards[i+1:]...)
}
