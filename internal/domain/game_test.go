package domain

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
)

func TestNewGameValidatesDecks(t *testing.T) {
	tests := []struct {
		name  string
		decks []DeckDefinition
	}{
		{name: "no pack", decks: []DeckDefinition{{ID: "discard", CanDropFromHand: true}}},
		{name: "two packs", decks: []DeckDefinition{{ID: "a", OriginalPack: true}, {ID: "b", OriginalPack: true}, {ID: "c", CanDropFromHand: true}}},
		{name: "no drop deck", decks: []DeckDefinition{{ID: "pack", OriginalPack: true, CanDropFromHand: true}}},
		{name: "duplicate id", decks: []DeckDefinition{{ID: "pack", OriginalPack: true}, {ID: "pack", CanDropFromHand: true}}},
		{name: "blank id", decks: []DeckDefinition{{ID: "pack", OriginalPack: true}, {ID: " ", CanDropFromHand: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGame(NewGameParams{Code: "X", CardsPerHand: 7, Decks: tt.decks, Creator: Player{Username: "alice"}})
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("error = %v, want configuration", err)
			}
		})
	}
}

func TestNewGameSeatsCreatorAsAdmin(t *testing.T) {
	g := newTable(t, "alice")
	if g.Code != "ABCDEF" || g.Lifecycle != LifecycleCreated {
		t.Fatalf("code %s lifecycle %s", g.Code, g.Lifecycle)
	}
	if !g.Player("alice").Admin || g.Hand("alice") == nil {
		t.Fatal("creator not seated as admin with a hand")
	}
}

func TestJoinAndRejoin(t *testing.T) {
	g := newTable(t, "alice")
	p, err := Join(g, Player{Username: "bob", Name: "Bob", Admin: true})
	if err != nil {
		t.Fatal(err)
	}
	if p.Admin {
		t.Fatal("joining player became admin")
	}
	if _, err := Join(g, Player{Username: "BOB"}); !errors.Is(err, ErrDuplicatePlayer) {
		t.Fatalf("duplicate join: %v", err)
	}
	if _, err := Rejoin(g, "carol"); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("rejoin unknown: %v", err)
	}

	if _, err := Start(g, "alice", rand.New(rand.NewSource(1))); err != nil {
		t.Fatal(err)
	}
	if _, err := Join(g, Player{Username: "carol"}); !errors.Is(err, ErrWrongState) {
		t.Fatalf("join started game: %v", err)
	}
	if r, err := Rejoin(g, "bob"); err != nil || r.Username != "bob" {
		t.Fatalf("Rejoin(bob) = %v, %v", r, err)
	}
}

func TestShuffleTransfer(t *testing.T) {
	g := newPlayingGame(t, "7H", "alice", "bob")
	g.Deck("discard").Cards = mustCards(t, "KS", "4H", "5H", "6H")
	g.Deck("pack").Cards = mustCards(t, "8C")

	if _, err := ShuffleTransfer(g, rand.New(rand.NewSource(11)), "alice", "discard", "pack"); err != nil {
		t.Fatal(err)
	}
	discard := g.Deck("discard").Cards
	if len(discard) != 1 || discard[0] != mustCard(t, "KS") {
		t.Fatalf("discard = %v, want [KS]", discard)
	}
	pack := g.Deck("pack").Cards
	if len(pack) != 4 {
		t.Fatalf("pack size = %d, want 4", len(pack))
	}
	seen := map[Card]bool{}
	for _, c := range pack {
		seen[c] = true
	}
	for _, want := range mustCards(t, "8C", "4H", "5H", "6H") {
		if !seen[want] {
			t.Fatalf("pack missing %s", want)
		}
	}

	if _, err := ShuffleTransfer(g, rand.New(rand.NewSource(11)), "alice", "discard", "pack"); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("single card transfer: %v, want empty deck", err)
	}
	if _, err := ShuffleTransfer(g, rand.New(rand.NewSource(11)), "alice", "pack", "pack"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("same deck transfer: %v, want invalid request", err)
	}
	if _, err := ShuffleTransfer(g, rand.New(rand.NewSource(11)), "alice", "nope", "pack"); !errors.Is(err, ErrDeckCapability) {
		t.Fatalf("unknown deck transfer: %v, want deck capability", err)
	}
}

func TestGameJSONKeepsMoveState(t *testing.T) {
	g := newPlayingGame(t, "2H", "alice", "bob")
	setHand(t, g, "bob", "10D", "AS")
	g.State = TwoWasPlayed{Pickup: 4}
	g.Moves = []Move{{Username: "alice", Card: mustCard(t, "2H"), DeckID: "discard", Direction: MoveHandToDeck}}

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	var restored Game
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s, ok := restored.MoveState().(TwoWasPlayed); !ok || s.Pickup != 4 {
		t.Fatalf("move state = %#v, want TwoWasPlayed{4}", restored.MoveState())
	}
	if restored.Hand("bob").Cards[0] != mustCard(t, "10D") || restored.Reference != mustCard(t, "2H") {
		t.Fatal("cards not restored")
	}
	if restored.Moves[0].Direction != MoveHandToDeck {
		t.Fatalf("move = %+v", restored.Moves[0])
	}
}

func TestGameJSONRejectsUnknownMoveState(t *testing.T) {
	var g Game
	err := json.Unmarshal([]byte(`{"id":"x","move_state":{"kind":"Sideways"}}`), &g)
	if err == nil {
		t.Fatal("expected error for unknown move state")
	}
	err = json.Unmarshal([]byte(`{"id":"x","move_state":{"kind":"ThreeWasPlayed","pickup":0}}`), &g)
	if err == nil {
		t.Fatal("expected error for chain without pickup")
	}
}
