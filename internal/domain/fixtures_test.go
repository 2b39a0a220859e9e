package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func displayName(username string) string {
	return strings.ToUpper(username[:1]) + username[1:]
}

// newTable returns a game in the Created state with the given players seated in order.
func newTable(t *testing.T, usernames ...string) *Game {
	t.Helper()
	g, err := NewGame(NewGameParams{
		ID:           "game-1",
		Name:         "Friday cards",
		Code:         "abcdef",
		CardsPerHand: 5,
		Decks:        StandardDecks(),
		Creator:      Player{Username: usernames[0], Name: displayName(usernames[0])},
	})
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}
	for _, u := range usernames[1:] {
		if _, err := Join(g, Player{Username: u, Name: displayName(u)}); err != nil {
			t.Fatalf("Join(%s) error = %v", u, err)
		}
	}
	return g
}

// newPlayingGame returns a started game with empty hands, the first player to move,
// direction Down and the given reference card on the discard pile.
func newPlayingGame(t *testing.T, reference string, usernames ...string) *Game {
	t.Helper()
	g := newTable(t, usernames...)
	g.Lifecycle = LifecycleStarted
	g.PlayerToMove = usernames[0]
	g.Direction = DirectionDown
	g.State = Normal{}
	ref := mustCard(t, reference)
	g.Reference = ref
	g.Deck("discard").Cards = []Card{ref}
	g.Deck("pack").Cards = mustCards(t, "4C", "5D", "6S", "8H", "9D")
	return g
}

func mustCard(t *testing.T, token string) Card {
	t.Helper()
	c, err := ParseCard(token)
	if err != nil {
		t.Fatalf("ParseCard(%q) error = %v", token, err)
	}
	return c
}

func mustCards(t *testing.T, tokens ...string) []Card {
	t.Helper()
	cards := make([]Card, 0, len(tokens))
	for _, tok := range tokens {
		cards = append(cards, mustCard(t, tok))
	}
	return cards
}

func setHand(t *testing.T, g *Game, username string, tokens ...string) {
	t.Helper()
	h := g.Hand(username)
	if h == nil {
		t.Fatalf("no hand for %s", username)
	}
	h.Cards = mustCards(t, tokens...)
}

func snapshot(t *testing.T, g *Game) []byte {
	t.Helper()
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal game: %v", err)
	}
	return data
}

func assertUnchanged(t *testing.T, before []byte, g *Game) {
	t.Helper()
	if after := snapshot(t, g); !bytes.Equal(before, after) {
		t.Fatalf("game changed after rejected action\nbefore: %s\nafter:  %s", before, after)
	}
}

func assertCode(t *testing.T, err error, want *Error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want.Code)
	}
	var got *Error
	if e, ok := err.(*Error); ok {
		got = e
	}
	if got == nil || got.Code != want.Code {
		t.Fatalf("error = %v, want code %s", err, want.Code)
	}
}
