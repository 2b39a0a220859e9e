package domain

import (
	"fmt"
	"strings"
)

// Suit is one of the four French suits.
type Suit int

const (
	SuitClubs Suit = iota + 1
	SuitDiamonds
	SuitHearts
	SuitSpades
)

// Suits lists every suit in pack order.
var Suits = []Suit{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}

var suitSymbols = [...]string{"", "C", "D", "H", "S"}
var suitNames = [...]string{"", "clubs", "diamonds", "hearts", "spades"}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool { return s >= SuitClubs && s <= SuitSpades }

// String returns the one-character token used on the wire.
func (s Suit) String() string {
	if !s.Valid() {
		return "?"
	}
	return suitSymbols[s]
}

// Name returns the lower-case English name, e.g. "hearts".
func (s Suit) Name() string {
	if !s.Valid() {
		return "unknown suit"
	}
	return suitNames[s]
}

// ParseSuit accepts either the token ("H") or the name ("hearts"), case-insensitively.
func ParseSuit(value string) (Suit, error) {
	v := strings.TrimSpace(value)
	for _, s := range Suits {
		if strings.EqualFold(v, suitSymbols[s]) || strings.EqualFold(v, suitNames[s]) {
			return s, nil
		}
	}
	return 0, newError(CodeInvalidRequest, "Unknown suit: %s", value)
}

// Rank is a card rank. Numeric ranks carry their face value; picture cards follow ten.
type Rank int

const (
	RankTwo Rank = iota + 2
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
)

// Ranks lists every rank in pack order.
var Ranks = []Rank{
	RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven, RankEight,
	RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce,
}

var rankSymbols = map[Rank]string{
	RankTwo: "2", RankThree: "3", RankFour: "4", RankFive: "5", RankSix: "6", RankSeven: "7",
	RankEight: "8", RankNine: "9", RankTen: "10", RankJack: "J", RankQueen: "Q", RankKing: "K", RankAce: "A",
}

var rankNames = map[Rank]string{
	RankTwo: "two", RankThree: "three", RankFour: "four", RankFive: "five", RankSix: "six", RankSeven: "seven",
	RankEight: "eight", RankNine: "nine", RankTen: "ten", RankJack: "jack", RankQueen: "queen", RankKing: "king",
	RankAce: "ace",
}

// Valid reports whether r is a rank of the standard pack.
func (r Rank) Valid() bool { return r >= RankTwo && r <= RankAce }

func (r Rank) String() string {
	if s, ok := rankSymbols[r]; ok {
		return s
	}
	return "?"
}

// Name returns the lower-case English name, e.g. "queen".
func (r Rank) Name() string {
	if s, ok := rankNames[r]; ok {
		return s
	}
	return "unknown rank"
}

// IsAction reports whether playing the rank triggers a special effect.
func (r Rank) IsAction() bool {
	switch r {
	case RankTwo, RankThree, RankJack, RankQueen, RankKing, RankAce:
		return true
	}
	return false
}

// Card is a single playing card. The zero Card means "no card".
type Card struct {
	Rank Rank
	Suit Suit
}

// IsZero reports whether c is the empty card.
func (c Card) IsZero() bool { return c.Rank == 0 && c.Suit == 0 }

// String returns the wire token, e.g. "10D" or "AS".
func (c Card) String() string {
	if c.IsZero() {
		return ""
	}
	return c.Rank.String() + c.Suit.String()
}

// Description returns the narration form, e.g. "queen of hearts".
func (c Card) Description() string {
	return fmt.Sprintf("%s of %s", c.Rank.Name(), c.Suit.Name())
}

// ParseCard decodes a wire token. Lower-case input is accepted.
func ParseCard(token string) (Card, error) {
	t := strings.ToUpper(strings.TrimSpace(token))
	if len(t) < 2 || len(t) > 3 {
		return Card{}, newError(CodeInvalidRequest, "The card %s is not a valid card.", token)
	}
	var suit Suit
	for _, s := range Suits {
		if suitSymbols[s] == t[len(t)-1:] {
			suit = s
		}
	}
	var rank Rank
	for r, sym := range rankSymbols {
		if sym == t[:len(t)-1] {
			rank = r
		}
	}
	if !suit.Valid() || !rank.Valid() {
		return Card{}, newError(CodeInvalidRequest, "The card %s is not a valid card.", token)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// MarshalText encodes the card as its token so JSON carries "7H" rather than a struct.
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a token. An empty token yields the zero Card.
func (c *Card) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = Card{}
		return nil
	}
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
