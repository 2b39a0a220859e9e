package domain

import "math/rand"

// Deal shuffles a fresh pack, deals CardsPerHand cards to every player in seating order, puts the
// remainder into the original pack and turns the first non-action card onto the discard pile.
// It fails only when the hands would need more cards than the pack holds.
func Deal(g *Game, rng *rand.Rand) error {
	need := len(g.Players) * g.CardsPerHand
	if need > PackSize {
		return newError(CodeConfiguration, "Dealing %d cards to %d players results in too many cards being used.",
			g.CardsPerHand, len(g.Players))
	}
	pack := g.OriginalPack()
	discard := g.DiscardPile()
	if pack == nil || discard == nil {
		return newError(CodeConfiguration, "The game needs an original pack and a discard pile to deal.")
	}

	cards := BuildPack()
	ShuffleCards(rng, cards)

	for _, d := range g.Decks {
		d.Cards = nil
	}
	g.Hands = make([]*Hand, 0, len(g.Players))
	for i, p := range g.Players {
		start := i * g.CardsPerHand
		g.Hands = append(g.Hands, &Hand{
			Username: p.Username,
			Cards:    append([]Card(nil), cards[start:start+g.CardsPerHand]...),
		})
	}
	pack.Cards = append([]Card(nil), cards[need:]...)

	starter := -1
	for i, c := range pack.Cards {
		if !c.Rank.IsAction() {
			starter = i
			break
		}
	}
	if starter < 0 && len(pack.Cards) > 0 {
		starter = 0
	}
	g.Reference = Card{}
	if starter >= 0 {
		c := pack.Cards[starter]
		pack.Cards = append(pack.Cards[:starter:starter], pack.Cards[starter+1:]...)
		discard.PushTop(c)
		g.Reference = c
	}
	return nil
}
