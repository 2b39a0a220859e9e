package domain

// Advance hands the turn to the next player in the current play direction, wrapping at both ends
// of the list. When endOfTurn is set the acting player's cardy declaration lapses.
func Advance(g *Game, player *Player, endOfTurn bool) *Player {
	n := len(g.Players)
	if n == 0 {
		return nil
	}
	idx := g.playerIndex(player.Username)
	step := 1
	if g.Direction == DirectionUp {
		step = -1
	}
	next := g.Players[((idx+step)%n+n)%n]
	g.PlayerToMove = next.Username
	if endOfTurn {
		player.Cardy = false
	}
	return next
}

// MovePlayer swaps username with its neighbour: Up swaps with the previous entry, Down with the next.
// Seats can only change before the game starts.
func MovePlayer(g *Game, requester, username string, dir Direction) error {
	if g.Lifecycle != LifecycleCreated {
		return newError(CodeWrongState, "The game in which you are trying to move a player is not in the created state. State: %s.", g.Lifecycle)
	}
	if _, err := g.requirePlayer(requester); err != nil {
		return err
	}
	idx := g.playerIndex(username)
	if idx < 0 {
		return newError(CodeUnknownPlayer, "The user you wish to move, %s, was not found in the game.", username)
	}
	var other int
	switch dir {
	case DirectionUp:
		if idx == 0 {
			return newError(CodeInvalidReorder, "Can't move player up - they are at the top of the list.")
		}
		other = idx - 1
	case DirectionDown:
		if idx == len(g.Players)-1 {
			return newError(CodeInvalidReorder, "Can't move player down - they are at the bottom of the list.")
		}
		other = idx + 1
	default:
		return newError(CodeInvalidRequest, "Unknown play direction: %s", dir)
	}
	g.Players[idx], g.Players[other] = g.Players[other], g.Players[idx]
	return nil
}

// SetTurn hands the turn to username and fixes the play direction.
func SetTurn(g *Game, requester, username string, dir Direction) (*Player, error) {
	if err := g.requireLifecycle(LifecycleStarted, "set a player's turn"); err != nil {
		return nil, err
	}
	if _, err := g.requirePlayer(requester); err != nil {
		return nil, err
	}
	target := g.Player(username)
	if target == nil {
		return nil, newError(CodeUnknownPlayer, "The user you wish to set, %s, was not found in the game.", username)
	}
	if dir != DirectionUp && dir != DirectionDown {
		return nil, newError(CodeInvalidRequest, "Unknown play direction: %s", dir)
	}
	g.Direction = dir
	g.PlayerToMove = target.Username
	return target, nil
}
