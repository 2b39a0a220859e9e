package nakama

import (
	"context"

	"cardy/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// matchDeliverer sends encoded events to the match presences, keyed by session id.
type matchDeliverer struct {
	dispatcher runtime.MatchDispatcher
	presences  map[string]runtime.Presence
	logger     runtime.Logger
}

// Deliver drops messages for sessions that are no longer in the match.
func (d *matchDeliverer) Deliver(_ context.Context, connectionID string, message []byte) error {
	presence, ok := d.presences[connectionID]
	if !ok {
		d.logger.Debug("Deliver: session %s is not in the match, dropping message", connectionID)
		return nil
	}
	return d.dispatcher.BroadcastMessage(OpEvent, message, []runtime.Presence{presence}, nil, true)
}

var _ ports.Deliverer = (*matchDeliverer)(nil)
