package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"cardy/internal/app"
	"cardy/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the runtime state of the match hosting one game. The game itself lives in storage.
type MatchState struct {
	Code       string                      `json:"code"`
	Lifecycle  domain.Lifecycle            `json:"lifecycle"`
	Players    int                         `json:"players"`
	EmptyTicks int64                       `json:"empty_ticks"` // Consecutive ticks without presences
	Presences  map[string]runtime.Presence `json:"-"`           // Map SessionId -> Presence for targeted messaging
}

type matchHandler struct {
	service *app.Service
	tickets *app.TicketService
}

func newMatchHandler(service *app.Service, tickets *app.TicketService) *matchHandler {
	return &matchHandler{service: service, tickets: tickets}
}

// MatchInit is called when the match is created. params must carry the join code of a stored game.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	code, _ := params["code"].(string)
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		logger.Error("MatchInit: Missing game code.")
		return nil, 0, ""
	}

	g, err := mh.service.Game(ctx, code)
	if err != nil {
		logger.Error("MatchInit: Could not load game %s: %v", code, err)
		return nil, 0, ""
	}

	state := &MatchState{
		Code:      g.Code,
		Lifecycle: g.Lifecycle,
		Players:   len(g.Players),
		Presences: make(map[string]runtime.Presence),
	}

	label, err := matchLabel(state.Code, state.Lifecycle, state.Players)
	if err != nil {
		logger.Error("MatchInit: %v", err)
		return nil, 0, ""
	}

	logger.Debug("MatchInit: Hosting game %s.", state.Code)
	return state, matchTickRate, label
}

// MatchJoinAttempt admits presences holding a ticket issued for this user, match and game.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	ticket, err := mh.tickets.Verify(metadata["ticket"], presence.GetUserId(), matchID)
	if err != nil {
		logger.Warn("MatchJoinAttempt: User %s rejected: %v", presence.GetUserId(), err)
		return state, false, "Invalid ticket"
	}
	if !strings.EqualFold(ticket.GameCode, matchState.Code) {
		logger.Warn("MatchJoinAttempt: User %s holds a ticket for game %s, not %s", presence.GetUserId(), ticket.GameCode, matchState.Code)
		return state, false, "Invalid ticket"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetSessionId()] = p
		logger.Debug("MatchJoin: User %s joined game %s with session %s.", p.GetUserId(), matchState.Code, p.GetSessionId())
	}
	matchState.EmptyTicks = 0

	return matchState
}

// MatchLeave forgets the sessions. Their players stay in the game and can rejoin from a new session.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetSessionId())
		logger.Debug("MatchLeave: Session %s left game %s.", p.GetSessionId(), matchState.Code)
	}

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	handled := false
	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpRequest:
			mh.handleRequest(ctx, matchState, dispatcher, logger, msg)
			handled = true
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}
	if handled {
		mh.refreshLabel(ctx, matchState, dispatcher, logger)
	}

	if len(matchState.Presences) == 0 {
		matchState.EmptyTicks++
		if matchState.EmptyTicks >= emptyMatchTicks {
			logger.Info("MatchLoop: Terminating idle match for game %s.", matchState.Code)
			return nil
		}
	} else {
		matchState.EmptyTicks = 0
	}

	return matchState
}

// handleRequest runs one client envelope and delivers the resulting events.
// Requests must target the game this match hosts.
func (mh *matchHandler) handleRequest(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	sessionID := msg.GetSessionId()
	deliverer := &matchDeliverer{dispatcher: dispatcher, presences: state.Presences, logger: logger}

	events, err := mh.dispatch(ctx, state, sessionID, msg.GetData())
	if err != nil {
		logger.Warn("handleRequest: User %s request failed in game %s: %v", msg.GetUserId(), state.Code, err)
		events = []app.Event{app.ErrorEvent(sessionID, err)}
	}
	if err := app.Deliver(ctx, deliverer, events); err != nil {
		logger.Error("handleRequest: Failed to deliver events for game %s: %v", state.Code, err)
	}
}

func (mh *matchHandler) dispatch(ctx context.Context, state *MatchState, sessionID string, data []byte) ([]app.Event, error) {
	var env app.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, domain.NewError(domain.CodeInvalidRequest, "The request could not be read.")
	}
	if env.Type == app.RequestCreateGame {
		return nil, domain.NewError(domain.CodeInvalidRequest, "Games are created with the %s RPC.", RpcCreateGame)
	}

	var target struct {
		GameCode string `json:"game_code"`
	}
	if len(env.Content) > 0 {
		if err := json.Unmarshal(env.Content, &target); err != nil {
			return nil, domain.NewError(domain.CodeInvalidRequest, "The %s request could not be read.", env.Type)
		}
	}
	if target.GameCode != "" && !strings.EqualFold(strings.TrimSpace(target.GameCode), state.Code) {
		return nil, domain.NewError(domain.CodeInvalidRequest, "This match hosts game %s, not %s.", state.Code, target.GameCode)
	}

	return mh.service.Dispatch(ctx, sessionID, env)
}

// refreshLabel republishes the label when the lifecycle or player count changed.
func (mh *matchHandler) refreshLabel(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	g, err := mh.service.Game(ctx, state.Code)
	if err != nil {
		logger.Error("UpdateLabel: Failed to load game %s: %v", state.Code, err)
		return
	}
	if g.Lifecycle == state.Lifecycle && len(g.Players) == state.Players {
		return
	}
	state.Lifecycle = g.Lifecycle
	state.Players = len(g.Players)

	label, err := matchLabel(state.Code, state.Lifecycle, state.Players)
	if err != nil {
		logger.Error("UpdateLabel: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, data
}
