package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"cardy/internal/app"
	"cardy/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Nakama RPC error codes (gRPC status codes).
const (
	codeInvalidArgument = 3
	codeNotFound        = 5
	codeUnauthenticated = 16
	codeInternal        = 13
)

// CreateGameResponse is returned by the create_game RPC.
type CreateGameResponse struct {
	GameID   string `json:"game_id"`
	GameCode string `json:"game_code"`
	GameName string `json:"game_name"`
	MatchID  string `json:"match_id"`
	Ticket   string `json:"ticket"`
}

// FindGameRequest is the payload of the find_game RPC.
type FindGameRequest struct {
	GameCode string `json:"game_code"`
}

// FindGameResponse is returned by the find_game RPC.
type FindGameResponse struct {
	GameCode string `json:"game_code"`
	MatchID  string `json:"match_id"`
	Ticket   string `json:"ticket"`
}

type rpcHandlers struct {
	service *app.Service
	tickets *app.TicketService
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer, service *app.Service, tickets *app.TicketService) error {
	h := &rpcHandlers{service: service, tickets: tickets}
	if err := initializer.RegisterRpc(RpcCreateGame, h.rpcCreateGame); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcFindGame, h.rpcFindGame)
}

// rpcCreateGame stores a new game, starts the match hosting it and returns a join ticket.
//
// Payload: the CreateGame request. Returns: CreateGameResponse.
// The creator joins the match with the ticket and sends RejoinGame to receive the table.
func (h *rpcHandlers) rpcCreateGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("Authentication required", codeUnauthenticated)
	}

	var req app.CreateGameRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", codeInvalidArgument)
	}

	events, err := h.service.CreateGame(ctx, "", req)
	if err != nil {
		return "", rpcError(logger, "RpcCreateGame", userID, err)
	}
	var created app.GameCreatedPayload
	for _, ev := range events {
		if p, ok := ev.Payload.(app.GameCreatedPayload); ok {
			created = p
		}
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameCardy, map[string]interface{}{"code": created.GameCode})
	if err != nil {
		logger.Error("RpcCreateGame [User:%s]: Failed to create match for game %s: %v", userID, created.GameCode, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}
	ticket, err := h.tickets.Issue(userID, created.GameCode, matchID)
	if err != nil {
		logger.Error("RpcCreateGame [User:%s]: Failed to issue ticket: %v", userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	logger.Info("RpcCreateGame [User:%s]: Created game %s in match %s", userID, created.GameCode, matchID)
	resp := CreateGameResponse{
		GameID:   created.GameID,
		GameCode: created.GameCode,
		GameName: created.GameName,
		MatchID:  matchID,
		Ticket:   ticket,
	}
	b, _ := json.Marshal(resp)
	return string(b), nil
}

// rpcFindGame returns the match hosting a join code, starting one when the previous match has ended.
func (h *rpcHandlers) rpcFindGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("Authentication required", codeUnauthenticated)
	}

	var req FindGameRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", codeInvalidArgument)
	}
	code := strings.ToUpper(strings.TrimSpace(req.GameCode))
	if code == "" {
		return "", runtime.NewError("Game code required", codeInvalidArgument)
	}

	if _, err := h.service.Game(ctx, code); err != nil {
		return "", rpcError(logger, "RpcFindGame", userID, err)
	}

	matches, err := nk.MatchList(ctx, 1, true, "", nil, nil, codeQuery(code))
	if err != nil {
		logger.Error("RpcFindGame [User:%s]: Failed to list matches: %v", userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	var matchID string
	if len(matches) > 0 {
		matchID = matches[0].MatchId
		logger.Info("RpcFindGame [User:%s]: Found match %s for game %s", userID, matchID, code)
	} else {
		matchID, err = nk.MatchCreate(ctx, MatchNameCardy, map[string]interface{}{"code": code})
		if err != nil {
			logger.Error("RpcFindGame [User:%s]: Failed to create match for game %s: %v", userID, code, err)
			return "", runtime.NewError("Internal error", codeInternal)
		}
		logger.Info("RpcFindGame [User:%s]: Created match %s for game %s", userID, matchID, code)
	}

	ticket, err := h.tickets.Issue(userID, code, matchID)
	if err != nil {
		logger.Error("RpcFindGame [User:%s]: Failed to issue ticket: %v", userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	b, _ := json.Marshal(FindGameResponse{GameCode: code, MatchID: matchID, Ticket: ticket})
	return string(b), nil
}

// rpcError passes rule violations to the client and hides everything else.
func rpcError(logger runtime.Logger, rpc, userID string, err error) error {
	var derr *domain.Error
	if errors.As(err, &derr) {
		if derr.Code == domain.CodeNotFound {
			return runtime.NewError(derr.Error(), codeNotFound)
		}
		return runtime.NewError(derr.Error(), codeInvalidArgument)
	}
	logger.Error("%s [User:%s]: %v", rpc, userID, err)
	return runtime.NewError("Internal error", codeInternal)
}
