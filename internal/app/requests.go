package app

import "cardy/internal/domain"

type CreateGameRequest struct {
	GameID       string                  `json:"game_id,omitempty"`
	GameName     string                  `json:"game_name"`
	Username     string                  `json:"username"`
	PlayerName   string                  `json:"player_name"`
	Decks        []domain.DeckDefinition `json:"decks,omitempty"`
	CardsPerHand int                     `json:"cards_per_hand,omitempty"`
}

func (r CreateGameRequest) Validate() error {
	return firstError(
		domain.Required(RequestCreateGame, "game_name", r.GameName),
		domain.Required(RequestCreateGame, "username", r.Username),
		domain.Required(RequestCreateGame, "player_name", r.PlayerName),
	)
}

type JoinGameRequest struct {
	GameCode   string `json:"game_code"`
	Username   string `json:"username"`
	PlayerName string `json:"player_name"`
}

func (r JoinGameRequest) Validate() error {
	return firstError(
		domain.Required(RequestJoinGame, "game_code", r.GameCode),
		domain.Required(RequestJoinGame, "username", r.Username),
		domain.Required(RequestJoinGame, "player_name", r.PlayerName),
	)
}

// GameRequest identifies the game and the acting player. Requests without extra fields use it directly.
type GameRequest struct {
	GameCode string `json:"game_code"`
	Username string `json:"username"`
}

func (r GameRequest) validate(request string) error {
	return firstError(
		domain.Required(request, "game_code", r.GameCode),
		domain.Required(request, "username", r.Username),
	)
}

type PlayCardRequest struct {
	GameRequest
	Card string `json:"card"`
}

func (r PlayCardRequest) Validate() error {
	return firstError(r.validate(RequestPlayCardToDeck), domain.Required(RequestPlayCardToDeck, "card", r.Card))
}

type TakeCardRequest struct {
	GameRequest
	DeckID string `json:"deck_id"`
}

func (r TakeCardRequest) Validate() error {
	return firstError(r.validate(RequestTakeCardFromDeck), domain.Required(RequestTakeCardFromDeck, "deck_id", r.DeckID))
}

type ShuffleAndMoveRequest struct {
	GameRequest
	FromDeckID string `json:"from_deck_id"`
	ToDeckID   string `json:"to_deck_id"`
}

func (r ShuffleAndMoveRequest) Validate() error {
	return firstError(
		r.validate(RequestShuffleAndMoveCards),
		domain.Required(RequestShuffleAndMoveCards, "from_deck_id", r.FromDeckID),
		domain.Required(RequestShuffleAndMoveCards, "to_deck_id", r.ToDeckID),
	)
}

type SetCardyRequest struct {
	GameRequest
	Cardy bool `json:"cardy"`
}

type ChooseSuitRequest struct {
	GameRequest
	Suit string `json:"suit"`
}

func (r ChooseSuitRequest) Validate() error {
	return firstError(r.validate(RequestChooseSuit), domain.Required(RequestChooseSuit, "suit", r.Suit))
}

type RespondToJumpRequest struct {
	GameRequest
	Blocked bool `json:"blocked"`
}

// PlayerDirectionRequest targets another player with a direction. SetPlayerTurn and
// ChangePlayerPosition share it.
type PlayerDirectionRequest struct {
	GameRequest
	PlayerUsername string `json:"player_username"`
	Direction      string `json:"direction"`
}

func (r PlayerDirectionRequest) validate(request string) error {
	return firstError(
		r.GameRequest.validate(request),
		domain.Required(request, "player_username", r.PlayerUsername),
		domain.Required(request, "direction", r.Direction),
	)
}

type SendMessageRequest struct {
	GameRequest
	ToUsername string `json:"to_username,omitempty"`
	Message    string `json:"message"`
}

func (r SendMessageRequest) Validate() error {
	return firstError(r.validate(RequestSendMessageToPlayer), domain.Required(RequestSendMessageToPlayer, "message", r.Message))
}

// firstError reports the first failed check so the client sees one precise message.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
