package app

// DefaultMaxSaveAttempts bounds how often an action is re-run after a concurrent save.
const DefaultMaxSaveAttempts = 3

// DefaultCardsPerHand is used when neither the request nor the configuration sets a hand size.
const DefaultCardsPerHand = 7

// Request types understood by Dispatch.
const (
	RequestCreateGame           = "CreateGame"
	RequestJoinGame             = "JoinGame"
	RequestRejoinGame           = "RejoinGame"
	RequestStartGame            = "StartGame"
	RequestPlayCardToDeck       = "PlayCardToDeck"
	RequestTakeCardFromDeck     = "TakeCardFromDeck"
	RequestShuffleAndMoveCards  = "ShuffleAndMoveCards"
	RequestUndoLastMove         = "UndoLastMove"
	RequestSetCardy             = "SetCardy"
	RequestChooseSuit           = "ChooseSuit"
	RequestRespondToJump        = "RespondToJump"
	RequestSetPlayerTurn        = "SetPlayerTurn"
	RequestChangePlayerPosition = "ChangePlayerPosition"
	RequestSendMessageToPlayer  = "SendMessageToPlayer"
)
