package nakama

const (
	// RpcCreateGame is the Nakama RPC id clients call to open a new table and its match.
	RpcCreateGame = "create_game"
	// RpcFindGame is the Nakama RPC id clients call to locate the match hosting a join code.
	RpcFindGame = "find_game"

	// MatchNameCardy is the authoritative match handler name registered with Nakama.
	MatchNameCardy = "cardy_match"

	// MatchLabelGame is the "game" value every cardy match label carries.
	MatchLabelGame = "cardy"
)

// Op codes for match data.
const (
	// Client -> Server: a JSON request envelope {"type", "content"}.
	OpRequest int64 = 1

	// Server -> Client: a JSON event {"type", "content"}.
	OpEvent int64 = 100
)

// Runtime environment keys.
const (
	EnvTicketSecret = "cardy_ticket_secret"
	EnvGameConfig   = "cardy_game_config"
)

const (
	// matchTickRate is the number of loop ticks per second.
	matchTickRate = 1
	// emptyMatchTicks is how long a match with no presences is kept before it terminates.
	emptyMatchTicks = 300
)
