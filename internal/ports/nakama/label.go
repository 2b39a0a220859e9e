package nakama

import (
	"fmt"

	"cardy/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Match label keys, queryable as "+label.<key>:<value>".
const (
	labelKeyGame    = "game"
	labelKeyCode    = "code"
	labelKeyState   = "state"
	labelKeyPlayers = "players"
)

// matchLabel renders the searchable label of the match hosting code.
func matchLabel(code string, lifecycle domain.Lifecycle, players int) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		labelKeyGame:    MatchLabelGame,
		labelKeyCode:    code,
		labelKeyState:   string(lifecycle),
		labelKeyPlayers: players,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build label: %w", err)
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", fmt.Errorf("failed to marshal label: %w", err)
	}
	return string(labelBytes), nil
}

// codeQuery finds the match hosting a join code.
func codeQuery(code string) string {
	return fmt.Sprintf("+label.%s:%s +label.%s:%s", labelKeyGame, MatchLabelGame, labelKeyCode, code)
}
