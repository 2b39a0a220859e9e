package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cardy/internal/domain"
)

func TestDispatchRoutesRequests(t *testing.T) {
	svc, store := newTestService(t)
	code := startTable(t, svc, "alice", "bob")

	content, _ := json.Marshal(map[string]any{"game_code": code, "username": "alice", "cardy": true})
	evs, err := svc.Dispatch(context.Background(), conn("alice"), Envelope{Type: RequestSetCardy, Content: content})
	if err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("events = %d, want 2", len(evs))
	}
	if !store.game(t, code).Player("alice").Cardy {
		t.Fatal("cardy not set through dispatch")
	}
}

func TestDispatchRejectsBadEnvelopes(t *testing.T) {
	svc, _ := newTestService(t)
	tests := []struct {
		name   string
		env    Envelope
		target *domain.Error
	}{
		{name: "unknown type", env: Envelope{Type: "DealMeIn"}, target: domain.ErrInvalidRequest},
		{name: "malformed content", env: Envelope{Type: RequestJoinGame, Content: json.RawMessage(`{"game_code": 7`)}, target: domain.ErrInvalidRequest},
		{name: "empty content", env: Envelope{Type: RequestStartGame}, target: domain.ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Dispatch(context.Background(), "c1", tt.env)
			if !errors.Is(err, tt.target) {
				t.Fatalf("error = %v, want %s", err, tt.target.Code)
			}
		})
	}
}

func TestDeliverEncodesEnvelope(t *testing.T) {
	d := &recordingDeliverer{}
	events := []Event{
		{Kind: EventGameCreated, Payload: GameCreatedPayload{GameID: "g1", GameCode: "BAAAAA", GameName: "Friday"}, Recipients: []string{"c1"}},
		{Kind: EventError, Payload: ErrorPayload{Code: domain.CodeNotYourTurn, Message: "no"}, Recipients: []string{"c2", "c3"}},
	}
	if err := Deliver(context.Background(), d, events); err != nil {
		t.Fatal(err)
	}
	if len(d.sent) != 3 {
		t.Fatalf("sent = %d, want 3", len(d.sent))
	}
	var msg struct {
		Type    string            `json:"type"`
		Content map[string]string `json:"content"`
	}
	if err := json.Unmarshal(d.sent[0].message, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "game_created" || msg.Content["game_code"] != "BAAAAA" {
		t.Fatalf("message = %s", d.sent[0].message)
	}
	if d.sent[2].connID != "c3" {
		t.Fatalf("last recipient = %s, want c3", d.sent[2].connID)
	}
}

func TestCodeGenerator(t *testing.T) {
	now := codeEpoch
	gen := NewCodeGenerator(func() time.Time { return now })
	if got := gen.Next(); got != "AAAAAA" {
		t.Fatalf("first code = %s, want AAAAAA", got)
	}
	// Same second again: the counter still moves on.
	if got := gen.Next(); got != "BAAAAA" {
		t.Fatalf("second code = %s, want BAAAAA", got)
	}
	now = codeEpoch.Add(36 * time.Second)
	if got := gen.Next(); got != "ABAAAA" {
		t.Fatalf("code at 36s = %s, want ABAAAA", got)
	}
	now = codeEpoch.Add(26 * time.Second)
	if got := gen.Next(); got != "BBAAAA" {
		t.Fatalf("code after clock went back = %s, want BBAAAA", got)
	}
}
