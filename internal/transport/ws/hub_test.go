package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"cardy/internal/app"
	"cardy/internal/domain"
	"cardy/internal/storage/sqlite"
)

type wireEvent struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

type testClient struct {
	conn   *websocket.Conn
	connID string
}

func startServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *testClient {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })

	c := &testClient{conn: conn}
	hello := c.read(t)
	require.Equal(t, EventConnected, hello.Type)
	var content map[string]string
	require.NoError(t, json.Unmarshal(hello.Content, &content))
	c.connID = content["connection_id"]
	require.NotEmpty(t, c.connID)
	return c
}

func (c *testClient) read(t *testing.T) wireEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := c.conn.Read(ctx)
	require.NoError(t, err)
	var ev wireEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func (c *testClient) send(t *testing.T, requestType string, content map[string]any) {
	t.Helper()
	raw, err := json.Marshal(content)
	require.NoError(t, err)
	data, err := json.Marshal(app.Envelope{Type: requestType, Content: raw})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.conn.Write(ctx, websocket.MessageText, data))
}

func newSQLiteHub(t *testing.T) *Hub {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "cardy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	svc := app.NewService(store, rand.New(rand.NewSource(7)))
	return NewHub(svc, nil)
}

func TestHubPlaysThroughSQLite(t *testing.T) {
	hub := newSQLiteHub(t)
	srv := startServer(t, hub)
	alice := dial(t, srv)
	bob := dial(t, srv)

	alice.send(t, app.RequestCreateGame, map[string]any{"game_name": "Friday", "username": "alice", "player_name": "Alice"})
	created := alice.read(t)
	require.Equal(t, "game_created", created.Type)
	var payload app.GameCreatedPayload
	require.NoError(t, json.Unmarshal(created.Content, &payload))
	require.Len(t, payload.GameCode, 6)

	bob.send(t, app.RequestJoinGame, map[string]any{"game_code": strings.ToLower(payload.GameCode), "username": "bob", "player_name": "Bob"})
	require.Equal(t, "full_game", bob.read(t).Type)
	require.Equal(t, "player_joined", alice.read(t).Type)

	alice.send(t, app.RequestStartGame, map[string]any{"game_code": payload.GameCode, "username": "alice"})
	for _, c := range []*testClient{alice, bob} {
		ev := c.read(t)
		require.Equal(t, "full_game", ev.Type)
		var view app.GameView
		require.NoError(t, json.Unmarshal(ev.Content, &view))
		require.Len(t, view.Hand, app.DefaultCardsPerHand)
		require.Equal(t, domain.LifecycleStarted, view.Lifecycle)
	}
}

func TestHubReportsErrorsToSender(t *testing.T) {
	hub := newSQLiteHub(t)
	srv := startServer(t, hub)
	alice := dial(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, alice.conn.Write(ctx, websocket.MessageText, []byte("deal me in")))
	ev := alice.read(t)
	require.Equal(t, "error", ev.Type)
	var payload app.ErrorPayload
	require.NoError(t, json.Unmarshal(ev.Content, &payload))
	require.Equal(t, domain.CodeInvalidRequest, payload.Code)

	alice.send(t, app.RequestRejoinGame, map[string]any{"game_code": "ZZZZZZ", "username": "alice"})
	ev = alice.read(t)
	require.NoError(t, json.Unmarshal(ev.Content, &payload))
	require.Equal(t, domain.CodeNotFound, payload.Code)
	require.Equal(t, "Game with code ZZZZZZ was not found.", payload.Message)
}

type stubDispatcher struct{}

func (stubDispatcher) Dispatch(context.Context, string, app.Envelope) ([]app.Event, error) {
	return nil, nil
}

func TestHubRejectsForeignOrigins(t *testing.T) {
	hub := NewHub(stubDispatcher{}, []string{"https://cards.example.com"})
	srv := startServer(t, hub)

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHubDeliverUnknownConnection(t *testing.T) {
	hub := NewHub(stubDispatcher{}, nil)
	require.NoError(t, hub.Deliver(context.Background(), "gone", []byte(`{}`)))
	require.Zero(t, hub.Connections())
}

func TestHubForgetsClosedConnections(t *testing.T) {
	hub := NewHub(stubDispatcher{}, nil)
	srv := startServer(t, hub)
	c := dial(t, srv)
	require.Equal(t, 1, hub.Connections())

	require.NoError(t, c.conn.Close(websocket.StatusNormalClosure, "done"))
	require.Eventually(t, func() bool { return hub.Connections() == 0 }, 5*time.Second, 10*time.Millisecond)
}
