// Package ws serves the card table over WebSockets. Every connection gets an id that the
// app layer records as the player's connection handle; events come back through Deliver.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"cardy/internal/app"
	"cardy/internal/domain"
	"cardy/internal/ports"
)

const (
	sendBuffer   = 64
	pingInterval = 15 * time.Second
	readLimit    = 64 << 10

	// EventConnected tells a new client its connection id.
	EventConnected = "connected"
)

var invalidFrame = domain.NewError(domain.CodeInvalidRequest, "The request could not be read.")

// Dispatcher runs a client request and returns the events it produced.
type Dispatcher interface {
	Dispatch(ctx context.Context, connID string, env app.Envelope) ([]app.Event, error)
}

type client struct {
	id   string
	send chan []byte
}

// Hub tracks live connections and routes requests to the dispatcher.
type Hub struct {
	allowOrigins map[string]bool
	dispatcher   Dispatcher

	mu      sync.RWMutex
	clients map[string]*client
}

// NewHub builds a hub. An empty allow list accepts every origin.
func NewHub(dispatcher Dispatcher, allow []string) *Hub {
	m := map[string]bool{}
	for _, a := range allow {
		if a != "" {
			m[a] = true
		}
	}
	return &Hub{
		allowOrigins: m,
		dispatcher:   dispatcher,
		clients:      map[string]*client{},
	}
}

// Connections returns the number of live connections.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Deliver queues message for the connection. Unknown connections and full buffers drop the message.
func (h *Hub) Deliver(_ context.Context, connectionID string, message []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[connectionID]
	if !ok {
		return nil
	}
	select {
	case c.send <- message:
	default:
		log.Printf("client %s send buffer full, dropping message", connectionID)
	}
	return nil
}

// ServeWS upgrades the request and serves the connection until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin != "" && len(h.allowOrigins) > 0 && !h.allowOrigins[origin] {
		http.Error(w, "forbidden origin", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Printf("websocket accept: %v", err)
		return
	}
	conn.SetReadLimit(readLimit)
	ctx := r.Context()

	c := &client{id: uuid.NewString(), send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	log.Printf("client %s connected", c.id)

	done := make(chan struct{})
	go h.writeLoop(ctx, conn, c, done)

	hello, _ := json.Marshal(map[string]any{
		"type":    EventConnected,
		"content": map[string]string{"connection_id": c.id},
	})
	_ = h.Deliver(ctx, c.id, hello)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		h.handle(ctx, c.id, data)
	}

	h.mu.Lock()
	delete(h.clients, c.id)
	close(c.send)
	h.mu.Unlock()
	<-done
	log.Printf("client %s disconnected", c.id)
}

func (h *Hub) writeLoop(ctx context.Context, conn *websocket.Conn, c *client, done chan<- struct{}) {
	ping := time.NewTicker(pingInterval)
	defer func() {
		ping.Stop()
		_ = conn.Close(websocket.StatusNormalClosure, "bye")
		close(done)
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				log.Printf("client %s write: %v", c.id, err)
				return
			}
		case <-ping.C:
			_ = conn.Ping(ctx)
		}
	}
}

// handle runs one request frame. Failures go back to the sender as an error event.
func (h *Hub) handle(ctx context.Context, connID string, data []byte) {
	var events []app.Event
	var env app.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		events = []app.Event{app.ErrorEvent(connID, invalidFrame)}
	} else {
		events, err = h.dispatcher.Dispatch(ctx, connID, env)
		if err != nil {
			log.Printf("client %s %s failed: %v", connID, env.Type, err)
			events = []app.Event{app.ErrorEvent(connID, err)}
		}
	}
	if err := app.Deliver(ctx, h, events); err != nil {
		log.Printf("client %s deliver: %v", connID, err)
	}
}

var _ ports.Deliverer = (*Hub)(nil)
