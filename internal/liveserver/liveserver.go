// Package liveserver broadcasts lift diagnostics to connected websocket
// clients as a batch lift runs. It is purely observational: nothing here
// feeds back into lift.Batch or lift.Lift, and a client disconnecting, or
// the server never being started, has no effect on lift results.
package liveserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"classlift/internal/lift"
	"classlift/internal/liftfail"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// EventKind tags the variant of a broadcast Event.
type EventKind string

const (
	EventFailure EventKind = "failure"
	EventBatch   EventKind = "batch_result"
)

// Event is one JSON message broadcast to every connected client.
type Event struct {
	Kind      EventKind  `json:"kind"`
	SessionID string     `json:"session_id,omitempty"`
	At        time.Time  `json:"at"`
	Failure   *FailureDoc `json:"failure,omitempty"`
	Batch     *BatchDoc   `json:"batch,omitempty"`
}

// FailureDoc is the wire form of a liftfail.Failure.
type FailureDoc struct {
	Kind             string `json:"kind"`
	InstructionIndex int    `json:"instruction_index"`
	Message          string `json:"message"`
}

// BatchDoc summarizes a completed lift.Batch run: how many methods
// succeeded versus failed, without repeating each method's full IR.
type BatchDoc struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

func failureDoc(f *liftfail.Failure) *FailureDoc {
	return &FailureDoc{Kind: f.Kind.String(), InstructionIndex: f.InstructionIndex, Message: f.Message}
}

// BatchDocFrom reduces a lift.Batch result slice to a BatchDoc.
func BatchDocFrom(results []lift.BatchResult) BatchDoc {
	doc := BatchDoc{Total: len(results)}
	for _, r := range results {
		if r.Err != nil {
			doc.Failed++
		} else {
			doc.Succeeded++
		}
	}
	return doc
}

// client is one accepted websocket connection. Writes are serialized
// through mu, mirroring the teacher's WebSocketConn guard against
// concurrent writers on the same connection.
type client struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
}

func (c *client) send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("liveserver: client connection is closed")
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.closed = true
		return err
	}
	return nil
}

// Server accepts websocket clients on /events and fans every Broadcast
// call out to all of them. The zero value is not usable; construct with
// New.
type Server struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client

	httpServer *http.Server
}

// New constructs a Server. CheckOrigin always allows, matching the
// teacher's local-tooling websocket server — this is a diagnostics
// sidecar, not an internet-facing service.
func New() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}
	id := uuid.NewString()

	s.mu.Lock()
	s.clients[id] = c
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, id)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// handlerFor returns the HTTP handler ListenAndServe installs at /events,
// exposed separately so tests can drive it through httptest.NewServer
// without binding a real listener.
func handlerFor(s *Server) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	return mux
}

// ListenAndServe starts the HTTP server on addr in the background and
// returns immediately; call Close to stop it. A non-nil error reaching
// errCh means the server stopped on its own (e.g. the port was taken);
// Close always returns http.ErrServerClosed there, which is not an error.
func (s *Server) ListenAndServe(addr string) (errCh <-chan error) {
	s.httpServer = &http.Server{Addr: addr, Handler: handlerFor(s)}

	ch := make(chan error, 1)
	go func() { ch <- s.httpServer.ListenAndServe() }()
	return ch
}

// Close stops the HTTP server and disconnects every client.
func (s *Server) Close() error {
	s.mu.Lock()
	for id, c := range s.clients {
		c.mu.Lock()
		c.closed = true
		c.conn.Close()
		c.mu.Unlock()
		delete(s.clients, id)
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// BroadcastFailure publishes a Failure raised during sessionID's lift to
// every connected client.
func (s *Server) BroadcastFailure(sessionID string, f *liftfail.Failure) error {
	return s.broadcast(Event{Kind: EventFailure, SessionID: sessionID, At: time.Now(), Failure: failureDoc(f)})
}

// BroadcastBatchResult publishes a completed lift.Batch run's summary.
func (s *Server) BroadcastBatchResult(results []lift.BatchResult) error {
	doc := BatchDocFrom(results)
	return s.broadcast(Event{Kind: EventBatch, At: time.Now(), Batch: &doc})
}

func (s *Server) broadcast(evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("liveserver: marshal event: %w", err)
	}

	s.mu.RLock()
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	var lastErr error
	for _, c := range clients {
		if err := c.send(payload); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// ClientCount reports how many clients are currently connected, for
// diagnostics and tests.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
