// Package wstest runs an in-process game authority for transport tests.
package wstest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ludo_client/internal/protocol"

	"github.com/gorilla/websocket"
)

// Frame is one request received from a client.
type Frame struct {
	ConnID string
	protocol.Envelope
}

type peer struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (p *peer) write(msg []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteMessage(websocket.TextMessage, msg)
}

type Server struct {
	*httptest.Server
	// URL is the ws:// address of the server.
	URL string

	upgrader websocket.Upgrader
	frames   chan Frame

	mu     sync.Mutex
	seq    int
	peers  map[string]*peer
	onJoin func(id string)
}

func NewServer() *Server {
	s := &Server{
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		frames:   make(chan Frame, 256),
		peers:    make(map[string]*peer),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	s.URL = "ws" + strings.TrimPrefix(s.Server.URL, "http")
	return s
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.seq++
	id := fmt.Sprintf("conn-%d", s.seq)
	p := &peer{conn: conn}
	s.mu.Unlock()

	hello, _ := protocol.Encode(protocol.EventConnected, protocol.ConnectedPayload{ID: id})
	if err := p.write(hello); err != nil {
		conn.Close()
		return
	}

	s.mu.Lock()
	s.peers[id] = p
	onJoin := s.onJoin
	s.mu.Unlock()
	if onJoin != nil {
		onJoin(id)
	}

	defer func() {
		s.mu.Lock()
		delete(s.peers, id)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		env, err := protocol.DecodeEnvelope(msg)
		if err != nil {
			continue
		}
		select {
		case s.frames <- Frame{ConnID: id, Envelope: env}:
		default:
		}
	}
}

// OnJoin registers fn for every accepted connection.
func (s *Server) OnJoin(fn func(id string)) {
	s.mu.Lock()
	s.onJoin = fn
	s.mu.Unlock()
}

// Send pushes an event to every connected client.
func (s *Server) Send(event string, payload any) error {
	msg, err := protocol.Encode(event, payload)
	if err != nil {
		return err
	}
	return s.SendRaw(msg)
}

// SendRaw pushes a prebuilt frame as is.
func (s *Server) SendRaw(msg []byte) error {
	s.mu.Lock()
	peers := make([]*peer, 0, len(s.peers))
	for _, p := range s.peers {
		peers = append(peers, p)
	}
	s.mu.Unlock()

	for _, p := range peers {
		if err := p.write(msg); err != nil {
			return err
		}
	}
	return nil
}

// DropAll closes every connection from the server side.
func (s *Server) DropAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.peers {
		p.conn.Close()
	}
}

func (s *Server) Conns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.peers)
}

// Next waits for the next client request of the given type, skipping others.
func (s *Server) Next(t testing.TB, event string, timeout time.Duration) Frame {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case f := <-s.frames:
			if f.Type == event {
				return f
			}
		case <-deadline:
			t.Fatalf("no %q frame within %v", event, timeout)
			return Frame{}
		}
	}
}

// WaitConns blocks until n clients are connected.
func (s *Server) WaitConns(t testing.TB, n int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.Conns() == n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("want %d connections, have %d", n, s.Conns())
}
