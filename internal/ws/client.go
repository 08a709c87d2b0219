package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"ludo_client/internal/logger"
	"ludo_client/internal/metrics"
	"ludo_client/internal/protocol"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	handshakeWait  = 10 * time.Second
	maxMessageSize = 1 << 20
	sendBuffer     = 64
)

var (
	ErrNotConnected = errors.New("transport not connected")
	ErrThrottled    = errors.New("emit throttled")
	ErrGaveUp       = errors.New("reconnect attempts exhausted")
	ErrClosed       = errors.New("transport closed")
	ErrHandshake    = errors.New("unexpected handshake frame")
)

type Options struct {
	URL               string
	Header            http.Header
	ReconnectAttempts int
	ReconnectDelay    time.Duration

	// EmitRate <= 0 disables throttling.
	EmitRate  float64
	EmitBurst int
	Dialer    *websocket.Dialer
}

type handler struct {
	fn func(json.RawMessage)
}

// Client is a reconnecting websocket connection to the game authority.
// Handlers run on the read goroutine; callers that need a single writer
// must hand the work over themselves.
type Client struct {
	opts    Options
	dialer  *websocket.Dialer
	limiter *rate.Limiter
	log     *slog.Logger

	mu        sync.Mutex
	handlers  map[string][]*handler
	onConnect []*func(id string)
	onError   []*func(err error)
	conn      *websocket.Conn
	send      chan []byte
	id        string
	closed    bool
	quit      chan struct{}
	closeOnce sync.Once
}

func NewClient(opts Options) *Client {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = time.Second
	}
	if opts.ReconnectAttempts < 0 {
		opts.ReconnectAttempts = 0
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	limit := rate.Inf
	burst := opts.EmitBurst
	if opts.EmitRate > 0 {
		limit = rate.Limit(opts.EmitRate)
	}
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		opts:     opts,
		dialer:   dialer,
		limiter:  rate.NewLimiter(limit, burst),
		log:      logger.Component("ws"),
		handlers: make(map[string][]*handler),
		quit:     make(chan struct{}),
	}
}

// On subscribes fn to an inbound event type. The returned func removes it.
func (c *Client) On(event string, fn func(json.RawMessage)) (off func()) {
	h := &handler{fn: fn}
	c.mu.Lock()
	c.handlers[event] = append(c.handlers[event], h)
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		list := c.handlers[event]
		for i, x := range list {
			if x == h {
				c.handlers[event] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// OnConnect fires after every successful handshake with the new connection id.
func (c *Client) OnConnect(fn func(id string)) (off func()) {
	p := &fn
	c.mu.Lock()
	c.onConnect = append(c.onConnect, p)
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.onConnect = removeFunc(c.onConnect, p)
	}
}

// OnError fires on dial failures and dropped connections.
func (c *Client) OnError(fn func(err error)) (off func()) {
	p := &fn
	c.mu.Lock()
	c.onError = append(c.onError, p)
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.onError = removeFunc(c.onError, p)
	}
}

func removeFunc[T any](list []*T, p *T) []*T {
	for i, x := range list {
		if x == p {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// ID is the id of the current connection, "" while offline.
func (c *Client) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Emit queues a request. It never blocks: offline, throttled and full-buffer
// cases come back as errors.
func (c *Client) Emit(event string, payload any) error {
	msg, err := protocol.Encode(event, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.conn == nil {
		return ErrNotConnected
	}
	if !c.limiter.Allow() {
		return ErrThrottled
	}
	select {
	case c.send <- msg:
		metrics.RequestsSent.WithLabelValues(event).Inc()
		return nil
	default:
		return ErrThrottled
	}
}

// Run connects and keeps reconnecting until ctx ends, Close is called or
// ReconnectAttempts consecutive attempts fail.
func (c *Client) Run(ctx context.Context) error {
	failures := 0
	for {
		if err := c.stopped(ctx); err != nil {
			return err
		}

		attempt := uuid.NewString()
		connected, err := c.session(ctx, attempt)
		if err := c.stopped(ctx); err != nil {
			return err
		}
		if connected {
			failures = 0
		}
		failures++
		c.log.Warn("connection lost", "attempt", attempt, "error", err, "failures", failures)
		c.fireError(err)

		if failures > c.opts.ReconnectAttempts {
			return fmt.Errorf("%w: %v", ErrGaveUp, err)
		}

		t := time.NewTimer(c.opts.ReconnectDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-c.quit:
			t.Stop()
			return ErrClosed
		case <-t.C:
		}
	}
}

func (c *Client) stopped(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.quit:
		return ErrClosed
	default:
		return nil
	}
}

// Close drops the connection and stops Run. Handlers are kept.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		conn := c.conn
		c.mu.Unlock()
		close(c.quit)
		if conn != nil {
			_ = conn.Close()
		}
	})
}

// session runs one connection to completion. connected reports whether the
// handshake went through.
func (c *Client) session(ctx context.Context, attempt string) (connected bool, err error) {
	dialCtx, cancel := context.WithTimeout(ctx, handshakeWait)
	conn, _, err := c.dialer.DialContext(dialCtx, c.opts.URL, c.opts.Header)
	cancel()
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}

	id, err := handshake(conn)
	if err != nil {
		_ = conn.Close()
		return false, err
	}

	send := make(chan []byte, sendBuffer)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return false, ErrClosed
	}
	c.conn = conn
	c.send = send
	c.id = id
	c.mu.Unlock()

	metrics.Reconnects.Inc()
	c.log.Info("connected", "attempt", attempt, "id", id)

	stop := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writePump(conn, send, stop)
	}()
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	c.fireConnect(id)
	err = c.readPump(conn)

	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.send = nil
		c.id = ""
	}
	c.mu.Unlock()
	close(stop)
	<-writerDone
	_ = conn.Close()
	return true, err
}

func handshake(conn *websocket.Conn) (string, error) {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeWait))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("read handshake: %w", err)
	}
	env, err := protocol.DecodeEnvelope(msg)
	if err != nil {
		return "", fmt.Errorf("decode handshake: %w", err)
	}
	if env.Type != protocol.EventConnected {
		return "", fmt.Errorf("%w: %s", ErrHandshake, env.Type)
	}
	p, err := protocol.DecodePayload[protocol.ConnectedPayload](env.Payload)
	if err != nil || p.ID == "" {
		return "", fmt.Errorf("%w: missing connection id", ErrHandshake)
	}
	return p.ID, nil
}

func (c *Client) readPump(conn *websocket.Conn) error {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		env, err := protocol.DecodeEnvelope(msg)
		if err != nil {
			c.log.Debug("dropping frame", "error", err, "bytes", len(msg))
			continue
		}
		metrics.EventsReceived.WithLabelValues(env.Type).Inc()
		c.dispatch(env)
	}
}

func (c *Client) writePump(conn *websocket.Conn, send <-chan []byte, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Warn("write failed", "error", err)
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func (c *Client) dispatch(env protocol.Envelope) {
	c.mu.Lock()
	list := append([]*handler(nil), c.handlers[env.Type]...)
	c.mu.Unlock()
	for _, h := range list {
		h.fn(env.Payload)
	}
}

func (c *Client) fireConnect(id string) {
	c.mu.Lock()
	list := append([]*func(string){}, c.onConnect...)
	c.mu.Unlock()
	for _, fn := range list {
		(*fn)(id)
	}
}

func (c *Client) fireError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	list := append([]*func(error){}, c.onError...)
	c.mu.Unlock()
	for _, fn := range list {
		(*fn)(err)
	}
}
