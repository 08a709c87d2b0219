package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ludo_client/internal/protocol"
	"ludo_client/internal/ws/wstest"
)

func startClient(t *testing.T, opts Options) (*Client, chan error) {
	t.Helper()
	c := NewClient(opts)
	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { done <- c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		c.Close()
	})
	return c, done
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestHandshakeAndEvents(t *testing.T) {
	srv := wstest.NewServer()
	defer srv.Close()

	ids := make(chan string, 4)
	got := make(chan int, 4)

	c := NewClient(Options{URL: srv.URL, ReconnectAttempts: 1, ReconnectDelay: 10 * time.Millisecond})
	c.OnConnect(func(id string) { ids <- id })
	c.On(protocol.EventDiceRolled, func(raw json.RawMessage) {
		p, err := protocol.DecodePayload[protocol.DiceRolledPayload](raw)
		if err == nil {
			got <- p.Value
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)
	defer c.Close()

	select {
	case id := <-ids:
		if id != "conn-1" {
			t.Fatalf("id = %q", id)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no connect")
	}
	if c.ID() != "conn-1" || !c.Connected() {
		t.Fatalf("client state id=%q connected=%v", c.ID(), c.Connected())
	}

	if err := srv.Send(protocol.EventDiceRolled, protocol.DiceRolledPayload{Value: 4}); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case v := <-got:
		if v != 4 {
			t.Fatalf("dice = %d", v)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("dice event not delivered")
	}
}

func TestEmitReachesServer(t *testing.T) {
	srv := wstest.NewServer()
	defer srv.Close()

	c, _ := startClient(t, Options{URL: srv.URL})
	waitFor(t, "connect", c.Connected)

	if err := c.Emit(protocol.ReqJoinRoom, protocol.JoinRoomPayload{RoomID: "AB12C", PlayerName: "ana"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	f := srv.Next(t, protocol.ReqJoinRoom, 3*time.Second)
	p, err := protocol.DecodePayload[protocol.JoinRoomPayload](f.Payload)
	if err != nil || p.RoomID != "AB12C" || p.PlayerName != "ana" {
		t.Fatalf("join payload = %+v, %v", p, err)
	}
}

func TestEmitOffline(t *testing.T) {
	c := NewClient(Options{URL: "ws://127.0.0.1:1/ws"})
	if err := c.Emit(protocol.ReqRollDice, protocol.RoomPayload{RoomID: "X"}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("offline emit: %v", err)
	}
	c.Close()
	if err := c.Emit(protocol.ReqRollDice, nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("closed emit: %v", err)
	}
}

func TestEmitThrottled(t *testing.T) {
	srv := wstest.NewServer()
	defer srv.Close()

	c, _ := startClient(t, Options{URL: srv.URL, EmitRate: 0.001, EmitBurst: 1})
	waitFor(t, "connect", c.Connected)

	if err := c.Emit(protocol.ReqRollDice, protocol.RoomPayload{RoomID: "X"}); err != nil {
		t.Fatalf("first emit: %v", err)
	}
	if err := c.Emit(protocol.ReqRollDice, protocol.RoomPayload{RoomID: "X"}); !errors.Is(err, ErrThrottled) {
		t.Fatalf("second emit: %v", err)
	}
}

func TestReconnectGetsNewID(t *testing.T) {
	srv := wstest.NewServer()
	defer srv.Close()

	var mu sync.Mutex
	var ids []string
	var errs int

	c := NewClient(Options{URL: srv.URL, ReconnectAttempts: 3, ReconnectDelay: 10 * time.Millisecond})
	c.OnConnect(func(id string) {
		mu.Lock()
		ids = append(ids, id)
		mu.Unlock()
	})
	c.OnError(func(error) {
		mu.Lock()
		errs++
		mu.Unlock()
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)
	defer c.Close()

	waitFor(t, "first connect", func() bool { return c.ID() == "conn-1" })
	srv.DropAll()
	waitFor(t, "reconnect", func() bool { return c.ID() == "conn-2" })

	mu.Lock()
	defer mu.Unlock()
	if len(ids) != 2 || ids[0] == ids[1] {
		t.Fatalf("ids = %v", ids)
	}
	if errs != 1 {
		t.Fatalf("errors surfaced = %d", errs)
	}
}

func TestUnsubscribe(t *testing.T) {
	srv := wstest.NewServer()
	defer srv.Close()

	var mu sync.Mutex
	count := 0
	c, _ := startClient(t, Options{URL: srv.URL})
	off := c.On(protocol.EventMessage, func(json.RawMessage) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	marker := make(chan struct{}, 4)
	c.On(protocol.EventTurnChanged, func(json.RawMessage) { marker <- struct{}{} })
	waitFor(t, "connect", c.Connected)

	_ = srv.Send(protocol.EventMessage, "hello")
	off()
	_ = srv.Send(protocol.EventMessage, "ignored")
	_ = srv.Send(protocol.EventTurnChanged, protocol.TurnChangedPayload{TurnIndex: 1})

	select {
	case <-marker:
	case <-time.After(3 * time.Second):
		t.Fatal("marker not delivered")
	}
	mu.Lock()
	defer mu.Unlock()
	if count > 1 {
		t.Fatalf("handler ran %d times after off", count)
	}
}

func TestGivesUp(t *testing.T) {
	srv := wstest.NewServer()
	url := srv.URL
	srv.Close()

	_, done := startClient(t, Options{URL: url, ReconnectAttempts: 2, ReconnectDelay: 5 * time.Millisecond})
	select {
	case err := <-done:
		if !errors.Is(err, ErrGaveUp) {
			t.Fatalf("run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not give up")
	}
}

// Subscribers may leave from inside their own callback; the others in the
// same round still run, and the one that left is not called again.
func TestConnectAndErrorSubscribersLeaveFromCallback(t *testing.T) {
	srv := wstest.NewServer()
	defer srv.Close()

	var mu sync.Mutex
	var once, always []string
	var onceErrs, allErrs int

	c := NewClient(Options{URL: srv.URL, ReconnectAttempts: 3, ReconnectDelay: 10 * time.Millisecond})

	var offOnce func()
	offOnce = c.OnConnect(func(id string) {
		mu.Lock()
		once = append(once, id)
		mu.Unlock()
		offOnce()
	})
	c.OnConnect(func(id string) {
		mu.Lock()
		always = append(always, id)
		mu.Unlock()
	})

	var offErr func()
	offErr = c.OnError(func(error) {
		mu.Lock()
		onceErrs++
		mu.Unlock()
		offErr()
	})
	c.OnError(func(error) {
		mu.Lock()
		allErrs++
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)
	defer c.Close()

	waitFor(t, "first connect", func() bool { return c.ID() == "conn-1" })
	srv.DropAll()
	waitFor(t, "second connect", func() bool { return c.ID() == "conn-2" })
	srv.DropAll()
	waitFor(t, "third connect", func() bool { return c.ID() == "conn-3" })

	mu.Lock()
	defer mu.Unlock()
	if len(once) != 1 || once[0] != "conn-1" {
		t.Fatalf("self-removing connect subscriber saw %v", once)
	}
	if len(always) != 3 {
		t.Fatalf("connect subscriber saw %v", always)
	}
	if onceErrs != 1 || allErrs != 2 {
		t.Fatalf("errors: self-removing %d, other %d", onceErrs, allErrs)
	}
}
