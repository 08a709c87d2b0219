package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"ludo_client/internal/audio"
	"ludo_client/internal/board"
	"ludo_client/internal/domain"
	"ludo_client/internal/game"
	"ludo_client/internal/logger"
	"ludo_client/internal/metrics"
	"ludo_client/internal/overlay"
	"ludo_client/internal/protocol"
	"ludo_client/internal/sched"
	"ludo_client/internal/session"
)

const (
	maxMessages  = 5
	storeTimeout = 3 * time.Second
)

// Transport is the part of the websocket client the controller uses.
type Transport interface {
	On(event string, fn func(json.RawMessage)) (off func())
	OnConnect(fn func(id string)) (off func())
	OnError(fn func(err error)) (off func())
	Emit(event string, payload any) error
}

// Navigator leaves the game view when no seat can be resolved.
type Navigator interface {
	Redirect(reason string)
}

// Alerter shows a blocking message (join rejections).
type Alerter interface {
	Alert(msg string)
}

type Options struct {
	RoomID string
	// RouteName is the name the player typed in; empty on a plain reload.
	RouteName string

	Store     session.Store
	Loop      *sched.Loop // nil runs everything inline on the caller
	Clock     sched.Clock
	Projector *board.Projector
	Evaluator *game.Evaluator
	Audio     audio.Player
	Navigator Navigator
	Alerter   Alerter

	TurnBudget int
	TimeUnit   time.Duration
	TTLs       overlay.TTLs
}

// Controller owns the synchronized game state. Every mutation happens on one
// goroutine: the loop when set, the caller otherwise.
type Controller struct {
	tr        Transport
	loop      *sched.Loop
	exec      sched.Executor
	sched     *sched.Scheduler
	store     session.Store
	projector *board.Projector
	eval      *game.Evaluator
	audio     audio.Player
	nav       Navigator
	alerter   Alerter
	log       *slog.Logger

	roomID    string
	routeName string

	turn     *game.TurnClock
	overlays *overlay.Engine

	snap     *domain.Snapshot
	myID     string
	name     string
	messages []string
	alert    string
	redirect string
	finished bool
	started  bool
	closed   bool
	offs     []func()
	onChange func(View)
}

func New(tr Transport, opts Options) *Controller {
	exec := sched.Executor(sched.Inline)
	if opts.Loop != nil {
		exec = opts.Loop.Executor()
	}
	s := sched.New(opts.Clock, exec)
	if opts.Projector == nil {
		opts.Projector = board.NewProjector(0)
	}
	if opts.Evaluator == nil {
		opts.Evaluator = game.NewEvaluator()
	}
	if opts.Audio == nil {
		opts.Audio = audio.LogPlayer{}
	}

	c := &Controller{
		tr:        tr,
		loop:      opts.Loop,
		exec:      exec,
		sched:     s,
		store:     opts.Store,
		projector: opts.Projector,
		eval:      opts.Evaluator,
		audio:     opts.Audio,
		nav:       opts.Navigator,
		alerter:   opts.Alerter,
		log:       logger.Component("controller"),
		roomID:    session.NormalizeRoom(opts.RoomID),
		routeName: opts.RouteName,
		turn:      game.NewTurnClock(s, opts.TurnBudget, opts.TimeUnit),
		overlays:  overlay.NewEngine(s, opts.TTLs),
	}

	c.turn.OnTick(func(st game.TurnState) {
		metrics.Countdown.Set(float64(st.Remaining))
		c.changed()
	})
	c.turn.OnExpire(func(st game.TurnState) {
		c.log.Debug("turn countdown expired", "turnIndex", st.Index)
	})
	c.overlays.OnChange(func() {
		for kind, n := range c.overlays.Count() {
			metrics.OverlaysActive.WithLabelValues(string(kind)).Set(float64(n))
		}
		c.changed()
	})
	return c
}

// OnChange is called on the owner goroutine with a fresh view after every
// applied event, tick and overlay change.
func (c *Controller) OnChange(fn func(View)) {
	c.onChange = fn
}

// Start subscribes to the transport. Call it before the transport connects.
func (c *Controller) Start() {
	if c.started {
		return
	}
	c.started = true

	c.offs = append(c.offs,
		c.tr.OnConnect(func(id string) {
			c.post(func() { c.handleConnect(id) })
		}),
		c.tr.OnError(func(err error) {
			c.post(func() { c.pushMessage(err.Error()) })
		}),
	)

	handlers := map[string]func(json.RawMessage){
		protocol.EventGameState:        c.handleGameState,
		protocol.EventDiceRolled:       c.handleDiceRolled,
		protocol.EventPieceMoved:       c.handlePieceMoved,
		protocol.EventKill:             c.handleKill,
		protocol.EventPowerUpActivated: c.handlePowerUp,
		protocol.EventExplosion:        c.handleExplosion,
		protocol.EventTurnChanged:      c.handleTurnChanged,
		protocol.EventMessage:          c.handleMessage,
		protocol.EventError:            c.handleError,
		protocol.EventErrorJoining:     c.handleErrorJoining,
	}
	for _, event := range protocol.GameEvents {
		fn := handlers[event]
		if fn == nil {
			continue
		}
		c.offs = append(c.offs, c.tr.On(event, func(raw json.RawMessage) {
			c.post(func() { fn(raw) })
		}))
	}
}

// post hands work to the owner goroutine; anything arriving after Close is
// dropped there.
func (c *Controller) post(f func()) {
	c.exec(func() {
		if c.closed {
			return
		}
		f()
		c.changed()
	})
}

// call runs f on the owner goroutine and waits for it.
func (c *Controller) call(ctx context.Context, f func()) error {
	if c.loop == nil {
		f()
		return nil
	}
	return c.loop.Call(ctx, f)
}

// Close deregisters every subscription and cancels all timers. Events still
// in flight are ignored.
func (c *Controller) Close() {
	for _, off := range c.offs {
		off()
	}
	c.offs = nil

	teardown := func() {
		if c.closed {
			return
		}
		c.closed = true
		c.turn.Stop()
		c.overlays.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.call(ctx, teardown); errors.Is(err, sched.ErrLoopStopped) {
		// nobody else can touch the state any more
		teardown()
	}
}

// MyID is the id of the current transport connection, "" before the first one.
func (c *Controller) MyID() string { return c.myID }

func (c *Controller) handleConnect(id string) {
	// always the id of this connection, never a previous one
	c.myID = id
	c.redirect = ""

	if c.roomID == "" {
		c.leave("no room to join")
		return
	}

	if c.routeName != "" {
		c.saveName(c.routeName)
		c.join(id, c.routeName)
		return
	}

	if c.store == nil {
		c.join(id, "")
		return
	}
	c.offLoop(func() func() {
		name := c.loadName()
		return func() {
			// a newer connection owns the seat lookup now
			if c.myID != id {
				return
			}
			c.join(id, name)
		}
	})
}

func (c *Controller) join(id, name string) {
	if name == "" {
		c.leave("no player name for room " + c.roomID)
		return
	}
	c.name = name

	c.log.Info("joining room", "room", c.roomID, "name", name, "id", id)
	if err := c.emit(protocol.ReqJoinRoom, protocol.JoinRoomPayload{RoomID: c.roomID, PlayerName: name}); err != nil {
		c.pushMessage("join failed: " + err.Error())
	}
}

// offLoop runs store I/O away from the owner goroutine and posts the
// returned continuation back to it. Without a loop the caller owns the state,
// so both halves run inline.
func (c *Controller) offLoop(work func() (then func())) {
	if c.loop == nil {
		work()()
		return
	}
	go func() {
		then := work()
		c.post(then)
	}()
}

func (c *Controller) saveName(name string) {
	if c.store == nil {
		return
	}
	room := c.roomID
	save := func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := c.store.SaveName(ctx, room, name); err != nil {
			c.log.Warn("failed to save seat", "room", room, "error", err)
		}
	}
	if c.loop == nil {
		save()
		return
	}
	go save()
}

func (c *Controller) loadName() string {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	name, err := c.store.LoadName(ctx, c.roomID)
	if err != nil && !errors.Is(err, session.ErrNoSeat) {
		c.log.Warn("failed to load seat", "room", c.roomID, "error", err)
	}
	return name
}

func (c *Controller) leave(reason string) {
	c.redirect = reason
	c.log.Warn("leaving game view", "reason", reason)
	if c.nav != nil {
		c.nav.Redirect(reason)
	}
}

func (c *Controller) emit(event string, payload any) error {
	return c.tr.Emit(event, payload)
}

// pushMessage keeps the newest maxMessages entries, newest first.
func (c *Controller) pushMessage(msg string) {
	if msg == "" {
		return
	}
	c.messages = append([]string{msg}, c.messages...)
	if len(c.messages) > maxMessages {
		c.messages = c.messages[:maxMessages]
	}
}

func (c *Controller) changed() {
	if c.onChange == nil || c.closed {
		return
	}
	c.onChange(c.buildView())
}
