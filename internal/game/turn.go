package game

import (
	"time"

	"ludo_client/internal/sched"
)

// Phase of the local turn state machine.
type Phase string

const (
	PhaseWaitingForRoll Phase = "waiting_for_roll"
	PhaseRollReceived   Phase = "roll_received"
	PhaseTurnEnded      Phase = "turn_ended"
)

const (
	DefaultTurnBudget = 15
	DefaultTimeUnit   = time.Second
)

// TurnState - whose turn it is, the dice of this turn and the countdown.
type TurnState struct {
	Index     int   `json:"turnIndex"`
	Dice      *int  `json:"dice"`
	Remaining int   `json:"remaining"`
	Phase     Phase `json:"phase"`
}

// Rolled reports whether a dice value is known for this turn.
func (s TurnState) Rolled() bool {
	return s.Dice != nil && *s.Dice >= 1
}

const tickerKey = "turn"

// TurnClock tracks the turn holder and a per-turn countdown. It only moves on
// authoritative events; running out of time never changes the turn locally.
type TurnClock struct {
	scope    *sched.Scope
	budget   int
	unit     time.Duration
	state    TurnState
	started  bool
	finished bool
	onTick   func(TurnState)
	onExpire func(TurnState)
}

func NewTurnClock(s *sched.Scheduler, budget int, unit time.Duration) *TurnClock {
	if budget <= 0 {
		budget = DefaultTurnBudget
	}
	if unit <= 0 {
		unit = DefaultTimeUnit
	}
	return &TurnClock{
		scope:  s.NewScope(),
		budget: budget,
		unit:   unit,
		state:  TurnState{Phase: PhaseWaitingForRoll},
	}
}

// OnTick is called after every countdown step.
func (c *TurnClock) OnTick(fn func(TurnState)) { c.onTick = fn }

// OnExpire is called once when the countdown reaches zero.
func (c *TurnClock) OnExpire(fn func(TurnState)) { c.onExpire = fn }

func (c *TurnClock) Budget() int { return c.budget }

// TurnChanged starts a fresh turn: full budget, no dice, a single new ticker.
func (c *TurnClock) TurnChanged(index int) {
	c.state = TurnState{
		Index:     index,
		Remaining: c.budget,
		Phase:     PhaseWaitingForRoll,
	}
	c.started = true
	c.restart()
}

// DiceRolled stores the roll. The countdown keeps running untouched.
func (c *TurnClock) DiceRolled(value int) {
	v := value
	c.state.Dice = &v
	c.state.Phase = PhaseRollReceived
}

// PieceMoved marks the turn as played; the next turnChanged starts a new one.
func (c *TurnClock) PieceMoved() {
	c.state.Phase = PhaseTurnEnded
}

// ApplySnapshot takes turn index and dice from a game_state frame. It never
// resets the countdown: snapshots also arrive for late joiners and resyncs.
func (c *TurnClock) ApplySnapshot(index int, dice *int) {
	c.state.Index = index
	if dice == nil {
		c.state.Dice = nil
		if c.state.Phase == PhaseRollReceived {
			c.state.Phase = PhaseWaitingForRoll
		}
		return
	}
	v := *dice
	c.state.Dice = &v
	if c.state.Phase == PhaseWaitingForRoll {
		c.state.Phase = PhaseRollReceived
	}
}

// SetFinished stops the countdown for a finished game.
func (c *TurnClock) SetFinished(finished bool) {
	if c.finished == finished {
		return
	}
	c.finished = finished
	if finished {
		c.scope.Cancel(tickerKey)
		return
	}
	if c.started && c.state.Remaining > 0 {
		c.restart()
	}
}

// State returns a copy of the current turn state.
func (c *TurnClock) State() TurnState {
	s := c.state
	if s.Dice != nil {
		v := *s.Dice
		s.Dice = &v
	}
	return s
}

// Ticking reports whether a countdown ticker is armed.
func (c *TurnClock) Ticking() bool { return c.scope.Active(tickerKey) }

// Stop cancels the ticker for good.
func (c *TurnClock) Stop() { c.scope.Close() }

func (c *TurnClock) restart() {
	if c.finished {
		c.scope.Cancel(tickerKey)
		return
	}
	// Every replaces the previous ticker under the same key.
	c.scope.Every(tickerKey, c.unit, c.tick)
}

func (c *TurnClock) tick() {
	if c.finished {
		c.scope.Cancel(tickerKey)
		return
	}
	if c.state.Remaining > 0 {
		c.state.Remaining--
	}
	if c.onTick != nil {
		c.onTick(c.State())
	}
	if c.state.Remaining > 0 {
		return
	}

	c.scope.Cancel(tickerKey)
	c.state.Phase = PhaseTurnEnded
	if c.onExpire != nil {
		c.onExpire(c.State())
	}
}
