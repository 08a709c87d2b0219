package overlay

import (
	"sort"
	"time"

	"ludo_client/internal/sched"

	"github.com/google/uuid"
)

// Kind of a transient overlay. At most one overlay per kind is visible.
type Kind string

const (
	KindKill      Kind = "kill"
	KindPowerUp   Kind = "powerup"
	KindExplosion Kind = "explosion"
	KindShake     Kind = "shake"
)

// TTLs per kind.
type TTLs map[Kind]time.Duration

// DefaultTTLs - the kill banner stays 3.5s like the web client always did.
var DefaultTTLs = TTLs{
	KindKill:      3500 * time.Millisecond,
	KindPowerUp:   3 * time.Second,
	KindExplosion: 3 * time.Second,
	KindShake:     600 * time.Millisecond,
}

// Event is a self-expiring notification layered over the game state. It never
// feeds back into authoritative state.
type Event struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Killer    string        `json:"killer,omitempty"`
	Victim    string        `json:"victim,omitempty"`
	Player    string        `json:"player,omitempty"`
	Effect    string        `json:"effect,omitempty"`
	Pos       int           `json:"pos"`
	CreatedAt time.Time     `json:"createdAt"`
	TTL       time.Duration `json:"ttl"`
}

func (e Event) ExpiresAt() time.Time { return e.CreatedAt.Add(e.TTL) }

func Kill(killer, victim string) Event {
	return Event{Kind: KindKill, Killer: killer, Victim: victim}
}

func PowerUp(player, effect string) Event {
	return Event{Kind: KindPowerUp, Player: player, Effect: effect}
}

func Explosion(pos int) Event {
	return Event{Kind: KindExplosion, Pos: pos}
}

func Shake() Event {
	return Event{Kind: KindShake}
}

// Engine keeps the visible overlays, one slot per kind.
type Engine struct {
	s        *sched.Scheduler
	scope    *sched.Scope
	ttl      TTLs
	active   map[Kind]Event
	onChange func()
}

func NewEngine(s *sched.Scheduler, ttl TTLs) *Engine {
	merged := make(TTLs, len(DefaultTTLs))
	for k, d := range DefaultTTLs {
		merged[k] = d
	}
	for k, d := range ttl {
		if d > 0 {
			merged[k] = d
		}
	}
	return &Engine{
		s:      s,
		scope:  s.NewScope(),
		ttl:    merged,
		active: make(map[Kind]Event),
	}
}

// OnChange is called after an overlay appears or expires.
func (e *Engine) OnChange(fn func()) { e.onChange = fn }

// TTL returns the lifetime used for kind.
func (e *Engine) TTL(kind Kind) time.Duration { return e.ttl[kind] }

// Push shows ev, replacing any overlay of the same kind and restarting the
// expiry for that kind. It returns false after Close.
func (e *Engine) Push(ev Event) (Event, bool) {
	if e.scope.Closed() {
		return Event{}, false
	}
	ttl, ok := e.ttl[ev.Kind]
	if !ok {
		return Event{}, false
	}

	ev.ID = uuid.NewString()
	ev.CreatedAt = e.s.Now()
	ev.TTL = ttl
	e.active[ev.Kind] = ev

	id := ev.ID
	e.scope.After(string(ev.Kind), ttl, func() {
		cur, ok := e.active[ev.Kind]
		if !ok || cur.ID != id {
			return
		}
		delete(e.active, ev.Kind)
		e.changed()
	})
	e.changed()
	return ev, true
}

// Get returns the visible overlay of kind.
func (e *Engine) Get(kind Kind) (Event, bool) {
	ev, ok := e.active[kind]
	return ev, ok
}

// Active returns the visible overlays, oldest first.
func (e *Engine) Active() []Event {
	out := make([]Event, 0, len(e.active))
	for _, ev := range e.active {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Kind < out[j].Kind
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Shaking reports whether the board should shake right now.
func (e *Engine) Shaking() bool {
	_, ok := e.active[KindShake]
	return ok
}

// Count returns visible overlays per kind.
func (e *Engine) Count() map[Kind]int {
	out := make(map[Kind]int, len(e.ttl))
	for k := range e.ttl {
		out[k] = 0
	}
	for k := range e.active {
		out[k]++
	}
	return out
}

// Close cancels pending expiries and drops everything. Later pushes are
// ignored.
func (e *Engine) Close() {
	e.scope.Close()
	e.active = make(map[Kind]Event)
}

func (e *Engine) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}
