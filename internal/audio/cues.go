package audio

import (
	"log/slog"
	"sync"

	"ludo_client/internal/metrics"
)

// Cue names a sound the view should play. Playback itself lives in the
// frontend; the engine only says when.
type Cue string

const (
	CueDice      Cue = "dice"
	CueMove      Cue = "move"
	CueKill      Cue = "kill"
	CuePowerUp   Cue = "powerup"
	CueExplosion Cue = "explosion"
	CueWin       Cue = "win"
)

// Player receives cues. Implementations must not block.
type Player interface {
	Play(Cue)
}

// LogPlayer logs and counts cues.
type LogPlayer struct {
	Log *slog.Logger
}

func (p LogPlayer) Play(c Cue) {
	metrics.CuesPlayed.WithLabelValues(string(c)).Inc()
	if p.Log != nil {
		p.Log.Debug("cue", "cue", string(c))
	}
}

// Recorder keeps cues in order; the view API drains it.
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
	next Player
}

// NewRecorder forwards every cue to next as well (may be nil).
func NewRecorder(next Player) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Play(c Cue) {
	r.mu.Lock()
	r.cues = append(r.cues, c)
	if len(r.cues) > 64 {
		r.cues = r.cues[len(r.cues)-64:]
	}
	r.mu.Unlock()
	if r.next != nil {
		r.next.Play(c)
	}
}

// Drain returns and clears the recorded cues.
func (r *Recorder) Drain() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.cues
	r.cues = nil
	return out
}
