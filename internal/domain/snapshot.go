package domain

// GameStatus - authoritative game status
type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
)

// Snapshot is one authoritative game_state frame. It always replaces the
// previous one as a whole.
type Snapshot struct {
	Players   []Player   `json:"players"`
	Dice      *int       `json:"dice"`
	TurnIndex int        `json:"turnIndex"`
	PowerUps  []PowerUp  `json:"powerUps,omitempty"`
	Winners   []string   `json:"winners,omitempty"`
	Status    GameStatus `json:"status,omitempty"`
}

// TurnHolder returns the player whose turn it is.
func (s *Snapshot) TurnHolder() (Player, bool) {
	if s == nil || s.TurnIndex < 0 || s.TurnIndex >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.TurnIndex], true
}

// FindPlayer looks a player up by id.
func (s *Snapshot) FindPlayer(id string) (Player, bool) {
	if s == nil {
		return Player{}, false
	}
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// WinnerSet returns the winners as a lookup set.
func (s *Snapshot) WinnerSet() map[string]bool {
	set := make(map[string]bool)
	if s == nil {
		return set
	}
	for _, id := range s.Winners {
		set[id] = true
	}
	return set
}

// IsFinished - the authority said so, or at most one player is still racing.
// A lone player (lobby, solo table) is never finished by the winners rule.
func (s *Snapshot) IsFinished() bool {
	if s == nil {
		return false
	}
	if s.Status == StatusFinished {
		return true
	}
	return len(s.Players) > 1 && len(s.Winners) >= len(s.Players)-1
}

// Clone deep-copies the snapshot so consumers never share slices with it.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	if s.Dice != nil {
		d := *s.Dice
		out.Dice = &d
	}
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		cp := p
		cp.Pieces = append([]int(nil), p.Pieces...)
		if p.Bomb != nil {
			b := *p.Bomb
			cp.Bomb = &b
		}
		out.Players[i] = cp
	}
	out.PowerUps = append([]PowerUp(nil), s.PowerUps...)
	out.Winners = append([]string(nil), s.Winners...)
	return &out
}
