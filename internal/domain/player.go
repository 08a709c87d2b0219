package domain

// Color - one of the four fixed seat colors
type Color string

const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
)

// Colors lists the seat colors in board quadrant order.
var Colors = []Color{ColorGreen, ColorYellow, ColorBlue, ColorRed}

func (c Color) Valid() bool {
	switch c {
	case ColorGreen, ColorYellow, ColorRed, ColorBlue:
		return true
	}
	return false
}

// PiecesPerPlayer is fixed for the lifetime of a player.
const PiecesPerPlayer = 4

// Bomb - a single bomb attached to one of the player's pieces
type Bomb struct {
	PieceIndex int `json:"pieceIndex"`
	Timer      int `json:"timer"`
}

// Player as pushed by the authority. Pieces are indexed by slot.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  Color  `json:"color"`
	Pieces []int  `json:"pieces"`
	Bomb   *Bomb  `json:"bomb,omitempty"`
}

// Piece returns the raw position of a slot. ok is false for slots the
// snapshot did not carry.
func (p Player) Piece(slot int) (pos int, ok bool) {
	if slot < 0 || slot >= PiecesPerPlayer || slot >= len(p.Pieces) {
		return 0, false
	}
	return p.Pieces[slot], true
}

// Slots returns how many piece slots are usable (never more than PiecesPerPlayer).
func (p Player) Slots() int {
	if len(p.Pieces) > PiecesPerPlayer {
		return PiecesPerPlayer
	}
	return len(p.Pieces)
}

// BombOn reports the bomb timer if the bomb sits on the given slot.
func (p Player) BombOn(slot int) (int, bool) {
	if p.Bomb == nil || p.Bomb.PieceIndex != slot {
		return 0, false
	}
	return p.Bomb.Timer, true
}

// PowerUp - a power-up lying on the main track
type PowerUp struct {
	Pos  int    `json:"pos"`
	Type string `json:"type"`
}
