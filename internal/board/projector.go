package board

import "ludo_client/internal/domain"

// Point is a placement in percent of the board's width (X) and height (Y).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Projector turns decoded locations into board placements. It holds no
// mutable state, so one instance can be shared freely.
type Projector struct {
	colorOffset map[domain.Color]Point
}

// NewProjector builds a projector. spread (percent) nudges each color towards
// its own corner of a shared track cell; 0 puts everybody on the cell center.
func NewProjector(spread float64) *Projector {
	return &Projector{
		colorOffset: map[domain.Color]Point{
			domain.ColorGreen:  {X: -spread, Y: -spread},
			domain.ColorYellow: {X: spread, Y: -spread},
			domain.ColorRed:    {X: -spread, Y: spread},
			domain.ColorBlue:   {X: spread, Y: spread},
		},
	}
}

// Project places the piece in the given slot. ok is false when the location
// has no placement; callers skip such pieces.
func (p *Projector) Project(loc Location, color domain.Color, slot int) (Point, bool) {
	switch loc.Kind {
	case KindYard:
		slots, ok := yardSlots[color]
		if !ok || slot < 0 || slot >= len(slots) {
			return Point{}, false
		}
		return slots[slot], true

	case KindTrack:
		if loc.Index < 0 || loc.Index >= TrackLen {
			return Point{}, false
		}
		if pt, ok := trackOverrides[loc.Index]; ok {
			return pt, true
		}
		return p.center(trackCells[loc.Index], p.colorOffset[color]), true

	case KindLane:
		if loc.Quadrant < 0 || loc.Quadrant >= Quadrants || loc.Step < 0 || loc.Step >= LaneSteps {
			return Point{}, false
		}
		return p.center(laneCells[loc.Quadrant][loc.Step], Point{}), true
	}

	return Point{}, false
}

// ProjectRaw decodes and projects in one go.
func (p *Projector) ProjectRaw(raw int, color domain.Color, slot int) (Point, bool) {
	return p.Project(DecodePiece(raw, slot), color, slot)
}

// ProjectTrack places a colorless marker (power-up, explosion) on the track.
func (p *Projector) ProjectTrack(raw int) (Point, bool) {
	loc := Decode(raw)
	if loc.Kind != KindTrack {
		return Point{}, false
	}
	if pt, ok := trackOverrides[loc.Index]; ok {
		return pt, true
	}
	return p.center(trackCells[loc.Index], Point{}), true
}

func (p *Projector) center(c cell, offset Point) Point {
	return Point{
		X: float64(c.Col)*CellSize + CellSize/2 + offset.X,
		Y: float64(c.Row)*CellSize + CellSize/2 + offset.Y,
	}
}

// GridCell returns the 15x15 cell a location occupies, for renderers that
// work on the grid instead of percentages. Yard slots map to the cell under
// their percentage placement.
func (p *Projector) GridCell(loc Location, color domain.Color, slot int) (col, row int, ok bool) {
	switch loc.Kind {
	case KindTrack:
		if loc.Index < 0 || loc.Index >= TrackLen {
			return 0, 0, false
		}
		c := trackCells[loc.Index]
		return c.Col, c.Row, true
	case KindLane:
		if loc.Quadrant < 0 || loc.Quadrant >= Quadrants || loc.Step < 0 || loc.Step >= LaneSteps {
			return 0, 0, false
		}
		c := laneCells[loc.Quadrant][loc.Step]
		return c.Col, c.Row, true
	case KindYard:
		pt, ok := p.Project(loc, color, slot)
		if !ok {
			return 0, 0, false
		}
		return int(pt.X / CellSize), int(pt.Y / CellSize), true
	}
	return 0, 0, false
}
