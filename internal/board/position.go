package board

// Raw position encoding used by the authority.
const (
	PosYard       = -1
	PosEliminated = -99

	TrackLen  = 52
	LaneSteps = 6
	LaneBase  = 100
	Quadrants = 4

	// HomeStep is the last lane step: the piece has arrived.
	HomeStep = LaneSteps - 1
)

// Kind tags a decoded position.
type Kind int

const (
	KindUnknown Kind = iota
	KindYard
	KindTrack
	KindLane
	KindEliminated
)

func (k Kind) String() string {
	switch k {
	case KindYard:
		return "yard"
	case KindTrack:
		return "track"
	case KindLane:
		return "lane"
	case KindEliminated:
		return "eliminated"
	default:
		return "unknown"
	}
}

// Location is a decoded position. Only the fields of its Kind are meaningful:
// Slot for Yard, Index for Track, Quadrant/Step for Lane.
type Location struct {
	Kind     Kind
	Slot     int
	Index    int
	Quadrant int
	Step     int
}

func Yard(slot int) Location {
	return Location{Kind: KindYard, Slot: slot}
}

func Track(index int) Location {
	return Location{Kind: KindTrack, Index: index}
}

func Lane(quadrant, step int) Location {
	return Location{Kind: KindLane, Quadrant: quadrant, Step: step}
}

var (
	Unknown    = Location{Kind: KindUnknown}
	Eliminated = Location{Kind: KindEliminated}
)

// Decode is total: every int maps to exactly one Kind. The yard encoding
// carries no slot, so Yard locations come back with Slot 0; use DecodePiece
// when the slot is known.
func Decode(raw int) Location {
	switch {
	case raw == PosYard:
		return Yard(0)
	case raw == PosEliminated:
		return Eliminated
	case raw >= 0 && raw < TrackLen:
		return Track(raw)
	case raw >= LaneBase && raw < LaneBase*(Quadrants+1):
		step := raw % LaneBase
		if step >= LaneSteps {
			return Unknown
		}
		return Lane(raw/LaneBase-1, step)
	}
	return Unknown
}

// DecodePiece decodes the position of a piece sitting in the given slot.
func DecodePiece(raw, slot int) Location {
	loc := Decode(raw)
	if loc.Kind == KindYard {
		loc.Slot = slot
	}
	return loc
}

// Encode is the inverse of Decode. Yard slots are not part of the encoding.
func Encode(loc Location) (int, bool) {
	switch loc.Kind {
	case KindYard:
		return PosYard, true
	case KindEliminated:
		return PosEliminated, true
	case KindTrack:
		if loc.Index < 0 || loc.Index >= TrackLen {
			return 0, false
		}
		return loc.Index, true
	case KindLane:
		if loc.Quadrant < 0 || loc.Quadrant >= Quadrants || loc.Step < 0 || loc.Step >= LaneSteps {
			return 0, false
		}
		return (loc.Quadrant+1)*LaneBase + loc.Step, true
	}
	return 0, false
}

// OnBoard - the location occupies a cell of the track or a lane.
func (l Location) OnBoard() bool {
	return l.Kind == KindTrack || l.Kind == KindLane
}

// Home - the piece reached the end of its lane.
func (l Location) Home() bool {
	return l.Kind == KindLane && l.Step == HomeStep
}
