package board

import "ludo_client/internal/domain"

// Board art is a 15x15 grid. The tables below are hand-measured against it
// and are not symmetric on purpose.
const (
	GridSize = 15
	CellSize = 100.0 / GridSize
)

type cell struct {
	Col, Row int
}

// trackCells maps a main track index to its grid cell.
var trackCells = [TrackLen]cell{
	{1, 6}, {2, 6}, {3, 6}, {4, 6}, {5, 6},
	{6, 5}, {6, 4}, {6, 3}, {6, 2}, {6, 1}, {6, 0},
	{7, 0}, {8, 0},
	{8, 1}, {8, 2}, {8, 3}, {8, 4}, {8, 5},
	{9, 6}, {10, 6}, {11, 6}, {12, 6}, {13, 6}, {14, 6},
	{14, 7}, {14, 8},
	{13, 8}, {12, 8}, {11, 8}, {10, 8}, {9, 8},
	{8, 9}, {8, 10}, {8, 11}, {8, 12}, {8, 13}, {8, 14},
	{7, 14}, {6, 14},
	{6, 13}, {6, 12}, {6, 11}, {6, 10}, {6, 9},
	{5, 8}, {4, 8}, {3, 8}, {2, 8}, {1, 8}, {0, 8},
	{0, 7}, {0, 6},
}

// trackOverrides patch the lane-entry cells where the arrow art is drawn off
// the grid. They win over the formula and ignore the color offset.
var trackOverrides = map[int]Point{
	11: {X: 50.0, Y: 3.6},
	24: {X: 96.4, Y: 50.0},
	37: {X: 50.0, Y: 96.4},
	50: {X: 3.6, Y: 50.0},
}

// laneCells: 6 cells per quadrant, step 0 first, step 5 next to the center.
var laneCells = [Quadrants][LaneSteps]cell{
	{{1, 7}, {2, 7}, {3, 7}, {4, 7}, {5, 7}, {6, 7}},
	{{7, 1}, {7, 2}, {7, 3}, {7, 4}, {7, 5}, {7, 6}},
	{{13, 7}, {12, 7}, {11, 7}, {10, 7}, {9, 7}, {8, 7}},
	{{7, 13}, {7, 12}, {7, 11}, {7, 10}, {7, 9}, {7, 8}},
}

// yardSlots are percentage coordinates of the four yard circles per color.
var yardSlots = map[domain.Color][domain.PiecesPerPlayer]Point{
	domain.ColorGreen:  {{16, 16}, {27, 16}, {16, 27}, {27, 27}},
	domain.ColorYellow: {{73, 16}, {84, 16}, {73, 27}, {84, 27}},
	domain.ColorRed:    {{16, 73}, {27, 73}, {16, 84}, {27, 84}},
	domain.ColorBlue:   {{73, 73}, {84, 73}, {73, 84}, {84, 84}},
}

// laneQuadrant maps a color to the home lane it enters.
var laneQuadrant = map[domain.Color]int{
	domain.ColorGreen:  0,
	domain.ColorYellow: 1,
	domain.ColorBlue:   2,
	domain.ColorRed:    3,
}

// QuadrantOf returns the home lane quadrant of a color.
func QuadrantOf(c domain.Color) (int, bool) {
	q, ok := laneQuadrant[c]
	return q, ok
}

// ColorOfQuadrant is the reverse of QuadrantOf.
func ColorOfQuadrant(q int) (domain.Color, bool) {
	for c, qq := range laneQuadrant {
		if qq == q {
			return c, true
		}
	}
	return "", false
}
