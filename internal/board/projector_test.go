package board

import (
	"testing"

	"ludo_client/internal/domain"
)

func cellCenter(col, row int) Point {
	return Point{
		X: float64(col)*CellSize + CellSize/2,
		Y: float64(row)*CellSize + CellSize/2,
	}
}

func TestProjectGreenLane(t *testing.T) {
	p := NewProjector(0)

	loc := Decode(103)
	if loc != Lane(0, 3) {
		t.Fatalf("Decode(103) = %+v", loc)
	}
	got, ok := p.Project(loc, domain.ColorGreen, 0)
	if !ok {
		t.Fatal("lane cell should have a placement")
	}
	if want := cellCenter(4, 7); got != want {
		t.Fatalf("Project(103, green) = %+v; want %+v", got, want)
	}
}

func TestProjectLanesAreColinear(t *testing.T) {
	p := NewProjector(0)
	for q := 0; q < Quadrants; q++ {
		var pts []Point
		for step := 0; step < LaneSteps; step++ {
			pt, ok := p.Project(Lane(q, step), domain.ColorGreen, 0)
			if !ok {
				t.Fatalf("lane %d step %d has no placement", q, step)
			}
			pts = append(pts, pt)
		}
		sameX, sameY := true, true
		for _, pt := range pts[1:] {
			sameX = sameX && pt.X == pts[0].X
			sameY = sameY && pt.Y == pts[0].Y
		}
		if !sameX && !sameY {
			t.Fatalf("lane %d is not colinear: %v", q, pts)
		}
		// every lane ends next to the board center
		last := pts[LaneSteps-1]
		center := cellCenter(7, 7)
		dx, dy := last.X-center.X, last.Y-center.Y
		if dx*dx+dy*dy > CellSize*CellSize*1.01 {
			t.Fatalf("lane %d home cell %v is not adjacent to center", q, last)
		}
	}
}

func TestProjectYardTable(t *testing.T) {
	p := NewProjector(1.5)
	got, ok := p.Project(Yard(0), domain.ColorYellow, 2)
	if !ok || got != (Point{X: 73, Y: 27}) {
		t.Fatalf("yellow yard slot 2 = %+v,%v", got, ok)
	}
	if _, ok := p.Project(Yard(0), domain.ColorYellow, 4); ok {
		t.Fatal("slot 4 must not be placed")
	}
	if _, ok := p.Project(Yard(0), domain.Color("purple"), 0); ok {
		t.Fatal("unknown color must not be placed")
	}
}

func TestProjectTrackFormulaAndOffset(t *testing.T) {
	p := NewProjector(0)
	got, ok := p.Project(Track(0), domain.ColorRed, 0)
	if !ok || got != cellCenter(1, 6) {
		t.Fatalf("track 0 = %+v,%v", got, ok)
	}

	spread := NewProjector(1)
	got, _ = spread.Project(Track(0), domain.ColorBlue, 0)
	want := cellCenter(1, 6)
	want.X++
	want.Y++
	if got != want {
		t.Fatalf("track 0 blue with spread = %+v; want %+v", got, want)
	}
}

func TestOverridesTakePrecedence(t *testing.T) {
	for _, spread := range []float64{0, 2} {
		p := NewProjector(spread)
		for idx, want := range trackOverrides {
			for _, c := range domain.Colors {
				got, ok := p.Project(Track(idx), c, 0)
				if !ok || got != want {
					t.Fatalf("override %d (%s, spread %v) = %+v; want %+v", idx, c, spread, got, want)
				}
			}
			if got, _ := p.ProjectTrack(idx); got != want {
				t.Fatalf("ProjectTrack(%d) = %+v; want %+v", idx, got, want)
			}
		}
	}
}

func TestProjectUnknownHasNoPlacement(t *testing.T) {
	p := NewProjector(0)
	for _, raw := range []int{52, 106, 99, -2, -99, 1000} {
		if _, ok := p.ProjectRaw(raw, domain.ColorGreen, 0); ok {
			t.Fatalf("raw %d must not be placed", raw)
		}
	}
	if _, ok := p.Project(Location{Kind: KindTrack, Index: 77}, domain.ColorGreen, 0); ok {
		t.Fatal("hand-built out-of-range track must not be placed")
	}
	if _, ok := p.ProjectTrack(-1); ok {
		t.Fatal("yard is not a track marker")
	}
}

func TestProjectIsPure(t *testing.T) {
	p := NewProjector(0.5)
	for raw := -100; raw < 420; raw++ {
		for _, c := range domain.Colors {
			a, okA := p.ProjectRaw(raw, c, 1)
			b, okB := p.ProjectRaw(raw, c, 1)
			if a != b || okA != okB {
				t.Fatalf("ProjectRaw(%d,%s) not deterministic", raw, c)
			}
		}
	}
}

func TestQuadrantColorMapping(t *testing.T) {
	for _, c := range domain.Colors {
		q, ok := QuadrantOf(c)
		if !ok {
			t.Fatalf("no quadrant for %s", c)
		}
		back, ok := ColorOfQuadrant(q)
		if !ok || back != c {
			t.Fatalf("ColorOfQuadrant(%d) = %s; want %s", q, back, c)
		}
	}
}

func TestGridCell(t *testing.T) {
	p := NewProjector(0)
	col, row, ok := p.GridCell(Decode(103), domain.ColorGreen, 0)
	if !ok || col != 4 || row != 7 {
		t.Fatalf("GridCell(103) = %d,%d,%v", col, row, ok)
	}
	col, row, ok = p.GridCell(Yard(0), domain.ColorBlue, 3)
	if !ok || col != 12 || row != 12 {
		t.Fatalf("GridCell(blue yard 3) = %d,%d,%v", col, row, ok)
	}
	if _, _, ok := p.GridCell(Eliminated, domain.ColorBlue, 0); ok {
		t.Fatal("eliminated has no cell")
	}
}
