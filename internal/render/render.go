// Package render draws a controller view on the 15x15 board grid, for
// terminals and logs.
package render

import (
	"fmt"
	"strings"

	"ludo_client/internal/board"
	"ludo_client/internal/controller"
	"ludo_client/internal/domain"
	"ludo_client/internal/overlay"
)

// Cell is one grid square.
type Cell struct {
	Ch    rune
	Color domain.Color
	// Movable pieces are highlighted so a terminal can show what a key press moves.
	Movable bool
}

type Grid [board.GridSize][board.GridSize]Cell

// Board paints track, lanes, power-ups, explosions and pieces. Later layers win.
func Board(v controller.View, p *board.Projector) Grid {
	var g Grid
	for row := range g {
		for col := range g[row] {
			g[row][col] = Cell{Ch: ' '}
		}
	}

	for i := 0; i < board.TrackLen; i++ {
		if col, row, ok := p.GridCell(board.Track(i), "", 0); ok {
			g[row][col] = Cell{Ch: '.'}
		}
	}
	for q := 0; q < board.Quadrants; q++ {
		color, _ := board.ColorOfQuadrant(q)
		for s := 0; s < board.LaneSteps; s++ {
			ch := '-'
			if s == board.HomeStep {
				ch = '#'
			}
			if col, row, ok := p.GridCell(board.Lane(q, s), "", 0); ok {
				g[row][col] = Cell{Ch: ch, Color: color}
			}
		}
	}

	for _, pu := range v.PowerUps {
		if col, row, ok := p.GridCell(board.Track(pu.Pos), "", 0); ok {
			g[row][col] = Cell{Ch: '*'}
		}
	}
	for _, ov := range v.Overlays {
		if ov.Kind != overlay.KindExplosion {
			continue
		}
		if col, row, ok := p.GridCell(board.Decode(ov.Pos), "", 0); ok {
			g[row][col] = Cell{Ch: '!'}
		}
	}

	for _, pl := range v.Players {
		for _, pc := range pl.Pieces {
			if !inGrid(pc.Col, pc.Row) {
				continue
			}
			g[pc.Row][pc.Col] = Cell{Ch: pieceRune(pl.Color, pc), Color: pl.Color, Movable: pc.Movable}
		}
	}
	return g
}

func inGrid(col, row int) bool {
	return col >= 0 && col < board.GridSize && row >= 0 && row < board.GridSize
}

// pieceRune - color initial, or the stack height when pieces share a cell.
func pieceRune(color domain.Color, pc controller.PieceView) rune {
	if pc.Stack > 1 {
		return rune('0' + pc.Stack)
	}
	if pc.Bomb != nil {
		return '@'
	}
	if color == "" {
		return '?'
	}
	r := rune(strings.ToLower(string(color))[0])
	if pc.Movable {
		r = rune(strings.ToUpper(string(r))[0])
	}
	return r
}

// Status is the text shown above the board.
func Status(v controller.View) []string {
	dice := "-"
	if v.Turn.Dice != nil {
		dice = fmt.Sprint(*v.Turn.Dice)
	}
	lines := []string{
		fmt.Sprintf("room %s  me %s (%s)", v.RoomID, orDash(v.MyID), orDash(v.Name)),
		fmt.Sprintf("turn %d  dice %s  time %d  %s", v.Turn.Index, dice, v.Turn.Remaining, v.Turn.Phase),
	}
	if v.Finished {
		lines = append(lines, "game over, winners: "+strings.Join(v.Winners, ", "))
	} else if v.IsMyTurn {
		switch {
		case v.CanRoll:
			lines = append(lines, "your turn: press r to roll")
		case len(v.Movable()) > 0:
			lines = append(lines, fmt.Sprintf("your turn: move one of %v", v.Movable()))
		default:
			lines = append(lines, "your turn: no move")
		}
	}
	if v.Shaking {
		lines = append(lines, "*** BOOM ***")
	}
	for _, ov := range v.Overlays {
		switch ov.Kind {
		case overlay.KindKill:
			lines = append(lines, fmt.Sprintf("%s captured %s", ov.Killer, ov.Victim))
		case overlay.KindPowerUp:
			lines = append(lines, fmt.Sprintf("%s: %s", ov.Player, ov.Effect))
		}
	}
	if v.Alert != "" {
		lines = append(lines, "! "+v.Alert)
	}
	if v.Redirect != "" {
		lines = append(lines, "cannot join: "+v.Redirect)
	}
	return lines
}

// Players lists seats in turn order.
func Players(v controller.View) []string {
	out := make([]string, 0, len(v.Players))
	for _, p := range v.Players {
		mark := " "
		if p.IsTurn {
			mark = ">"
		}
		tag := ""
		switch {
		case p.Winner:
			tag = " (won)"
		case p.Out:
			tag = " (out)"
		}
		me := ""
		if p.IsMe {
			me = " *"
		}
		out = append(out, fmt.Sprintf("%s %-6s %s%s%s", mark, p.Color, p.Name, tag, me))
	}
	return out
}

// Text renders the whole frame as plain text.
func Text(v controller.View, p *board.Projector) string {
	var b strings.Builder
	for _, l := range Status(v) {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	g := Board(v, p)
	for _, row := range g {
		for _, c := range row {
			b.WriteRune(c.Ch)
		}
		b.WriteByte('\n')
	}
	for _, l := range Players(v) {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	for _, m := range v.Messages {
		b.WriteString("- ")
		b.WriteString(m)
		b.WriteByte('\n')
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
