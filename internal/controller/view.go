package controller

import (
	"ludo_client/internal/board"
	"ludo_client/internal/domain"
	"ludo_client/internal/game"
	"ludo_client/internal/overlay"
)

// PieceView is one placed piece. Pieces without a placement are left out.
type PieceView struct {
	Slot    int         `json:"slot"`
	Raw     int         `json:"raw"`
	Kind    string      `json:"kind"`
	At      board.Point `json:"at"`
	Col     int         `json:"col"`
	Row     int         `json:"row"`
	Home    bool        `json:"home,omitempty"`
	Movable bool        `json:"movable"`
	Stack   int         `json:"stack"`
	Bomb    *int        `json:"bomb,omitempty"`
}

type PlayerView struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Color  domain.Color `json:"color"`
	IsMe   bool         `json:"isMe"`
	IsTurn bool         `json:"isTurn"`
	Winner bool         `json:"winner"`
	Out    bool         `json:"out"`
	Pieces []PieceView  `json:"pieces"`
}

type PowerUpView struct {
	Pos  int         `json:"pos"`
	Type string      `json:"type"`
	At   board.Point `json:"at"`
}

type OverlayView struct {
	overlay.Event
	At *board.Point `json:"at,omitempty"`
}

// View is everything a renderer needs for one frame.
type View struct {
	RoomID   string            `json:"roomId"`
	MyID     string            `json:"myId"`
	Name     string            `json:"name"`
	Players  []PlayerView      `json:"players"`
	PowerUps []PowerUpView     `json:"powerUps"`
	Turn     game.TurnState    `json:"turn"`
	IsMyTurn bool              `json:"isMyTurn"`
	CanRoll  bool              `json:"canRoll"`
	Status   domain.GameStatus `json:"status"`
	Winners  []string          `json:"winners"`
	Finished bool              `json:"finished"`
	Overlays []OverlayView     `json:"overlays"`
	Shaking  bool              `json:"shaking"`
	Messages []string          `json:"messages"`
	Alert    string            `json:"alert,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// Player returns the view of a player by id.
func (v View) Player(id string) (PlayerView, bool) {
	for _, p := range v.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerView{}, false
}

// Movable lists the movable slots of the local player.
func (v View) Movable() []int {
	me, ok := v.Player(v.MyID)
	if !ok {
		return nil
	}
	var out []int
	for _, pc := range me.Pieces {
		if pc.Movable {
			out = append(out, pc.Slot)
		}
	}
	return out
}

func (c *Controller) buildView() View {
	turn := c.turn.State()
	v := View{
		RoomID:   c.roomID,
		MyID:     c.myID,
		Name:     c.name,
		Turn:     turn,
		Finished: c.finished,
		Shaking:  c.overlays.Shaking(),
		Messages: append([]string(nil), c.messages...),
		Alert:    c.alert,
		Redirect: c.redirect,
	}

	for _, ev := range c.overlays.Active() {
		ov := OverlayView{Event: ev}
		if ev.Kind == overlay.KindExplosion {
			if pt, ok := c.projector.ProjectTrack(ev.Pos); ok {
				ov.At = &pt
			}
		}
		v.Overlays = append(v.Overlays, ov)
	}

	if c.snap == nil {
		return v
	}
	snap := c.snap
	v.Status = snap.Status
	v.Winners = append([]string(nil), snap.Winners...)
	winners := snap.WinnerSet()

	for _, pu := range snap.PowerUps {
		pt, ok := c.projector.ProjectTrack(pu.Pos)
		if !ok {
			continue
		}
		v.PowerUps = append(v.PowerUps, PowerUpView{Pos: pu.Pos, Type: pu.Type, At: pt})
	}

	for i, p := range snap.Players {
		pv := PlayerView{
			ID:     p.ID,
			Name:   p.Name,
			Color:  p.Color,
			IsMe:   p.ID == c.myID && c.myID != "",
			IsTurn: i == turn.Index,
			Winner: winners[p.ID],
			Out:    allEliminated(p),
		}

		movable := make(map[int]bool)
		if pv.IsMe {
			for _, s := range c.eval.LegalPieces(p, snap.Players, turn, winners) {
				movable[s] = true
			}
			v.IsMyTurn = pv.IsTurn && !c.finished
			v.CanRoll = !c.finished && c.eval.CanRoll(p, snap.Players, turn, winners)
		}

		for slot := 0; slot < p.Slots(); slot++ {
			loc := board.DecodePiece(p.Pieces[slot], slot)
			pt, ok := c.projector.Project(loc, p.Color, slot)
			if !ok {
				continue
			}
			col, row, _ := c.projector.GridCell(loc, p.Color, slot)
			pc := PieceView{
				Slot:    slot,
				Raw:     p.Pieces[slot],
				Kind:    loc.Kind.String(),
				At:      pt,
				Col:     col,
				Row:     row,
				Home:    loc.Home(),
				Movable: movable[slot] && !c.finished,
				Stack:   game.StackSize(p, slot),
			}
			if timer, ok := p.BombOn(slot); ok {
				t := timer
				pc.Bomb = &t
			}
			pv.Pieces = append(pv.Pieces, pc)
		}
		v.Players = append(v.Players, pv)
	}
	return v
}

func allEliminated(p domain.Player) bool {
	if p.Slots() == 0 {
		return false
	}
	for _, raw := range p.Pieces[:p.Slots()] {
		if raw != board.PosEliminated {
			return false
		}
	}
	return true
}
