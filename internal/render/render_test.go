package render

import (
	"strings"
	"testing"

	"ludo_client/internal/board"
	"ludo_client/internal/controller"
	"ludo_client/internal/domain"
	"ludo_client/internal/game"
	"ludo_client/internal/overlay"
)

func TestBoardLayers(t *testing.T) {
	p := board.NewProjector(0)
	dice := 6
	v := controller.View{
		RoomID: "AB12C",
		MyID:   "P1",
		Name:   "ana",
		Turn:   game.TurnState{Index: 0, Dice: &dice, Remaining: 9, Phase: game.PhaseRollReceived},
		Players: []controller.PlayerView{{
			ID: "P1", Name: "ana", Color: domain.ColorGreen, IsMe: true, IsTurn: true,
			Pieces: []controller.PieceView{
				{Slot: 0, Col: 2, Row: 6, Movable: true, Stack: 1},
				{Slot: 1, Col: 4, Row: 6, Stack: 2},
			},
		}},
		PowerUps: []controller.PowerUpView{{Pos: 0, Type: "shield"}},
		Overlays: []controller.OverlayView{{Event: overlay.Event{Kind: overlay.KindExplosion, Pos: 4}}},
		IsMyTurn: true,
	}

	g := Board(v, p)
	// track 0 is cell (1,6): power-up
	if g[6][1].Ch != '*' {
		t.Fatalf("power-up cell = %q", g[6][1].Ch)
	}
	if g[6][2].Ch != 'G' || !g[6][2].Movable {
		t.Fatalf("movable piece = %+v", g[6][2])
	}
	if g[6][4].Ch != '2' {
		t.Fatalf("stack = %q", g[6][4].Ch)
	}
	// track 4 is (5,6): explosion
	if g[6][5].Ch != '!' {
		t.Fatalf("explosion = %q", g[6][5].Ch)
	}
	// green home cell
	if g[7][6].Ch != '#' || g[7][6].Color != domain.ColorGreen {
		t.Fatalf("home = %+v", g[7][6])
	}
	// yard corner stays blank
	if g[1][1].Ch != ' ' {
		t.Fatalf("blank = %q", g[1][1].Ch)
	}

	text := Text(v, p)
	for _, want := range []string{"room AB12C", "dice 6", "time 9", "move one of [0]", "> green  ana *"} {
		if !strings.Contains(text, want) {
			t.Fatalf("text missing %q:\n%s", want, text)
		}
	}
}

func TestStatusGameOver(t *testing.T) {
	v := controller.View{Finished: true, Winners: []string{"P2", "P1"}, Alert: "room is full"}
	lines := strings.Join(Status(v), "\n")
	if !strings.Contains(lines, "winners: P2, P1") || !strings.Contains(lines, "! room is full") {
		t.Fatalf("status:\n%s", lines)
	}
}
