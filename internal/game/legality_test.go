package game

import (
	"reflect"
	"testing"

	"ludo_client/internal/domain"
)

func dice(v int) *int { return &v }

func twoPlayers() []domain.Player {
	return []domain.Player{
		{ID: "P1", Name: "ana", Color: domain.ColorGreen, Pieces: []int{-1, -1, 12, 103}},
		{ID: "P2", Name: "bob", Color: domain.ColorYellow, Pieces: []int{-1, -1, -1, -1}},
	}
}

func TestLegalPieces(t *testing.T) {
	players := twoPlayers()
	six := NewEvaluator(6)
	relaxed := NewEvaluator(6, 1)

	cases := []struct {
		name     string
		eval     *Evaluator
		player   domain.Player
		turn     TurnState
		finished map[string]bool
		want     []int
	}{
		{"no roll yet", six, players[0], TurnState{Index: 0}, nil, nil},
		{"not turn holder", six, players[1], TurnState{Index: 0, Dice: dice(6)}, nil, nil},
		{"winner cannot act", six, players[0], TurnState{Index: 0, Dice: dice(6)}, map[string]bool{"P1": true}, nil},
		{"six frees the yard", six, players[0], TurnState{Index: 0, Dice: dice(6)}, nil, []int{0, 1, 2, 3}},
		{"three moves board pieces only", six, players[0], TurnState{Index: 0, Dice: dice(3)}, nil, []int{2, 3}},
		{"one is not an exit by default", six, players[0], TurnState{Index: 0, Dice: dice(1)}, nil, []int{2, 3}},
		{"one is an exit when relaxed", relaxed, players[0], TurnState{Index: 0, Dice: dice(1)}, nil, []int{0, 1, 2, 3}},
		{"turn index out of range", six, players[0], TurnState{Index: 7, Dice: dice(6)}, nil, nil},
		{"zero dice counts as not rolled", six, players[0], TurnState{Index: 0, Dice: dice(0)}, nil, nil},
	}

	for _, tc := range cases {
		got := tc.eval.LegalPieces(tc.player, players, tc.turn, tc.finished)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: LegalPieces = %v; want %v", tc.name, got, tc.want)
		}
	}
}

func TestEliminatedAndUnknownNeverLegal(t *testing.T) {
	p := domain.Player{ID: "P1", Color: domain.ColorRed, Pieces: []int{-99, 52, 106, 5}}
	got := NewEvaluator(6).LegalPieces(p, []domain.Player{p}, TurnState{Index: 0, Dice: dice(6)}, nil)
	if !reflect.DeepEqual(got, []int{3}) {
		t.Fatalf("LegalPieces = %v; want [3]", got)
	}
}

func TestCanRoll(t *testing.T) {
	players := twoPlayers()
	e := NewEvaluator()
	if !e.CanRoll(players[0], players, TurnState{Index: 0}, nil) {
		t.Fatal("turn holder without dice should roll")
	}
	if e.CanRoll(players[0], players, TurnState{Index: 0, Dice: dice(4)}, nil) {
		t.Fatal("cannot roll twice")
	}
	if e.CanRoll(players[1], players, TurnState{Index: 0}, nil) {
		t.Fatal("only the turn holder rolls")
	}
	if e.CanRoll(players[0], players, TurnState{Index: 0}, map[string]bool{"P1": true}) {
		t.Fatal("winners do not roll")
	}
}

func TestStacking(t *testing.T) {
	p := domain.Player{ID: "P1", Pieces: []int{-1, 20, -1, 20}}
	if got := Representative(p, 3); got != 1 {
		t.Fatalf("Representative(3) = %d; want 1", got)
	}
	if got := Representative(p, 1); got != 1 {
		t.Fatalf("Representative(1) = %d; want 1", got)
	}
	if got := Representative(p, 2); got != 2 {
		t.Fatalf("yard pieces do not stack: got %d", got)
	}
	if StackSize(p, 3) != 2 || StackSize(p, 0) != 1 || StackSize(p, 9) != 0 {
		t.Fatal("StackSize mismatch")
	}

	lane := domain.Player{ID: "P1", Pieces: []int{104, 104, 104, 0}}
	if got := Representative(lane, 2); got != 0 {
		t.Fatalf("lane stack representative = %d; want 0", got)
	}
}

func TestExitValues(t *testing.T) {
	if got := NewEvaluator().ExitValues(); !reflect.DeepEqual(got, []int{6}) {
		t.Fatalf("default exit values = %v", got)
	}
	if got := NewEvaluator(6, 1).ExitValues(); !reflect.DeepEqual(got, []int{1, 6}) {
		t.Fatalf("relaxed exit values = %v", got)
	}
}
