package game

import (
	"sort"

	"ludo_client/internal/board"
	"ludo_client/internal/domain"
)

// DefaultExitValues - a six takes a piece out of the yard. Some rule variants
// also accept a one; the authority has the final word either way.
var DefaultExitValues = []int{6}

// Evaluator decides which pieces the UI offers for a click. It is a hint:
// the authority validates every move again.
type Evaluator struct {
	exit map[int]bool
}

func NewEvaluator(exitValues ...int) *Evaluator {
	if len(exitValues) == 0 {
		exitValues = DefaultExitValues
	}
	exit := make(map[int]bool, len(exitValues))
	for _, v := range exitValues {
		exit[v] = true
	}
	return &Evaluator{exit: exit}
}

// ExitValues returns the configured yard-exit dice values, sorted.
func (e *Evaluator) ExitValues() []int {
	out := make([]int, 0, len(e.exit))
	for v := range e.exit {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func (e *Evaluator) IsExit(dice int) bool { return e.exit[dice] }

// LegalPieces returns the slots of player that can be clicked right now.
// finished holds the ids of players already in the winners list.
func (e *Evaluator) LegalPieces(player domain.Player, players []domain.Player, turn TurnState, finished map[string]bool) []int {
	if !IsTurnHolder(player.ID, players, turn.Index) {
		return nil
	}
	if !turn.Rolled() {
		return nil
	}
	if finished[player.ID] {
		return nil
	}

	dice := *turn.Dice
	var out []int
	for slot := 0; slot < player.Slots(); slot++ {
		loc := board.DecodePiece(player.Pieces[slot], slot)
		switch loc.Kind {
		case board.KindYard:
			if e.IsExit(dice) {
				out = append(out, slot)
			}
		case board.KindTrack, board.KindLane:
			out = append(out, slot)
		}
	}
	return out
}

// IsLegal reports whether slot is among LegalPieces.
func (e *Evaluator) IsLegal(slot int, player domain.Player, players []domain.Player, turn TurnState, finished map[string]bool) bool {
	for _, s := range e.LegalPieces(player, players, turn, finished) {
		if s == slot {
			return true
		}
	}
	return false
}

// CanRoll - the turn holder has not rolled yet and is still racing.
func (e *Evaluator) CanRoll(player domain.Player, players []domain.Player, turn TurnState, finished map[string]bool) bool {
	return IsTurnHolder(player.ID, players, turn.Index) && turn.Dice == nil && !finished[player.ID]
}

// IsTurnHolder reports whether id sits at the turn index.
func IsTurnHolder(id string, players []domain.Player, turnIndex int) bool {
	if id == "" || turnIndex < 0 || turnIndex >= len(players) {
		return false
	}
	return players[turnIndex].ID == id
}

// Representative returns the slot a click on slot actually moves: pieces of
// one player stacked on the same board cell move as one unit, led by the
// lowest slot. Yard pieces never stack.
func Representative(player domain.Player, slot int) int {
	raw, ok := player.Piece(slot)
	if !ok || !board.Decode(raw).OnBoard() {
		return slot
	}
	for i := 0; i < slot; i++ {
		if player.Pieces[i] == raw {
			return i
		}
	}
	return slot
}

// StackSize counts the player's pieces sharing slot's board cell.
func StackSize(player domain.Player, slot int) int {
	raw, ok := player.Piece(slot)
	if !ok {
		return 0
	}
	if !board.Decode(raw).OnBoard() {
		return 1
	}
	n := 0
	for i := 0; i < player.Slots(); i++ {
		if player.Pieces[i] == raw {
			n++
		}
	}
	return n
}
