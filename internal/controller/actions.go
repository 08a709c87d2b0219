package controller

import (
	"context"
	"errors"

	"ludo_client/internal/game"
	"ludo_client/internal/metrics"
	"ludo_client/internal/protocol"
)

// Local precondition errors. Nothing is sent to the authority when one of
// these comes back.
var (
	ErrNotOwner      = errors.New("piece belongs to another player")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrIllegalPiece  = errors.New("piece cannot move with this roll")
	ErrAlreadyRolled = errors.New("dice already rolled")
	ErrNoSeat        = errors.New("no seat in this room")
	ErrClosed        = errors.New("controller closed")
)

func reject(reason string, err error) error {
	metrics.ActionsRejected.WithLabelValues(reason).Inc()
	return err
}

// RollDice asks the authority for a roll.
func (c *Controller) RollDice(ctx context.Context) error {
	var err error
	if cerr := c.call(ctx, func() { err = c.rollDice() }); cerr != nil {
		return cerr
	}
	return err
}

func (c *Controller) rollDice() error {
	if c.closed {
		return ErrClosed
	}
	me, ok := c.snap.FindPlayer(c.myID)
	if !ok {
		return reject("no_seat", ErrNoSeat)
	}
	turn := c.turn.State()
	if !game.IsTurnHolder(me.ID, c.snap.Players, turn.Index) || c.finished || c.snap.WinnerSet()[me.ID] {
		return reject("not_your_turn", ErrNotYourTurn)
	}
	if turn.Dice != nil {
		return reject("already_rolled", ErrAlreadyRolled)
	}
	return c.emit(protocol.ReqRollDice, protocol.RoomPayload{RoomID: c.roomID})
}

// MovePiece asks the authority to move the piece in slot. A click on a stack
// moves the stack's lowest slot.
func (c *Controller) MovePiece(ctx context.Context, playerID string, slot int) error {
	var err error
	if cerr := c.call(ctx, func() { err = c.movePiece(playerID, slot) }); cerr != nil {
		return cerr
	}
	return err
}

func (c *Controller) movePiece(playerID string, slot int) error {
	if c.closed {
		return ErrClosed
	}
	if playerID == "" || playerID != c.myID {
		return reject("not_owner", ErrNotOwner)
	}
	me, ok := c.snap.FindPlayer(c.myID)
	if !ok {
		return reject("no_seat", ErrNoSeat)
	}
	if _, ok := me.Piece(slot); !ok {
		return reject("illegal_piece", ErrIllegalPiece)
	}
	turn := c.turn.State()
	if !game.IsTurnHolder(me.ID, c.snap.Players, turn.Index) || c.finished {
		return reject("not_your_turn", ErrNotYourTurn)
	}

	rep := game.Representative(me, slot)
	if !c.eval.IsLegal(rep, me, c.snap.Players, turn, c.snap.WinnerSet()) {
		return reject("illegal_piece", ErrIllegalPiece)
	}
	return c.emit(protocol.ReqMovePiece, protocol.MovePiecePayload{
		RoomID:     c.roomID,
		PlayerID:   me.ID,
		PieceIndex: rep,
	})
}

// Surrender gives up the seat; the authority marks every piece eliminated.
func (c *Controller) Surrender(ctx context.Context) error {
	var err error
	if cerr := c.call(ctx, func() {
		if c.closed {
			err = ErrClosed
			return
		}
		if c.myID == "" {
			err = reject("no_seat", ErrNoSeat)
			return
		}
		err = c.emit(protocol.ReqSurrender, protocol.RoomPayload{RoomID: c.roomID})
	}); cerr != nil {
		return cerr
	}
	return err
}

// Rejoin announces the seat again, e.g. after a join rejection was fixed.
func (c *Controller) Rejoin(ctx context.Context) error {
	var err error
	if cerr := c.call(ctx, func() {
		if c.closed {
			err = ErrClosed
			return
		}
		if c.name == "" {
			err = ErrNoSeat
			return
		}
		c.alert = ""
		err = c.emit(protocol.ReqJoinRoom, protocol.JoinRoomPayload{RoomID: c.roomID, PlayerName: c.name})
		c.changed()
	}); cerr != nil {
		return cerr
	}
	return err
}

// DismissAlert clears the blocking alert.
func (c *Controller) DismissAlert(ctx context.Context) error {
	return c.call(ctx, func() {
		c.alert = ""
		c.changed()
	})
}

// View returns the current read model, computed on the owner goroutine.
func (c *Controller) View(ctx context.Context) (View, error) {
	var v View
	err := c.call(ctx, func() { v = c.buildView() })
	return v, err
}
