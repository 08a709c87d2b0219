package controller

import (
	"encoding/json"

	"ludo_client/internal/audio"
	"ludo_client/internal/overlay"
	"ludo_client/internal/protocol"
)

func (c *Controller) handleGameState(raw json.RawMessage) {
	snap, err := protocol.DecodePayload[protocol.GameStatePayload](raw)
	if err != nil {
		c.log.Warn("bad game_state payload", "error", err)
		return
	}

	// replace, never merge
	c.snap = snap.Clone()
	c.turn.ApplySnapshot(snap.TurnIndex, snap.Dice)

	finished := c.snap.IsFinished()
	c.turn.SetFinished(finished)
	if finished && !c.finished {
		c.audio.Play(audio.CueWin)
	}
	c.finished = finished
}

func (c *Controller) handleDiceRolled(raw json.RawMessage) {
	p, err := protocol.DecodePayload[protocol.DiceRolledPayload](raw)
	if err != nil {
		c.log.Warn("bad diceRolled payload", "error", err)
		return
	}
	c.turn.DiceRolled(p.Value)
	c.audio.Play(audio.CueDice)
}

func (c *Controller) handlePieceMoved(json.RawMessage) {
	c.turn.PieceMoved()
	c.audio.Play(audio.CueMove)
}

func (c *Controller) handleKill(raw json.RawMessage) {
	p, err := protocol.DecodePayload[protocol.KillPayload](raw)
	if err != nil {
		c.log.Warn("bad killEvent payload", "error", err)
		return
	}
	c.overlays.Push(overlay.Kill(p.Killer, p.Victim))
	c.audio.Play(audio.CueKill)
}

func (c *Controller) handlePowerUp(raw json.RawMessage) {
	p, err := protocol.DecodePayload[protocol.PowerUpActivatedPayload](raw)
	if err != nil {
		c.log.Warn("bad powerUpActivated payload", "error", err)
		return
	}
	c.overlays.Push(overlay.PowerUp(p.Player, p.Effect.Msg))
	c.audio.Play(audio.CuePowerUp)
}

func (c *Controller) handleExplosion(raw json.RawMessage) {
	p, err := protocol.DecodePayload[protocol.ExplosionPayload](raw)
	if err != nil {
		c.log.Warn("bad explosion payload", "error", err)
		return
	}
	c.overlays.Push(overlay.Explosion(p.Pos))
	c.overlays.Push(overlay.Shake())
	c.audio.Play(audio.CueExplosion)
}

func (c *Controller) handleTurnChanged(raw json.RawMessage) {
	p, err := protocol.DecodePayload[protocol.TurnChangedPayload](raw)
	if err != nil {
		c.log.Warn("bad turnChanged payload", "error", err)
		return
	}
	c.turn.TurnChanged(p.TurnIndex)
}

func (c *Controller) handleMessage(raw json.RawMessage) {
	c.pushMessage(protocol.DecodeText(raw))
}

func (c *Controller) handleError(raw json.RawMessage) {
	msg := protocol.DecodeText(raw)
	c.log.Warn("authority error", "message", msg)
	c.pushMessage(msg)
}

// errorJoining - the authority refused the seat. The view stays usable and
// the next connect announces the seat again.
func (c *Controller) handleErrorJoining(raw json.RawMessage) {
	msg := protocol.DecodeText(raw)
	c.log.Warn("join rejected", "room", c.roomID, "message", msg)
	c.pushMessage(msg)
	c.alert = msg
	if c.alerter != nil {
		c.alerter.Alert(msg)
	}
}
