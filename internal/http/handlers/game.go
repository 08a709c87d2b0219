package handlers

import (
	"errors"
	"net/http"

	"ludo_client/internal/controller"
	"ludo_client/internal/sched"
	"ludo_client/internal/ws"

	"github.com/gin-gonic/gin"
)

// View returns the current read model.
func (h *Handler) View(c *gin.Context) {
	v, err := h.Game.View(c.Request.Context())
	if err != nil {
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) Roll(c *gin.Context) {
	if err := h.Game.RollDice(c.Request.Context()); err != nil {
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
}

type moveRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
	Slot     *int   `json:"slot" binding:"required"`
}

func (h *Handler) Move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "playerId and slot are required"})
		return
	}
	if err := h.Game.MovePiece(c.Request.Context(), req.PlayerID, *req.Slot); err != nil {
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
}

func (h *Handler) Surrender(c *gin.Context) {
	if err := h.Game.Surrender(c.Request.Context()); err != nil {
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
}

func (h *Handler) Rejoin(c *gin.Context) {
	if err := h.Game.Rejoin(c.Request.Context()); err != nil {
		writeActionError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
}

func (h *Handler) DismissAlert(c *gin.Context) {
	if err := h.Game.DismissAlert(c.Request.Context()); err != nil {
		writeActionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DrainCues returns the sound cues recorded since the last call.
func (h *Handler) DrainCues(c *gin.Context) {
	if h.Cues == nil {
		c.JSON(http.StatusOK, gin.H{"cues": []string{}})
		return
	}
	cues := h.Cues.Drain()
	out := make([]string, 0, len(cues))
	for _, cue := range cues {
		out = append(out, string(cue))
	}
	c.JSON(http.StatusOK, gin.H{"cues": out})
}

func writeActionError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal"
	switch {
	case errors.Is(err, controller.ErrNotOwner):
		status, code = http.StatusForbidden, "not_owner"
	case errors.Is(err, controller.ErrNotYourTurn):
		status, code = http.StatusConflict, "not_your_turn"
	case errors.Is(err, controller.ErrIllegalPiece):
		status, code = http.StatusConflict, "illegal_piece"
	case errors.Is(err, controller.ErrAlreadyRolled):
		status, code = http.StatusConflict, "already_rolled"
	case errors.Is(err, controller.ErrNoSeat):
		status, code = http.StatusConflict, "no_seat"
	case errors.Is(err, ws.ErrThrottled):
		status, code = http.StatusTooManyRequests, "throttled"
	case errors.Is(err, ws.ErrNotConnected):
		status, code = http.StatusServiceUnavailable, "offline"
	case errors.Is(err, controller.ErrClosed), errors.Is(err, ws.ErrClosed), errors.Is(err, sched.ErrLoopStopped):
		status, code = http.StatusServiceUnavailable, "closed"
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
