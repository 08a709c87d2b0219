package handlers

import (
	"net/http"
	"strconv"

	"ludo_client/internal/board"
	"ludo_client/internal/domain"

	"github.com/gin-gonic/gin"
)

// Project is a debugging aid: decode and place one raw position.
// GET /api/board/project?pos=103&color=green&slot=0
func (h *Handler) Project(c *gin.Context) {
	pos, err := strconv.Atoi(c.Query("pos"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pos must be an integer"})
		return
	}
	color := domain.Color(c.DefaultQuery("color", string(domain.ColorGreen)))
	if !color.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown color"})
		return
	}
	slot, err := strconv.Atoi(c.DefaultQuery("slot", "0"))
	if err != nil || slot < 0 || slot >= domain.PiecesPerPlayer {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot must be 0..3"})
		return
	}

	loc := board.DecodePiece(pos, slot)
	resp := gin.H{
		"pos":  pos,
		"kind": loc.Kind.String(),
	}
	switch loc.Kind {
	case board.KindTrack:
		resp["index"] = loc.Index
	case board.KindLane:
		resp["quadrant"] = loc.Quadrant
		resp["step"] = loc.Step
	}
	if pt, ok := h.Projector.Project(loc, color, slot); ok {
		resp["at"] = pt
		if col, row, ok := h.Projector.GridCell(loc, color, slot); ok {
			resp["col"] = col
			resp["row"] = row
		}
	}
	c.JSON(http.StatusOK, resp)
}
