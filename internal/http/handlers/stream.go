package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const keepAlive = 25 * time.Second

// StreamView pushes a "view" event for every state change over SSE.
func (h *Handler) StreamView(c *gin.Context) {
	if h.Stream == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stream disabled"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	sub, replayed := h.Stream.SubscribeReplay()
	defer h.Stream.Unsubscribe(sub)

	// nothing published yet: build the first frame so a fresh tab is never blank
	if !replayed {
		if v, err := h.Game.View(c.Request.Context()); err == nil {
			if b, err := json.Marshal(v); err == nil {
				c.SSEvent("view", string(b))
				c.Writer.Flush()
			}
		}
	}

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case frame, ok := <-sub:
			if !ok {
				return false
			}
			c.SSEvent("view", string(frame))
			return true
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			return true
		}
	})
}
