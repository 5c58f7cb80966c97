package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/adelie22/Artivora/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// loginResult is the opener's side of the popup channel: a WebSocket
// that yields exactly one {status, message?} frame for the given
// attempt and closes. A close without a frame means the attempt
// expired or the popup was abandoned — the opener treats that as
// failure.
func (h *Handler) loginResult(c *gin.Context) {
	attemptID := c.Query("attempt")
	if attemptID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "attempt is required"})
		return
	}

	// Same-origin is a precondition of the channel, not an option.
	if !ws.SameOrigin(c.Request, h.origin) {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	upgrader := ws.NewUpgrader(h.origin)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	results, cancel := h.relay.Subscribe(attemptID)
	defer cancel()

	// Detect the opener going away so the attempt is released early.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case msg, ok := <-results:
		if ok {
			payload, _ := json.Marshal(msg)
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			_ = conn.WriteMessage(websocket.TextMessage, payload)
		}
	case <-closed:
	}

	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
}
