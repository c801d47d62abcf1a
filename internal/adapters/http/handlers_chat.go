package http

import (
	"net/http"

	"github.com/dkeye/Parley/internal/app/orch"
	"github.com/dkeye/Parley/internal/domain"
	"github.com/gin-gonic/gin"
)

type chatHandlers struct {
	orch *orch.Orchestrator
}

// GET /api/messages/:room
func (h *chatHandlers) history(c *gin.Context) {
	msgs, err := h.orch.Store.ListByRoom(c.Request.Context(), domain.RoomKey(c.Param("room")))
	if err != nil {
		writeError(c, err)
		return
	}
	if msgs == nil {
		msgs = []*domain.Message{}
	}
	c.JSON(http.StatusOK, msgs)
}

// GET /api/rooms
func (h *chatHandlers) rooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.orch.Rooms.List()})
}

// GET /api/online
func (h *chatHandlers) online(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.orch.OnlineUsers()})
}

// GET /api/rooms/peer/:other
func (h *chatHandlers) peerRoom(c *gin.Context) {
	me := domain.UserID(c.GetString(ctxUserID))
	other := domain.UserID(c.Param("other"))
	if other == me {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open a room with yourself"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": domain.PeerRoom(me, other)})
}
