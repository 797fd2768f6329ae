package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"team_chat/internal/service"
	"team_chat/pkg/logger"
)

type PresenceHandler struct {
	presence service.PresenceTracker
	log      logger.Logger
}

func NewPresenceHandler(presence service.PresenceTracker, log logger.Logger) *PresenceHandler {
	return &PresenceHandler{
		presence: presence,
		log:      log,
	}
}

// Update фиксирует, какую комнату пользователь сейчас смотрит.
// Пустой roomId означает "нигде": такой пользователь получает
// уведомления по всем комнатам.
func (h *PresenceHandler) Update(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	roomID := strings.TrimSpace(c.Query("roomId"))
	if roomID == "" {
		h.presence.Clear(userID)
	} else {
		h.presence.SetCurrentRoom(userID, roomID)
	}

	c.JSON(http.StatusOK, gin.H{"userId": userID, "currentRoomId": roomID})
}
