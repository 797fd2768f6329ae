package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"team_chat/internal/service"
	"team_chat/pkg/logger"
)

type HistoryHandler struct {
	historyService service.HistoryService
	log            logger.Logger
}

func NewHistoryHandler(historyService service.HistoryService, log logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		log:            log,
	}
}

// Room отдаёт историю комнаты. asOfUser задаёт зону отображаемых
// меток времени; на состав выборки не влияет.
func (h *HistoryHandler) Room(c *gin.Context) {
	roomID := strings.TrimSpace(c.Query("target"))
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target room is required"})
		return
	}

	messages, err := h.historyService.RoomHistory(c.Request.Context(), roomID, c.Query("asOfUser"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// Direct отдаёт переписку двух пользователей в обе стороны
func (h *HistoryHandler) Direct(c *gin.Context) {
	userA := strings.TrimSpace(c.Query("user1"))
	userB := strings.TrimSpace(c.Query("user2"))
	if userA == "" || userB == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "both user1 and user2 are required"})
		return
	}

	messages, err := h.historyService.DirectHistory(c.Request.Context(), userA, userB)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *HistoryHandler) Unread(c *gin.Context) {
	recipientID := strings.TrimSpace(c.Query("recipientId"))
	if recipientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipientId is required"})
		return
	}

	messages, err := h.historyService.Unread(c.Request.Context(), recipientID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *HistoryHandler) MarkRead(c *gin.Context) {
	recipientID := strings.TrimSpace(c.Query("recipientId"))
	if recipientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipientId is required"})
		return
	}

	if err := h.historyService.MarkRead(c.Request.Context(), recipientID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
