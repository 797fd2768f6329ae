package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"team_chat/internal/domain"
	"team_chat/internal/service"
	"team_chat/pkg/logger"
)

type QueueHandler struct {
	queueService service.QueueService
	log          logger.Logger
}

func NewQueueHandler(queueService service.QueueService, log logger.Logger) *QueueHandler {
	return &QueueHandler{
		queueService: queueService,
		log:          log,
	}
}

// Drain - деструктивное чтение: возвращает всё содержимое очереди
// получателя и очищает её. Отсутствующая очередь - это 200 и [],
// никогда не ошибка.
func (h *QueueHandler) Drain(c *gin.Context) {
	recipientID := strings.TrimSpace(c.Query("recipientId"))
	if recipientID == "" {
		c.JSON(http.StatusOK, []*domain.QueuedItem{})
		return
	}

	items, err := h.queueService.Drain(c.Request.Context(), recipientID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, items)
}
