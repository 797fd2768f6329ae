package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"team_chat/internal/domain"
	"team_chat/internal/service"
	"team_chat/pkg/logger"
)

type MessageHandler struct {
	dispatchService service.DispatchService
	log             logger.Logger
}

func NewMessageHandler(dispatchService service.DispatchService, log logger.Logger) *MessageHandler {
	return &MessageHandler{
		dispatchService: dispatchService,
		log:             log,
	}
}

type PublishRoomRequest struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId" binding:"required"`
	TargetRoom string    `json:"targetRoom"`
	Body       string    `json:"body"`
	FileURL    string    `json:"fileUrl"`
	FileName   string    `json:"fileName"`
	Kind       string    `json:"kind"`
	SentAt     time.Time `json:"sentAt"`
}

func (h *MessageHandler) PublishRoom(c *gin.Context) {
	var req PublishRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := &domain.Message{
		ID:         req.ID,
		SenderID:   req.SenderID,
		TargetRoom: req.TargetRoom,
		Body:       req.Body,
		FileURL:    req.FileURL,
		FileName:   req.FileName,
		Kind:       req.Kind,
		SentAt:     req.SentAt,
	}

	published, err := h.dispatchService.PublishRoom(c.Request.Context(), message)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, published)
}

type PublishDirectRequest struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId" binding:"required"`
	TargetUser string    `json:"targetUser" binding:"required"`
	Body       string    `json:"body"`
	FileURL    string    `json:"fileUrl"`
	FileName   string    `json:"fileName"`
	Kind       string    `json:"kind"`
	SentAt     time.Time `json:"sentAt"`
}

func (h *MessageHandler) PublishDirect(c *gin.Context) {
	var req PublishDirectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := &domain.Message{
		ID:         req.ID,
		SenderID:   req.SenderID,
		TargetUser: req.TargetUser,
		Body:       req.Body,
		FileURL:    req.FileURL,
		FileName:   req.FileName,
		Kind:       req.Kind,
		SentAt:     req.SentAt,
	}

	published, err := h.dispatchService.PublishDirect(c.Request.Context(), message)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, published)
}
