package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"team_chat/internal/config"
	"team_chat/internal/hub"
	"team_chat/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшене нужно проверять origin
	},
}

type WebSocketHandler struct {
	hub     *hub.Hub
	chatCfg config.ChatConfig
	log     logger.Logger
}

func NewWebSocketHandler(h *hub.Hub, chatCfg config.ChatConfig, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:     h,
		chatCfg: chatCfg,
		log:     log,
	}
}

// HandleRoom подписывает соединение на live-поток комнаты
func (h *WebSocketHandler) HandleRoom(c *gin.Context) {
	roomID := strings.TrimSpace(c.Param("id"))
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room id is required"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	h.hub.Attach(ws, roomID, "", h.chatCfg.SendBufferSize)
}

// HandleUser подписывает соединение на персональный поток пользователя:
// личные сообщения и уведомления
func (h *WebSocketHandler) HandleUser(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user id is required"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	h.hub.Attach(ws, "", userID, h.chatCfg.SendBufferSize)
}
