package handler

import (
	"team_chat/internal/config"
	"team_chat/internal/hub"
	"team_chat/internal/repository"
	"team_chat/internal/service"
	"team_chat/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	User      *UserHandler
	Room      *RoomHandler
	Message   *MessageHandler
	Queue     *QueueHandler
	History   *HistoryHandler
	Presence  *PresenceHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(services *service.Services, repos *repository.Repositories, h *hub.Hub, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(),
		Auth:      NewAuthHandler(services.Auth, log),
		User:      NewUserHandler(services.User, log),
		Room:      NewRoomHandler(repos.Room, log),
		Message:   NewMessageHandler(services.Dispatch, log),
		Queue:     NewQueueHandler(services.Queue, log),
		History:   NewHistoryHandler(services.History, log),
		Presence:  NewPresenceHandler(services.Presence, log),
		WebSocket: NewWebSocketHandler(h, cfg.Chat, log),
	}
}
