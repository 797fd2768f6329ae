package service

import (
	"team_chat/internal/config"
	"team_chat/internal/hub"
	"team_chat/internal/repository"
	"team_chat/pkg/logger"
)

type Services struct {
	Auth     AuthService
	User     UserService
	Dispatch DispatchService
	Queue    QueueService
	History  HistoryService
	Presence PresenceTracker
	Timezone TimezoneService
}

func NewServices(repos *repository.Repositories, broadcaster hub.Broadcaster, cfg *config.Config, log logger.Logger) *Services {
	presence := NewPresenceTracker()
	timezone := NewTimezoneService(log)

	return &Services{
		Auth:     NewAuthService(repos.User, cfg.JWT, log),
		User:     NewUserService(repos.User, log),
		Dispatch: NewDispatchService(repos, broadcaster, presence, cfg.Chat, log),
		Queue:    NewQueueService(repos.Queue, log),
		History:  NewHistoryService(repos, timezone, log),
		Presence: presence,
		Timezone: timezone,
	}
}
