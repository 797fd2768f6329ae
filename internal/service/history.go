package service

import (
	"context"

	"team_chat/internal/domain"
	"team_chat/internal/repository"
	"team_chat/pkg/logger"
)

// HistoryService отдаёт сохранённые сообщения. Третий путь доставки
// наряду с live push и персональной очередью; клиент склеивает их сам.
type HistoryService interface {
	// RoomHistory возвращает сообщения комнаты по времени. asOfUser
	// влияет только на отображаемую метку времени, не на состав.
	RoomHistory(ctx context.Context, roomID, asOfUser string) ([]*domain.Message, error)
	DirectHistory(ctx context.Context, userA, userB string) ([]*domain.Message, error)
	Unread(ctx context.Context, recipientID string) ([]*domain.Message, error)
	MarkRead(ctx context.Context, recipientID string) error
}

type historyService struct {
	messageRepo repository.MessageRepository
	dmRepo      repository.DirectMessageRepository
	userRepo    repository.UserRepository
	timezone    TimezoneService
	log         logger.Logger
}

func NewHistoryService(repos *repository.Repositories, timezone TimezoneService, log logger.Logger) HistoryService {
	return &historyService{
		messageRepo: repos.Message,
		dmRepo:      repos.DirectMessage,
		userRepo:    repos.User,
		timezone:    timezone,
		log:         log,
	}
}

func (s *historyService) RoomHistory(ctx context.Context, roomID, asOfUser string) ([]*domain.Message, error) {
	messages, err := s.messageRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	s.applyDisplayTimezone(ctx, messages, asOfUser)
	return messages, nil
}

func (s *historyService) DirectHistory(ctx context.Context, userA, userB string) ([]*domain.Message, error) {
	messages, err := s.dmRepo.ListConversation(ctx, userA, userB)
	if err != nil {
		return nil, err
	}

	s.applyDisplayTimezone(ctx, messages, userA)
	return messages, nil
}

func (s *historyService) Unread(ctx context.Context, recipientID string) ([]*domain.Message, error) {
	messages, err := s.dmRepo.ListUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	s.applyDisplayTimezone(ctx, messages, recipientID)
	return messages, nil
}

func (s *historyService) MarkRead(ctx context.Context, recipientID string) error {
	return s.dmRepo.MarkAllRead(ctx, recipientID)
}

// applyDisplayTimezone проставляет sentAtLocal в зоне пользователя.
// Неизвестный пользователь или зона не ломают запрос - остаётся UTC.
func (s *historyService) applyDisplayTimezone(ctx context.Context, messages []*domain.Message, userID string) {
	tz := "UTC"
	if userID != "" {
		if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
			tz = user.Timezone
		}
	}

	for _, m := range messages {
		m.SentAtLocal = s.timezone.Format(m.SentAt, tz)
	}
}
