package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"team_chat/internal/config"
	"team_chat/internal/domain"
	"team_chat/internal/hub"
	"team_chat/internal/metrics"
	"team_chat/internal/repository"
	pkgerrors "team_chat/pkg/errors"
	"team_chat/pkg/logger"
)

// DispatchService - оркестратор доставки. На каждый publish:
// сохранение в историю (обязательное), live-рассылка (best-effort)
// и персональные очереди для тех, кто сообщение иначе пропустит.
type DispatchService interface {
	PublishRoom(ctx context.Context, message *domain.Message) (*domain.Message, error)
	PublishDirect(ctx context.Context, message *domain.Message) (*domain.Message, error)
}

type dispatchService struct {
	messageRepo repository.MessageRepository
	dmRepo      repository.DirectMessageRepository
	userRepo    repository.UserRepository
	roomRepo    repository.RoomRepository
	queue       repository.QueueStore
	broadcaster hub.Broadcaster
	presence    PresenceTracker
	chatCfg     config.ChatConfig
	log         logger.Logger
}

func NewDispatchService(
	repos *repository.Repositories,
	broadcaster hub.Broadcaster,
	presence PresenceTracker,
	chatCfg config.ChatConfig,
	log logger.Logger,
) DispatchService {
	return &dispatchService{
		messageRepo: repos.Message,
		dmRepo:      repos.DirectMessage,
		userRepo:    repos.User,
		roomRepo:    repos.Room,
		queue:       repos.Queue,
		broadcaster: broadcaster,
		presence:    presence,
		chatCfg:     chatCfg,
		log:         log,
	}
}

func (s *dispatchService) PublishRoom(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := validateMessage(message); err != nil {
		return nil, err
	}

	roomID, err := s.resolveRoom(ctx, message.TargetRoom)
	if err != nil {
		return nil, err
	}
	message.TargetRoom = roomID
	message.TargetUser = ""

	s.stamp(message)

	// История - гарантия доставки: без неё publish неуспешен
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}
	metrics.MessagesPublished.WithLabelValues("room").Inc()

	// Публикация в комнату делает отправителя её участником: дальше он
	// получает уведомления о чужих сообщениях в ней
	if err := s.roomRepo.AddMember(ctx, roomID, message.SenderID); err != nil {
		s.log.Warn("Failed to record room membership", "error", err, "room_id", roomID, "sender_id", message.SenderID)
	}

	// Live-рассылка - только оптимизация задержки, ошибки глотаем
	if err := s.broadcaster.BroadcastRoom(roomID, domain.EventMessage, message); err != nil {
		s.log.Warn("Live broadcast failed, delivery falls back to queue/history",
			"error", err, "room_id", roomID)
	}

	s.notifyAbsentMembers(ctx, message, roomID)

	return message, nil
}

// notifyAbsentMembers кладёт уведомление (не само сообщение) в очередь
// каждого участника комнаты, который сейчас смотрит другую комнату или
// вовсе не отмечался в presence
func (s *dispatchService) notifyAbsentMembers(ctx context.Context, message *domain.Message, roomID string) {
	memberIDs, err := s.roomRepo.GetMemberIDs(ctx, roomID)
	if err != nil {
		s.log.Warn("Failed to resolve room members for notifications", "error", err, "room_id", roomID)
		return
	}

	absent := lo.Filter(memberIDs, func(memberID string, _ int) bool {
		return s.presence.CurrentRoom(memberID) != roomID
	})

	notification := domain.NewNotification(message, domain.NotificationNewMessage, roomID)
	for _, memberID := range absent {
		s.enqueue(ctx, memberID, &domain.QueuedItem{Notification: notification, EnqueuedAt: time.Now().UTC()})

		if err := s.broadcaster.SendToUser(memberID, domain.EventNotification, notification); err != nil {
			s.log.Debug("Live notification push failed", "error", err, "user_id", memberID)
		}
		metrics.NotificationsRouted.WithLabelValues(domain.NotificationNewMessage).Inc()
	}
}

func (s *dispatchService) PublishDirect(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := validateMessage(message); err != nil {
		return nil, err
	}
	if message.TargetUser == "" {
		return nil, fmt.Errorf("%w: direct message requires a target user", pkgerrors.ErrValidation)
	}
	message.TargetRoom = ""

	// Неизвестный получатель: доставка по этой цели отбрасывается,
	// для отправителя это не фатально
	if _, err := s.userRepo.GetByID(ctx, message.TargetUser); err != nil {
		s.log.Warn("Direct message dropped: unknown recipient",
			"recipient_id", message.TargetUser, "sender_id", message.SenderID)
		return message, nil
	}

	s.stamp(message)

	// Личное сообщение сохраняется непрочитанным
	if err := s.dmRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to persist direct message: %w", err)
	}
	metrics.MessagesPublished.WithLabelValues("direct").Inc()

	// Личные сообщения всегда попадают в durable-очередь получателя,
	// даже если он прямо сейчас online: live push мог быть пропущен
	s.enqueue(ctx, message.TargetUser, &domain.QueuedItem{Message: message, EnqueuedAt: time.Now().UTC()})

	for _, userID := range []string{message.TargetUser, message.SenderID} {
		if err := s.broadcaster.SendToUser(userID, domain.EventMessage, message); err != nil {
			s.log.Debug("Live direct push failed", "error", err, "user_id", userID)
		}
	}

	notification := domain.NewNotification(message, domain.NotificationPrivateMessage, "")
	if err := s.broadcaster.SendToUser(message.TargetUser, domain.EventNotification, notification); err != nil {
		s.log.Debug("Live notification push failed", "error", err, "user_id", message.TargetUser)
	}
	metrics.NotificationsRouted.WithLabelValues(domain.NotificationPrivateMessage).Inc()

	return message, nil
}

// resolveRoom проверяет целевую комнату; битый или неизвестный id
// сознательно перенаправляется в комнату по умолчанию (см. DESIGN.md),
// но с Warn в логе, чтобы ошибки клиентов были видны
func (s *dispatchService) resolveRoom(ctx context.Context, roomID string) (string, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID != "" {
		exists, err := s.roomRepo.Exists(ctx, roomID)
		if err != nil {
			return "", err
		}
		if exists {
			return roomID, nil
		}
	}

	s.log.Warn("Malformed or unknown room target, rerouting to default room",
		"target_room", roomID, "default_room", s.chatCfg.DefaultRoomID)
	return s.chatCfg.DefaultRoomID, nil
}

func (s *dispatchService) stamp(message *domain.Message) {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC()
	} else {
		message.SentAt = message.SentAt.UTC()
	}
	if message.Kind == "" {
		message.Kind = domain.KindText
	}
}

func (s *dispatchService) enqueue(ctx context.Context, recipientID string, item *domain.QueuedItem) {
	depth, err := s.queue.Enqueue(ctx, recipientID, item)
	if err != nil {
		s.log.Error("Failed to enqueue item", "error", err, "recipient_id", recipientID)
		return
	}
	metrics.QueueEnqueues.Inc()
	metrics.QueueDepth.Observe(float64(depth))
}

func validateMessage(message *domain.Message) error {
	if message == nil {
		return fmt.Errorf("%w: message is nil", pkgerrors.ErrValidation)
	}
	if strings.TrimSpace(message.SenderID) == "" {
		return fmt.Errorf("%w: sender is required", pkgerrors.ErrValidation)
	}
	if strings.TrimSpace(message.Body) == "" && message.FileURL == "" {
		return fmt.Errorf("%w: message body is empty", pkgerrors.ErrValidation)
	}
	if message.TargetRoom != "" && message.TargetUser != "" {
		return fmt.Errorf("%w: message has both room and user targets", pkgerrors.ErrValidation)
	}
	return nil
}
