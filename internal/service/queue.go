package service

import (
	"context"

	"team_chat/internal/domain"
	"team_chat/internal/metrics"
	"team_chat/internal/repository"
	"team_chat/pkg/logger"
)

// QueueService - операция drain для polling-клиентов: атомарно забрать
// и очистить всё, что накопилось в персональной очереди
type QueueService interface {
	Drain(ctx context.Context, recipientID string) ([]*domain.QueuedItem, error)
}

type queueService struct {
	queue repository.QueueStore
	log   logger.Logger
}

func NewQueueService(queue repository.QueueStore, log logger.Logger) QueueService {
	return &queueService{queue: queue, log: log}
}

func (s *queueService) Drain(ctx context.Context, recipientID string) ([]*domain.QueuedItem, error) {
	items, err := s.queue.DrainAll(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	metrics.QueueDrains.Inc()
	metrics.QueueDrainedItems.Add(float64(len(items)))

	if len(items) > 0 {
		s.log.Debug("Queue drained", "recipient_id", recipientID, "items", len(items))
	}
	return items, nil
}
