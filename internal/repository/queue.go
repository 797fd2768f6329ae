package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"team_chat/internal/domain"
	"team_chat/pkg/logger"
)

const (
	// Префикс ключей персональных очередей
	QueueKeyPrefix = "queue:user:%s:pending"
)

// QueueStore - персональная durable FIFO-очередь получателя.
// Очередь создаётся лениво при первой записи; drain атомарен относительно
// параллельных enqueue: запись попадает ровно в один drain.
type QueueStore interface {
	// Enqueue добавляет элемент в хвост очереди получателя и возвращает
	// глубину очереди после записи
	Enqueue(ctx context.Context, recipientID string, item *domain.QueuedItem) (int64, error)

	// DrainAll атомарно забирает и очищает всю очередь получателя (FIFO).
	// Пустая или ещё не созданная очередь - пустой срез, не ошибка.
	DrainAll(ctx context.Context, recipientID string) ([]*domain.QueuedItem, error)

	// Size возвращает текущую глубину очереди без её изменения
	Size(ctx context.Context, recipientID string) (int64, error)
}

type redisQueueStore struct {
	rdb *redis.Client
	log logger.Logger
}

func NewRedisQueueStore(rdb *redis.Client, log logger.Logger) QueueStore {
	return &redisQueueStore{rdb: rdb, log: log}
}

func (s *redisQueueStore) queueKey(recipientID string) string {
	return fmt.Sprintf(QueueKeyPrefix, recipientID)
}

func (s *redisQueueStore) Enqueue(ctx context.Context, recipientID string, item *domain.QueuedItem) (int64, error) {
	itemJSON, err := json.Marshal(item)
	if err != nil {
		s.log.Error("Failed to marshal queue item", "error", err)
		return 0, fmt.Errorf("failed to marshal queue item: %w", err)
	}

	// RPUSH создаёт ключ при первой записи - ленивое создание очереди
	depth, err := s.rdb.RPush(ctx, s.queueKey(recipientID), itemJSON).Result()
	if err != nil {
		s.log.Error("Failed to enqueue item", "error", err, "recipient_id", recipientID)
		return 0, fmt.Errorf("failed to enqueue item: %w", err)
	}

	return depth, nil
}

func (s *redisQueueStore) DrainAll(ctx context.Context, recipientID string) ([]*domain.QueuedItem, error) {
	key := s.queueKey(recipientID)

	// LRANGE + DEL в одной транзакции: enqueue, пришедший во время drain,
	// либо попадает в этот batch, либо остаётся до следующего - не теряется
	var lrange *redis.StringSliceCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil && err != redis.Nil {
		s.log.Error("Failed to drain queue", "error", err, "recipient_id", recipientID)
		return nil, fmt.Errorf("failed to drain queue: %w", err)
	}

	raw := lrange.Val()
	items := make([]*domain.QueuedItem, 0, len(raw))
	for _, itemJSON := range raw {
		var item domain.QueuedItem
		if err := json.Unmarshal([]byte(itemJSON), &item); err != nil {
			s.log.Warn("Failed to unmarshal queue item", "error", err)
			continue
		}
		items = append(items, &item)
	}

	return items, nil
}

func (s *redisQueueStore) Size(ctx context.Context, recipientID string) (int64, error) {
	size, err := s.rdb.LLen(ctx, s.queueKey(recipientID)).Result()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("failed to get queue size: %w", err)
	}
	return size, nil
}
