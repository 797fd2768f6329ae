package repository

import (
	"context"
	"hash/fnv"
	"sync"

	"team_chat/internal/domain"
)

const queueShardCount = 32

// memoryQueueStore - in-process вариант QueueStore для запуска без Redis
// и для тестов. Карта очередей шардирована: блокировка берётся на шард,
// глобального лока нет.
type memoryQueueStore struct {
	shards [queueShardCount]*queueShard
}

type queueShard struct {
	mu     sync.Mutex
	queues map[string][]*domain.QueuedItem
}

func NewMemoryQueueStore() QueueStore {
	s := &memoryQueueStore{}
	for i := range s.shards {
		s.shards[i] = &queueShard{queues: make(map[string][]*domain.QueuedItem)}
	}
	return s
}

func (s *memoryQueueStore) shard(recipientID string) *queueShard {
	h := fnv.New32a()
	h.Write([]byte(recipientID))
	return s.shards[h.Sum32()%queueShardCount]
}

func (s *memoryQueueStore) Enqueue(_ context.Context, recipientID string, item *domain.QueuedItem) (int64, error) {
	shard := s.shard(recipientID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	shard.queues[recipientID] = append(shard.queues[recipientID], item)
	return int64(len(shard.queues[recipientID])), nil
}

func (s *memoryQueueStore) DrainAll(_ context.Context, recipientID string) ([]*domain.QueuedItem, error) {
	shard := s.shard(recipientID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	items := shard.queues[recipientID]
	delete(shard.queues, recipientID)

	if items == nil {
		return []*domain.QueuedItem{}, nil
	}
	return items, nil
}

func (s *memoryQueueStore) Size(_ context.Context, recipientID string) (int64, error) {
	shard := s.shard(recipientID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	return int64(len(shard.queues[recipientID])), nil
}
