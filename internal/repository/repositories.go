package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"team_chat/pkg/logger"
)

type Repositories struct {
	User          UserRepository
	Room          RoomRepository
	Message       MessageRepository
	DirectMessage DirectMessageRepository
	Queue         QueueStore
}

func NewRepositories(db *pgxpool.Pool, rdb *redis.Client, log logger.Logger) *Repositories {
	repos := &Repositories{
		User:          NewUserRepository(db, log),
		Room:          NewRoomRepository(db, log),
		Message:       NewMessageRepository(db, log),
		DirectMessage: NewDirectMessageRepository(db, log),
	}

	// Без Redis очереди живут в памяти процесса: подходит для разработки
	// и single-node запуска, но не переживает рестарт
	if rdb != nil {
		repos.Queue = NewRedisQueueStore(rdb, log)
		log.Info("Queue store initialized", "backend", "redis")
	} else {
		repos.Queue = NewMemoryQueueStore()
		log.Warn("Queue store initialized without Redis", "backend", "memory")
	}

	return repos
}
