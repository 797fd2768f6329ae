package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"team_chat/internal/domain"
	"team_chat/pkg/logger"
)

// MessageRepository - история сообщений комнат. Это внешний collaborator
// ядра доставки: publish обязан успешно сохранить сообщение здесь, иначе
// он считается неуспешным целиком.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListByRoom(ctx context.Context, roomID string) ([]*domain.Message, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (id, room_id, sender_id, body, file_url, file_name, kind, sent_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		message.ID, message.TargetRoom, message.SenderID,
		message.Body, message.FileURL, message.FileName,
		message.Kind, message.SentAt,
	)
	if err != nil {
		r.log.Error("Failed to create message", "error", err, "room_id", message.TargetRoom)
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

func (r *messageRepository) ListByRoom(ctx context.Context, roomID string) ([]*domain.Message, error) {
	query := `
		SELECT id, room_id, sender_id, body, COALESCE(file_url, ''), COALESCE(file_name, ''), kind, sent_at
		FROM messages
		WHERE room_id = $1
		ORDER BY sent_at ASC
	`

	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		r.log.Error("Failed to list messages", "error", err, "room_id", roomID)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		err := rows.Scan(
			&message.ID, &message.TargetRoom, &message.SenderID,
			&message.Body, &message.FileURL, &message.FileName,
			&message.Kind, &message.SentAt,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}
