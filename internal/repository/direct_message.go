package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"team_chat/internal/domain"
	"team_chat/pkg/logger"
)

type DirectMessageRepository interface {
	// Create сохраняет личное сообщение с флагом unread=true
	Create(ctx context.Context, message *domain.Message) error
	ListConversation(ctx context.Context, userA, userB string) ([]*domain.Message, error)
	ListUnread(ctx context.Context, recipientID string) ([]*domain.Message, error)
	MarkAllRead(ctx context.Context, recipientID string) error
}

type directMessageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewDirectMessageRepository(db *pgxpool.Pool, log logger.Logger) DirectMessageRepository {
	return &directMessageRepository{db: db, log: log}
}

func (r *directMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO direct_messages (id, sender_id, recipient_id, body, file_url, file_name, kind, sent_at, is_read)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, FALSE)
	`

	_, err := r.db.Exec(ctx, query,
		message.ID, message.SenderID, message.TargetUser,
		message.Body, message.FileURL, message.FileName,
		message.Kind, message.SentAt,
	)
	if err != nil {
		r.log.Error("Failed to create direct message", "error", err, "recipient_id", message.TargetUser)
		return fmt.Errorf("failed to create direct message: %w", err)
	}

	return nil
}

func (r *directMessageRepository) ListConversation(ctx context.Context, userA, userB string) ([]*domain.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, body, COALESCE(file_url, ''), COALESCE(file_name, ''), kind, sent_at
		FROM direct_messages
		WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY sent_at ASC
	`

	rows, err := r.db.Query(ctx, query, userA, userB)
	if err != nil {
		r.log.Error("Failed to list conversation", "error", err)
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}
	defer rows.Close()

	return scanDirectMessages(rows)
}

func (r *directMessageRepository) ListUnread(ctx context.Context, recipientID string) ([]*domain.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, body, COALESCE(file_url, ''), COALESCE(file_name, ''), kind, sent_at
		FROM direct_messages
		WHERE recipient_id = $1 AND is_read = FALSE
		ORDER BY sent_at ASC
	`

	rows, err := r.db.Query(ctx, query, recipientID)
	if err != nil {
		r.log.Error("Failed to list unread messages", "error", err, "recipient_id", recipientID)
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}
	defer rows.Close()

	return scanDirectMessages(rows)
}

func (r *directMessageRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	query := `UPDATE direct_messages SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`

	_, err := r.db.Exec(ctx, query, recipientID)
	if err != nil {
		r.log.Error("Failed to mark messages read", "error", err, "recipient_id", recipientID)
		return fmt.Errorf("failed to mark messages read: %w", err)
	}

	return nil
}

func scanDirectMessages(rows pgx.Rows) ([]*domain.Message, error) {
	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		err := rows.Scan(
			&message.ID, &message.SenderID, &message.TargetUser,
			&message.Body, &message.FileURL, &message.FileName,
			&message.Kind, &message.SentAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}
