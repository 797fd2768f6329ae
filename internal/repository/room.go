package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"team_chat/internal/domain"
	pkgerrors "team_chat/pkg/errors"
	"team_chat/pkg/logger"
)

type RoomRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ChatRoom, error)
	Exists(ctx context.Context, id string) (bool, error)
	// GetMemberIDs возвращает id всех участников комнаты
	GetMemberIDs(ctx context.Context, roomID string) ([]string, error)
	AddMember(ctx context.Context, roomID, userID string) error
}

type roomRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewRoomRepository(db *pgxpool.Pool, log logger.Logger) RoomRepository {
	return &roomRepository{db: db, log: log}
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.ChatRoom, error) {
	query := `SELECT id, name, created_at FROM rooms WHERE id = $1`

	room := &domain.ChatRoom{}
	err := r.db.QueryRow(ctx, query, id).Scan(&room.ID, &room.Name, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pkgerrors.ErrRoomNotFound
		}
		r.log.Error("Failed to get room", "error", err, "room_id", id)
		return nil, err
	}

	return room, nil
}

func (r *roomRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check room existence", "error", err, "room_id", id)
		return false, fmt.Errorf("failed to check room existence: %w", err)
	}
	return exists, nil
}

func (r *roomRepository) GetMemberIDs(ctx context.Context, roomID string) ([]string, error) {
	query := `SELECT user_id FROM room_members WHERE room_id = $1`

	rows, err := r.db.Query(ctx, query, roomID)
	if err != nil {
		r.log.Error("Failed to get room members", "error", err, "room_id", roomID)
		return nil, fmt.Errorf("failed to get room members: %w", err)
	}
	defer rows.Close()

	var memberIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		memberIDs = append(memberIDs, id)
	}

	return memberIDs, rows.Err()
}

func (r *roomRepository) AddMember(ctx context.Context, roomID, userID string) error {
	query := `
		INSERT INTO room_members (room_id, user_id, joined_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (room_id, user_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, roomID, userID)
	if err != nil {
		r.log.Error("Failed to add room member", "error", err, "room_id", roomID, "user_id", userID)
		return fmt.Errorf("failed to add room member: %w", err)
	}

	return nil
}
