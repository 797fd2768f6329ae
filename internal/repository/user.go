package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"team_chat/internal/domain"
	pkgerrors "team_chat/pkg/errors"
	"team_chat/pkg/logger"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.ChatUser) error
	GetByID(ctx context.Context, id string) (*domain.ChatUser, error)
	GetByUsername(ctx context.Context, username string) (*domain.ChatUser, error)
	UpdateTimezone(ctx context.Context, id, timezone string) error
}

type userRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewUserRepository(db *pgxpool.Pool, log logger.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) Create(ctx context.Context, user *domain.ChatUser) error {
	query := `
		INSERT INTO users (id, username, password_hash, avatar_url, timezone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.AvatarURL, user.Timezone, user.CreatedAt,
	).Scan(&user.CreatedAt)

	if err != nil {
		// 23505 = unique_violation
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.log.Warn("User already exists", "username", user.Username)
			return pkgerrors.ErrUserAlreadyExists
		}
		r.log.Error("Failed to create user", "error", err, "username", user.Username)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.ChatUser, error) {
	query := `
		SELECT id, username, password_hash, avatar_url, COALESCE(timezone, 'UTC'), created_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.ChatUser, error) {
	query := `
		SELECT id, username, password_hash, avatar_url, COALESCE(timezone, 'UTC'), created_at
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`
	return r.scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *userRepository) UpdateTimezone(ctx context.Context, id, timezone string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET timezone = $2 WHERE id = $1`, id, timezone)
	if err != nil {
		r.log.Error("Failed to update timezone", "error", err, "user_id", id)
		return fmt.Errorf("failed to update timezone: %w", err)
	}
	return nil
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.ChatUser, error) {
	user := &domain.ChatUser{}
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.AvatarURL, &user.Timezone, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pkgerrors.ErrNotFound
		}
		r.log.Error("Failed to get user", "error", err)
		return nil, err
	}
	return user, nil
}
