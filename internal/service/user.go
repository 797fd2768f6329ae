package service

import (
	"context"

	"team_chat/internal/domain"
	"team_chat/internal/repository"
	"team_chat/pkg/logger"
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.ChatUser, error)
	GetByUsername(ctx context.Context, username string) (*domain.ChatUser, error)
	UpdateTimezone(ctx context.Context, id, timezone string) error
}

type userService struct {
	userRepo repository.UserRepository
	log      logger.Logger
}

func NewUserService(userRepo repository.UserRepository, log logger.Logger) UserService {
	return &userService{userRepo: userRepo, log: log}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.ChatUser, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.ChatUser, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateTimezone(ctx context.Context, id, timezone string) error {
	return s.userRepo.UpdateTimezone(ctx, id, timezone)
}
