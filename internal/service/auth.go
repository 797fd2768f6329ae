package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"team_chat/internal/config"
	"team_chat/internal/domain"
	"team_chat/internal/repository"
	pkgerrors "team_chat/pkg/errors"
	"team_chat/pkg/jwt"
	"team_chat/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, username, password, timezone string) (*domain.ChatUser, error)
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*domain.ChatUser, error)
}

type LoginResponse struct {
	User        *domain.ChatUser `json:"user"`
	AccessToken string           `json:"access_token"`
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	log      logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig, log logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, username, password, timezone string) (*domain.ChatUser, error) {
	// Валидация входных данных
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" {
		return nil, fmt.Errorf("%w: username is required", pkgerrors.ErrValidation)
	}
	if len(username) > 50 {
		return nil, fmt.Errorf("%w: username is too long (max 50 characters)", pkgerrors.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", pkgerrors.ErrValidation)
	}
	if timezone == "" {
		timezone = "UTC"
	}

	existingUser, _ := s.userRepo.GetByUsername(ctx, username)
	if existingUser != nil {
		return nil, pkgerrors.ErrUserAlreadyExists
	}

	// Хеширование пароля
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash password", "error", err)
		return nil, errors.New("failed to hash password")
	}

	user := &domain.ChatUser{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(passwordHash),
		Timezone:     timezone,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, pkgerrors.ErrUserAlreadyExists) {
			return nil, err
		}
		s.log.Error("Failed to create user", "error", err, "username", username)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" || password == "" {
		return nil, pkgerrors.ErrInvalidCredentials
	}

	// Не раскрываем, существует ли пользователь
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, pkgerrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, pkgerrors.ErrInvalidCredentials
	}

	accessToken, err := jwt.GenerateAccessToken(user.ID, user.Username, s.jwtCfg.AccessSecret, s.jwtCfg.Issuer, s.jwtCfg.AccessTTL)
	if err != nil {
		s.log.Error("Failed to generate access token", "error", err)
		return nil, errors.New("failed to generate access token")
	}

	user.PasswordHash = ""
	return &LoginResponse{
		User:        user,
		AccessToken: accessToken,
	}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.ChatUser, error) {
	claims, err := jwt.ValidateAccessToken(tokenString, s.jwtCfg.AccessSecret)
	if err != nil {
		return nil, pkgerrors.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, pkgerrors.ErrInvalidToken
	}

	user.PasswordHash = ""
	return user, nil
}
