package handler

import (
	"errors"
	"net/http"

	"team_chat/internal/service"
	pkgerrors "team_chat/pkg/errors"
	"team_chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	log         logger.Logger
}

func NewAuthHandler(authService service.AuthService, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Timezone string `json:"timezone"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid registration request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password, req.Timezone)
	if err != nil {
		// Определяем статус код на основе типа ошибки
		statusCode := http.StatusBadRequest
		if errors.Is(err, pkgerrors.ErrUserAlreadyExists) {
			statusCode = http.StatusConflict
		}
		h.log.Warn("Registration failed", "error", err, "username", req.Username)
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	h.log.Info("User registered successfully", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid login request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.log.Warn("Login failed", "error", err, "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	h.log.Info("User logged in successfully", "user_id", response.User.ID, "username", response.User.Username)
	c.JSON(http.StatusOK, response)
}
