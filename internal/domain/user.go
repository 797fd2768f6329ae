package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChatUser struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Timezone     string    `json:"timezone"`
	CreatedAt    time.Time `json:"created_at"`
}

// Presence - какую комнату пользователь сейчас просматривает.
// Last-write-wins, не используется для авторизации.
type Presence struct {
	UserID        string `json:"userId"`
	CurrentRoomID string `json:"currentRoomId,omitempty"`
}
