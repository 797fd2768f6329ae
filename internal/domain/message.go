package domain

import (
	"encoding/json"
	"time"
)

type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	TargetRoom  string    `json:"targetRoom,omitempty"`
	TargetUser  string    `json:"targetUser,omitempty"`
	Body        string    `json:"body"`
	FileURL     string    `json:"fileUrl,omitempty"`
	FileName    string    `json:"fileName,omitempty"`
	Kind        string    `json:"kind"`
	SentAt      time.Time `json:"sentAt"`
	SentAtLocal string    `json:"sentAtLocal,omitempty"`
}

const (
	KindText  = "TEXT"
	KindFile  = "FILE"
	KindImage = "IMAGE"
)

// Target возвращает единственную цель сообщения (комната или пользователь)
func (m *Message) Target() string {
	if m.TargetRoom != "" {
		return m.TargetRoom
	}
	return m.TargetUser
}

// Notification строится на лету из сообщения и никогда не сохраняется в БД
type Notification struct {
	Type     string    `json:"type"`
	SenderID string    `json:"senderId"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sentAt"`
	RoomID   string    `json:"roomId,omitempty"`
}

const (
	NotificationNewMessage     = "NEW_MESSAGE"
	NotificationPrivateMessage = "PRIVATE_MESSAGE"
)

func NewNotification(m *Message, notificationType, roomID string) *Notification {
	return &Notification{
		Type:     notificationType,
		SenderID: m.SenderID,
		Body:     m.Body,
		SentAt:   m.SentAt,
		RoomID:   roomID,
	}
}

// QueuedItem - элемент персональной очереди получателя: либо полное
// личное сообщение, либо легковесное уведомление о сообщении в комнате
type QueuedItem struct {
	Message      *Message      `json:"message,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
	EnqueuedAt   time.Time     `json:"enqueuedAt"`
}

// Envelope - кадр live-канала (WebSocket)
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

const (
	EventMessage      = "message"
	EventNotification = "notification"
)
