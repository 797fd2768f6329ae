package hub

import (
	"encoding/json"
	"fmt"
	"sync"

	"team_chat/internal/domain"
	"team_chat/internal/metrics"
	"team_chat/pkg/logger"
)

// Broadcaster - live-канал доставки. Отправка никогда не блокируется на
// получателе: это оптимизация задержки, гарантия доставки лежит на
// персональных очередях и истории.
type Broadcaster interface {
	// BroadcastRoom отправляет payload всем live-подписчикам комнаты
	BroadcastRoom(roomID, event string, payload interface{}) error

	// SendToUser отправляет payload на персональный топик пользователя
	SendToUser(userID, event string, payload interface{}) error
}

// Hub хранит live-подключения по комнатам и по пользователям
type Hub struct {
	log logger.Logger

	mu    sync.RWMutex
	rooms map[string]map[*Conn]struct{}
	users map[string]map[*Conn]struct{}
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		log:   log,
		rooms: make(map[string]map[*Conn]struct{}),
		users: make(map[string]map[*Conn]struct{}),
	}
}

func (h *Hub) register(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.roomID != "" {
		if h.rooms[c.roomID] == nil {
			h.rooms[c.roomID] = make(map[*Conn]struct{})
		}
		h.rooms[c.roomID][c] = struct{}{}
	}
	if c.userID != "" {
		if h.users[c.userID] == nil {
			h.users[c.userID] = make(map[*Conn]struct{})
		}
		h.users[c.userID][c] = struct{}{}
	}
}

func (h *Hub) unregister(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.roomID != "" {
		delete(h.rooms[c.roomID], c)
		if len(h.rooms[c.roomID]) == 0 {
			delete(h.rooms, c.roomID)
		}
	}
	if c.userID != "" {
		delete(h.users[c.userID], c)
		if len(h.users[c.userID]) == 0 {
			delete(h.users, c.userID)
		}
	}
}

func (h *Hub) BroadcastRoom(roomID, event string, payload interface{}) error {
	frame, err := encodeEnvelope(event, payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.enqueueFrame(frame)
	}

	metrics.LiveDeliveries.WithLabelValues("room").Add(float64(len(conns)))
	return nil
}

func (h *Hub) SendToUser(userID, event string, payload interface{}) error {
	frame, err := encodeEnvelope(event, payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.users[userID]))
	for c := range h.users[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.enqueueFrame(frame)
	}

	metrics.LiveDeliveries.WithLabelValues("user").Add(float64(len(conns)))
	return nil
}

// RoomSubscribers возвращает число live-подключений комнаты
func (h *Hub) RoomSubscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// UserSubscribers возвращает число подключений персонального топика
func (h *Hub) UserSubscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

func encodeEnvelope(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	frame, err := json.Marshal(domain.Envelope{Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return frame, nil
}
