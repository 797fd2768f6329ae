package service

import (
	"sync"
)

// PresenceTracker - какую комнату пользователь сейчас просматривает.
// Best-effort, last-write-wins; используется только чтобы не слать
// уведомления о комнате, которую пользователь и так видит.
type PresenceTracker interface {
	SetCurrentRoom(userID, roomID string)
	// CurrentRoom возвращает пустую строку, если пользователь нигде
	CurrentRoom(userID string) string
	Clear(userID string)
}

type presenceTracker struct {
	mu    sync.RWMutex
	rooms map[string]string
}

func NewPresenceTracker() PresenceTracker {
	return &presenceTracker{
		rooms: make(map[string]string),
	}
}

func (t *presenceTracker) SetCurrentRoom(userID, roomID string) {
	if userID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rooms[userID] = roomID
}

func (t *presenceTracker) CurrentRoom(userID string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rooms[userID]
}

func (t *presenceTracker) Clear(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rooms, userID)
}
