package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"team_chat/internal/domain"
	"team_chat/pkg/logger"
)

// Сервер, который отдаёт одно и то же сообщение и очередью, и историей:
// сессия обязана показать его один раз.
func TestSessionDeduplicatesAcrossDeliveryPaths(t *testing.T) {
	sentAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m1 := &domain.Message{ID: "m1", SenderID: "alice", TargetRoom: "dev", Body: "a", SentAt: sentAt}
	m2 := &domain.Message{ID: "m2", SenderID: "alice", TargetRoom: "dev", Body: "b", SentAt: sentAt}
	m3 := &domain.Message{ID: "m3", SenderID: "carol", TargetUser: "bob", Body: "dm", SentAt: sentAt}

	var mu sync.Mutex
	queueDrained := false

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/queue", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if queueDrained {
			json.NewEncoder(w).Encode([]*domain.QueuedItem{})
			return
		}
		queueDrained = true
		json.NewEncoder(w).Encode([]*domain.QueuedItem{
			{Message: m1, EnqueuedAt: sentAt},
			{Notification: &domain.Notification{Type: domain.NotificationNewMessage, SenderID: "alice", RoomID: "dev"}, EnqueuedAt: sentAt},
		})
	})
	mux.HandleFunc("/api/v1/history", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]*domain.Message{m1, m2})
	})
	mux.HandleFunc("/api/v1/unread", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]*domain.Message{m3})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	var gotMu sync.Mutex
	got := make(map[string]int)
	notifications := 0

	session := NewSession(
		NewClient(srv.URL),
		SessionConfig{
			UserID:          "bob",
			RoomID:          "dev",
			DrainInterval:   10 * time.Millisecond,
			HistoryInterval: 10 * time.Millisecond,
			UnreadInterval:  10 * time.Millisecond,
		},
		func(m *domain.Message) {
			gotMu.Lock()
			defer gotMu.Unlock()
			got[m.ID]++
		},
		func(n *domain.Notification) {
			gotMu.Lock()
			defer gotMu.Unlock()
			notifications++
		},
		logger.NewNop(),
	)

	session.Start(context.Background())
	defer session.Stop()

	require.Eventually(t, func() bool {
		gotMu.Lock()
		defer gotMu.Unlock()
		return len(got) == 3
	}, 2*time.Second, 10*time.Millisecond)

	// Дополнительные циклы опроса не должны породить дубликаты
	time.Sleep(100 * time.Millisecond)

	gotMu.Lock()
	defer gotMu.Unlock()
	for id, count := range got {
		assert.Equal(t, 1, count, "message %s delivered more than once", id)
	}
	assert.GreaterOrEqual(t, notifications, 1)
}

func TestSessionStopsCleanly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]*domain.Message{})
	}))
	defer srv.Close()

	session := NewSession(NewClient(srv.URL), SessionConfig{UserID: "bob", RoomID: "dev"}, nil, nil, logger.NewNop())
	session.Start(context.Background())

	done := make(chan struct{})
	go func() {
		session.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
}
