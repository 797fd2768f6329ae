package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"team_chat/internal/domain"
	"team_chat/internal/middleware"
	"team_chat/pkg/logger"
)

type fakeQueueService struct {
	items map[string][]*domain.QueuedItem
	err   error
}

func (s *fakeQueueService) Drain(_ context.Context, recipientID string) ([]*domain.QueuedItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	items := s.items[recipientID]
	delete(s.items, recipientID)
	if items == nil {
		return []*domain.QueuedItem{}, nil
	}
	return items, nil
}

func newQueueRouter(svc *fakeQueueService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.GET("/api/v1/queue", NewQueueHandler(svc, logger.NewNop()).Drain)
	return router
}

func TestQueueDrainReturnsItemsThenEmpty(t *testing.T) {
	svc := &fakeQueueService{items: map[string][]*domain.QueuedItem{
		"bob": {
			{Message: &domain.Message{ID: "m1", SenderID: "alice", Body: "hi"}, EnqueuedAt: time.Now().UTC()},
		},
	}}
	router := newQueueRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/queue?recipientId=bob", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var items []*domain.QueuedItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "m1", items[0].Message.ID)

	// Второй вызов: очередь уже пуста, но это по-прежнему 200 и []
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/queue?recipientId=bob", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestQueueDrainMissingRecipientIsEmptyList(t *testing.T) {
	router := newQueueRouter(&fakeQueueService{items: map[string][]*domain.QueuedItem{}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/queue", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestQueueDrainStoreErrorIsServerError(t *testing.T) {
	router := newQueueRouter(&fakeQueueService{err: errors.New("redis down")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/queue?recipientId=bob", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
