package hub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"team_chat/internal/domain"
	"team_chat/pkg/logger"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func newHubServer(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Attach(ws, r.URL.Query().Get("room"), r.URL.Query().Get("user"), 16)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	wsURL := strings.Replace(srv.URL, "http", "ws", 1) + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitSubscribers(t *testing.T, h *Hub, roomID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.RoomSubscribers(roomID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("room %s never reached %d subscribers", roomID, want)
}

func waitUserSubscribers(t *testing.T, h *Hub, userID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.UserSubscribers(userID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("user %s never reached %d subscribers", userID, want)
}

func readEnvelope(t *testing.T, conn *websocket.Conn) *domain.Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope domain.Envelope
	require.NoError(t, json.Unmarshal(frame, &envelope))
	return &envelope
}

func TestBroadcastRoomDeliversToEachSubscriberOnce(t *testing.T) {
	h := NewHub(logger.NewNop())
	srv := newHubServer(t, h)

	first := dial(t, srv, "room=dev")
	second := dial(t, srv, "room=dev")
	other := dial(t, srv, "room=ops")
	waitSubscribers(t, h, "dev", 2)
	waitSubscribers(t, h, "ops", 1)

	message := &domain.Message{ID: "m1", SenderID: "alice", TargetRoom: "dev", Body: "hello"}
	require.NoError(t, h.BroadcastRoom("dev", domain.EventMessage, message))

	for _, conn := range []*websocket.Conn{first, second} {
		envelope := readEnvelope(t, conn)
		assert.Equal(t, domain.EventMessage, envelope.Event)

		var received domain.Message
		require.NoError(t, json.Unmarshal(envelope.Data, &received))
		assert.Equal(t, "m1", received.ID)
	}

	// Подписчик другой комнаты кадр не получает
	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestSendToUserTargetsOnlyThatUser(t *testing.T) {
	h := NewHub(logger.NewNop())
	srv := newHubServer(t, h)

	bob := dial(t, srv, "user=bob")
	carol := dial(t, srv, "user=carol")
	waitUserSubscribers(t, h, "bob", 1)
	waitUserSubscribers(t, h, "carol", 1)

	notification := &domain.Notification{Type: domain.NotificationPrivateMessage, SenderID: "alice", Body: "ping"}
	require.NoError(t, h.SendToUser("bob", domain.EventNotification, notification))

	envelope := readEnvelope(t, bob)
	assert.Equal(t, domain.EventNotification, envelope.Event)

	carol.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := carol.ReadMessage()
	assert.Error(t, err)
}

func TestUnregisterOnDisconnect(t *testing.T) {
	h := NewHub(logger.NewNop())
	srv := newHubServer(t, h)

	conn := dial(t, srv, "room=dev")
	waitSubscribers(t, h, "dev", 1)

	conn.Close()
	waitSubscribers(t, h, "dev", 0)
}
