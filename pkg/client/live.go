package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"team_chat/internal/domain"
)

// LiveHandler вызывается на каждый кадр live-потока.
type LiveHandler func(event string, data json.RawMessage)

// SubscribeRoom подключается к live-потоку комнаты и читает его до
// отмены контекста или обрыва соединения.
func (c *Client) SubscribeRoom(ctx context.Context, roomID string, fn LiveHandler) error {
	return c.subscribe(ctx, "/ws/rooms/"+url.PathEscape(roomID), fn)
}

// SubscribeUser подключается к персональному потоку пользователя:
// личные сообщения и уведомления.
func (c *Client) SubscribeUser(ctx context.Context, userID string, fn LiveHandler) error {
	return c.subscribe(ctx, "/ws/users/"+url.PathEscape(userID), fn)
}

func (c *Client) subscribe(ctx context.Context, path string, fn LiveHandler) error {
	wsURL := strings.Replace(c.BaseURL, "http", "ws", 1) + path

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Закрытие по отмене контекста будит ReadMessage
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		var envelope domain.Envelope
		if err := json.Unmarshal(frame, &envelope); err != nil {
			continue
		}
		fn(envelope.Event, envelope.Data)
	}
}
