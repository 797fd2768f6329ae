// Package client - Go-клиент HTTP API чата: публикация, очереди,
// история и вспомогательная логика polling-клиента (reconciler, poller,
// live-подписка).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"team_chat/internal/domain"
)

type Client struct {
	BaseURL     string
	AccessToken string
	HTTPClient  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)
		return nil, fmt.Errorf("chat API error %d: %s", resp.StatusCode, errResp.Error)
	}

	return respBody, nil
}

// RegisterRequest - тело запроса регистрации.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Timezone string `json:"timezone,omitempty"`
}

// Register создаёт пользователя.
func (c *Client) Register(ctx context.Context, username, password, timezone string) (*domain.ChatUser, error) {
	body, _ := json.Marshal(RegisterRequest{Username: username, Password: password, Timezone: timezone})
	respBody, err := c.doRequest(ctx, "POST", "/api/v1/auth/register", body)
	if err != nil {
		return nil, err
	}

	var user domain.ChatUser
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// LoginResponse - ответ на логин.
type LoginResponse struct {
	User        *domain.ChatUser `json:"user"`
	AccessToken string           `json:"access_token"`
}

// Login выполняет вход и запоминает access token для последующих
// защищённых запросов.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	respBody, err := c.doRequest(ctx, "POST", "/api/v1/auth/login", body)
	if err != nil {
		return nil, err
	}

	var resp LoginResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	c.AccessToken = resp.AccessToken
	return &resp, nil
}

// PublishRoom публикует сообщение в комнату.
func (c *Client) PublishRoom(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	body, _ := json.Marshal(message)
	respBody, err := c.doRequest(ctx, "POST", "/api/v1/messages/room", body)
	if err != nil {
		return nil, err
	}

	var published domain.Message
	if err := json.Unmarshal(respBody, &published); err != nil {
		return nil, err
	}
	return &published, nil
}

// PublishDirect публикует личное сообщение.
func (c *Client) PublishDirect(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	body, _ := json.Marshal(message)
	respBody, err := c.doRequest(ctx, "POST", "/api/v1/messages/direct", body)
	if err != nil {
		return nil, err
	}

	var published domain.Message
	if err := json.Unmarshal(respBody, &published); err != nil {
		return nil, err
	}
	return &published, nil
}

// DrainQueue забирает и очищает персональную очередь получателя.
// Пустая или несуществующая очередь - пустой срез, не ошибка.
func (c *Client) DrainQueue(ctx context.Context, recipientID string) ([]*domain.QueuedItem, error) {
	respBody, err := c.doRequest(ctx, "GET", "/api/v1/queue?recipientId="+url.QueryEscape(recipientID), nil)
	if err != nil {
		return nil, err
	}

	var items []*domain.QueuedItem
	if err := json.Unmarshal(respBody, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// History возвращает историю комнаты.
func (c *Client) History(ctx context.Context, roomID, asOfUser string) ([]*domain.Message, error) {
	path := "/api/v1/history?target=" + url.QueryEscape(roomID)
	if asOfUser != "" {
		path += "&asOfUser=" + url.QueryEscape(asOfUser)
	}

	respBody, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var messages []*domain.Message
	if err := json.Unmarshal(respBody, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// DirectHistory возвращает переписку двух пользователей.
func (c *Client) DirectHistory(ctx context.Context, user1, user2 string) ([]*domain.Message, error) {
	path := "/api/v1/direct-history?user1=" + url.QueryEscape(user1) + "&user2=" + url.QueryEscape(user2)
	respBody, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var messages []*domain.Message
	if err := json.Unmarshal(respBody, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Unread возвращает непрочитанные личные сообщения получателя.
func (c *Client) Unread(ctx context.Context, recipientID string) ([]*domain.Message, error) {
	respBody, err := c.doRequest(ctx, "GET", "/api/v1/unread?recipientId="+url.QueryEscape(recipientID), nil)
	if err != nil {
		return nil, err
	}

	var messages []*domain.Message
	if err := json.Unmarshal(respBody, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead помечает все личные сообщения получателя прочитанными.
func (c *Client) MarkRead(ctx context.Context, recipientID string) error {
	_, err := c.doRequest(ctx, "POST", "/api/v1/unread/mark-read?recipientId="+url.QueryEscape(recipientID), nil)
	return err
}

// UpdatePresence сообщает серверу, какую комнату пользователь смотрит.
// Пустой roomID означает "нигде".
func (c *Client) UpdatePresence(ctx context.Context, userID, roomID string) error {
	path := "/api/v1/presence?userId=" + url.QueryEscape(userID)
	if roomID != "" {
		path += "&roomId=" + url.QueryEscape(roomID)
	}
	_, err := c.doRequest(ctx, "POST", path, nil)
	return err
}
