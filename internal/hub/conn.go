package hub

import (
	"time"

	"github.com/gorilla/websocket"
	"team_chat/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Conn - одно live-подключение. Каждое подключение пишет из собственной
// горутины; переполненный буфер отправки означает потерю кадра для этого
// подписчика, не блокировку остальных.
type Conn struct {
	hub    *Hub
	ws     *websocket.Conn
	send   chan []byte
	done   chan struct{}
	roomID string
	userID string
}

// Attach регистрирует WebSocket-подключение в hub и блокирует до его
// закрытия. roomID и userID могут быть заданы по отдельности.
func (h *Hub) Attach(ws *websocket.Conn, roomID, userID string, sendBufferSize int) {
	if sendBufferSize <= 0 {
		sendBufferSize = 64
	}

	c := &Conn{
		hub:    h,
		ws:     ws,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		roomID: roomID,
		userID: userID,
	}

	h.register(c)
	go c.writePump()
	c.readPump()
}

func (c *Conn) enqueueFrame(frame []byte) {
	select {
	case <-c.done:
	case c.send <- frame:
	default:
		// Подписчик не успевает читать - кадр теряется, он доберёт
		// сообщение из очереди или истории
		metrics.LiveDropped.Inc()
	}
}

// readPump только следит за жизнью подключения: клиенты ничего не
// публикуют через WebSocket, публикация идёт через REST
func (c *Conn) readPump() {
	defer func() {
		c.hub.unregister(c)
		close(c.done)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(4096)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
			return
		case frame := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
