package client

import (
	"context"
	"sync"
	"time"

	"team_chat/internal/domain"
	"team_chat/pkg/logger"
	"team_chat/pkg/poller"
)

const (
	defaultDrainInterval   = 400 * time.Millisecond
	defaultHistoryInterval = 400 * time.Millisecond
	defaultUnreadInterval  = time.Second
)

// SessionConfig - параметры polling-сессии одного пользователя.
type SessionConfig struct {
	UserID          string
	RoomID          string
	DrainInterval   time.Duration
	HistoryInterval time.Duration
	UnreadInterval  time.Duration
}

// Session - фоновая сессия polling-клиента: опрашивает персональную
// очередь, историю текущей комнаты и непрочитанные личные сообщения,
// прогоняя всё через общий дедупликатор. Callbacks вызываются из
// goroutine опроса.
type Session struct {
	client     *Client
	reconciler *Reconciler
	cfg        SessionConfig
	log        logger.Logger

	onMessage      func(*domain.Message)
	onNotification func(*domain.Notification)

	mu     sync.RWMutex
	roomID string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSession(
	c *Client,
	cfg SessionConfig,
	onMessage func(*domain.Message),
	onNotification func(*domain.Notification),
	log logger.Logger,
) *Session {
	if cfg.DrainInterval <= 0 {
		cfg.DrainInterval = defaultDrainInterval
	}
	if cfg.HistoryInterval <= 0 {
		cfg.HistoryInterval = defaultHistoryInterval
	}
	if cfg.UnreadInterval <= 0 {
		cfg.UnreadInterval = defaultUnreadInterval
	}

	return &Session{
		client:         c,
		reconciler:     NewReconciler(),
		cfg:            cfg,
		log:            log,
		onMessage:      onMessage,
		onNotification: onNotification,
		roomID:         cfg.RoomID,
	}
}

// Start запускает три независимых poller'а. Каждый пропускает тик,
// пока предыдущий запрос ещё в полёте, так что медленный сервер не
// порождает лавину параллельных запросов.
func (s *Session) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	pollers := []*poller.Poller{
		poller.New(s.cfg.DrainInterval, s.pollQueue),
		poller.New(s.cfg.HistoryInterval, s.pollHistory),
		poller.New(s.cfg.UnreadInterval, s.pollUnread),
	}

	for _, p := range pollers {
		p := p
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			p.Run(ctx)
		}()
	}
}

// Stop останавливает опрос и дожидается завершения poller'ов.
func (s *Session) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// SwitchRoom переводит сессию на другую комнату: объявляет presence и
// переключает poll истории. Дедупликатор не сбрасывается, уже виденные
// сообщения не всплывут повторно.
func (s *Session) SwitchRoom(ctx context.Context, roomID string) error {
	if err := s.client.UpdatePresence(ctx, s.cfg.UserID, roomID); err != nil {
		return err
	}

	s.mu.Lock()
	s.roomID = roomID
	s.mu.Unlock()
	return nil
}

func (s *Session) currentRoom() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomID
}

func (s *Session) pollQueue(ctx context.Context) {
	items, err := s.client.DrainQueue(ctx, s.cfg.UserID)
	if err != nil || ctx.Err() != nil {
		if err != nil && ctx.Err() == nil {
			s.log.Debug("Queue poll failed", "error", err)
		}
		return
	}

	for _, item := range items {
		if item.Message != nil && s.reconciler.Ingest(item.Message) && s.onMessage != nil {
			s.onMessage(item.Message)
		}
		if item.Notification != nil && s.onNotification != nil {
			s.onNotification(item.Notification)
		}
	}
}

func (s *Session) pollHistory(ctx context.Context) {
	roomID := s.currentRoom()
	if roomID == "" {
		return
	}

	messages, err := s.client.History(ctx, roomID, s.cfg.UserID)
	if err != nil || ctx.Err() != nil {
		if err != nil && ctx.Err() == nil {
			s.log.Debug("History poll failed", "error", err)
		}
		return
	}

	for _, m := range s.reconciler.ApplyHistory(messages) {
		if s.onMessage != nil {
			s.onMessage(m)
		}
	}
}

func (s *Session) pollUnread(ctx context.Context) {
	messages, err := s.client.Unread(ctx, s.cfg.UserID)
	if err != nil || ctx.Err() != nil {
		if err != nil && ctx.Err() == nil {
			s.log.Debug("Unread poll failed", "error", err)
		}
		return
	}

	for _, m := range messages {
		if s.reconciler.Ingest(m) && s.onMessage != nil {
			s.onMessage(m)
		}
	}
}
