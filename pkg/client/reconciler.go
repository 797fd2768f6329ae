package client

import (
	"fmt"
	"sync"
	"time"

	"team_chat/internal/domain"
)

// Reconciler склеивает три пути доставки (live push, очередь, история)
// в один поток без дубликатов. Каждое сообщение проходит через Ingest;
// true возвращается ровно один раз, по какому бы пути оно ни пришло
// первым.
type Reconciler struct {
	mu              sync.Mutex
	seen            map[string]struct{}
	lastHistorySize int
}

func NewReconciler() *Reconciler {
	return &Reconciler{seen: make(map[string]struct{})}
}

// dedupKey - идентификатор сообщения для дедупликации. Сервер всегда
// проставляет id, но старые клиенты могут его потерять при пересборке,
// поэтому fallback по содержимому: цель, отправитель, тело и секунда
// отправки.
func dedupKey(m *domain.Message) string {
	if m.ID != "" {
		return m.ID
	}
	return fmt.Sprintf("%s|%s|%s|%s",
		m.Target(), m.SenderID, m.Body, m.SentAt.Truncate(time.Second).UTC().Format(time.RFC3339))
}

// Ingest регистрирует сообщение и отвечает, новое ли оно.
func (r *Reconciler) Ingest(m *domain.Message) bool {
	if m == nil {
		return false
	}

	key := dedupKey(m)
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[key]; ok {
		return false
	}
	r.seen[key] = struct{}{}
	return true
}

// ApplyHistory обрабатывает очередной снимок истории и возвращает
// сообщения, которых клиент ещё не видел. Снимок короче предыдущего
// означает смену выборки (другая комната, очистка) - верхняя отметка
// сбрасывается и снимок перечитывается целиком; от повторов защищает
// сам дедупликатор.
func (r *Reconciler) ApplyHistory(messages []*domain.Message) []*domain.Message {
	r.mu.Lock()
	if len(messages) < r.lastHistorySize {
		r.lastHistorySize = 0
	}
	fresh := messages[r.lastHistorySize:]
	r.lastHistorySize = len(messages)
	r.mu.Unlock()

	var out []*domain.Message
	for _, m := range fresh {
		if r.Ingest(m) {
			out = append(out, m)
		}
	}
	return out
}

// Reset очищает всё накопленное состояние, например при переключении
// пользователя.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = make(map[string]struct{})
	r.lastHistorySize = 0
}
