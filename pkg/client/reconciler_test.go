package client

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"team_chat/internal/domain"
)

func message(id, body string) *domain.Message {
	return &domain.Message{
		ID:         id,
		SenderID:   "alice",
		TargetRoom: "1",
		Body:       body,
		SentAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestIngestReturnsTrueExactlyOnce(t *testing.T) {
	r := NewReconciler()
	m := message("m1", "hello")

	// Одно и то же сообщение приходит всеми тремя путями: live,
	// очередь, история. Показано оно должно быть один раз.
	assert.True(t, r.Ingest(m))
	assert.False(t, r.Ingest(m))
	assert.False(t, r.Ingest(m))
}

func TestIngestFallsBackToContentKey(t *testing.T) {
	r := NewReconciler()

	first := message("", "hello")
	duplicate := message("", "hello")
	other := message("", "different body")

	assert.True(t, r.Ingest(first))
	assert.False(t, r.Ingest(duplicate))
	assert.True(t, r.Ingest(other))
}

func TestIngestContentKeyIgnoresSubsecondJitter(t *testing.T) {
	r := NewReconciler()

	first := message("", "hello")
	jittered := message("", "hello")
	jittered.SentAt = first.SentAt.Add(300 * time.Millisecond)

	assert.True(t, r.Ingest(first))
	assert.False(t, r.Ingest(jittered), "sub-second timestamp drift must not defeat dedup")
}

func TestApplyHistoryReturnsOnlyNewTail(t *testing.T) {
	r := NewReconciler()

	history := []*domain.Message{message("m1", "a"), message("m2", "b")}
	fresh := r.ApplyHistory(history)
	require.Len(t, fresh, 2)

	// Повторный снимок той же длины ничего не добавляет
	fresh = r.ApplyHistory(history)
	assert.Empty(t, fresh)

	// Вырос на одно сообщение
	history = append(history, message("m3", "c"))
	fresh = r.ApplyHistory(history)
	require.Len(t, fresh, 1)
	assert.Equal(t, "m3", fresh[0].ID)
}

func TestApplyHistoryShrinkResetsWithoutDuplicates(t *testing.T) {
	r := NewReconciler()

	long := []*domain.Message{message("m1", "a"), message("m2", "b"), message("m3", "c")}
	require.Len(t, r.ApplyHistory(long), 3)

	// Снимок стал короче (смена выборки): отметка сбрасывается, снимок
	// перечитывается целиком, но уже виденные сообщения не всплывают
	short := []*domain.Message{message("m1", "a"), message("x1", "new")}
	fresh := r.ApplyHistory(short)
	require.Len(t, fresh, 1)
	assert.Equal(t, "x1", fresh[0].ID)
}

func TestApplyHistoryDeduplicatesAgainstLivePath(t *testing.T) {
	r := NewReconciler()

	live := message("m1", "a")
	require.True(t, r.Ingest(live))

	fresh := r.ApplyHistory([]*domain.Message{message("m1", "a"), message("m2", "b")})
	require.Len(t, fresh, 1)
	assert.Equal(t, "m2", fresh[0].ID)
}

func TestResetForgetsEverything(t *testing.T) {
	r := NewReconciler()

	var history []*domain.Message
	for i := 0; i < 5; i++ {
		history = append(history, message(fmt.Sprintf("m%d", i), "x"))
	}
	require.Len(t, r.ApplyHistory(history), 5)

	r.Reset()

	assert.True(t, r.Ingest(message("m0", "x")))
	fresh := r.ApplyHistory(history)
	assert.Len(t, fresh, 4)
}
