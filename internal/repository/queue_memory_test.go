package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"team_chat/internal/domain"
)

func queuedMessage(id string) *domain.QueuedItem {
	return &domain.QueuedItem{
		Message:    &domain.Message{ID: id, SenderID: "alice", Body: "hello"},
		EnqueuedAt: time.Now().UTC(),
	}
}

func TestMemoryQueueDrainEmptyIsNotError(t *testing.T) {
	store := NewMemoryQueueStore()

	items, err := store.DrainAll(context.Background(), "never-seen")
	require.NoError(t, err)
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestMemoryQueueFIFOAndDestructiveDrain(t *testing.T) {
	store := NewMemoryQueueStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		depth, err := store.Enqueue(ctx, "bob", queuedMessage(fmt.Sprintf("m%d", i)))
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), depth)
	}

	size, err := store.Size(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	items, err := store.DrainAll(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, items, 5)
	for i, item := range items {
		assert.Equal(t, fmt.Sprintf("m%d", i), item.Message.ID)
	}

	// Повторный drain пуст: чтение деструктивное
	items, err = store.DrainAll(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryQueueIsolatesRecipients(t *testing.T) {
	store := NewMemoryQueueStore()
	ctx := context.Background()

	_, err := store.Enqueue(ctx, "bob", queuedMessage("for-bob"))
	require.NoError(t, err)
	_, err = store.Enqueue(ctx, "carol", queuedMessage("for-carol"))
	require.NoError(t, err)

	bobItems, err := store.DrainAll(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobItems, 1)
	assert.Equal(t, "for-bob", bobItems[0].Message.ID)

	carolItems, err := store.DrainAll(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, carolItems, 1)
	assert.Equal(t, "for-carol", carolItems[0].Message.ID)
}

// Параллельные писатели и один дренирующий читатель: ни одно сообщение
// не теряется и не дублируется.
func TestMemoryQueueConcurrentEnqueueDrain(t *testing.T) {
	store := NewMemoryQueueStore()
	ctx := context.Background()

	const writers = 8
	const perWriter = 200

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := store.Enqueue(ctx, "bob", queuedMessage(fmt.Sprintf("w%d-m%d", w, i)))
				assert.NoError(t, err)
			}
		}(w)
	}

	seen := make(map[string]int)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			items, err := store.DrainAll(ctx, "bob")
			assert.NoError(t, err)
			for _, item := range items {
				seen[item.Message.ID]++
			}
			if len(seen) == writers*perWriter {
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	wg.Wait()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("drain loop did not observe all items")
	}

	require.Len(t, seen, writers*perWriter)
	for id, count := range seen {
		assert.Equal(t, 1, count, "item %s drained more than once", id)
	}
}
