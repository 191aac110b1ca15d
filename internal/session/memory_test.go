package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUnknownSessionIsEmpty(t *testing.T) {
	s := NewMemoryStore()

	got, err := s.Context(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, "", got)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreUpdateAppendsTurns(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	mustUpdate(t, s, "abc", "hi", "hello there")
	got, err := s.Context(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "\nUser: hi\nAI: hello there", got)

	mustUpdate(t, s, "abc", "how are you?", "fine")
	got, err = s.Context(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "\nUser: hi\nAI: hello there\nUser: how are you?\nAI: fine", got)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	mustUpdate(t, s, "a", "m1", "r1")
	mustUpdate(t, s, "b", "m2", "r2")

	a, _ := s.Context(ctx, "a")
	b, _ := s.Context(ctx, "b")
	assert.NotContains(t, a, "m2")
	assert.NotContains(t, b, "m1")
}

func TestMemoryStoreReset(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	mustUpdate(t, s, "abc", "hi", "yo")
	require.NoError(t, s.Reset(ctx, "abc"))

	got, err := s.Context(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "", got)
	assert.Equal(t, 0, s.Len())

	assert.NoError(t, s.Reset(ctx, "never-created"))
}

func TestMemoryStoreAppliesWindow(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithWindow(LastTurns(2)))

	for i := 1; i <= 4; i++ {
		mustUpdate(t, s, "w", fmt.Sprintf("m%d", i), fmt.Sprintf("r%d", i))
	}

	got, _ := s.Context(ctx, "w")
	assert.Equal(t, "\nUser: m3\nAI: r3\nUser: m4\nAI: r4", got)
}

func TestMemoryStoreConcurrentUpdatesAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Update(ctx, "shared", fmt.Sprintf("m%d", i), "r")
		}(i)
	}
	wg.Wait()

	got, _ := s.Context(ctx, "shared")
	assert.Equal(t, n, strings.Count(got, UserPrefix))
}

func TestMemoryStoreJanitorExpiresIdle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewMemoryStore(WithIdleTTL(30 * time.Millisecond))
	var expired atomic.Int32
	s.SetExpireHook(func(string) { expired.Add(1) })

	mustUpdate(t, s, "idle", "hi", "yo")
	s.StartJanitor(ctx, 10*time.Millisecond)

	require.Eventually(t, func() bool { return expired.Load() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreJanitorDisabledWithoutTTL(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewMemoryStore()
	mustUpdate(t, s, "keep", "hi", "yo")
	s.StartJanitor(ctx, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreUpdateReportsCreation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, err := s.Update(ctx, "abc", "hi", "yo")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.Update(ctx, "abc", "again", "yo")
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, s.Reset(ctx, "abc"))
	created, err = s.Update(ctx, "abc", "fresh", "yo")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestMemoryStoreContextRefreshesIdleClock(t *testing.T) {
	ctx := context.Background()
	clock := time.Unix(0, 0)
	s := NewMemoryStore(WithIdleTTL(time.Minute))
	s.now = func() time.Time { return clock }

	mustUpdate(t, s, "read-only", "hi", "yo")
	mustUpdate(t, s, "untouched", "hi", "yo")

	clock = clock.Add(45 * time.Second)
	_, err := s.Context(ctx, "read-only")
	require.NoError(t, err)

	clock = clock.Add(30 * time.Second)
	s.expireIdle()

	got, _ := s.Context(ctx, "read-only")
	assert.NotEmpty(t, got)
	assert.Equal(t, 1, s.Len())

	_, _ = s.Context(ctx, "never-seen")
	assert.Equal(t, 1, s.Len())
}

func mustUpdate(t *testing.T, s *MemoryStore, id, userMessage, reply string) {
	t.Helper()
	_, err := s.Update(context.Background(), id, userMessage, reply)
	require.NoError(t, err)
}
