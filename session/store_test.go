package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/adminflow/core"
)

func TestWithLockSerializesTurns(t *testing.T) {
	s := NewStore(func(o *Options) { o.LockTimeout = 5 * time.Second })

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.WithLock(context.Background(), "sess-1", func(st *core.ConversationState) error {
				// Non-atomic increment: interleaving would lose updates.
				n := st.StepCount
				time.Sleep(time.Millisecond)
				st.StepCount = n + 1
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	err := s.WithLock(context.Background(), "sess-1", func(st *core.ConversationState) error {
		assert.Equal(t, workers, st.StepCount)
		return nil
	})
	require.NoError(t, err)
}

func TestWithLockTimesOut(t *testing.T) {
	s := NewStore(func(o *Options) { o.LockTimeout = 20 * time.Millisecond })

	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = s.WithLock(context.Background(), "sess-1", func(*core.ConversationState) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	err := s.WithLock(context.Background(), "sess-1", func(*core.ConversationState) error {
		t.Fatal("second turn must not run while the lock is held")
		return nil
	})
	assert.ErrorIs(t, err, core.ErrSessionLockTimeout)
}

func TestWithLockHonorsContext(t *testing.T) {
	s := NewStore(func(o *Options) { o.LockTimeout = time.Minute })

	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = s.WithLock(context.Background(), "sess-1", func(*core.ConversationState) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := s.WithLock(ctx, "sess-1", func(*core.ConversationState) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStatePersistsAcrossTurns(t *testing.T) {
	s := NewStore(func(o *Options) { o.HistoryLimit = 5 })

	require.NoError(t, s.WithLock(context.Background(), "sess-1", func(st *core.ConversationState) error {
		st.AddMessage("user", "first")
		return nil
	}))
	require.NoError(t, s.WithLock(context.Background(), "sess-1", func(st *core.ConversationState) error {
		assert.Equal(t, 5, st.HistoryLimit)
		require.Len(t, st.Messages, 1)
		assert.Equal(t, "first", st.Messages[0].Text)
		return nil
	}))
}

func TestEvictIdle(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.WithLock(context.Background(), "old", func(*core.ConversationState) error { return nil }))
	require.NoError(t, s.WithLock(context.Background(), "fresh", func(*core.ConversationState) error { return nil }))
	require.Equal(t, 2, s.Len())

	// Nothing is old enough yet.
	assert.Zero(t, s.EvictIdle(time.Hour))

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 2, s.EvictIdle(10*time.Millisecond))
	assert.Zero(t, s.Len())

	// Evicting again is a no-op.
	assert.Zero(t, s.EvictIdle(10*time.Millisecond))
}

func TestEvictIdleSkipsLockedSessions(t *testing.T) {
	s := NewStore()

	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = s.WithLock(context.Background(), "busy", func(*core.ConversationState) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, s.EvictIdle(time.Nanosecond), "an in-flight session must survive eviction")
	assert.Equal(t, 1, s.Len())

	close(release)
}
