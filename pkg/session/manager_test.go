package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/ports"
	"github.com/devsanthoshmk/home360/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is
// missing.
type SlowStore struct {
	data map[string]domain.State
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, state domain.State) error {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]domain.State)
	}
	s.data[sessionID] = *state.Clone()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (domain.State, error) {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.data[sessionID]; ok {
		return *state.Clone(), nil
	}
	return domain.State{}, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_Locking(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	_ = manager.Save(ctx, id, *domain.NewState("living-room"))

	var wg sync.WaitGroup
	concurrentWrites := 10

	// Writes must be serialized by the per-session lock; the SlowStore's IO
	// delay would otherwise interleave read-modify-write cycles.
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.Save(ctx, id, *domain.NewState("lounge"))
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	state, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "lounge", state.CurrentSceneID)
}

func TestManager_LoadOrStart(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := manager.LoadOrStart(ctx, id, "living-room")
			assert.NoError(t, err)
			assert.Equal(t, "living-room", state.CurrentSceneID)
		}()
	}
	wg.Wait()

	// Both callers observed the same seeded session.
	state, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "living-room", state.CurrentSceneID)
	assert.Equal(t, []string{"living-room"}, state.History)
	assert.Equal(t, 0, state.Visits)
}

func TestManager_LoadOrStartKeepsExisting(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "returning-visitor"

	visited := domain.State{
		CurrentSceneID: "music-room",
		History:        []string{"living-room", "lounge", "music-room"},
		Visits:         2,
	}
	require.NoError(t, manager.Save(ctx, id, visited))

	state, err := manager.LoadOrStart(ctx, id, "living-room")
	require.NoError(t, err)
	assert.Equal(t, "music-room", state.CurrentSceneID, "existing sessions must not be reseeded")
	assert.Equal(t, 2, state.Visits)
}

func TestManager_LoadMissing(t *testing.T) {
	manager := session.NewManager(&SlowStore{})

	_, err := manager.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

// countingLocker records distributed lock round trips.
type countingLocker struct {
	mu       sync.Mutex
	locks    int
	unlocks  int
	lastTTL  time.Duration
	lastKey  string
	failNext bool
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failNext {
		l.failNext = false
		return nil, errors.New("lock held elsewhere")
	}
	l.locks++
	l.lastTTL = ttl
	l.lastKey = key
	return func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocks++
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &countingLocker{}
	manager := session.NewManager(&SlowStore{},
		session.WithLocker(locker),
		session.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	require.NoError(t, manager.Save(ctx, "visitor-1", *domain.NewState("living-room")))

	locker.mu.Lock()
	defer locker.mu.Unlock()
	assert.Equal(t, 1, locker.locks)
	assert.Equal(t, 1, locker.unlocks, "lock must be released after the critical section")
	assert.Equal(t, "visitor-1", locker.lastKey)
	assert.Equal(t, 5*time.Second, locker.lastTTL)
}

func TestManager_DistributedLockerFailure(t *testing.T) {
	locker := &countingLocker{failNext: true}
	manager := session.NewManager(&SlowStore{}, session.WithLocker(locker))

	err := manager.Save(context.Background(), "visitor-1", *domain.NewState("living-room"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "distributed lock")
}
