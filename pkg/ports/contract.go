package ports

import (
	"context"
	"testing"
	"time"

	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore
// implementation adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState("living-room")
		state.CurrentSceneID = "lounge"
		state.History = append(state.History, "lounge")
		state.Visits = 2

		err := store.Save(ctx, sessionID, *state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.CurrentSceneID, loaded.CurrentSceneID)
		assert.Equal(t, state.History, loaded.History)
		assert.Equal(t, state.Visits, loaded.Visits)
		// Transitioning is transient and must never survive persistence.
		assert.False(t, loaded.Transitioning)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		state := domain.NewState("living-room")
		require.NoError(t, store.Save(ctx, sessionID, *state))

		first, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		first.History = append(first.History, "mutated")
		first.CurrentSceneID = "mutated"

		second, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "living-room", second.CurrentSceneID, "mutating a loaded state must not affect the store")
		assert.NotContains(t, second.History, "mutated")
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, *domain.NewState("living-room"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("Delete Non-Existent", func(t *testing.T) {
		err := store.Delete(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, *domain.NewState("living-room"))
		_ = store.Save(ctx, id2, *domain.NewState("living-room"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
