package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/devsanthoshmk/home360/internal/adapters/sqlite"
	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "home360.db")
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestSQLiteStore_Contract(t *testing.T) {
	store, _ := newTestStore(t)
	ports.RunStateStoreContract(t, store)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	state := domain.State{
		CurrentSceneID: "music-room",
		Transitioning:  true, // must be shed on the way to disk
		History:        []string{"living-room", "lounge", "music-room"},
		Visits:         2,
	}
	require.NoError(t, store.Save(ctx, "visitor-1", state))
	require.NoError(t, store.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, "music-room", loaded.CurrentSceneID)
	assert.Equal(t, []string{"living-room", "lounge", "music-room"}, loaded.History)
	assert.Equal(t, 2, loaded.Visits)
	assert.False(t, loaded.Transitioning, "a transition must not survive a restart")
}

func TestSQLiteStore_OpenRejectsEmptyPath(t *testing.T) {
	_, err := sqlite.Open("  ")
	require.Error(t, err)
}

func TestSQLiteStore_UpsertKeepsOneRow(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "visitor-1", *domain.NewState("living-room")))
	second := *domain.NewState("living-room")
	second.CurrentSceneID = "lounge"
	require.NoError(t, store.Save(ctx, "visitor-1", second))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"visitor-1"}, sessions)

	loaded, err := store.Load(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, "lounge", loaded.CurrentSceneID)
}
