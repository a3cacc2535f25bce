package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func entry(outcome Outcome, at time.Time) Entry {
	return Entry{
		ID:          uuid.NewString(),
		StartedAt:   at,
		Duration:    42 * time.Millisecond,
		Trigger:     "cli",
		Outcome:     outcome,
		ConfigHash:  "cfg",
		ContentHash: "content",
		Files:       []string{"astro.config.mjs"},
		Warnings:    1,
	}
}

func TestSQLiteStore_LatestEmpty(t *testing.T) {
	latest, err := newStore(t).Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestSQLiteStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	base := time.UnixMilli(1_700_000_000_000)

	first := entry(OutcomeSuccess, base)
	second := entry(OutcomeWarning, base.Add(time.Minute))
	second.Commit = "0123456789abcdef"
	second.Files = nil
	require.NoError(t, s.Append(ctx, first))
	require.NoError(t, s.Append(ctx, second))

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, OutcomeWarning, latest.Outcome)
	assert.Equal(t, "0123456789abcdef", latest.Commit)
	assert.Empty(t, latest.Files)
	assert.True(t, second.StartedAt.Equal(latest.StartedAt))

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[1].ID)
	assert.Equal(t, []string{"astro.config.mjs"}, all[1].Files)
	assert.Equal(t, 42*time.Millisecond, all[1].Duration)

	one, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestSQLiteStore_DuplicateID(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	e := entry(OutcomeSuccess, time.Now())
	require.NoError(t, s.Append(ctx, e))
	assert.Error(t, s.Append(ctx, e))
}

func TestSQLiteStore_Prune(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	for range 5 {
		require.NoError(t, s.Append(ctx, entry(OutcomeSuccess, time.Now())))
	}
	removed, err := s.Prune(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteStore_PersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".docsite", "history.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	e := entry(OutcomeSuccess, time.Now())
	require.NoError(t, s.Append(ctx, e))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()
	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, e.ID, latest.ID)
}
