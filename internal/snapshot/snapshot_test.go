package snapshot_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alusus-go/corelang/internal/grammar"
	"github.com/alusus-go/corelang/internal/snapshot"
)

func openTestStore(t *testing.T) *snapshot.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshots.db")
	s, err := snapshot.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func buildRepo() *grammar.Repository {
	repo := grammar.NewRepository()
	repo.SetSymbol("root.Main.Statement", grammar.Concat(grammar.Const("a"), grammar.Const("b")))
	return repo
}

func TestSaveAndRestoreRoundTripsRepository(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, "before risky edit", buildRepo())
	require.NoError(t, err)

	restored, err := s.Restore(ctx, id)
	require.NoError(t, err)

	sym, err := restored.GetSymbol("root.Main.Statement")
	require.NoError(t, err)
	assert.Equal(t, grammar.TermConcat, sym.Term.Kind)
}

func TestRestoreUnknownIDReturnsErrNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	missing, err := uuid.NewRandom()
	require.NoError(t, err)

	_, err = s.Restore(ctx, missing)
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
}

func TestListReturnsStoredLabelsMostRecentFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "first", buildRepo())
	require.NoError(t, err)
	_, err = s.Save(ctx, "second", buildRepo())
	require.NoError(t, err)

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second", records[0].Label)
	assert.Equal(t, "first", records[1].Label)
}

func TestDeleteRemovesSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, "temp", buildRepo())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Restore(ctx, id)
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
}
