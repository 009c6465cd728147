package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	dsn := "file:" + dir + "/actiond.db"

	s1, err := Open(dsn)
	require.NoError(t, err)

	_, err = s1.InsertNote(context.Background(), "first open")
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Reopening against the same file must not fail or lose data.
	s2, err := Open(dsn)
	require.NoError(t, err)
	defer s2.Close()

	notes, err := s2.ListNotes(context.Background())
	require.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.Equal(t, "first open", notes[0].Content)
}

func TestInsertNote(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id1, err := s.InsertNote(ctx, "meeting notes")
	require.NoError(t, err)
	id2, err := s.InsertNote(ctx, "more notes")
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	notes, err := s.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, id1, notes[0].ID)
	assert.Equal(t, "meeting notes", notes[0].Content)
	assert.NotEmpty(t, notes[0].CreatedAt)
}

func TestInsertActionItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	noteID, err := s.InsertNote(ctx, "source note")
	require.NoError(t, err)

	ids, err := s.InsertActionItems(ctx, []string{"a", "b"}, &noteID)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	items, err := s.ListActionItems(ctx, &noteID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for i, want := range []string{"a", "b"} {
		assert.Equal(t, ids[i], items[i].ID)
		assert.Equal(t, want, items[i].Text)
		assert.False(t, items[i].Done)
		require.NotNil(t, items[i].NoteID)
		assert.Equal(t, noteID, *items[i].NoteID)
		assert.NotEmpty(t, items[i].CreatedAt)
	}
}

func TestInsertActionItemsWithoutNote(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ids, err := s.InsertActionItems(ctx, []string{"orphan"}, nil)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	items, err := s.ListActionItems(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].NoteID)
}

func TestInsertActionItemsEmpty(t *testing.T) {
	s := newTestStore(t)

	ids, err := s.InsertActionItems(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListActionItemsFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	note1, err := s.InsertNote(ctx, "one")
	require.NoError(t, err)
	note2, err := s.InsertNote(ctx, "two")
	require.NoError(t, err)

	_, err = s.InsertActionItems(ctx, []string{"a", "b"}, &note1)
	require.NoError(t, err)
	_, err = s.InsertActionItems(ctx, []string{"c"}, &note2)
	require.NoError(t, err)

	all, err := s.ListActionItems(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := s.ListActionItems(ctx, &note2)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "c", filtered[0].Text)
}

func TestGetActionItemsPreservesRequestOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ids, err := s.InsertActionItems(ctx, []string{"first", "second", "third"}, nil)
	require.NoError(t, err)

	// Request in reverse; read-back must follow the requested order.
	reversed := []int64{ids[2], ids[1], ids[0]}
	items, err := s.GetActionItems(ctx, reversed)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "third", items[0].Text)
	assert.Equal(t, "second", items[1].Text)
	assert.Equal(t, "first", items[2].Text)
}

func TestGetActionItemsSkipsMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ids, err := s.InsertActionItems(ctx, []string{"kept"}, nil)
	require.NoError(t, err)

	items, err := s.GetActionItems(ctx, []int64{ids[0], 9999})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "kept", items[0].Text)
}

func TestSetActionItemDone(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ids, err := s.InsertActionItems(ctx, []string{"a", "b"}, nil)
	require.NoError(t, err)

	require.NoError(t, s.SetActionItemDone(ctx, ids[0], true))

	items, err := s.ListActionItems(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].Done)
	assert.False(t, items[1].Done, "other items must be unaffected")

	require.NoError(t, s.SetActionItemDone(ctx, ids[0], false))
	items, err = s.ListActionItems(ctx, nil)
	require.NoError(t, err)
	assert.False(t, items[0].Done)
}

func TestSetActionItemDoneNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.SetActionItemDone(context.Background(), 42, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
