package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortKey(t *testing.T) {
	for _, valid := range []string{"createddate", "duedate", "todotext"} {
		key, err := ParseSortKey(valid)
		require.NoError(t, err)
		assert.Equal(t, SortKey(valid), key)
	}

	for _, invalid := range []string{"", "id; DROP TABLE todo_items", "CREATEDDATE", "owner"} {
		_, err := ParseSortKey(invalid)
		assert.ErrorIs(t, err, ErrInvalidSortKey, "input %q", invalid)
	}
}

func TestMemoryListRejectsUnknownSortKeyWithoutQuery(t *testing.T) {
	store := NewMemoryItemService()

	_, err := store.ListItems(context.Background(), "owner", SortKey("sneaky"))

	assert.ErrorIs(t, err, ErrInvalidSortKey)
	assert.Zero(t, store.Queries())
}

func TestMemoryAddThenListRoundTrip(t *testing.T) {
	store := NewMemoryItemService()
	ctx := context.Background()

	created, err := store.CreateItem(ctx, "owner", "buy milk", nil)
	require.NoError(t, err)

	items, err := store.ListItems(ctx, "owner", SortByCreatedDate)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, "buy milk", items[0].Text)
	assert.False(t, items[0].Done)
	assert.Nil(t, items[0].DueDate)
}

func TestMemoryCreateRejectsEmptyText(t *testing.T) {
	store := NewMemoryItemService()

	_, err := store.CreateItem(context.Background(), "owner", "", nil)

	assert.ErrorIs(t, err, ErrEmptyItemText)
}

func TestMemoryListScopedToOwner(t *testing.T) {
	store := NewMemoryItemService()
	ctx := context.Background()

	_, err := store.CreateItem(ctx, "alice", "mine", nil)
	require.NoError(t, err)
	_, err = store.CreateItem(ctx, "bob", "theirs", nil)
	require.NoError(t, err)

	items, err := store.ListItems(ctx, "alice", SortByCreatedDate)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "mine", items[0].Text)
}

func TestMemoryListSortsByDueDateWithUndatedLast(t *testing.T) {
	store := NewMemoryItemService()
	ctx := context.Background()

	later := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	sooner := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := store.CreateItem(ctx, "owner", "later", &later)
	require.NoError(t, err)
	_, err = store.CreateItem(ctx, "owner", "undated", nil)
	require.NoError(t, err)
	_, err = store.CreateItem(ctx, "owner", "sooner", &sooner)
	require.NoError(t, err)

	items, err := store.ListItems(ctx, "owner", SortByDueDate)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "sooner", items[0].Text)
	assert.Equal(t, "later", items[1].Text)
	assert.Equal(t, "undated", items[2].Text)
}

func TestMemoryListSortsByText(t *testing.T) {
	store := NewMemoryItemService()
	ctx := context.Background()

	for _, text := range []string{"pears", "Apples", "bananas"} {
		_, err := store.CreateItem(ctx, "owner", text, nil)
		require.NoError(t, err)
	}

	items, err := store.ListItems(ctx, "owner", SortByText)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Apples", items[0].Text)
	assert.Equal(t, "bananas", items[1].Text)
	assert.Equal(t, "pears", items[2].Text)
}

func TestMemoryToggleTwiceRestoresDone(t *testing.T) {
	store := NewMemoryItemService()
	ctx := context.Background()

	created, err := store.CreateItem(ctx, "owner", "flip me", nil)
	require.NoError(t, err)
	require.False(t, created.Done)

	once, err := store.ToggleItem(ctx, "owner", created.ID)
	require.NoError(t, err)
	assert.True(t, once.Done)

	twice, err := store.ToggleItem(ctx, "owner", created.ID)
	require.NoError(t, err)
	assert.False(t, twice.Done)
}

func TestMemoryDeleteThenDeleteAgain(t *testing.T) {
	store := NewMemoryItemService()
	ctx := context.Background()

	created, err := store.CreateItem(ctx, "owner", "short-lived", nil)
	require.NoError(t, err)

	require.NoError(t, store.DeleteItem(ctx, "owner", created.ID))

	items, err := store.ListItems(ctx, "owner", SortByCreatedDate)
	require.NoError(t, err)
	assert.Empty(t, items)

	err = store.DeleteItem(ctx, "owner", created.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMemoryForeignItemsAreInvisible(t *testing.T) {
	store := NewMemoryItemService()
	ctx := context.Background()

	created, err := store.CreateItem(ctx, "alice", "private", nil)
	require.NoError(t, err)

	_, err = store.ToggleItem(ctx, "bob", created.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	err = store.DeleteItem(ctx, "bob", created.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	// No mutation happened either way.
	items, err := store.ListItems(ctx, "alice", SortByCreatedDate)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Done)
}
