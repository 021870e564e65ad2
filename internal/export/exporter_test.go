package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuongNV13/moodle-block-todo/internal/models"
)

func TestExportItemWithoutDueDate(t *testing.T) {
	item := &models.TodoItem{
		ID:        7,
		OwnerID:   "owner",
		Text:      "buy milk",
		CreatedAt: time.Now(),
	}

	vm := ExportItem(item)

	assert.Equal(t, int64(7), vm.ID)
	assert.Equal(t, "buy milk", vm.Text)
	assert.False(t, vm.Done)
	assert.False(t, vm.HasDueDate)
	assert.Empty(t, vm.DueDate)
	assert.False(t, vm.Overdue)
}

func TestExportItemFormatsStoredDueDate(t *testing.T) {
	// Epoch for 2024-01-01T00:00:00Z. The shown date must derive
	// from this timestamp, not from the current day.
	due := time.Unix(1704067200, 0).UTC()
	item := &models.TodoItem{
		ID:      1,
		Text:    "new year",
		DueDate: &due,
	}

	vm := ExportItem(item)

	require.True(t, vm.HasDueDate)
	assert.Equal(t, "Mon, 01 Jan 2024", vm.DueDate)
}

func TestExportItemOverdueOnlyWhenNotDone(t *testing.T) {
	past := time.Now().UTC().Add(-48 * time.Hour)

	pending := ExportItem(&models.TodoItem{ID: 1, Text: "late", DueDate: &past})
	assert.True(t, pending.Overdue)

	finished := ExportItem(&models.TodoItem{ID: 2, Text: "late", Done: true, DueDate: &past})
	assert.False(t, finished.Overdue)
}

func TestExportListPreservesOrder(t *testing.T) {
	items := []*models.TodoItem{
		{ID: 3, Text: "c"},
		{ID: 1, Text: "a"},
		{ID: 2, Text: "b"},
	}

	list := ExportList(42, 99, items)

	assert.Equal(t, int64(42), list.InstanceID)
	assert.Equal(t, int64(99), list.ContextID)
	assert.Equal(t, 3, list.Total)
	require.Len(t, list.Items, 3)
	assert.Equal(t, int64(3), list.Items[0].ID)
	assert.Equal(t, int64(1), list.Items[1].ID)
	assert.Equal(t, int64(2), list.Items[2].ID)
}

func TestExportListEmpty(t *testing.T) {
	list := ExportList(1, 1, nil)

	assert.Zero(t, list.Total)
	assert.NotNil(t, list.Items)
	assert.Empty(t, list.Items)
}
