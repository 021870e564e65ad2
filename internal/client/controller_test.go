package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuongNV13/moodle-block-todo/internal/export"
	"github.com/HuongNV13/moodle-block-todo/internal/render"
	"github.com/HuongNV13/moodle-block-todo/internal/services"
)

// controllerFixture runs the real widget endpoints over the memory
// store so controller behavior is exercised end to end, minus only
// the session machinery.
type controllerFixture struct {
	store      *services.MemoryItemService
	region     *FragmentRegion
	controller *Controller
	deny       bool
	server     *httptest.Server
}

func newControllerFixture(t *testing.T, userID string) *controllerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &controllerFixture{
		store:  services.NewMemoryItemService(),
		region: NewFragmentRegion(),
	}

	router := gin.New()
	router.POST("/api/v1/todo/get_items", func(c *gin.Context) {
		if f.deny {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		var req struct {
			InstanceID int64  `json:"instanceid"`
			ContextID  int64  `json:"contextid"`
			Sort       string `json:"sort"`
		}
		require.NoError(t, c.ShouldBindJSON(&req))
		key, err := services.ParseSortKey(req.Sort)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		items, err := f.store.ListItems(c, userID, key)
		require.NoError(t, err)
		c.JSON(http.StatusOK, export.ExportList(req.InstanceID, req.ContextID, items))
	})
	router.POST("/api/v1/todo/add_item", func(c *gin.Context) {
		if f.deny {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		var req struct {
			Text    string `json:"todotext"`
			DueDate *int64 `json:"duedate"`
		}
		require.NoError(t, c.ShouldBindJSON(&req))
		due := epochToTime(req.DueDate)
		item, err := f.store.CreateItem(c, userID, req.Text, due)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, export.ExportItem(item))
	})
	router.POST("/api/v1/todo/toggle_item", func(c *gin.Context) {
		var req struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, c.ShouldBindJSON(&req))
		item, err := f.store.ToggleItem(c, userID, req.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, export.ExportItem(item))
	})
	router.POST("/api/v1/todo/delete_item", func(c *gin.Context) {
		var req struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, c.ShouldBindJSON(&req))
		err := f.store.DeleteItem(c, userID, req.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": req.ID})
	})

	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)

	api := NewClient(f.server.URL, "test-token", f.server.Client())
	f.controller = NewController(
		zerolog.Nop(),
		api,
		render.NewHTMLRenderer(),
		f.region,
		1, 99,
	)
	return f
}

func TestControllerInitLoadsList(t *testing.T) {
	f := newControllerFixture(t, "alice")
	_, err := f.store.CreateItem(context.Background(), "alice", "preexisting", nil)
	require.NoError(t, err)

	require.NoError(t, f.controller.Init(context.Background()))

	assert.Contains(t, f.region.ListHTML(), "preexisting")
}

func TestControllerAddPrependsFragment(t *testing.T) {
	f := newControllerFixture(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.controller.AddItem(ctx, "first", ""))
	require.NoError(t, f.controller.AddItem(ctx, "second", ""))

	ids := f.region.ItemIDs()
	require.Len(t, ids, 2)
	assert.Contains(t, f.region.ItemHTML(ids[0]), "second")
	assert.Contains(t, f.region.ItemHTML(ids[1]), "first")
	assert.False(t, f.region.InputDisabled())
}

func TestControllerAddEmptyTextOnlyUpdatesPlaceholder(t *testing.T) {
	f := newControllerFixture(t, "alice")

	require.NoError(t, f.controller.AddItem(context.Background(), "   ", ""))

	assert.Equal(t, placeholderHint, f.region.Placeholder())
	assert.Zero(t, f.store.Queries())
	assert.Empty(t, f.region.ItemIDs())
}

func TestControllerAddWithDueDate(t *testing.T) {
	f := newControllerFixture(t, "alice")

	require.NoError(t, f.controller.AddItem(context.Background(), "celebrate", "2024-01-01"))

	ids := f.region.ItemIDs()
	require.Len(t, ids, 1)
	assert.Contains(t, f.region.ItemHTML(ids[0]), "Mon, 01 Jan 2024")
}

func TestControllerAddFailureShowsPersistentAffordance(t *testing.T) {
	f := newControllerFixture(t, "alice")
	f.deny = true

	err := f.controller.AddItem(context.Background(), "doomed", "")

	require.Error(t, err)
	assert.True(t, f.region.AddFailed())
	assert.Empty(t, f.region.ItemIDs())
	// The input is left disabled; recovery requires a page reload.
	assert.True(t, f.region.InputDisabled())
}

func TestControllerToggleReplacesFragmentInPlace(t *testing.T) {
	f := newControllerFixture(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.controller.AddItem(ctx, "flip me", ""))
	id := f.region.ItemIDs()[0]
	require.NotContains(t, f.region.ItemHTML(id), "todo-item done")

	require.NoError(t, f.controller.ToggleItem(ctx, id))
	assert.Contains(t, f.region.ItemHTML(id), "todo-item done")

	require.NoError(t, f.controller.ToggleItem(ctx, id))
	assert.NotContains(t, f.region.ItemHTML(id), "todo-item done")
}

func TestControllerToggleDropsStaleUpdate(t *testing.T) {
	f := newControllerFixture(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.controller.AddItem(ctx, "vanishing", ""))
	id := f.region.ItemIDs()[0]

	// Another action removed the fragment while the toggle was in
	// flight; the late response must not resurrect it.
	f.region.RemoveItem(id)

	require.NoError(t, f.controller.ToggleItem(ctx, id))
	assert.False(t, f.region.HasItem(id))
}

func TestControllerDeleteRemovesFragment(t *testing.T) {
	f := newControllerFixture(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.controller.AddItem(ctx, "short-lived", ""))
	id := f.region.ItemIDs()[0]

	require.NoError(t, f.controller.DeleteItem(ctx, id))

	assert.False(t, f.region.HasItem(id))
	assert.Empty(t, f.region.ItemIDs())
}

func TestControllerDeleteFailureLeavesRegionIntact(t *testing.T) {
	f := newControllerFixture(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.controller.AddItem(ctx, "keeper", ""))
	id := f.region.ItemIDs()[0]

	err := f.controller.DeleteItem(ctx, id+1000)

	require.Error(t, err)
	assert.True(t, f.region.HasItem(id))
}

func TestControllerResortReplacesWholeList(t *testing.T) {
	f := newControllerFixture(t, "alice")
	ctx := context.Background()

	require.NoError(t, f.controller.AddItem(ctx, "bananas", ""))
	require.NoError(t, f.controller.AddItem(ctx, "apples", ""))

	require.NoError(t, f.controller.LoadItems(ctx, "todotext"))

	html := f.region.ListHTML()
	assert.Less(t, indexOf(html, "apples"), indexOf(html, "bananas"))
	// Individual fragments are gone, the list is one blob now.
	assert.Empty(t, f.region.ItemIDs())
}

func TestControllerZeroIDIsNoop(t *testing.T) {
	f := newControllerFixture(t, "alice")

	require.NoError(t, f.controller.ToggleItem(context.Background(), 0))
	require.NoError(t, f.controller.DeleteItem(context.Background(), 0))
	assert.Zero(t, f.store.Queries())
}

func epochToTime(epoch *int64) *time.Time {
	if epoch == nil {
		return nil
	}
	t := time.Unix(*epoch, 0).UTC()
	return &t
}

func indexOf(haystack, needle string) int {
	return strings.Index(haystack, needle)
}
