package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuongNV13/moodle-block-todo/internal/export"
)

func TestRenderItemFragment(t *testing.T) {
	r := NewHTMLRenderer()

	html, err := r.RenderItem(export.ItemViewModel{
		ID:         12,
		Text:       "water the plants",
		DueDate:    "Mon, 01 Jan 2024",
		HasDueDate: true,
	})
	require.NoError(t, err)

	assert.Contains(t, html, `data-item="12"`)
	assert.Contains(t, html, "water the plants")
	assert.Contains(t, html, "Mon, 01 Jan 2024")
	assert.Contains(t, html, `data-control="delete"`)
	assert.NotContains(t, html, " done")
}

func TestRenderItemEscapesText(t *testing.T) {
	r := NewHTMLRenderer()

	html, err := r.RenderItem(export.ItemViewModel{
		ID:   1,
		Text: `<script>alert("x")</script>`,
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
}

func TestRenderItemDoneClass(t *testing.T) {
	r := NewHTMLRenderer()

	html, err := r.RenderItem(export.ItemViewModel{ID: 1, Text: "t", Done: true})
	require.NoError(t, err)

	assert.Contains(t, html, `class="todo-item done"`)
}

func TestRenderListWrapsItems(t *testing.T) {
	r := NewHTMLRenderer()

	html, err := r.RenderList(export.ListViewModel{
		InstanceID: 5,
		Total:      2,
		Items: []export.ItemViewModel{
			{ID: 1, Text: "first"},
			{ID: 2, Text: "second"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, html, `data-instance="5"`)
	assert.Contains(t, html, `data-item="1"`)
	assert.Contains(t, html, `data-item="2"`)
	assert.Less(t, 0, len(html))
}
