package client

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/HuongNV13/moodle-block-todo/internal/render"
	"github.com/HuongNV13/moodle-block-todo/internal/services"
)

// placeholderHint replaces the add-form placeholder when the user
// submits empty text.
const placeholderHint = "Write something here first"

// Controller wires one widget instance: user actions in, RPC calls
// out, rendered fragments back into the region. Actions are
// independent and re-entrant; each failure is terminal for that
// action instance and never retried.
type Controller struct {
	logger     zerolog.Logger
	api        *Client
	renderer   render.Renderer
	region     Region
	instanceID int64
	contextID  int64
}

func NewController(
	logger zerolog.Logger,
	api *Client,
	renderer render.Renderer,
	region Region,
	instanceID, contextID int64,
) *Controller {
	return &Controller{
		logger:     logger,
		api:        api,
		renderer:   renderer,
		region:     region,
		instanceID: instanceID,
		contextID:  contextID,
	}
}

// Init performs the initial load of the instance, newest first.
func (c *Controller) Init(ctx context.Context) error {
	c.logger.Debug().
		Int64("instance_id", c.instanceID).
		Msg("initializing todo widget instance")
	return c.LoadItems(ctx, string(services.SortByCreatedDate))
}

// LoadItems fetches the full list with the given sort key and
// replaces the region content. This is also the resort path: ordering
// is recomputed server-side on every call, nothing is persisted.
func (c *Controller) LoadItems(ctx context.Context, sortBy string) error {
	list, err := c.api.GetItems(ctx, c.instanceID, c.contextID, sortBy)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("sort", sortBy).
			Msg("unable to fetch the items")
		return err
	}

	html, err := c.renderer.RenderList(list)
	if err != nil {
		c.logger.Error().
			Err(err).
			Msg("unable to render the items")
		return err
	}

	c.region.SetList(html)
	return nil
}

// AddItem submits a new todo item. Empty text never leaves the
// client: the placeholder hint is updated instead. The text input is
// disabled while the call is in flight; on failure the submit
// affordance switches to its danger state and stays there.
func (c *Controller) AddItem(ctx context.Context, text, dueInput string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		c.region.SetPlaceholder(placeholderHint)
		return nil
	}

	var dueDate *int64
	if due := strings.TrimSpace(dueInput); due != "" {
		epoch, err := parseDueInput(due)
		if err != nil {
			c.logger.Error().
				Err(err).
				Str("input", due).
				Msg("unable to parse the due date")
			return err
		}
		dueDate = &epoch
	}

	c.region.SetInputDisabled(true)

	item, err := c.api.AddItem(ctx, text, dueDate)
	if err != nil {
		c.logger.Error().
			Err(err).
			Msg("unable to add the item")
		c.region.ShowAddFailure()
		return err
	}

	html, err := c.renderer.RenderItem(item)
	if err != nil {
		c.logger.Error().
			Err(err).
			Msg("unable to render the new item")
		c.region.ShowAddFailure()
		return err
	}

	c.region.PrependItem(item.ID, html)
	c.region.SetInputDisabled(false)
	return nil
}

// ToggleItem flips the done state of the item and re-renders its
// fragment in place. The call is bound to the item id; if the
// fragment vanished while the call was in flight, the response is
// dropped instead of resurrecting the node.
func (c *Controller) ToggleItem(ctx context.Context, id int64) error {
	if id == 0 {
		return nil
	}

	item, err := c.api.ToggleItem(ctx, id)
	if err != nil {
		c.logger.Error().
			Err(err).
			Int64("item_id", id).
			Msg("unable to toggle the item")
		return err
	}

	html, err := c.renderer.RenderItem(item)
	if err != nil {
		c.logger.Error().
			Err(err).
			Msg("unable to render the item")
		return err
	}

	if !c.region.HasItem(id) {
		c.logger.Debug().
			Int64("item_id", id).
			Msg("item fragment is gone, dropping the update")
		return nil
	}
	c.region.ReplaceItem(id, html)
	return nil
}

// DeleteItem removes the item and its fragment.
func (c *Controller) DeleteItem(ctx context.Context, id int64) error {
	if id == 0 {
		return nil
	}

	deletedID, err := c.api.DeleteItem(ctx, id)
	if err != nil {
		c.logger.Error().
			Err(err).
			Int64("item_id", id).
			Msg("unable to delete the item")
		return err
	}

	c.region.RemoveItem(deletedID)
	return nil
}

// parseDueInput accepts either a calendar date or raw epoch seconds
// and returns epoch seconds.
func parseDueInput(input string) (int64, error) {
	t, err := time.Parse("2006-01-02", input)
	if err == nil {
		return t.Unix(), nil
	}
	return strconv.ParseInt(input, 10, 64)
}
