package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HuongNV13/moodle-block-todo/internal/export"
	"github.com/HuongNV13/moodle-block-todo/internal/services"
)

// requireWidgetAccess builds the request context for one widget RPC:
// it resolves the caller's own context and runs the capability check
// against it. On failure the request is aborted with a generic
// response that reveals nothing about other users' data.
func (h *handlerImpl) requireWidgetAccess(c *gin.Context) (services.RequestContext, bool) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return services.RequestContext{}, false
	}

	contextID, err := h.contexts.ResolveUserContext(c, userID)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to resolve caller context")
		abort(c, newForbiddenError())
		return services.RequestContext{}, false
	}

	granted, err := h.authorizer.CanManage(c, userID, contextID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("capability check failed")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return services.RequestContext{}, false
	}
	if !granted {
		h.logger.Warn().
			Str("user_id", userID).
			Msg("widget capability denied")
		abort(c, newForbiddenError())
		return services.RequestContext{}, false
	}

	return services.RequestContext{UserID: userID, ContextID: contextID}, true
}

type getItemsRequest struct {
	InstanceID int64  `json:"instanceid" binding:"required"`
	ContextID  int64  `json:"contextid" binding:"required"`
	Sort       string `json:"sort" binding:"required"`
}

func (h *handlerImpl) HandleGetItems(c *gin.Context) {
	rc, ok := h.requireWidgetAccess(c)
	if !ok {
		return
	}

	var req getItemsRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	// The sort key is validated before any store access happens.
	sortKey, err := services.ParseSortKey(req.Sort)
	if err != nil {
		h.logger.Warn().
			Str("sort", req.Sort).
			Msg("invalid sort key")
		abort(c, newBadRequestError(services.ErrInvalidSortKey.Error()))
		return
	}

	items, err := h.items.ListItems(c, rc.UserID, sortKey)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list todo items")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().
		Int("count", len(items)).
		Str("sort", string(sortKey)).
		Msg("fetched todo items")
	c.JSON(http.StatusOK, export.ExportList(req.InstanceID, req.ContextID, items))
}

type addItemRequest struct {
	Text    string `json:"todotext" binding:"required"`
	DueDate *int64 `json:"duedate"`
}

func (h *handlerImpl) HandleAddItem(c *gin.Context) {
	rc, ok := h.requireWidgetAccess(c)
	if !ok {
		return
	}

	var req addItemRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	// The client trims before submitting, but the contract still
	// requires non-empty text server-side.
	text := strings.TrimSpace(req.Text)
	if text == "" {
		abort(c, newBadRequestError(services.ErrEmptyItemText.Error()))
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		if *req.DueDate < 0 {
			abort(c, newBadRequestError("invalid due date"))
			return
		}
		due := time.Unix(*req.DueDate, 0).UTC()
		dueDate = &due
	}

	item, err := h.items.CreateItem(c, rc.UserID, text, dueDate)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create todo item")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().
		Int64("item_id", item.ID).
		Msg("added todo item")
	c.JSON(http.StatusOK, export.ExportItem(item))
}

type itemIDRequest struct {
	ID int64 `json:"id" binding:"required"`
}

func (h *handlerImpl) HandleToggleItem(c *gin.Context) {
	rc, ok := h.requireWidgetAccess(c)
	if !ok {
		return
	}

	var req itemIDRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	item, err := h.items.ToggleItem(c, rc.UserID, req.ID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			abort(c, newNotFoundError(services.ErrItemNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to toggle todo item")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().
		Int64("item_id", item.ID).
		Bool("done", item.Done).
		Msg("toggled todo item")
	c.JSON(http.StatusOK, export.ExportItem(item))
}

type deleteItemResponse struct {
	ID int64 `json:"id"`
}

func (h *handlerImpl) HandleDeleteItem(c *gin.Context) {
	rc, ok := h.requireWidgetAccess(c)
	if !ok {
		return
	}

	var req itemIDRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	err = h.items.DeleteItem(c, rc.UserID, req.ID)
	if err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			abort(c, newNotFoundError(services.ErrItemNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to delete todo item")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().
		Int64("item_id", req.ID).
		Msg("deleted todo item")
	c.JSON(http.StatusOK, deleteItemResponse{ID: req.ID})
}
