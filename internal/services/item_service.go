package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/HuongNV13/moodle-block-todo/internal/models"
)

type itemServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewItemService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) ItemService {
	return &itemServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

// orderClauses maps each allow-listed sort key to a fixed ORDER BY
// clause. Created date lists newest first, due dates soonest first
// with undated items last, text alphabetically.
var orderClauses = map[SortKey]string{
	SortByCreatedDate: "created_at DESC",
	SortByDueDate:     "due_date ASC NULLS LAST, created_at DESC",
	SortByText:        "lower(todotext) ASC",
}

func (s *itemServiceImpl) ListItems(ctx context.Context, ownerID string, key SortKey) ([]*models.TodoItem, error) {
	orderBy, ok := orderClauses[key]
	if !ok {
		s.logger.Error().
			Str("sort", string(key)).
			Msg("rejected unknown sort key")
		return nil, ErrInvalidSortKey
	}

	const selectItemsQuery = `
SELECT id,
       todotext,
       done,
       created_at,
       due_date
FROM todo_items
WHERE user_id = $1
ORDER BY `
	rows, err := s.pgPool.Query(
		ctx,
		selectItemsQuery+orderBy,
		ownerID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select todo items")
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.TodoItem, 0)
	for rows.Next() {
		item := &models.TodoItem{OwnerID: ownerID}
		err = rows.Scan(
			&item.ID,
			&item.Text,
			&item.Done,
			&item.CreatedAt,
			&item.DueDate,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan todo item")
			return nil, err
		}
		items = append(items, item)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(items)).
		Str("user_id", ownerID).
		Str("sort", string(key)).
		Msg("listed todo items")
	return items, nil
}

func (s *itemServiceImpl) CreateItem(ctx context.Context, ownerID, text string, dueDate *time.Time) (*models.TodoItem, error) {
	if text == "" {
		return nil, ErrEmptyItemText
	}

	item := &models.TodoItem{
		OwnerID:   ownerID,
		Text:      text,
		Done:      false,
		CreatedAt: time.Now(),
		DueDate:   dueDate,
	}

	const insertItemQuery = `
INSERT INTO todo_items (user_id,
                        todotext,
                        done,
                        created_at,
                        due_date)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertItemQuery,
		item.OwnerID,
		item.Text,
		item.Done,
		item.CreatedAt,
		item.DueDate,
	).Scan(&item.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert todo item")
		return nil, err
	}

	s.logger.Info().
		Int64("item_id", item.ID).
		Str("user_id", ownerID).
		Msg("created todo item")
	return item, nil
}

func (s *itemServiceImpl) ToggleItem(ctx context.Context, ownerID string, id int64) (*models.TodoItem, error) {
	item := &models.TodoItem{
		ID:      id,
		OwnerID: ownerID,
	}

	const toggleItemQuery = `
UPDATE todo_items
SET done = NOT done
WHERE id = $1 AND user_id = $2
RETURNING todotext, done, created_at, due_date
`
	err := s.pgPool.QueryRow(
		ctx,
		toggleItemQuery,
		item.ID,
		item.OwnerID,
	).Scan(
		&item.Text,
		&item.Done,
		&item.CreatedAt,
		&item.DueDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Int64("item_id", id).
				Str("user_id", ownerID).
				Msg("todo item not found")
			return nil, ErrItemNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("item_id", id).
			Msg("failed to toggle todo item")
		return nil, err
	}

	s.logger.Info().
		Int64("item_id", item.ID).
		Bool("done", item.Done).
		Msg("toggled todo item")
	return item, nil
}

func (s *itemServiceImpl) DeleteItem(ctx context.Context, ownerID string, id int64) error {
	const deleteItemQuery = `
DELETE FROM todo_items
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteItemQuery,
		id,
		ownerID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("item_id", id).
			Msg("failed to delete todo item")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Int64("item_id", id).
			Str("user_id", ownerID).
			Msg("todo item not found")
		return ErrItemNotFound
	}

	s.logger.Info().
		Int64("item_id", id).
		Str("user_id", ownerID).
		Msg("deleted todo item")
	return nil
}
