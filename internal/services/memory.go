package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/HuongNV13/moodle-block-todo/internal/models"
)

// MemoryItemService is an ItemService backed by a map. It backs the
// delivery and client tests and local runs without postgres. Queries
// returns how many store operations actually executed, which lets
// tests assert that a rejected request never touched the store.
type MemoryItemService struct {
	mu      sync.Mutex
	nextID  int64
	items   map[int64]*models.TodoItem
	queries int
}

func NewMemoryItemService() *MemoryItemService {
	return &MemoryItemService{
		nextID: 1,
		items:  make(map[int64]*models.TodoItem),
	}
}

func (s *MemoryItemService) Queries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries
}

func (s *MemoryItemService) ListItems(_ context.Context, ownerID string, key SortKey) ([]*models.TodoItem, error) {
	if _, ok := orderClauses[key]; !ok {
		return nil, ErrInvalidSortKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++

	items := make([]*models.TodoItem, 0)
	for _, item := range s.items {
		if item.OwnerID == ownerID {
			clone := *item
			items = append(items, &clone)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch key {
		case SortByDueDate:
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return newestFirst(a, b)
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			case !a.DueDate.Equal(*b.DueDate):
				return a.DueDate.Before(*b.DueDate)
			default:
				return newestFirst(a, b)
			}
		case SortByText:
			return strings.ToLower(a.Text) < strings.ToLower(b.Text)
		default:
			return newestFirst(a, b)
		}
	})

	return items, nil
}

// newestFirst breaks created-at ties by id so rapid inserts still
// order deterministically.
func newestFirst(a, b *models.TodoItem) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (s *MemoryItemService) CreateItem(_ context.Context, ownerID, text string, dueDate *time.Time) (*models.TodoItem, error) {
	if text == "" {
		return nil, ErrEmptyItemText
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++

	item := &models.TodoItem{
		ID:        s.nextID,
		OwnerID:   ownerID,
		Text:      text,
		Done:      false,
		CreatedAt: time.Now(),
		DueDate:   dueDate,
	}
	s.nextID++
	s.items[item.ID] = item

	clone := *item
	return &clone, nil
}

func (s *MemoryItemService) ToggleItem(_ context.Context, ownerID string, id int64) (*models.TodoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++

	item, ok := s.items[id]
	if !ok || item.OwnerID != ownerID {
		return nil, ErrItemNotFound
	}
	item.Done = !item.Done

	clone := *item
	return &clone, nil
}

func (s *MemoryItemService) DeleteItem(_ context.Context, ownerID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++

	item, ok := s.items[id]
	if !ok || item.OwnerID != ownerID {
		return ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}
