package models

import "time"

// TodoItem is one row of the todo_items table. An item belongs to
// exactly one user and is never re-parented.
type TodoItem struct {
	ID        int64
	OwnerID   string
	Text      string
	Done      bool
	CreatedAt time.Time
	DueDate   *time.Time
}
