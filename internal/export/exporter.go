// Package export maps stored todo items to the view models consumed
// by the template layer. Exporters are pure transforms: no I/O, and
// the input order is preserved exactly.
package export

import (
	"time"

	"github.com/HuongNV13/moodle-block-todo/internal/models"
)

// DueDateFormat is how due dates are displayed. Formatting is done in
// UTC so the shown date is derived from the stored timestamp alone.
const DueDateFormat = "Mon, 02 Jan 2006"

// ItemViewModel is one display entry of the widget list.
type ItemViewModel struct {
	ID         int64  `json:"id"`
	Text       string `json:"todotext"`
	Done       bool   `json:"done"`
	DueDate    string `json:"duedate"`
	HasDueDate bool   `json:"hasduedate"`
	Overdue    bool   `json:"overdue"`
}

// ListViewModel wraps the exported entries with the instance metadata
// the template layer needs.
type ListViewModel struct {
	InstanceID int64           `json:"instanceid"`
	ContextID  int64           `json:"contextid"`
	Total      int             `json:"total"`
	Items      []ItemViewModel `json:"items"`
}

func ExportItem(item *models.TodoItem) ItemViewModel {
	vm := ItemViewModel{
		ID:   item.ID,
		Text: item.Text,
		Done: item.Done,
	}
	if item.DueDate != nil {
		due := item.DueDate.UTC()
		vm.DueDate = due.Format(DueDateFormat)
		vm.HasDueDate = true
		vm.Overdue = !item.Done && due.Before(time.Now().UTC())
	}
	return vm
}

func ExportList(instanceID, contextID int64, items []*models.TodoItem) ListViewModel {
	list := ListViewModel{
		InstanceID: instanceID,
		ContextID:  contextID,
		Total:      len(items),
		Items:      make([]ItemViewModel, 0, len(items)),
	}
	for _, item := range items {
		list.Items = append(list.Items, ExportItem(item))
	}
	return list
}
