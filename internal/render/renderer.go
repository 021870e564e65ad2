// Package render turns exported view models into opaque HTML
// fragments. Callers never inspect the markup, they only splice it
// into the page.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/HuongNV13/moodle-block-todo/internal/export"
)

// Renderer maps a typed view model to a markup string.
type Renderer interface {
	RenderItem(vm export.ItemViewModel) (string, error)
	RenderList(vm export.ListViewModel) (string, error)
}

const itemTemplate = `<li data-item="{{.ID}}" class="todo-item{{if .Done}} done{{end}}{{if .Overdue}} overdue{{end}}">
<span class="todo-text">{{.Text}}</span>
{{- if .HasDueDate}}
<span class="todo-duedate">{{.DueDate}}</span>
{{- end}}
<a href="#" data-control="delete" title="Delete"><i class="fa fa-trash" aria-hidden="true"></i></a>
</li>`

const listTemplate = `<ul class="todo-items" data-instance="{{.InstanceID}}">
{{- range .Items}}
{{template "item" .}}
{{- end}}
</ul>`

type htmlRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer builds the Renderer over the embedded fragment
// templates.
func NewHTMLRenderer() Renderer {
	tmpl := template.Must(template.New("item").Parse(itemTemplate))
	template.Must(tmpl.New("list").Parse(listTemplate))
	return &htmlRenderer{tmpl: tmpl}
}

func (r *htmlRenderer) RenderItem(vm export.ItemViewModel) (string, error) {
	var sb strings.Builder
	err := r.tmpl.ExecuteTemplate(&sb, "item", vm)
	if err != nil {
		return "", fmt.Errorf("failed to render item fragment: %w", err)
	}
	return sb.String(), nil
}

func (r *htmlRenderer) RenderList(vm export.ListViewModel) (string, error) {
	var sb strings.Builder
	err := r.tmpl.ExecuteTemplate(&sb, "list", vm)
	if err != nil {
		return "", fmt.Errorf("failed to render list fragment: %w", err)
	}
	return sb.String(), nil
}
