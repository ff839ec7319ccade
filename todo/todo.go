// Package todo provides the todo model, the storage contract that backends
// implement, and the lock-guarded Handle that the HTTP layer uses to access
// the active backend.
package todo

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when a todo cannot be found.
var ErrNotFound = errors.New("todo not found")

// Todo is a single todo item. The ID is assigned exactly once, when the todo
// is created, and never changes afterwards.
type Todo struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
}

// New returns a new, uncompleted todo with a freshly generated id.
func New(text string) Todo {
	return Todo{
		ID:   uuid.New(),
		Text: text,
	}
}

// Patch is a partial update of a todo. Nil fields are left unchanged.
type Patch struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Text returns a Patch that sets the text of a todo.
func Text(text string) Patch {
	return Patch{Text: &text}
}

// Completed returns a Patch that sets the completion flag of a todo.
func Completed(completed bool) Patch {
	return Patch{Completed: &completed}
}

// Empty returns whether the patch would not change anything.
func (p Patch) Empty() bool {
	return p.Text == nil && p.Completed == nil
}

// Apply returns t with the fields of the patch applied.
func (p Patch) Apply(t Todo) Todo {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}
