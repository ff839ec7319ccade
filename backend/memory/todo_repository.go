// Package memory provides an in-memory todo repository.
package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modernice/todoapi/todo"
	"golang.org/x/exp/slices"
)

var _ todo.Repository = (*TodoRepository)(nil)

// TodoRepository is an in-memory todo repository. Todos are listed in
// insertion order. TodoRepository does not synchronize access on its own; use
// it through a *todo.Handle when it is shared between goroutines.
type TodoRepository struct {
	todos map[uuid.UUID]todo.Todo
	order []uuid.UUID
}

// NewTodoRepository returns an empty in-memory todo repository.
func NewTodoRepository() *TodoRepository {
	return &TodoRepository{todos: make(map[uuid.UUID]todo.Todo)}
}

// List returns the stored todos in insertion order.
func (r *TodoRepository) List(_ context.Context, opts ...todo.ListOption) ([]todo.Todo, error) {
	start, end := todo.NewListOptions(opts...).Window(len(r.order))

	out := make([]todo.Todo, 0, end-start)
	for _, id := range r.order[start:end] {
		out = append(out, r.todos[id])
	}

	return out, nil
}

// Get returns the todo with the given id.
func (r *TodoRepository) Get(_ context.Context, id uuid.UUID) (todo.Todo, error) {
	t, ok := r.todos[id]
	if !ok {
		return t, fmt.Errorf("%w [id=%s]", todo.ErrNotFound, id)
	}
	return t, nil
}

// Create stores a new todo with the given text.
func (r *TodoRepository) Create(_ context.Context, text string) (todo.Todo, error) {
	t := todo.New(text)
	r.todos[t.ID] = t
	r.order = append(r.order, t.ID)
	return t, nil
}

// Update applies the patch to the todo with the given id.
func (r *TodoRepository) Update(ctx context.Context, id uuid.UUID, patch todo.Patch) (todo.Todo, error) {
	t, err := r.Get(ctx, id)
	if err != nil {
		return t, err
	}

	t = patch.Apply(t)
	r.todos[id] = t

	return t, nil
}

// Delete deletes the todo with the given id.
func (r *TodoRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.todos[id]; !ok {
		return fmt.Errorf("%w [id=%s]", todo.ErrNotFound, id)
	}

	delete(r.todos, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}

	return nil
}
