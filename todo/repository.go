package todo

//go:generate mockgen -source=repository.go -destination=./mocks/repository.go

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the storage contract for todos. Implementations return an
// error that unwraps to ErrNotFound when a todo does not exist. Any other
// error is a storage failure.
type Repository interface {
	// List returns the stored todos in the order defined by the backend.
	List(ctx context.Context, opts ...ListOption) ([]Todo, error)

	// Get returns the todo with the given id.
	Get(ctx context.Context, id uuid.UUID) (Todo, error)

	// Create stores a new, uncompleted todo with the given text and a
	// generated id and returns it.
	Create(ctx context.Context, text string) (Todo, error)

	// Update applies the patch to the todo with the given id and returns the
	// updated todo.
	Update(ctx context.Context, id uuid.UUID, patch Patch) (Todo, error)

	// Delete deletes the todo with the given id.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListOption is an option for Repository.List.
type ListOption func(*ListOptions)

// ListOptions are the resolved options of a List call.
type ListOptions struct {
	// Offset is the number of todos to skip.
	Offset int

	limit   int
	limited bool
}

// Limit returns a ListOption that caps the number of returned todos at n.
// Negative values are treated as zero.
func Limit(n int) ListOption {
	if n < 0 {
		n = 0
	}
	return func(o *ListOptions) {
		o.limit = n
		o.limited = true
	}
}

// Offset returns a ListOption that skips the first n todos. Negative values
// are treated as zero.
func Offset(n int) ListOption {
	if n < 0 {
		n = 0
	}
	return func(o *ListOptions) {
		o.Offset = n
	}
}

// NewListOptions resolves the given options.
func NewListOptions(opts ...ListOption) ListOptions {
	var o ListOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Limit returns the configured limit and whether a limit was set at all.
func (o ListOptions) Limit() (int, bool) {
	return o.limit, o.limited
}

// Window returns the [start, end) bounds of the page within a sequence of
// length n.
func (o ListOptions) Window(n int) (start, end int) {
	start = o.Offset
	if start > n {
		start = n
	}

	end = n
	if o.limited && o.limit < end-start {
		end = start + o.limit
	}

	return start, end
}
