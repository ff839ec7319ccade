package todo

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

var _ Repository = (*Handle)(nil)

// Handle is the shared access point to the active backend. Reads (List, Get)
// hold a shared lock so they can run in parallel; writes (Create, Update,
// Delete) hold an exclusive lock for the whole backend call.
type Handle struct {
	mux  sync.RWMutex
	repo Repository
}

// NewHandle returns a Handle for the given backend.
func NewHandle(repo Repository) *Handle {
	return &Handle{repo: repo}
}

// Repository returns the wrapped backend.
func (h *Handle) Repository() Repository {
	return h.repo
}

func (h *Handle) List(ctx context.Context, opts ...ListOption) ([]Todo, error) {
	h.mux.RLock()
	defer h.mux.RUnlock()
	return h.repo.List(ctx, opts...)
}

func (h *Handle) Get(ctx context.Context, id uuid.UUID) (Todo, error) {
	h.mux.RLock()
	defer h.mux.RUnlock()
	return h.repo.Get(ctx, id)
}

func (h *Handle) Create(ctx context.Context, text string) (Todo, error) {
	h.mux.Lock()
	defer h.mux.Unlock()
	return h.repo.Create(ctx, text)
}

func (h *Handle) Update(ctx context.Context, id uuid.UUID, patch Patch) (Todo, error) {
	h.mux.Lock()
	defer h.mux.Unlock()
	return h.repo.Update(ctx, id, patch)
}

func (h *Handle) Delete(ctx context.Context, id uuid.UUID) error {
	h.mux.Lock()
	defer h.mux.Unlock()
	return h.repo.Delete(ctx, id)
}
