package todo

//go:generate mockgen -source=notify.go -destination=./mocks/notify.go

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	// Created is the name of the notification published after a todo was created.
	Created = "todo.created"

	// Updated is the name of the notification published after a todo was updated.
	Updated = "todo.updated"

	// Deleted is the name of the notification published after a todo was deleted.
	Deleted = "todo.deleted"
)

// Notification describes a change to a todo.
type Notification struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Time time.Time `json:"time"`
	Todo Todo      `json:"todo"`
}

// NewNotification returns a notification with the given name for t.
func NewNotification(name string, t Todo) Notification {
	return Notification{
		ID:   uuid.New(),
		Name: name,
		Time: time.Now(),
		Todo: t,
	}
}

// A Notifier publishes notifications about changed todos.
type Notifier interface {
	Notify(context.Context, Notification) error
}

// NotifyOption is an option for Notify.
type NotifyOption func(*notifyingRepository)

// OnNotifyError returns a NotifyOption that calls fn for every notification
// that could not be published.
func OnNotifyError(fn func(Notification, error)) NotifyOption {
	return func(r *notifyingRepository) {
		r.onError = fn
	}
}

type notifyingRepository struct {
	Repository

	n       Notifier
	onError func(Notification, error)
}

// Notify returns a Repository that publishes a notification through n after
// every successful Create, Update and Delete on repo. A failed publish never
// changes the result of the repository call.
func Notify(repo Repository, n Notifier, opts ...NotifyOption) Repository {
	r := &notifyingRepository{Repository: repo, n: n}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *notifyingRepository) Create(ctx context.Context, text string) (Todo, error) {
	t, err := r.Repository.Create(ctx, text)
	if err != nil {
		return t, err
	}
	r.notify(ctx, Created, t)
	return t, nil
}

func (r *notifyingRepository) Update(ctx context.Context, id uuid.UUID, patch Patch) (Todo, error) {
	t, err := r.Repository.Update(ctx, id, patch)
	if err != nil {
		return t, err
	}
	r.notify(ctx, Updated, t)
	return t, nil
}

func (r *notifyingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.notify(ctx, Deleted, Todo{ID: id})
	return nil
}

func (r *notifyingRepository) notify(ctx context.Context, name string, t Todo) {
	n := NewNotification(name, t)
	if err := r.n.Notify(ctx, n); err != nil && r.onError != nil {
		r.onError(n, err)
	}
}
