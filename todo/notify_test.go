package todo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/modernice/todoapi/backend/memory"
	"github.com/modernice/todoapi/todo"
	mock_todo "github.com/modernice/todoapi/todo/mocks"
)

func TestNotify(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mock_todo.NewMockNotifier(ctrl)

	repo := todo.Notify(memory.NewTodoRepository(), n)
	ctx := context.Background()

	var created todo.Todo
	n.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, note todo.Notification) error {
		if note.Name != todo.Created {
			t.Fatalf("notification should be named %q; is %q", todo.Created, note.Name)
		}
		if note.ID == uuid.Nil {
			t.Fatalf("notification should have an id")
		}
		created = note.Todo
		return nil
	})

	c, err := repo.Create(ctx, "foo")
	if err != nil {
		t.Fatalf("Create() failed with %q", err)
	}

	if created != c {
		t.Fatalf("notification should carry the created todo %+v; got %+v", c, created)
	}

	n.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, note todo.Notification) error {
		if note.Name != todo.Updated || !note.Todo.Completed {
			t.Fatalf("unexpected notification: %+v", note)
		}
		return nil
	})

	if _, err := repo.Update(ctx, c.ID, todo.Completed(true)); err != nil {
		t.Fatalf("Update() failed with %q", err)
	}

	n.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, note todo.Notification) error {
		if note.Name != todo.Deleted || note.Todo.ID != c.ID {
			t.Fatalf("unexpected notification: %+v", note)
		}
		return nil
	})

	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete() failed with %q", err)
	}

	// failed calls don't notify
	if err := repo.Delete(ctx, c.ID); !errors.Is(err, todo.ErrNotFound) {
		t.Fatalf("Delete() should fail with %q; got %q", todo.ErrNotFound, err)
	}

	if _, err := repo.Update(ctx, c.ID, todo.Text("bar")); !errors.Is(err, todo.ErrNotFound) {
		t.Fatalf("Update() should fail with %q; got %q", todo.ErrNotFound, err)
	}
}

func TestOnNotifyError(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mock_todo.NewMockNotifier(ctrl)

	mockError := errors.New("mock error")
	var handled error
	repo := todo.Notify(memory.NewTodoRepository(), n, todo.OnNotifyError(func(_ todo.Notification, err error) {
		handled = err
	}))

	n.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(mockError)

	if _, err := repo.Create(context.Background(), "foo"); err != nil {
		t.Fatalf("a failed notification should not fail Create(); got %q", err)
	}

	if !errors.Is(handled, mockError) {
		t.Fatalf("error handler should receive %q; got %q", mockError, handled)
	}
}
