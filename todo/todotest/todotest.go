// Package todotest provides a test suite for todo.Repository implementations.
package todotest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/modernice/todoapi/todo"
)

// RepositoryFactory creates a fresh, empty todo.Repository.
type RepositoryFactory func() todo.Repository

// Option is an option for Run.
type Option func(*config)

type config struct {
	order func([]todo.Todo) []todo.Todo
}

// Order returns an Option that tells the suite in which order the tested
// backend lists todos. The function receives the todos in insertion order and
// must return them in the order the backend is expected to list them. By
// default, insertion order is expected.
func Order(fn func([]todo.Todo) []todo.Todo) Option {
	return func(cfg *config) {
		cfg.order = fn
	}
}

// Run tests a todo.Repository implementation.
func Run(t *testing.T, name string, newRepo RepositoryFactory, opts ...Option) {
	cfg := config{order: func(todos []todo.Todo) []todo.Todo { return todos }}
	for _, opt := range opts {
		opt(&cfg)
	}

	t.Run(name, func(t *testing.T) {
		run(t, "Create", newRepo, cfg, testCreate)
		run(t, "Get", newRepo, cfg, testGet)
		run(t, "Update", newRepo, cfg, testUpdate)
		run(t, "Delete", newRepo, cfg, testDelete)
		run(t, "List", newRepo, cfg, testList)
	})
}

func run(t *testing.T, name string, newRepo RepositoryFactory, cfg config, runner func(*testing.T, RepositoryFactory, config)) {
	t.Run(name, func(t *testing.T) {
		runner(t, newRepo, cfg)
	})
}

func testCreate(t *testing.T, newRepo RepositoryFactory, _ config) {
	ctx := context.Background()
	r := newRepo()

	created, err := r.Create(ctx, "buy milk")
	if err != nil {
		t.Fatalf("Create() failed with %q", err)
	}

	if created.ID == uuid.Nil {
		t.Fatalf("created todo should have an id")
	}

	if created.Text != "buy milk" {
		t.Fatalf("Text should be %q; is %q", "buy milk", created.Text)
	}

	if created.Completed {
		t.Fatalf("created todo should not be completed")
	}

	other, err := r.Create(ctx, "buy milk")
	if err != nil {
		t.Fatalf("Create() failed with %q", err)
	}

	if other.ID == created.ID {
		t.Fatalf("todos should have unique ids; both have %s", created.ID)
	}
}

func testGet(t *testing.T, newRepo RepositoryFactory, _ config) {
	ctx := context.Background()
	r := newRepo()

	if _, err := r.Get(ctx, uuid.New()); !errors.Is(err, todo.ErrNotFound) {
		t.Fatalf("Get() should fail with %q for an unknown id; got %q", todo.ErrNotFound, err)
	}

	created, err := r.Create(ctx, "walk the dog")
	if err != nil {
		t.Fatalf("Create() failed with %q", err)
	}

	fetched, err := r.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() failed with %q", err)
	}

	if !cmp.Equal(created, fetched) {
		t.Fatalf("fetched todo differs from created todo:\n%s", cmp.Diff(created, fetched))
	}
}

func testUpdate(t *testing.T, newRepo RepositoryFactory, _ config) {
	ctx := context.Background()
	r := newRepo()

	if _, err := r.Update(ctx, uuid.New(), todo.Completed(true)); !errors.Is(err, todo.ErrNotFound) {
		t.Fatalf("Update() should fail with %q for an unknown id; got %q", todo.ErrNotFound, err)
	}

	if _, err := r.Update(ctx, uuid.New(), todo.Patch{}); !errors.Is(err, todo.ErrNotFound) {
		t.Fatalf("Update() with an empty patch should fail with %q for an unknown id; got %q", todo.ErrNotFound, err)
	}

	created, err := r.Create(ctx, "buy milk")
	if err != nil {
		t.Fatalf("Create() failed with %q", err)
	}

	updated, err := r.Update(ctx, created.ID, todo.Completed(true))
	if err != nil {
		t.Fatalf("Update() failed with %q", err)
	}

	want := todo.Todo{ID: created.ID, Text: "buy milk", Completed: true}
	if !cmp.Equal(want, updated) {
		t.Fatalf("Update() returned wrong todo:\n%s", cmp.Diff(want, updated))
	}

	updated, err = r.Update(ctx, created.ID, todo.Text("buy oat milk"))
	if err != nil {
		t.Fatalf("Update() failed with %q", err)
	}

	want.Text = "buy oat milk"
	if !cmp.Equal(want, updated) {
		t.Fatalf("Update() returned wrong todo:\n%s", cmp.Diff(want, updated))
	}

	unchanged, err := r.Update(ctx, created.ID, todo.Patch{})
	if err != nil {
		t.Fatalf("Update() with an empty patch failed with %q", err)
	}

	if !cmp.Equal(want, unchanged) {
		t.Fatalf("Update() with an empty patch should not change the todo:\n%s", cmp.Diff(want, unchanged))
	}

	fetched, err := r.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() failed with %q", err)
	}

	if !cmp.Equal(want, fetched) {
		t.Fatalf("updated todo was not persisted:\n%s", cmp.Diff(want, fetched))
	}
}

func testDelete(t *testing.T, newRepo RepositoryFactory, _ config) {
	ctx := context.Background()
	r := newRepo()

	created, err := r.Create(ctx, "buy milk")
	if err != nil {
		t.Fatalf("Create() failed with %q", err)
	}

	if err := r.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() failed with %q", err)
	}

	if _, err := r.Get(ctx, created.ID); !errors.Is(err, todo.ErrNotFound) {
		t.Fatalf("Get() should fail with %q for a deleted todo; got %q", todo.ErrNotFound, err)
	}

	if err := r.Delete(ctx, created.ID); !errors.Is(err, todo.ErrNotFound) {
		t.Fatalf("deleting a deleted todo should fail with %q; got %q", todo.ErrNotFound, err)
	}
}

func testList(t *testing.T, newRepo RepositoryFactory, cfg config) {
	ctx := context.Background()
	r := newRepo()

	all, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List() failed with %q", err)
	}

	if len(all) != 0 {
		t.Fatalf("List() should return no todos for an empty repository; got %d", len(all))
	}

	created := make([]todo.Todo, 5)
	for i := range created {
		if created[i], err = r.Create(ctx, fmt.Sprintf("todo %d", i+1)); err != nil {
			t.Fatalf("Create() failed with %q", err)
		}
	}
	ordered := cfg.order(append([]todo.Todo(nil), created...))

	tests := []struct {
		name string
		opts []todo.ListOption
		want []todo.Todo
	}{
		{name: "all", want: ordered},
		{name: "limit", opts: []todo.ListOption{todo.Limit(2)}, want: ordered[:2]},
		{name: "offset", opts: []todo.ListOption{todo.Offset(3)}, want: ordered[3:]},
		{name: "limit+offset", opts: []todo.ListOption{todo.Limit(2), todo.Offset(1)}, want: ordered[1:3]},
		{name: "zero limit", opts: []todo.ListOption{todo.Limit(0)}, want: []todo.Todo{}},
		{name: "limit beyond end", opts: []todo.ListOption{todo.Limit(10), todo.Offset(4)}, want: ordered[4:]},
		{name: "offset beyond end", opts: []todo.ListOption{todo.Offset(10)}, want: []todo.Todo{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.List(ctx, tt.opts...)
			if err != nil {
				t.Fatalf("List() failed with %q", err)
			}

			if len(got) == 0 && len(tt.want) == 0 {
				return
			}

			if !cmp.Equal(tt.want, got) {
				t.Fatalf("List() returned wrong todos:\n%s", cmp.Diff(tt.want, got))
			}
		})
	}
}
