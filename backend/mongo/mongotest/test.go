// Package mongotest provides helpers for tests against a MongoDB server.
package mongotest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/modernice/todoapi/backend/mongo"
)

// NewTodoRepository returns a TodoRepository from the given Options, but adds
// an Option that ensures a unique database name for every call to
// NewTodoRepository during the current process.
func NewTodoRepository(opts ...mongo.Option) *mongo.TodoRepository {
	return mongo.NewTodoRepository(append(
		[]mongo.Option{mongo.Database(UniqueName("todo_"))},
		opts...,
	)...)
}

// UniqueName generates a unique string by appending a random hexadecimal
// string to the provided prefix. It panics if the random source fails.
func UniqueName(prefix string) string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	id := hex.EncodeToString(b)
	return fmt.Sprintf("%s%s", prefix, id)
}
