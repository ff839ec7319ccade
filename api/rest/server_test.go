package rest_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/modernice/todoapi/api/rest"
	"github.com/modernice/todoapi/backend/memory"
	"github.com/modernice/todoapi/todo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_lifecycle(t *testing.T) {
	srv := newServer(t)

	res := do(t, srv, http.MethodPost, "/todos", `{"text":"buy milk"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created todo.Todo
	decode(t, res, &created)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "buy milk", created.Text)
	assert.False(t, created.Completed)

	path := "/todos/" + created.ID.String()

	res = do(t, srv, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var fetched todo.Todo
	decode(t, res, &fetched)
	assert.Equal(t, created, fetched)

	res = do(t, srv, http.MethodPut, path, `{"completed":true}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var updated todo.Todo
	decode(t, res, &updated)
	assert.Equal(t, todo.Todo{ID: created.ID, Text: "buy milk", Completed: true}, updated)

	res = do(t, srv, http.MethodDelete, path, "")
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Empty(t, body(t, res))

	res = do(t, srv, http.MethodGet, path, "")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Empty(t, body(t, res))

	res = do(t, srv, http.MethodDelete, path, "")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestServer_update_emptyPatch(t *testing.T) {
	srv := newServer(t)

	var created todo.Todo
	decode(t, do(t, srv, http.MethodPost, "/todos", `{"text":"foo"}`), &created)

	res := do(t, srv, http.MethodPut, "/todos/"+created.ID.String(), `{}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var updated todo.Todo
	decode(t, res, &updated)
	assert.Equal(t, created, updated)

	res = do(t, srv, http.MethodPut, "/todos/"+uuid.NewString(), `{}`)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestServer_list_pagination(t *testing.T) {
	srv := newServer(t)

	var created []todo.Todo
	for i := 0; i < 5; i++ {
		var c todo.Todo
		decode(t, do(t, srv, http.MethodPost, "/todos", fmt.Sprintf(`{"text":"todo %d"}`, i)), &c)
		created = append(created, c)
	}

	tests := []struct {
		query string
		want  []todo.Todo
	}{
		{query: "", want: created},
		{query: "?limit=2&offset=1", want: created[1:3]},
		{query: "?limit=2", want: created[:2]},
		{query: "?offset=3", want: created[3:]},
		{query: "?limit=0", want: []todo.Todo{}},
		{query: "?offset=9", want: []todo.Todo{}},
		{query: "?limit=abc&offset=1", want: created},
		{query: "?limit=2&offset=-1", want: created},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res := do(t, srv, http.MethodGet, "/todos"+tt.query, "")
			require.Equal(t, http.StatusOK, res.StatusCode)
			assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

			var got []todo.Todo
			decode(t, res, &got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServer_list_empty(t *testing.T) {
	srv := newServer(t)

	res := do(t, srv, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(body(t, res)))
}

func TestServer_coercion(t *testing.T) {
	srv := newServer(t)

	var created todo.Todo
	decode(t, do(t, srv, http.MethodPost, "/todos", `{"text":"foo"}`), &created)
	path := "/todos/" + created.ID.String()

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		contentType string
		want        int
	}{
		{name: "invalid id", method: http.MethodGet, path: "/todos/123", want: http.StatusBadRequest},
		{name: "invalid id on delete", method: http.MethodDelete, path: "/todos/foo", want: http.StatusBadRequest},
		{name: "missing content type", method: http.MethodPost, path: "/todos", body: `{"text":"foo"}`, contentType: "-", want: http.StatusUnsupportedMediaType},
		{name: "wrong content type", method: http.MethodPost, path: "/todos", body: `{"text":"foo"}`, contentType: "text/plain", want: http.StatusUnsupportedMediaType},
		{name: "content type with charset", method: http.MethodPost, path: "/todos", body: `{"text":"foo"}`, contentType: "application/json; charset=utf-8", want: http.StatusCreated},
		{name: "malformed json", method: http.MethodPost, path: "/todos", body: `{"text":`, want: http.StatusBadRequest},
		{name: "empty body", method: http.MethodPost, path: "/todos", body: ``, want: http.StatusBadRequest},
		{name: "trailing data", method: http.MethodPost, path: "/todos", body: `{"text":"a"} garbage`, want: http.StatusBadRequest},
		{name: "two values", method: http.MethodPost, path: "/todos", body: `{"text":"a"}{"text":"b"}`, want: http.StatusBadRequest},
		{name: "trailing whitespace", method: http.MethodPut, path: path, body: "{\"text\":\"foo\"}\n", want: http.StatusOK},
		{name: "null body on create", method: http.MethodPost, path: "/todos", body: `null`, want: http.StatusUnprocessableEntity},
		{name: "null body on update", method: http.MethodPut, path: path, body: ` null `, want: http.StatusUnprocessableEntity},
		{name: "array body", method: http.MethodPut, path: path, body: `[]`, want: http.StatusUnprocessableEntity},
		{name: "missing text", method: http.MethodPost, path: "/todos", body: `{}`, want: http.StatusUnprocessableEntity},
		{name: "text of wrong type", method: http.MethodPost, path: "/todos", body: `{"text":42}`, want: http.StatusUnprocessableEntity},
		{name: "completed of wrong type", method: http.MethodPut, path: path, body: `{"completed":"yes"}`, want: http.StatusUnprocessableEntity},
		{name: "method not allowed", method: http.MethodPatch, path: path, want: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/lists", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			switch tt.contentType {
			case "":
				req.Header.Set("Content-Type", "application/json")
			case "-":
			default:
				req.Header.Set("Content-Type", tt.contentType)
			}

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	// the todo is unchanged by the rejected update
	var fetched todo.Todo
	decode(t, do(t, srv, http.MethodGet, path, ""), &fetched)
	assert.Equal(t, created, fetched)
}

func newServer(t *testing.T) *rest.Server {
	t.Helper()
	return rest.New(todo.NewHandle(memory.NewTodoRepository()))
}

func do(t *testing.T, srv http.Handler, method, path, payload string) *http.Response {
	t.Helper()

	var r io.Reader
	if payload != "" {
		r = strings.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, r)
	if payload != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	return rec.Result()
}

func decode(t *testing.T, res *http.Response, v any) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(v))
}

func body(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}
