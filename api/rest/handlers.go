package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/modernice/todoapi/todo"
)

type createRequest struct {
	Text *string `json:"text"`
}

type updateRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	todos, err := s.repo.List(detach(r), pagination(r)...)
	if err != nil {
		s.log.Error("list todos", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if todos == nil {
		todos = []todo.Todo{}
	}
	s.writeJSON(w, http.StatusOK, todos)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Text == nil {
		http.Error(w, "missing field `text`", http.StatusUnprocessableEntity)
		return
	}

	t, err := s.repo.Create(detach(r), *req.Text)
	if err != nil {
		s.log.Error("create todo", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusCreated, t)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	t, err := s.repo.Get(detach(r), id)
	if err != nil {
		s.notFound(w, "get todo", id, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if !s.decode(w, r, &req) {
		return
	}

	t, err := s.repo.Update(detach(r), id, todo.Patch{Text: req.Text, Completed: req.Completed})
	if err != nil {
		s.notFound(w, "update todo", id, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.repo.Delete(detach(r), id); err != nil {
		s.notFound(w, "delete todo", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// notFound responds with 404 for every error of get, update and delete. A
// storage failure is indistinguishable from a missing todo for the client;
// only the log tells them apart.
func (s *Server) notFound(w http.ResponseWriter, op string, id uuid.UUID, err error) {
	if !isNotFound(err) {
		s.log.Error(op, "id", id, "err", err)
	}
	w.WriteHeader(http.StatusNotFound)
}

// detach returns the request context without its cancellation, so a storage
// call runs to completion once it has started.
func detach(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid id: "+err.Error(), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// pagination parses the "limit" and "offset" query parameters. If either of
// them is not a non-negative integer, the whole pagination is ignored.
func pagination(r *http.Request) []todo.ListOption {
	q := r.URL.Query()

	var opts []todo.ListOption
	for key, opt := range map[string]func(int) todo.ListOption{
		"limit":  todo.Limit,
		"offset": todo.Offset,
	} {
		if !q.Has(key) {
			continue
		}

		n, err := strconv.Atoi(q.Get(key))
		if err != nil || n < 0 {
			return nil
		}
		opts = append(opts, opt(n))
	}

	return opts
}
