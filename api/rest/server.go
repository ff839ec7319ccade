// Package rest exposes a todo.Repository over HTTP.
package rest

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/modernice/todoapi/internal/logging"
	"github.com/modernice/todoapi/todo"
)

// Server is the HTTP handler of the todo API:
//
//	GET    /todos?limit=&offset=
//	POST   /todos
//	GET    /todos/{id}
//	PUT    /todos/{id}
//	DELETE /todos/{id}
//
// Every handler makes exactly one call to the repository. The repository is
// usually a *todo.Handle that is shared by all requests.
type Server struct {
	repo    todo.Repository
	log     *log.Logger
	handler http.Handler
}

// Option is an option for the Server.
type Option func(*Server)

// WithLogger returns an Option that sets the logger of the server. By
// default, nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// New returns the HTTP handler for the given repository.
func New(repo todo.Repository, opts ...Option) *Server {
	s := &Server{repo: repo}
	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logging.Discard()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /todos", s.list)
	mux.HandleFunc("POST /todos", s.create)
	mux.HandleFunc("GET /todos/{id}", s.get)
	mux.HandleFunc("PUT /todos/{id}", s.update)
	mux.HandleFunc("DELETE /todos/{id}", s.delete)

	s.handler = LogRequests(s.log)(mux)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
