package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/modernice/todoapi/todo"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "err", err)
	}
}

// decode reads the JSON request body into v. Wrong content types are rejected
// with 415. Syntax errors and trailing data after the value are rejected with
// 400, bodies of the wrong shape (including a literal null) with 422.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		http.Error(w, "expected request with `Content-Type: application/json`", http.StatusUnsupportedMediaType)
		return false
	}

	dec := json.NewDecoder(r.Body)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		http.Error(w, "failed to parse the request body as JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		http.Error(w, "failed to parse the request body as JSON: trailing characters", http.StatusBadRequest)
		return false
	}

	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		http.Error(w, "failed to deserialize the JSON body: expected an object, got null", http.StatusUnprocessableEntity)
		return false
	}

	err := json.Unmarshal(raw, v)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		http.Error(w, "failed to deserialize the JSON body: "+err.Error(), http.StatusUnprocessableEntity)
		return false
	}

	http.Error(w, "failed to parse the request body as JSON: "+err.Error(), http.StatusBadRequest)
	return false
}

func isNotFound(err error) bool {
	return errors.Is(err, todo.ErrNotFound)
}
