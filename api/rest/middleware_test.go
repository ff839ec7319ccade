package rest_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modernice/todoapi/api/rest"
	"github.com/modernice/todoapi/internal/logging"
)

func TestLogRequests(t *testing.T) {
	var logs bytes.Buffer
	h := rest.LogRequests(logging.New(&logs, "debug"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/todos", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("middleware should not change the status; got %d", rec.Code)
	}

	out := logs.String()
	for _, want := range []string{"method=GET", "path=/todos", "status=418"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output should contain %q; got %q", want, out)
		}
	}
}
