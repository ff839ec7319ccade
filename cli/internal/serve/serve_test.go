package serve_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/modernice/todoapi/cli/internal/serve"
	"github.com/modernice/todoapi/internal/logging"
)

func TestServe(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	errs := make(chan error, 1)
	go func() { errs <- serve.Serve(ctx, lis, h, logging.Discard()) }()

	res, err := http.Get("http://" + lis.Addr().String())
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("status should be %d; is %d", http.StatusNoContent, res.StatusCode)
	}

	cancel()

	select {
	case err := <-errs:
		if err != nil {
			t.Fatalf("Serve() should return nil after a graceful shutdown; got %q", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Serve() did not return after the context was canceled")
	}
}
