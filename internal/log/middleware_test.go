package log

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Handler: slog.NewTextHandler(&buf, nil)})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Middleware(logger, next)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/report", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, handler response was altered", w.Code)
	}
	if id := w.Header().Get("X-Request-Id"); !strings.HasPrefix(id, "req_") {
		t.Errorf("X-Request-Id = %q", id)
	}

	line := buf.String()
	for _, want := range []string{"status_code=418", "method=GET", "path=/api/report", "component=http", "request_id=req_"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
}

func TestMiddlewareDefaultsStatusOK(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Handler: slog.NewTextHandler(&buf, nil)})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	w := httptest.NewRecorder()
	Middleware(logger, next).ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	if !strings.Contains(buf.String(), "status_code=200") {
		t.Errorf("implicit status not recorded: %s", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Handler: slog.NewTextHandler(&buf, nil)})

	logger.WithComponent(ComponentLedger).Info("Something happened")
	if !strings.Contains(buf.String(), "component=ledger") {
		t.Errorf("component tag missing: %s", buf.String())
	}
}
