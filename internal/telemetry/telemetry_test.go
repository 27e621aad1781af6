package telemetry

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{ServiceName: "basket"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestMiddlewareAndClientPropagate(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Setup(context.Background(), Config{ServiceName: "basket", Stdout: true, Writer: &buf})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	var serverTrace trace.TraceID
	srv := httptest.NewServer(Middleware("basket", "/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverTrace = trace.SpanContextFromContext(r.Context()).TraceID()
		w.WriteHeader(http.StatusNoContent)
	})))
	defer srv.Close()

	resp, err := NewHTTPClient(nil).Get(srv.URL + "/api/grocery_lists")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	if !serverTrace.IsValid() {
		t.Error("server span should carry a valid trace id")
	}

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(serverTrace.String())) {
		t.Error("exported spans should include the server trace")
	}
}

func TestMiddlewareSkipsExcludedPaths(t *testing.T) {
	var sc trace.SpanContext
	h := Middleware("basket", "/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc = trace.SpanContextFromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))
	if sc.IsValid() {
		t.Error("/health should not be traced")
	}
}
