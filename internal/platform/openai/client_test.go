package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/mindmap-backend/internal/platform/logger"
)

var testSchema = map[string]any{"type": "object"}

func newTestClient(t *testing.T, srv *httptest.Server, cfg Config) *client {
	t.Helper()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL
	c, err := NewClient(logger.Nop(), cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	cc := c.(*client)
	cc.backoff = time.Millisecond
	return cc
}

func writeOutput(w http.ResponseWriter, text string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"output": []any{map[string]any{
			"type": "message",
			"role": "assistant",
			"content": []any{
				map[string]any{"type": "output_text", "text": text},
			},
		}},
		"usage": map[string]any{"input_tokens": 10, "output_tokens": 4},
	})
}

func TestGenerateJSONSendsSchemaAndParsesOutput(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("path: got=%s want=/v1/responses", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header: got=%q", got)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		format, _ := body["text"].(map[string]any)["format"].(map[string]any)
		if format["name"] != "mind_map" || format["type"] != "json_schema" {
			t.Errorf("format: got=%v", format)
		}
		writeOutput(w, `{"central_node":{"title":"Biology"}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{Model: "m1"})
	obj, err := c.GenerateJSON(context.Background(), "sys", "user", "mind_map", testSchema)
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	central, _ := obj["central_node"].(map[string]any)
	if central["title"] != "Biology" {
		t.Fatalf("GenerateJSON: got=%v", obj)
	}
}

func TestGenerateJSONRetriesServerErrors(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeOutput(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{MaxRetries: 3})
	if _, err := c.GenerateJSON(context.Background(), "s", "u", "x", testSchema); err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("calls: got=%d want=3", got)
	}
}

func TestGenerateJSONDoesNotRetryBadRequest(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":"bad"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{MaxRetries: 3})
	_, err := c.GenerateJSON(context.Background(), "s", "u", "x", testSchema)
	var he *httpError
	if !errors.As(err, &he) || he.StatusCode != http.StatusBadRequest {
		t.Fatalf("GenerateJSON: got=%v want http 400", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls: got=%d want=1", got)
	}
}

func TestCircuitOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{Breaker: BreakerConfig{
		MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureThreshold: 0.5, MinRequests: 2,
	}})
	for i := 0; i < 2; i++ {
		if _, err := c.GenerateJSON(context.Background(), "s", "u", "x", testSchema); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	_, err := c.GenerateJSON(context.Background(), "s", "u", "x", testSchema)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("third call: got=%v want ErrCircuitOpen", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("upstream calls: got=%d want=2", got)
	}
}

func TestGenerateJSONRefusal(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"output": []any{map[string]any{
				"type":    "message",
				"content": []any{map[string]any{"type": "refusal", "refusal": "no"}},
			}},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, Config{})
	if _, err := c.GenerateJSON(context.Background(), "s", "u", "x", testSchema); err == nil {
		t.Fatalf("expected refusal error")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Parallel()
	if _, err := NewClient(logger.Nop(), Config{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("NewClient: got=%v want ErrMissingAPIKey", err)
	}
}
