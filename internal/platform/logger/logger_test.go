package logger

import (
	"strings"
	"testing"
)

func TestRedactorValues(t *testing.T) {
	t.Parallel()
	r := &redactor{enabled: true, salt: "pepper"}
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"

	got := r.kvs([]interface{}{
		"api_key", "sk-live",
		"user_id", "7c0e",
		"subject", "Biology",
		"header", jwt,
		"dangling",
	})
	if len(got) != 9 {
		t.Fatalf("kvs length: got=%d want=9", len(got))
	}
	if got[1] != "[REDACTED]" {
		t.Fatalf("api_key: got=%v want=[REDACTED]", got[1])
	}
	if s, _ := got[3].(string); !strings.HasPrefix(s, "hash:") || len(s) != len("hash:")+12 {
		t.Fatalf("user_id: got=%v want hash:<12 hex>", got[3])
	}
	if got[5] != "Biology" {
		t.Fatalf("subject: got=%v want=Biology", got[5])
	}
	if got[7] != "[REDACTED]" {
		t.Fatalf("jwt value: got=%v want=[REDACTED]", got[7])
	}
	if got[8] != "dangling" {
		t.Fatalf("dangling key: got=%v", got[8])
	}
}

func TestRedactorDisabledPassesThrough(t *testing.T) {
	t.Parallel()
	r := &redactor{enabled: false}
	in := []interface{}{"password", "hunter2"}
	got := r.kvs(in)
	if got[1] != "hunter2" {
		t.Fatalf("disabled redactor: got=%v want=hunter2", got[1])
	}
}

func TestRedactorHashIsStable(t *testing.T) {
	t.Parallel()
	r := &redactor{enabled: true, salt: "s"}
	if a, b := r.hash("u1"), r.hash("u1"); a != b {
		t.Fatalf("hash not stable: %q vs %q", a, b)
	}
	if r.hash("u1") == (&redactor{enabled: true, salt: "t"}).hash("u1") {
		t.Fatalf("salt ignored")
	}
}

func TestNopLogger(t *testing.T) {
	t.Parallel()
	l := Nop().With("service", "test")
	l.Info("hello", "token", "x")
	l.Sync()
}
