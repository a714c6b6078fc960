package logger

import (
	"strings"
	"testing"
)

func TestSanitizeRedactsSecrets(t *testing.T) {
	out := sanitize([]interface{}{"refresh_token", "abc", "password", "pw", "technician_id", 7})
	if out[1] != "[REDACTED]" || out[3] != "[REDACTED]" {
		t.Fatalf("expected secrets redacted, got %v", out)
	}
	if out[5] != 7 {
		t.Fatalf("expected plain value kept, got %v", out[5])
	}
}

func TestSanitizeHashesHandle(t *testing.T) {
	out := sanitize([]interface{}{"handle", "ana"})
	s, ok := out[1].(string)
	if !ok || !strings.HasPrefix(s, "hash:") || strings.Contains(s, "ana") {
		t.Fatalf("expected hashed handle, got %v", out[1])
	}
}

func TestSanitizeOddLength(t *testing.T) {
	out := sanitize([]interface{}{"k", "v", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected output %v", out)
	}
}
