package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestMaskingWriter_MasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	w := newMaskingWriter(&buf, []string{"123456:super-secret-token", "987654321"})

	line := []byte(`{"msg":"send failed","token":"123456:super-secret-token","chat":"987654321"}`)
	n, err := w.Write(line)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if n != len(line) {
		t.Errorf("Write reported %d bytes, expected %d", n, len(line))
	}

	out := buf.String()
	if strings.Contains(out, "super-secret-token") {
		t.Error("token was not masked")
	}
	if strings.Contains(out, "987654321") {
		t.Error("chat ID was not masked")
	}
	if !strings.Contains(out, "***") {
		t.Error("expected masked placeholder in output")
	}
}

func TestMaskingWriter_IgnoresShortSecrets(t *testing.T) {
	var buf bytes.Buffer
	w := newMaskingWriter(&buf, []string{"abc", ""})

	if _, err := w.Write([]byte("abc is part of the alphabet")); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "abc") {
		t.Error("short secrets should not be masked")
	}
}

func TestCreateLogger_DefaultsToInfo(t *testing.T) {
	logger := CreateLogger("not-a-level")
	if logger == nil {
		t.Fatal("CreateLogger returned nil")
	}
	// Must not panic.
	logger.Info("hello", "key", "value")
}

func TestNopLogger(t *testing.T) {
	NopLogger.Debug("a")
	NopLogger.Info("b")
	NopLogger.Warn("c")
	NopLogger.Error("d")
}
