package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriterLoggerModes(t *testing.T) {
	var dev bytes.Buffer
	NewWriterLogger(ModeDev, &dev).Debug("bin correction done", "bins", 3)
	if !strings.Contains(dev.String(), "bins=3") {
		t.Fatalf("dev output missing attr: %q", dev.String())
	}

	var prod bytes.Buffer
	l := NewWriterLogger(ModeProd, &prod)
	l.Debug("hidden")
	l.Info("shown", "valid", 10)
	lines := strings.Split(strings.TrimSpace(prod.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("prod should drop debug, got %q", prod.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("prod output is not json: %v", err)
	}
	if rec["msg"] != "shown" || rec["valid"] != float64(10) {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestSilentAndNilHandler(t *testing.T) {
	// 輸出丟棄，不應 panic
	Silent().Info("discarded", "n", 1)
	if NewLogger(nil) == nil {
		t.Fatalf("nil handler should fall back to dev handler")
	}
}
