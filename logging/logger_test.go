package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", in, got, want)
		}
	}
}

func TestNewWritesServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", &buf)
	log.Info().Str("op", "add_poi").Msg("edit sent")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a JSON log line, got %q: %v", buf.String(), err)
	}
	if line["service"] != "mapedit" {
		t.Errorf("Expected service=mapedit, got %v", line["service"])
	}
	if line["op"] != "add_poi" {
		t.Errorf("Expected op=add_poi, got %v", line["op"])
	}
	if _, ok := line["time"]; !ok {
		t.Errorf("Expected timestamp field")
	}
}

func TestOpen(t *testing.T) {
	w, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\"): %v", err)
	}
	if _, err := w.Write([]byte("dropped")); err != nil {
		t.Errorf("Expected discard writer to accept writes, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	path := filepath.Join(t.TempDir(), "mapedit.log")
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%q): %v", path, err)
	}
	if _, err := f.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("Expected file contents %q, got %q", "hello\n", data)
	}
}
