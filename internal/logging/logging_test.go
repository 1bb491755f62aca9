package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{input: "error", want: LevelError},
		{input: "WARN", want: LevelWarn},
		{input: "warning", want: LevelWarn},
		{input: "info", want: LevelInfo},
		{input: "", want: LevelInfo},
		{input: " debug ", want: LevelDebug},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseLevel(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevel_SlogLevel(t *testing.T) {
	if LevelDebug.SlogLevel() != slog.LevelDebug {
		t.Error("debug should map to slog.LevelDebug")
	}
	if Level("bogus").SlogLevel() != slog.LevelInfo {
		t.Error("unknown level should map to slog.LevelInfo")
	}
}

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("warn record missing from output: %q", out)
	}
}

func TestOrDefault(t *testing.T) {
	if OrDefault(nil) != slog.Default() {
		t.Error("OrDefault(nil) should return slog.Default()")
	}
	l := Discard()
	if OrDefault(l) != l {
		t.Error("OrDefault should return the given logger")
	}
}
