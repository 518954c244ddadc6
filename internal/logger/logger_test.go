package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name    string
		log     func(l *Logger)
		want    bool
		wantLvl string
	}{
		{
			name:    "info message",
			log:     func(l *Logger) { l.Info("test message", Fields{"key": "value"}) },
			want:    true,
			wantLvl: "info",
		},
		{
			name: "debug below threshold",
			log:  func(l *Logger) { l.Debug("debug message", nil) },
			want: false,
		},
		{
			name:    "warn message",
			log:     func(l *Logger) { l.Warn("careful", nil) },
			want:    true,
			wantLvl: "warn",
		},
		{
			name:    "error with err",
			log:     func(l *Logger) { l.Error("error occurred", nil, errors.New("test error")) },
			want:    true,
			wantLvl: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(New(LevelInfo, &buf))

			logged := buf.Len() > 0
			if logged != tt.want {
				t.Fatalf("logged = %v, want %v (output %q)", logged, tt.want, buf.String())
			}
			if !logged {
				return
			}

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			if entry["level"] != tt.wantLvl {
				t.Errorf("level = %v, want %s", entry["level"], tt.wantLvl)
			}
			if _, ok := entry["time"]; !ok {
				t.Error("entry has no timestamp")
			}
		})
	}
}

func TestLogger_FieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug, &buf)

	l.Error("reconciliation failed", Fields{"venue": "tate-modern", "count": 3}, errors.New("boom"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["message"] != "reconciliation failed" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["venue"] != "tate-modern" {
		t.Errorf("venue = %v", entry["venue"])
	}
	if entry["count"] != float64(3) {
		t.Errorf("count = %v", entry["count"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v", entry["error"])
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf).With(Fields{"venue": "barbican-centre"})

	l.Info("scraped", Fields{"events": 2})

	if !strings.Contains(buf.String(), `"venue":"barbican-centre"`) {
		t.Errorf("child logger lost its fields: %s", buf.String())
	}
}

func TestDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	var buf bytes.Buffer
	SetDefault(New(LevelWarn, &buf))

	Info("hidden", nil)
	Warn("shown", Fields{"k": "v"})

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info logged below warn threshold")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn message missing")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(LevelInfo, &buf).Info("human readable", Fields{"venue": "va-museum"})

	out := buf.String()
	if !strings.Contains(out, "human readable") || !strings.Contains(out, "venue=") {
		t.Errorf("console output = %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Error("console output should not be JSON")
	}
}
