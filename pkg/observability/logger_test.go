package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(logrus.InfoLevel, FormatText, &buf)

		logger.WithField("param", "width").Info("param set")
		logger.Debug("hidden")

		out := buf.String()
		if !strings.Contains(out, "param set") || !strings.Contains(out, "param=width") {
			t.Errorf("unexpected text output: %q", out)
		}
		if strings.Contains(out, "hidden") {
			t.Error("debug message logged at info level")
		}
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(logrus.DebugLevel, FormatJSON, &buf)

		logger.WithField("list_id", "abc").Debug("list destroyed")

		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if entry["msg"] != "list destroyed" {
			t.Errorf("msg = %v", entry["msg"])
		}
		if entry["list_id"] != "abc" {
			t.Errorf("list_id = %v", entry["list_id"])
		}
	})

	t.Run("nil output", func(t *testing.T) {
		logger := NewLogger(logrus.InfoLevel, FormatText, nil)
		if logger.Out == nil {
			t.Error("expected a default output")
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  logrus.Level
	}{
		{"trace", logrus.TraceLevel},
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"ERROR", logrus.ErrorLevel},
		{"nonsense", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	original := Log()
	defer SetLogger(original)

	if original == nil {
		t.Fatal("expected a default logger")
	}

	custom := logrus.New()
	SetLogger(custom)
	if Log() != custom {
		t.Error("SetLogger did not replace the default logger")
	}

	SetLogger(nil)
	if Log() != custom {
		t.Error("SetLogger(nil) must be ignored")
	}

	if OrDefault(nil) != custom {
		t.Error("OrDefault(nil) should return the default logger")
	}
	other := logrus.New()
	if OrDefault(other) != other {
		t.Error("OrDefault should return a non-nil logger unchanged")
	}
}
