package common

import (
	"testing"

	"github.com/lni/dragonboat/v4/logger"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    logger.LogLevel
		wantErr bool
	}{
		{"debug", logger.DEBUG, false},
		{"INFO", logger.INFO, false},
		{"warn", logger.WARNING, false},
		{"warning", logger.WARNING, false},
		{"error", logger.ERROR, false},
		{"", 0, true},
		{"trace", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLogLevel(%q) expected an error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLogLevel(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewZapLoggerFormats(t *testing.T) {
	for _, format := range []string{"", "console", "json"} {
		if _, err := newZapLogger(format); err != nil {
			t.Errorf("newZapLogger(%q) unexpected error: %v", format, err)
		}
	}
	if _, err := newZapLogger("xml"); err == nil {
		t.Errorf("newZapLogger(xml) expected an error")
	}
}

func TestInitLoggersRejectsInvalidConfig(t *testing.T) {
	if err := InitLoggers(ServerConfig{LogLevel: "loud"}); err == nil {
		t.Errorf("expected an error for an invalid level")
	}
	if err := InitLoggers(ServerConfig{LogLevel: "info", LogFormat: "xml"}); err == nil {
		t.Errorf("expected an error for an invalid format")
	}
}

func TestLevelFiltering(t *testing.T) {
	l := CreateLogger("test").(*rkvLogger)
	l.SetLevel(logger.ERROR)
	if l.level != logger.ERROR {
		t.Fatalf("level = %v, want %v", l.level, logger.ERROR)
	}
	// the nop base logger swallows everything, the calls must not panic
	l.Debugf("hidden %d", 1)
	l.Errorf("shown %d", 2)
}
