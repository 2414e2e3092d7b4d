package logger_test

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/mind-engage/mindengage-courses/internal/config"
	"github.com/mind-engage/mindengage-courses/internal/logger"
)

func TestNewHonoursLevel(t *testing.T) {
	l, err := logger.New(&config.Config{Mode: config.ModeOnline, LogLevel: "warn"})
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) || !l.Core().Enabled(zapcore.WarnLevel) {
		t.Fatal("warn level not applied")
	}
}

func TestNewDevelopmentDefault(t *testing.T) {
	l, err := logger.New(&config.Config{Mode: config.ModeOffline, LogLevel: "bogus"})
	if err != nil {
		t.Fatal(err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("development logger should log debug")
	}
}
