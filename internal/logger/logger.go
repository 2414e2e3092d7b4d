package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mind-engage/mindengage-courses/internal/config"
)

// New returns a production logger in online mode and a development logger otherwise.
// An unparseable LOG_LEVEL keeps the preset's level.
func New(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Mode == config.ModeOnline {
		zc = zap.NewProductionConfig()
	}
	if cfg.LogLevel != "" {
		if lvl, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
			zc.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return l.With(zap.String("site_id", cfg.SiteID)), nil
}
