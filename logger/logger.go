// Package logger holds the process-wide zap logger used by the conversion
// pipeline. Library code obtains it through S or Log; main selects the
// encoder once at startup.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	log   *zap.Logger
	sugar *zap.SugaredLogger
)

// Init builds the logger. Console output by default; jsonOut switches to the
// production JSON encoder, verbose lowers the level to Debug.
func Init(verbose, jsonOut bool) error {
	var cfg zap.Config
	if jsonOut {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	setLogger(l)
	return nil
}

func setLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	zap.ReplaceGlobals(l)
	if log != nil {
		_ = log.Sync()
	}
	log = l
	sugar = l.Sugar()
}

// Log returns the configured *zap.Logger, or the zap global before Init.
func Log() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if log != nil {
		return log
	}
	return zap.L()
}

// S returns the sugared logger used throughout the library.
func S() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	if sugar != nil {
		return sugar
	}
	return zap.S()
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if log != nil {
		_ = log.Sync()
	}
}
