package common

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// rkvLogger implements the ILogger interface on top of a named zap logger.
// Level filtering is done here so every package can have its own level.
type rkvLogger struct {
	level logger.LogLevel
	sugar *zap.SugaredLogger
}

func (l *rkvLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *rkvLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.sugar.Debugf(format, args...)
	}
}

func (l *rkvLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.sugar.Infof(format, args...)
	}
}

func (l *rkvLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.sugar.Warnf(format, args...)
	}
}

func (l *rkvLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.sugar.Errorf(format, args...)
	}
}

func (l *rkvLogger) Panicf(format string, args ...interface{}) {
	l.sugar.Panicf(format, args...)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

var (
	baseMu     sync.RWMutex
	baseLogger = zap.NewNop()
	initOnce   sync.Once
)

// newZapLogger builds the process wide zap logger. format is "console" or "json".
func newZapLogger(format string) (*zap.Logger, error) {
	switch format {
	case "", "console", "json":
	default:
		return nil, fmt.Errorf("invalid log format: %s. must be one of console, json", format)
	}
	if format == "" {
		format = "console"
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.Encoding = format
	cfg.Sampling = nil
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "console" {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return cfg.Build(zap.AddCallerSkip(1))
}

// CreateLogger implements the dragonboat logger.Factory
func CreateLogger(pkgName string) logger.ILogger {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return &rkvLogger{
		level: logger.INFO,
		sugar: baseLogger.Named(pkgName).Sugar(),
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// loggerNames lists every named logger of the service
var loggerNames = []string{
	"rpc",
	"transport/rpc",
	"store",
	"replicator",
	"replog",
	"durable",
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the zap backed factory and applies the configured level to
// all named loggers. The factory can only be installed once per process.
func InitLoggers(config ServerConfig) error {
	level, err := ParseLogLevel(config.LogLevel)
	if err != nil {
		return err
	}
	zl, err := newZapLogger(config.LogFormat)
	if err != nil {
		return err
	}

	baseMu.Lock()
	baseLogger = zl
	baseMu.Unlock()

	initOnce.Do(func() {
		logger.SetLoggerFactory(CreateLogger)
	})

	for _, name := range loggerNames {
		logger.GetLogger(name).SetLevel(level)
	}
	return nil
}

// SyncLoggers flushes buffered log entries
func SyncLoggers() {
	baseMu.RLock()
	defer baseMu.RUnlock()
	_ = baseLogger.Sync()
}
