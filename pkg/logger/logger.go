package logger

import (
	"io"
	"os"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields are key/value pairs attached to every entry of a derived Logger
type Fields map[string]interface{}

// Logger is the logging surface the rest of file-combiner depends on.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)

	// Trace is per-file and per-node detail, emitted only at VerbosityTrace
	Trace(msg string)

	// WithFields derives a Logger that adds fields to each entry
	WithFields(fields Fields) Logger

	// WithError derives a Logger carrying err under the "error" key
	WithError(err error) Logger
}

// Verbosity thresholds, one per -v flag. Warnings and errors always pass.
const (
	VerbosityInfo  = 1
	VerbosityDebug = 2
	VerbosityTrace = 3
)

const tracePrefix = "TRACE: "

// Config controls NewLogger
type Config struct {
	// Verbosity is the number of -v flags given
	Verbosity int

	// Output receives the JSON lines, os.Stderr when nil
	Output io.Writer
}

type zapLogger struct {
	base  *zap.Logger
	trace bool
}

// NewLogger returns a Logger that writes one JSON object per entry.
//
//	log := logger.NewLogger(logger.Config{Verbosity: cfg.Verbose})
//	log.WithFields(logger.Fields{"root": root}).Debug("Enumerating root")
func NewLogger(config Config) Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(jsonEncoder(), zapcore.AddSync(out), minLevel(config.Verbosity))
	return &zapLogger{
		base:  zap.New(core),
		trace: config.Verbosity >= VerbosityTrace,
	}
}

// Nop returns a Logger that drops every entry
func Nop() Logger {
	return &zapLogger{base: zap.NewNop()}
}

// jsonEncoder lays out level, ts and message first, then the fields
func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.MessageKey = "message"
	cfg.CallerKey = zapcore.OmitKey
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func minLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity >= VerbosityDebug:
		return zapcore.DebugLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// zapFields converts fields in key order so that entries read the same on
// every run. Error values keep their message under their own key.
func zapFields(fields Fields) []zap.Field {
	keys := lo.Keys(fields)
	sort.Strings(keys)

	return lo.Map(keys, func(key string, _ int) zap.Field {
		if err, ok := fields[key].(error); ok {
			return zap.NamedError(key, err)
		}
		return zap.Any(key, fields[key])
	})
}

func (l *zapLogger) derive(fields ...zap.Field) Logger {
	return &zapLogger{base: l.base.With(fields...), trace: l.trace}
}

func (l *zapLogger) Debug(msg string) { l.base.Debug(msg) }
func (l *zapLogger) Info(msg string)  { l.base.Info(msg) }
func (l *zapLogger) Warn(msg string)  { l.base.Warn(msg) }
func (l *zapLogger) Error(msg string) { l.base.Error(msg) }

func (l *zapLogger) Trace(msg string) {
	if l.trace {
		l.base.Debug(tracePrefix + msg)
	}
}

func (l *zapLogger) WithFields(fields Fields) Logger {
	return l.derive(zapFields(fields)...)
}

func (l *zapLogger) WithError(err error) Logger {
	return l.derive(zap.Error(err))
}
