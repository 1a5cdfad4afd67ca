// Package logger is the structured logging facade every module logs through.
// Text output goes through logrus; JSON and production output through zap.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"agency-cms/internal/shared/contextkeys"

	"github.com/sirupsen/logrus"
)

const (
	formatJSON = "json"

	timestampFormat = "2006-01-02T15:04:05.000Z07:00"
)

// Logger is the logging surface handed to every component
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
	WithContext(ctx context.Context) Logger
	WithComponent(component string) Logger
}

// New picks the backend: zap when the format is json or the environment is production,
// logrus text otherwise.
func New(level, format, environment string) Logger {
	switch strings.ToLower(environment) {
	case "production", "prod":
		return NewZapLogger(level)
	}
	if format == formatJSON {
		return NewZapLogger(level)
	}
	return NewLogrusLogger(level, os.Stdout)
}

// LogrusLogger writes human readable lines for local development
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger writes colored text lines to out; an unknown level falls back to info
func NewLogrusLogger(level string, out io.Writer) *LogrusLogger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(parseLogrusLevel(level))
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
	})
	return &LogrusLogger{entry: logrus.NewEntry(base)}
}

func parseLogrusLevel(level string) logrus.Level {
	if strings.EqualFold(level, "warning") {
		return logrus.WarnLevel
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

func (l *LogrusLogger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *LogrusLogger) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *LogrusLogger) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *LogrusLogger) Error(args ...interface{}) { l.entry.Error(args...) }
func (l *LogrusLogger) Fatal(args ...interface{}) { l.entry.Fatal(args...) }

func (l *LogrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *LogrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *LogrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *LogrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *LogrusLogger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// WithContext attaches the request id and admin id carried by ctx
func (l *LogrusLogger) WithContext(ctx context.Context) Logger {
	fields := logrus.Fields{}
	for name, value := range contextFields(ctx) {
		fields[name] = value
	}
	return &LogrusLogger{entry: l.entry.WithFields(fields)}
}

func (l *LogrusLogger) WithComponent(component string) Logger {
	return &LogrusLogger{entry: l.entry.WithField("component", component)}
}

var contextFieldKeys = []struct {
	key  interface{}
	name string
}{
	{contextkeys.AdminIDKey, "admin_id"},
	{contextkeys.RequestIDKey, "request_id"},
}

// contextFields collects the non-empty string values stored under the known context keys
func contextFields(ctx context.Context) map[string]string {
	fields := make(map[string]string)
	if ctx == nil {
		return fields
	}
	for _, k := range contextFieldKeys {
		if val, ok := ctx.Value(k.key).(string); ok && val != "" {
			fields[k.name] = val
		}
	}
	return fields
}

var defaultLogger = New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Getenv("ENVIRONMENT"))

// SetDefault replaces the process-wide logger; nil is ignored
func SetDefault(l Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the process-wide logger
func Default() Logger { return defaultLogger }

// Infof logs through the process-wide logger
func Infof(format string, args ...interface{}) { defaultLogger.Infof(format, args...) }

// Warnf logs through the process-wide logger
func Warnf(format string, args ...interface{}) { defaultLogger.Warnf(format, args...) }

// Fatalf logs through the process-wide logger and exits
func Fatalf(format string, args ...interface{}) { defaultLogger.Fatalf(format, args...) }
