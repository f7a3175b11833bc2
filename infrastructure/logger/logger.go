package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

type ctxKey struct{}

var logger = log.New()

func init() {
	logger.Out = os.Stdout
	// LOG_TO_FILE=true writes to logs/<date><env>.log instead of stdout.
	if os.Getenv("LOG_TO_FILE") == "true" {
		if f, err := openLogFile(); err != nil {
			log.Warnf("Failed to open log file: %v, falling back to stdout", err)
		} else {
			logger.Out = f
		}
	}
	logger.Formatter = &log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
	logger.SetLevel(log.InfoLevel)
	logger.AddHook(recent)
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		Configure(v, "")
	}
}

func openLogFile() (*os.File, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	logsDir := filepath.Join(cwd, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s%s.log", time.Now().Format("2006-01-02"), os.Getenv("ENV"))
	return os.OpenFile(filepath.Join(logsDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
}

// Configure applies the level and output format. Unknown values keep the current setting.
func Configure(level, format string) {
	if level != "" {
		if lvl, err := log.ParseLevel(strings.ToLower(level)); err == nil {
			logger.SetLevel(lvl)
		}
	}
	switch strings.ToLower(format) {
	case "text":
		logger.Formatter = &log.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339Nano}
	case "json":
		logger.Formatter = &log.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	}
}

func GetLogger() *log.Entry {
	return entry(2)
}

// WithContext is GetLogger plus the request id stored by ContextWithRequestID.
func WithContext(ctx context.Context) *log.Entry {
	e := entry(2)
	if ctx != nil {
		if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
			e = e.WithField("requestId", id)
		}
	}
	return e
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func entry(skip int) *log.Entry {
	function, file, line, _ := runtime.Caller(skip)
	fields := log.Fields{"file": file, "line": line}
	if fn := runtime.FuncForPC(function); fn != nil {
		fields["function"] = fn.Name()
	}
	return logger.WithFields(fields)
}
