package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "mediawall"

var zlog = zerolog.New(os.Stdout).With().Timestamp().Str("service", serviceName).Logger()

// InitStructured configures the global logger for the given environment.
// Development gets a human readable console writer, everything else JSON.
func InitStructured(env string) {
	InitWithWriter(env, os.Stdout)
}

// InitWithWriter is InitStructured with an explicit sink.
func InitWithWriter(env string, out io.Writer) {
	var w io.Writer = out
	level := zerolog.InfoLevel

	if isDevelopment(env) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zlog = zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// GetLogger returns the global zerolog logger
func GetLogger() *zerolog.Logger {
	return &zlog
}

// WithRequestID returns a logger with request_id field
func WithRequestID(requestID string) zerolog.Logger {
	return zlog.With().Str("request_id", requestID).Logger()
}

// WithAdminID returns a logger with admin_id field
func WithAdminID(adminID string) zerolog.Logger {
	return zlog.With().Str("admin_id", adminID).Logger()
}

func isDevelopment(env string) bool {
	return env == "development" || env == "dev"
}
