package logger

import (
	"context"
	"os"
	"strings"
	"time"

	appCtx "github.com/antbogura/isp-api/internal/pkg/context"
	"github.com/rs/zerolog"
)

// Logger is the process-wide root logger. Call Init before use.
var Logger zerolog.Logger

// Init configures the root logger from LOG_LEVEL (debug|info|warn|error).
// Unknown or empty values fall back to info.
func Init() {
	level := zerolog.InfoLevel
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	Logger = zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// WithCtx returns the root logger enriched with the request id from ctx,
// if one is present.
func WithCtx(ctx context.Context) zerolog.Logger {
	if rid := appCtx.GetRequestID(ctx); rid != "" {
		return Logger.With().Str("request_id", rid).Logger()
	}
	return Logger
}
