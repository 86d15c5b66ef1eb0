// internal/logger/logger.go
//
// Global zerolog setup for the server and the terminal client.
// Responsibilities:
//   - Level from LOG_LEVEL (unknown values fall back to info).
//   - Dev mode (DEV / DEV_MODE) prints coloured console lines; otherwise one
//     JSON object per line, which is what log shippers expect.
//   - Optional LOG_FILE copy of everything written.
//   - Request-scoped loggers tagged with chi's request id.

package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures Setup.
type Options struct {
	Level string
	File  string
	Dev   bool
	// Out is the primary sink. Defaults to stdout.
	Out io.Writer
}

// FromEnv reads LOG_LEVEL, LOG_FILE and DEV/DEV_MODE.
func FromEnv() Options {
	return Options{
		Level: os.Getenv("LOG_LEVEL"),
		File:  os.Getenv("LOG_FILE"),
		Dev:   os.Getenv("DEV") == "true" || os.Getenv("DEV_MODE") == "true",
	}
}

// Init sets up the global logger from the environment. The returned func
// closes LOG_FILE, if one was opened.
func Init() (func(), error) {
	return Setup(FromEnv())
}

// Setup replaces the global logger according to o.
func Setup(o Options) (func(), error) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	level, err := zerolog.ParseLevel(o.Level)
	if err != nil || o.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	out := o.Out
	if out == nil {
		out = os.Stdout
	}
	if o.Dev {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.000"}
	}

	closeFn := func() {}
	if o.File != "" {
		f, err := os.OpenFile(o.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closeFn, fmt.Errorf("open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(out, f)
		closeFn = func() { _ = f.Close() }
	}

	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger()
	log.Debug().Str("level", level.String()).Bool("dev", o.Dev).Msg("logger ready")
	return closeFn, nil
}

// ForRequest returns the global logger enriched with the chi request id, if any.
func ForRequest(ctx context.Context) zerolog.Logger {
	id := chimw.GetReqID(ctx)
	if id == "" {
		return log.Logger
	}
	return log.Logger.With().Str("requestId", id).Logger()
}
