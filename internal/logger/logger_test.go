package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupLevel(t *testing.T) {
	saved := log.Logger
	defer func() { log.Logger = saved }()

	var buf bytes.Buffer
	if _, err := Setup(Options{Level: "warn", Out: &buf}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("expected warn, got %s", zerolog.GlobalLevel())
	}
	if _, err := Setup(Options{Level: "nonsense", Out: &buf}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("expected info fallback, got %s", zerolog.GlobalLevel())
	}
}

func TestSetupWritesJSONAndFile(t *testing.T) {
	saved := log.Logger
	defer func() { log.Logger = saved }()

	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "rayonlar.log")
	closeLog, err := Setup(Options{Level: "info", File: path, Out: &buf})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	log.Info().Str("session", "s1").Msg("saved")
	closeLog()

	line := buf.String()
	for _, want := range []string{`"session":"s1"`, `"message":"saved"`, `"caller":"logger_test.go:`} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %s in %s", want, line)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"session":"s1"`) {
		t.Errorf("expected log file copy, got %s", data)
	}

	if _, err := Setup(Options{File: filepath.Join(t.TempDir(), "missing", "x.log"), Out: &buf}); err == nil {
		t.Error("expected error for unwritable log file")
	}
}

func TestForRequestTagsRequestID(t *testing.T) {
	saved := log.Logger
	defer func() { log.Logger = saved }()

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "abc")
	l := ForRequest(ctx)
	l.Info().Msg("hello")
	if !strings.Contains(buf.String(), `"requestId":"abc"`) {
		t.Errorf("expected requestId in %s", buf.String())
	}

	buf.Reset()
	l = ForRequest(context.Background())
	l.Info().Msg("hello")
	if strings.Contains(buf.String(), "requestId") {
		t.Errorf("expected no requestId in %s", buf.String())
	}
}
