package util

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	logger   = zerolog.New(os.Stdout).With().Timestamp().Logger()
	loggerMu sync.RWMutex
)

// InitLogger configures the process logger. Production writes JSON lines to
// stdout; other environments use the human readable console writer.
func InitLogger(appEnv string) zerolog.Logger {
	var out io.Writer = os.Stdout
	level := zerolog.DebugLevel
	switch appEnv {
	case "production":
		level = zerolog.InfoLevel
	case "test":
		level = zerolog.WarnLevel
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	default:
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).Level(level).With().Timestamp().Logger()
	SetLogger(l)
	log.Logger = l
	return l
}

// Logger returns the process logger.
func Logger() zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger replaces the process logger. Tests use it to capture output.
func SetLogger(l zerolog.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}
