// Package logging configures the process-wide zap logger used across the
// pipeline's phases (build, collect, bind, blockgraph, link, query, render).
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors the verbosity levels selectable via --log-level / the
// LLMCC_LOG environment variable (the spec's RUST_LOG equivalent).
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// New builds a zap.Logger configured for CLI output: colored level, short
// caller, no timestamps in the default console encoder noise.
func New(level Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.TimeKey = ""
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	return cfg.Build()
}

// FromEnv resolves the level from LLMCC_LOG if set, else falls back to def.
func FromEnv(def Level) Level {
	if v := strings.ToLower(os.Getenv("LLMCC_LOG")); v != "" {
		return Level(v)
	}
	return def
}

func parseLevel(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Nop returns a logger that discards everything, for tests and library
// embedding callers that don't want CLI-style output.
func Nop() *zap.Logger { return zap.NewNop() }
