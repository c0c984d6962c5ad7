// Package logging builds the zap logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the level and an optional rotating log file.
type Options struct {
	Level string

	// File, if set, receives a copy of every entry and is rotated at
	// MaxSizeMB keeping MaxBackups old files.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// ParseLevel maps debug, info, warn and error (any case) to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zap.DebugLevel, nil
	case "INFO", "":
		return zap.InfoLevel, nil
	case "WARN":
		return zap.WarnLevel, nil
	case "ERROR":
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// New creates a console logger writing to w with ISO8601 timestamps.
func New(level string, w io.Writer) (*zap.Logger, error) {
	return Build(Options{Level: level}, w)
}

// Build creates a console logger writing to w and, when opts.File is set,
// to a rotating file as well.
func Build(opts Options, w io.Writer) (*zap.Logger, error) {
	zapLevel, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	sink := zapcore.AddSync(w)
	if opts.File != "" {
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}))
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		sink,
		zapLevel,
	)
	return zap.New(core), nil
}
