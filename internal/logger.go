package internal

import (
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions controls NewLogger.
type LogOptions struct {
	// Verbose lowers the console level from warn to debug.
	Verbose bool
	// File, when set, receives every debug entry as JSON and is rotated by size.
	File string
	// Console receives human-readable entries. Nil disables console output.
	Console io.Writer
}

// NewLogger builds the CLI logger. Stdout is never written to so that
// credential output stays parseable.
func NewLogger(opts LogOptions) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}

	var cores []zapcore.Core
	if opts.Console != nil {
		level := zap.WarnLevel
		if opts.Verbose {
			level = zap.DebugLevel
		}
		consoleCfg := encCfg
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			zapcore.AddSync(opts.Console),
			level,
		))
	}
	if opts.File != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			}),
			zap.DebugLevel,
		))
	}
	if len(cores) == 0 {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewTee(cores...))
}
