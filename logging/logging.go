// Package logging builds the zap logger used across filmdex.
package logging

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logLevels maps configuration strings to zap levels.
var logLevels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// New builds a logger writing to stderr; stdout stays reserved for
// command output. Development mode uses a colored console encoder,
// production mode structured JSON.
func New(level string, development bool) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	var encoder zapcore.Encoder
	if development {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
		}
		encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
		encoderConfig.ConsoleSeparator = " | "
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), levelFor(level))

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	}
	if development {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...)
}

// levelFor converts a configuration string to a zap level.
// Unknown levels fall back to info.
func levelFor(level string) zapcore.Level {
	lvl, ok := logLevels[strings.ToLower(level)]
	if !ok {
		return zapcore.InfoLevel
	}
	return lvl
}
