// Package logger builds the zap loggers used by the CLI and batch runs.
package logger

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing to w. prod writes JSON records from info
// up, local and dev write colored console lines from debug up. A non-empty
// level replaces the environment's default.
func New(w io.Writer, env, level string) (*zap.Logger, error) {
	enc, lvl, err := encoderFor(env)
	if err != nil {
		return nil, err
	}

	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	sink := zapcore.Lock(zapcore.AddSync(w))
	core := zapcore.NewCore(enc, sink, zap.NewAtomicLevelAt(lvl))

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel), zap.ErrorOutput(sink)), nil
}

func encoderFor(env string) (zapcore.Encoder, zapcore.Level, error) {
	switch env {
	case "prod":
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder

		return zapcore.NewJSONEncoder(cfg), zapcore.InfoLevel, nil
	case "local", "dev":
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)

		return zapcore.NewConsoleEncoder(cfg), zapcore.DebugLevel, nil
	default:
		return nil, zapcore.InfoLevel, fmt.Errorf("unknown environment %q for logger", env)
	}
}
