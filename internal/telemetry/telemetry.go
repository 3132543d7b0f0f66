// Package telemetry is the logging seam the engine and its callers
// are built against: a small Logger interface plus a zap-backed
// implementation, so the core geometry packages never import a
// logging library directly.
package telemetry

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger is the only logging capability the engine and CLI need. It
// mirrors the shape the core geometry packages are written against so
// swapping the backend never touches them.
type Logger interface {
	Printf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// zapLogger adapts a *zap.SugaredLogger to Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a Logger backed by zap's production
// configuration in production mode, or its more verbose development
// configuration otherwise.
func NewZapLogger(development bool) (Logger, error) {
	var base *zap.Logger
	var err error
	if development {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("telemetry: failed to build zap logger: %w", err)
	}
	return &zapLogger{sugar: base.Sugar()}, nil
}

func (l *zapLogger) Printf(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *zapLogger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *zapLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// NopLogger discards everything. Useful for tests and for embedding
// the engine in a context that does not want log output.
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}
func (NopLogger) Warnf(format string, args ...interface{})  {}
func (NopLogger) Errorf(format string, args ...interface{}) {}
