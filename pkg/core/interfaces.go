package core

import (
	"fmt"
	"io"
)

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// DefaultLogger implements Logger by writing to an io.Writer
type DefaultLogger struct {
	w io.Writer
}

// NewDefaultLogger creates a logger writing to w
func NewDefaultLogger(w io.Writer) Logger {
	return &DefaultLogger{w: w}
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(dl.w, format, args...)
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}
