// Copyright © 2024 The Arrow authors

package lisp

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Runtime holds the state shared by every environment created by an Arrow
// host: its output stream, reader, transport, profiler, logger and journal.
type Runtime struct {
	Stdout    io.Writer
	Reader    Reader
	Transport Transport
	Local     string
	Port      int
	Profiler  Profiler
	Logger    logrus.FieldLogger
	Context   context.Context
	Shadowing Shadowing
	Journal   Journal

	mut     sync.Mutex
	handles []Handle
}

// StandardRuntime returns a new Runtime writing to os.Stdout, logging
// warnings to os.Stderr and connecting to the default transport endpoint.
// There is no default Reader or Transport.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stdout:  os.Stdout,
		Local:   DefaultLocal,
		Port:    DefaultPort,
		Logger:  DefaultLogger(),
		Context: context.Background(),
	}
}

// DefaultLogger returns the logger used by a StandardRuntime.
func DefaultLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

var discardLogger = func() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}()

// NewEnv returns an empty environment attached to r.
func (r *Runtime) NewEnv() *Env {
	return NewEnv(r)
}

func (r *Runtime) stdout() io.Writer {
	if r.Stdout == nil {
		return io.Discard
	}
	return r.Stdout
}

func (r *Runtime) logger() logrus.FieldLogger {
	if r.Logger == nil {
		return discardLogger
	}
	return r.Logger
}

func (r *Runtime) context() context.Context {
	if r.Context == nil {
		return context.Background()
	}
	return r.Context
}

func (r *Runtime) track(h Handle) {
	r.mut.Lock()
	defer r.mut.Unlock()
	r.handles = append(r.handles, h)
}

// CloseHandles closes every transport handle opened by net-connect.
func (r *Runtime) CloseHandles() error {
	r.mut.Lock()
	handles := r.handles
	r.handles = nil
	r.mut.Unlock()
	var errs []error
	for _, h := range handles {
		if err := h.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
