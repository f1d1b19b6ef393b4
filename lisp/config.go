// Copyright © 2024 The Arrow authors

package lisp

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// Config is a function that configures a runtime.
type Config func(rt *Runtime) error

// WithStdout returns a Config that makes print write to w instead of the
// default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(rt *Runtime) error {
		rt.Stdout = w
		return nil
	}
}

// WithReader returns a Config that makes the runtime use r to parse source
// streams.  There is no default Reader for a runtime.
func WithReader(r Reader) Config {
	return func(rt *Runtime) error {
		if r == nil {
			return errors.New("nil reader")
		}
		rt.Reader = r
		return nil
	}
}

// WithTransport returns a Config that makes the network operations use t.
func WithTransport(t Transport) Config {
	return func(rt *Runtime) error {
		rt.Transport = t
		return nil
	}
}

// WithTransportDefaults returns a Config that overrides the local address
// and port passed to the transport by net-connect.
func WithTransportDefaults(local string, port int) Config {
	return func(rt *Runtime) error {
		if port <= 0 || port > 65535 {
			return errors.New("transport port out of range")
		}
		rt.Local = local
		rt.Port = port
		return nil
	}
}

// WithProfiler returns a Config that attaches p to the runtime.  The
// profiler is enabled when the runtime is configured.
func WithProfiler(p Profiler) Config {
	return func(rt *Runtime) error {
		rt.Profiler = p
		if p.IsEnabled() {
			return nil
		}
		return p.Enable()
	}
}

// WithLogger returns a Config that makes the runtime log to logger.
func WithLogger(logger logrus.FieldLogger) Config {
	return func(rt *Runtime) error {
		rt.Logger = logger
		return nil
	}
}

// WithContext returns a Config that sets the context passed to transport
// connections and journal writes.
func WithContext(ctx context.Context) Config {
	return func(rt *Runtime) error {
		if ctx == nil {
			return errors.New("nil context")
		}
		rt.Context = ctx
		return nil
	}
}

// WithShadowing returns a Config that selects the rule used to resolve names
// bound more than once.
func WithShadowing(s Shadowing) Config {
	return func(rt *Runtime) error {
		rt.Shadowing = s
		return nil
	}
}

// WithJournal returns a Config that records registered definitions in j.
func WithJournal(j Journal) Config {
	return func(rt *Runtime) error {
		rt.Journal = j
		return nil
	}
}
