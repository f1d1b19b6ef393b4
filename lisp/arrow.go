// Copyright © 2024 The Arrow authors

package lisp

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Arrow is an embeddable interpreter.  It owns a Runtime and the Registry of
// definitions that Invoke runs.
type Arrow struct {
	Runtime  *Runtime
	Registry *Registry
}

// RegistryHandle identifies a registered definition.
type RegistryHandle struct {
	Index int
	Name  string
}

// New returns an Arrow with an empty registry and a StandardRuntime
// configured by opts.
func New(opts ...Config) (*Arrow, error) {
	rt := StandardRuntime()
	for _, opt := range opts {
		if err := opt(rt); err != nil {
			return nil, err
		}
	}
	return &Arrow{
		Runtime:  rt,
		Registry: NewRegistry(),
	}, nil
}

// Register parses the first top-level form in source and appends it to the
// registry.  The form must be a defun.  The registry is unchanged when
// Register returns an error.
func (a *Arrow) Register(source string) (RegistryHandle, error) {
	nodes, err := a.Runtime.read("register", "", strings.NewReader(source))
	if err != nil {
		return RegistryHandle{}, err
	}
	if len(nodes) == 0 {
		return RegistryHandle{}, SyntaxError(nil, "no form to register")
	}
	def, err := Build(nodes[0])
	if err != nil {
		return RegistryHandle{}, err
	}
	return a.register(def, nodes[0].String(), true)
}

// RegisterValue appends the defun call def to the registry.
func (a *Arrow) RegisterValue(def *Value) (RegistryHandle, error) {
	return a.register(def, def.String(), true)
}

func (a *Arrow) register(def *Value, source string, journal bool) (RegistryHandle, error) {
	if !def.IsDefinition() {
		err := SyntaxError(def.Source, "only defun forms can be registered: found %v", def)
		return RegistryHandle{}, err
	}
	if err := checkArity(OpDefun, len(def.Cells)); err != nil {
		return RegistryHandle{}, err.withSource(def.Source)
	}
	rt := a.Runtime
	if journal && rt.Journal != nil {
		if err := rt.Journal.Append(rt.context(), source); err != nil {
			return RegistryHandle{}, &Error{Cond: CondTransportError, Op: "defun", Msg: "journal append failed", Err: err}
		}
	}
	h := RegistryHandle{
		Index: a.Registry.append(def),
		Name:  def.DefinitionName(),
	}
	rt.logger().WithFields(logrus.Fields{
		"name":  h.Name,
		"index": h.Index,
	}).Debug("registered definition")
	return h, nil
}

// Invoke passes the symbol name to every definition in the registry, in
// registration order, within one fresh environment.  Every definition whose
// name matches runs.  The result is the value returned by the last registry
// entry, so an empty registry or a name that the last entry does not match
// yields nil (Boolean false).  A leading quote mark on name is ignored.
func (a *Arrow) Invoke(name string) (*Value, error) {
	name = strings.TrimPrefix(name, "'")
	candidate := Symbol(name)
	env := a.Runtime.NewEnv()
	result := Boolean(false)
	var err error
	var entries int
	a.Registry.Each(func(_ int, def *Value) bool {
		entries++
		var v *Value
		v, err = env.Apply(def, candidate)
		if err != nil {
			return false
		}
		result = v
		return true
	})
	a.Runtime.logger().WithFields(logrus.Fields{
		"name":    name,
		"entries": entries,
	}).Debug("invoke")
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Eval reduces v in a fresh environment.
func (a *Arrow) Eval(v *Value) (*Value, error) {
	return a.Runtime.NewEnv().Reduce(v)
}

// EvalString reads every form in source and reduces each in its own fresh
// environment, returning the value of the last.
func (a *Arrow) EvalString(source string) (*Value, error) {
	vals, err := a.Exec("eval", strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return Boolean(false), nil
	}
	return vals[len(vals)-1], nil
}

// Exec reads every form from r.  Defun forms are registered and other forms
// are reduced, in order.  The values of reduced forms are returned.  Nothing
// runs if any form fails to parse or build.
func (a *Arrow) Exec(name string, r io.Reader) ([]*Value, error) {
	return a.exec(name, "", r)
}

// ExecLocation is like Exec but associates the physical location loc with
// the source.
func (a *Arrow) ExecLocation(name, loc string, r io.Reader) ([]*Value, error) {
	return a.exec(name, loc, r)
}

func (a *Arrow) exec(name, loc string, r io.Reader) ([]*Value, error) {
	nodes, err := a.Runtime.read(name, loc, r)
	if err != nil {
		return nil, err
	}
	forms, err := BuildAll(nodes)
	if err != nil {
		return nil, err
	}
	var results []*Value
	for i, form := range forms {
		if form.IsDefinition() {
			if _, err := a.register(form, nodes[i].String(), true); err != nil {
				return results, err
			}
			continue
		}
		v, err := a.Eval(form)
		if err != nil {
			return results, err
		}
		results = append(results, v)
	}
	return results, nil
}

// Load reads every form from r and registers it.  Every form must be a
// defun; the registry is unchanged if any form fails to parse or build.
func (a *Arrow) Load(name string, r io.Reader) ([]RegistryHandle, error) {
	return a.LoadLocation(name, "", r)
}

// LoadLocation is like Load but associates the physical location loc with
// the source.
func (a *Arrow) LoadLocation(name, loc string, r io.Reader) ([]RegistryHandle, error) {
	nodes, err := a.Runtime.read(name, loc, r)
	if err != nil {
		return nil, err
	}
	defs, err := BuildAll(nodes)
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if !def.IsDefinition() {
			return nil, SyntaxError(def.Source, "only defun forms can be loaded: found %v", def)
		}
	}
	handles := make([]RegistryHandle, 0, len(defs))
	for i, def := range defs {
		h, err := a.register(def, nodes[i].String(), true)
		if err != nil {
			return handles, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// Replay registers every definition recorded in the runtime journal, in the
// order they were recorded.  Replayed definitions are not journaled again.
func (a *Arrow) Replay(ctx context.Context) (int, error) {
	rt := a.Runtime
	if rt.Journal == nil {
		return 0, nil
	}
	sources, err := rt.Journal.Sources(ctx)
	if err != nil {
		return 0, &Error{Cond: CondTransportError, Msg: "journal read failed", Err: err}
	}
	for i, src := range sources {
		nodes, err := rt.read("journal", "", strings.NewReader(src))
		if err != nil {
			return i, err
		}
		if len(nodes) == 0 {
			continue
		}
		def, err := Build(nodes[0])
		if err != nil {
			return i, err
		}
		if _, err := a.register(def, src, false); err != nil {
			return i, err
		}
	}
	rt.logger().WithField("definitions", len(sources)).Info("replayed journal")
	return len(sources), nil
}

// Close releases transport handles opened by net-connect and completes the
// profiler, if one is attached.
func (a *Arrow) Close() error {
	err := a.Runtime.CloseHandles()
	if p := a.Runtime.Profiler; p != nil && p.IsEnabled() {
		if perr := p.Complete(); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}
