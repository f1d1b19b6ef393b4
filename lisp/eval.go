// Copyright © 2024 The Arrow authors

package lisp

import (
	"fmt"
	"strings"

	"github.com/orion-engine/arrow/parser/token"
	"github.com/sirupsen/logrus"
)

// Reduce evaluates v.  Literals, symbols and handles reduce to themselves.
// Calls run their operation against their unevaluated operands.
func (env *Env) Reduce(v *Value) (*Value, error) {
	switch v.Type {
	case LNumber, LText, LBoolean, LSymbol, LHandle:
		return v, nil
	case LCall:
		return env.reduceCall(v)
	case LBinding:
		err := Errorf(CondInvalidReduction, "binding %s cannot be reduced", v.Str)
		return nil, err.withSource(v.Source)
	default:
		err := Errorf(CondInvalidReduction, "invalid value type: %v", v.Type)
		return nil, err.withSource(v.Source)
	}
}

func (env *Env) reduceCall(call *Value) (*Value, error) {
	if err := checkArity(call.Op, len(call.Cells)); err != nil {
		return nil, err.withSource(call.Source)
	}
	op := call.Op.def()
	if op.rule == nil {
		// A definition reduced outside of Apply is a plain value.
		return call, nil
	}
	env.logger().WithFields(logrus.Fields{
		"op":     op.name,
		"height": len(env.bindings),
	}).Trace("reduce")
	if prof := env.Runtime.Profiler; prof != nil && prof.IsEnabled() {
		defer prof.Start(call)()
	}
	result, err := op.rule(env, call.Cells)
	if err != nil {
		return nil, asError(CondInvalidReduction, err).withOp(op.name).withSource(call.Source)
	}
	return result, nil
}

// Apply runs the definition def if candidate names it.  The rendered text of
// candidate is compared with the rendered target name of def.  On a match
// the body operands are reduced in order and the last value is returned.
// Otherwise Apply returns nil (Boolean false) without touching the body.
func (env *Env) Apply(def *Value, candidate *Value) (*Value, error) {
	if !def.IsDefinition() {
		err := Errorf(CondTypeMismatch, "not a definition: %v", def)
		return nil, err.withSource(def.Source)
	}
	if err := checkArity(OpDefun, len(def.Cells)); err != nil {
		return nil, err.withSource(def.Source)
	}
	target, err := env.Render(def.Cells[0])
	if err != nil {
		return nil, asError(CondTypeMismatch, err).withOp("defun").withSource(def.Source)
	}
	name, err := env.Render(candidate)
	if err != nil {
		return nil, err
	}
	if target != name {
		return Boolean(false), nil
	}
	if prof := env.Runtime.Profiler; prof != nil && prof.IsEnabled() {
		defer prof.Start(def)()
	}
	var result *Value
	for _, form := range def.Cells[1:] {
		result, err = env.Reduce(form)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Number coerces v to a number.  Symbols are resolved and text holding a
// decimal literal is parsed.
func (env *Env) Number(v *Value) (float64, error) {
	switch v.Type {
	case LNumber:
		return v.Num, nil
	case LSymbol:
		bound, ok := env.Resolve(v.Str)
		if !ok || bound.Type == LSymbol {
			return 0, unbound(v)
		}
		return env.Number(bound)
	case LText:
		if token.IsDecimal(v.Str) {
			if x, ok := parseDecimal(v.Str); ok {
				return x, nil
			}
		}
		err := Errorf(CondTypeMismatch, "text is not a number: %q", v.Str)
		return 0, err.withSource(v.Source)
	default:
		err := Errorf(CondTypeMismatch, "%v is not a number", v.Type)
		return 0, err.withSource(v.Source)
	}
}

// Render returns the text form of v used by concat, equal, print and
// definition matching.  Unbound symbols render as their own name.
func (env *Env) Render(v *Value) (string, error) {
	switch v.Type {
	case LNumber:
		return FormatNumber(v.Num), nil
	case LBoolean:
		return FormatBoolean(v.Bool), nil
	case LText:
		return v.Str, nil
	case LSymbol:
		bound, ok := env.Resolve(v.Str)
		if !ok {
			return v.Str, nil
		}
		if bound.Type == LSymbol {
			return bound.Str, nil
		}
		return env.Render(bound)
	default:
		err := Errorf(CondTypeMismatch, "%v cannot be rendered as text", v.Type)
		return "", err.withSource(v.Source)
	}
}

// Handle coerces v to a transport handle.
func (env *Env) Handle(v *Value) (Handle, error) {
	switch v.Type {
	case LHandle:
		h, ok := v.Handle()
		if !ok {
			err := Errorf(CondTypeMismatch, "handle value holds %T", v.Native)
			return nil, err.withSource(v.Source)
		}
		return h, nil
	case LSymbol:
		bound, ok := env.Resolve(v.Str)
		if !ok || bound.Type == LSymbol {
			return nil, unbound(v)
		}
		return env.Handle(bound)
	default:
		err := Errorf(CondTypeMismatch, "%v is not a handle", v.Type)
		return nil, err.withSource(v.Source)
	}
}

func unbound(sym *Value) *Error {
	err := Errorf(CondUnboundSymbol, "symbol is not bound: %s", sym.Str)
	return err.withSource(sym.Source)
}

func (env *Env) reduceAll(args []*Value) ([]*Value, error) {
	vals := make([]*Value, len(args))
	for i, arg := range args {
		v, err := env.Reduce(arg)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (env *Env) reduceNumbers(args []*Value) (a, b float64, err error) {
	vals, err := env.reduceAll(args)
	if err != nil {
		return 0, 0, err
	}
	a, err = env.Number(vals[0])
	if err != nil {
		return 0, 0, err
	}
	b, err = env.Number(vals[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (env *Env) reduceText(arg *Value) (string, error) {
	v, err := env.Reduce(arg)
	if err != nil {
		return "", err
	}
	return env.Render(v)
}

func (env *Env) reduceHandle(arg *Value) (Handle, error) {
	v, err := env.Reduce(arg)
	if err != nil {
		return nil, err
	}
	return env.Handle(v)
}

func opAdd(env *Env, args []*Value) (*Value, error) {
	a, b, err := env.reduceNumbers(args)
	if err != nil {
		return nil, err
	}
	return Number(a + b), nil
}

func opSub(env *Env, args []*Value) (*Value, error) {
	a, b, err := env.reduceNumbers(args)
	if err != nil {
		return nil, err
	}
	return Number(a - b), nil
}

func opMul(env *Env, args []*Value) (*Value, error) {
	a, b, err := env.reduceNumbers(args)
	if err != nil {
		return nil, err
	}
	return Number(a * b), nil
}

func opConcat(env *Env, args []*Value) (*Value, error) {
	a, err := env.reduceText(args[0])
	if err != nil {
		return nil, err
	}
	b, err := env.reduceText(args[1])
	if err != nil {
		return nil, err
	}
	return Text(a + b), nil
}

func opEqual(env *Env, args []*Value) (*Value, error) {
	a, err := env.reduceText(args[0])
	if err != nil {
		return nil, err
	}
	b, err := env.reduceText(args[1])
	if err != nil {
		return nil, err
	}
	return Boolean(a == b), nil
}

func opPrint(env *Env, args []*Value) (*Value, error) {
	s, err := env.reduceText(args[0])
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(env.Runtime.stdout(), s); err != nil {
		env.logger().WithError(err).Warn("print failed")
	}
	return Boolean(false), nil
}

func opLet(env *Env, args []*Value) (*Value, error) {
	name := args[0]
	if name.Type != LSymbol {
		err := Errorf(CondTypeMismatch, "binding name must be a symbol: %v", name)
		return nil, err.withSource(name.Source)
	}
	val, err := env.Reduce(args[1])
	if err != nil {
		return nil, err
	}
	pop := env.push(name.Str, val)
	defer pop()
	return env.Reduce(args[2])
}

func opProgn(env *Env, args []*Value) (*Value, error) {
	var result *Value
	for _, arg := range args {
		v, err := env.Reduce(arg)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func opReturn(env *Env, args []*Value) (*Value, error) {
	return env.Reduce(args[0])
}

func opNetConnect(env *Env, args []*Value) (*Value, error) {
	remote, err := env.reduceText(args[0])
	if err != nil {
		return nil, err
	}
	topic, err := env.reduceText(args[1])
	if err != nil {
		return nil, err
	}
	rt := env.Runtime
	if rt.Transport == nil {
		return nil, Errorf(CondTransportError, "no transport configured")
	}
	h, err := rt.Transport.Connect(rt.context(), rt.Local, remote, rt.Port, topic)
	if err != nil {
		return nil, &Error{Cond: CondTransportError, Err: err}
	}
	rt.track(h)
	env.logger().WithFields(logrus.Fields{
		"remote": remote,
		"topic":  topic,
	}).Debug("transport connected")
	return HandleValue(h), nil
}

func opNetSend(env *Env, args []*Value) (*Value, error) {
	h, err := env.reduceHandle(args[0])
	if err != nil {
		return nil, err
	}
	data, err := env.reduceText(args[1])
	if err != nil {
		return nil, err
	}
	return Boolean(h.TrySend([]byte(data))), nil
}

func opNetReceive(env *Env, args []*Value) (*Value, error) {
	h, err := env.reduceHandle(args[0])
	if err != nil {
		return nil, err
	}
	data, ok := h.TryReceive()
	if !ok {
		return Boolean(false), nil
	}
	return Text(strings.ToValidUTF8(string(data), "\uFFFD")), nil
}
