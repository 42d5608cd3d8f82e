// Package builtins implements the thin standard-library surface spec.md §6
// names as the core's observable contract: print, object(), list(...),
// dict(**kwargs), assert, types.{str,num,list,property}, and string format.
// This is not a general stdlib — only what the core calls or what the §8
// end-to-end scenarios exercise.
package builtins

import (
	"fmt"
	"io"
	"strings"

	"github.com/cibere/safulate-go/pkg/eval"
	"github.com/cibere/safulate-go/pkg/value"
)

// Register installs every builtin into interp's global scope via
// DefineBuiltin, writing print's output to w.
func Register(interp *eval.Interpreter, w io.Writer) {
	interp.DefineBuiltin("print", printFn(w))
	interp.DefineBuiltin("object", objectFn())
	interp.DefineBuiltin("list", listFn())
	interp.DefineBuiltin("dict", dictFn())
	interp.DefineBuiltin("assert", assertFn())
	interp.DefineBuiltin("format", formatFn())
	interp.DefineBuiltin("types", typesNamespace())
	interp.DefineBuiltin("property", propertyDecorator())
	interp.DefineBuiltin("setter", setterDecorator())
}

// stringify renders a Value for print/format output: a String's raw text
// (no quoting), otherwise its default Repr().
func stringify(v value.Value) string {
	if s, ok := v.(*value.String); ok {
		return s.S
	}
	return v.Repr()
}

func printFn(w io.Writer) *value.Function {
	return &value.Function{
		Name: "print",
		Native: func(args value.NativeArgs) (value.Value, error) {
			parts := make([]string, len(args.Positional))
			for i, a := range args.Positional {
				parts[i] = stringify(a)
			}
			fmt.Fprintln(w, strings.Join(parts, " "))
			return value.Nil, nil
		},
	}
}

func objectFn() *value.Function {
	return &value.Function{
		Name: "object",
		Native: func(args value.NativeArgs) (value.Value, error) {
			return value.NewObject(), nil
		},
	}
}

func listFn() *value.Function {
	return &value.Function{
		Name: "list",
		Native: func(args value.NativeArgs) (value.Value, error) {
			return value.NewList(append([]value.Value{}, args.Positional...)), nil
		},
	}
}

// dictFn builds an Object from keyword arguments only, matching the
// dict(**kwargs) contract — positional arguments are rejected.
func dictFn() *value.Function {
	return &value.Function{
		Name: "dict",
		Native: func(args value.NativeArgs) (value.Value, error) {
			if len(args.Positional) > 0 {
				return nil, value.NewError(value.ErrArgument, "dict() takes keyword arguments only")
			}
			obj := value.NewObject()
			obj.TypeTag = "dict"
			for k, v := range args.Keyword {
				obj.Pub[k] = v
			}
			return obj, nil
		},
	}
}

// assertFn raises a UserRaised error carrying the optional message when its
// first argument is falsy, per spec.md §7 ("assert failures manifest as
// UserRaised with a conventional message").
func assertFn() *value.Function {
	return &value.Function{
		Name: "assert",
		Native: func(args value.NativeArgs) (value.Value, error) {
			if len(args.Positional) == 0 {
				return nil, value.NewError(value.ErrArgument, "assert() requires a condition argument")
			}
			if args.Positional[0].Truthy() {
				return value.Nil, nil
			}
			msg := "assertion failed"
			if len(args.Positional) > 1 {
				msg = stringify(args.Positional[1])
			}
			return nil, value.NewUserRaised(value.NewString(msg))
		},
	}
}

// formatFn implements the observable `format(template, ...args)` contract
// standing in for spec.md §6's per-string `format(...)` method: each `{}`
// in template is replaced, in order, by the stringified positional argument.
func formatFn() *value.Function {
	return &value.Function{
		Name: "format",
		Native: func(args value.NativeArgs) (value.Value, error) {
			if len(args.Positional) == 0 {
				return nil, value.NewError(value.ErrArgument, "format() requires a template string")
			}
			tmpl, ok := args.Positional[0].(*value.String)
			if !ok {
				return nil, value.NewError(value.ErrType, "format() template must be a string")
			}
			rest := args.Positional[1:]
			return value.NewString(substitutePlaceholders(tmpl.S, rest)), nil
		},
	}
}

func substitutePlaceholders(tmpl string, args []value.Value) string {
	var sb strings.Builder
	argIdx := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '{' && i+1 < len(tmpl) && tmpl[i+1] == '}' {
			if argIdx < len(args) {
				sb.WriteString(stringify(args[argIdx]))
				argIdx++
			}
			i++
			continue
		}
		sb.WriteByte(tmpl[i])
	}
	return sb.String()
}

// typeCheckFn wraps a predicate in a BuiltinType for the `check(v) -> 0|1`
// contract; the predicate stays a Go bool, and the check method that
// typesNamespace attaches converts it to the Number 0 or 1.
func typeCheckFn(name string, predicate func(v value.Value) bool) *value.BuiltinType {
	return &value.BuiltinType{
		Name:    name,
		CheckFn: predicate,
	}
}

// typesNamespace builds the `types.{str,num,list,property}` object, each
// member exposing `check(v) -> 0|1` as a Pub method.
func typesNamespace() *value.Object {
	ns := value.NewObject()
	ns.TypeTag = "types"

	add := func(name string, t *value.BuiltinType) {
		checkFn := &value.Function{
			Name: "check",
			Native: func(args value.NativeArgs) (value.Value, error) {
				if len(args.Positional) != 1 {
					return nil, value.NewError(value.ErrArgument, "check() takes exactly one argument")
				}
				if t.Check(args.Positional[0]) {
					return value.NumberFromInt(1), nil
				}
				return value.NumberFromInt(0), nil
			},
		}
		wrapper := value.NewObject()
		wrapper.TypeTag = name
		wrapper.Pub["check"] = checkFn
		ns.Pub[name] = wrapper
	}

	add("str", typeCheckFn("str", func(v value.Value) bool { return v.Kind() == value.KindString }))
	add("num", typeCheckFn("num", func(v value.Value) bool { return v.Kind() == value.KindNumber }))
	add("list", typeCheckFn("list", func(v value.Value) bool { return v.Kind() == value.KindList }))
	add("property", typeCheckFn("property", func(v value.Value) bool { return v.Kind() == value.KindProperty }))

	return ns
}

// propertyDecorator implements the `[property]` decorator (spec.md §4.2,
// §8 scenario 6): wraps a zero-argument Function as a Property with no
// setter, so `func val() [property] { ... }` reads back as a Property value.
func propertyDecorator() *value.Function {
	return &value.Function{
		Name: "property",
		Native: func(args value.NativeArgs) (value.Value, error) {
			if len(args.Positional) != 1 {
				return nil, value.NewError(value.ErrArgument, "property decorator takes exactly one function")
			}
			fn, ok := args.Positional[0].(*value.Function)
			if !ok {
				return nil, value.NewError(value.ErrType, "property decorator requires a function")
			}
			return &value.Property{Getter: fn}, nil
		},
	}
}

// setterDecorator implements the `setter(existingProperty)` decorator
// factory: it closes over the Property already bound under another name
// (typically the same attribute's `[property]` getter, read by bare name
// before this func's own decoration replaces it) and returns a decorator
// that pairs the next function onto it as the setter form, per spec.md §3
// ("when written to, calls the setter form if provided, otherwise fails").
// Usage:
//
//	func val() [property] { return backing; }
//	func val(v) [setter(val)] { backing = v; }
func setterDecorator() *value.Function {
	return &value.Function{
		Name: "setter",
		Native: func(args value.NativeArgs) (value.Value, error) {
			if len(args.Positional) != 1 {
				return nil, value.NewError(value.ErrArgument, "setter() takes exactly one property")
			}
			prop, ok := args.Positional[0].(*value.Property)
			if !ok {
				return nil, value.NewError(value.ErrType, "setter() requires an existing property")
			}
			return &value.Function{
				Name: "setter",
				Native: func(inner value.NativeArgs) (value.Value, error) {
					if len(inner.Positional) != 1 {
						return nil, value.NewError(value.ErrArgument, "setter decorator takes exactly one function")
					}
					fn, ok := inner.Positional[0].(*value.Function)
					if !ok {
						return nil, value.NewError(value.ErrType, "setter decorator requires a function")
					}
					return &value.Property{Getter: prop.Getter, Setter: fn}, nil
				},
			}, nil
		},
	}
}
