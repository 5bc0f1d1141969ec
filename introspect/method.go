package introspect

import (
	"fmt"
	"reflect"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// methodExec is a resolved method-call strategy, valid for one receiver type
// under one resolution generation.
type methodExec struct {
	version int
	recv    reflect.Type
	name    string
	method  int
}

func (m *methodExec) matches(version int, obj any) bool {
	return m.version == version && reflect.TypeOf(obj) == m.recv
}

func (m *methodExec) invoke(obj any, args []any) (any, error) {
	fn := reflect.ValueOf(obj).Method(m.method)
	return CallFunc(fn, m.name, args)
}

// resolveMethod finds the exported method matching name on obj's type.
func (u *Uberspect) resolveMethod(obj any, name string) (*methodExec, error) {
	rt := reflect.TypeOf(obj)
	method, ok := rt.MethodByName(exportedName(name))
	if !ok {
		u.logger.Debug("method resolution failed", "type", rt.String(), "method", name)
		return nil, methodError(ErrUnknownMethod, name)
	}
	return &methodExec{
		version: u.Version(),
		recv:    rt,
		name:    name,
		method:  method.Index,
	}, nil
}

// CallFunc invokes a reflected func value with loosely-converted arguments.
// Variadic Go funcs are supported; result conventions are (), (T),
// (T, error) and (error).
func CallFunc(fn reflect.Value, name string, args []any) (any, error) {
	ft := fn.Type()

	fixed := ft.NumIn()
	if ft.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return nil, methodError(fmt.Errorf("%w: want at least %d args, got %d", ErrBadArgument, fixed, len(args)), name)
		}
	} else if len(args) != fixed {
		return nil, methodError(fmt.Errorf("%w: want %d args, got %d", ErrBadArgument, fixed, len(args)), name)
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var want reflect.Type
		if i < fixed {
			want = ft.In(i)
		} else {
			want = ft.In(fixed).Elem()
		}
		v, err := convertValue(reflect.ValueOf(arg), want)
		if err != nil {
			return nil, methodError(fmt.Errorf("%w: argument %d: %v", ErrBadArgument, i, err), name)
		}
		in[i] = v
	}

	return resultsToValue(fn.Call(in), name)
}

// convertValue coerces v to the wanted type, allowing the numeric widening a
// dynamically-typed caller expects (script integers are int64, Go APIs often
// take int or float64).
func convertValue(v reflect.Value, want reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		// nil argument: usable for any nilable parameter type
		switch want.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot pass null as %s", want)
	}
	if v.Type().AssignableTo(want) {
		return v, nil
	}
	if v.Type().ConvertibleTo(want) {
		switch want.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64, reflect.String, reflect.Interface:
			return v.Convert(want), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Type(), want)
}

// resultsToValue maps Go return values onto a single script value.
func resultsToValue(out []reflect.Value, name string) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type().Implements(errType) {
			if err, _ := out[0].Interface().(error); err != nil {
				return nil, methodError(err, name)
			}
			return nil, nil
		}
		return out[0].Interface(), nil
	case 2:
		if out[1].Type().Implements(errType) {
			if err, _ := out[1].Interface().(error); err != nil {
				return nil, methodError(err, name)
			}
			return out[0].Interface(), nil
		}
	}
	return nil, methodError(fmt.Errorf("%w: unsupported result arity %d", ErrBadArgument, len(out)), name)
}
