package interp

import (
	"fmt"
	"reflect"

	"github.com/exlang/exl/introspect"
	"github.com/exlang/exl/parser"
)

// truthy implements the language's boolean coercion: null and false are
// false, zero numbers and empty strings are false, everything else is true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	if iv, ok := asInt(v); ok {
		return iv != 0
	}
	if fv, ok := asFloat(v); ok {
		return fv != 0
	}
	return true
}

// asInt widens any Go integer to int64.
func asInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	}
	return 0, false
}

// asFloat widens any Go float to float64.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	return 0, false
}

func negate(at parser.Position, v any) (any, error) {
	if iv, ok := asInt(v); ok {
		return -iv, nil
	}
	if fv, ok := asFloat(v); ok {
		return -fv, nil
	}
	return nil, evalErrorf(at, "%w: cannot negate %T", ErrInvalidOperand, v)
}

func applyBinary(at parser.Position, op string, l, r any) (any, error) {
	switch op {
	case "==":
		return equalValues(l, r), nil
	case "!=":
		return !equalValues(l, r), nil
	}

	if ls, lok := l.(string); lok {
		if rs, rok := r.(string); rok {
			return applyStrings(at, op, ls, rs)
		}
	}

	li, liok := asInt(l)
	ri, riok := asInt(r)
	if liok && riok {
		return applyInts(at, op, li, ri)
	}

	lf, lfok := asFloat(l)
	rf, rfok := asFloat(r)
	if liok {
		lf, lfok = float64(li), true
	}
	if riok {
		rf, rfok = float64(ri), true
	}
	if lfok && rfok {
		return applyFloats(at, op, lf, rf)
	}

	return nil, evalErrorf(at, "%w: %T %s %T", ErrInvalidOperand, l, op, r)
}

func applyInts(at parser.Position, op string, l, r int64) (any, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, evalError(at, ErrDivideByZero)
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, evalError(at, ErrDivideByZero)
		}
		return l % r, nil
	case "<":
		return l < r, nil
	case "<=":
		return l <= r, nil
	case ">":
		return l > r, nil
	case ">=":
		return l >= r, nil
	}
	return nil, evalErrorf(at, "unknown operator %q", op)
}

func applyFloats(at parser.Position, op string, l, r float64) (any, error) {
	switch op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, evalError(at, ErrDivideByZero)
		}
		return l / r, nil
	case "%":
		return nil, evalErrorf(at, "%w: %% needs integer operands", ErrInvalidOperand)
	case "<":
		return l < r, nil
	case "<=":
		return l <= r, nil
	case ">":
		return l > r, nil
	case ">=":
		return l >= r, nil
	}
	return nil, evalErrorf(at, "unknown operator %q", op)
}

func applyStrings(at parser.Position, op string, l, r string) (any, error) {
	switch op {
	case "+":
		return l + r, nil
	case "<":
		return l < r, nil
	case "<=":
		return l <= r, nil
	case ">":
		return l > r, nil
	case ">=":
		return l >= r, nil
	}
	return nil, evalErrorf(at, "%w: string %s string", ErrInvalidOperand, op)
}

// equalValues compares with numeric widening, so 1 == 1.0 holds; everything
// else falls back to deep equality.
func equalValues(l, r any) bool {
	if l == nil || r == nil {
		return l == nil && r == nil
	}
	li, liok := asInt(l)
	ri, riok := asInt(r)
	if liok && riok {
		return li == ri
	}
	lf, lfok := asFloat(l)
	rf, rfok := asFloat(r)
	if liok {
		lf, lfok = float64(li), true
	}
	if riok {
		rf, rfok = float64(ri), true
	}
	if lfok && rfok {
		return lf == rf
	}
	return reflect.DeepEqual(l, r)
}

// getIndexed reads obj[key] for maps, slices, arrays and strings.
func getIndexed(obj, key any) (any, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: cannot index null", ErrInvalidOperand)
	}
	if m, ok := obj.(map[string]any); ok {
		if ks, ok := key.(string); ok {
			return m[ks], nil
		}
	}
	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		idx, ok := asInt(key)
		if !ok {
			return nil, fmt.Errorf("%w: index must be an integer, got %T", ErrInvalidOperand, key)
		}
		if idx < 0 || idx >= int64(rv.Len()) {
			return nil, fmt.Errorf("index %d out of range [0,%d)", idx, rv.Len())
		}
		if rv.Kind() == reflect.String {
			return string(rv.String()[idx]), nil
		}
		return rv.Index(int(idx)).Interface(), nil
	case reflect.Map:
		kv := reflect.ValueOf(key)
		if !kv.IsValid() || !kv.Type().AssignableTo(rv.Type().Key()) {
			return nil, fmt.Errorf("%w: bad map key %T", ErrInvalidOperand, key)
		}
		v := rv.MapIndex(kv)
		if !v.IsValid() {
			return nil, nil
		}
		return v.Interface(), nil
	}
	return nil, fmt.Errorf("%w: cannot index %T", ErrInvalidOperand, obj)
}

// setIndexed writes obj[key] = value for maps and slices.
func setIndexed(obj, key, value any) error {
	if obj == nil {
		return fmt.Errorf("%w: cannot index null", ErrInvalidOperand)
	}
	if m, ok := obj.(map[string]any); ok {
		if ks, ok := key.(string); ok {
			m[ks] = value
			return nil
		}
	}
	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Slice:
		idx, ok := asInt(key)
		if !ok {
			return fmt.Errorf("%w: index must be an integer, got %T", ErrInvalidOperand, key)
		}
		if idx < 0 || idx >= int64(rv.Len()) {
			return fmt.Errorf("index %d out of range [0,%d)", idx, rv.Len())
		}
		ev := rv.Index(int(idx))
		if value == nil {
			ev.Set(reflect.Zero(ev.Type()))
			return nil
		}
		vv := reflect.ValueOf(value)
		if !vv.Type().AssignableTo(ev.Type()) {
			return fmt.Errorf("%w: cannot store %T in %s", ErrInvalidOperand, value, ev.Type())
		}
		ev.Set(vv)
		return nil
	case reflect.Map:
		kv := reflect.ValueOf(key)
		vv := reflect.ValueOf(value)
		if !kv.IsValid() || !kv.Type().AssignableTo(rv.Type().Key()) {
			return fmt.Errorf("%w: bad map key %T", ErrInvalidOperand, key)
		}
		rv.SetMapIndex(kv, vv)
		return nil
	}
	return fmt.Errorf("%w: cannot index-assign %T", ErrInvalidOperand, obj)
}

// callValue invokes a Go func held in a variable.
func callValue(callee any, args []any) (any, error) {
	if callee == nil {
		return nil, fmt.Errorf("%w: cannot call null", ErrInvalidOperand)
	}
	fn := reflect.ValueOf(callee)
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %T is not callable", ErrInvalidOperand, callee)
	}
	return introspect.CallFunc(fn, fn.Type().String(), args)
}
