package introspect

import "reflect"

type getKind int

const (
	getMapKey getKind = iota
	getField
	getGetterMethod
)

// propertyGet is a resolved property-access strategy, valid for one receiver
// type under one resolution generation.
type propertyGet struct {
	version int
	recv    reflect.Type
	kind    getKind
	name    string
	field   []int
	method  int
}

func (g *propertyGet) matches(version int, obj any) bool {
	return g.version == version && reflect.TypeOf(obj) == g.recv
}

func (g *propertyGet) get(obj any) (any, error) {
	rv := reflect.ValueOf(obj)
	switch g.kind {
	case getMapKey:
		v := rv.MapIndex(reflect.ValueOf(g.name))
		if !v.IsValid() {
			return nil, nil
		}
		return v.Interface(), nil
	case getField:
		elem := rv
		for elem.Kind() == reflect.Pointer {
			if elem.IsNil() {
				return nil, propertyError(ErrNilTarget, g.name)
			}
			elem = elem.Elem()
		}
		return elem.FieldByIndex(g.field).Interface(), nil
	case getGetterMethod:
		out := rv.Method(g.method).Call(nil)
		return resultsToValue(out, g.name)
	}
	return nil, propertyError(ErrUnknownProperty, g.name)
}

// resolveGetter finds how to read property name from values of obj's type.
// Maps with string keys win, then exported struct fields, then nullary
// getter methods (Name() or GetName()).
func (u *Uberspect) resolveGetter(obj any, name string) (*propertyGet, error) {
	version := u.Version()
	rt := reflect.TypeOf(obj)
	rv := reflect.ValueOf(obj)

	if rt.Kind() == reflect.Map && rt.Key().Kind() == reflect.String {
		return &propertyGet{version: version, recv: rt, kind: getMapKey, name: name}, nil
	}

	elem := rt
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() == reflect.Struct {
		if field, ok := elem.FieldByName(exportedName(name)); ok && field.IsExported() {
			return &propertyGet{
				version: version,
				recv:    rt,
				kind:    getField,
				name:    name,
				field:   field.Index,
			}, nil
		}
	}

	for _, candidate := range []string{exportedName(name), "Get" + exportedName(name)} {
		if method, ok := rt.MethodByName(candidate); ok {
			if mv := rv.Method(method.Index); mv.Type().NumIn() == 0 {
				return &propertyGet{
					version: version,
					recv:    rt,
					kind:    getGetterMethod,
					name:    name,
					method:  method.Index,
				}, nil
			}
		}
	}

	u.logger.Debug("property resolution failed", "type", rt.String(), "property", name)
	return nil, propertyError(ErrUnknownProperty, name)
}
