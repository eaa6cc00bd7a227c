package typed

import (
	"fmt"
	"reflect"
)

// groupField is one resolved correspondence between a control field in C, a
// value field in V, and the runtime key both map to.
type groupField struct {
	name         string
	controlIndex int
	valueIndex   int
	node         AnyNode
}

// resolveGroupFields derives the C/V correspondence for a fixed group. C
// must be a struct whose exported fields hold node values; V must be a
// struct offering, for every control field, a field of the type that
// control's Value method returns. Field pairing goes by the `form` tag when
// present and by the Go field name otherwise. This runtime check is the
// stand-in for a compile-time derivation Go's type system cannot express:
// a malformed pair is a constructor error, never a latent runtime failure.
func resolveGroupFields[C any, V any](controls C) ([]groupField, error) {
	ctype := reflect.TypeFor[C]()
	if ctype.Kind() != reflect.Struct {
		return nil, fmt.Errorf("typed: group controls must be a struct, got %s", ctype.Kind())
	}
	vtype := reflect.TypeFor[V]()
	if vtype.Kind() != reflect.Struct {
		return nil, fmt.Errorf("typed: group value type must be a struct, got %s", vtype.Kind())
	}

	cval := reflect.ValueOf(controls)
	fields := make([]groupField, 0, ctype.NumField())
	seen := make(map[string]struct{}, ctype.NumField())

	for i := 0; i < ctype.NumField(); i++ {
		sf := ctype.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := fieldKey(sf)
		if name == "-" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("typed: group controls declare %q twice", name)
		}
		seen[name] = struct{}{}

		raw := cval.Field(i)
		if raw.Kind() == reflect.Interface || raw.Kind() == reflect.Pointer {
			if raw.IsNil() {
				return nil, fmt.Errorf("typed: group control %q is nil", name)
			}
		}
		node, ok := raw.Interface().(AnyNode)
		if !ok {
			return nil, fmt.Errorf("typed: group control %q (%s) is not a form node", name, sf.Type)
		}

		valueType, err := nodeValueType(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("typed: group control %q: %w", name, err)
		}

		vf, ok := valueFieldFor(vtype, sf.Name, name)
		if !ok {
			return nil, fmt.Errorf("typed: value type %s has no field for control %q", vtype, name)
		}
		if !valueType.AssignableTo(vf.Type) {
			return nil, fmt.Errorf("typed: control %q yields %s but value field %s.%s is %s",
				name, valueType, vtype.Name(), vf.Name, vf.Type)
		}

		fields = append(fields, groupField{
			name:         name,
			controlIndex: i,
			valueIndex:   vf.Index[0],
			node:         node,
		})
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("typed: group controls struct %s declares no control fields", ctype)
	}
	return fields, nil
}

// fieldKey resolves the runtime key for a controls-struct field: the `form`
// tag when present, the Go field name otherwise.
func fieldKey(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("form"); ok && tag != "" {
		return tag
	}
	return sf.Name
}

// valueFieldFor finds the value-struct field matching a control field,
// preferring an identical `form` tag over the Go field name.
func valueFieldFor(vtype reflect.Type, goName, key string) (reflect.StructField, bool) {
	for i := 0; i < vtype.NumField(); i++ {
		vf := vtype.Field(i)
		if !vf.IsExported() {
			continue
		}
		if tag, ok := vf.Tag.Lookup("form"); ok && tag == key {
			return vf, true
		}
	}
	if vf, ok := vtype.FieldByName(goName); ok && len(vf.Index) == 1 {
		return vf, true
	}
	return reflect.StructField{}, false
}

// nodeValueType reports the value type a node type produces, read off its
// Value method.
func nodeValueType(t reflect.Type) (reflect.Type, error) {
	m, ok := t.MethodByName("Value")
	if !ok {
		return nil, fmt.Errorf("%s has no Value method", t)
	}
	mt := m.Type
	if mt.NumOut() != 1 {
		return nil, fmt.Errorf("%s.Value must return exactly one value", t)
	}
	return mt.Out(0), nil
}

// callValue invokes a node's typed Value method through reflection.
func callValue(node AnyNode) reflect.Value {
	return reflect.ValueOf(node).MethodByName("Value").Call(nil)[0]
}

// callRawValue invokes a node's typed RawValue method through reflection.
func callRawValue(node AnyNode) reflect.Value {
	return reflect.ValueOf(node).MethodByName("RawValue").Call(nil)[0]
}

// callSetValue invokes a node's typed SetValue method through reflection,
// converting value when the static types are convertible but not identical.
func callSetValue(node AnyNode, value reflect.Value, opts ...any) error {
	m := reflect.ValueOf(node).MethodByName("SetValue")
	in := m.Type().In(0)
	if !value.IsValid() {
		value = reflect.Zero(in)
	}
	if !value.Type().AssignableTo(in) {
		if !value.Type().ConvertibleTo(in) {
			return fmt.Errorf("typed: cannot assign %s to control expecting %s", value.Type(), in)
		}
		value = value.Convert(in)
	}
	args := make([]reflect.Value, 0, 1+len(opts))
	args = append(args, value)
	for _, opt := range opts {
		args = append(args, reflect.ValueOf(opt))
	}
	out := m.Call(args)
	if err, ok := out[0].Interface().(error); ok && err != nil {
		return err
	}
	return nil
}

// resetNodeTo invokes a node's typed ResetTo method through reflection.
// Values that cannot be converted are dropped silently; the constructor
// already guaranteed the types line up for values produced by this tree.
func resetNodeTo(node AnyNode, value reflect.Value, opts ...any) {
	m := reflect.ValueOf(node).MethodByName("ResetTo")
	in := m.Type().In(0)
	if !value.IsValid() {
		value = reflect.Zero(in)
	}
	if !value.Type().AssignableTo(in) {
		if !value.Type().ConvertibleTo(in) {
			return
		}
		value = value.Convert(in)
	}
	args := make([]reflect.Value, 0, 1+len(opts))
	args = append(args, value)
	for _, opt := range opts {
		args = append(args, reflect.ValueOf(opt))
	}
	m.Call(args)
}
