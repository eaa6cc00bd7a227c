package typed

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-formstate/pkg/forms"
)

// Group wraps a compile-time-fixed record of named child nodes. C is a
// struct whose fields are the child nodes; V is the plain struct Value
// produces, one field per control. The key set is fixed by C: children can
// be replaced through SetControl but never added or removed.
type Group[C any, V any] struct {
	handle
	group    *forms.Group
	controls C
	fields   []groupField
}

// NewGroup constructs a fixed group from its record of children. It fails
// when C is not a struct of nodes, when a control field is nil, or when V
// does not offer a field of the matching value type for every control —
// every way a C/V pair can be malformed surfaces here, at construction.
func NewGroup[C any, V any](controls C, options ...Option[V]) (*Group[C, V], error) {
	fields, err := resolveGroupFields[C, V](controls)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(options)

	g := &Group[C, V]{controls: controls, fields: fields}
	g.group = forms.NewGroup(nil, cfg.controlOptions()...)
	g.init(g, g.group)

	for i := range g.fields {
		f := &g.fields[i]
		f.node.setParent(g)
		g.group.AddControl(f.name, f.node.Raw(), forms.WithOnlySelf(), forms.WithoutEvents())
	}

	bindValidators[V](g, cfg)
	g.group.UpdateValueAndValidity(forms.WithOnlySelf(), forms.WithoutEvents())
	return g, nil
}

// MustGroup is NewGroup for statically known shapes; it panics on a
// malformed C/V pair.
func MustGroup[C any, V any](controls C, options ...Option[V]) *Group[C, V] {
	g, err := NewGroup[C, V](controls, options...)
	if err != nil {
		panic(err)
	}
	return g
}

// Controls returns the record of child nodes with its static types intact.
func (g *Group[C, V]) Controls() C { return g.controls }

// ControlNames returns the fixed key set in declaration order.
func (g *Group[C, V]) ControlNames() []string {
	names := make([]string, len(g.fields))
	for i, f := range g.fields {
		names[i] = f.name
	}
	return names
}

// Control returns the child registered under name.
func (g *Group[C, V]) Control(name string) (AnyNode, bool) {
	if f := g.fieldNamed(name); f != nil {
		return f.node, true
	}
	return nil, false
}

// SetControl replaces the child under name with node, detaching the old
// child before attaching the new one on both the wrapper and the runtime
// side. The replacement must have the exact type C declares for that
// field; the key set itself never changes.
func (g *Group[C, V]) SetControl(name string, node AnyNode, opts ...forms.Opt) error {
	f := g.fieldNamed(name)
	if f == nil {
		return fmt.Errorf("typed: group has no control named %q", name)
	}
	if node == nil {
		return fmt.Errorf("typed: group control %q cannot be set to nil", name)
	}

	ftype := reflect.TypeFor[C]().Field(f.controlIndex).Type
	ntype := reflect.TypeOf(node)
	if !ntype.AssignableTo(ftype) {
		return fmt.Errorf("typed: control %q expects %s, got %s", name, ftype, ntype)
	}

	detach(f.node)
	f.node = node
	node.setParent(g)
	reflect.ValueOf(&g.controls).Elem().Field(f.controlIndex).Set(reflect.ValueOf(node))
	g.group.SetControl(name, node.Raw(), opts...)
	return nil
}

// Value assembles the plain value struct from the children's typed values.
func (g *Group[C, V]) Value() V {
	var out V
	ov := reflect.ValueOf(&out).Elem()
	for _, f := range g.fields {
		ov.Field(f.valueIndex).Set(callValue(f.node))
	}
	return out
}

// RawValue is identical to Value: a fixed struct has a slot for every
// child, so disabled children cannot be omitted the way the dynamic
// runtime omits them from its value map.
func (g *Group[C, V]) RawValue() V {
	var out V
	ov := reflect.ValueOf(&out).Elem()
	for _, f := range g.fields {
		ov.Field(f.valueIndex).Set(callRawValue(f.node))
	}
	return out
}

// SetValue distributes the value struct across the children, then
// revalidates the group once.
func (g *Group[C, V]) SetValue(value V, opts ...forms.Opt) error {
	o := forms.NewOpts(opts...)
	vv := reflect.ValueOf(value)
	for _, f := range g.fields {
		if err := callSetValue(f.node, vv.Field(f.valueIndex),
			forms.WithOnlySelf(), forms.WithEmitEvent(o.EmitEvent)); err != nil {
			return fmt.Errorf("typed: group setValue %q: %w", f.name, err)
		}
	}
	g.group.UpdateValueAndValidity(opts...)
	return nil
}

// Patch updates only the controls named in values, keyed by runtime name.
// Unknown keys are ignored; a value of the wrong type for its control is an
// error.
func (g *Group[C, V]) Patch(values map[string]any, opts ...forms.Opt) error {
	o := forms.NewOpts(opts...)
	for _, f := range g.fields {
		raw, ok := values[f.name]
		if !ok {
			continue
		}
		if err := callSetValue(f.node, reflect.ValueOf(raw),
			forms.WithOnlySelf(), forms.WithEmitEvent(o.EmitEvent)); err != nil {
			return fmt.Errorf("typed: group patch %q: %w", f.name, err)
		}
	}
	g.group.UpdateValueAndValidity(opts...)
	return nil
}

// Reset restores every child to empty and marks the subtree pristine and
// untouched.
func (g *Group[C, V]) Reset(opts ...forms.Opt) {
	g.group.Reset(nil, opts...)
}

// ResetTo restores every child from the corresponding field of value.
func (g *Group[C, V]) ResetTo(value V, opts ...forms.Opt) {
	o := forms.NewOpts(opts...)
	vv := reflect.ValueOf(value)
	for _, f := range g.fields {
		resetNodeTo(f.node, vv.Field(f.valueIndex), forms.WithOnlySelf(), forms.WithEmitEvent(o.EmitEvent))
	}
	g.group.UpdateValueAndValidity(opts...)
	g.group.MarkAsPristine(opts...)
	g.group.MarkAsUntouched(opts...)
}

// OnValueChange registers a typed callback fired on every committed change
// to the group's value.
func (g *Group[C, V]) OnValueChange(fn func(V)) func() {
	return g.ctl.OnValueChange(func(any) {
		fn(g.Value())
	})
}

func (g *Group[C, V]) fieldNamed(name string) *groupField {
	for i := range g.fields {
		if g.fields[i].name == name {
			return &g.fields[i]
		}
	}
	return nil
}

func (g *Group[C, V]) anyChild(segment string) AnyNode {
	if f := g.fieldNamed(segment); f != nil {
		return f.node
	}
	return nil
}
