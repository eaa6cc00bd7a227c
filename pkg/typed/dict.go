package typed

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-formstate/pkg/forms"
)

// Dict wraps a runtime-mutable mapping from string keys to child nodes that
// all produce values of type V. The single type parameter is what makes an
// accidental heterogeneous dictionary unrepresentable: every child must
// satisfy Node[V] for one concrete V. The wrapper's key set and the runtime
// group's key set are equal at all times.
type Dict[V any] struct {
	handle
	group    *forms.Group
	children map[string]Node[V]
}

var _ Node[map[string]int] = (*Dict[int])(nil)

// NewDict constructs a dictionary from the given children, which may be nil
// for an empty mapping.
func NewDict[V any](children map[string]Node[V], options ...Option[map[string]V]) *Dict[V] {
	cfg := newConfig(options)
	d := &Dict[V]{children: make(map[string]Node[V], len(children))}
	d.group = forms.NewGroup(nil, cfg.controlOptions()...)
	d.init(d, d.group)

	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		child := children[name]
		if child == nil {
			continue
		}
		d.children[name] = child
		child.setParent(d)
		d.group.AddControl(name, child.Raw(), forms.WithOnlySelf(), forms.WithoutEvents())
	}

	bindValidators[map[string]V](d, cfg)
	d.group.UpdateValueAndValidity(forms.WithOnlySelf(), forms.WithoutEvents())
	return d
}

// Len reports the number of entries.
func (d *Dict[V]) Len() int { return len(d.children) }

// Keys returns the keys in enumeration order.
func (d *Dict[V]) Keys() []string { return d.group.ControlNames() }

// Control returns the child registered under name.
func (d *Dict[V]) Control(name string) (Node[V], bool) {
	child, ok := d.children[name]
	return child, ok
}

// Controls returns a copy of the child mapping.
func (d *Dict[V]) Controls() map[string]Node[V] {
	out := make(map[string]Node[V], len(d.children))
	for name, child := range d.children {
		out[name] = child
	}
	return out
}

// Contains reports whether the runtime control has an enabled child under
// name.
func (d *Dict[V]) Contains(name string) bool {
	return d.group.Contains(name)
}

// AddControl attaches child under name. Adding a name that is already
// present is a silent no-op; the existing child is never replaced.
func (d *Dict[V]) AddControl(name string, child Node[V], opts ...forms.Opt) {
	if child == nil {
		return
	}
	if _, ok := d.children[name]; ok {
		return
	}
	d.children[name] = child
	child.setParent(d)
	d.group.AddControl(name, child.Raw(), opts...)
}

// RegisterControl attaches child under name and returns it, or returns the
// already-registered child when the name is taken.
func (d *Dict[V]) RegisterControl(name string, child Node[V]) Node[V] {
	if existing, ok := d.children[name]; ok {
		return existing
	}
	d.children[name] = child
	child.setParent(d)
	d.group.RegisterControl(name, child.Raw())
	return child
}

// RemoveControl detaches and deletes the entry under name; removing an
// absent name is a no-op.
func (d *Dict[V]) RemoveControl(name string, opts ...forms.Opt) {
	child, ok := d.children[name]
	if !ok {
		return
	}
	detach(child)
	delete(d.children, name)
	d.group.RemoveControl(name, opts...)
}

// SetControl unconditionally replaces or inserts the entry under name,
// detaching any prior occupant first.
func (d *Dict[V]) SetControl(name string, child Node[V], opts ...forms.Opt) {
	if existing, ok := d.children[name]; ok {
		detach(existing)
		delete(d.children, name)
	}
	if child == nil {
		d.group.SetControl(name, nil, opts...)
		return
	}
	d.children[name] = child
	child.setParent(d)
	d.group.SetControl(name, child.Raw(), opts...)
}

// Value reports the values of the enabled entries, mirroring the runtime
// group's own aggregation.
func (d *Dict[V]) Value() map[string]V {
	includeAll := d.Disabled()
	out := make(map[string]V, len(d.children))
	for name, child := range d.children {
		if includeAll || child.Enabled() {
			out[name] = child.Value()
		}
	}
	return out
}

// RawValue reports every entry's value, disabled ones included.
func (d *Dict[V]) RawValue() map[string]V {
	out := make(map[string]V, len(d.children))
	for name, child := range d.children {
		out[name] = child.RawValue()
	}
	return out
}

// SetValue replaces every entry's value. The supplied map must cover
// exactly the current key set.
func (d *Dict[V]) SetValue(value map[string]V, opts ...forms.Opt) error {
	for name := range value {
		if _, ok := d.children[name]; !ok {
			return fmt.Errorf("typed: dict setValue: no control named %q", name)
		}
	}
	for name := range d.children {
		if _, ok := value[name]; !ok {
			return fmt.Errorf("typed: dict setValue: missing value for control %q", name)
		}
	}
	o := forms.NewOpts(opts...)
	for _, name := range d.Keys() {
		if err := d.children[name].SetValue(value[name], forms.WithOnlySelf(), forms.WithEmitEvent(o.EmitEvent)); err != nil {
			return err
		}
	}
	d.group.UpdateValueAndValidity(opts...)
	return nil
}

// Patch updates the entries named in value; keys without a matching child
// are ignored.
func (d *Dict[V]) Patch(value map[string]V, opts ...forms.Opt) error {
	o := forms.NewOpts(opts...)
	for _, name := range d.Keys() {
		if v, ok := value[name]; ok {
			if err := d.children[name].SetValue(v, forms.WithOnlySelf(), forms.WithEmitEvent(o.EmitEvent)); err != nil {
				return err
			}
		}
	}
	d.group.UpdateValueAndValidity(opts...)
	return nil
}

// Reset restores every entry to empty and marks the subtree pristine and
// untouched.
func (d *Dict[V]) Reset(opts ...forms.Opt) {
	d.group.Reset(nil, opts...)
}

// ResetTo restores the entries named in value and clears the rest.
func (d *Dict[V]) ResetTo(value map[string]V, opts ...forms.Opt) {
	o := forms.NewOpts(opts...)
	for _, name := range d.Keys() {
		if v, ok := value[name]; ok {
			d.children[name].ResetTo(v, forms.WithOnlySelf(), forms.WithEmitEvent(o.EmitEvent))
		} else {
			d.children[name].Reset(forms.WithOnlySelf(), forms.WithEmitEvent(o.EmitEvent))
		}
	}
	d.group.UpdateValueAndValidity(opts...)
	d.group.MarkAsPristine(opts...)
	d.group.MarkAsUntouched(opts...)
}

// OnValueChange registers a typed callback fired on every committed change
// to the mapping's value.
func (d *Dict[V]) OnValueChange(fn func(map[string]V)) func() {
	return d.ctl.OnValueChange(func(any) {
		fn(d.Value())
	})
}

func (d *Dict[V]) anyChild(segment string) AnyNode {
	child, ok := d.children[segment]
	if !ok {
		return nil
	}
	return child
}
