package forms

import (
	"fmt"
	"slices"
	"sort"
)

// Group is a string-keyed collection of child controls. Key enumeration
// order is stable: construction sorts the initial key set, and later
// additions append. A Group backs both the fixed-shape and the
// open-dictionary typed wrappers; the typed layer decides which structural
// mutations are legal.
type Group struct {
	baseControl
	keys     []string
	children map[string]Control
}

// NewGroup constructs a group from the given children (nil for an empty
// group). Each child is attached as this group's child, and one silent
// validity pass runs so status reflects validators without notifying anyone.
func NewGroup(children map[string]Control, options ...ControlOption) *Group {
	g := &Group{children: make(map[string]Control, len(children))}
	g.init(g, newControlConfig(options))

	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g.registerChild(name, children[name])
	}

	g.UpdateValueAndValidity(WithOnlySelf(), WithoutEvents())
	return g
}

func (g *Group) registerChild(name string, child Control) {
	if child == nil {
		return
	}
	if _, ok := g.children[name]; !ok {
		g.keys = append(g.keys, name)
	}
	g.children[name] = child
	child.SetParent(g)
}

func (g *Group) detachChild(name string) {
	child, ok := g.children[name]
	if !ok {
		return
	}
	child.SetParent(nil)
	delete(g.children, name)
	g.keys = slices.DeleteFunc(g.keys, func(key string) bool { return key == name })
}

// AddControl attaches child under name. Adding a name that is already
// present is a silent no-op; the existing child stays.
func (g *Group) AddControl(name string, child Control, opts ...Opt) {
	if _, ok := g.children[name]; ok {
		return
	}
	g.registerChild(name, child)
	g.UpdateValueAndValidity(opts...)
}

// RegisterControl attaches child under name and returns it, or returns the
// already-registered child when the name is taken. Unlike AddControl it does
// not trigger a validity pass.
func (g *Group) RegisterControl(name string, child Control) Control {
	if existing, ok := g.children[name]; ok {
		return existing
	}
	g.registerChild(name, child)
	return child
}

// RemoveControl detaches and removes the child under name. Removing an
// absent name is a no-op.
func (g *Group) RemoveControl(name string, opts ...Opt) {
	if _, ok := g.children[name]; !ok {
		return
	}
	g.detachChild(name)
	g.UpdateValueAndValidity(opts...)
}

// SetControl replaces the child under name, detaching any prior occupant
// first, or inserts when the name is new. Replacement keeps the key's
// enumeration position.
func (g *Group) SetControl(name string, child Control, opts ...Opt) {
	if existing, ok := g.children[name]; ok {
		existing.SetParent(nil)
		if child == nil {
			g.detachChild(name)
		} else {
			g.children[name] = child
			child.SetParent(g)
		}
	} else if child != nil {
		g.registerChild(name, child)
	}
	g.UpdateValueAndValidity(opts...)
}

// Contains reports whether a child is registered under name and enabled.
func (g *Group) Contains(name string) bool {
	child, ok := g.children[name]
	return ok && child.Enabled()
}

// Control returns the child under name.
func (g *Group) Control(name string) (Control, bool) {
	child, ok := g.children[name]
	return child, ok
}

// ControlNames returns the keys in enumeration order.
func (g *Group) ControlNames() []string {
	return slices.Clone(g.keys)
}

// Controls returns a copy of the child mapping.
func (g *Group) Controls() map[string]Control {
	out := make(map[string]Control, len(g.children))
	for name, child := range g.children {
		out[name] = child
	}
	return out
}

// Len reports the number of children.
func (g *Group) Len() int { return len(g.keys) }

func (g *Group) Value() any {
	if g.Disabled() {
		return g.RawValue()
	}
	value := make(map[string]any, len(g.keys))
	for _, name := range g.keys {
		if child := g.children[name]; child.Enabled() {
			value[name] = child.Value()
		}
	}
	return value
}

func (g *Group) RawValue() any {
	value := make(map[string]any, len(g.keys))
	for _, name := range g.keys {
		value[name] = g.children[name].RawValue()
	}
	return value
}

// SetValue replaces every child's value. The supplied map must cover
// exactly the current key set; mismatches are reported before anything is
// mutated.
func (g *Group) SetValue(value any, opts ...Opt) error {
	entries, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("forms: group setValue expects map[string]any, got %T", value)
	}
	for name := range entries {
		if _, ok := g.children[name]; !ok {
			return fmt.Errorf("forms: group setValue: no control named %q", name)
		}
	}
	for _, name := range g.keys {
		if _, ok := entries[name]; !ok {
			return fmt.Errorf("forms: group setValue: missing value for control %q", name)
		}
	}

	o := NewOpts(opts...)
	for _, name := range g.keys {
		if err := g.children[name].SetValue(entries[name], WithOnlySelf(), WithEmitEvent(o.EmitEvent)); err != nil {
			return err
		}
	}
	g.UpdateValueAndValidity(opts...)
	return nil
}

// PatchValue updates the children named in the supplied map. Keys without a
// matching child are ignored.
func (g *Group) PatchValue(value any, opts ...Opt) error {
	if value == nil {
		return nil
	}
	entries, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("forms: group patchValue expects map[string]any, got %T", value)
	}
	o := NewOpts(opts...)
	for _, name := range g.keys {
		if v, ok := entries[name]; ok {
			if err := g.children[name].PatchValue(v, WithOnlySelf(), WithEmitEvent(o.EmitEvent)); err != nil {
				return err
			}
		}
	}
	g.UpdateValueAndValidity(opts...)
	return nil
}

// Reset restores every child to the value named in the supplied map (nil
// resets all children to empty) and marks the subtree pristine and
// untouched.
func (g *Group) Reset(value any, opts ...Opt) {
	entries, _ := value.(map[string]any)
	o := NewOpts(opts...)
	for _, name := range g.keys {
		g.children[name].Reset(entries[name], WithOnlySelf(), WithEmitEvent(o.EmitEvent))
	}
	g.UpdateValueAndValidity(opts...)
	g.updatePristine(opts...)
	g.updateTouched(opts...)
}

func (g *Group) childNamed(segment string) Control {
	child, ok := g.children[segment]
	if !ok {
		return nil
	}
	return child
}

func (g *Group) eachChild(fn func(Control)) {
	for _, name := range g.keys {
		fn(g.children[name])
	}
}

func (g *Group) allControlsDisabled() bool {
	for _, name := range g.keys {
		if g.children[name].Enabled() {
			return false
		}
	}
	return len(g.keys) > 0 || g.Disabled()
}
