package forms

import (
	"fmt"
	"slices"
	"strconv"
)

// List is an ordered sequence of child controls. Index i in the list always
// corresponds to index i in any wrapper that mirrors it; the structural
// mutators keep child parent links in lockstep with the sequence.
type List struct {
	baseControl
	children []Control
}

// NewList constructs a list from the given children (nil for an empty
// list) and runs one silent validity pass.
func NewList(children []Control, options ...ControlOption) *List {
	l := &List{}
	l.init(l, newControlConfig(options))
	for _, child := range children {
		if child == nil {
			continue
		}
		l.children = append(l.children, child)
		child.SetParent(l)
	}
	l.UpdateValueAndValidity(WithOnlySelf(), WithoutEvents())
	return l
}

// At returns the child at index, or nil when index is out of range. An
// out-of-range read is never a failure.
func (l *List) At(index int) Control {
	if index < 0 || index >= len(l.children) {
		return nil
	}
	return l.children[index]
}

// Len reports the number of children.
func (l *List) Len() int { return len(l.children) }

// Controls returns a copy of the child sequence.
func (l *List) Controls() []Control {
	return slices.Clone(l.children)
}

// Push appends child to the end of the list.
func (l *List) Push(child Control, opts ...Opt) {
	if child == nil {
		return
	}
	l.children = append(l.children, child)
	child.SetParent(l)
	l.UpdateValueAndValidity(opts...)
}

// Insert places child at index, shifting later children up. The index is
// clamped to the current bounds.
func (l *List) Insert(index int, child Control, opts ...Opt) {
	if child == nil {
		return
	}
	index = l.clamp(index)
	l.children = slices.Insert(l.children, index, child)
	child.SetParent(l)
	l.UpdateValueAndValidity(opts...)
}

// RemoveAt detaches and removes the child at index. Out-of-range indices
// are ignored.
func (l *List) RemoveAt(index int, opts ...Opt) {
	if index < 0 || index >= len(l.children) {
		return
	}
	l.children[index].SetParent(nil)
	l.children = slices.Delete(l.children, index, index+1)
	l.UpdateValueAndValidity(opts...)
}

// SetControl replaces the child at index, detaching the displaced one. An
// index at or past the end appends instead.
func (l *List) SetControl(index int, child Control, opts ...Opt) {
	if child == nil {
		l.RemoveAt(index, opts...)
		return
	}
	index = l.clamp(index)
	if index == len(l.children) {
		l.children = append(l.children, child)
	} else {
		l.children[index].SetParent(nil)
		l.children[index] = child
	}
	child.SetParent(l)
	l.UpdateValueAndValidity(opts...)
}

func (l *List) clamp(index int) int {
	if index < 0 {
		return 0
	}
	if index > len(l.children) {
		return len(l.children)
	}
	return index
}

func (l *List) Value() any {
	if l.Disabled() {
		return l.RawValue()
	}
	value := make([]any, 0, len(l.children))
	for _, child := range l.children {
		if child.Enabled() {
			value = append(value, child.Value())
		}
	}
	return value
}

func (l *List) RawValue() any {
	value := make([]any, len(l.children))
	for i, child := range l.children {
		value[i] = child.RawValue()
	}
	return value
}

// SetValue replaces every child's value. The supplied slice must match the
// current length exactly.
func (l *List) SetValue(value any, opts ...Opt) error {
	entries, ok := value.([]any)
	if !ok {
		return fmt.Errorf("forms: list setValue expects []any, got %T", value)
	}
	if len(entries) != len(l.children) {
		return fmt.Errorf("forms: list setValue: want %d values, got %d", len(l.children), len(entries))
	}
	o := NewOpts(opts...)
	for i, child := range l.children {
		if err := child.SetValue(entries[i], WithOnlySelf(), WithEmitEvent(o.EmitEvent)); err != nil {
			return err
		}
	}
	l.UpdateValueAndValidity(opts...)
	return nil
}

// PatchValue applies the supplied values positionally; a shorter slice
// patches a prefix, surplus entries are ignored.
func (l *List) PatchValue(value any, opts ...Opt) error {
	if value == nil {
		return nil
	}
	entries, ok := value.([]any)
	if !ok {
		return fmt.Errorf("forms: list patchValue expects []any, got %T", value)
	}
	o := NewOpts(opts...)
	for i, child := range l.children {
		if i >= len(entries) {
			break
		}
		if err := child.PatchValue(entries[i], WithOnlySelf(), WithEmitEvent(o.EmitEvent)); err != nil {
			return err
		}
	}
	l.UpdateValueAndValidity(opts...)
	return nil
}

// Reset restores children positionally from the supplied slice (nil resets
// all children to empty) and marks the subtree pristine and untouched.
func (l *List) Reset(value any, opts ...Opt) {
	entries, _ := value.([]any)
	o := NewOpts(opts...)
	for i, child := range l.children {
		var v any
		if i < len(entries) {
			v = entries[i]
		}
		child.Reset(v, WithOnlySelf(), WithEmitEvent(o.EmitEvent))
	}
	l.UpdateValueAndValidity(opts...)
	l.updatePristine(opts...)
	l.updateTouched(opts...)
}

func (l *List) childNamed(segment string) Control {
	index, err := strconv.Atoi(segment)
	if err != nil {
		return nil
	}
	return l.At(index)
}

func (l *List) eachChild(fn func(Control)) {
	for _, child := range l.children {
		fn(child)
	}
}

func (l *List) allControlsDisabled() bool {
	for _, child := range l.children {
		if child.Enabled() {
			return false
		}
	}
	return len(l.children) > 0 || l.Disabled()
}
