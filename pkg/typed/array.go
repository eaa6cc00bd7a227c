package typed

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formstate/pkg/forms"
)

// Array wraps an ordered sequence of child nodes that all produce values of
// type V. The wrapper sequence, the runtime list's children, and each
// child's parent reference move in lockstep through every structural
// mutation.
type Array[V any] struct {
	handle
	list     *forms.List
	children []Node[V]
}

var _ Node[[]string] = (*Array[string])(nil)

// NewArray constructs an array from the given children, which may be nil
// for an empty sequence.
func NewArray[V any](children []Node[V], options ...Option[[]V]) *Array[V] {
	cfg := newConfig(options)
	a := &Array[V]{}
	a.list = forms.NewList(nil, cfg.controlOptions()...)
	a.init(a, a.list)
	for _, child := range children {
		if child == nil {
			continue
		}
		a.children = append(a.children, child)
		child.setParent(a)
		a.list.Push(child.Raw(), forms.WithOnlySelf(), forms.WithoutEvents())
	}
	bindValidators[[]V](a, cfg)
	a.list.UpdateValueAndValidity(forms.WithOnlySelf(), forms.WithoutEvents())
	return a
}

// Len reports the number of children.
func (a *Array[V]) Len() int { return len(a.children) }

// At returns the child at index, or nil when index is out of range.
func (a *Array[V]) At(index int) Node[V] {
	if index < 0 || index >= len(a.children) {
		return nil
	}
	return a.children[index]
}

// Controls returns a copy of the child sequence.
func (a *Array[V]) Controls() []Node[V] {
	out := make([]Node[V], len(a.children))
	copy(out, a.children)
	return out
}

// Push appends child to the end of the sequence.
func (a *Array[V]) Push(child Node[V], opts ...forms.Opt) {
	if child == nil {
		return
	}
	a.children = append(a.children, child)
	child.setParent(a)
	a.list.Push(child.Raw(), opts...)
}

// Insert places child at index, shifting later children up. The index is
// clamped to the current bounds.
func (a *Array[V]) Insert(index int, child Node[V], opts ...forms.Opt) {
	if child == nil {
		return
	}
	index = a.clamp(index)
	a.children = append(a.children, nil)
	copy(a.children[index+1:], a.children[index:])
	a.children[index] = child
	child.setParent(a)
	a.list.Insert(index, child.Raw(), opts...)
}

// RemoveAt detaches and removes the child at index; out-of-range indices
// are ignored.
func (a *Array[V]) RemoveAt(index int, opts ...forms.Opt) {
	if index < 0 || index >= len(a.children) {
		return
	}
	detach(a.children[index])
	a.children = append(a.children[:index], a.children[index+1:]...)
	a.list.RemoveAt(index, opts...)
}

// SetControl replaces the child at index with child, detaching the
// displaced node. An index at or past the end appends.
func (a *Array[V]) SetControl(index int, child Node[V], opts ...forms.Opt) {
	if child == nil {
		a.RemoveAt(index, opts...)
		return
	}
	index = a.clamp(index)
	if index == len(a.children) {
		a.children = append(a.children, child)
	} else {
		detach(a.children[index])
		a.children[index] = child
	}
	child.setParent(a)
	a.list.SetControl(index, child.Raw(), opts...)
}

func (a *Array[V]) clamp(index int) int {
	if index < 0 {
		return 0
	}
	if index > len(a.children) {
		return len(a.children)
	}
	return index
}

// Value reports the values of the enabled children in order, mirroring the
// runtime list's own aggregation.
func (a *Array[V]) Value() []V {
	includeAll := a.Disabled()
	out := make([]V, 0, len(a.children))
	for _, child := range a.children {
		if includeAll || child.Enabled() {
			out = append(out, child.Value())
		}
	}
	return out
}

// RawValue reports every child's value, disabled ones included.
func (a *Array[V]) RawValue() []V {
	out := make([]V, len(a.children))
	for i, child := range a.children {
		out[i] = child.RawValue()
	}
	return out
}

// SetValue replaces every child's value; the slice must match the current
// length exactly. Values are routed through the typed children so nested
// wrappers apply their own encoding.
func (a *Array[V]) SetValue(value []V, opts ...forms.Opt) error {
	if len(value) != len(a.children) {
		return fmt.Errorf("typed: array setValue: want %d values, got %d", len(a.children), len(value))
	}
	o := forms.NewOpts(opts...)
	for i, child := range a.children {
		if err := child.SetValue(value[i], forms.WithOnlySelf(), forms.WithEmitEvent(o.EmitEvent)); err != nil {
			return err
		}
	}
	a.list.UpdateValueAndValidity(opts...)
	return nil
}

// Patch applies values positionally; a shorter slice patches a prefix,
// surplus entries are ignored.
func (a *Array[V]) Patch(value []V, opts ...forms.Opt) error {
	o := forms.NewOpts(opts...)
	for i, child := range a.children {
		if i >= len(value) {
			break
		}
		if err := child.SetValue(value[i], forms.WithOnlySelf(), forms.WithEmitEvent(o.EmitEvent)); err != nil {
			return err
		}
	}
	a.list.UpdateValueAndValidity(opts...)
	return nil
}

// Reset restores every child to empty and marks the subtree pristine and
// untouched.
func (a *Array[V]) Reset(opts ...forms.Opt) {
	a.list.Reset(nil, opts...)
}

// ResetTo restores children positionally from value.
func (a *Array[V]) ResetTo(value []V, opts ...forms.Opt) {
	o := forms.NewOpts(opts...)
	for i, child := range a.children {
		if i < len(value) {
			child.ResetTo(value[i], forms.WithOnlySelf(), forms.WithEmitEvent(o.EmitEvent))
		} else {
			child.Reset(forms.WithOnlySelf(), forms.WithEmitEvent(o.EmitEvent))
		}
	}
	a.list.UpdateValueAndValidity(opts...)
	a.list.MarkAsPristine(opts...)
	a.list.MarkAsUntouched(opts...)
}

// OnValueChange registers a typed callback fired on every committed change
// to the sequence's value.
func (a *Array[V]) OnValueChange(fn func([]V)) func() {
	return a.ctl.OnValueChange(func(any) {
		fn(a.Value())
	})
}

func (a *Array[V]) anyChild(segment string) AnyNode {
	index, err := strconv.Atoi(segment)
	if err != nil || index < 0 || index >= len(a.children) {
		return nil
	}
	return a.children[index]
}
