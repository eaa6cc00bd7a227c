package typed

import (
	"strings"

	"github.com/goliatone/go-formstate/pkg/forms"
)

// AnyNode is the untyped view of a wrapper node: the capability set every
// node kind shares regardless of its value type. It is what child lookups
// and heterogeneous traversals hand back. The unexported methods keep the
// implementing set closed to the four kinds in this package.
type AnyNode interface {
	// Raw exposes the underlying runtime control unmodified, the escape
	// hatch for direct interoperation with untyped machinery.
	Raw() forms.Control

	Status() forms.Status
	Valid() bool
	Invalid() bool
	Pending() bool
	Disabled() bool
	Enabled() bool

	Errors() forms.Errors
	SetErrors(errs forms.Errors, opts ...forms.Opt)
	GetError(code string, path ...string) any
	HasError(code string, path ...string) bool

	Dirty() bool
	Pristine() bool
	Touched() bool
	Untouched() bool
	MarkAsTouched(opts ...forms.Opt)
	MarkAsUntouched(opts ...forms.Opt)
	MarkAsDirty(opts ...forms.Opt)
	MarkAsPristine(opts ...forms.Opt)
	MarkAsPending(opts ...forms.Opt)

	Enable(opts ...forms.Opt)
	Disable(opts ...forms.Opt)
	UpdateValueAndValidity(opts ...forms.Opt)
	UpdateOn() forms.UpdateOn

	Parent() AnyNode
	Root() AnyNode
	// Get resolves a dot-delimited path through nested wrappers, returning
	// nil for an empty path or at the first unresolved segment.
	Get(path string) AnyNode
	GetPath(segments ...string) AnyNode

	setParent(parent AnyNode)
	anyChild(segment string) AnyNode
}

// Node is a wrapper whose value has the statically known shape V.
type Node[V any] interface {
	AnyNode

	Value() V
	RawValue() V
	SetValue(value V, opts ...forms.Opt) error
	Reset(opts ...forms.Opt)
	ResetTo(value V, opts ...forms.Opt)
	OnValueChange(fn func(value V)) (cancel func())
}

// handle carries the state common to every wrapper kind and forwards the
// shared capability surface to the runtime control. The wrapper-level
// parent reference always mirrors the runtime control's parent linkage:
// both are set on attach and cleared on detach by the structural mutators.
type handle struct {
	owner  AnyNode
	ctl    forms.Control
	parent AnyNode
}

func (h *handle) init(owner AnyNode, ctl forms.Control) {
	h.owner = owner
	h.ctl = ctl
}

func (h *handle) Raw() forms.Control { return h.ctl }

func (h *handle) Status() forms.Status { return h.ctl.Status() }
func (h *handle) Valid() bool          { return h.ctl.Valid() }
func (h *handle) Invalid() bool        { return h.ctl.Invalid() }
func (h *handle) Pending() bool        { return h.ctl.Pending() }
func (h *handle) Disabled() bool       { return h.ctl.Disabled() }
func (h *handle) Enabled() bool        { return h.ctl.Enabled() }

func (h *handle) Errors() forms.Errors { return h.ctl.Errors() }

func (h *handle) SetErrors(errs forms.Errors, opts ...forms.Opt) {
	h.ctl.SetErrors(errs, opts...)
}

func (h *handle) GetError(code string, path ...string) any {
	return h.ctl.GetError(code, path...)
}

func (h *handle) HasError(code string, path ...string) bool {
	return h.ctl.HasError(code, path...)
}

func (h *handle) Dirty() bool     { return h.ctl.Dirty() }
func (h *handle) Pristine() bool  { return h.ctl.Pristine() }
func (h *handle) Touched() bool   { return h.ctl.Touched() }
func (h *handle) Untouched() bool { return h.ctl.Untouched() }

func (h *handle) MarkAsTouched(opts ...forms.Opt)   { h.ctl.MarkAsTouched(opts...) }
func (h *handle) MarkAsUntouched(opts ...forms.Opt) { h.ctl.MarkAsUntouched(opts...) }
func (h *handle) MarkAsDirty(opts ...forms.Opt)     { h.ctl.MarkAsDirty(opts...) }
func (h *handle) MarkAsPristine(opts ...forms.Opt)  { h.ctl.MarkAsPristine(opts...) }
func (h *handle) MarkAsPending(opts ...forms.Opt)   { h.ctl.MarkAsPending(opts...) }

func (h *handle) Enable(opts ...forms.Opt)  { h.ctl.Enable(opts...) }
func (h *handle) Disable(opts ...forms.Opt) { h.ctl.Disable(opts...) }

func (h *handle) UpdateValueAndValidity(opts ...forms.Opt) {
	h.ctl.UpdateValueAndValidity(opts...)
}

func (h *handle) UpdateOn() forms.UpdateOn { return h.ctl.UpdateOn() }

func (h *handle) Parent() AnyNode { return h.parent }

func (h *handle) Root() AnyNode {
	node := h.owner
	for node.Parent() != nil {
		node = node.Parent()
	}
	return node
}

func (h *handle) Get(path string) AnyNode {
	if path == "" {
		return nil
	}
	return h.GetPath(strings.Split(path, ".")...)
}

func (h *handle) GetPath(segments ...string) AnyNode {
	if len(segments) == 0 {
		return nil
	}
	current := h.owner
	for _, segment := range segments {
		if current == nil {
			return nil
		}
		current = current.anyChild(segment)
	}
	return current
}

func (h *handle) setParent(parent AnyNode) { h.parent = parent }

func (h *handle) anyChild(string) AnyNode { return nil }

// detach clears a child's wrapper parent; the caller is responsible for the
// matching runtime-side detach.
func detach(node AnyNode) {
	if node != nil {
		node.setParent(nil)
	}
}
