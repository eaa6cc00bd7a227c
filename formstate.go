// Package formstate is the top-level entry point for the form-state
// library. It re-exports the typed facade and the dynamic runtime so most
// programs only import this one package:
//
//	name := formstate.NewLeaf("Ada", formstate.WithValidators[string](...))
//	form, err := formstate.NewGroup[profileControls, profileValues](controls)
//
// The dynamic tree lives in pkg/forms, the typed wrappers in pkg/typed,
// reusable validators in pkg/validators, and schema-driven construction in
// pkg/schema.
package formstate

import (
	"github.com/goliatone/go-formstate/pkg/forms"
	"github.com/goliatone/go-formstate/pkg/typed"
)

// Dynamic runtime surface.
type (
	// Control is the dynamically typed form control interface.
	Control = forms.Control
	// Status reports a control's validation state.
	Status = forms.Status
	// Errors maps validation error codes to detail payloads.
	Errors = forms.Errors
	// ValidatorFunc validates a dynamic control synchronously.
	ValidatorFunc = forms.ValidatorFunc
	// AsyncValidatorFunc validates a dynamic control asynchronously.
	AsyncValidatorFunc = forms.AsyncValidatorFunc
	// Opt adjusts how a single mutation propagates.
	Opt = forms.Opt
)

// Validation statuses.
const (
	StatusValid    = forms.StatusValid
	StatusInvalid  = forms.StatusInvalid
	StatusPending  = forms.StatusPending
	StatusDisabled = forms.StatusDisabled
)

// Typed facade surface.
type (
	// AnyNode is the type-erased view of a typed node.
	AnyNode = typed.AnyNode
	// Node is a typed view over a control carrying values of type V.
	Node[V any] = typed.Node[V]
	// Leaf wraps a single field holding a T.
	Leaf[T any] = typed.Leaf[T]
	// Array wraps an ordered list of homogeneous nodes.
	Array[V any] = typed.Array[V]
	// Dict wraps a string-keyed collection of homogeneous nodes.
	Dict[V any] = typed.Dict[V]
	// Group wraps a fixed struct of heterogeneous nodes.
	Group[C, V any] = typed.Group[C, V]
	// Validator validates a typed node synchronously.
	Validator[V any] = typed.Validator[V]
	// AsyncValidator validates a typed node asynchronously.
	AsyncValidator[V any] = typed.AsyncValidator[V]
	// Option configures a typed node at construction.
	Option[V any] = typed.Option[V]
)

// NewLeaf builds a typed leaf around an initial value.
func NewLeaf[T any](initial T, options ...typed.Option[T]) *Leaf[T] {
	return typed.NewLeaf(initial, options...)
}

// NewArray builds a typed array from initial child nodes.
func NewArray[V any](children []typed.Node[V], options ...typed.Option[[]V]) *Array[V] {
	return typed.NewArray(children, options...)
}

// NewDict builds a typed dictionary from initial named child nodes.
func NewDict[V any](children map[string]typed.Node[V], options ...typed.Option[map[string]V]) *Dict[V] {
	return typed.NewDict(children, options...)
}

// NewGroup builds a typed group from a struct of child nodes. It returns an
// error when the controls struct and value struct do not line up field by
// field.
func NewGroup[C, V any](controls C, options ...typed.Option[V]) (*Group[C, V], error) {
	return typed.NewGroup[C, V](controls, options...)
}

// MustGroup is NewGroup that panics on a mismatched struct pair. Reserve it
// for struct pairs declared side by side in the same package.
func MustGroup[C, V any](controls C, options ...typed.Option[V]) *Group[C, V] {
	return typed.MustGroup[C, V](controls, options...)
}

// WithValidators attaches typed synchronous validators.
func WithValidators[V any](validators ...typed.Validator[V]) typed.Option[V] {
	return typed.WithValidators(validators...)
}

// WithAsyncValidators attaches typed asynchronous validators.
func WithAsyncValidators[V any](validators ...typed.AsyncValidator[V]) typed.Option[V] {
	return typed.WithAsyncValidators(validators...)
}
