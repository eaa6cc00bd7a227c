package typed

import "github.com/goliatone/go-formstate/pkg/forms"

// Leaf wraps a single value of type T. It has no children; every operation
// forwards to the underlying runtime field.
type Leaf[T any] struct {
	handle
	field *forms.Field
}

var _ Node[string] = (*Leaf[string])(nil)

// NewLeaf constructs a leaf holding initial.
func NewLeaf[T any](initial T, options ...Option[T]) *Leaf[T] {
	cfg := newConfig(options)
	l := &Leaf[T]{}
	l.field = forms.NewField(initial, cfg.controlOptions()...)
	l.init(l, l.field)
	bindValidators[T](l, cfg)
	return l
}

// Value reports the current value. An unset field (reset with no value)
// reads as T's zero value.
func (l *Leaf[T]) Value() T {
	if v, ok := l.ctl.Value().(T); ok {
		return v
	}
	var zero T
	return zero
}

func (l *Leaf[T]) RawValue() T { return l.Value() }

func (l *Leaf[T]) SetValue(value T, opts ...forms.Opt) error {
	return l.ctl.SetValue(value, opts...)
}

// PatchValue is identical to SetValue; a scalar has no partial form.
func (l *Leaf[T]) PatchValue(value T, opts ...forms.Opt) error {
	return l.SetValue(value, opts...)
}

// Reset restores the leaf to unset (zero value on read) and marks it
// pristine and untouched.
func (l *Leaf[T]) Reset(opts ...forms.Opt) {
	l.ctl.Reset(nil, opts...)
}

// ResetTo restores the leaf to the given value.
func (l *Leaf[T]) ResetTo(value T, opts ...forms.Opt) {
	l.ctl.Reset(value, opts...)
}

// OnValueChange registers a typed callback fired on every committed value.
func (l *Leaf[T]) OnValueChange(fn func(T)) func() {
	return l.ctl.OnValueChange(func(raw any) {
		if v, ok := raw.(T); ok {
			fn(v)
			return
		}
		var zero T
		fn(zero)
	})
}

// RegisterOnChange forwards a binding-layer change callback to the field.
func (l *Leaf[T]) RegisterOnChange(fn func(T)) {
	l.field.RegisterOnChange(func(raw any) {
		if v, ok := raw.(T); ok {
			fn(v)
			return
		}
		var zero T
		fn(zero)
	})
}

// RegisterOnDisabledChange forwards a disabled-state callback to the field.
func (l *Leaf[T]) RegisterOnDisabledChange(fn func(disabled bool)) {
	l.field.RegisterOnDisabledChange(fn)
}
