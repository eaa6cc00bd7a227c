package forms

// Field is the leaf control kind: it wraps a single value and has no
// children.
type Field struct {
	baseControl
	value any

	onChange         []func(value any)
	onDisabledChange []func(disabled bool)
}

// NewField constructs a leaf control holding initial, which may be nil for
// an unset field. Validators run once silently so the control's status is
// accurate before anyone subscribes.
func NewField(initial any, options ...ControlOption) *Field {
	f := &Field{value: initial}
	f.init(f, newControlConfig(options))
	f.UpdateValueAndValidity(WithOnlySelf(), WithoutEvents())
	return f
}

func (f *Field) Value() any    { return f.value }
func (f *Field) RawValue() any { return f.value }

// SetValue commits a new value, invokes registered change callbacks, and
// revalidates. The error return exists for interface symmetry with the
// container kinds; a leaf set never fails.
func (f *Field) SetValue(value any, opts ...Opt) error {
	f.value = value
	for _, fn := range f.onChange {
		fn(value)
	}
	f.UpdateValueAndValidity(opts...)
	return nil
}

// PatchValue is identical to SetValue: there is no partial form of a scalar.
func (f *Field) PatchValue(value any, opts ...Opt) error {
	return f.SetValue(value, opts...)
}

func (f *Field) Reset(value any, opts ...Opt) {
	f.MarkAsPristine(opts...)
	f.MarkAsUntouched(opts...)
	_ = f.SetValue(value, opts...)
}

// RegisterOnChange adds a callback invoked on every committed value, the
// hook a two-way binding layer uses to push model changes into a view.
func (f *Field) RegisterOnChange(fn func(value any)) {
	if fn != nil {
		f.onChange = append(f.onChange, fn)
	}
}

// RegisterOnDisabledChange adds a callback invoked whenever the field's
// disabled state flips.
func (f *Field) RegisterOnDisabledChange(fn func(disabled bool)) {
	if fn != nil {
		f.onDisabledChange = append(f.onDisabledChange, fn)
	}
}

func (f *Field) disabledChanged(disabled bool) {
	for _, fn := range f.onDisabledChange {
		fn(disabled)
	}
}
