package forms

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// Control is the capability set shared by every node in the tree. The
// concrete kinds (Field, Group, List) all embed the same base state, so the
// interface carries a handful of unexported methods to keep the hierarchy
// closed to this package.
type Control interface {
	// Value reports the current value. Container kinds omit the values of
	// disabled children unless the container itself is disabled.
	Value() any
	// RawValue reports the current value including disabled children.
	RawValue() any
	// SetValue replaces the value. Containers require a complete value
	// (every key, exact length) and report a mismatch as an error without
	// partially applying it.
	SetValue(value any, opts ...Opt) error
	// PatchValue applies a partial value. Unknown keys are ignored; a list
	// patch applies positionally.
	PatchValue(value any, opts ...Opt) error
	// Reset restores the control (and its children) to the supplied state,
	// or to empty when value is nil, and marks it pristine and untouched.
	Reset(value any, opts ...Opt)

	Status() Status
	Valid() bool
	Invalid() bool
	Pending() bool
	Disabled() bool
	Enabled() bool

	Errors() Errors
	// SetErrors overrides the current error map and recomputes status along
	// the parent chain without re-running validators.
	SetErrors(errs Errors, opts ...Opt)
	// GetError returns the detail for code on the control at path, or on the
	// receiver when path is empty. Nil when absent.
	GetError(code string, path ...string) any
	HasError(code string, path ...string) bool

	Dirty() bool
	Pristine() bool
	Touched() bool
	Untouched() bool
	MarkAsTouched(opts ...Opt)
	MarkAsUntouched(opts ...Opt)
	MarkAsDirty(opts ...Opt)
	MarkAsPristine(opts ...Opt)
	MarkAsPending(opts ...Opt)

	// Disable excludes the control from ancestor validation and value
	// aggregation; children are disabled with it.
	Disable(opts ...Opt)
	Enable(opts ...Opt)

	SetValidators(validators ...ValidatorFunc)
	AddValidators(validators ...ValidatorFunc)
	ClearValidators()
	SetAsyncValidators(validators ...AsyncValidatorFunc)
	ClearAsyncValidators()
	// UpdateValueAndValidity re-runs validators, recomputes status, and
	// propagates to ancestors unless OnlySelf is set. Changing the
	// validator set does not revalidate implicitly; call this afterwards.
	UpdateValueAndValidity(opts ...Opt)

	SetParent(parent Control)
	Parent() Control
	Root() Control
	// Get resolves a dot-delimited path ("address.city", "tags.0"). It
	// returns nil for an empty path or at the first unresolved segment.
	Get(path string) Control
	GetPath(segments ...string) Control

	// OnValueChange registers a callback fired on every committed value
	// change. The returned function cancels the subscription.
	OnValueChange(fn func(value any)) (cancel func())
	OnStatusChange(fn func(status Status)) (cancel func())
	UpdateOn() UpdateOn

	base() *baseControl
	childNamed(segment string) Control
	eachChild(fn func(child Control))
	allControlsDisabled() bool
	disabledChanged(disabled bool)
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// baseControl holds the state and behaviour shared by all control kinds.
// owner is the concrete control embedding this base; operations that depend
// on the kind (child iteration, value aggregation) dispatch through it.
type baseControl struct {
	owner  Control
	parent Control

	// mu guards status, errs, the async run state, and the subscriber
	// lists: async validation results arrive on a completion goroutine, so
	// these fields are the one part of the control a single-goroutine
	// caller still shares. mu is never held across calls into other
	// controls or into subscriber callbacks.
	mu sync.Mutex

	status  Status
	errs    Errors
	dirty   bool
	touched bool

	validators      []ValidatorFunc
	asyncValidators []AsyncValidatorFunc
	updateOn        UpdateOn

	valueSubs  []subscriber[any]
	statusSubs []subscriber[Status]
	nextSub    int

	asyncRun     int
	asyncRunning bool
}

func (b *baseControl) init(owner Control, cfg controlConfig) {
	b.owner = owner
	b.status = StatusValid
	b.validators = cfg.validators
	b.asyncValidators = cfg.asyncValidators
	b.updateOn = cfg.updateOn
}

func (b *baseControl) base() *baseControl { return b }

func (b *baseControl) childNamed(string) Control   { return nil }
func (b *baseControl) eachChild(func(Control))     {}
func (b *baseControl) allControlsDisabled() bool   { return b.Disabled() }
func (b *baseControl) disabledChanged(bool)        {}

func (b *baseControl) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

func (b *baseControl) Valid() bool    { return b.Status() == StatusValid }
func (b *baseControl) Invalid() bool  { return b.Status() == StatusInvalid }
func (b *baseControl) Pending() bool  { return b.Status() == StatusPending }
func (b *baseControl) Disabled() bool { return b.Status() == StatusDisabled }
func (b *baseControl) Enabled() bool  { return b.Status() != StatusDisabled }

func (b *baseControl) Errors() Errors {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errs
}

func (b *baseControl) SetErrors(errs Errors, opts ...Opt) {
	o := NewOpts(opts...)
	b.setErrorsInternal(errs, o.EmitEvent)
}

func (b *baseControl) setErrorsInternal(errs Errors, emitEvent bool) {
	b.mu.Lock()
	b.errs = errs
	b.mu.Unlock()
	b.updateControlsErrors(emitEvent)
}

// updateControlsErrors recomputes status from the current error map and
// child statuses, then walks up so ancestors reflect the change.
func (b *baseControl) updateControlsErrors(emitEvent bool) {
	status := b.calculateStatus()
	b.mu.Lock()
	b.status = status
	b.mu.Unlock()
	if emitEvent {
		b.emitStatus()
	}
	if b.parent != nil {
		b.parent.base().updateControlsErrors(emitEvent)
	}
}

func (b *baseControl) GetError(code string, path ...string) any {
	target := b.owner
	if len(path) > 0 {
		target = b.owner.GetPath(path...)
	}
	if target == nil {
		return nil
	}
	errs := target.Errors()
	if errs == nil {
		return nil
	}
	return errs[code]
}

func (b *baseControl) HasError(code string, path ...string) bool {
	return b.GetError(code, path...) != nil
}

func (b *baseControl) Dirty() bool     { return b.dirty }
func (b *baseControl) Pristine() bool  { return !b.dirty }
func (b *baseControl) Touched() bool   { return b.touched }
func (b *baseControl) Untouched() bool { return !b.touched }

func (b *baseControl) MarkAsTouched(opts ...Opt) {
	o := NewOpts(opts...)
	b.touched = true
	if b.parent != nil && !o.OnlySelf {
		b.parent.MarkAsTouched(opts...)
	}
}

func (b *baseControl) MarkAsUntouched(opts ...Opt) {
	o := NewOpts(opts...)
	b.touched = false
	b.owner.eachChild(func(child Control) {
		child.MarkAsUntouched(WithOnlySelf())
	})
	if b.parent != nil && !o.OnlySelf {
		b.parent.base().updateTouched(opts...)
	}
}

func (b *baseControl) MarkAsDirty(opts ...Opt) {
	o := NewOpts(opts...)
	b.dirty = true
	if b.parent != nil && !o.OnlySelf {
		b.parent.MarkAsDirty(opts...)
	}
}

func (b *baseControl) MarkAsPristine(opts ...Opt) {
	o := NewOpts(opts...)
	b.dirty = false
	b.owner.eachChild(func(child Control) {
		child.MarkAsPristine(WithOnlySelf())
	})
	if b.parent != nil && !o.OnlySelf {
		b.parent.base().updatePristine(opts...)
	}
}

func (b *baseControl) MarkAsPending(opts ...Opt) {
	o := NewOpts(opts...)
	b.mu.Lock()
	b.status = StatusPending
	b.mu.Unlock()
	if o.EmitEvent {
		b.emitStatus()
	}
	if b.parent != nil && !o.OnlySelf {
		b.parent.MarkAsPending(opts...)
	}
}

// updateTouched clears the touched flag when no child remains touched, then
// continues up the chain.
func (b *baseControl) updateTouched(opts ...Opt) {
	o := NewOpts(opts...)
	if !b.anyChild(func(c Control) bool { return c.Touched() }) {
		b.touched = false
	}
	if b.parent != nil && !o.OnlySelf {
		b.parent.base().updateTouched(opts...)
	}
}

func (b *baseControl) updatePristine(opts ...Opt) {
	o := NewOpts(opts...)
	if !b.anyChild(func(c Control) bool { return c.Dirty() }) {
		b.dirty = false
	}
	if b.parent != nil && !o.OnlySelf {
		b.parent.base().updatePristine(opts...)
	}
}

func (b *baseControl) anyChild(pred func(Control) bool) bool {
	found := false
	b.owner.eachChild(func(child Control) {
		if pred(child) {
			found = true
		}
	})
	return found
}

func (b *baseControl) Disable(opts ...Opt) {
	o := NewOpts(opts...)
	b.mu.Lock()
	b.status = StatusDisabled
	b.errs = nil
	b.mu.Unlock()
	b.owner.eachChild(func(child Control) {
		child.Disable(WithOnlySelf(), WithEmitEvent(o.EmitEvent))
	})
	if o.EmitEvent {
		b.emitValue()
		b.emitStatus()
	}
	b.owner.disabledChanged(true)
	b.updateAncestors(o)
}

func (b *baseControl) Enable(opts ...Opt) {
	o := NewOpts(opts...)
	b.mu.Lock()
	b.status = StatusValid
	b.mu.Unlock()
	b.owner.eachChild(func(child Control) {
		child.Enable(WithOnlySelf(), WithEmitEvent(o.EmitEvent))
	})
	b.owner.UpdateValueAndValidity(WithOnlySelf(), WithEmitEvent(o.EmitEvent))
	b.owner.disabledChanged(false)
	b.updateAncestors(o)
}

func (b *baseControl) updateAncestors(o Opts) {
	if b.parent == nil || o.OnlySelf {
		return
	}
	b.parent.UpdateValueAndValidity(WithEmitEvent(o.EmitEvent))
	b.parent.base().updatePristine()
	b.parent.base().updateTouched()
}

func (b *baseControl) SetValidators(validators ...ValidatorFunc) {
	b.validators = present(validators)
}

func (b *baseControl) AddValidators(validators ...ValidatorFunc) {
	b.validators = append(b.validators, present(validators)...)
}

func (b *baseControl) ClearValidators() { b.validators = nil }

func (b *baseControl) SetAsyncValidators(validators ...AsyncValidatorFunc) {
	b.asyncValidators = presentAsync(validators)
}

func (b *baseControl) ClearAsyncValidators() { b.asyncValidators = nil }

func (b *baseControl) UpdateValueAndValidity(opts ...Opt) {
	o := NewOpts(opts...)
	b.setInitialStatus()
	if b.Enabled() {
		b.cancelAsyncRun()
		errs := b.runValidators()
		b.mu.Lock()
		b.errs = errs
		b.mu.Unlock()
		status := b.calculateStatus()
		b.mu.Lock()
		b.status = status
		b.mu.Unlock()
		if status == StatusValid || status == StatusPending {
			b.runAsyncValidators(o.EmitEvent)
		}
	}
	if o.EmitEvent {
		b.emitValue()
		b.emitStatus()
	}
	if b.parent != nil && !o.OnlySelf {
		b.parent.UpdateValueAndValidity(opts...)
	}
}

func (b *baseControl) setInitialStatus() {
	status := StatusValid
	if b.owner.allControlsDisabled() {
		status = StatusDisabled
	}
	b.mu.Lock()
	b.status = status
	b.mu.Unlock()
}

func (b *baseControl) runValidators() Errors {
	if len(b.validators) == 0 {
		return nil
	}
	validate := Compose(b.validators...)
	if validate == nil {
		return nil
	}
	return validate(b.owner)
}

func (b *baseControl) calculateStatus() Status {
	b.mu.Lock()
	invalid := b.errs != nil
	running := b.asyncRunning
	b.mu.Unlock()
	switch {
	case invalid:
		return StatusInvalid
	case running || b.anyChild(func(c Control) bool { return c.Pending() }):
		return StatusPending
	case b.anyChild(func(c Control) bool { return c.Invalid() }):
		return StatusInvalid
	default:
		return StatusValid
	}
}

// cancelAsyncRun invalidates any in-flight async validation so its result is
// discarded on arrival.
func (b *baseControl) cancelAsyncRun() {
	b.mu.Lock()
	b.asyncRun++
	b.asyncRunning = false
	b.mu.Unlock()
}

func (b *baseControl) runAsyncValidators(emitEvent bool) {
	if len(b.asyncValidators) == 0 {
		return
	}
	owner := b.owner
	validators := slices.Clone(b.asyncValidators)
	b.mu.Lock()
	b.status = StatusPending
	b.asyncRunning = true
	run := b.asyncRun
	b.mu.Unlock()
	go func() {
		errs := runAsyncValidators(context.Background(), owner, validators)
		owner.base().applyAsyncResult(run, errs, emitEvent)
	}()
}

func (b *baseControl) applyAsyncResult(run int, errs Errors, emitEvent bool) {
	b.mu.Lock()
	if run != b.asyncRun {
		// Superseded by a newer validation pass.
		b.mu.Unlock()
		return
	}
	b.asyncRunning = false
	b.errs = errs
	b.mu.Unlock()
	b.updateControlsErrors(emitEvent)
}

func (b *baseControl) SetParent(parent Control) { b.parent = parent }

func (b *baseControl) Parent() Control { return b.parent }

func (b *baseControl) Root() Control {
	root := b.owner
	for root.Parent() != nil {
		root = root.Parent()
	}
	return root
}

func (b *baseControl) Get(path string) Control {
	if path == "" {
		return nil
	}
	return b.GetPath(strings.Split(path, ".")...)
}

func (b *baseControl) GetPath(segments ...string) Control {
	if len(segments) == 0 {
		return nil
	}
	current := b.owner
	for _, segment := range segments {
		if current == nil {
			return nil
		}
		current = current.childNamed(segment)
	}
	return current
}

func (b *baseControl) OnValueChange(fn func(any)) func() {
	b.mu.Lock()
	b.nextSub++
	id := b.nextSub
	b.valueSubs = append(b.valueSubs, subscriber[any]{id: id, fn: fn})
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.valueSubs = slices.DeleteFunc(b.valueSubs, func(s subscriber[any]) bool {
			return s.id == id
		})
	}
}

func (b *baseControl) OnStatusChange(fn func(Status)) func() {
	b.mu.Lock()
	b.nextSub++
	id := b.nextSub
	b.statusSubs = append(b.statusSubs, subscriber[Status]{id: id, fn: fn})
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.statusSubs = slices.DeleteFunc(b.statusSubs, func(s subscriber[Status]) bool {
			return s.id == id
		})
	}
}

func (b *baseControl) UpdateOn() UpdateOn {
	if b.updateOn != "" {
		return b.updateOn
	}
	if b.parent != nil {
		return b.parent.UpdateOn()
	}
	return UpdateOnChange
}

func (b *baseControl) emitValue() {
	b.mu.Lock()
	subs := slices.Clone(b.valueSubs)
	b.mu.Unlock()
	if len(subs) == 0 {
		return
	}
	value := b.owner.Value()
	for _, sub := range subs {
		sub.fn(value)
	}
}

func (b *baseControl) emitStatus() {
	b.mu.Lock()
	subs := slices.Clone(b.statusSubs)
	status := b.status
	b.mu.Unlock()
	for _, sub := range subs {
		sub.fn(status)
	}
}
