package forms

import "context"

// Status is the validity state of a control. The four values are mutually
// exclusive: a control is exactly one of valid, invalid, pending, or
// disabled at any time.
type Status string

const (
	StatusValid    Status = "VALID"
	StatusInvalid  Status = "INVALID"
	StatusPending  Status = "PENDING"
	StatusDisabled Status = "DISABLED"
)

// UpdateOn names the event that commits a control's value. The runtime
// stores the policy and exposes it to drivers (prompt sessions, bindings);
// it does not itself debounce anything.
type UpdateOn string

const (
	UpdateOnChange UpdateOn = "change"
	UpdateOnBlur   UpdateOn = "blur"
	UpdateOnSubmit UpdateOn = "submit"
)

// Errors maps error codes to arbitrary detail payloads. A nil map means the
// control has no errors. Validation failures are always represented this
// way, never as Go errors or panics.
type Errors map[string]any

// ValidatorFunc checks a control synchronously and reports failures as an
// error map, or nil when the control passes.
type ValidatorFunc func(control Control) Errors

// AsyncValidatorFunc checks a control asynchronously. A non-nil error is
// treated as a failed validation and surfaced under the "asyncValidation"
// code; cancellation should be honoured through ctx.
type AsyncValidatorFunc func(ctx context.Context, control Control) (Errors, error)
