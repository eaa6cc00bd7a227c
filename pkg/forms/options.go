package forms

// Opts carries the propagation switches accepted by every mutating
// operation. OnlySelf limits recomputation to the receiving control instead
// of walking the parent chain; EmitEvent controls whether value and status
// subscribers are notified.
type Opts struct {
	OnlySelf  bool
	EmitEvent bool
}

// Opt mutates an Opts value.
type Opt func(*Opts)

// NewOpts resolves a set of Opt values against the defaults (propagate to
// ancestors, emit events).
func NewOpts(opts ...Opt) Opts {
	resolved := Opts{EmitEvent: true}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&resolved)
	}
	return resolved
}

// WithOnlySelf restricts the operation to the receiving control; ancestors
// are not recomputed.
func WithOnlySelf() Opt {
	return func(o *Opts) { o.OnlySelf = true }
}

// WithoutEvents suppresses value and status notifications for the operation.
func WithoutEvents() Opt {
	return func(o *Opts) { o.EmitEvent = false }
}

// WithEmitEvent sets the notification switch explicitly, which is handy when
// forwarding a caller's resolved Opts to child operations.
func WithEmitEvent(emit bool) Opt {
	return func(o *Opts) { o.EmitEvent = emit }
}

type controlConfig struct {
	validators      []ValidatorFunc
	asyncValidators []AsyncValidatorFunc
	updateOn        UpdateOn
}

// ControlOption configures a control at construction time.
type ControlOption func(*controlConfig)

func newControlConfig(options []ControlOption) controlConfig {
	var cfg controlConfig
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// WithValidators attaches synchronous validators to the new control.
func WithValidators(validators ...ValidatorFunc) ControlOption {
	return func(cfg *controlConfig) {
		cfg.validators = append(cfg.validators, present(validators)...)
	}
}

// WithAsyncValidators attaches asynchronous validators to the new control.
func WithAsyncValidators(validators ...AsyncValidatorFunc) ControlOption {
	return func(cfg *controlConfig) {
		cfg.asyncValidators = append(cfg.asyncValidators, presentAsync(validators)...)
	}
}

// WithUpdateOn records the value-commit policy for the new control. Children
// without an explicit policy inherit their parent's.
func WithUpdateOn(policy UpdateOn) ControlOption {
	return func(cfg *controlConfig) {
		cfg.updateOn = policy
	}
}
