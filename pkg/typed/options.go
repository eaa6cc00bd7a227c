package typed

import "github.com/goliatone/go-formstate/pkg/forms"

type config[V any] struct {
	validators        []Validator[V]
	asyncValidators   []AsyncValidator[V]
	controlValidators []forms.ValidatorFunc
	controlAsync      []forms.AsyncValidatorFunc
	updateOn          forms.UpdateOn
}

// Option configures a node whose value type is V at construction time.
type Option[V any] func(*config[V])

func newConfig[V any](options []Option[V]) config[V] {
	var cfg config[V]
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// WithValidators attaches typed validators, which receive the wrapper node
// rather than the raw control.
func WithValidators[V any](validators ...Validator[V]) Option[V] {
	return func(cfg *config[V]) {
		cfg.validators = append(cfg.validators, validators...)
	}
}

// WithAsyncValidators attaches typed async validators.
func WithAsyncValidators[V any](validators ...AsyncValidator[V]) Option[V] {
	return func(cfg *config[V]) {
		cfg.asyncValidators = append(cfg.asyncValidators, validators...)
	}
}

// WithControlValidators attaches untyped validators operating on the raw
// control, the bridge for reusing pkg/validators built-ins on typed nodes.
func WithControlValidators[V any](validators ...forms.ValidatorFunc) Option[V] {
	return func(cfg *config[V]) {
		cfg.controlValidators = append(cfg.controlValidators, validators...)
	}
}

// WithControlAsyncValidators attaches untyped async validators.
func WithControlAsyncValidators[V any](validators ...forms.AsyncValidatorFunc) Option[V] {
	return func(cfg *config[V]) {
		cfg.controlAsync = append(cfg.controlAsync, validators...)
	}
}

// WithUpdateOn records the value-commit policy on the underlying control.
func WithUpdateOn[V any](policy forms.UpdateOn) Option[V] {
	return func(cfg *config[V]) {
		cfg.updateOn = policy
	}
}

func (cfg config[V]) controlOptions() []forms.ControlOption {
	var out []forms.ControlOption
	if cfg.updateOn != "" {
		out = append(out, forms.WithUpdateOn(cfg.updateOn))
	}
	return out
}

// bindValidators adapts the typed validators to the runtime's untyped shape
// and installs everything on the node's control, followed by one silent
// validity pass so construction-time state is accurate without notifying.
func bindValidators[V any](node Node[V], cfg config[V]) {
	ctl := node.Raw()

	funcs := make([]forms.ValidatorFunc, 0, len(cfg.validators)+len(cfg.controlValidators))
	for _, validate := range cfg.validators {
		if validate != nil {
			funcs = append(funcs, AdaptValidator(node, validate))
		}
	}
	funcs = append(funcs, cfg.controlValidators...)
	if len(funcs) > 0 {
		ctl.SetValidators(funcs...)
	}

	async := make([]forms.AsyncValidatorFunc, 0, len(cfg.asyncValidators)+len(cfg.controlAsync))
	for _, validate := range cfg.asyncValidators {
		if validate != nil {
			async = append(async, AdaptAsyncValidator(node, validate))
		}
	}
	async = append(async, cfg.controlAsync...)
	if len(async) > 0 {
		ctl.SetAsyncValidators(async...)
	}

	if len(funcs) > 0 || len(async) > 0 {
		ctl.UpdateValueAndValidity(forms.WithOnlySelf(), forms.WithoutEvents())
	}
}
