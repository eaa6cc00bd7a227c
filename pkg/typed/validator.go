package typed

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-formstate/pkg/forms"
)

// Validator checks a typed node and reports failures as an error map, or
// nil when the node passes. Operating on the wrapper rather than the raw
// control is the point: the validator sees the node's derived value type.
type Validator[V any] func(node Node[V]) forms.Errors

// AsyncValidator is the asynchronous counterpart of Validator.
type AsyncValidator[V any] func(ctx context.Context, node Node[V]) (forms.Errors, error)

// Compose merges typed validators into one returning the union of every
// individual error map. Nil entries are skipped; nil is returned when
// nothing remains.
func Compose[V any](validators ...Validator[V]) Validator[V] {
	remaining := make([]Validator[V], 0, len(validators))
	for _, v := range validators {
		if v != nil {
			remaining = append(remaining, v)
		}
	}
	if len(remaining) == 0 {
		return nil
	}
	return func(node Node[V]) forms.Errors {
		var merged forms.Errors
		for _, validate := range remaining {
			merged = forms.MergeErrors(merged, validate(node))
		}
		return merged
	}
}

// ComposeAsync merges typed async validators into one that runs every
// validator concurrently and merges their results only after all have
// settled. Validator failures are joined into the returned error.
func ComposeAsync[V any](validators ...AsyncValidator[V]) AsyncValidator[V] {
	remaining := make([]AsyncValidator[V], 0, len(validators))
	for _, v := range validators {
		if v != nil {
			remaining = append(remaining, v)
		}
	}
	if len(remaining) == 0 {
		return nil
	}
	return func(ctx context.Context, node Node[V]) (forms.Errors, error) {
		maps := make([]forms.Errors, len(remaining))
		failures := make([]error, len(remaining))

		var wg sync.WaitGroup
		for i, validate := range remaining {
			wg.Add(1)
			go func(i int, validate AsyncValidator[V]) {
				defer wg.Done()
				maps[i], failures[i] = validate(ctx, node)
			}(i, validate)
		}
		wg.Wait()

		var merged forms.Errors
		for _, errs := range maps {
			merged = forms.MergeErrors(merged, errs)
		}
		return merged, errors.Join(failures...)
	}
}

// AdaptValidator turns a typed validator into the shape the runtime
// expects. The adapted function closes over the wrapper node; the raw
// control the runtime passes in is ignored because both refer to the same
// state.
func AdaptValidator[V any](node Node[V], validate Validator[V]) forms.ValidatorFunc {
	return func(forms.Control) forms.Errors {
		return validate(node)
	}
}

// AdaptAsyncValidator turns a typed async validator into the runtime shape.
func AdaptAsyncValidator[V any](node Node[V], validate AsyncValidator[V]) forms.AsyncValidatorFunc {
	return func(ctx context.Context, _ forms.Control) (forms.Errors, error) {
		return validate(ctx, node)
	}
}
