package forms

import (
	"context"
	"sync"
)

// Compose merges validators into one that returns the union of every
// individual error map, or nil when all pass. Nil entries are skipped; nil
// is returned when nothing remains to run.
func Compose(validators ...ValidatorFunc) ValidatorFunc {
	remaining := present(validators)
	if len(remaining) == 0 {
		return nil
	}
	return func(control Control) Errors {
		var merged Errors
		for _, validate := range remaining {
			merged = MergeErrors(merged, validate(control))
		}
		return merged
	}
}

// ComposeAsync merges async validators into one that launches every
// validator concurrently, waits for all of them to settle, and returns the
// union of their error maps. Individual validator failures surface in the
// merged map under the "asyncValidation" code.
func ComposeAsync(validators ...AsyncValidatorFunc) AsyncValidatorFunc {
	remaining := presentAsync(validators)
	if len(remaining) == 0 {
		return nil
	}
	return func(ctx context.Context, control Control) (Errors, error) {
		return runAsyncValidators(ctx, control, remaining), nil
	}
}

// runAsyncValidators fans the validators out on goroutines and joins before
// merging, so the combined result reflects every run of the same pass.
func runAsyncValidators(ctx context.Context, control Control, validators []AsyncValidatorFunc) Errors {
	type result struct {
		errs Errors
		err  error
	}
	results := make([]result, len(validators))

	var wg sync.WaitGroup
	for i, validate := range validators {
		wg.Add(1)
		go func(i int, validate AsyncValidatorFunc) {
			defer wg.Done()
			errs, err := validate(ctx, control)
			results[i] = result{errs: errs, err: err}
		}(i, validate)
	}
	wg.Wait()

	var merged Errors
	for _, r := range results {
		if r.err != nil {
			merged = MergeErrors(merged, Errors{"asyncValidation": r.err.Error()})
		}
		merged = MergeErrors(merged, r.errs)
	}
	return merged
}

// MergeErrors copies src's entries into dst, allocating dst when needed. A
// nil result means neither side carried errors.
func MergeErrors(dst, src Errors) Errors {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(Errors, len(src))
	}
	for code, detail := range src {
		dst[code] = detail
	}
	return dst
}

func present(validators []ValidatorFunc) []ValidatorFunc {
	out := make([]ValidatorFunc, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

func presentAsync(validators []AsyncValidatorFunc) []AsyncValidatorFunc {
	out := make([]AsyncValidatorFunc, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}
