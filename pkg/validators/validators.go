// Package validators provides the built-in validator functions attached to
// dynamic controls: presence, numeric bounds, length bounds, pattern and
// enumeration checks, plus an HTML-safety check backed by bluemonday.
// Failures are reported as error maps keyed by a stable code; nothing in
// this package panics on bad input values.
package validators

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formstate/pkg/forms"
)

// Error codes reported by the built-in validators.
const (
	CodeRequired   = "required"
	CodeMin        = "min"
	CodeMax        = "max"
	CodeMinLength  = "minlength"
	CodeMaxLength  = "maxlength"
	CodePattern    = "pattern"
	CodeOneOf      = "oneof"
	CodeUnsafeHTML = "unsafeHtml"
)

// Required fails when the control's value is nil, an empty string, or an
// empty collection.
func Required(control forms.Control) forms.Errors {
	if isEmpty(control.Value()) {
		return forms.Errors{CodeRequired: true}
	}
	return nil
}

// Min fails when the control holds a number below min. Non-numeric and
// empty values pass; combine with Required to also reject absence.
func Min(min float64) forms.ValidatorFunc {
	return func(control forms.Control) forms.Errors {
		actual, ok := toFloat64(control.Value())
		if !ok || actual >= min {
			return nil
		}
		return forms.Errors{CodeMin: map[string]any{"min": min, "actual": actual}}
	}
}

// Max fails when the control holds a number above max.
func Max(max float64) forms.ValidatorFunc {
	return func(control forms.Control) forms.Errors {
		actual, ok := toFloat64(control.Value())
		if !ok || actual <= max {
			return nil
		}
		return forms.Errors{CodeMax: map[string]any{"max": max, "actual": actual}}
	}
}

// MinLength fails when the control's string, slice, or map value is shorter
// than length. Empty values pass.
func MinLength(length int) forms.ValidatorFunc {
	return func(control forms.Control) forms.Errors {
		actual, ok := lengthOf(control.Value())
		if !ok || actual == 0 || actual >= length {
			return nil
		}
		return forms.Errors{CodeMinLength: map[string]any{"requiredLength": length, "actualLength": actual}}
	}
}

// MaxLength fails when the control's string, slice, or map value is longer
// than length.
func MaxLength(length int) forms.ValidatorFunc {
	return func(control forms.Control) forms.Errors {
		actual, ok := lengthOf(control.Value())
		if !ok || actual <= length {
			return nil
		}
		return forms.Errors{CodeMaxLength: map[string]any{"requiredLength": length, "actualLength": actual}}
	}
}

// Pattern fails when the control's string value does not match the anchored
// expression. An invalid expression turns into a validator that always
// fails with the compile error in its detail, keeping construction
// non-panicking for caller-supplied patterns.
func Pattern(pattern string) forms.ValidatorFunc {
	expr, err := regexp.Compile(anchor(pattern))
	return func(control forms.Control) forms.Errors {
		if err != nil {
			return forms.Errors{CodePattern: map[string]any{"requiredPattern": pattern, "error": err.Error()}}
		}
		value, ok := control.Value().(string)
		if !ok || value == "" || expr.MatchString(value) {
			return nil
		}
		return forms.Errors{CodePattern: map[string]any{"requiredPattern": pattern, "actualValue": value}}
	}
}

// OneOf fails when the control's value is not among the allowed set. Empty
// values pass.
func OneOf(allowed ...any) forms.ValidatorFunc {
	return func(control forms.Control) forms.Errors {
		value := control.Value()
		if isEmpty(value) {
			return nil
		}
		for _, candidate := range allowed {
			if reflect.DeepEqual(value, candidate) {
				return nil
			}
		}
		return forms.Errors{CodeOneOf: map[string]any{"allowed": allowed, "actual": value}}
	}
}

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// SafeHTML fails when sanitizing the control's string value changes it,
// meaning the value carried markup the strict policy strips.
func SafeHTML() forms.ValidatorFunc {
	return func(control forms.Control) forms.Errors {
		value, ok := control.Value().(string)
		if !ok || value == "" {
			return nil
		}
		cleaned := htmlPolicy().Sanitize(value)
		if cleaned == value {
			return nil
		}
		return forms.Errors{CodeUnsafeHTML: map[string]any{"sanitized": cleaned}}
	}
}

func htmlPolicy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

func anchor(pattern string) string {
	if !strings.HasPrefix(pattern, "^") {
		pattern = "^" + pattern
	}
	if !strings.HasSuffix(pattern, "$") {
		pattern += "$"
	}
	return pattern
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return v == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func lengthOf(value any) (int, bool) {
	switch v := value.(type) {
	case nil:
		return 0, true
	case string:
		return len([]rune(v)), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len(), true
	}
	return 0, false
}
