// Package prompt walks a dynamic control tree and collects its values
// through terminal prompts, re-asking while the control's validators reject
// the answer. The default driver is backed by survey; tests inject a
// scripted one.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/forms"
)

// Filler runs interactive sessions over control trees.
type Filler struct {
	driver      Driver
	out         io.Writer
	maxAttempts int
}

// Option configures a Filler.
type Option func(*Filler)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithOutput redirects validation feedback, which goes to stderr by
// default.
func WithOutput(out io.Writer) Option {
	return func(f *Filler) {
		if out != nil {
			f.out = out
		}
	}
}

// WithMaxAttempts caps how often a rejected field is re-asked.
func WithMaxAttempts(attempts int) Option {
	return func(f *Filler) {
		if attempts > 0 {
			f.maxAttempts = attempts
		}
	}
}

// New constructs a Filler with the survey driver and three attempts per
// field.
func New(options ...Option) (*Filler, error) {
	f := &Filler{
		driver:      newSurveyDriver(),
		out:         os.Stderr,
		maxAttempts: 3,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.driver == nil {
		return nil, errors.New("prompt: driver is nil")
	}
	return f, nil
}

// Fill prompts for every enabled field reachable from control, committing
// answers through SetValue so validators and change notifications behave
// exactly as programmatic mutation would. name seeds the path shown to the
// user and may be empty for the root.
func (f *Filler) Fill(ctx context.Context, control forms.Control, name string) error {
	if ctx == nil {
		return errors.New("prompt: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if control == nil {
		return errors.New("prompt: control is nil")
	}
	if control.Disabled() {
		return nil
	}

	switch c := control.(type) {
	case *forms.Group:
		for _, key := range c.ControlNames() {
			child, _ := c.Control(key)
			if err := f.Fill(ctx, child, joinPath(name, key)); err != nil {
				return err
			}
		}
		return nil
	case *forms.List:
		for i := 0; i < c.Len(); i++ {
			if err := f.Fill(ctx, c.At(i), joinPath(name, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil
	case *forms.Field:
		return f.fillField(ctx, c, name)
	default:
		return fmt.Errorf("prompt: unsupported control kind %T", control)
	}
}

func (f *Filler) fillField(ctx context.Context, field *forms.Field, name string) error {
	label := name
	if label == "" {
		label = "value"
	}

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		value, err := f.askValue(ctx, field, label)
		if err != nil {
			return err
		}
		if err := field.SetValue(value); err != nil {
			return fmt.Errorf("prompt: %s: %w", label, err)
		}
		field.MarkAsTouched()
		if !field.Invalid() {
			return nil
		}
		fmt.Fprintf(f.out, "%s: %s\n", label, formatErrors(field.Errors()))
	}
	return fmt.Errorf("prompt: %s: value rejected after %d attempts", label, f.maxAttempts)
}

// askValue prompts using a shape inferred from the field's current value:
// bools confirm, numbers parse, everything else stays a string.
func (f *Filler) askValue(ctx context.Context, field *forms.Field, label string) (any, error) {
	switch current := field.Value().(type) {
	case bool:
		return f.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: current})
	case int, int64, float64:
		text, err := f.driver.Input(ctx, InputConfig{Message: label, Default: fmt.Sprint(current)})
		if err != nil {
			return nil, err
		}
		return parseNumber(text)
	default:
		cfg := InputConfig{Message: label}
		if s, ok := current.(string); ok {
			cfg.Default = s
		}
		text, err := f.driver.Input(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return text, nil
	}
}

func parseNumber(text string) (any, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return i, nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, fmt.Errorf("prompt: %q is not a number", text)
	}
	return value, nil
}

func formatErrors(errs forms.Errors) string {
	if len(errs) == 0 {
		return "invalid value"
	}
	codes := make([]string, 0, len(errs))
	for code := range errs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return "failed " + strings.Join(codes, ", ")
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
