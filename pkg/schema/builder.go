package schema

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/forms"
	"github.com/goliatone/go-formstate/pkg/validators"
)

// Builder converts OpenAPI schemas into dynamic control trees.
type Builder struct {
	opts builderOptions
}

type builderOptions struct {
	applyDefaults        bool
	constraintValidators bool
	maxDepth             int
}

// Option configures a Builder.
type Option func(*builderOptions)

// WithoutDefaults leaves every field unset instead of seeding it with the
// schema's default value.
func WithoutDefaults() Option {
	return func(o *builderOptions) { o.applyDefaults = false }
}

// WithoutConstraintValidators builds the tree's shape only, skipping the
// validator wiring.
func WithoutConstraintValidators() Option {
	return func(o *builderOptions) { o.constraintValidators = false }
}

// WithMaxDepth caps schema nesting; cyclic references would otherwise
// recurse forever.
func WithMaxDepth(depth int) Option {
	return func(o *builderOptions) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// NewBuilder constructs a Builder. By default it applies schema defaults,
// wires constraint validators, and allows 32 levels of nesting.
func NewBuilder(options ...Option) *Builder {
	opts := builderOptions{
		applyDefaults:        true,
		constraintValidators: true,
		maxDepth:             32,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}
	return &Builder{opts: opts}
}

// Build converts the schema into a control tree.
func (b *Builder) Build(ref *openapi3.SchemaRef) (forms.Control, error) {
	if ref == nil || ref.Value == nil {
		return nil, errors.New("schema: schema reference is empty")
	}
	return b.build(ref, false, b.opts.maxDepth)
}

func (b *Builder) build(ref *openapi3.SchemaRef, required bool, depth int) (forms.Control, error) {
	if depth <= 0 {
		return nil, errors.New("schema: nesting exceeds the configured maximum depth")
	}
	src := ref.Value

	switch kind := schemaType(src); kind {
	case "object":
		return b.buildObject(src, depth)
	case "array":
		return b.buildList(src, required, depth)
	case "string", "integer", "number", "boolean", "":
		return b.buildField(src, kind, required), nil
	default:
		return nil, fmt.Errorf("schema: unsupported type %q", kind)
	}
}

func (b *Builder) buildObject(src *openapi3.Schema, depth int) (forms.Control, error) {
	children := make(map[string]forms.Control, len(src.Properties))

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		property := src.Properties[name]
		if property == nil || property.Value == nil {
			continue
		}
		required := slices.Contains(src.Required, name)
		child, err := b.build(property, required, depth-1)
		if err != nil {
			return nil, fmt.Errorf("schema: property %q: %w", name, err)
		}
		children[name] = child
	}

	return forms.NewGroup(children), nil
}

func (b *Builder) buildList(src *openapi3.Schema, required bool, depth int) (forms.Control, error) {
	if src.Items != nil && src.Items.Value != nil {
		// Validate the item schema eagerly so malformed documents fail at
		// build time rather than on first push.
		if _, err := b.build(src.Items, false, depth-1); err != nil {
			return nil, fmt.Errorf("schema: array items: %w", err)
		}
	}

	var options []forms.ControlOption
	if b.opts.constraintValidators {
		if funcs := listValidators(src, required); len(funcs) > 0 {
			options = append(options, forms.WithValidators(funcs...))
		}
	}
	return forms.NewList(nil, options...), nil
}

func (b *Builder) buildField(src *openapi3.Schema, kind string, required bool) forms.Control {
	var initial any
	if b.opts.applyDefaults && src.Default != nil {
		initial = src.Default
	}

	var options []forms.ControlOption
	if b.opts.constraintValidators {
		if funcs := fieldValidators(src, kind, required); len(funcs) > 0 {
			options = append(options, forms.WithValidators(funcs...))
		}
	}
	return forms.NewField(initial, options...)
}

// Item builds a fresh child control for the array described by ref, ready
// to push onto the corresponding list.
func (b *Builder) Item(ref *openapi3.SchemaRef) (forms.Control, error) {
	if ref == nil || ref.Value == nil || ref.Value.Items == nil {
		return nil, errors.New("schema: array schema has no items")
	}
	return b.build(ref.Value.Items, false, b.opts.maxDepth)
}

func fieldValidators(src *openapi3.Schema, kind string, required bool) []forms.ValidatorFunc {
	var funcs []forms.ValidatorFunc
	if required {
		funcs = append(funcs, validators.Required)
	}
	if src.Min != nil {
		funcs = append(funcs, validators.Min(*src.Min))
	}
	if src.Max != nil {
		funcs = append(funcs, validators.Max(*src.Max))
	}
	if src.MinLength != 0 {
		funcs = append(funcs, validators.MinLength(int(src.MinLength)))
	}
	if src.MaxLength != nil {
		funcs = append(funcs, validators.MaxLength(int(*src.MaxLength)))
	}
	if src.Pattern != "" {
		funcs = append(funcs, validators.Pattern(src.Pattern))
	}
	if len(src.Enum) > 0 {
		funcs = append(funcs, validators.OneOf(src.Enum...))
	}
	if kind == "string" && src.Format != "password" {
		funcs = append(funcs, validators.SafeHTML())
	}
	return funcs
}

func listValidators(src *openapi3.Schema, required bool) []forms.ValidatorFunc {
	var funcs []forms.ValidatorFunc
	if required {
		funcs = append(funcs, validators.Required)
	}
	if src.MinItems != 0 {
		funcs = append(funcs, validators.MinLength(int(src.MinItems)))
	}
	if src.MaxItems != nil {
		funcs = append(funcs, validators.MaxLength(int(*src.MaxItems)))
	}
	return funcs
}

// schemaType reports the schema's primary type; multi-type schemas keep
// their joined spelling so the caller's error names them.
func schemaType(src *openapi3.Schema) string {
	if src.Type == nil {
		return ""
	}
	values := src.Type.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}
