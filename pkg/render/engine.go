// Package render turns a dynamic control tree's current state — values,
// statuses, dirt and error maps — into an HTML snapshot. Rendering goes
// through a pongo2 template set; user-entered string values pass through a
// bluemonday policy first so a snapshot can be embedded without escaping
// surprises.
package render

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formstate/pkg/forms"
)

// Engine renders control-tree snapshots through a pongo2 template.
type Engine struct {
	tpl      *pongo2.Template
	themeCfg *theme.RendererConfig
	policy   *bluemonday.Policy
}

type config struct {
	template string
	themeCfg *theme.RendererConfig
	policy   *bluemonday.Policy
}

// Option configures the engine before construction.
type Option func(*config)

// WithTemplate overrides the built-in snapshot template with a pongo2
// source string.
func WithTemplate(source string) Option {
	return func(cfg *config) {
		if strings.TrimSpace(source) != "" {
			cfg.template = source
		}
	}
}

// WithTheme attaches a resolved go-theme renderer configuration; its tokens
// and CSS variables become available to the template.
func WithTheme(themeCfg *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.themeCfg = themeCfg
	}
}

// WithSanitizer overrides the bluemonday policy applied to string values.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithGoTemplateOptions exists for backward compatibility with the
// go-template based engine and is currently a no-op.
func WithGoTemplateOptions(_ ...gotemplatepkg.Option) Option {
	return func(*config) {}
}

// New constructs an Engine.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		template: defaultTemplate,
		policy:   bluemonday.UGCPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	tpl, err := pongo2.FromString(cfg.template)
	if err != nil {
		return nil, fmt.Errorf("render: compile template: %w", err)
	}
	return &Engine{tpl: tpl, themeCfg: cfg.themeCfg, policy: cfg.policy}, nil
}

// Render produces an HTML snapshot of the control tree's current state.
func (e *Engine) Render(ctx context.Context, control forms.Control, title string) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("render: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if control == nil {
		return nil, errors.New("render: control is nil")
	}

	out, err := e.tpl.Execute(pongo2.Context{
		"title":  title,
		"status": string(control.Status()),
		"fields": e.snapshot(control, ""),
		"theme":  themeContext(e.themeCfg),
	})
	if err != nil {
		return nil, fmt.Errorf("render: execute template: %w", err)
	}
	return []byte(out), nil
}

// snapshot flattens the tree into one entry per leaf field, ordered by
// path.
func (e *Engine) snapshot(control forms.Control, path string) []map[string]any {
	switch c := control.(type) {
	case *forms.Group:
		var out []map[string]any
		for _, name := range c.ControlNames() {
			child, _ := c.Control(name)
			out = append(out, e.snapshot(child, joinPath(path, name))...)
		}
		return out
	case *forms.List:
		var out []map[string]any
		for i := 0; i < c.Len(); i++ {
			out = append(out, e.snapshot(c.At(i), joinPath(path, fmt.Sprint(i)))...)
		}
		return out
	default:
		return []map[string]any{{
			"path":    path,
			"value":   e.printable(control.RawValue()),
			"status":  string(control.Status()),
			"dirty":   control.Dirty(),
			"touched": control.Touched(),
			"errors":  errorCodes(control.Errors()),
		}}
	}
}

func (e *Engine) printable(value any) string {
	if value == nil {
		return ""
	}
	text := fmt.Sprint(value)
	return e.policy.Sanitize(text)
}

func errorCodes(errs forms.Errors) []string {
	if len(errs) == 0 {
		return nil
	}
	codes := make([]string, 0, len(errs))
	for code := range errs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
