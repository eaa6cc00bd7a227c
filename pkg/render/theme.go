package render

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

func themeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	vars := copyStringMap(cfg.CSSVars)
	return map[string]any{
		"name":           cfg.Theme,
		"variant":        cfg.Variant,
		"tokens":         copyStringMap(cfg.Tokens),
		"css_vars":       vars,
		"css_vars_style": cssVarsStyle(vars),
	}
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

const defaultTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ title }}</title>
{% if theme.css_vars_style %}<style>{{ theme.css_vars_style }}</style>{% endif %}
</head>
<body{% if theme.name %} data-theme="{{ theme.name }}"{% endif %}{% if theme.variant %} data-variant="{{ theme.variant }}"{% endif %}>
<h1>{{ title }}</h1>
<p class="form-status form-status--{{ status|lower }}">{{ status }}</p>
<dl class="form-state">
{% for field in fields %}
  <dt class="field-path">{{ field.path }}</dt>
  <dd class="field-state field-state--{{ field.status|lower }}{% if field.dirty %} is-dirty{% endif %}{% if field.touched %} is-touched{% endif %}">
    <span class="field-value">{{ field.value }}</span>
    {% if field.errors %}<ul class="field-errors">{% for code in field.errors %}<li>{{ code }}</li>{% endfor %}</ul>{% endif %}
  </dd>
{% endfor %}
</dl>
</body>
</html>
`
