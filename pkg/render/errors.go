package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/forms"
)

// ServerErrorCode is the error code under which server-side messages land
// on a control's error map.
const ServerErrorCode = "server"

// ErrorMapping splits a server error payload into the field-level messages
// that matched a control path and the form-level remainder.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// ApplyServerErrors maps a server validation payload onto the control tree.
// Payload keys may be dotted paths, JSON pointers, or bracketed index paths;
// each key is normalised and matched against the tree's actual paths.
// Matched messages are set on the control under the "server" code; messages
// whose path cannot be resolved are returned as form-level errors so they
// are not lost.
func ApplyServerErrors(control forms.Control, payload map[string][]string) ErrorMapping {
	mapping := MapErrorPayload(control, payload)
	for path, messages := range mapping.Fields {
		target := control.Get(path)
		if target == nil {
			continue
		}
		target.SetErrors(forms.MergeErrors(target.Errors(), forms.Errors{
			ServerErrorCode: messages,
		}))
	}
	return mapping
}

// MapErrorPayload normalises a server error payload into dotted control
// paths without mutating the tree. Unknown paths are treated as form-level
// errors.
func MapErrorPayload(control forms.Control, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 || control == nil {
		mapping.Fields = nil
		return mapping
	}

	paths := make(map[string]struct{})
	collectControlPaths(control, "", paths)

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}

		mapped, formLevel := mapErrorPath(rawPath, paths)
		if formLevel || mapped == "" {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[mapped] = append(mapping.Fields[mapped], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// MergeFormErrors concatenates form-level error slices, trimming whitespace
// and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func collectControlPaths(control forms.Control, prefix string, dest map[string]struct{}) {
	switch c := control.(type) {
	case *forms.Group:
		for _, name := range c.ControlNames() {
			path := joinPath(prefix, name)
			dest[path] = struct{}{}
			child, _ := c.Control(name)
			collectControlPaths(child, path, dest)
		}
	case *forms.List:
		for i := 0; i < c.Len(); i++ {
			path := joinPath(prefix, strconv.Itoa(i))
			dest[path] = struct{}{}
			collectControlPaths(c.At(i), path, dest)
		}
	}
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, paths map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", true
	}

	segments := parsePathSegments(trimmed)
	if len(segments) == 0 {
		return "", true
	}

	best := ""
	for _, variant := range buildSegmentVariants(segments) {
		if path := longestMatchingPath(variant, paths); path != "" {
			if len(strings.Split(path, ".")) > len(strings.Split(best, ".")) || best == "" {
				best = path
			}
		}
	}

	if best != "" {
		return best, false
	}
	return "", true
}

// parsePathSegments turns the path spellings servers actually emit (dotted
// paths, JSON pointers, bracketed indices) into plain segments.
func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$/")
	clean = strings.TrimPrefix(clean, "$.")
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimPrefix(clean, "#")
		clean = strings.TrimPrefix(clean, "/")
		clean = strings.TrimPrefix(clean, ".")
		clean = strings.TrimPrefix(clean, "$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = replacer.Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func buildSegmentVariants(segments []string) [][]string {
	var variants [][]string
	seen := make(map[string]struct{}, 2)

	appendVariant := func(candidate []string) {
		if len(candidate) == 0 {
			return
		}
		key := strings.Join(candidate, ".")
		if _, exists := seen[key]; exists {
			return
		}
		seen[key] = struct{}{}
		variants = append(variants, append([]string(nil), candidate...))
	}

	appendVariant(segments)
	appendVariant(dropWrapperSegments(segments))
	return variants
}

// dropWrapperSegments removes the envelope prefixes request payloads travel
// in, so "body.title" still finds the "title" control.
func dropWrapperSegments(segments []string) []string {
	wrappers := map[string]struct{}{
		"body":       {},
		"request":    {},
		"payload":    {},
		"data":       {},
		"attributes": {},
	}

	out := segments
	for len(out) > 0 {
		if _, ok := wrappers[strings.ToLower(out[0])]; ok {
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func longestMatchingPath(segments []string, paths map[string]struct{}) string {
	if len(segments) == 0 || len(paths) == 0 {
		return ""
	}
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := paths[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
