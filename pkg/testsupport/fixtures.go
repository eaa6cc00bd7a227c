// Package testsupport collects helpers shared by the package test suites:
// golden-file management, control-tree dumps, and fixture loading.
package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/forms"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// TreeState is a serialisable snapshot of a single control used by golden
// comparisons. Children are keyed by name for groups; list items keep their
// positional order.
type TreeState struct {
	Value    any                  `json:"value"`
	Status   forms.Status         `json:"status"`
	Dirty    bool                 `json:"dirty,omitempty"`
	Touched  bool                 `json:"touched,omitempty"`
	Errors   []string             `json:"errors,omitempty"`
	Children map[string]TreeState `json:"children,omitempty"`
	Items    []TreeState          `json:"items,omitempty"`
}

// Snapshot captures the state of a control tree for golden comparison.
func Snapshot(control forms.Control) TreeState {
	state := TreeState{
		Value:   control.RawValue(),
		Status:  control.Status(),
		Dirty:   control.Dirty(),
		Touched: control.Touched(),
	}
	if errs := control.Errors(); len(errs) > 0 {
		codes := make([]string, 0, len(errs))
		for code := range errs {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		state.Errors = codes
	}

	switch c := control.(type) {
	case *forms.Group:
		state.Children = make(map[string]TreeState, c.Len())
		for _, name := range c.ControlNames() {
			child, _ := c.Control(name)
			state.Children[name] = Snapshot(child)
		}
	case *forms.List:
		for i := 0; i < c.Len(); i++ {
			state.Items = append(state.Items, Snapshot(c.At(i)))
		}
	}
	return state
}

// DumpTree pretty-prints a control tree's snapshot; useful in failure
// messages when an expectation breaks.
func DumpTree(control forms.Control) string {
	return spew.Sdump(Snapshot(control))
}
