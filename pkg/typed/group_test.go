package typed

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/forms"
)

type loginControls struct {
	Username *Leaf[string] `form:"username"`
	Password *Leaf[string] `form:"password"`
	Remember *Leaf[bool]   `form:"remember"`
}

type loginValues struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Remember bool   `form:"remember"`
}

func newLoginGroup(t *testing.T) *Group[loginControls, loginValues] {
	t.Helper()
	group, err := NewGroup[loginControls, loginValues](loginControls{
		Username: NewLeaf("ada"),
		Password: NewLeaf("secret"),
		Remember: NewLeaf(true),
	})
	if err != nil {
		t.Fatalf("new group: %v", err)
	}
	return group
}

func TestGroupValueAssemblesStruct(t *testing.T) {
	group := newLoginGroup(t)

	want := loginValues{Username: "ada", Password: "secret", Remember: true}
	if diff := cmp.Diff(want, group.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupSetValueDistributes(t *testing.T) {
	group := newLoginGroup(t)

	next := loginValues{Username: "grace", Password: "hopper", Remember: false}
	if err := group.SetValue(next); err != nil {
		t.Fatalf("set value: %v", err)
	}

	if diff := cmp.Diff(next, group.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	if got := group.Controls().Username.Value(); got != "grace" {
		t.Fatalf("username control = %q, want %q", got, "grace")
	}
}

func TestGroupWrapperAgreesWithRuntime(t *testing.T) {
	group := newLoginGroup(t)

	raw, ok := group.Raw().RawValue().(map[string]any)
	if !ok {
		t.Fatalf("runtime raw value is %T, want map[string]any", group.Raw().RawValue())
	}

	want := map[string]any{"username": "ada", "password": "secret", "remember": true}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Fatalf("runtime value mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupRawValueKeepsDisabledFields(t *testing.T) {
	group := newLoginGroup(t)
	group.Controls().Remember.Disable()

	// The value struct has a slot for every field, so the typed view
	// cannot drop disabled children the way the runtime map does.
	want := loginValues{Username: "ada", Password: "secret", Remember: true}
	if diff := cmp.Diff(want, group.RawValue()); diff != "" {
		t.Fatalf("raw value mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, group.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}

	// The runtime view does drop them.
	runtimeValue := group.Raw().Value().(map[string]any)
	if _, present := runtimeValue["remember"]; present {
		t.Fatal("runtime value must omit the disabled child")
	}
}

func TestGroupControlNamesFollowDeclarationOrder(t *testing.T) {
	group := newLoginGroup(t)

	want := []string{"username", "password", "remember"}
	if diff := cmp.Diff(want, group.ControlNames()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupConstructionRejectsNilControl(t *testing.T) {
	_, err := NewGroup[loginControls, loginValues](loginControls{
		Username: NewLeaf("ada"),
		Password: nil,
		Remember: NewLeaf(true),
	})
	if err == nil {
		t.Fatal("expected construction error for nil control")
	}
	if !strings.Contains(err.Error(), `"password"`) {
		t.Fatalf("error %q does not name the nil control", err)
	}
}

type mismatchedValues struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Remember string `form:"remember"` // control yields bool
}

func TestGroupConstructionRejectsTypeMismatch(t *testing.T) {
	_, err := NewGroup[loginControls, mismatchedValues](loginControls{
		Username: NewLeaf("ada"),
		Password: NewLeaf("pw"),
		Remember: NewLeaf(true),
	})
	if err == nil {
		t.Fatal("expected construction error for mismatched value field")
	}
	if !strings.Contains(err.Error(), "remember") {
		t.Fatalf("error %q does not name the mismatched field", err)
	}
}

type missingFieldValues struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func TestGroupConstructionRejectsMissingValueField(t *testing.T) {
	_, err := NewGroup[loginControls, missingFieldValues](loginControls{
		Username: NewLeaf("ada"),
		Password: NewLeaf("pw"),
		Remember: NewLeaf(true),
	})
	if err == nil {
		t.Fatal("expected construction error for missing value field")
	}
}

func TestGroupConstructionRejectsNonStruct(t *testing.T) {
	if _, err := NewGroup[int, loginValues](7); err == nil {
		t.Fatal("expected construction error for non-struct controls")
	}
}

func TestMustGroupPanicsOnMalformedPair(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustGroup[loginControls, loginValues](loginControls{})
}

func TestGroupSetControlReplaces(t *testing.T) {
	group := newLoginGroup(t)
	old := group.Controls().Username

	replacement := NewLeaf("turing")
	if err := group.SetControl("username", replacement); err != nil {
		t.Fatalf("set control: %v", err)
	}

	if old.Parent() != nil {
		t.Fatal("displaced control must be detached")
	}
	if group.Controls().Username != replacement {
		t.Fatal("controls record must carry the replacement")
	}
	if got := group.Value().Username; got != "turing" {
		t.Fatalf("value.username = %q, want %q", got, "turing")
	}
}

func TestGroupSetControlRejectsWrongType(t *testing.T) {
	group := newLoginGroup(t)

	err := group.SetControl("username", NewLeaf(99))
	if err == nil {
		t.Fatal("expected type error")
	}
	if !strings.Contains(err.Error(), "expects") {
		t.Fatalf("error %q does not describe the expected type", err)
	}

	if err := group.SetControl("nope", NewLeaf("x")); err == nil {
		t.Fatal("expected unknown-name error")
	}
	if err := group.SetControl("username", nil); err == nil {
		t.Fatal("expected nil-control error")
	}
}

func TestGroupPatch(t *testing.T) {
	group := newLoginGroup(t)

	if err := group.Patch(map[string]any{"username": "grace", "unknown": 1}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	want := loginValues{Username: "grace", Password: "secret", Remember: true}
	if diff := cmp.Diff(want, group.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}

	if err := group.Patch(map[string]any{"remember": "not-a-bool"}); err == nil {
		t.Fatal("expected error for wrong-typed patch value")
	}
}

func TestGroupResetTo(t *testing.T) {
	group := newLoginGroup(t)
	group.MarkAsDirty()
	group.MarkAsTouched()

	seed := loginValues{Username: "alan", Password: "pw", Remember: false}
	group.ResetTo(seed)

	if diff := cmp.Diff(seed, group.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	if !group.Pristine() || !group.Untouched() {
		t.Fatal("resetTo must leave the group pristine and untouched")
	}
}

func TestGroupReset(t *testing.T) {
	group := newLoginGroup(t)
	group.Reset()

	if diff := cmp.Diff(loginValues{}, group.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupPathNavigation(t *testing.T) {
	group := newLoginGroup(t)

	node := group.Get("username")
	if node == nil {
		t.Fatal("expected username node")
	}
	if node.Parent() != AnyNode(group) {
		t.Fatal("child parent must be the group")
	}
	if group.Get("missing") != nil {
		t.Fatal("unknown path must resolve to nil")
	}
}

func TestGroupTypedGroupValidator(t *testing.T) {
	matching := func(node Node[loginValues]) forms.Errors {
		v := node.Value()
		if v.Username == v.Password {
			return forms.Errors{"passwordMatchesUsername": true}
		}
		return nil
	}

	group, err := NewGroup[loginControls, loginValues](loginControls{
		Username: NewLeaf("same"),
		Password: NewLeaf("same"),
		Remember: NewLeaf(false),
	}, WithValidators(matching))
	if err != nil {
		t.Fatalf("new group: %v", err)
	}

	if !group.Invalid() {
		t.Fatalf("status = %s, want INVALID", group.Status())
	}
	if err := group.SetValue(loginValues{Username: "a", Password: "b"}); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if !group.Valid() {
		t.Fatalf("status = %s, want VALID", group.Status())
	}
}

func TestGroupNestedInGroup(t *testing.T) {
	type innerControls struct {
		City *Leaf[string] `form:"city"`
	}
	type innerValues struct {
		City string `form:"city"`
	}
	type outerControls struct {
		Name    *Leaf[string]                      `form:"name"`
		Address *Group[innerControls, innerValues] `form:"address"`
	}
	type outerValues struct {
		Name    string      `form:"name"`
		Address innerValues `form:"address"`
	}

	address := MustGroup[innerControls, innerValues](innerControls{City: NewLeaf("Springfield")})
	outer, err := NewGroup[outerControls, outerValues](outerControls{
		Name:    NewLeaf("ada"),
		Address: address,
	})
	if err != nil {
		t.Fatalf("new group: %v", err)
	}

	want := outerValues{Name: "ada", Address: innerValues{City: "Springfield"}}
	if diff := cmp.Diff(want, outer.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}

	next := outerValues{Name: "grace", Address: innerValues{City: "Shelbyville"}}
	if err := outer.SetValue(next); err != nil {
		t.Fatalf("set value: %v", err)
	}
	if diff := cmp.Diff(next, outer.Value()); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}

	if got := outer.Get("address.city"); got == nil {
		t.Fatal("expected nested path to resolve")
	}
}
