package formstate_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/validators"
)

type signupControls struct {
	Email      *formstate.Leaf[string] `form:"email"`
	Nickname   *formstate.Leaf[string] `form:"nickname"`
	Newsletter *formstate.Leaf[bool]   `form:"newsletter"`
}

type signupValues struct {
	Email      string `form:"email"`
	Nickname   string `form:"nickname"`
	Newsletter bool   `form:"newsletter"`
}

func TestRootPackageRoundTrip(t *testing.T) {
	form, err := formstate.NewGroup[signupControls, signupValues](signupControls{
		Email:      formstate.NewLeaf(""),
		Nickname:   formstate.NewLeaf("ada"),
		Newsletter: formstate.NewLeaf(false),
	})
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}

	want := signupValues{Nickname: "ada"}
	if diff := cmp.Diff(want, form.Value()); diff != "" {
		t.Fatalf("initial value mismatch (-want +got):\n%s", diff)
	}

	if err := form.SetValue(signupValues{
		Email:      "ada@example.com",
		Nickname:   "ada",
		Newsletter: true,
	}); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := form.Controls().Email.Value(); got != "ada@example.com" {
		t.Fatalf("email leaf = %q", got)
	}
	if form.Raw().Status() != formstate.StatusValid {
		t.Fatalf("status = %s, want %s", form.Raw().Status(), formstate.StatusValid)
	}
}

func TestRootPackageValidatorsBridge(t *testing.T) {
	leaf := formstate.NewLeaf("",
		formstate.WithValidators(func(n formstate.Node[string]) formstate.Errors {
			if n.Value() == "" {
				return formstate.Errors{"required": true}
			}
			return nil
		}),
	)

	if leaf.Raw().Status() != formstate.StatusInvalid {
		t.Fatalf("status = %s, want %s", leaf.Raw().Status(), formstate.StatusInvalid)
	}

	leaf.SetValue("present")
	if leaf.Raw().Status() != formstate.StatusValid {
		t.Fatalf("status after set = %s", leaf.Raw().Status())
	}
}

func TestRootPackageDynamicAliases(t *testing.T) {
	var v formstate.ValidatorFunc = validators.Required

	field := formstate.NewLeaf("").Raw()
	field.SetValidators(v)
	field.UpdateValueAndValidity()

	var c formstate.Control = field
	if c.Status() != formstate.StatusInvalid {
		t.Fatalf("status = %s, want %s", c.Status(), formstate.StatusInvalid)
	}
	if c.GetError("required") == nil {
		t.Fatal("expected required error through the alias surface")
	}
}
