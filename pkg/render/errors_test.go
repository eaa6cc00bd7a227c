package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formstate/pkg/forms"
	"github.com/goliatone/go-formstate/pkg/render"
)

func serverErrorForm() *forms.Group {
	owner := forms.NewGroup(map[string]forms.Control{
		"email": forms.NewField(""),
		"phone": forms.NewField(""),
	})

	tags := forms.NewList([]forms.Control{
		forms.NewField("go"),
		forms.NewField("forms"),
	})

	return forms.NewGroup(map[string]forms.Control{
		"name":  forms.NewField(""),
		"owner": owner,
		"tags":  tags,
	})
}

func TestMapErrorPayload_PathSpellings(t *testing.T) {
	form := serverErrorForm()

	payload := map[string][]string{
		"/body/name":                {"Name is required"},
		"body.owner.email":          {"Email invalid"},
		"$.body.tags[0]":            {"Tag must be unique"},
		"request.payload.owner":     {"Owner missing"},
		"non_field_errors":          {"Form level error"},
		"body/owner/phone/~1number": {"Phone malformed"},
		"request/body/unknown":      {"Falls back to form errors"},
		"":                          {"Unscoped form error"},
	}

	mapped := render.MapErrorPayload(form, payload)

	wantFields := map[string][]string{
		"name":        {"Name is required"},
		"owner.email": {"Email invalid"},
		"tags.0":      {"Tag must be unique"},
		"owner":       {"Owner missing"},
		"owner.phone": {"Phone malformed"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Falls back to form errors", "Form level error", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_IndexPastListEnd(t *testing.T) {
	form := serverErrorForm()

	mapped := render.MapErrorPayload(form, map[string][]string{
		"body.tags.9.label": {"No such item"},
	})

	want := map[string][]string{"tags": {"No such item"}}
	if diff := cmp.Diff(want, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if len(mapped.Form) != 0 {
		t.Fatalf("expected no form errors, got %v", mapped.Form)
	}
}

func TestMapErrorPayload_DedupesAndTrims(t *testing.T) {
	form := serverErrorForm()

	mapped := render.MapErrorPayload(form, map[string][]string{
		"name": {" Name is required ", "Name is required", "  "},
	})

	want := map[string][]string{"name": {"Name is required"}}
	if diff := cmp.Diff(want, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_Empty(t *testing.T) {
	form := serverErrorForm()

	mapped := render.MapErrorPayload(form, nil)
	if mapped.Fields != nil || mapped.Form != nil {
		t.Fatalf("expected empty mapping, got %+v", mapped)
	}

	mapped = render.MapErrorPayload(nil, map[string][]string{"name": {"x"}})
	if mapped.Fields != nil {
		t.Fatalf("expected no field errors for nil control, got %+v", mapped.Fields)
	}
}

func TestApplyServerErrors_SetsControlErrors(t *testing.T) {
	form := serverErrorForm()

	mapping := render.ApplyServerErrors(form, map[string][]string{
		"body.owner.email": {"Email already taken"},
		"non_field_errors": {"Try again later"},
	})

	email := form.Get("owner.email")
	errs := email.Errors()
	if errs == nil {
		t.Fatal("expected server error on owner.email")
	}
	got, ok := errs[render.ServerErrorCode].([]string)
	if !ok {
		t.Fatalf("expected []string under %q, got %T", render.ServerErrorCode, errs[render.ServerErrorCode])
	}
	if diff := cmp.Diff([]string{"Email already taken"}, got); diff != "" {
		t.Fatalf("server messages mismatch (-want +got):\n%s", diff)
	}

	if email.Status() != forms.StatusInvalid {
		t.Fatalf("expected INVALID after applying server errors, got %s", email.Status())
	}
	if form.Status() != forms.StatusInvalid {
		t.Fatalf("expected parent INVALID, got %s", form.Status())
	}

	if diff := cmp.Diff([]string{"Try again later"}, mapping.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyServerErrors_KeepsExistingCodes(t *testing.T) {
	name := forms.NewField("")
	name.SetErrors(forms.Errors{"required": true})
	form := forms.NewGroup(map[string]forms.Control{"name": name})

	render.ApplyServerErrors(form, map[string][]string{
		"name": {"Name rejected upstream"},
	})

	errs := name.Errors()
	if errs["required"] != true {
		t.Fatalf("expected required error to survive, got %v", errs)
	}
	if _, ok := errs[render.ServerErrorCode]; !ok {
		t.Fatalf("expected server error alongside required, got %v", errs)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
