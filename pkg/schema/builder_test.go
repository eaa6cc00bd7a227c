package schema

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/forms"
	"github.com/goliatone/go-formstate/pkg/testsupport"
	"github.com/goliatone/go-formstate/pkg/validators"
)

func loadArticleSchema(t *testing.T) *forms.Group {
	t.Helper()

	doc, err := LoadDocument(context.Background(), filepath.Join("testdata", "articles.yaml"))
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	ref, err := RequestSchema(doc, "createArticle")
	if err != nil {
		t.Fatalf("request schema: %v", err)
	}
	control, err := NewBuilder().Build(ref)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	group, ok := control.(*forms.Group)
	if !ok {
		t.Fatalf("built control is %T, want *forms.Group", control)
	}
	return group
}

func TestBuildObjectShape(t *testing.T) {
	group := loadArticleSchema(t)

	want := []string{"author", "published", "rating", "status", "summary", "tags", "title"}
	if diff := cmp.Diff(want, group.ControlNames()); diff != "" {
		t.Fatalf("control names mismatch (-want +got):\n%s\n%s", diff, testsupport.DumpTree(group))
	}

	if _, ok := group.Get("author").(*forms.Group); !ok {
		t.Fatalf("author is %T, want *forms.Group", group.Get("author"))
	}
	if _, ok := group.Get("tags").(*forms.List); !ok {
		t.Fatalf("tags is %T, want *forms.List", group.Get("tags"))
	}
	if _, ok := group.Get("title").(*forms.Field); !ok {
		t.Fatalf("title is %T, want *forms.Field", group.Get("title"))
	}
	if group.Get("author.email") == nil {
		t.Fatal("nested author.email must resolve")
	}
}

func TestBuildAppliesDefaults(t *testing.T) {
	group := loadArticleSchema(t)

	if got := group.Get("published").Value(); got != false {
		t.Fatalf("published default = %v, want false", got)
	}
	if got := group.Get("status").Value(); got != "draft" {
		t.Fatalf("status default = %v, want draft", got)
	}
	if got := group.Get("title").Value(); got != nil {
		t.Fatalf("title has no default, got %v", got)
	}
}

func TestBuildWithoutDefaults(t *testing.T) {
	doc, err := LoadDocument(context.Background(), filepath.Join("testdata", "articles.yaml"))
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	ref, err := ComponentSchema(doc, "Article")
	if err != nil {
		t.Fatalf("component schema: %v", err)
	}

	control, err := NewBuilder(WithoutDefaults()).Build(ref)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := control.Get("published").Value(); got != nil {
		t.Fatalf("published = %v, want nil without defaults", got)
	}
}

func TestBuildWiresConstraintValidators(t *testing.T) {
	group := loadArticleSchema(t)

	// title is required and the default form is empty.
	if !group.Get("title").HasError(validators.CodeRequired) {
		t.Fatal("empty title must carry the required error")
	}
	if group.Status() != forms.StatusInvalid {
		t.Fatalf("form status = %s, want INVALID", group.Status())
	}

	title := group.Get("title")
	if err := title.SetValue("ab"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if !title.HasError(validators.CodeMinLength) {
		t.Fatal("short title must carry the minlength error")
	}

	if err := title.SetValue("A valid headline"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if !title.Valid() {
		t.Fatalf("title status = %s, want VALID", title.Status())
	}

	status := group.Get("status")
	if err := status.SetValue("deleted"); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if !status.HasError(validators.CodeOneOf) {
		t.Fatal("out-of-enum status must carry the oneof error")
	}

	rating := group.Get("rating")
	if err := rating.SetValue(7.5); err != nil {
		t.Fatalf("set rating: %v", err)
	}
	if !rating.HasError(validators.CodeMax) {
		t.Fatal("rating above maximum must carry the max error")
	}

	email := group.Get("author.email")
	if err := email.SetValue("not-an-email"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	if !email.HasError(validators.CodePattern) {
		t.Fatal("malformed email must carry the pattern error")
	}

	if err := title.SetValue("<script>x</script>"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if !title.HasError(validators.CodeUnsafeHTML) {
		t.Fatal("markup in a string field must carry the unsafeHtml error")
	}
}

func TestBuildWithoutConstraintValidators(t *testing.T) {
	doc, err := LoadDocument(context.Background(), filepath.Join("testdata", "articles.yaml"))
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	ref, err := ComponentSchema(doc, "Article")
	if err != nil {
		t.Fatalf("component schema: %v", err)
	}

	control, err := NewBuilder(WithoutConstraintValidators()).Build(ref)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if control.Status() != forms.StatusValid {
		t.Fatalf("status = %s, want VALID with validators off", control.Status())
	}
}

func TestBuildArrayConstraints(t *testing.T) {
	group := loadArticleSchema(t)

	tags, ok := group.Get("tags").(*forms.List)
	if !ok {
		t.Fatalf("tags is %T, want *forms.List", group.Get("tags"))
	}

	// minItems: 1 but the built list starts empty; MinLength lets the
	// empty case pass, the same posture as empty optional fields.
	if tags.Len() != 0 {
		t.Fatalf("tags length = %d, want 0", tags.Len())
	}

	builder := NewBuilder()
	ref, err := ComponentSchema(mustLoadDoc(t), "Article")
	if err != nil {
		t.Fatalf("component schema: %v", err)
	}
	tagsRef := ref.Value.Properties["tags"]

	for i := 0; i < 11; i++ {
		item, err := builder.Item(tagsRef)
		if err != nil {
			t.Fatalf("item: %v", err)
		}
		tags.Push(item)
	}
	if !tags.HasError(validators.CodeMaxLength) {
		t.Fatal("11 items must violate maxItems")
	}
}

func mustLoadDoc(t *testing.T) *openapi3.T {
	t.Helper()
	doc, err := LoadDocument(context.Background(), filepath.Join("testdata", "articles.yaml"))
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

func TestBuildRejectsEmptyRef(t *testing.T) {
	if _, err := NewBuilder().Build(nil); err == nil {
		t.Fatal("expected error for nil ref")
	}
}

func TestBuildDepthLimit(t *testing.T) {
	ref, err := ParseSchema([]byte(`{
		"type": "object",
		"properties": {
			"a": {"type": "object", "properties": {"b": {"type": "string"}}}
		}
	}`))
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}

	if _, err := NewBuilder(WithMaxDepth(1)).Build(ref); err == nil {
		t.Fatal("expected depth error")
	}
	if _, err := NewBuilder(WithMaxDepth(3)).Build(ref); err != nil {
		t.Fatalf("build within depth: %v", err)
	}
}

func TestItemRequiresArraySchema(t *testing.T) {
	ref, err := ParseSchema([]byte(`{"type": "string"}`))
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	if _, err := NewBuilder().Item(ref); err == nil {
		t.Fatal("expected error for non-array schema")
	}
}
