// Package schema builds dynamic control trees from OpenAPI schemas. An
// object schema becomes a forms.Group, an array schema a forms.List, and a
// scalar a forms.Field carrying the schema's default; constraints (bounds,
// lengths, patterns, enums, required properties) are attached as the
// matching pkg/validators built-ins so the resulting tree validates the way
// the document says it should.
package schema
