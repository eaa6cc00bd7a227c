package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// LoadDocument reads and resolves an OpenAPI document from path using
// kin-openapi. YAML and JSON are both accepted.
func LoadDocument(ctx context.Context, path string) (*openapi3.T, error) {
	if path == "" {
		return nil, errors.New("schema: document path is required")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: true,
	}
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: load document: %w", err)
	}
	return doc, nil
}

// LoadDocumentFromData parses an OpenAPI document from raw bytes.
func LoadDocumentFromData(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, errors.New("schema: document payload is empty")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: true,
	}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load document: %w", err)
	}
	return doc, nil
}

// LoadFromSource resolves a document from any Source modality: file paths,
// fs.FS entries, or HTTP(S) URLs.
func LoadFromSource(ctx context.Context, src Source) (*openapi3.T, error) {
	if src == nil {
		return nil, errors.New("schema: source is required")
	}
	switch s := src.(type) {
	case fileSource:
		return LoadDocument(ctx, s.path)
	case fsSource:
		data, err := fs.ReadFile(s.fsys, s.name)
		if err != nil {
			return nil, fmt.Errorf("schema: read %s: %w", s.name, err)
		}
		return LoadDocumentFromData(ctx, data)
	case urlSource:
		location, err := url.Parse(s.raw)
		if err != nil {
			return nil, fmt.Errorf("schema: parse url: %w", err)
		}
		loader := &openapi3.Loader{
			Context:               ctx,
			IsExternalRefsAllowed: true,
		}
		doc, err := loader.LoadFromURI(location)
		if err != nil {
			return nil, fmt.Errorf("schema: load document: %w", err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("schema: unsupported source kind %q", src.Kind())
	}
}

// RequestSchema finds the operation with the given ID and returns its JSON
// request body schema.
func RequestSchema(doc *openapi3.T, operationID string) (*openapi3.SchemaRef, error) {
	if doc == nil {
		return nil, errors.New("schema: document is nil")
	}
	if doc.Paths == nil {
		return nil, errors.New("schema: document does not contain any paths")
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation == nil || operation.OperationID != operationID {
				continue
			}
			return operationRequestSchema(operation)
		}
	}
	return nil, fmt.Errorf("schema: operation %q not found", operationID)
}

func operationRequestSchema(operation *openapi3.Operation) (*openapi3.SchemaRef, error) {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil, fmt.Errorf("schema: operation %q has no request body", operation.OperationID)
	}
	media := operation.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil {
		return nil, fmt.Errorf("schema: operation %q has no JSON request schema", operation.OperationID)
	}
	return media.Schema, nil
}

// ComponentSchema returns the named schema from the document's components.
func ComponentSchema(doc *openapi3.T, name string) (*openapi3.SchemaRef, error) {
	if doc == nil || doc.Components == nil {
		return nil, errors.New("schema: document has no components")
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok {
		return nil, fmt.Errorf("schema: component schema %q not found", name)
	}
	return ref, nil
}

// ParseSchema parses a bare schema document (not a full OpenAPI spec) from
// YAML or JSON bytes.
func ParseSchema(data []byte) (*openapi3.SchemaRef, error) {
	if len(data) == 0 {
		return nil, errors.New("schema: schema payload is empty")
	}

	payload := data
	if !json.Valid(data) {
		var intermediate any
		if err := yaml.Unmarshal(data, &intermediate); err != nil {
			return nil, fmt.Errorf("schema: parse yaml: %w", err)
		}
		converted, err := json.Marshal(intermediate)
		if err != nil {
			return nil, fmt.Errorf("schema: convert yaml: %w", err)
		}
		payload = converted
	}

	var parsed openapi3.Schema
	if err := parsed.UnmarshalJSON(payload); err != nil {
		return nil, fmt.Errorf("schema: parse schema: %w", err)
	}
	return openapi3.NewSchemaRef("", &parsed), nil
}
