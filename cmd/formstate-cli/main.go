package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/forms"
	"github.com/goliatone/go-formstate/pkg/prompt"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/schema"
)

func main() {
	source := flag.String("source", "", "OpenAPI document path")
	opID := flag.String("operation", "", "operation ID whose request body drives the form")
	component := flag.String("component", "", "component schema name (alternative to -operation)")
	fill := flag.Bool("fill", false, "prompt interactively for field values")
	format := flag.String("format", "json", "output format: json or html")
	title := flag.String("title", "Form", "title for html output")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	if *source == "" {
		log.Fatalf("a -source document is required")
	}
	if (*opID == "") == (*component == "") {
		log.Fatalf("exactly one of -operation or -component is required")
	}

	ctx := context.Background()

	doc, err := schema.LoadFromSource(ctx, parseSource(*source))
	if err != nil {
		log.Fatalf("Failed to load document: %v", err)
	}

	var ref *openapi3.SchemaRef
	name := *opID
	if *opID != "" {
		ref, err = schema.RequestSchema(doc, *opID)
	} else {
		name = *component
		ref, err = schema.ComponentSchema(doc, *component)
	}
	if err != nil {
		log.Fatalf("Failed to resolve schema: %v", err)
	}

	control, err := schema.NewBuilder().Build(ref)
	if err != nil {
		log.Fatalf("Failed to build form: %v", err)
	}

	if *fill {
		filler, err := prompt.New()
		if err != nil {
			log.Fatalf("Failed to initialise prompt: %v", err)
		}
		if err := filler.Fill(ctx, control, name); err != nil {
			log.Fatalf("Failed to fill form: %v", err)
		}
	}

	payload, err := encode(ctx, control, *format, *title)
	if err != nil {
		log.Fatalf("Failed to encode form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, payload, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form state written to %s\n", *output)
	} else {
		fmt.Println(string(payload))
	}
}

func parseSource(raw string) schema.Source {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return schema.SourceFromURL(path)
	}
	return schema.SourceFromFile(path)
}

func encode(ctx context.Context, control forms.Control, format, title string) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(control.Value(), "", "  ")
	case "html":
		engine, err := render.New()
		if err != nil {
			return nil, err
		}
		return engine.Render(ctx, control, title)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
