package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	schemaform "github.com/goliatone/go-schemaform"
	pkgjsonschema "github.com/goliatone/go-schemaform/pkg/jsonschema"
	pkgopenapi "github.com/goliatone/go-schemaform/pkg/openapi"
	"github.com/goliatone/go-schemaform/pkg/orchestrator"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

const fetchTimeout = 30 * time.Second

func main() {
	formID := flag.String("form", "", "form ID to derive (optional for single-form documents)")
	source := flag.String("source", "", "schema document path or URL (JSON Schema or OpenAPI)")
	format := flag.String("format", "", "pin the document format: jsonschema or openapi")
	output := flag.String("output", "", "output file (stdout if empty)")
	list := flag.Bool("list", false, "list available forms instead of deriving one")
	flag.Parse()

	ctx := context.Background()

	src := parseSource(*source)
	if src == nil {
		log.Fatalf("invalid source: %q", *source)
	}

	// Remote sources are opt-in for the library; the CLI always allows them.
	gen := orchestrator.New(
		orchestrator.WithAdapter(schemaform.NewOpenAPIAdapter(
			[]pkgopenapi.LoaderOption{pkgopenapi.WithHTTPFallback(fetchTimeout)}, nil,
		)),
		orchestrator.WithAdapter(schemaform.NewJSONSchemaAdapter(
			pkgjsonschema.WithHTTPFallback(fetchTimeout),
		)),
		orchestrator.WithDetectionLoader(schemaform.NewJSONSchemaLoader(
			pkgjsonschema.WithHTTPFallback(fetchTimeout),
		)),
	)

	if *list {
		refs, err := gen.Forms(ctx, src)
		if err != nil {
			log.Fatalf("Failed to list forms: %v", err)
		}
		for _, ref := range refs {
			if ref.Title != "" {
				fmt.Printf("%s\t%s\n", ref.ID, ref.Title)
				continue
			}
			fmt.Println(ref.ID)
		}
		return
	}

	formModel, err := gen.Model(ctx, orchestrator.Request{
		Source: src,
		FormID: *formID,
		Format: *format,
	})
	if err != nil {
		log.Fatalf("Failed to derive form model: %v", err)
	}

	payload, err := json.MarshalIndent(formModel, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode form model: %v", err)
	}
	payload = append(payload, '\n')

	if *output != "" {
		if err := os.WriteFile(*output, payload, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form model written to %s\n", *output)
	} else {
		os.Stdout.Write(payload)
	}
}

func parseSource(raw string) schema.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return schema.SourceFromURL(path)
	}
	return schema.SourceFromFile(path)
}
