package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// DocumentLoader is the fetch contract shared by the format-specific loaders.
// Detection needs raw bytes before an adapter has been chosen, so the
// orchestrator keeps one plain fetcher of its own.
type DocumentLoader interface {
	Load(ctx context.Context, src schema.Source) (schema.Document, error)
}

func (o *Orchestrator) resolveAdapter(ctx context.Context, req Request) (schema.FormatAdapter, error) {
	if o.adapterRegistry == nil {
		return nil, errors.New("orchestrator: adapter registry is nil")
	}

	if format := strings.TrimSpace(req.Format); format != "" {
		return o.adapterRegistry.Get(format)
	}

	raw, src, err := o.rawForDetection(ctx, req)
	if err != nil {
		return nil, err
	}

	matches := o.adapterRegistry.Detect(src, raw)
	switch len(matches) {
	case 0:
		if o.defaultFormat == "" {
			return nil, errors.New("orchestrator: unable to detect document format, set Format")
		}
		return o.adapterRegistry.Get(o.defaultFormat)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("orchestrator: multiple adapters matched the document (%s), set Format", formatAdapterNames(matches))
	}
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request, adapter schema.FormatAdapter) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source or document is required")
	}
	if adapter == nil {
		return schema.Document{}, errors.New("orchestrator: adapter is nil")
	}
	doc, err := adapter.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rawForDetection(ctx context.Context, req Request) ([]byte, schema.Source, error) {
	switch {
	case req.Document != nil:
		return req.Document.Raw(), req.Document.Source(), nil
	case req.Source != nil:
		if payload, ok := schema.InlinePayload(req.Source); ok {
			return payload, req.Source, nil
		}
		if o.detectLoader == nil {
			return nil, nil, errors.New("orchestrator: detection loader is nil")
		}
		doc, err := o.detectLoader.Load(ctx, req.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("orchestrator: load document for detection: %w", err)
		}
		return doc.Raw(), req.Source, nil
	default:
		return nil, nil, errors.New("orchestrator: source or document is required")
	}
}

func formatFormRefs(refs []schema.FormRef) string {
	if len(refs) == 0 {
		return "none"
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.ID == "" {
			continue
		}
		ids = append(ids, ref.ID)
	}
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}

func formatAdapterNames(adapters []schema.FormatAdapter) string {
	names := make([]string, 0, len(adapters))
	for _, adapter := range adapters {
		if adapter == nil {
			continue
		}
		if name := strings.TrimSpace(adapter.Name()); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
