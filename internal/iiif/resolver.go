package iiif

import (
	"context"
	"log/slog"

	"github.com/lehigh-university-libraries/edm2cmdi/internal/models"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/normalize"
)

// RefSource turns a manifest URL into labeled annotation references
type RefSource interface {
	AnnotationRefs(ctx context.Context, manifestURL string) ([]models.LabeledReference, error)
}

// Resolver collects the annotation references of a whole records map
type Resolver struct {
	source RefSource
}

// NewResolver creates a resolver reading manifests through source
func NewResolver(source RefSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve requests the references of every manifest URL in records, one
// after the other, and groups them by normalized identifier in records
// order. Identifiers without manifest URLs or without any reference are
// left out.
func (r *Resolver) Resolve(ctx context.Context, records models.RecordsMap) *models.LabeledRefs {
	labeled := models.NewLabeledRefs()

	for _, entry := range records {
		if len(entry.ManifestURLs) == 0 {
			slog.Warn("No manifest URLs specified for record", "identifier", entry.Identifier)
			continue
		}

		var refs []models.LabeledReference
		for _, manifestURL := range entry.ManifestURLs {
			urlRefs, err := r.source.AnnotationRefs(ctx, manifestURL)
			if err != nil {
				slog.Error("Unable to retrieve annotation references", "identifier", entry.Identifier, "manifest", manifestURL, "err", err)
				continue
			}
			for _, ref := range urlRefs {
				if ref.Ref == "" {
					continue
				}
				refs = append(refs, ref)
			}
		}

		if len(refs) == 0 {
			slog.Warn("No annotation references found for record", "identifier", entry.Identifier)
			continue
		}

		id := normalize.NormalizeIdentifier(entry.Identifier)
		labeled.Add(id.Value, refs...)
	}

	return labeled
}
