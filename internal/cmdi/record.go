package cmdi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/edm2cmdi/internal/edm"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/models"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/normalize"
)

// RecordRequest describes the full text of one title in one year
type RecordRequest struct {
	CollectionID string
	Title        string
	Year         string
	// FileName is the name the record is published under
	FileName    string
	Records     models.RecordsMap
	MetadataDir string
}

// BuildRecord creates the record of one title/year. It returns
// ErrNoAnnotations when none of the source records has a full text
// resource, and ErrTemplateShape when the skeleton is unusable.
func (b *Builder) BuildRecord(ctx context.Context, req RecordRequest) (*Document, error) {
	labeled := b.resolver.Resolve(ctx, req.Records)
	if labeled.Len() == 0 {
		slog.Warn("Skipping creation of record: no full text resources to refer to", "title", req.Title, "year", req.Year)
		return nil, ErrNoAnnotations
	}

	doc, err := b.templates.Record()
	if err != nil {
		return nil, err
	}
	s, err := b.skeleton(doc)
	if err != nil {
		slog.Error("Cannot use record template", "err", err)
		return nil, err
	}

	b.setHeaders(doc, req.CollectionID, req.FileName)

	b.insertFixedProxies(s, req.CollectionID)
	for _, id := range labeled.IDs() {
		refs, _ := labeled.Get(id)
		for i, ref := range refs {
			s.insertProxy(annotationProxyID(id, i+1), "Resource", ref.Ref, "")
		}
	}

	records := edm.LoadRecords(req.Records, req.MetadataDir)

	s.insertTitleAndDescription(
		fmt.Sprintf("%s - %s", req.Title, req.Year),
		fmt.Sprintf("Full text content aggregated from Europeana. Title: \"%s\". Year: %s.", req.Title, req.Year),
	)
	s.insertKeywords(records)
	s.insertPublishers(records)
	s.insertLanguages(records, b.languages)
	s.insertTemporalCoverage(req.Year, req.Year, req.Year)
	s.insertCountries(records)
	s.insertLicences(records)
	s.insertDumpSubresources()
	s.insertAnnotationSubresources(records, labeled)
	s.insertRelatedResources(records)
	s.insertMetadataInfo(b.today())

	return doc, nil
}

// insertAnnotationSubresources describes every full text resource of every
// record, labelled with the record title
func (s *skeleton) insertAnnotationSubresources(records []*edm.Record, labeled *models.LabeledRefs) {
	for _, record := range records {
		single := []*edm.Record{record}
		titles := edm.UniqueValues(single, edm.TitleQuery)

		var issued []string
		for _, date := range edm.UniqueValues(single, edm.IssuedQuery) {
			if normalize.IsValidDate(date) {
				issued = append(issued, date)
			}
		}

		for _, identifier := range edm.UniqueValues(single, edm.IdentifierQuery) {
			id := normalize.NormalizeIdentifier(identifier).Value
			refs, ok := labeled.Get(id)
			if !ok {
				continue
			}
			for i, ref := range refs {
				description := s.insertSubresource(annotationProxyID(id, i+1))
				for _, title := range titles {
					s.addText(description, "label", fmt.Sprintf("%s - %s", title, ref.Label))
				}
				for _, date := range issued {
					s.addText(s.add(description, "TemporalCoverage"), "label", date)
				}
			}
		}
	}
}
