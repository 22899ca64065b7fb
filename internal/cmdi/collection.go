package cmdi

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/edm2cmdi/internal/edm"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/models"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/normalize"
)

// CollectionRequest describes one title over all of its years
type CollectionRequest struct {
	CollectionID string
	Title        string
	FileName     string
	// Years lists the generated year records, in any order
	Years       []models.YearFile
	Records     models.RecordsMap
	MetadataDir string
}

// BuildCollection creates the record that groups the year records of a
// title. It refers only to already generated records and does not resolve
// full text resources.
func (b *Builder) BuildCollection(req CollectionRequest) (*Document, error) {
	if len(req.Years) == 0 {
		slog.Warn("Skipping creation of collection record: no year records", "title", req.Title)
		return nil, ErrNoYears
	}

	years := append([]models.YearFile(nil), req.Years...)
	sort.SliceStable(years, func(i, j int) bool {
		return years[i].Year < years[j].Year
	})

	doc, err := b.templates.Collection()
	if err != nil {
		return nil, err
	}
	s, err := b.skeleton(doc)
	if err != nil {
		slog.Error("Cannot use collection template", "err", err)
		return nil, err
	}

	b.setHeaders(doc, req.CollectionID, req.FileName)

	b.insertFixedProxies(s, req.CollectionID)
	for _, y := range years {
		s.insertProxy(normalize.XMLID(y.Year), "Metadata", b.recordURL(req.CollectionID, y.FileName), "")
	}

	records := edm.LoadRecords(req.Records, req.MetadataDir)

	labels := make([]string, len(years))
	for i, y := range years {
		labels[i] = y.Year
	}
	first, last := labels[0], labels[len(labels)-1]

	s.insertTitleAndDescription(
		req.Title,
		fmt.Sprintf("Full text content aggregated from Europeana. Title: \"%s\". Years: %s.", req.Title, strings.Join(labels, ", ")),
	)
	s.insertKeywords(records)
	s.insertPublishers(records)
	s.insertLanguages(records, b.languages)
	s.insertTemporalCoverage(fmt.Sprintf("%s - %s", first, last), first, last)
	s.insertCountries(records)
	s.insertLicences(records)
	s.insertDumpSubresources()
	for _, y := range years {
		description := s.insertSubresource(normalize.XMLID(y.Year))
		s.addText(description, "label", fmt.Sprintf("%s - %s", req.Title, y.Year))
		s.addText(s.add(description, "TemporalCoverage"), "label", y.Year)
	}
	s.insertMetadataInfo(b.today())

	return doc, nil
}
