package index

import (
	"log/slog"
	"slices"
	"sort"

	"github.com/lehigh-university-libraries/edm2cmdi/internal/models"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/normalize"
)

type titleKey struct {
	collection string
	title      string
}

// Group arranges rows by collection and title. Titles keep the order in
// which they first appear, years are sorted and issues keep their order.
// Rows without identifier, title or a usable year are skipped. Repeated
// identifiers within a year are merged.
func Group(rows []Row) []*Title {
	var titles []*Title
	byKey := make(map[titleKey]*Title)
	yearIndex := make(map[titleKey]map[string]int)

	for i, row := range rows {
		if row.Identifier == "" || row.CollectionID == "" || row.Title == "" {
			slog.Warn("Skipping incomplete index row", "row", i, "identifier", row.Identifier)
			continue
		}

		year := row.Year
		if year == "" {
			y, ok := normalize.DateToYear(row.Issued)
			if !ok {
				slog.Warn("Skipping index row without year", "identifier", row.Identifier, "issued", row.Issued)
				continue
			}
			year = y
		}

		key := titleKey{collection: row.CollectionID, title: row.Title}
		title, ok := byKey[key]
		if !ok {
			title = &Title{CollectionID: row.CollectionID, Title: row.Title}
			byKey[key] = title
			yearIndex[key] = make(map[string]int)
			titles = append(titles, title)
		}

		idx, ok := yearIndex[key][year]
		if !ok {
			idx = len(title.Years)
			yearIndex[key][year] = idx
			title.Years = append(title.Years, Year{Year: year})
		}
		title.Years[idx].Records = addEntry(title.Years[idx].Records, row)
	}

	for _, title := range titles {
		sort.SliceStable(title.Years, func(i, j int) bool {
			return title.Years[i].Year < title.Years[j].Year
		})
	}
	return titles
}

func addEntry(records models.RecordsMap, row Row) models.RecordsMap {
	for i := range records {
		if records[i].Identifier != row.Identifier {
			continue
		}
		if records[i].SourceFile == "" {
			records[i].SourceFile = row.File
		}
		for _, u := range row.ManifestURLs {
			if !slices.Contains(records[i].ManifestURLs, u) {
				records[i].ManifestURLs = append(records[i].ManifestURLs, u)
			}
		}
		return records
	}

	return append(records, models.RecordEntry{
		Identifier:   row.Identifier,
		SourceFile:   row.File,
		ManifestURLs: append([]string(nil), row.ManifestURLs...),
	})
}
