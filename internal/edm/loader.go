package edm

import (
	"log/slog"
	"path/filepath"

	"github.com/lehigh-university-libraries/edm2cmdi/internal/models"
)

// LoadRecords parses the metadata file of every entry in records, relative
// to metadataDir. Entries without a file name and files that fail to parse
// are logged and left out; they never abort the batch.
func LoadRecords(records models.RecordsMap, metadataDir string) []*Record {
	loaded := make([]*Record, 0, len(records))

	for _, entry := range records {
		if entry.SourceFile == "" {
			slog.Error("No file name in records map", "identifier", entry.Identifier)
			continue
		}

		path := filepath.Join(metadataDir, entry.SourceFile)
		slog.Debug("Loading metadata file", "path", path)

		record, err := ParseFile(path)
		if err != nil {
			slog.Error("Error processing XML document", "identifier", entry.Identifier, "path", path, "err", err)
			continue
		}
		loaded = append(loaded, record)
	}

	return loaded
}
