package index

import (
	"github.com/lehigh-university-libraries/edm2cmdi/internal/models"
)

// Row is one harvested issue: an EDM record plus the IIIF manifests of its
// full text
type Row struct {
	CollectionID string   `json:"collection_id" parquet:"collection_id"`
	Title        string   `json:"title" parquet:"title"`
	Year         string   `json:"year,omitempty" parquet:"year"`
	Issued       string   `json:"issued,omitempty" parquet:"issued"`
	Identifier   string   `json:"identifier" parquet:"identifier"`
	File         string   `json:"file,omitempty" parquet:"file"`
	ManifestURLs []string `json:"manifest_urls,omitempty" parquet:"manifest_urls,list"`
}

// Title groups the issues of one title in one collection
type Title struct {
	CollectionID string
	Title        string
	Years        []Year
}

// Year holds the issues of a title published in one year
type Year struct {
	Year    string
	Records models.RecordsMap
}

// Records returns the issues of every year, in year order
func (t *Title) Records() models.RecordsMap {
	var all models.RecordsMap
	for _, y := range t.Years {
		all = append(all, y.Records...)
	}
	return all
}
