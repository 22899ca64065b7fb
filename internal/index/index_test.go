package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/models"
	"github.com/parquet-go/parquet-go"
)

var sampleRows = []Row{
	{CollectionID: "9200396", Title: "Example Gazette", Year: "1921", Identifier: "http://data.theeuropeanlibrary.org/BibliographicResource/3000000000003", File: "3.xml", ManifestURLs: []string{"https://iiif/3/manifest"}},
	{CollectionID: "9200396", Title: "Example Gazette", Issued: "1920-05-03", Identifier: "http://data.theeuropeanlibrary.org/BibliographicResource/3000000000001", File: "1.xml", ManifestURLs: []string{"https://iiif/1/manifest"}},
	{CollectionID: "9200300", Title: "Daily Courier", Year: "1899", Identifier: "http://data.theeuropeanlibrary.org/BibliographicResource/3000000000009", File: "9.xml"},
	{CollectionID: "9200396", Title: "Example Gazette", Issued: "1920-05-04", Identifier: "http://data.theeuropeanlibrary.org/BibliographicResource/3000000000002", File: "2.xml", ManifestURLs: []string{"https://iiif/2/manifest"}},
}

const sampleJSONL = `{"collection_id":"9200396","title":"Example Gazette","year":"1921","identifier":"http://data.theeuropeanlibrary.org/BibliographicResource/3000000000003","file":"3.xml","manifest_urls":["https://iiif/3/manifest"]}
{"collection_id":"9200396","title":"Example Gazette","issued":"1920-05-03","identifier":"http://data.theeuropeanlibrary.org/BibliographicResource/3000000000001","file":"1.xml","manifest_urls":["https://iiif/1/manifest"]}

{"collection_id":"9200300","title":"Daily Courier","year":"1899","identifier":"http://data.theeuropeanlibrary.org/BibliographicResource/3000000000009","file":"9.xml"}
{"collection_id":"9200396","title":"Example Gazette","issued":"1920-05-04","identifier":"http://data.theeuropeanlibrary.org/BibliographicResource/3000000000002","file":"2.xml","manifest_urls":["https://iiif/2/manifest"]}
`

func TestLoadJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.jsonl")
	if err := os.WriteFile(path, []byte(sampleJSONL), 0644); err != nil {
		t.Fatal(err)
	}

	rows, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(sampleRows, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.parquet")
	if err := parquet.WriteFile(path, sampleRows); err != nil {
		t.Fatalf("Failed to write parquet fixture: %v", err)
	}

	rows, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(sampleRows, rows, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "broken.jsonl")
	if err := os.WriteFile(invalid, []byte("{\"identifier\": \n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"unsupported format", filepath.Join(dir, "index.csv")},
		{"missing file", filepath.Join(dir, "missing.jsonl")},
		{"invalid JSON", invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLoader(tt.path).Load(); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestGroup(t *testing.T) {
	rows := append([]Row{
		{CollectionID: "9200396", Title: "Example Gazette", Identifier: "no-date", Issued: "May 1920"},
		{CollectionID: "9200396", Identifier: "untitled", Year: "1920"},
	}, sampleRows...)
	// a second row for an issue already listed adds its manifests
	rows = append(rows, Row{CollectionID: "9200396", Title: "Example Gazette", Year: "1920", Identifier: "http://data.theeuropeanlibrary.org/BibliographicResource/3000000000001", ManifestURLs: []string{"https://iiif/1/manifest", "https://iiif/1b/manifest"}})

	titles := Group(rows)
	if len(titles) != 2 {
		t.Fatalf("Expected 2 titles, got %d", len(titles))
	}

	gazette := titles[0]
	if gazette.Title != "Example Gazette" || gazette.CollectionID != "9200396" {
		t.Errorf("Expected Example Gazette first, got %s/%s", gazette.CollectionID, gazette.Title)
	}

	want := []Year{
		{Year: "1920", Records: models.RecordsMap{
			{Identifier: "http://data.theeuropeanlibrary.org/BibliographicResource/3000000000001", SourceFile: "1.xml", ManifestURLs: []string{"https://iiif/1/manifest", "https://iiif/1b/manifest"}},
			{Identifier: "http://data.theeuropeanlibrary.org/BibliographicResource/3000000000002", SourceFile: "2.xml", ManifestURLs: []string{"https://iiif/2/manifest"}},
		}},
		{Year: "1921", Records: models.RecordsMap{
			{Identifier: "http://data.theeuropeanlibrary.org/BibliographicResource/3000000000003", SourceFile: "3.xml", ManifestURLs: []string{"https://iiif/3/manifest"}},
		}},
	}
	if diff := cmp.Diff(want, gazette.Years); diff != "" {
		t.Errorf("years mismatch (-want +got):\n%s", diff)
	}

	if got := len(gazette.Records()); got != 3 {
		t.Errorf("Expected 3 records over all years, got %d", got)
	}

	courier := titles[1]
	if courier.Title != "Daily Courier" || len(courier.Years) != 1 || courier.Years[0].Year != "1899" {
		t.Errorf("Unexpected second title: %+v", courier)
	}
}
