package edm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/models"
)

const sampleRecord = `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:ore="http://www.openarchives.org/ore/terms/"
         xmlns:edm="http://www.europeana.eu/schemas/edm/"
         xmlns:dc="http://purl.org/dc/elements/1.1/"
         xmlns:dcterms="http://purl.org/dc/terms/">
  <ore:Proxy rdf:about="/proxy/provider/9200396/BibliographicResource_3000118435146">
    <dc:identifier>http://data.theeuropeanlibrary.org/BibliographicResource/3000118435146</dc:identifier>
    <dc:title>Example Gazette</dc:title>
    <dc:type>newspaper</dc:type>
    <dc:type>Text</dc:type>
    <dc:language>en</dc:language>
    <dcterms:issued>1920-05-03</dcterms:issued>
  </ore:Proxy>
  <ore:Aggregation rdf:about="/aggregation/provider/9200396/BibliographicResource_3000118435146">
    <edm:dataProvider>National Library</edm:dataProvider>
    <edm:provider>The European Library</edm:provider>
    <edm:rights rdf:resource="http://creativecommons.org/publicdomain/mark/1.0/"/>
  </ore:Aggregation>
  <edm:EuropeanaAggregation rdf:about="/aggregation/europeana/9200396/BibliographicResource_3000118435146">
    <edm:country>Europe</edm:country>
    <edm:landingPage rdf:resource="https://www.europeana.eu/item/9200396/BibliographicResource_3000118435146"/>
  </edm:EuropeanaAggregation>
</rdf:RDF>`

// A second record using different prefixes for the same namespaces.
const prefixedRecord = `<?xml version="1.0" encoding="UTF-8"?>
<r:RDF xmlns:r="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
       xmlns:o="http://www.openarchives.org/ore/terms/"
       xmlns:e="http://www.europeana.eu/schemas/edm/"
       xmlns:d="http://purl.org/dc/elements/1.1/">
  <o:Proxy>
    <d:type>Text</d:type>
    <d:type>periodical</d:type>
  </o:Proxy>
  <o:Aggregation>
    <e:provider>The European Library</e:provider>
    <e:dataProvider>City Archive</e:dataProvider>
  </o:Aggregation>
</r:RDF>`

func mustParse(t *testing.T, doc string) *Record {
	t.Helper()
	record, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Failed to parse record: %v", err)
	}
	return record
}

func TestRecordValues(t *testing.T) {
	record := mustParse(t, sampleRecord)

	tests := []struct {
		name     string
		query    Query
		expected []string
	}{
		{"identifier", IdentifierQuery, []string{"http://data.theeuropeanlibrary.org/BibliographicResource/3000118435146"}},
		{"title", TitleQuery, []string{"Example Gazette"}},
		{"type", TypeQuery, []string{"newspaper", "Text"}},
		{"language", LanguageQuery, []string{"en"}},
		{"issued", IssuedQuery, []string{"1920-05-03"}},
		{"rights attribute", RightsQuery, []string{"http://creativecommons.org/publicdomain/mark/1.0/"}},
		{"country", CountryQuery, []string{"Europe"}},
		{"landing page attribute", LandingPageQuery, []string{"https://www.europeana.eu/item/9200396/BibliographicResource_3000118435146"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, record.Values(tt.query)); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestRecordValuesMatchesNamespaceNotPrefix(t *testing.T) {
	record := mustParse(t, prefixedRecord)

	if diff := cmp.Diff([]string{"Text", "periodical"}, record.Values(TypeQuery)); diff != "" {
		t.Errorf("type mismatch (-want +got):\n%s", diff)
	}
	if values := record.Values(TitleQuery); len(values) != 0 {
		t.Errorf("Expected no titles, got %v", values)
	}
}

func TestUniqueValues(t *testing.T) {
	records := []*Record{mustParse(t, sampleRecord), mustParse(t, prefixedRecord)}

	t.Run("stable dedup across records", func(t *testing.T) {
		got := UniqueValues(records, TypeQuery)
		want := []string{"newspaper", "Text", "periodical"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("queries are evaluated in order", func(t *testing.T) {
		got := UniqueValues(records, DataProviderQuery, ProviderQuery)
		want := []string{"National Library", "City Archive", "The European Library"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no records", func(t *testing.T) {
		if got := UniqueValues(nil, TypeQuery); len(got) != 0 {
			t.Errorf("Expected no values, got %v", got)
		}
	})

	t.Run("duplicate free for repeated records", func(t *testing.T) {
		repeated := []*Record{records[0], records[0], records[1], records[0]}
		got := UniqueValues(repeated, TypeQuery, DataProviderQuery, ProviderQuery)
		seen := make(map[string]bool)
		for _, v := range got {
			if seen[v] {
				t.Errorf("Duplicate value %q in %v", v, got)
			}
			seen[v] = true
		}
	})
}

func TestNewQueryInvalid(t *testing.T) {
	if _, err := NewQuery("/rdf:RDF/["); err == nil {
		t.Error("Expected error for invalid expression")
	}
}

func TestLoadRecords(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "good.xml"), []byte(sampleRecord), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "broken.xml"), []byte("<rdf:RDF><unclosed>"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	records := models.RecordsMap{
		{Identifier: "1", SourceFile: "good.xml"},
		{Identifier: "2"},
		{Identifier: "3", SourceFile: "broken.xml"},
		{Identifier: "4", SourceFile: "missing.xml"},
	}

	loaded := LoadRecords(records, tmpDir)
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(loaded))
	}
	if loaded[0].Path != filepath.Join(tmpDir, "good.xml") {
		t.Errorf("Unexpected path %s", loaded[0].Path)
	}
	if titles := loaded[0].Values(TitleQuery); len(titles) != 1 || titles[0] != "Example Gazette" {
		t.Errorf("Unexpected titles %v", titles)
	}
}
