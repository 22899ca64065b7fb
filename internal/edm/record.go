// Package edm reads Europeana Data Model (RDF/XML) records and extracts
// field values from them with namespace aware XPath queries.
package edm

import (
	"fmt"
	"io"
	"os"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Namespaces used in EDM records
var Namespaces = map[string]string{
	"rdf":     "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"ore":     "http://www.openarchives.org/ore/terms/",
	"edm":     "http://www.europeana.eu/schemas/edm/",
	"dc":      "http://purl.org/dc/elements/1.1/",
	"dcterms": "http://purl.org/dc/terms/",
}

// Field queries
var (
	IdentifierQuery   = MustQuery("/rdf:RDF/ore:Proxy/dc:identifier")
	TitleQuery        = MustQuery("/rdf:RDF/ore:Proxy/dc:title")
	TypeQuery         = MustQuery("/rdf:RDF/ore:Proxy/dc:type")
	LanguageQuery     = MustQuery("/rdf:RDF/ore:Proxy/dc:language")
	IssuedQuery       = MustQuery("/rdf:RDF/ore:Proxy/dcterms:issued")
	DataProviderQuery = MustQuery("/rdf:RDF/ore:Aggregation/edm:dataProvider")
	ProviderQuery     = MustQuery("/rdf:RDF/ore:Aggregation/edm:provider")
	RightsQuery       = MustQuery("/rdf:RDF/ore:Aggregation/edm:rights/@rdf:resource")
	CountryQuery      = MustQuery("/rdf:RDF/edm:EuropeanaAggregation/edm:country")
	LandingPageQuery  = MustQuery("/rdf:RDF/edm:EuropeanaAggregation/edm:landingPage/@rdf:resource")
)

// Query is a compiled XPath expression bound to the EDM namespaces.
// A compiled query is safe for concurrent use.
type Query struct {
	source string
	expr   *xpath.Expr
}

// NewQuery compiles expr against the EDM namespaces
func NewQuery(expr string) (Query, error) {
	compiled, err := xpath.CompileWithNS(expr, Namespaces)
	if err != nil {
		return Query{}, fmt.Errorf("invalid query %q: %w", expr, err)
	}
	return Query{source: expr, expr: compiled}, nil
}

// MustQuery is like NewQuery but panics on invalid expressions
func MustQuery(expr string) Query {
	q, err := NewQuery(expr)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Query) String() string {
	return q.source
}

// Record is one parsed EDM document
type Record struct {
	Path string
	doc  *xmlquery.Node
}

// Parse reads an EDM document from r
func Parse(r io.Reader) (*Record, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML document: %w", err)
	}
	return &Record{doc: doc}, nil
}

// ParseFile reads the EDM document at path
func ParseFile(path string) (*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	record, err := Parse(file)
	if err != nil {
		return nil, err
	}
	record.Path = path
	return record, nil
}

// Values evaluates q and returns the text of every selected node, in
// document order. Nodes without text are skipped.
func (r *Record) Values(q Query) []string {
	if r == nil || r.doc == nil {
		return nil
	}

	var values []string
	for _, node := range xmlquery.QuerySelectorAll(r.doc, q.expr) {
		if text := node.InnerText(); text != "" {
			values = append(values, text)
		}
	}
	return values
}

// UniqueValues evaluates each query over each record (all records for the
// first query, then all records for the next) and returns the values with
// duplicates removed, keeping the first occurrence.
func UniqueValues(records []*Record, queries ...Query) []string {
	seen := make(map[string]struct{})
	var unique []string

	for _, q := range queries {
		for _, record := range records {
			for _, value := range record.Values(q) {
				if _, dup := seen[value]; dup {
					continue
				}
				seen[value] = struct{}{}
				unique = append(unique, value)
			}
		}
	}
	return unique
}
