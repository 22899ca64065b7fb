package cmdi

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/antchfx/xmlquery"
)

// Template file names
const (
	RecordTemplateFile     = "fulltextresource-template.xml"
	CollectionTemplateFile = "collectionrecord-template.xml"
)

// Profile identifiers of the two record kinds
const (
	RecordProfileID     = "clarin.eu:cr1:p_1633000337997"
	CollectionProfileID = "clarin.eu:cr1:p_1659015263839"
)

const profileNSBase = "http://www.clarin.eu/cmd/1/profiles/"

//go:embed templates/*.xml
var embeddedTemplates embed.FS

type profile struct {
	uri            string
	componentsRoot string
}

var (
	recordProfile = profile{
		uri:            profileNSBase + RecordProfileID,
		componentsRoot: "TextResource",
	}
	collectionProfile = profile{
		uri:            profileNSBase + CollectionProfileID,
		componentsRoot: "MetadataCollection",
	}
)

// TemplateSource holds the two record skeletons. The skeletons are kept as
// bytes and never modified; every clone is parsed into a fresh tree, so a
// TemplateSource can be shared by concurrent builds.
type TemplateSource struct {
	record     []byte
	collection []byte
	pretty     bool
}

// LoadTemplates loads the skeletons bundled with the binary
func LoadTemplates(pretty bool) (*TemplateSource, error) {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open bundled templates: %w", err)
	}
	return LoadTemplatesFS(sub, pretty)
}

// LoadTemplatesFS loads the skeletons from fsys. Both must exist and parse.
func LoadTemplatesFS(fsys fs.FS, pretty bool) (*TemplateSource, error) {
	record, err := readTemplate(fsys, RecordTemplateFile)
	if err != nil {
		return nil, err
	}
	collection, err := readTemplate(fsys, CollectionTemplateFile)
	if err != nil {
		return nil, err
	}

	return &TemplateSource{
		record:     record,
		collection: collection,
		pretty:     pretty,
	}, nil
}

func readTemplate(fsys fs.FS, name string) ([]byte, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}
	if _, err := xmlquery.Parse(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return data, nil
}

// Record returns a new, independent title/year record skeleton
func (s *TemplateSource) Record() (*Document, error) {
	return s.clone(s.record, recordProfile)
}

// Collection returns a new, independent collection record skeleton
func (s *TemplateSource) Collection() (*Document, error) {
	return s.clone(s.collection, collectionProfile)
}

func (s *TemplateSource) clone(data []byte, p profile) (*Document, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	stripBlankText(doc)
	return &Document{doc: doc, profile: p, pretty: s.pretty}, nil
}

// stripBlankText drops the indentation of the skeleton so inserted elements
// and template elements serialize alike
func stripBlankText(n *xmlquery.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == xmlquery.TextNode && strings.TrimSpace(c.Data) == "":
			xmlquery.RemoveFromTree(c)
		case c.Type == xmlquery.ElementNode:
			stripBlankText(c)
		}
		c = next
	}
}
