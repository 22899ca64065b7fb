package cmdi

import (
	"encoding/xml"
	"fmt"
	"log/slog"

	"github.com/antchfx/xmlquery"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/edm"
)

const (
	edmDumpLabel  = "Archive containing full text content in EDM format which includes this title"
	altoDumpLabel = "Archive containing full text content in ALTO format which includes this title"
)

func (s *skeleton) add(parent *xmlquery.Node, name string) *xmlquery.Node {
	return addElement(parent, s.ns, name)
}

func (s *skeleton) addText(parent *xmlquery.Node, name, text string) *xmlquery.Node {
	return addTextElement(parent, s.ns, name, text)
}

// setRef sets the envelope ref attribute linking a component to a proxy
func (s *skeleton) setRef(n *xmlquery.Node, proxyID string) {
	n.Attr = append(n.Attr, xmlquery.Attr{
		Name:         xml.Name{Space: s.cmd.prefix, Local: "ref"},
		Value:        proxyID,
		NamespaceURI: s.cmd.uri,
	})
}

func (s *skeleton) insertTitleAndDescription(title, description string) {
	s.addText(s.add(s.components, "TitleInfo"), "title", title)
	s.addText(s.add(s.components, "Description"), "description", description)
	s.addText(s.add(s.components, "ResourceType"), "label", "Text")
}

func (s *skeleton) insertKeywords(records []*edm.Record) {
	for _, keyword := range edm.UniqueValues(records, edm.TypeQuery) {
		s.addText(s.add(s.components, "Keyword"), "label", keyword)
	}
}

func (s *skeleton) insertPublishers(records []*edm.Record) {
	for _, publisher := range edm.UniqueValues(records, edm.DataProviderQuery, edm.ProviderQuery) {
		s.addText(s.add(s.components, "Publisher"), "name", publisher)
	}
}

func (s *skeleton) insertLanguages(records []*edm.Record, table LanguageTable) {
	for _, code := range edm.UniqueValues(records, edm.LanguageQuery) {
		node := s.add(s.components, "Language")
		lang, ok := table.Lookup(code)
		if !ok {
			slog.Warn("Unknown language code, using it as name", "code", code)
			s.addText(node, "name", code)
			continue
		}
		s.addText(node, "name", lang.Name)
		if lang.Code != "" {
			s.addText(node, "code", lang.Code)
		}
	}
}

func (s *skeleton) insertTemporalCoverage(label, start, end string) {
	coverage := s.add(s.components, "TemporalCoverage")
	s.addText(coverage, "label", label)
	s.addText(s.add(coverage, "Start"), "year", start)
	s.addText(s.add(coverage, "End"), "year", end)
}

func (s *skeleton) insertCountries(records []*edm.Record) {
	for _, country := range edm.UniqueValues(records, edm.CountryQuery) {
		location := s.add(s.components, "GeoLocation")
		s.addText(location, "label", country)
		s.addText(s.add(location, "Country"), "label", country)
	}
}

// insertLicences adds one AccessInfo holding a licence per rights URI
func (s *skeleton) insertLicences(records []*edm.Record) {
	rights := edm.UniqueValues(records, edm.RightsQuery)
	if len(rights) == 0 {
		return
	}
	access := s.add(s.components, "AccessInfo")
	for _, uri := range rights {
		licence := s.add(access, "Licence")
		s.addText(licence, "identifier", uri)
		s.addText(licence, "label", uri)
		s.addText(licence, "url", uri)
	}
}

func (s *skeleton) insertDumpSubresources() {
	for _, dump := range []struct {
		proxyID string
		label   string
	}{
		{edmDumpProxyID, edmDumpLabel},
		{altoDumpProxyID, altoDumpLabel},
	} {
		s.addText(s.insertSubresource(dump.proxyID), "label", dump.label)
	}
}

// insertSubresource adds a subresource for proxyID and returns its
// description node
func (s *skeleton) insertSubresource(proxyID string) *xmlquery.Node {
	subresource := s.add(s.components, "Subresource")
	s.setRef(subresource, proxyID)
	return s.add(subresource, "SubresourceDescription")
}

// insertRelatedResources links the Europeana landing page of every titled
// record
func (s *skeleton) insertRelatedResources(records []*edm.Record) {
	for _, record := range records {
		titles := record.Values(edm.TitleQuery)
		if len(titles) == 0 {
			continue
		}
		for _, landingPage := range record.Values(edm.LandingPageQuery) {
			related := s.add(s.components, "RelatedResource")
			for _, title := range titles {
				s.addText(related, "label", fmt.Sprintf("Landing page for '%s'", title))
			}
			s.addText(related, "location", landingPage)
		}
	}
}

// element is a fixed component subtree
type element struct {
	name     string
	text     string
	children []element
}

func (s *skeleton) insertTree(parent *xmlquery.Node, e element) {
	node := s.add(parent, e.name)
	if e.text != "" {
		setText(node, e.text)
	}
	for _, child := range e.children {
		s.insertTree(node, child)
	}
}

func leaf(name, text string) element {
	return element{name: name, text: text}
}

func branch(name string, children ...element) element {
	return element{name: name, children: children}
}

// insertMetadataInfo describes who produced the record and how
func (s *skeleton) insertMetadataInfo(today string) {
	s.insertTree(s.components, branch("MetadataInfo",
		branch("Publisher",
			leaf("name", "CLARIN ERIC"),
			branch("ContactInfo", leaf("url", "https://www.clarin.eu")),
		),
		branch("ProvenanceInfo",
			branch("Creation",
				branch("ActivityInfo",
					leaf("method", "Creation and aggregation by The European Library/Europeana"),
					leaf("note", "EDM metadata"),
					branch("When", leaf("label", "Unspecified")),
				),
				branch("ActivityInfo",
					leaf("method", "Conversion"),
					leaf("note", "Converted from EDM to CMDI"),
					branch("When", leaf("date", today)),
				),
			),
			branch("Collection",
				branch("ActivityInfo",
					leaf("method", "Aggregation"),
					leaf("note", "Metadata and full text retrieved from Europeana servers. See https://pro.europeana.eu/page/iiif#download"),
					branch("When", leaf("label", "2021"), leaf("year", "2021")),
				),
			),
		),
	))
}
