// Package cmdi builds CMDI records for aggregated Europeana full text: one
// record per title and year, and one collection record per title.
package cmdi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/config"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/models"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/normalize"
)

// Generator is written to the MdCreator header
const Generator = "edm2cmdi"

const (
	landingPageProxyID = "landing_page"
	edmDumpProxyID     = "archive_edm"
	altoDumpProxyID    = "archive_alto"
	dumpMediaType      = "application/zip"
)

var (
	// ErrNoAnnotations means none of the records of a title/year has a
	// retrievable full text resource, so there is nothing to describe.
	ErrNoAnnotations = errors.New("no full text resources to refer to")
	// ErrTemplateShape means the template lacks a single resource proxy
	// list or a single components root.
	ErrTemplateShape = errors.New("unexpected template shape")
	// ErrNoYears means a collection record was requested without years.
	ErrNoYears = errors.New("no year records to aggregate")
)

// AnnotationResolver turns the manifest URLs of a records map into labeled
// references keyed by normalized identifier
type AnnotationResolver interface {
	Resolve(ctx context.Context, records models.RecordsMap) *models.LabeledRefs
}

// Builder creates CMDI records. A Builder holds no per-build state and can
// be used from several goroutines.
type Builder struct {
	cfg       config.Config
	templates *TemplateSource
	resolver  AnnotationResolver
	languages LanguageTable
	now       func() time.Time
}

// Option configures a Builder
type Option func(*Builder)

// WithLanguageTable replaces the default language table
func WithLanguageTable(table LanguageTable) Option {
	return func(b *Builder) {
		b.languages = table
	}
}

// WithClock sets the source of creation dates
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a builder
func NewBuilder(cfg config.Config, templates *TemplateSource, resolver AnnotationResolver, opts ...Option) *Builder {
	b := &Builder{
		cfg:       cfg,
		templates: templates,
		resolver:  resolver,
		languages: NewLanguageTable(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) today() string {
	return b.now().Format("2006-01-02")
}

// skeleton holds the two insertion points of a template
type skeleton struct {
	proxyList  *xmlquery.Node
	components *xmlquery.Node
	cmd        namespace
	ns         namespace
}

func (b *Builder) skeleton(doc *Document) (*skeleton, error) {
	proxyLists, err := doc.Query("/cmd:CMD/cmd:Resources/cmd:ResourceProxyList")
	if err != nil {
		return nil, err
	}
	if len(proxyLists) != 1 {
		return nil, fmt.Errorf("expecting exactly one resource proxy list, found %d: %w", len(proxyLists), ErrTemplateShape)
	}

	roots, err := doc.Query("/cmd:CMD/cmd:Components/cmdp:" + doc.profile.componentsRoot)
	if err != nil {
		return nil, err
	}
	if len(roots) != 1 {
		return nil, fmt.Errorf("expecting exactly one %s components root, found %d: %w", doc.profile.componentsRoot, len(roots), ErrTemplateShape)
	}

	// new elements reuse the prefixes declared by the template
	return &skeleton{
		proxyList:  proxyLists[0],
		components: roots[0],
		cmd:        namespace{prefix: proxyLists[0].Prefix, uri: CMDNS},
		ns:         namespace{prefix: roots[0].Prefix, uri: doc.profile.uri},
	}, nil
}

// setHeaders fills the header placeholders present in the template
func (b *Builder) setHeaders(doc *Document, collectionID, fileName string) {
	headers := []struct {
		name  string
		value string
	}{
		{"MdCreator", Generator},
		{"MdCreationDate", b.today()},
		{"MdSelfLink", b.recordURL(collectionID, fileName)},
		{"MdCollectionDisplayName", b.cfg.CollectionDisplayName},
	}

	for _, h := range headers {
		nodes, err := doc.Query("/cmd:CMD/cmd:Header/cmd:" + h.name)
		if err != nil || len(nodes) == 0 {
			slog.Debug("Template has no header placeholder", "header", h.name)
			continue
		}
		setText(nodes[0], h.value)
	}
}

func (b *Builder) recordURL(collectionID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s", b.cfg.RecordsBaseURL, collectionID, fileName)
}

func (b *Builder) edmDumpURL(collectionID string) string {
	return fmt.Sprintf("%s/edm_issue/%s.zip", b.cfg.DumpBaseURL, collectionID)
}

func (b *Builder) altoDumpURL(collectionID string) string {
	return fmt.Sprintf("%s/alto/%s.zip", b.cfg.DumpBaseURL, collectionID)
}

// insertFixedProxies adds the landing page and the two archive dumps
func (b *Builder) insertFixedProxies(s *skeleton, collectionID string) {
	s.insertProxy(landingPageProxyID, "LandingPage", b.cfg.LandingPageURL, "")
	s.insertProxy(edmDumpProxyID, "Resource", b.edmDumpURL(collectionID), dumpMediaType)
	s.insertProxy(altoDumpProxyID, "Resource", b.altoDumpURL(collectionID), dumpMediaType)
}

func (s *skeleton) insertProxy(id, resourceType, ref, mediaType string) {
	proxy := addElement(s.proxyList, s.cmd, "ResourceProxy")
	xmlquery.AddAttr(proxy, "id", id)

	typeNode := addTextElement(proxy, s.cmd, "ResourceType", resourceType)
	if mediaType != "" {
		xmlquery.AddAttr(typeNode, "mimetype", mediaType)
	}
	addTextElement(proxy, s.cmd, "ResourceRef", ref)
}

func annotationProxyID(id string, index int) string {
	return normalize.XMLID(fmt.Sprintf("%s_anno%d", id, index))
}
