package cmdi

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/go-xmlfmt/xmlfmt"
)

// CMDNS is the namespace of the CMDI envelope
const CMDNS = "http://www.clarin.eu/cmd/1"

type namespace struct {
	prefix string
	uri    string
}

func (ns namespace) qualify(local string) string {
	if ns.prefix == "" {
		return local
	}
	return ns.prefix + ":" + local
}

// Document is a CMDI record being built. It is owned by a single build and
// never shared.
type Document struct {
	doc     *xmlquery.Node
	profile profile
	pretty  bool
}

// Namespaces returns the prefixes understood by Query: "cmd" for the
// envelope and "cmdp" for the profile components.
func (d *Document) Namespaces() map[string]string {
	return map[string]string{
		"cmd":  CMDNS,
		"cmdp": d.profile.uri,
	}
}

// Query evaluates an XPath expression against the document
func (d *Document) Query(expr string) ([]*xmlquery.Node, error) {
	compiled, err := xpath.CompileWithNS(expr, d.Namespaces())
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", expr, err)
	}
	return xmlquery.QuerySelectorAll(d.doc, compiled), nil
}

// Values returns the text of every node selected by expr
func (d *Document) Values(expr string) ([]string, error) {
	nodes, err := d.Query(expr)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(nodes))
	for _, n := range nodes {
		values = append(values, n.InnerText())
	}
	return values, nil
}

func (d *Document) root() *xmlquery.Node {
	for n := d.doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

// Bytes serializes the document, indented when the template source was
// loaded for pretty output.
func (d *Document) Bytes() []byte {
	body := ""
	if root := d.root(); root != nil {
		body = root.OutputXML(true)
	}
	if d.pretty {
		body = xmlfmt.FormatXML(body, "", "    ")
		body = strings.TrimSpace(strings.ReplaceAll(body, "\r\n", "\n"))
	}
	return []byte(xml.Header + body + "\n")
}

// WriteFile serializes the document to path
func (d *Document) WriteFile(path string) error {
	if err := os.WriteFile(path, d.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write CMDI record: %w", err)
	}
	return nil
}

func addElement(parent *xmlquery.Node, ns namespace, name string) *xmlquery.Node {
	el := &xmlquery.Node{
		Type:         xmlquery.ElementNode,
		Data:         name,
		Prefix:       ns.prefix,
		NamespaceURI: ns.uri,
	}
	xmlquery.AddChild(parent, el)
	return el
}

func addTextElement(parent *xmlquery.Node, ns namespace, name, text string) *xmlquery.Node {
	el := addElement(parent, ns, name)
	setText(el, text)
	return el
}

// setText replaces the content of n with text
func setText(n *xmlquery.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		xmlquery.RemoveFromTree(c)
		c = next
	}
	if text != "" {
		xmlquery.AddChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
	}
}
