// Package normalize holds the text and identifier transforms shared by the
// metadata loader, the annotation resolver and the record builders.
package normalize

import (
	"log/slog"
	"regexp"
	"strings"
)

var (
	// ex. http://data.theeuropeanlibrary.org/BibliographicResource/3000118435146
	// ex. http://data.europeana.eu/annotation/9200396/BibliographicResource_3000118435009
	identifierPattern = regexp.MustCompile(`http.*[^\d](\d+)$`)

	xmlIDStartPattern   = regexp.MustCompile(`^[A-Za-z_]`)
	xmlIDInvalidPattern = regexp.MustCompile(`[^A-Za-z0-9_]`)

	validDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	datePattern      = regexp.MustCompile(`(\d{4})-\d{2}-\d{2}`)

	filenameUnsafePattern = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// Identifier is the result of normalizing a source identifier.
type Identifier struct {
	// Value is the trailing digit run when Matched, otherwise the input.
	Value string
	// Matched reports whether the input had the expected URL shape.
	Matched bool
}

func (i Identifier) String() string {
	return i.Value
}

// NormalizeIdentifier extracts the trailing numeric suffix of an http(s)
// identifier. Identifiers that don't match are returned unchanged.
func NormalizeIdentifier(id string) Identifier {
	match := identifierPattern.FindStringSubmatch(id)
	if match == nil {
		slog.Warn("Identifier does not match pattern, skipping normalisation", "identifier", id)
		return Identifier{Value: id}
	}

	slog.Debug("Normalised identifier", "identifier", id, "normalised", match[1])
	return Identifier{Value: match[1], Matched: true}
}

// XMLID turns value into something usable as an xml:id / xs:ID.
//
// Only ASCII letters, digits and underscores survive; everything else,
// including non-Latin letters, becomes an underscore.
func XMLID(value string) string {
	id := value
	if !xmlIDStartPattern.MatchString(id) {
		id = "_" + id
	}
	return xmlIDInvalidPattern.ReplaceAllString(id, "_")
}

// IsValidDate reports whether s is exactly YYYY-MM-DD shaped.
func IsValidDate(s string) bool {
	return validDatePattern.MatchString(s)
}

// DateToYear returns the year of the first YYYY-MM-DD date found in s.
func DateToYear(s string) (string, bool) {
	match := datePattern.FindStringSubmatch(s)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// FilenameSafe replaces everything but ASCII letters and digits with underscores.
func FilenameSafe(name string) string {
	return filenameUnsafePattern.ReplaceAllString(name, "_")
}

// IDToFilename flattens path separators in an identifier.
func IDToFilename(id string) string {
	return strings.ReplaceAll(id, "/", "_")
}
