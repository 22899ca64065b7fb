package cmdi

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a resolved language code
type Language struct {
	Name string
	// Code is the ISO 639-3 code
	Code string
}

// LanguageTable resolves ISO 639 codes found in EDM records
type LanguageTable interface {
	Lookup(code string) (Language, bool)
}

// bibliographicCodes maps the ISO 639-2/B codes, common in library
// records, to their ISO 639-3 (639-2/T) equivalents
var bibliographicCodes = map[string]string{
	"alb": "sqi", "arm": "hye", "baq": "eus", "bur": "mya", "chi": "zho",
	"cze": "ces", "dut": "nld", "fre": "fra", "geo": "kat", "ger": "deu",
	"gre": "ell", "ice": "isl", "mac": "mkd", "mao": "mri", "may": "msa",
	"per": "fas", "rum": "ron", "slo": "slk", "tib": "bod", "wel": "cym",
}

type textLanguageTable struct {
	names display.Namer
}

// NewLanguageTable returns a table backed by the CLDR data in x/text, with
// English language names.
func NewLanguageTable() LanguageTable {
	return textLanguageTable{names: display.English.Languages()}
}

// Lookup resolves two letter (ISO 639-1) and three letter (ISO 639-2/3) codes
func (t textLanguageTable) Lookup(code string) (Language, bool) {
	if len(code) != 2 && len(code) != 3 {
		return Language{}, false
	}
	code = strings.ToLower(code)
	if t, ok := bibliographicCodes[code]; ok {
		code = t
	}

	base, err := language.ParseBase(code)
	if err != nil {
		return Language{}, false
	}

	name := t.names.Name(base)
	if name == "" {
		return Language{}, false
	}
	iso3 := base.ISO3()
	if len(code) == 3 && iso3 != code {
		// deprecated or alias code; keep the name, drop the code
		iso3 = ""
	}
	return Language{Name: name, Code: iso3}, true
}
