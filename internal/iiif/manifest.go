package iiif

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/lehigh-university-libraries/edm2cmdi/internal/models"
)

// manifest covers the parts of IIIF Presentation 2 and 3 manifests that
// point at annotation pages.
type manifest struct {
	// Presentation 2
	Sequences []struct {
		Canvases []canvas `json:"canvases"`
	} `json:"sequences"`
	// Presentation 3
	Items []canvas `json:"items"`
}

type canvas struct {
	Label        label       `json:"label"`
	OtherContent []reference `json:"otherContent"`
	Annotations  []reference `json:"annotations"`
}

func (m *manifest) canvases() []canvas {
	var canvases []canvas
	for _, seq := range m.Sequences {
		canvases = append(canvases, seq.Canvases...)
	}
	return append(canvases, m.Items...)
}

func (m *manifest) labeledRefs() []models.LabeledReference {
	var refs []models.LabeledReference

	for i, c := range m.canvases() {
		name := string(c.Label)
		if name == "" {
			name = fmt.Sprintf("page %d", i+1)
		}
		for _, ref := range append(c.OtherContent, c.Annotations...) {
			if ref == "" {
				continue
			}
			refs = append(refs, models.LabeledReference{Ref: string(ref), Label: name})
		}
	}
	return refs
}

// reference is either a bare URI or an object carrying "@id" (v2) or "id" (v3)
type reference string

func (r *reference) UnmarshalJSON(data []byte) error {
	var uri string
	if err := json.Unmarshal(data, &uri); err == nil {
		*r = reference(uri)
		return nil
	}

	var obj struct {
		LegacyID string `json:"@id"`
		ID       string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unsupported annotation reference: %w", err)
	}
	if obj.ID != "" {
		*r = reference(obj.ID)
	} else {
		*r = reference(obj.LegacyID)
	}
	return nil
}

// label flattens the label shapes used by IIIF: a plain string, a
// {"@value": ...} object, a list of either, or a v3 language map.
type label string

func (l *label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = label(s)
		return nil
	}

	var value struct {
		Value string `json:"@value"`
	}
	if err := json.Unmarshal(data, &value); err == nil && value.Value != "" {
		*l = label(value.Value)
		return nil
	}

	var list []label
	if err := json.Unmarshal(data, &list); err == nil {
		for _, item := range list {
			if item != "" {
				*l = item
				return nil
			}
		}
		return nil
	}

	var langMap map[string][]string
	if err := json.Unmarshal(data, &langMap); err == nil {
		*l = label(pickLanguage(langMap))
		return nil
	}

	// unknown label shapes are not worth failing the manifest for
	return nil
}

// pickLanguage prefers language neutral values, then English, then the
// first language in alphabetical order.
func pickLanguage(langMap map[string][]string) string {
	for _, lang := range []string{"none", "en"} {
		if values := langMap[lang]; len(values) > 0 {
			return values[0]
		}
	}

	langs := make([]string, 0, len(langMap))
	for lang := range langMap {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if values := langMap[lang]; len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
