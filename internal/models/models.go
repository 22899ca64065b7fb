package models

// RecordEntry is one source record contributing to a title/year
type RecordEntry struct {
	Identifier   string   `json:"identifier" yaml:"identifier"`
	SourceFile   string   `json:"file,omitempty" yaml:"file,omitempty"`
	ManifestURLs []string `json:"manifest_urls,omitempty" yaml:"manifest_urls,omitempty"`
}

// RecordsMap lists the source records of a title/year in a stable order.
// The order decides the order of the generated resource proxies.
type RecordsMap []RecordEntry

// LabeledReference points at one full text / annotation resource
type LabeledReference struct {
	Ref   string `json:"ref"`
	Label string `json:"label"`
}

// YearFile maps a year to the file name of its generated record
type YearFile struct {
	Year     string `json:"year" yaml:"year"`
	FileName string `json:"file" yaml:"file"`
}

// LabeledRefs groups labeled references per normalized identifier, keeping
// the order in which identifiers were first added.
type LabeledRefs struct {
	ids  []string
	refs map[string][]LabeledReference
}

// NewLabeledRefs creates an empty LabeledRefs
func NewLabeledRefs() *LabeledRefs {
	return &LabeledRefs{
		refs: make(map[string][]LabeledReference),
	}
}

// Add appends refs to the list of id. Empty additions are ignored.
func (l *LabeledRefs) Add(id string, refs ...LabeledReference) {
	if len(refs) == 0 {
		return
	}
	if _, exists := l.refs[id]; !exists {
		l.ids = append(l.ids, id)
	}
	l.refs[id] = append(l.refs[id], refs...)
}

// Get returns the references of id
func (l *LabeledRefs) Get(id string) ([]LabeledReference, bool) {
	if l == nil {
		return nil, false
	}
	refs, ok := l.refs[id]
	return refs, ok
}

// IDs returns the identifiers in insertion order
func (l *LabeledRefs) IDs() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.ids...)
}

// Len returns the number of identifiers with at least one reference
func (l *LabeledRefs) Len() int {
	if l == nil {
		return 0
	}
	return len(l.ids)
}
