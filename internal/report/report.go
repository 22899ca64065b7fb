// Package report writes the summary of a generation run as YAML.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Status of one output
const (
	StatusWritten = "written"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// RunConfig is the configuration section of the report
type RunConfig struct {
	IndexPath   string `yaml:"indexpath"`
	MetadataDir string `yaml:"metadatadir"`
	OutputDir   string `yaml:"outputdir"`
	Concurrency int    `yaml:"concurrency"`
	Timestamp   string `yaml:"timestamp"`
}

// Entry reports the outcome of one CMDI record
type Entry struct {
	CollectionID string `yaml:"collectionid"`
	Title        string `yaml:"title"`
	// Year is empty for collection records
	Year   string `yaml:"year,omitempty"`
	File   string `yaml:"file,omitempty"`
	Status string `yaml:"status"`
	Reason string `yaml:"reason,omitempty"`
}

// Summary counts entries by status
type Summary struct {
	Written int `yaml:"written"`
	Skipped int `yaml:"skipped"`
	Failed  int `yaml:"failed"`
}

// Report collects entries from concurrent builds
type Report struct {
	Config  RunConfig `yaml:"config"`
	Summary Summary   `yaml:"summary"`
	Entries []Entry   `yaml:"entries"`

	mu sync.Mutex
}

// New creates an empty report
func New(cfg RunConfig) *Report {
	return &Report{Config: cfg}
}

// Add records an entry
func (r *Report) Add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Entries = append(r.Entries, e)
	switch e.Status {
	case StatusWritten:
		r.Summary.Written++
	case StatusSkipped:
		r.Summary.Skipped++
	case StatusFailed:
		r.Summary.Failed++
	}
}

// Snapshot returns a copy of the entries sorted by collection, title and
// year, with collection records after their years
func (r *Report) Snapshot() []Entry {
	r.mu.Lock()
	entries := append([]Entry(nil), r.Entries...)
	r.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.CollectionID != b.CollectionID {
			return a.CollectionID < b.CollectionID
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		if (a.Year == "") != (b.Year == "") {
			return a.Year != ""
		}
		return a.Year < b.Year
	})
	return entries
}

// Marshal renders the report as YAML
func (r *Report) Marshal() ([]byte, error) {
	r.mu.Lock()
	out := struct {
		Config  RunConfig `yaml:"config"`
		Summary Summary   `yaml:"summary"`
		Entries []Entry   `yaml:"entries"`
	}{Config: r.Config, Summary: r.Summary}
	r.mu.Unlock()
	out.Entries = r.Snapshot()

	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return data, nil
}

// SaveToYAML writes the report to path, creating its directory
func (r *Report) SaveToYAML(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}
