// Package aggregation runs the record builders over a harvest index and
// writes the resulting CMDI files.
package aggregation

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/edm2cmdi/internal/cmdi"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/index"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/models"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/normalize"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/report"
	"golang.org/x/sync/errgroup"
)

// RecordBuilder builds the two kinds of CMDI records
type RecordBuilder interface {
	BuildRecord(ctx context.Context, req cmdi.RecordRequest) (*cmdi.Document, error)
	BuildCollection(req cmdi.CollectionRequest) (*cmdi.Document, error)
}

// Options configures a pipeline
type Options struct {
	MetadataDir string
	OutputDir   string
	// Concurrency is the number of titles built at the same time
	Concurrency int
}

// Pipeline builds the year records of every title, then the collection
// record over the years that produced a record
type Pipeline struct {
	builder RecordBuilder
	opts    Options
	report  *report.Report
}

// New creates a pipeline. Outcomes are added to rep.
func New(builder RecordBuilder, opts Options, rep *report.Report) *Pipeline {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Pipeline{
		builder: builder,
		opts:    opts,
		report:  rep,
	}
}

// RecordFileName is the file name of the record of title in year
func RecordFileName(title, year string) string {
	return recordFile(normalize.FilenameSafe(title), year)
}

// CollectionFileName is the file name of the collection record of title
func CollectionFileName(title string) string {
	return collectionFile(normalize.FilenameSafe(title))
}

func recordFile(stem, year string) string {
	return fmt.Sprintf("%s_%s.xml", stem, year)
}

func collectionFile(stem string) string {
	return stem + ".xml"
}

// FileStems returns the stem every title's file names are built from.
// Titles of one collection whose names would land on the same file get a
// short hash of the raw title appended.
func FileStems(titles []*index.Title) map[*index.Title]string {
	owners := make(map[string]map[string]bool)
	names := func(t *index.Title, stem string) []string {
		out := []string{collectionFile(stem)}
		for _, y := range t.Years {
			out = append(out, recordFile(stem, y.Year))
		}
		return out
	}

	for _, t := range titles {
		for _, name := range names(t, normalize.FilenameSafe(t.Title)) {
			key := t.CollectionID + "/" + name
			if owners[key] == nil {
				owners[key] = make(map[string]bool)
			}
			owners[key][t.Title] = true
		}
	}

	stems := make(map[*index.Title]string, len(titles))
	for _, t := range titles {
		stem := normalize.FilenameSafe(t.Title)
		for _, name := range names(t, stem) {
			if len(owners[t.CollectionID+"/"+name]) > 1 {
				slog.Warn("Title file names clash, adding a suffix", "collection", t.CollectionID, "title", t.Title, "file", name)
				stem = fmt.Sprintf("%s_%s", stem, titleHash(t.Title))
				break
			}
		}
		stems[t] = stem
	}
	return stems
}

func titleHash(title string) string {
	h := fnv.New32a()
	h.Write([]byte(title))
	return fmt.Sprintf("%08x", h.Sum32())
}

// Run processes all titles. It stops early only when ctx is cancelled;
// failed and skipped records are reported and the run goes on.
func (p *Pipeline) Run(ctx context.Context, titles []*index.Title) error {
	slog.Info("Processing titles", "titles", len(titles), "concurrency", p.opts.Concurrency)

	stems := FileStems(titles)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i, title := range titles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			slog.Info("Processing title", "collection", title.CollectionID, "title", title.Title, "progress", fmt.Sprintf("%d/%d", i+1, len(titles)))
			return p.processTitle(gctx, title, stems[title])
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (p *Pipeline) processTitle(ctx context.Context, title *index.Title, stem string) error {
	dir := filepath.Join(p.opts.OutputDir, normalize.IDToFilename(title.CollectionID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		p.add(title, "", "", report.StatusFailed, err)
		return nil
	}

	var years []models.YearFile
	for _, y := range title.Years {
		if err := ctx.Err(); err != nil {
			return err
		}

		fileName := recordFile(stem, y.Year)
		doc, err := p.builder.BuildRecord(ctx, cmdi.RecordRequest{
			CollectionID: title.CollectionID,
			Title:        title.Title,
			Year:         y.Year,
			FileName:     fileName,
			Records:      y.Records,
			MetadataDir:  p.opts.MetadataDir,
		})
		if err != nil {
			p.add(title, y.Year, fileName, statusOf(err), err)
			continue
		}

		if err := doc.WriteFile(filepath.Join(dir, fileName)); err != nil {
			p.add(title, y.Year, fileName, report.StatusFailed, err)
			continue
		}
		p.add(title, y.Year, fileName, report.StatusWritten, nil)
		years = append(years, models.YearFile{Year: y.Year, FileName: fileName})
	}

	fileName := collectionFile(stem)
	doc, err := p.builder.BuildCollection(cmdi.CollectionRequest{
		CollectionID: title.CollectionID,
		Title:        title.Title,
		FileName:     fileName,
		Years:        years,
		Records:      title.Records(),
		MetadataDir:  p.opts.MetadataDir,
	})
	if err != nil {
		p.add(title, "", fileName, statusOf(err), err)
		return nil
	}
	if err := doc.WriteFile(filepath.Join(dir, fileName)); err != nil {
		p.add(title, "", fileName, report.StatusFailed, err)
		return nil
	}
	p.add(title, "", fileName, report.StatusWritten, nil)
	return nil
}

// statusOf tells expected skips from failures
func statusOf(err error) string {
	if errors.Is(err, cmdi.ErrNoAnnotations) || errors.Is(err, cmdi.ErrNoYears) {
		return report.StatusSkipped
	}
	return report.StatusFailed
}

func (p *Pipeline) add(title *index.Title, year, fileName, status string, err error) {
	entry := report.Entry{
		CollectionID: title.CollectionID,
		Title:        title.Title,
		Year:         year,
		Status:       status,
	}
	if status == report.StatusWritten {
		entry.File = fileName
		slog.Debug("Wrote CMDI record", "collection", title.CollectionID, "file", fileName)
	}
	if err != nil {
		entry.Reason = err.Error()
		if status == report.StatusFailed {
			slog.Error("Failed to create CMDI record", "collection", title.CollectionID, "title", title.Title, "year", year, "err", err)
		}
	}
	p.report.Add(entry)
}
