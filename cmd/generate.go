package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lehigh-university-libraries/edm2cmdi/internal/aggregation"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/cmdi"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/config"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/iiif"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/index"
	"github.com/lehigh-university-libraries/edm2cmdi/internal/report"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var indexPath string
	var metadataDir string
	var outputDir string
	var templatesDir string
	var reportPath string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate CMDI records from a harvest index",
		Long: `Reads the harvest index (JSONL or Parquet), resolves the IIIF full text
annotations of every issue and writes one CMDI record per title and year plus
one collection record per title.

Records are written to <output>/<collection id>/. Base URLs, the collection
display name and output formatting are read from the environment (.env is
loaded when present).`,
		Example: `  # Generate records from a JSONL index
  edm2cmdi generate --index harvest.jsonl --metadata-dir ./edm --output ./cmdi

  # Build four titles at a time and keep a run report
  edm2cmdi generate --index harvest.parquet --metadata-dir ./edm --output ./cmdi \
    --concurrency 4 --report reports/run.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(indexPath); err != nil {
				return fmt.Errorf("index file not found: %s", indexPath)
			}

			cfg := config.FromEnv()

			var templates *cmdi.TemplateSource
			var err error
			if templatesDir != "" {
				templates, err = cmdi.LoadTemplatesFS(os.DirFS(templatesDir), cfg.PrettyXML)
			} else {
				templates, err = cmdi.LoadTemplates(cfg.PrettyXML)
			}
			if err != nil {
				return fmt.Errorf("failed to load templates: %w", err)
			}

			slog.Info("Loading harvest index", "path", indexPath)
			rows, err := index.NewLoader(indexPath).Load()
			if err != nil {
				return fmt.Errorf("failed to load index: %w", err)
			}
			titles := index.Group(rows)
			slog.Info("Index loaded", "rows", len(rows), "titles", len(titles))

			resolver := iiif.NewResolver(iiif.NewClient(cfg.HTTPTimeout))
			builder := cmdi.NewBuilder(cfg, templates, resolver)

			rep := report.New(report.RunConfig{
				IndexPath:   indexPath,
				MetadataDir: metadataDir,
				OutputDir:   outputDir,
				Concurrency: concurrency,
				Timestamp:   time.Now().Format("2006-01-02_15-04-05"),
			})

			pipeline := aggregation.New(builder, aggregation.Options{
				MetadataDir: metadataDir,
				OutputDir:   outputDir,
				Concurrency: concurrency,
			}, rep)
			runErr := pipeline.Run(cmd.Context(), titles)

			slog.Info("Generation finished",
				"written", rep.Summary.Written,
				"skipped", rep.Summary.Skipped,
				"failed", rep.Summary.Failed)

			if reportPath != "" {
				if err := rep.SaveToYAML(reportPath); err != nil {
					return err
				}
				slog.Info("Run report saved", "path", reportPath)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&indexPath, "index", "harvest.jsonl", "Path to the harvest index (.jsonl or .parquet)")
	cmd.Flags().StringVar(&metadataDir, "metadata-dir", "edm", "Directory holding the EDM files named in the index")
	cmd.Flags().StringVar(&outputDir, "output", "cmdi", "Directory to write CMDI records to")
	cmd.Flags().StringVar(&templatesDir, "templates", "", "Directory with custom record templates (defaults to the bundled ones)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write a YAML run report to this path")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of titles to process concurrently")

	return cmd
}
