package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/genomekit/genepred/internal/duckdb"
)

func newExportCmd() *cobra.Command {
	flags := convertFlags{}
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export <input-file> <database-file>",
		Short: "Export annotations into a DuckDB database",
		Long: `Export parses an annotation file and appends its features to the
features table of a DuckDB database, creating the database and table as
needed.`,
		Example: `  genepred export genes.gtf genes.duckdb
  genepred export --overwrite exons.bed.gz exons.duckdb`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], args[1], overwrite, flags)
		},
	}

	cmd.Flags().StringVar(&flags.from, "from", "", "input format: bed, gtf, gff (default: by extension)")
	cmd.Flags().StringVar(&flags.groupAttr, "group-attribute", "", "attribute that groups GTF/GFF rows into transcripts")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail on rows missing the grouping attribute")
	cmd.Flags().IntVar(&flags.bedExtra, "bed-extra-fields", 0, "expected extra column count for BED input")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing database file")

	return cmd
}

func runExport(inputPath, dbPath string, overwrite bool, flags convertFlags) error {
	from := flags.from
	if from == "" {
		from = detectFormat(inputPath)
	}
	if from == "" {
		return fmt.Errorf("cannot detect input format of %q, use --from", inputPath)
	}

	if ext := filepath.Ext(dbPath); ext != ".duckdb" && ext != ".db" {
		dbPath += ".duckdb"
	}
	if overwrite {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove existing database: %w", err)
		}
	}

	feats, err := readFeatures(inputPath, from, flags)
	if err != nil {
		return err
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InsertFeatures(feats); err != nil {
		return err
	}

	total, err := store.CountFeatures()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Exported %d features to %s (%d total)\n", len(feats), dbPath, total)
	return nil
}
