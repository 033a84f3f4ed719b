package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/genomekit/genepred/internal/bed"
	"github.com/genomekit/genepred/internal/feature"
	"github.com/genomekit/genepred/internal/fileio"
	"github.com/genomekit/genepred/internal/gxf"
	"github.com/genomekit/genepred/internal/output"
)

type convertFlags struct {
	from        string
	to          string
	groupAttr   string
	strict      bool
	bedExtra    int
	namedExtras bool
	noExtras    bool
	only        []string
	workers     int
}

func newConvertCmd() *cobra.Command {
	flags := convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <input-file> <output-file>",
		Short: "Convert annotations between BED, GTF, and GFF",
		Example: `  genepred convert genes.gtf genes.bed
  genepred convert --to bed6 transcripts.gff3.gz transcripts.bed
  genepred convert --from bed --to gtf exons.txt exons.gtf.gz
  genepred convert --named-extras --only gene_id,exon_count in.gtf out.bed`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], args[1], flags)
		},
	}

	cmd.Flags().StringVar(&flags.from, "from", "", "input format: bed, gtf, gff (default: by extension)")
	cmd.Flags().StringVar(&flags.to, "to", "", "output format: bedN, gtf, gff (default: by extension)")
	cmd.Flags().StringVar(&flags.groupAttr, "group-attribute", "", "attribute that groups GTF/GFF rows into transcripts")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail on rows missing the grouping attribute")
	cmd.Flags().IntVar(&flags.bedExtra, "bed-extra-fields", 0, "expected extra column count for BED input")
	cmd.Flags().BoolVar(&flags.namedExtras, "named-extras", false, "emit non-numeric extras as key=value pairs")
	cmd.Flags().BoolVar(&flags.noExtras, "no-extras", false, "drop all extra fields from the output")
	cmd.Flags().StringSliceVar(&flags.only, "only", nil, "restrict emitted extras to the given keys")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "BED parse workers (default: all CPUs)")

	return cmd
}

func runConvert(inputPath, outputPath string, flags convertFlags) error {
	from := flags.from
	if from == "" {
		from = detectFormat(inputPath)
	}
	if from == "" {
		return fmt.Errorf("cannot detect input format of %q, use --from", inputPath)
	}

	to := flags.to
	if to == "" {
		to = detectFormat(outputPath)
		if to == "bed" {
			to = "bed12"
		}
	}
	if to == "" {
		to = viper.GetString("convert.format")
	}
	if to == "" {
		return fmt.Errorf("cannot detect output format of %q, use --to", outputPath)
	}
	target, err := output.ParseTarget(to)
	if err != nil {
		return err
	}

	feats, err := readFeatures(inputPath, from, flags)
	if err != nil {
		return err
	}
	logger.Info("parsed input",
		zap.String("path", inputPath),
		zap.String("format", from),
		zap.Int("features", len(feats)))

	opts := extrasOptions(flags)
	if err := output.ToPath(outputPath, feats, target, opts); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %d features to %s (%s)\n", len(feats), outputPath, target)
	return nil
}

func readFeatures(path, format string, flags convertFlags) ([]*feature.Feature, error) {
	switch format {
	case "gtf":
		return parseGXF(path, gxf.GTF, flags)
	case "gff", "gff3":
		return parseGXF(path, gxf.GFF, flags)
	}

	width := bed.Bed12
	if rest, ok := strings.CutPrefix(format, "bed"); ok && rest != "" {
		n, err := strconv.Atoi(rest)
		if err != nil || !bed.Width(n).Valid() {
			return nil, fmt.Errorf("unknown input format %q", format)
		}
		width = bed.Width(n)
	} else if format != "bed" {
		return nil, fmt.Errorf("unknown input format %q", format)
	}

	f, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	workers := flags.workers
	if workers <= 0 {
		workers = viper.GetInt("convert.workers")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return bed.ParseAll(f, width, flags.bedExtra, workers)
}

func parseGXF(path string, format gxf.Format, flags convertFlags) ([]*feature.Feature, error) {
	return gxf.ParseFile(path, format, gxf.Options{
		GroupAttribute: flags.groupAttr,
		Strict:         flags.strict,
		Logger:         logger,
	})
}

func extrasOptions(flags convertFlags) output.Options {
	opts := output.DefaultOptions()
	if flags.namedExtras || viper.GetBool("convert.named_extras") {
		opts.IncludeNonNumericExtras = true
	}
	if flags.noExtras {
		opts.IncludeNumericExtras = false
		opts.IncludeNonNumericExtras = false
	}
	if len(flags.only) > 0 {
		opts.Allowlist = flags.only
	}
	return opts
}
