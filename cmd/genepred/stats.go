package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/genomekit/genepred/internal/feature"
)

func newStatsCmd() *cobra.Command {
	flags := convertFlags{}

	cmd := &cobra.Command{
		Use:   "stats <input-file>",
		Short: "Summarize the features in an annotation file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.from, "from", "", "input format: bed, gtf, gff (default: by extension)")
	cmd.Flags().StringVar(&flags.groupAttr, "group-attribute", "", "attribute that groups GTF/GFF rows into transcripts")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail on rows missing the grouping attribute")
	cmd.Flags().IntVar(&flags.bedExtra, "bed-extra-fields", 0, "expected extra column count for BED input")

	return cmd
}

func runStats(inputPath string, flags convertFlags) error {
	from := flags.from
	if from == "" {
		from = detectFormat(inputPath)
	}
	if from == "" {
		return fmt.Errorf("cannot detect input format of %q, use --from", inputPath)
	}

	feats, err := readFeatures(inputPath, from, flags)
	if err != nil {
		return err
	}

	var (
		coding       int
		multiExon    int
		totalExons   int
		exonicBases  uint64
		codingBases  uint64
		chromosomes  = map[string]int{}
		strandCounts = map[feature.Strand]int{}
	)
	for _, f := range feats {
		chromosomes[f.Chrom]++
		strandCounts[f.Strand]++
		totalExons += f.ExonCount()
		exonicBases += f.ExonicLength()
		if f.HasThick() {
			coding++
			codingBases += f.CDSLength()
		}
		if f.ExonCount() > 1 {
			multiExon++
		}
	}

	w := os.Stdout
	fmt.Fprintf(w, "File:            %s (%s)\n", inputPath, from)
	fmt.Fprintf(w, "Features:        %d\n", len(feats))
	fmt.Fprintf(w, "Chromosomes:     %d\n", len(chromosomes))
	fmt.Fprintf(w, "Coding:          %d\n", coding)
	fmt.Fprintf(w, "Multi-exon:      %d\n", multiExon)
	fmt.Fprintf(w, "Exons:           %d\n", totalExons)
	fmt.Fprintf(w, "Exonic bases:    %d\n", exonicBases)
	fmt.Fprintf(w, "Coding bases:    %d\n", codingBases)
	fmt.Fprintf(w, "Strands:         +%d -%d .%d\n",
		strandCounts[feature.StrandForward],
		strandCounts[feature.StrandReverse],
		strandCounts[feature.StrandUnknown])
	return nil
}
