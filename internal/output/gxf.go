package output

import (
	"io"
	"sort"
	"strconv"

	"github.com/genomekit/genepred/internal/feature"
	"github.com/genomekit/genepred/internal/gxf"
)

// sourceLabel is the fixed source column of emitted annotation rows.
const sourceLabel = "genepred"

// cdsSegment is a coding interval tagged with its reading-frame phase.
type cdsSegment struct {
	start uint64
	end   uint64
	phase uint8
}

// WriteGXF emits one feature as GTF or GFF rows: the transcript/mRNA span,
// one row per exon, one row per CDS segment with its phase, and the start
// and stop codons when the coding span leaves room for them. Internal
// coordinates are converted back to the format's 1-based inclusive
// convention.
func WriteGXF(w io.Writer, f *feature.Feature, format gxf.Format, opts Options) error {
	if f.Chrom == "" {
		return ErrMissingChrom
	}

	isGTF := format.AttrSeparator == ' '
	exons := deriveExons(f)
	attrs := renderAttributes(f, isGTF, opts)

	spanKind := "transcript"
	if !isGTF {
		spanKind = "mRNA"
	}
	if err := writeGXFRow(w, f.Chrom, spanKind, f.Start+1, f.End, f.Strand, -1, attrs); err != nil {
		return err
	}

	for _, e := range exons {
		if err := writeGXFRow(w, f.Chrom, "exon", e.Start+1, e.End, f.Strand, -1, attrs); err != nil {
			return err
		}
	}

	coding := deriveCodingExons(f)
	if len(coding) == 0 {
		return nil
	}

	for _, seg := range computeCDSSegments(coding, f.Strand) {
		if err := writeGXFRow(w, f.Chrom, "CDS", seg.start+1, seg.end, f.Strand, int(seg.phase), attrs); err != nil {
			return err
		}
	}

	if iv, ok := startCodonInterval(coding, f.Strand); ok {
		if err := writeGXFRow(w, f.Chrom, "start_codon", iv.Start+1, iv.End, f.Strand, -1, attrs); err != nil {
			return err
		}
	}
	if iv, ok := stopCodonInterval(coding, f.Strand); ok {
		if err := writeGXFRow(w, f.Chrom, "stop_codon", iv.Start+1, iv.End, f.Strand, -1, attrs); err != nil {
			return err
		}
	}

	return nil
}

// computeCDSSegments tags coding exons with reading-frame phases. Segments
// are walked in transcription order (reversed for the reverse strand) with
// phase = (3 - consumed%3) % 3, then restored to genomic order so output
// rows stay coordinate-ascending.
func computeCDSSegments(coding []feature.Interval, strand feature.Strand) []cdsSegment {
	if len(coding) == 0 {
		return nil
	}

	segments := make([]feature.Interval, len(coding))
	copy(segments, coding)
	if strand == feature.StrandReverse {
		reverseIntervals(segments)
	}

	results := make([]cdsSegment, 0, len(segments))
	var consumed uint64
	for _, seg := range segments {
		length := seg.Len()
		var phase uint8
		if length > 0 {
			phase = uint8((3 - consumed%3) % 3)
		}
		consumed += length
		results = append(results, cdsSegment{start: seg.Start, end: seg.End, phase: phase})
	}

	if strand == feature.StrandReverse {
		for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
			results[i], results[j] = results[j], results[i]
		}
	}
	return results
}

// startCodonInterval places the 3-base start codon at the strand-relative
// 5' end of the coding span. On the reverse strand that is the last 3
// bases by coordinate. Returns false when the span has no room at that
// end.
func startCodonInterval(coding []feature.Interval, strand feature.Strand) (feature.Interval, bool) {
	codingStart, codingEnd, ok := codingSpan(coding)
	if !ok {
		return feature.Interval{}, false
	}
	if strand == feature.StrandReverse {
		start := codingEnd - min(3, codingEnd-codingStart)
		return feature.Interval{Start: start, End: codingEnd}, start < codingEnd
	}
	end := min(codingStart+3, codingEnd)
	return feature.Interval{Start: codingStart, End: end}, codingStart < end
}

// stopCodonInterval places the 3-base stop codon at the strand-relative
// 3' end of the coding span.
func stopCodonInterval(coding []feature.Interval, strand feature.Strand) (feature.Interval, bool) {
	codingStart, codingEnd, ok := codingSpan(coding)
	if !ok {
		return feature.Interval{}, false
	}
	if strand == feature.StrandReverse {
		end := min(codingStart+3, codingEnd)
		return feature.Interval{Start: codingStart, End: end}, codingStart < end
	}
	start := codingEnd - min(3, codingEnd-codingStart)
	return feature.Interval{Start: start, End: codingEnd}, start < codingEnd
}

// codingSpan returns the overall span of the coding exons.
func codingSpan(coding []feature.Interval) (uint64, uint64, bool) {
	if len(coding) == 0 {
		return 0, 0, false
	}
	return coding[0].Start, coding[len(coding)-1].End, true
}

// attrPair is one rendered attribute key/value.
type attrPair struct {
	key   string
	value string
}

// buildAttributes assembles the attribute pairs for a feature: the
// grouping and name attributes first, then the remaining extras sorted by
// key. The allow-list filters every pair, leading ones included.
func buildAttributes(f *feature.Feature, isGTF bool, opts Options) []attrPair {
	groupKey := "ID"
	if isGTF {
		groupKey = "transcript_id"
	}
	transcript := f.Extras.First(groupKey)
	if transcript == "" {
		transcript = f.Name
	}
	if transcript == "" {
		transcript = "."
	}
	geneID := f.Extras.First("gene_id")
	if geneID == "" {
		geneID = transcript
	}

	var leading []attrPair
	if isGTF {
		leading = []attrPair{{"gene_id", geneID}, {"transcript_id", transcript}}
	} else {
		leading = []attrPair{{"ID", transcript}, {"gene_id", geneID}, {"transcript_id", transcript}}
	}

	var rest []attrPair
	for key, value := range f.Extras {
		if isGTF && (key == "gene_id" || key == "transcript_id") {
			continue
		}
		if !isGTF && (key == "ID" || key == "Parent" || key == "gene_id" || key == "transcript_id") {
			continue
		}
		rest = append(rest, attrPair{key: key, value: value.Render()})
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].key < rest[j].key })

	pairs := make([]attrPair, 0, len(leading)+len(rest))
	for _, p := range append(leading, rest...) {
		if opts.allowed(p.key) {
			pairs = append(pairs, p)
		}
	}
	return pairs
}

// renderAttributes renders the attribute column: GTF as `key "value"; `
// pairs, GFF as `key=value;` pairs.
func renderAttributes(f *feature.Feature, isGTF bool, opts Options) string {
	pairs := buildAttributes(f, isGTF, opts)

	buf := make([]byte, 0, 64)
	if isGTF {
		for _, p := range pairs {
			buf = append(buf, p.key...)
			buf = append(buf, ` "`...)
			buf = append(buf, p.value...)
			buf = append(buf, `"; `...)
		}
		for len(buf) > 0 && buf[len(buf)-1] == ' ' {
			buf = buf[:len(buf)-1]
		}
	} else {
		for i, p := range pairs {
			if i > 0 {
				buf = append(buf, ';')
			}
			buf = append(buf, p.key...)
			buf = append(buf, '=')
			buf = append(buf, p.value...)
		}
		buf = append(buf, ';')
	}
	return string(buf)
}

// writeGXFRow writes one annotation row. phase < 0 renders as '.'.
func writeGXFRow(w io.Writer, chrom, kind string, start1, end1 uint64, strand feature.Strand, phase int, attrs string) error {
	buf := make([]byte, 0, 128)
	buf = append(buf, chrom...)
	buf = append(buf, '\t')
	buf = append(buf, sourceLabel...)
	buf = append(buf, '\t')
	buf = append(buf, kind...)
	buf = append(buf, '\t')
	buf = strconv.AppendUint(buf, start1, 10)
	buf = append(buf, '\t')
	buf = strconv.AppendUint(buf, end1, 10)
	buf = append(buf, "\t.\t"...)
	buf = append(buf, strand.Byte())
	buf = append(buf, '\t')
	if phase >= 0 {
		buf = append(buf, byte('0'+phase%3))
	} else {
		buf = append(buf, '.')
	}
	buf = append(buf, '\t')
	buf = append(buf, attrs...)
	buf = append(buf, '\n')

	_, err := w.Write(buf)
	return err
}

func reverseIntervals(ivs []feature.Interval) {
	for i, j := 0, len(ivs)-1; i < j; i, j = i+1, j-1 {
		ivs[i], ivs[j] = ivs[j], ivs[i]
	}
}
