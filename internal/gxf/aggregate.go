package gxf

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/genomekit/genepred/internal/feature"
)

// nameCandidates is the prioritized list of attribute keys that can supply
// a transcript's display name. The grouping-key value itself is the
// fallback.
var nameCandidates = []string{"transcript_name", "Name", "gene_name", "gene_id"}

// Aggregator folds a stream of annotation rows into one Feature per
// grouping-attribute value. Rows sharing a grouping key must agree on
// chromosome and strand; a mismatch fails the whole pass.
//
// Rows without the grouping attribute are skipped by default. SetStrict
// turns them into errors instead.
//
// Aggregation is stateful and must be driven from a single goroutine.
type Aggregator struct {
	format    Format
	groupAttr string
	strict    bool
	logger    *zap.Logger

	builders map[string]*transcriptBuilder
	order    []string
}

// NewAggregator creates an aggregator for the given format.
func NewAggregator(format Format) *Aggregator {
	return &Aggregator{
		format:    format,
		groupAttr: format.GroupAttribute,
		logger:    zap.NewNop(),
		builders:  make(map[string]*transcriptBuilder),
	}
}

// SetGroupAttribute overrides the attribute used to group related rows.
func (a *Aggregator) SetGroupAttribute(attr string) {
	if attr != "" {
		a.groupAttr = attr
	}
}

// SetStrict configures whether a row without the grouping attribute fails
// the parse instead of being skipped.
func (a *Aggregator) SetStrict(strict bool) {
	a.strict = strict
}

// SetLogger sets the logger for skipped-row diagnostics.
func (a *Aggregator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Add folds one parsed record into the accumulator for its grouping key.
func (a *Aggregator) Add(rec *Record) error {
	val, ok := rec.Attributes.Get(a.groupAttr)
	if !ok || val.First() == "" {
		if a.strict {
			return feature.InvalidField(rec.Line, "attributes",
				fmt.Sprintf("missing grouping attribute %q", a.groupAttr))
		}
		a.logger.Debug("skipping row without grouping attribute",
			zap.String("attribute", a.groupAttr),
			zap.Int("line", rec.Line))
		return nil
	}
	key := val.First()

	b, ok := a.builders[key]
	if !ok {
		b = newTranscriptBuilder(rec)
		a.builders[key] = b
		a.order = append(a.order, key)
	}

	if err := b.updateBounds(rec); err != nil {
		return err
	}
	b.absorbKind(rec)
	b.extras.Merge(rec.Attributes)
	b.resolveName(rec.Attributes, key)
	return nil
}

// Features finalizes all accumulated builders into Features, in
// first-seen grouping-key order. The aggregator keeps its state, so
// Features may be called once per pass.
func (a *Aggregator) Features() []*feature.Feature {
	feats := make([]*feature.Feature, 0, len(a.order))
	for _, key := range a.order {
		feats = append(feats, a.builders[key].finalize())
	}
	return feats
}

// Count returns the number of distinct grouping keys seen so far.
func (a *Aggregator) Count() int {
	return len(a.builders)
}

// transcriptBuilder is the per-grouping-key working state. It is folded
// into a Feature by finalize and not reused afterward.
type transcriptBuilder struct {
	chrom  string
	strand feature.Strand

	// transcriptExtent is the span of explicit transcript/mRNA rows, kept
	// distinct from the observed min/max because some inputs omit the
	// transcript row entirely.
	transcriptExtent *feature.Interval
	observedStart    uint64
	observedEnd      uint64

	exons       []feature.Interval
	cds         []feature.Interval
	startCodons []feature.Interval
	stopCodons  []feature.Interval

	extras feature.Extras
	name   string
}

func newTranscriptBuilder(rec *Record) *transcriptBuilder {
	return &transcriptBuilder{
		chrom:         rec.Chrom,
		strand:        rec.Strand,
		observedStart: rec.Start,
		observedEnd:   rec.End,
		extras:        feature.NewExtras(),
	}
}

// updateBounds checks chromosome/strand consistency and widens the
// observed span monotonically.
func (b *transcriptBuilder) updateBounds(rec *Record) error {
	if b.chrom != rec.Chrom {
		return feature.InvalidField(rec.Line, "chrom",
			fmt.Sprintf("grouped records span multiple chromosomes (%s vs %s)", b.chrom, rec.Chrom))
	}
	if b.strand != rec.Strand {
		return feature.InvalidField(rec.Line, "strand",
			fmt.Sprintf("grouped records span multiple strands (%s vs %s)", b.strand, rec.Strand))
	}
	b.observedStart = min(b.observedStart, rec.Start)
	b.observedEnd = max(b.observedEnd, rec.End)
	return nil
}

// absorbKind dispatches on the row's feature type. Unrecognized kinds are
// ignored.
func (b *transcriptBuilder) absorbKind(rec *Record) {
	kind := strings.ToLower(rec.Kind)
	iv := feature.Interval{Start: rec.Start, End: rec.End}
	switch kind {
	case "transcript", "mrna":
		if b.transcriptExtent == nil {
			b.transcriptExtent = &feature.Interval{Start: rec.Start, End: rec.End}
		} else {
			b.transcriptExtent.Start = min(b.transcriptExtent.Start, rec.Start)
			b.transcriptExtent.End = max(b.transcriptExtent.End, rec.End)
		}
	case "exon":
		b.exons = append(b.exons, iv)
	case "cds":
		b.cds = append(b.cds, iv)
	case "start_codon":
		b.startCodons = append(b.startCodons, iv)
	case "stop_codon":
		b.stopCodons = append(b.stopCodons, iv)
	}
}

// resolveName picks the display name from the first row carrying any of
// the candidate keys. Later rows do not override a resolved name; the
// grouping-key value is the final fallback.
func (b *transcriptBuilder) resolveName(attrs feature.Extras, fallback string) {
	if b.name != "" {
		return
	}
	for _, candidate := range nameCandidates {
		if v, ok := attrs.Get(candidate); ok && v.First() != "" {
			b.name = v.First()
			return
		}
	}
	if b.name == "" {
		b.name = fallback
	}
}

// finalize folds the accumulated state into a Feature.
//
// The span prefers the explicit transcript/mRNA extent over the observed
// min/max. Without exon rows a single exon covering the span is
// synthesized. Coding bounds come from the sorted CDS intervals and are
// widened, never narrowed, by start/stop-codon evidence; a degenerate
// span is discarded.
func (b *transcriptBuilder) finalize() *feature.Feature {
	spanStart, spanEnd := b.observedStart, b.observedEnd
	if b.transcriptExtent != nil {
		spanStart, spanEnd = b.transcriptExtent.Start, b.transcriptExtent.End
	}

	f := feature.FromCoords(b.chrom, spanStart, spanEnd, b.extras)
	f.Name = b.name
	f.Strand = b.strand

	exons := b.exons
	if len(exons) == 0 {
		exons = []feature.Interval{{Start: spanStart, End: spanEnd}}
	}
	feature.SortIntervals(exons)
	starts := make([]uint64, len(exons))
	ends := make([]uint64, len(exons))
	for i, e := range exons {
		starts[i] = e.Start
		ends[i] = e.End
	}
	f.SetBlocks(starts, ends)

	var haveCoding bool
	var codingStart, codingEnd uint64
	if len(b.cds) > 0 {
		feature.SortIntervals(b.cds)
		codingStart = b.cds[0].Start
		codingEnd = b.cds[len(b.cds)-1].End
		haveCoding = true
	}
	for _, codon := range [][]feature.Interval{b.startCodons, b.stopCodons} {
		for _, iv := range codon {
			if !haveCoding {
				codingStart, codingEnd = iv.Start, iv.End
				haveCoding = true
				continue
			}
			codingStart = min(codingStart, iv.Start)
			codingEnd = max(codingEnd, iv.End)
		}
	}
	if haveCoding {
		f.SetThick(codingStart, codingEnd)
	}

	return f
}
