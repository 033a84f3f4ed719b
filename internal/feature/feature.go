package feature

import (
	"sort"
)

// Interval is a 0-based half-open genomic interval.
type Interval struct {
	Start uint64
	End   uint64
}

// Len returns the interval length.
func (iv Interval) Len() uint64 {
	if iv.End < iv.Start {
		return 0
	}
	return iv.End - iv.Start
}

// RGB is an itemRgb color from BED9+ records.
type RGB struct {
	R, G, B uint8
}

// Feature is the canonical representation of one transcript/gene-like
// interval, produced either directly from flat (BED) columns or by
// aggregating GTF/GFF rows.
//
// Coordinates are 0-based half-open with Start <= End. ThickStart/ThickEnd
// describe the coding sub-interval and are present only when
// ThickStart < ThickEnd. BlockStarts/BlockEnds are absolute exon
// coordinates, sorted ascending and non-overlapping; nil means one exon
// spanning the whole feature.
//
// Features are not mutated after being handed to a caller; conversion code
// fills fields before release.
type Feature struct {
	Chrom       string
	Start       uint64
	End         uint64
	Name        string
	Score       uint16
	HasScore    bool
	Strand      Strand
	ThickStart  uint64
	ThickEnd    uint64
	ItemRGB     *RGB
	BlockStarts []uint64
	BlockEnds   []uint64
	Extras      Extras
}

// FromCoords builds a minimal feature from coordinates.
func FromCoords(chrom string, start, end uint64, extras Extras) *Feature {
	if extras == nil {
		extras = NewExtras()
	}
	return &Feature{Chrom: chrom, Start: start, End: end, Extras: extras}
}

// Len returns the feature length (End - Start).
func (f *Feature) Len() uint64 {
	if f.End < f.Start {
		return 0
	}
	return f.End - f.Start
}

// IsEmpty reports whether the feature has zero length.
func (f *Feature) IsEmpty() bool {
	return f.Start >= f.End
}

// HasThick reports whether a coding sub-interval is present.
func (f *Feature) HasThick() bool {
	return f.ThickStart < f.ThickEnd
}

// BlockCount returns the number of exon blocks, 0 when blocks are absent.
func (f *Feature) BlockCount() int {
	return len(f.BlockStarts)
}

// SetBlocks installs absolute exon coordinates. Both slices must have the
// same length; they are stored as given.
func (f *Feature) SetBlocks(starts, ends []uint64) {
	f.BlockStarts = starts
	f.BlockEnds = ends
}

// SetThick installs the coding sub-interval. A degenerate span
// (start >= end) clears it.
func (f *Feature) SetThick(start, end uint64) {
	if start >= end {
		f.ThickStart, f.ThickEnd = 0, 0
		return
	}
	f.ThickStart, f.ThickEnd = start, end
}

// Exons returns exonic intervals in genomic coordinates. With blocks
// present each block is one exon; otherwise a single interval spanning the
// whole feature is returned.
func (f *Feature) Exons() []Interval {
	n := len(f.BlockStarts)
	if n == 0 || len(f.BlockEnds) != n {
		return []Interval{{Start: f.Start, End: f.End}}
	}
	exons := make([]Interval, n)
	for i := 0; i < n; i++ {
		exons[i] = Interval{Start: f.BlockStarts[i], End: f.BlockEnds[i]}
	}
	return exons
}

// Introns returns the gaps between consecutive exons. Features with a
// single exon have no introns.
func (f *Feature) Introns() []Interval {
	exons := f.Exons()
	if len(exons) <= 1 {
		return nil
	}
	introns := make([]Interval, 0, len(exons)-1)
	for i := 0; i+1 < len(exons); i++ {
		if exons[i].End < exons[i+1].Start {
			introns = append(introns, Interval{Start: exons[i].End, End: exons[i+1].Start})
		}
	}
	return introns
}

// ExonicLength returns the summed length of all exons.
func (f *Feature) ExonicLength() uint64 {
	var total uint64
	for _, e := range f.Exons() {
		total += e.Len()
	}
	return total
}

// IntronicLength returns the summed length of all introns.
func (f *Feature) IntronicLength() uint64 {
	var total uint64
	for _, iv := range f.Introns() {
		total += iv.Len()
	}
	return total
}

// CodingExons intersects each exon with the thick interval, keeping only
// intersections with positive length. Without thick bounds the result is
// empty.
func (f *Feature) CodingExons() []Interval {
	if !f.HasThick() {
		return nil
	}
	var coding []Interval
	for _, e := range f.Exons() {
		start := max(e.Start, f.ThickStart)
		end := min(e.End, f.ThickEnd)
		if start < end {
			coding = append(coding, Interval{Start: start, End: end})
		}
	}
	return coding
}

// CDSLength returns the summed length of all coding exons.
func (f *Feature) CDSLength() uint64 {
	var total uint64
	for _, c := range f.CodingExons() {
		total += c.Len()
	}
	return total
}

// UTRExons returns the exon portions outside the thick interval, in
// genomic order. Without thick bounds there are no UTRs.
func (f *Feature) UTRExons() []Interval {
	if !f.HasThick() {
		return nil
	}
	var utrs []Interval
	for _, e := range f.Exons() {
		if e.Start < f.ThickStart {
			utrs = append(utrs, Interval{Start: e.Start, End: min(e.End, f.ThickStart)})
		}
		if e.End > f.ThickEnd {
			utrs = append(utrs, Interval{Start: max(e.Start, f.ThickEnd), End: e.End})
		}
	}
	return utrs
}

// FivePrimeUTR returns the UTR intervals on the 5' side of the coding
// region. On the reverse strand the 5' side is the high-coordinate side.
func (f *Feature) FivePrimeUTR() []Interval {
	left, right := f.splitUTRs()
	if f.Strand == StrandReverse {
		return right
	}
	return left
}

// ThreePrimeUTR returns the UTR intervals on the 3' side of the coding
// region.
func (f *Feature) ThreePrimeUTR() []Interval {
	left, right := f.splitUTRs()
	if f.Strand == StrandReverse {
		return left
	}
	return right
}

func (f *Feature) splitUTRs() (left, right []Interval) {
	for _, u := range f.UTRExons() {
		if u.End <= f.ThickStart {
			left = append(left, u)
		} else {
			right = append(right, u)
		}
	}
	return left, right
}

// Overlaps reports whether the feature span intersects [queryStart, queryEnd).
func (f *Feature) Overlaps(queryStart, queryEnd uint64) bool {
	return f.Start < queryEnd && f.End > queryStart
}

// ExonOverlaps reports whether any exon intersects [queryStart, queryEnd).
func (f *Feature) ExonOverlaps(queryStart, queryEnd uint64) bool {
	for _, e := range f.Exons() {
		if e.Start < queryEnd && e.End > queryStart {
			return true
		}
	}
	return false
}

// ExonCount returns the number of exons.
func (f *Feature) ExonCount() int {
	return len(f.Exons())
}

// IntronCount returns the number of introns.
func (f *Feature) IntronCount() int {
	n := f.ExonCount()
	if n == 0 {
		return 0
	}
	return n - 1
}

// SortIntervals sorts intervals ascending by start.
func SortIntervals(ivs []Interval) {
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })
}
