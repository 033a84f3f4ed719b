package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/genomekit/genepred/internal/bed"
	"github.com/genomekit/genepred/internal/feature"
)

// ErrMissingChrom is returned when a feature has no chromosome name.
var ErrMissingChrom = errors.New("missing required field: chrom")

// WriteBED emits one feature as a tab-separated BED record of the given
// width, terminated by a newline. Coordinates are written as stored
// (0-based start, exclusive end).
func WriteBED(w io.Writer, f *feature.Feature, width bed.Width, opts Options) error {
	if !width.Valid() {
		return fmt.Errorf("unsupported BED width %d", width)
	}
	if f.Chrom == "" {
		return ErrMissingChrom
	}

	buf := make([]byte, 0, 128)
	buf = append(buf, f.Chrom...)
	buf = append(buf, '\t')
	buf = strconv.AppendUint(buf, f.Start, 10)
	buf = append(buf, '\t')
	buf = strconv.AppendUint(buf, f.End, 10)

	if width >= bed.Bed4 {
		name := f.Name
		if name == "" {
			name = "."
		}
		buf = append(buf, '\t')
		buf = append(buf, name...)
	}
	if width >= bed.Bed5 {
		buf = append(buf, '\t')
		buf = strconv.AppendUint(buf, uint64(f.Score), 10)
	}
	if width >= bed.Bed6 {
		buf = append(buf, '\t', f.Strand.Byte())
	}
	if width >= bed.Bed8 {
		thickStart, thickEnd := f.ThickStart, f.ThickEnd
		if !f.HasThick() {
			thickStart, thickEnd = f.Start, f.End
		}
		buf = append(buf, '\t')
		buf = strconv.AppendUint(buf, thickStart, 10)
		buf = append(buf, '\t')
		buf = strconv.AppendUint(buf, thickEnd, 10)
	}
	if width >= bed.Bed9 {
		rgb := f.ItemRGB
		if rgb == nil {
			rgb = &feature.RGB{}
		}
		buf = append(buf, '\t')
		buf = strconv.AppendUint(buf, uint64(rgb.R), 10)
		buf = append(buf, ',')
		buf = strconv.AppendUint(buf, uint64(rgb.G), 10)
		buf = append(buf, ',')
		buf = strconv.AppendUint(buf, uint64(rgb.B), 10)
	}
	if width >= bed.Bed12 {
		exons := deriveExons(f)
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(len(exons)), 10)
		buf = append(buf, '\t')
		for _, e := range exons {
			buf = strconv.AppendUint(buf, e.Len(), 10)
			buf = append(buf, ',')
		}
		buf = append(buf, '\t')
		for _, e := range exons {
			// Blocks can start before the feature span when an explicit
			// transcript extent was narrower than its exon rows; the
			// offset saturates at 0 instead of wrapping.
			var offset uint64
			if e.Start > f.Start {
				offset = e.Start - f.Start
			}
			buf = strconv.AppendUint(buf, offset, 10)
			buf = append(buf, ',')
		}
	}

	buf = appendExtras(buf, f.Extras, opts)
	buf = append(buf, '\n')

	_, err := w.Write(buf)
	return err
}

// deriveExons returns the feature's exons sorted by start. Callers must
// not rely on construction order.
func deriveExons(f *feature.Feature) []feature.Interval {
	exons := f.Exons()
	feature.SortIntervals(exons)
	return exons
}

// deriveCodingExons returns the coding exons sorted by start.
func deriveCodingExons(f *feature.Feature) []feature.Interval {
	coding := f.CodingExons()
	feature.SortIntervals(coding)
	return coding
}

// appendExtras renders extras per the emission contract: numeric keys
// first in ascending numeric order as bare values, then remaining keys
// sorted lexicographically as key=value pairs. Array values are
// comma-joined.
func appendExtras(buf []byte, extras feature.Extras, opts Options) []byte {
	if len(extras) == 0 {
		return buf
	}

	type numericExtra struct {
		idx   uint64
		value feature.ExtraValue
	}
	var numeric []numericExtra
	type namedExtra struct {
		key   string
		value feature.ExtraValue
	}
	var named []namedExtra

	for key, value := range extras {
		if !opts.allowed(key) {
			continue
		}
		if idx, err := strconv.ParseUint(key, 10, 64); err == nil {
			if opts.IncludeNumericExtras {
				numeric = append(numeric, numericExtra{idx: idx, value: value})
			}
			continue
		}
		if opts.IncludeNonNumericExtras {
			named = append(named, namedExtra{key: key, value: value})
		}
	}

	sort.Slice(numeric, func(i, j int) bool { return numeric[i].idx < numeric[j].idx })
	sort.Slice(named, func(i, j int) bool { return named[i].key < named[j].key })

	for _, e := range numeric {
		buf = append(buf, '\t')
		buf = append(buf, e.value.Render()...)
	}
	for _, e := range named {
		buf = append(buf, '\t')
		buf = append(buf, e.key...)
		buf = append(buf, '=')
		buf = append(buf, e.value.Render()...)
	}
	return buf
}
