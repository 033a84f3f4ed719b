// Package bed parses flat positional-column (BED) records and converts
// them into canonical features.
package bed

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/genomekit/genepred/internal/feature"
	"github.com/genomekit/genepred/internal/fileio"
)

// Width is the number of fixed positional columns in a BED record.
type Width int

// Supported BED widths.
const (
	Bed3  Width = 3
	Bed4  Width = 4
	Bed5  Width = 5
	Bed6  Width = 6
	Bed8  Width = 8
	Bed9  Width = 9
	Bed12 Width = 12
)

// Valid reports whether w is a supported BED width.
func (w Width) Valid() bool {
	switch w {
	case Bed3, Bed4, Bed5, Bed6, Bed8, Bed9, Bed12:
		return true
	}
	return false
}

// Reader reads BED records line by line and converts them to features.
type Reader struct {
	scanner          *bufio.Scanner
	closer           io.Closer
	width            Width
	additionalFields int
	lineNum          int
}

// NewReader creates a reader for the given width over r.
func NewReader(r io.Reader, width Width) (*Reader, error) {
	if !width.Valid() {
		return nil, fmt.Errorf("unsupported BED width %d", width)
	}
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	return &Reader{scanner: scanner, width: width}, nil
}

// Open creates a reader over path, decoding gzip/zstd/bzip2 by extension.
func Open(path string, width Width) (*Reader, error) {
	f, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, width)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// SetAdditionalFields declares how many columns beyond the fixed width
// every record carries. Records with a different residual column count
// fail the parse.
func (r *Reader) SetAdditionalFields(n int) {
	r.additionalFields = n
}

// Next returns the next record as a feature, or (nil, nil) at end of
// input. Comment and blank lines are skipped.
func (r *Reader) Next() (*feature.Feature, error) {
	for r.scanner.Scan() {
		r.lineNum++
		line := r.scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "track") || strings.HasPrefix(trimmed, "browser") {
			continue
		}
		f, err := ParseLine(line, r.lineNum, r.width, r.additionalFields)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan BED: %w", err)
	}
	return nil, nil
}

// ReadAll reads every remaining record.
func (r *Reader) ReadAll() ([]*feature.Feature, error) {
	var feats []*feature.Feature
	for {
		f, err := r.Next()
		if err != nil {
			return nil, err
		}
		if f == nil {
			return feats, nil
		}
		feats = append(feats, f)
	}
}

// Close closes the underlying file, if the reader owns one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// ParseLine parses one BED line of the given width into a feature.
// Columns beyond the fixed width are captured in Extras keyed by their
// 1-based positional index. additional > 0 pins the expected residual
// column count.
func ParseLine(line string, lineNum int, width Width, additional int) (*feature.Feature, error) {
	trimmed := strings.TrimRight(line, "\r\n")
	fields := strings.Split(trimmed, "\t")
	if len(fields) < int(width) {
		return nil, feature.InvalidField(lineNum, "record",
			fmt.Sprintf("expected at least %d columns, got %d", width, len(fields)))
	}
	if additional > 0 && len(fields) != int(width)+additional {
		return nil, feature.InvalidField(lineNum, "record",
			fmt.Sprintf("expected %d columns (%d + %d additional), got %d", int(width)+additional, width, additional, len(fields)))
	}

	start, err := parseUint(fields[1], lineNum, "start")
	if err != nil {
		return nil, err
	}
	end, err := parseUint(fields[2], lineNum, "end")
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, feature.InvalidField(lineNum, "coordinates",
			fmt.Sprintf("end (%d) must be >= start (%d)", end, start))
	}

	f := feature.FromCoords(fields[0], start, end, nil)

	if width >= Bed4 {
		f.Name = fields[3]
	}
	if width >= Bed5 {
		score, err := parseScore(fields[4], lineNum)
		if err != nil {
			return nil, err
		}
		f.Score = score
		f.HasScore = true
	}
	if width >= Bed6 {
		strand, err := feature.ParseStrand(fields[5], lineNum)
		if err != nil {
			return nil, err
		}
		f.Strand = strand
	}
	if width >= Bed8 {
		thickStart, err := parseUint(fields[6], lineNum, "thickStart")
		if err != nil {
			return nil, err
		}
		thickEnd, err := parseUint(fields[7], lineNum, "thickEnd")
		if err != nil {
			return nil, err
		}
		f.SetThick(thickStart, thickEnd)
	}
	if width >= Bed9 {
		rgb, err := parseRGB(fields[8], lineNum)
		if err != nil {
			return nil, err
		}
		f.ItemRGB = rgb
	}
	if width >= Bed12 {
		count, err := parseUint(fields[9], lineNum, "blockCount")
		if err != nil {
			return nil, err
		}
		sizes, err := parseUintList(fields[10], lineNum, "blockSizes")
		if err != nil {
			return nil, err
		}
		offsets, err := parseUintList(fields[11], lineNum, "blockStarts")
		if err != nil {
			return nil, err
		}
		if uint64(len(sizes)) != count || uint64(len(offsets)) != count {
			return nil, feature.InvalidField(lineNum, "blockCount",
				fmt.Sprintf("blockCount %d does not match %d sizes and %d starts", count, len(sizes), len(offsets)))
		}
		starts := make([]uint64, len(offsets))
		ends := make([]uint64, len(offsets))
		for i := range offsets {
			starts[i] = start + offsets[i]
			ends[i] = starts[i] + sizes[i]
		}
		f.SetBlocks(starts, ends)
	}

	// Residual columns become extras under their 1-based positional index.
	for i := int(width); i < len(fields); i++ {
		f.Extras.Add(strconv.Itoa(i+1), fields[i])
	}

	return f, nil
}

func parseUint(field string, line int, label string) (uint64, error) {
	v, err := strconv.ParseUint(field, 10, 64)
	if err != nil {
		return 0, feature.InvalidField(line, label,
			fmt.Sprintf("expected unsigned integer, got %q", field))
	}
	return v, nil
}

func parseScore(field string, line int) (uint16, error) {
	v, err := strconv.ParseUint(field, 10, 16)
	if err != nil {
		return 0, feature.InvalidField(line, "score",
			fmt.Sprintf("expected integer between 0 and 1000, got %q", field))
	}
	if v > 1000 {
		return 0, feature.InvalidField(line, "score",
			fmt.Sprintf("score %d exceeds BED maximum 1000", v))
	}
	return uint16(v), nil
}

func parseRGB(field string, line int) (*feature.RGB, error) {
	// A plain "0" is the conventional placeholder for "no color".
	if field == "0" || field == "." {
		return nil, nil
	}
	parts := strings.Split(field, ",")
	if len(parts) != 3 {
		return nil, feature.InvalidField(line, "itemRgb",
			fmt.Sprintf("expected 3 comma-separated components, got %q", field))
	}
	var rgb [3]uint8
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return nil, feature.InvalidField(line, "itemRgb",
				fmt.Sprintf("could not parse component %q", part))
		}
		rgb[i] = uint8(v)
	}
	return &feature.RGB{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

func parseUintList(list string, line int, label string) ([]uint64, error) {
	var values []uint64
	for _, item := range strings.Split(list, ",") {
		if item == "" {
			continue
		}
		v, err := strconv.ParseUint(item, 10, 64)
		if err != nil {
			return nil, feature.InvalidField(line, label,
				fmt.Sprintf("failed to parse %q as unsigned integer", item))
		}
		values = append(values, v)
	}
	return values, nil
}
