package gxf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/genomekit/genepred/internal/feature"
)

// Record is one parsed GTF/GFF row with coordinates already converted to
// the internal 0-based half-open convention.
type Record struct {
	Chrom      string
	Source     string
	Kind       string
	Start      uint64
	End        uint64
	Strand     feature.Strand
	Attributes feature.Extras
	Line       int
}

// ParseRecord parses a single annotation line. lineNum is the 1-based line
// number for error reporting. The format's native 1-based inclusive
// coordinates are converted to 0-based half-open here, before any geometry
// computation.
func ParseRecord(line string, lineNum int, sep byte) (*Record, error) {
	trimmed := strings.TrimRight(line, "\r\n")
	fields := strings.Split(trimmed, "\t")
	if len(fields) < 9 {
		return nil, missingGxfColumn(lineNum, len(fields))
	}

	start1, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return nil, feature.InvalidField(lineNum, "start", fmt.Sprintf("could not parse %q as integer", fields[3]))
	}
	end1, err := strconv.ParseUint(fields[4], 10, 64)
	if err != nil {
		return nil, feature.InvalidField(lineNum, "end", fmt.Sprintf("could not parse %q as integer", fields[4]))
	}
	if end1 < start1 {
		return nil, feature.InvalidField(lineNum, "coordinates", fmt.Sprintf("end (%d) must be >= start (%d)", end1, start1))
	}

	strand, err := feature.ParseStrand(fields[6], lineNum)
	if err != nil {
		return nil, err
	}

	attrs, err := ParseAttributes(fields[8], sep)
	if err != nil {
		return nil, feature.InvalidField(lineNum, "attributes", err.Error())
	}

	start := start1
	if start > 0 {
		start--
	}

	return &Record{
		Chrom:      fields[0],
		Source:     fields[1],
		Kind:       fields[2],
		Start:      start,
		End:        end1,
		Strand:     strand,
		Attributes: attrs,
		Line:       lineNum,
	}, nil
}

func missingGxfColumn(line, got int) error {
	columns := []string{"chromosome", "source", "feature", "start", "end", "score", "strand", "phase", "attributes"}
	return feature.MissingColumn(line, columns[got])
}

// shouldSkip reports whether a raw input line is a comment or blank.
func shouldSkip(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
