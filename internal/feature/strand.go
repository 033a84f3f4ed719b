// Package feature provides the canonical transcript/gene interval model
// shared by all readers and writers.
package feature

import "strconv"

// Strand is the orientation of a feature on its reference sequence.
type Strand int8

const (
	// StrandUnknown covers '.' and '?' inputs.
	StrandUnknown Strand = 0
	// StrandForward is the '+' strand.
	StrandForward Strand = 1
	// StrandReverse is the '-' strand.
	StrandReverse Strand = -1
)

// ParseStrand converts a strand column value into a Strand.
// line is the 1-based input line number, used for error reporting.
func ParseStrand(s string, line int) (Strand, error) {
	switch s {
	case "+":
		return StrandForward, nil
	case "-":
		return StrandReverse, nil
	case ".", "?":
		return StrandUnknown, nil
	default:
		return StrandUnknown, InvalidField(line, "strand", "expected '+', '-', '.', or '?', got "+strconv.Quote(s))
	}
}

// Byte returns the single-character representation used in BED and GTF/GFF
// output columns.
func (s Strand) Byte() byte {
	switch s {
	case StrandForward:
		return '+'
	case StrandReverse:
		return '-'
	default:
		return '.'
	}
}

func (s Strand) String() string {
	return string(s.Byte())
}
