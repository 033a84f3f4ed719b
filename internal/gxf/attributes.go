package gxf

import (
	"strings"

	"github.com/genomekit/genepred/internal/feature"
)

// ParseAttributes tokenizes one attribute column into a key to value(s)
// mapping. sep is the byte between a key and its value: ' ' for GTF,
// '=' for GFF. The first occurrence of a key records a scalar; repeats
// accumulate into an array.
//
// Values starting with '"' run to the next unescaped quote (or to the end
// of the field when unterminated); unquoted values run to the next ';'
// with trailing spaces trimmed. Flag-style keys with no separator and
// dangling keys with no value are recorded with an empty value and
// terminate parsing. Entries that are only whitespace are skipped.
//
// Returns feature.ErrEmptyAttributes when the field is empty after
// trimming trailing whitespace.
func ParseAttributes(s string, sep byte) (feature.Extras, error) {
	if s == "" {
		return nil, feature.ErrEmptyAttributes
	}

	end := len(s)
	for end > 0 && isTrailingSpace(s[end-1]) {
		end--
	}
	if end == 0 {
		return nil, feature.ErrEmptyAttributes
	}

	attrs := feature.NewExtras()
	pos := 0

	for pos < end {
		for pos < end && isASCIISpace(s[pos]) {
			pos++
		}
		if pos >= end {
			break
		}

		keyStart := pos
		sepIdx := strings.IndexByte(s[pos:end], sep)
		if sepIdx < 0 {
			// Flag attribute without an explicit value.
			if key := s[keyStart:end]; key != "" {
				attrs.Add(key, "")
			}
			break
		}
		keyEnd := pos + sepIdx
		trimmedKeyEnd := keyEnd
		for trimmedKeyEnd > keyStart && s[trimmedKeyEnd-1] == ' ' {
			trimmedKeyEnd--
		}
		key := s[keyStart:trimmedKeyEnd]

		pos = keyEnd + 1
		for pos < end && s[pos] == ' ' {
			pos++
		}
		if pos >= end {
			// Dangling key with no value.
			attrs.Add(key, "")
			break
		}

		var value string
		if s[pos] == '"' {
			pos++
			closing := indexUnescapedQuote(s[pos:end])
			if closing < 0 {
				value = s[pos:end]
				pos = end
			} else {
				value = s[pos : pos+closing]
				pos += closing + 1
			}
		} else {
			semi := strings.IndexByte(s[pos:end], ';')
			if semi < 0 {
				value = s[pos:end]
				pos = end
			} else {
				valueEnd := pos + semi
				for valueEnd > pos && s[valueEnd-1] == ' ' {
					valueEnd--
				}
				value = s[pos:valueEnd]
				pos += semi
			}
		}
		attrs.Add(key, value)

		semi := strings.IndexByte(s[pos:end], ';')
		if semi < 0 {
			break
		}
		pos += semi + 1
	}

	return attrs, nil
}

// indexUnescapedQuote returns the index of the first '"' not preceded by a
// backslash, or -1.
func indexUnescapedQuote(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			return i
		}
	}
	return -1
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isTrailingSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
