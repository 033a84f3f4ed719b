package gxf

import (
	"bufio"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/genomekit/genepred/internal/feature"
	"github.com/genomekit/genepred/internal/fileio"
)

// Options configures a GXF parse pass. The zero value uses the format
// defaults: permissive grouping-attribute handling and the format's own
// grouping attribute.
type Options struct {
	// GroupAttribute overrides the attribute used to fold rows into one
	// transcript.
	GroupAttribute string
	// Strict makes rows without the grouping attribute an error instead
	// of being skipped.
	Strict bool
	// Logger receives skipped-row diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// Parse reads annotation lines from r and aggregates them into one Feature
// per grouping-attribute value. Aggregation is sequential: bounds-widening
// and interval appends are order-sensitive until the final sort, and the
// chromosome/strand consistency check must observe all rows for a key.
func Parse(r io.Reader, format Format, opts Options) ([]*feature.Feature, error) {
	agg := NewAggregator(format)
	agg.SetGroupAttribute(opts.GroupAttribute)
	agg.SetStrict(opts.Strict)
	if opts.Logger != nil {
		agg.SetLogger(opts.Logger)
	}

	scanner := bufio.NewScanner(r)
	// Annotation attribute columns can be long.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if shouldSkip(line) {
			continue
		}

		rec, err := ParseRecord(line, lineNum, format.AttrSeparator)
		if err != nil {
			return nil, err
		}
		if err := agg.Add(rec); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", format.Name, err)
	}

	return agg.Features(), nil
}

// ParseFile opens path (decoding gzip/zstd/bzip2 by extension) and parses
// it with Parse.
func ParseFile(path string, format Format, opts Options) ([]*feature.Feature, error) {
	f, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, format, opts)
}
