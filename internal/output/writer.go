package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/genomekit/genepred/internal/bed"
	"github.com/genomekit/genepred/internal/feature"
	"github.com/genomekit/genepred/internal/fileio"
	"github.com/genomekit/genepred/internal/gxf"
)

// Target identifies an output representation: a BED record of a given
// width, or multi-row GTF/GFF annotation output.
type Target struct {
	width  bed.Width
	format gxf.Format
	isBED  bool
}

// TargetBED targets flat positional-column output of the given width.
func TargetBED(width bed.Width) Target {
	return Target{width: width, isBED: true}
}

// TargetGXF targets multi-row annotation output in the given format.
func TargetGXF(format gxf.Format) Target {
	return Target{format: format}
}

// ParseTarget resolves a format name such as "bed6", "bed12", "gtf", or
// "gff" into a Target.
func ParseTarget(name string) (Target, error) {
	lower := strings.ToLower(name)
	switch lower {
	case "gtf":
		return TargetGXF(gxf.GTF), nil
	case "gff", "gff3":
		return TargetGXF(gxf.GFF), nil
	case "bed":
		return TargetBED(bed.Bed12), nil
	}
	if rest, ok := strings.CutPrefix(lower, "bed"); ok {
		if n, err := strconv.Atoi(rest); err == nil && bed.Width(n).Valid() {
			return TargetBED(bed.Width(n)), nil
		}
	}
	return Target{}, fmt.Errorf("unknown output format %q", name)
}

// String returns the format name.
func (t Target) String() string {
	if t.isBED {
		return fmt.Sprintf("bed%d", t.width)
	}
	return strings.ToLower(t.format.Name)
}

// WriteRecord emits one feature in the target representation.
func (t Target) WriteRecord(w io.Writer, f *feature.Feature, opts Options) error {
	if t.isBED {
		return WriteBED(w, f, t.width, opts)
	}
	return WriteGXF(w, f, t.format, opts)
}

// WriteAll emits all features in the target representation.
func WriteAll(w io.Writer, feats []*feature.Feature, t Target, opts Options) error {
	for _, f := range feats {
		if err := t.WriteRecord(w, f, opts); err != nil {
			return err
		}
	}
	return nil
}

// ToPath writes all features to a file, compressing by extension, with
// buffered output.
func ToPath(path string, feats []*feature.Feature, t Target, opts Options) error {
	f, err := fileio.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriterSize(f, 64*1024)
	if err := WriteAll(w, feats, t, opts); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
