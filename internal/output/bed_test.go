package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomekit/genepred/internal/bed"
	"github.com/genomekit/genepred/internal/feature"
)

func bed12Feature() *feature.Feature {
	f := feature.FromCoords("chr3", 100, 260, nil)
	f.Name = "txBed"
	f.HasScore = true
	f.Strand = feature.StrandForward
	f.SetThick(120, 240)
	f.SetBlocks([]uint64{100, 200}, []uint64{150, 260})
	return f
}

func writeBED(t *testing.T, f *feature.Feature, width bed.Width, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteBED(&buf, f, width, opts))
	return buf.String()
}

func TestWriteBED12(t *testing.T) {
	got := writeBED(t, bed12Feature(), bed.Bed12, DefaultOptions())
	assert.Equal(t, "chr3\t100\t260\ttxBed\t0\t+\t120\t240\t0,0,0\t2\t50,60,\t0,100,\n", got)
}

func TestWriteBEDWidths(t *testing.T) {
	f := bed12Feature()
	tests := []struct {
		width bed.Width
		want  string
	}{
		{bed.Bed3, "chr3\t100\t260\n"},
		{bed.Bed4, "chr3\t100\t260\ttxBed\n"},
		{bed.Bed5, "chr3\t100\t260\ttxBed\t0\n"},
		{bed.Bed6, "chr3\t100\t260\ttxBed\t0\t+\n"},
		{bed.Bed8, "chr3\t100\t260\ttxBed\t0\t+\t120\t240\n"},
		{bed.Bed9, "chr3\t100\t260\ttxBed\t0\t+\t120\t240\t0,0,0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, writeBED(t, f, tt.width, DefaultOptions()))
		})
	}
}

func TestWriteBEDDefaults(t *testing.T) {
	// Name, thick interval, and blocks all fall back when absent.
	f := feature.FromCoords("chr1", 10, 90, nil)
	got := writeBED(t, f, bed.Bed12, DefaultOptions())
	assert.Equal(t, "chr1\t10\t90\t.\t0\t.\t10\t90\t0,0,0\t1\t80,\t0,\n", got)
}

func TestWriteBEDItemRGB(t *testing.T) {
	f := bed12Feature()
	f.ItemRGB = &feature.RGB{R: 255, G: 128, B: 64}
	got := writeBED(t, f, bed.Bed9, DefaultOptions())
	assert.Equal(t, "chr3\t100\t260\ttxBed\t0\t+\t120\t240\t255,128,64\n", got)
}

func TestWriteBEDMissingChrom(t *testing.T) {
	f := feature.FromCoords("", 0, 10, nil)
	var buf bytes.Buffer
	err := WriteBED(&buf, f, bed.Bed3, DefaultOptions())
	assert.ErrorIs(t, err, ErrMissingChrom)
}

func TestWriteBEDInvalidWidth(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBED(&buf, bed12Feature(), bed.Width(7), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported BED width")
}

func TestWriteBEDUnsortedBlocks(t *testing.T) {
	f := feature.FromCoords("chr1", 0, 300, nil)
	f.SetBlocks([]uint64{200, 0}, []uint64{300, 100})
	got := writeBED(t, f, bed.Bed12, DefaultOptions())
	assert.Equal(t, "chr1\t0\t300\t.\t0\t.\t0\t300\t0,0,0\t2\t100,100,\t0,200,\n", got)
}

func TestWriteBEDBlockBeforeFeatureStart(t *testing.T) {
	// An exon row outside an explicit transcript extent leaves a block
	// starting before the feature span; its offset clamps to 0.
	f := feature.FromCoords("chr1", 99, 300, nil)
	f.Name = "tx"
	f.HasScore = true
	f.Strand = feature.StrandForward
	f.SetBlocks([]uint64{49, 149}, []uint64{80, 200})

	got := writeBED(t, f, bed.Bed12, DefaultOptions())
	assert.Equal(t, "chr1\t99\t300\ttx\t0\t+\t99\t300\t0,0,0\t2\t31,51,\t0,50,\n", got)
}

func extrasFeature() *feature.Feature {
	f := feature.FromCoords("chr1", 0, 10, nil)
	f.Extras.Add("4", "x")
	f.Extras.Add("2", "y")
	f.Extras.Add("note", "z")
	return f
}

func TestExtrasEmission(t *testing.T) {
	f := extrasFeature()

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"numeric only", DefaultOptions(), "chr1\t0\t10\ty\tx\n"},
		{"numeric and named", Options{IncludeNumericExtras: true, IncludeNonNumericExtras: true}, "chr1\t0\t10\ty\tx\tnote=z\n"},
		{"named only", Options{IncludeNonNumericExtras: true}, "chr1\t0\t10\tnote=z\n"},
		{"none", Options{}, "chr1\t0\t10\n"},
		{"allowlist", Options{IncludeNumericExtras: true, IncludeNonNumericExtras: true, Allowlist: []string{"note"}}, "chr1\t0\t10\tnote=z\n"},
		{"allowlist numeric", Options{IncludeNumericExtras: true, Allowlist: []string{"4"}}, "chr1\t0\t10\tx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, writeBED(t, f, bed.Bed3, tt.opts))
		})
	}
}

func TestExtrasArrayValuesCommaJoined(t *testing.T) {
	f := feature.FromCoords("chr1", 0, 10, nil)
	f.Extras.Add("7", "a")
	f.Extras.Add("7", "b")
	got := writeBED(t, f, bed.Bed3, DefaultOptions())
	assert.Equal(t, "chr1\t0\t10\ta,b\n", got)
}

func TestExtrasNumericOrdering(t *testing.T) {
	// Numeric keys sort by value, not lexicographically.
	f := feature.FromCoords("chr1", 0, 10, nil)
	f.Extras.Add("10", "ten")
	f.Extras.Add("2", "two")
	got := writeBED(t, f, bed.Bed3, DefaultOptions())
	assert.Equal(t, "chr1\t0\t10\ttwo\tten\n", got)
}
