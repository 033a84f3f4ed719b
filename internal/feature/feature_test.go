package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multiExonFeature() *Feature {
	f := FromCoords("chr1", 100, 500, nil)
	f.Strand = StrandForward
	f.SetBlocks([]uint64{100, 200, 400}, []uint64{150, 300, 500})
	f.SetThick(120, 450)
	return f
}

func TestFeatureGeometry(t *testing.T) {
	f := multiExonFeature()

	assert.Equal(t, uint64(400), f.Len())
	assert.False(t, f.IsEmpty())
	assert.Equal(t, 3, f.ExonCount())
	assert.Equal(t, 2, f.IntronCount())
	assert.Equal(t, uint64(250), f.ExonicLength())
	assert.Equal(t, uint64(150), f.IntronicLength())

	introns := f.Introns()
	require.Len(t, introns, 2)
	assert.Equal(t, Interval{Start: 150, End: 200}, introns[0])
	assert.Equal(t, Interval{Start: 300, End: 400}, introns[1])
}

func TestFeatureWithoutBlocks(t *testing.T) {
	f := FromCoords("chr2", 10, 50, nil)

	exons := f.Exons()
	require.Len(t, exons, 1)
	assert.Equal(t, Interval{Start: 10, End: 50}, exons[0])
	assert.Nil(t, f.Introns())
	assert.Equal(t, 0, f.BlockCount())
	assert.Equal(t, 1, f.ExonCount())
}

func TestCodingExons(t *testing.T) {
	f := multiExonFeature()

	coding := f.CodingExons()
	require.Len(t, coding, 3)
	assert.Equal(t, Interval{Start: 120, End: 150}, coding[0])
	assert.Equal(t, Interval{Start: 200, End: 300}, coding[1])
	assert.Equal(t, Interval{Start: 400, End: 450}, coding[2])
	assert.Equal(t, uint64(180), f.CDSLength())
}

func TestCodingExonsSkipsNonOverlapping(t *testing.T) {
	f := FromCoords("chr1", 0, 300, nil)
	f.SetBlocks([]uint64{0, 100, 200}, []uint64{50, 150, 300})
	f.SetThick(110, 140)

	coding := f.CodingExons()
	require.Len(t, coding, 1)
	assert.Equal(t, Interval{Start: 110, End: 140}, coding[0])
}

func TestCodingExonsWithoutThick(t *testing.T) {
	f := FromCoords("chr1", 0, 100, nil)
	assert.False(t, f.HasThick())
	assert.Nil(t, f.CodingExons())
	assert.Equal(t, uint64(0), f.CDSLength())
}

func TestSetThickDegenerate(t *testing.T) {
	f := FromCoords("chr1", 0, 100, nil)
	f.SetThick(50, 50)
	assert.False(t, f.HasThick())

	f.SetThick(60, 40)
	assert.False(t, f.HasThick())

	f.SetThick(40, 60)
	assert.True(t, f.HasThick())
}

func TestUTRExons(t *testing.T) {
	f := multiExonFeature()

	utrs := f.UTRExons()
	require.Len(t, utrs, 2)
	assert.Equal(t, Interval{Start: 100, End: 120}, utrs[0])
	assert.Equal(t, Interval{Start: 450, End: 500}, utrs[1])
}

func TestUTRStrandOrientation(t *testing.T) {
	forward := multiExonFeature()
	five := forward.FivePrimeUTR()
	require.Len(t, five, 1)
	assert.Equal(t, Interval{Start: 100, End: 120}, five[0])
	three := forward.ThreePrimeUTR()
	require.Len(t, three, 1)
	assert.Equal(t, Interval{Start: 450, End: 500}, three[0])

	reverse := multiExonFeature()
	reverse.Strand = StrandReverse
	five = reverse.FivePrimeUTR()
	require.Len(t, five, 1)
	assert.Equal(t, Interval{Start: 450, End: 500}, five[0])
	three = reverse.ThreePrimeUTR()
	require.Len(t, three, 1)
	assert.Equal(t, Interval{Start: 100, End: 120}, three[0])
}

func TestOverlaps(t *testing.T) {
	f := multiExonFeature()

	tests := []struct {
		name        string
		start, end  uint64
		span, exons bool
	}{
		{"inside first exon", 110, 130, true, true},
		{"inside intron", 160, 180, true, false},
		{"spanning intron boundary", 140, 210, true, true},
		{"before feature", 0, 100, false, false},
		{"after feature", 500, 600, false, false},
		{"touching start", 50, 101, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.span, f.Overlaps(tt.start, tt.end))
			assert.Equal(t, tt.exons, f.ExonOverlaps(tt.start, tt.end))
		})
	}
}

func TestParseStrand(t *testing.T) {
	tests := []struct {
		in      string
		want    Strand
		wantErr bool
	}{
		{"+", StrandForward, false},
		{"-", StrandReverse, false},
		{".", StrandUnknown, false},
		{"?", StrandUnknown, false},
		{"x", StrandUnknown, true},
		{"", StrandUnknown, true},
	}
	for _, tt := range tests {
		s, err := ParseStrand(tt.in, 7)
		if tt.wantErr {
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 7")
			assert.Contains(t, err.Error(), `got "`+tt.in+`"`)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, s)
	}
}

func TestExtrasScalarAndArray(t *testing.T) {
	x := NewExtras()
	x.Add("gene_id", "g1")

	v, ok := x.Get("gene_id")
	require.True(t, ok)
	assert.False(t, v.IsArray())
	assert.Equal(t, "g1", v.Render())

	x.Add("tag", "a")
	x.Add("tag", "b")
	v, ok = x.Get("tag")
	require.True(t, ok)
	assert.True(t, v.IsArray())
	assert.Equal(t, []string{"a", "b"}, v.Values())
	assert.Equal(t, "a,b", v.Render())
	assert.Equal(t, "a", v.First())
}

func TestExtrasMerge(t *testing.T) {
	a := NewExtras()
	a.Add("k", "1")
	b := NewExtras()
	b.Add("k", "2")
	b.Add("other", "x")

	a.Merge(b)

	v, _ := a.Get("k")
	assert.Equal(t, "1,2", v.Render())
	assert.Equal(t, "x", a.First("other"))
	assert.Equal(t, "", a.First("absent"))
}

func TestParseErrorMessage(t *testing.T) {
	err := InvalidField(12, "strand", "bad value")
	assert.Equal(t, "line 12: invalid strand: bad value", err.Error())

	err = MissingColumn(3, "end")
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "missing end column")
}
