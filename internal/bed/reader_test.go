package bed

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomekit/genepred/internal/feature"
)

func TestParseLineBed3(t *testing.T) {
	f, err := ParseLine("chr1\t100\t200", 1, Bed3, 0)
	require.NoError(t, err)

	assert.Equal(t, "chr1", f.Chrom)
	assert.Equal(t, uint64(100), f.Start)
	assert.Equal(t, uint64(200), f.End)
	assert.Equal(t, "", f.Name)
	assert.False(t, f.HasScore)
	assert.Equal(t, feature.StrandUnknown, f.Strand)
	assert.Empty(t, f.Extras)
}

func TestParseLineBed6(t *testing.T) {
	f, err := ParseLine("chr2\t10\t50\tfeat1\t960\t-", 1, Bed6, 0)
	require.NoError(t, err)

	assert.Equal(t, "feat1", f.Name)
	assert.True(t, f.HasScore)
	assert.Equal(t, uint16(960), f.Score)
	assert.Equal(t, feature.StrandReverse, f.Strand)
}

func TestParseLineBed12(t *testing.T) {
	line := "chr3\t100\t260\ttxBed\t0\t+\t120\t240\t255,0,0\t2\t50,60,\t0,100,"
	f, err := ParseLine(line, 1, Bed12, 0)
	require.NoError(t, err)

	assert.Equal(t, uint64(120), f.ThickStart)
	assert.Equal(t, uint64(240), f.ThickEnd)
	require.NotNil(t, f.ItemRGB)
	assert.Equal(t, feature.RGB{R: 255}, *f.ItemRGB)
	assert.Equal(t, []uint64{100, 200}, f.BlockStarts)
	assert.Equal(t, []uint64{150, 260}, f.BlockEnds)
	assert.Equal(t, 2, f.BlockCount())
}

func TestParseLineRGBPlaceholders(t *testing.T) {
	for _, placeholder := range []string{"0", "."} {
		line := "chr1\t0\t100\tn\t0\t+\t0\t100\t" + placeholder
		f, err := ParseLine(line, 1, Bed9, 0)
		require.NoError(t, err)
		assert.Nil(t, f.ItemRGB)
	}
}

func TestParseLinePositionalExtras(t *testing.T) {
	f, err := ParseLine("chr1\t10\t20\tname\t5\t+\textraA\textraB", 1, Bed6, 0)
	require.NoError(t, err)

	assert.Equal(t, "extraA", f.Extras.First("7"))
	assert.Equal(t, "extraB", f.Extras.First("8"))
}

func TestParseLineAdditionalFieldsPinned(t *testing.T) {
	_, err := ParseLine("chr1\t10\t20\tname\t5\t+\tonly-one", 4, Bed6, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")
	assert.Contains(t, err.Error(), "expected 8 columns")

	f, err := ParseLine("chr1\t10\t20\tname\t5\t+\ta\tb", 4, Bed6, 2)
	require.NoError(t, err)
	assert.Equal(t, "a", f.Extras.First("7"))
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		width Width
		want  string
	}{
		{"too few columns", "chr1\t100", Bed3, "at least 3 columns"},
		{"bad start", "chr1\tabc\t200", Bed3, "invalid start"},
		{"end before start", "chr1\t200\t100", Bed3, "must be >= start"},
		{"negative start", "chr1\t-5\t100", Bed3, "invalid start"},
		{"score too large", "chr1\t10\t20\tn\t1500\t+", Bed6, "exceeds BED maximum"},
		{"bad score", "chr1\t10\t20\tn\thigh\t+", Bed6, "invalid score"},
		{"bad strand", "chr1\t10\t20\tn\t0\t*", Bed6, "invalid strand"},
		{"bad rgb", "chr1\t10\t20\tn\t0\t+\t10\t20\t1,2", Bed9, "invalid itemRgb"},
		{"block count mismatch", "chr1\t0\t100\tn\t0\t+\t0\t100\t0\t3\t10,20,\t0,50,", Bed12, "does not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line, 9, tt.width, 0)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 9")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReaderSkipsNonRecords(t *testing.T) {
	input := `# comment
track name="test"
browser position chr1

chr1	100	200
chr2	300	400
`
	r, err := NewReader(strings.NewReader(input), Bed3)
	require.NoError(t, err)

	feats, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, feats, 2)
	assert.Equal(t, "chr1", feats[0].Chrom)
	assert.Equal(t, "chr2", feats[1].Chrom)
}

func TestReaderNextEOF(t *testing.T) {
	r, err := NewReader(strings.NewReader("chr1\t1\t2\n"), Bed3)
	require.NoError(t, err)

	f, err := r.Next()
	require.NoError(t, err)
	require.NotNil(t, f)

	f, err = r.Next()
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestReaderErrorCarriesLineNumber(t *testing.T) {
	input := "chr1\t1\t2\n# skip\nchr1\tbad\t5\n"
	r, err := NewReader(strings.NewReader(input), Bed3)
	require.NoError(t, err)

	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestNewReaderInvalidWidth(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), Width(7))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported BED width")
}

func TestParseAllPreservesOrder(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("# header\n")
	lines := 500
	for i := 0; i < lines; i++ {
		start := uint64(i * 10)
		sb.WriteString("chr1\t")
		sb.WriteString(strconv.FormatUint(start, 10))
		sb.WriteString("\t")
		sb.WriteString(strconv.FormatUint(start+5, 10))
		sb.WriteString("\n")
	}

	feats, err := ParseAll(strings.NewReader(sb.String()), Bed3, 0, 4)
	require.NoError(t, err)
	require.Len(t, feats, lines)
	for i, f := range feats {
		assert.Equal(t, uint64(i*10), f.Start)
	}
}

func TestParseAllPropagatesError(t *testing.T) {
	input := "chr1\t1\t2\nchr1\tbad\t5\nchr1\t3\t4\n"
	_, err := ParseAll(strings.NewReader(input), Bed3, 0, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

