package methylation_test

import (
	"strconv"
	"testing"

	"github.com/SebastianDall/epimetheus/methylation"
	"github.com/SebastianDall/epimetheus/motif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(contig string, start int, modCode, strand string, nValidCov int, nModified int, nDiff int) string {
	itoa := strconv.Itoa
	return contig + "\t" +
		itoa(start) + "\t1\t" + modCode + "\t133\t" + strand + "\t0\t1\t255,0,0\t" +
		itoa(nValidCov) + "\t0.00\t" + itoa(nModified) + "\t123\t0\t0\t0\t" + itoa(nDiff) + "\t0"
}

func TestParsePileupLine(t *testing.T) {
	r, err := methylation.ParsePileupLine(line("ctg", 6, "a", "+", 15, 15, 0))
	require.NoError(t, err)
	assert.Equal(t, "ctg", r.Contig)
	assert.Equal(t, uint32(6), r.Start)
	assert.Equal(t, motif.SixMA, r.ModType)
	assert.Equal(t, motif.Positive, r.Strand)
	assert.Equal(t, uint32(15), r.NValidCov)
	assert.Equal(t, uint32(15), r.NModified)
}

func TestParsePileupLineWrongFieldCount(t *testing.T) {
	_, err := methylation.ParsePileupLine("ctg\t1\t2")
	assert.Error(t, err)
}

func TestFilterCoverageThreshold(t *testing.T) {
	f := methylation.Filter{MinValidReadCoverage: 3, MinValidCovToDiffFraction: 0.8}
	r, err := methylation.ParsePileupLine(line("ctg", 12, "a", "+", 2, 1, 0))
	require.NoError(t, err)
	_, kept, err := f.Apply("ctg", r)
	require.NoError(t, err)
	assert.False(t, kept, "n_valid_cov below threshold must be dropped")
}

func TestFilterDiffFractionThreshold(t *testing.T) {
	f := methylation.Filter{MinValidReadCoverage: 1, MinValidCovToDiffFraction: 0.8}
	// n_valid_cov=10, n_diff=10 -> fraction 0.5 < 0.8, dropped.
	r, err := methylation.ParsePileupLine(line("ctg", 12, "a", "+", 10, 5, 10))
	require.NoError(t, err)
	_, kept, err := f.Apply("ctg", r)
	require.NoError(t, err)
	assert.False(t, kept)
}

func TestFilterKeepsValidRecord(t *testing.T) {
	f := methylation.Filter{MinValidReadCoverage: 3, MinValidCovToDiffFraction: 0.8}
	r, err := methylation.ParsePileupLine(line("ctg", 6, "a", "+", 15, 15, 0))
	require.NoError(t, err)
	rec, kept, err := f.Apply("ctg", r)
	require.NoError(t, err)
	require.True(t, kept)
	assert.Equal(t, 1.0, rec.Coverage.FractionModified())
	assert.InDelta(t, float64(rec.Coverage.NValidCov)/float64(rec.Coverage.NValidCov+0), 1.0, 1e-9)
}

func TestNewCoverageRejectsInvariantViolation(t *testing.T) {
	_, err := methylation.NewCoverage(10, 5)
	assert.Error(t, err)
}
