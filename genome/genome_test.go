package genome_test

import (
	"testing"

	"github.com/SebastianDall/epimetheus/genome"
	"github.com/SebastianDall/epimetheus/iupac"
	"github.com/SebastianDall/epimetheus/methylation"
	"github.com/SebastianDall/epimetheus/motif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSeq(t *testing.T, s string) iupac.Sequence {
	t.Helper()
	sq, err := iupac.ParseSequence(s)
	require.NoError(t, err)
	return sq
}

func TestContigAddMethylationRecordRejectsDuplicate(t *testing.T) {
	c := genome.New("ctg", mustSeq(t, "TGGACGATCCCGATC"))
	cov, err := methylation.NewCoverage(15, 15)
	require.NoError(t, err)
	rec := methylation.Record{Contig: "ctg", Position: 6, Strand: motif.Positive, ModType: motif.SixMA, Coverage: cov}
	require.NoError(t, c.AddMethylationRecord(rec))
	assert.Error(t, c.AddMethylationRecord(rec))
}

func TestContigAddMethylationRecordRejectsOutOfRange(t *testing.T) {
	c := genome.New("ctg", mustSeq(t, "GATC"))
	cov, _ := methylation.NewCoverage(1, 1)
	rec := methylation.Record{Contig: "ctg", Position: 99, Strand: motif.Positive, ModType: motif.SixMA, Coverage: cov}
	assert.Error(t, c.AddMethylationRecord(rec))
}

func TestWorkspaceBuilderRejectsDuplicateContig(t *testing.T) {
	b := genome.NewBuilder()
	require.NoError(t, b.AddContig(genome.New("ctg", mustSeq(t, "GATC"))))
	assert.Error(t, b.AddContig(genome.New("ctg", mustSeq(t, "GATC"))))
}

func TestWorkspaceOrderingAndLookup(t *testing.T) {
	b := genome.NewBuilder()
	require.NoError(t, b.AddContig(genome.New("b", mustSeq(t, "GATC"))))
	require.NoError(t, b.AddContig(genome.New("a", mustSeq(t, "GATC"))))
	ws := b.Build()
	assert.Equal(t, 2, ws.Len())
	ids := make([]string, 0, 2)
	for _, c := range ws.Contigs() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"b", "a"}, ids) // insertion order, not sorted
	_, ok := ws.Get("a")
	assert.True(t, ok)
	_, ok = ws.Get("missing")
	assert.False(t, ok)
}
