package batch_test

import (
	"testing"

	"github.com/SebastianDall/epimetheus/batch"
	"github.com/SebastianDall/epimetheus/genome"
	"github.com/SebastianDall/epimetheus/iupac"
	"github.com/SebastianDall/epimetheus/methylation"
	"github.com/SebastianDall/epimetheus/motif"
	"github.com/SebastianDall/epimetheus/pileupio"
	"github.com/SebastianDall/epimetheus/pileupio/pileupiotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustContig(t *testing.T, id, seq string) *genome.Contig {
	t.Helper()
	sq, err := iupac.ParseSequence(seq)
	require.NoError(t, err)
	return genome.New(id, sq)
}

func testFilter() methylation.Filter {
	return methylation.Filter{MinValidReadCoverage: 1, MinValidCovToDiffFraction: 0.8}
}

func drain(t *testing.T, l batch.Loader) []*genome.Workspace {
	t.Helper()
	var out []*genome.Workspace
	for {
		ws, ok, err := l.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		out = append(out, ws)
	}
	return out
}

func TestSequentialLoaderSingleBatch(t *testing.T) {
	lines := []string{
		"contig_3\t6\t1\ta\t133\t+\t0\t1\t255,0,0\t15\t0.00\t15\t123\t0\t0\t6\t0\t0",
		"contig_3\t8\t1\tm\t133\t+\t0\t1\t255,0,0\t20\t0.00\t20\t123\t0\t0\t6\t0\t0",
		"contig_3\t12\t1\ta\t133\t+\t0\t1\t255,0,0\t20\t0.00\t5\t123\t0\t0\t6\t0\t0",
		"contig_3\t7\t1\ta\t133\t-\t0\t1\t255,0,0\t20\t0.00\t20\t123\t0\t0\t6\t0\t0",
		"contig_3\t13\t1\ta\t133\t-\t0\t1\t255,0,0\t20\t0.00\t5\t123\t0\t0\t6\t0\t0",
	}
	assembly := map[string]*genome.Contig{
		"contig_3": mustContig(t, "contig_3", "TGGACGATCCCGATC"),
	}
	src := pileupiotest.NewLineSource(lines)
	loader := batch.NewSequentialLoader(src, assembly, 1, testFilter(), false)

	batches := drain(t, loader)
	require.Len(t, batches, 1)

	ws := batches[0]
	assert.Equal(t, 1, ws.Len())
	c, ok := ws.Get("contig_3")
	require.True(t, ok)
	cov, ok := c.Coverage(6, motif.Positive, motif.SixMA)
	require.True(t, ok)
	assert.Equal(t, uint32(15), cov.NModified)
	assert.Equal(t, uint32(15), cov.NValidCov)
}

func TestSequentialLoaderMultipleBatches(t *testing.T) {
	lines := []string{
		"contig_3\t6\t1\ta\t133\t+\t0\t1\t255,0,0\t15\t0.00\t15\t123\t0\t0\t6\t0\t0",
		"contig_3\t8\t1\tm\t133\t+\t0\t1\t255,0,0\t20\t0.00\t20\t123\t0\t0\t6\t0\t0",
		"contig_4\t12\t1\ta\t133\t+\t0\t1\t255,0,0\t20\t0.00\t5\t123\t0\t0\t6\t0\t0",
		"contig_4\t7\t1\ta\t133\t-\t0\t1\t255,0,0\t20\t0.00\t20\t123\t0\t0\t6\t0\t0",
		"contig_4\t13\t1\ta\t133\t-\t0\t1\t255,0,0\t20\t0.00\t5\t123\t0\t0\t6\t0\t0",
	}
	assembly := map[string]*genome.Contig{
		"contig_3": mustContig(t, "contig_3", "TGGACGATCCCGATC"),
		"contig_4": mustContig(t, "contig_4", "TGGACGATCCCGATC"),
	}
	src := pileupiotest.NewLineSource(lines)
	loader := batch.NewSequentialLoader(src, assembly, 1, testFilter(), false)

	batches := drain(t, loader)
	require.Len(t, batches, 2)

	c4, ok := batches[1].Get("contig_4")
	require.True(t, ok)
	cov, ok := c4.Coverage(12, motif.Positive, motif.SixMA)
	require.True(t, ok)
	assert.Equal(t, uint32(5), cov.NModified)
	assert.Equal(t, uint32(20), cov.NValidCov)
}

func TestSequentialLoaderMissingContigIsFatal(t *testing.T) {
	lines := []string{
		"contig_3\t6\t1\ta\t133\t+\t0\t1\t255,0,0\t15\t0.00\t15\t123\t0\t0\t6\t0\t0",
	}
	src := pileupiotest.NewLineSource(lines)
	loader := batch.NewSequentialLoader(src, map[string]*genome.Contig{}, 2, testFilter(), false)

	_, _, err := loader.Next()
	assert.Error(t, err)
}

func TestSequentialLoaderMismatchSkippedWhenAllowed(t *testing.T) {
	lines := []string{
		"contig_3\t6\t1\ta\t133\t+\t0\t1\t255,0,0\t15\t0.00\t15\t123\t0\t0\t6\t0\t0",
		"contig_5\t12\t1\ta\t133\t+\t0\t1\t255,0,0\t20\t0.00\t5\t123\t0\t0\t6\t0\t0",
		"contig_4\t7\t1\ta\t133\t-\t0\t1\t255,0,0\t20\t0.00\t20\t123\t0\t0\t6\t0\t0",
	}
	assembly := map[string]*genome.Contig{
		"contig_3": mustContig(t, "contig_3", "TGGACGATCCCGATC"),
		"contig_4": mustContig(t, "contig_4", "TGGACGATCCCGATC"),
	}
	src := pileupiotest.NewLineSource(lines)
	loader := batch.NewSequentialLoader(src, assembly, 3, testFilter(), true)

	batches := drain(t, loader)
	require.Len(t, batches, 1)
	assert.Equal(t, 2, batches[0].Len())
}

func TestSequentialLoaderMismatchFatalWhenDisallowed(t *testing.T) {
	lines := []string{
		"contig_3\t6\t1\ta\t133\t+\t0\t1\t255,0,0\t15\t0.00\t15\t123\t0\t0\t6\t0\t0",
		"contig_5\t12\t1\ta\t133\t+\t0\t1\t255,0,0\t20\t0.00\t5\t123\t0\t0\t6\t0\t0",
	}
	assembly := map[string]*genome.Contig{
		"contig_3": mustContig(t, "contig_3", "TGGACGATCCCGATC"),
	}
	src := pileupiotest.NewLineSource(lines)
	loader := batch.NewSequentialLoader(src, assembly, 2, testFilter(), false)

	found := false
	for {
		_, ok, err := loader.Next()
		if err != nil {
			found = true
			break
		}
		if !ok {
			break
		}
	}
	assert.True(t, found, "expected a fatal error on the mismatched contig")
}

// TestParallelLoaderMatchesSequential exercises the indexed-parallel
// strategy against the same data as the line-streaming strategy, asserting
// both produce identical per-position coverage for every contig (the
// strategies are interchangeable views of the same pileup).
func TestParallelLoaderMatchesSequential(t *testing.T) {
	assembly := map[string]*genome.Contig{
		"contig_3": mustContig(t, "contig_3", "TGGACGATCCCGATC"),
		"contig_4": mustContig(t, "contig_4", "TGGACGATCCCGATC"),
	}
	lines := []string{
		"contig_3\t6\t1\ta\t133\t+\t0\t1\t255,0,0\t15\t0.00\t15\t123\t0\t0\t6\t0\t0",
		"contig_3\t8\t1\tm\t133\t+\t0\t1\t255,0,0\t20\t0.00\t20\t123\t0\t0\t6\t0\t0",
		"contig_4\t12\t1\ta\t133\t+\t0\t1\t255,0,0\t20\t0.00\t5\t123\t0\t0\t6\t0\t0",
		"contig_4\t7\t1\ta\t133\t-\t0\t1\t255,0,0\t20\t0.00\t20\t123\t0\t0\t6\t0\t0",
	}

	seqSrc := pileupiotest.NewLineSource(lines)
	seqLoader := batch.NewSequentialLoader(seqSrc, assembly, 10, testFilter(), false)
	seqBatches := drain(t, seqLoader)
	require.Len(t, seqBatches, 1)

	byContig := map[string][]string{
		"contig_3": {lines[0], lines[1]},
		"contig_4": {lines[2], lines[3]},
	}
	indexed := pileupiotest.NewIndexedSource([]string{"contig_3", "contig_4"}, byContig)
	parLoader := batch.NewParallelLoader(
		[]pileupio.IndexedSource{indexed, indexed},
		assembly, 10, testFilter(), false,
	)
	parBatches := drain(t, parLoader)
	require.Len(t, parBatches, 1)

	for _, id := range []string{"contig_3", "contig_4"} {
		seqC, ok := seqBatches[0].Get(id)
		require.True(t, ok)
		parC, ok := parBatches[0].Get(id)
		require.True(t, ok)

		for pos := 0; pos < seqC.Len(); pos++ {
			for _, strand := range []motif.Strand{motif.Positive, motif.Negative} {
				for _, mt := range []motif.ModType{motif.SixMA, motif.FiveMC} {
					seqCov, seqOk := seqC.Coverage(pos, strand, mt)
					parCov, parOk := parC.Coverage(pos, strand, mt)
					require.Equal(t, seqOk, parOk)
					if seqOk {
						assert.Equal(t, seqCov, parCov)
					}
				}
			}
		}
	}
}

// TestParallelLoaderIgnoresIndexContigsNotInAssembly asserts that a contig
// present in the index but absent from the assembly is simply irrelevant —
// it must not be treated as a mismatch candidate and must not appear in any
// batch, regardless of allow_mismatch.
func TestParallelLoaderIgnoresIndexContigsNotInAssembly(t *testing.T) {
	assembly := map[string]*genome.Contig{
		"contig_3": mustContig(t, "contig_3", "TGGACGATCCCGATC"),
	}
	byContig := map[string][]string{
		"contig_3": {"contig_3\t6\t1\ta\t133\t+\t0\t1\t255,0,0\t15\t0.00\t15\t123\t0\t0\t6\t0\t0"},
		"contig_4": {"contig_4\t7\t1\ta\t133\t+\t0\t1\t255,0,0\t15\t0.00\t15\t123\t0\t0\t6\t0\t0"},
	}
	indexed := pileupiotest.NewIndexedSource([]string{"contig_3", "contig_4"}, byContig)
	loader := batch.NewParallelLoader([]pileupio.IndexedSource{indexed}, assembly, 10, testFilter(), false)

	batches := drain(t, loader)
	require.Len(t, batches, 1)
	_, ok := batches[0].Get("contig_4")
	assert.False(t, ok, "contig_4 has no assembly entry and must not appear in any batch")
	_, ok = batches[0].Get("contig_3")
	assert.True(t, ok)
}

// TestParallelLoaderMismatchSkippedWhenAllowed asserts an assembly contig
// missing from the index is dropped, not fatal, when allow_mismatch is set.
func TestParallelLoaderMismatchSkippedWhenAllowed(t *testing.T) {
	assembly := map[string]*genome.Contig{
		"contig_3": mustContig(t, "contig_3", "TGGACGATCCCGATC"),
		"contig_5": mustContig(t, "contig_5", "TGGACGATCCCGATC"),
	}
	byContig := map[string][]string{
		"contig_3": {"contig_3\t6\t1\ta\t133\t+\t0\t1\t255,0,0\t15\t0.00\t15\t123\t0\t0\t6\t0\t0"},
	}
	indexed := pileupiotest.NewIndexedSource([]string{"contig_3"}, byContig)
	loader := batch.NewParallelLoader([]pileupio.IndexedSource{indexed}, assembly, 10, testFilter(), true)

	batches := drain(t, loader)
	require.Len(t, batches, 1)
	_, ok := batches[0].Get("contig_3")
	assert.True(t, ok)
	_, ok = batches[0].Get("contig_5")
	assert.False(t, ok)
}

// TestParallelLoaderMismatchFatalWhenDisallowed asserts an assembly contig
// missing from the index is fatal, and the error names it, when
// allow_mismatch is false.
func TestParallelLoaderMismatchFatalWhenDisallowed(t *testing.T) {
	assembly := map[string]*genome.Contig{
		"contig_3": mustContig(t, "contig_3", "TGGACGATCCCGATC"),
		"contig_5": mustContig(t, "contig_5", "TGGACGATCCCGATC"),
	}
	byContig := map[string][]string{
		"contig_3": {"contig_3\t6\t1\ta\t133\t+\t0\t1\t255,0,0\t15\t0.00\t15\t123\t0\t0\t6\t0\t0"},
	}
	indexed := pileupiotest.NewIndexedSource([]string{"contig_3"}, byContig)
	loader := batch.NewParallelLoader([]pileupio.IndexedSource{indexed}, assembly, 10, testFilter(), false)

	_, _, err := loader.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contig_5")
}
