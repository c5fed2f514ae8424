package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliAssembly = ">ctg\nTGGACGATCCCGATC\n"

// Matches pattern package's Scenario A fixture: GATC occurs at positions 6
// (+) and 12 (+) / its reverse complement at 7 (-) and 13 (-).
const cliPileup = "" +
	"ctg\t6\t7\ta\t0\t+\t0\t0\t0,0,0\t15\t1.00\t15\t0\t0\t0\t0\t0\t0\n" +
	"ctg\t7\t8\ta\t0\t-\t0\t0\t0,0,0\t20\t1.00\t20\t0\t0\t0\t0\t0\t0\n" +
	"ctg\t12\t13\ta\t0\t+\t0\t0\t0,0,0\t20\t0.25\t5\t0\t0\t0\t0\t0\t0\n" +
	"ctg\t13\t14\ta\t0\t-\t0\t0\t0,0,0\t20\t0.25\t5\t0\t0\t0\t0\t0\t0\n"

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunMethylationPatternMedianEndToEnd(t *testing.T) {
	dir := t.TempDir()
	assemblyPath := writeTemp(t, dir, "assembly.fasta", cliAssembly)
	pileupPath := writeTemp(t, dir, "pileup.bed", cliPileup)
	outPath := filepath.Join(dir, "out.tsv")

	flags := patternFlags{
		pileupPath:           pileupPath,
		assemblyPath:         assemblyPath,
		outPath:              outPath,
		motifs:               "GATC_a_1",
		minValidReadCoverage: 1,
		batchSize:            1,
		threads:              1,
		outputType:           "median",
	}
	require.NoError(t, runMethylationPattern(flags))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "contig\tmotif\tmod_type\tmod_position\tmethylation_value\tmean_read_cov\tn_motif_obs\tmotif_occurences_total", lines[0])
	assert.Equal(t, "ctg\tGATC\ta\t1\t0.625\t18.75\t4\t4", lines[1])
}

func TestRunMethylationPatternRawEndToEnd(t *testing.T) {
	dir := t.TempDir()
	assemblyPath := writeTemp(t, dir, "assembly.fasta", cliAssembly)
	pileupPath := writeTemp(t, dir, "pileup.bed", cliPileup)
	outPath := filepath.Join(dir, "out.tsv")

	flags := patternFlags{
		pileupPath:           pileupPath,
		assemblyPath:         assemblyPath,
		outPath:              outPath,
		motifs:               "GATC_a_1",
		minValidReadCoverage: 1,
		batchSize:            1,
		threads:              1,
		outputType:           "raw",
	}
	require.NoError(t, runMethylationPattern(flags))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "contig\tstart\tstrand\tmotif\tmod_type\tmod_position\tn_modified\tn_valid_cov", lines[0])
}

func TestRunMethylationPatternRequiresFlags(t *testing.T) {
	err := runMethylationPattern(patternFlags{})
	assert.Error(t, err)
}

func TestRunMotifClusterEndToEnd(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "clusters.tsv")

	require.NoError(t, runMotifCluster("GATCC_m_3,GATCR_m_3,GATCG_m_3", outPath))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "representative\tmembers", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "GATCV_m_3\t"))
}

func TestRunMotifClusterRequiresFlags(t *testing.T) {
	assert.Error(t, runMotifCluster("", "out.tsv"))
	assert.Error(t, runMotifCluster("GATC_a_1", ""))
}
