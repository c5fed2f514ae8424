package tsvout_test

import (
	"strings"
	"testing"

	"github.com/SebastianDall/epimetheus/motif"
	"github.com/SebastianDall/epimetheus/pattern"
	"github.com/SebastianDall/epimetheus/tsvout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) motif.Motif {
	t.Helper()
	m, err := motif.Parse(s)
	require.NoError(t, err)
	return m
}

func TestWriteSummaryHeaderAndRow(t *testing.T) {
	rows := []pattern.MotifMethylationDegree{
		{
			Contig:                "contig_1",
			Motif:                 mustParse(t, "GATC_a_1"),
			Value:                 0.625,
			MeanReadCov:           18.75,
			NMotifObs:             4,
			MotifOccurrencesTotal: 4,
		},
	}

	var buf strings.Builder
	require.NoError(t, tsvout.WriteSummary(&buf, rows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "contig\tmotif\tmod_type\tmod_position\tmethylation_value\tmean_read_cov\tn_motif_obs\tmotif_occurences_total", lines[0])
	assert.Equal(t, "contig_1\tGATC\ta\t1\t0.625\t18.75\t4\t4", lines[1])
}

func TestWriteRawHeaderAndRow(t *testing.T) {
	rows := []pattern.MotifMethylationPositions{
		{
			Contig:    "contig_1",
			Start:     6,
			Strand:    motif.Positive,
			Motif:     mustParse(t, "GATC_a_1"),
			NModified: 1,
			NValidCov: 15,
		},
	}

	var buf strings.Builder
	require.NoError(t, tsvout.WriteRaw(&buf, rows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "contig\tstart\tstrand\tmotif\tmod_type\tmod_position\tn_modified\tn_valid_cov", lines[0])
	assert.Equal(t, "contig_1\t6\t+\tGATC\ta\t1\t1\t15", lines[1])
}

func TestWriteSummaryEmptyRowsStillWritesHeader(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, tsvout.WriteSummary(&buf, nil))
	assert.Equal(t, "contig\tmotif\tmod_type\tmod_position\tmethylation_value\tmean_read_cov\tn_motif_obs\tmotif_occurences_total\n", buf.String())
}
