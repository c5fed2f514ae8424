// Package tsvout writes methylation-pattern results as the tab-separated
// files spec.md §6 names, column-by-column in the exact header order,
// adapted from pileup/snp/output.go's buffered grailbio/base/tsv writer.
package tsvout

import (
	"io"
	"strconv"

	"github.com/SebastianDall/epimetheus/pattern"
	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// WriteSummary writes one row per pattern.MotifMethylationDegree, already
// sorted by the caller (pattern.SortDegrees).
func WriteSummary(w io.Writer, rows []pattern.MotifMethylationDegree) (err error) {
	tw := tsv.NewWriter(w)
	tw.WriteString("contig")
	tw.WriteString("motif")
	tw.WriteString("mod_type")
	tw.WriteString("mod_position")
	tw.WriteString("methylation_value")
	tw.WriteString("mean_read_cov")
	tw.WriteString("n_motif_obs")
	tw.WriteString("motif_occurences_total")
	if err = tw.EndLine(); err != nil {
		return errors.Wrap(err, "tsvout: writing summary header")
	}

	for _, r := range rows {
		tw.WriteString(r.Contig)
		tw.WriteString(r.Motif.SequenceString())
		tw.WriteString(r.Motif.ModType.PileupCode())
		tw.WriteString(strconv.Itoa(r.Motif.ModPosition))
		tw.WriteString(formatFloat(r.Value))
		tw.WriteString(formatFloat(r.MeanReadCov))
		tw.WriteString(strconv.FormatUint(uint64(r.NMotifObs), 10))
		tw.WriteString(strconv.FormatUint(uint64(r.MotifOccurrencesTotal), 10))
		if err = tw.EndLine(); err != nil {
			return errors.Wrap(err, "tsvout: writing summary row")
		}
	}
	return tw.Flush()
}

// WriteRaw writes one row per pattern.MotifMethylationPositions, already
// sorted by the caller (pattern.SortPositions).
func WriteRaw(w io.Writer, rows []pattern.MotifMethylationPositions) (err error) {
	tw := tsv.NewWriter(w)
	tw.WriteString("contig")
	tw.WriteString("start")
	tw.WriteString("strand")
	tw.WriteString("motif")
	tw.WriteString("mod_type")
	tw.WriteString("mod_position")
	tw.WriteString("n_modified")
	tw.WriteString("n_valid_cov")
	if err = tw.EndLine(); err != nil {
		return errors.Wrap(err, "tsvout: writing raw header")
	}

	for _, r := range rows {
		tw.WriteString(r.Contig)
		tw.WriteString(strconv.Itoa(r.Start))
		tw.WriteString(r.Strand.String())
		tw.WriteString(r.Motif.SequenceString())
		tw.WriteString(r.Motif.ModType.PileupCode())
		tw.WriteString(strconv.Itoa(r.Motif.ModPosition))
		tw.WriteString(strconv.FormatUint(uint64(r.NModified), 10))
		tw.WriteString(strconv.FormatUint(uint64(r.NValidCov), 10))
		if err = tw.EndLine(); err != nil {
			return errors.Wrap(err, "tsvout: writing raw row")
		}
	}
	return tw.Flush()
}

// formatFloat renders a float with the shortest round-trip representation,
// matching Rust's default f64 Display (no trailing zeros, no exponent for
// the magnitudes this domain produces).
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
