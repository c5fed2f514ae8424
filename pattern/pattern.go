// Package pattern implements the methylation pattern calculator: for each
// contig in a workspace, for each motif and strand, it joins motif
// occurrences against the contig's methylation coverage map and emits
// either a summary row (median or coverage-weighted mean) or the raw
// per-occurrence rows (spec.md §4.6).
package pattern

import (
	"sort"

	"github.com/SebastianDall/epimetheus/genome"
	"github.com/SebastianDall/epimetheus/motif"
)

// Mode selects the output the Calculator produces.
type Mode int

const (
	Median Mode = iota
	WeightedMean
	Raw
)

// MotifMethylationDegree is one summary row: the methylation signal of one
// motif on one contig, aggregated across every occurrence found.
type MotifMethylationDegree struct {
	Contig                string
	Motif                 motif.Motif
	Value                 float64
	MeanReadCov           float64
	NMotifObs             uint32
	MotifOccurrencesTotal uint32
}

// MotifMethylationPositions is one raw-mode row: a single motif occurrence
// with an attached coverage observation.
type MotifMethylationPositions struct {
	Contig      string
	Start       int
	Strand      motif.Strand
	Motif       motif.Motif
	NModified   uint32
	NValidCov   uint32
}

// Calculator computes methylation patterns for one contig at a time. It
// holds no contig-specific state, so a single Calculator can be shared
// across goroutines each processing a different contig.
type Calculator struct {
	Motifs []motif.Motif
	Mode   Mode
}

// NewCalculator builds a Calculator over motifs, in the order they should
// appear in output (spec.md §5 "deterministic ordering").
func NewCalculator(motifs []motif.Motif, mode Mode) *Calculator {
	return &Calculator{Motifs: motifs, Mode: mode}
}

type hit struct {
	position int
	cov      struct {
		nModified uint32
		nValidCov uint32
		has       bool
	}
}

// Contig computes the methylation pattern for one contig. In Median or
// WeightedMean mode it returns one degrees row per (motif, covering both
// strands) and a nil positions slice; in Raw mode it returns a nil degrees
// slice and one positions row per observed hit, ordered motif-then-strand
// (+ before -)-then-ascending-position, matching §5's ordering guarantee.
func (c *Calculator) Contig(contig *genome.Contig) ([]MotifMethylationDegree, []MotifMethylationPositions, error) {
	var degrees []MotifMethylationDegree
	var positions []MotifMethylationPositions

	for _, m := range c.Motifs {
		var total uint32
		var obs []hitObservation

		for _, strand := range []motif.Strand{motif.Positive, motif.Negative} {
			occ := occurrencesForStrand(contig, m, strand)
			for _, p := range occ {
				total++
				cov, ok := contig.Coverage(p, strand, m.ModType)
				if !ok {
					continue
				}
				obs = append(obs, hitObservation{position: p, strand: strand, nModified: cov.NModified, nValidCov: cov.NValidCov})
			}
		}

		if c.Mode == Raw {
			for _, o := range obs {
				positions = append(positions, MotifMethylationPositions{
					Contig:    contig.ID,
					Start:     o.position,
					Strand:    o.strand,
					Motif:     m,
					NModified: o.nModified,
					NValidCov: o.nValidCov,
				})
			}
			continue
		}

		degrees = append(degrees, summarize(contig.ID, m, total, obs, c.Mode))
	}

	return degrees, positions, nil
}

type hitObservation struct {
	position  int
	strand    motif.Strand
	nModified uint32
	nValidCov uint32
}

// occurrencesForStrand returns motif occurrence positions restricted to
// one strand, in ascending position order.
func occurrencesForStrand(contig *genome.Contig, m motif.Motif, strand motif.Strand) []int {
	occ := motif.FindOccurrences(contig.Sequence, m)
	out := make([]int, 0, len(occ))
	for _, o := range occ {
		if o.Strand == strand {
			out = append(out, o.Position)
		}
	}
	sort.Ints(out)
	return out
}

func summarize(contigID string, m motif.Motif, total uint32, obs []hitObservation, mode Mode) MotifMethylationDegree {
	n := uint32(len(obs))
	if n == 0 {
		return MotifMethylationDegree{Contig: contigID, Motif: m, MotifOccurrencesTotal: total}
	}

	var sumValidCov, sumModified uint64
	fractions := make([]float64, len(obs))
	for i, o := range obs {
		sumValidCov += uint64(o.nValidCov)
		sumModified += uint64(o.nModified)
		fractions[i] = fractionModified(o.nModified, o.nValidCov)
	}

	meanReadCov := float64(sumValidCov) / float64(n)

	var value float64
	switch mode {
	case WeightedMean:
		if sumValidCov > 0 {
			value = float64(sumModified) / float64(sumValidCov)
		}
	default: // Median
		value = median(fractions)
	}

	return MotifMethylationDegree{
		Contig:                contigID,
		Motif:                 m,
		Value:                 value,
		MeanReadCov:           meanReadCov,
		NMotifObs:             n,
		MotifOccurrencesTotal: total,
	}
}

func fractionModified(nModified, nValidCov uint32) float64 {
	if nValidCov == 0 {
		return 0
	}
	return float64(nModified) / float64(nValidCov)
}
