package pattern

import (
	"sort"

	"github.com/SebastianDall/epimetheus/batch"
	"github.com/SebastianDall/epimetheus/genome"
)

// ProcessWorkspace computes the methylation pattern for every contig in ws,
// fanning the per-contig work out across workers using batch.Pool (spec.md
// §5: "contigs of a workspace can be processed in parallel; motifs and
// strands inside a single contig are processed in the assigned order").
// The returned slices preserve ws's contig order; sorting by contig id for
// final output is the caller's responsibility (cmd/epimetheus calls
// SortDegrees/SortPositions once all batches are merged, before tsvout
// writes them).
func ProcessWorkspace(ws *genome.Workspace, c *Calculator, workers int) ([]MotifMethylationDegree, []MotifMethylationPositions, error) {
	contigs := ws.Contigs()
	degreesByContig := make([][]MotifMethylationDegree, len(contigs))
	positionsByContig := make([][]MotifMethylationPositions, len(contigs))

	pool := batch.NewPool(workers)
	err := pool.Run(len(contigs), func(_ int, i int) error {
		degrees, positions, err := c.Contig(contigs[i])
		if err != nil {
			return err
		}
		degreesByContig[i] = degrees
		positionsByContig[i] = positions
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var degrees []MotifMethylationDegree
	var positions []MotifMethylationPositions
	for i := range contigs {
		degrees = append(degrees, degreesByContig[i]...)
		positions = append(positions, positionsByContig[i]...)
	}
	return degrees, positions, nil
}

// SortDegrees sorts degrees by contig id, then motif string, then
// mod_position, matching spec.md §6's output ordering.
func SortDegrees(degrees []MotifMethylationDegree) {
	sort.SliceStable(degrees, func(i, j int) bool {
		a, b := degrees[i], degrees[j]
		if a.Contig != b.Contig {
			return a.Contig < b.Contig
		}
		if as, bs := a.Motif.String(), b.Motif.String(); as != bs {
			return as < bs
		}
		return a.Motif.ModPosition < b.Motif.ModPosition
	})
}

// SortPositions sorts raw-mode rows by contig id, then motif string, then
// mod_position, then start ascending, matching spec.md §6.
func SortPositions(positions []MotifMethylationPositions) {
	sort.SliceStable(positions, func(i, j int) bool {
		a, b := positions[i], positions[j]
		if a.Contig != b.Contig {
			return a.Contig < b.Contig
		}
		if as, bs := a.Motif.String(), b.Motif.String(); as != bs {
			return as < bs
		}
		if a.Motif.ModPosition != b.Motif.ModPosition {
			return a.Motif.ModPosition < b.Motif.ModPosition
		}
		return a.Start < b.Start
	})
}
