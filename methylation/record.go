package methylation

import "github.com/SebastianDall/epimetheus/motif"

// Record is a filtered methylation observation at one genomic position:
// which contig, where, which strand, which modification, and its coverage.
type Record struct {
	Contig   string
	Position int
	Strand   motif.Strand
	ModType  motif.ModType
	Coverage Coverage
}
