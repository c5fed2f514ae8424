// Package genome holds the assembly-derived Contig type and the
// per-batch GenomeWorkspace it is grouped into.
package genome

import (
	"github.com/SebastianDall/epimetheus/iupac"
	"github.com/SebastianDall/epimetheus/methylation"
	"github.com/SebastianDall/epimetheus/motif"
	"github.com/pkg/errors"
)

// methylationKey identifies one (position, strand, mod_type) slot in a
// Contig's methylation map.
type methylationKey struct {
	Position int
	Strand   motif.Strand
	ModType  motif.ModType
}

// Contig is one named sequence from the assembly, plus the methylation
// coverage observed at specific (position, strand, mod_type) keys.
type Contig struct {
	ID       string
	Sequence iupac.Sequence

	meth map[methylationKey]methylation.Coverage
}

// New constructs an empty Contig over the given sequence.
func New(id string, sequence iupac.Sequence) *Contig {
	return &Contig{ID: id, Sequence: sequence, meth: make(map[methylationKey]methylation.Coverage)}
}

// Clone returns a deep-enough copy of c suitable for a worker to fill
// independently: the sequence is shared (read-only and immutable), but the
// methylation map is a fresh, empty map of its own.
func (c *Contig) Clone() *Contig {
	return New(c.ID, c.Sequence)
}

// AddMethylationRecord attaches r's coverage to this contig, keyed by
// (position, strand, mod_type). A second coverage at the same key is a data
// error (spec.md §7, "duplicate coverage").
func (c *Contig) AddMethylationRecord(r methylation.Record) error {
	if r.Position < 0 || r.Position >= len(c.Sequence) {
		return errors.Errorf("genome: position %d out of range for contig %s (length %d)", r.Position, c.ID, len(c.Sequence))
	}
	key := methylationKey{Position: r.Position, Strand: r.Strand, ModType: r.ModType}
	if _, exists := c.meth[key]; exists {
		return errors.Errorf(
			"genome: duplicate methylation coverage for contig %s at position %d strand %s mod_type %s",
			c.ID, r.Position, r.Strand, r.ModType)
	}
	c.meth[key] = r.Coverage
	return nil
}

// Coverage looks up the coverage observed at one (position, strand,
// mod_type), returning (cov, true) if present.
func (c *Contig) Coverage(position int, strand motif.Strand, modType motif.ModType) (methylation.Coverage, bool) {
	cov, ok := c.meth[methylationKey{Position: position, Strand: strand, ModType: modType}]
	return cov, ok
}

// Len returns the contig's sequence length.
func (c *Contig) Len() int { return len(c.Sequence) }
