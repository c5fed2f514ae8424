// Package motif parses IUPAC motif definitions of the form SEQ_TYPE_POS
// (e.g. "GATC_a_1") and finds their occurrences in a contig sequence.
package motif

import (
	"strconv"
	"strings"

	"github.com/SebastianDall/epimetheus/iupac"
	"github.com/pkg/errors"
)

// Motif is a short IUPAC sequence with a designated modifiable base
// position. Two motifs are equal iff Sequence, ModType and ModPosition are
// all equal.
type Motif struct {
	Sequence    iupac.Sequence
	ModType     ModType
	ModPosition int
}

// New validates and constructs a Motif from its three components. The base
// at modPosition must contain the concrete nucleotide required by modType.
func New(seq iupac.Sequence, modType ModType, modPosition int) (Motif, error) {
	if len(seq) == 0 {
		return Motif{}, errors.New("motif: sequence must not be empty")
	}
	if modPosition < 0 || modPosition >= len(seq) {
		return Motif{}, errors.Errorf("motif: mod_position %d out of range [0,%d)", modPosition, len(seq))
	}
	required := modType.RequiredNucleotide()
	if seq[modPosition].Mask()&required == 0 {
		return Motif{}, errors.Errorf(
			"motif: mod_position %d base %q is incompatible with modification %s",
			modPosition, seq[modPosition], modType.PileupCode())
	}
	return Motif{Sequence: seq, ModType: modType, ModPosition: modPosition}, nil
}

// Parse parses a "SEQ_TYPE_POS" motif string, e.g. "GATC_a_1".
func Parse(s string) (Motif, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 {
		return Motif{}, errors.Errorf("motif: malformed motif string %q, want SEQ_TYPE_POS", s)
	}
	seq, err := iupac.ParseSequence(parts[0])
	if err != nil {
		return Motif{}, errors.Wrapf(err, "motif: invalid sequence in %q", s)
	}
	modType, err := ModTypeFromPileupCode(parts[1])
	if err != nil {
		return Motif{}, errors.Wrapf(err, "motif: invalid mod type in %q", s)
	}
	pos, err := strconv.Atoi(parts[2])
	if err != nil {
		return Motif{}, errors.Wrapf(err, "motif: invalid mod_position in %q", s)
	}
	return New(seq, modType, pos)
}

// ParseList parses a list of motif strings, failing on the first error.
func ParseList(strs []string) ([]Motif, error) {
	out := make([]Motif, 0, len(strs))
	for _, s := range strs {
		m, err := Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// SequenceString renders the motif's sequence as an ASCII string.
func (m Motif) SequenceString() string { return m.Sequence.String() }

func (m Motif) String() string {
	return m.SequenceString() + "_" + m.ModType.PileupCode() + "_" + strconv.Itoa(m.ModPosition)
}

// Equal reports whether m and other describe the same motif.
func (m Motif) Equal(other Motif) bool {
	if m.ModType != other.ModType || m.ModPosition != other.ModPosition {
		return false
	}
	if len(m.Sequence) != len(other.Sequence) {
		return false
	}
	for i := range m.Sequence {
		if m.Sequence[i] != other.Sequence[i] {
			return false
		}
	}
	return true
}

// ReverseComplement returns the motif describing the reverse-complement
// strand: the sequence is reverse-complemented, and mod_position is
// mirrored to len-1-mod_position.
func (m Motif) ReverseComplement() Motif {
	return Motif{
		Sequence:    m.Sequence.ReverseComplement(),
		ModType:     m.ModType,
		ModPosition: len(m.Sequence) - 1 - m.ModPosition,
	}
}

// IsChildMotif reports whether m's sequence fully matches a contiguous
// window of parent's sequence with the modified base aligned at the same
// absolute position, i.e. m is a (possibly shorter) sub-motif of parent.
func (m Motif) IsChildMotif(parent Motif) bool {
	if m.ModType != parent.ModType {
		return false
	}
	// Window start in parent's coordinates such that the modified bases
	// coincide: parentStart + m.ModPosition == parent.ModPosition.
	start := parent.ModPosition - m.ModPosition
	if start < 0 || start+len(m.Sequence) > len(parent.Sequence) {
		return false
	}
	for i, b := range m.Sequence {
		if b.Mask()&parent.Sequence[start+i].Mask() == 0 {
			return false
		}
	}
	return true
}

// ExtendWithN appends k copies of N to the end of the sequence, leaving
// mod_position unchanged.
func (m Motif) ExtendWithN(k int) Motif {
	seq := make(iupac.Sequence, len(m.Sequence)+k)
	copy(seq, m.Sequence)
	for i := len(m.Sequence); i < len(seq); i++ {
		seq[i] = iupac.N
	}
	return Motif{Sequence: seq, ModType: m.ModType, ModPosition: m.ModPosition}
}

// PrependN prepends k copies of N to the sequence, shifting mod_position by
// k so it continues to refer to the same base.
func (m Motif) PrependN(k int) Motif {
	seq := make(iupac.Sequence, len(m.Sequence)+k)
	for i := 0; i < k; i++ {
		seq[i] = iupac.N
	}
	copy(seq[k:], m.Sequence)
	return Motif{Sequence: seq, ModType: m.ModType, ModPosition: m.ModPosition + k}
}

// FindIndices returns every index i+mod_position such that for every offset
// j in [0, len(motif.Sequence)), sequence[i+j].Mask() & motif.Sequence[j].Mask()
// is non-zero. Results are in increasing order of i.
func FindIndices(sequence iupac.Sequence, m Motif) []int {
	motifLen := len(m.Sequence)
	var indices []int
	if len(sequence) < motifLen {
		return indices
	}
	for i := 0; i+motifLen <= len(sequence); i++ {
		match := true
		for j := 0; j < motifLen; j++ {
			if sequence[i+j].Mask()&m.Sequence[j].Mask() == 0 {
				match = false
				break
			}
		}
		if match {
			indices = append(indices, i+m.ModPosition)
		}
	}
	return indices
}

// Occurrence is one motif hit in a contig, labeled with the strand it was
// found on.
type Occurrence struct {
	Position int
	Strand   Strand
}

// FindOccurrences searches sequence for m on the + strand and for m's
// reverse complement on the - strand, returning all hits labeled by strand.
// Forward hits are emitted in ascending position order, followed by reverse
// hits in ascending position order.
func FindOccurrences(sequence iupac.Sequence, m Motif) []Occurrence {
	fwd := FindIndices(sequence, m)
	rev := FindIndices(sequence, m.ReverseComplement())
	out := make([]Occurrence, 0, len(fwd)+len(rev))
	for _, p := range fwd {
		out = append(out, Occurrence{Position: p, Strand: Positive})
	}
	for _, p := range rev {
		out = append(out, Occurrence{Position: p, Strand: Negative})
	}
	return out
}
