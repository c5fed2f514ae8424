package cluster

import "github.com/SebastianDall/epimetheus/motif"

// sentinelDistance stands in for "infinite" when two motifs differ in both
// mod_position alignment and length (spec.md §4.7 case 4): any real
// threshold used by callers is well below it.
const sentinelDistance = 100

// editDistance computes the motif edit distance of spec.md §4.7, defined
// only for motifs sharing the same mod_type; callers must check that
// themselves (relatedness checks in cluster.go do).
func editDistance(a, b motif.Motif) int {
	delta := a.ModPosition - b.ModPosition
	lenDiff := len(a.Sequence) - len(b.Sequence)

	switch {
	case delta == 0 && lenDiff == 0:
		return hamming(a, b)

	case delta == 0:
		if lenDiff > 0 {
			b = b.ExtendWithN(lenDiff)
		} else {
			a = a.ExtendWithN(-lenDiff)
		}
		return hamming(a, b)

	case lenDiff == 0:
		offset := delta
		if offset < 0 {
			offset = -offset
		}
		if delta > 0 {
			b = b.PrependN(offset)
			a = a.ExtendWithN(offset)
		} else {
			a = a.PrependN(offset)
			b = b.ExtendWithN(offset)
		}
		return hamming(a, b) + offset

	default:
		return sentinelDistance
	}
}

// hamming counts positions where the two motifs' IUPAC masks do not
// intersect. a and b must already have equal sequence length.
func hamming(a, b motif.Motif) int {
	d := 0
	for i := range a.Sequence {
		if a.Sequence[i].Mask()&b.Sequence[i].Mask() == 0 {
			d++
		}
	}
	return d
}

// related reports whether a and b should be unioned into the same cluster:
// same mod_type, and either one is a child motif of the other or their
// edit distance is at most 1 (spec.md §4.7 step 2).
func related(a, b motif.Motif) bool {
	if a.ModType != b.ModType {
		return false
	}
	if a.IsChildMotif(b) || b.IsChildMotif(a) {
		return true
	}
	return editDistance(a, b) <= 1
}
