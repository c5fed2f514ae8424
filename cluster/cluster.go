// Package cluster implements motif clustering: collapsing motifs that are
// provably redundant (one a modification-aligned sub-motif of another) or
// near-duplicates (edit distance <= 1) into a single representative motif,
// grounded on motif_clustering/mod.rs's union-find shape and generalized to
// spec.md §4.7's full edit-distance definition.
package cluster

import (
	"github.com/SebastianDall/epimetheus/iupac"
	"github.com/SebastianDall/epimetheus/motif"
	"github.com/pkg/errors"
)

// Representative is one collapsed cluster: the chosen (or newly widened)
// motif standing in for every motif in Members.
type Representative struct {
	Motif   motif.Motif
	Members []motif.Motif
}

// Cluster groups motifs per spec.md §4.7 and returns one Representative per
// resulting (sub-)cluster.
func Cluster(motifs []motif.Motif) ([]Representative, error) {
	var reps []Representative
	for _, group := range groupMotifs(motifs) {
		groupReps, err := representativesForCluster(group)
		if err != nil {
			return nil, err
		}
		reps = append(reps, groupReps...)
	}
	return reps, nil
}

// groupMotifs unions related motifs and returns each resulting cluster as a
// slice, in order of each cluster's first-seen member.
func groupMotifs(motifs []motif.Motif) [][]motif.Motif {
	n := len(motifs)
	uf := newUnionFind(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if related(motifs[i], motifs[j]) {
				uf.union(i, j)
			}
		}
	}

	order := make([]int, 0, n)
	byRoot := make(map[int][]motif.Motif)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		if _, seen := byRoot[root]; !seen {
			order = append(order, root)
		}
		byRoot[root] = append(byRoot[root], motifs[i])
	}

	groups := make([][]motif.Motif, 0, len(order))
	for _, root := range order {
		groups = append(groups, byRoot[root])
	}
	return groups
}

// representativesForCluster picks the minimum-length motif(s) of a cluster
// as its representative. A single minimal motif is the representative
// outright; several tied minimal motifs are recursively clustered and each
// resulting sub-cluster of size > 1 is collapsed into one widened motif
// (spec.md §4.7 step 4).
func representativesForCluster(group []motif.Motif) ([]Representative, error) {
	minLen := len(group[0].Sequence)
	for _, m := range group[1:] {
		if len(m.Sequence) < minLen {
			minLen = len(m.Sequence)
		}
	}

	var minimal []motif.Motif
	for _, m := range group {
		if len(m.Sequence) == minLen {
			minimal = append(minimal, m)
		}
	}

	if len(minimal) == 1 {
		return []Representative{{Motif: minimal[0], Members: group}}, nil
	}

	var reps []Representative
	for _, sub := range groupMotifs(minimal) {
		if len(sub) == 1 {
			reps = append(reps, Representative{Motif: sub[0], Members: sub})
			continue
		}
		collapsed, err := collapse(sub)
		if err != nil {
			return nil, err
		}
		reps = append(reps, Representative{Motif: collapsed, Members: sub})
	}
	return reps, nil
}

// collapse widens each column of a tied, equal-length motif set to the
// IUPAC base covering the union of concrete nucleotides present in that
// column (spec.md §4.7 step 4). Every member must already agree on
// mod_type and mod_position; disagreement is a caller contract violation
// (spec.md §4.7 "Error cases").
func collapse(motifs []motif.Motif) (motif.Motif, error) {
	first := motifs[0]
	n := len(first.Sequence)
	for _, m := range motifs[1:] {
		if len(m.Sequence) != n {
			return motif.Motif{}, errors.Errorf("cluster: collapse set has motifs of differing length")
		}
		if m.ModType != first.ModType {
			return motif.Motif{}, errors.Errorf("cluster: collapse set disagrees on mod_type")
		}
		if m.ModPosition != first.ModPosition {
			return motif.Motif{}, errors.Errorf("cluster: collapse set disagrees on mod_position")
		}
	}

	seq := make(iupac.Sequence, n)
	for i := 0; i < n; i++ {
		var mask iupac.Mask
		for _, m := range motifs {
			mask |= m.Sequence[i].Mask()
		}
		base, err := iupac.FromNucleotides(mask)
		if err != nil {
			return motif.Motif{}, errors.Wrapf(err, "cluster: widening column %d", i)
		}
		seq[i] = base
	}

	return motif.New(seq, first.ModType, first.ModPosition)
}
