// Package methylation models a single modkit pileup record, filters it into
// a MethylationCoverage/MethylationRecord pair, and implements the coverage
// and quality constraints from spec.md §4.3.
package methylation

import "github.com/pkg/errors"

// Coverage is a (n_modified, n_valid_cov) pair with the invariant
// n_modified <= n_valid_cov.
type Coverage struct {
	NModified  uint32
	NValidCov  uint32
}

// NewCoverage validates and constructs a Coverage.
func NewCoverage(nModified, nValidCov uint32) (Coverage, error) {
	if nModified > nValidCov {
		return Coverage{}, errors.Errorf(
			"methylation: invalid coverage: n_valid_cov (%d) cannot be less than n_modified (%d)",
			nValidCov, nModified)
	}
	return Coverage{NModified: nModified, NValidCov: nValidCov}, nil
}

// FractionModified returns n_modified / n_valid_cov, or 0 when n_valid_cov
// is 0 (such records are filtered out before construction in practice, but
// the method stays total to avoid a NaN escaping into summary statistics).
func (c Coverage) FractionModified() float64 {
	if c.NValidCov == 0 {
		return 0
	}
	return float64(c.NModified) / float64(c.NValidCov)
}
