package motif

import (
	"github.com/SebastianDall/epimetheus/iupac"
	"github.com/pkg/errors"
)

// ModType is the closed set of base modifications a motif can describe.
// Represented as a tagged variant (not a magic string) per spec.md's
// sum-types-over-enumerations design note.
type ModType int

const (
	SixMA ModType = iota
	FiveMC
	FourMC
	FiveHMC
)

// PileupCode returns the canonical one-letter (or short) modkit pileup code
// for a ModType.
func (m ModType) PileupCode() string {
	switch m {
	case SixMA:
		return "a"
	case FiveMC:
		return "m"
	case FourMC:
		return "4mC"
	case FiveHMC:
		return "h"
	default:
		return "?"
	}
}

func (m ModType) String() string { return m.PileupCode() }

// ModTypeFromPileupCode parses a modkit pileup mod_type code.
func ModTypeFromPileupCode(code string) (ModType, error) {
	switch code {
	case "a":
		return SixMA, nil
	case "m":
		return FiveMC, nil
	case "4mC":
		return FourMC, nil
	case "h":
		return FiveHMC, nil
	default:
		return 0, errors.Errorf("motif: unrecognized modification code %q", code)
	}
}

// RequiredNucleotide returns the concrete nucleotide mask a motif's
// mod_position base must contain for this ModType: A for 6mA, C for the
// cytosine modifications.
func (m ModType) RequiredNucleotide() iupac.Mask {
	switch m {
	case SixMA:
		return iupac.MaskA
	default:
		return iupac.MaskC
	}
}
