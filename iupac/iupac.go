// Package iupac implements the IUPAC nucleotide ambiguity alphabet as a
// 4-bit mask over {A,C,G,T}, and the matching rules motif search and motif
// clustering are built on.
package iupac

import "github.com/pkg/errors"

// Mask is the set of concrete nucleotides an IUPAC symbol may represent,
// packed one bit per base: A=0001, C=0010, G=0100, T=1000.
type Mask uint8

const (
	MaskA Mask = 1 << iota
	MaskC
	MaskG
	MaskT
)

// MaskAny is the mask of the fully ambiguous symbol N.
const MaskAny = MaskA | MaskC | MaskG | MaskT

// Base is a single IUPAC symbol.
type Base struct {
	sym  byte
	mask Mask
}

// Mask returns the set of concrete nucleotides b may represent.
func (b Base) Mask() Mask { return b.mask }

// Symbol returns the one-letter IUPAC code for b.
func (b Base) Symbol() byte { return b.sym }

func (b Base) String() string { return string(b.sym) }

// Matches reports whether b and other share at least one concrete
// nucleotide.
func (b Base) Matches(other Base) bool {
	return b.mask&other.mask != 0
}

// table maps every supported IUPAC symbol to its mask. Built once at package
// init so From/maskToSymbol lookups are simple map reads.
var table = map[byte]Mask{
	'A': MaskA,
	'C': MaskC,
	'G': MaskG,
	'T': MaskT,
	'R': MaskA | MaskG,
	'Y': MaskC | MaskT,
	'S': MaskG | MaskC,
	'W': MaskA | MaskT,
	'K': MaskG | MaskT,
	'M': MaskA | MaskC,
	'B': MaskC | MaskG | MaskT,
	'D': MaskA | MaskG | MaskT,
	'H': MaskA | MaskC | MaskT,
	'V': MaskA | MaskC | MaskG,
	'N': MaskAny,
}

var maskToSymbol = func() map[Mask]byte {
	m := make(map[Mask]byte, len(table))
	for sym, mask := range table {
		m[mask] = sym
	}
	return m
}()

// From returns the Base for a single IUPAC symbol (case-insensitive).
func From(sym byte) (Base, error) {
	if sym >= 'a' && sym <= 'z' {
		sym -= 'a' - 'A'
	}
	mask, ok := table[sym]
	if !ok {
		return Base{}, errors.Errorf("iupac: unrecognized symbol %q", rune(sym))
	}
	return Base{sym: sym, mask: mask}, nil
}

// MustFrom is From, panicking on error. Intended for const-like call sites
// (e.g. complement tables) where the symbol is known good at compile time.
func MustFrom(sym byte) Base {
	b, err := From(sym)
	if err != nil {
		panic(err)
	}
	return b
}

// FromNucleotides returns the narrowest IUPAC symbol whose mask equals the
// union of the given concrete nucleotides. An empty set is an error.
func FromNucleotides(masks Mask) (Base, error) {
	if masks == 0 {
		return Base{}, errors.New("iupac: cannot derive a symbol from an empty nucleotide set")
	}
	sym, ok := maskToSymbol[masks]
	if !ok {
		// masks is a union of unions (e.g. built incrementally); normalize to
		// its bit set and look up again.
		sym, ok = maskToSymbol[masks&MaskAny]
		if !ok {
			return Base{}, errors.Errorf("iupac: no symbol covers nucleotide set %04b", masks)
		}
	}
	return Base{sym: sym, mask: masks & MaskAny}, nil
}

// complementMask maps each concrete base's mask bit to its complementary bit.
// A<->T, C<->G. Ambiguous masks complement bit-by-bit.
func complementMask(m Mask) Mask {
	var out Mask
	if m&MaskA != 0 {
		out |= MaskT
	}
	if m&MaskT != 0 {
		out |= MaskA
	}
	if m&MaskC != 0 {
		out |= MaskG
	}
	if m&MaskG != 0 {
		out |= MaskC
	}
	return out
}

// Complement returns the Watson-Crick complement of b. The mask of an
// ambiguous symbol complements bit-by-bit (e.g. R=A|G complements to Y=C|T).
func (b Base) Complement() Base {
	cm := complementMask(b.mask)
	sym := maskToSymbol[cm]
	return Base{sym: sym, mask: cm}
}

// N is the fully ambiguous base.
var N = MustFrom('N')
