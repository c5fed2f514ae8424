package iupac

import "github.com/pkg/errors"

// Sequence is an ordered run of IUPAC bases, e.g. a contig or a motif
// pattern.
type Sequence []Base

// ParseSequence converts an ASCII string over the IUPAC alphabet into a
// Sequence. An empty string or an unrecognized symbol is an error.
func ParseSequence(s string) (Sequence, error) {
	if len(s) == 0 {
		return nil, errors.New("iupac: empty sequence")
	}
	seq := make(Sequence, len(s))
	for i := 0; i < len(s); i++ {
		b, err := From(s[i])
		if err != nil {
			return nil, errors.Wrapf(err, "iupac: at position %d", i)
		}
		seq[i] = b
	}
	return seq, nil
}

// String renders the sequence back to its ASCII representation.
func (s Sequence) String() string {
	out := make([]byte, len(s))
	for i, b := range s {
		out[i] = b.Symbol()
	}
	return string(out)
}

// ReverseComplement returns the reverse complement of s.
func (s Sequence) ReverseComplement() Sequence {
	out := make(Sequence, len(s))
	n := len(s)
	for i, b := range s {
		out[n-1-i] = b.Complement()
	}
	return out
}

// Clone returns a copy of s, safe to mutate independently.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}
