// Package fasta loads an assembly from FASTA text into the contig map the
// core consumes, adapted from encoding/fasta/fasta.go's eager unindexed
// scanner. Sequence characters are validated against the IUPAC alphabet
// (spec.md §6 "Input: assembly"); anything else is a parse error.
package fasta

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/SebastianDall/epimetheus/genome"
	"github.com/SebastianDall/epimetheus/iupac"
	"github.com/pkg/errors"
)

const bufferInitSize = 300 * 1024 * 1024

// Load reads FASTA text from r and returns one genome.Contig per record,
// keyed by contig id. If allow is non-empty, only contig ids present in allow are
// kept; everything else is read past and discarded.
func Load(r io.Reader, allow []string) (map[string]*genome.Contig, error) {
	var allowSet map[string]bool
	if len(allow) > 0 {
		allowSet = make(map[string]bool, len(allow))
		for _, id := range allow {
			allowSet[id] = true
		}
	}

	contigs := make(map[string]*genome.Contig)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferInitSize)

	var seqName string
	var seq strings.Builder
	flush := func() error {
		if seqName == "" {
			return nil
		}
		if allowSet != nil && !allowSet[seqName] {
			seq.Reset()
			return nil
		}
		parsed, err := iupac.ParseSequence(seq.String())
		if err != nil {
			return errors.Wrapf(err, "fasta: sequence %q", seqName)
		}
		if _, dup := contigs[seqName]; dup {
			return errors.Errorf("fasta: duplicate sequence name %q", seqName)
		}
		contigs[seqName] = genome.New(seqName, parsed)
		seq.Reset()
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			seqName = strings.Split(line[1:], " ")[0]
			continue
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "fasta: reading FASTA data")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(contigs) == 0 {
		return nil, errors.New("fasta: no sequences found")
	}
	return contigs, nil
}

// LoadFile opens path and loads it as FASTA text.
func LoadFile(path string, allow []string) (map[string]*genome.Contig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "fasta: opening %s", path)
	}
	defer f.Close()
	return Load(f, allow)
}
