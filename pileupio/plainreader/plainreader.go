// Package plainreader implements pileupio.LineSource over an uncompressed
// contig-grouped pileup BED file, following the bufio.Scanner idiom the
// teacher uses to stream FASTA text in pileup/common.go's LoadFa.
package plainreader

import (
	"bufio"
	"os"

	"github.com/SebastianDall/epimetheus/pileupio"
	"github.com/pkg/errors"
)

// Reader streams lines from an uncompressed pileup file.
type Reader struct {
	f       *os.File
	scanner *bufio.Scanner
}

// Open opens path for sequential line streaming.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "plainreader: opening %s", path)
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Reader{f: f, scanner: scanner}, nil
}

// Next implements pileupio.LineSource.
func (r *Reader) Next() (string, bool, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), true, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", false, errors.Wrap(err, "plainreader: reading line")
	}
	return "", false, nil
}

// Close implements pileupio.LineSource.
func (r *Reader) Close() error {
	return r.f.Close()
}

var _ pileupio.LineSource = (*Reader)(nil)
