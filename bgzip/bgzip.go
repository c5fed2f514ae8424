// Package bgzip implements the BGZF+Tabix writer contract of spec.md §6: it
// compresses a contig-grouped pileup BED into BGZF blocks and builds a
// companion Tabix index so bgzfreader can later random-access it.
// Grounded on epimetheus-support/src/bgzip/{writer,reader}.rs's three
// operations (compress, decompress, list contigs), reimplemented against
// github.com/biogo/hts/bgzf — the pack's pure-Go BGZF implementation,
// rather than the teacher's cgo-backed encoding/bgzf writer, since the
// domain needs a portable writer with no libdeflate/zlibng dependency.
package bgzip

import (
	"bufio"
	"compress/flate"
	"io"
	"os"

	"github.com/biogo/hts/bgzf"
	"github.com/pkg/errors"
)

// countingWriter tracks the number of bytes written to the underlying
// writer, giving us the compressed byte offset of the next BGZF block —
// the coffset half of a bgzf.Offset virtual file offset.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Compress reads a contig-grouped, tab-separated pileup BED from inPath and
// writes a BGZF-compressed copy to outPath plus a outPath+".tbi" Tabix
// index. Input rows for one contig must already be contiguous (spec.md
// §6); rows are not resorted.
func Compress(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return errors.Wrapf(err, "bgzip: opening %s", inPath)
	}
	defer in.Close()

	outFile, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "bgzip: creating %s", outPath)
	}
	defer outFile.Close()

	counter := &countingWriter{w: outFile}
	bw, err := bgzf.NewWriter(counter, flate.DefaultCompression)
	if err != nil {
		return errors.Wrap(err, "bgzip: initializing BGZF writer")
	}

	indexer := newTabixBuilder()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		begin := bgzf.Offset{File: counter.n}

		if _, err := bw.Write([]byte(line + "\n")); err != nil {
			return errors.Wrap(err, "bgzip: writing compressed record")
		}
		if err := bw.Flush(); err != nil {
			return errors.Wrap(err, "bgzip: flushing BGZF block")
		}
		end := bgzf.Offset{File: counter.n}

		if err := indexer.addLine(line, begin, end); err != nil {
			return errors.Wrap(err, "bgzip: indexing record")
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "bgzip: reading input")
	}
	if err := bw.Close(); err != nil {
		return errors.Wrap(err, "bgzip: closing BGZF writer")
	}

	tbiFile, err := os.Create(outPath + ".tbi")
	if err != nil {
		return errors.Wrapf(err, "bgzip: creating %s.tbi", outPath)
	}
	defer tbiFile.Close()
	if err := indexer.writeTo(tbiFile); err != nil {
		return errors.Wrap(err, "bgzip: writing Tabix index")
	}
	return nil
}

// Decompress reverses Compress, writing the plain BED text to outPath. It
// does not require the Tabix index.
func Decompress(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return errors.Wrapf(err, "bgzip: opening %s", inPath)
	}
	defer in.Close()

	reader, err := bgzf.NewReader(in, 1)
	if err != nil {
		return errors.Wrapf(err, "bgzip: reading BGZF header from %s", inPath)
	}
	defer reader.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "bgzip: creating %s", outPath)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if _, err := io.Copy(w, reader); err != nil {
		return errors.Wrap(err, "bgzip: decompressing")
	}
	return w.Flush()
}
