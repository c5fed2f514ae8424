// Package bgzfreader implements pileupio.IndexedSource over a BGZF-
// compressed pileup BED file with a companion Tabix index, using
// github.com/biogo/hts/bgzf and github.com/biogo/hts/tabix — the same
// domain dependency kortschak-ins pulls in for indexed random access to
// genomic files.
//
// A bgzf.Reader is single-consumer: it is not safe to Seek and Read from
// multiple goroutines at once. Callers that want per-contig parallelism
// must open one Source per worker (spec.md §5, §9 "Worker-local mutable
// state"); Source itself does no locking.
package bgzfreader

import (
	"bufio"
	"io"
	"os"

	"github.com/SebastianDall/epimetheus/pileupio"
	"github.com/biogo/hts/bgzf"
	"github.com/biogo/hts/tabix"
	"github.com/pkg/errors"
)

// Source is a BGZF+Tabix backed pileupio.IndexedSource. Each Source owns
// its own file handles and bgzf.Reader; it is not shared across workers.
type Source struct {
	path      string
	dataFile  *os.File
	reader    *bgzf.Reader
	index     *tabix.Index
	refNames  []string
}

// Open opens the BGZF pileup at path (expected to have a companion
// path+".tbi" Tabix index) for per-contig random access.
func Open(path string) (*Source, error) {
	dataFile, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "bgzfreader: opening %s", path)
	}
	reader, err := bgzf.NewReader(dataFile, 1)
	if err != nil {
		dataFile.Close()
		return nil, errors.Wrapf(err, "bgzfreader: reading BGZF header from %s", path)
	}

	indexPath := path + ".tbi"
	indexFile, err := os.Open(indexPath)
	if err != nil {
		dataFile.Close()
		return nil, errors.Wrapf(err, "bgzfreader: opening tabix index %s", indexPath)
	}
	defer indexFile.Close()

	gz, err := newGzipOrPlain(indexFile)
	if err != nil {
		dataFile.Close()
		return nil, errors.Wrapf(err, "bgzfreader: reading tabix index %s", indexPath)
	}
	idx, err := tabix.ReadFrom(gz)
	if err != nil {
		dataFile.Close()
		return nil, errors.Wrapf(err, "bgzfreader: parsing tabix index %s", indexPath)
	}

	return &Source{
		path:     path,
		dataFile: dataFile,
		reader:   reader,
		index:    idx,
		refNames: idx.Names(),
	}, nil
}

// newGzipOrPlain lets a .tbi index be read whether it is itself bgzip- or
// gzip-compressed (as htslib's tabix writes it) or plain bytes (as
// bgzip.Compress writes it).
func newGzipOrPlain(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := bgzf.NewReader(br, 1)
		if err != nil {
			return nil, err
		}
		return gz, nil
	}
	return br, nil
}

// AvailableContigs implements pileupio.IndexedSource.
func (s *Source) AvailableContigs() ([]string, error) {
	out := make([]string, len(s.refNames))
	copy(out, s.refNames)
	return out, nil
}

// Query implements pileupio.IndexedSource. It requests the full coordinate
// range for contigID so every record for that contig is returned regardless
// of the BED start/end columns the index was built on.
func (s *Source) Query(contigID string) (pileupio.RecordIterator, error) {
	chunks, err := s.index.Chunks(contigID, 0, maxTabixCoord)
	if err != nil {
		return nil, errors.Wrapf(err, "bgzfreader: querying %s", contigID)
	}
	return &Iterator{source: s, chunks: chunks}, nil
}

// maxTabixCoord is larger than any real contig length; used to request a
// whole-contig chunk range from the Tabix index.
const maxTabixCoord = 1 << 31

// Close implements pileupio.IndexedSource.
func (s *Source) Close() error {
	if err := s.reader.Close(); err != nil {
		s.dataFile.Close()
		return err
	}
	return s.dataFile.Close()
}

// Iterator streams the raw lines of one contig's BGZF chunks, stopping each
// chunk at its own virtual-offset end rather than relying on file EOF — a
// BGZF pileup file holds many contigs back to back, so reading past a
// chunk's end would spill into the next contig's lines.
type Iterator struct {
	source *Source
	chunks []bgzf.Chunk
	cur    int
	inside bool
}

// Next implements pileupio.RecordIterator.
func (it *Iterator) Next() (string, bool, error) {
	for {
		if it.cur >= len(it.chunks) {
			return "", false, nil
		}
		chunk := it.chunks[it.cur]
		if !it.inside {
			if err := it.source.reader.Seek(chunk.Begin); err != nil {
				return "", false, errors.Wrap(err, "bgzfreader: seeking to chunk")
			}
			it.inside = true
		}

		line, err := readLine(it.source.reader)
		if err == io.EOF {
			it.cur++
			it.inside = false
			if len(line) == 0 {
				continue
			}
			return line, true, nil
		}
		if err != nil {
			return "", false, errors.Wrap(err, "bgzfreader: reading chunk")
		}
		if !offsetLess(it.source.reader.LastChunk().End, chunk.End) {
			it.cur++
			it.inside = false
		}
		return line, true, nil
	}
}

// readLine reads one newline-terminated line (newline stripped) directly off
// r, a byte at a time: r is a bgzf.Reader, and wrapping it in a buffering
// reader would read ahead past the virtual offset LastChunk reports,
// defeating the chunk-end check above.
func readLine(r *bgzf.Reader) (string, error) {
	var buf []byte
	b := make([]byte, 1)
	for {
		n, err := r.Read(b)
		if n == 1 {
			if b[0] == '\n' {
				return string(buf), nil
			}
			buf = append(buf, b[0])
		}
		if err != nil {
			if err == io.EOF {
				return string(buf), io.EOF
			}
			return string(buf), err
		}
	}
}

// offsetLess reports whether a is strictly before b in virtual-offset order.
func offsetLess(a, b bgzf.Offset) bool {
	return uint64(a.File)<<16|uint64(a.Block) < uint64(b.File)<<16|uint64(b.Block)
}

// Close implements pileupio.RecordIterator.
func (it *Iterator) Close() error { return nil }

var (
	_ pileupio.IndexedSource  = (*Source)(nil)
	_ pileupio.RecordIterator = (*Iterator)(nil)
)
