// Package pileupiotest provides in-memory fakes of pileupio.LineSource and
// pileupio.IndexedSource for tests of the batch engine, so loader behavior
// can be exercised without real files.
package pileupiotest

import "github.com/SebastianDall/epimetheus/pileupio"

// LineSource is an in-memory pileupio.LineSource over a fixed slice of
// lines.
type LineSource struct {
	lines []string
	pos   int
}

// NewLineSource returns a LineSource yielding lines in order.
func NewLineSource(lines []string) *LineSource {
	return &LineSource{lines: lines}
}

func (s *LineSource) Next() (string, bool, error) {
	if s.pos >= len(s.lines) {
		return "", false, nil
	}
	line := s.lines[s.pos]
	s.pos++
	return line, true, nil
}

func (s *LineSource) Close() error { return nil }

// IndexedSource is an in-memory pileupio.IndexedSource backed by a
// per-contig slice of lines, in insertion order.
type IndexedSource struct {
	contigs []string
	byID    map[string][]string
}

// NewIndexedSource builds an IndexedSource from a contig-ordered map of
// lines. contigs fixes AvailableContigs' order.
func NewIndexedSource(contigs []string, byID map[string][]string) *IndexedSource {
	return &IndexedSource{contigs: contigs, byID: byID}
}

func (s *IndexedSource) AvailableContigs() ([]string, error) {
	out := make([]string, len(s.contigs))
	copy(out, s.contigs)
	return out, nil
}

func (s *IndexedSource) Query(contigID string) (pileupio.RecordIterator, error) {
	return &Iterator{lines: s.byID[contigID]}, nil
}

func (s *IndexedSource) Close() error { return nil }

var (
	_ pileupio.LineSource    = (*LineSource)(nil)
	_ pileupio.IndexedSource = (*IndexedSource)(nil)
	_ pileupio.RecordIterator = (*Iterator)(nil)
)

// Iterator is an in-memory pileupio.RecordIterator.
type Iterator struct {
	lines []string
	pos   int
}

func (it *Iterator) Next() (string, bool, error) {
	if it.pos >= len(it.lines) {
		return "", false, nil
	}
	line := it.lines[it.pos]
	it.pos++
	return line, true, nil
}

func (it *Iterator) Close() error { return nil }
