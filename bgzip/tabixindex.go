package bgzip

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/pkg/errors"
)

// tabixBuilder accumulates chunk and linear-index data for a BGZF
// compressed, contig-grouped BED file and serializes it as a standard
// Tabix index (the ".tbi" format biogo/hts/tabix.ReadFrom already knows
// how to parse — see pileupio/bgzfreader). There is no pack example that
// builds a Tabix index, so the on-disk layout here is hand-rolled from the
// published format rather than guessed from a library API, the same way
// encoding/bam/index.go and gindex.go hand-roll ".bai"/".gbai" with
// encoding/binary instead of depending on an index-writer type.
type tabixBuilder struct {
	order   []string
	refs    map[string]*refIndex
}

type refIndex struct {
	bins     map[uint32][]bgzf.Chunk
	intervals []uint64 // virtual file offset of the first record overlapping each 16kb window
}

func newTabixBuilder() *tabixBuilder {
	return &tabixBuilder{refs: make(map[string]*refIndex)}
}

// addLine records one BED line's compressed byte span [begin, end) under
// the bin and linear-index window its coordinates fall into. Lines are
// tab-separated with contig, start, end in the first three columns
// (0-based, half-open — spec.md §6's pileup BED layout).
func (b *tabixBuilder) addLine(line string, begin, end bgzf.Offset) error {
	contig, start, stop, err := parseBEDCoords(line)
	if err != nil {
		return err
	}

	ref, ok := b.refs[contig]
	if !ok {
		ref = &refIndex{bins: make(map[uint32][]bgzf.Chunk)}
		b.refs[contig] = ref
		b.order = append(b.order, contig)
	}

	bin := uint32(reg2bin(start, stop))
	ref.bins[bin] = append(ref.bins[bin], bgzf.Chunk{Begin: begin, End: end})

	firstWindow := int(start >> tabixLinearShift)
	lastWindow := int((stop - 1) >> tabixLinearShift)
	if lastWindow < firstWindow {
		lastWindow = firstWindow
	}
	if lastWindow+1 > len(ref.intervals) {
		grown := make([]uint64, lastWindow+1)
		copy(grown, ref.intervals)
		ref.intervals = grown
	}
	voffset := virtualOffset(begin)
	for w := firstWindow; w <= lastWindow; w++ {
		if ref.intervals[w] == 0 || voffset < ref.intervals[w] {
			ref.intervals[w] = voffset
		}
	}
	return nil
}

func parseBEDCoords(line string) (contig string, start, stop int64, err error) {
	fields := strings.SplitN(line, "\t", 4)
	if len(fields) < 3 {
		return "", 0, 0, errors.Errorf("bgzip: line has fewer than 3 tab-separated columns: %q", line)
	}
	start, err = strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return "", 0, 0, errors.Wrapf(err, "bgzip: parsing start column in %q", line)
	}
	stop, err = strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return "", 0, 0, errors.Wrapf(err, "bgzip: parsing end column in %q", line)
	}
	return fields[0], start, stop, nil
}

// virtualOffset packs a bgzf.Offset into the 64-bit coffset<<16|uoffset
// form the Tabix binary format stores.
func virtualOffset(o bgzf.Offset) uint64 {
	return uint64(o.File)<<16 | uint64(o.Block)
}

// writeTo serializes the accumulated index in the standard Tabix binary
// layout: magic, header fields, null-terminated reference names, then per
// reference a binning index followed by a linear index.
func (b *tabixBuilder) writeTo(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString("TBI\x01")

	nRef := int32(len(b.order))
	writeInt32(&buf, nRef)
	writeInt32(&buf, tabixFormatGeneric|tabixFormatZeroBased) // preset: generic tab-delimited, 0-based coords
	writeInt32(&buf, 1) // col_seq
	writeInt32(&buf, 2) // col_beg
	writeInt32(&buf, 3) // col_end
	writeInt32(&buf, int32('#'))
	writeInt32(&buf, 0) // skip

	var names bytes.Buffer
	for _, name := range b.order {
		names.WriteString(name)
		names.WriteByte(0)
	}
	writeInt32(&buf, int32(names.Len()))
	buf.Write(names.Bytes())

	for _, contig := range b.order {
		ref := b.refs[contig]

		bins := make([]uint32, 0, len(ref.bins))
		for bin := range ref.bins {
			bins = append(bins, bin)
		}
		sort.Slice(bins, func(i, j int) bool { return bins[i] < bins[j] })

		writeInt32(&buf, int32(len(bins)))
		for _, bin := range bins {
			writeUint32(&buf, bin)
			chunks := ref.bins[bin]
			writeInt32(&buf, int32(len(chunks)))
			for _, c := range chunks {
				writeUint64(&buf, virtualOffset(c.Begin))
				writeUint64(&buf, virtualOffset(c.End))
			}
		}

		writeInt32(&buf, int32(len(ref.intervals)))
		for _, v := range ref.intervals {
			writeUint64(&buf, v)
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func writeInt32(buf *bytes.Buffer, v int32)   { binary.Write(buf, binary.LittleEndian, v) }
func writeUint32(buf *bytes.Buffer, v uint32) { binary.Write(buf, binary.LittleEndian, v) }
func writeUint64(buf *bytes.Buffer, v uint64) { binary.Write(buf, binary.LittleEndian, v) }

const (
	tabixFormatGeneric   = 0
	tabixFormatZeroBased = 0x10000
	tabixLinearShift     = 14 // 16kb linear-index windows
)

// reg2bin computes the UCSC/SAM binning-index bin for a 0-based, half-open
// interval [beg, end), with min_shift=14 and depth=5 — the same constants
// Tabix and BAM use.
func reg2bin(beg, end int64) int {
	end--
	switch {
	case beg>>14 == end>>14:
		return int(((1<<15)-1)/7 + (beg >> 14))
	case beg>>17 == end>>17:
		return int(((1<<12)-1)/7 + (beg >> 17))
	case beg>>20 == end>>20:
		return int(((1<<9)-1)/7 + (beg >> 20))
	case beg>>23 == end>>23:
		return int(((1<<6)-1)/7 + (beg >> 23))
	case beg>>26 == end>>26:
		return int(((1<<3)-1)/7 + (beg >> 26))
	default:
		return 0
	}
}
