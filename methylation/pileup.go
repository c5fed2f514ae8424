package methylation

import (
	"strconv"
	"strings"

	"github.com/SebastianDall/epimetheus/motif"
	"github.com/pkg/errors"
)

// PileupRecord is one line of the modkit pileup BED: 18 tab-delimited
// fields, per spec.md §3.
type PileupRecord struct {
	Contig          string
	Start           uint32
	End              uint32
	ModType         motif.ModType
	Score           uint32
	Strand          motif.Strand
	StartPos        uint32
	EndPos          uint32
	Color           string
	NValidCov       uint32
	FractionMod     float64
	NModified       uint32
	NCanonical      uint32
	NOtherMod       uint32
	NDelete         uint32
	NFail           uint32
	NDiff           uint32
	NNoCall         uint32
}

const pileupFieldCount = 18

func parseStrand(s string) (motif.Strand, error) {
	switch s {
	case "+":
		return motif.Positive, nil
	case "-":
		return motif.Negative, nil
	default:
		return 0, errors.Errorf("methylation: unrecognized strand %q", s)
	}
}

func parseUint32(s, field string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "methylation: invalid %s field %q", field, s)
	}
	return uint32(v), nil
}

// ParsePileupLine tab-splits line and constructs a PileupRecord. A wrong
// field count or an unparseable field is a fatal parse error (spec.md §4.2,
// §7 "Input malformed").
func ParsePileupLine(line string) (PileupRecord, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != pileupFieldCount {
		return PileupRecord{}, errors.Errorf(
			"methylation: expected %d tab-delimited fields, got %d", pileupFieldCount, len(fields))
	}

	var r PileupRecord
	var err error
	r.Contig = fields[0]
	if r.Start, err = parseUint32(fields[1], "start"); err != nil {
		return PileupRecord{}, err
	}
	if r.End, err = parseUint32(fields[2], "end"); err != nil {
		return PileupRecord{}, err
	}
	if r.ModType, err = motif.ModTypeFromPileupCode(fields[3]); err != nil {
		return PileupRecord{}, errors.Wrap(err, "methylation: invalid mod_type field")
	}
	if r.Score, err = parseUint32(fields[4], "score"); err != nil {
		return PileupRecord{}, err
	}
	if r.Strand, err = parseStrand(fields[5]); err != nil {
		return PileupRecord{}, err
	}
	if r.StartPos, err = parseUint32(fields[6], "start_pos"); err != nil {
		return PileupRecord{}, err
	}
	if r.EndPos, err = parseUint32(fields[7], "end_pos"); err != nil {
		return PileupRecord{}, err
	}
	r.Color = fields[8]
	if r.NValidCov, err = parseUint32(fields[9], "n_valid_cov"); err != nil {
		return PileupRecord{}, err
	}
	if r.FractionMod, err = strconv.ParseFloat(fields[10], 64); err != nil {
		return PileupRecord{}, errors.Wrapf(err, "methylation: invalid fraction_modified field %q", fields[10])
	}
	if r.NModified, err = parseUint32(fields[11], "n_modified"); err != nil {
		return PileupRecord{}, err
	}
	if r.NCanonical, err = parseUint32(fields[12], "n_canonical"); err != nil {
		return PileupRecord{}, err
	}
	if r.NOtherMod, err = parseUint32(fields[13], "n_other_mod"); err != nil {
		return PileupRecord{}, err
	}
	if r.NDelete, err = parseUint32(fields[14], "n_delete"); err != nil {
		return PileupRecord{}, err
	}
	if r.NFail, err = parseUint32(fields[15], "n_fail"); err != nil {
		return PileupRecord{}, err
	}
	if r.NDiff, err = parseUint32(fields[16], "n_diff"); err != nil {
		return PileupRecord{}, err
	}
	if r.NNoCall, err = parseUint32(fields[17], "n_no_call"); err != nil {
		return PileupRecord{}, err
	}
	return r, nil
}

// Filter holds the coverage/quality thresholds from spec.md §4.3.
type Filter struct {
	MinValidReadCoverage     uint32
	MinValidCovToDiffFraction float64
}

// Apply filters a PileupRecord into a Record. It returns (rec, true) when
// kept, or (Record{}, false) when the record is dropped by the coverage or
// valid/diff-fraction thresholds. n_valid_cov == 0 is always dropped
// (0/0 is treated as 0, per spec.md's Open Questions resolution).
func (f Filter) Apply(contig string, r PileupRecord) (Record, bool, error) {
	if r.NValidCov == 0 || r.NValidCov < f.MinValidReadCoverage {
		return Record{}, false, nil
	}
	denom := r.NValidCov + r.NDiff
	var frac float64
	if denom > 0 {
		frac = float64(r.NValidCov) / float64(denom)
	}
	if frac < f.MinValidCovToDiffFraction {
		return Record{}, false, nil
	}
	cov, err := NewCoverage(r.NModified, r.NValidCov)
	if err != nil {
		return Record{}, false, err
	}
	return Record{
		Contig:   contig,
		Position: int(r.Start),
		Strand:   r.Strand,
		ModType:  r.ModType,
		Coverage: cov,
	}, true, nil
}
