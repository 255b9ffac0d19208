package marc

import "github.com/cockroachdb/errors"

// RecordStatus enumerates the leader's status byte (leader[5]) for
// authority records.
type RecordStatus int

const (
	StatusUnknown RecordStatus = iota
	StatusIncreaseEncodingLevel
	StatusCorrected
	StatusDeleted
	StatusNew
	StatusObsolete
	StatusSplit
	StatusReplaced
)

func (s RecordStatus) String() string {
	switch s {
	case StatusIncreaseEncodingLevel:
		return "increase-encoding-level"
	case StatusCorrected:
		return "corrected"
	case StatusDeleted:
		return "deleted"
	case StatusNew:
		return "new"
	case StatusObsolete:
		return "obsolete"
	case StatusSplit:
		return "split"
	case StatusReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// RecordStatus decodes the leader's status byte. An unrecognized value
// is a framing error, the same policy RecordType applies to leader[6].
func (v View) RecordStatus() (RecordStatus, error) {
	switch v.buf[5] {
	case 'a':
		return StatusIncreaseEncodingLevel, nil
	case 'c':
		return StatusCorrected, nil
	case 'd':
		return StatusDeleted, nil
	case 'n':
		return StatusNew, nil
	case 'o':
		return StatusObsolete, nil
	case 's':
		return StatusSplit, nil
	case 'x':
		return StatusReplaced, nil
	default:
		return StatusUnknown, errors.Wrapf(ErrBadFraming, "unrecognized record status %q at leader byte 5", v.buf[5])
	}
}

// CodingScheme enumerates the leader's character coding byte
// (leader[9]): MARC-8 ('#') or Unicode ('a').
type CodingScheme int

const (
	CodingUnknown CodingScheme = iota
	CodingMarc8
	CodingUnicode
)

func (c CodingScheme) String() string {
	switch c {
	case CodingMarc8:
		return "marc-8"
	case CodingUnicode:
		return "unicode"
	default:
		return "unknown"
	}
}

// CodingScheme decodes the leader's character coding byte. Use
// CharacterCoding for the raw byte (projection carries it through
// unmodified either way).
func (v View) CodingScheme() (CodingScheme, error) {
	switch v.buf[9] {
	case '#':
		return CodingMarc8, nil
	case 'a':
		return CodingUnicode, nil
	default:
		return CodingUnknown, errors.Wrapf(ErrBadFraming, "unrecognized character coding %q at leader byte 9", v.buf[9])
	}
}
