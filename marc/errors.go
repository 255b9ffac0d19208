package marc

import "github.com/cockroachdb/errors"

// Sentinel error kinds. Call sites wrap these with errors.Wrapf to
// attach position/context while keeping errors.Is identity intact.
var (
	// ErrUnsupportedRecordType: leader byte 6 names a record type the
	// core doesn't decode (only 'z', Authority, is supported).
	ErrUnsupportedRecordType = errors.New("marc: unsupported record type")

	// ErrBadFraming: a digit field held a non-digit byte, a directory
	// or field entry ran past its bounds, or a mandatory delimiter
	// (0x1E) was missing.
	ErrBadFraming = errors.New("marc: bad framing")

	// ErrRecordTooLarge: a single record's length exceeds the caller's
	// scratch buffer. The caller must retry the query with a bigger
	// buffer.
	ErrRecordTooLarge = errors.New("marc: record exceeds scratch buffer")

	// ErrInternalInvariant: a broken internal assumption. Always a bug.
	ErrInternalInvariant = errors.New("marc: internal invariant violated")
)
