package marc

import (
	"io"

	"github.com/cockroachdb/errors"
)

// Batch is a maximal prefix of records fitting in the current scratch
// buffer. Every View in Batch.Records aliases that buffer and must not
// be retained past the Reader's next ReadBatch call.
type Batch struct {
	Records []View
}

// Reader pulls batches of record views out of scratch buffers fed from a
// byte stream. Rather than seeking the source backward over a truncated
// tail, Reader works over a plain io.Reader: a truncated tail is
// retained internally and prepended to the next read, the natural fit
// for an unseekable, io.Reader-shaped source.
type Reader struct {
	src       io.Reader
	leftover  []byte
	exhausted bool
}

// NewReader wraps src. src is read sequentially and never rewound.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// ReadBatch fills scratch from the stream and returns the records that
// fit wholly within it, in file order. It returns (nil, nil) at a clean
// EOF (no more bytes, nothing left over). scratch is reused by the
// caller between calls; every View in the returned batch aliases it.
func (r *Reader) ReadBatch(scratch []byte) (*Batch, error) {
	n := copy(scratch, r.leftover)
	if n < len(r.leftover) {
		return nil, errors.Wrapf(ErrRecordTooLarge, "leftover bytes from the previous batch (%d) don't fit in a %d-byte scratch buffer", len(r.leftover), len(scratch))
	}

	m := 0
	if !r.exhausted {
		var err error
		m, err = io.ReadFull(r.src, scratch[n:])
		switch {
		case err == io.EOF || err == io.ErrUnexpectedEOF:
			r.exhausted = true
		case err != nil:
			return nil, errors.Wrap(err, "marc: reading batch")
		}
	}

	total := n + m
	if total == 0 {
		return nil, nil
	}

	var records []View
	i := 0
	for i+LeaderSize <= total {
		length, err := NewView(scratch[i:total]).RecordLength()
		if err != nil {
			return nil, err
		}
		if length < LeaderSize {
			// A record can never be shorter than its own leader; a view
			// this size would also walk off the leader's field bytes.
			return nil, errors.Wrapf(ErrBadFraming, "declared record length %d is shorter than a leader (%d bytes)", length, LeaderSize)
		}
		if length > len(scratch) {
			return nil, errors.Wrapf(ErrRecordTooLarge, "record of length %d exceeds scratch buffer of %d bytes", length, len(scratch))
		}
		if i+length > total {
			break
		}
		records = append(records, NewView(scratch[i:i+length]))
		i += length
	}

	tail := total - i
	if len(records) == 0 && tail == len(scratch) && !r.exhausted {
		// A full scratch buffer that yielded nothing can never make
		// progress; only possible when scratch is smaller than a leader.
		return nil, errors.Wrapf(ErrRecordTooLarge, "scratch buffer of %d bytes is too small to frame a record", len(scratch))
	}
	if tail > 0 && r.exhausted {
		if len(records) > 0 {
			// Surface the truncation on the *next* call: this batch's
			// records are still good.
			r.stashLeftover(scratch[i:total])
			return &Batch{Records: records}, nil
		}
		return nil, errors.Wrapf(io.ErrUnexpectedEOF, "marc: %d trailing bytes never formed a complete record", tail)
	}

	r.stashLeftover(scratch[i:total])
	return &Batch{Records: records}, nil
}

// stashLeftover copies tail into the reader's own backing array, since
// scratch belongs to the caller and will be overwritten on the next call.
func (r *Reader) stashLeftover(tail []byte) {
	r.leftover = append(r.leftover[:0], tail...)
}
