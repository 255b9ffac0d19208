// Package marc implements a zero-copy MARC 21 (ISO 2709) reader: record
// views over a caller-owned buffer, and a batch reader that pulls those
// views out of a streamed byte source.
package marc

import (
	"github.com/adrianN/marcql/internal/bytesutil"
	"github.com/cockroachdb/errors"
)

const (
	// LeaderSize is the fixed width of the MARC 21 leader.
	LeaderSize = 24

	// DirEntrySize is the fixed width of one directory entry.
	DirEntrySize = 12

	// FieldTerminator (0x1E) ends the directory and each field's data.
	FieldTerminator = 0x1E

	// SubfieldDelimiter (0x1F) separates subfields within a field.
	SubfieldDelimiter = 0x1F
)

// RecordType enumerates the MARC 21 record types this core understands.
type RecordType int

const (
	RecordTypeUnknown RecordType = iota
	RecordTypeAuthority
)

// String renders the record type for diagnostics.
func (t RecordType) String() string {
	switch t {
	case RecordTypeAuthority:
		return "authority"
	default:
		return "unknown"
	}
}

// DirEntry is one decoded directory entry: a tag plus its field's length
// and offset within the payload.
type DirEntry struct {
	Tag    int
	Length int
	Offset int
}

// Field is a borrowed (tag, data) pair. Data holds the field's content
// bytes without the trailing entry terminator. It aliases the scratch
// buffer backing the record view it came from and must not be retained
// past the next ReadBatch call.
type Field struct {
	Tag  int
	Data []byte
}

// IsControlField reports whether Tag names a MARC control field (00x),
// which carries no subfield structure.
func (f Field) IsControlField() bool {
	return f.Tag < 10
}

// View is an immutable, Copy-cheap window over exactly one record's
// bytes: a leader, a directory, and a payload. It contains only a slice
// header (a pointer and bounds) and must not outlive the scratch
// buffer it was built over.
type View struct {
	buf []byte
}

// NewView wraps buf, which must contain exactly one record's bytes
// (leader, directory, and payload), as a View. It performs no parsing;
// parsing happens lazily as the view's accessors are called, keeping
// the view itself a cheap-to-copy pointer-and-bounds value.
func NewView(buf []byte) View {
	return View{buf: buf}
}

// Bytes returns the record's raw bytes, exactly as stored.
func (v View) Bytes() []byte {
	return v.buf
}

// RecordLength decodes the leader's 5-digit record length.
func (v View) RecordLength() (int, error) {
	if len(v.buf) < 5 {
		return 0, errors.Wrapf(ErrBadFraming, "record shorter than a leader length field (%d bytes)", len(v.buf))
	}
	n, err := bytesutil.ParseDigits5(v.buf[0:5])
	if err != nil {
		return 0, errors.Wrapf(ErrBadFraming, "malformed leader length: %v", err)
	}
	return n, nil
}

// Status returns the leader's record status byte (leader[5]).
func (v View) Status() byte {
	return v.buf[5]
}

// RecordType decodes the leader's record type byte (leader[6]). Any
// value other than 'z' (Authority) is a fatal format error in the
// current core.
func (v View) RecordType() (RecordType, error) {
	switch v.buf[6] {
	case 'z':
		return RecordTypeAuthority, nil
	default:
		return RecordTypeUnknown, errors.Wrapf(ErrUnsupportedRecordType, "leader byte 6 = %q", v.buf[6])
	}
}

// CharacterCoding returns the leader's character coding byte (leader[9]):
// '#' for MARC-8, 'a' for Unicode.
func (v View) CharacterCoding() byte {
	return v.buf[9]
}

// directoryBounds locates the directory, which runs from byte 24 up to
// (but excluding) the field terminator that closes it.
func (v View) directoryBounds() (start, end int, err error) {
	start = LeaderSize
	if len(v.buf) < start {
		return 0, 0, errors.Wrapf(ErrBadFraming, "record shorter than the leader (%d bytes)", len(v.buf))
	}
	rel := bytesutil.IndexByte(v.buf[start:], FieldTerminator)
	if rel < 0 {
		return 0, 0, errors.Wrapf(ErrBadFraming, "missing directory terminator")
	}
	return start, start + rel, nil
}

// Directory decodes every directory entry, in file order.
func (v View) Directory() ([]DirEntry, error) {
	start, end, err := v.directoryBounds()
	if err != nil {
		return nil, err
	}
	dirLen := end - start
	if dirLen%DirEntrySize != 0 {
		return nil, errors.Wrapf(ErrBadFraming, "directory length %d is not a multiple of %d", dirLen, DirEntrySize)
	}
	n := dirLen / DirEntrySize
	entries := make([]DirEntry, n)
	for i := 0; i < n; i++ {
		e := v.buf[start+i*DirEntrySize : start+(i+1)*DirEntrySize]
		tag, err := bytesutil.ParseDigits3(e[0:3])
		if err != nil {
			return nil, errors.Wrapf(ErrBadFraming, "directory entry %d: malformed tag: %v", i, err)
		}
		length, err := bytesutil.ParseDigits4(e[3:7])
		if err != nil {
			return nil, errors.Wrapf(ErrBadFraming, "directory entry %d: malformed length: %v", i, err)
		}
		offset, err := bytesutil.ParseDigits5(e[7:12])
		if err != nil {
			return nil, errors.Wrapf(ErrBadFraming, "directory entry %d: malformed offset: %v", i, err)
		}
		entries[i] = DirEntry{Tag: tag, Length: length, Offset: offset}
	}
	return entries, nil
}

// payload returns the bytes following the directory and its terminator.
func (v View) payload() ([]byte, error) {
	_, end, err := v.directoryBounds()
	if err != nil {
		return nil, err
	}
	return v.buf[end+1:], nil
}

// FieldIter pulls fields out of a View in directory order, optionally
// filtered to a single tag: the directory is decoded once when the
// iterator is built, and each call to Next bounds-checks and slices out
// one more matching field.
type FieldIter struct {
	entries   []DirEntry
	payload   []byte
	idx       int
	tagFilter *int
}

// Fields returns an iterator over the view's fields. tagFilter, when
// non-nil, restricts iteration to entries whose Tag equals *tagFilter; a
// nil tagFilter yields every field.
func (v View) Fields(tagFilter *int) (*FieldIter, error) {
	entries, err := v.Directory()
	if err != nil {
		return nil, err
	}
	payload, err := v.payload()
	if err != nil {
		return nil, err
	}
	return &FieldIter{entries: entries, payload: payload, tagFilter: tagFilter}, nil
}

// Next returns the next matching field. The bool is false once
// iteration is exhausted; a non-nil error means the record's framing is
// corrupt (a directory entry's bounds exceed the payload).
func (it *FieldIter) Next() (Field, bool, error) {
	for it.idx < len(it.entries) {
		e := it.entries[it.idx]
		it.idx++
		if it.tagFilter != nil && e.Tag != *it.tagFilter {
			continue
		}
		if e.Length < 1 || e.Offset < 0 || e.Offset+e.Length > len(it.payload) {
			return Field{}, false, errors.Wrapf(ErrBadFraming, "field tag %d: offset %d length %d exceeds payload of %d bytes", e.Tag, e.Offset, e.Length, len(it.payload))
		}
		data := it.payload[e.Offset : e.Offset+e.Length]
		if data[len(data)-1] != FieldTerminator {
			return Field{}, false, errors.Wrapf(ErrBadFraming, "field tag %d: missing entry terminator", e.Tag)
		}
		return Field{Tag: e.Tag, Data: data[:len(data)-1]}, true, nil
	}
	return Field{}, false, nil
}

// FieldSlice collects every field matching tagFilter into a slice. Prefer
// FieldIter in hot paths; this is a convenience for callers (tests,
// small record counts) that want the whole slice at once.
func (v View) FieldSlice(tagFilter *int) ([]Field, error) {
	it, err := v.Fields(tagFilter)
	if err != nil {
		return nil, err
	}
	var out []Field
	for {
		f, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, f)
	}
}
