// Package project implements the projection engine: for
// each surviving record, build a freshly allocated OwnedRecord holding
// only the fields the query's projection expressions compute, detached
// from the input scratch buffer's lifetime. OwnedRecord.Marshal
// re-serializes a projected record back to ISO 2709 bytes.
package project

import (
	"github.com/adrianN/marcql/internal/bytesutil"
	"github.com/adrianN/marcql/marc"
	"github.com/cockroachdb/errors"
)

// OwnedRecord is a record built by projection: its leader bytes and
// every field's data are independently allocated, so it outlives the
// scratch buffer its source fields were read from.
type OwnedRecord struct {
	Status     byte
	RecordType byte
	CharCoding byte
	Fields     []marc.Field
}

// NewOwnedRecord starts an empty record, carrying forward the leader
// bytes (status, raw record-type byte, character coding) of the
// record it's projected from.
func NewOwnedRecord(status, recordType, charCoding byte) *OwnedRecord {
	return &OwnedRecord{Status: status, RecordType: recordType, CharCoding: charCoding}
}

// AddField appends one field, copying data so the result doesn't alias
// the source buffer.
func (r *OwnedRecord) AddField(tag int, data []byte) {
	owned := append([]byte(nil), data...)
	r.Fields = append(r.Fields, marc.Field{Tag: tag, Data: owned})
}

// Iter is the subset of field.Iter that AddFromIter needs; any
// field.Iter or *marc.FieldIter satisfies it.
type Iter interface {
	Next() (marc.Field, bool, error)
}

// AddFromIter drains it, appending every field it yields in order.
func (r *OwnedRecord) AddFromIter(it Iter) error {
	for {
		f, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		r.AddField(f.Tag, f.Data)
	}
}

// length computes the record's total byte length once marshaled: the
// leader, one 12-byte directory entry per field plus the directory's
// own closing terminator, and each field's data plus its terminator.
//
// A naive sizeof(leader) + 12*field_count + sum(len(data)+1) formula
// omits the directory's closing 0x1E, which would make the declared
// length one byte short of what Marshal actually writes and break
// round-trip decoding through marc.View. This implementation includes
// that byte, since every other record in this codebase carries one.
func (r *OwnedRecord) length() int {
	dataLen := 0
	for _, f := range r.Fields {
		dataLen += len(f.Data) + 1
	}
	return marc.LeaderSize + marc.DirEntrySize*len(r.Fields) + 1 + dataLen
}

// Marshal serializes the record to ISO 2709 bytes: leader, directory,
// payload, with the leader's length prefix recomputed from the
// record's current contents.
func (r *OwnedRecord) Marshal() ([]byte, error) {
	total := r.length()

	leader := make([]byte, marc.LeaderSize)
	for i := range leader {
		leader[i] = ' '
	}
	leader[5] = r.Status
	leader[6] = r.RecordType
	leader[9] = r.CharCoding
	if err := bytesutil.PutDigits5(leader[0:5], total); err != nil {
		return nil, errors.Wrapf(err, "project: record length %d doesn't fit in 5 digits", total)
	}

	var directory []byte
	var payload []byte
	offset := 0
	for _, f := range r.Fields {
		data := append(append([]byte(nil), f.Data...), marc.FieldTerminator)

		entry := make([]byte, marc.DirEntrySize)
		if err := bytesutil.PutDigits3(entry[0:3], f.Tag); err != nil {
			return nil, errors.Wrapf(err, "project: tag %d doesn't fit in 3 digits", f.Tag)
		}
		if err := bytesutil.PutDigits4(entry[3:7], len(data)); err != nil {
			return nil, errors.Wrapf(err, "project: field length %d doesn't fit in 4 digits", len(data))
		}
		if err := bytesutil.PutDigits5(entry[7:12], offset); err != nil {
			return nil, errors.Wrapf(err, "project: field offset %d doesn't fit in 5 digits", offset)
		}
		directory = append(directory, entry...)
		payload = append(payload, data...)
		offset += len(data)
	}
	directory = append(directory, marc.FieldTerminator)

	out := make([]byte, 0, total)
	out = append(out, leader...)
	out = append(out, directory...)
	out = append(out, payload...)
	return out, nil
}
