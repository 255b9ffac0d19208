// Package marctest builds well-formed MARC 21 byte records for tests
// from (tag, data) pairs, rather than embedding binary fixtures whose
// 0x1E/0x1F framing bytes don't survive editors and diffs. The named
// fixtures below are sized and shaped to match a set of standard query
// scenarios shared across packages.
package marctest

import (
	"fmt"

	"github.com/adrianN/marcql/internal/bytesutil"
	"github.com/adrianN/marcql/marc"
)

// FieldSpec describes one field to bake into a record: a tag and its
// data, not including the trailing field terminator (added by BuildRecord).
type FieldSpec struct {
	Tag  int
	Data []byte
}

// F is a convenience constructor for a FieldSpec with string data.
func F(tag int, data string) FieldSpec {
	return FieldSpec{Tag: tag, Data: []byte(data)}
}

// BuildRecord assembles one MARC 21 record: a 24-byte leader, a
// directory (one 12-byte entry per field plus its terminator), and a
// payload (each field's data plus its terminator), with the leader's
// length prefix computed to match the assembled length. status and
// recordType land at leader[5] and leader[6]; charCoding lands at
// leader[9].
func BuildRecord(status, recordType, charCoding byte, fields []FieldSpec) []byte {
	var directory []byte
	var payload []byte
	offset := 0
	for _, f := range fields {
		data := make([]byte, 0, len(f.Data)+1)
		data = append(data, f.Data...)
		data = append(data, marc.FieldTerminator)

		entry := make([]byte, marc.DirEntrySize)
		if err := bytesutil.PutDigits3(entry[0:3], f.Tag); err != nil {
			panic(fmt.Sprintf("marctest: tag %d: %v", f.Tag, err))
		}
		if err := bytesutil.PutDigits4(entry[3:7], len(data)); err != nil {
			panic(fmt.Sprintf("marctest: field length for tag %d: %v", f.Tag, err))
		}
		if err := bytesutil.PutDigits5(entry[7:12], offset); err != nil {
			panic(fmt.Sprintf("marctest: field offset for tag %d: %v", f.Tag, err))
		}
		directory = append(directory, entry...)
		payload = append(payload, data...)
		offset += len(data)
	}
	directory = append(directory, marc.FieldTerminator)

	leader := make([]byte, marc.LeaderSize)
	for i := range leader {
		leader[i] = ' '
	}
	leader[5] = status
	leader[6] = recordType
	leader[9] = charCoding
	leader[10] = '2'
	leader[11] = '2'

	total := len(leader) + len(directory) + len(payload)
	if err := bytesutil.PutDigits5(leader[0:5], total); err != nil {
		panic(fmt.Sprintf("marctest: record length %d doesn't fit in 5 digits: %v", total, err))
	}

	record := make([]byte, 0, total)
	record = append(record, leader...)
	record = append(record, directory...)
	record = append(record, payload...)
	return record
}

// BuildFile concatenates records into a single byte stream in file order.
func BuildFile(records ...[]byte) []byte {
	var out []byte
	for _, r := range records {
		out = append(out, r...)
	}
	return out
}

// filler returns n distinct FieldSpecs starting at tag startTag, skipping
// any tag in avoid, each carrying a small distinguishing payload.
func filler(n, startTag int, avoid map[int]bool) []FieldSpec {
	specs := make([]FieldSpec, 0, n)
	tag := startTag
	for len(specs) < n {
		if !avoid[tag] {
			specs = append(specs, F(tag, fmt.Sprintf("filler-%d", tag)))
		}
		tag++
	}
	return specs
}

// AuthorityRecord builds the 18-field authority-type record used by
// several scenarios below, including the second record in a two-record
// file: eleven filler
// fields, a tag-150 heading containing "Integrierte" (for the regex
// scenario), five tag-42 fields, and one tag-700 field.
func AuthorityRecord() []byte {
	fields := filler(11, 1, map[int]bool{42: true, 700: true, 150: true})
	fields = append(fields, F(150, "aIntegrierte Schaltung"))
	for i := 0; i < 5; i++ {
		fields = append(fields, F(42, fmt.Sprintf("a%d", i)))
	}
	fields = append(fields, F(700, "aSome Author"))
	return BuildRecord('n', 'z', 'a', fields)
}

// BibliographicRecord builds the 44-field, tag-42-less record used by
// the first record in a two-record file and a record with no tag-42
// fields: forty-three filler
// fields plus a single tag-700 field. Its leader type byte names a
// record type the core doesn't decode; queries in these scenarios never
// filter on record type, so it's never decoded.
func BibliographicRecord() []byte {
	fields := filler(43, 200, map[int]bool{42: true, 700: true})
	fields = append(fields, F(700, "aAnother Author"))
	return BuildRecord(' ', 'a', 'a', fields)
}

// TwoRecordFile is the "two-record fixture" used across these tests: the
// bibliographic record (no tag 42) followed by the authority record
// (has tag 42), in that file order.
func TwoRecordFile() []byte {
	return BuildFile(BibliographicRecord(), AuthorityRecord())
}
