// Package field implements the two field-expression variants: FieldRef
// (a record-type/tag/subfield reference) and FieldTypeSelect (a fixed
// tag set used by projection shortcuts). Both compute a lazy field
// sequence over a marc.View.
package field

import (
	"sort"

	"github.com/adrianN/marcql/marc"
)

// Iter pulls fields one at a time, mirroring marc.FieldIter's shape so
// callers can range over either a record's raw fields or a computed
// field expression without caring which.
type Iter interface {
	Next() (marc.Field, bool, error)
}

// Expr computes a field sequence against a record.
type Expr interface {
	Fields(v marc.View) (Iter, error)
}

// emptyIter yields nothing. Used when a FieldRef's record-type
// constraint doesn't match.
type emptyIter struct{}

func (emptyIter) Next() (marc.Field, bool, error) { return marc.Field{}, false, nil }

// FieldRef is a (record_type?, tag?, subfield?) triple. Tag nil means
// "all tags" (the lexer's '*'). Subfield is carried for forward
// compatibility with subfield filtering, a documented extension point
// the current core doesn't implement, but is otherwise unused here.
type FieldRef struct {
	RecordType *marc.RecordType
	Tag        *int
	Subfield   *byte
}

// Fields implements Expr. If RecordType is set and the record's actual
// type doesn't match (including when the leader names an unsupported
// type), the reference yields the empty sequence rather than an error:
// a record-type constraint is a filter, not an assertion.
func (f FieldRef) Fields(v marc.View) (Iter, error) {
	if f.RecordType != nil {
		rt, err := v.RecordType()
		if err != nil || rt != *f.RecordType {
			return emptyIter{}, nil
		}
	}
	it, err := v.Fields(f.Tag)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// FieldTypeSelect yields every field whose tag is in Tags, in the
// record's native (directory) order, used by projection shortcuts that
// collapse several single-tag FieldRefs into one pass over the record.
type FieldTypeSelect struct {
	Tags []int
}

// NewFieldTypeSelect sorts and dedupes tags.
func NewFieldTypeSelect(tags []int) FieldTypeSelect {
	sorted := append([]int(nil), tags...)
	sort.Ints(sorted)
	out := sorted[:0]
	var last int
	haveLast := false
	for _, t := range sorted {
		if haveLast && t == last {
			continue
		}
		out = append(out, t)
		last, haveLast = t, true
	}
	return FieldTypeSelect{Tags: out}
}

func (s FieldTypeSelect) has(tag int) bool {
	i := sort.SearchInts(s.Tags, tag)
	return i < len(s.Tags) && s.Tags[i] == tag
}

func (s FieldTypeSelect) Fields(v marc.View) (Iter, error) {
	inner, err := v.Fields(nil)
	if err != nil {
		return nil, err
	}
	return &fieldSetIter{inner: inner, set: s}, nil
}

type fieldSetIter struct {
	inner *marc.FieldIter
	set   FieldTypeSelect
}

func (it *fieldSetIter) Next() (marc.Field, bool, error) {
	for {
		f, ok, err := it.inner.Next()
		if err != nil || !ok {
			return f, ok, err
		}
		if it.set.has(f.Tag) {
			return f, true, nil
		}
	}
}
