package project

import (
	"github.com/adrianN/marcql/marc"
	"github.com/adrianN/marcql/query/field"
)

// Projection is an ordered list of field expressions; applying it to a
// record yields the concatenation of each expression's field sequence,
// applied in order.
type Projection struct {
	Exprs []field.Expr
}

// New builds a Projection from the query's ordered FieldRef list.
func New(exprs []field.Expr) Projection {
	return Projection{Exprs: exprs}
}

// Apply projects every view in region (the True prefix produced by a
// filter.Partition call, or the whole batch when there's no WHERE
// clause) into a freshly allocated OwnedRecord, in the same order.
// Apply never looks at, and never produces, records outside region:
// projection does not reorder the batch and does not revisit the
// Null/False regions.
func (p Projection) Apply(region []marc.View) ([]*OwnedRecord, error) {
	out := make([]*OwnedRecord, len(region))
	for i, v := range region {
		rec := NewOwnedRecord(v.Status(), v.Bytes()[6], v.CharacterCoding())
		for _, expr := range p.Exprs {
			it, err := expr.Fields(v)
			if err != nil {
				return nil, err
			}
			if err := rec.AddFromIter(it); err != nil {
				return nil, err
			}
		}
		out[i] = rec
	}
	return out, nil
}
