package filter_test

import (
	"regexp"
	"testing"

	"github.com/adrianN/marcql/internal/marctest"
	"github.com/adrianN/marcql/marc"
	"github.com/adrianN/marcql/query/field"
	"github.com/adrianN/marcql/query/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagRef(tag int) field.FieldRef {
	t := tag
	return field.FieldRef{Tag: &t}
}

func TestRegexNode_MatchesAndNull(t *testing.T) {
	auth := marc.NewView(marctest.AuthorityRecord())
	n := filter.NewRegex(tagRef(150), regexp.MustCompile("Integrierte"))
	result, err := n.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, filter.True, result)

	noMatch := filter.NewRegex(tagRef(150), regexp.MustCompile("zzzNeverMatches"))
	result, err = noMatch.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, filter.False, result)

	absentTag := filter.NewRegex(tagRef(9999), regexp.MustCompile("x"))
	result, err = absentTag.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, filter.Null, result)
}

func TestIsNullNotNull(t *testing.T) {
	auth := marc.NewView(marctest.AuthorityRecord())
	bib := marc.NewView(marctest.BibliographicRecord())

	isNull42 := filter.NewIsNullField(tagRef(42))
	result, err := isNull42.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, filter.False, result) // authority HAS tag 42

	result, err = isNull42.Evaluate(bib)
	require.NoError(t, err)
	assert.Equal(t, filter.True, result) // bibliographic lacks tag 42

	notNull42 := filter.NewNotNull(isNull42)
	result, err = notNull42.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, filter.True, result)

	result, err = notNull42.Evaluate(bib)
	require.NoError(t, err)
	assert.Equal(t, filter.False, result)
}

func TestNot_DoubleNegationIdentity(t *testing.T) {
	auth := marc.NewView(marctest.AuthorityRecord())
	base := filter.NewRegex(tagRef(150), regexp.MustCompile("Integrierte"))
	doubled := filter.NewNot(filter.NewNot(base))

	want, err := base.Evaluate(auth)
	require.NoError(t, err)
	got, err := doubled.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAndOr_KleeneTables(t *testing.T) {
	auth := marc.NewView(marctest.AuthorityRecord())

	trueNode := filter.NewRegex(tagRef(150), regexp.MustCompile("Integrierte"))
	falseNode := filter.NewRegex(tagRef(150), regexp.MustCompile("zzzNope"))
	nullNode := filter.NewRegex(tagRef(9999), regexp.MustCompile("x"))

	and := filter.NewAnd(trueNode, falseNode)
	result, err := and.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, filter.False, result, "And(True, False) must be False")

	and2 := filter.NewAnd(trueNode, nullNode)
	result, err = and2.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, filter.True, result, "And(True, Null) must be True")

	and3 := filter.NewAnd(nullNode, nullNode)
	result, err = and3.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, filter.Null, result, "And(Null, Null) must be Null")

	or := filter.NewOr(falseNode, trueNode)
	result, err = or.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, filter.True, result, "Or(False, True) must be True")

	or2 := filter.NewOr(falseNode, nullNode)
	result, err = or2.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, filter.Null, result, "Or(False, Null) must be Null")
}

func TestAndOr_FlattenIdempotence(t *testing.T) {
	a := filter.NewRegex(tagRef(1), regexp.MustCompile("a"))
	b := filter.NewRegex(tagRef(2), regexp.MustCompile("b"))
	c := filter.NewRegex(tagRef(3), regexp.MustCompile("c"))

	left := filter.NewOr(a, filter.NewOr(b, c))
	right := filter.NewOr(filter.NewOr(a, b), c)
	assert.Len(t, left.Children, 3)
	assert.Len(t, right.Children, 3)
}

func TestEq_FieldOperands(t *testing.T) {
	auth := marc.NewView(marctest.AuthorityRecord())
	// Two tag-42 fields share no byte-identical payload with tag 700's,
	// but tag 42 compared with itself always matches.
	eqSelf := filter.NewEqField(tagRef(42), tagRef(42))
	result, err := eqSelf.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, filter.True, result)

	// An absent tag on one side is the "empty side" convention -> True.
	eqAbsent := filter.NewEqField(tagRef(9999), tagRef(42))
	result, err = eqAbsent.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, filter.True, result)
}

func TestEq_FilterOperands(t *testing.T) {
	auth := marc.NewView(marctest.AuthorityRecord())
	t1 := filter.NewRegex(tagRef(150), regexp.MustCompile("Integrierte"))
	t2 := filter.NewRegex(tagRef(150), regexp.MustCompile("Integrierte"))
	eq := filter.NewEqFilter(t1, t2)
	result, err := eq.Evaluate(auth)
	require.NoError(t, err)
	assert.Equal(t, filter.True, result)
}

func TestPartition_ThreeRegions(t *testing.T) {
	auth := marc.NewView(marctest.AuthorityRecord())
	bib := marc.NewView(marctest.BibliographicRecord())
	recs := []marc.View{auth, bib, auth, bib}

	notNull42 := filter.NewNotNull(filter.NewIsNullField(tagRef(42)))
	trueEnd, nullEnd, err := filter.Partition(notNull42, recs)
	require.NoError(t, err)
	assert.Equal(t, 2, trueEnd) // the two authority records are True
	assert.Equal(t, 2, nullEnd) // this predicate never returns Null: empty Null region

	for _, v := range recs[:trueEnd] {
		fields, err := v.FieldSlice(nil)
		require.NoError(t, err)
		assert.Len(t, fields, 18)
	}
	for _, v := range recs[nullEnd:] {
		fields, err := v.FieldSlice(nil)
		require.NoError(t, err)
		assert.Len(t, fields, 44)
	}
}
