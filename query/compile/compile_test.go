package compile_test

import (
	"testing"

	"github.com/adrianN/marcql/internal/marctest"
	"github.com/adrianN/marcql/marc"
	"github.com/adrianN/marcql/query/compile"
	"github.com/adrianN/marcql/query/filter"
	"github.com/adrianN/marcql/query/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, query string) *compile.Query {
	t.Helper()
	tree, err := parser.Parse(query)
	require.NoError(t, err)
	q, err := compile.Compile(tree)
	require.NoError(t, err)
	return q
}

// Select * from t on the single-record fixture.
func TestScenario_SelectStar(t *testing.T) {
	q := mustCompile(t, "select * from t")
	assert.Equal(t, "t", q.Table)
	assert.Nil(t, q.Filter)

	auth := marc.NewView(marctest.AuthorityRecord())
	out, err := q.Projection.Apply([]marc.View{auth})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Len(t, out[0].Fields, 18)
}

// Select 700, 42 from t on the two-record fixture.
func TestScenario_SelectTwoTags(t *testing.T) {
	q := mustCompile(t, "select 700, 42 from t")
	bib := marc.NewView(marctest.BibliographicRecord())
	auth := marc.NewView(marctest.AuthorityRecord())
	out, err := q.Projection.Apply([]marc.View{bib, auth})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Len(t, out[0].Fields, 1)
	assert.Len(t, out[1].Fields, 6)
}

// Select 9999 from t on the two-record fixture.
func TestScenario_SelectAbsentTag(t *testing.T) {
	q := mustCompile(t, "select 9999 from t")
	bib := marc.NewView(marctest.BibliographicRecord())
	auth := marc.NewView(marctest.AuthorityRecord())
	out, err := q.Projection.Apply([]marc.View{bib, auth})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Len(t, out[0].Fields, 0)
	assert.Len(t, out[1].Fields, 0)
}

func runFilter(t *testing.T, q *compile.Query, views []marc.View) (trueEnd, nullEnd int) {
	t.Helper()
	trueEnd, nullEnd, err := filter.Partition(q.Filter, views)
	require.NoError(t, err)
	return trueEnd, nullEnd
}

// Select * from t where not_null(42) on the two-record fixture.
func TestScenario_NotNull(t *testing.T) {
	q := mustCompile(t, "select * from t where not_null(42)")
	views := []marc.View{marc.NewView(marctest.BibliographicRecord()), marc.NewView(marctest.AuthorityRecord())}
	trueEnd, _ := runFilter(t, q, views)
	require.Equal(t, 1, trueEnd)
	out, err := q.Projection.Apply(views[:trueEnd])
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Len(t, out[0].Fields, 18)
}

// Select * from t where is_null(42).
func TestScenario_IsNull(t *testing.T) {
	q := mustCompile(t, "select * from t where is_null(42)")
	views := []marc.View{marc.NewView(marctest.BibliographicRecord()), marc.NewView(marctest.AuthorityRecord())}
	trueEnd, _ := runFilter(t, q, views)
	require.Equal(t, 1, trueEnd)
	out, err := q.Projection.Apply(views[:trueEnd])
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Len(t, out[0].Fields, 44)
}

// Select * from t where not(is_null(42)) is equivalent to not_null(42).
func TestScenario_NotIsNullEqualsNotNull(t *testing.T) {
	q := mustCompile(t, "select * from t where not(is_null(42))")
	views := []marc.View{marc.NewView(marctest.BibliographicRecord()), marc.NewView(marctest.AuthorityRecord())}
	trueEnd, _ := runFilter(t, q, views)
	require.Equal(t, 1, trueEnd)
	out, err := q.Projection.Apply(views[:trueEnd])
	require.NoError(t, err)
	assert.Len(t, out[0].Fields, 18)
}

// Select * from t where 150 ~ 'Integrierte'.
func TestScenario_RegexMatch(t *testing.T) {
	q := mustCompile(t, "select * from t where 150 ~ 'Integrierte'")
	views := []marc.View{marc.NewView(marctest.AuthorityRecord())}
	trueEnd, _ := runFilter(t, q, views)
	require.Equal(t, 1, trueEnd)
}

func TestCompile_FlattenAcrossParenthesization(t *testing.T) {
	q1 := mustCompile(t, "select * from t where 1 ~ 'a' or (2 ~ 'b' or 3 ~ 'c')")
	q2 := mustCompile(t, "select * from t where (1 ~ 'a' or 2 ~ 'b') or 3 ~ 'c'")
	or1, ok := q1.Filter.(*filter.OrNode)
	require.True(t, ok)
	or2, ok := q2.Filter.(*filter.OrNode)
	require.True(t, ok)
	assert.Len(t, or1.Children, 3)
	assert.Len(t, or2.Children, 3)
}

func TestCompile_MismatchedEqOperandsIsError(t *testing.T) {
	tree, err := parser.Parse("select * from t where 1 = (2 ~ 'a')")
	require.NoError(t, err)
	_, err = compile.Compile(tree)
	assert.Error(t, err)
}
