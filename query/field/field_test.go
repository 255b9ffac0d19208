package field_test

import (
	"testing"

	"github.com/adrianN/marcql/internal/marctest"
	"github.com/adrianN/marcql/marc"
	"github.com/adrianN/marcql/query/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, it field.Iter) []marc.Field {
	t.Helper()
	var out []marc.Field
	for {
		f, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, f)
	}
}

func TestFieldRef_WildcardYieldsAllFields(t *testing.T) {
	v := marc.NewView(marctest.AuthorityRecord())
	it, err := field.FieldRef{}.Fields(v)
	require.NoError(t, err)
	assert.Len(t, drain(t, it), 18)
}

func TestFieldRef_TagConstraint(t *testing.T) {
	v := marc.NewView(marctest.AuthorityRecord())
	tag := 42
	it, err := field.FieldRef{Tag: &tag}.Fields(v)
	require.NoError(t, err)
	fields := drain(t, it)
	assert.Len(t, fields, 5)
	for _, f := range fields {
		assert.Equal(t, 42, f.Tag)
	}
}

func TestFieldRef_RecordTypeConstraintMatches(t *testing.T) {
	v := marc.NewView(marctest.AuthorityRecord())
	rt := marc.RecordTypeAuthority
	it, err := field.FieldRef{RecordType: &rt}.Fields(v)
	require.NoError(t, err)
	assert.Len(t, drain(t, it), 18)
}

// A record-type constraint that doesn't match yields the empty
// sequence, not an error, even when the leader names a type the core
// can't decode.
func TestFieldRef_RecordTypeConstraintMismatchYieldsEmpty(t *testing.T) {
	v := marc.NewView(marctest.BibliographicRecord())
	rt := marc.RecordTypeAuthority
	it, err := field.FieldRef{RecordType: &rt}.Fields(v)
	require.NoError(t, err)
	assert.Empty(t, drain(t, it))
}

func TestFieldTypeSelect_SortsAndDedupes(t *testing.T) {
	s := field.NewFieldTypeSelect([]int{700, 42, 700, 150, 42})
	assert.Equal(t, []int{42, 150, 700}, s.Tags)
}

func TestFieldTypeSelect_YieldsNativeOrder(t *testing.T) {
	v := marc.NewView(marctest.AuthorityRecord())
	s := field.NewFieldTypeSelect([]int{700, 42})
	it, err := s.Fields(v)
	require.NoError(t, err)
	fields := drain(t, it)
	require.Len(t, fields, 6)
	// Directory order: the five tag-42 fields precede the tag-700 field.
	for _, f := range fields[:5] {
		assert.Equal(t, 42, f.Tag)
	}
	assert.Equal(t, 700, fields[5].Tag)
}

func TestFieldTypeSelect_EmptySetYieldsNothing(t *testing.T) {
	v := marc.NewView(marctest.AuthorityRecord())
	it, err := field.NewFieldTypeSelect(nil).Fields(v)
	require.NoError(t, err)
	assert.Empty(t, drain(t, it))
}
