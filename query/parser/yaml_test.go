package parser_test

import (
	"testing"

	"github.com/adrianN/marcql/internal/querytest"
	"github.com/adrianN/marcql/query/compile"
	"github.com/adrianN/marcql/query/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestYAMLCases drives the parser and compiler through a table of
// data-driven scenarios loaded from testdata/cases.yaml.
func TestYAMLCases(t *testing.T) {
	cases, err := querytest.Load("testdata/cases.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, cases)

	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			tree, err := parser.Parse(c.Query)
			if err == nil {
				var q *compile.Query
				q, err = compile.Compile(tree)
				if err == nil && !c.WantErr {
					assert.Equal(t, c.WantTable, q.Table)
					assert.Len(t, q.Projection.Exprs, c.WantFields)
					return
				}
			}
			if c.WantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
