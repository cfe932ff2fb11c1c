package logicalplan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/types"
)

func schemaOf(names ...string) types.Schema {
	s := make(types.Schema, len(names))
	for i, n := range names {
		s[i] = types.NewField(n, types.Simple(types.Int64), true)
	}
	return s
}

func TestProjectIsIdentity(t *testing.T) {
	scan := NewScan("t", schemaOf("a", "b"))
	identity := NewProject(scan, []ProjectExpr{
		{Name: "a", Expr: col(0, "a")},
		{Name: "b", Expr: col(1, "b")},
	})
	require.True(t, identity.IsIdentity())

	renamed := NewProject(scan, []ProjectExpr{
		{Name: "x", Expr: col(0, "a")},
	})
	require.False(t, renamed.IsIdentity())
}

func TestJoinOutputSchemaConcatenatesSides(t *testing.T) {
	left := NewScan("l", schemaOf("a", "b"))
	right := NewScan("r", schemaOf("c"))
	join := NewJoin(left, right, InnerJoin, nil)
	require.Equal(t, []string{"a", "b", "c"}, join.OutputSchema().FieldNames())
	require.Equal(t, 2, join.LeftColumnCount())
}

func TestWithChildrenRebuildsSchemaForJoin(t *testing.T) {
	left := NewScan("l", schemaOf("a"))
	right := NewScan("r", schemaOf("b"))
	join := NewJoin(left, right, InnerJoin, nil)

	newRight := NewScan("r2", schemaOf("b", "extra"))
	rebuilt, err := join.WithChildren(left, newRight)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "extra"}, rebuilt.OutputSchema().FieldNames())
}

func TestFilterPreservesInputSchema(t *testing.T) {
	scan := NewScan("t", schemaOf("a"))
	pred := expr.NewBinaryOp(expr.Gt, col(0, "a"), expr.NewLiteral(types.Int64Value(0)), types.Simple(types.Bool))
	f := NewFilter(scan, pred)
	require.Equal(t, scan.OutputSchema(), f.OutputSchema())
}

func TestEmptyValuesPreservesSchema(t *testing.T) {
	schema := schemaOf("a", "b")
	v := NewEmptyValues(schema)
	require.Equal(t, schema, v.OutputSchema())
	require.Empty(t, v.Rows)
}
