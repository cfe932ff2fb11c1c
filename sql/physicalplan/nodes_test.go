package physicalplan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/expr"
)

func TestHashJoinOutputSchemaConcatenatesSides(t *testing.T) {
	left := NewScan("l", schemaOf("a", "b"))
	right := NewScan("r", schemaOf("c"))
	join := NewHashJoin(left, right, InnerJoin, []expr.Expr{col(0, "a")}, []expr.Expr{col(0, "c")}, nil)
	require.Equal(t, []string{"a", "b", "c"}, join.OutputSchema().FieldNames())
	require.Equal(t, 2, join.LeftColumnCount())
}

func TestWithChildrenRebuildsHashJoinSchema(t *testing.T) {
	left := NewScan("l", schemaOf("a"))
	right := NewScan("r", schemaOf("b"))
	join := NewHashJoin(left, right, InnerJoin, []expr.Expr{col(0, "a")}, []expr.Expr{col(0, "b")}, nil)

	newRight := NewScan("r2", schemaOf("b", "extra"))
	rebuilt, err := join.WithChildren(left, newRight)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "extra"}, rebuilt.OutputSchema().FieldNames())
}

func TestProjectBuildsSchemaFromExprs(t *testing.T) {
	scan := NewScan("t", schemaOf("a", "b"))
	proj := NewProject(scan, []ProjectExpr{
		{Name: "x", Expr: col(0, "a")},
	})
	require.Equal(t, []string{"x"}, proj.OutputSchema().FieldNames())
}

func TestHashAggregateBuildsGroupAndAggFields(t *testing.T) {
	scan := NewScan("t", schemaOf("a", "b"))
	agg := NewHashAggregate(scan, []expr.Expr{col(0, "a")}, []ProjectExpr{
		{Name: "total", Expr: col(1, "b")},
	})
	require.Equal(t, []string{"group_0", "total"}, agg.OutputSchema().FieldNames())
}

func TestCrossJoinLeftColumnCount(t *testing.T) {
	left := NewScan("l", schemaOf("a", "b"))
	right := NewScan("r", schemaOf("c"))
	join := NewCrossJoin(left, right)
	require.Equal(t, 2, join.LeftColumnCount())
	require.Equal(t, []string{"a", "b", "c"}, join.OutputSchema().FieldNames())
}

func TestTopNPreservesInputSchema(t *testing.T) {
	scan := NewScan("t", schemaOf("a"))
	topN := NewTopN(scan, []SortKey{{Expr: col(0, "a")}}, 10)
	require.Equal(t, scan.OutputSchema(), topN.OutputSchema())
	require.Equal(t, int64(10), topN.N)
}

func TestWithHintsReturnsCopy(t *testing.T) {
	scan := NewScan("t", schemaOf("a"))
	filter := NewFilter(scan, col(0, "a"))
	hinted := filter.WithHints(ExecutionHints{Parallel: true})
	require.True(t, hinted.Hints().Parallel)
	require.False(t, filter.Hints().Parallel)
}
