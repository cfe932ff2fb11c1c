package logicalplan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/types"
)

func col(idx int, name string) *expr.Column {
	return expr.NewResolvedColumn(idx, "", name, types.Simple(types.Int64), true)
}

func TestCollectColumnIndices(t *testing.T) {
	e := expr.NewBinaryOp(expr.And,
		expr.NewBinaryOp(expr.Eq, col(0, "a"), col(1, "b"), types.Simple(types.Bool)),
		expr.NewBinaryOp(expr.Gt, col(2, "c"), expr.NewLiteral(types.Int64Value(5)), types.Simple(types.Bool)),
		types.Simple(types.Bool),
	)
	require.Equal(t, []int{0, 1, 2}, CollectColumnIndices(e))
}

func TestRemapColumnIndices(t *testing.T) {
	e := expr.NewBinaryOp(expr.Eq, col(0, "a"), col(1, "b"), types.Simple(types.Bool))
	remapped, err := RemapColumnIndices(e, map[int]int{0: 5, 1: 6})
	require.NoError(t, err)
	require.Equal(t, []int{5, 6}, CollectColumnIndices(remapped))
}

func TestRemapColumnIndicesMissingMappingErrors(t *testing.T) {
	e := col(3, "a")
	_, err := RemapColumnIndices(e, map[int]int{0: 5})
	require.Error(t, err)
}

func TestSplitAndCombinePredicates(t *testing.T) {
	p1 := expr.NewBinaryOp(expr.Eq, col(0, "a"), expr.NewLiteral(types.Int64Value(1)), types.Simple(types.Bool))
	p2 := expr.NewBinaryOp(expr.Eq, col(1, "b"), expr.NewLiteral(types.Int64Value(2)), types.Simple(types.Bool))
	p3 := expr.NewBinaryOp(expr.Eq, col(2, "c"), expr.NewLiteral(types.Int64Value(3)), types.Simple(types.Bool))
	combined := expr.NewBinaryOp(expr.And, expr.NewBinaryOp(expr.And, p1, p2, types.Simple(types.Bool)), p3, types.Simple(types.Bool))

	conjuncts := SplitConjuncts(combined)
	require.Len(t, conjuncts, 3)

	rebuilt := CombinePredicates(conjuncts)
	require.Equal(t, combined.String(), rebuilt.String())
}

func TestCombinePredicatesEmpty(t *testing.T) {
	require.Nil(t, CombinePredicates(nil))
}

func TestAggregateOutputToInputMap(t *testing.T) {
	input := NewScan("t", types.Schema{
		types.NewField("country", types.Simple(types.String), false),
		types.NewField("amount", types.Simple(types.Int64), false),
	})
	agg := NewAggregate(input,
		[]expr.Expr{col(0, "country")},
		[]ProjectExpr{{Name: "cnt", Expr: expr.NewLiteral(types.Int64Value(0))}},
	)
	m := AggregateOutputToInputMap(agg)
	require.Equal(t, map[int]int{0: 0}, m)
}

func TestCTEReferenceCounting(t *testing.T) {
	schema := types.Schema{types.NewField("x", types.Simple(types.Int64), false)}
	cteScan := &Scan{CTEName: "c", Schema: schema}
	body := NewFilter(cteScan, expr.NewBinaryOp(expr.Gt, col(0, "x"), expr.NewLiteral(types.Int64Value(0)), types.Simple(types.Bool)))

	require.Equal(t, 1, CountCTEReferences(body, "c"))
	require.Equal(t, 1, CountDirectCTEScans(body, "c"))
	require.Equal(t, 0, CountCTEReferences(body, "other"))
}

func TestColumnsTouchOnlySide(t *testing.T) {
	left := col(0, "a")
	right := col(2, "b")
	require.True(t, ColumnsTouchOnlyLeft(left, 2))
	require.False(t, ColumnsTouchOnlyLeft(right, 2))
	require.True(t, ColumnsTouchOnlyRight(right, 2))
	require.False(t, ColumnsTouchOnlyRight(left, 2))
}
