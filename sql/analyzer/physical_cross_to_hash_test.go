package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
	"github.com/yachtsql/yachtsql/sql/types"
)

// TestCrossToHashJoinRewritesEquiFilter covers spec.md section 4.4:
// "If a Filter above a CrossJoin contains an equality between columns
// from left and right subtrees, rewrite to HashJoin with the equality
// as the hash key."
func TestCrossToHashJoinRewritesEquiFilter(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("id"))
	right := physicalplan.NewScan("r", schemaOf("id"))
	cross := physicalplan.NewCrossJoin(left, right)
	pred := expr.NewBinaryOp(expr.Eq, col(0, "id"), col(1, "id"), types.Simple(types.Bool))
	filter := physicalplan.NewFilter(cross, pred)

	rule := crossToHashJoinRule()
	result, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	hj, ok := result.(*physicalplan.HashJoin)
	require.True(t, ok)
	require.Equal(t, physicalplan.InnerJoin, hj.Type)
	require.Len(t, hj.LeftKeys, 1)
	require.Len(t, hj.RightKeys, 1)
}

// TestCrossToHashJoinKeepsResidualPredicate covers the "residual
// predicates retained above" clause: a conjunct beyond the equi-key
// stays as a Filter above the new HashJoin.
func TestCrossToHashJoinKeepsResidualPredicate(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("id", "amount"))
	right := physicalplan.NewScan("r", schemaOf("id"))
	cross := physicalplan.NewCrossJoin(left, right)
	eq := expr.NewBinaryOp(expr.Eq, col(0, "id"), col(2, "id"), types.Simple(types.Bool))
	residual := expr.NewBinaryOp(expr.Gt, col(1, "amount"), expr.NewLiteral(types.Int64Value(100)), types.Simple(types.Bool))
	pred := expr.NewBinaryOp(expr.And, eq, residual, types.Simple(types.Bool))
	filter := physicalplan.NewFilter(cross, pred)

	rule := crossToHashJoinRule()
	result, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	f, ok := result.(*physicalplan.Filter)
	require.True(t, ok)
	_, ok = f.Input.(*physicalplan.HashJoin)
	require.True(t, ok)
}

// TestCrossToHashJoinNoEqualityLeftAlone covers the no-op boundary: a
// Filter over a CrossJoin with no cross-side equality is untouched.
func TestCrossToHashJoinNoEqualityLeftAlone(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("id"))
	right := physicalplan.NewScan("r", schemaOf("id"))
	cross := physicalplan.NewCrossJoin(left, right)
	pred := expr.NewBinaryOp(expr.Gt, col(0, "id"), expr.NewLiteral(types.Int64Value(0)), types.Simple(types.Bool))
	filter := physicalplan.NewFilter(cross, pred)

	rule := crossToHashJoinRule()
	_, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}
