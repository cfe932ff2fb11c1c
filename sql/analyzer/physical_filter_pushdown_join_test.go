package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
	"github.com/yachtsql/yachtsql/sql/types"
)

// TestFilterPushdownJoinSplitsLeftAndRight covers spec.md section 4.4:
// predicates touching only one side of an inner join push to that
// side, rebasing right-side references down by the left column count.
func TestFilterPushdownJoinSplitsLeftAndRight(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("a"))
	right := physicalplan.NewScan("r", schemaOf("b"))
	join := physicalplan.NewHashJoin(left, right, physicalplan.InnerJoin,
		[]expr.Expr{col(0, "a")}, []expr.Expr{col(0, "b")}, nil)
	leftPred := expr.NewBinaryOp(expr.Gt, col(0, "a"), lit(0), types.Simple(types.Bool))
	rightPred := expr.NewBinaryOp(expr.Gt, col(1, "b"), lit(0), types.Simple(types.Bool))
	pred := expr.NewBinaryOp(expr.And, leftPred, rightPred, types.Simple(types.Bool))
	filter := physicalplan.NewFilter(join, pred)

	rule := filterPushdownJoinRule()
	result, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	hj, ok := result.(*physicalplan.HashJoin)
	require.True(t, ok)
	_, ok = hj.Left.(*physicalplan.Filter)
	require.True(t, ok)
	_, ok = hj.Right.(*physicalplan.Filter)
	require.True(t, ok)
}

// TestFilterPushdownJoinLeftOuterBlocksRightSide covers spec.md section
// 4.4's conservative outer-join reading: a LeftJoin's right (null-
// padded) side is never pushed into without first downgrading via
// RuleOuterToInner.
func TestFilterPushdownJoinLeftOuterBlocksRightSide(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("a"))
	right := physicalplan.NewScan("r", schemaOf("b"))
	join := physicalplan.NewHashJoin(left, right, physicalplan.LeftJoin,
		[]expr.Expr{col(0, "a")}, []expr.Expr{col(0, "b")}, nil)
	rightPred := expr.NewBinaryOp(expr.Gt, col(1, "b"), lit(0), types.Simple(types.Bool))
	filter := physicalplan.NewFilter(join, rightPred)

	rule := filterPushdownJoinRule()
	_, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}

// TestFilterPushdownJoinLeftOuterAllowsLeftSide covers the companion
// case: the preserving (left) side of a LeftJoin pushes freely.
func TestFilterPushdownJoinLeftOuterAllowsLeftSide(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("a"))
	right := physicalplan.NewScan("r", schemaOf("b"))
	join := physicalplan.NewHashJoin(left, right, physicalplan.LeftJoin,
		[]expr.Expr{col(0, "a")}, []expr.Expr{col(0, "b")}, nil)
	leftPred := expr.NewBinaryOp(expr.Gt, col(0, "a"), lit(0), types.Simple(types.Bool))
	filter := physicalplan.NewFilter(join, leftPred)

	rule := filterPushdownJoinRule()
	result, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	hj, ok := result.(*physicalplan.HashJoin)
	require.True(t, ok)
	_, ok = hj.Left.(*physicalplan.Filter)
	require.True(t, ok)
}

// TestFilterPushdownJoinCrossSideConjunctRemains covers a conjunct
// touching both sides: it is neither left- nor right-only and stays
// as the remaining Filter predicate above the join.
func TestFilterPushdownJoinCrossSideConjunctRemains(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("a"))
	right := physicalplan.NewScan("r", schemaOf("b"))
	join := physicalplan.NewHashJoin(left, right, physicalplan.InnerJoin,
		[]expr.Expr{col(0, "a")}, []expr.Expr{col(0, "b")}, nil)
	leftPred := expr.NewBinaryOp(expr.Gt, col(0, "a"), lit(0), types.Simple(types.Bool))
	crossPred := expr.NewBinaryOp(expr.Gt, col(0, "a"), col(1, "b"), types.Simple(types.Bool))
	pred := expr.NewBinaryOp(expr.And, leftPred, crossPred, types.Simple(types.Bool))
	filter := physicalplan.NewFilter(join, pred)

	rule := filterPushdownJoinRule()
	result, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	outer, ok := result.(*physicalplan.Filter)
	require.True(t, ok)
	_, ok = outer.Input.(*physicalplan.HashJoin)
	require.True(t, ok)
}
