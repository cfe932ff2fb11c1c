package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
	"github.com/yachtsql/yachtsql/sql/types"
)

func pcol(idx int, name string) *expr.Column {
	return expr.NewResolvedColumn(idx, "", name, types.Simple(types.String), true)
}

// TestOuterToInnerDowngradesLeftJoin is spec.md section 8's concrete
// scenario 1: Filter(R.val = 'X', LeftJoin(L, R)) must downgrade to an
// InnerJoin, since R.val='X' is FALSE/UNKNOWN whenever R.val is NULL
// (the rows the LEFT JOIN would otherwise pad).
func TestOuterToInnerDowngradesLeftJoin(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("id", "val"))
	right := physicalplan.NewScan("r", schemaOf("id", "val"))
	join := physicalplan.NewHashJoin(left, right, physicalplan.LeftJoin,
		[]expr.Expr{pcol(0, "id")}, []expr.Expr{pcol(0, "id")}, nil)
	predicate := expr.NewBinaryOp(expr.Eq, pcol(3, "val"), expr.NewLiteral(types.StringValue("X")), types.Simple(types.Bool))
	filter := physicalplan.NewFilter(join, predicate)

	rule := outerToInnerRule()
	result, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	f, ok := result.(*physicalplan.Filter)
	require.True(t, ok)
	hj, ok := f.Input.(*physicalplan.HashJoin)
	require.True(t, ok)
	require.Equal(t, physicalplan.InnerJoin, hj.Type)
}

// TestOuterToInnerIsNotNullTriggersConversion covers spec.md section
// 8's boundary case: "IS NOT NULL on the nullable side MUST trigger
// conversion."
func TestOuterToInnerIsNotNullTriggersConversion(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("id"))
	right := physicalplan.NewScan("r", schemaOf("id"))
	join := physicalplan.NewHashJoin(left, right, physicalplan.LeftJoin,
		[]expr.Expr{pcol(0, "id")}, []expr.Expr{pcol(0, "id")}, nil)
	predicate := expr.NewIsNull(pcol(1, "id"), true) // IS NOT NULL
	filter := physicalplan.NewFilter(join, predicate)

	rule := outerToInnerRule()
	result, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	f := result.(*physicalplan.Filter)
	hj := f.Input.(*physicalplan.HashJoin)
	require.Equal(t, physicalplan.InnerJoin, hj.Type)
}

// TestOuterToInnerCoalesceDoesNotTriggerConversion covers spec.md
// section 8's companion boundary case: "predicates with COALESCE on
// the nullable side must NOT trigger conversion", since COALESCE
// produces a non-NULL result from a NULL input.
func TestOuterToInnerCoalesceDoesNotTriggerConversion(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("id"))
	right := physicalplan.NewScan("r", schemaOf("id"))
	join := physicalplan.NewHashJoin(left, right, physicalplan.LeftJoin,
		[]expr.Expr{pcol(0, "id")}, []expr.Expr{pcol(0, "id")}, nil)
	coalesce := &expr.ScalarFunction{
		Name: "COALESCE",
		Args: []expr.Expr{pcol(1, "id"), expr.NewLiteral(types.Int64Value(0))},
		Null: expr.NullStrict,
		Type: types.Simple(types.Int64),
	}
	predicate := expr.NewBinaryOp(expr.Gt, coalesce, expr.NewLiteral(types.Int64Value(0)), types.Simple(types.Bool))
	filter := physicalplan.NewFilter(join, predicate)

	rule := outerToInnerRule()
	_, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}

// TestOuterToInnerLeftNullsRejectedOnRightJoin covers the RightJoin
// symmetric case: a predicate rejecting left-nulls downgrades a
// RightJoin to InnerJoin.
func TestOuterToInnerLeftNullsRejectedOnRightJoin(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("id"))
	right := physicalplan.NewScan("r", schemaOf("id"))
	join := physicalplan.NewHashJoin(left, right, physicalplan.RightJoin,
		[]expr.Expr{pcol(0, "id")}, []expr.Expr{pcol(0, "id")}, nil)
	predicate := expr.NewIsNull(pcol(0, "id"), true)
	filter := physicalplan.NewFilter(join, predicate)

	rule := outerToInnerRule()
	result, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	hj := result.(*physicalplan.Filter).Input.(*physicalplan.HashJoin)
	require.Equal(t, physicalplan.InnerJoin, hj.Type)
}

// TestOuterToInnerFullJoinPartialDowngrade covers FullJoin -> LeftJoin
// when only right-nulls are rejected (spec.md section 4.4: "FULL ->
// LEFT when only right-nulls rejected").
func TestOuterToInnerFullJoinPartialDowngrade(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("id"))
	right := physicalplan.NewScan("r", schemaOf("id"))
	join := physicalplan.NewHashJoin(left, right, physicalplan.FullJoin,
		[]expr.Expr{pcol(0, "id")}, []expr.Expr{pcol(0, "id")}, nil)
	predicate := expr.NewIsNull(pcol(1, "id"), true)
	filter := physicalplan.NewFilter(join, predicate)

	rule := outerToInnerRule()
	result, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	hj := result.(*physicalplan.Filter).Input.(*physicalplan.HashJoin)
	require.Equal(t, physicalplan.LeftJoin, hj.Type)
}

// TestOuterToInnerNonRejectingPredicateLeftAlone covers the no-op
// boundary: a predicate that does not reject nulls on the padded side
// leaves the join untouched.
func TestOuterToInnerNonRejectingPredicateLeftAlone(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("id"))
	right := physicalplan.NewScan("r", schemaOf("id"))
	join := physicalplan.NewHashJoin(left, right, physicalplan.LeftJoin,
		[]expr.Expr{pcol(0, "id")}, []expr.Expr{pcol(0, "id")}, nil)
	predicate := expr.NewIsNull(pcol(1, "id"), false) // IS NULL, not rejecting
	filter := physicalplan.NewFilter(join, predicate)

	rule := outerToInnerRule()
	_, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}
