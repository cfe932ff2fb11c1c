package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
	"github.com/yachtsql/yachtsql/sql/types"
)

// TestPredicateInferenceMirrorsLiteralAcrossEquiJoin covers spec.md
// section 4.4: "From A.a = B.b in a join condition plus a filter
// A.a = 5, infer and add B.b = 5."
func TestPredicateInferenceMirrorsLiteralAcrossEquiJoin(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("a"))
	right := physicalplan.NewScan("r", schemaOf("b"))
	join := physicalplan.NewHashJoin(left, right, physicalplan.InnerJoin,
		[]expr.Expr{col(0, "a")}, []expr.Expr{col(0, "b")}, nil)
	pred := expr.NewBinaryOp(expr.Eq, col(0, "a"), lit(5), types.Simple(types.Bool))
	filter := physicalplan.NewFilter(join, pred)

	rule := predicateInferenceRule()
	result, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	f, ok := result.(*physicalplan.Filter)
	require.True(t, ok)
	conjuncts := logicalplan.SplitConjuncts(f.Predicate)
	require.Len(t, conjuncts, 2)

	found := false
	for _, c := range conjuncts {
		bin, ok := c.(*expr.BinaryOp)
		if !ok || bin.Op != expr.Eq {
			continue
		}
		if rc, ok := bin.Left.(*expr.Column); ok && rc.Index == 1 {
			found = true
		}
	}
	require.True(t, found, "expected an inferred B.b = 5 conjunct")
}

// TestPredicateInferenceAlreadyPresentLeftAlone covers the "unless
// already present" idempotence clause: if the mirrored conjunct
// already exists, the rule is a no-op.
func TestPredicateInferenceAlreadyPresentLeftAlone(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("a"))
	right := physicalplan.NewScan("r", schemaOf("b"))
	join := physicalplan.NewHashJoin(left, right, physicalplan.InnerJoin,
		[]expr.Expr{col(0, "a")}, []expr.Expr{col(0, "b")}, nil)
	leftPred := expr.NewBinaryOp(expr.Eq, col(0, "a"), lit(5), types.Simple(types.Bool))
	rightPred := expr.NewBinaryOp(expr.Eq, col(1, "b"), lit(5), types.Simple(types.Bool))
	pred := expr.NewBinaryOp(expr.And, leftPred, rightPred, types.Simple(types.Bool))
	filter := physicalplan.NewFilter(join, pred)

	rule := predicateInferenceRule()
	_, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}

// TestPredicateInferenceNoEquiJoinLeftAlone covers a non-equi join
// input (CrossJoin), which equiJoinKeys does not recognize.
func TestPredicateInferenceNoEquiJoinLeftAlone(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("a"))
	right := physicalplan.NewScan("r", schemaOf("b"))
	join := physicalplan.NewCrossJoin(left, right)
	pred := expr.NewBinaryOp(expr.Eq, col(0, "a"), lit(5), types.Simple(types.Bool))
	filter := physicalplan.NewFilter(join, pred)

	rule := predicateInferenceRule()
	_, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}
