package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/types"
)

// TestOptimizeLevelNoneIsLowerOnly covers spec.md section 4.4's
// equivalence guard-rail: with every rule disabled (OptimizerLevel
// NONE), Optimize is physicalplan.Lower alone.
func TestOptimizeLevelNoneIsLowerOnly(t *testing.T) {
	scan := logicalplan.NewScan("t", schemaOf("a"))
	pred := expr.NewBinaryOp(expr.Gt, col(0, "a"), lit(0), types.Simple(types.Bool))
	plan := logicalplan.NewFilter(scan, pred)

	cfg := Config{Level: LevelNone, Rules: nil}
	optimized, err := Optimize(plan, cfg)
	require.NoError(t, err)

	expected, err := physicalplan.Lower(plan)
	require.NoError(t, err)
	require.Equal(t, expected, optimized)
}

// TestOptimizeFullPipelineScenario1DowngradesOuterJoin is spec.md
// section 8's scenario 1 run through the whole Optimize pipeline: a
// LEFT JOIN filtered on the nullable side's column collapses all the
// way to an InnerJoin.
func TestOptimizeFullPipelineScenario1DowngradesOuterJoin(t *testing.T) {
	left := logicalplan.NewScan("l", schemaOf("id", "val"))
	right := logicalplan.NewScan("r", schemaOf("id", "val"))
	cond := expr.NewBinaryOp(expr.Eq, col(0, "id"), col(2, "id"), types.Simple(types.Bool))
	join := logicalplan.NewJoin(left, right, logicalplan.LeftJoin, cond)
	pred := expr.NewBinaryOp(expr.Eq, col(3, "val"), expr.NewLiteral(types.StringValue("X")), types.Simple(types.Bool))
	plan := logicalplan.NewFilter(join, pred)

	cfg := DefaultConfig()
	optimized, err := Optimize(plan, cfg)
	require.NoError(t, err)

	var foundInner bool
	var walk func(p physicalplan.Plan)
	walk = func(p physicalplan.Plan) {
		if hj, ok := p.(*physicalplan.HashJoin); ok && hj.Type == physicalplan.InnerJoin {
			foundInner = true
		}
		if nl, ok := p.(*physicalplan.NestedLoopJoin); ok && nl.Type == physicalplan.InnerJoin {
			foundInner = true
		}
		for _, c := range p.Children() {
			walk(c)
		}
	}
	walk(optimized)
	require.True(t, foundInner, "expected the LEFT JOIN to downgrade to an InnerJoin somewhere in the optimized tree")
}

// TestOptimizeFullPipelineScenario6PushesHavingBelowAggregate is
// spec.md section 8's scenario 6: HAVING country='US' over a GROUP BY
// country aggregate pushes down to a pre-aggregate Filter.
func TestOptimizeFullPipelineScenario6PushesHavingBelowAggregate(t *testing.T) {
	scan := logicalplan.NewScan("t", schemaOf("country", "amount"))
	agg := logicalplan.NewAggregate(scan, []expr.Expr{col(0, "country")}, []logicalplan.ProjectExpr{
		{Expr: &expr.Aggregate{Func: "SUM", Args: []expr.Expr{col(1, "amount")}, Type: types.Simple(types.Int64)}, Name: "total"},
	})
	having := expr.NewBinaryOp(expr.Eq, col(0, "country"), expr.NewLiteral(types.StringValue("US")), types.Simple(types.Bool))
	plan := logicalplan.NewFilter(agg, having)

	cfg := DefaultConfig()
	optimized, err := Optimize(plan, cfg)
	require.NoError(t, err)

	var foundPreAggregateFilter bool
	var walk func(p physicalplan.Plan)
	walk = func(p physicalplan.Plan) {
		switch a := p.(type) {
		case *physicalplan.HashAggregate:
			if _, ok := a.Input.(*physicalplan.Filter); ok {
				foundPreAggregateFilter = true
			}
		case *physicalplan.StreamAggregate:
			if _, ok := a.Input.(*physicalplan.Filter); ok {
				foundPreAggregateFilter = true
			}
		}
		for _, c := range p.Children() {
			walk(c)
		}
	}
	walk(optimized)
	require.True(t, foundPreAggregateFilter, "expected HAVING country='US' to push below the aggregate")
}

// TestOptimizeFixpointRespectsMaxPasses covers spec.md section 4.4's
// bounded fixpoint iteration: for a plan the logical rules leave
// unchanged, the full Optimize pipeline and OptimizePhysical run
// directly over the lowered plan settle on the same physical plan.
func TestOptimizeFixpointRespectsMaxPasses(t *testing.T) {
	scan := logicalplan.NewScan("t", schemaOf("a"))
	pred := expr.NewBinaryOp(expr.Gt, col(0, "a"), lit(0), types.Simple(types.Bool))
	plan := logicalplan.NewFilter(scan, pred)

	cfg := DefaultConfig()
	once, err := Optimize(plan, cfg)
	require.NoError(t, err)

	lowered, err := physicalplan.Lower(plan)
	require.NoError(t, err)
	twice, err := OptimizePhysical(lowered, cfg)
	require.NoError(t, err)
	require.Equal(t, once, twice)
}
