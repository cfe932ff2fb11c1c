package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// TestLimitPushdownProjectMovesBelow covers spec.md section 4.4: Limit
// pushdown through a 1:1, order-preserving Project.
func TestLimitPushdownProjectMovesBelow(t *testing.T) {
	scan := physicalplan.NewScan("t", schemaOf("a"))
	proj := physicalplan.NewProject(scan, []physicalplan.ProjectExpr{{Expr: col(0, "a"), Name: "a"}})
	limit := physicalplan.NewLimit(proj, lit(10))

	rule := limitPushdownProjectRule()
	result, changed, err := rule.Apply(limit)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	newProj, ok := result.(*physicalplan.Project)
	require.True(t, ok)
	_, ok = newProj.Input.(*physicalplan.Limit)
	require.True(t, ok)
}

// TestLimitPushdownUnionAllPushesIntoBothBranches covers spec.md
// section 5: UNION ALL's per-branch independence lets each branch be
// bounded by the same count.
func TestLimitPushdownUnionAllPushesIntoBothBranches(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("a"))
	right := physicalplan.NewScan("r", schemaOf("a"))
	set := physicalplan.NewSetOperation(left, right, physicalplan.Union, true)
	limit := physicalplan.NewLimit(set, lit(10))

	rule := limitPushdownUnionRule()
	result, changed, err := rule.Apply(limit)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	outer, ok := result.(*physicalplan.Limit)
	require.True(t, ok)
	newSet, ok := outer.Input.(*physicalplan.SetOperation)
	require.True(t, ok)
	_, ok = newSet.Left.(*physicalplan.Limit)
	require.True(t, ok)
	_, ok = newSet.Right.(*physicalplan.Limit)
	require.True(t, ok)
}

// TestLimitPushdownUnionDistinctLeftAlone covers the correctness
// boundary: UNION DISTINCT's cross-branch de-duplication means no
// single branch's row count bounds the others.
func TestLimitPushdownUnionDistinctLeftAlone(t *testing.T) {
	left := physicalplan.NewScan("l", schemaOf("a"))
	right := physicalplan.NewScan("r", schemaOf("a"))
	set := physicalplan.NewSetOperation(left, right, physicalplan.Union, false)
	limit := physicalplan.NewLimit(set, lit(10))

	rule := limitPushdownUnionRule()
	_, changed, err := rule.Apply(limit)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}

// TestLimitPushdownUnionAlreadyLimitedLeftAlone covers the idempotence
// boundary: branches that already carry a pushed-down Limit are not
// re-wrapped on a repeated pass.
func TestLimitPushdownUnionAlreadyLimitedLeftAlone(t *testing.T) {
	left := physicalplan.NewLimit(physicalplan.NewScan("l", schemaOf("a")), lit(10))
	right := physicalplan.NewLimit(physicalplan.NewScan("r", schemaOf("a")), lit(10))
	set := physicalplan.NewSetOperation(left, right, physicalplan.Union, true)
	limit := physicalplan.NewLimit(set, lit(10))

	rule := limitPushdownUnionRule()
	_, changed, err := rule.Apply(limit)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}
