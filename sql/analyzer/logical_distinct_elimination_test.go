package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// TestDistinctEliminationOverMatchingGroupBy covers spec.md section
// 4.4 logical rule 8: DISTINCT directly above a plain GROUP BY is
// redundant and is dropped.
func TestDistinctEliminationOverMatchingGroupBy(t *testing.T) {
	scan := logicalplan.NewScan("t", schemaOf("country"))
	agg := logicalplan.NewAggregate(scan, []expr.Expr{col(0, "country")}, nil)
	distinct := logicalplan.NewDistinct(agg)

	rule := distinctEliminationRule()
	result, changed, err := rule.Apply(distinct)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	require.Equal(t, agg, result)
}

// TestDistinctEliminationOverGroupingSetsLeftAlone covers the
// exception: grouping sets can repeat a key combination across
// different sets, so DISTINCT above them is not necessarily redundant.
func TestDistinctEliminationOverGroupingSetsLeftAlone(t *testing.T) {
	scan := logicalplan.NewScan("t", schemaOf("country"))
	agg := logicalplan.NewAggregate(scan, []expr.Expr{col(0, "country")}, nil)
	agg.GroupingSets = []logicalplan.GroupingSet{{0}, {}}
	distinct := logicalplan.NewDistinct(agg)

	rule := distinctEliminationRule()
	_, changed, err := rule.Apply(distinct)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}

// TestDistinctEliminationNotOverAggregateLeftAlone covers a Distinct
// whose input is not an Aggregate at all.
func TestDistinctEliminationNotOverAggregateLeftAlone(t *testing.T) {
	scan := logicalplan.NewScan("t", schemaOf("country"))
	distinct := logicalplan.NewDistinct(scan)

	rule := distinctEliminationRule()
	_, changed, err := rule.Apply(distinct)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}
