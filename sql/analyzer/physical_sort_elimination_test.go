package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// TestSortEliminationDropsRedundantInnerSort covers spec.md section
// 4.4: a Sort directly above another Sort with identical keys is
// redundant.
func TestSortEliminationDropsRedundantInnerSort(t *testing.T) {
	scan := physicalplan.NewScan("t", schemaOf("a"))
	keys := []physicalplan.SortKey{{Expr: col(0, "a")}}
	inner := physicalplan.NewSort(scan, keys)
	outer := physicalplan.NewSort(inner, keys)

	rule := sortEliminationRule()
	result, changed, err := rule.Apply(outer)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	require.Equal(t, inner, result)
}

// TestSortEliminationDifferentKeysLeftAlone covers the boundary: a
// Sort whose keys differ from its inner Sort's is not redundant.
func TestSortEliminationDifferentKeysLeftAlone(t *testing.T) {
	scan := physicalplan.NewScan("t", schemaOf("a", "b"))
	inner := physicalplan.NewSort(scan, []physicalplan.SortKey{{Expr: col(0, "a")}})
	outer := physicalplan.NewSort(inner, []physicalplan.SortKey{{Expr: col(1, "b")}})

	rule := sortEliminationRule()
	_, changed, err := rule.Apply(outer)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}

// TestSortEliminationRemovesSortBelowHashAggregate covers spec.md
// section 5: "Aggregation outputs are order-independent with respect
// to input", so a Sort feeding a HashAggregate is removed.
func TestSortEliminationRemovesSortBelowHashAggregate(t *testing.T) {
	scan := physicalplan.NewScan("t", schemaOf("a"))
	sort := physicalplan.NewSort(scan, []physicalplan.SortKey{{Expr: col(0, "a")}})
	agg := physicalplan.NewHashAggregate(sort, []expr.Expr{col(0, "a")}, nil)

	rule := sortEliminationRule()
	result, changed, err := rule.Apply(agg)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	newAgg, ok := result.(*physicalplan.HashAggregate)
	require.True(t, ok)
	require.Equal(t, scan, newAgg.Input)
}
