package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
	"github.com/yachtsql/yachtsql/sql/types"
)

// TestEmptyPropagationWhereFalse covers spec.md section 4.4 logical
// rule 7: "WHERE FALSE ... replace with an empty Values node carrying
// the same schema".
func TestEmptyPropagationWhereFalse(t *testing.T) {
	schema := schemaOf("x")
	scan := logicalplan.NewScan("t", schema)
	filter := logicalplan.NewFilter(scan, expr.NewLiteral(types.BoolValue(false)))

	rule := emptyPropagationRule()
	result, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	v, ok := result.(*logicalplan.Values)
	require.True(t, ok)
	require.Equal(t, schema.FieldNames(), v.OutputSchema().FieldNames())
	require.Empty(t, v.Rows)
}

// TestEmptyPropagationWhereNullPredicate covers a NULL-valued boolean
// predicate, which is also never TRUE and so also excludes every row.
func TestEmptyPropagationWhereNullPredicate(t *testing.T) {
	scan := logicalplan.NewScan("t", schemaOf("x"))
	nullBool := types.BoolValue(false)
	nullBool.IsNull = true
	filter := logicalplan.NewFilter(scan, expr.NewLiteral(nullBool))

	rule := emptyPropagationRule()
	_, changed, err := rule.Apply(filter)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
}

// TestEmptyPropagationCascadesThroughProject covers the "let the
// structural reduction cascade" clause: a Project over an already-
// empty Values becomes empty too, under repeated bottom-up
// application (as OptimizeLogical's fixpoint loop would do).
func TestEmptyPropagationCascadesThroughProject(t *testing.T) {
	schema := schemaOf("x")
	empty := logicalplan.NewEmptyValues(schema)
	proj := logicalplan.NewProject(empty, []logicalplan.ProjectExpr{{Expr: col(0, "x"), Name: "x"}})

	rule := emptyPropagationRule()
	result, changed, err := rule.Apply(proj)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	v, ok := result.(*logicalplan.Values)
	require.True(t, ok)
	require.Empty(t, v.Rows)
}

// TestEmptyPropagationUnionAllWithEmptyBranch drops the empty branch
// rather than collapsing the whole union, since UNION ALL over
// (empty, nonEmpty) still yields nonEmpty's rows.
func TestEmptyPropagationUnionAllWithEmptyBranch(t *testing.T) {
	schema := schemaOf("x")
	empty := logicalplan.NewEmptyValues(schema)
	nonEmpty := logicalplan.NewScan("t", schema)
	union := logicalplan.NewSetOperation(empty, nonEmpty, logicalplan.Union, true)

	rule := emptyPropagationRule()
	result, changed, err := rule.Apply(union)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	require.Equal(t, nonEmpty, result)
}

// TestEmptyPropagationGroupedAggregateOverEmptyIsEmpty covers a
// GROUP BY aggregate over an empty input: zero groups, zero rows.
func TestEmptyPropagationGroupedAggregateOverEmptyIsEmpty(t *testing.T) {
	schema := schemaOf("x")
	empty := logicalplan.NewEmptyValues(schema)
	agg := logicalplan.NewAggregate(empty, []expr.Expr{col(0, "x")}, nil)

	rule := emptyPropagationRule()
	result, changed, err := rule.Apply(agg)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	_, ok := result.(*logicalplan.Values)
	require.True(t, ok)
}

// TestEmptyPropagationUngroupedAggregateOverEmptyKeepsOneRow is the
// documented exception: COUNT(*) and friends over zero input rows
// still produce one row of aggregate defaults, so an aggregate with
// no GROUP BY is left untouched even when its input is empty.
func TestEmptyPropagationUngroupedAggregateOverEmptyKeepsOneRow(t *testing.T) {
	schema := schemaOf("x")
	empty := logicalplan.NewEmptyValues(schema)
	agg := logicalplan.NewAggregate(empty, nil, []logicalplan.ProjectExpr{{
		Expr: &expr.Aggregate{Func: "COUNT", Type: types.Simple(types.Int64)},
		Name: "c",
	}})

	rule := emptyPropagationRule()
	_, changed, err := rule.Apply(agg)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}
