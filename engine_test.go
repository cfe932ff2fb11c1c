package yachtsql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/analyzer"
	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/types"
)

func userSchema() types.Schema {
	return types.Schema{
		types.NewField("id", types.Simple(types.Int64), false),
		types.NewField("country", types.Simple(types.String), true),
	}
}

// TestEngineOptimizeEndToEnd exercises spec.md section 2's full data
// flow: a Filter/Project/Scan logical plan is lowered to a physical
// plan and the Filter's trivial TRUE conjunct is dropped by the
// logical phase before lowering ever sees it.
func TestEngineOptimizeEndToEnd(t *testing.T) {
	schema := userSchema()
	scan := logicalplan.NewScan("users", schema)
	countryCol := expr.NewResolvedColumn(1, "", "country", types.Simple(types.String), true)
	trueLit := expr.NewLiteral(types.BoolValue(true))
	predicate := expr.NewBinaryOp(expr.And, trueLit, expr.NewBinaryOp(expr.Eq, countryCol, expr.NewLiteral(types.StringValue("US")), types.Simple(types.Bool)), types.Simple(types.Bool))
	filter := logicalplan.NewFilter(scan, predicate)

	e := New(nil, DefaultConfig())
	physical, err := e.Optimize(filter)
	require.NoError(t, err)
	require.NotNil(t, physical)

	f, ok := physical.(*physicalplan.Filter)
	require.True(t, ok, "expected a physical Filter at the root, got %T", physical)
	// The TRUE conjunct introduced above must be gone: the predicate
	// surviving optimization is exactly the equality comparison.
	bin, ok := f.Predicate.(*expr.BinaryOp)
	require.True(t, ok)
	require.Equal(t, expr.Eq, bin.Op)
}

// TestEngineOptimizeDisabledIsLowerOnly is the other half of spec.md
// section 4.4's equivalence guard-rail applied to this package's
// entry point: with OptimizerLevel NONE, Optimize must still produce a
// valid physical plan (pure lowering, no rewrites) rather than erroring.
func TestEngineOptimizeDisabledIsLowerOnly(t *testing.T) {
	schema := userSchema()
	scan := logicalplan.NewScan("users", schema)

	cfg := Config{Optimizer: analyzer.Config{Level: analyzer.LevelNone}}
	e := New(nil, cfg)
	physical, err := e.Optimize(scan)
	require.NoError(t, err)
	_, ok := physical.(*physicalplan.Scan)
	require.True(t, ok)
}

// TestEngineOptimizeAppliesParallelHint checks the ParallelExecution
// config knob (spec.md section 6: "PARALLEL_EXECUTION boolean") sets
// the hint on every node of the resulting physical plan.
func TestEngineOptimizeAppliesParallelHint(t *testing.T) {
	schema := userSchema()
	scan := logicalplan.NewScan("users", schema)
	filter := logicalplan.NewFilter(scan, expr.NewLiteral(types.BoolValue(true)))

	cfg := DefaultConfig()
	cfg.ParallelExecution = true
	e := New(nil, cfg)
	physical, err := e.Optimize(filter)
	require.NoError(t, err)
	require.True(t, physical.Hints().Parallel)
}

func TestEngineNewContextMergesVariables(t *testing.T) {
	e := New(nil, Config{Variables: map[string]interface{}{"TIMEZONE": "UTC"}})
	ctx := e.NewContext(nil, map[string]interface{}{"NULL_ORDERING_FIRST": true})

	tz, ok := ctx.Variable("TIMEZONE")
	require.True(t, ok)
	require.Equal(t, "UTC", tz)

	nullsFirst, ok := ctx.Variable("NULL_ORDERING_FIRST")
	require.True(t, ok)
	require.Equal(t, true, nullsFirst)

	require.False(t, ctx.Cancelled())
	ctx.Cancel()
	require.True(t, ctx.Cancelled())
}
