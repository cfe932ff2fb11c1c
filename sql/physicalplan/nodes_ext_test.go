package physicalplan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/gapfill"
	"github.com/yachtsql/yachtsql/sql/types"
)

func TestWindowAppendsOutputColumns(t *testing.T) {
	scan := NewScan("t", schemaOf("a"))
	win := NewWindow(scan, []ProjectExpr{{Name: "rn", Expr: col(0, "a")}})
	require.Equal(t, []string{"a", "rn"}, win.OutputSchema().FieldNames())
}

func TestUnnestWithoutInputHasNoChildren(t *testing.T) {
	u := &Unnest{Array: expr.NewLiteral(types.Int64Value(1)), Alias: "x"}
	require.Empty(t, u.Children())
	rebuilt, err := u.WithChildren()
	require.NoError(t, err)
	require.Nil(t, rebuilt.(*Unnest).Input)
}

func TestQualifyPreservesInputSchema(t *testing.T) {
	scan := NewScan("t", schemaOf("a"))
	q := &Qualify{Input: scan, Predicate: col(0, "a")}
	require.Equal(t, scan.OutputSchema(), q.OutputSchema())
}

func TestSampleStringByRowCount(t *testing.T) {
	scan := NewScan("t", schemaOf("a"))
	n := int64(5)
	s := &Sample{Input: scan, RowCount: &n}
	require.Contains(t, s.String(), "rows=5")
}

func TestGapFillDelegatesOutputSchemaToInput(t *testing.T) {
	scan := NewScan("t", schemaOf("a"))
	gf := NewGapFill(scan, gapfill.Spec{})
	require.Equal(t, scan.OutputSchema(), gf.OutputSchema())
}
