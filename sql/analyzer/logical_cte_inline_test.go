package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
	"github.com/yachtsql/yachtsql/sql/types"
)

// TestCTEInliningSingleReference is spec.md section 8's concrete
// scenario 2: a CTE referenced once, with no subqueries in its body,
// is inlined away entirely, leaving no WithCte node.
func TestCTEInliningSingleReference(t *testing.T) {
	schema := schemaOf("x", "y")
	cteBody := logicalplan.NewFilter(logicalplan.NewScan("t", schema),
		expr.NewBinaryOp(expr.Gt, col(0, "x"), lit(0), types.Simple(types.Bool)))
	cteScan := &logicalplan.Scan{CTEName: "c", Schema: schema}
	outer := logicalplan.NewFilter(cteScan, expr.NewBinaryOp(expr.Lt, col(1, "y"), lit(10), types.Simple(types.Bool)))
	with := logicalplan.NewWithCte([]logicalplan.CTEDef{{Name: "c", Body: cteBody}}, outer)

	result, changed, err := inlineCTEsInTree(with)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	_, isWith := result.(*logicalplan.WithCte)
	require.False(t, isWith, "CTE with a single reference must be fully inlined")
}

// TestCTEInliningMultipleReferencesLeftAlone covers the "total
// reference count <= 1" precondition (spec.md section 4.4 rule 1):
// two direct Scans of the same CTE must not be inlined.
func TestCTEInliningMultipleReferencesLeftAlone(t *testing.T) {
	schema := schemaOf("x")
	cteBody := logicalplan.NewScan("t", schema)
	scanA := &logicalplan.Scan{CTEName: "c", Schema: schema}
	scanB := &logicalplan.Scan{CTEName: "c", Schema: schema}
	union := logicalplan.NewSetOperation(scanA, scanB, logicalplan.Union, true)
	with := logicalplan.NewWithCte([]logicalplan.CTEDef{{Name: "c", Body: cteBody}}, union)

	result, changed, err := inlineCTEsInTree(with)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
	w, ok := result.(*logicalplan.WithCte)
	require.True(t, ok)
	require.Len(t, w.CTEs, 1)
}

// TestCTEInliningRecursiveLeftAlone covers the RECURSIVE precondition.
func TestCTEInliningRecursiveLeftAlone(t *testing.T) {
	schema := schemaOf("x")
	cteBody := logicalplan.NewScan("t", schema)
	scan := &logicalplan.Scan{CTEName: "c", Schema: schema}
	with := logicalplan.NewWithCte([]logicalplan.CTEDef{{Name: "c", Body: cteBody, Recursive: true}}, scan)

	_, changed, err := inlineCTEsInTree(with)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}

// TestCTEInliningMaterializedLeftAlone covers the MATERIALIZED hint
// precondition.
func TestCTEInliningMaterializedLeftAlone(t *testing.T) {
	schema := schemaOf("x")
	cteBody := logicalplan.NewScan("t", schema)
	scan := &logicalplan.Scan{CTEName: "c", Schema: schema}
	with := logicalplan.NewWithCte([]logicalplan.CTEDef{{Name: "c", Body: cteBody, Materialized: true}}, scan)

	_, changed, err := inlineCTEsInTree(with)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}

// TestCTEInliningZeroReferencesStillDropsCTE exercises the zero-
// reference boundary case spec.md section 8 names ("CTE references:
// zero references"): an unreferenced CTE is vacuously eligible (0 <= 1
// total refs) and is dropped from the CTE list even though nothing
// substitutes for it.
func TestCTEInliningZeroReferencesStillDropsCTE(t *testing.T) {
	schema := schemaOf("x")
	cteBody := logicalplan.NewScan("unused_table", schema)
	body := logicalplan.NewScan("other_table", schema)
	with := logicalplan.NewWithCte([]logicalplan.CTEDef{{Name: "c", Body: cteBody}}, body)

	result, changed, err := inlineCTEsInTree(with)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	_, isWith := result.(*logicalplan.WithCte)
	require.False(t, isWith)
}

// TestCTEInliningPropagatesIntoSiblingCTEs covers "rewrites propagate
// into sibling CTEs too" (spec.md section 4.4 rule 1): CTE "b"
// references CTE "a" exactly once, so inlining "a" must also rewrite
// "b"'s body before the overall WithCte is evaluated for further
// inlining.
func TestCTEInliningPropagatesIntoSiblingCTEs(t *testing.T) {
	schema := schemaOf("x")
	aBody := logicalplan.NewScan("base", schema)
	aScan := &logicalplan.Scan{CTEName: "a", Schema: schema}
	bBody := logicalplan.NewFilter(aScan, expr.NewBinaryOp(expr.Gt, col(0, "x"), lit(0), types.Simple(types.Bool)))
	bScan := &logicalplan.Scan{CTEName: "b", Schema: schema}
	with := logicalplan.NewWithCte([]logicalplan.CTEDef{
		{Name: "a", Body: aBody},
		{Name: "b", Body: bBody},
	}, bScan)

	result, changed, err := inlineCTEsInTree(with)
	require.NoError(t, err)
	require.Equal(t, planutil.NewTree, changed)
	_, isWith := result.(*logicalplan.WithCte)
	require.False(t, isWith, "both single-reference CTEs should fully inline away")
}

// TestCTEInliningSelfReferenceLeftAlone covers the "body does not
// recursively reference itself" precondition via a direct Scan(c)
// inside c's own body, independent of the Recursive flag.
func TestCTEInliningSelfReferenceLeftAlone(t *testing.T) {
	schema := schemaOf("x")
	selfScan := &logicalplan.Scan{CTEName: "c", Schema: schema}
	cteBody := logicalplan.NewFilter(selfScan, expr.NewBinaryOp(expr.Gt, col(0, "x"), lit(0), types.Simple(types.Bool)))
	outerScan := &logicalplan.Scan{CTEName: "c", Schema: schema}
	with := logicalplan.NewWithCte([]logicalplan.CTEDef{{Name: "c", Body: cteBody}}, outerScan)

	_, changed, err := inlineCTEsInTree(with)
	require.NoError(t, err)
	require.Equal(t, planutil.SameTree, changed)
}
