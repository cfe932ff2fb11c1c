package logicalplan

import (
	"fmt"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/gapfill"
	"github.com/yachtsql/yachtsql/sql/types"
)

// Window adds one or more window-function output columns, computed
// over Input, to Input's existing columns (spec.md section 3,
// "Window" LogicalPlan variant; the per-function frame/partition/order
// details live on the expr.Window nodes themselves).
type Window struct {
	Input   Plan
	Windows []ProjectExpr
	schema  types.Schema
}

func NewWindow(input Plan, windows []ProjectExpr) *Window {
	schema := input.OutputSchema()
	for _, w := range windows {
		schema = append(schema, types.NewField(w.Name, w.Expr.ResolvedType(), w.Expr.Nullable()))
	}
	return &Window{Input: input, Windows: windows, schema: schema}
}

func (w *Window) OutputSchema() types.Schema { return w.schema }
func (w *Window) Children() []Plan           { return []Plan{w.Input} }
func (w *Window) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Window", 1, children); err != nil {
		return nil, err
	}
	nw := *w
	nw.Input = children[0]
	return &nw, nil
}
func (w *Window) String() string {
	return fmt.Sprintf("Window(%s)\n  %s", projectExprsString(w.Windows), indent(w.Input.String()))
}

// CTEDef is one WITH-clause binding: a name, its body plan, and
// whether it was declared RECURSIVE or hinted MATERIALIZED — both of
// which make the CTE ineligible for inlining (spec.md section 4.4
// rule 1).
type CTEDef struct {
	Name         string
	Body         Plan
	Recursive    bool
	Materialized bool
}

// WithCte introduces CTEs in scope for Body. Children returns each
// CTE body followed by Body itself, so generic rewrites visit CTE
// definitions too (spec.md section 4.4 rule 1: "Rewrites propagate
// into sibling CTEs too").
type WithCte struct {
	CTEs []CTEDef
	Body Plan
}

func NewWithCte(ctes []CTEDef, body Plan) *WithCte { return &WithCte{CTEs: ctes, Body: body} }

func (w *WithCte) OutputSchema() types.Schema { return w.Body.OutputSchema() }
func (w *WithCte) Children() []Plan {
	children := make([]Plan, 0, len(w.CTEs)+1)
	for _, c := range w.CTEs {
		children = append(children, c.Body)
	}
	children = append(children, w.Body)
	return children
}
func (w *WithCte) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("WithCte", len(w.CTEs)+1, children); err != nil {
		return nil, err
	}
	nw := *w
	nw.CTEs = make([]CTEDef, len(w.CTEs))
	for i, c := range w.CTEs {
		nc := c
		nc.Body = children[i]
		nw.CTEs[i] = nc
	}
	nw.Body = children[len(children)-1]
	return &nw, nil
}
func (w *WithCte) String() string {
	s := "With("
	for i, c := range w.CTEs {
		if i > 0 {
			s += ", "
		}
		s += c.Name
	}
	return s + fmt.Sprintf(")\n  %s", indent(w.Body.String()))
}

// Unnest flattens an ARRAY-typed expression (evaluated per Input row,
// or a bare literal array when Input is nil) into one output row per
// element, optionally with an ordinality column.
type Unnest struct {
	Input      Plan // nil for a top-level UNNEST(...) with no FROM
	Array      expr.Expr
	Alias      string
	Ordinality bool
	schema     types.Schema
}

func NewUnnest(input Plan, array expr.Expr, alias string, ordinality bool) *Unnest {
	elemType := types.Simple(types.Unknown)
	if at := array.ResolvedType(); at.Elem != nil {
		elemType = *at.Elem
	}
	schema := types.Schema{}
	if input != nil {
		schema = append(schema, input.OutputSchema()...)
	}
	schema = append(schema, types.NewField(alias, elemType, true))
	if ordinality {
		schema = append(schema, types.NewField(alias+"_ordinality", types.Simple(types.Int64), false))
	}
	return &Unnest{Input: input, Array: array, Alias: alias, Ordinality: ordinality, schema: schema}
}

func (u *Unnest) OutputSchema() types.Schema { return u.schema }
func (u *Unnest) Children() []Plan {
	if u.Input == nil {
		return nil
	}
	return []Plan{u.Input}
}
func (u *Unnest) WithChildren(children ...Plan) (Plan, error) {
	want := 0
	if u.Input != nil {
		want = 1
	}
	if err := checkArity("Unnest", want, children); err != nil {
		return nil, err
	}
	nu := *u
	if want == 1 {
		nu.Input = children[0]
	}
	return &nu, nil
}
func (u *Unnest) String() string {
	base := fmt.Sprintf("Unnest(%s AS %s)", u.Array, u.Alias)
	if u.Input == nil {
		return base
	}
	return base + "\n  " + indent(u.Input.String())
}

// Qualify filters Input's rows by a predicate referencing window
// function outputs (the QUALIFY clause), applied after Window but
// before the final Project (spec.md section 3).
type Qualify struct {
	Input     Plan
	Predicate expr.Expr
}

func NewQualify(input Plan, predicate expr.Expr) *Qualify { return &Qualify{Input: input, Predicate: predicate} }

func (q *Qualify) OutputSchema() types.Schema { return q.Input.OutputSchema() }
func (q *Qualify) Children() []Plan           { return []Plan{q.Input} }
func (q *Qualify) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Qualify", 1, children); err != nil {
		return nil, err
	}
	nq := *q
	nq.Input = children[0]
	return &nq, nil
}
func (q *Qualify) String() string {
	return fmt.Sprintf("Qualify(%s)\n  %s", q.Predicate, indent(q.Input.String()))
}

// Sample returns a random subset of Input's rows: either a Fraction in
// [0,1] or an explicit RowCount (mutually exclusive; RowCount wins
// when both are set).
type Sample struct {
	Input    Plan
	Fraction float64
	RowCount *int64
}

func (s *Sample) OutputSchema() types.Schema { return s.Input.OutputSchema() }
func (s *Sample) Children() []Plan           { return []Plan{s.Input} }
func (s *Sample) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Sample", 1, children); err != nil {
		return nil, err
	}
	ns := *s
	ns.Input = children[0]
	return &ns, nil
}
func (s *Sample) String() string {
	if s.RowCount != nil {
		return fmt.Sprintf("Sample(rows=%d)\n  %s", *s.RowCount, indent(s.Input.String()))
	}
	return fmt.Sprintf("Sample(fraction=%f)\n  %s", s.Fraction, indent(s.Input.String()))
}

// GapFill is the gap-fill operator's logical plan node (spec.md
// section 4.5). RawArgs carries the parser-supplied, not-yet-resolved
// argument bag; planning resolves it to a gapfill.Spec (via
// gapfill.ParseArgs) before lowering to physicalplan.GapFill.
type GapFill struct {
	Input   Plan
	RawArgs gapfill.RawArgs
}

func NewGapFill(input Plan, args gapfill.RawArgs) *GapFill {
	return &GapFill{Input: input, RawArgs: args}
}

func (g *GapFill) OutputSchema() types.Schema { return g.Input.OutputSchema() }
func (g *GapFill) Children() []Plan           { return []Plan{g.Input} }
func (g *GapFill) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("GapFill", 1, children); err != nil {
		return nil, err
	}
	ng := *g
	ng.Input = children[0]
	return &ng, nil
}
func (g *GapFill) String() string {
	return fmt.Sprintf("GapFill\n  %s", indent(g.Input.String()))
}

// ResolveSpec parses RawArgs against Input's schema. Exposed here so
// both the lowering step and direct callers/tests can validate a
// GapFill node without reaching into the gapfill package themselves.
func (g *GapFill) ResolveSpec() (gapfill.Spec, error) {
	return gapfill.ParseArgs(g.RawArgs, g.Input.OutputSchema())
}
