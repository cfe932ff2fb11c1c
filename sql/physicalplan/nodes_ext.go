package physicalplan

import (
	"fmt"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/gapfill"
	"github.com/yachtsql/yachtsql/sql/types"
)

// Window mirrors logicalplan.Window.
type Window struct {
	Input   Plan
	Windows []ProjectExpr
	schema  types.Schema
	Hints_  ExecutionHints
}

func NewWindow(input Plan, windows []ProjectExpr) *Window {
	schema := append(types.Schema{}, input.OutputSchema()...)
	for _, w := range windows {
		schema = append(schema, types.NewField(w.Name, w.Expr.ResolvedType(), w.Expr.Nullable()))
	}
	return &Window{Input: input, Windows: windows, schema: schema}
}

func (w *Window) OutputSchema() types.Schema     { return w.schema }
func (w *Window) Children() []Plan               { return []Plan{w.Input} }
func (w *Window) Hints() ExecutionHints          { return w.Hints_ }
func (w *Window) WithHints(h ExecutionHints) Plan { nw := *w; nw.Hints_ = h; return &nw }
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

// Unnest mirrors logicalplan.Unnest.
type Unnest struct {
	Input      Plan
	Array      expr.Expr
	Alias      string
	Ordinality bool
	schema     types.Schema
	Hints_     ExecutionHints
}

func (u *Unnest) OutputSchema() types.Schema { return u.schema }
func (u *Unnest) Children() []Plan {
	if u.Input == nil {
		return nil
	}
	return []Plan{u.Input}
}
func (u *Unnest) Hints() ExecutionHints          { return u.Hints_ }
func (u *Unnest) WithHints(h ExecutionHints) Plan { nu := *u; nu.Hints_ = h; return &nu }
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

// Qualify mirrors logicalplan.Qualify.
type Qualify struct {
	Input     Plan
	Predicate expr.Expr
	Hints_    ExecutionHints
}

func (q *Qualify) OutputSchema() types.Schema     { return q.Input.OutputSchema() }
func (q *Qualify) Children() []Plan               { return []Plan{q.Input} }
func (q *Qualify) Hints() ExecutionHints          { return q.Hints_ }
func (q *Qualify) WithHints(h ExecutionHints) Plan { nq := *q; nq.Hints_ = h; return &nq }
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

// Sample mirrors logicalplan.Sample.
type Sample struct {
	Input    Plan
	Fraction float64
	RowCount *int64
	Hints_   ExecutionHints
}

func (s *Sample) OutputSchema() types.Schema     { return s.Input.OutputSchema() }
func (s *Sample) Children() []Plan               { return []Plan{s.Input} }
func (s *Sample) Hints() ExecutionHints          { return s.Hints_ }
func (s *Sample) WithHints(h ExecutionHints) Plan { ns := *s; ns.Hints_ = h; return &ns }
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

// GapFill is the physical plan node for the gap-fill operator
// (spec.md section 4.5): Spec is the fully resolved gapfill.Spec, with
// indices already bound against Input's schema.
type GapFill struct {
	Input  Plan
	Spec   gapfill.Spec
	Hints_ ExecutionHints
}

func NewGapFill(input Plan, spec gapfill.Spec) *GapFill { return &GapFill{Input: input, Spec: spec} }

func (g *GapFill) OutputSchema() types.Schema     { return g.Input.OutputSchema() }
func (g *GapFill) Children() []Plan               { return []Plan{g.Input} }
func (g *GapFill) Hints() ExecutionHints          { return g.Hints_ }
func (g *GapFill) WithHints(h ExecutionHints) Plan { ng := *g; ng.Hints_ = h; return &ng }
func (g *GapFill) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("GapFill", 1, children); err != nil {
		return nil, err
	}
	ng := *g
	ng.Input = children[0]
	return &ng, nil
}
func (g *GapFill) String() string { return fmt.Sprintf("GapFill\n  %s", indent(g.Input.String())) }
