package logicalplan

import (
	"fmt"
	"strings"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/types"
)

// Procedural statements (If/While/For/Loop/Block/Repeat/TryCatch, per
// spec.md section 3) are control flow for BigQuery's scripting
// surface, not relational operators: no optimizer rule in spec.md
// section 4.4 targets them, so they pass through every pass unchanged
// (the generic rewrite helpers still walk into their child plans so
// rules that DO apply inside a procedural body — e.g. a SELECT inside
// an IF branch — still fire).

// Block runs Statements in sequence; its output schema is whichever
// statement is last (an empty schema if empty or the last statement
// produces no rows).
type Block struct {
	Statements []Plan
}

func (b *Block) OutputSchema() types.Schema {
	if len(b.Statements) == 0 {
		return types.Schema{}
	}
	return b.Statements[len(b.Statements)-1].OutputSchema()
}
func (b *Block) Children() []Plan { return b.Statements }
func (b *Block) WithChildren(children ...Plan) (Plan, error) {
	nb := *b
	nb.Statements = append([]Plan(nil), children...)
	return &nb, nil
}
func (b *Block) String() string {
	parts := make([]string, len(b.Statements))
	for i, s := range b.Statements {
		parts[i] = s.String()
	}
	return "Block(\n  " + indent(strings.Join(parts, ";\n")) + "\n)"
}

// IfBranch is one IF/ELSEIF arm.
type IfBranch struct {
	Condition expr.Expr
	Body      Plan
}

// If implements IF/ELSEIF/ELSE; Else is nil when absent.
type If struct {
	Branches []IfBranch
	Else     Plan
}

func (n *If) OutputSchema() types.Schema {
	if len(n.Branches) > 0 {
		return n.Branches[0].Body.OutputSchema()
	}
	return types.Schema{}
}
func (n *If) Children() []Plan {
	children := make([]Plan, 0, len(n.Branches)+1)
	for _, b := range n.Branches {
		children = append(children, b.Body)
	}
	if n.Else != nil {
		children = append(children, n.Else)
	}
	return children
}
func (n *If) WithChildren(children ...Plan) (Plan, error) {
	want := len(n.Branches)
	if n.Else != nil {
		want++
	}
	if err := checkArity("If", want, children); err != nil {
		return nil, err
	}
	nn := *n
	nn.Branches = make([]IfBranch, len(n.Branches))
	for i, b := range n.Branches {
		nn.Branches[i] = IfBranch{Condition: b.Condition, Body: children[i]}
	}
	if n.Else != nil {
		nn.Else = children[len(children)-1]
	}
	return &nn, nil
}
func (n *If) String() string {
	parts := make([]string, len(n.Branches))
	for i, b := range n.Branches {
		parts[i] = fmt.Sprintf("WHEN %s THEN %s", b.Condition, b.Body)
	}
	s := "If(" + strings.Join(parts, " ") + ")"
	if n.Else != nil {
		s += " ELSE " + n.Else.String()
	}
	return s
}

// While runs Body repeatedly while Condition holds.
type While struct {
	Condition expr.Expr
	Body      Plan
}

func (w *While) OutputSchema() types.Schema { return types.Schema{} }
func (w *While) Children() []Plan           { return []Plan{w.Body} }
func (w *While) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("While", 1, children); err != nil {
		return nil, err
	}
	nw := *w
	nw.Body = children[0]
	return &nw, nil
}
func (w *While) String() string { return fmt.Sprintf("While(%s)\n  %s", w.Condition, indent(w.Body.String())) }

// For runs Body once per row of Source, binding Variable.
type For struct {
	Variable string
	Source   Plan
	Body     Plan
}

func (f *For) OutputSchema() types.Schema { return types.Schema{} }
func (f *For) Children() []Plan           { return []Plan{f.Source, f.Body} }
func (f *For) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("For", 2, children); err != nil {
		return nil, err
	}
	nf := *f
	nf.Source, nf.Body = children[0], children[1]
	return &nf, nil
}
func (f *For) String() string {
	return fmt.Sprintf("For(%s IN %s)\n  %s", f.Variable, f.Source, indent(f.Body.String()))
}

// Loop runs Body repeatedly until a BREAK statement inside it fires
// (break/continue are execution-level control flow, outside the
// core's IR).
type Loop struct {
	Body Plan
}

func (l *Loop) OutputSchema() types.Schema { return types.Schema{} }
func (l *Loop) Children() []Plan           { return []Plan{l.Body} }
func (l *Loop) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Loop", 1, children); err != nil {
		return nil, err
	}
	nl := *l
	nl.Body = children[0]
	return &nl, nil
}
func (l *Loop) String() string { return fmt.Sprintf("Loop\n  %s", indent(l.Body.String())) }

// Repeat runs Body at least once, then while NOT Until.
type Repeat struct {
	Body  Plan
	Until expr.Expr
}

func (r *Repeat) OutputSchema() types.Schema { return types.Schema{} }
func (r *Repeat) Children() []Plan           { return []Plan{r.Body} }
func (r *Repeat) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Repeat", 1, children); err != nil {
		return nil, err
	}
	nr := *r
	nr.Body = children[0]
	return &nr, nil
}
func (r *Repeat) String() string {
	return fmt.Sprintf("Repeat\n  %s\nUNTIL %s", indent(r.Body.String()), r.Until)
}

// TryCatch runs Try, falling back to Catch on error.
type TryCatch struct {
	Try   Plan
	Catch Plan
}

func (t *TryCatch) OutputSchema() types.Schema { return types.Schema{} }
func (t *TryCatch) Children() []Plan           { return []Plan{t.Try, t.Catch} }
func (t *TryCatch) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("TryCatch", 2, children); err != nil {
		return nil, err
	}
	nt := *t
	nt.Try, nt.Catch = children[0], children[1]
	return &nt, nil
}
func (t *TryCatch) String() string {
	return fmt.Sprintf("TryCatch\n  %s\nCATCH\n  %s", indent(t.Try.String()), indent(t.Catch.String()))
}
