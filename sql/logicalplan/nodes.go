package logicalplan

import (
	"fmt"
	"strings"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/types"
)

// Scan reads a base table, or (when CTEName is non-empty) references a
// CTE by name. IR utilities in util.go treat a Scan with a non-empty
// CTEName specially: CountDirectCTEScans counts exactly these.
type Scan struct {
	TableName string
	Alias     string
	CTEName   string
	Schema    types.Schema
}

func NewScan(table string, schema types.Schema) *Scan {
	return &Scan{TableName: table, Schema: schema}
}

func (s *Scan) OutputSchema() types.Schema { return s.Schema }
func (s *Scan) Children() []Plan           { return nil }
func (s *Scan) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Scan", 0, children); err != nil {
		return nil, err
	}
	return s, nil
}
func (s *Scan) String() string {
	name := s.TableName
	if s.CTEName != "" {
		name = s.CTEName
	}
	if s.Alias != "" && s.Alias != name {
		return fmt.Sprintf("Scan(%s AS %s)", name, s.Alias)
	}
	return fmt.Sprintf("Scan(%s)", name)
}

// Values is a literal row set with an explicit schema: used both for
// VALUES(...) clauses and as the canonical empty relation produced by
// empty propagation (spec.md section 4.4 rule 7).
type Values struct {
	Schema types.Schema
	Rows   [][]expr.Expr
}

// NewEmptyValues builds the empty-relation replacement empty
// propagation substitutes for WHERE FALSE / empty union arm,
// preserving the original node's schema.
func NewEmptyValues(schema types.Schema) *Values {
	return &Values{Schema: schema}
}

func (v *Values) OutputSchema() types.Schema { return v.Schema }
func (v *Values) Children() []Plan           { return nil }
func (v *Values) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Values", 0, children); err != nil {
		return nil, err
	}
	return v, nil
}
func (v *Values) String() string {
	return fmt.Sprintf("Values(%d rows)", len(v.Rows))
}

// Filter keeps rows of Input for which Predicate evaluates TRUE (NULL
// and FALSE are both excluded, per spec.md section 4.2's three-valued
// semantics).
type Filter struct {
	Input     Plan
	Predicate expr.Expr
}

func NewFilter(input Plan, predicate expr.Expr) *Filter {
	return &Filter{Input: input, Predicate: predicate}
}

func (f *Filter) OutputSchema() types.Schema { return f.Input.OutputSchema() }
func (f *Filter) Children() []Plan           { return []Plan{f.Input} }
func (f *Filter) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Filter", 1, children); err != nil {
		return nil, err
	}
	nf := *f
	nf.Input = children[0]
	return &nf, nil
}
func (f *Filter) String() string {
	return fmt.Sprintf("Filter(%s)\n  %s", f.Predicate, indent(f.Input.String()))
}

// ProjectExpr is one output column of a Project: an expression plus
// its output name.
type ProjectExpr struct {
	Expr expr.Expr
	Name string
}

// Project computes a new set of output columns from Input.
type Project struct {
	Input   Plan
	Exprs   []ProjectExpr
	schema  types.Schema
}

func NewProject(input Plan, exprs []ProjectExpr) *Project {
	fields := make(types.Schema, len(exprs))
	for i, e := range exprs {
		fields[i] = types.NewField(e.Name, e.Expr.ResolvedType(), e.Expr.Nullable())
	}
	return &Project{Input: input, Exprs: exprs, schema: fields}
}

func (p *Project) OutputSchema() types.Schema { return p.schema }
func (p *Project) Children() []Plan           { return []Plan{p.Input} }
func (p *Project) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Project", 1, children); err != nil {
		return nil, err
	}
	np := *p
	np.Input = children[0]
	return &np, nil
}
func (p *Project) String() string {
	parts := make([]string, len(p.Exprs))
	for i, e := range p.Exprs {
		parts[i] = fmt.Sprintf("%s AS %s", e.Expr, e.Name)
	}
	return fmt.Sprintf("Project(%s)\n  %s", strings.Join(parts, ", "), indent(p.Input.String()))
}

// IsIdentity reports whether every projected expression is a plain,
// unrenamed pass-through of the input column at the same position —
// the shape Project merging (spec.md section 4.4) drops entirely.
func (p *Project) IsIdentity() bool {
	inSchema := p.Input.OutputSchema()
	if len(p.Exprs) != len(inSchema) {
		return false
	}
	for i, e := range p.Exprs {
		col, ok := e.Expr.(*expr.Column)
		if !ok || col.Index != i || e.Name != inSchema[i].Name {
			return false
		}
	}
	return true
}

// GroupingSet is one explicit combination of group-by expression
// indices a grouping-sets Aggregate emits (spec.md glossary, "Grouping
// sets").
type GroupingSet []int

// Aggregate groups Input by GroupBy and computes Aggregates per group;
// GroupingSets, when non-nil, enumerates explicit key combinations
// (superset of ROLLUP/CUBE) rather than a single flat GROUP BY.
type Aggregate struct {
	Input        Plan
	GroupBy      []expr.Expr
	Aggregates   []ProjectExpr
	GroupingSets []GroupingSet
	schema       types.Schema
}

func NewAggregate(input Plan, groupBy []expr.Expr, aggregates []ProjectExpr) *Aggregate {
	fields := make(types.Schema, 0, len(groupBy)+len(aggregates))
	for i, g := range groupBy {
		fields = append(fields, types.NewField(fmt.Sprintf("group_%d", i), g.ResolvedType(), g.Nullable()))
	}
	for _, a := range aggregates {
		fields = append(fields, types.NewField(a.Name, a.Expr.ResolvedType(), a.Expr.Nullable()))
	}
	return &Aggregate{Input: input, GroupBy: groupBy, Aggregates: aggregates, schema: fields}
}

func (a *Aggregate) OutputSchema() types.Schema { return a.schema }
func (a *Aggregate) Children() []Plan           { return []Plan{a.Input} }
func (a *Aggregate) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Aggregate", 1, children); err != nil {
		return nil, err
	}
	na := *a
	na.Input = children[0]
	return &na, nil
}
func (a *Aggregate) String() string {
	return fmt.Sprintf("Aggregate(group=[%s], agg=[%s])\n  %s",
		exprListString(a.GroupBy), projectExprsString(a.Aggregates), indent(a.Input.String()))
}

func projectExprsString(exprs []ProjectExpr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = fmt.Sprintf("%s AS %s", e.Expr, e.Name)
	}
	return strings.Join(parts, ", ")
}

// Join combines Left and Right rows per Type and Condition. Condition
// is nil for CrossJoin.
type Join struct {
	Left, Right Plan
	Type        JoinType
	Condition   expr.Expr
	schema      types.Schema
}

func NewJoin(left, right Plan, joinType JoinType, condition expr.Expr) *Join {
	return &Join{
		Left: left, Right: right, Type: joinType, Condition: condition,
		schema: left.OutputSchema().Concat(right.OutputSchema()),
	}
}

func (j *Join) OutputSchema() types.Schema { return j.schema }
func (j *Join) Children() []Plan           { return []Plan{j.Left, j.Right} }
func (j *Join) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Join", 2, children); err != nil {
		return nil, err
	}
	nj := *j
	nj.Left, nj.Right = children[0], children[1]
	nj.schema = nj.Left.OutputSchema().Concat(nj.Right.OutputSchema())
	return &nj, nil
}
func (j *Join) String() string {
	cond := "true"
	if j.Condition != nil {
		cond = j.Condition.String()
	}
	return fmt.Sprintf("%sJoin(%s)\n  %s\n  %s", j.Type, cond, indent(j.Left.String()), indent(j.Right.String()))
}

// LeftColumnCount returns how many of Join's output columns come from
// Left, used by null-rejection and pushdown rules to classify which
// side a Column index belongs to.
func (j *Join) LeftColumnCount() int { return len(j.Left.OutputSchema()) }

// Sort orders Input by Keys.
type Sort struct {
	Input Plan
	Keys  []SortKey
}

func NewSort(input Plan, keys []SortKey) *Sort { return &Sort{Input: input, Keys: keys} }

func (s *Sort) OutputSchema() types.Schema { return s.Input.OutputSchema() }
func (s *Sort) Children() []Plan           { return []Plan{s.Input} }
func (s *Sort) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Sort", 1, children); err != nil {
		return nil, err
	}
	ns := *s
	ns.Input = children[0]
	return &ns, nil
}
func (s *Sort) String() string {
	return fmt.Sprintf("Sort(%s)\n  %s", sortKeysString(s.Keys), indent(s.Input.String()))
}

// Limit caps Input's row count at Count, skipping Offset rows first.
// Offset is nil when absent.
type Limit struct {
	Input  Plan
	Count  expr.Expr
	Offset expr.Expr
}

func NewLimit(input Plan, count expr.Expr) *Limit { return &Limit{Input: input, Count: count} }

func (l *Limit) OutputSchema() types.Schema { return l.Input.OutputSchema() }
func (l *Limit) Children() []Plan           { return []Plan{l.Input} }
func (l *Limit) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Limit", 1, children); err != nil {
		return nil, err
	}
	nl := *l
	nl.Input = children[0]
	return &nl, nil
}
func (l *Limit) String() string {
	return fmt.Sprintf("Limit(%s)\n  %s", l.Count, indent(l.Input.String()))
}

// Distinct deduplicates Input's rows over all output columns.
type Distinct struct {
	Input Plan
}

func NewDistinct(input Plan) *Distinct { return &Distinct{Input: input} }

func (d *Distinct) OutputSchema() types.Schema { return d.Input.OutputSchema() }
func (d *Distinct) Children() []Plan           { return []Plan{d.Input} }
func (d *Distinct) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Distinct", 1, children); err != nil {
		return nil, err
	}
	nd := *d
	nd.Input = children[0]
	return &nd, nil
}
func (d *Distinct) String() string { return fmt.Sprintf("Distinct\n  %s", indent(d.Input.String())) }

// SetOperation combines Left and Right under Kind (UNION/INTERSECT/
// EXCEPT); All selects the ALL variant (no deduplication).
type SetOperation struct {
	Left, Right Plan
	Kind        SetOpKind
	All         bool
}

func NewSetOperation(left, right Plan, kind SetOpKind, all bool) *SetOperation {
	return &SetOperation{Left: left, Right: right, Kind: kind, All: all}
}

func (s *SetOperation) OutputSchema() types.Schema { return s.Left.OutputSchema() }
func (s *SetOperation) Children() []Plan           { return []Plan{s.Left, s.Right} }
func (s *SetOperation) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("SetOperation", 2, children); err != nil {
		return nil, err
	}
	ns := *s
	ns.Left, ns.Right = children[0], children[1]
	return &ns, nil
}
func (s *SetOperation) String() string {
	all := ""
	if s.All {
		all = " ALL"
	}
	return fmt.Sprintf("%s%s\n  %s\n  %s", s.Kind, all, indent(s.Left.String()), indent(s.Right.String()))
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
