package physicalplan

import (
	"fmt"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/types"
)

// Scan reads a base table. Unlike logicalplan.Scan it never names a
// CTE: by the time lowering runs, CTE inlining (a logical rule) has
// already replaced every CTE scan with its body.
type Scan struct {
	TableName string
	Alias     string
	Schema    types.Schema
	Hints_    ExecutionHints
}

func NewScan(table string, schema types.Schema) *Scan { return &Scan{TableName: table, Schema: schema} }

func (s *Scan) OutputSchema() types.Schema          { return s.Schema }
func (s *Scan) Children() []Plan                    { return nil }
func (s *Scan) Hints() ExecutionHints               { return s.Hints_ }
func (s *Scan) WithHints(h ExecutionHints) Plan      { ns := *s; ns.Hints_ = h; return &ns }
func (s *Scan) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Scan", 0, children); err != nil {
		return nil, err
	}
	return s, nil
}
func (s *Scan) String() string { return fmt.Sprintf("Scan(%s)", s.TableName) }

// Values mirrors logicalplan.Values: a literal/empty row set.
type Values struct {
	Schema types.Schema
	Rows   [][]expr.Expr
	Hints_ ExecutionHints
}

func (v *Values) OutputSchema() types.Schema     { return v.Schema }
func (v *Values) Children() []Plan               { return nil }
func (v *Values) Hints() ExecutionHints          { return v.Hints_ }
func (v *Values) WithHints(h ExecutionHints) Plan { nv := *v; nv.Hints_ = h; return &nv }
func (v *Values) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Values", 0, children); err != nil {
		return nil, err
	}
	return v, nil
}
func (v *Values) String() string { return fmt.Sprintf("Values(%d rows)", len(v.Rows)) }

// Filter mirrors logicalplan.Filter.
type Filter struct {
	Input     Plan
	Predicate expr.Expr
	Hints_    ExecutionHints
}

func NewFilter(input Plan, predicate expr.Expr) *Filter { return &Filter{Input: input, Predicate: predicate} }

func (f *Filter) OutputSchema() types.Schema     { return f.Input.OutputSchema() }
func (f *Filter) Children() []Plan               { return []Plan{f.Input} }
func (f *Filter) Hints() ExecutionHints          { return f.Hints_ }
func (f *Filter) WithHints(h ExecutionHints) Plan { nf := *f; nf.Hints_ = h; return &nf }
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

// Project mirrors logicalplan.Project.
type Project struct {
	Input  Plan
	Exprs  []ProjectExpr
	schema types.Schema
	Hints_ ExecutionHints
}

func NewProject(input Plan, exprs []ProjectExpr) *Project {
	fields := make(types.Schema, len(exprs))
	for i, e := range exprs {
		fields[i] = types.NewField(e.Name, e.Expr.ResolvedType(), e.Expr.Nullable())
	}
	return &Project{Input: input, Exprs: exprs, schema: fields}
}

func (p *Project) OutputSchema() types.Schema     { return p.schema }
func (p *Project) Children() []Plan               { return []Plan{p.Input} }
func (p *Project) Hints() ExecutionHints          { return p.Hints_ }
func (p *Project) WithHints(h ExecutionHints) Plan { np := *p; np.Hints_ = h; return &np }
func (p *Project) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Project", 1, children); err != nil {
		return nil, err
	}
	np := *p
	np.Input = children[0]
	return &np, nil
}
func (p *Project) String() string {
	return fmt.Sprintf("Project(%s)\n  %s", projectExprsString(p.Exprs), indent(p.Input.String()))
}

// HashAggregate computes GroupBy/Aggregates by building an in-memory
// hash table keyed on GroupBy — the default physical algorithm for
// Aggregate (spec.md section 3).
type HashAggregate struct {
	Input        Plan
	GroupBy      []expr.Expr
	Aggregates   []ProjectExpr
	GroupingSets []GroupingSet
	schema       types.Schema
	Hints_       ExecutionHints
}

func NewHashAggregate(input Plan, groupBy []expr.Expr, aggregates []ProjectExpr) *HashAggregate {
	fields := make(types.Schema, 0, len(groupBy)+len(aggregates))
	for i, g := range groupBy {
		fields = append(fields, types.NewField(fmt.Sprintf("group_%d", i), g.ResolvedType(), g.Nullable()))
	}
	for _, a := range aggregates {
		fields = append(fields, types.NewField(a.Name, a.Expr.ResolvedType(), a.Expr.Nullable()))
	}
	return &HashAggregate{Input: input, GroupBy: groupBy, Aggregates: aggregates, schema: fields}
}

func (a *HashAggregate) OutputSchema() types.Schema     { return a.schema }
func (a *HashAggregate) Children() []Plan               { return []Plan{a.Input} }
func (a *HashAggregate) Hints() ExecutionHints          { return a.Hints_ }
func (a *HashAggregate) WithHints(h ExecutionHints) Plan { na := *a; na.Hints_ = h; return &na }
func (a *HashAggregate) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("HashAggregate", 1, children); err != nil {
		return nil, err
	}
	na := *a
	na.Input = children[0]
	return &na, nil
}
func (a *HashAggregate) String() string {
	return fmt.Sprintf("HashAggregate(group=[%s], agg=[%s])\n  %s",
		exprListString(a.GroupBy), projectExprsString(a.Aggregates), indent(a.Input.String()))
}

// StreamAggregate computes GroupBy/Aggregates assuming Input arrives
// already sorted by GroupBy, so groups can be closed out incrementally
// without a hash table. Lower always emits HashAggregate, and no
// optimizer rule converts a HashAggregate into a StreamAggregate; a
// rule that rebuilds an existing StreamAggregate keeps its kind.
type StreamAggregate struct {
	Input      Plan
	GroupBy    []expr.Expr
	Aggregates []ProjectExpr
	schema     types.Schema
	Hints_     ExecutionHints
}

func NewStreamAggregate(input Plan, groupBy []expr.Expr, aggregates []ProjectExpr) *StreamAggregate {
	fields := make(types.Schema, 0, len(groupBy)+len(aggregates))
	for i, g := range groupBy {
		fields = append(fields, types.NewField(fmt.Sprintf("group_%d", i), g.ResolvedType(), g.Nullable()))
	}
	for _, a := range aggregates {
		fields = append(fields, types.NewField(a.Name, a.Expr.ResolvedType(), a.Expr.Nullable()))
	}
	return &StreamAggregate{Input: input, GroupBy: groupBy, Aggregates: aggregates, schema: fields}
}

func (a *StreamAggregate) OutputSchema() types.Schema     { return a.schema }
func (a *StreamAggregate) Children() []Plan               { return []Plan{a.Input} }
func (a *StreamAggregate) Hints() ExecutionHints          { return a.Hints_ }
func (a *StreamAggregate) WithHints(h ExecutionHints) Plan { na := *a; na.Hints_ = h; return &na }
func (a *StreamAggregate) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("StreamAggregate", 1, children); err != nil {
		return nil, err
	}
	na := *a
	na.Input = children[0]
	return &na, nil
}
func (a *StreamAggregate) String() string {
	return fmt.Sprintf("StreamAggregate(group=[%s], agg=[%s])\n  %s",
		exprListString(a.GroupBy), projectExprsString(a.Aggregates), indent(a.Input.String()))
}

// HashJoin builds a hash table over Right keyed by RightKeys and
// probes it with LeftKeys — the algorithm Cross->Hash Join rewrites a
// qualifying CrossJoin+Filter into (spec.md section 4.4).
type HashJoin struct {
	Left, Right         Plan
	Type                JoinType
	LeftKeys, RightKeys []expr.Expr
	Residual            expr.Expr // extra predicate beyond the equi-join keys, or nil
	schema              types.Schema
	Hints_              ExecutionHints
}

func NewHashJoin(left, right Plan, joinType JoinType, leftKeys, rightKeys []expr.Expr, residual expr.Expr) *HashJoin {
	return &HashJoin{
		Left: left, Right: right, Type: joinType,
		LeftKeys: leftKeys, RightKeys: rightKeys, Residual: residual,
		schema: left.OutputSchema().Concat(right.OutputSchema()),
	}
}

func (j *HashJoin) OutputSchema() types.Schema     { return j.schema }
func (j *HashJoin) Children() []Plan               { return []Plan{j.Left, j.Right} }
func (j *HashJoin) Hints() ExecutionHints          { return j.Hints_ }
func (j *HashJoin) WithHints(h ExecutionHints) Plan { nj := *j; nj.Hints_ = h; return &nj }
func (j *HashJoin) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("HashJoin", 2, children); err != nil {
		return nil, err
	}
	nj := *j
	nj.Left, nj.Right = children[0], children[1]
	nj.schema = nj.Left.OutputSchema().Concat(nj.Right.OutputSchema())
	return &nj, nil
}
func (j *HashJoin) String() string {
	return fmt.Sprintf("%sHashJoin(%s = %s)\n  %s\n  %s", j.Type,
		exprListString(j.LeftKeys), exprListString(j.RightKeys), indent(j.Left.String()), indent(j.Right.String()))
}

// LeftColumnCount returns how many of the join's output columns come
// from Left.
func (j *HashJoin) LeftColumnCount() int { return len(j.Left.OutputSchema()) }

// NestedLoopJoin evaluates Condition once per (left row, right row)
// pair — the fallback algorithm for non-equi join conditions.
type NestedLoopJoin struct {
	Left, Right Plan
	Type        JoinType
	Condition   expr.Expr
	schema      types.Schema
	Hints_      ExecutionHints
}

func NewNestedLoopJoin(left, right Plan, joinType JoinType, condition expr.Expr) *NestedLoopJoin {
	return &NestedLoopJoin{
		Left: left, Right: right, Type: joinType, Condition: condition,
		schema: left.OutputSchema().Concat(right.OutputSchema()),
	}
}

func (j *NestedLoopJoin) OutputSchema() types.Schema     { return j.schema }
func (j *NestedLoopJoin) Children() []Plan               { return []Plan{j.Left, j.Right} }
func (j *NestedLoopJoin) Hints() ExecutionHints          { return j.Hints_ }
func (j *NestedLoopJoin) WithHints(h ExecutionHints) Plan { nj := *j; nj.Hints_ = h; return &nj }
func (j *NestedLoopJoin) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("NestedLoopJoin", 2, children); err != nil {
		return nil, err
	}
	nj := *j
	nj.Left, nj.Right = children[0], children[1]
	nj.schema = nj.Left.OutputSchema().Concat(nj.Right.OutputSchema())
	return &nj, nil
}
func (j *NestedLoopJoin) String() string {
	cond := "true"
	if j.Condition != nil {
		cond = j.Condition.String()
	}
	return fmt.Sprintf("%sNestedLoopJoin(%s)\n  %s\n  %s", j.Type, cond, indent(j.Left.String()), indent(j.Right.String()))
}

// CrossJoin pairs every Left row with every Right row.
type CrossJoin struct {
	Left, Right Plan
	schema      types.Schema
	Hints_      ExecutionHints
}

func NewCrossJoin(left, right Plan) *CrossJoin {
	return &CrossJoin{Left: left, Right: right, schema: left.OutputSchema().Concat(right.OutputSchema())}
}

func (j *CrossJoin) OutputSchema() types.Schema     { return j.schema }
func (j *CrossJoin) Children() []Plan               { return []Plan{j.Left, j.Right} }
func (j *CrossJoin) Hints() ExecutionHints          { return j.Hints_ }
func (j *CrossJoin) WithHints(h ExecutionHints) Plan { nj := *j; nj.Hints_ = h; return &nj }
func (j *CrossJoin) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("CrossJoin", 2, children); err != nil {
		return nil, err
	}
	nj := *j
	nj.Left, nj.Right = children[0], children[1]
	nj.schema = nj.Left.OutputSchema().Concat(nj.Right.OutputSchema())
	return &nj, nil
}
func (j *CrossJoin) String() string {
	return fmt.Sprintf("CrossJoin\n  %s\n  %s", indent(j.Left.String()), indent(j.Right.String()))
}

// LeftColumnCount returns how many of the join's output columns come
// from Left.
func (j *CrossJoin) LeftColumnCount() int { return len(j.Left.OutputSchema()) }

// Sort mirrors logicalplan.Sort.
type Sort struct {
	Input  Plan
	Keys   []SortKey
	Hints_ ExecutionHints
}

func NewSort(input Plan, keys []SortKey) *Sort { return &Sort{Input: input, Keys: keys} }

func (s *Sort) OutputSchema() types.Schema     { return s.Input.OutputSchema() }
func (s *Sort) Children() []Plan               { return []Plan{s.Input} }
func (s *Sort) Hints() ExecutionHints          { return s.Hints_ }
func (s *Sort) WithHints(h ExecutionHints) Plan { ns := *s; ns.Hints_ = h; return &ns }
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

// TopN fuses a Sort directly above a Limit into one operator that
// maintains a bounded heap of size N (spec.md section 4.4, "TopN
// rewrite"; glossary "TopN").
type TopN struct {
	Input  Plan
	Keys   []SortKey
	N      int64
	Hints_ ExecutionHints
}

func NewTopN(input Plan, keys []SortKey, n int64) *TopN { return &TopN{Input: input, Keys: keys, N: n} }

func (t *TopN) OutputSchema() types.Schema     { return t.Input.OutputSchema() }
func (t *TopN) Children() []Plan               { return []Plan{t.Input} }
func (t *TopN) Hints() ExecutionHints          { return t.Hints_ }
func (t *TopN) WithHints(h ExecutionHints) Plan { nt := *t; nt.Hints_ = h; return &nt }
func (t *TopN) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("TopN", 1, children); err != nil {
		return nil, err
	}
	nt := *t
	nt.Input = children[0]
	return &nt, nil
}
func (t *TopN) String() string {
	return fmt.Sprintf("TopN(%s, n=%d)\n  %s", sortKeysString(t.Keys), t.N, indent(t.Input.String()))
}

// Limit mirrors logicalplan.Limit.
type Limit struct {
	Input  Plan
	Count  expr.Expr
	Offset expr.Expr
	Hints_ ExecutionHints
}

func NewLimit(input Plan, count expr.Expr) *Limit { return &Limit{Input: input, Count: count} }

func (l *Limit) OutputSchema() types.Schema     { return l.Input.OutputSchema() }
func (l *Limit) Children() []Plan               { return []Plan{l.Input} }
func (l *Limit) Hints() ExecutionHints          { return l.Hints_ }
func (l *Limit) WithHints(h ExecutionHints) Plan { nl := *l; nl.Hints_ = h; return &nl }
func (l *Limit) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Limit", 1, children); err != nil {
		return nil, err
	}
	nl := *l
	nl.Input = children[0]
	return &nl, nil
}
func (l *Limit) String() string { return fmt.Sprintf("Limit(%s)\n  %s", l.Count, indent(l.Input.String())) }

// Distinct mirrors logicalplan.Distinct.
type Distinct struct {
	Input  Plan
	Hints_ ExecutionHints
}

func NewDistinct(input Plan) *Distinct { return &Distinct{Input: input} }

func (d *Distinct) OutputSchema() types.Schema     { return d.Input.OutputSchema() }
func (d *Distinct) Children() []Plan               { return []Plan{d.Input} }
func (d *Distinct) Hints() ExecutionHints          { return d.Hints_ }
func (d *Distinct) WithHints(h ExecutionHints) Plan { nd := *d; nd.Hints_ = h; return &nd }
func (d *Distinct) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Distinct", 1, children); err != nil {
		return nil, err
	}
	nd := *d
	nd.Input = children[0]
	return &nd, nil
}
func (d *Distinct) String() string { return fmt.Sprintf("Distinct\n  %s", indent(d.Input.String())) }

// SetOperation mirrors logicalplan.SetOperation.
type SetOperation struct {
	Left, Right Plan
	Kind        SetOpKind
	All         bool
	Hints_      ExecutionHints
}

func NewSetOperation(left, right Plan, kind SetOpKind, all bool) *SetOperation {
	return &SetOperation{Left: left, Right: right, Kind: kind, All: all}
}

func (s *SetOperation) OutputSchema() types.Schema     { return s.Left.OutputSchema() }
func (s *SetOperation) Children() []Plan               { return []Plan{s.Left, s.Right} }
func (s *SetOperation) Hints() ExecutionHints          { return s.Hints_ }
func (s *SetOperation) WithHints(h ExecutionHints) Plan { ns := *s; ns.Hints_ = h; return &ns }
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
