package expr

import (
	"fmt"

	"github.com/yachtsql/yachtsql/sql/sqlctx"
	"github.com/yachtsql/yachtsql/sql/types"
)

// SubqueryPlan is the minimal surface expr needs from a logical plan
// node to embed it inside an expression tree. It exists so this
// package never imports sql/logicalplan (which itself imports sql/expr
// for predicates and projections); sql/logicalplan's node types satisfy this
// interface structurally. Evaluating a subquery plan against outer-row
// correlation is an execution concern, not a core-IR one, so there is
// deliberately no Eval-the-plan method here.
type SubqueryPlan interface {
	OutputSchema() types.Schema
	String() string
}

// Subquery wraps an uncorrelated or correlated subquery plan used in a
// row-producing position (e.g. the right side of IN, or a derived
// table). CorrelatedColumns lists outer-scope Column expressions the
// subquery body references; it is filled in by whoever builds the
// Subquery, and the analyzer's decorrelation pass (spec.md section
// 4.4) reads it to recognize correlation without re-walking the
// subtree.
type Subquery struct {
	Plan              SubqueryPlan
	CorrelatedColumns []*Column
	Type              types.ElaboratedType
}

func (s *Subquery) ResolvedType() types.ElaboratedType { return s.Type }
func (s *Subquery) Nullable() bool                     { return true }
func (s *Subquery) Children() []Expr                   { return nil }
func (s *Subquery) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("Subquery", 0, children); err != nil {
		return nil, err
	}
	return s, nil
}
func (s *Subquery) String() string { return fmt.Sprintf("(%s)", s.Plan) }
func (s *Subquery) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	return types.Value{}, unsupported("subquery plans are evaluated by the executor, not the expression tree")
}

// ScalarSubquery is a subquery expected to produce exactly one row and
// one column at execution time (an error otherwise); its static Type
// is the single output column's type.
type ScalarSubquery struct {
	Subquery
}

// ArraySubquery collects a subquery's single output column into an
// ARRAY value, one element per row, preserving row order.
type ArraySubquery struct {
	Subquery
}

func (s *ArraySubquery) ResolvedType() types.ElaboratedType {
	return types.ArrayOf(s.Type)
}

// InSubquery implements `expr [NOT] IN (subquery)` with standard SQL
// three-valued semantics: UNKNOWN if expr is NULL and the subquery is
// non-empty, or if expr is non-NULL, doesn't match any row, but the
// subquery contains a NULL (spec.md section 4.2 IN semantics, shared
// with InList).
type InSubquery struct {
	Expr     Expr
	Subquery *Subquery
	Negated  bool
}

func (i *InSubquery) ResolvedType() types.ElaboratedType { return types.Simple(types.Bool) }
func (i *InSubquery) Nullable() bool                     { return true }
func (i *InSubquery) Children() []Expr                   { return []Expr{i.Expr, i.Subquery} }
func (i *InSubquery) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("InSubquery", 2, children); err != nil {
		return nil, err
	}
	ni := *i
	ni.Expr = children[0]
	sub, ok := children[1].(*Subquery)
	if !ok {
		return nil, typeMismatch("*Subquery", fmt.Sprintf("%T", children[1]))
	}
	ni.Subquery = sub
	return &ni, nil
}
func (i *InSubquery) String() string {
	if i.Negated {
		return fmt.Sprintf("%s NOT IN %s", i.Expr, i.Subquery)
	}
	return fmt.Sprintf("%s IN %s", i.Expr, i.Subquery)
}
func (i *InSubquery) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	return types.Value{}, unsupported("IN (subquery) is decorrelated by the analyzer before execution")
}

// InUnnest implements `expr IN UNNEST(array_expr)`, BigQuery's array
// membership test. Unlike InSubquery this is resolvable against a
// single row without a relational subplan, so it is evaluated here
// directly using the same three-valued rules as InList.
type InUnnest struct {
	Expr    Expr
	Array   Expr
	Negated bool
}

func (i *InUnnest) ResolvedType() types.ElaboratedType { return types.Simple(types.Bool) }
func (i *InUnnest) Nullable() bool                     { return true }
func (i *InUnnest) Children() []Expr                   { return []Expr{i.Expr, i.Array} }
func (i *InUnnest) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("InUnnest", 2, children); err != nil {
		return nil, err
	}
	ni := *i
	ni.Expr, ni.Array = children[0], children[1]
	return &ni, nil
}
func (i *InUnnest) String() string {
	if i.Negated {
		return fmt.Sprintf("%s NOT IN UNNEST(%s)", i.Expr, i.Array)
	}
	return fmt.Sprintf("%s IN UNNEST(%s)", i.Expr, i.Array)
}
func (i *InUnnest) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	left, err := i.Expr.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	arr, err := i.Array.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if arr.IsNull {
		return types.Null(types.Simple(types.Bool)), nil
	}
	if left.IsNull {
		return types.UnknownB().ToValue(), nil
	}
	sawNull := false
	matched := false
	for _, elem := range arr.Array {
		if elem.IsNull {
			sawNull = true
			continue
		}
		eq := types.Equals(left, elem)
		if eq.Valid && eq.Bool {
			matched = true
			break
		}
	}
	if matched {
		return types.BoolValue(!i.Negated), nil
	}
	if sawNull {
		return types.UnknownB().ToValue(), nil
	}
	return types.BoolValue(i.Negated), nil
}

// Exists implements `[NOT] EXISTS (subquery)`: always resolves to a
// concrete TRUE/FALSE, never UNKNOWN, since it tests row presence
// rather than a value (spec.md section 4.2).
type Exists struct {
	Subquery *Subquery
	Negated  bool
}

func (e *Exists) ResolvedType() types.ElaboratedType { return types.Simple(types.Bool) }
func (e *Exists) Nullable() bool                     { return false }
func (e *Exists) Children() []Expr                   { return []Expr{e.Subquery} }
func (e *Exists) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("Exists", 1, children); err != nil {
		return nil, err
	}
	sub, ok := children[0].(*Subquery)
	if !ok {
		return nil, typeMismatch("*Subquery", fmt.Sprintf("%T", children[0]))
	}
	ne := *e
	ne.Subquery = sub
	return &ne, nil
}
func (e *Exists) String() string {
	if e.Negated {
		return fmt.Sprintf("NOT EXISTS %s", e.Subquery)
	}
	return fmt.Sprintf("EXISTS %s", e.Subquery)
}
func (e *Exists) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	return types.Value{}, unsupported("EXISTS is resolved by the executor against the subquery's row count")
}
