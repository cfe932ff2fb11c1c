package expr

import (
	"fmt"
	"strings"

	"github.com/yachtsql/yachtsql/sql/sqlctx"
	"github.com/yachtsql/yachtsql/sql/types"
)

// WhenClause is one WHEN/THEN pair of a Case expression.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// Case implements CASE [operand] WHEN ... THEN ... [ELSE ...] END.
// WHEN predicates are evaluated left-to-right; the first match wins;
// ELSE (implicit NULL if absent) otherwise (spec.md section 4.2).
type Case struct {
	Operand Expr // nil for the searched form
	Whens   []WhenClause
	Else    Expr // nil means implicit NULL
	Type    types.ElaboratedType
}

func (c *Case) ResolvedType() types.ElaboratedType { return c.Type }
func (c *Case) Nullable() bool                     { return true }

func (c *Case) Children() []Expr {
	var out []Expr
	if c.Operand != nil {
		out = append(out, c.Operand)
	}
	for _, w := range c.Whens {
		out = append(out, w.Condition, w.Result)
	}
	if c.Else != nil {
		out = append(out, c.Else)
	}
	return out
}

func (c *Case) WithChildren(children ...Expr) (Expr, error) {
	want := len(c.Children())
	if err := checkArity("Case", want, children); err != nil {
		return nil, err
	}
	nc := *c
	i := 0
	if c.Operand != nil {
		nc.Operand = children[i]
		i++
	}
	nc.Whens = make([]WhenClause, len(c.Whens))
	for w := range c.Whens {
		nc.Whens[w] = WhenClause{Condition: children[i], Result: children[i+1]}
		i += 2
	}
	if c.Else != nil {
		nc.Else = children[i]
	}
	return &nc, nil
}

func (c *Case) String() string {
	s := "CASE"
	if c.Operand != nil {
		s += " " + c.Operand.String()
	}
	for _, w := range c.Whens {
		s += fmt.Sprintf(" WHEN %s THEN %s", w.Condition, w.Result)
	}
	if c.Else != nil {
		s += " ELSE " + c.Else.String()
	}
	return s + " END"
}

func (c *Case) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	var operand types.Value
	hasOperand := c.Operand != nil
	if hasOperand {
		v, err := c.Operand.Eval(ctx, row)
		if err != nil {
			return types.Value{}, err
		}
		operand = v
	}
	for _, w := range c.Whens {
		var matched bool
		if hasOperand {
			cv, err := w.Condition.Eval(ctx, row)
			if err != nil {
				return types.Value{}, err
			}
			eq := types.Equals(operand, cv)
			matched = eq.Valid && eq.Bool
		} else {
			cv, err := w.Condition.Eval(ctx, row)
			if err != nil {
				return types.Value{}, err
			}
			b := types.BoolOrNullFromValue(cv)
			matched = b.Valid && b.Bool
		}
		if matched {
			return w.Result.Eval(ctx, row)
		}
	}
	if c.Else != nil {
		return c.Else.Eval(ctx, row)
	}
	return types.Null(c.Type), nil
}

// Alias names an expression (`expr AS name`).
type Alias struct {
	Expr Expr
	Name string
}

func NewAlias(e Expr, name string) *Alias { return &Alias{Expr: e, Name: name} }

func (a *Alias) ResolvedType() types.ElaboratedType { return a.Expr.ResolvedType() }
func (a *Alias) Nullable() bool                     { return a.Expr.Nullable() }
func (a *Alias) Children() []Expr                   { return []Expr{a.Expr} }
func (a *Alias) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("Alias", 1, children); err != nil {
		return nil, err
	}
	na := *a
	na.Expr = children[0]
	return &na, nil
}
func (a *Alias) String() string { return fmt.Sprintf("%s AS %s", a.Expr, a.Name) }
func (a *Alias) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	return a.Expr.Eval(ctx, row)
}

// Coalesce returns the first non-NULL argument, or NULL if all are
// NULL (spec.md section 4.2). Modeled as a ScalarFunction with a fixed
// name so null-rejection analysis (outer-to-inner join) can special
// case it without a full function registry lookup.
const CoalesceFuncName = "COALESCE"

// IfnullFuncName is an alias for Coalesce with exactly two arguments.
const IfnullFuncName = "IFNULL"

// NullifFuncName implements NULLIF(a, b): NULL when a=b under
// three-valued equality, else a (spec.md section 4.2).
const NullifFuncName = "NULLIF"

func isCoalesceLike(name string) bool {
	switch strings.ToUpper(name) {
	case CoalesceFuncName, IfnullFuncName:
		return true
	default:
		return false
	}
}

// IsCoalesceFunc reports whether e is a COALESCE/IFNULL call, the one
// scalar function shape the outer-to-inner join rule must recognize by
// name: COALESCE produces a non-null result from a null input, so it is
// never null-rejecting regardless of its arguments (spec.md section
// 4.4).
func IsCoalesceFunc(e Expr) bool {
	f, ok := e.(*ScalarFunction)
	return ok && isCoalesceLike(f.Name)
}

func evalCoalesce(ctx *sqlctx.Context, row []types.Value, args []Expr) (types.Value, error) {
	var last types.Value
	for _, a := range args {
		v, err := a.Eval(ctx, row)
		if err != nil {
			return types.Value{}, err
		}
		last = v
		if !v.IsNull {
			return v, nil
		}
	}
	return last, nil
}

func evalNullif(ctx *sqlctx.Context, row []types.Value, args []Expr) (types.Value, error) {
	if len(args) != 2 {
		return types.Value{}, errArity(NullifFuncName, 2, len(args))
	}
	a, err := args[0].Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	b, err := args[1].Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	eq := types.Equals(a, b)
	if eq.Valid && eq.Bool {
		return types.Null(a.Type), nil
	}
	return a, nil
}
