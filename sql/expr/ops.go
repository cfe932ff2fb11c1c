package expr

import (
	"fmt"

	"github.com/yachtsql/yachtsql/sql/sqlctx"
	"github.com/yachtsql/yachtsql/sql/types"
)

// BinaryOpKind enumerates the binary operators the core itself must
// evaluate: arithmetic (numeric widening, spec.md section 3), boolean
// (three-valued, spec.md section 4.2), and plain equality/ordering
// comparisons used pervasively by optimizer rules (null-rejection,
// predicate inference).
type BinaryOpKind int

const (
	Add BinaryOpKind = iota
	Sub
	Mul
	Div
	IntDiv
	Mod
	Concat
	And
	Or
	Eq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	ShiftLeft
	ShiftRight
)

var binaryOpNames = map[BinaryOpKind]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", IntDiv: "DIV", Mod: "%",
	Concat: "||", And: "AND", Or: "OR", Eq: "=", NotEq: "!=",
	Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
	BitwiseAnd: "&", BitwiseOr: "|", BitwiseXor: "^", ShiftLeft: "<<", ShiftRight: ">>",
}

func (k BinaryOpKind) String() string { return binaryOpNames[k] }

// IsComparison reports whether k is one of =, !=, <, <=, >, >=: the
// set the outer-to-inner join rule treats as null-rejecting whenever
// either side touches a nullable column (spec.md section 4.4).
func (k BinaryOpKind) IsComparison() bool {
	switch k {
	case Eq, NotEq, Lt, LtEq, Gt, GtEq:
		return true
	default:
		return false
	}
}

// BinaryOp is a two-operand expression.
type BinaryOp struct {
	Op          BinaryOpKind
	Left, Right Expr
	Type        types.ElaboratedType
}

func NewBinaryOp(op BinaryOpKind, left, right Expr, t types.ElaboratedType) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right, Type: t}
}

func (b *BinaryOp) ResolvedType() types.ElaboratedType { return b.Type }
func (b *BinaryOp) Nullable() bool                     { return b.Left.Nullable() || b.Right.Nullable() }
func (b *BinaryOp) Children() []Expr                   { return []Expr{b.Left, b.Right} }
func (b *BinaryOp) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("BinaryOp", 2, children); err != nil {
		return nil, err
	}
	nb := *b
	nb.Left, nb.Right = children[0], children[1]
	return &nb, nil
}
func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

func (b *BinaryOp) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	// AND/OR short-circuit under three-valued logic (spec.md 4.2):
	// AND with a FALSE operand is FALSE without evaluating the other
	// side; OR with a TRUE operand is TRUE likewise.
	if b.Op == And || b.Op == Or {
		l, err := b.Left.Eval(ctx, row)
		if err != nil {
			return types.Value{}, err
		}
		lb := types.BoolOrNullFromValue(l)
		if b.Op == And && lb.Valid && !lb.Bool {
			return types.FalseB().ToValue(), nil
		}
		if b.Op == Or && lb.Valid && lb.Bool {
			return types.TrueB().ToValue(), nil
		}
		r, err := b.Right.Eval(ctx, row)
		if err != nil {
			return types.Value{}, err
		}
		rb := types.BoolOrNullFromValue(r)
		if b.Op == And {
			return types.And(lb, rb).ToValue(), nil
		}
		return types.Or(lb, rb).ToValue(), nil
	}

	l, err := b.Left.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	r, err := b.Right.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}

	// NULL arithmetic and comparisons never error; they propagate NULL
	// (spec.md section 7).
	if l.IsNull || r.IsNull {
		if b.Op.IsComparison() {
			return types.UnknownB().ToValue(), nil
		}
		return types.Null(b.Type), nil
	}

	switch b.Op {
	case Eq:
		return types.Equals(l, r).ToValue(), nil
	case NotEq:
		return types.Not(types.Equals(l, r)).ToValue(), nil
	case Lt, LtEq, Gt, GtEq:
		cmp, ok := types.Compare(l, r)
		if !ok {
			return types.UnknownB().ToValue(), nil
		}
		return boolFromCompare(b.Op, cmp).ToValue(), nil
	case Add:
		return types.Add(l, r)
	case Sub:
		return types.Sub(l, r)
	case Mul:
		return types.Mul(l, r)
	case Div:
		return types.Div(l, r)
	case IntDiv:
		return types.IntDiv(l, r)
	case Concat:
		return types.StringValue(l.Str + r.Str), nil
	default:
		return types.Value{}, unsupported(b.Op.String() + " is a scalar-function concern outside the core")
	}
}

func boolFromCompare(op BinaryOpKind, cmp int) types.BoolOrNull {
	switch op {
	case Lt:
		return boolOrNull(cmp < 0)
	case LtEq:
		return boolOrNull(cmp <= 0)
	case Gt:
		return boolOrNull(cmp > 0)
	default: // GtEq
		return boolOrNull(cmp >= 0)
	}
}

func boolOrNull(b bool) types.BoolOrNull {
	if b {
		return types.TrueB()
	}
	return types.FalseB()
}

// UnaryOpKind enumerates unary operators.
type UnaryOpKind int

const (
	Not UnaryOpKind = iota
	Negate
	BitwiseNot
)

func (k UnaryOpKind) String() string {
	switch k {
	case Not:
		return "NOT"
	case Negate:
		return "-"
	default:
		return "~"
	}
}

type UnaryOp struct {
	Op   UnaryOpKind
	Expr Expr
	Type types.ElaboratedType
}

func NewUnaryOp(op UnaryOpKind, e Expr, t types.ElaboratedType) *UnaryOp {
	return &UnaryOp{Op: op, Expr: e, Type: t}
}

func (u *UnaryOp) ResolvedType() types.ElaboratedType { return u.Type }
func (u *UnaryOp) Nullable() bool                     { return u.Expr.Nullable() }
func (u *UnaryOp) Children() []Expr                   { return []Expr{u.Expr} }
func (u *UnaryOp) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("UnaryOp", 1, children); err != nil {
		return nil, err
	}
	nu := *u
	nu.Expr = children[0]
	return &nu, nil
}
func (u *UnaryOp) String() string { return fmt.Sprintf("%s(%s)", u.Op, u.Expr) }
func (u *UnaryOp) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	v, err := u.Expr.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if u.Op == Not {
		// NOT NULL = NULL (spec.md section 8).
		return types.Not(types.BoolOrNullFromValue(v)).ToValue(), nil
	}
	if v.IsNull {
		return types.Null(u.Type), nil
	}
	switch u.Op {
	case Negate:
		zero := types.Int64Value(0)
		if v.Type.Base != types.Int64 {
			zero = types.Float64Value(0)
		}
		return types.Sub(zero, v)
	default:
		return types.Value{}, unsupported("bitwise NOT is a scalar-function concern outside the core")
	}
}

// Cast converts an expression to Type. Safe casts (CAST(... AS SAFE))
// return NULL on failure instead of erroring (spec.md section 7,
// "configurable to NULL-on-overflow via SAFE_ cast variants").
type Cast struct {
	Expr Expr
	Type types.ElaboratedType
	Safe bool
}

func NewCast(e Expr, t types.ElaboratedType, safe bool) *Cast {
	return &Cast{Expr: e, Type: t, Safe: safe}
}

func (c *Cast) ResolvedType() types.ElaboratedType { return c.Type }
func (c *Cast) Nullable() bool                     { return c.Safe || c.Expr.Nullable() }
func (c *Cast) Children() []Expr                   { return []Expr{c.Expr} }
func (c *Cast) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("Cast", 1, children); err != nil {
		return nil, err
	}
	nc := *c
	nc.Expr = children[0]
	return &nc, nil
}
func (c *Cast) String() string {
	kw := "CAST"
	if c.Safe {
		kw = "SAFE_CAST"
	}
	return fmt.Sprintf("%s(%s AS %s)", kw, c.Expr, c.Type)
}
func (c *Cast) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	v, err := c.Expr.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if v.IsNull {
		return types.Null(c.Type), nil
	}
	out, err := coerce(v, c.Type)
	if err != nil {
		if c.Safe {
			return types.Null(c.Type), nil
		}
		return types.Value{}, err
	}
	return out, nil
}

// coerce performs the conversions the core is responsible for
// (numeric widening and simple reinterpretation); string parsing into
// Date/Time/Timestamp and other dialect-specific conversions belong to
// the scalar-function layer and are out of scope here.
func coerce(v types.Value, t types.ElaboratedType) (types.Value, error) {
	if v.Type.Base == t.Base {
		nv := v
		nv.Type = t
		return nv, nil
	}
	if t.Base.IsNumeric() && v.Type.Base.IsNumeric() {
		switch t.Base {
		case types.Float64:
			return types.Float64Value(floatValue(v)), nil
		case types.Int64:
			return types.Int64Value(int64(floatValue(v))), nil
		}
	}
	return types.Value{}, typeMismatch(t.String(), v.Type.String())
}

func floatValue(v types.Value) float64 {
	switch v.Type.Base {
	case types.Int64:
		return float64(v.Int)
	case types.Float64:
		return v.Float
	case types.Numeric, types.BigNumeric:
		f, _ := v.Dec.Float64()
		return f
	default:
		return 0
	}
}

// IsNull implements `IS NULL` / `IS NOT NULL` (negated == true for the
// latter); both always yield a concrete Bool, never NULL (spec.md
// section 3).
type IsNull struct {
	Expr    Expr
	Negated bool
}

func NewIsNull(e Expr, negated bool) *IsNull { return &IsNull{Expr: e, Negated: negated} }

func (n *IsNull) ResolvedType() types.ElaboratedType { return types.Simple(types.Bool) }
func (n *IsNull) Nullable() bool                     { return false }
func (n *IsNull) Children() []Expr                   { return []Expr{n.Expr} }
func (n *IsNull) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("IsNull", 1, children); err != nil {
		return nil, err
	}
	nn := *n
	nn.Expr = children[0]
	return &nn, nil
}
func (n *IsNull) String() string {
	if n.Negated {
		return fmt.Sprintf("(%s IS NOT NULL)", n.Expr)
	}
	return fmt.Sprintf("(%s IS NULL)", n.Expr)
}
func (n *IsNull) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	v, err := n.Expr.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	result := v.IsNull
	if n.Negated {
		result = !result
	}
	return types.BoolValue(result), nil
}

// IsDistinctFrom implements `IS [NOT] DISTINCT FROM`: unlike `=`, NULL
// compares as a normal value (spec.md section 3).
type IsDistinctFrom struct {
	Left, Right Expr
	Negated     bool // true => IS NOT DISTINCT FROM
}

func (d *IsDistinctFrom) ResolvedType() types.ElaboratedType { return types.Simple(types.Bool) }
func (d *IsDistinctFrom) Nullable() bool                     { return false }
func (d *IsDistinctFrom) Children() []Expr                   { return []Expr{d.Left, d.Right} }
func (d *IsDistinctFrom) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("IsDistinctFrom", 2, children); err != nil {
		return nil, err
	}
	nd := *d
	nd.Left, nd.Right = children[0], children[1]
	return &nd, nil
}
func (d *IsDistinctFrom) String() string {
	kw := "IS DISTINCT FROM"
	if d.Negated {
		kw = "IS NOT DISTINCT FROM"
	}
	return fmt.Sprintf("(%s %s %s)", d.Left, kw, d.Right)
}
func (d *IsDistinctFrom) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	l, err := d.Left.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	r, err := d.Right.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	distinct := types.IsDistinctFrom(l, r)
	if d.Negated {
		distinct = !distinct
	}
	return types.BoolValue(distinct), nil
}

// Between implements `expr [NOT] BETWEEN low AND high`.
type Between struct {
	Expr, Low, High Expr
	Negated         bool
}

func (b *Between) ResolvedType() types.ElaboratedType { return types.Simple(types.Bool) }
func (b *Between) Nullable() bool                     { return true }
func (b *Between) Children() []Expr                   { return []Expr{b.Expr, b.Low, b.High} }
func (b *Between) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("Between", 3, children); err != nil {
		return nil, err
	}
	nb := *b
	nb.Expr, nb.Low, nb.High = children[0], children[1], children[2]
	return &nb, nil
}
func (b *Between) String() string {
	kw := "BETWEEN"
	if b.Negated {
		kw = "NOT BETWEEN"
	}
	return fmt.Sprintf("(%s %s %s AND %s)", b.Expr, kw, b.Low, b.High)
}
func (b *Between) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	v, err := b.Expr.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	lo, err := b.Low.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	hi, err := b.High.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if v.IsNull || lo.IsNull || hi.IsNull {
		return types.UnknownB().ToValue(), nil
	}
	cl, ok1 := types.Compare(v, lo)
	ch, ok2 := types.Compare(v, hi)
	if !ok1 || !ok2 {
		return types.UnknownB().ToValue(), nil
	}
	result := cl >= 0 && ch <= 0
	if b.Negated {
		result = !result
	}
	return types.BoolValue(result), nil
}

// InList implements `expr [NOT] IN (list...)`.
type InList struct {
	Expr    Expr
	List    []Expr
	Negated bool
}

func (l *InList) ResolvedType() types.ElaboratedType { return types.Simple(types.Bool) }
func (l *InList) Nullable() bool                     { return true }
func (l *InList) Children() []Expr                   { return append([]Expr{l.Expr}, l.List...) }
func (l *InList) WithChildren(children ...Expr) (Expr, error) {
	if len(children) < 1 {
		return nil, errArity("InList", 1, len(children))
	}
	nl := *l
	nl.Expr = children[0]
	nl.List = append([]Expr(nil), children[1:]...)
	return &nl, nil
}
func (l *InList) String() string {
	kw := "IN"
	if l.Negated {
		kw = "NOT IN"
	}
	return fmt.Sprintf("(%s %s (...))", l.Expr, kw)
}
func (l *InList) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	v, err := l.Expr.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if v.IsNull {
		return types.UnknownB().ToValue(), nil
	}
	sawNull := false
	for _, item := range l.List {
		iv, err := item.Eval(ctx, row)
		if err != nil {
			return types.Value{}, err
		}
		eq := types.Equals(v, iv)
		if !eq.Valid {
			sawNull = true
			continue
		}
		if eq.Bool {
			return types.BoolValue(!l.Negated), nil
		}
	}
	if sawNull {
		return types.UnknownB().ToValue(), nil
	}
	return types.BoolValue(l.Negated), nil
}
