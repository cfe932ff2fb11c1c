package expr

import (
	"fmt"
	"strings"

	"github.com/yachtsql/yachtsql/sql/sqlctx"
	"github.com/yachtsql/yachtsql/sql/types"
)

// NullPropagation describes how a ScalarFunction treats NULL
// arguments, which is the one piece of a function's behavior the core
// needs per spec.md section 1 ("the core only needs their type
// signatures and null-propagation semantics").
type NullPropagation int

const (
	// NullStrict means any NULL argument makes the result NULL without
	// invoking Impl; this is the default for nearly every scalar
	// builtin (date/time, regex, crypto, arithmetic-like functions).
	NullStrict NullPropagation = iota
	// NullCustom means the function has its own NULL handling
	// (COALESCE/IFNULL/NULLIF are always treated this way regardless
	// of what's recorded here; a parser may also mark other functions
	// NullCustom, e.g. CONCAT_WS, which skips NULL arguments rather
	// than propagating NULL).
	NullCustom
)

// ScalarImpl is the function body contract: given already-evaluated,
// non-NULL (under NullStrict) argument values, produce a result. The
// core never implements these bodies itself; a caller's function
// registry binds Impl during planning for every scalar function that
// is not one of COALESCE/IFNULL/NULLIF.
type ScalarImpl func(ctx *sqlctx.Context, args []types.Value) (types.Value, error)

// ScalarFunction is a scalar function call. Name drives COALESCE/
// IFNULL/NULLIF handling; every other function defers to Impl.
type ScalarFunction struct {
	Name string
	Args []Expr
	Type types.ElaboratedType
	Null NullPropagation
	Impl ScalarImpl
}

func (f *ScalarFunction) ResolvedType() types.ElaboratedType { return f.Type }
func (f *ScalarFunction) Nullable() bool                     { return true }
func (f *ScalarFunction) Children() []Expr                   { return f.Args }
func (f *ScalarFunction) WithChildren(children ...Expr) (Expr, error) {
	nf := *f
	nf.Args = append([]Expr(nil), children...)
	return &nf, nil
}
func (f *ScalarFunction) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(parts, ", "))
}

func (f *ScalarFunction) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	upper := strings.ToUpper(f.Name)
	if isCoalesceLike(upper) {
		return evalCoalesce(ctx, row, f.Args)
	}
	if upper == NullifFuncName {
		return evalNullif(ctx, row, f.Args)
	}

	args := make([]types.Value, len(f.Args))
	for i, a := range f.Args {
		v, err := a.Eval(ctx, row)
		if err != nil {
			return types.Value{}, err
		}
		args[i] = v
		if f.Null == NullStrict && v.IsNull {
			return types.Null(f.Type), nil
		}
	}
	if f.Impl == nil {
		return types.Value{}, unsupported(fmt.Sprintf("scalar function %s has no bound implementation", f.Name))
	}
	return f.Impl(ctx, args)
}

// OrderByExpr is one ORDER BY key, used inside order-dependent
// aggregates (ARRAY_AGG, STRING_AGG) and window functions.
type OrderByExpr struct {
	Expr       Expr
	Desc       bool
	NullsFirst bool
}

// Aggregate is a set function possibly qualified by DISTINCT, FILTER,
// ORDER BY, LIMIT, and IGNORE NULLS (spec.md section 3). FILTER is
// evaluated per row and only rows where it is TRUE contribute;
// DISTINCT deduplicates post-filter; ORDER BY controls tuple order for
// order-dependent aggregates (spec.md section 4.2). Evaluating an
// Aggregate node against a single row is meaningless outside of a
// grouping context, so Eval is not implemented here: aggregation is an
// execution concern the core only describes the shape of.
type Aggregate struct {
	Func        string
	Args        []Expr
	Distinct    bool
	Filter      Expr // nil if absent
	OrderBy     []OrderByExpr
	Limit       Expr // nil if absent
	IgnoreNulls bool
	Type        types.ElaboratedType
}

func (a *Aggregate) ResolvedType() types.ElaboratedType { return a.Type }
func (a *Aggregate) Nullable() bool                     { return true }

func (a *Aggregate) Children() []Expr {
	out := append([]Expr(nil), a.Args...)
	if a.Filter != nil {
		out = append(out, a.Filter)
	}
	for _, o := range a.OrderBy {
		out = append(out, o.Expr)
	}
	if a.Limit != nil {
		out = append(out, a.Limit)
	}
	return out
}

func (a *Aggregate) WithChildren(children ...Expr) (Expr, error) {
	na := *a
	i := 0
	na.Args = append([]Expr(nil), children[i:i+len(a.Args)]...)
	i += len(a.Args)
	if a.Filter != nil {
		na.Filter = children[i]
		i++
	}
	na.OrderBy = make([]OrderByExpr, len(a.OrderBy))
	for o := range a.OrderBy {
		na.OrderBy[o] = OrderByExpr{Expr: children[i], Desc: a.OrderBy[o].Desc, NullsFirst: a.OrderBy[o].NullsFirst}
		i++
	}
	if a.Limit != nil {
		na.Limit = children[i]
	}
	return &na, nil
}

func (a *Aggregate) String() string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	s := a.Func + "("
	if a.Distinct {
		s += "DISTINCT "
	}
	s += strings.Join(parts, ", ") + ")"
	if a.Filter != nil {
		s += fmt.Sprintf(" FILTER (WHERE %s)", a.Filter)
	}
	return s
}

func (a *Aggregate) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	return types.Value{}, unsupported("aggregate expressions evaluate over a group, not a single row")
}

// UserDefinedAggregate is structurally identical to Aggregate but
// names a catalog-registered UDAF instead of a builtin.
type UserDefinedAggregate struct {
	Aggregate
	CatalogName string
}

// FrameUnit is the unit a window frame is measured in.
type FrameUnit int

const (
	FrameRows FrameUnit = iota
	FrameRange
	FrameGroups
)

// FrameBound is one edge of a window frame.
type FrameBound struct {
	UnboundedPreceding bool
	UnboundedFollowing bool
	CurrentRow         bool
	Offset             Expr // nil for the above cases
	Preceding          bool // Offset PRECEDING vs Offset FOLLOWING
}

// WindowFrame bounds the rows an aggregate/window function sees.
type WindowFrame struct {
	Unit  FrameUnit
	Start FrameBound
	End   FrameBound
}

// Window is a window function call: `func(args) OVER (PARTITION BY...
// ORDER BY ... frame)` (spec.md section 3).
type Window struct {
	Func        string
	Args        []Expr
	PartitionBy []Expr
	OrderBy     []OrderByExpr
	Frame       *WindowFrame
	Type        types.ElaboratedType
}

func (w *Window) ResolvedType() types.ElaboratedType { return w.Type }
func (w *Window) Nullable() bool                     { return true }

func (w *Window) Children() []Expr {
	out := append([]Expr(nil), w.Args...)
	out = append(out, w.PartitionBy...)
	for _, o := range w.OrderBy {
		out = append(out, o.Expr)
	}
	return out
}

func (w *Window) WithChildren(children ...Expr) (Expr, error) {
	nw := *w
	i := 0
	nw.Args = append([]Expr(nil), children[i:i+len(w.Args)]...)
	i += len(w.Args)
	nw.PartitionBy = append([]Expr(nil), children[i:i+len(w.PartitionBy)]...)
	i += len(w.PartitionBy)
	nw.OrderBy = make([]OrderByExpr, len(w.OrderBy))
	for o := range w.OrderBy {
		nw.OrderBy[o] = OrderByExpr{Expr: children[i], Desc: w.OrderBy[o].Desc, NullsFirst: w.OrderBy[o].NullsFirst}
		i++
	}
	return &nw, nil
}

func (w *Window) String() string {
	return fmt.Sprintf("%s(...) OVER (...)", w.Func)
}

func (w *Window) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	return types.Value{}, unsupported("window functions evaluate over a partition, not a single row")
}

// AggregateWindow is an aggregate function used as a window function
// (e.g. `SUM(x) OVER (...)`), distinct from Window because its
// argument shape (and FILTER/DISTINCT qualifiers) follows Aggregate
// rather than a dedicated ranking function signature.
type AggregateWindow struct {
	Aggregate
	PartitionBy []Expr
	OrderBy     []OrderByExpr
	Frame       *WindowFrame
}

func (w *AggregateWindow) Children() []Expr {
	out := w.Aggregate.Children()
	out = append(out, w.PartitionBy...)
	for _, o := range w.OrderBy {
		out = append(out, o.Expr)
	}
	return out
}

func (w *AggregateWindow) WithChildren(children ...Expr) (Expr, error) {
	aggArity := len(w.Aggregate.Children())
	aggExpr, err := w.Aggregate.WithChildren(children[:aggArity]...)
	if err != nil {
		return nil, err
	}
	nw := *w
	nw.Aggregate = *aggExpr.(*Aggregate)
	rest := children[aggArity:]
	nw.PartitionBy = append([]Expr(nil), rest[:len(w.PartitionBy)]...)
	rest = rest[len(w.PartitionBy):]
	nw.OrderBy = make([]OrderByExpr, len(w.OrderBy))
	for i := range w.OrderBy {
		nw.OrderBy[i] = OrderByExpr{Expr: rest[i], Desc: w.OrderBy[i].Desc, NullsFirst: w.OrderBy[i].NullsFirst}
	}
	return &nw, nil
}

func (w *AggregateWindow) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	return types.Value{}, unsupported("aggregate window functions evaluate over a partition, not a single row")
}
