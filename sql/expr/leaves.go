package expr

import (
	"fmt"

	"github.com/yachtsql/yachtsql/sql/sqlctx"
	"github.com/yachtsql/yachtsql/sql/types"
)

// Literal is a constant value baked into the plan.
type Literal struct {
	Value types.Value
}

func NewLiteral(v types.Value) *Literal { return &Literal{Value: v} }

func (l *Literal) ResolvedType() types.ElaboratedType { return l.Value.Type }
func (l *Literal) Nullable() bool                     { return l.Value.IsNull }
func (l *Literal) Children() []Expr                   { return nil }
func (l *Literal) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("Literal", 0, children); err != nil {
		return nil, err
	}
	return l, nil
}
func (l *Literal) String() string { return fmt.Sprintf("%v", valueString(l.Value)) }
func (l *Literal) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	return l.Value, nil
}

func valueString(v types.Value) interface{} {
	if v.IsNull {
		return "NULL"
	}
	return v
}

// Column references a resolved or to-be-resolved column by table/name
// pair plus an optional positional index, per spec.md section 3.
// Index is -1 when unresolved; the parser contract (spec.md section 6)
// requires it become resolvable during planning, but plans may
// round-trip through optimizer rules before that happens (e.g. inside
// a CTE body prior to inlining).
type Column struct {
	Table     string
	Name      string
	Index     int // -1 if unresolved
	Type      types.ElaboratedType
	CanBeNull bool
}

// NewColumn builds an unresolved column reference.
func NewColumn(table, name string, t types.ElaboratedType, nullable bool) *Column {
	return &Column{Table: table, Name: name, Index: -1, Type: t, CanBeNull: nullable}
}

// NewResolvedColumn builds a column reference already bound to a
// positional index, as produced by RemapColumnIndices.
func NewResolvedColumn(index int, table, name string, t types.ElaboratedType, nullable bool) *Column {
	return &Column{Table: table, Name: name, Index: index, Type: t, CanBeNull: nullable}
}

func (c *Column) ResolvedType() types.ElaboratedType { return c.Type }
func (c *Column) Nullable() bool                     { return c.CanBeNull }
func (c *Column) Children() []Expr                   { return nil }
func (c *Column) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("Column", 0, children); err != nil {
		return nil, err
	}
	return c, nil
}
func (c *Column) String() string {
	if c.Table != "" {
		return c.Table + "." + c.Name
	}
	return c.Name
}
func (c *Column) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	if c.Index < 0 || c.Index >= len(row) {
		return types.Value{}, colNotFound(c.String())
	}
	return row[c.Index], nil
}

// WithIndex returns a copy of the column bound to a new positional
// index, used by RemapColumnIndices.
func (c *Column) WithIndex(index int) *Column {
	nc := *c
	nc.Index = index
	return &nc
}

// Parameter is a positional or named bind parameter (`?` or `@p`).
type Parameter struct {
	Name string // "" for positional
	Pos  int
	Type types.ElaboratedType
}

func (p *Parameter) ResolvedType() types.ElaboratedType { return p.Type }
func (p *Parameter) Nullable() bool                     { return true }
func (p *Parameter) Children() []Expr                   { return nil }
func (p *Parameter) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("Parameter", 0, children); err != nil {
		return nil, err
	}
	return p, nil
}
func (p *Parameter) String() string {
	if p.Name != "" {
		return "@" + p.Name
	}
	return "?"
}
func (p *Parameter) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	return types.Value{}, unsupported("unbound parameter " + p.String())
}

// Variable is a session/system variable reference (e.g. @@timezone).
type Variable struct {
	Name string
	Type types.ElaboratedType
}

func (v *Variable) ResolvedType() types.ElaboratedType { return v.Type }
func (v *Variable) Nullable() bool                     { return true }
func (v *Variable) Children() []Expr                   { return nil }
func (v *Variable) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("Variable", 0, children); err != nil {
		return nil, err
	}
	return v, nil
}
func (v *Variable) String() string { return "@@" + v.Name }
func (v *Variable) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	if ctx == nil {
		return types.Null(v.Type), nil
	}
	val, ok := ctx.Variable(v.Name)
	if !ok {
		return types.Null(v.Type), nil
	}
	if vv, ok := val.(types.Value); ok {
		return vv, nil
	}
	return types.Null(v.Type), nil
}

// TypedString is a string literal with an explicit target type
// (e.g. DATE '2024-01-01'); unlike Cast, the conversion is expected to
// succeed at parse time, so only the resolved Value is carried here.
type TypedString struct {
	Value types.Value
}

func (t *TypedString) ResolvedType() types.ElaboratedType { return t.Value.Type }
func (t *TypedString) Nullable() bool                     { return false }
func (t *TypedString) Children() []Expr                   { return nil }
func (t *TypedString) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("TypedString", 0, children); err != nil {
		return nil, err
	}
	return t, nil
}
func (t *TypedString) String() string { return fmt.Sprintf("%v", t.Value) }
func (t *TypedString) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	return t.Value, nil
}

// Wildcard is `*` or `table.*`, expanded to concrete Columns before
// the plan reaches the optimizer (parser contract); it is retained in
// the IR only so un-expanded plans can still be printed/inspected.
type Wildcard struct {
	Table string
}

func (w *Wildcard) ResolvedType() types.ElaboratedType { return types.Simple(types.Unknown) }
func (w *Wildcard) Nullable() bool                     { return true }
func (w *Wildcard) Children() []Expr                   { return nil }
func (w *Wildcard) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("Wildcard", 0, children); err != nil {
		return nil, err
	}
	return w, nil
}
func (w *Wildcard) String() string {
	if w.Table != "" {
		return w.Table + ".*"
	}
	return "*"
}
func (w *Wildcard) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	return types.Value{}, unsupported("wildcard must be expanded before evaluation")
}

// Default represents the DEFAULT keyword in an INSERT/UPDATE value
// list; it resolves to a column's declared default at execution time,
// which is outside the core's contract.
type Default struct {
	Type types.ElaboratedType
}

func (d *Default) ResolvedType() types.ElaboratedType { return d.Type }
func (d *Default) Nullable() bool                     { return true }
func (d *Default) Children() []Expr                   { return nil }
func (d *Default) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("Default", 0, children); err != nil {
		return nil, err
	}
	return d, nil
}
func (d *Default) String() string { return "DEFAULT" }
func (d *Default) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	return types.Value{}, unsupported("DEFAULT has no value outside of an insert/update executor")
}
