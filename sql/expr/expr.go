// Package expr implements the YachtSQL core's expression IR: a
// recursive sum type shared by logical and physical plans (spec.md
// section 3, "Expression"), plus the evaluator for the operators whose
// semantics the core itself must specify (three-valued logic, CASE,
// COALESCE/IFNULL, NULLIF, aggregate FILTER/DISTINCT/ORDER BY). The
// bulk of scalar/aggregate function bodies are out of core scope per
// spec.md section 1; ScalarFunction carries only a name, argument
// list, and the registry entry needed for null-propagation.
package expr

import (
	"github.com/yachtsql/yachtsql/sql/sqlctx"
	"github.com/yachtsql/yachtsql/sql/types"
)

// Expr is the interface every expression tree node implements. It is
// intentionally small: the optimizer's generic visitors (sql/planutil)
// operate purely in terms of Children/WithChildren, and evaluation is
// the only place node-specific behavior is needed beyond that.
type Expr interface {
	// ResolvedType returns the expression's output type. Per spec.md
	// section 4.2 this is computed during planning (a contract with
	// the parser) and the optimizer may rely on it without
	// re-deriving types.
	ResolvedType() types.ElaboratedType

	// Nullable reports whether the expression may produce NULL.
	Nullable() bool

	// Children returns the expression's direct subexpressions, in a
	// stable order used by both evaluation and generic rewriting.
	Children() []Expr

	// WithChildren returns a copy of the expression with its children
	// replaced; len(children) must equal len(Children()).
	WithChildren(children ...Expr) (Expr, error)

	// String renders the expression for plan printing and error
	// messages.
	String() string

	// Eval evaluates the expression against one row. Row-oriented
	// evaluation is a reference semantics the executor may choose to
	// vectorize; the IR itself imposes no evaluation order beyond the
	// guarantees in spec.md section 4.2.
	Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error)
}

// arity panics never happen in practice because WithChildren is only
// ever called by optimizer code that got Children() from the same
// node; callers that violate the contract get a clear error instead.
func checkArity(name string, want int, got []Expr) error {
	if len(got) != want {
		return errArity(name, want, len(got))
	}
	return nil
}
