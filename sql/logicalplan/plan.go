// Package logicalplan implements the Logical Plan IR of spec.md
// section 3/4.3: the tree that represents what a query means, prior to
// any algorithmic commitment. It mirrors the teacher's sql/plan
// package (one Go type per sql.Node variant, a shared Children/
// WithChildren contract consumed by sql/transform) but is generalized
// to the full spec.md variant list and to this core's expr/types
// packages instead of MySQL's.
package logicalplan

import (
	"strings"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/types"
)

// Plan is the interface every logical plan node implements. It
// satisfies planutil.Tree[Plan] so the generic rewrite helpers in
// sql/planutil work over it without this package depending on
// planutil for anything but that structural fit.
type Plan interface {
	// OutputSchema returns the node's output schema (spec.md section
	// 3: "All variants carry their output schema explicitly").
	OutputSchema() types.Schema

	Children() []Plan
	WithChildren(children ...Plan) (Plan, error)

	String() string
}

// JoinType is the closed set of join kinds spec.md section 3 lists.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
	CrossJoin
)

func (j JoinType) String() string {
	switch j {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case FullJoin:
		return "FULL"
	case CrossJoin:
		return "CROSS"
	default:
		return "UNKNOWN"
	}
}

// SetOpKind is the closed set of set-operation kinds.
type SetOpKind int

const (
	Union SetOpKind = iota
	Intersect
	Except
)

func (k SetOpKind) String() string {
	switch k {
	case Union:
		return "UNION"
	case Intersect:
		return "INTERSECT"
	case Except:
		return "EXCEPT"
	default:
		return "UNKNOWN"
	}
}

// SortKey is one ORDER BY key: an expression, its direction, and its
// NULL placement.
type SortKey struct {
	Expr       expr.Expr
	Descending bool
	NullsFirst bool
}

func sortKeysString(keys []SortKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		dir := "ASC"
		if k.Descending {
			dir = "DESC"
		}
		parts[i] = k.Expr.String() + " " + dir
	}
	return strings.Join(parts, ", ")
}

func exprListString(exprs []expr.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func checkArity(name string, want int, got []Plan) error {
	if len(got) != want {
		return arityError(name, want, len(got))
	}
	return nil
}
