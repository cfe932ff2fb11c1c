// Package physicalplan implements the Physical Plan IR of spec.md
// section 3/4.4: a mirror of the Logical Plan that commits to an
// algorithm (HashAggregate vs StreamAggregate, HashJoin vs
// NestedLoopJoin vs CrossJoin, TopN vs Sort+Limit) and carries an
// ExecutionHints record consumed by the (external) executor.
package physicalplan

import (
	"strings"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/types"
)

// Plan is the interface every physical plan node implements, mirroring
// logicalplan.Plan plus the ExecutionHints spec.md section 3
// describes ("an ExecutionHints record, e.g. parallel: bool").
type Plan interface {
	OutputSchema() types.Schema
	Children() []Plan
	WithChildren(children ...Plan) (Plan, error)
	Hints() ExecutionHints
	WithHints(h ExecutionHints) Plan
	String() string
}

// ExecutionHints carries algorithm-independent execution guidance for
// the (external) executor, per spec.md section 3/5: "parallel: bool".
// Parallelism is data-parallel only (spec.md section 5): operators
// split their input across worker threads and merge deterministically.
type ExecutionHints struct {
	Parallel bool
}

// JoinType and SortKey reuse the logical plan's definitions: a
// physical Join/Sort commits to an algorithm but never changes join
// semantics or sort-key meaning.
type JoinType = logicalplan.JoinType

const (
	InnerJoin = logicalplan.InnerJoin
	LeftJoin  = logicalplan.LeftJoin
	RightJoin = logicalplan.RightJoin
	FullJoin  = logicalplan.FullJoin
)

type SortKey = logicalplan.SortKey
type ProjectExpr = logicalplan.ProjectExpr
type GroupingSet = logicalplan.GroupingSet
type SetOpKind = logicalplan.SetOpKind

const (
	Union     = logicalplan.Union
	Intersect = logicalplan.Intersect
	Except    = logicalplan.Except
)

func checkArity(name string, want int, got []Plan) error {
	if len(got) != want {
		return arityError(name, want, len(got))
	}
	return nil
}

func indent(s string) string { return strings.ReplaceAll(s, "\n", "\n  ") }

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

func projectExprsString(exprs []ProjectExpr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.Expr.String() + " AS " + e.Name
	}
	return strings.Join(parts, ", ")
}
