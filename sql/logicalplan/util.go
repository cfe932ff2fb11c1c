// IR utilities pervasively used by optimizer rules, per spec.md
// section 4.3: collecting and remapping column indices, splitting and
// recombining AND predicates, building an aggregate's output->input
// column map, and counting CTE references. All are pure functions over
// plan/expression trees.
package logicalplan

import (
	"sort"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// CollectColumnIndices returns the sorted, de-duplicated set of
// resolved Column indices e references, transitively through any
// Subquery/ScalarSubquery/ArraySubquery it contains (spec.md section
// 4.3: "transitively through subqueries"). Unresolved columns (Index
// < 0) are skipped; callers run this only after indices are resolved.
func CollectColumnIndices(e expr.Expr) []int {
	seen := make(map[int]bool)
	collectColumnIndices(e, seen)
	out := make([]int, 0, len(seen))
	for idx := range seen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func collectColumnIndices(e expr.Expr, seen map[int]bool) {
	if e == nil {
		return
	}
	if col, ok := e.(*expr.Column); ok {
		if col.Index >= 0 {
			seen[col.Index] = true
		}
	}
	for _, c := range e.Children() {
		collectColumnIndices(c, seen)
	}
	if sub, ok := subqueryOf(e); ok {
		for _, c := range sub.CorrelatedColumns {
			if c.Index >= 0 {
				seen[c.Index] = true
			}
		}
	}
}

// subqueryOf extracts the embedded *expr.Subquery from any of the
// expr package's subquery-carrying node types, so logicalplan's
// traversal helpers can reach into a subquery's body plan and
// correlated-column list without expr needing to know about
// logicalplan.Plan.
func subqueryOf(e expr.Expr) (*expr.Subquery, bool) {
	switch n := e.(type) {
	case *expr.Subquery:
		return n, true
	case *expr.ScalarSubquery:
		return &n.Subquery, true
	case *expr.ArraySubquery:
		return &n.Subquery, true
	default:
		return nil, false
	}
}

// subqueryPlanNode returns sub's body as a logicalplan.Plan, when the
// structural SubqueryPlan it carries happens to be one (true for every
// subquery built by this core's own planner).
func subqueryPlanNode(sub *expr.Subquery) (Plan, bool) {
	p, ok := sub.Plan.(Plan)
	return p, ok
}

// RemapColumnIndices rewrites every Column node in e to use its new
// index per mapping (old index -> new index), returning a structured
// error if any referenced index lacks an entry (spec.md section 4.3:
// "return failure if a referenced index lacks a mapping").
func RemapColumnIndices(e expr.Expr, mapping map[int]int) (expr.Expr, error) {
	result, _, err := planutil.RewriteBottomUp(e, func(n expr.Expr) (expr.Expr, planutil.TreeIdentity, error) {
		col, ok := n.(*expr.Column)
		if !ok || col.Index < 0 {
			return n, planutil.SameTree, nil
		}
		newIdx, ok := mapping[col.Index]
		if !ok {
			return nil, planutil.SameTree, remapFailed(col.Index)
		}
		if newIdx == col.Index {
			return n, planutil.SameTree, nil
		}
		return col.WithIndex(newIdx), planutil.NewTree, nil
	})
	return result, err
}

// SplitConjuncts splits e into its top-level AND operands, recursively
// flattening nested ANDs (spec.md section 4.3). A non-AND expression
// splits into a single-element list.
func SplitConjuncts(e expr.Expr) []expr.Expr {
	bin, ok := e.(*expr.BinaryOp)
	if !ok || bin.Op != expr.And {
		return []expr.Expr{e}
	}
	return append(SplitConjuncts(bin.Left), SplitConjuncts(bin.Right)...)
}

// CombinePredicates is the inverse of SplitConjuncts: it ANDs every
// element of conjuncts together, left-associatively. Combining zero
// conjuncts returns nil; combining one returns it unchanged.
func CombinePredicates(conjuncts []expr.Expr) expr.Expr {
	if len(conjuncts) == 0 {
		return nil
	}
	result := conjuncts[0]
	for _, c := range conjuncts[1:] {
		result = expr.NewBinaryOp(expr.And, result, c, result.ResolvedType())
	}
	return result
}

// AggregateOutputToInputMap builds the positional output->input column
// index map for an Aggregate whose GroupBy expressions are plain
// columns (spec.md section 4.3): output index i (the i-th group-by
// key in the aggregate's output schema) maps to that column's index in
// the aggregate's input. GroupBy expressions that are not plain
// Columns are omitted from the map, since they have no single input
// column to remap to.
func AggregateOutputToInputMap(a *Aggregate) map[int]int {
	out := make(map[int]int, len(a.GroupBy))
	for i, g := range a.GroupBy {
		if col, ok := g.(*expr.Column); ok && col.Index >= 0 {
			out[i] = col.Index
		}
	}
	return out
}

// CountCTEReferences counts every reference to cteName anywhere in
// plan, including references nested inside subquery expressions
// (spec.md section 4.3/4.4 rule 1).
func CountCTEReferences(plan Plan, cteName string) int {
	count := 0
	planutil.Inspect(plan, func(p Plan) bool {
		switch n := p.(type) {
		case *Scan:
			if n.CTEName == cteName {
				count++
			}
		case *Filter:
			count += countCTERefsInExpr(n.Predicate, cteName)
		case *Project:
			for _, e := range n.Exprs {
				count += countCTERefsInExpr(e.Expr, cteName)
			}
		case *Aggregate:
			for _, g := range n.GroupBy {
				count += countCTERefsInExpr(g, cteName)
			}
			for _, a := range n.Aggregates {
				count += countCTERefsInExpr(a.Expr, cteName)
			}
		case *Join:
			if n.Condition != nil {
				count += countCTERefsInExpr(n.Condition, cteName)
			}
		case *Qualify:
			count += countCTERefsInExpr(n.Predicate, cteName)
		}
		return true
	})
	return count
}

// CountDirectCTEScans counts only references that are direct
// Scan(cte_name) nodes — i.e. excludes references reached only through
// a subquery expression (spec.md section 4.3).
func CountDirectCTEScans(plan Plan, cteName string) int {
	count := 0
	planutil.Inspect(plan, func(p Plan) bool {
		if s, ok := p.(*Scan); ok && s.CTEName == cteName {
			count++
		}
		return true
	})
	return count
}

func countCTERefsInExpr(e expr.Expr, cteName string) int {
	count := 0
	planutil.Inspect(e, func(n expr.Expr) bool {
		if sub, ok := subqueryOf(n); ok {
			if p, ok := subqueryPlanNode(sub); ok {
				count += CountCTEReferences(p, cteName)
			}
		}
		return true
	})
	return count
}

// PlanContainsExprSubquery reports whether any expression reachable
// from plan (predicates, projections, group keys, aggregate args)
// contains a subquery expression — the CTE-inlining precondition
// "the CTE body contains no subqueries in its expressions" (spec.md
// section 4.4 rule 1).
func PlanContainsExprSubquery(plan Plan) bool {
	found := false
	planutil.Inspect(plan, func(p Plan) bool {
		if found {
			return false
		}
		for _, e := range exprsOf(p) {
			if planutil.Any(e, func(n expr.Expr) bool {
				_, ok := subqueryOf(n)
				return ok
			}) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// exprsOf returns every top-level expression owned directly by p
// (not its children's), used by PlanContainsExprSubquery and similar
// whole-plan expression scans.
func exprsOf(p Plan) []expr.Expr {
	switch n := p.(type) {
	case *Filter:
		return []expr.Expr{n.Predicate}
	case *Project:
		out := make([]expr.Expr, len(n.Exprs))
		for i, e := range n.Exprs {
			out[i] = e.Expr
		}
		return out
	case *Aggregate:
		out := append([]expr.Expr{}, n.GroupBy...)
		for _, a := range n.Aggregates {
			out = append(out, a.Expr)
		}
		return out
	case *Join:
		if n.Condition != nil {
			return []expr.Expr{n.Condition}
		}
	case *Qualify:
		return []expr.Expr{n.Predicate}
	case *Window:
		out := make([]expr.Expr, len(n.Windows))
		for i, w := range n.Windows {
			out[i] = w.Expr
		}
		return out
	}
	return nil
}

// ColumnsTouchOnlyLeft reports whether every column index e references
// falls within the first leftCount output columns, used by filter
// pushdown through Join to classify which side a predicate belongs to.
func ColumnsTouchOnlyLeft(e expr.Expr, leftCount int) bool {
	for _, idx := range CollectColumnIndices(e) {
		if idx >= leftCount {
			return false
		}
	}
	return true
}

// ColumnsTouchOnlyRight reports whether every column index e
// references falls at or beyond leftCount, i.e. belongs to the right
// side of a Join whose left side has leftCount output columns.
func ColumnsTouchOnlyRight(e expr.Expr, leftCount int) bool {
	for _, idx := range CollectColumnIndices(e) {
		if idx < leftCount {
			return false
		}
	}
	return true
}
