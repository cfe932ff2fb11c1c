package analyzer

import (
	"sort"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
	"github.com/yachtsql/yachtsql/sql/types"
)

// RuleShortCircuitReorder is spec.md section 4.4's short-circuit
// reordering rule: within an AND/OR chain, reorder conjuncts/disjuncts
// so cheap, high-selectivity predicates precede expensive ones, with a
// stable relative order among predicates of equal rank. Per spec.md
// section 9's open question, this implementation keeps the source's
// syntactic heuristic (equality against a literal ranks first) rather
// than introducing a cost model, so it stays testable by the
// optimizer-equivalence tests the spec calls for.
const RuleShortCircuitReorder = "short_circuit_reorder"

func shortCircuitReorderRule() PhysicalRule {
	return newPhysicalRule(RuleShortCircuitReorder, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		f, ok := n.(*physicalplan.Filter)
		if !ok {
			return n, planutil.SameTree, nil
		}
		reordered, changed := reorderPredicate(f.Predicate)
		if !changed {
			return n, planutil.SameTree, nil
		}
		return physicalplan.NewFilter(f.Input, reordered), planutil.NewTree, nil
	})
}

// reorderPredicate rewrites every AND/OR chain within e bottom-up,
// stably sorting each chain's operands by predicateRank. A chain
// already in rank order is left alone so the rule is idempotent
// (spec.md section 9: "each rule should be a fixpoint of itself").
func reorderPredicate(e expr.Expr) (expr.Expr, bool) {
	result, same, err := planutil.RewriteBottomUp(e, func(node expr.Expr) (expr.Expr, planutil.TreeIdentity, error) {
		bin, ok := node.(*expr.BinaryOp)
		if !ok || (bin.Op != expr.And && bin.Op != expr.Or) {
			return node, planutil.SameTree, nil
		}
		operands := flattenChain(bin.Op, node)
		if len(operands) < 2 {
			return node, planutil.SameTree, nil
		}
		reordered := stableSortByRank(operands)
		if sameOrder(operands, reordered) {
			return node, planutil.SameTree, nil
		}
		return rebuildChain(bin.Op, reordered, bin.Type), planutil.NewTree, nil
	})
	if err != nil {
		return e, false
	}
	return result, same == planutil.NewTree
}

// flattenChain collects every operand of a left-associated run of the
// same AND/OR operator rooted at node, e.g. ((a AND b) AND c) -> [a,b,c].
func flattenChain(op expr.BinaryOpKind, node expr.Expr) []expr.Expr {
	bin, ok := node.(*expr.BinaryOp)
	if !ok || bin.Op != op {
		return []expr.Expr{node}
	}
	return append(flattenChain(op, bin.Left), flattenChain(op, bin.Right)...)
}

// rebuildChain re-associates operands left-to-right under op, the same
// shape flattenChain expects on a subsequent pass (keeping the rule
// idempotent). t is the chain's own (Bool) result type, reused for
// every intermediate node.
func rebuildChain(op expr.BinaryOpKind, operands []expr.Expr, t types.ElaboratedType) expr.Expr {
	result := operands[0]
	for _, next := range operands[1:] {
		result = expr.NewBinaryOp(op, result, next, t)
	}
	return result
}

func stableSortByRank(operands []expr.Expr) []expr.Expr {
	ranked := make([]expr.Expr, len(operands))
	copy(ranked, operands)
	sort.SliceStable(ranked, func(i, j int) bool {
		return predicateRank(ranked[i]) < predicateRank(ranked[j])
	})
	return ranked
}

func sameOrder(a, b []expr.Expr) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// predicateRank implements the source's syntactic cost heuristic:
// lower rank runs first. Equality against a literal (the cheapest,
// most selective shape - an indexed-lookup candidate) ranks lowest;
// other comparisons against a literal rank next; any other binary
// operation (two columns, a computed operand) ranks after those, since
// it is more expensive to evaluate and less likely to be index-backed;
// a predicate that is not a BinaryOp at all ranks last.
func predicateRank(e expr.Expr) int {
	bin, ok := e.(*expr.BinaryOp)
	if !ok {
		return 3
	}
	litOnOneSide := isColumnLiteralComparison(bin)
	switch {
	case bin.Op == expr.Eq && litOnOneSide:
		return 0
	case bin.Op.IsComparison() && litOnOneSide:
		return 1
	default:
		return 2
	}
}

// isColumnLiteralComparison reports whether bin compares a plain
// Column against a Literal (in either operand order), the shape the
// source's heuristic treats as index-friendly.
func isColumnLiteralComparison(bin *expr.BinaryOp) bool {
	if !bin.Op.IsComparison() {
		return false
	}
	_, lCol := bin.Left.(*expr.Column)
	_, rCol := bin.Right.(*expr.Column)
	_, lLit := bin.Left.(*expr.Literal)
	_, rLit := bin.Right.(*expr.Literal)
	return (lCol && rLit) || (rCol && lLit)
}
