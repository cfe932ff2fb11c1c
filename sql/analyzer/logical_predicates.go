package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
	"github.com/yachtsql/yachtsql/sql/types"
)

// RuleFilterMerging is spec.md section 4.4 logical rule 4: a Filter
// directly above another Filter combines into one Filter whose
// predicate is the AND of both, inner-first (the inner predicate ran
// first in the unmerged plan, so it stays the left operand).
const RuleFilterMerging = "filter_merging"

func filterMergingRule() LogicalRule {
	return newLogicalRule(RuleFilterMerging, func(n logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error) {
		outer, ok := n.(*logicalplan.Filter)
		if !ok {
			return n, planutil.SameTree, nil
		}
		inner, ok := outer.Input.(*logicalplan.Filter)
		if !ok {
			return n, planutil.SameTree, nil
		}
		merged := expr.NewBinaryOp(expr.And, inner.Predicate, outer.Predicate, types.Simple(types.Bool))
		return logicalplan.NewFilter(inner.Input, merged), planutil.NewTree, nil
	})
}

// RuleTrivialPredicateRemoval is spec.md section 4.4 logical rule 2:
// drop TRUE conjuncts (WHERE 1=1 and the like) from a Filter's
// predicate; a Filter whose predicate becomes empty is removed
// entirely since it admits every row.
const RuleTrivialPredicateRemoval = "trivial_predicate_removal"

func trivialPredicateRemovalRule() LogicalRule {
	return newLogicalRule(RuleTrivialPredicateRemoval, func(n logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error) {
		f, ok := n.(*logicalplan.Filter)
		if !ok {
			return n, planutil.SameTree, nil
		}
		conjuncts := logicalplan.SplitConjuncts(f.Predicate)
		kept := make([]expr.Expr, 0, len(conjuncts))
		changed := false
		for _, c := range conjuncts {
			if isLiteralTrue(c) {
				changed = true
				continue
			}
			kept = append(kept, c)
		}
		if !changed {
			return n, planutil.SameTree, nil
		}
		if len(kept) == 0 {
			return f.Input, planutil.NewTree, nil
		}
		return logicalplan.NewFilter(f.Input, logicalplan.CombinePredicates(kept)), planutil.NewTree, nil
	})
}

// RulePredicateSimplification is spec.md section 4.4 logical rule 3:
// double negation, constant folding of `=` between two literals,
// `x=x -> TRUE` for non-nullable x, and `p OR NOT p -> TRUE`.
const RulePredicateSimplification = "predicate_simplification"

func predicateSimplificationRule() LogicalRule {
	return newLogicalRule(RulePredicateSimplification, func(n logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error) {
		f, ok := n.(*logicalplan.Filter)
		if !ok {
			return n, planutil.SameTree, nil
		}
		simplified, changed := simplifyPredicateTree(f.Predicate)
		if !changed {
			return n, planutil.SameTree, nil
		}
		return logicalplan.NewFilter(f.Input, simplified), planutil.NewTree, nil
	})
}

func simplifyPredicateTree(e expr.Expr) (expr.Expr, bool) {
	result, same, err := planutil.RewriteBottomUp(e, func(node expr.Expr) (expr.Expr, planutil.TreeIdentity, error) {
		simplified, did := simplifyOne(node)
		if !did {
			return node, planutil.SameTree, nil
		}
		return simplified, planutil.NewTree, nil
	})
	if err != nil {
		return e, false
	}
	return result, same == planutil.NewTree
}

func simplifyOne(e expr.Expr) (expr.Expr, bool) {
	switch n := e.(type) {
	case *expr.UnaryOp:
		if n.Op != expr.Not {
			return e, false
		}
		if inner, ok := n.Expr.(*expr.UnaryOp); ok && inner.Op == expr.Not {
			// Double negation: NOT NOT p -> p.
			return inner.Expr, true
		}
	case *expr.BinaryOp:
		if n.Op == expr.Eq {
			if lCol, ok := n.Left.(*expr.Column); ok {
				if rCol, ok := n.Right.(*expr.Column); ok && lCol.Index == rCol.Index && !lCol.CanBeNull {
					return trueLiteral(), true
				}
			}
			if lLit, ok := n.Left.(*expr.Literal); ok {
				if rLit, ok := n.Right.(*expr.Literal); ok {
					return expr.NewLiteral(types.Equals(lLit.Value, rLit.Value).ToValue()), true
				}
			}
		}
		if n.Op == expr.Or {
			if isNegationOf(n.Left, n.Right) || isNegationOf(n.Right, n.Left) {
				return trueLiteral(), true
			}
		}
	}
	return e, false
}

// isNegationOf reports whether neg is syntactically NOT(base), the
// shape `p OR NOT p` (in either operand order) folds to TRUE under
// (spec.md section 4.4 logical rule 3. The fold only holds under
// three-valued logic when p cannot be NULL: for a nullable p, `p OR
// NOT p` evaluates to `NULL OR NULL = NULL` on a NULL row rather than
// TRUE, the same guard the `x=x -> TRUE` fold above applies via
// lCol.CanBeNull.
func isNegationOf(neg, base expr.Expr) bool {
	u, ok := neg.(*expr.UnaryOp)
	if !ok || u.Op != expr.Not {
		return false
	}
	return exprEqualShape(u.Expr, base) && exprIsNonNullable(base)
}

// exprIsNonNullable reports whether e is guaranteed never to evaluate
// to NULL, for the shapes exprEqualShape recognizes.
func exprIsNonNullable(e expr.Expr) bool {
	switch v := e.(type) {
	case *expr.Column:
		return !v.CanBeNull
	case *expr.Literal:
		return !v.Value.IsNull
	default:
		return false
	}
}

// exprEqualShape is a conservative syntactic equality check: it only
// recognizes identical Column references and identical Literal values,
// which is sufficient for the `p OR NOT p` pattern since both operands
// originate from the same sub-tree before any rewrite has touched it.
func exprEqualShape(a, b expr.Expr) bool {
	switch av := a.(type) {
	case *expr.Column:
		bv, ok := b.(*expr.Column)
		return ok && av.Index == bv.Index && av.Table == bv.Table && av.Name == bv.Name
	case *expr.Literal:
		bv, ok := b.(*expr.Literal)
		return ok && types.Equals(av.Value, bv.Value).Valid && types.Equals(av.Value, bv.Value).Bool
	default:
		return false
	}
}

func isLiteralTrue(e expr.Expr) bool {
	lit, ok := e.(*expr.Literal)
	return ok && !lit.Value.IsNull && lit.Value.Type.Base == types.Bool && lit.Value.Bool
}

func trueLiteral() expr.Expr { return expr.NewLiteral(types.BoolValue(true)) }
