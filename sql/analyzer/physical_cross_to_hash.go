package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// RuleCrossToHashJoin is spec.md section 4.4's physical rule: "If a
// Filter above a CrossJoin contains an equality between columns from
// left and right subtrees, rewrite to HashJoin with the equality as
// the hash key and residual predicates retained above." physicalplan.
// Lower already promotes a logical Join with an equi-join Condition to
// HashJoin directly; this rule covers the remaining case where the
// equality arrives as a Filter sitting above a CrossJoin instead of as
// the join's own condition.
const RuleCrossToHashJoin = "cross_to_hash_join"

func crossToHashJoinRule() PhysicalRule {
	return newPhysicalRule(RuleCrossToHashJoin, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		f, ok := n.(*physicalplan.Filter)
		if !ok {
			return n, planutil.SameTree, nil
		}
		cross, ok := f.Input.(*physicalplan.CrossJoin)
		if !ok {
			return n, planutil.SameTree, nil
		}
		leftCount := cross.LeftColumnCount()
		conjuncts := logicalplan.SplitConjuncts(f.Predicate)
		var leftKeys, rightKeys []expr.Expr
		var residual []expr.Expr
		for _, c := range conjuncts {
			lKey, rKey, ok := asCrossEquiKey(c, leftCount)
			if !ok {
				residual = append(residual, c)
				continue
			}
			leftKeys = append(leftKeys, lKey)
			rightKeys = append(rightKeys, rKey)
		}
		if len(leftKeys) == 0 {
			return n, planutil.SameTree, nil
		}
		join := physicalplan.NewHashJoin(cross.Left, cross.Right, physicalplan.InnerJoin, leftKeys, rightKeys, nil)
		var result physicalplan.Plan = join
		if len(residual) > 0 {
			result = physicalplan.NewFilter(join, logicalplan.CombinePredicates(residual))
		}
		return result, planutil.NewTree, nil
	})
}

// asCrossEquiKey reports whether conjunct is `L.i = R.j` spanning both
// sides of a join whose left side has leftCount output columns,
// returning the left-relative and right-relative key expressions.
func asCrossEquiKey(conjunct expr.Expr, leftCount int) (left, right expr.Expr, ok bool) {
	bin, isBin := conjunct.(*expr.BinaryOp)
	if !isBin || bin.Op != expr.Eq {
		return nil, nil, false
	}
	lCol, lOK := bin.Left.(*expr.Column)
	rCol, rOK := bin.Right.(*expr.Column)
	if !lOK || !rOK {
		return nil, nil, false
	}
	switch {
	case lCol.Index < leftCount && rCol.Index >= leftCount:
		return lCol, rCol.WithIndex(rCol.Index - leftCount), true
	case rCol.Index < leftCount && lCol.Index >= leftCount:
		return rCol, lCol.WithIndex(lCol.Index - leftCount), true
	default:
		return nil, nil, false
	}
}
