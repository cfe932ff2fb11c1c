package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// RuleFilterPushdownJoin is spec.md section 4.4: predicates touching
// only one side of a join push to that side; predicates touching both
// sides stay in the Filter above the join and are not merged into the
// join's own condition. "Outer joins require special care: predicates on the
// preserving side push freely; predicates on the null-padded side only
// push if they do not change the outer-join semantics" — this rule
// takes the conservative reading of that clause and never pushes a
// predicate to a null-padded side (only RuleOuterToInner, which runs
// first in the pipeline, can turn a null-padded side back into a
// preserving one).
const RuleFilterPushdownJoin = "filter_pushdown_join"

func filterPushdownJoinRule() PhysicalRule {
	return newPhysicalRule(RuleFilterPushdownJoin, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		f, ok := n.(*physicalplan.Filter)
		if !ok {
			return n, planutil.SameTree, nil
		}
		left, right, leftCount, joinType, rebuild, ok := joinSides(f.Input)
		if !ok {
			return n, planutil.SameTree, nil
		}
		leftPushable, rightPushable := joinSidePushability(joinType)

		conjuncts := logicalplan.SplitConjuncts(f.Predicate)
		var toLeft, toRight, remaining []expr.Expr
		for _, c := range conjuncts {
			switch {
			case leftPushable && logicalplan.ColumnsTouchOnlyLeft(c, leftCount):
				toLeft = append(toLeft, c)
			case rightPushable && logicalplan.ColumnsTouchOnlyRight(c, leftCount):
				if shifted, err := logicalplan.RemapColumnIndices(c, shiftRightMapping(c, leftCount)); err == nil {
					toRight = append(toRight, shifted)
				} else {
					remaining = append(remaining, c)
				}
			default:
				remaining = append(remaining, c)
			}
		}
		if len(toLeft) == 0 && len(toRight) == 0 {
			return n, planutil.SameTree, nil
		}
		if len(toLeft) > 0 {
			left = physicalplan.NewFilter(left, logicalplan.CombinePredicates(toLeft))
		}
		if len(toRight) > 0 {
			right = physicalplan.NewFilter(right, logicalplan.CombinePredicates(toRight))
		}
		joined, err := rebuild(left, right)
		if err != nil {
			return nil, planutil.SameTree, err
		}
		var result physicalplan.Plan = joined
		if len(remaining) > 0 {
			result = physicalplan.NewFilter(joined, logicalplan.CombinePredicates(remaining))
		}
		return result, planutil.NewTree, nil
	})
}

// joinSidePushability reports, per join type, which side of the join
// is "preserving" (every row from that side survives the join and so
// a predicate on it alone can run before the join) versus "null-
// padded" (rows from that side may be synthesized with NULLs, so a
// predicate on it alone cannot run before the join without changing
// which rows appear).
func joinSidePushability(joinType physicalplan.JoinType) (left, right bool) {
	switch joinType {
	case physicalplan.InnerJoin:
		return true, true
	case physicalplan.LeftJoin:
		return true, false
	case physicalplan.RightJoin:
		return false, true
	default: // FullJoin and any other outer variant: neither side is safe.
		return false, false
	}
}

// joinSides extracts the left/right children, left column count, join
// type, and a rebuild closure from whichever join-shaped physical node
// p is (HashJoin, NestedLoopJoin, or CrossJoin, which this rule treats
// as an always-pushable InnerJoin).
func joinSides(p physicalplan.Plan) (left, right physicalplan.Plan, leftCount int, joinType physicalplan.JoinType, rebuild func(l, r physicalplan.Plan) (physicalplan.Plan, error), ok bool) {
	switch j := p.(type) {
	case *physicalplan.HashJoin:
		return j.Left, j.Right, j.LeftColumnCount(), j.Type, func(l, r physicalplan.Plan) (physicalplan.Plan, error) {
			return physicalplan.NewHashJoin(l, r, j.Type, j.LeftKeys, j.RightKeys, j.Residual), nil
		}, true
	case *physicalplan.NestedLoopJoin:
		return j.Left, j.Right, len(j.Left.OutputSchema()), j.Type, func(l, r physicalplan.Plan) (physicalplan.Plan, error) {
			return physicalplan.NewNestedLoopJoin(l, r, j.Type, j.Condition), nil
		}, true
	case *physicalplan.CrossJoin:
		return j.Left, j.Right, j.LeftColumnCount(), physicalplan.InnerJoin, func(l, r physicalplan.Plan) (physicalplan.Plan, error) {
			return physicalplan.NewCrossJoin(l, r), nil
		}, true
	default:
		return nil, nil, 0, 0, nil, false
	}
}

// shiftRightMapping builds the old->new index mapping that rebases
// every column index e references (all >= leftCount, since the caller
// already checked ColumnsTouchOnlyRight) down by leftCount, so the
// predicate can be evaluated against the right subtree alone.
func shiftRightMapping(e expr.Expr, leftCount int) map[int]int {
	mapping := make(map[int]int)
	for _, idx := range logicalplan.CollectColumnIndices(e) {
		mapping[idx] = idx - leftCount
	}
	return mapping
}
