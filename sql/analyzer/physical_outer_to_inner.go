package analyzer

import (
	"strings"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// isCoalesceLikeFunc mirrors expr's unexported isCoalesceLike: only
// COALESCE/IFNULL are exempted from null-rejection per spec.md section
// 4.4 ("COALESCE and its arguments are NOT null-rejecting"); NULLIF is
// not covered by that clause and falls through to the generic
// NullStrict classification below.
func isCoalesceLikeFunc(name string) bool {
	switch strings.ToUpper(name) {
	case expr.CoalesceFuncName, expr.IfnullFuncName:
		return true
	default:
		return false
	}
}

// RuleOuterToInner is spec.md section 4.4's Outer-to-Inner Join
// conversion: given Filter(p, outer_join(L, R)), a null-rejecting
// predicate on the null-padded side lets the join downgrade to (or
// partway toward) INNER, since any row the outer join would have
// padded with NULLs is filtered out by p anyway. Classification of
// "null-rejecting" follows the explicit rules spec.md lays out rather
// than evaluating p, so the rule stays a pure syntactic rewrite.
const RuleOuterToInner = "outer_to_inner"

func outerToInnerRule() PhysicalRule {
	return newPhysicalRule(RuleOuterToInner, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		f, ok := n.(*physicalplan.Filter)
		if !ok {
			return n, planutil.SameTree, nil
		}
		joinType, leftCount, setType, ok := outerJoinShape(f.Input)
		if !ok {
			return n, planutil.SameTree, nil
		}
		inLeft := func(idx int) bool { return idx < leftCount }
		inRight := func(idx int) bool { return idx >= leftCount }

		var newType physicalplan.JoinType
		changed := false
		switch joinType {
		case physicalplan.LeftJoin:
			if isNullRejecting(f.Predicate, inRight) {
				newType, changed = physicalplan.InnerJoin, true
			}
		case physicalplan.RightJoin:
			if isNullRejecting(f.Predicate, inLeft) {
				newType, changed = physicalplan.InnerJoin, true
			}
		case physicalplan.FullJoin:
			rejectsRight := isNullRejecting(f.Predicate, inRight)
			rejectsLeft := isNullRejecting(f.Predicate, inLeft)
			switch {
			case rejectsLeft && rejectsRight:
				newType, changed = physicalplan.InnerJoin, true
			case rejectsRight:
				newType, changed = physicalplan.LeftJoin, true
			case rejectsLeft:
				newType, changed = physicalplan.RightJoin, true
			}
		}
		if !changed {
			return n, planutil.SameTree, nil
		}
		newJoin := setType(newType)
		return physicalplan.NewFilter(newJoin, f.Predicate), planutil.NewTree, nil
	})
}

// outerJoinShape reports whether p is a HashJoin or NestedLoopJoin
// whose Type is one of Left/Right/Full (never Inner/Cross, which have
// no null-padded side to reason about), returning its type, left
// column count, and a closure that rebuilds the same join with a new
// JoinType.
func outerJoinShape(p physicalplan.Plan) (joinType physicalplan.JoinType, leftCount int, setType func(physicalplan.JoinType) physicalplan.Plan, ok bool) {
	isOuter := func(t physicalplan.JoinType) bool {
		return t == physicalplan.LeftJoin || t == physicalplan.RightJoin || t == physicalplan.FullJoin
	}
	switch j := p.(type) {
	case *physicalplan.HashJoin:
		if !isOuter(j.Type) {
			return 0, 0, nil, false
		}
		return j.Type, j.LeftColumnCount(), func(t physicalplan.JoinType) physicalplan.Plan {
			return physicalplan.NewHashJoin(j.Left, j.Right, t, j.LeftKeys, j.RightKeys, j.Residual)
		}, true
	case *physicalplan.NestedLoopJoin:
		if !isOuter(j.Type) {
			return 0, 0, nil, false
		}
		return j.Type, len(j.Left.OutputSchema()), func(t physicalplan.JoinType) physicalplan.Plan {
			return physicalplan.NewNestedLoopJoin(j.Left, j.Right, t, j.Condition)
		}, true
	default:
		return 0, 0, nil, false
	}
}

// touchesSide reports whether any column e references satisfies
// inRange, the shared building block for every classification rule
// below. Columns reached only through a COALESCE/IFNULL argument do
// not count, since COALESCE can turn a NULL input into a non-NULL
// result.
func touchesSide(e expr.Expr, inRange func(int) bool) bool {
	if f, ok := e.(*expr.ScalarFunction); ok && isCoalesceLikeFunc(f.Name) {
		return false
	}
	if children := e.Children(); len(children) > 0 {
		for _, c := range children {
			if touchesSide(c, inRange) {
				return true
			}
		}
		return false
	}
	for _, idx := range logicalplan.CollectColumnIndices(e) {
		if inRange(idx) {
			return true
		}
	}
	return false
}

// isNullRejecting classifies e per spec.md section 4.4's explicit,
// non-evaluative rules: a predicate null-rejects the side inRange
// selects when it is guaranteed FALSE or UNKNOWN whenever a column on
// that side is NULL.
func isNullRejecting(e expr.Expr, inRange func(int) bool) bool {
	switch n := e.(type) {
	case *expr.IsNull:
		// IsNull{negated=true} is "IS NOT NULL", which is FALSE
		// whenever the operand is NULL: null-rejecting. The
		// non-negated form ("IS NULL") is TRUE on NULL, the opposite
		// of rejecting.
		return n.Negated && touchesSide(n.Expr, inRange)
	case *expr.BinaryOp:
		switch n.Op {
		case expr.And:
			return isNullRejecting(n.Left, inRange) || isNullRejecting(n.Right, inRange)
		case expr.Or:
			return isNullRejecting(n.Left, inRange) && isNullRejecting(n.Right, inRange)
		default:
			if n.Op.IsComparison() {
				return touchesSide(n.Left, inRange) || touchesSide(n.Right, inRange)
			}
			return false
		}
	case *expr.UnaryOp:
		if n.Op == expr.Not {
			return isNullRejecting(n.Expr, inRange)
		}
		return false
	case *expr.ScalarFunction:
		if isCoalesceLikeFunc(n.Name) {
			// COALESCE produces non-NULL output from a NULL input.
			return false
		}
		if n.Null != expr.NullStrict {
			return false
		}
		for _, a := range n.Args {
			if touchesSide(a, inRange) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
