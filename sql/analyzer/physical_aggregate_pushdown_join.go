package analyzer

import (
	"strings"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// RuleAggregatePushdownJoin is spec.md section 4.4: "Where the
// group-by key is a foreign-key column and the aggregate is
// decomposable (SUM, COUNT, MIN, MAX), push partial aggregation below
// the join." The rule pre-aggregates the side that owns every GroupBy
// and aggregate-argument column (grouping by at least the join key
// itself, the proxy this core uses for "is a foreign-key column"
// since its catalog contract, spec.md section 6, exposes only
// lookup_table schemas and not uniqueness constraints), then
// re-aggregates the join of that partial result against the other
// side: SUM/MIN/MAX recompose as themselves over the partial output,
// COUNT recomposes as SUM of per-partial-group counts. Like the rest
// of spec.md section 4.4, this assumes the non-pushed side is unique
// on the join key, the ordinary foreign-key shape this rule targets;
// the rule does not verify that uniqueness, since the catalog contract
// exposes no uniqueness constraints.
const RuleAggregatePushdownJoin = "aggregate_pushdown_join"

var decomposableAggFuncs = map[string]bool{"SUM": true, "COUNT": true, "MIN": true, "MAX": true}

func aggregatePushdownJoinRule() PhysicalRule {
	return newPhysicalRule(RuleAggregatePushdownJoin, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		agg, ok := n.(*physicalplan.HashAggregate)
		if !ok || len(agg.GroupingSets) > 0 {
			return n, planutil.SameTree, nil
		}
		join, ok := agg.Input.(*physicalplan.HashJoin)
		if !ok || join.Type != physicalplan.InnerJoin {
			return n, planutil.SameTree, nil
		}
		if !allDecomposable(agg.Aggregates) {
			return n, planutil.SameTree, nil
		}

		leftCount := join.LeftColumnCount()
		pushLeft, ok := classifyPushSide(agg.GroupBy, agg.Aggregates, leftCount)
		if !ok {
			return n, planutil.SameTree, nil
		}

		var pushInput, otherInput physicalplan.Plan
		var offset int
		if pushLeft {
			pushInput, otherInput, offset = join.Left, join.Right, 0
		} else {
			pushInput, otherInput, offset = join.Right, join.Left, leftCount
		}
		if !groupByIncludesJoinKey(agg.GroupBy, pushLeft, join, leftCount) {
			return n, planutil.SameTree, nil
		}

		pushGroupBy := shiftExprs(agg.GroupBy, -offset)
		pushAggregates := make([]physicalplan.ProjectExpr, len(agg.Aggregates))
		for i, a := range agg.Aggregates {
			shifted, err := logicalplan.RemapColumnIndices(a.Expr, shiftAllMapping(a.Expr, -offset))
			if err != nil {
				return n, planutil.SameTree, nil
			}
			pushAggregates[i] = physicalplan.ProjectExpr{Expr: shifted, Name: a.Name}
		}
		partial := physicalplan.NewHashAggregate(pushInput, pushGroupBy, pushAggregates)

		var newLeft, newRight physicalplan.Plan
		var leftKeys, rightKeys []expr.Expr
		partialKeyIdx := make(map[int]int) // original join-side key index -> partial output index
		for i, g := range pushGroupBy {
			if col, ok := g.(*expr.Column); ok {
				partialKeyIdx[col.Index] = i
			}
		}
		if pushLeft {
			newLeft, newRight = partial, otherInput
			for i, k := range join.LeftKeys {
				col := k.(*expr.Column)
				leftKeys = append(leftKeys, expr.NewResolvedColumn(partialKeyIdx[col.Index], "", col.Name, col.Type, col.CanBeNull))
				rightKeys = append(rightKeys, join.RightKeys[i])
			}
		} else {
			newLeft, newRight = otherInput, partial
			for i, k := range join.RightKeys {
				col := k.(*expr.Column)
				rightKeys = append(rightKeys, expr.NewResolvedColumn(partialKeyIdx[col.Index], "", col.Name, col.Type, col.CanBeNull))
				leftKeys = append(leftKeys, join.LeftKeys[i])
			}
		}
		newJoin := physicalplan.NewHashJoin(newLeft, newRight, physicalplan.InnerJoin, leftKeys, rightKeys, nil)

		partialBase := 0
		if !pushLeft {
			partialBase = len(otherInput.OutputSchema())
		}
		finalGroupBy := make([]expr.Expr, len(agg.GroupBy))
		for i := range agg.GroupBy {
			col := pushGroupBy[i].(*expr.Column)
			finalGroupBy[i] = col.WithIndex(partialBase + i)
		}
		finalAggregates := make([]physicalplan.ProjectExpr, len(agg.Aggregates))
		for i, a := range agg.Aggregates {
			partialCol := expr.NewResolvedColumn(partialBase+len(agg.GroupBy)+i, "", a.Name, pushAggregates[i].Expr.ResolvedType(), true)
			srcAgg := a.Expr.(*expr.Aggregate)
			reFunc := srcAgg.Func
			if strings.EqualFold(srcAgg.Func, "COUNT") {
				reFunc = "SUM"
			}
			finalAggregates[i] = physicalplan.ProjectExpr{
				Expr: &expr.Aggregate{Func: reFunc, Args: []expr.Expr{partialCol}, Type: srcAgg.Type},
				Name: a.Name,
			}
		}
		result := physicalplan.NewHashAggregate(newJoin, finalGroupBy, finalAggregates)
		return result, planutil.NewTree, nil
	})
}

// allDecomposable reports whether every aggregate in aggs is a plain,
// non-DISTINCT, non-FILTER, non-ORDER-BY SUM/COUNT/MIN/MAX call, the
// shape spec.md section 4.4 calls decomposable.
func allDecomposable(aggs []physicalplan.ProjectExpr) bool {
	for _, a := range aggs {
		agg, ok := a.Expr.(*expr.Aggregate)
		if !ok || agg.Distinct || agg.Filter != nil || len(agg.OrderBy) > 0 || agg.Limit != nil {
			return false
		}
		if !decomposableAggFuncs[strings.ToUpper(agg.Func)] {
			return false
		}
	}
	return true
}

// classifyPushSide reports which join side owns every GroupBy column
// and every aggregate argument column, the side that can be partially
// aggregated before the join without losing information the other
// side would otherwise contribute.
func classifyPushSide(groupBy []expr.Expr, aggregates []physicalplan.ProjectExpr, leftCount int) (pushLeft bool, ok bool) {
	touchesLeft, touchesRight := false, false
	for _, g := range groupBy {
		if !logicalplan.ColumnsTouchOnlyLeft(g, leftCount) {
			touchesRight = true
		}
		if !logicalplan.ColumnsTouchOnlyRight(g, leftCount) {
			touchesLeft = true
		}
	}
	for _, a := range aggregates {
		agg, ok := a.Expr.(*expr.Aggregate)
		if !ok {
			return false, false
		}
		for _, arg := range agg.Args {
			if !logicalplan.ColumnsTouchOnlyLeft(arg, leftCount) {
				touchesRight = true
			}
			if !logicalplan.ColumnsTouchOnlyRight(arg, leftCount) {
				touchesLeft = true
			}
		}
	}
	if touchesLeft && touchesRight {
		return false, false
	}
	if !touchesLeft && !touchesRight {
		// No column references at all (e.g. bare COUNT(*) with no
		// GroupBy columns either): nothing to key the pushdown on.
		return false, false
	}
	return touchesLeft, true
}

// groupByIncludesJoinKey reports whether groupBy contains the equi-
// join key column of the side being pushed, the proxy this core uses
// for "the group-by key is a foreign-key column" (spec.md section
// 4.4): grouping no coarser than the key guarantees pre-aggregated
// groups never merge across distinct key values.
func groupByIncludesJoinKey(groupBy []expr.Expr, pushLeft bool, join *physicalplan.HashJoin, leftCount int) bool {
	keys := join.LeftKeys
	if !pushLeft {
		keys = join.RightKeys
	}
	for _, k := range keys {
		kCol, ok := k.(*expr.Column)
		if !ok {
			return false
		}
		idx := kCol.Index
		if !pushLeft {
			idx += leftCount
		}
		found := false
		for _, g := range groupBy {
			if gc, ok := g.(*expr.Column); ok && gc.Index == idx {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// shiftExprs rebases every Column index in each expr by delta,
// assuming (per the caller's precondition) every referenced index
// already belongs entirely to the side being shifted.
func shiftExprs(exprs []expr.Expr, delta int) []expr.Expr {
	out := make([]expr.Expr, len(exprs))
	for i, e := range exprs {
		if col, ok := e.(*expr.Column); ok {
			out[i] = col.WithIndex(col.Index + delta)
		} else {
			out[i] = e
		}
	}
	return out
}

// shiftAllMapping builds the old->new index mapping that rebases
// every column index e references by delta.
func shiftAllMapping(e expr.Expr, delta int) map[int]int {
	mapping := make(map[int]int)
	for _, idx := range logicalplan.CollectColumnIndices(e) {
		mapping[idx] = idx + delta
	}
	return mapping
}
