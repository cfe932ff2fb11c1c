package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// RuleFilterPushdownAggregate is spec.md section 4.4: "A predicate
// referencing only group-by expressions (interpreted positionally
// against the aggregate's output schema) is remapped to reference the
// input of the aggregate and pushed below it; predicates referencing
// aggregate outputs remain above. If the remap fails for any conjunct,
// abandon the pushdown for that conjunct." (End-to-end scenario 6:
// HAVING country='US' over GROUP BY country pushes to a pre-aggregate
// Filter.)
const RuleFilterPushdownAggregate = "filter_pushdown_aggregate"

func filterPushdownAggregateRule() PhysicalRule {
	return newPhysicalRule(RuleFilterPushdownAggregate, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		f, ok := n.(*physicalplan.Filter)
		if !ok {
			return n, planutil.SameTree, nil
		}
		groupBy, input, rebuild, ok := aggregateGroupBy(f.Input)
		if !ok {
			return n, planutil.SameTree, nil
		}
		outputToInput := make(map[int]int, len(groupBy))
		for i, g := range groupBy {
			if col, ok := g.(*expr.Column); ok && col.Index >= 0 {
				outputToInput[i] = col.Index
			}
		}

		conjuncts := logicalplan.SplitConjuncts(f.Predicate)
		var pushable, remaining []expr.Expr
		for _, c := range conjuncts {
			remapped, err := logicalplan.RemapColumnIndices(c, outputToInput)
			if err != nil {
				remaining = append(remaining, c)
				continue
			}
			pushable = append(pushable, remapped)
		}
		if len(pushable) == 0 {
			return n, planutil.SameTree, nil
		}
		newInput := physicalplan.NewFilter(input, logicalplan.CombinePredicates(pushable))
		agg := rebuild(newInput)
		var result physicalplan.Plan = agg
		if len(remaining) > 0 {
			result = physicalplan.NewFilter(agg, logicalplan.CombinePredicates(remaining))
		}
		return result, planutil.NewTree, nil
	})
}

// aggregateGroupBy extracts the GroupBy expressions, the aggregate's
// input, and a rebuild closure from whichever aggregate-shaped
// physical node p is.
func aggregateGroupBy(p physicalplan.Plan) (groupBy []expr.Expr, input physicalplan.Plan, rebuild func(physicalplan.Plan) physicalplan.Plan, ok bool) {
	switch a := p.(type) {
	case *physicalplan.HashAggregate:
		return a.GroupBy, a.Input, func(newInput physicalplan.Plan) physicalplan.Plan {
			na := physicalplan.NewHashAggregate(newInput, a.GroupBy, a.Aggregates)
			na.GroupingSets = a.GroupingSets
			return na
		}, true
	case *physicalplan.StreamAggregate:
		return a.GroupBy, a.Input, func(newInput physicalplan.Plan) physicalplan.Plan {
			return physicalplan.NewStreamAggregate(newInput, a.GroupBy, a.Aggregates)
		}, true
	default:
		return nil, nil, nil, false
	}
}
