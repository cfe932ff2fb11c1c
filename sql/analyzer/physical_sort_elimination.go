package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// RuleSortElimination is spec.md section 4.4: "Redundant Sorts
// (already-sorted input by identical keys, or Sort followed by
// Aggregate that does not preserve order) are removed." Two shapes:
// a Sort directly above another Sort with identical keys (the inner
// sort already establishes the order, so re-sorting is a no-op), and
// a Sort feeding a HashAggregate (spec.md section 5: "Aggregation
// outputs are order-independent with respect to input", so a
// HashAggregate never benefits from a sorted input).
const RuleSortElimination = "sort_elimination"

func sortEliminationRule() PhysicalRule {
	return newPhysicalRule(RuleSortElimination, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		switch p := n.(type) {
		case *physicalplan.Sort:
			if inner, ok := p.Input.(*physicalplan.Sort); ok && sameSortKeys(p.Keys, inner.Keys) {
				return inner, planutil.NewTree, nil
			}
			return n, planutil.SameTree, nil
		case *physicalplan.HashAggregate:
			if s, ok := p.Input.(*physicalplan.Sort); ok {
				na := physicalplan.NewHashAggregate(s.Input, p.GroupBy, p.Aggregates)
				na.GroupingSets = p.GroupingSets
				return na, planutil.NewTree, nil
			}
			return n, planutil.SameTree, nil
		default:
			return n, planutil.SameTree, nil
		}
	})
}

func sameSortKeys(a, b []physicalplan.SortKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Descending != b[i].Descending || a[i].NullsFirst != b[i].NullsFirst {
			return false
		}
		ac, aOK := a[i].Expr.(interface{ String() string })
		bc, bOK := b[i].Expr.(interface{ String() string })
		if !aOK || !bOK || ac.String() != bc.String() {
			return false
		}
	}
	return true
}
