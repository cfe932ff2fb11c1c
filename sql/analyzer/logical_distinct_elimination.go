package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// RuleDistinctElimination is spec.md section 4.4 logical rule 8: a
// Distinct directly above an Aggregate whose GROUP BY already covers
// every output column is redundant — GROUP BY already guarantees one
// row per distinct key combination.
const RuleDistinctElimination = "distinct_elimination"

func distinctEliminationRule() LogicalRule {
	return newLogicalRule(RuleDistinctElimination, func(n logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error) {
		d, ok := n.(*logicalplan.Distinct)
		if !ok {
			return n, planutil.SameTree, nil
		}
		agg, ok := d.Input.(*logicalplan.Aggregate)
		if !ok {
			return n, planutil.SameTree, nil
		}
		if len(agg.GroupingSets) > 0 {
			// Grouping sets can repeat a key combination across
			// different sets, so DISTINCT may still remove rows.
			return n, planutil.SameTree, nil
		}
		// A plain GROUP BY already emits exactly one row per distinct
		// key combination, so DISTINCT above it removes nothing.
		return agg, planutil.NewTree, nil
	})
}
