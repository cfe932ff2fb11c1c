package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// RuleLimitPushdownProject is spec.md section 4.4's "Limit pushdown
// ... through Project": a Project is a 1:1, order-preserving row
// mapping, so Limit(Project(x)) and Project(Limit(x)) select the same
// rows; pushing the Limit below lets TopN rewrite see it next to a
// Sort that a Project would otherwise separate it from.
const RuleLimitPushdownProject = "limit_pushdown_project"

func limitPushdownProjectRule() PhysicalRule {
	return newPhysicalRule(RuleLimitPushdownProject, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		limit, ok := n.(*physicalplan.Limit)
		if !ok {
			return n, planutil.SameTree, nil
		}
		proj, ok := limit.Input.(*physicalplan.Project)
		if !ok {
			return n, planutil.SameTree, nil
		}
		pushed := physicalplan.NewLimit(proj.Input, limit.Count)
		pushed.Offset = limit.Offset
		return physicalplan.NewProject(pushed, proj.Exprs), planutil.NewTree, nil
	})
}

// RuleLimitPushdownUnion is spec.md section 4.4's "Limit pushdown
// ... into Union branches (with correctness: only when the union is
// UNION ALL or when LIMIT >= needed)": this core takes the safe
// reading and only pushes into UNION ALL branches (spec.md section 5:
// "UNION ALL preserves per-branch order but not across branches",
// so each branch independently needs at most N rows to satisfy an
// overall Limit N; UNION DISTINCT's de-duplication across branches
// means no single branch's row count bounds the others', so it is
// left untouched). The outer Limit is kept: bounding each branch by N
// is a correct but not tight bound, since fewer than N rows may
// survive from any one branch.
const RuleLimitPushdownUnion = "limit_pushdown_union"

func limitPushdownUnionRule() PhysicalRule {
	return newPhysicalRule(RuleLimitPushdownUnion, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		limit, ok := n.(*physicalplan.Limit)
		if !ok || limit.Offset != nil {
			return n, planutil.SameTree, nil
		}
		set, ok := limit.Input.(*physicalplan.SetOperation)
		if !ok || set.Kind != physicalplan.Union || !set.All {
			return n, planutil.SameTree, nil
		}
		if alreadyLimited(set.Left) && alreadyLimited(set.Right) {
			return n, planutil.SameTree, nil
		}
		left := physicalplan.NewLimit(set.Left, limit.Count)
		right := physicalplan.NewLimit(set.Right, limit.Count)
		newSet := physicalplan.NewSetOperation(left, right, set.Kind, set.All)
		return physicalplan.NewLimit(newSet, limit.Count), planutil.NewTree, nil
	})
}

// alreadyLimited reports whether p is itself a Limit, so a repeated
// application of RuleLimitPushdownUnion does not keep re-wrapping
// branches that already carry the pushed-down bound (idempotence,
// spec.md section 9).
func alreadyLimited(p physicalplan.Plan) bool {
	_, ok := p.(*physicalplan.Limit)
	return ok
}
