package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// RuleSortPushdownProject is spec.md section 4.4: "A Sort whose keys
// reference only passthrough columns moves below the Project." Moving
// the Sort below lets a later pass (TopN rewrite, sort elimination)
// see it next to its true producer instead of behind a Project
// that can otherwise hide that relationship.
const RuleSortPushdownProject = "sort_pushdown_project"

func sortPushdownProjectRule() PhysicalRule {
	return newPhysicalRule(RuleSortPushdownProject, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		sort, ok := n.(*physicalplan.Sort)
		if !ok {
			return n, planutil.SameTree, nil
		}
		proj, ok := sort.Input.(*physicalplan.Project)
		if !ok {
			return n, planutil.SameTree, nil
		}
		passthrough := make(map[int]expr.Expr, len(proj.Exprs))
		for outIdx, pe := range proj.Exprs {
			if col, ok := pe.Expr.(*expr.Column); ok {
				passthrough[outIdx] = col
			}
		}
		newKeys := make([]physicalplan.SortKey, len(sort.Keys))
		for i, k := range sort.Keys {
			remapped, ok := remapThroughPassthrough(k.Expr, passthrough)
			if !ok {
				return n, planutil.SameTree, nil
			}
			newKeys[i] = physicalplan.SortKey{Expr: remapped, Descending: k.Descending, NullsFirst: k.NullsFirst}
		}
		pushed := physicalplan.NewSort(proj.Input, newKeys)
		return physicalplan.NewProject(pushed, proj.Exprs), planutil.NewTree, nil
	})
}
