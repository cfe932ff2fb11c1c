package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// RuleFilterPushdownProject is spec.md section 4.4: "Predicates whose
// columns exist pre-projection are pushed below the Project; those
// referencing computed columns remain above." A Project column is
// "pre-projection" exactly when its expression is a plain Column
// reference — anything else (an arithmetic expression, a function
// call, a literal) is computed and blocks the conjuncts that touch it.
const RuleFilterPushdownProject = "filter_pushdown_project"

func filterPushdownProjectRule() PhysicalRule {
	return newPhysicalRule(RuleFilterPushdownProject, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		f, ok := n.(*physicalplan.Filter)
		if !ok {
			return n, planutil.SameTree, nil
		}
		proj, ok := f.Input.(*physicalplan.Project)
		if !ok {
			return n, planutil.SameTree, nil
		}
		passthrough := make(map[int]expr.Expr, len(proj.Exprs))
		for outIdx, pe := range proj.Exprs {
			if col, ok := pe.Expr.(*expr.Column); ok {
				passthrough[outIdx] = col
			}
		}
		conjuncts := logicalplan.SplitConjuncts(f.Predicate)
		var pushable, remaining []expr.Expr
		for _, c := range conjuncts {
			remapped, ok := remapThroughPassthrough(c, passthrough)
			if !ok {
				remaining = append(remaining, c)
				continue
			}
			pushable = append(pushable, remapped)
		}
		if len(pushable) == 0 {
			return n, planutil.SameTree, nil
		}
		newInput := physicalplan.NewFilter(proj.Input, logicalplan.CombinePredicates(pushable))
		newProj := physicalplan.NewProject(newInput, proj.Exprs)
		var result physicalplan.Plan = newProj
		if len(remaining) > 0 {
			result = physicalplan.NewFilter(newProj, logicalplan.CombinePredicates(remaining))
		}
		return result, planutil.NewTree, nil
	})
}

// remapThroughPassthrough rewrites every Column in e from Project
// output indices to Project input indices, succeeding only when every
// referenced output column is a passthrough (plain Column) entry.
func remapThroughPassthrough(e expr.Expr, passthrough map[int]expr.Expr) (expr.Expr, bool) {
	for _, idx := range logicalplan.CollectColumnIndices(e) {
		if _, ok := passthrough[idx]; !ok {
			return nil, false
		}
	}
	mapping := make(map[int]int, len(passthrough))
	for outIdx, e := range passthrough {
		mapping[outIdx] = e.(*expr.Column).Index
	}
	remapped, err := logicalplan.RemapColumnIndices(e, mapping)
	if err != nil {
		return nil, false
	}
	return remapped, true
}
