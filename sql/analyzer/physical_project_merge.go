package analyzer

import (
	"fmt"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
	"github.com/yachtsql/yachtsql/yerrors"
)

// RuleProjectMerging is spec.md section 4.4: "Two adjacent Projects
// collapse into one by substituting inner expressions into the outer;
// identity Projects are dropped."
const RuleProjectMerging = "project_merging"

func projectMergingRule() PhysicalRule {
	return newPhysicalRule(RuleProjectMerging, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		outer, ok := n.(*physicalplan.Project)
		if !ok {
			return n, planutil.SameTree, nil
		}
		if isIdentityProject(outer) {
			return outer.Input, planutil.NewTree, nil
		}
		inner, ok := outer.Input.(*physicalplan.Project)
		if !ok {
			return n, planutil.SameTree, nil
		}
		merged := make([]physicalplan.ProjectExpr, len(outer.Exprs))
		for i, pe := range outer.Exprs {
			substituted, err := substituteColumns(pe.Expr, inner.Exprs)
			if err != nil {
				return n, planutil.SameTree, nil
			}
			merged[i] = physicalplan.ProjectExpr{Expr: substituted, Name: pe.Name}
		}
		return physicalplan.NewProject(inner.Input, merged), planutil.NewTree, nil
	})
}

// isIdentityProject reports whether p's exprs are exactly its input's
// columns in order with their original names, i.e. p changes nothing
// about the rows flowing through it.
func isIdentityProject(p *physicalplan.Project) bool {
	input := p.Input.OutputSchema()
	if len(p.Exprs) != len(input) {
		return false
	}
	for i, pe := range p.Exprs {
		col, ok := pe.Expr.(*expr.Column)
		if !ok || col.Index != i || pe.Name != input[i].Name {
			return false
		}
	}
	return true
}

// substituteColumns rewrites every Column node in e (indexed against
// innerExprs' output position) with the corresponding innerExprs[i]
// expression, the tree-substitution project merging needs in place of
// RemapColumnIndices's index-to-index remap.
func substituteColumns(e expr.Expr, innerExprs []physicalplan.ProjectExpr) (expr.Expr, error) {
	result, _, err := planutil.RewriteBottomUp(e, func(node expr.Expr) (expr.Expr, planutil.TreeIdentity, error) {
		col, ok := node.(*expr.Column)
		if !ok || col.Index < 0 {
			return node, planutil.SameTree, nil
		}
		if col.Index >= len(innerExprs) {
			return nil, planutil.SameTree, yerrors.Internal.New(fmt.Sprintf("project merge: column index %d out of range", col.Index))
		}
		return innerExprs[col.Index].Expr, planutil.NewTree, nil
	})
	return result, err
}
