package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
	"github.com/yachtsql/yachtsql/sql/types"
)

// RuleEmptyPropagation is spec.md section 4.4 logical rule 7:
// WHERE FALSE or an empty union arm becomes an empty Values node
// carrying the original schema, letting ordinary structural reductions
// (join elimination, predicate simplification) cascade from there on
// later passes. An empty CTE body is not detected here: a WithCte and
// the Scans of its CTEs are left as they are.
const RuleEmptyPropagation = "empty_propagation"

func emptyPropagationRule() LogicalRule {
	return newLogicalRule(RuleEmptyPropagation, func(n logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error) {
		switch p := n.(type) {
		case *logicalplan.Filter:
			if isLiteralFalseOrNull(p.Predicate) {
				return logicalplan.NewEmptyValues(p.OutputSchema()), planutil.NewTree, nil
			}
		case *logicalplan.Values:
			// Already the canonical empty relation; nothing to do.
		case *logicalplan.Join:
			if isEmptyRelation(p.Left) && p.Type == logicalplan.InnerJoin {
				return logicalplan.NewEmptyValues(p.OutputSchema()), planutil.NewTree, nil
			}
			if isEmptyRelation(p.Right) && (p.Type == logicalplan.InnerJoin) {
				return logicalplan.NewEmptyValues(p.OutputSchema()), planutil.NewTree, nil
			}
		case *logicalplan.SetOperation:
			if isEmptyRelation(p.Left) && isEmptyRelation(p.Right) {
				return logicalplan.NewEmptyValues(p.OutputSchema()), planutil.NewTree, nil
			}
			if p.Kind == logicalplan.Union && p.All {
				if isEmptyRelation(p.Left) {
					return p.Right, planutil.NewTree, nil
				}
				if isEmptyRelation(p.Right) {
					return p.Left, planutil.NewTree, nil
				}
			}
		case *logicalplan.Aggregate:
			if isEmptyRelation(p.Input) && len(p.GroupBy) == 0 {
				// COUNT(*) etc. over zero rows still produce one row
				// of aggregate defaults; only a grouped aggregate over
				// an empty input is itself empty.
				return n, planutil.SameTree, nil
			}
			if isEmptyRelation(p.Input) {
				return logicalplan.NewEmptyValues(p.OutputSchema()), planutil.NewTree, nil
			}
		case *logicalplan.Project:
			if isEmptyRelation(p.Input) {
				return logicalplan.NewEmptyValues(p.OutputSchema()), planutil.NewTree, nil
			}
		case *logicalplan.Sort, *logicalplan.Limit, *logicalplan.Distinct:
			if child := soleChild(p); child != nil && isEmptyRelation(child) {
				return logicalplan.NewEmptyValues(n.OutputSchema()), planutil.NewTree, nil
			}
		}
		return n, planutil.SameTree, nil
	})
}

func soleChild(p logicalplan.Plan) logicalplan.Plan {
	children := p.Children()
	if len(children) != 1 {
		return nil
	}
	return children[0]
}

func isEmptyRelation(p logicalplan.Plan) bool {
	v, ok := p.(*logicalplan.Values)
	return ok && len(v.Rows) == 0
}

func isLiteralFalseOrNull(e expr.Expr) bool {
	lit, ok := e.(*expr.Literal)
	if !ok || lit.Value.Type.Base != types.Bool {
		return false
	}
	return lit.Value.IsNull || !lit.Value.Bool
}
