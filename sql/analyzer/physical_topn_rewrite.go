package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
	"github.com/yachtsql/yachtsql/sql/types"
)

// RuleTopNRewrite is spec.md section 4.4/glossary: "A Limit directly
// above a Sort becomes a TopN carrying (sort_exprs, limit); TopN keeps
// a bounded heap of size N." Only a Limit with no Offset and a
// constant non-negative Count rewrites: an offset changes which rows
// survive past the bounded heap, which TopN as specified here does
// not model.
const RuleTopNRewrite = "topn_rewrite"

func topNRewriteRule() PhysicalRule {
	return newPhysicalRule(RuleTopNRewrite, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		limit, ok := n.(*physicalplan.Limit)
		if !ok || limit.Offset != nil {
			return n, planutil.SameTree, nil
		}
		sort, ok := limit.Input.(*physicalplan.Sort)
		if !ok {
			return n, planutil.SameTree, nil
		}
		count, ok := literalInt64(limit.Count)
		if !ok || count < 0 {
			return n, planutil.SameTree, nil
		}
		return physicalplan.NewTopN(sort.Input, sort.Keys, count), planutil.NewTree, nil
	})
}

// literalInt64 reports whether e is an Int64 Literal and its value.
func literalInt64(e expr.Expr) (int64, bool) {
	lit, ok := e.(*expr.Literal)
	if !ok || lit.Value.IsNull || lit.Value.Type.Base != types.Int64 {
		return 0, false
	}
	return lit.Value.Int, true
}
