package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
	"github.com/yachtsql/yachtsql/sql/types"
)

// RuleSubqueryDecorrelation is spec.md section 4.4 logical rule 5:
// [NOT] EXISTS and uncorrelated IN (subquery) conjuncts inside a
// Filter's predicate are rewritten into joins against the subquery
// body wherever the correlation is a pure equi-join on the subquery's
// own columns, pulling the correlated comparison into the join
// condition. The current plan IR has no dedicated semi-join or
// anti-join node, so this rule emulates them: EXISTS becomes an
// InnerJoin against the subquery body deduplicated on the correlated
// key columns (duplicate matches in the subquery must not duplicate
// outer rows), and NOT EXISTS becomes a LeftJoin against the same
// deduplicated relation followed by an IS NULL test on one of the key
// columns (the standard anti-join rewrite). Any shape this rule does
// not recognize — NOT IN (subquery), correlation through anything but
// a plain column equality, multiple correlated columns where not
// every one participates in an equality — is left for the executor to
// evaluate directly.
const RuleSubqueryDecorrelation = "subquery_decorrelation"

func subqueryDecorrelationRule() LogicalRule {
	return logicalFunc{name: RuleSubqueryDecorrelation, fn: func(plan logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error) {
		return planutil.RewriteBottomUp(plan, decorrelateFilter)
	}}
}

func decorrelateFilter(n logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error) {
	f, ok := n.(*logicalplan.Filter)
	if !ok {
		return n, planutil.SameTree, nil
	}
	conjuncts := logicalplan.SplitConjuncts(f.Predicate)
	for i, c := range conjuncts {
		switch sub := c.(type) {
		case *expr.Exists:
			newOuter, replacement, ok := tryDecorrelateExists(sub, f.Input)
			if !ok {
				continue
			}
			conjuncts[i] = replacement
			return logicalplan.NewFilter(newOuter, logicalplan.CombinePredicates(conjuncts)), planutil.NewTree, nil
		case *expr.InSubquery:
			if sub.Negated {
				continue
			}
			newOuter, replacement, ok := tryDecorrelateInSubquery(sub, f.Input)
			if !ok {
				continue
			}
			conjuncts[i] = replacement
			return logicalplan.NewFilter(newOuter, logicalplan.CombinePredicates(conjuncts)), planutil.NewTree, nil
		}
	}
	return n, planutil.SameTree, nil
}

// tryDecorrelateExists rewrites a correlated EXISTS/NOT EXISTS against
// outer into a Join over outer plus the subquery's body, when the
// subquery's body is a Filter whose predicate consists entirely of the
// correlated equalities (plus, optionally, other inner-only
// conjuncts) and every correlated column participates in one.
func tryDecorrelateExists(e *expr.Exists, outer logicalplan.Plan) (logicalplan.Plan, expr.Expr, bool) {
	if len(e.Subquery.CorrelatedColumns) == 0 {
		return nil, nil, false
	}
	innerPlan, ok := e.Subquery.Plan.(logicalplan.Plan)
	if !ok {
		return nil, nil, false
	}
	innerFilter, ok := innerPlan.(*logicalplan.Filter)
	if !ok {
		return nil, nil, false
	}
	residual, leftExprs, rightCols, ok := splitCorrelatedEqualities(
		logicalplan.SplitConjuncts(innerFilter.Predicate), e.Subquery.CorrelatedColumns)
	if !ok {
		return nil, nil, false
	}

	innerRel := innerFilter.Input
	if len(residual) > 0 {
		innerRel = logicalplan.NewFilter(innerRel, logicalplan.CombinePredicates(residual))
	}
	distinctInner := logicalplan.NewDistinct(logicalplan.NewProject(innerRel, buildKeyProjectExprs(innerRel, rightCols)))

	leftCount := len(outer.OutputSchema())
	condition := buildEqualityChain(leftExprs, distinctInner, leftCount)

	if !e.Negated {
		join := logicalplan.NewJoin(outer, distinctInner, logicalplan.InnerJoin, condition)
		return join, trueLiteral(), true
	}

	join := logicalplan.NewJoin(outer, distinctInner, logicalplan.LeftJoin, condition)
	keyField := distinctInner.OutputSchema()[0]
	probe := expr.NewResolvedColumn(leftCount, "", keyField.Name, keyField.Type, true)
	return join, expr.NewIsNull(probe, false), true
}

// tryDecorrelateInSubquery rewrites `expr IN (subquery)` into a Join
// on expr = subquery's single output column, deduplicated so a
// repeated value on the subquery side cannot duplicate outer rows.
// Only an uncorrelated subquery is handled; a correlated IN subquery's
// body would need the same equality-extraction tryDecorrelateExists
// performs, compounded with the outer IN comparison, so it is left
// alone for now.
func tryDecorrelateInSubquery(i *expr.InSubquery, outer logicalplan.Plan) (logicalplan.Plan, expr.Expr, bool) {
	if len(i.Subquery.CorrelatedColumns) > 0 {
		return nil, nil, false
	}
	innerPlan, ok := i.Subquery.Plan.(logicalplan.Plan)
	if !ok {
		return nil, nil, false
	}
	schema := innerPlan.OutputSchema()
	if len(schema) != 1 {
		return nil, nil, false
	}
	distinctInner := logicalplan.NewDistinct(innerPlan)
	leftCount := len(outer.OutputSchema())
	rightCol := expr.NewResolvedColumn(leftCount, "", schema[0].Name, schema[0].Type, schema[0].Nullable)
	condition := expr.NewBinaryOp(expr.Eq, i.Expr, rightCol, types.Simple(types.Bool))
	join := logicalplan.NewJoin(outer, distinctInner, logicalplan.InnerJoin, condition)
	return join, trueLiteral(), true
}

// splitCorrelatedEqualities partitions conjuncts into the subset that
// equates a correlated column to a plain inner column (returned as
// parallel leftExprs/rightCols slices, in the order first seen) and
// everything else (residual). ok is false unless every column in
// correlated is covered by at least one such equality, so the rule
// never builds a join on a partially-understood correlation.
func splitCorrelatedEqualities(conjuncts []expr.Expr, correlated []*expr.Column) (residual []expr.Expr, leftExprs []expr.Expr, rightCols []*expr.Column, ok bool) {
	used := make([]bool, len(correlated))
	for _, c := range conjuncts {
		bin, isBin := c.(*expr.BinaryOp)
		if isBin && bin.Op == expr.Eq {
			if idx, col, matched := matchCorrelated(bin.Left, correlated); matched {
				if rc, isCol := bin.Right.(*expr.Column); isCol {
					leftExprs = append(leftExprs, col)
					rightCols = append(rightCols, rc)
					used[idx] = true
					continue
				}
			}
			if idx, col, matched := matchCorrelated(bin.Right, correlated); matched {
				if rc, isCol := bin.Left.(*expr.Column); isCol {
					leftExprs = append(leftExprs, col)
					rightCols = append(rightCols, rc)
					used[idx] = true
					continue
				}
			}
		}
		residual = append(residual, c)
	}
	for _, u := range used {
		if !u {
			return nil, nil, nil, false
		}
	}
	if len(leftExprs) == 0 {
		return nil, nil, nil, false
	}
	return residual, leftExprs, rightCols, true
}

func matchCorrelated(e expr.Expr, correlated []*expr.Column) (int, *expr.Column, bool) {
	col, ok := e.(*expr.Column)
	if !ok {
		return 0, nil, false
	}
	for i, c := range correlated {
		if sameColumn(col, c) {
			return i, c, true
		}
	}
	return 0, nil, false
}

func sameColumn(a, b *expr.Column) bool {
	return a.Table == b.Table && a.Name == b.Name && a.Index == b.Index
}

func buildKeyProjectExprs(innerRel logicalplan.Plan, rightCols []*expr.Column) []logicalplan.ProjectExpr {
	schema := innerRel.OutputSchema()
	exprs := make([]logicalplan.ProjectExpr, len(rightCols))
	for i, c := range rightCols {
		f := schema[c.Index]
		exprs[i] = logicalplan.ProjectExpr{
			Expr: expr.NewResolvedColumn(c.Index, c.Table, c.Name, f.Type, f.Nullable),
			Name: f.Name,
		}
	}
	return exprs
}

func buildEqualityChain(leftExprs []expr.Expr, distinctInner logicalplan.Plan, leftCount int) expr.Expr {
	schema := distinctInner.OutputSchema()
	conjuncts := make([]expr.Expr, len(leftExprs))
	for i, le := range leftExprs {
		f := schema[i]
		rightCol := expr.NewResolvedColumn(leftCount+i, "", f.Name, f.Type, f.Nullable)
		conjuncts[i] = expr.NewBinaryOp(expr.Eq, le, rightCol, types.Simple(types.Bool))
	}
	return logicalplan.CombinePredicates(conjuncts)
}
