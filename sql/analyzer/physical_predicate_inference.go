package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// RulePredicateInference is spec.md section 4.4: "From A.x = B.y in a
// join condition plus a filter A.x = c, infer and add B.y = c." The
// rule looks at a Filter sitting directly above a HashJoin and, for
// every equi-join key pair plus matching literal-equality conjunct on
// one side of the pair, adds the mirrored literal-equality conjunct
// for the other side. A Filter above a CrossJoin or NestedLoopJoin is
// left unchanged, even when the join condition is an equality
// conjunction.
const RulePredicateInference = "predicate_inference"

func predicateInferenceRule() PhysicalRule {
	return newPhysicalRule(RulePredicateInference, func(n physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		f, ok := n.(*physicalplan.Filter)
		if !ok {
			return n, planutil.SameTree, nil
		}
		leftKeys, rightKeys, ok := equiJoinKeys(f.Input)
		if !ok || len(leftKeys) == 0 {
			return n, planutil.SameTree, nil
		}

		conjuncts := logicalplan.SplitConjuncts(f.Predicate)
		literalEq := make(map[int]*expr.Literal, len(conjuncts))
		for _, c := range conjuncts {
			idx, lit, ok := columnEqLiteral(c)
			if ok {
				literalEq[idx] = lit
			}
		}
		if len(literalEq) == 0 {
			return n, planutil.SameTree, nil
		}

		var inferred []expr.Expr
		for i := range leftKeys {
			lCol, lOK := leftKeys[i].(*expr.Column)
			rCol, rOK := rightKeys[i].(*expr.Column)
			if !lOK || !rOK {
				continue
			}
			if lit, ok := literalEq[lCol.Index]; ok {
				if _, already := literalEq[rCol.Index]; !already {
					inferred = append(inferred, expr.NewBinaryOp(expr.Eq, rCol, lit, lit.ResolvedType()))
				}
			}
			if lit, ok := literalEq[rCol.Index]; ok {
				if _, already := literalEq[lCol.Index]; !already {
					inferred = append(inferred, expr.NewBinaryOp(expr.Eq, lCol, lit, lit.ResolvedType()))
				}
			}
		}
		if len(inferred) == 0 {
			return n, planutil.SameTree, nil
		}
		newPredicate := logicalplan.CombinePredicates(append(append([]expr.Expr{}, conjuncts...), inferred...))
		return physicalplan.NewFilter(f.Input, newPredicate), planutil.NewTree, nil
	})
}

// columnEqLiteral reports whether e is `Column = Literal` or
// `Literal = Column`, returning the column's resolved index and the
// literal.
func columnEqLiteral(e expr.Expr) (colIndex int, lit *expr.Literal, ok bool) {
	bin, isBin := e.(*expr.BinaryOp)
	if !isBin || bin.Op != expr.Eq {
		return 0, nil, false
	}
	if col, colOK := bin.Left.(*expr.Column); colOK {
		if l, litOK := bin.Right.(*expr.Literal); litOK {
			return col.Index, l, true
		}
	}
	if col, colOK := bin.Right.(*expr.Column); colOK {
		if l, litOK := bin.Left.(*expr.Literal); litOK {
			return col.Index, l, true
		}
	}
	return 0, nil, false
}

// equiJoinKeys extracts the parallel left/right equi-join key column
// lists from a HashJoin. physicalplan.Lower makes HashJoin's RightKeys
// right-relative, so this helper rebases them to the join's combined
// index space, the space the Filter above the join uses. Any other
// node, CrossJoin and NestedLoopJoin included, reports ok == false.
func equiJoinKeys(p physicalplan.Plan) (leftKeys, rightKeys []expr.Expr, ok bool) {
	switch j := p.(type) {
	case *physicalplan.HashJoin:
		leftCount := j.LeftColumnCount()
		rebased := make([]expr.Expr, len(j.RightKeys))
		for i, k := range j.RightKeys {
			if col, ok := k.(*expr.Column); ok {
				rebased[i] = col.WithIndex(col.Index + leftCount)
			} else {
				rebased[i] = k
			}
		}
		return j.LeftKeys, rebased, true
	default:
		return nil, nil, false
	}
}
