package physicalplan

import (
	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/yerrors"
)

// Lower builds a PhysicalPlan from a (logically optimized) LogicalPlan
// — the bridge spec.md section 2 calls out as "a lowering step the
// core exposes as a contract to its caller". It commits to the
// simplest correct algorithm for each node (HashAggregate, HashJoin
// when possible else NestedLoopJoin/CrossJoin, plain Sort); the
// physical rules in spec.md section 4.4 subsequently pick better
// algorithms and hints where one is warranted (Cross->Hash, TopN,
// aggregate pushdown). Lower returns an error, never a panic, for
// node kinds it has no physical form for (yerrors.Unsupported), for a
// WithCte or CTE Scan still present in the plan (yerrors.Internal),
// and for a GapFill whose arguments fail to resolve.
func Lower(lp logicalplan.Plan) (Plan, error) {
	switch n := lp.(type) {
	case *logicalplan.Scan:
		if n.CTEName != "" {
			return nil, yerrors.Internal.New("uninlined CTE scan reached lowering: " + n.CTEName)
		}
		return &Scan{TableName: n.TableName, Alias: n.Alias, Schema: n.Schema}, nil

	case *logicalplan.Values:
		return &Values{Schema: n.Schema, Rows: n.Rows}, nil

	case *logicalplan.Filter:
		input, err := Lower(n.Input)
		if err != nil {
			return nil, err
		}
		return NewFilter(input, n.Predicate), nil

	case *logicalplan.Project:
		input, err := Lower(n.Input)
		if err != nil {
			return nil, err
		}
		return NewProject(input, toPhysicalProjectExprs(n.Exprs)), nil

	case *logicalplan.Aggregate:
		input, err := Lower(n.Input)
		if err != nil {
			return nil, err
		}
		agg := NewHashAggregate(input, n.GroupBy, toPhysicalProjectExprs(n.Aggregates))
		agg.GroupingSets = n.GroupingSets
		return agg, nil

	case *logicalplan.Join:
		return lowerJoin(n)

	case *logicalplan.Sort:
		input, err := Lower(n.Input)
		if err != nil {
			return nil, err
		}
		return NewSort(input, n.Keys), nil

	case *logicalplan.Limit:
		input, err := Lower(n.Input)
		if err != nil {
			return nil, err
		}
		limit := NewLimit(input, n.Count)
		limit.Offset = n.Offset
		return limit, nil

	case *logicalplan.Distinct:
		input, err := Lower(n.Input)
		if err != nil {
			return nil, err
		}
		return NewDistinct(input), nil

	case *logicalplan.SetOperation:
		left, err := Lower(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := Lower(n.Right)
		if err != nil {
			return nil, err
		}
		return NewSetOperation(left, right, n.Kind, n.All), nil

	case *logicalplan.Window:
		input, err := Lower(n.Input)
		if err != nil {
			return nil, err
		}
		return NewWindow(input, toPhysicalProjectExprs(n.Windows)), nil

	case *logicalplan.Unnest:
		var input Plan
		if n.Input != nil {
			lowered, err := Lower(n.Input)
			if err != nil {
				return nil, err
			}
			input = lowered
		}
		return &Unnest{Input: input, Array: n.Array, Alias: n.Alias, Ordinality: n.Ordinality, schema: n.OutputSchema()}, nil

	case *logicalplan.Qualify:
		input, err := Lower(n.Input)
		if err != nil {
			return nil, err
		}
		return &Qualify{Input: input, Predicate: n.Predicate}, nil

	case *logicalplan.Sample:
		input, err := Lower(n.Input)
		if err != nil {
			return nil, err
		}
		return &Sample{Input: input, Fraction: n.Fraction, RowCount: n.RowCount}, nil

	case *logicalplan.GapFill:
		input, err := Lower(n.Input)
		if err != nil {
			return nil, err
		}
		spec, err := n.ResolveSpec()
		if err != nil {
			return nil, err
		}
		return NewGapFill(input, spec), nil

	case *logicalplan.WithCte:
		return nil, yerrors.Internal.New("uninlined CTE reached lowering")

	default:
		return nil, yerrors.Unsupported.New("lowering of " + lp.String())
	}
}

func toPhysicalProjectExprs(in []logicalplan.ProjectExpr) []ProjectExpr {
	out := make([]ProjectExpr, len(in))
	for i, e := range in {
		out[i] = ProjectExpr{Expr: e.Expr, Name: e.Name}
	}
	return out
}

// lowerJoin picks HashJoin when Condition has at least one plain
// column-to-column equality spanning both sides (other conjuncts go
// to Residual), NestedLoopJoin when Condition is present but has no
// such equality, and CrossJoin for an inner join with no condition; an
// outer join with no condition becomes a NestedLoopJoin with a nil
// Condition. Cross->Hash Join (spec.md section 4.4)
// additionally promotes a CrossJoin to HashJoin later, when the
// equality condition arrives as a Filter above it instead of as the
// join's own Condition.
func lowerJoin(n *logicalplan.Join) (Plan, error) {
	left, err := Lower(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := Lower(n.Right)
	if err != nil {
		return nil, err
	}
	if n.Condition == nil {
		if n.Type == logicalplan.InnerJoin {
			return NewCrossJoin(left, right), nil
		}
		return NewNestedLoopJoin(left, right, n.Type, nil), nil
	}

	leftCount := len(left.OutputSchema())
	leftKeys, rightKeys, residual, ok := extractEquiJoinKeys(n.Condition, leftCount)
	if !ok || len(leftKeys) == 0 {
		return NewNestedLoopJoin(left, right, n.Type, n.Condition), nil
	}
	return NewHashJoin(left, right, n.Type, leftKeys, rightKeys, residual), nil
}

// extractEquiJoinKeys splits condition's top-level AND conjuncts into
// column=column equalities spanning both sides of the join (collected
// as key pairs) versus everything else (folded into residual). ok is
// always true; when condition contains zero usable equalities the key
// lists are empty, and the caller falls back to NestedLoopJoin.
func extractEquiJoinKeys(condition expr.Expr, leftCount int) (leftKeys, rightKeys []expr.Expr, residual expr.Expr, ok bool) {
	var residuals []expr.Expr
	for _, conjunct := range logicalplan.SplitConjuncts(condition) {
		bin, isBin := conjunct.(*expr.BinaryOp)
		if !isBin || bin.Op != expr.Eq {
			residuals = append(residuals, conjunct)
			continue
		}
		lCol, lOK := bin.Left.(*expr.Column)
		rCol, rOK := bin.Right.(*expr.Column)
		if !lOK || !rOK {
			residuals = append(residuals, conjunct)
			continue
		}
		switch {
		case lCol.Index < leftCount && rCol.Index >= leftCount:
			leftKeys = append(leftKeys, lCol)
			rightKeys = append(rightKeys, rCol.WithIndex(rCol.Index-leftCount))
		case rCol.Index < leftCount && lCol.Index >= leftCount:
			leftKeys = append(leftKeys, rCol)
			rightKeys = append(rightKeys, lCol.WithIndex(lCol.Index-leftCount))
		default:
			residuals = append(residuals, conjunct)
		}
	}
	return leftKeys, rightKeys, logicalplan.CombinePredicates(residuals), true
}
