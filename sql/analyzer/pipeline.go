package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// LogicalRules returns the logical rules of spec.md section 4.4, rules
// 1-8, in the fixed order the pipeline applies them on every pass. CTE
// inlining runs first since it can expose predicates and other Filters
// that the subsequent rules then simplify/merge/push; subquery
// decorrelation runs after basic predicate cleanup so it sees already-
// simplified conjuncts; the structural-reduction rules (join
// elimination, empty propagation, distinct elimination) run last since
// they most benefit from the rewrites above having already run.
func LogicalRules() []LogicalRule {
	return []LogicalRule{
		cteInliningRule(),
		trivialPredicateRemovalRule(),
		predicateSimplificationRule(),
		filterMergingRule(),
		subqueryDecorrelationRule(),
		joinEliminationRule(),
		emptyPropagationRule(),
		distinctEliminationRule(),
	}
}

// PhysicalRules returns the physical rules of spec.md section 4.4 in
// the fixed order the pipeline applies them on every pass. Outer-to-
// inner conversion runs before the pushdown rules so a downgraded join
// immediately becomes eligible for pushdown on what was its null-
// padded side; cross->hash runs before the join-side pushdown rule so
// a promoted HashJoin is pushed through like any other join; sort/
// limit/TopN rules run after pushdown so they see predicates already
// at their final position; project merging and short-circuit
// reordering run last as cleanup passes.
func PhysicalRules() []PhysicalRule {
	return []PhysicalRule{
		outerToInnerRule(),
		crossToHashJoinRule(),
		predicateInferenceRule(),
		filterPushdownProjectRule(),
		filterPushdownJoinRule(),
		filterPushdownAggregateRule(),
		aggregatePushdownJoinRule(),
		sortPushdownProjectRule(),
		sortEliminationRule(),
		limitPushdownProjectRule(),
		limitPushdownUnionRule(),
		topNRewriteRule(),
		projectMergingRule(),
		shortCircuitReorderRule(),
	}
}

// OptimizeLogical runs every logical rule enabled by cfg over plan, in
// pipeline order, iterating the whole pipeline to a fixpoint (no rule
// changes the tree on a pass) or MaxPasses, whichever comes first
// (spec.md section 4.4: "each enabled rule is applied in a single top-
// down pass, then the whole pipeline is iterated until fixpoint or a
// bound"). With every rule disabled (OptimizerLevel NONE) this is the
// identity function, which is the other half of spec.md section 4.4's
// equivalence guard-rail.
func OptimizeLogical(plan logicalplan.Plan, cfg Config) (logicalplan.Plan, error) {
	rules := LogicalRules()
	for pass := 0; pass < MaxPasses; pass++ {
		changedThisPass := false
		for _, rule := range rules {
			if !cfg.enabled(rule.Name()) {
				continue
			}
			next, changed, err := rule.Apply(plan)
			if err != nil {
				return nil, err
			}
			if changed == planutil.NewTree {
				plan = next
				changedThisPass = true
			}
		}
		if !changedThisPass {
			break
		}
	}
	return plan, nil
}

// OptimizePhysical runs every physical rule enabled by cfg over plan,
// under the same fixed-order, fixpoint-or-bound iteration as
// OptimizeLogical.
func OptimizePhysical(plan physicalplan.Plan, cfg Config) (physicalplan.Plan, error) {
	rules := PhysicalRules()
	for pass := 0; pass < MaxPasses; pass++ {
		changedThisPass := false
		for _, rule := range rules {
			if !cfg.enabled(rule.Name()) {
				continue
			}
			next, changed, err := rule.Apply(plan)
			if err != nil {
				return nil, err
			}
			if changed == planutil.NewTree {
				plan = next
				changedThisPass = true
			}
		}
		if !changedThisPass {
			break
		}
	}
	return plan, nil
}

// Optimize is the full pipeline spec.md section 2 describes: Logical
// Plan -> Logical Optimizer passes -> Physical Plan (via
// physicalplan.Lower, the lowering contract spec.md section 2 calls
// out) -> Physical Optimizer passes. The result is handed to the
// (external) executor along with the cancellation/variable Context.
func Optimize(plan logicalplan.Plan, cfg Config) (physicalplan.Plan, error) {
	optimizedLogical, err := OptimizeLogical(plan, cfg)
	if err != nil {
		return nil, err
	}
	physical, err := physicalplan.Lower(optimizedLogical)
	if err != nil {
		return nil, err
	}
	return OptimizePhysical(physical, cfg)
}
