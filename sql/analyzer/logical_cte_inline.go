package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// RuleCTEInlining is spec.md section 4.4 logical rule 1.
const RuleCTEInlining = "cte_inlining"

func cteInliningRule() LogicalRule {
	return logicalFunc{name: RuleCTEInlining, fn: inlineCTEsInTree}
}

// inlineCTEsInTree runs bottom-up so a WithCte nested inside another
// CTE's body is resolved before the outer one, then applies
// inlineEligibleCTEs at every WithCte node it finds.
func inlineCTEsInTree(plan logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error) {
	return planutil.RewriteBottomUp(plan, func(n logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error) {
		w, ok := n.(*logicalplan.WithCte)
		if !ok {
			return n, planutil.SameTree, nil
		}
		return inlineEligibleCTEs(w)
	})
}

// inlineEligibleCTEs substitutes every Scan(cteName) in w's scope
// (sibling CTE bodies and the final Body — "rewrites propagate into
// sibling CTEs too") with the CTE's body, for every CTEDef meeting the
// spec.md section 4.4 rule 1 preconditions: not RECURSIVE, not
// MATERIALIZED, no self-reference, total references equal to direct
// Scan references (no references inside a subquery expression), the
// body contains no subqueries in its own expressions, and at most one
// reference overall.
func inlineEligibleCTEs(w *logicalplan.WithCte) (logicalplan.Plan, planutil.TreeIdentity, error) {
	remaining := make([]logicalplan.CTEDef, 0, len(w.CTEs))
	body := w.Body
	changed := false

	ctes := append([]logicalplan.CTEDef(nil), w.CTEs...)
	for i, c := range ctes {
		if !cteEligibleForInlining(w, i, c) {
			remaining = append(remaining, c)
			continue
		}
		var err error
		body, err = substituteScans(body, c.Name, c.Body)
		if err != nil {
			return w, planutil.SameTree, err
		}
		for j := range remaining {
			remaining[j].Body, err = substituteScans(remaining[j].Body, c.Name, c.Body)
			if err != nil {
				return w, planutil.SameTree, err
			}
		}
		for j := i + 1; j < len(ctes); j++ {
			ctes[j].Body, err = substituteScans(ctes[j].Body, c.Name, c.Body)
			if err != nil {
				return w, planutil.SameTree, err
			}
		}
		changed = true
	}

	if !changed {
		return w, planutil.SameTree, nil
	}
	if len(remaining) == 0 {
		return body, planutil.NewTree, nil
	}
	return logicalplan.NewWithCte(remaining, body), planutil.NewTree, nil
}

// cteEligibleForInlining checks c (the CTE at position i in w.CTEs)
// against every precondition, counting references across w.Body and
// every sibling CTE body but not c's own body (self-reference is
// checked separately and would otherwise double count).
func cteEligibleForInlining(w *logicalplan.WithCte, i int, c logicalplan.CTEDef) bool {
	if c.Recursive || c.Materialized {
		return false
	}
	if logicalplan.CountCTEReferences(c.Body, c.Name) > 0 {
		return false // self-reference
	}
	if logicalplan.PlanContainsExprSubquery(c.Body) {
		return false
	}

	totalRefs := logicalplan.CountCTEReferences(w.Body, c.Name)
	directRefs := logicalplan.CountDirectCTEScans(w.Body, c.Name)
	for j, sibling := range w.CTEs {
		if j == i {
			continue
		}
		totalRefs += logicalplan.CountCTEReferences(sibling.Body, c.Name)
		directRefs += logicalplan.CountDirectCTEScans(sibling.Body, c.Name)
	}

	return totalRefs == directRefs && totalRefs <= 1
}

// substituteScans replaces every Scan(cteName) reachable in plan with
// replacement. Reused across passes rather than deep-cloned: every
// plan node in this tree is treated as immutable once built (no rule
// ever mutates a node in place), so sharing the same sub-tree across
// multiple former Scan sites is safe.
func substituteScans(plan logicalplan.Plan, cteName string, replacement logicalplan.Plan) (logicalplan.Plan, error) {
	result, _, err := planutil.RewriteBottomUp(plan, func(n logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error) {
		s, ok := n.(*logicalplan.Scan)
		if !ok || s.CTEName != cteName {
			return n, planutil.SameTree, nil
		}
		return replacement, planutil.NewTree, nil
	})
	return result, err
}
