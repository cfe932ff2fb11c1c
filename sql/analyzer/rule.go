package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/planutil"
)

// LogicalRule is one of the logical rewrites of spec.md section 4.4
// rules 1-8. Apply must be semantics-preserving and, per spec.md
// section 4.4's failure semantics, never error on a well-typed plan:
// when a rule's precondition is not met it returns the plan unchanged
// (planutil.SameTree) rather than failing.
type LogicalRule interface {
	Name() string
	Apply(plan logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error)
}

// PhysicalRule is one of the physical rewrites of spec.md section 4.4
// (Cross->Hash Join, the pushdown rules, outer-to-inner conversion,
// predicate inference, Sort/TopN/Limit rules, project merging,
// short-circuit reordering, aggregate pushdown through join).
type PhysicalRule interface {
	Name() string
	Apply(plan physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error)
}

// logicalFunc adapts a bare rewrite function to LogicalRule.
type logicalFunc struct {
	name string
	fn   func(logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error)
}

func (r logicalFunc) Name() string { return r.name }
func (r logicalFunc) Apply(plan logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error) {
	return r.fn(plan)
}

// newLogicalRule builds a LogicalRule out of a per-node rewrite applied
// bottom-up across the whole plan, the shape the large majority of
// spec.md section 4.4's logical rules take.
func newLogicalRule(name string, node func(logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error)) LogicalRule {
	return logicalFunc{name: name, fn: func(plan logicalplan.Plan) (logicalplan.Plan, planutil.TreeIdentity, error) {
		return planutil.RewriteBottomUp(plan, node)
	}}
}

// physicalFunc adapts a bare rewrite function to PhysicalRule.
type physicalFunc struct {
	name string
	fn   func(physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error)
}

func (r physicalFunc) Name() string { return r.name }
func (r physicalFunc) Apply(plan physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
	return r.fn(plan)
}

func newPhysicalRule(name string, node func(physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error)) PhysicalRule {
	return physicalFunc{name: name, fn: func(plan physicalplan.Plan) (physicalplan.Plan, planutil.TreeIdentity, error) {
		return planutil.RewriteBottomUp(plan, node)
	}}
}
