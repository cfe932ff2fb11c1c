// Package yachtsql is the top-level entry point of the core: it wires
// the Logical Plan a (external) parser hands in through the rule-based
// optimizer of spec.md section 4.4 to the Physical Plan an (external)
// executor consumes, per the data flow spec.md section 2 describes:
//
//	SQL text -> (parser) -> Logical Plan -> Logical Optimizer passes ->
//	Physical Plan (lowering) -> Physical Optimizer passes -> Execution
//
// Parsing and execution are the external collaborators spec.md
// section 1 scopes out; this package owns everything between them.
package yachtsql

import (
	"context"

	"github.com/yachtsql/yachtsql/sql/analyzer"
	"github.com/yachtsql/yachtsql/sql/catalog"
	"github.com/yachtsql/yachtsql/sql/logicalplan"
	"github.com/yachtsql/yachtsql/sql/physicalplan"
	"github.com/yachtsql/yachtsql/sql/sqlctx"
)

// Config is the engine's session-level configuration, mirroring the
// session variables spec.md section 6 lists that this core itself
// reads: OPTIMIZER_LEVEL, the per-rule OPTIMIZER_<RULE_NAME> booleans,
// PARALLEL_EXECUTION, and the dialect flags sqlctx.Context snapshots
// for the duration of one statement.
type Config struct {
	// Optimizer is consulted by Engine.Optimize; see analyzer.Config.
	Optimizer analyzer.Config
	// ParallelExecution is threaded into every physical plan's
	// ExecutionHints as the default parallel hint (spec.md section 5:
	// "the executor may parallelize individual physical operators when
	// the parallel hint... is true").
	ParallelExecution bool
	// Variables seeds the sqlctx.Context session-variable snapshot
	// (spec.md section 5: "readers during query planning observe a
	// consistent snapshot for the duration of a single statement").
	Variables map[string]interface{}
}

// DefaultConfig returns the configuration ordinary query planning runs
// under: every optimizer rule enabled, no forced parallelism.
func DefaultConfig() Config {
	return Config{Optimizer: analyzer.DefaultConfig()}
}

// Engine is a single core instance: a Catalog (the external session's
// schema/function view, spec.md section 6) plus the Config that
// governs how Optimize rewrites a plan. Engine holds no mutable state
// of its own (spec.md section 5: "the core logical and physical
// optimizers are single-threaded and non-suspending"); a single Engine
// value may be shared by concurrent callers as long as they do not
// share a sqlctx.Context (spec.md section 5: "the engine may be
// invoked from multiple tasks concurrently only if the session object
// it uses is not shared").
type Engine struct {
	Catalog catalog.Catalog
	Config  Config
}

// New builds an Engine over cat with cfg. A nil cat is valid: Optimize
// does not pass the Catalog to any optimizer rule, so the optimized
// plan is the same with or without one.
func New(cat catalog.Catalog, cfg Config) *Engine {
	return &Engine{Catalog: cat, Config: cfg}
}

// NewContext builds the per-query sqlctx.Context this Engine's
// Optimize and (external) execution stages share: the cancellation
// flag plus an immutable snapshot of e.Config.Variables merged with
// any call-specific overrides in vars.
func (e *Engine) NewContext(parent context.Context, vars map[string]interface{}) *sqlctx.Context {
	merged := make(map[string]interface{}, len(e.Config.Variables)+len(vars))
	for k, v := range e.Config.Variables {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}
	return sqlctx.New(parent, merged)
}

// Optimize runs the full logical-then-physical optimizer pipeline over
// plan (spec.md section 2's data-flow contract) and applies
// e.Config.ParallelExecution as the default hint on every resulting
// physical node that didn't already request parallelism. The returned
// PhysicalPlan is handed to the (external) executor alongside a
// readable Catalog view, per spec.md section 6's executor contract.
func (e *Engine) Optimize(plan logicalplan.Plan) (physicalplan.Plan, error) {
	physical, err := analyzer.Optimize(plan, e.Config.Optimizer)
	if err != nil {
		return nil, err
	}
	if e.Config.ParallelExecution {
		physical = applyParallelHint(physical)
	}
	return physical, nil
}

// applyParallelHint sets ExecutionHints.Parallel on every node of
// plan that does not already request it, bottom-up, so a caller's
// PARALLEL_EXECUTION=true session variable (spec.md section 6) reaches
// every operator the executor might otherwise run single-threaded.
func applyParallelHint(plan physicalplan.Plan) physicalplan.Plan {
	children := plan.Children()
	if len(children) > 0 {
		newChildren := make([]physicalplan.Plan, len(children))
		for i, c := range children {
			newChildren[i] = applyParallelHint(c)
		}
		if rebuilt, err := plan.WithChildren(newChildren...); err == nil {
			plan = rebuilt
		}
	}
	if plan.Hints().Parallel {
		return plan
	}
	return plan.WithHints(physicalplan.ExecutionHints{Parallel: true})
}
