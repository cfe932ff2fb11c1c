// Package sqlctx carries the per-query state that spans the core's
// expression evaluation, optimizer, and (external) execution layers:
// the cooperative cancellation flag and the session variables the
// core reads (spec.md section 5, section 6).
package sqlctx

import (
	"context"
	"sync/atomic"
)

// Variable names the core itself reads, per spec.md section 6.
const (
	VarOptimizerLevel    = "OPTIMIZER_LEVEL"
	VarParallelExecution = "PARALLEL_EXECUTION"
	VarDefaultTimezone   = "TIMEZONE"
	VarNullOrderingFirst = "NULL_ORDERING_FIRST"
)

// Context wraps a standard context.Context with the cancellation flag
// and variable snapshot spec.md section 5 describes: "a query holds a
// cancellation flag checked at operator boundaries... readers during
// query planning observe a consistent snapshot for the duration of a
// single statement."
type Context struct {
	context.Context

	cancelled *atomic.Bool
	variables map[string]interface{}
}

// New builds a Context over a standard context.Context with an
// immutable snapshot of session variables.
func New(parent context.Context, variables map[string]interface{}) *Context {
	if parent == nil {
		parent = context.Background()
	}
	snapshot := make(map[string]interface{}, len(variables))
	for k, v := range variables {
		snapshot[k] = v
	}
	return &Context{
		Context:   parent,
		cancelled: &atomic.Bool{},
		variables: snapshot,
	}
}

// Cancel sets the cancellation flag; operators observe it at their
// next boundary check and surface yerrors.Cancelled.
func (c *Context) Cancel() { c.cancelled.Store(true) }

// Cancelled reports whether the cancellation flag is set.
func (c *Context) Cancelled() bool { return c.cancelled.Load() }

// Variable looks up a session variable by name.
func (c *Context) Variable(name string) (interface{}, bool) {
	v, ok := c.variables[name]
	return v, ok
}
