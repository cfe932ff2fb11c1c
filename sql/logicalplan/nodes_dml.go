package logicalplan

import (
	"fmt"

	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/types"
)

// DDL/DML plan variants are carried for completeness with spec.md
// section 3's "plus... DDL/DML variants", but DDL statement dispatch
// and catalog mutation are explicitly out of core scope (spec.md
// section 1); these nodes are a thin IR shape the external session
// layer executes, not something the optimizer rewrites.

// Insert writes Source's rows into Table.
type Insert struct {
	Table   string
	Columns []string
	Source  Plan
}

func (i *Insert) OutputSchema() types.Schema { return types.Schema{} }
func (i *Insert) Children() []Plan           { return []Plan{i.Source} }
func (i *Insert) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Insert", 1, children); err != nil {
		return nil, err
	}
	ni := *i
	ni.Source = children[0]
	return &ni, nil
}
func (i *Insert) String() string { return fmt.Sprintf("Insert(%s)\n  %s", i.Table, indent(i.Source.String())) }

// Assignment is one SET column = expr of an UPDATE statement.
type Assignment struct {
	Column string
	Value  expr.Expr
}

// Update applies Assignments to Source's rows matching Predicate.
type Update struct {
	Table       string
	Assignments []Assignment
	Source      Plan
	Predicate   expr.Expr
}

func (u *Update) OutputSchema() types.Schema { return types.Schema{} }
func (u *Update) Children() []Plan           { return []Plan{u.Source} }
func (u *Update) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Update", 1, children); err != nil {
		return nil, err
	}
	nu := *u
	nu.Source = children[0]
	return &nu, nil
}
func (u *Update) String() string { return fmt.Sprintf("Update(%s)\n  %s", u.Table, indent(u.Source.String())) }

// Delete removes Source's rows matching Predicate from Table.
type Delete struct {
	Table     string
	Source    Plan
	Predicate expr.Expr
}

func (d *Delete) OutputSchema() types.Schema { return types.Schema{} }
func (d *Delete) Children() []Plan           { return []Plan{d.Source} }
func (d *Delete) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("Delete", 1, children); err != nil {
		return nil, err
	}
	nd := *d
	nd.Source = children[0]
	return &nd, nil
}
func (d *Delete) String() string { return fmt.Sprintf("Delete(%s)\n  %s", d.Table, indent(d.Source.String())) }

// CreateTableAs materializes Source's output as a new table named
// Table (CREATE TABLE ... AS SELECT ...).
type CreateTableAs struct {
	Table  string
	Source Plan
}

func (c *CreateTableAs) OutputSchema() types.Schema { return types.Schema{} }
func (c *CreateTableAs) Children() []Plan           { return []Plan{c.Source} }
func (c *CreateTableAs) WithChildren(children ...Plan) (Plan, error) {
	if err := checkArity("CreateTableAs", 1, children); err != nil {
		return nil, err
	}
	nc := *c
	nc.Source = children[0]
	return &nc, nil
}
func (c *CreateTableAs) String() string {
	return fmt.Sprintf("CreateTableAs(%s)\n  %s", c.Table, indent(c.Source.String()))
}
