// Package catalog specifies the contract the core consumes from the
// external session/catalog layer (spec.md section 6, "Catalog"), plus
// Static, a small in-memory implementation of it. DDL dispatch and
// table/function registration are out of core scope per spec.md
// section 1. No analyzer rule calls a Catalog; the top-level Engine
// only carries one.
package catalog

import "github.com/yachtsql/yachtsql/sql/types"

// FunctionSignature is the minimal shape the analyzer needs for a
// scalar or aggregate function: its declared argument/return types and
// null-propagation behavior. Full function bodies are out of scope
// per spec.md section 1 ("the core only needs their type signatures
// and null-propagation semantics").
type FunctionSignature struct {
	Name       string
	ArgTypes   []types.ElaboratedType
	ReturnType types.ElaboratedType
	// NullStrict mirrors expr.NullStrict: true means any NULL argument
	// makes the result NULL without invoking the function body.
	NullStrict bool
}

// Catalog is the read-only table/function lookup surface of the
// external catalog layer (spec.md section 6). Mutation (DDL) is not
// part of this contract; it belongs to the external session layer.
type Catalog interface {
	// LookupTable resolves a table name to its Schema, or reports
	// ok == false if the catalog has no such table.
	LookupTable(name string) (types.Schema, bool)

	// LookupFunction resolves a function name to its signature.
	LookupFunction(name string) (FunctionSignature, bool)
}

// Static is a simple in-memory Catalog backed by maps, useful for
// tests and for embedding callers that don't need a live session
// catalog (spec.md section 6 specifies the contract only; this is a
// convenience implementation of it, not the session catalog itself).
type Static struct {
	Tables    map[string]types.Schema
	Functions map[string]FunctionSignature
}

// NewStatic builds an empty Static catalog.
func NewStatic() *Static {
	return &Static{
		Tables:    make(map[string]types.Schema),
		Functions: make(map[string]FunctionSignature),
	}
}

func (s *Static) LookupTable(name string) (types.Schema, bool) {
	schema, ok := s.Tables[name]
	return schema, ok
}

func (s *Static) LookupFunction(name string) (FunctionSignature, bool) {
	sig, ok := s.Functions[name]
	return sig, ok
}
