// Package types implements the YachtSQL core's value and schema model:
// the closed set of logical data types, the tagged Value union, typed
// columnar storage with a null bitmap, and the Table those columns
// compose into. This package underpins the expression, plan, and
// analyzer packages but has no dependency on any of them.
package types

import "fmt"

// DataType is the closed set of logical types a Value or Column may
// carry, per spec.md section 3. Compare does not use the declaration
// order: values of different numeric types that are equal after
// numeric promotion compare as equal, and values of different
// non-numeric types are reported as not comparable.
type DataType int

const (
	Unknown DataType = iota
	Bool
	Int64
	Float64
	Numeric
	BigNumeric
	String
	Bytes
	Date
	Time
	DateTime
	Timestamp
	Interval
	Json
	Geography
	Array
	Struct
	Range
)

var typeNames = map[DataType]string{
	Unknown:    "UNKNOWN",
	Bool:       "BOOL",
	Int64:      "INT64",
	Float64:    "FLOAT64",
	Numeric:    "NUMERIC",
	BigNumeric: "BIGNUMERIC",
	String:     "STRING",
	Bytes:      "BYTES",
	Date:       "DATE",
	Time:       "TIME",
	DateTime:   "DATETIME",
	Timestamp:  "TIMESTAMP",
	Interval:   "INTERVAL",
	Json:       "JSON",
	Geography:  "GEOGRAPHY",
	Array:      "ARRAY",
	Struct:     "STRUCT",
	Range:      "RANGE",
}

// String implements fmt.Stringer.
func (t DataType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("DataType(%d)", int(t))
}

// IsNumeric reports whether t participates in arithmetic widening
// (spec.md section 3, "Numeric widening in arithmetic").
func (t DataType) IsNumeric() bool {
	switch t {
	case Int64, Float64, Numeric, BigNumeric:
		return true
	default:
		return false
	}
}

// ElaboratedType carries the extra parameters some DataTypes need: the
// element type for Array, the ordered field list for Struct, the range
// element type for Range, and optional precision/scale for Numeric.
type ElaboratedType struct {
	Base DataType

	// Array/Range element type.
	Elem *ElaboratedType

	// Struct fields, in declaration order. As in Schema, duplicate
	// names are permitted here; Struct access is positional as well
	// as by name.
	Fields []StructField

	// Numeric precision/scale; zero value means "unspecified".
	Precision int
	Scale     int
}

// StructField is one named, typed member of a Struct type.
type StructField struct {
	Name string
	Type ElaboratedType
}

// Simple builds an ElaboratedType with no sub-structure, for the scalar
// DataTypes that never need one.
func Simple(t DataType) ElaboratedType {
	return ElaboratedType{Base: t}
}

// ArrayOf builds the ElaboratedType for Array(elem).
func ArrayOf(elem ElaboratedType) ElaboratedType {
	e := elem
	return ElaboratedType{Base: Array, Elem: &e}
}

// RangeOf builds the ElaboratedType for Range(elem).
func RangeOf(elem ElaboratedType) ElaboratedType {
	e := elem
	return ElaboratedType{Base: Range, Elem: &e}
}

// StructOf builds the ElaboratedType for an ordered Struct.
func StructOf(fields ...StructField) ElaboratedType {
	return ElaboratedType{Base: Struct, Fields: fields}
}

// String renders the type the way a planner would print it in a plan
// tree (e.g. "ARRAY<INT64>", "STRUCT<a INT64, b STRING>").
func (e ElaboratedType) String() string {
	switch e.Base {
	case Array:
		if e.Elem == nil {
			return "ARRAY"
		}
		return fmt.Sprintf("ARRAY<%s>", e.Elem.String())
	case Range:
		if e.Elem == nil {
			return "RANGE"
		}
		return fmt.Sprintf("RANGE<%s>", e.Elem.String())
	case Struct:
		s := "STRUCT<"
		for i, f := range e.Fields {
			if i > 0 {
				s += ", "
			}
			s += f.Name + " " + f.Type.String()
		}
		return s + ">"
	default:
		return e.Base.String()
	}
}

// Equal reports structural equality between two ElaboratedTypes.
func (e ElaboratedType) Equal(other ElaboratedType) bool {
	if e.Base != other.Base {
		return false
	}
	switch e.Base {
	case Array, Range:
		if (e.Elem == nil) != (other.Elem == nil) {
			return false
		}
		if e.Elem == nil {
			return true
		}
		return e.Elem.Equal(*other.Elem)
	case Struct:
		if len(e.Fields) != len(other.Fields) {
			return false
		}
		for i := range e.Fields {
			if e.Fields[i].Name != other.Fields[i].Name {
				return false
			}
			if !e.Fields[i].Type.Equal(other.Fields[i].Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
