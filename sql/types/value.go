package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Interval is the (months, days, nanos) triple spec.md section 3
// requires: the three components are carried independently and
// applied to a timestamp-like value in that order, never collapsed to
// a single duration, because month arithmetic is calendar-aware while
// day/nanos arithmetic is not.
type Interval struct {
	Months int32
	Days   int32
	Nanos  int64
}

// Value is the tagged union over DataType, per spec.md section 3.
// NULL is represented by IsNull == true regardless of Type; the
// corresponding payload field is left zero-valued so that two NULLs of
// the same declared type compare byte-identical, which storage code
// relies on (spec.md section 4.1, "NULL-setting zeros the data slot").
type Value struct {
	Type   ElaboratedType
	IsNull bool

	Bool     bool
	Int      int64
	Float    float64
	Dec      decimal.Decimal
	Str      string
	Bytes    []byte
	Date     time.Time // Y/M/D only, UTC
	Time     time.Duration
	DateTime time.Time
	Interval Interval
	Json     string
	Array    []Value
	Struct   []Value
	RangeLo  *Value
	RangeHi  *Value
}

// Null constructs the NULL inhabitant of t.
func Null(t ElaboratedType) Value {
	return Value{Type: t, IsNull: true}
}

// NullOf is a convenience for scalar base types.
func NullOf(t DataType) Value {
	return Null(Simple(t))
}

func BoolValue(b bool) Value     { return Value{Type: Simple(Bool), Bool: b} }
func Int64Value(i int64) Value   { return Value{Type: Simple(Int64), Int: i} }
func Float64Value(f float64) Value {
	return Value{Type: Simple(Float64), Float: f}
}
func StringValue(s string) Value { return Value{Type: Simple(String), Str: s} }
func BytesValue(b []byte) Value  { return Value{Type: Simple(Bytes), Bytes: b} }
func NumericValue(d decimal.Decimal) Value {
	return Value{Type: Simple(Numeric), Dec: d}
}

// BoolOrNull is tri-valued boolean: Valid == false represents UNKNOWN.
// Expression evaluation funnels every comparison/logic result through
// this type before converting it back to a Value so the three-valued
// rules in spec.md section 4.2 have one authoritative shape.
type BoolOrNull struct {
	Valid bool // false means UNKNOWN/NULL
	Bool  bool
}

func TrueB() BoolOrNull  { return BoolOrNull{Valid: true, Bool: true} }
func FalseB() BoolOrNull { return BoolOrNull{Valid: true, Bool: false} }
func UnknownB() BoolOrNull {
	return BoolOrNull{Valid: false}
}

// ToValue converts a three-valued boolean back into a Value.
func (b BoolOrNull) ToValue() Value {
	if !b.Valid {
		return NullOf(Bool)
	}
	return BoolValue(b.Bool)
}

// BoolOrNullFromValue extracts three-valued boolean semantics from a
// Value known to be of Bool type (or NULL).
func BoolOrNullFromValue(v Value) BoolOrNull {
	if v.IsNull {
		return UnknownB()
	}
	if v.Bool {
		return TrueB()
	}
	return FalseB()
}

// And implements three-valued AND: NULL AND FALSE = FALSE; NULL AND
// TRUE = NULL; FALSE AND anything = FALSE (spec.md section 8).
func And(a, b BoolOrNull) BoolOrNull {
	if a.Valid && !a.Bool {
		return FalseB()
	}
	if b.Valid && !b.Bool {
		return FalseB()
	}
	if !a.Valid || !b.Valid {
		return UnknownB()
	}
	return TrueB()
}

// Or implements three-valued OR: NULL OR TRUE = TRUE; NULL OR FALSE =
// NULL; TRUE OR anything = TRUE.
func Or(a, b BoolOrNull) BoolOrNull {
	if a.Valid && a.Bool {
		return TrueB()
	}
	if b.Valid && b.Bool {
		return TrueB()
	}
	if !a.Valid || !b.Valid {
		return UnknownB()
	}
	return FalseB()
}

// Not implements three-valued NOT: NOT NULL = NULL.
func Not(a BoolOrNull) BoolOrNull {
	if !a.Valid {
		return UnknownB()
	}
	if a.Bool {
		return FalseB()
	}
	return TrueB()
}

// IsDistinctFrom implements IS DISTINCT FROM / IS NOT DISTINCT FROM:
// unlike =, NULL is treated as a normal comparable value, so two NULLs
// are NOT distinct (spec.md section 3).
func IsDistinctFrom(a, b Value) bool {
	if a.IsNull != b.IsNull {
		return true
	}
	if a.IsNull {
		return false
	}
	cmp, ok := Compare(a, b)
	return !ok || cmp != 0
}

// Equals implements three-valued =: NULL = anything is UNKNOWN, never
// TRUE even when both sides are NULL.
func Equals(a, b Value) BoolOrNull {
	if a.IsNull || b.IsNull {
		return UnknownB()
	}
	cmp, ok := Compare(a, b)
	if !ok {
		return UnknownB()
	}
	return boolOrNullFrom(cmp == 0)
}

func boolOrNullFrom(b bool) BoolOrNull {
	if b {
		return TrueB()
	}
	return FalseB()
}
