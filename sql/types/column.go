package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yachtsql/yachtsql/yerrors"
)

// Column is a typed vector of length N paired with a null bitmap of N
// bits, per spec.md section 3/4.1. Exactly one of the typed data
// slices is populated, selected by Type.Base; null slots still occupy
// a storage slot (zero-valued) so positional access stays O(1) and so
// that a bitmap inspected directly (rather than through Get) never
// observes stale data from a previous value at that slot.
type Column struct {
	Type  ElaboratedType
	Nulls *NullBitmap

	BoolData     []bool
	IntData      []int64
	FloatData    []float64
	DecData      []decimal.Decimal
	StrData      []string
	BytesData    [][]byte
	DateData     []time.Time
	TimeData     []time.Duration
	DateTimeData []time.Time
	IntervalData []Interval
	JSONData     []string
	ArrayData    [][]Value
	StructData   [][]Value
	RangeLoData  []Value
	RangeHiData  []Value
}

// NewColumn allocates an empty column of the given type.
func NewColumn(t ElaboratedType) *Column {
	return &Column{Type: t, Nulls: NewNullBitmap(0)}
}

// Len returns the column's length (every typed slice and the bitmap
// share this length as an invariant).
func (c *Column) Len() int { return c.Nulls.Len() }

// DataType returns the column's element type.
func (c *Column) DataType() ElaboratedType { return c.Type }

// IsNull reports whether row i is null.
func (c *Column) IsNull(i int) bool { return c.Nulls.IsNull(i) }

// IsAllNull reports whether every row is null (spec.md section 3).
func (c *Column) IsAllNull() bool { return c.Nulls.IsAllNull() }

// CountNulls returns the number of null rows.
func (c *Column) CountNulls() int { return c.Nulls.CountNulls() }

// Get returns row i as a Value, or a structured error for an
// out-of-bounds index (spec.md section 4.1: never a panic).
func (c *Column) Get(i int) (Value, error) {
	if i < 0 || i >= c.Len() {
		return Value{}, yerrors.OutOfBounds(i, c.Len())
	}
	if c.IsNull(i) {
		return Null(c.Type), nil
	}
	switch c.Type.Base {
	case Bool:
		return Value{Type: c.Type, Bool: c.BoolData[i]}, nil
	case Int64:
		return Value{Type: c.Type, Int: c.IntData[i]}, nil
	case Float64:
		return Value{Type: c.Type, Float: c.FloatData[i]}, nil
	case Numeric, BigNumeric:
		return Value{Type: c.Type, Dec: c.DecData[i]}, nil
	case String:
		return Value{Type: c.Type, Str: c.StrData[i]}, nil
	case Bytes:
		return Value{Type: c.Type, Bytes: c.BytesData[i]}, nil
	case Date:
		return Value{Type: c.Type, Date: c.DateData[i]}, nil
	case Time:
		return Value{Type: c.Type, Time: c.TimeData[i]}, nil
	case DateTime, Timestamp:
		return Value{Type: c.Type, DateTime: c.DateTimeData[i]}, nil
	case Interval:
		return Value{Type: c.Type, Interval: c.IntervalData[i]}, nil
	case Json:
		return Value{Type: c.Type, Json: c.JSONData[i]}, nil
	case Array:
		return Value{Type: c.Type, Array: c.ArrayData[i]}, nil
	case Struct:
		return Value{Type: c.Type, Struct: c.StructData[i]}, nil
	case Range:
		lo, hi := c.RangeLoData[i], c.RangeHiData[i]
		return Value{Type: c.Type, RangeLo: &lo, RangeHi: &hi}, nil
	default:
		return Value{}, yerrors.Internal.New("column has unknown data type " + c.Type.String())
	}
}

// Set assigns row i. A value whose tag does not match the column's
// type is a structured error, with one documented coercion:
// BigNumeric values are accepted into Numeric columns (spec.md section
// 4.1). Setting NULL zeros the data slot.
func (c *Column) Set(i int, v Value) error {
	if i < 0 || i >= c.Len() {
		return yerrors.OutOfBounds(i, c.Len())
	}
	if v.IsNull {
		c.zeroSlot(i)
		c.Nulls.Set(i, true)
		return nil
	}
	if !typeMatchesForSet(c.Type.Base, v.Type.Base) {
		return yerrors.NewTypeMismatch(c.Type.String(), v.Type.String())
	}
	c.Nulls.Set(i, false)
	switch c.Type.Base {
	case Bool:
		c.BoolData[i] = v.Bool
	case Int64:
		c.IntData[i] = v.Int
	case Float64:
		c.FloatData[i] = v.Float
	case Numeric, BigNumeric:
		c.DecData[i] = v.Dec
	case String:
		c.StrData[i] = v.Str
	case Bytes:
		c.BytesData[i] = v.Bytes
	case Date:
		c.DateData[i] = v.Date
	case Time:
		c.TimeData[i] = v.Time
	case DateTime, Timestamp:
		c.DateTimeData[i] = v.DateTime
	case Interval:
		c.IntervalData[i] = v.Interval
	case Json:
		c.JSONData[i] = v.Json
	case Array:
		c.ArrayData[i] = v.Array
	case Struct:
		c.StructData[i] = v.Struct
	case Range:
		if v.RangeLo != nil {
			c.RangeLoData[i] = *v.RangeLo
		}
		if v.RangeHi != nil {
			c.RangeHiData[i] = *v.RangeHi
		}
	default:
		return yerrors.Internal.New("column has unknown data type " + c.Type.String())
	}
	return nil
}

// typeMatchesForSet allows the documented BigNumeric->Numeric storage
// coercion and otherwise requires an exact base-type match.
func typeMatchesForSet(colBase, valBase DataType) bool {
	if colBase == valBase {
		return true
	}
	if colBase == Numeric && valBase == BigNumeric {
		return true
	}
	return false
}

func (c *Column) zeroSlot(i int) {
	switch c.Type.Base {
	case Bool:
		c.BoolData[i] = false
	case Int64:
		c.IntData[i] = 0
	case Float64:
		c.FloatData[i] = 0
	case Numeric, BigNumeric:
		c.DecData[i] = decimal.Zero
	case String:
		c.StrData[i] = ""
	case Bytes:
		c.BytesData[i] = nil
	case Date, DateTime, Timestamp:
		zero := time.Time{}
		if c.Type.Base == Date {
			c.DateData[i] = zero
		} else {
			c.DateTimeData[i] = zero
		}
	case Time:
		c.TimeData[i] = 0
	case Interval:
		c.IntervalData[i] = Interval{}
	case Json:
		c.JSONData[i] = ""
	case Array:
		c.ArrayData[i] = nil
	case Struct:
		c.StructData[i] = nil
	case Range:
		c.RangeLoData[i] = Value{}
		c.RangeHiData[i] = Value{}
	}
}

// Push appends one value, growing every underlying slice and the
// bitmap together.
func (c *Column) Push(v Value) error {
	switch c.Type.Base {
	case Bool:
		c.BoolData = append(c.BoolData, v.Bool)
	case Int64:
		c.IntData = append(c.IntData, v.Int)
	case Float64:
		c.FloatData = append(c.FloatData, v.Float)
	case Numeric, BigNumeric:
		c.DecData = append(c.DecData, v.Dec)
	case String:
		c.StrData = append(c.StrData, v.Str)
	case Bytes:
		c.BytesData = append(c.BytesData, v.Bytes)
	case Date:
		c.DateData = append(c.DateData, v.Date)
	case Time:
		c.TimeData = append(c.TimeData, v.Time)
	case DateTime, Timestamp:
		c.DateTimeData = append(c.DateTimeData, v.DateTime)
	case Interval:
		c.IntervalData = append(c.IntervalData, v.Interval)
	case Json:
		c.JSONData = append(c.JSONData, v.Json)
	case Array:
		c.ArrayData = append(c.ArrayData, v.Array)
	case Struct:
		c.StructData = append(c.StructData, v.Struct)
	case Range:
		var lo, hi Value
		if v.RangeLo != nil {
			lo = *v.RangeLo
		}
		if v.RangeHi != nil {
			hi = *v.RangeHi
		}
		c.RangeLoData = append(c.RangeLoData, lo)
		c.RangeHiData = append(c.RangeHiData, hi)
	default:
		return yerrors.Internal.New("column has unknown data type " + c.Type.String())
	}
	c.Nulls.Push(v.IsNull)
	if v.IsNull {
		c.zeroSlot(c.Len() - 1)
	}
	return nil
}

// GatherByIndices returns a new column containing row indices[i] at
// position i, used by Sort/Join/TopN/gap-fill to materialize a
// reordered or resampled result.
func (c *Column) GatherByIndices(indices []int) (*Column, error) {
	out := NewColumn(c.Type)
	for _, idx := range indices {
		v, err := c.Get(idx)
		if err != nil {
			return nil, err
		}
		if err := out.Push(v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FilterByBitmap keeps row i iff keep.IsNull(i) is false (the bitmap
// is a "keep mask" here, not a null mask), used by Filter operators
// after an expression has been evaluated to a three-valued predicate
// with NULL/FALSE rows excluded.
func (c *Column) FilterByBitmap(keep *NullBitmap) (*Column, error) {
	out := NewColumn(c.Type)
	for i := 0; i < c.Len(); i++ {
		if !keep.IsNull(i) {
			v, err := c.Get(i)
			if err != nil {
				return nil, err
			}
			if err := out.Push(v); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
