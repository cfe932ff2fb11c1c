package types

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Compare orders two non-NULL values of comparable types, returning
// (-1, true) / (0, true) / (1, true), or (0, false) when the types are
// not mutually comparable. Numeric families widen per spec.md section
// 3 before comparing; every other family compares within itself only.
func Compare(a, b Value) (int, bool) {
	if a.Type.Base.IsNumeric() && b.Type.Base.IsNumeric() {
		return compareNumeric(a, b), true
	}

	if a.Type.Base != b.Type.Base {
		return 0, false
	}

	switch a.Type.Base {
	case Bool:
		return compareBool(a.Bool, b.Bool), true
	case String, Json, Geography:
		return strings.Compare(stringOf(a), stringOf(b)), true
	case Bytes:
		return bytes.Compare(a.Bytes, b.Bytes), true
	case Date, DateTime, Timestamp:
		return compareTime(timeOf(a), timeOf(b)), true
	case Time:
		return compareDuration(a.Time, b.Time), true
	case Interval:
		return compareInterval(a.Interval, b.Interval), true
	case Array, Struct:
		return compareSeq(seqOf(a), seqOf(b))
	case Range:
		return compareRange(a, b)
	default:
		return 0, false
	}
}

func stringOf(v Value) string {
	if v.Type.Base == Json {
		return v.Json
	}
	return v.Str
}

func timeOf(v Value) interface{} {
	if v.Type.Base == Date {
		return v.Date
	}
	return v.DateTime
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func compareTime(a, b interface{}) int {
	ta := a.(interface{ UnixNano() int64 })
	tb := b.(interface{ UnixNano() int64 })
	an, bn := ta.UnixNano(), tb.UnixNano()
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	default:
		return 0
	}
}

func compareDuration(a, b interface{ Nanoseconds() int64 }) int {
	an, bn := a.Nanoseconds(), b.Nanoseconds()
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	default:
		return 0
	}
}

func compareInterval(a, b Interval) int {
	if a.Months != b.Months {
		return compareInt64(int64(a.Months), int64(b.Months))
	}
	if a.Days != b.Days {
		return compareInt64(int64(a.Days), int64(b.Days))
	}
	return compareInt64(a.Nanos, b.Nanos)
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func seqOf(v Value) []Value {
	if v.Type.Base == Array {
		return v.Array
	}
	return v.Struct
}

func compareSeq(a, b []Value) (int, bool) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i].IsNull || b[i].IsNull {
			if a[i].IsNull != b[i].IsNull {
				return 0, false
			}
			continue
		}
		c, ok := Compare(a[i], b[i])
		if !ok {
			return 0, false
		}
		if c != 0 {
			return c, true
		}
	}
	return compareInt64(int64(len(a)), int64(len(b))), true
}

func compareRange(a, b Value) (int, bool) {
	if a.RangeLo == nil || a.RangeHi == nil || b.RangeLo == nil || b.RangeHi == nil {
		return 0, false
	}
	c, ok := Compare(*a.RangeLo, *b.RangeLo)
	if !ok || c != 0 {
		return c, ok
	}
	return Compare(*a.RangeHi, *b.RangeHi)
}

// compareNumeric widens both operands to the "bigger" numeric family
// (Int64 < Float64/Numeric/BigNumeric, with Numeric math always done
// in decimal.Decimal to avoid float round-off) before comparing.
func compareNumeric(a, b Value) int {
	da, fa := decimalOf(a)
	db, fb := decimalOf(b)
	if fa || fb {
		return compareFloat(floatOf(a), floatOf(b))
	}
	return da.Cmp(db)
}

func decimalOf(v Value) (decimal.Decimal, bool) {
	switch v.Type.Base {
	case Int64:
		return decimal.NewFromInt(v.Int), false
	case Float64:
		return decimal.Decimal{}, true
	case Numeric, BigNumeric:
		return v.Dec, false
	default:
		return decimal.Decimal{}, true
	}
}

func floatOf(v Value) float64 {
	switch v.Type.Base {
	case Int64:
		return float64(v.Int)
	case Float64:
		return v.Float
	case Numeric, BigNumeric:
		f, _ := v.Dec.Float64()
		return f
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
