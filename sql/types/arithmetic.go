package types

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yachtsql/yachtsql/yerrors"
)

// Add, Sub, Mul, Div implement the numeric widening rules of spec.md
// section 3: Int+Int stays Int (checked, overflow errors per section
// 7), mixing Int and Float promotes to Float, Numeric stays Numeric,
// Division always returns Float64. NULL operands never reach these
// functions; callers short-circuit NULL propagation before calling in.

func Add(a, b Value) (Value, error) { return arith(a, b, "+", addInt, addDec, func(x, y float64) float64 { return x + y }) }
func Sub(a, b Value) (Value, error) { return arith(a, b, "-", subInt, subDec, func(x, y float64) float64 { return x - y }) }
func Mul(a, b Value) (Value, error) { return arith(a, b, "*", mulInt, mulDec, func(x, y float64) float64 { return x * y }) }

// Div always produces Float64, except that callers wanting truncating
// integer division should use IntDiv instead (spec.md section 3).
func Div(a, b Value) (Value, error) {
	fb := floatOf(b)
	if fb == 0 {
		return Value{}, yerrors.InvalidQuery.New("division by zero")
	}
	return Float64Value(floatOf(a) / fb), nil
}

// IntDiv implements the truncating integer DIV operator.
func IntDiv(a, b Value) (Value, error) {
	if a.Type.Base != Int64 || b.Type.Base != Int64 {
		return Value{}, yerrors.NewTypeMismatch("INT64", a.Type.String()+" DIV "+b.Type.String())
	}
	if b.Int == 0 {
		return Value{}, yerrors.InvalidQuery.New("division by zero")
	}
	return Int64Value(a.Int / b.Int), nil
}

type intOp func(a, b int64) (int64, bool)
type decOp func(a, b decimal.Decimal) decimal.Decimal
type floatOp func(a, b float64) float64

func arith(a, b Value, name string, iop intOp, dop decOp, fop floatOp) (Value, error) {
	if a.Type.Base == Int64 && b.Type.Base == Int64 {
		r, ok := iop(a.Int, b.Int)
		if !ok {
			return Value{}, yerrors.InvalidQuery.New("integer overflow in " + name)
		}
		return Int64Value(r), nil
	}
	if (a.Type.Base == Numeric || a.Type.Base == BigNumeric) && b.Type.Base.IsNumeric() && b.Type.Base != Float64 {
		return Value{Type: Simple(Numeric), Dec: dop(decOrInt(a), decOrInt(b))}, nil
	}
	if (b.Type.Base == Numeric || b.Type.Base == BigNumeric) && a.Type.Base.IsNumeric() && a.Type.Base != Float64 {
		return Value{Type: Simple(Numeric), Dec: dop(decOrInt(a), decOrInt(b))}, nil
	}
	return Float64Value(fop(floatOf(a), floatOf(b))), nil
}

func decOrInt(v Value) decimal.Decimal {
	if v.Type.Base == Int64 {
		return decimal.NewFromInt(v.Int)
	}
	return v.Dec
}

func addInt(a, b int64) (int64, bool) {
	r := a + b
	if (r > a) != (b > 0) {
		return 0, false
	}
	return r, true
}

func subInt(a, b int64) (int64, bool) {
	r := a - b
	if (r < a) != (b > 0) {
		return 0, false
	}
	return r, true
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/b != a {
		return 0, false
	}
	return r, true
}

func addDec(a, b decimal.Decimal) decimal.Decimal { return a.Add(b) }
func subDec(a, b decimal.Decimal) decimal.Decimal { return a.Sub(b) }
func mulDec(a, b decimal.Decimal) decimal.Decimal { return a.Mul(b) }

// AddInterval applies an Interval to a time.Time in (months, days,
// nanos) order per spec.md section 3: month arithmetic uses checked
// month add/sub (overflow errors, spec.md section 7), day arithmetic
// uses signed calendar days, and nanosecond arithmetic is a plain
// duration add applied last.
func AddInterval(t time.Time, iv Interval) (time.Time, error) {
	if iv.Months != 0 {
		y, m, d := t.Date()
		totalMonths := int64(y)*12 + int64(m) - 1 + int64(iv.Months)
		if totalMonths > math.MaxInt32 || totalMonths < math.MinInt32 {
			return time.Time{}, yerrors.DateTimeError.New("month add", "overflow")
		}
		newY := int(totalMonths / 12)
		newM := time.Month(totalMonths%12) + 1
		if totalMonths%12 < 0 {
			newY--
			newM += 12
		}
		t = time.Date(newY, newM, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	}
	if iv.Days != 0 {
		t = t.AddDate(0, 0, int(iv.Days))
	}
	if iv.Nanos != 0 {
		t = t.Add(time.Duration(iv.Nanos))
	}
	return t, nil
}
