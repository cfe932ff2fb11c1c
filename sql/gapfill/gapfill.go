// Package gapfill implements the gap-fill relational operator spec.md
// section 4.5 describes: given a timestamp-like column, a bucket
// width, optional partitioning columns, and a fill strategy per value
// column, emit one output row per bucket in [min, max] within each
// partition, filling gaps per strategy (NULL/LOCF/LINEAR).
//
// original_source/ (the Rust implementation this spec was distilled
// from) is the grounding for the exact bucketing arithmetic and for
// the tolerant argument-parsing behavior around malformed/unknown
// parameters; spec.md section 9's open question resolves to preserving
// that tolerance in ParseArgs while keeping Apply itself strict over an
// already-validated Spec.
package gapfill

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yachtsql/yachtsql/sql/types"
	"github.com/yachtsql/yachtsql/yerrors"
)

// FillStrategy selects how a value column's gaps are filled.
type FillStrategy int

const (
	FillNull FillStrategy = iota
	FillLOCF
	FillLinear
)

// ValueColumn names one output column and the strategy used to fill
// its gaps.
type ValueColumn struct {
	Name     string
	Index    int
	Strategy FillStrategy
}

// Spec is the fully-resolved, typed configuration for Apply. Indices
// are resolved against the input table's schema by the planner
// (mirroring how expr.Column carries both a name and a resolved
// index); Apply itself never does name lookup.
type Spec struct {
	TSIndex             int
	BucketWidth         types.Interval
	PartitioningIndices []int
	Origin              *time.Time
	ValueColumns        []ValueColumn
}

// bucketOf returns the zero-based bucket index of ts relative to
// origin and width, and the bucket's start time, per spec.md section
// 4.5: "origin + floor((ts - origin) / bucket_width) * bucket_width",
// month-aware when width.Months > 0.
func bucketOf(origin, ts time.Time, width types.Interval) (int64, time.Time) {
	if width.Months > 0 {
		idx := monthsBetween(origin, ts) / int64(width.Months)
		if r := monthsBetween(origin, ts) % int64(width.Months); r < 0 {
			idx--
		}
		start := addMonthsChecked(origin, idx*int64(width.Months))
		// The month-floor can overshoot by one bucket when ts's
		// day-of-month falls before origin's; nudge back down.
		for start.After(ts) {
			idx--
			start = addMonthsChecked(origin, idx*int64(width.Months))
		}
		next := addMonthsChecked(origin, (idx+1)*int64(width.Months))
		for !next.After(ts) {
			idx++
			start = next
			next = addMonthsChecked(origin, (idx+1)*int64(width.Months))
		}
		return idx, start
	}
	dur := durationOf(width)
	if dur <= 0 {
		return 0, origin
	}
	delta := ts.Sub(origin)
	idx := int64(math.Floor(float64(delta) / float64(dur)))
	start := origin.Add(time.Duration(idx) * dur)
	return idx, start
}

// bucketStartAt returns the start time of bucket index idx relative to
// origin and width.
func bucketStartAt(origin time.Time, idx int64, width types.Interval) time.Time {
	if width.Months > 0 {
		return addMonthsChecked(origin, idx*int64(width.Months))
	}
	dur := durationOf(width)
	return origin.Add(time.Duration(idx) * dur)
}

func durationOf(w types.Interval) time.Duration {
	return time.Duration(w.Days)*24*time.Hour + time.Duration(w.Nanos)
}

func monthsBetween(from, to time.Time) int64 {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	months := int64(y2-y1)*12 + int64(m2-m1)
	if d2 < d1 {
		months--
	}
	return months
}

func addMonthsChecked(t time.Time, months int64) time.Time {
	return t.AddDate(0, int(months), 0)
}

// Apply runs the gap-fill operator over input per spec, partitioning
// by PartitioningIndices, and returns a new table with the same schema
// as input: one row per bucket per partition, values filled per
// ValueColumn.Strategy.
func Apply(input *types.Table, spec Spec) (*types.Table, error) {
	if spec.TSIndex < 0 || spec.TSIndex >= len(input.Schema) {
		return nil, yerrors.InvalidQuery.New("gap fill: ts_column index out of range")
	}
	if spec.Origin == nil {
		return nil, yerrors.InvalidQuery.New("gap fill: missing origin")
	}

	partitions, order, err := partitionRows(input, spec.PartitioningIndices)
	if err != nil {
		return nil, err
	}

	out := types.NewTable(input.Schema)
	for _, key := range order {
		rows := partitions[key]
		if err := fillPartition(input, out, spec, rows); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// partitionRows groups row indices by the tuple of partitioning column
// values, preserving first-seen partition order for determinism.
func partitionRows(input *types.Table, partIdx []int) (map[string][]int, []string, error) {
	groups := make(map[string][]int)
	var order []string
	for i := 0; i < input.NumRows(); i++ {
		key, err := partitionKey(input, i, partIdx)
		if err != nil {
			return nil, nil, err
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	if len(order) == 0 && input.NumRows() == 0 {
		return groups, order, nil
	}
	return groups, order, nil
}

func partitionKey(input *types.Table, row int, partIdx []int) (string, error) {
	key := ""
	for _, idx := range partIdx {
		v, err := input.Columns[idx].Get(row)
		if err != nil {
			return "", err
		}
		key += v.Type.String() + ":" + valueKeyString(v) + "|"
	}
	return key, nil
}

func valueKeyString(v types.Value) string {
	if v.IsNull {
		return "<null>"
	}
	return valueDebugString(v)
}

func fillPartition(input, out *types.Table, spec Spec, rows []int) error {
	if len(rows) == 0 {
		return nil
	}

	tsCol := input.Columns[spec.TSIndex]
	bucketed := make(map[int64]int, len(rows)) // bucket idx -> source row
	var minIdx, maxIdx int64
	first := true
	for _, r := range rows {
		tv, err := tsCol.Get(r)
		if err != nil {
			return err
		}
		if tv.IsNull {
			continue
		}
		idx, _ := bucketOf(*spec.Origin, timestampOf(tv), spec.BucketWidth)
		bucketed[idx] = r
		if first {
			minIdx, maxIdx = idx, idx
			first = false
		} else {
			if idx < minIdx {
				minIdx = idx
			}
			if idx > maxIdx {
				maxIdx = idx
			}
		}
	}
	if first {
		return nil
	}

	// Precompute, per value column, the ordered list of (bucket idx,
	// value) pairs that are actually defined, for LOCF/LINEAR lookups.
	defined := make(map[int][]definedPoint, len(spec.ValueColumns))
	for _, vc := range spec.ValueColumns {
		col := input.Columns[vc.Index]
		var pts []definedPoint
		for idx, r := range bucketed {
			v, err := col.Get(r)
			if err != nil {
				return err
			}
			if !v.IsNull {
				pts = append(pts, definedPoint{idx: idx, value: v})
			}
		}
		sortPoints(pts)
		defined[vc.Index] = pts
	}

	// Representative partitioning-column values (identical across rows
	// in this partition by construction).
	partRow := rows[0]

	for idx := minIdx; idx <= maxIdx; idx++ {
		row := make([]types.Value, len(input.Schema))
		for c := range input.Schema {
			row[c] = types.Null(input.Schema[c].Type)
		}
		bucketTime := bucketStartAt(*spec.Origin, idx, spec.BucketWidth)
		tsVal, err := tsValueAt(tsCol.Type, bucketTime)
		if err != nil {
			return err
		}
		row[spec.TSIndex] = tsVal
		for _, p := range spec.PartitioningIndices {
			v, err := input.Columns[p].Get(partRow)
			if err != nil {
				return err
			}
			row[p] = v
		}
		if srcRow, ok := bucketed[idx]; ok {
			for c := range input.Schema {
				if c == spec.TSIndex || isPartitionCol(c, spec.PartitioningIndices) {
					continue
				}
				v, err := input.Columns[c].Get(srcRow)
				if err != nil {
					return err
				}
				row[c] = v
			}
		}
		for _, vc := range spec.ValueColumns {
			if _, ok := bucketed[idx]; ok && !row[vc.Index].IsNull {
				continue
			}
			v, err := fillValue(vc, idx, defined[vc.Index])
			if err != nil {
				return err
			}
			row[vc.Index] = v
		}
		if err := out.AppendRow(row); err != nil {
			return err
		}
	}
	return nil
}

func isPartitionCol(c int, partIdx []int) bool {
	for _, p := range partIdx {
		if p == c {
			return true
		}
	}
	return false
}

type definedPoint struct {
	idx   int64
	value types.Value
}

func sortPoints(pts []definedPoint) {
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && pts[j-1].idx > pts[j].idx; j-- {
			pts[j-1], pts[j] = pts[j], pts[j-1]
		}
	}
}

// fillValue implements the NULL/LOCF/LINEAR strategies of spec.md
// section 4.5 against the precomputed defined points of one column.
func fillValue(vc ValueColumn, idx int64, pts []definedPoint) (types.Value, error) {
	switch vc.Strategy {
	case FillNull:
		return types.Null(zeroTypeOf(pts)), nil
	case FillLOCF:
		var last *types.Value
		for _, p := range pts {
			if p.idx > idx {
				break
			}
			v := p.value
			last = &v
		}
		if last == nil {
			return types.Null(zeroTypeOf(pts)), nil
		}
		return *last, nil
	case FillLinear:
		return fillLinear(idx, pts)
	default:
		return types.Null(zeroTypeOf(pts)), nil
	}
}

func zeroTypeOf(pts []definedPoint) types.ElaboratedType {
	if len(pts) == 0 {
		return types.Simple(types.Unknown)
	}
	return pts[0].value.Type
}

// fillLinear linearly interpolates numeric columns between the two
// nearest defined buckets; non-numeric columns fall back to NULL
// (spec.md section 4.5).
func fillLinear(idx int64, pts []definedPoint) (types.Value, error) {
	if len(pts) == 0 {
		return types.Null(types.Simple(types.Unknown)), nil
	}
	if !pts[0].value.Type.Base.IsNumeric() {
		return types.Null(pts[0].value.Type), nil
	}
	var before, after *definedPoint
	for i := range pts {
		if pts[i].idx <= idx {
			before = &pts[i]
		}
		if pts[i].idx >= idx && after == nil {
			after = &pts[i]
		}
	}
	switch {
	case before == nil:
		return after.value, nil // extrapolation at the start: nearest value
	case after == nil:
		return before.value, nil // extrapolation at the end: nearest value
	case before.idx == after.idx:
		return before.value, nil
	default:
		bv, av := numericOf(before.value), numericOf(after.value)
		frac := float64(idx-before.idx) / float64(after.idx-before.idx)
		interp := bv + (av-bv)*frac
		return typedNumericValue(before.value.Type, interp), nil
	}
}

// numericOf's default case is unreachable in practice: fillLinear
// only calls it after confirming pts[0].value.Type.Base.IsNumeric().
func numericOf(v types.Value) float64 {
	switch v.Type.Base {
	case types.Int64:
		return float64(v.Int)
	case types.Float64:
		return v.Float
	case types.Numeric, types.BigNumeric:
		f, _ := v.Dec.Float64()
		return f
	default:
		return 0
	}
}

// typedNumericValue builds the interpolated result in the gap-filled
// column's own type, so LINEAR never silently zeroes an Int64 or
// Numeric/BigNumeric column: Column.Push reads v.Int/v.Dec for those
// types, not v.Float (sql/types/column.go).
func typedNumericValue(t types.ElaboratedType, f float64) types.Value {
	switch t.Base {
	case types.Int64:
		return types.Int64Value(int64(math.Round(f)))
	case types.Numeric, types.BigNumeric:
		return types.Value{Type: t, Dec: decimal.NewFromFloat(f)}
	default:
		return types.Value{Type: t, Float: f}
	}
}

func timestampOf(v types.Value) time.Time {
	switch v.Type.Base {
	case types.Date:
		return v.Date
	default:
		return v.DateTime
	}
}

func tsValueAt(t types.ElaboratedType, at time.Time) (types.Value, error) {
	switch t.Base {
	case types.Date:
		return types.Value{Type: t, Date: at}, nil
	case types.DateTime, types.Timestamp:
		return types.Value{Type: t, DateTime: at}, nil
	default:
		return types.Value{}, yerrors.InvalidQuery.New("gap fill: ts_column must be DATE, DATETIME, or TIMESTAMP")
	}
}

func valueDebugString(v types.Value) string {
	switch v.Type.Base {
	case types.String, types.Json:
		return v.Str
	case types.Int64:
		return time.Unix(v.Int, 0).String()
	case types.Bool:
		if v.Bool {
			return "t"
		}
		return "f"
	default:
		return timestampOf(v).String()
	}
}
