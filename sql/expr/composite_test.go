package expr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/types"
)

func mustParseRFC3339(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSubstringNegativePositionCountsFromEnd(t *testing.T) {
	s := &Substring{
		Str: NewLiteral(types.StringValue("hello world")),
		Pos: NewLiteral(types.Int64Value(-5)),
	}
	v, err := s.Eval(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "world", v.Str)
}

func TestSubstringWithLength(t *testing.T) {
	s := &Substring{
		Str: NewLiteral(types.StringValue("hello world")),
		Pos: NewLiteral(types.Int64Value(1)),
		Len: NewLiteral(types.Int64Value(5)),
	}
	v, err := s.Eval(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", v.Str)
}

func TestSubstringNullPropagates(t *testing.T) {
	s := &Substring{
		Str: NewLiteral(types.NullOf(types.String)),
		Pos: NewLiteral(types.Int64Value(1)),
	}
	v, err := s.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull)
}

func TestTrimModes(t *testing.T) {
	tests := []struct {
		mode TrimMode
		want string
	}{
		{TrimBoth, "hi"},
		{TrimLeading, "hi  "},
		{TrimTrailing, "  hi"},
	}
	for _, tc := range tests {
		tr := &Trim{Str: NewLiteral(types.StringValue("  hi  ")), Mode: tc.mode}
		v, err := tr.Eval(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.want, v.Str)
	}
}

func TestPositionFindsOneBasedIndex(t *testing.T) {
	p := &Position{
		Str:    NewLiteral(types.StringValue("abcdef")),
		Substr: NewLiteral(types.StringValue("cd")),
	}
	v, err := p.Eval(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Int)
}

func TestPositionNotFoundReturnsZero(t *testing.T) {
	p := &Position{
		Str:    NewLiteral(types.StringValue("abcdef")),
		Substr: NewLiteral(types.StringValue("zz")),
	}
	v, err := p.Eval(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int)
}

func TestOverlayReplacesRange(t *testing.T) {
	o := &Overlay{
		Str:         NewLiteral(types.StringValue("abcdef")),
		Replacement: NewLiteral(types.StringValue("XY")),
		Pos:         NewLiteral(types.Int64Value(2)),
		Len:         NewLiteral(types.Int64Value(2)),
	}
	v, err := o.Eval(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "aXYdef", v.Str)
}

func TestArrayAccessSafeOutOfBoundsReturnsNull(t *testing.T) {
	arr := &Array{
		Elements: []Expr{NewLiteral(types.Int64Value(1)), NewLiteral(types.Int64Value(2))},
		Type:     types.ArrayOf(types.Simple(types.Int64)),
	}
	access := &ArrayAccess{
		Array: arr,
		Index: NewLiteral(types.Int64Value(5)),
		Safe:  true,
		Type:  types.Simple(types.Int64),
	}
	v, err := access.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull)
}

func TestArrayAccessUnsafeOutOfBoundsErrors(t *testing.T) {
	arr := &Array{
		Elements: []Expr{NewLiteral(types.Int64Value(1))},
		Type:     types.ArrayOf(types.Simple(types.Int64)),
	}
	access := &ArrayAccess{
		Array: arr,
		Index: NewLiteral(types.Int64Value(9)),
		Type:  types.Simple(types.Int64),
	}
	_, err := access.Eval(nil, nil)
	require.Error(t, err)
}

func TestArrayAccessOrdinalIsOneBased(t *testing.T) {
	arr := &Array{
		Elements: []Expr{NewLiteral(types.StringValue("a")), NewLiteral(types.StringValue("b"))},
		Type:     types.ArrayOf(types.Simple(types.String)),
	}
	access := &ArrayAccess{
		Array:   arr,
		Index:   NewLiteral(types.Int64Value(1)),
		Ordinal: true,
		Type:    types.Simple(types.String),
	}
	v, err := access.Eval(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "a", v.Str)
}

func TestStructAccessReadsFieldByIndex(t *testing.T) {
	st := &Struct{
		Fields: []StructFieldExpr{
			{Name: "a", Expr: NewLiteral(types.Int64Value(1))},
			{Name: "b", Expr: NewLiteral(types.StringValue("x"))},
		},
		Type: types.StructOf(
			types.StructField{Name: "a", Type: types.Simple(types.Int64)},
			types.StructField{Name: "b", Type: types.Simple(types.String)},
		),
	}
	access := &StructAccess{Struct: st, Field: "b", Index: 1, Type: types.Simple(types.String)}
	v, err := access.Eval(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", v.Str)
}

func TestLikePercentAndUnderscoreWildcards(t *testing.T) {
	l := &Like{
		Str:     NewLiteral(types.StringValue("hello")),
		Pattern: NewLiteral(types.StringValue("h_l%")),
	}
	v, err := l.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.Bool)
}

func TestLikeEscapeCharacterIsLiteral(t *testing.T) {
	l := &Like{
		Str:     NewLiteral(types.StringValue("50%")),
		Pattern: NewLiteral(types.StringValue("50\\%")),
		Escape:  NewLiteral(types.StringValue("\\")),
	}
	v, err := l.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.Bool)
}

func TestLikeNegated(t *testing.T) {
	l := &Like{
		Str:     NewLiteral(types.StringValue("hello")),
		Pattern: NewLiteral(types.StringValue("zzz%")),
		Negated: true,
	}
	v, err := l.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.Bool)
}

func TestExtractYearMonthDay(t *testing.T) {
	ts := types.Value{Type: types.Simple(types.Timestamp), DateTime: mustParseRFC3339("2024-03-15T10:30:00Z")}
	for _, tc := range []struct {
		field ExtractField
		want  int64
	}{
		{ExtractYear, 2024},
		{ExtractMonth, 3},
		{ExtractDay, 15},
		{ExtractQuarter, 1},
	} {
		e := &Extract{Field: tc.field, Source: NewLiteral(ts)}
		v, err := e.Eval(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.want, v.Int)
	}
}

func TestJsonAccessExtractsNestedField(t *testing.T) {
	j := &JsonAccess{
		Source: NewLiteral(types.Value{Type: types.Simple(types.Json), Json: `{"a":{"b":"c"}}`}),
		Path:   "$.a.b",
		Kind:   JsonExtractScalar,
	}
	v, err := j.Eval(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "c", v.Str)
}

func TestJsonAccessMissingPathReturnsNull(t *testing.T) {
	j := &JsonAccess{
		Source: NewLiteral(types.Value{Type: types.Simple(types.Json), Json: `{"a":1}`}),
		Path:   "$.missing",
		Kind:   JsonExtract,
	}
	v, err := j.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull)
}

func TestIntervalExprMonthsDaysNanos(t *testing.T) {
	iv := &IntervalExpr{Value: NewLiteral(types.Int64Value(3)), Unit: "DAY"}
	v, err := iv.Eval(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), v.Interval.Days)
}
