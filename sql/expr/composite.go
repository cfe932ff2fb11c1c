package expr

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/yachtsql/yachtsql/sql/sqlctx"
	"github.com/yachtsql/yachtsql/sql/types"
)

// StructFieldExpr is one named field of a Struct constructor.
type StructFieldExpr struct {
	Name string
	Expr Expr
}

// Struct constructs a struct value from named field expressions
// (spec.md section 3).
type Struct struct {
	Fields []StructFieldExpr
	Type   types.ElaboratedType
}

func (s *Struct) ResolvedType() types.ElaboratedType { return s.Type }
func (s *Struct) Nullable() bool                     { return false }
func (s *Struct) Children() []Expr {
	out := make([]Expr, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Expr
	}
	return out
}
func (s *Struct) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("Struct", len(s.Fields), children); err != nil {
		return nil, err
	}
	ns := *s
	ns.Fields = make([]StructFieldExpr, len(s.Fields))
	for i, f := range s.Fields {
		ns.Fields[i] = StructFieldExpr{Name: f.Name, Expr: children[i]}
	}
	return &ns, nil
}
func (s *Struct) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = fmt.Sprintf("%s AS %s", f.Expr, f.Name)
	}
	return "STRUCT(" + strings.Join(parts, ", ") + ")"
}
func (s *Struct) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	vals := make([]types.Value, len(s.Fields))
	for i, f := range s.Fields {
		v, err := f.Expr.Eval(ctx, row)
		if err != nil {
			return types.Value{}, err
		}
		vals[i] = v
	}
	return types.Value{Type: s.Type, Struct: vals}, nil
}

// Array constructs an array value from element expressions.
type Array struct {
	Elements []Expr
	Type     types.ElaboratedType
}

func (a *Array) ResolvedType() types.ElaboratedType { return a.Type }
func (a *Array) Nullable() bool                     { return false }
func (a *Array) Children() []Expr                   { return a.Elements }
func (a *Array) WithChildren(children ...Expr) (Expr, error) {
	na := *a
	na.Elements = append([]Expr(nil), children...)
	return &na, nil
}
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *Array) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	vals := make([]types.Value, len(a.Elements))
	for i, e := range a.Elements {
		v, err := e.Eval(ctx, row)
		if err != nil {
			return types.Value{}, err
		}
		vals[i] = v
	}
	return types.Value{Type: a.Type, Array: vals}, nil
}

// ArrayAccess indexes into an array (`arr[OFFSET(i)]` / `arr[ORDINAL(i)]`
// in BigQuery terms). Safe suppresses the out-of-bounds error, returning
// NULL instead, matching SAFE_OFFSET/SAFE_ORDINAL.
type ArrayAccess struct {
	Array    Expr
	Index    Expr
	Ordinal  bool // true: 1-based ORDINAL; false: 0-based OFFSET
	Safe     bool
	Type     types.ElaboratedType
}

func (a *ArrayAccess) ResolvedType() types.ElaboratedType { return a.Type }
func (a *ArrayAccess) Nullable() bool                     { return true }
func (a *ArrayAccess) Children() []Expr                   { return []Expr{a.Array, a.Index} }
func (a *ArrayAccess) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("ArrayAccess", 2, children); err != nil {
		return nil, err
	}
	na := *a
	na.Array, na.Index = children[0], children[1]
	return &na, nil
}
func (a *ArrayAccess) String() string { return fmt.Sprintf("%s[%s]", a.Array, a.Index) }
func (a *ArrayAccess) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	arr, err := a.Array.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	idx, err := a.Index.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if arr.IsNull || idx.IsNull {
		return types.Null(a.Type), nil
	}
	i := int(idx.Int)
	if a.Ordinal {
		i--
	}
	if i < 0 || i >= len(arr.Array) {
		if a.Safe {
			return types.Null(a.Type), nil
		}
		return types.Value{}, yerrorsOutOfBounds(i, len(arr.Array))
	}
	return arr.Array[i], nil
}

// StructAccess reads a field out of a struct by its resolved index.
type StructAccess struct {
	Struct Expr
	Field  string
	Index  int
	Type   types.ElaboratedType
}

func (s *StructAccess) ResolvedType() types.ElaboratedType { return s.Type }
func (s *StructAccess) Nullable() bool                     { return true }
func (s *StructAccess) Children() []Expr                   { return []Expr{s.Struct} }
func (s *StructAccess) WithChildren(children ...Expr) (Expr, error) {
	if err := checkArity("StructAccess", 1, children); err != nil {
		return nil, err
	}
	ns := *s
	ns.Struct = children[0]
	return &ns, nil
}
func (s *StructAccess) String() string { return fmt.Sprintf("%s.%s", s.Struct, s.Field) }
func (s *StructAccess) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	st, err := s.Struct.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if st.IsNull {
		return types.Null(s.Type), nil
	}
	if s.Index < 0 || s.Index >= len(st.Struct) {
		return types.Value{}, colNotFound(s.Field)
	}
	return st.Struct[s.Index], nil
}

// Substring implements SUBSTR(str, pos[, len]) with 1-based, possibly
// negative pos (counted from the end) per BigQuery semantics; Len nil
// means "to the end of the string".
type Substring struct {
	Str Expr
	Pos Expr
	Len Expr // nil means to end of string
}

func (s *Substring) ResolvedType() types.ElaboratedType { return types.Simple(types.String) }
func (s *Substring) Nullable() bool                     { return true }
func (s *Substring) Children() []Expr {
	out := []Expr{s.Str, s.Pos}
	if s.Len != nil {
		out = append(out, s.Len)
	}
	return out
}
func (s *Substring) WithChildren(children ...Expr) (Expr, error) {
	ns := *s
	ns.Str, ns.Pos = children[0], children[1]
	if len(children) > 2 {
		ns.Len = children[2]
	}
	return &ns, nil
}
func (s *Substring) String() string { return fmt.Sprintf("SUBSTR(%s, %s)", s.Str, s.Pos) }
func (s *Substring) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	str, err := s.Str.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	pos, err := s.Pos.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if str.IsNull || pos.IsNull {
		return types.Null(types.Simple(types.String)), nil
	}
	runes := []rune(str.Str)
	n := len(runes)
	p := int(pos.Int)
	if p < 0 {
		p = n + p + 1
	}
	if p < 1 {
		p = 1
	}
	start := p - 1
	if start > n {
		start = n
	}
	end := n
	if s.Len != nil {
		lv, err := s.Len.Eval(ctx, row)
		if err != nil {
			return types.Value{}, err
		}
		if lv.IsNull {
			return types.Null(types.Simple(types.String)), nil
		}
		end = start + int(lv.Int)
		if end > n {
			end = n
		}
	}
	if end < start {
		end = start
	}
	return types.StringValue(string(runes[start:end])), nil
}

// TrimMode selects which ends of a string TRIM strips from.
type TrimMode int

const (
	TrimBoth TrimMode = iota
	TrimLeading
	TrimTrailing
)

// Trim implements TRIM([BOTH|LEADING|TRAILING] [chars FROM] str); a nil
// Chars trims ASCII whitespace, matching the common SQL default.
type Trim struct {
	Str   Expr
	Chars Expr // nil means whitespace
	Mode  TrimMode
}

func (t *Trim) ResolvedType() types.ElaboratedType { return types.Simple(types.String) }
func (t *Trim) Nullable() bool                     { return true }
func (t *Trim) Children() []Expr {
	if t.Chars != nil {
		return []Expr{t.Str, t.Chars}
	}
	return []Expr{t.Str}
}
func (t *Trim) WithChildren(children ...Expr) (Expr, error) {
	nt := *t
	nt.Str = children[0]
	if len(children) > 1 {
		nt.Chars = children[1]
	}
	return &nt, nil
}
func (t *Trim) String() string { return fmt.Sprintf("TRIM(%s)", t.Str) }
func (t *Trim) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	str, err := t.Str.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if str.IsNull {
		return types.Null(types.Simple(types.String)), nil
	}
	cutset := " \t\n\r"
	if t.Chars != nil {
		cv, err := t.Chars.Eval(ctx, row)
		if err != nil {
			return types.Value{}, err
		}
		if cv.IsNull {
			return types.Null(types.Simple(types.String)), nil
		}
		cutset = cv.Str
	}
	out := str.Str
	switch t.Mode {
	case TrimLeading:
		out = strings.TrimLeft(out, cutset)
	case TrimTrailing:
		out = strings.TrimRight(out, cutset)
	default:
		out = strings.Trim(out, cutset)
	}
	return types.StringValue(out), nil
}

// Position implements STRPOS(str, substr): the 1-based index of the
// first occurrence, or 0 if absent.
type Position struct {
	Substr Expr
	Str    Expr
}

func (p *Position) ResolvedType() types.ElaboratedType { return types.Simple(types.Int64) }
func (p *Position) Nullable() bool                     { return true }
func (p *Position) Children() []Expr                   { return []Expr{p.Str, p.Substr} }
func (p *Position) WithChildren(children ...Expr) (Expr, error) {
	np := *p
	np.Str, np.Substr = children[0], children[1]
	return &np, nil
}
func (p *Position) String() string { return fmt.Sprintf("STRPOS(%s, %s)", p.Str, p.Substr) }
func (p *Position) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	str, err := p.Str.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	sub, err := p.Substr.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if str.IsNull || sub.IsNull {
		return types.Null(types.Simple(types.Int64)), nil
	}
	idx := strings.Index(str.Str, sub.Str)
	if idx < 0 {
		return types.Int64Value(0), nil
	}
	return types.Int64Value(int64(len([]rune(str.Str[:idx])) + 1)), nil
}

// Overlay implements OVERLAY(str PLACING replacement FROM pos [FOR len]).
type Overlay struct {
	Str         Expr
	Replacement Expr
	Pos         Expr
	Len         Expr // nil means len(Replacement)
}

func (o *Overlay) ResolvedType() types.ElaboratedType { return types.Simple(types.String) }
func (o *Overlay) Nullable() bool                     { return true }
func (o *Overlay) Children() []Expr {
	out := []Expr{o.Str, o.Replacement, o.Pos}
	if o.Len != nil {
		out = append(out, o.Len)
	}
	return out
}
func (o *Overlay) WithChildren(children ...Expr) (Expr, error) {
	no := *o
	no.Str, no.Replacement, no.Pos = children[0], children[1], children[2]
	if len(children) > 3 {
		no.Len = children[3]
	}
	return &no, nil
}
func (o *Overlay) String() string { return fmt.Sprintf("OVERLAY(%s PLACING %s FROM %s)", o.Str, o.Replacement, o.Pos) }
func (o *Overlay) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	str, err := o.Str.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	repl, err := o.Replacement.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	pos, err := o.Pos.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if str.IsNull || repl.IsNull || pos.IsNull {
		return types.Null(types.Simple(types.String)), nil
	}
	runes := []rune(str.Str)
	n := len(runes)
	p := int(pos.Int) - 1
	if p < 0 {
		p = 0
	}
	if p > n {
		p = n
	}
	length := len([]rune(repl.Str))
	if o.Len != nil {
		lv, err := o.Len.Eval(ctx, row)
		if err != nil {
			return types.Value{}, err
		}
		if lv.IsNull {
			return types.Null(types.Simple(types.String)), nil
		}
		length = int(lv.Int)
	}
	end := p + length
	if end > n {
		end = n
	}
	out := string(runes[:p]) + repl.Str + string(runes[end:])
	return types.StringValue(out), nil
}

// ExtractField names the datetime component EXTRACT pulls out.
type ExtractField string

const (
	ExtractYear    ExtractField = "YEAR"
	ExtractMonth   ExtractField = "MONTH"
	ExtractDay     ExtractField = "DAY"
	ExtractHour    ExtractField = "HOUR"
	ExtractMinute  ExtractField = "MINUTE"
	ExtractSecond  ExtractField = "SECOND"
	ExtractDOW     ExtractField = "DAYOFWEEK"
	ExtractDOY     ExtractField = "DAYOFYEAR"
	ExtractQuarter ExtractField = "QUARTER"
)

// Extract implements EXTRACT(field FROM source).
type Extract struct {
	Field  ExtractField
	Source Expr
}

func (e *Extract) ResolvedType() types.ElaboratedType { return types.Simple(types.Int64) }
func (e *Extract) Nullable() bool                     { return true }
func (e *Extract) Children() []Expr                   { return []Expr{e.Source} }
func (e *Extract) WithChildren(children ...Expr) (Expr, error) {
	ne := *e
	ne.Source = children[0]
	return &ne, nil
}
func (e *Extract) String() string { return fmt.Sprintf("EXTRACT(%s FROM %s)", e.Field, e.Source) }
func (e *Extract) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	src, err := e.Source.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if src.IsNull {
		return types.Null(types.Simple(types.Int64)), nil
	}
	var t time.Time
	switch src.Type.Base {
	case types.Date, types.DateTime, types.Timestamp:
		t = src.DateTime
		if src.Type.Base == types.Date {
			t = src.Date
		}
	default:
		return types.Value{}, typeMismatch("date/datetime/timestamp", src.Type.String())
	}
	var n int64
	switch e.Field {
	case ExtractYear:
		n = int64(t.Year())
	case ExtractMonth:
		n = int64(t.Month())
	case ExtractDay:
		n = int64(t.Day())
	case ExtractHour:
		n = int64(t.Hour())
	case ExtractMinute:
		n = int64(t.Minute())
	case ExtractSecond:
		n = int64(t.Second())
	case ExtractDOW:
		n = int64(t.Weekday()) + 1
	case ExtractDOY:
		n = int64(t.YearDay())
	case ExtractQuarter:
		n = int64(t.Month()-1)/3 + 1
	default:
		return types.Value{}, unsupported("extract field " + string(e.Field))
	}
	return types.Int64Value(n), nil
}

// IntervalExpr constructs an interval value from a numeric expression
// and a unit (e.g. INTERVAL x DAY). It is distinct from types.Interval,
// which is the evaluated value representation.
type IntervalExpr struct {
	Value Expr
	Unit  string
}

func (i *IntervalExpr) ResolvedType() types.ElaboratedType { return types.Simple(types.Interval) }
func (i *IntervalExpr) Nullable() bool                     { return true }
func (i *IntervalExpr) Children() []Expr                   { return []Expr{i.Value} }
func (i *IntervalExpr) WithChildren(children ...Expr) (Expr, error) {
	ni := *i
	ni.Value = children[0]
	return &ni, nil
}
func (i *IntervalExpr) String() string { return fmt.Sprintf("INTERVAL %s %s", i.Value, i.Unit) }
func (i *IntervalExpr) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	v, err := i.Value.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if v.IsNull {
		return types.Null(types.Simple(types.Interval)), nil
	}
	n := v.Int
	var iv types.Interval
	switch strings.ToUpper(i.Unit) {
	case "YEAR":
		iv.Months = int32(n * 12)
	case "MONTH":
		iv.Months = int32(n)
	case "DAY":
		iv.Days = int32(n)
	case "HOUR":
		iv.Nanos = n * int64(time.Hour)
	case "MINUTE":
		iv.Nanos = n * int64(time.Minute)
	case "SECOND":
		iv.Nanos = n * int64(time.Second)
	default:
		return types.Value{}, unsupported("interval unit " + i.Unit)
	}
	return types.Value{Type: types.Simple(types.Interval), Interval: iv}, nil
}

// AtTimeZone converts a timestamp into the wall-clock time of the
// given IANA zone, represented as a DateTime (spec.md section 3).
type AtTimeZone struct {
	Source Expr
	Zone   Expr
}

func (a *AtTimeZone) ResolvedType() types.ElaboratedType { return types.Simple(types.DateTime) }
func (a *AtTimeZone) Nullable() bool                     { return true }
func (a *AtTimeZone) Children() []Expr                   { return []Expr{a.Source, a.Zone} }
func (a *AtTimeZone) WithChildren(children ...Expr) (Expr, error) {
	na := *a
	na.Source, na.Zone = children[0], children[1]
	return &na, nil
}
func (a *AtTimeZone) String() string { return fmt.Sprintf("%s AT TIME ZONE %s", a.Source, a.Zone) }
func (a *AtTimeZone) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	src, err := a.Source.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	zone, err := a.Zone.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if src.IsNull || zone.IsNull {
		return types.Null(types.Simple(types.DateTime)), nil
	}
	loc, err := time.LoadLocation(zone.Str)
	if err != nil {
		return types.Value{}, yerrorsDateTimeError("AT TIME ZONE", err.Error())
	}
	return types.Value{Type: types.Simple(types.DateTime), DateTime: src.DateTime.In(loc)}, nil
}

// JsonAccessKind selects whether JsonAccess returns a JSON fragment or
// an unquoted scalar (BigQuery's JSON_EXTRACT vs JSON_EXTRACT_SCALAR).
type JsonAccessKind int

const (
	JsonExtract JsonAccessKind = iota
	JsonExtractScalar
)

// JsonAccess reads a dotted/bracketed path out of a JSON value.
type JsonAccess struct {
	Source Expr
	Path   string
	Kind   JsonAccessKind
}

func (j *JsonAccess) ResolvedType() types.ElaboratedType {
	if j.Kind == JsonExtractScalar {
		return types.Simple(types.String)
	}
	return types.Simple(types.Json)
}
func (j *JsonAccess) Nullable() bool { return true }
func (j *JsonAccess) Children() []Expr { return []Expr{j.Source} }
func (j *JsonAccess) WithChildren(children ...Expr) (Expr, error) {
	nj := *j
	nj.Source = children[0]
	return &nj, nil
}
func (j *JsonAccess) String() string { return fmt.Sprintf("JSON_EXTRACT(%s, '%s')", j.Source, j.Path) }
func (j *JsonAccess) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	src, err := j.Source.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if src.IsNull {
		return types.Null(j.ResolvedType()), nil
	}
	var doc interface{}
	if err := json.Unmarshal([]byte(src.Json), &doc); err != nil {
		return types.Value{}, yerrorsInvalidQuery("malformed json: " + err.Error())
	}
	segs := jsonPathSegments(j.Path)
	for _, seg := range segs {
		m, ok := doc.(map[string]interface{})
		if !ok {
			return types.Null(j.ResolvedType()), nil
		}
		v, ok := m[seg]
		if !ok {
			return types.Null(j.ResolvedType()), nil
		}
		doc = v
	}
	if j.Kind == JsonExtractScalar {
		if s, ok := doc.(string); ok {
			return types.StringValue(s), nil
		}
		b, _ := json.Marshal(doc)
		return types.StringValue(string(b)), nil
	}
	b, _ := json.Marshal(doc)
	return types.Value{Type: types.Simple(types.Json), Json: string(b)}, nil
}

func jsonPathSegments(path string) []string {
	path = strings.TrimPrefix(path, "$")
	path = strings.Trim(path, ".")
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Like implements `str LIKE pattern [ESCAPE esc]` with the standard SQL
// `%`/`_` wildcards.
type Like struct {
	Str      Expr
	Pattern  Expr
	Escape   Expr // nil means no escape character
	Negated  bool
}

func (l *Like) ResolvedType() types.ElaboratedType { return types.Simple(types.Bool) }
func (l *Like) Nullable() bool                     { return true }
func (l *Like) Children() []Expr {
	out := []Expr{l.Str, l.Pattern}
	if l.Escape != nil {
		out = append(out, l.Escape)
	}
	return out
}
func (l *Like) WithChildren(children ...Expr) (Expr, error) {
	nl := *l
	nl.Str, nl.Pattern = children[0], children[1]
	if len(children) > 2 {
		nl.Escape = children[2]
	}
	return &nl, nil
}
func (l *Like) String() string {
	if l.Negated {
		return fmt.Sprintf("%s NOT LIKE %s", l.Str, l.Pattern)
	}
	return fmt.Sprintf("%s LIKE %s", l.Str, l.Pattern)
}
func (l *Like) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	str, err := l.Str.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	pat, err := l.Pattern.Eval(ctx, row)
	if err != nil {
		return types.Value{}, err
	}
	if str.IsNull || pat.IsNull {
		return types.Null(types.Simple(types.Bool)), nil
	}
	escape := byte(0)
	if l.Escape != nil {
		ev, err := l.Escape.Eval(ctx, row)
		if err != nil {
			return types.Value{}, err
		}
		if ev.IsNull {
			return types.Null(types.Simple(types.Bool)), nil
		}
		if len(ev.Str) > 0 {
			escape = ev.Str[0]
		}
	}
	re := likePatternToRegexp(pat.Str, escape)
	matched := re.MatchString(str.Str)
	if l.Negated {
		matched = !matched
	}
	return types.BoolValue(matched), nil
}

func likePatternToRegexp(pattern string, escape byte) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	runes := []byte(pattern)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if escape != 0 && c == escape && i+1 < len(runes) {
			b.WriteString(regexp.QuoteMeta(string(runes[i+1])))
			i++
			continue
		}
		switch c {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile("(?s)" + b.String())
	if err != nil {
		return regexp.MustCompile("$^") // matches nothing
	}
	return re
}

// Lambda is an anonymous function used by higher-order array functions
// (e.g. `ARRAY_FILTER(arr, e -> e > 0)`). Params bind to a scratch row
// appended after the enclosing row when Eval is invoked directly; in
// practice a higher-order ScalarFunction's Impl calls Body.Eval with
// its own row construction, so Lambda.Eval here only supports the
// degenerate zero-argument case.
type Lambda struct {
	Params []string
	Body   Expr
}

func (l *Lambda) ResolvedType() types.ElaboratedType { return l.Body.ResolvedType() }
func (l *Lambda) Nullable() bool                     { return l.Body.Nullable() }
func (l *Lambda) Children() []Expr                   { return []Expr{l.Body} }
func (l *Lambda) WithChildren(children ...Expr) (Expr, error) {
	nl := *l
	nl.Body = children[0]
	return &nl, nil
}
func (l *Lambda) String() string {
	return fmt.Sprintf("(%s) -> %s", strings.Join(l.Params, ", "), l.Body)
}
func (l *Lambda) Eval(ctx *sqlctx.Context, row []types.Value) (types.Value, error) {
	if len(l.Params) != 0 {
		return types.Value{}, unsupported("lambda must be invoked by its enclosing higher-order function")
	}
	return l.Body.Eval(ctx, row)
}
