package types

import "fmt"

// Field is one column of a Schema: a name, its type, nullability, and
// an optional source table for qualified resolution (spec.md section
// 3, "Schema").
type Field struct {
	Name       string
	Type       ElaboratedType
	Nullable   bool
	SourceName string // optional source_table; "" if none
}

// Schema is an ordered sequence of Fields. Unlike physical storage,
// intermediate schemas may legally contain duplicate names (e.g. after
// a natural join); spec.md section 3 requires those to be
// disambiguated only when lowered to physical storage, via
// ToStorageSchema.
type Schema []Field

// NewField is a convenience constructor.
func NewField(name string, t ElaboratedType, nullable bool) Field {
	return Field{Name: name, Type: t, Nullable: nullable}
}

// FieldNames returns the (possibly duplicated) names in order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// IndexOf returns the index of the first field named name, or -1.
func (s Schema) IndexOf(name string) int {
	for i, f := range s {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// ToStorageSchema deterministically disambiguates duplicate names by
// occurrence order, suffixing the second and later occurrences
// `_1`, `_2`, ... per spec.md section 3 and the round-trip property in
// section 8. The first occurrence of a name is never suffixed.
func (s Schema) ToStorageSchema() Schema {
	counts := make(map[string]int, len(s))
	out := make(Schema, len(s))
	for i, f := range s {
		n := counts[f.Name]
		counts[f.Name] = n + 1
		nf := f
		if n > 0 {
			nf.Name = fmt.Sprintf("%s_%d", f.Name, n)
		}
		out[i] = nf
	}
	return out
}

// Concat appends two schemas, used when building join/aggregate output
// schemas.
func (s Schema) Concat(other Schema) Schema {
	out := make(Schema, 0, len(s)+len(other))
	out = append(out, s...)
	out = append(out, other...)
	return out
}
