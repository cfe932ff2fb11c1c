package analyzer

import (
	"github.com/yachtsql/yachtsql/sql/expr"
	"github.com/yachtsql/yachtsql/sql/types"
)

func schemaOf(names ...string) types.Schema {
	s := make(types.Schema, len(names))
	for i, n := range names {
		s[i] = types.NewField(n, types.Simple(types.Int64), true)
	}
	return s
}

func col(idx int, name string) *expr.Column {
	return expr.NewResolvedColumn(idx, "", name, types.Simple(types.Int64), true)
}

func nonNullCol(idx int, name string) *expr.Column {
	return expr.NewResolvedColumn(idx, "", name, types.Simple(types.Int64), false)
}

func lit(v int64) *expr.Literal {
	return expr.NewLiteral(types.Int64Value(v))
}
