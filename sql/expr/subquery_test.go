package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yachtsql/yachtsql/sql/types"
)

func TestInUnnestMatchesElement(t *testing.T) {
	arr := &Array{
		Elements: []Expr{NewLiteral(types.Int64Value(1)), NewLiteral(types.Int64Value(2))},
		Type:     types.ArrayOf(types.Simple(types.Int64)),
	}
	in := &InUnnest{Expr: NewLiteral(types.Int64Value(2)), Array: arr}
	v, err := in.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.Bool)
}

func TestInUnnestNoMatchWithNullElementIsUnknown(t *testing.T) {
	arr := &Array{
		Elements: []Expr{NewLiteral(types.Int64Value(1)), NewLiteral(types.NullOf(types.Int64))},
		Type:     types.ArrayOf(types.Simple(types.Int64)),
	}
	in := &InUnnest{Expr: NewLiteral(types.Int64Value(9)), Array: arr}
	v, err := in.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull)
}

func TestInUnnestNullExprIsUnknown(t *testing.T) {
	arr := &Array{
		Elements: []Expr{NewLiteral(types.Int64Value(1))},
		Type:     types.ArrayOf(types.Simple(types.Int64)),
	}
	in := &InUnnest{Expr: NewLiteral(types.NullOf(types.Int64)), Array: arr}
	v, err := in.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull)
}

func TestInUnnestNegated(t *testing.T) {
	arr := &Array{
		Elements: []Expr{NewLiteral(types.Int64Value(1)), NewLiteral(types.Int64Value(2))},
		Type:     types.ArrayOf(types.Simple(types.Int64)),
	}
	in := &InUnnest{Expr: NewLiteral(types.Int64Value(5)), Array: arr, Negated: true}
	v, err := in.Eval(nil, nil)
	require.NoError(t, err)
	assert.True(t, v.Bool)
}

type fakeSubqueryPlan struct {
	schema types.Schema
}

func (f *fakeSubqueryPlan) OutputSchema() types.Schema { return f.schema }
func (f *fakeSubqueryPlan) String() string             { return "fakeplan" }

func TestExistsChildrenIncludesSubquery(t *testing.T) {
	sub := &Subquery{Plan: &fakeSubqueryPlan{}, Type: types.Simple(types.Int64)}
	ex := &Exists{Subquery: sub}
	assert.Len(t, ex.Children(), 1)
	assert.False(t, ex.Nullable())
}

func TestInSubqueryWithChildrenRejectsWrongType(t *testing.T) {
	in := &InSubquery{Expr: NewLiteral(types.Int64Value(1)), Subquery: &Subquery{Plan: &fakeSubqueryPlan{}}}
	_, err := in.WithChildren(NewLiteral(types.Int64Value(1)), NewLiteral(types.Int64Value(2)))
	require.Error(t, err)
}
