package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperty_Comparisons(t *testing.T) {
	status := NewProperty[string]("status")

	assert.Equal(t, "status", status.ColumnName())

	eq, ok := status.Eq("active").(SimplePredicate)
	require.True(t, ok)
	assert.Equal(t, SimplePredicate{Column: "status", Operator: OpEq, Value: "active"}, eq)

	ne, ok := status.Ne("deleted").(SimplePredicate)
	require.True(t, ok)
	assert.Equal(t, OpNe, ne.Operator)
}

func TestProperty_NullChecks(t *testing.T) {
	deleted := NewProperty[string]("deleted_at")

	isNull, ok := deleted.IsNull().(SimplePredicate)
	require.True(t, ok)
	assert.Equal(t, OpIsNull, isNull.Operator)
	assert.Nil(t, isNull.Value)

	notNull, ok := deleted.IsNotNull().(SimplePredicate)
	require.True(t, ok)
	assert.Equal(t, OpIsNotNull, notNull.Operator)
}

func TestProperty_In(t *testing.T) {
	status := NewProperty[string]("status")

	in, ok := status.In("new", "open").(SimplePredicate)
	require.True(t, ok)
	assert.Equal(t, OpIn, in.Operator)
	// The whole list is one bound value, widened to []any.
	assert.Equal(t, []any{"new", "open"}, in.Value)

	notIn, ok := status.NotIn("closed").(SimplePredicate)
	require.True(t, ok)
	assert.Equal(t, OpNotIn, notIn.Operator)
	assert.Equal(t, []any{"closed"}, notIn.Value)
}

func TestProperty_EmptyColumn(t *testing.T) {
	require.Panics(t, func() { NewProperty[int]("") })
	require.Panics(t, func() { NewComparableProperty[int]("") })
	require.Panics(t, func() { NewStringProperty("") })
}

func TestComparableProperty_Ranges(t *testing.T) {
	age := NewComparableProperty[int]("age")

	testCases := []struct {
		name string
		pred Predicate
		op   Operator
	}{
		{"gt", age.Gt(18), OpGt},
		{"gte", age.Gte(18), OpGte},
		{"lt", age.Lt(65), OpLt},
		{"lte", age.Lte(65), OpLte},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			simple, ok := tc.pred.(SimplePredicate)
			require.True(t, ok)
			assert.Equal(t, "age", simple.Column)
			assert.Equal(t, tc.op, simple.Operator)
		})
	}
}

func TestComparableProperty_Between(t *testing.T) {
	age := NewComparableProperty[int]("age")

	between, ok := age.Between(18, 65).(BetweenPredicate)
	require.True(t, ok)
	assert.Equal(t, BetweenPredicate{Column: "age", Start: 18, End: 65}, between)

	notBetween, ok := age.NotBetween(18, 65).(BetweenPredicate)
	require.True(t, ok)
	assert.True(t, notBetween.Negated)
}

func TestStringProperty_Like(t *testing.T) {
	name := NewStringProperty("name")

	like, ok := name.Like("jo%").(SimplePredicate)
	require.True(t, ok)
	assert.Equal(t, OpLike, like.Operator)
	assert.Equal(t, "jo%", like.Value)
	assert.False(t, like.CaseInsensitive)

	notLike, ok := name.NotLike("jo%").(SimplePredicate)
	require.True(t, ok)
	assert.Equal(t, OpNotLike, notLike.Operator)
}

func TestStringProperty_SubstringHelpers(t *testing.T) {
	name := NewStringProperty("name")

	testCases := []struct {
		name    string
		pred    Predicate
		pattern string
	}{
		{"contains", name.Contains("jo"), "%jo%"},
		{"starts with", name.StartsWith("jo"), "jo%"},
		{"ends with", name.EndsWith("jo"), "%jo"},
		{"contains escapes percent", name.Contains("50%"), `%50\%%`},
		{"contains escapes underscore", name.Contains("a_b"), `%a\_b%`},
		{"contains escapes backslash first", name.Contains(`a\%`), `%a\\\%%`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			simple, ok := tc.pred.(SimplePredicate)
			require.True(t, ok)
			assert.Equal(t, OpLike, simple.Operator)
			assert.Equal(t, tc.pattern, simple.Value)
		})
	}
}

func TestStringProperty_ILike(t *testing.T) {
	email := NewStringProperty("email")

	ilike, ok := email.ILike("%@example.com").(SimplePredicate)
	require.True(t, ok)
	assert.Equal(t, OpLike, ilike.Operator)
	assert.True(t, ilike.CaseInsensitive)
	assert.Equal(t, "%@example.com", ilike.Value)
}

func TestStringProperty_ContainsIgnoreCase(t *testing.T) {
	email := NewStringProperty("email")

	pred, ok := email.ContainsIgnoreCase("Example").(SimplePredicate)
	require.True(t, ok)
	assert.True(t, pred.CaseInsensitive)
	assert.Equal(t, "%Example%", pred.Value)
}
