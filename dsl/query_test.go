package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_SelectAppends(t *testing.T) {
	q := NewQuery().Select("id", "name").Select("email")

	assert.Equal(t, []string{"id", "name", "email"}, q.SelectColumns())
}

func TestQuery_FromReplaces(t *testing.T) {
	q := From("users").From("accounts")

	assert.Equal(t, "accounts", q.FromTable())
}

func TestQuery_WhereMergesWithAnd(t *testing.T) {
	a := NewSimplePredicate("a", OpEq, 1)
	b := NewSimplePredicate("b", OpEq, 2)

	q := From("users").Where(a)
	assert.Equal(t, Predicate(a), q.WherePredicate())

	q.Where(b)
	merged, ok := q.WherePredicate().(CompositePredicate)
	require.True(t, ok)
	assert.Equal(t, LogicalAnd, merged.Operator)
	assert.Equal(t, a, merged.Left)
	assert.Equal(t, b, merged.Right)
}

func TestQuery_WhereNil(t *testing.T) {
	require.Panics(t, func() {
		From("users").Where(nil)
	})
}

func TestQuery_OrderByAppends(t *testing.T) {
	q := From("users").
		OrderBy("name").
		OrderBy("created_at", SortDesc)

	clauses := q.OrderByClauses()
	require.Len(t, clauses, 2)
	assert.Equal(t, OrderByClause{Column: "name", Order: SortAsc}, clauses[0])
	assert.Equal(t, OrderByClause{Column: "created_at", Order: SortDesc}, clauses[1])
}

func TestQuery_OrderByEmptyColumn(t *testing.T) {
	require.Panics(t, func() {
		From("users").OrderBy("")
	})
}

func TestQuery_LimitOffsetLastWins(t *testing.T) {
	q := From("users").Limit(10).Limit(25).Offset(5).Offset(50)

	limit, ok := q.LimitValue()
	require.True(t, ok)
	assert.Equal(t, 25, limit)

	offset, ok := q.OffsetValue()
	require.True(t, ok)
	assert.Equal(t, 50, offset)
}

func TestQuery_LimitZeroIsSet(t *testing.T) {
	q := From("users").Limit(0)

	limit, ok := q.LimitValue()
	require.True(t, ok)
	assert.Equal(t, 0, limit)
}

func TestQuery_Unset(t *testing.T) {
	q := NewQuery()

	assert.Empty(t, q.SelectColumns())
	assert.Empty(t, q.FromTable())
	assert.Nil(t, q.WherePredicate())
	assert.Empty(t, q.Joins())
	assert.Empty(t, q.OrderByClauses())

	_, ok := q.LimitValue()
	assert.False(t, ok)
	_, ok = q.OffsetValue()
	assert.False(t, ok)
}

func TestQuery_JoinsAppendInOrder(t *testing.T) {
	cond := NewSimplePredicate("user_id", OpEq, "users.id")

	q := From("orders").
		InnerJoin("users", cond).
		LeftJoinAs("addresses", "a", NewSimplePredicate("address_id", OpEq, "a.id"))

	joins := q.Joins()
	require.Len(t, joins, 2)

	assert.Equal(t, JoinInner, joins[0].Type)
	assert.Equal(t, "users", joins[0].Table)
	assert.Equal(t, "users", joins[0].TableReference())

	assert.Equal(t, JoinLeft, joins[1].Type)
	assert.Equal(t, "addresses", joins[1].Table)
	assert.Equal(t, "a", joins[1].Alias)
	assert.Equal(t, "a", joins[1].TableReference())
}

func TestQuery_JoinHelperKinds(t *testing.T) {
	cond := NewSimplePredicate("x", OpEq, "t.y")

	q := From("base").
		RightJoin("r1", cond).
		RightJoinAs("r2", "ra", cond).
		FullOuterJoin("f1", cond).
		FullOuterJoinAs("f2", "fa", cond).
		InnerJoinAs("i2", "ia", cond).
		LeftJoin("l1", cond)

	joins := q.Joins()
	require.Len(t, joins, 6)
	assert.Equal(t, JoinRight, joins[0].Type)
	assert.Equal(t, "ra", joins[1].Alias)
	assert.Equal(t, JoinFullOuter, joins[2].Type)
	assert.Equal(t, "fa", joins[3].Alias)
	assert.Equal(t, JoinInner, joins[4].Type)
	assert.Equal(t, JoinLeft, joins[5].Type)
}

func TestNewJoinClause_Validation(t *testing.T) {
	cond := NewSimplePredicate("x", OpEq, 1)

	require.Panics(t, func() { NewJoinClause("", "users", "", cond) })
	require.Panics(t, func() { NewJoinClause(JoinInner, "", "", cond) })
	require.Panics(t, func() { NewJoinClause(JoinInner, "users", "", nil) })
}

func TestQuery_AccessorsReturnCopies(t *testing.T) {
	q := From("users").Select("id").OrderBy("id")

	cols := q.SelectColumns()
	cols[0] = "mutated"
	assert.Equal(t, []string{"id"}, q.SelectColumns())

	orders := q.OrderByClauses()
	orders[0].Column = "mutated"
	assert.Equal(t, "id", q.OrderByClauses()[0].Column)
}

func TestQuery_BuilderChaining(t *testing.T) {
	q := Select("id", "username").
		From("users").
		Where(NewStringProperty("email").EndsWith("@example.com")).
		OrderBy("username").
		Limit(20).
		Offset(40)

	assert.Equal(t, "users", q.FromTable())
	assert.NotNil(t, q.WherePredicate())
	assert.Len(t, q.OrderByClauses(), 1)
}
