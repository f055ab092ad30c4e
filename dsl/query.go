package dsl

// JoinClause describes one JOIN in a query: the join kind, the joined table,
// an optional alias and the ON condition.
type JoinClause struct {
	Type      JoinType
	Table     string
	Alias     string
	Condition Predicate
}

// NewJoinClause creates a join clause.
// Panics if joinType or table is empty, or condition is nil.
func NewJoinClause(joinType JoinType, table, alias string, condition Predicate) JoinClause {
	if joinType == "" {
		panic("dsl: join type must not be empty")
	}
	if table == "" {
		panic("dsl: join table must not be empty")
	}
	mustPredicate(condition, "join condition")
	return JoinClause{Type: joinType, Table: table, Alias: alias, Condition: condition}
}

// TableReference returns the effective reference for the joined rows: the
// alias when present, the table name otherwise. Later clauses that refer to
// this join's rows must use this reference.
func (c JoinClause) TableReference() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Table
}

// OrderByClause is one column/direction pair of an ORDER BY clause.
type OrderByClause struct {
	Column string
	Order  SortOrder
}

// Query is the aggregate, mutable-until-compiled representation of one
// SELECT statement's clauses.
//
// Builder accumulation semantics (a documented contract, easy to get subtly
// wrong when re-implemented):
//
//   - Select appends; repeated calls are cumulative, not replacing.
//   - From, Limit and Offset replace; the last call wins.
//   - Where ANDs onto any existing root predicate; the first call sets it.
//   - OrderBy and the join methods append in declaration order, which is
//     reflected 1:1 in compiled output.
//
// A Query is mutated only through its own builder methods. Once handed to the
// compiler it must be treated as read-only; the compiler never mutates it.
// Query values are not safe for concurrent mutation.
type Query struct {
	selectColumns []string
	fromTable     string
	joins         []JoinClause
	where         Predicate
	orderBy       []OrderByClause
	limit         *int
	offset        *int
}

// NewQuery creates an empty query builder.
func NewQuery() *Query {
	return &Query{}
}

// From creates a query builder with the source table already set.
func From(table string) *Query {
	return NewQuery().From(table)
}

// Select creates a query builder with an initial column list.
func Select(columns ...string) *Query {
	return NewQuery().Select(columns...)
}

// Select appends columns to the selected-column list.
// An empty accumulated list compiles to SELECT *.
func (q *Query) Select(columns ...string) *Query {
	q.selectColumns = append(q.selectColumns, columns...)
	return q
}

// From sets the source table. The last call wins.
func (q *Query) From(table string) *Query {
	q.fromTable = table
	return q
}

// Where attaches a predicate to the query. The first call sets the root
// predicate; subsequent calls AND the new predicate onto the existing one.
// This construction-time merge is distinct from explicit And/Or calls on
// predicates. Panics if predicate is nil.
func (q *Query) Where(predicate Predicate) *Query {
	mustPredicate(predicate, "where predicate")
	if q.where == nil {
		q.where = predicate
	} else {
		q.where = q.where.And(predicate)
	}
	return q
}

// OrderBy appends an ordering clause. The direction defaults to ascending
// when unspecified; at most one direction argument is honored.
func (q *Query) OrderBy(column string, order ...SortOrder) *Query {
	mustColumn(column)
	direction := SortAsc
	if len(order) > 0 {
		direction = order[0]
	}
	q.orderBy = append(q.orderBy, OrderByClause{Column: column, Order: direction})
	return q
}

// Limit sets the maximum number of rows to return. The last call wins.
// The value is reproduced faithfully by the compiler, including zero.
func (q *Query) Limit(limit int) *Query {
	q.limit = &limit
	return q
}

// Offset sets the number of rows to skip. The last call wins.
func (q *Query) Offset(offset int) *Query {
	q.offset = &offset
	return q
}

// Join appends a pre-built join clause, such as one derived from a
// RelationshipProperty.
func (q *Query) Join(clause JoinClause) *Query {
	mustPredicate(clause.Condition, "join condition")
	q.joins = append(q.joins, clause)
	return q
}

// InnerJoin appends an INNER JOIN clause.
func (q *Query) InnerJoin(table string, condition Predicate) *Query {
	return q.Join(NewJoinClause(JoinInner, table, "", condition))
}

// InnerJoinAs appends an INNER JOIN clause with a table alias.
func (q *Query) InnerJoinAs(table, alias string, condition Predicate) *Query {
	return q.Join(NewJoinClause(JoinInner, table, alias, condition))
}

// LeftJoin appends a LEFT JOIN clause.
func (q *Query) LeftJoin(table string, condition Predicate) *Query {
	return q.Join(NewJoinClause(JoinLeft, table, "", condition))
}

// LeftJoinAs appends a LEFT JOIN clause with a table alias.
func (q *Query) LeftJoinAs(table, alias string, condition Predicate) *Query {
	return q.Join(NewJoinClause(JoinLeft, table, alias, condition))
}

// RightJoin appends a RIGHT JOIN clause.
func (q *Query) RightJoin(table string, condition Predicate) *Query {
	return q.Join(NewJoinClause(JoinRight, table, "", condition))
}

// RightJoinAs appends a RIGHT JOIN clause with a table alias.
func (q *Query) RightJoinAs(table, alias string, condition Predicate) *Query {
	return q.Join(NewJoinClause(JoinRight, table, alias, condition))
}

// FullOuterJoin appends a FULL OUTER JOIN clause.
func (q *Query) FullOuterJoin(table string, condition Predicate) *Query {
	return q.Join(NewJoinClause(JoinFullOuter, table, "", condition))
}

// FullOuterJoinAs appends a FULL OUTER JOIN clause with a table alias.
func (q *Query) FullOuterJoinAs(table, alias string, condition Predicate) *Query {
	return q.Join(NewJoinClause(JoinFullOuter, table, alias, condition))
}

// SelectColumns returns a copy of the selected columns in declaration order.
func (q *Query) SelectColumns() []string {
	return append([]string(nil), q.selectColumns...)
}

// FromTable returns the source table, or "" if none was set.
func (q *Query) FromTable() string {
	return q.fromTable
}

// Joins returns a copy of the join clauses in declaration order.
func (q *Query) Joins() []JoinClause {
	return append([]JoinClause(nil), q.joins...)
}

// WherePredicate returns the root predicate, or nil if none was set.
func (q *Query) WherePredicate() Predicate {
	return q.where
}

// OrderByClauses returns a copy of the ordering clauses in declaration order.
func (q *Query) OrderByClauses() []OrderByClause {
	return append([]OrderByClause(nil), q.orderBy...)
}

// LimitValue returns the limit and whether one was set.
func (q *Query) LimitValue() (int, bool) {
	if q.limit == nil {
		return 0, false
	}
	return *q.limit, true
}

// OffsetValue returns the offset and whether one was set.
func (q *Query) OffsetValue() (int, bool) {
	if q.offset == nil {
		return 0, false
	}
	return *q.offset, true
}
