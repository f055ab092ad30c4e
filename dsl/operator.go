package dsl

// Operator is a comparison operator usable in a simple predicate.
// Each constant carries its literal SQL keyword. The set is closed; there is
// no runtime extension point.
type Operator string

const (
	// OpEq is the equality operator (=).
	OpEq Operator = "="

	// OpNe is the inequality operator (!=).
	OpNe Operator = "!="

	// OpGt is the greater-than operator (>).
	OpGt Operator = ">"

	// OpGte is the greater-than-or-equal operator (>=).
	OpGte Operator = ">="

	// OpLt is the less-than operator (<).
	OpLt Operator = "<"

	// OpLte is the less-than-or-equal operator (<=).
	OpLte Operator = "<="

	// OpLike is the LIKE operator for pattern matching.
	OpLike Operator = "LIKE"

	// OpNotLike is the NOT LIKE operator for pattern matching.
	OpNotLike Operator = "NOT LIKE"

	// OpIn is the IN operator for membership tests.
	OpIn Operator = "IN"

	// OpNotIn is the NOT IN operator for membership tests.
	OpNotIn Operator = "NOT IN"

	// OpIsNull is the IS NULL operator. Predicates with this operator carry
	// no value.
	OpIsNull Operator = "IS NULL"

	// OpIsNotNull is the IS NOT NULL operator. Predicates with this operator
	// carry no value.
	OpIsNotNull Operator = "IS NOT NULL"

	// OpBetween is the BETWEEN operator. Range predicates are represented by
	// BetweenPredicate rather than SimplePredicate; the constant exists so
	// the operator vocabulary is complete.
	OpBetween Operator = "BETWEEN"

	// OpNotBetween is the NOT BETWEEN operator. See OpBetween.
	OpNotBetween Operator = "NOT BETWEEN"
)

// LogicalOperator combines two predicates in a CompositePredicate.
type LogicalOperator string

const (
	// LogicalAnd is the AND combinator.
	LogicalAnd LogicalOperator = "AND"

	// LogicalOr is the OR combinator.
	LogicalOr LogicalOperator = "OR"
)

// JoinType identifies the kind of a JOIN clause. Each constant carries the
// full SQL keyword sequence emitted by the compiler.
type JoinType string

const (
	// JoinInner returns only rows with matching values in both tables.
	JoinInner JoinType = "INNER JOIN"

	// JoinLeft returns all rows from the left table and matching rows from
	// the joined table.
	JoinLeft JoinType = "LEFT JOIN"

	// JoinRight returns all rows from the joined table and matching rows
	// from the left table.
	JoinRight JoinType = "RIGHT JOIN"

	// JoinFullOuter returns all rows with a match in either table.
	JoinFullOuter JoinType = "FULL OUTER JOIN"
)

// SortOrder is the direction of an ORDER BY clause.
type SortOrder string

const (
	// SortAsc sorts ascending.
	SortAsc SortOrder = "ASC"

	// SortDesc sorts descending.
	SortDesc SortOrder = "DESC"
)
