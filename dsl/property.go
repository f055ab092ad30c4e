package dsl

import "cmp"

// Property is a typed handle for a single column. It is the base refinement:
// any value type supports equality, nullity and membership tests.
//
// Properties are the only producers of predicate nodes; every builder method
// returns a newly constructed node and never mutates shared state. Handles
// are typically declared once by the metamodel generator and shared freely.
type Property[T any] struct {
	column string
}

// NewProperty creates a typed column handle.
// Panics if column is empty.
func NewProperty[T any](column string) Property[T] {
	mustColumn(column)
	return Property[T]{column: column}
}

// ColumnName returns the column this handle refers to.
func (p Property[T]) ColumnName() string {
	return p.column
}

// Eq creates an equality predicate: column = value.
func (p Property[T]) Eq(value T) Predicate {
	return SimplePredicate{Column: p.column, Operator: OpEq, Value: value}
}

// Ne creates an inequality predicate: column != value.
func (p Property[T]) Ne(value T) Predicate {
	return SimplePredicate{Column: p.column, Operator: OpNe, Value: value}
}

// IsNull creates a null-check predicate: column IS NULL.
func (p Property[T]) IsNull() Predicate {
	return SimplePredicate{Column: p.column, Operator: OpIsNull}
}

// IsNotNull creates a not-null-check predicate: column IS NOT NULL.
func (p Property[T]) IsNotNull() Predicate {
	return SimplePredicate{Column: p.column, Operator: OpIsNotNull}
}

// In creates a membership predicate: column IN (values...).
// The whole list is carried as a single bound parameter; the execution layer
// expands it into a placeholder list.
func (p Property[T]) In(values ...T) Predicate {
	return SimplePredicate{Column: p.column, Operator: OpIn, Value: valueList(values)}
}

// NotIn creates a negated membership predicate: column NOT IN (values...).
func (p Property[T]) NotIn(values ...T) Predicate {
	return SimplePredicate{Column: p.column, Operator: OpNotIn, Value: valueList(values)}
}

// valueList widens a typed slice to []any so the compiler and execution layer
// handle membership lists uniformly regardless of element type.
func valueList[T any](values []T) []any {
	list := make([]any, len(values))
	for i, v := range values {
		list[i] = v
	}
	return list
}

// ComparableProperty is a column handle for totally ordered value types.
// It layers range operations on top of the base Property refinement.
type ComparableProperty[T cmp.Ordered] struct {
	Property[T]
}

// NewComparableProperty creates a column handle for an ordered value type.
// Panics if column is empty.
func NewComparableProperty[T cmp.Ordered](column string) ComparableProperty[T] {
	return ComparableProperty[T]{Property: NewProperty[T](column)}
}

// Gt creates a greater-than predicate: column > value.
func (p ComparableProperty[T]) Gt(value T) Predicate {
	return SimplePredicate{Column: p.column, Operator: OpGt, Value: value}
}

// Gte creates a greater-than-or-equal predicate: column >= value.
func (p ComparableProperty[T]) Gte(value T) Predicate {
	return SimplePredicate{Column: p.column, Operator: OpGte, Value: value}
}

// Lt creates a less-than predicate: column < value.
func (p ComparableProperty[T]) Lt(value T) Predicate {
	return SimplePredicate{Column: p.column, Operator: OpLt, Value: value}
}

// Lte creates a less-than-or-equal predicate: column <= value.
func (p ComparableProperty[T]) Lte(value T) Predicate {
	return SimplePredicate{Column: p.column, Operator: OpLte, Value: value}
}

// Between creates a range predicate: column BETWEEN start AND end.
// Both bounds are inclusive. Range direction is not validated; a reversed
// range compiles fine and simply matches no rows on most databases.
func (p ComparableProperty[T]) Between(start, end T) Predicate {
	return BetweenPredicate{Column: p.column, Start: start, End: end}
}

// NotBetween creates a negated range predicate: column NOT BETWEEN start AND end.
func (p ComparableProperty[T]) NotBetween(start, end T) Predicate {
	return BetweenPredicate{Column: p.column, Start: start, End: end, Negated: true}
}
