package dsl

import "fmt"

// Predicate is a boolean-valued expression node usable in a WHERE or JOIN-ON
// clause.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the template compiler.
//
// Node kinds:
//   - SimplePredicate: column operator value (=, !=, LIKE, IN, IS NULL, ...)
//   - BetweenPredicate: column [NOT] BETWEEN start AND end
//   - CompositePredicate: (left AND/OR right)
//   - NotPredicate: NOT (inner)
//
// Predicates are structurally immutable values. Combining them with And, Or
// and Not always allocates a new node and never mutates shared state.
type Predicate interface {
	// And combines this predicate with another using AND logic.
	And(other Predicate) Predicate

	// Or combines this predicate with another using OR logic.
	Or(other Predicate) Predicate

	// Not negates this predicate.
	Not() Predicate

	predicateNode() // Marker method - seals interface to this package
}

// SimplePredicate is a single comparison: column operator value.
//
// Value is ignored for OpIsNull and OpIsNotNull and required for every other
// operator. CaseInsensitive marks LIKE predicates built through
// StringProperty.ILike; the compiler lowers those as
// UPPER(column) LIKE UPPER(placeholder).
type SimplePredicate struct {
	Column          string
	Operator        Operator
	Value           any
	CaseInsensitive bool
}

// NewSimplePredicate creates a simple comparison predicate.
// Panics if column or operator is empty; both are mandatory.
func NewSimplePredicate(column string, operator Operator, value any) SimplePredicate {
	mustColumn(column)
	if operator == "" {
		panic("dsl: operator must not be empty")
	}
	return SimplePredicate{Column: column, Operator: operator, Value: value}
}

func (p SimplePredicate) And(other Predicate) Predicate { return newComposite(p, LogicalAnd, other) }
func (p SimplePredicate) Or(other Predicate) Predicate  { return newComposite(p, LogicalOr, other) }
func (p SimplePredicate) Not() Predicate                { return NotPredicate{Inner: p} }
func (SimplePredicate) predicateNode()                  {}

// BetweenPredicate is a range comparison: column [NOT] BETWEEN Start AND End.
//
// Start and End are both mandatory. No invariant requires Start <= End; range
// direction is the caller's responsibility and the compiler neither reorders
// nor validates the bounds.
type BetweenPredicate struct {
	Column  string
	Start   any
	End     any
	Negated bool
}

// NewBetweenPredicate creates a range predicate. Negated selects NOT BETWEEN.
// Panics if column is empty or either bound is nil.
func NewBetweenPredicate(column string, start, end any, negated bool) BetweenPredicate {
	mustColumn(column)
	if start == nil {
		panic("dsl: BETWEEN start value must not be nil")
	}
	if end == nil {
		panic("dsl: BETWEEN end value must not be nil")
	}
	return BetweenPredicate{Column: column, Start: start, End: end, Negated: negated}
}

func (p BetweenPredicate) And(other Predicate) Predicate { return newComposite(p, LogicalAnd, other) }
func (p BetweenPredicate) Or(other Predicate) Predicate  { return newComposite(p, LogicalOr, other) }
func (p BetweenPredicate) Not() Predicate                { return NotPredicate{Inner: p} }
func (BetweenPredicate) predicateNode()                  {}

// CompositePredicate combines two predicates with AND or OR.
//
// Composites always form a binary tree; the n-ary combinators All and Any
// fold left, so All(a, b, c) nests as ((a AND b) AND c).
type CompositePredicate struct {
	Left     Predicate
	Operator LogicalOperator
	Right    Predicate
}

func newComposite(left Predicate, op LogicalOperator, right Predicate) CompositePredicate {
	if left == nil {
		panic("dsl: left predicate must not be nil")
	}
	if right == nil {
		panic("dsl: right predicate must not be nil")
	}
	return CompositePredicate{Left: left, Operator: op, Right: right}
}

func (p CompositePredicate) And(other Predicate) Predicate {
	return newComposite(p, LogicalAnd, other)
}

func (p CompositePredicate) Or(other Predicate) Predicate {
	return newComposite(p, LogicalOr, other)
}

func (p CompositePredicate) Not() Predicate { return NotPredicate{Inner: p} }
func (CompositePredicate) predicateNode()   {}

// NotPredicate negates another predicate. Wrapping a NotPredicate in another
// NotPredicate is representable; double negation is not collapsed.
type NotPredicate struct {
	Inner Predicate
}

func (p NotPredicate) And(other Predicate) Predicate { return newComposite(p, LogicalAnd, other) }
func (p NotPredicate) Or(other Predicate) Predicate  { return newComposite(p, LogicalOr, other) }
func (p NotPredicate) Not() Predicate                { return NotPredicate{Inner: p} }
func (NotPredicate) predicateNode()                  {}

func mustColumn(column string) {
	if column == "" {
		panic("dsl: column name must not be empty")
	}
}

func mustPredicate(p Predicate, what string) {
	if p == nil {
		panic(fmt.Sprintf("dsl: %s must not be nil", what))
	}
}
