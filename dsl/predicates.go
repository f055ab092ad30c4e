package dsl

// Free-function combinators over predicates. These mirror the fluent methods
// on Predicate so arbitrary trees can be combined without an instance to hang
// the call on.

// Not negates the given predicate.
// Panics if predicate is nil.
func Not(predicate Predicate) Predicate {
	mustPredicate(predicate, "predicate")
	return predicate.Not()
}

// All combines the given predicates with AND logic, folding left:
// All(a, b, c) is ((a AND b) AND c).
// Panics if no predicates are given or any element is nil; an empty
// conjunction has no meaningful value and is reported at this call rather
// than defaulting to a vacuous truth.
func All(predicates ...Predicate) Predicate {
	return fold(LogicalAnd, predicates)
}

// Any combines the given predicates with OR logic, folding left:
// Any(a, b, c) is ((a OR b) OR c).
// Panics if no predicates are given or any element is nil.
func Any(predicates ...Predicate) Predicate {
	return fold(LogicalOr, predicates)
}

func fold(op LogicalOperator, predicates []Predicate) Predicate {
	if len(predicates) == 0 {
		panic("dsl: at least one predicate is required")
	}
	mustPredicate(predicates[0], "predicate")
	result := predicates[0]
	for _, p := range predicates[1:] {
		result = newComposite(result, op, p)
	}
	return result
}

// AlwaysTrue returns a predicate that evaluates to true on every row.
//
// The predicate compares the constant 1 to a bound parameter holding 1, so it
// works on databases without boolean literal syntax and goes through the same
// parameterized path as every other comparison. Useful as a neutral starting
// point for dynamically assembled filters.
func AlwaysTrue() Predicate {
	return SimplePredicate{Column: "1", Operator: OpEq, Value: 1}
}

// AlwaysFalse returns a predicate that evaluates to false on every row.
// Same comparison shape as AlwaysTrue with a different bound constant.
func AlwaysFalse() Predicate {
	return SimplePredicate{Column: "1", Operator: OpEq, Value: 0}
}

// When returns predicate if condition holds and AlwaysTrue otherwise.
// Panics if predicate is nil.
func When(condition bool, predicate Predicate) Predicate {
	mustPredicate(predicate, "predicate")
	if condition {
		return predicate
	}
	return AlwaysTrue()
}

// WhenElse returns ifTrue if condition holds and ifFalse otherwise.
// Panics if either predicate is nil.
func WhenElse(condition bool, ifTrue, ifFalse Predicate) Predicate {
	mustPredicate(ifTrue, "ifTrue predicate")
	mustPredicate(ifFalse, "ifFalse predicate")
	if condition {
		return ifTrue
	}
	return ifFalse
}
