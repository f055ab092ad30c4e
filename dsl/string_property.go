package dsl

import "strings"

// StringProperty is a column handle for text columns. It layers pattern
// matching on top of the base Property refinement.
//
// The substring helpers (Contains, StartsWith, EndsWith and their
// case-insensitive variants) escape the LIKE metacharacters %, _ and the
// escape character \ in the literal portion before wrapping it with
// wildcards, so user input cannot smuggle wildcards into the pattern.
type StringProperty struct {
	Property[string]
}

// NewStringProperty creates a column handle for a text column.
// Panics if column is empty.
func NewStringProperty(column string) StringProperty {
	return StringProperty{Property: NewProperty[string](column)}
}

// Like creates a pattern-match predicate: column LIKE pattern.
// The pattern may contain % and _ wildcards; it is passed through verbatim.
func (p StringProperty) Like(pattern string) Predicate {
	return SimplePredicate{Column: p.column, Operator: OpLike, Value: pattern}
}

// NotLike creates a negated pattern-match predicate: column NOT LIKE pattern.
func (p StringProperty) NotLike(pattern string) Predicate {
	return SimplePredicate{Column: p.column, Operator: OpNotLike, Value: pattern}
}

// Contains matches values containing the given substring:
// column LIKE '%substring%' with the substring escaped.
func (p StringProperty) Contains(substring string) Predicate {
	return p.Like("%" + escapeLike(substring) + "%")
}

// StartsWith matches values beginning with the given prefix:
// column LIKE 'prefix%' with the prefix escaped.
func (p StringProperty) StartsWith(prefix string) Predicate {
	return p.Like(escapeLike(prefix) + "%")
}

// EndsWith matches values ending with the given suffix:
// column LIKE '%suffix' with the suffix escaped.
func (p StringProperty) EndsWith(suffix string) Predicate {
	return p.Like("%" + escapeLike(suffix))
}

// ILike creates a case-insensitive pattern-match predicate. The compiler
// lowers it as UPPER(column) LIKE UPPER(placeholder), which relies on the
// UPPER function being available on the target database.
func (p StringProperty) ILike(pattern string) Predicate {
	return SimplePredicate{
		Column:          p.column,
		Operator:        OpLike,
		Value:           pattern,
		CaseInsensitive: true,
	}
}

// ContainsIgnoreCase matches values containing the given substring,
// ignoring case.
func (p StringProperty) ContainsIgnoreCase(substring string) Predicate {
	return p.ILike("%" + escapeLike(substring) + "%")
}

// escapeLike escapes LIKE metacharacters in a literal value.
// The escape character itself must be escaped first.
func escapeLike(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "%", `\%`)
	value = strings.ReplaceAll(value, "_", `\_`)
	return value
}
