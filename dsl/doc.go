// Package dsl provides a type-safe, in-memory representation of SQL SELECT
// queries built through a fluent API.
//
// Queries are assembled from three layers:
//
//   - Typed column handles (Property, ComparableProperty, StringProperty,
//     RelationshipProperty) produce predicate nodes for a single column.
//   - Predicates form trees via And/Or/Not and the combinators in this
//     package; the node kinds are a closed set (SimplePredicate,
//     BetweenPredicate, CompositePredicate, NotPredicate).
//   - Query accumulates SELECT/FROM/JOIN/WHERE/ORDER BY/LIMIT/OFFSET clauses
//     through builder methods.
//
// The dsl package carries no SQL knowledge beyond operator keywords. Lowering
// a Query to a parameterized SQL template is the job of package sqltemplate.
//
// All values in this package are either immutable after construction or
// privately owned by one builder call chain, so building queries is safe for
// unrestricted concurrent use.
package dsl
