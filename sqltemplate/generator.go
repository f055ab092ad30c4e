// Package sqltemplate lowers dsl queries into parameterized SQL text
// templates plus a named set of bind values.
//
// The emitted templates use #{name} placeholder syntax, compatible with a
// named-parameter execution layer (package store expands them for
// database/sql). Every placeholder appearing in the SQL text is a key in the
// parameter map and vice versa.
//
// The compiler performs no semantic validation: it does not check table or
// column existence, type compatibility, or BETWEEN bound ordering. Its only
// responsibility is syntactic, deterministic lowering of a well-formed query.
package sqltemplate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/querykit/querykit/dsl"
)

// Generator compiles dsl queries to SQL templates with named parameters.
//
// A Generator holds mutable state (the parameter map and a counter) with no
// internal synchronization, so a single instance must not compile queries
// concurrently. SelectTemplate resets that state at the start of every call,
// so a Generator may be reused sequentially; Compile builds a fresh Generator
// per call and is the simplest entry point.
type Generator struct {
	params  map[string]any
	counter int
}

// New creates a Generator with empty parameter state.
func New() *Generator {
	g := &Generator{}
	g.Reset()
	return g
}

// Reset clears collected parameters and restarts the counter at 1.
// SelectTemplate calls this itself; Reset exists for callers that inspect
// Parameters between explicit compilation rounds.
func (g *Generator) Reset() {
	g.params = make(map[string]any)
	g.counter = 1
}

// Parameters returns a snapshot of the parameters collected by the most
// recent compilation. The returned map is a copy; mutating it cannot corrupt
// generator state.
func (g *Generator) Parameters() map[string]any {
	snapshot := make(map[string]any, len(g.params))
	for name, value := range g.params {
		snapshot[name] = value
	}
	return snapshot
}

// SelectTemplate compiles a query to a SELECT template in a single pre-order
// traversal. Parameters are numbered param1..paramN in the order they are
// encountered: join conditions first (in declared order, depth-first
// left-to-right within each predicate), then the WHERE predicate, then LIMIT,
// then OFFSET. This numbering is an observable contract; callers may depend
// on positional parameter order.
func (g *Generator) SelectTemplate(q *dsl.Query) string {
	g.Reset()

	var sql strings.Builder

	sql.WriteString("SELECT ")
	columns := q.SelectColumns()
	if len(columns) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(columns, ", "))
	}

	if table := q.FromTable(); table != "" {
		sql.WriteString(" FROM ")
		sql.WriteString(table)
	}

	for _, join := range q.Joins() {
		sql.WriteString(" ")
		sql.WriteString(string(join.Type))
		sql.WriteString(" ")
		sql.WriteString(join.Table)
		if join.Alias != "" {
			sql.WriteString(" AS ")
			sql.WriteString(join.Alias)
		}
		sql.WriteString(" ON ")
		sql.WriteString(g.visit(join.Condition))
	}

	if where := q.WherePredicate(); where != nil {
		sql.WriteString(" WHERE ")
		sql.WriteString(g.visit(where))
	}

	if orderBy := q.OrderByClauses(); len(orderBy) > 0 {
		sql.WriteString(" ORDER BY ")
		for i, clause := range orderBy {
			if i > 0 {
				sql.WriteString(", ")
			}
			sql.WriteString(clause.Column)
			sql.WriteString(" ")
			sql.WriteString(string(clause.Order))
		}
	}

	if limit, ok := q.LimitValue(); ok {
		sql.WriteString(" LIMIT #{")
		sql.WriteString(g.bind(limit))
		sql.WriteString("}")
	}

	if offset, ok := q.OffsetValue(); ok {
		sql.WriteString(" OFFSET #{")
		sql.WriteString(g.bind(offset))
		sql.WriteString("}")
	}

	return sql.String()
}

// PredicateTemplate compiles a bare predicate tree to a SQL fragment,
// resetting parameter state first. Used by callers that assemble non-SELECT
// statements (e.g. the repository's DELETE ... WHERE) around a compiled
// condition.
func (g *Generator) PredicateTemplate(p dsl.Predicate) string {
	g.Reset()
	return g.visit(p)
}

// bind allocates the next parameter slot, records the value and returns the
// placeholder name.
func (g *Generator) bind(value any) string {
	name := "param" + strconv.Itoa(g.counter)
	g.counter++
	g.params[name] = value
	return name
}

// visit recursively lowers a predicate tree, allocating parameter slots in
// depth-first, left-to-right order.
func (g *Generator) visit(p dsl.Predicate) string {
	switch pred := p.(type) {
	case dsl.SimplePredicate:
		return g.visitSimple(pred)
	case dsl.BetweenPredicate:
		return g.visitBetween(pred)
	case dsl.CompositePredicate:
		left := g.visit(pred.Left)
		right := g.visit(pred.Right)
		return "(" + left + " " + string(pred.Operator) + " " + right + ")"
	case dsl.NotPredicate:
		return "NOT (" + g.visit(pred.Inner) + ")"
	default:
		// The Predicate interface is sealed to package dsl; this is
		// unreachable for any value the dsl can construct.
		panic(fmt.Sprintf("sqltemplate: unsupported predicate type %T", p))
	}
}

func (g *Generator) visitSimple(pred dsl.SimplePredicate) string {
	// Null checks allocate no parameter and ignore the value field.
	if pred.Operator == dsl.OpIsNull || pred.Operator == dsl.OpIsNotNull {
		return pred.Column + " " + string(pred.Operator)
	}

	name := g.bind(pred.Value)

	if pred.CaseInsensitive {
		return "UPPER(" + pred.Column + ") " + string(pred.Operator) + " UPPER(#{" + name + "})"
	}
	return pred.Column + " " + string(pred.Operator) + " #{" + name + "}"
}

func (g *Generator) visitBetween(pred dsl.BetweenPredicate) string {
	// Exactly two slots, start then end. Bound order is never validated or
	// reordered; a reversed range compiles as given.
	startName := g.bind(pred.Start)
	endName := g.bind(pred.End)

	var sql strings.Builder
	sql.WriteString(pred.Column)
	sql.WriteString(" ")
	if pred.Negated {
		sql.WriteString("NOT ")
	}
	sql.WriteString("BETWEEN #{")
	sql.WriteString(startName)
	sql.WriteString("} AND #{")
	sql.WriteString(endName)
	sql.WriteString("}")
	return sql.String()
}

// Compile lowers a query with a fresh Generator and returns the SQL template
// together with its parameter map. This is the preferred entry point: no
// state is shared between compilations, so there is no reset contract to
// honor.
func Compile(q *dsl.Query) (string, map[string]any) {
	g := New()
	sql := g.SelectTemplate(q)
	return sql, g.Parameters()
}

// CompilePredicate lowers a bare predicate with a fresh Generator and
// returns the SQL fragment together with its parameter map.
func CompilePredicate(p dsl.Predicate) (string, map[string]any) {
	g := New()
	sql := g.PredicateTemplate(p)
	return sql, g.Parameters()
}
