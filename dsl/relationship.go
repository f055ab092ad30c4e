package dsl

// RelationshipKind identifies the direction of a declared association.
type RelationshipKind string

const (
	// ManyToOne is a relationship where the local table holds a foreign key
	// into the target table (e.g. order.user_id -> users.id).
	ManyToOne RelationshipKind = "MANY_TO_ONE"

	// OneToMany is a relationship where the target table holds a foreign key
	// back into the local table (e.g. users.id <- orders.user_id).
	OneToMany RelationshipKind = "ONE_TO_MANY"
)

// RelationshipProperty is a column handle augmented with enough metadata to
// derive JOIN clauses to an associated table. The base Property refinement
// still applies, so the underlying column supports equality and nullity
// tests directly.
//
// The derived join condition's sides depend on the relationship kind:
//
//	ManyToOne:  local join column = target referenced column
//	OneToMany:  local referenced column = target join column
//
// where "target" is the joined table's effective reference (alias if one was
// given, table name otherwise).
type RelationshipProperty[T any] struct {
	Property[T]

	targetTable      string
	joinColumn       string
	referencedColumn string
	kind             RelationshipKind
}

// NewRelationshipProperty creates a relationship handle.
// Panics if column, targetTable, joinColumn or referencedColumn is empty, or
// if kind is not one of ManyToOne/OneToMany.
func NewRelationshipProperty[T any](column, targetTable, joinColumn, referencedColumn string, kind RelationshipKind) RelationshipProperty[T] {
	if targetTable == "" {
		panic("dsl: relationship target table must not be empty")
	}
	if joinColumn == "" {
		panic("dsl: relationship join column must not be empty")
	}
	if referencedColumn == "" {
		panic("dsl: relationship referenced column must not be empty")
	}
	if kind != ManyToOne && kind != OneToMany {
		panic("dsl: relationship kind must be ManyToOne or OneToMany")
	}
	return RelationshipProperty[T]{
		Property:         NewProperty[T](column),
		targetTable:      targetTable,
		joinColumn:       joinColumn,
		referencedColumn: referencedColumn,
		kind:             kind,
	}
}

// TargetTable returns the associated table's name.
func (p RelationshipProperty[T]) TargetTable() string { return p.targetTable }

// JoinColumn returns the foreign key column of the association.
func (p RelationshipProperty[T]) JoinColumn() string { return p.joinColumn }

// ReferencedColumn returns the column the foreign key refers to.
func (p RelationshipProperty[T]) ReferencedColumn() string { return p.referencedColumn }

// Kind returns the relationship direction.
func (p RelationshipProperty[T]) Kind() RelationshipKind { return p.kind }

// InnerJoin derives an INNER JOIN clause for this relationship.
func (p RelationshipProperty[T]) InnerJoin() JoinClause { return p.joinClause(JoinInner, "") }

// InnerJoinAs derives an INNER JOIN clause with a table alias.
func (p RelationshipProperty[T]) InnerJoinAs(alias string) JoinClause {
	return p.joinClause(JoinInner, alias)
}

// LeftJoin derives a LEFT JOIN clause for this relationship.
func (p RelationshipProperty[T]) LeftJoin() JoinClause { return p.joinClause(JoinLeft, "") }

// LeftJoinAs derives a LEFT JOIN clause with a table alias.
func (p RelationshipProperty[T]) LeftJoinAs(alias string) JoinClause {
	return p.joinClause(JoinLeft, alias)
}

// RightJoin derives a RIGHT JOIN clause for this relationship.
func (p RelationshipProperty[T]) RightJoin() JoinClause { return p.joinClause(JoinRight, "") }

// RightJoinAs derives a RIGHT JOIN clause with a table alias.
func (p RelationshipProperty[T]) RightJoinAs(alias string) JoinClause {
	return p.joinClause(JoinRight, alias)
}

// FullOuterJoin derives a FULL OUTER JOIN clause for this relationship.
func (p RelationshipProperty[T]) FullOuterJoin() JoinClause { return p.joinClause(JoinFullOuter, "") }

// FullOuterJoinAs derives a FULL OUTER JOIN clause with a table alias.
func (p RelationshipProperty[T]) FullOuterJoinAs(alias string) JoinClause {
	return p.joinClause(JoinFullOuter, alias)
}

func (p RelationshipProperty[T]) joinClause(joinType JoinType, alias string) JoinClause {
	target := p.targetTable
	if alias != "" {
		target = alias
	}

	var condition Predicate
	if p.kind == ManyToOne {
		condition = SimplePredicate{
			Column:   p.joinColumn,
			Operator: OpEq,
			Value:    target + "." + p.referencedColumn,
		}
	} else {
		condition = SimplePredicate{
			Column:   p.referencedColumn,
			Operator: OpEq,
			Value:    target + "." + p.joinColumn,
		}
	}

	return JoinClause{
		Type:      joinType,
		Table:     p.targetTable,
		Alias:     alias,
		Condition: condition,
	}
}
